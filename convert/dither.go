package convert

import (
	"image"
	"image/draw"

	"github.com/bodgit/niceview/lvgl"
	"github.com/disintegration/gift"
)

const (
	threshold        = 128
	adaptiveSize     = 11
	adaptiveBias     = 5
	atkinsonFraction = 1.0 / 8
)

// Atkinson diffusion only spreads 6/8 of the error which keeps highlights
// and shadows clean on small panels.
var atkinson = []image.Point{
	image.Pt(1, 0), image.Pt(2, 0),
	image.Pt(-1, 1), image.Pt(0, 1), image.Pt(1, 1),
	image.Pt(0, 2),
}

func atkinsonDither(m *image.Gray) *image.Paletted {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()

	buf := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf[y*w+x] = float64(m.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		}
	}

	out := image.NewPaletted(image.Rect(0, 0, w, h), lvgl.Palette)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			old := buf[y*w+x]
			var level float64
			if old > threshold {
				level = 255
				out.SetColorIndex(x, y, 1)
			}
			e := (old - level) * atkinsonFraction
			for _, d := range atkinson {
				nx, ny := x+d.X, y+d.Y
				if nx < 0 || nx >= w || ny >= h {
					continue
				}
				buf[ny*w+nx] += e
			}
		}
	}

	return out
}

func floydSteinbergDither(m *image.Gray) *image.Paletted {
	out := image.NewPaletted(image.Rect(0, 0, m.Bounds().Dx(), m.Bounds().Dy()), lvgl.Palette)
	draw.FloydSteinberg.Draw(out, out.Bounds(), m, m.Bounds().Min)
	return out
}

// adaptiveThreshold compares every pixel against the mean of its 11x11
// neighbourhood instead of a global level.
func adaptiveThreshold(m *image.Gray) *image.Paletted {
	mean := applyFilter(m, gift.Mean(adaptiveSize, false))
	b := m.Bounds()
	out := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), lvgl.Palette)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			p := int(m.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			t := int(mean.GrayAt(mean.Bounds().Min.X+x, mean.Bounds().Min.Y+y).Y) - adaptiveBias
			if p > t {
				out.SetColorIndex(x, y, 1)
			}
		}
	}
	return out
}

func dither(m *image.Gray, method Dither) *image.Paletted {
	switch method {
	case DitherFloydSteinberg:
		return floydSteinbergDither(m)
	case DitherThresholdAdaptive:
		return adaptiveThreshold(m)
	default:
		return atkinsonDither(m)
	}
}
