package convert

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

const (
	// Aspect ratios within this fraction of each other are stretched
	// rather than padded.
	aspectTolerance = 0.01

	edgeThreshold    = 30
	edgeBoost        = 1.2
	edgeDensityLimit = 0.1
	diffThreshold    = 20
)

// Geometry describes where a scaled image sits on the display canvas.
type Geometry struct {
	Width   int
	Height  int
	PadLeft int
	PadTop  int
	Padded  bool
}

// Fit scales orig to fit inside target while keeping its aspect ratio. When
// the ratios differ the image is centred horizontally and pushed to the
// bottom of the canvas.
func Fit(orig, target image.Point) Geometry {
	origAspect := float64(orig.X) / float64(orig.Y)
	targetAspect := float64(target.X) / float64(target.Y)

	scale := math.Min(float64(target.X)/float64(orig.X), float64(target.Y)/float64(orig.Y))

	g := Geometry{
		Width:  max(1, int(float64(orig.X)*scale)),
		Height: max(1, int(float64(orig.Y)*scale)),
		Padded: math.Abs(origAspect-targetAspect)/targetAspect > aspectTolerance,
	}

	if g.Padded {
		g.PadLeft = (target.X - g.Width) / 2
		g.PadTop = target.Y - g.Height
	}

	return g
}

func toGray(m image.Image) *image.Gray {
	if g, ok := m.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := m.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), m, b.Min, draw.Src)
	return g
}

func resample(m image.Image, w, h int, filter imaging.ResampleFilter) *image.Gray {
	return toGray(imaging.Resize(m, max(1, w), max(1, h), filter))
}

func applyFilter(m *image.Gray, filters ...gift.Filter) *image.Gray {
	g := gift.New(filters...)
	dst := image.NewGray(g.Bounds(m.Bounds()))
	g.Draw(dst, m)
	return dst
}

func reduction(src image.Point, w, h int) float64 {
	return math.Max(float64(src.X)/float64(w), float64(src.Y)/float64(h))
}

// edgeDensity is the fraction of vertically adjacent pixel pairs that differ
// by more than diffThreshold.
func edgeDensity(m *image.Gray) float64 {
	b := m.Bounds()
	if b.Empty() {
		return 0
	}
	var n int
	for y := b.Min.Y; y < b.Max.Y-1; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := int(m.GrayAt(x, y+1).Y) - int(m.GrayAt(x, y).Y)
			if d > diffThreshold || d < -diffThreshold {
				n++
			}
		}
	}
	return float64(n) / float64(b.Dx()*b.Dy())
}

func (c *Converter) pick(m *image.Gray, w, h int) Scaling {
	factor := reduction(m.Bounds().Size(), w, h)
	density := edgeDensity(m)
	switch {
	case density > edgeDensityLimit:
		c.logger.Debug("high edge density", zap.Float64("density", density))
		return ScalingEdgePreserving
	case factor > 10:
		c.logger.Debug("high reduction", zap.Float64("factor", factor))
		return ScalingContentAware
	default:
		return ScalingAreaSampling
	}
}

func contentAware(m *image.Gray, w, h int) *image.Gray {
	size := m.Bounds().Size()
	factor := reduction(size, w, h)
	switch {
	case factor > 8:
		// Three passes for very large reductions
		s := resample(m, size.X/3, size.Y/3, imaging.Lanczos)
		s = resample(s, int(float64(w)*1.5), int(float64(h)*1.5), imaging.CatmullRom)
		return resample(s, w, h, imaging.Lanczos)
	case factor > 4:
		s := resample(m, w*2, h*2, imaging.Lanczos)
		return resample(s, w, h, imaging.CatmullRom)
	default:
		return resample(m, w, h, imaging.Lanczos)
	}
}

func edgePreserving(m *image.Gray, w, h int) *image.Gray {
	edges := applyFilter(m, gift.Sobel())

	scaled := resample(m, w, h, imaging.Lanczos)
	edgeMap := toGray(resize.Resize(uint(w), uint(h), edges, resize.NearestNeighbor))

	b := scaled.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if edgeMap.GrayAt(x, y).Y > edgeThreshold {
				i := scaled.PixOffset(x, y)
				scaled.Pix[i] = clamp(float64(scaled.Pix[i]) * edgeBoost)
			}
		}
	}

	return scaled
}

func (c *Converter) scale(m *image.Gray) *image.Gray {
	w, h := c.opts.Width, c.opts.Height

	var g Geometry
	if c.opts.KeepAspect {
		g = Fit(m.Bounds().Size(), image.Pt(w, h))
		c.logger.Debug("fitting",
			zap.Int("width", g.Width),
			zap.Int("height", g.Height),
			zap.Int("pad_left", g.PadLeft),
			zap.Int("pad_top", g.PadTop))
	} else {
		g = Geometry{Width: w, Height: h}
	}

	method := c.opts.Scaling
	if method == ScalingAdaptive {
		method = c.pick(m, g.Width, g.Height)
	}
	c.logger.Debug("scaling", zap.String("method", string(method)))

	var scaled *image.Gray
	switch method {
	case ScalingEdgePreserving:
		scaled = edgePreserving(m, g.Width, g.Height)
	case ScalingAreaSampling:
		scaled = resample(m, g.Width, g.Height, imaging.Box)
	default:
		scaled = contentAware(m, g.Width, g.Height)
	}

	if scaled.Bounds().Size() == image.Pt(w, h) {
		return scaled
	}

	// Black canvas, image drawn at its padded offset
	canvas := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(canvas, scaled.Bounds().Add(image.Pt(g.PadLeft, g.PadTop)), scaled, image.Point{}, draw.Src)
	return canvas
}
