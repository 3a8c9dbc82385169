package convert

import (
	"image"
	"image/color"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
)

const (
	localContrastSize   = 5
	localContrastAmount = 0.3

	unsharpSigma     = 0.8
	unsharpAmount    = 1.5
	unsharpThreshold = 3.0 / 255

	contrastFactor = 1.4
)

func clamp(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// localContrast pushes every pixel away from the mean of its neighbourhood.
func localContrast(m *image.Gray) *image.Gray {
	mean := applyFilter(m, gift.Mean(localContrastSize, false))
	out := image.NewGray(m.Bounds())
	for i, p := range m.Pix {
		v := float64(p)
		out.Pix[i] = clamp(v + localContrastAmount*(v-float64(mean.Pix[i])))
	}
	return out
}

func meanLevel(m *image.Gray) float64 {
	if len(m.Pix) == 0 {
		return 0
	}
	var sum int
	for _, p := range m.Pix {
		sum += int(p)
	}
	return float64(sum) / float64(len(m.Pix))
}

// contrast scales each pixel's distance from the image mean by factor.
func contrast(m *image.Gray, factor float64) *image.Gray {
	mean := meanLevel(m)
	return toGray(imaging.AdjustFunc(m, func(c color.NRGBA) color.NRGBA {
		v := clamp(mean + factor*(float64(c.R)-mean))
		return color.NRGBA{v, v, v, c.A}
	}))
}

// enhance prepares a scaled image for reduction to two levels.
func enhance(m *image.Gray) *image.Gray {
	m = localContrast(m)
	m = applyFilter(m, gift.UnsharpMask(unsharpSigma, unsharpAmount, unsharpThreshold))
	return contrast(m, contrastFactor)
}
