/*
Package convert turns arbitrary raster images into 1-bit bitmaps sized for
the nice!view display.

An image is converted to grayscale, scaled to fit the display using one of
several resampling strategies, sharpened and contrast boosted so that detail
survives the reduction to two levels, and finally dithered.
*/
package convert

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"

	"github.com/bodgit/niceview/lvgl"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // register BMP decoder
)

// Scaling selects how the source image is reduced to the display size.
type Scaling string

// Supported scaling methods
const (
	ScalingContentAware   Scaling = "content_aware"
	ScalingEdgePreserving Scaling = "edge_preserving"
	ScalingAreaSampling   Scaling = "area_sampling"
	ScalingAdaptive       Scaling = "adaptive"
)

// Scalings lists every scaling method in a stable order.
var Scalings = []Scaling{ScalingAdaptive, ScalingEdgePreserving, ScalingContentAware, ScalingAreaSampling}

// Dither selects how grayscale is reduced to black and white.
type Dither string

// Supported dithering methods
const (
	DitherErrorDiffusion    Dither = "error_diffusion"
	DitherFloydSteinberg    Dither = "floyd_steinberg"
	DitherThresholdAdaptive Dither = "threshold_adaptive"
)

// Dithers lists every dithering method in a stable order.
var Dithers = []Dither{DitherFloydSteinberg, DitherThresholdAdaptive, DitherErrorDiffusion}

// Bumped whenever the output of an unchanged set of Options changes, so
// cached conversions are not reused.
const algorithmVersion = 1

// Options controls a conversion.
type Options struct {
	Width      int
	Height     int
	Scaling    Scaling
	Dither     Dither
	KeepAspect bool
}

// DefaultOptions returns the settings used for generated artwork.
func DefaultOptions() Options {
	return Options{
		Width:      lvgl.Width,
		Height:     lvgl.Height,
		Scaling:    ScalingContentAware,
		Dither:     DitherErrorDiffusion,
		KeepAspect: true,
	}
}

// Validate checks the options are usable.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("convert: invalid size %dx%d", o.Width, o.Height)
	}
	switch o.Scaling {
	case ScalingContentAware, ScalingEdgePreserving, ScalingAreaSampling, ScalingAdaptive:
	default:
		return fmt.Errorf("convert: unknown scaling method %q", o.Scaling)
	}
	switch o.Dither {
	case DitherErrorDiffusion, DitherFloydSteinberg, DitherThresholdAdaptive:
	default:
		return fmt.Errorf("convert: unknown dither method %q", o.Dither)
	}
	return nil
}

// Fingerprint identifies the options in a form suitable as a cache key.
func (o Options) Fingerprint() string {
	return fmt.Sprintf("v%d/%dx%d/%s/%s/aspect=%t", algorithmVersion, o.Width, o.Height, o.Scaling, o.Dither, o.KeepAspect)
}

// Converter converts images using a fixed set of Options.
type Converter struct {
	opts   Options
	logger *zap.Logger
}

// New returns a Converter. A nil logger discards all output.
func New(opts Options, logger *zap.Logger) (*Converter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		opts:   opts,
		logger: logger,
	}, nil
}

// Options returns the converter settings.
func (c *Converter) Options() Options {
	return c.opts
}

// Convert returns m as a Width by Height black and white image using
// lvgl.Palette.
func (c *Converter) Convert(m image.Image) (*image.Paletted, error) {
	b := m.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("convert: image is empty")
	}

	c.logger.Debug("converting",
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
		zap.Float64("aspect", float64(b.Dx())/float64(b.Dy())),
		zap.Float64("target_aspect", float64(c.opts.Width)/float64(c.opts.Height)))

	gray := toGray(m)
	gray = c.scale(gray)
	gray = enhance(gray)

	return dither(gray, c.opts.Dither), nil
}

// Decode reads a PNG, JPEG, GIF or BMP image from r. Animated GIFs yield
// their first frame.
func Decode(r io.Reader) (image.Image, error) {
	m, _, err := image.Decode(r)
	return m, err
}

// Load decodes the image at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("convert: %s: %w", path, err)
	}
	return m, nil
}

// ConvertFile loads and converts the image at path.
func (c *Converter) ConvertFile(path string) (*image.Paletted, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	return c.Convert(m)
}
