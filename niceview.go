/*
Package niceview is a library for generating the slideshow artwork of a
nice!view display from a directory of ordinary images.

Images are ordered and renamed by the order package, converted to 1-bit
bitmaps by the convert package and emitted as C by the cgen package.
*/
package niceview

import (
	"errors"

	"github.com/bodgit/niceview/config"
	"github.com/bodgit/niceview/convert"
	"go.uber.org/zap"
)

// ErrNoImages is returned when there is nothing to generate.
var ErrNoImages = errors.New("niceview: no images to generate")

// NiceView runs the artwork pipeline for one configuration.
type NiceView struct {
	cfg       *config.Config
	converter *convert.Converter
	cache     *Cache
	logger    *zap.Logger
}

// New returns a NiceView for cfg, opening the conversion cache if one is
// configured. A nil logger discards all output.
func New(cfg *config.Config, logger *zap.Logger) (*NiceView, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	c, err := convert.New(cfg.Options(), logger.Named("convert"))
	if err != nil {
		return nil, err
	}

	n := &NiceView{
		cfg:       cfg,
		converter: c,
		logger:    logger,
	}

	if cfg.Cache != "" {
		if n.cache, err = OpenCache(cfg.Cache); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// Close releases the conversion cache.
func (n *NiceView) Close() error {
	if n.cache != nil {
		return n.cache.Close()
	}
	return nil
}
