package niceview

import (
	"bytes"
	"context"
	"os"

	"github.com/bodgit/niceview/cgen"
	"github.com/bodgit/niceview/convert"
	"github.com/bodgit/niceview/lvgl"
	"github.com/bodgit/niceview/order"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Image is the conversion result for one ranked file.
type Image struct {
	File    order.ImageFile
	Bitmap  cgen.Bitmap
	Cached  bool
	Preview string
	Err     error
}

func (n *NiceView) convertFile(c *convert.Converter, f order.ImageFile) Image {
	img := Image{File: f}

	b, err := os.ReadFile(f.Path)
	if err != nil {
		img.Err = err
		return img
	}

	opts := c.Options()
	img.Bitmap = cgen.Bitmap{
		Rank:   f.Rank,
		Width:  opts.Width,
		Height: opts.Height,
	}

	sha := checksum(b)
	if n.cache != nil {
		data, err := n.cache.Get(sha, opts.Fingerprint())
		if err != nil {
			n.logger.Warn("cache lookup failed", zap.String("file", f.Filename), zap.Error(err))
		}
		if len(data) == lvgl.Size(opts.Width, opts.Height) {
			img.Bitmap.Data, img.Cached = data, true
			return img
		}
	}

	m, err := convert.Decode(bytes.NewReader(b))
	if err != nil {
		img.Err = err
		return img
	}

	pm, err := c.Convert(m)
	if err != nil {
		img.Err = err
		return img
	}

	if img.Bitmap.Data, err = lvgl.Marshal(pm); err != nil {
		img.Err = err
		return img
	}

	if n.cache != nil {
		if err := n.cache.Put(sha, opts.Fingerprint(), img.Bitmap.Data); err != nil {
			n.logger.Warn("cache store failed", zap.String("file", f.Filename), zap.Error(err))
		}
	}

	return img
}

// convertAll converts every file using a bounded pool of workers. Results
// are returned in the same order as files; a failed image is reported in
// its Err field and does not stop the others.
func (n *NiceView) convertAll(ctx context.Context, c *convert.Converter, files []order.ImageFile) ([]Image, error) {
	images := make([]Image, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(n.cfg.Workers)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			images[i] = n.convertFile(c, f)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return images, nil
}
