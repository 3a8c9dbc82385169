package niceview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/niceview/cgen"
	"github.com/bodgit/niceview/convert"
	"github.com/bodgit/niceview/lvgl"
	"go.uber.org/zap"
)

type variant struct {
	name string
	opts convert.Options
}

func (n *NiceView) variants() []variant {
	base := n.cfg.Options()

	var vs []variant
	for _, s := range convert.Scalings {
		for _, d := range convert.Dithers {
			o := base
			o.Scaling, o.Dither = s, d
			vs = append(vs, variant{fmt.Sprintf("%s_%s", s, d), o})
		}
	}

	aspect, stretched := base, base
	aspect.KeepAspect, stretched.KeepAspect = true, false
	return append(vs, variant{"with_aspect", aspect}, variant{"stretched", stretched})
}

// Compare renders the first ranked image with every combination of scaling
// and dithering method, plus with and without aspect ratio preservation,
// into dir. It returns the paths written.
func (n *NiceView) Compare(ctx context.Context, dir string) ([]string, error) {
	r, err := n.Check()
	if err != nil {
		return nil, err
	}
	if len(r.Files) == 0 {
		return nil, ErrNoImages
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f := r.Files[0]
	src, err := convert.Load(f.Path)
	if err != nil {
		return nil, err
	}
	stem := strings.TrimSuffix(f.Filename, filepath.Ext(f.Filename))

	var written []string
	for _, v := range n.variants() {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		c, err := convert.New(v.opts, n.logger.Named("convert"))
		if err != nil {
			return written, err
		}

		m, err := c.Convert(src)
		if err != nil {
			n.logger.Error("comparison failed", zap.String("variant", v.name), zap.Error(err))
			continue
		}

		data, err := lvgl.Marshal(m)
		if err != nil {
			n.logger.Error("comparison failed", zap.String("variant", v.name), zap.Error(err))
			continue
		}

		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stem, v.name))
		if err := writePreview(path, cgen.Bitmap{Rank: f.Rank, Width: v.opts.Width, Height: v.opts.Height, Data: data}); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}
