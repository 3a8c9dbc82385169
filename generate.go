package niceview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/niceview/cgen"
	"github.com/bodgit/niceview/lvgl"
	"github.com/bodgit/niceview/order"
	"go.uber.org/zap"
)

// Result describes a Generate run.
type Result struct {
	Renames      []order.Outcome
	Report       *order.Report
	Images       []Image
	Declarations bool
}

// Generated returns the successfully converted bitmaps in rank order.
func (r *Result) Generated() []cgen.Bitmap {
	var bitmaps []cgen.Bitmap
	for _, img := range r.Images {
		if img.Err == nil {
			bitmaps = append(bitmaps, img.Bitmap)
		}
	}
	return bitmaps
}

// Failed returns the images that could not be converted.
func (r *Result) Failed() []Image {
	var failed []Image
	for _, img := range r.Images {
		if img.Err != nil {
			failed = append(failed, img)
		}
	}
	return failed
}

// Check ranks the images in the art directory without changing anything.
func (n *NiceView) Check() (*order.Report, error) {
	r, err := order.Check(n.cfg.ArtDir, order.DefaultExtensions)
	if err != nil {
		return nil, err
	}

	for _, d := range r.Drift {
		n.logger.Warn("prefix does not match rank",
			zap.String("file", d.File.Filename),
			zap.Int("prefix", d.Prefix),
			zap.Int("rank", d.Rank))
	}

	return r, nil
}

// Rename gives every unprefixed image in the art directory a name carrying
// its rank.
func (n *NiceView) Rename() ([]order.Outcome, error) {
	files, err := order.Scan(n.cfg.ArtDir, order.DefaultExtensions)
	if err != nil {
		return nil, err
	}

	outcomes := order.Rename(order.Resolve(files))

	for _, o := range outcomes {
		switch o.Status {
		case order.StatusRenamed:
			n.logger.Info("renamed", zap.String("from", o.File.Filename), zap.String("to", filepath.Base(o.NewPath)))
		case order.StatusSkipped:
			n.logger.Debug("already named", zap.String("file", o.File.Filename))
		default:
			n.logger.Error("rename failed", zap.String("file", o.File.Filename), zap.Stringer("status", o.Status), zap.Error(o.Err))
		}
	}

	return outcomes, nil
}

// PreviewName returns the preview filename for an image.
func PreviewName(f order.ImageFile) string {
	stem := strings.TrimSuffix(f.Filename, filepath.Ext(f.Filename))
	return fmt.Sprintf("%s_preview_%s.png", f.Identifier(), stem)
}

// writePreview renders the bitmap back from its encoded bytes so the PNG
// shows exactly what the display will.
func writePreview(path string, b cgen.Bitmap) error {
	m, err := lvgl.Decode(bytes.NewReader(b.Data), b.Width, b.Height)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, m); err != nil {
		return err
	}

	return cgen.WriteFile(path, buf.Bytes())
}

func (n *NiceView) writePreviews(images []Image) error {
	dir := n.cfg.PreviewPath()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for i := range images {
		img := &images[i]
		if img.Err != nil {
			continue
		}
		path := filepath.Join(dir, PreviewName(img.File))
		if err := writePreview(path, img.Bitmap); err != nil {
			n.logger.Error("preview failed", zap.String("file", img.File.Filename), zap.Error(err))
			continue
		}
		img.Preview = path
	}

	return nil
}

func (n *NiceView) updateDeclarations(ranks []int) (bool, error) {
	path := n.cfg.PeripheralStatus
	if path == "" {
		return false, nil
	}

	switch err := cgen.UpdateDeclarationsFile(path, ranks); {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		n.logger.Warn("peripheral status source not found, skipping", zap.String("path", path))
		return false, nil
	case errors.Is(err, cgen.ErrNoDeclarations):
		n.logger.Warn("no declarations to update", zap.String("path", path))
		return false, nil
	default:
		return false, err
	}
}

// Generate renames, converts and emits every image in the art directory.
// An image that fails to convert is logged and left out of the output; the
// remaining images keep their rank-based names.
//
// Ranks are recomputed from the directory after renaming, so a file given
// a prefix by this run can rank ahead of an older prefixed file whose
// prefix is higher. Such mismatches are reported as drift.
func (n *NiceView) Generate(ctx context.Context) (*Result, error) {
	var (
		r   Result
		err error
	)

	if r.Renames, err = n.Rename(); err != nil {
		return nil, err
	}

	if r.Report, err = n.Check(); err != nil {
		return nil, err
	}

	if len(r.Report.Files) == 0 {
		return &r, ErrNoImages
	}

	for _, f := range r.Report.Files {
		n.logger.Debug("found", zap.Int("rank", f.Rank), zap.String("file", f.Filename))
	}

	if r.Images, err = n.convertAll(ctx, n.converter, r.Report.Files); err != nil {
		return nil, err
	}

	for _, img := range r.Failed() {
		n.logger.Error("conversion failed", zap.String("file", img.File.Filename), zap.Error(img.Err))
	}

	bitmaps := r.Generated()
	if len(bitmaps) == 0 {
		return &r, fmt.Errorf("%w: no image could be converted", ErrNoImages)
	}

	if n.cfg.Previews {
		if err := n.writePreviews(r.Images); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(n.cfg.Output), 0755); err != nil {
		return nil, err
	}
	if err := cgen.WriteArtFile(n.cfg.Output, bitmaps); err != nil {
		return nil, err
	}
	n.logger.Info("generated", zap.String("path", n.cfg.Output), zap.Int("images", len(bitmaps)))

	ranks := make([]int, 0, len(bitmaps))
	for _, b := range bitmaps {
		ranks = append(ranks, b.Rank)
	}
	if r.Declarations, err = n.updateDeclarations(ranks); err != nil {
		return nil, err
	}

	return &r, nil
}
