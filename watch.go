package niceview

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/bodgit/niceview/order"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// supported mirrors order.Scan: hidden AppleDouble and Spotlight files never
// trigger a run.
func supported(name string) bool {
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	ext := filepath.Ext(name)
	for _, e := range order.DefaultExtensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// Watch runs Generate once and then again whenever images in the art
// directory change, waiting until no change has been seen for debounce.
// fn is called with the outcome of every run. Watch returns when ctx is
// cancelled.
func (n *NiceView) Watch(ctx context.Context, debounce time.Duration, fn func(*Result, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(n.cfg.ArtDir); err != nil {
		return err
	}

	run := func() {
		r, err := n.Generate(ctx)
		if ctx.Err() != nil {
			return
		}
		fn(r, err)
	}

	run()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !supported(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			n.logger.Debug("change", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			n.logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			run()
		}
	}
}
