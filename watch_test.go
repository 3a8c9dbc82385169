package niceview

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSupported(t *testing.T) {
	assert.True(t, supported("art/a.png"))
	assert.True(t, supported("art/A.JPEG"))
	assert.False(t, supported("art/notes.txt"))
	assert.False(t, supported("art/.a.png"))
	assert.False(t, supported("art/previews"))
}

func waitFor(t *testing.T, results <-chan *Result, images int) {
	t.Helper()
	timeout := time.After(30 * time.Second)
	for {
		select {
		case r := <-results:
			if r != nil && len(r.Generated()) == images {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %d images", images)
		}
	}
}

func TestWatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig(t)
	cfg.Previews = false
	art(t, cfg, "a.png")
	n := newTest(t, cfg)

	results := make(chan *Result, 64)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)

	go func() {
		done <- n.Watch(ctx, 50*time.Millisecond, func(r *Result, err error) {
			select {
			case results <- r:
			default:
			}
		})
	}()

	waitFor(t, results, 1)
	assert.FileExists(t, filepath.Join(cfg.ArtDir, "01_a.png"))

	art(t, cfg, "b.png")
	waitFor(t, results, 2)

	cancel()
	require.NoError(t, <-done)

	assert.FileExists(t, filepath.Join(cfg.ArtDir, "02_b.png"))
}

func TestWatchMissingDir(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig(t)
	cfg.ArtDir = filepath.Join(t.TempDir(), "missing")
	n := newTest(t, cfg)

	err := n.Watch(context.Background(), time.Millisecond, func(*Result, error) {})
	assert.Error(t, err)
}
