package niceview

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/niceview/config"
	"github.com/stretchr/testify/require"
)

const peripheralSource = `#include <zephyr/kernel.h>

LV_IMG_DECLARE(landscape1);

const lv_img_dsc_t *anim_imgs[] = {
    &landscape1,
};

static void draw_top(lv_obj_t *widget) {}
`

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	m := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetGray(x, y, color.Gray{Y: uint8((x + y) * 255 / (w + h))})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, m))
	require.NoError(t, f.Close())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.ArtDir = filepath.Join(dir, "art")
	cfg.Output = filepath.Join(dir, "widgets", "art.c")
	cfg.PeripheralStatus = filepath.Join(dir, "widgets", "peripheral_status.c")
	cfg.BackupDir = filepath.Join(dir, "backup")
	cfg.Workers = 2

	require.NoError(t, os.MkdirAll(cfg.ArtDir, 0755))
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.PeripheralStatus), 0755))
	require.NoError(t, os.WriteFile(cfg.PeripheralStatus, []byte(peripheralSource), 0644))

	return cfg
}

func newTest(t *testing.T, cfg *config.Config) *NiceView {
	t.Helper()
	n, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		n.Close()
	})
	return n
}

func art(t *testing.T, cfg *config.Config, names ...string) {
	t.Helper()
	for _, name := range names {
		writePNG(t, filepath.Join(cfg.ArtDir, name), 40, 80)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Workers = 0
	_, err := New(cfg, nil)
	require.Error(t, err)
}
