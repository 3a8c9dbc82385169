package niceview

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bodgit/niceview/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDoesNotRename(t *testing.T) {
	cfg := testConfig(t)
	art(t, cfg, "sunset.png", "05_forest.png")
	n := newTest(t, cfg)

	r, err := n.Check()
	require.NoError(t, err)
	require.Len(t, r.Files, 2)
	assert.Equal(t, "05_forest.png", r.Files[0].Filename)
	assert.Equal(t, "sunset.png", r.Files[1].Filename)
	assert.Len(t, r.Drift, 1)

	assert.FileExists(t, filepath.Join(cfg.ArtDir, "sunset.png"))
	assert.NoFileExists(t, cfg.Output)
}

func TestRename(t *testing.T) {
	cfg := testConfig(t)
	art(t, cfg, "b.png", "a.png")
	n := newTest(t, cfg)

	outcomes, err := n.Rename()
	require.NoError(t, err)
	assert.Equal(t, order.Summary{Renamed: 2}, order.Summarize(outcomes))
	assert.FileExists(t, filepath.Join(cfg.ArtDir, "01_a.png"))
	assert.FileExists(t, filepath.Join(cfg.ArtDir, "02_b.png"))
}

func TestGenerate(t *testing.T) {
	cfg := testConfig(t)
	art(t, cfg, "sunset.png", "01_mountain.png", "02_forest.png")
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ArtDir, "notes.txt"), []byte("notes"), 0644))
	n := newTest(t, cfg)

	r, err := n.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, order.Summary{Renamed: 1, Skipped: 2}, order.Summarize(r.Renames))
	require.Len(t, r.Images, 3)
	assert.Empty(t, r.Failed())
	assert.True(t, r.Declarations)

	var names []string
	for _, img := range r.Images {
		names = append(names, img.File.Filename)
	}
	assert.Equal(t, []string{"01_mountain.png", "02_forest.png", "03_sunset.png"}, names)

	b, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	src := string(b)
	for _, id := range []string{"image1", "image2", "image3"} {
		assert.Contains(t, src, "const lv_img_dsc_t "+id+" = {")
	}
	assert.NotContains(t, src, "image4")
	assert.Contains(t, src, ".data_size = 1268,")

	b, err = os.ReadFile(cfg.PeripheralStatus)
	require.NoError(t, err)
	assert.Contains(t, string(b), "LV_IMG_DECLARE(image3);")
	assert.Contains(t, string(b), "static void draw_top")
	assert.NotContains(t, string(b), "landscape1")

	for _, img := range r.Images {
		assert.FileExists(t, img.Preview)
	}
	assert.FileExists(t, filepath.Join(cfg.PreviewPath(), "image3_preview_03_sunset.png"))

	// A second run renames nothing and produces the same output
	again, err := n.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, order.Summary{Skipped: 3}, order.Summarize(again.Renames))

	b2, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, src, string(b2))
}

func TestGenerateRanksAfterRename(t *testing.T) {
	cfg := testConfig(t)
	cfg.Previews = false
	art(t, cfg, "05_a.png", "b.png")
	n := newTest(t, cfg)

	r, err := n.Generate(context.Background())
	require.NoError(t, err)

	require.Len(t, r.Renames, 2)
	assert.Equal(t, filepath.Join(cfg.ArtDir, "02_b.png"), r.Renames[1].NewPath)

	require.Len(t, r.Images, 2)
	assert.Equal(t, "02_b.png", r.Images[0].File.Filename)
	assert.Equal(t, 1, r.Images[0].File.Rank)
	assert.Equal(t, "05_a.png", r.Images[1].File.Filename)
	assert.Equal(t, 2, r.Images[1].File.Rank)

	require.Len(t, r.Report.Drift, 2)
	assert.Equal(t, order.Drift{File: r.Images[0].File, Prefix: 2, Rank: 1}, r.Report.Drift[0])
}

func TestGenerateSkipsBrokenImage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Previews = false
	art(t, cfg, "01_a.png", "03_c.png")
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ArtDir, "02_b.png"), []byte("not a png"), 0644))
	n := newTest(t, cfg)

	r, err := n.Generate(context.Background())
	require.NoError(t, err)

	failed := r.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "02_b.png", failed[0].File.Filename)

	generated := r.Generated()
	require.Len(t, generated, 2)
	assert.Equal(t, 1, generated[0].Rank)
	assert.Equal(t, 3, generated[1].Rank)

	b, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Contains(t, string(b), "image1_map")
	assert.NotContains(t, string(b), "image2_map")
	assert.Contains(t, string(b), "image3_map")

	b, err = os.ReadFile(cfg.PeripheralStatus)
	require.NoError(t, err)
	assert.Contains(t, string(b), "    &image1,\n    &image3,\n};")

	_, err = os.Stat(cfg.PreviewPath())
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateMissingPeripheralStatus(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.Remove(cfg.PeripheralStatus))
	art(t, cfg, "a.png")
	n := newTest(t, cfg)

	r, err := n.Generate(context.Background())
	require.NoError(t, err)
	assert.False(t, r.Declarations)
	assert.FileExists(t, cfg.Output)
}

func TestGenerateEmpty(t *testing.T) {
	cfg := testConfig(t)
	n := newTest(t, cfg)

	r, err := n.Generate(context.Background())
	assert.ErrorIs(t, err, ErrNoImages)
	require.NotNil(t, r)
	assert.Empty(t, r.Report.Files)
	assert.NoFileExists(t, cfg.Output)
}

func TestGenerateMissingArtDir(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.Remove(cfg.ArtDir))
	n := newTest(t, cfg)

	_, err := n.Generate(context.Background())

	var cerr *order.ConfigError
	assert.ErrorAs(t, err, &cerr)
	assert.NoFileExists(t, cfg.Output)
}

func TestGenerateCancelled(t *testing.T) {
	cfg := testConfig(t)
	art(t, cfg, "a.png", "b.png")
	n := newTest(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := n.Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, cfg.Output)
}

func TestPreviewName(t *testing.T) {
	f := order.NewImageFile("art/03_sunset.jpg")
	f.Rank = 3
	assert.Equal(t, "image3_preview_03_sunset.png", PreviewName(f))
}

func TestCompare(t *testing.T) {
	cfg := testConfig(t)
	art(t, cfg, "b.png", "a.png")
	n := newTest(t, cfg)

	dir := filepath.Join(t.TempDir(), "comparison")
	written, err := n.Compare(context.Background(), dir)
	require.NoError(t, err)

	// 4 scaling methods x 3 dithering methods, plus with and without aspect
	assert.Len(t, written, 14)
	for _, p := range written {
		assert.FileExists(t, p)
		assert.True(t, strings.HasPrefix(filepath.Base(p), "a_"), p)
	}
	assert.Contains(t, written, filepath.Join(dir, "a_stretched.png"))
	assert.Contains(t, written, filepath.Join(dir, "a_content_aware_floyd_steinberg.png"))
}

func TestCompareEmpty(t *testing.T) {
	n := newTest(t, testConfig(t))
	_, err := n.Compare(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrNoImages)
}
