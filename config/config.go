/*
Package config holds the niceview settings, normally read from a
niceview.yaml file at the root of the keyboard config repository.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bodgit/niceview/convert"
	"github.com/bodgit/niceview/lvgl"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is looked for in the working directory when no config
// file is given.
const DefaultFilename = "niceview.yaml"

// Config holds all niceview configuration. Relative paths are relative to
// the working directory.
type Config struct {
	// Directory of source images
	ArtDir string `yaml:"art_dir"`

	// Generated C sources
	Output           string `yaml:"output"`
	PeripheralStatus string `yaml:"peripheral_status"`

	// Byte-accurate PNG renders of what the display will show
	Previews   bool   `yaml:"previews"`
	PreviewDir string `yaml:"preview_dir"`

	BackupDir string `yaml:"backup_dir"`

	// Optional SQLite database of previous conversions
	Cache string `yaml:"cache"`

	Workers int `yaml:"workers"`

	Display DisplayConfig `yaml:"display"`
}

// DisplayConfig controls image conversion.
type DisplayConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Scaling    string `yaml:"scaling"`
	Dither     string `yaml:"dither"`
	KeepAspect bool   `yaml:"keep_aspect"`
}

// DefaultConfig returns the layout of a nice_view_custom shield.
func DefaultConfig() *Config {
	return &Config{
		ArtDir:           "./art",
		Output:           "./boards/shields/nice_view_custom/widgets/art.c",
		PeripheralStatus: "./boards/shields/nice_view_custom/widgets/peripheral_status.c",
		Previews:         true,
		BackupDir:        "./art_backup",
		Workers:          4,
		Display: DisplayConfig{
			Width:      lvgl.Width,
			Height:     lvgl.Height,
			Scaling:    string(convert.ScalingContentAware),
			Dither:     string(convert.DitherErrorDiffusion),
			KeepAspect: true,
		},
	}
}

// Load reads the config at path on top of the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to path.
func (c *Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Options returns the conversion settings.
func (c *Config) Options() convert.Options {
	return convert.Options{
		Width:      c.Display.Width,
		Height:     c.Display.Height,
		Scaling:    convert.Scaling(c.Display.Scaling),
		Dither:     convert.Dither(c.Display.Dither),
		KeepAspect: c.Display.KeepAspect,
	}
}

// PreviewPath returns where previews are written, defaulting to a
// subdirectory of the art directory.
func (c *Config) PreviewPath() string {
	if c.PreviewDir != "" {
		return c.PreviewDir
	}
	return filepath.Join(c.ArtDir, "previews")
}

// Validate checks the config is usable.
func (c *Config) Validate() error {
	if c.ArtDir == "" {
		return errors.New("config: art_dir is required")
	}
	if c.Output == "" {
		return errors.New("config: output is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	return c.Options().Validate()
}
