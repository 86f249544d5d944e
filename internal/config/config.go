// Package config loads the generator settings from a TOML file layered over
// built-in defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"chosenoffset.com/genplaceholders/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// ProjectFileName is picked up from the working directory when no config
// path is given
const ProjectFileName = "genplaceholders.toml"

// Paths locates the resource tree and catalog
type Paths struct {
	ResourceDir     string `toml:"resource_dir"`
	Catalog         string `toml:"catalog"`
	DefaultManifest string `toml:"default_manifest"`
}

// Image holds defaults for image entries
type Image struct {
	DefaultWidth  int `toml:"default_width"`
	DefaultHeight int `toml:"default_height"`
	TileSize      int `toml:"tile_size"`
}

// Audio holds defaults for tone entries
type Audio struct {
	SampleRate   int     `toml:"sample_rate"`
	Amplitude    int     `toml:"amplitude"`
	ToneSeconds  float64 `toml:"tone_seconds"`
	MinFrequency float64 `toml:"min_frequency"`
	MaxFrequency float64 `toml:"max_frequency"`
}

// ToneDuration converts ToneSeconds to a duration
func (a Audio) ToneDuration() time.Duration {
	return time.Duration(a.ToneSeconds * float64(time.Second))
}

// Manifest controls how manifest lines are written
type Manifest struct {
	ASCIIOnly bool `toml:"ascii_only"`
}

// Generate controls the generator run
type Generate struct {
	Workers int `toml:"workers"`
}

// Logging controls log output
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full generator configuration.
//
// Sections:
//   - Paths: resource root, catalog file and default manifest
//   - Image: default image size and sprite tile size
//   - Audio: tone sample rate, amplitude, length and frequency range
//   - Manifest: manifest line rendering
//   - Generate: concurrency
//   - Logging: level and format
type Config struct {
	Paths    Paths    `toml:"paths"`
	Image    Image    `toml:"image"`
	Audio    Audio    `toml:"audio"`
	Manifest Manifest `toml:"manifest"`
	Generate Generate `toml:"generate"`
	Logging  Logging  `toml:"logging"`
}

// Load reads the configuration at path over the defaults. An empty path
// falls back to ProjectFileName in the working directory; a missing file is
// not an error. Returns the config, the resolved path and whether it existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		path = ProjectFileName
	}
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// Marshal renders the configuration as TOML
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// CreateSample writes the annotated sample configuration to path, creating
// parent directories
func CreateSample(path string) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, err := io.WriteString(w, sampleConfig)
		return err
	})
	if err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading "~" against the home directory and makes the
// path absolute. An empty path stays empty.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}
