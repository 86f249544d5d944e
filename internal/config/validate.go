package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

func (c *Config) normalize() error {
	var err error

	if strings.TrimSpace(c.Paths.ResourceDir) == "" {
		c.Paths.ResourceDir = defaultResourceDir
	}
	if c.Paths.ResourceDir, err = ExpandPath(strings.TrimSpace(c.Paths.ResourceDir)); err != nil {
		return fmt.Errorf("paths.resource_dir: %w", err)
	}
	if c.Paths.Catalog, err = ExpandPath(strings.TrimSpace(c.Paths.Catalog)); err != nil {
		return fmt.Errorf("paths.catalog: %w", err)
	}
	c.Paths.DefaultManifest = filepath.ToSlash(strings.TrimSpace(c.Paths.DefaultManifest))
	if c.Paths.DefaultManifest == "" {
		c.Paths.DefaultManifest = defaultManifest
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	return nil
}

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if filepath.IsAbs(c.Paths.DefaultManifest) || strings.HasPrefix(c.Paths.DefaultManifest, "../") {
		fail("paths.default_manifest must be relative to the resource directory")
	}

	if c.Image.DefaultWidth <= 0 || c.Image.DefaultHeight <= 0 {
		fail("image.default_width and image.default_height must be positive")
	}
	if c.Image.TileSize <= 0 {
		fail("image.tile_size must be positive")
	}

	if c.Audio.SampleRate < 1000 || c.Audio.SampleRate > 192000 {
		fail("audio.sample_rate must be between 1000 and 192000")
	}
	if c.Audio.Amplitude <= 0 || c.Audio.Amplitude > math.MaxInt16 {
		fail("audio.amplitude must be between 1 and %d", math.MaxInt16)
	}
	if c.Audio.ToneSeconds <= 0 {
		fail("audio.tone_seconds must be positive")
	}
	if c.Audio.MinFrequency <= 0 || c.Audio.MaxFrequency < c.Audio.MinFrequency {
		fail("audio.min_frequency must be positive and not above audio.max_frequency")
	}
	if nyquist := float64(c.Audio.SampleRate) / 2; c.Audio.MaxFrequency >= nyquist && c.Audio.SampleRate > 0 {
		fail("audio.max_frequency must be below half the sample rate (%.0f Hz)", nyquist)
	}

	if c.Generate.Workers <= 0 {
		fail("generate.workers must be positive")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		fail("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		fail("logging.format %q is not one of console, json", c.Logging.Format)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}
