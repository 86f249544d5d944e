// Package catalog holds the asset descriptor table that drives placeholder
// generation and manifest updates.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// DefaultManifest is used when neither the catalog nor an entry names a manifest
const DefaultManifest = "resources.res"

// ErrUnsupportedKind is returned for asset paths whose extension has no generator
var ErrUnsupportedKind = errors.New("unsupported asset kind")

// Kind is the broad type of an asset file
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// KindOf derives the asset kind from the file extension
func KindOf(assetPath string) (Kind, error) {
	switch strings.ToLower(path.Ext(assetPath)) {
	case ".png", ".bmp":
		return KindImage, nil
	case ".wav":
		return KindAudio, nil
	}
	return KindUnknown, fmt.Errorf("%w: %s", ErrUnsupportedKind, assetPath)
}

// Entry describes one manifest line and the asset file it refers to
type Entry struct {
	Path      string        `yaml:"path"`                // Asset path relative to the resource root
	Directive string        `yaml:"directive"`           // e.g. SPRITE sprite_nube "sprites/Nube.png" 8 4 BEST
	Comment   string        `yaml:"comment,omitempty"`   // Free text emitted after '#'
	Manifest  string        `yaml:"manifest,omitempty"`  // Overrides the catalog manifest
	Width     int           `yaml:"width,omitempty"`     // Image width in pixels
	Height    int           `yaml:"height,omitempty"`    // Image height in pixels
	Duration  time.Duration `yaml:"duration,omitempty"`  // Tone length for audio entries
	Frequency float64       `yaml:"frequency,omitempty"` // Fixed tone frequency in Hz
}

// Kind returns the entry's asset kind, KindUnknown for unsupported extensions
func (e Entry) Kind() Kind {
	k, _ := KindOf(e.Path)
	return k
}

// Line renders the manifest line for this entry
func (e Entry) Line() string {
	directive := strings.TrimSpace(e.Directive)
	comment := strings.TrimSpace(e.Comment)
	if comment == "" {
		return directive
	}
	return directive + " # " + comment
}

// Catalog is an ordered list of asset descriptors
type Catalog struct {
	Manifest string  `yaml:"manifest,omitempty"`
	Entries  []Entry `yaml:"entries"`

	declared bool // Manifest came from the catalog file
}

// Default returns the built-in catalog
func Default() *Catalog {
	cat, err := Parse(defaultCatalog)
	if err != nil {
		// The embedded file is covered by tests.
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return cat
}

// Load reads a catalog from a YAML file
func Load(catalogPath string) (*Catalog, error) {
	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", catalogPath, err)
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", catalogPath, err)
	}
	return cat, nil
}

// Parse decodes catalog YAML and fills in the default manifest
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, err
	}
	cat.declared = strings.TrimSpace(cat.Manifest) != ""
	if !cat.declared {
		cat.Manifest = DefaultManifest
	}
	for i := range cat.Entries {
		cat.Entries[i].Path = filepath.ToSlash(strings.TrimSpace(cat.Entries[i].Path))
	}
	return &cat, nil
}

// Marshal encodes the catalog back to YAML
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// SetDefaultManifest routes entries to name when the catalog file did not
// declare a manifest
func (c *Catalog) SetDefaultManifest(name string) {
	if name = strings.TrimSpace(name); name != "" && !c.declared {
		c.Manifest = name
	}
}

// ManifestFor returns the manifest file an entry is written to
func (c *Catalog) ManifestFor(e Entry) string {
	if m := strings.TrimSpace(e.Manifest); m != "" {
		return m
	}
	if m := strings.TrimSpace(c.Manifest); m != "" {
		return m
	}
	return DefaultManifest
}

// Files returns one entry per distinct asset path, in first-seen order
func (c *Catalog) Files() []Entry {
	seen := make(map[string]bool, len(c.Entries))
	files := make([]Entry, 0, len(c.Entries))
	for _, e := range c.Entries {
		if seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		files = append(files, e)
	}
	return files
}

// ManifestNames returns the distinct manifest names in first-seen order
func (c *Catalog) ManifestNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, e := range c.Entries {
		name := c.ManifestFor(e)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Manifests groups manifest lines by the manifest they belong to
func (c *Catalog) Manifests() map[string][]string {
	out := make(map[string][]string)
	for _, e := range c.Entries {
		name := c.ManifestFor(e)
		out[name] = append(out[name], e.Line())
	}
	return out
}

// Validate checks the catalog for entries the generator cannot honour
func (c *Catalog) Validate() error {
	var errs []error

	byPath := make(map[string]Entry)
	byName := make(map[string]string)

	if m := strings.TrimSpace(c.Manifest); m != "" && !insideRoot(m) {
		errs = append(errs, fmt.Errorf("manifest %q must stay inside the resource root", m))
	}

	for i, e := range c.Entries {
		where := fmt.Sprintf("entry %d (%s)", i, e.Path)

		if e.Path == "" {
			errs = append(errs, fmt.Errorf("entry %d: path is required", i))
			continue
		}
		if !insideRoot(e.Path) {
			errs = append(errs, fmt.Errorf("%s: path must stay inside the resource root", where))
		}
		if m := strings.TrimSpace(e.Manifest); m != "" && !insideRoot(m) {
			errs = append(errs, fmt.Errorf("%s: manifest %q must stay inside the resource root", where, m))
		}
		kind, err := KindOf(e.Path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
		if e.Width < 0 || e.Height < 0 {
			errs = append(errs, fmt.Errorf("%s: invalid dimensions %dx%d", where, e.Width, e.Height))
		}
		if kind == KindAudio && (e.Width != 0 || e.Height != 0) {
			errs = append(errs, fmt.Errorf("%s: audio entries take no dimensions", where))
		}
		if kind == KindImage && (e.Duration != 0 || e.Frequency != 0) {
			errs = append(errs, fmt.Errorf("%s: image entries take no duration or frequency", where))
		}
		if e.Duration < 0 || e.Frequency < 0 {
			errs = append(errs, fmt.Errorf("%s: duration and frequency must not be negative", where))
		}

		d, err := ParseDirective(e.Directive)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
			continue
		}
		if d.Source != "" && d.Source != e.Path {
			errs = append(errs, fmt.Errorf("%s: directive references %q", where, d.Source))
		}

		if prev, ok := byPath[e.Path]; ok {
			if prev.Width != e.Width || prev.Height != e.Height {
				errs = append(errs, fmt.Errorf("%s: dimensions %dx%d disagree with earlier %dx%d",
					where, e.Width, e.Height, prev.Width, prev.Height))
			}
			if prev.Duration != e.Duration || prev.Frequency != e.Frequency {
				errs = append(errs, fmt.Errorf("%s: tone settings disagree with an earlier entry", where))
			}
		} else {
			byPath[e.Path] = e
		}

		directive := strings.TrimSpace(e.Directive)
		if prev, ok := byName[d.Name]; ok && prev != directive {
			errs = append(errs, fmt.Errorf("%s: resource %s declared twice with different directives", where, d.Name))
		} else {
			byName[d.Name] = directive
		}
	}

	return errors.Join(errs...)
}

// CheckTones rejects fixed tone frequencies that cannot be represented at
// sampleRate
func (c *Catalog) CheckTones(sampleRate int) error {
	nyquist := float64(sampleRate) / 2
	var errs []error
	for i, e := range c.Entries {
		if e.Frequency > 0 && e.Frequency >= nyquist {
			errs = append(errs, fmt.Errorf("entry %d (%s): frequency %.0f Hz must be below %.0f Hz at %d Hz sampling",
				i, e.Path, e.Frequency, nyquist, sampleRate))
		}
	}
	return errors.Join(errs...)
}

// insideRoot reports whether a slash separated path stays under the root it
// is joined to
func insideRoot(p string) bool {
	clean := path.Clean(filepath.ToSlash(p))
	return !path.IsAbs(clean) && !filepath.IsAbs(p) && clean != ".." && !strings.HasPrefix(clean, "../")
}
