// Package inspect reports on the state of a resource tree: which catalog
// assets exist, what they decode to, and whether their manifest lines are
// listed.
package inspect

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"

	"chosenoffset.com/genplaceholders/internal/catalog"
	"chosenoffset.com/genplaceholders/internal/manifest"
)

// Report describes one catalog entry as found on disk
type Report struct {
	Entry    catalog.Entry
	Path     string // Root-joined file path
	Exists   bool
	Size     int64
	Detail   string // Decoded description, e.g. "64x64 paletted, 16 colours"
	Problem  string // Decode failure, empty when the file is readable
	Manifest string
	Listed   bool // Directive present in the manifest
}

// ReadManifests loads the current lines of every manifest the catalog uses,
// keyed by manifest name
func ReadManifests(root string, cat *catalog.Catalog) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, name := range cat.ManifestNames() {
		lines, err := manifest.Read(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil {
			return nil, err
		}
		out[name] = lines
	}
	return out, nil
}

// Inspect builds one report per catalog entry. manifests holds the current
// manifest contents keyed by name, as returned by ReadManifests.
func Inspect(root string, cat *catalog.Catalog, manifests map[string][]string) ([]Report, error) {
	listed := make(map[string]map[string]bool, len(manifests))
	for name, lines := range manifests {
		set := make(map[string]bool, len(lines))
		for _, l := range lines {
			if d := strings.TrimSpace(manifest.ParseLine(l).Directive); d != "" {
				set[d] = true
			}
		}
		listed[name] = set
	}

	described := make(map[string]Report)
	reports := make([]Report, 0, len(cat.Entries))
	for _, entry := range cat.Entries {
		rep, ok := described[entry.Path]
		if !ok {
			var err error
			rep, err = inspectFile(root, entry)
			if err != nil {
				return nil, err
			}
			described[entry.Path] = rep
		}
		rep.Entry = entry
		rep.Manifest = cat.ManifestFor(entry)
		rep.Listed = listed[rep.Manifest][strings.TrimSpace(entry.Directive)]
		reports = append(reports, rep)
	}
	return reports, nil
}

func inspectFile(root string, entry catalog.Entry) (Report, error) {
	target := filepath.Join(root, filepath.FromSlash(entry.Path))
	rep := Report{Path: target}

	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return rep, nil
	}
	if err != nil {
		return rep, fmt.Errorf("failed to stat %s: %w", target, err)
	}
	rep.Exists = true
	rep.Size = info.Size()

	var detail string
	switch entry.Kind() {
	case catalog.KindImage:
		detail, err = describeImage(target)
	case catalog.KindAudio:
		detail, err = describeAudio(target)
	default:
		err = fmt.Errorf("%w: %s", catalog.ErrUnsupportedKind, entry.Path)
	}
	if err != nil {
		rep.Problem = err.Error()
	}
	rep.Detail = detail
	return rep, nil
}

func describeImage(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	desc := fmt.Sprintf("%dx%d %s", cfg.Width, cfg.Height, format)
	if pal, ok := cfg.ColorModel.(color.Palette); ok {
		desc += fmt.Sprintf(", %d colours", len(pal))
	}
	return desc, nil
}

// formatAudio describes a decoded tone, e.g. "22050 Hz, 250ms"
func formatAudio(rate int, frames int64) string {
	length := time.Duration(frames) * time.Second / time.Duration(rate)
	return fmt.Sprintf("%d Hz, %v", rate, length)
}

// ScanOrphans lists image and audio files under root, as slash separated
// relative paths, that no catalog entry references. Dot directories are
// skipped.
func ScanOrphans(root string, cat *catalog.Catalog) ([]string, error) {
	known := make(map[string]bool, len(cat.Entries))
	for _, e := range cat.Entries {
		known[e.Path] = true
	}

	var orphans []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if _, err := catalog.KindOf(path); err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !known[rel] {
			orphans = append(orphans, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan resource directory: %w", err)
	}
	return orphans, nil
}
