// Package placeholders synthesizes stand-in images and tones for catalog
// entries whose files do not exist yet.
package placeholders

import (
	"context"
	"fmt"
	"path/filepath"

	"chosenoffset.com/genplaceholders/internal/catalog"
	"chosenoffset.com/genplaceholders/internal/fileutil"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status is the outcome of ensuring one asset file
type Status int

const (
	StatusSkipped Status = iota // File already existed
	StatusCreated               // Placeholder written
	StatusPlanned               // Dry run: would have been written
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusPlanned:
		return "planned"
	default:
		return "skipped"
	}
}

// ImageOptions are the image defaults applied to catalog entries
type ImageOptions struct {
	DefaultWidth  int
	DefaultHeight int
	TileSize      int // Pixels per sprite tile
}

// DefaultImageOptions returns the 64x64 default with 8px tiles
func DefaultImageOptions() ImageOptions {
	return ImageOptions{DefaultWidth: 64, DefaultHeight: 64, TileSize: TileSize}
}

// Options control a generator run
type Options struct {
	Root    string // Resource root that entry paths are relative to
	Force   bool   // Regenerate files that already exist
	DryRun  bool   // Report what would be generated without writing
	Workers int    // Concurrent file writers, <= 0 means 1
	Image   ImageOptions
	Audio   ToneOptions
}

// FileResult reports what happened to one asset file
type FileResult struct {
	Entry  catalog.Entry
	Path   string // Absolute or root-joined file path
	Status Status
	Detail string // Human readable description of the generated content
}

// Generator ensures placeholder files exist for a catalog
type Generator struct {
	opts   Options
	logger *zap.Logger
}

// NewGenerator creates a generator; a nil logger disables logging
func NewGenerator(opts Options, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Image.TileSize <= 0 {
		opts.Image.TileSize = TileSize
	}
	return &Generator{opts: opts, logger: logger}
}

// EnsureFiles generates every missing asset of cat. Each distinct file is
// considered once; results are in catalog order.
func (g *Generator) EnsureFiles(ctx context.Context, cat *catalog.Catalog) ([]FileResult, error) {
	files := cat.Files()
	results := make([]FileResult, len(files))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(g.opts.Workers)

	for i, entry := range files {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := g.ensure(entry)
			if err != nil {
				return fmt.Errorf("failed to generate %s: %w", entry.Path, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (g *Generator) ensure(entry catalog.Entry) (FileResult, error) {
	target := filepath.Join(g.opts.Root, filepath.FromSlash(entry.Path))
	res := FileResult{Entry: entry, Path: target}

	if !g.opts.Force {
		exists, err := fileutil.Exists(target)
		if err != nil {
			return res, err
		}
		if exists {
			res.Status = StatusSkipped
			g.logger.Debug("asset exists, skipping", zap.String("path", entry.Path))
			return res, nil
		}
	}

	kind, err := catalog.KindOf(entry.Path)
	if err != nil {
		return res, err
	}

	switch kind {
	case catalog.KindImage:
		spec := g.imageSpec(entry)
		res.Detail = describeImage(spec)
		if g.opts.DryRun {
			res.Status = StatusPlanned
			return res, nil
		}
		img, err := RenderImage(spec)
		if err != nil {
			return res, err
		}
		if err := SaveImage(img, target); err != nil {
			return res, err
		}
	case catalog.KindAudio:
		tone := ToneFor(entry.Path, entry.Frequency, entry.Duration, g.opts.Audio)
		res.Detail = fmt.Sprintf("%.0f Hz, %v @ %d Hz", tone.Frequency, tone.Duration, tone.SampleRate)
		if g.opts.DryRun {
			res.Status = StatusPlanned
			return res, nil
		}
		if err := SaveWAV(target, tone); err != nil {
			return res, err
		}
	}

	res.Status = StatusCreated
	g.logger.Debug("asset generated",
		zap.String("path", entry.Path),
		zap.String("kind", kind.String()),
		zap.String("detail", res.Detail))
	return res, nil
}

// imageSpec resolves defaults and sprite frame sizes for an entry
func (g *Generator) imageSpec(entry catalog.Entry) ImageSpec {
	spec := ImageSpec{
		Width:  entry.Width,
		Height: entry.Height,
		Seed:   entry.Path,
	}
	if spec.Width == 0 {
		spec.Width = g.opts.Image.DefaultWidth
	}
	if spec.Height == 0 {
		spec.Height = g.opts.Image.DefaultHeight
	}
	if d, err := catalog.ParseDirective(entry.Directive); err == nil {
		if tw, th, ok := d.SpriteTiles(); ok {
			spec.FrameWidth = tw * g.opts.Image.TileSize
			spec.FrameHeight = th * g.opts.Image.TileSize
		}
	}
	return spec
}

func describeImage(spec ImageSpec) string {
	cols, rows := spec.frames()
	desc := fmt.Sprintf("%dx%d colour %d", spec.Width, spec.Height, PickColorIndex(spec.Seed))
	if n := cols * rows; n > 1 {
		desc += fmt.Sprintf(", %d frames", n)
	}
	return desc
}
