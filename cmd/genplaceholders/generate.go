package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chosenoffset.com/genplaceholders/internal/manifest"
	"chosenoffset.com/genplaceholders/internal/placeholders"
	"chosenoffset.com/genplaceholders/internal/watch"
)

type generateFlags struct {
	force        bool
	dryRun       bool
	filesOnly    bool
	manifestOnly bool
	watch        bool
}

func (f *generateFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.force, "force", false, "Regenerate asset files that already exist")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "Show what would be written without touching disk")
	cmd.Flags().BoolVar(&f.filesOnly, "files-only", false, "Only generate asset files")
	cmd.Flags().BoolVar(&f.manifestOnly, "manifest-only", false, "Only update manifests")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "Run again whenever the catalog or config file changes")
	cmd.MarkFlagsMutuallyExclusive("files-only", "manifest-only")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "watch")
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create missing placeholder assets and append manifest lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

// generateSummary counts what one run did
type generateSummary struct {
	created   int
	planned   int
	skipped   int
	added     int
	conflicts int
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, flags generateFlags) error {
	if flags.watch && ctx.config.Paths.Catalog == "" && !ctx.configSeen {
		return errors.New("--watch needs a catalog file or config file to watch")
	}
	if err := generateOnce(cmd, ctx, flags); err != nil {
		return err
	}
	if !flags.watch {
		return nil
	}

	watched := []string{ctx.config.Paths.Catalog}
	if ctx.configSeen {
		watched = append(watched, ctx.configPath)
	}

	fw, err := watch.New(watched, watch.DefaultDebounce, ctx.logger)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Watching for changes, press Ctrl+C to stop")

	return fw.Run(cmd.Context(), func(_ context.Context, changed []string) error {
		for _, path := range changed {
			fmt.Fprintf(out, "\nChange detected in %s\n", filepath.Base(path))
		}
		if ctx.configSeen {
			if err := ctx.setup(cmd); err != nil {
				return err
			}
		}
		return generateOnce(cmd, ctx, flags)
	})
}

func generateOnce(cmd *cobra.Command, ctx *commandContext, flags generateFlags) error {
	cfg := ctx.config
	cat, err := ctx.loadCatalog()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	root := cfg.Paths.ResourceDir
	var sum generateSummary

	if !flags.manifestOnly {
		gen := placeholders.NewGenerator(placeholders.Options{
			Root:    root,
			Force:   flags.force,
			DryRun:  flags.dryRun,
			Workers: cfg.Generate.Workers,
			Image: placeholders.ImageOptions{
				DefaultWidth:  cfg.Image.DefaultWidth,
				DefaultHeight: cfg.Image.DefaultHeight,
				TileSize:      cfg.Image.TileSize,
			},
			Audio: placeholders.ToneOptions{
				SampleRate:   cfg.Audio.SampleRate,
				Amplitude:    cfg.Audio.Amplitude,
				Duration:     cfg.Audio.ToneDuration(),
				MinFrequency: cfg.Audio.MinFrequency,
				MaxFrequency: cfg.Audio.MaxFrequency,
			},
		}, ctx.logger)

		results, err := gen.EnsureFiles(cmd.Context(), cat)
		if err != nil {
			return err
		}
		printFileResults(out, results, &sum)
	}

	if !flags.filesOnly {
		manifests := cat.Manifests()
		for _, name := range cat.ManifestNames() {
			path := filepath.Join(root, filepath.FromSlash(name))
			res, err := manifest.Ensure(path, manifests[name], manifest.Options{
				DryRun:    flags.dryRun,
				ASCIIOnly: cfg.Manifest.ASCIIOnly,
			})
			if err != nil {
				return err
			}
			printManifestResult(out, name, res, flags.dryRun, &sum)
			for _, c := range res.Conflicts {
				ctx.logger.Warn("manifest already declares resource with a different directive",
					zap.String("manifest", name),
					zap.String("name", c.Name),
					zap.String("existing", c.Existing),
					zap.String("wanted", c.Wanted))
			}
		}
	}

	printSummary(out, sum, flags.dryRun)
	return nil
}

func printFileResults(out io.Writer, results []placeholders.FileResult, sum *generateSummary) {
	for _, r := range results {
		switch r.Status {
		case placeholders.StatusCreated:
			sum.created++
			fmt.Fprintf(out, "✓ Generated %s (%s)\n", r.Entry.Path, r.Detail)
		case placeholders.StatusPlanned:
			sum.planned++
			fmt.Fprintf(out, "• Would generate %s (%s)\n", r.Entry.Path, r.Detail)
		default:
			sum.skipped++
		}
	}
}

func printManifestResult(out io.Writer, name string, res manifest.Result, dryRun bool, sum *generateSummary) {
	sum.added += len(res.Added)
	sum.conflicts += len(res.Conflicts)
	for _, line := range res.Added {
		resource := manifest.ParseLine(line).Name()
		if dryRun {
			fmt.Fprintf(out, "• Would add %s to %s\n", resource, name)
		} else {
			fmt.Fprintf(out, "✓ Added %s to %s\n", resource, name)
		}
	}
}

func printSummary(out io.Writer, sum generateSummary, dryRun bool) {
	if dryRun {
		fmt.Fprintf(out, "Dry run: %d files and %d manifest lines would be written, %d files already exist\n",
			sum.planned, sum.added, sum.skipped)
	} else {
		fmt.Fprintf(out, "Done: %d files generated, %d already present, %d manifest lines added\n",
			sum.created, sum.skipped, sum.added)
	}
	if sum.conflicts > 0 {
		fmt.Fprintf(out, "! %d manifest lines reuse a resource name with a different directive, see warnings\n", sum.conflicts)
	}
}
