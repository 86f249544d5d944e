package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chosenoffset.com/genplaceholders/internal/catalog"
	"chosenoffset.com/genplaceholders/internal/config"
	"chosenoffset.com/genplaceholders/internal/logging"
)

type commandContext struct {
	configFlag  string
	rootFlag    string
	catalogFlag string
	verbose     bool

	config     *config.Config
	configPath string
	configSeen bool // Config file existed
	logger     *zap.Logger
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{logger: zap.NewNop()}
	var gen generateFlags

	rootCmd := &cobra.Command{
		Use:   "genplaceholders",
		Short: "Generate placeholder assets and resource manifest lines",
		Long: `genplaceholders makes sure every asset named in the catalog exists under the
resource directory. Missing images are written as indexed 16-colour PNG or BMP
files and missing sounds as short sine tones. The matching manifest lines are
then appended to the resource manifests, never duplicating a line.

Run without a subcommand to generate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			return ctx.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = ctx.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, gen)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path (default ./"+config.ProjectFileName+")")
	flags.StringVarP(&ctx.rootFlag, "root", "r", "", "Resource directory, overrides paths.resource_dir")
	flags.StringVar(&ctx.catalogFlag, "catalog", "", "Catalog YAML file, overrides paths.catalog")
	flags.BoolVarP(&ctx.verbose, "verbose", "v", false, "Enable debug logging")

	gen.register(rootCmd)

	rootCmd.AddCommand(newGenerateCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newCatalogCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func (c *commandContext) setup(cmd *cobra.Command) error {
	cfg, path, exists, err := config.Load(strings.TrimSpace(c.configFlag))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if root := strings.TrimSpace(c.rootFlag); root != "" {
		if cfg.Paths.ResourceDir, err = config.ExpandPath(root); err != nil {
			return fmt.Errorf("resolve resource directory: %w", err)
		}
	}
	if cat := strings.TrimSpace(c.catalogFlag); cat != "" {
		if cfg.Paths.Catalog, err = config.ExpandPath(cat); err != nil {
			return fmt.Errorf("resolve catalog path: %w", err)
		}
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: c.verbose,
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	c.config = cfg
	c.configPath = path
	c.configSeen = exists
	c.logger = logger

	logger.Debug("configuration loaded",
		zap.String("path", path),
		zap.Bool("exists", exists),
		zap.String("resource_dir", cfg.Paths.ResourceDir))
	return nil
}

// loadCatalog returns the configured catalog file or the built-in one
func (c *commandContext) loadCatalog() (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if c.config.Paths.Catalog != "" {
		cat, err = catalog.Load(c.config.Paths.Catalog)
		if err != nil {
			return nil, err
		}
	} else {
		cat = catalog.Default()
	}
	cat.SetDefaultManifest(c.config.Paths.DefaultManifest)

	if err := errors.Join(cat.Validate(), cat.CheckTones(c.config.Audio.SampleRate)); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return cat, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
