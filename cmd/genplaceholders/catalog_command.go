package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"chosenoffset.com/genplaceholders/internal/catalog"
	"chosenoffset.com/genplaceholders/internal/manifest"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the assets and manifest lines in the catalog",
		Long: `Lists the active catalog: the file named by --catalog or paths.catalog, or the
built-in catalog when neither is set. Use --yaml to dump it as a starting point
for a custom catalog file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.loadCatalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asYAML {
				data, err := cat.Marshal()
				if err != nil {
					return fmt.Errorf("encode catalog: %w", err)
				}
				_, err = out.Write(data)
				return err
			}

			rows := make([][]string, 0, len(cat.Entries))
			for i, e := range cat.Entries {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					manifestName(e.Directive),
					e.Path,
					kindLabel(e),
					entrySize(e),
					cat.ManifestFor(e),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Resource", "Path", "Kind", "Size", "Manifest"},
				rows,
				1,
			))
			fmt.Fprintf(out, "%d entries, %d files, %d manifests\n",
				len(cat.Entries), len(cat.Files()), len(cat.ManifestNames()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the catalog as YAML")
	return cmd
}

// entrySize describes the requested dimensions or length of an entry
func entrySize(e catalog.Entry) string {
	switch e.Kind() {
	case catalog.KindImage:
		if e.Width == 0 && e.Height == 0 {
			return "default"
		}
		return fmt.Sprintf("%dx%d", e.Width, e.Height)
	case catalog.KindAudio:
		if e.Duration == 0 {
			return "default"
		}
		return e.Duration.String()
	}
	return ""
}

func kindLabel(e catalog.Entry) string {
	return e.Kind().String()
}

func manifestName(directive string) string {
	return manifest.ParseLine(directive).Name()
}
