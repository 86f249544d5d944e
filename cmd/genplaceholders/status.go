package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"chosenoffset.com/genplaceholders/internal/inspect"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var skipOrphans bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which catalog assets exist and whether they are listed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.loadCatalog()
			if err != nil {
				return err
			}
			root := ctx.config.Paths.ResourceDir

			manifests, err := inspect.ReadManifests(root, cat)
			if err != nil {
				return err
			}
			reports, err := inspect.Inspect(root, cat, manifests)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var present, listed int
			var total uint64
			rows := make([][]string, 0, len(reports))
			for _, r := range reports {
				size := paint("missing", colorize, text.FgRed)
				detail := r.Detail
				if r.Exists {
					present++
					total += uint64(r.Size)
					size = humanize.Bytes(uint64(r.Size))
				}
				if r.Problem != "" {
					detail = paint(r.Problem, colorize, text.FgYellow)
				}
				inManifest := paint("no", colorize, text.FgYellow)
				if r.Listed {
					listed++
					inManifest = "yes"
				}
				rows = append(rows, []string{
					manifestName(r.Entry.Directive),
					r.Entry.Path,
					kindLabel(r.Entry),
					size,
					detail,
					r.Manifest,
					inManifest,
				})
			}

			fmt.Fprintf(out, "Resource directory: %s\n", root)
			fmt.Fprintln(out, renderTable(
				[]string{"Resource", "Path", "Kind", "Size", "Detail", "Manifest", "Listed"},
				rows,
				4,
			))
			fmt.Fprintf(out, "%d of %d entries present (%s), %d of %d manifest lines listed\n",
				present, len(reports), humanize.Bytes(total), listed, len(reports))

			if skipOrphans {
				return nil
			}
			orphans, err := inspect.ScanOrphans(root, cat)
			if err != nil {
				return err
			}
			if len(orphans) > 0 {
				fmt.Fprintf(out, "\nFiles not in the catalog (%d):\n", len(orphans))
				for _, o := range orphans {
					fmt.Fprintf(out, "  %s\n", o)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipOrphans, "no-orphans", false, "Skip scanning for files the catalog does not reference")
	return cmd
}
