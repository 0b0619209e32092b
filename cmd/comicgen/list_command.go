package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"comicgen/internal/catalog"
	"comicgen/internal/site"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var missingOnly bool

	cmd := &cobra.Command{
		Use:   "list [YYYY-MM-DD]",
		Short: "Show the comic catalog without writing anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cutoff, err := parseCutoffArg(args)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cmd, "")
			if err != nil {
				return err
			}

			cat, report, err := site.NewBuilder(cfg, logger).Load(cmd.Context(), cutoff)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cat.Len() == 0 {
				fmt.Fprintln(out, "No comics found")
				return nil
			}

			rows := catalogRows(cat, missingOnly)
			if len(rows) == 0 {
				fmt.Fprintln(out, "Every comic has an annotation")
				return nil
			}
			fmt.Fprintln(out, renderTable(catalogColumns, rows))
			fmt.Fprintf(out, "%d comic(s), %d without annotation, %d warning(s)\n",
				cat.Len(), len(cat.MissingAnnotations()), report.Warnings())
			return nil
		},
	}

	cmd.Flags().BoolVar(&missingOnly, "missing", false, "Only list comics without an annotation")
	return cmd
}

var catalogColumns = []tableColumn{
	{header: "Date"},
	{header: "Image"},
	{header: "Page"},
	{header: "Annotated"},
	{header: "Month"},
	{header: "Alt text", wrap: true},
}

func catalogRows(cat *catalog.Catalog, missingOnly bool) [][]string {
	rows := make([][]string, 0, cat.Len())
	for _, e := range cat.Entries() {
		if missingOnly && e.HasExplicitAlt {
			continue
		}
		rows = append(rows, []string{
			e.Date.Key(),
			e.AssetPath,
			e.PagePath,
			yesNo(e.HasExplicitAlt),
			e.MonthHeader,
			e.AltText,
		})
	}
	return rows
}
