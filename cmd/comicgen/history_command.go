package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"comicgen/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent builds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("build history is disabled (set [history] enabled = true)")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No builds recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(historyColumns, historyRows(runs)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of builds to show (0 for all)")
	return cmd
}

var historyColumns = []tableColumn{
	{header: "Started"},
	{header: "Status", wrap: true},
	{header: "Cutoff"},
	{header: "Comics", align: alignRight},
	{header: "Pages", align: alignRight},
	{header: "Appended", align: alignRight},
	{header: "Warnings", align: alignRight},
	{header: "Duration", align: alignRight},
	{header: "Run ID"},
}

func historyRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		cutoff := run.Cutoff
		if cutoff == "" {
			cutoff = "-"
		}
		status := string(run.Status)
		if run.ErrorMessage != "" {
			status += ": " + run.ErrorMessage
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			status,
			cutoff,
			strconv.Itoa(run.Comics),
			strconv.Itoa(run.Pages),
			strconv.Itoa(run.Appended),
			strconv.Itoa(run.Warnings),
			run.Duration().Round(time.Millisecond).String(),
			run.RunID,
		})
	}
	return rows
}
