package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"comicgen/internal/logging"
	"comicgen/internal/site"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "build [YYYY-MM-DD]",
		Short: "Regenerate the site, optionally publishing only comics up to a cutoff date",
		Long: `Regenerate every comic page, the index, the archive and the feed.

Images dated after the optional cutoff are left out of this build. Comics
without a line in the annotation file get a placeholder line appended so it
can be edited before the next build.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cutoff, err := parseCutoffArg(args)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			logger, err := ctx.newLogger(cmd, runID)
			if err != nil {
				return err
			}

			builder := site.NewBuilder(cfg, logger, site.WithRunID(runID))
			report, err := builder.Build(cmd.Context(), cutoff)
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range buildSummaryLines(report, logging.LogPath(cfg), colorize) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func buildSummaryLines(report site.Report, logPath string, colorize bool) []string {
	lines := renderSectionHeader("Build", colorize)

	if report.Cutoff != nil {
		lines = append(lines, renderStatusLine("Cutoff", statusInfo, report.CutoffKey(), colorize))
	}
	if report.Comics == 0 {
		lines = append(lines, renderStatusLine("Comics", statusWarn, "none published", colorize))
	} else {
		lines = append(lines, renderStatusLine("Comics", statusOK,
			fmt.Sprintf("%d published (newest %s)", report.Comics, report.Newest.Key()), colorize))
	}
	lines = append(lines, renderStatusLine("Pages", statusOK, fmt.Sprintf("%d written", report.Render.Pages), colorize))
	if report.Annotations.Appended > 0 {
		lines = append(lines, renderStatusLine("Annotations", statusInfo,
			fmt.Sprintf("%d placeholder line(s) appended", report.Annotations.Appended), colorize))
	}
	if warnings := report.Warnings(); warnings > 0 {
		lines = append(lines, renderStatusLine("Warnings", statusWarn,
			fmt.Sprintf("%d (details in %s)", warnings, logPath), colorize))
	}
	lines = append(lines, renderStatusLine("Duration", statusInfo, report.Duration().Round(time.Millisecond).String(), colorize))
	lines = append(lines, renderStatusLine("Run ID", statusInfo, report.RunID, colorize))
	return lines
}
