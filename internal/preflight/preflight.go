package preflight

import (
	"context"

	"comicgen/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config. The history
// database is only checked when history is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckReadableDir("Image directory", cfg.ImagesDir()),
		CheckAnnotationFile("Annotation file", cfg.AltTextPath()),
		CheckOutputLocation("Comic page directory", cfg.OutputDir()),
		CheckDirectoryAccess("Site root", cfg.Site.Root),
		CheckTemplates("Templates", cfg),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}

	if cfg.History.Enabled {
		results = append(results, CheckHistory(ctx, "Build history", cfg.History.Path))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
