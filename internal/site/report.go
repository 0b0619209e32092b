package site

import (
	"time"

	"comicgen/internal/annotations"
	"comicgen/internal/catalog"
	"comicgen/internal/comicdate"
	"comicgen/internal/history"
	"comicgen/internal/render"
)

// Report summarizes one pipeline run.
type Report struct {
	RunID      string
	Cutoff     *comicdate.Date
	StartedAt  time.Time
	FinishedAt time.Time

	Catalog     catalog.BuildReport
	Annotations annotations.Report
	Render      render.Result

	// Comics is the number of published comics and Newest the newest one's
	// date, zero when the catalog is empty.
	Comics int
	Newest comicdate.Date
}

// Warnings returns the number of non-fatal problems logged during the run.
func (r Report) Warnings() int {
	return r.Catalog.Warnings() + r.Annotations.Warnings()
}

// Duration returns the wall time of the run.
func (r Report) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// CutoffKey returns the cutoff as YYYY-MM-DD, or "" when unbounded.
func (r Report) CutoffKey() string {
	if r.Cutoff == nil {
		return ""
	}
	return r.Cutoff.Key()
}

func (r Report) historyRun(runErr error) history.Run {
	run := history.Run{
		RunID:      r.RunID,
		Status:     history.StatusSucceeded,
		Cutoff:     r.CutoffKey(),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Comics:     r.Comics,
		Pages:      r.Render.Pages,
		Appended:   r.Annotations.Appended,
		Warnings:   r.Warnings(),
	}
	if !r.Newest.IsZero() {
		run.Newest = r.Newest.Key()
	}
	switch {
	case runErr != nil:
		run.Status = history.StatusFailed
		run.ErrorMessage = runErr.Error()
	case run.Warnings > 0:
		run.Status = history.StatusWarnings
	}
	return run
}
