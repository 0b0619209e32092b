package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"comicgen/internal/annotations"
	"comicgen/internal/catalog"
	"comicgen/internal/comicdate"
	"comicgen/internal/config"
	"comicgen/internal/history"
	"comicgen/internal/logging"
	"comicgen/internal/render"
)

// Builder runs the site pipeline for one configuration.
type Builder struct {
	cfg      *config.Config
	logger   *slog.Logger
	renderer render.Renderer
	runID    string
	now      func() time.Time
}

// Option customizes a Builder.
type Option func(*Builder)

// WithRenderer replaces the configured templates.
func WithRenderer(r render.Renderer) Option {
	return func(b *Builder) { b.renderer = r }
}

// WithRunID sets the identifier stamped on the report and history record.
// A random UUID is used otherwise.
func WithRunID(id string) Option {
	return func(b *Builder) { b.runID = id }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder constructs a Builder for cfg.
func NewBuilder(cfg *config.Config, logger *slog.Logger, opts ...Option) *Builder {
	b := &Builder{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "site"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.runID == "" {
		b.runID = uuid.NewString()
	}
	return b
}

// RunID returns the identifier of the builder's run.
func (b *Builder) RunID() string { return b.runID }

// Build regenerates the site: clear the comic page directory, discover
// images, merge annotations, link, plan and render. Only one build may run
// per state directory at a time. The run is recorded in the history
// database when history is enabled, whether it succeeds or not.
func (b *Builder) Build(ctx context.Context, cutoff *comicdate.Date) (Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	report := Report{RunID: b.runID, Cutoff: cutoff, StartedAt: b.now()}

	if err := b.cfg.EnsureDirectories(); err != nil {
		return report, err
	}
	lock := flock.New(b.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return report, fmt.Errorf("acquire build lock: %w", err)
	}
	if !ok {
		return report, fmt.Errorf("%w: lock held at %s", ErrLocked, b.cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			b.logger.Warn("failed to release build lock", logging.Error(err))
		}
	}()

	b.logger.Info("build started",
		logging.String("site_root", b.cfg.Site.Root),
		logging.String("cutoff", report.CutoffKey()),
		logging.Bool("history", b.cfg.History.Enabled),
	)

	runErr := b.build(ctx, cutoff, &report)
	report.FinishedAt = b.now()
	b.record(ctx, report, runErr)

	if runErr != nil {
		b.logger.Error("build failed", logging.Error(runErr))
		return report, runErr
	}
	b.logger.Info("build finished",
		logging.Int("comics", report.Comics),
		logging.Int("pages", report.Render.Pages),
		logging.Int("appended", report.Annotations.Appended),
		logging.Int("warnings", report.Warnings()),
		logging.String("duration", report.Duration().Round(time.Millisecond).String()),
	)
	return report, nil
}

func (b *Builder) build(ctx context.Context, cutoff *comicdate.Date, report *Report) error {
	renderer := b.renderer
	if renderer == nil {
		tmpl, err := render.LoadTemplatesFromConfig(b.cfg)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrTemplate, err)
		}
		renderer = tmpl
	}

	if err := render.ClearOutput(b.cfg.OutputDir(), b.logger); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cat, err := b.load(cutoff, report)
	if err != nil {
		return err
	}

	merged, err := annotations.Merge(b.cfg.AltTextPath(), cat, cutoff, b.logger)
	report.Annotations = merged
	if err != nil {
		return classifyInput(err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cat.Link()
	tasks, err := render.Plan(cat, b.cfg)
	if err != nil {
		return err
	}
	result, err := render.Execute(renderer, tasks, b.logger)
	report.Render = result
	if err != nil {
		var tmplErr *render.TemplateError
		if errors.As(err, &tmplErr) {
			return fmt.Errorf("%w: %w", ErrTemplate, err)
		}
		return err
	}
	return nil
}

// Load builds, annotates and links the catalog without writing anything: the
// annotation file is read but never appended to.
func (b *Builder) Load(ctx context.Context, cutoff *comicdate.Date) (*catalog.Catalog, Report, error) {
	report := Report{RunID: b.runID, Cutoff: cutoff, StartedAt: b.now()}
	cat, err := b.load(cutoff, &report)
	if err != nil {
		return nil, report, err
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
	}

	snap, err := annotations.Read(b.cfg.AltTextPath())
	if err != nil {
		return nil, report, classifyInput(err)
	}
	report.Annotations = annotations.Apply(snap, cat, cutoff, b.logger)
	cat.Link()
	report.FinishedAt = b.now()
	return cat, report, nil
}

func (b *Builder) load(cutoff *comicdate.Date, report *Report) (*catalog.Catalog, error) {
	cat, built, err := catalog.Build(b.cfg.ImagesDir(), cutoff, catalog.OptionsFromConfig(b.cfg), b.logger)
	report.Catalog = built
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	report.Comics = cat.Len()
	if cat.Len() > 0 {
		report.Newest = cat.At(0).Date
	}
	return cat, nil
}

func classifyInput(err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrInput, err)
	}
	return err
}

// record stores the run in the history database. History is best effort: a
// failure is logged and never fails the build.
func (b *Builder) record(ctx context.Context, report Report, runErr error) {
	if !b.cfg.History.Enabled {
		return
	}
	store, err := history.Open(b.cfg.History.Path)
	if err != nil {
		logging.WarnWithContext(b.logger, "build history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the history database or disable [history]"),
			logging.String(logging.FieldImpact, "this build is not recorded"),
		)
		return
	}
	defer store.Close()

	if _, err := store.Record(ctx, report.historyRun(runErr)); err != nil {
		logging.WarnWithContext(b.logger, "failed to record build", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this build is not recorded"),
		)
		return
	}
	if removed, err := store.Prune(ctx, b.cfg.History.Keep); err != nil {
		b.logger.Warn("failed to prune build history", logging.Error(err))
	} else if removed > 0 {
		b.logger.Debug("build history pruned", logging.Int("removed", int(removed)))
	}
}
