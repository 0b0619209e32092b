package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"comicgen/internal/comicdate"
	"comicgen/internal/config"
	"comicgen/internal/logging"
)

// Options controls discovery and path synthesis.
type Options struct {
	// ImageExtension selects comic images, e.g. ".png". Matching is case-sensitive.
	ImageExtension string
	// ImagesPrefix is the public directory of comic images, e.g. "asset/cc".
	ImagesPrefix string
	// PagesPrefix is the public directory of per-comic pages, e.g. "cc".
	PagesPrefix string
}

// OptionsFromConfig derives discovery options from the site configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ImageExtension: cfg.Catalog.ImageExtension,
		ImagesPrefix:   cfg.Paths.Images,
		PagesPrefix:    cfg.Paths.Output,
	}
}

// BuildReport counts what discovery did with each candidate image.
type BuildReport struct {
	Scanned     int
	Accepted    int
	Unparseable int
	Duplicates  int
	AfterCutoff int
}

// Warnings returns the number of skipped images that were logged as warnings.
func (r BuildReport) Warnings() int {
	return r.Unparseable + r.Duplicates
}

// Build scans dir for comic images and returns them as a newest-first catalog.
//
// Files are visited in lexicographic name order, so when two images carry the
// same date the first name wins. Images dated after cutoff are dropped
// silently; unparseable names and duplicates are logged and skipped. A missing
// or unreadable directory is an error.
func Build(dir string, cutoff *comicdate.Date, opts Options, logger *slog.Logger) (*Catalog, BuildReport, error) {
	logger = logging.NewComponentLogger(logger, "catalog")
	var report BuildReport

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, report, fmt.Errorf("read image directory: %w", err)
	}
	names := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		if filepath.Ext(de.Name()) != opts.ImageExtension {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)

	accepted := make([]Entry, 0, len(names))
	firstByDate := make(map[comicdate.Date]string, len(names))
	for _, name := range names {
		report.Scanned++
		sourcePath := filepath.Join(dir, name)

		date, ok := comicdate.Parse(name)
		if !ok {
			report.Unparseable++
			logging.WarnWithContext(logger, "skipping image without a valid date", "image_date_unparseable",
				logging.String(logging.FieldFile, sourcePath),
				logging.String(logging.FieldErrorHint, "rename the file to include YYYY-MM-DD"),
				logging.String(logging.FieldImpact, "image is not published"),
			)
			continue
		}
		if !comicdate.Within(date, cutoff) {
			report.AfterCutoff++
			logger.Debug("skipping image after cutoff",
				logging.String(logging.FieldFile, sourcePath),
				logging.String(logging.FieldDate, date.Key()),
			)
			continue
		}
		if kept, dup := firstByDate[date]; dup {
			report.Duplicates++
			logging.WarnWithContext(logger, "skipping image with duplicate date", "image_date_duplicate",
				logging.String(logging.FieldFile, sourcePath),
				logging.String(logging.FieldDate, date.Key()),
				logging.String("kept", kept),
				logging.String(logging.FieldErrorHint, "remove or re-date one of the images"),
				logging.String(logging.FieldImpact, "only the first image for this date is published"),
			)
			continue
		}

		firstByDate[date] = name
		accepted = append(accepted, NewEntry(sourcePath, date, opts))
	}

	cat, err := New(accepted)
	if err != nil {
		return nil, report, err
	}
	report.Accepted = cat.Len()

	logger.Info("comic catalog built",
		logging.String("dir", dir),
		logging.Int("accepted", report.Accepted),
		logging.Int("unparseable", report.Unparseable),
		logging.Int("duplicates", report.Duplicates),
		logging.Int("after_cutoff", report.AfterCutoff),
	)
	return cat, report, nil
}
