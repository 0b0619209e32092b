package render

import (
	"bytes"
	"fmt"
	"log/slog"

	"comicgen/internal/fileutil"
	"comicgen/internal/logging"
)

// Result counts the pages written by Execute.
type Result struct {
	Comics int
	Pages  int
	Bytes  int64
}

// ClearOutput removes every entry of the comic page directory, creating it
// when absent. It runs before any page is written so no stale page survives a
// build.
func ClearOutput(dir string, logger *slog.Logger) error {
	removed, err := fileutil.ClearDir(dir)
	if err != nil {
		return fmt.Errorf("clear output directory: %w", err)
	}
	logging.NewComponentLogger(logger, "render").Debug("output directory cleared",
		logging.String("dir", dir),
		logging.Int("removed", removed),
	)
	return nil
}

// Execute renders every task in order and writes each page atomically. The
// first failure stops the run; a template failure is returned as a
// *TemplateError.
func Execute(r Renderer, tasks []Task, logger *slog.Logger) (Result, error) {
	logger = logging.NewComponentLogger(logger, "render")
	var result Result
	var buf bytes.Buffer
	for _, task := range tasks {
		buf.Reset()
		if err := r.Render(&buf, task.Template, task.Data); err != nil {
			return result, err
		}
		if err := fileutil.WriteAtomic(task.Output, buf.Bytes(), 0o644); err != nil {
			return result, fmt.Errorf("write %s page: %w", task.Kind, err)
		}
		result.Pages++
		result.Bytes += int64(buf.Len())
		if task.Kind == KindComic {
			result.Comics++
		} else {
			logger.Debug("page written",
				logging.String("kind", string(task.Kind)),
				logging.String(logging.FieldFile, task.Output),
			)
		}
	}
	logger.Info("pages rendered",
		logging.Int("comics", result.Comics),
		logging.Int("pages", result.Pages),
	)
	return result, nil
}
