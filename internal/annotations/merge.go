package annotations

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"comicgen/internal/catalog"
	"comicgen/internal/comicdate"
	"comicgen/internal/logging"
)

// Report counts what a merge did with the annotation file.
type Report struct {
	Lines       int
	Applied     int
	Overridden  int
	Unparseable int
	Empty       int
	Orphans     int
	Appended    int
}

// Warnings returns the number of lines that were logged as warnings.
func (r Report) Warnings() int {
	return r.Unparseable + r.Empty + r.Orphans
}

// Snapshot is the annotation file as read before any write.
type Snapshot struct {
	Path  string
	Data  []byte
	Lines []string
}

// EndsWithNewline reports whether appended content can start on a fresh line.
func (s Snapshot) EndsWithNewline() bool {
	return len(s.Data) == 0 || s.Data[len(s.Data)-1] == '\n'
}

// Read loads the whole annotation file. A missing file is an error.
func Read(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read annotation file: %w", err)
	}
	snap := Snapshot{Path: path, Data: data}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		snap.Lines = append(snap.Lines, strings.TrimRightFunc(scanner.Text(), unicode.IsSpace))
	}
	if err := scanner.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("scan annotation file: %w", err)
	}
	return snap, nil
}

// Apply overrides the alt text of every catalog entry named by a line of the
// snapshot. Later lines for the same date win. Lines for dates absent from the
// catalog are skipped and only warned about when they fall within cutoff.
func Apply(snap Snapshot, cat *catalog.Catalog, cutoff *comicdate.Date, logger *slog.Logger) Report {
	logger = logging.NewComponentLogger(logger, "annotations")
	var report Report
	applied := make(map[int]bool)

	for n, line := range snap.Lines {
		lineNo := n + 1
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		report.Lines++

		date, ok := comicdate.Parse(line)
		if !ok {
			report.Unparseable++
			logging.WarnWithContext(logger, "skipping annotation without a valid date", "annotation_date_unparseable",
				logging.String(logging.FieldFile, snap.Path),
				logging.Int(logging.FieldLine, lineNo),
				logging.String(logging.FieldErrorHint, "start the line with YYYY-MM-DD"),
				logging.String(logging.FieldImpact, "line is ignored"),
			)
			continue
		}

		idx, found := cat.Lookup(date)
		text, ok := altText(line)
		if !ok {
			report.Empty++
			logging.WarnWithContext(logger, "annotation has no text", "annotation_text_empty",
				logging.String(logging.FieldFile, snap.Path),
				logging.Int(logging.FieldLine, lineNo),
				logging.String(logging.FieldDate, date.Key()),
				logging.String(logging.FieldErrorHint, "add a description after the date"),
				logging.String(logging.FieldImpact, "comic keeps its current alt text"),
			)
			// The line exists, so no placeholder is appended for the date.
			if found {
				cat.At(idx).HasExplicitAlt = true
			}
			continue
		}

		if !found {
			if !comicdate.Within(date, cutoff) {
				continue
			}
			report.Orphans++
			logging.WarnWithContext(logger, "annotation has no matching comic", "annotation_orphan",
				logging.String(logging.FieldFile, snap.Path),
				logging.Int(logging.FieldLine, lineNo),
				logging.String(logging.FieldDate, date.Key()),
				logging.String(logging.FieldErrorHint, "add the image or remove the line"),
				logging.String(logging.FieldImpact, "line is ignored"),
			)
			continue
		}

		entry := cat.At(idx)
		entry.AltText = text
		entry.HasExplicitAlt = true
		if applied[idx] {
			report.Overridden++
			logger.Debug("annotation overrides an earlier line",
				logging.String(logging.FieldDate, date.Key()),
				logging.Int(logging.FieldLine, lineNo),
			)
			continue
		}
		applied[idx] = true
		report.Applied++
	}
	return report
}

// altText returns the text following the first whitespace-delimited token of
// line, NFC normalized.
func altText(line string) (string, bool) {
	cut := strings.IndexFunc(line, unicode.IsSpace)
	if cut < 0 {
		return "", false
	}
	text := strings.TrimLeftFunc(line[cut:], unicode.IsSpace)
	if text == "" {
		return "", false
	}
	return norm.NFC.String(text), true
}

// Delta returns one placeholder line per entry still lacking an annotation,
// newest first.
func Delta(cat *catalog.Catalog) []string {
	missing := cat.MissingAnnotations()
	lines := make([]string, 0, len(missing))
	for _, i := range missing {
		entry := cat.At(i)
		lines = append(lines, entry.Date.Key()+" "+entry.AltText)
	}
	return lines
}

// Append writes lines to the end of the snapshot's file. Existing bytes are
// never rewritten. Nothing is written when lines is empty.
func Append(snap Snapshot, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if !snap.EndsWithNewline() {
		buf.WriteByte('\n')
	}
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	f, err := os.OpenFile(snap.Path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open annotation file for append: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return fmt.Errorf("append annotation file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close annotation file: %w", err)
	}
	return nil
}

// Merge reconciles the annotation file at path with cat: read the snapshot,
// apply it, then append placeholder lines for entries nothing annotated.
func Merge(path string, cat *catalog.Catalog, cutoff *comicdate.Date, logger *slog.Logger) (Report, error) {
	snap, err := Read(path)
	if err != nil {
		return Report{}, err
	}
	report := Apply(snap, cat, cutoff, logger)

	delta := Delta(cat)
	if err := Append(snap, delta); err != nil {
		return report, err
	}
	report.Appended = len(delta)

	logging.NewComponentLogger(logger, "annotations").Info("annotations merged",
		logging.String(logging.FieldFile, path),
		logging.Int("applied", report.Applied),
		logging.Int("appended", report.Appended),
		logging.Int("warnings", report.Warnings()),
	)
	return report, nil
}
