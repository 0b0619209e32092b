package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"comicgen/internal/logging"
	"comicgen/internal/testsupport"
)

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "catalog").Info("duplicate comic date",
		logging.String(logging.FieldDate, "2021-03-05"),
		logging.String(logging.FieldFile, "b c.png"),
	)
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, " INFO catalog: duplicate comic date date=2021-03-05 file=\"b c.png\"") {
		t.Fatalf("unexpected console line %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatal("debug line written at info level")
	}
	if strings.Contains(out, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", out)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestJSONLoggerAddsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf, RunID: "run-42"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.With(logging.String(logging.FieldComponent, "site")).Info("build finished", logging.Int("pages", 7))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if record[logging.FieldRunID] != "run-42" || record["level"] != "info" || record["pages"] != float64(7) {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestJSONLoggerLeadsWithRunAndEvent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf, RunID: "run-9"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	component := logging.NewComponentLogger(logger, "annotations")
	logging.WarnWithContext(component, "annotation has no matching comic", "annotation_orphan",
		logging.Int(logging.FieldLine, 4),
	)

	line := buf.String()
	want := `"msg":"annotation has no matching comic","run_id":"run-9","component":"annotations","event_type":"annotation_orphan","line":4`
	if !strings.Contains(line, want) {
		t.Fatalf("expected leading fields %s, got %s", want, line)
	}

	buf.Reset()
	logger.WithGroup("stats").Info("grouped", logging.Int("pages", 3))
	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	stats, ok := record["stats"].(map[string]any)
	if !ok || stats["pages"] != float64(3) {
		t.Fatalf("expected grouped pages, got %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextFillsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logging.WarnWithContext(logger, "annotation for unknown date", "annotation_orphan",
		logging.String(logging.FieldImpact, "annotation ignored"),
	)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record[logging.FieldEventType] != "annotation_orphan" {
		t.Fatalf("event type missing: %v", record)
	}
	if record[logging.FieldImpact] != "annotation ignored" {
		t.Fatalf("impact overridden: %v", record)
	}
	if record[logging.FieldErrorHint] == nil {
		t.Fatalf("error hint default missing: %v", record)
	}

	logging.WarnWithContext(nil, "ignored", "none")
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	var console bytes.Buffer

	logger, err := logging.NewFromConfig(cfg, "run-7", &console)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello")

	data, err := os.ReadFile(logging.LogPath(cfg))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	for _, out := range []string{console.String(), string(data)} {
		if !strings.Contains(out, "hello") || !strings.Contains(out, "run_id=run-7") {
			t.Fatalf("expected message with run id, got %q", out)
		}
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "x")
	logger.Error("nothing")
	if logger.Enabled(t.Context(), 0) {
		t.Fatal("nop logger must be disabled")
	}
}
