package render

import (
	"bytes"
	"embed"
	"encoding/xml"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	texttemplate "text/template"
	"time"

	"comicgen/internal/comicdate"
	"comicgen/internal/config"
	"comicgen/internal/fileutil"
)

//go:embed templates/*
var defaultTemplates embed.FS

// Renderer turns a template name and its data into page content.
type Renderer interface {
	Render(w io.Writer, name string, data Data) error
}

// TemplateError reports a template that failed to load or execute.
type TemplateError struct {
	Template string
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// Templates is the Renderer backed by the site's four page templates. Names
// ending in .xml are parsed with text/template and escaped through the xml
// function; everything else uses html/template's contextual escaping.
type Templates struct {
	source string
	byName map[string]executor
}

// LoadTemplates parses the configured templates from dir, or from the
// embedded defaults when dir is empty. A missing directory or template is an
// error.
func LoadTemplates(dir string, names config.Templates) (*Templates, error) {
	var fsys fs.FS
	source := "embedded"
	if dir == "" {
		sub, err := fs.Sub(defaultTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("open embedded templates: %w", err)
		}
		fsys = sub
	} else {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("templates directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("templates directory %q is not a directory", dir)
		}
		fsys = os.DirFS(dir)
		source = dir
	}

	t := &Templates{source: source, byName: make(map[string]executor, 4)}
	for _, name := range []string{names.Comic, names.Feed, names.Archive, names.Index} {
		if _, ok := t.byName[name]; ok {
			continue
		}
		exec, err := parseTemplate(fsys, name)
		if err != nil {
			return nil, &TemplateError{Template: name, Err: err}
		}
		t.byName[name] = exec
	}
	return t, nil
}

// LoadTemplatesFromConfig loads the templates named in cfg.
func LoadTemplatesFromConfig(cfg *config.Config) (*Templates, error) {
	return LoadTemplates(cfg.TemplatesDir(), cfg.Templates)
}

// Source returns the directory the templates were read from, or "embedded".
func (t *Templates) Source() string { return t.source }

// Render executes the template called name with data.
func (t *Templates) Render(w io.Writer, name string, data Data) error {
	exec, ok := t.byName[name]
	if !ok {
		return &TemplateError{Template: name, Err: errors.New("not loaded")}
	}
	if err := exec.ExecuteTemplate(w, path.Base(name), data); err != nil {
		return &TemplateError{Template: name, Err: err}
	}
	return nil
}

func parseTemplate(fsys fs.FS, name string) (executor, error) {
	if strings.EqualFold(path.Ext(name), ".xml") {
		return texttemplate.New(path.Base(name)).Funcs(texttemplate.FuncMap(funcs())).ParseFS(fsys, name)
	}
	return htmltemplate.New(path.Base(name)).Funcs(htmltemplate.FuncMap(funcs())).ParseFS(fsys, name)
}

func funcs() map[string]any {
	return map[string]any{
		"xml":    xmlEscape,
		"rfc822": rfc822,
	}
}

func xmlEscape(v any) (string, error) {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(fmt.Sprint(v))); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// rfc822 formats a date as RSS expects, at midnight UTC.
func rfc822(d comicdate.Date) string {
	return d.Time().Format(time.RFC1123Z)
}

// DefaultTemplateNames lists the embedded template files.
func DefaultTemplateNames() ([]string, error) {
	entries, err := fs.ReadDir(defaultTemplates, "templates")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// WriteDefaults copies the embedded templates into dir so they can be edited.
// Existing files are kept unless overwrite is set. It returns the paths written.
func WriteDefaults(dir string, overwrite bool) ([]string, error) {
	names, err := DefaultTemplateNames()
	if err != nil {
		return nil, fmt.Errorf("list embedded templates: %w", err)
	}
	var written []string
	for _, name := range names {
		target := filepath.Join(dir, name)
		if !overwrite && fileutil.FileExists(target) {
			continue
		}
		data, err := defaultTemplates.ReadFile("templates/" + name)
		if err != nil {
			return written, fmt.Errorf("read embedded template %s: %w", name, err)
		}
		if err := fileutil.WriteAtomic(target, data, 0o644); err != nil {
			return written, fmt.Errorf("write template %s: %w", name, err)
		}
		written = append(written, target)
	}
	return written, nil
}
