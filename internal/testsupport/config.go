package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"comicgen/internal/config"
)

// TestBaseURL is the base URL assigned to generated test configs.
const TestBaseURL = "https://comics.example.com"

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a fresh temp site directory. The
// images directory and an empty annotation file are created so a build can
// run immediately; options may override either.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Site.BaseURL = TestBaseURL
	cfgVal.Site.Root = filepath.Join(base, "site")
	cfgVal.Paths.AltText = filepath.Join(cfgVal.Site.Root, "alt_text.txt")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.History.Path = filepath.Join(cfgVal.Paths.StateDir, "history.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := os.MkdirAll(builder.cfg.ImagesDir(), 0o755); err != nil {
		t.Fatalf("mkdir images dir: %v", err)
	}
	if _, err := os.Stat(builder.cfg.AltTextPath()); os.IsNotExist(err) {
		if err := os.WriteFile(builder.cfg.AltTextPath(), nil, 0o644); err != nil {
			t.Fatalf("create alt text file: %v", err)
		}
	}
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	return builder.cfg
}

// WithFeedSize overrides the number of entries in the feed.
func WithFeedSize(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.FeedSize = n
	}
}

// WithHistory toggles the build history database.
func WithHistory(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = enabled
	}
}

// WithTemplatesDir points the config at a template directory.
func WithTemplatesDir(dir string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.Templates = dir
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Site.Root)
}
