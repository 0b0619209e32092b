package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"comicgen/internal/config"
)

func TestLoadDefaultConfigUsesEnvBaseURLAndExpandsPaths(t *testing.T) {
	t.Setenv("COMICGEN_BASE_URL", "https://comics.example.com/")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Site.BaseURL != "https://comics.example.com" {
		t.Fatalf("expected trailing slash trimmed from base url, got %q", cfg.Site.BaseURL)
	}
	if !filepath.IsAbs(cfg.Site.Root) {
		t.Fatalf("expected absolute site root, got %q", cfg.Site.Root)
	}
	wantState := filepath.Join(tempHome, ".local", "share", "comicgen")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.History.Path != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.History.Path)
	}
	if cfg.ImagesDir() != filepath.Join(cfg.Site.Root, "asset", "cc") {
		t.Fatalf("unexpected images dir: %q", cfg.ImagesDir())
	}
	if cfg.OutputDir() != filepath.Join(cfg.Site.Root, "cc") {
		t.Fatalf("unexpected output dir: %q", cfg.OutputDir())
	}
	if cfg.AltTextPath() != filepath.Join(cfg.Site.Root, "alt_text.txt") {
		t.Fatalf("unexpected alt text path: %q", cfg.AltTextPath())
	}
	if cfg.TemplatesDir() != "" {
		t.Fatalf("expected embedded templates by default, got %q", cfg.TemplatesDir())
	}
	if cfg.Catalog.FeedSize != 30 {
		t.Fatalf("unexpected feed size: %d", cfg.Catalog.FeedSize)
	}
	if cfg.Catalog.ImageExtension != ".png" {
		t.Fatalf("unexpected image extension: %q", cfg.Catalog.ImageExtension)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.StateDir); err != nil || !info.IsDir() {
		t.Fatalf("expected state dir to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "comicgen.toml")
	siteRoot := filepath.Join(tempDir, "site")

	type payload struct {
		Site struct {
			BaseURL string `toml:"base_url"`
			Root    string `toml:"root"`
		} `toml:"site"`
		Paths struct {
			Images    string `toml:"images"`
			Output    string `toml:"output"`
			Templates string `toml:"templates"`
		} `toml:"paths"`
		Catalog struct {
			ImageExtension string `toml:"image_extension"`
			FeedSize       int    `toml:"feed_size"`
		} `toml:"catalog"`
	}
	custom := payload{}
	custom.Site.BaseURL = "https://example.org"
	custom.Site.Root = siteRoot
	custom.Paths.Images = "/img/strips/"
	custom.Paths.Output = "comics"
	custom.Paths.Templates = "tmpl"
	custom.Catalog.ImageExtension = "jpg"
	custom.Catalog.FeedSize = 10
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.Images != "img/strips" {
		t.Fatalf("expected cleaned public images path, got %q", cfg.Paths.Images)
	}
	if cfg.TemplatesDir() != filepath.Join(siteRoot, "tmpl") {
		t.Fatalf("expected templates relative to site root, got %q", cfg.TemplatesDir())
	}
	if cfg.Catalog.ImageExtension != ".jpg" {
		t.Fatalf("expected dotted extension, got %q", cfg.Catalog.ImageExtension)
	}
	if cfg.Catalog.FeedSize != 10 {
		t.Fatalf("expected feed size 10, got %d", cfg.Catalog.FeedSize)
	}
	if got := cfg.SitePath("/comics/2021-03-05.html"); got != filepath.Join(siteRoot, "comics", "2021-03-05.html") {
		t.Fatalf("unexpected site path: %q", got)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "missing base url", content: "[site]\ntitle = \"x\"\n", wantErr: "site.base_url is required"},
		{name: "bad scheme", content: "[site]\nbase_url = \"ftp://example.com\"\n", wantErr: "http(s)"},
		{name: "escaping output", content: "[site]\nbase_url = \"https://example.com\"\n[paths]\noutput = \"../out\"\n", wantErr: "paths.output"},
		{name: "page inside output", content: "[site]\nbase_url = \"https://example.com\"\n[pages]\nindex = \"cc/index.html\"\n", wantErr: "must not live inside paths.output"},
		{name: "alt text inside output", content: "[site]\nbase_url = \"https://example.com\"\n[paths]\nalt_text = \"cc/alt_text.txt\"\n", wantErr: "paths.alt_text"},
		{name: "templates inside output", content: "[site]\nbase_url = \"https://example.com\"\n[paths]\ntemplates = \"cc/templates\"\n", wantErr: "paths.templates"},
		{name: "templates are output", content: "[site]\nbase_url = \"https://example.com\"\n[paths]\noutput = \"pages\"\ntemplates = \"pages\"\n", wantErr: "paths.templates"},
		{name: "duplicate pages", content: "[site]\nbase_url = \"https://example.com\"\n[pages]\nindex = \"a.html\"\narchive = \"a.html\"\n", wantErr: "must differ"},
		{name: "unknown key", content: "[site]\nbase_url = \"https://example.com\"\nbogus = 1\n", wantErr: "parse config"},
		{name: "bad level", content: "[site]\nbase_url = \"https://example.com\"\n[logging]\nlevel = \"loud\"\n", wantErr: "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("COMICGEN_BASE_URL", "")
			path := filepath.Join(t.TempDir(), "comicgen.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateKeepsUserFilesOutOfOutput(t *testing.T) {
	root := t.TempDir()
	base := config.Default()
	base.Site.BaseURL = "https://example.com"
	base.Site.Root = root
	base.Paths.AltText = filepath.Join(root, "alt_text.txt")
	base.Paths.StateDir = filepath.Join(root, "state")
	base.History.Path = filepath.Join(root, "state", "history.db")
	if err := base.Validate(); err != nil {
		t.Fatalf("baseline config should validate: %v", err)
	}

	cases := map[string]func(c *config.Config){
		"relative alt text":  func(c *config.Config) { c.Paths.AltText = "cc/alt_text.txt" },
		"relative templates": func(c *config.Config) { c.Paths.Templates = "cc/templates" },
		"absolute state dir": func(c *config.Config) { c.Paths.StateDir = filepath.Join(root, "cc", "state") },
		"history db":         func(c *config.Config) { c.History.Path = filepath.Join(root, "cc", "history.db") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "inside paths.output") {
				t.Fatalf("expected rejection, got %v", err)
			}
		})
	}

	sibling := base
	sibling.Paths.Templates = filepath.Join(root, "cc-templates")
	if err := sibling.Validate(); err != nil {
		t.Fatalf("sibling directory with a shared prefix must be allowed: %v", err)
	}
}

func TestEnvVarOverridesConfigFileBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comicgen.toml")
	if err := os.WriteFile(path, []byte("[site]\nbase_url = \"https://file.example.com\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("COMICGEN_BASE_URL", "https://env.example.com")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Site.BaseURL != "https://env.example.com" {
		t.Errorf("expected base url from env, got %q", cfg.Site.BaseURL)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	t.Setenv("COMICGEN_BASE_URL", "")
	t.Setenv("HOME", t.TempDir())
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Site.BaseURL != "https://comics.example.com" {
		t.Fatalf("unexpected sample base url: %q", cfg.Site.BaseURL)
	}
}
