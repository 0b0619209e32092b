package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Site contains global site metadata exposed to every template.
type Site struct {
	Title   string `toml:"title"`
	BaseURL string `toml:"base_url"`
	Root    string `toml:"root"`
}

// Paths contains site-relative input/output locations and the state directory.
//
// Images and Output double as public URL prefixes, so they stay relative to
// Site.Root and use forward slashes.
type Paths struct {
	Images    string `toml:"images"`
	AltText   string `toml:"alt_text"`
	Output    string `toml:"output"`
	Templates string `toml:"templates"`
	StateDir  string `toml:"state_dir"`
}

// Pages contains the site-relative paths of the fixed pages.
type Pages struct {
	Index   string `toml:"index"`
	Archive string `toml:"archive"`
	Feed    string `toml:"feed"`
}

// Templates names the template file used for each page kind.
type Templates struct {
	Comic   string `toml:"comic"`
	Feed    string `toml:"feed"`
	Archive string `toml:"archive"`
	Index   string `toml:"index"`
}

// Catalog contains comic discovery settings.
type Catalog struct {
	ImageExtension string `toml:"image_extension"`
	FeedSize       int    `toml:"feed_size"`
}

// History contains configuration for the build history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	Keep    int    `toml:"keep"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for comicgen. It is loaded once
// per invocation and passed explicitly to every component.
//
// Configuration sections:
//   - Site: title, base URL and site root directory
//   - Paths: image, annotation, output, template and state locations
//   - Pages: fixed page output paths
//   - Templates: template file names per page kind
//   - Catalog: image extension and feed length
//   - History: SQLite build history
//   - Logging: log format and level
type Config struct {
	Site      Site      `toml:"site"`
	Paths     Paths     `toml:"paths"`
	Pages     Pages     `toml:"pages"`
	Templates Templates `toml:"templates"`
	Catalog   Catalog   `toml:"catalog"`
	History   History   `toml:"history"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory used for the build lock,
// log file and history database.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StateDir}
	if c.History.Enabled && c.History.Path != "" {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ImagesDir returns the filesystem directory scanned for comic images.
func (c *Config) ImagesDir() string {
	return c.sitePath(c.Paths.Images)
}

// OutputDir returns the filesystem directory that receives per-comic pages.
func (c *Config) OutputDir() string {
	return c.sitePath(c.Paths.Output)
}

// AltTextPath returns the filesystem path of the annotation file.
func (c *Config) AltTextPath() string {
	return c.Paths.AltText
}

// TemplatesDir returns the template directory, or "" when the embedded
// templates should be used.
func (c *Config) TemplatesDir() string {
	return c.Paths.Templates
}

// SitePath maps a public, site-relative path such as "/cc/2021-03-05.html"
// onto the filesystem.
func (c *Config) SitePath(public string) string {
	return c.sitePath(strings.TrimPrefix(public, "/"))
}

// LockPath returns the advisory lock file guarding a build.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "build.lock")
}

func (c *Config) sitePath(rel string) string {
	return filepath.Join(c.Site.Root, filepath.FromSlash(rel))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
