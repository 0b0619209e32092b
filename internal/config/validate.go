package config

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSite(); err != nil {
		return err
	}
	if err := c.validatePages(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSite() error {
	if c.Site.BaseURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("site.base_url is required. Set %s or edit %s (create with 'comicgen config init')", baseURLEnv, defaultPath)
	}
	parsed, err := url.Parse(c.Site.BaseURL)
	if err != nil {
		return fmt.Errorf("site.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("site.base_url must be an http(s) URL, got %q", c.Site.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("site.base_url must include a host, got %q", c.Site.BaseURL)
	}
	return nil
}

func (c *Config) validatePages() error {
	seen := map[string]string{}
	for key, value := range map[string]string{
		"pages.index":   c.Pages.Index,
		"pages.archive": c.Pages.Archive,
		"pages.feed":    c.Pages.Feed,
	} {
		if other, ok := seen[value]; ok {
			return fmt.Errorf("%s and %s must differ (both %q)", key, other, value)
		}
		seen[value] = key
		if value == c.Paths.Output || strings.HasPrefix(value, c.Paths.Output+"/") {
			return fmt.Errorf("%s (%q) must not live inside paths.output, which is cleared on every build", key, value)
		}
	}
	if c.Paths.Output == c.Paths.Images || strings.HasPrefix(c.Paths.Images+"/", c.Paths.Output+"/") {
		return errors.New("paths.output must not contain paths.images")
	}
	return nil
}

// validatePaths keeps user-owned files out of the output directory, which is
// cleared before every build.
func (c *Config) validatePaths() error {
	type pathCheck struct {
		key   string
		value string
	}
	output := c.fsPath(c.Paths.Output)
	checks := []pathCheck{
		{"paths.alt_text", c.Paths.AltText},
		{"paths.templates", c.Paths.Templates},
		{"paths.state_dir", c.Paths.StateDir},
	}
	if c.History.Enabled {
		checks = append(checks, pathCheck{"history.path", c.History.Path})
	}
	for _, check := range checks {
		if strings.TrimSpace(check.value) == "" {
			continue
		}
		if within(output, c.fsPath(check.value)) {
			return fmt.Errorf("%s (%q) must not live inside paths.output, which is cleared on every build", check.key, check.value)
		}
	}
	return nil
}

// fsPath resolves a configured path against the site root.
func (c *Config) fsPath(value string) string {
	if !filepath.IsAbs(value) {
		value = filepath.Join(c.Site.Root, filepath.FromSlash(value))
	}
	if abs, err := filepath.Abs(value); err == nil {
		return abs
	}
	return filepath.Clean(value)
}

func within(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func (c *Config) validateCatalog() error {
	if c.Catalog.FeedSize < 0 {
		return errors.New("catalog.feed_size must be positive")
	}
	if ext := c.Catalog.ImageExtension; ext == "." || path.Base(ext) != ext {
		return fmt.Errorf("catalog.image_extension %q is not a file extension", ext)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
