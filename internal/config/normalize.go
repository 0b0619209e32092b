package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeSite(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizePages(); err != nil {
		return err
	}
	c.normalizeTemplates()
	c.normalizeCatalog()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeSite() error {
	c.Site.Title = strings.TrimSpace(c.Site.Title)
	if c.Site.Title == "" {
		c.Site.Title = defaultSiteTitle
	}
	if value, ok := os.LookupEnv(baseURLEnv); ok && strings.TrimSpace(value) != "" {
		c.Site.BaseURL = value
	}
	c.Site.BaseURL = strings.TrimRight(strings.TrimSpace(c.Site.BaseURL), "/")

	if strings.TrimSpace(c.Site.Root) == "" {
		c.Site.Root = defaultSiteRoot
	}
	var err error
	if c.Site.Root, err = expandPath(c.Site.Root); err != nil {
		return fmt.Errorf("site.root: %w", err)
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.Images, err = publicRelative(c.Paths.Images, defaultImagesDir); err != nil {
		return fmt.Errorf("paths.images: %w", err)
	}
	if c.Paths.Output, err = publicRelative(c.Paths.Output, defaultOutputDir); err != nil {
		return fmt.Errorf("paths.output: %w", err)
	}
	if c.Paths.AltText, err = c.siteFile(c.Paths.AltText, defaultAltTextFile); err != nil {
		return fmt.Errorf("paths.alt_text: %w", err)
	}
	if strings.TrimSpace(c.Paths.Templates) != "" {
		if c.Paths.Templates, err = c.siteFile(c.Paths.Templates, ""); err != nil {
			return fmt.Errorf("paths.templates: %w", err)
		}
	} else {
		c.Paths.Templates = ""
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePages() error {
	var err error
	if c.Pages.Index, err = publicRelative(c.Pages.Index, defaultIndexPage); err != nil {
		return fmt.Errorf("pages.index: %w", err)
	}
	if c.Pages.Archive, err = publicRelative(c.Pages.Archive, defaultArchivePage); err != nil {
		return fmt.Errorf("pages.archive: %w", err)
	}
	if c.Pages.Feed, err = publicRelative(c.Pages.Feed, defaultFeedPage); err != nil {
		return fmt.Errorf("pages.feed: %w", err)
	}
	return nil
}

func (c *Config) normalizeTemplates() {
	c.Templates.Comic = defaultString(c.Templates.Comic, defaultComicTmpl)
	c.Templates.Feed = defaultString(c.Templates.Feed, defaultFeedTmpl)
	c.Templates.Archive = defaultString(c.Templates.Archive, defaultArchiveTmpl)
	c.Templates.Index = defaultString(c.Templates.Index, defaultIndexTmpl)
}

func (c *Config) normalizeCatalog() {
	ext := strings.TrimSpace(c.Catalog.ImageExtension)
	if ext == "" {
		ext = defaultImageExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Catalog.ImageExtension = ext
	if c.Catalog.FeedSize == 0 {
		c.Catalog.FeedSize = defaultFeedSize
	}
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.StateDir, defaultHistoryFile)
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	if c.History.Keep < 0 {
		c.History.Keep = 0
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json", "console":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// siteFile resolves a filesystem path relative to the site root. Absolute and
// tilde paths are kept as given.
func (c *Config) siteFile(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if !strings.HasPrefix(value, "~") && !filepath.IsAbs(value) {
		value = filepath.Join(c.Site.Root, value)
	}
	return expandPath(value)
}

// publicRelative cleans a site-relative path that also appears in public URLs.
func publicRelative(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	value = strings.TrimPrefix(filepath.ToSlash(value), "/")
	cleaned := path.Clean(value)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%q must name a location inside the site root", value)
	}
	return cleaned, nil
}

func defaultString(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
