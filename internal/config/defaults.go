package config

const (
	defaultConfigPath  = "~/.config/comicgen/config.toml"
	projectConfigName  = "comicgen.toml"
	defaultSiteTitle   = "Comic Archive"
	defaultSiteRoot    = "."
	defaultImagesDir   = "asset/cc"
	defaultAltTextFile = "alt_text.txt"
	defaultOutputDir   = "cc"
	defaultStateDir    = "~/.local/share/comicgen"
	defaultIndexPage   = "index.html"
	defaultArchivePage = "archive.html"
	defaultFeedPage    = "rss.xml"
	defaultComicTmpl   = "template_comic.html"
	defaultFeedTmpl    = "template_rss.xml"
	defaultArchiveTmpl = "template_archive.html"
	defaultIndexTmpl   = "template_index.html"
	defaultImageExt    = ".png"
	defaultFeedSize    = 30
	defaultHistoryFile = "history.db"
	defaultHistoryKeep = 200
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"

	baseURLEnv = "COMICGEN_BASE_URL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Site: Site{
			Title: defaultSiteTitle,
			Root:  defaultSiteRoot,
		},
		Paths: Paths{
			Images:   defaultImagesDir,
			AltText:  defaultAltTextFile,
			Output:   defaultOutputDir,
			StateDir: defaultStateDir,
		},
		Pages: Pages{
			Index:   defaultIndexPage,
			Archive: defaultArchivePage,
			Feed:    defaultFeedPage,
		},
		Templates: Templates{
			Comic:   defaultComicTmpl,
			Feed:    defaultFeedTmpl,
			Archive: defaultArchiveTmpl,
			Index:   defaultIndexTmpl,
		},
		Catalog: Catalog{
			ImageExtension: defaultImageExt,
			FeedSize:       defaultFeedSize,
		},
		History: History{
			Enabled: true,
			Keep:    defaultHistoryKeep,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
