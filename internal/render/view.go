package render

import (
	"comicgen/internal/catalog"
	"comicgen/internal/comicdate"
	"comicgen/internal/config"
)

// Site is the global site data passed to every template.
type Site struct {
	Title   string
	BaseURL string
	// Index, Archive and Feed are the public paths of the fixed pages.
	Index   string
	Archive string
	Feed    string
	// FeedURL is the absolute URL of the feed.
	FeedURL string
	// Updated is the date of the newest comic, zero when there are none.
	Updated comicdate.Date
}

// Comic is the template view of one catalog entry. Navigation links are
// pointers into the same view slice so templates can write .Next.PagePath.
type Comic struct {
	Date        comicdate.Date
	ImagePath   string
	PagePath    string
	AltText     string
	MonthHeader string
	// URL and ImageURL are absolute, for feeds.
	URL      string
	ImageURL string
	Next     *Comic
	Prev     *Comic
}

// Key returns the YYYY-MM-DD form of the comic's date.
func (c *Comic) Key() string { return c.Date.Key() }

// Data is the value handed to a template. Comic is set for comic and index
// pages, Comics for the feed and the archive.
type Data struct {
	Site   Site
	Comic  *Comic
	Comics []*Comic
}

// SiteFromConfig builds the site view for cfg. updated is the newest comic's
// date, if any.
func SiteFromConfig(cfg *config.Config, updated comicdate.Date) Site {
	return Site{
		Title:   cfg.Site.Title,
		BaseURL: cfg.Site.BaseURL,
		Index:   "/" + cfg.Pages.Index,
		Archive: "/" + cfg.Pages.Archive,
		Feed:    "/" + cfg.Pages.Feed,
		FeedURL: cfg.Site.BaseURL + "/" + cfg.Pages.Feed,
		Updated: updated,
	}
}

// views converts a linked catalog into template views, newest first.
func views(cat *catalog.Catalog, baseURL string) []*Comic {
	n := cat.Len()
	out := make([]*Comic, n)
	for i := 0; i < n; i++ {
		e := cat.At(i)
		out[i] = &Comic{
			Date:        e.Date,
			ImagePath:   e.AssetPath,
			PagePath:    e.PagePath,
			AltText:     e.AltText,
			MonthHeader: e.MonthHeader,
			URL:         baseURL + e.PagePath,
			ImageURL:    baseURL + e.AssetPath,
		}
	}
	for i := 0; i < n; i++ {
		if next, ok := cat.Next(i); ok {
			out[i].Next = out[next]
		}
		if prev, ok := cat.Prev(i); ok {
			out[i].Prev = out[prev]
		}
	}
	return out
}
