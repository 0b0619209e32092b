package render

import (
	"errors"

	"comicgen/internal/catalog"
	"comicgen/internal/comicdate"
	"comicgen/internal/config"
)

// Kind identifies the page a task renders.
type Kind string

const (
	KindComic   Kind = "comic"
	KindFeed    Kind = "feed"
	KindArchive Kind = "archive"
	KindIndex   Kind = "index"
)

// Task is one page to render: which template, where to write it and with what
// data.
type Task struct {
	Kind     Kind
	Template string
	Output   string
	Data     Data
}

// Plan returns the render tasks for a linked catalog: one comic page per entry
// followed by the feed, the archive and the index. The catalog is only read.
func Plan(cat *catalog.Catalog, cfg *config.Config) ([]Task, error) {
	if cat.Len() > 0 && !cat.Linked() {
		return nil, errors.New("render plan: catalog is not linked")
	}

	comics := views(cat, cfg.Site.BaseURL)
	var updated comicdate.Date
	if len(comics) > 0 {
		updated = comics[0].Date
	}
	site := SiteFromConfig(cfg, updated)

	tasks := make([]Task, 0, len(comics)+3)
	for _, c := range comics {
		tasks = append(tasks, Task{
			Kind:     KindComic,
			Template: cfg.Templates.Comic,
			Output:   cfg.SitePath(c.PagePath),
			Data:     Data{Site: site, Comic: c},
		})
	}

	feedSize := cfg.Catalog.FeedSize
	if feedSize <= 0 || feedSize > len(comics) {
		feedSize = len(comics)
	}
	tasks = append(tasks, Task{
		Kind:     KindFeed,
		Template: cfg.Templates.Feed,
		Output:   cfg.SitePath(cfg.Pages.Feed),
		Data:     Data{Site: site, Comics: comics[:feedSize]},
	})
	tasks = append(tasks, Task{
		Kind:     KindArchive,
		Template: cfg.Templates.Archive,
		Output:   cfg.SitePath(cfg.Pages.Archive),
		Data:     Data{Site: site, Comics: comics},
	})

	var newest *Comic
	if len(comics) > 0 {
		newest = comics[0]
	}
	tasks = append(tasks, Task{
		Kind:     KindIndex,
		Template: cfg.Templates.Index,
		Output:   cfg.SitePath(cfg.Pages.Index),
		Data:     Data{Site: site, Comic: newest},
	})
	return tasks, nil
}
