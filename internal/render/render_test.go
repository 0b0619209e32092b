package render_test

import (
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"comicgen/internal/catalog"
	"comicgen/internal/comicdate"
	"comicgen/internal/config"
	"comicgen/internal/render"
	"comicgen/internal/testsupport"
)

func linkedCatalog(t *testing.T, cfg *config.Config, dates ...comicdate.Date) *catalog.Catalog {
	t.Helper()
	opts := catalog.OptionsFromConfig(cfg)
	entries := make([]catalog.Entry, 0, len(dates))
	for _, d := range dates {
		entries = append(entries, catalog.NewEntry(filepath.Join(cfg.ImagesDir(), "cc_"+d.Key()+".png"), d, opts))
	}
	cat, err := catalog.New(entries)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	cat.Link()
	return cat
}

func daysBack(n int) []comicdate.Date {
	start := comicdate.MustNew(2024, time.June, 30).Time()
	out := make([]comicdate.Date, n)
	for i := range out {
		out[i] = comicdate.FromTime(start.AddDate(0, 0, -i))
	}
	return out
}

func renderAll(t *testing.T, cfg *config.Config, cat *catalog.Catalog) []render.Task {
	t.Helper()
	tasks, err := render.Plan(cat, cfg)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	tmpl, err := render.LoadTemplatesFromConfig(cfg)
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	if err := render.ClearOutput(cfg.OutputDir(), nil); err != nil {
		t.Fatalf("ClearOutput: %v", err)
	}
	if _, err := render.Execute(tmpl, tasks, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return tasks
}

func openDoc(t *testing.T, path string) *goquery.Document {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return doc
}

func TestPlanTaskShape(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cat := linkedCatalog(t, cfg, daysBack(1000)...)

	tasks, err := render.Plan(cat, cfg)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(tasks) != 1003 {
		t.Fatalf("expected 1003 tasks, got %d", len(tasks))
	}

	byKind := map[render.Kind][]render.Task{}
	for _, task := range tasks {
		byKind[task.Kind] = append(byKind[task.Kind], task)
	}
	if len(byKind[render.KindComic]) != 1000 {
		t.Fatalf("expected one comic task per entry, got %d", len(byKind[render.KindComic]))
	}
	feed := byKind[render.KindFeed][0]
	if len(feed.Data.Comics) != 30 {
		t.Fatalf("feed must hold 30 entries, got %d", len(feed.Data.Comics))
	}
	if !feed.Data.Comics[0].Date.After(feed.Data.Comics[29].Date) {
		t.Fatal("feed must be newest first")
	}
	if archive := byKind[render.KindArchive][0]; len(archive.Data.Comics) != 1000 {
		t.Fatalf("archive must hold every entry, got %d", len(archive.Data.Comics))
	}
	index := byKind[render.KindIndex][0]
	if index.Data.Comic == nil || index.Data.Comic.Date != cat.At(0).Date {
		t.Fatal("index must show the newest comic")
	}
	if index.Output != filepath.Join(cfg.Site.Root, "index.html") {
		t.Fatalf("unexpected index output %s", index.Output)
	}
	first := byKind[render.KindComic][0]
	if first.Output != filepath.Join(cfg.OutputDir(), "2024-06-30.html") {
		t.Fatalf("unexpected comic output %s", first.Output)
	}
	if first.Data.Comic.Prev == nil || first.Data.Comic.Prev.Key() != "2024-06-29" {
		t.Fatal("newest comic must link to the previous day")
	}
	if first.Data.Site.FeedURL != testsupport.TestBaseURL+"/rss.xml" {
		t.Fatalf("unexpected feed url %s", first.Data.Site.FeedURL)
	}
}

func TestPlanRequiresLinkedCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cat, err := catalog.New([]catalog.Entry{
		catalog.NewEntry("a.png", comicdate.MustNew(2021, time.March, 5), catalog.OptionsFromConfig(cfg)),
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	if _, err := render.Plan(cat, cfg); err == nil {
		t.Fatal("expected error for unlinked catalog")
	}
}

func TestExecuteRendersComicPages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cat := linkedCatalog(t, cfg,
		comicdate.MustNew(2021, time.March, 5),
		comicdate.MustNew(2021, time.February, 20),
		comicdate.MustNew(2021, time.February, 10),
		comicdate.MustNew(2021, time.January, 30),
	)
	cat.At(1).AltText = `Robots & "friends" <3`
	renderAll(t, cfg, cat)

	doc := openDoc(t, filepath.Join(cfg.OutputDir(), "2021-02-20.html"))
	img := doc.Find("figure.comic img")
	if src, _ := img.Attr("src"); src != "/asset/cc/cc_2021-02-20.png" {
		t.Fatalf("unexpected img src %q", src)
	}
	if alt, _ := img.Attr("alt"); alt != `Robots & "friends" <3` {
		t.Fatalf("unexpected alt %q", alt)
	}
	if href, _ := doc.Find("a.prev").Attr("href"); href != "/cc/2021-02-10.html" {
		t.Fatalf("unexpected prev link %q", href)
	}
	if href, _ := doc.Find("a.next").Attr("href"); href != "/cc/2021-03-05.html" {
		t.Fatalf("unexpected next link %q", href)
	}

	newest := openDoc(t, filepath.Join(cfg.OutputDir(), "2021-03-05.html"))
	if newest.Find("a.next").Length() != 0 {
		t.Fatal("newest comic must not link forward")
	}
	oldest := openDoc(t, filepath.Join(cfg.OutputDir(), "2021-01-30.html"))
	if oldest.Find("a.prev").Length() != 0 {
		t.Fatal("oldest comic must not link back")
	}
}

func TestExecuteRendersArchiveHeaders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cat := linkedCatalog(t, cfg,
		comicdate.MustNew(2021, time.March, 5),
		comicdate.MustNew(2021, time.February, 20),
		comicdate.MustNew(2021, time.February, 10),
		comicdate.MustNew(2021, time.January, 30),
	)
	renderAll(t, cfg, cat)

	doc := openDoc(t, filepath.Join(cfg.Site.Root, "archive.html"))
	var headers []string
	doc.Find("li.month h2").Each(func(_ int, s *goquery.Selection) {
		headers = append(headers, s.Text())
	})
	want := []string{"March 2021", "February 2021", "January 2021"}
	if strings.Join(headers, "|") != strings.Join(want, "|") {
		t.Fatalf("got headers %v want %v", headers, want)
	}
	if n := doc.Find("li.comic").Length(); n != 4 {
		t.Fatalf("expected 4 archive entries, got %d", n)
	}

	index := openDoc(t, filepath.Join(cfg.Site.Root, "index.html"))
	if src, _ := index.Find("figure.comic img").Attr("src"); src != "/asset/cc/cc_2021-03-05.png" {
		t.Fatalf("index must show newest comic, got %q", src)
	}
}

type rssDoc struct {
	Channel struct {
		Title string `xml:"title"`
		Items []struct {
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			PubDate     string `xml:"pubDate"`
			Description string `xml:"description"`
		} `xml:"item"`
	} `xml:"channel"`
}

func TestExecuteRendersFeed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Site.Title = "Bots & Bolts"
	cat := linkedCatalog(t, cfg, daysBack(45)...)
	cat.At(0).AltText = "A <robot> & a cat"
	renderAll(t, cfg, cat)

	data, err := os.ReadFile(filepath.Join(cfg.Site.Root, "rss.xml"))
	if err != nil {
		t.Fatalf("read feed: %v", err)
	}
	var feed rssDoc
	if err := xml.Unmarshal(data, &feed); err != nil {
		t.Fatalf("feed is not valid XML: %v\n%s", err, data)
	}
	if feed.Channel.Title != "Bots & Bolts" {
		t.Fatalf("unexpected channel title %q", feed.Channel.Title)
	}
	if len(feed.Channel.Items) != 30 {
		t.Fatalf("expected 30 feed items, got %d", len(feed.Channel.Items))
	}
	item := feed.Channel.Items[0]
	if item.Link != testsupport.TestBaseURL+"/cc/2024-06-30.html" {
		t.Fatalf("unexpected item link %q", item.Link)
	}
	if item.PubDate != "Sun, 30 Jun 2024 00:00:00 +0000" {
		t.Fatalf("unexpected pubDate %q", item.PubDate)
	}
	if !strings.Contains(item.Description, `alt="A &lt;robot&gt; &amp; a cat"`) {
		t.Fatalf("unexpected description %q", item.Description)
	}
}

func TestExecuteEmptyCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cat := linkedCatalog(t, cfg)
	renderAll(t, cfg, cat)

	if entries := testsupport.ListDir(t, cfg.OutputDir()); len(entries) != 0 {
		t.Fatalf("expected no comic pages, got %v", entries)
	}
	index := openDoc(t, filepath.Join(cfg.Site.Root, "index.html"))
	if index.Find("p.empty").Length() != 1 {
		t.Fatal("empty index must say so")
	}
	archive := openDoc(t, filepath.Join(cfg.Site.Root, "archive.html"))
	if archive.Find("li.comic").Length() != 0 || archive.Find("li.empty").Length() != 1 {
		t.Fatal("empty archive must have no entries")
	}
	var feed rssDoc
	if err := xml.Unmarshal([]byte(testsupport.ReadFile(t, filepath.Join(cfg.Site.Root, "rss.xml"))), &feed); err != nil {
		t.Fatalf("feed is not valid XML: %v", err)
	}
	if len(feed.Channel.Items) != 0 {
		t.Fatalf("expected empty feed, got %d items", len(feed.Channel.Items))
	}
}

func TestClearOutputRemovesStalePages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, filepath.Join(cfg.OutputDir(), "2019-01-01.html"), []byte("stale"))
	testsupport.WriteFile(t, filepath.Join(cfg.OutputDir(), "notes.txt"), []byte("stale"))

	cat := linkedCatalog(t, cfg, comicdate.MustNew(2021, time.March, 5), comicdate.MustNew(2021, time.March, 4))
	renderAll(t, cfg, cat)

	got := testsupport.ListDir(t, cfg.OutputDir())
	want := []string{"2021-03-04.html", "2021-03-05.html"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestLoadTemplatesFromDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "templates")
	written, err := render.WriteDefaults(dir, false)
	if err != nil {
		t.Fatalf("WriteDefaults: %v", err)
	}
	if len(written) != 4 {
		t.Fatalf("expected 4 templates written, got %v", written)
	}
	testsupport.WriteFile(t, filepath.Join(dir, "template_index.html"), []byte(`<p id="custom">{{.Site.Title}}</p>`))

	cfg := testsupport.NewConfig(t, testsupport.WithTemplatesDir(dir))
	cat := linkedCatalog(t, cfg, comicdate.MustNew(2021, time.March, 5))
	renderAll(t, cfg, cat)

	doc := openDoc(t, filepath.Join(cfg.Site.Root, "index.html"))
	if got := doc.Find("#custom").Text(); got != cfg.Site.Title {
		t.Fatalf("custom template not used, got %q", got)
	}

	again, err := render.WriteDefaults(dir, false)
	if err != nil {
		t.Fatalf("WriteDefaults: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("existing templates must be kept, rewrote %v", again)
	}
}

func TestLoadTemplatesErrors(t *testing.T) {
	names := config.Default().Templates

	if _, err := render.LoadTemplates(filepath.Join(t.TempDir(), "missing"), names); err == nil {
		t.Fatal("expected error for missing templates directory")
	}

	dir := t.TempDir()
	if _, err := render.LoadTemplates(dir, names); err == nil {
		t.Fatal("expected error for missing template file")
	}

	if _, err := render.WriteDefaults(dir, false); err != nil {
		t.Fatalf("WriteDefaults: %v", err)
	}
	testsupport.WriteFile(t, filepath.Join(dir, names.Comic), []byte(`{{.Comic.Nope`))
	_, err := render.LoadTemplates(dir, names)
	var tmplErr *render.TemplateError
	if !errors.As(err, &tmplErr) || tmplErr.Template != names.Comic {
		t.Fatalf("expected TemplateError for %s, got %v", names.Comic, err)
	}
}

func TestExecuteReportsTemplateErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := render.WriteDefaults(dir, false); err != nil {
		t.Fatalf("WriteDefaults: %v", err)
	}
	testsupport.WriteFile(t, filepath.Join(dir, "template_archive.html"), []byte(`{{.Missing.Field}}`))

	cfg := testsupport.NewConfig(t, testsupport.WithTemplatesDir(dir))
	cat := linkedCatalog(t, cfg, comicdate.MustNew(2021, time.March, 5))
	tasks, err := render.Plan(cat, cfg)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	tmpl, err := render.LoadTemplatesFromConfig(cfg)
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	_, err = render.Execute(tmpl, tasks, nil)
	var tmplErr *render.TemplateError
	if !errors.As(err, &tmplErr) {
		t.Fatalf("expected TemplateError, got %v", err)
	}
}
