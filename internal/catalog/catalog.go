package catalog

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"

	"comicgen/internal/comicdate"
)

// none marks an absent next/previous link.
const none = -1

// Entry is one comic in the catalog.
type Entry struct {
	// SourcePath is the filesystem path of the image the entry was built from.
	SourcePath string
	// AssetPath is the public URL path of the image.
	AssetPath string
	// PagePath is the public URL path of the entry's rendered page.
	PagePath string
	Date     comicdate.Date
	AltText  string
	// HasExplicitAlt is set when the annotation file supplied AltText.
	HasExplicitAlt bool
	// MonthHeader labels the first (newest) entry of each calendar month.
	MonthHeader string

	next int
	prev int
}

// Catalog owns every entry of one run in newest-first order. Navigation links
// are indices into the same slice, so entries never reference each other
// directly.
type Catalog struct {
	entries []Entry
	byDate  map[comicdate.Date]int
	linked  bool
}

// New builds a catalog from entries, sorting them newest first. Dates must be
// unique.
func New(entries []Entry) (*Catalog, error) {
	owned := make([]Entry, len(entries))
	copy(owned, entries)
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].Date.After(owned[j].Date)
	})

	byDate := make(map[comicdate.Date]int, len(owned))
	for i := range owned {
		if _, exists := byDate[owned[i].Date]; exists {
			return nil, fmt.Errorf("duplicate comic date %s", owned[i].Date)
		}
		byDate[owned[i].Date] = i
		owned[i].next = none
		owned[i].prev = none
		owned[i].MonthHeader = ""
	}
	return &Catalog{entries: owned, byDate: byDate}, nil
}

// NewEntry synthesizes an entry for an image discovered at sourcePath.
func NewEntry(sourcePath string, date comicdate.Date, opts Options) Entry {
	return Entry{
		SourcePath: sourcePath,
		AssetPath:  "/" + path.Join(opts.ImagesPrefix, filepath.Base(sourcePath)),
		PagePath:   "/" + path.Join(opts.PagesPrefix, date.Key()+".html"),
		Date:       date,
		AltText:    DefaultAltText(date),
		next:       none,
		prev:       none,
	}
}

// DefaultAltText is the placeholder description used until an annotation
// supplies a real one.
func DefaultAltText(date comicdate.Date) string {
	return "Comic for " + date.Long()
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// At returns the entry at index i for in-place updates. Index 0 is the newest
// comic.
func (c *Catalog) At(i int) *Entry {
	return &c.entries[i]
}

// Entries returns a copy of the entries in newest-first order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup returns the index of the entry published on date.
func (c *Catalog) Lookup(date comicdate.Date) (int, bool) {
	if c == nil {
		return none, false
	}
	i, ok := c.byDate[date]
	return i, ok
}

// Next returns the index of the next newer entry.
func (c *Catalog) Next(i int) (int, bool) {
	next := c.entries[i].next
	return next, next != none
}

// Prev returns the index of the next older entry.
func (c *Catalog) Prev(i int) (int, bool) {
	prev := c.entries[i].prev
	return prev, prev != none
}

// Linked reports whether Link has run.
func (c *Catalog) Linked() bool {
	return c != nil && c.linked
}

// Link assigns navigation links and month headers in one pass over the
// newest-first slice. The newest entry always starts a month; any other entry
// does when its month differs from the next newer entry's.
func (c *Catalog) Link() {
	n := len(c.entries)
	for i := range c.entries {
		entry := &c.entries[i]
		entry.next = none
		entry.prev = none
		entry.MonthHeader = ""

		if i > 0 {
			entry.next = i - 1
		}
		if i < n-1 {
			entry.prev = i + 1
		}
		if i == 0 || !entry.Date.SameMonth(c.entries[i-1].Date) {
			entry.MonthHeader = entry.Date.MonthLabel()
		}
	}
	c.linked = true
}

// MissingAnnotations returns the indices of entries without an explicit
// annotation, newest first.
func (c *Catalog) MissingAnnotations() []int {
	var missing []int
	for i := range c.entries {
		if !c.entries[i].HasExplicitAlt {
			missing = append(missing, i)
		}
	}
	return missing
}
