// Package render turns a linked catalog into site pages.
//
// Plan produces one task per page: a page per comic, then the feed, the
// archive and the index. Execute runs the tasks through a Renderer and writes
// every page atomically. ClearOutput empties the comic page directory first so
// a build never leaves pages for comics that no longer exist.
//
// Templates come from the configured directory or, when none is set, from the
// defaults embedded in this package. HTML templates use html/template; the
// feed template (.xml) uses text/template with an xml escaping function and
// an rfc822 date function.
package render
