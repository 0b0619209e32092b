// Package annotations reconciles the alt-text file with the comic catalog.
//
// The file holds one "YYYY-MM-DD description" line per comic. A merge reads a
// snapshot of the file, applies it to the catalog, and appends placeholder
// lines for comics nobody has described yet. Existing lines are never
// rewritten, so running a merge twice leaves the file byte-identical.
package annotations
