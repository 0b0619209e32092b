// Package comicdate extracts calendar dates from comic file names and
// annotation lines.
//
// File names and annotation lines are loosely formatted: any three digit runs
// separated by non-digit characters are read as year, month and day. Impossible
// dates (month 13, February 30) are an expected outcome and are reported as a
// failed parse rather than an error. The package also owns the fixed date
// formats used for page names, default alt text and month headers.
package comicdate
