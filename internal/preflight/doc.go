// Package preflight provides readiness checks for the filesystem paths,
// templates and history database a build depends on.
//
// The CLI "comicgen check" command runs RunAll and prints one status line per
// check. Checks never modify anything; a missing comic page directory passes
// as long as a build could create it.
package preflight
