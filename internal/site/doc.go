// Package site wires the build pipeline together.
//
// A Builder runs the stages in a fixed order under an exclusive file lock:
// load templates, clear the comic page directory, discover images, merge
// annotations, link, plan and render. Each run gets a run ID and, when
// history is enabled, a row in the history database. Errors are wrapped with
// ErrInput, ErrTemplate or ErrLocked so callers can tell them apart.
package site
