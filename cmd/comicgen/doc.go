// Package main hosts the comicgen CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into site builds,
// read-only catalog listings, preflight checks, build history queries and
// configuration or template scaffolding. It centralizes configuration
// resolution and logger setup so subcommands only deal with presentation.
//
// Keep this package lean: new behavior belongs in the internal packages first
// and is surfaced here through dedicated commands or flags.
package main
