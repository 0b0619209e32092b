// Package config loads, normalizes, and validates comicgen configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), resolves site-relative locations against the site root, reads
// TOML files, and honours the COMICGEN_BASE_URL environment override. The
// Config value is constructed once at startup and passed explicitly to every
// component; nothing reads configuration from package state.
package config
