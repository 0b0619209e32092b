// Package catalog discovers dated comic images and keeps them as an ordered,
// linked catalog.
//
// Build scans the image directory, synthesizes one Entry per dated image and
// drops duplicates and images past the cutoff. Link then assigns navigation
// links and month headers. The Catalog owns its entries in a single
// newest-first slice and expresses next/previous links as indices into it.
package catalog
