package site

import "errors"

var (
	// ErrInput marks a missing or unreadable input: the image directory or
	// the annotation file.
	ErrInput = errors.New("site input unavailable")
	// ErrTemplate marks a template that failed to load or render.
	ErrTemplate = errors.New("template failed")
	// ErrLocked marks a build refused because another one holds the lock.
	ErrLocked = errors.New("another build is running")
)
