package models

import "errors"

// ErrNotFound is returned by repositories when no record matches.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a record changed since it was read.
var ErrConflict = errors.New("record was modified concurrently")
