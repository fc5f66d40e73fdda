package store

import "errors"

// Sentinel errors shared by every store implementation. Business-expected
// conditions are reported through these; anything else crossing the store
// boundary is an unexpected backend failure.
var (
	ErrNotFound = errors.New("referenced entity does not exist")
	ErrConflict = errors.New("entity conflicts with existing state")
)
