package domain

import "errors"

var (
	// ErrNotFound is returned when a mandatory entity does not exist.
	// Lookups whose contract allows absence return a nil record instead.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint, e.g. inserting the same ledger id twice. Callers creating
	// periodic ledgers treat it as "already exists, skip".
	ErrDuplicate = errors.New("duplicate record")
)
