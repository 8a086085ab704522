package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Get and Remove for an unknown event ID.
	ErrNotFound = errors.New("event not found")
	// ErrDuplicateID is returned by Add on an ID collision. Practically
	// unreachable with generated UUIDs, but checked all the same.
	ErrDuplicateID = errors.New("duplicate event id")
)

// PersistError reports a backing resource that could not be read or
// written for a reason other than not existing yet: permission
// problems, corrupt content, a failing disk. A missing resource is the
// normal first-run case and is never a PersistError.
type PersistError struct {
	Backend string // "json" or "sqlite"
	Path    string
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s storage %s: %v", e.Backend, e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
