package library

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced file or category does not exist.
	ErrNotFound = errors.New("not found")
	// ErrMissingField is returned when a required input is empty.
	ErrMissingField = errors.New("missing field")
)

func missingField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}

// PartialError reports that the filesystem step of a mutation succeeded but
// the store update after it failed. The filesystem change is not undone;
// Resync re-issues the store update.
type PartialError struct {
	OldPath string
	NewPath string
	Err     error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("moved %s to %s but metadata update failed: %v", e.OldPath, e.NewPath, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}
