package fileserver

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by store operations. They signal caller misuse and
// are never retried.
var (
	// ErrAlreadyExists is returned when uploading a name that is already live.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound is returned when copying from a source that is not live.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned when searching with an empty prefix.
	ErrInvalidArgument = errors.New("invalid argument")
)

func alreadyExists(name string) error {
	return fmt.Errorf("file '%s' %w", name, ErrAlreadyExists)
}

func notFound(name string) error {
	return fmt.Errorf("file '%s' %w", name, ErrNotFound)
}

func emptyPrefix() error {
	return fmt.Errorf("%w: prefix cannot be empty", ErrInvalidArgument)
}
