package store

import "fmt"

// NotFoundError returns a new ErrNotFound
func NotFoundError(what string) error {
	return ErrNotFound{what}
}

// ErrNotFound is the error returned when something requested could not be found.
// This error should not be retried.
type ErrNotFound struct {
	what string
}

func (err ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", err.what)
}

// DuplicateKeyError returns a new ErrDuplicateKey
func DuplicateKeyError(key string) error {
	return ErrDuplicateKey{Key: key}
}

// ErrDuplicateKey is the error returned when an entry is written under a key already present.
// Entries are never overwritten.
type ErrDuplicateKey struct {
	Key string
}

func (err ErrDuplicateKey) Error() string {
	return fmt.Sprintf("key %s already exists", err.Key)
}
