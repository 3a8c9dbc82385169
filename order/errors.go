package order

import (
	"errors"
	"fmt"
)

var (
	// ErrNotDirectory is wrapped by a ConfigError when the art path is a file
	ErrNotDirectory = errors.New("order: not a directory")

	// ErrConflict is returned for a rename whose destination already exists
	ErrConflict = errors.New("order: destination already exists")
)

// ConfigError means the art directory could not be used at all. Nothing has
// been scanned or renamed when it is returned.
type ConfigError struct {
	Dir string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("order: unusable art directory %q: %v", e.Dir, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
