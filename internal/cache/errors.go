package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey matches every *InvalidKeyError.
	ErrInvalidKey = errors.New("cache: invalid key")
	// ErrNotImplemented is returned by the bulk and utility operations.
	ErrNotImplemented = errors.New("cache: not implemented")
)

// InvalidKeyError describes why a key was rejected.
type InvalidKeyError struct {
	Key    string
	Reason string
}

func (e *InvalidKeyError) Error() string {
	if e.Key == "" {
		return "cache: " + e.Reason
	}
	return fmt.Sprintf("cache: key %q %s", e.Key, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidKey) hold.
func (e *InvalidKeyError) Is(target error) bool { return target == ErrInvalidKey }

func notImplemented(op string) error {
	return fmt.Errorf("%w: %s", ErrNotImplemented, op)
}
