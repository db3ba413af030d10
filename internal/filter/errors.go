package filter

import (
	"errors"
	"fmt"
)

// ErrInvalidFilter is matched by every InvalidFilterError.
var ErrInvalidFilter = errors.New("invalid filter")

// InvalidFilterError names the request key that was rejected and why.
type InvalidFilterError struct {
	Key    string
	Reason string
	Err    error
}

func (e *InvalidFilterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid filter %q: %s: %v", e.Key, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid filter %q: %s", e.Key, e.Reason)
}

func (e *InvalidFilterError) Unwrap() error { return e.Err }

func (e *InvalidFilterError) Is(target error) bool {
	return target == ErrInvalidFilter
}

func invalid(key, reason string, err error) error {
	return &InvalidFilterError{Key: key, Reason: reason, Err: err}
}
