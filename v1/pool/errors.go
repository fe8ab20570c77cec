package pool

import "errors"

var (
	// ErrUnavailable is returned when no resource could be established
	// within the retry budget.
	ErrUnavailable = errors.New("pool unavailable")

	// ErrClosed is returned by Acquire after Close.
	ErrClosed = errors.New("pool closed")
)

// IsUnavailable reports whether err means the backing store could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
