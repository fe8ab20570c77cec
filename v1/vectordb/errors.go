package vectordb

import "errors"

var (
	// ErrTransient marks backend failures (timeouts, throttling, unavailable
	// service) that may succeed when retried.
	ErrTransient = errors.New("transient backend error")

	// ErrIndexExists is returned by CreateIndex when the name is taken.
	ErrIndexExists = errors.New("index already exists")

	// ErrIndexNotFound is returned for operations on an unknown index.
	ErrIndexNotFound = errors.New("index not found")

	// ErrInvalidConfiguration marks static misconfiguration or invalid
	// arguments: missing credentials, non-positive dimension, empty identifiers.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}
