package allocator

import "errors"

var (
	// ErrCapacityExhausted is returned when every configured project is at
	// its index ceiling and every index is full. It needs operator action
	// (more projects or quota) and is never retried here.
	ErrCapacityExhausted = errors.New("capacity exhausted")

	// ErrNameCollision is returned when no unused index name was found
	// within Config.NameAttempts tries.
	ErrNameCollision = errors.New("could not generate a unique index name")
)

func IsCapacityExhausted(err error) bool {
	return errors.Is(err, ErrCapacityExhausted)
}
