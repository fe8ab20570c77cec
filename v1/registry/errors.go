package registry

import "errors"

var (
	// ErrNotFound is returned by lookups that match no placement.
	ErrNotFound = errors.New("placement not found")

	// ErrDatastore wraps datastore failures other than duplicates and misses.
	ErrDatastore = errors.New("registry datastore error")

	// ErrInvalidIdentifier rejects table or column names that are not
	// strictly alphanumeric/underscore.
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")

	// ErrColumnExists is returned by TrendingColumns.Ensure for an existing column.
	ErrColumnExists = errors.New("column already exists")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
