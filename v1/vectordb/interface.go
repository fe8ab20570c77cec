package vectordb

import "context"

//go:generate mockgen -source=interface.go -destination=mocks/mock_backend.go -package=mocks

// Backend is one vector-search account (a project): a set of indexes, each
// partitioned into namespaces.
//
// Implementations wrap failures that are worth retrying with ErrTransient and
// a create call for a name that is taken with ErrIndexExists.
type Backend interface {
	// ListIndexes returns the project's indexes in a stable order.
	ListIndexes(ctx context.Context) ([]string, error)

	// CreateIndex creates an index and returns its backend id.
	CreateIndex(ctx context.Context, spec IndexSpec) (string, error)

	// DescribeIndex reports the live statistics of an index, including how
	// many distinct namespaces it holds.
	DescribeIndex(ctx context.Context, index string) (*IndexStats, error)

	// Upsert writes records into namespace of index. Re-upserting a record
	// with the same ID replaces it.
	Upsert(ctx context.Context, index, namespace string, records []Record) error

	// Query returns the TopK nearest records of the request's namespace.
	Query(ctx context.Context, req QueryRequest) ([]Match, error)
}
