// Package vectordb defines the vector backend abstraction the allocator and
// the ingestion pipeline work against.
//
// A Backend is one project: a credentialed account that owns indexes, each
// partitioned into namespaces. Projects are kept in configuration order:
//
//	projects := vectordb.Projects{
//		{Name: "QA1", Backend: qa1},
//		{Name: "QA2", Backend: qa2},
//	}
//	backend, err := projects.Get(placement.Project)
//
// Errors are classified with ErrTransient (retry), ErrIndexExists (name
// collision on create) and ErrInvalidConfiguration (fail fast).
package vectordb
