// Package allocator places namespaces onto vector indexes with spare
// capacity and records each placement permanently in the registry.
//
// A placement request for a namespace:
//
//  1. returns the stored placement if the registry already has one;
//  2. walks the projects in configured order and, inside a project, the
//     indexes in backend listing order, taking the first index holding fewer
//     than Config.NamespacesPerIndex namespaces (first-fit);
//  3. creates a new index when a project has none with room and owns fewer
//     than Config.IndexesPerProject indexes, otherwise moves on to the next
//     project;
//  4. inserts the placement; if another process inserted first, the stored
//     placement wins and is returned instead.
//
// When every project is full Place fails with ErrCapacityExhausted and
// writes nothing.
//
// Capacity is a soft limit. Concurrent allocations for different namespaces
// can pick the same index before either is counted, so an index may exceed
// NamespacesPerIndex by up to the number of concurrent allocators. The
// registry primary key is the only hard guarantee: one namespace never maps
// to two indexes.
//
// Backend list, describe and create calls are retried on
// vectordb.ErrTransient with the policy in Config.Retry.
package allocator
