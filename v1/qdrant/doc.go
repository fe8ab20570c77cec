// Package qdrant implements vectordb.Backend on the Qdrant vector database.
//
// Each configured project is one Qdrant deployment reached over gRPC with its
// own credential. Within a project an index is a collection whose name starts
// with Config.IndexPrefix, and a namespace is the value of the keyword payload
// field "namespace" on every point written for it.
//
// # Layout of a point
//
//	id       UUIDv5(namespace + "/" + record id)
//	vector   the record's dense vector
//	payload  {"namespace": ..., "record_id": ..., "text": ..., "metadata": {...}}
//
// Deterministic ids make re-ingestion of a document idempotent.
//
// # Counting namespaces
//
// DescribeIndex asks the facet API for the exact distinct values of the
// namespace field, bounded by Config.FacetLimit. CreateIndex creates the
// keyword payload index that makes this cheap, and recreates it when called
// again for a collection that already exists.
//
// # Errors
//
// Transport errors are classified from their gRPC status: Unavailable,
// DeadlineExceeded, ResourceExhausted and Aborted wrap vectordb.ErrTransient,
// AlreadyExists wraps vectordb.ErrIndexExists, NotFound wraps
// vectordb.ErrIndexNotFound and authentication failures wrap
// vectordb.ErrInvalidConfiguration.
//
// # Fx
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Supply(qdrantCfg),
//	    qdrant.FXModule, // provides vectordb.Projects
//	)
package qdrant
