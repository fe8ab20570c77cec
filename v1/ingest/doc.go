// Package ingest runs the document and query pipelines on top of the
// allocator and the placement registry.
//
// Ingestor.Process fetches a PDF, splits it into overlapping chunks
// (512 characters, 50 overlap by default), asks the allocator for the
// namespace's placement, then embeds and upserts the chunks in parallel
// batches into the placement's index. Chunk ids are their position in the
// document, so processing the same namespace again overwrites rather than
// duplicates.
//
// Querier.Query counts the query in the daily usage table, resolves the
// namespace through the registry, embeds the text and returns the closest
// chunks with their page and chunk index.
package ingest
