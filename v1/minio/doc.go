// Package minio archives the source document of each namespace in a
// MinIO/S3-compatible bucket.
//
// Documents are stored under "<namespace>/source.pdf" so a namespace can be
// re-ingested without fetching its link again. Archiving is optional:
// with Config.Enabled false the client makes no connection and every
// operation succeeds without effect.
//
// A background monitor started by FXModule checks the connection
// periodically and redials when the check fails.
package minio
