// Package retry is the single retry utility used by the pool, the allocator,
// the vector backends and the embedding client.
//
// It is a thin layer over github.com/cenkalti/backoff/v4 with jitter disabled,
// so the wait schedule is exactly BaseDelay × Factor^attempt and can be
// asserted in tests:
//
//	err := retry.Do(ctx, cfg, func(ctx context.Context) error {
//		return backend.Upsert(ctx, index, namespace, records)
//	}, retry.WithRetryable(vectordb.IsTransient))
//
// Errors the predicate rejects are returned at once. When every attempt fails
// the result is an *ExhaustedError that unwraps to the last failure.
package retry
