// Package pool keeps a bounded set of reusable connections to a backing
// store.
//
// A Pool is built around a Dialer and hands out resources that implement
// Ping and Close. Acquire pops an idle resource or dials a new one; a new
// resource must answer Ping before it is returned. Failed dials are retried
// through package retry and, when the budget is spent, Acquire fails with
// an error matching ErrUnavailable:
//
//	conn, err := p.Acquire(ctx)
//	if err != nil {
//		return err // errors.Is(err, pool.ErrUnavailable)
//	}
//	err = use(conn)
//	p.Release(conn, err)
//
// Release closes the resource instead of keeping it when the error of the
// last operation marks it broken (see WithBrokenCheck) or MaxIdle idle
// resources are already held.
//
// With ProbeAddress set, the first Acquire waits up to ProbeTimeout for the
// address to accept TCP connections before dialing. MonitorIdle pings idle
// resources every IdleCheckInterval and drops those that fail; the fx
// lifecycle installed by RegisterLifecycle runs it and closes the pool on
// stop.
package pool
