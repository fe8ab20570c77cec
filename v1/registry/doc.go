// Package registry stores where each namespace lives.
//
// The placement table maps a namespace to the index and project that hold
// it. A namespace is placed once: Insert reports AlreadyExists when another
// writer got there first, and callers re-read the winning placement with
// LookupByNamespace.
//
//	res, err := reg.Insert(ctx, registry.Placement{Namespace: ns, IndexName: idx, Project: "QA1"})
//	if err != nil {
//		return err
//	}
//	if res == registry.AlreadyExists {
//		placement, err = reg.LookupByNamespace(ctx, ns)
//	}
//
// The package also keeps the per-day document usage counters and the
// trending table whose columns are added per document. Every statement is
// parameterized; the only identifiers spliced into SQL are table and column
// names that pass ValidIdentifier.
package registry
