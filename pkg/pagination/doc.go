// Package pagination walks remote cursor-paginated collections to exhaustion.
//
// The listing service signals continuation with a "next" link rather than a
// total count, so traversal is strictly sequential: whether page N+1 must be
// fetched is only known after page N's response has been observed. Two
// traversal shapes are supported:
//
//   - flat: pages 1..k of a single collection (FetchAll)
//   - sharded: shard indices 0..m, each independently paginated
//     (FetchAllSharded)
//
// Example usage:
//
//	cfg := pagination.Config{PageSize: 20, Source: "workplaces"}
//	items, err := pagination.FetchAll(ctx, client.WorkplacePage, cfg)
//
// Both walkers fail fast: the first fetch error aborts the traversal and no
// partial result is returned. Retry policy belongs to the fetch capability,
// not to this package.
package pagination
