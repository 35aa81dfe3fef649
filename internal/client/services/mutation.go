// Package services implements the optimistic mutation engine and the
// per-entity application services (users, todos, enquiries) on top of the
// API client and the query cache.
//
// Every mutation follows the same shape: cancel any in-flight fetch for the
// targeted cache slot, snapshot it, apply the speculative change locally,
// issue the network request, then either invalidate the entity namespace
// (success) or restore the snapshot verbatim and surface the error
// (failure). The cache slot is always an explicit parameter, never an
// implicit capture.
package services

import (
	"context"

	"github.com/pavelgris/erpadmin/internal/client/querycache"
)

// runOptimistic executes one optimistic mutation against the cache slot fp.
// speculate receives a private copy of the cached list and returns the
// speculative value; it is skipped when the slot holds nothing to speculate
// on. call performs the actual network mutation.
func runOptimistic[T any](ctx context.Context, store *querycache.Store[T], fp querycache.Fingerprint,
	speculate func(querycache.List[T]) querycache.List[T],
	call func(ctx context.Context) error,
) error {
	store.CancelInflight(fp)
	prev, had := store.Snapshot(fp)
	if had {
		store.Set(fp, speculate(prev.Clone()))
	}

	if err := call(ctx); err != nil {
		if had {
			store.Restore(fp, prev)
		}
		return err
	}

	// The speculative value may carry a placeholder identity; invalidating
	// the whole namespace makes every open view refetch authoritative data.
	store.Invalidate(fp.Entity)
	return nil
}
