// Package cache stores merged translation trees so that repeated requests
// with the same language preferences skip the deep merge.
//
// [Cache] has an in-process LRU implementation ([Memory]) for single
// instances and a Redis implementation ([Redis]) for fleets that share
// work. [GetOrSet] collapses concurrent misses for the same key into a
// single computation.
//
//	c := cache.NewMemory[l10n.Value](cache.WithMaxEntries(512))
//	tree, err := cache.GetOrSet(ctx, c, key, func(ctx context.Context) (l10n.Value, time.Duration, error) {
//		return l10n.MergeAll(docs...), 0, nil
//	})
//
// TTL semantics for Set: a positive duration expires the entry after that
// duration, zero uses the cache's default TTL, a negative duration keeps
// the entry until it is evicted or deleted.
package cache
