// Package resolve expands entity references embedded in fetched rows.
// Lookups are deduplicated and chunked so each referenced row is fetched at
// most once per logical request batch, regardless of how many rows point at
// it.
package resolve

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize bounds how many IDs a single lookup may carry. The limit
// mirrors the upstream store's 30-element IN-clause cap.
const DefaultChunkSize = 30

// FetchFunc loads rows for a set of IDs, keyed by ID. IDs with no backing
// row are simply absent from the result.
type FetchFunc[T any] func(ctx context.Context, ids []int64) (map[int64]T, error)

// Loader batches and caches lookups against one table. A Loader is scoped to
// a single logical request batch; construct a fresh one per request.
type Loader[T any] struct {
	fetch FetchFunc[T]
	chunk int

	mu      sync.Mutex
	cache   map[int64]T
	missing map[int64]struct{}
}

// NewLoader constructs a Loader with the default chunk size.
func NewLoader[T any](fetch FetchFunc[T]) *Loader[T] {
	return NewLoaderChunked(fetch, DefaultChunkSize)
}

// NewLoaderChunked constructs a Loader with an explicit chunk size.
func NewLoaderChunked[T any](fetch FetchFunc[T], chunkSize int) *Loader[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Loader[T]{
		fetch:   fetch,
		chunk:   chunkSize,
		cache:   make(map[int64]T),
		missing: make(map[int64]struct{}),
	}
}

// Load resolves the given IDs, consulting the per-batch cache first and
// fetching the remainder in concurrent chunks. References that fail to
// resolve are absent from the returned map; they never fail the call.
func (l *Loader[T]) Load(ctx context.Context, ids []int64) (map[int64]T, error) {
	unique := dedupe(ids)

	l.mu.Lock()
	var toFetch []int64
	for _, id := range unique {
		if _, ok := l.cache[id]; ok {
			continue
		}
		if _, ok := l.missing[id]; ok {
			continue
		}
		toFetch = append(toFetch, id)
	}
	l.mu.Unlock()

	if len(toFetch) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		for _, ids := range chunks(toFetch, l.chunk) {
			ids := ids
			g.Go(func() error {
				fetched, err := l.fetch(gctx, ids)
				if err != nil {
					return err
				}
				l.mu.Lock()
				for _, id := range ids {
					if row, ok := fetched[id]; ok {
						l.cache[id] = row
					} else {
						l.missing[id] = struct{}{}
					}
				}
				l.mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	result := make(map[int64]T, len(unique))
	for _, id := range unique {
		if row, ok := l.cache[id]; ok {
			result[id] = row
		}
	}
	return result, nil
}

// LoadOne resolves a single ID; ok is false when it does not exist.
func (l *Loader[T]) LoadOne(ctx context.Context, id int64) (T, bool, error) {
	var zero T
	result, err := l.Load(ctx, []int64{id})
	if err != nil {
		return zero, false, err
	}
	row, ok := result[id]
	if !ok {
		return zero, false, nil
	}
	return row, true, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	var unique []int64
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func chunks(ids []int64, size int) [][]int64 {
	var out [][]int64
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
