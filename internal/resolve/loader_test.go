package resolve

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fetchRecorder struct {
	mu      sync.Mutex
	calls   [][]int64
	entries map[int64]string
}

func (f *fetchRecorder) fetch(ctx context.Context, ids []int64) (map[int64]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]int64(nil), ids...))
	result := make(map[int64]string)
	for _, id := range ids {
		if name, ok := f.entries[id]; ok {
			result[id] = name
		}
	}
	return result, nil
}

func (f *fetchRecorder) fetchedIDs() map[int64]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[int64]int)
	for _, call := range f.calls {
		for _, id := range call {
			counts[id]++
		}
	}
	return counts
}

func TestLoadDeduplicates(t *testing.T) {
	rec := &fetchRecorder{entries: map[int64]string{1: "a", 2: "b"}}
	loader := NewLoader(rec.fetch)

	result, err := loader.Load(context.Background(), []int64{1, 2, 1, 2, 1})
	require.NoError(t, err)
	require.Equal(t, map[int64]string{1: "a", 2: "b"}, result)

	for id, count := range rec.fetchedIDs() {
		require.Equalf(t, 1, count, "id %d fetched more than once", id)
	}
}

func TestLoadCachesAcrossCalls(t *testing.T) {
	rec := &fetchRecorder{entries: map[int64]string{1: "a", 2: "b", 3: "c"}}
	loader := NewLoader(rec.fetch)

	_, err := loader.Load(context.Background(), []int64{1, 2})
	require.NoError(t, err)

	result, err := loader.Load(context.Background(), []int64{2, 3})
	require.NoError(t, err)
	require.Equal(t, map[int64]string{2: "b", 3: "c"}, result)

	counts := rec.fetchedIDs()
	require.Equal(t, 1, counts[2], "cached id refetched")
}

func TestLoadChunksLargeBatches(t *testing.T) {
	entries := make(map[int64]string)
	var ids []int64
	for i := int64(1); i <= 75; i++ {
		entries[i] = "row"
		ids = append(ids, i)
	}
	rec := &fetchRecorder{entries: entries}
	loader := NewLoader(rec.fetch)

	result, err := loader.Load(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, result, 75)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.calls, 3)
	for _, call := range rec.calls {
		require.LessOrEqual(t, len(call), DefaultChunkSize)
	}
}

func TestLoadMissingReferencesAreAbsent(t *testing.T) {
	rec := &fetchRecorder{entries: map[int64]string{1: "a"}}
	loader := NewLoader(rec.fetch)

	result, err := loader.Load(context.Background(), []int64{1, 99})
	require.NoError(t, err)
	require.Equal(t, map[int64]string{1: "a"}, result)

	// A known-missing reference is not refetched either.
	_, err = loader.Load(context.Background(), []int64{99})
	require.NoError(t, err)
	require.Equal(t, 1, rec.fetchedIDs()[99])
}

func TestLoadOne(t *testing.T) {
	rec := &fetchRecorder{entries: map[int64]string{7: "x"}}
	loader := NewLoader(rec.fetch)

	row, ok, err := loader.LoadOne(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "x", row)

	_, ok, err = loader.LoadOne(context.Background(), 8)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLoadSkipsZeroIDs(t *testing.T) {
	rec := &fetchRecorder{entries: map[int64]string{}}
	loader := NewLoader(rec.fetch)

	result, err := loader.Load(context.Background(), []int64{0, 0})
	require.NoError(t, err)
	require.Empty(t, result)
	require.Empty(t, rec.calls)
}
