package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter(v any, n *atomic.Int32) Loader {
	return func(context.Context) (any, error) {
		n.Add(1)
		return v, nil
	}
}

func TestFetch_CachesUntilInvalidated(t *testing.T) {
	c := New()
	ctx := context.Background()
	var calls atomic.Int32

	v, err := c.Fetch(ctx, EntriesKey(), counter("a", &calls))
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = c.Fetch(ctx, EntriesKey(), counter("b", &calls))
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	assert.EqualValues(t, 1, calls.Load())

	c.Invalidate(EntriesKey())
	_, fresh, ok := c.Peek(EntriesKey())
	assert.True(t, ok)
	assert.False(t, fresh)

	v, err = c.Fetch(ctx, EntriesKey(), counter("b", &calls))
	require.NoError(t, err)
	assert.Equal(t, "b", v)
	assert.EqualValues(t, 2, calls.Load())
}

func TestFetch_ErrorIsNotCached(t *testing.T) {
	c := New()
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := c.Fetch(ctx, TagsKey(), func(context.Context) (any, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	_, _, ok := c.Peek(TagsKey())
	assert.False(t, ok)
}

func TestFetch_CollapsesConcurrentLoads(t *testing.T) {
	c := New()
	release := make(chan struct{})
	var calls atomic.Int32

	load := func(context.Context) (any, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg, ready sync.WaitGroup
	results := make([]any, 8)
	for i := range results {
		wg.Add(1)
		ready.Add(1)
		go func(i int) {
			defer wg.Done()
			ready.Done()
			results[i], _ = c.Fetch(context.Background(), UserKey(), load)
		}(i)
	}

	ready.Wait()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	// let the remaining callers join the flight
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, r := range results {
		assert.Equal(t, 42, r)
	}
}

func TestFetch_LoadRacingInvalidationIsNotStored(t *testing.T) {
	c := New()
	key := EntryKey(1)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan any)
	go func() {
		v, _ := c.Fetch(context.Background(), key, func(context.Context) (any, error) {
			close(started)
			<-release
			return "old", nil
		})
		done <- v
	}()

	<-started
	c.Invalidate(key)

	// a fetch after the invalidation does not join the older flight
	v, err := c.Fetch(context.Background(), key, func(context.Context) (any, error) { return "new", nil })
	require.NoError(t, err)
	assert.Equal(t, "new", v)

	close(release)
	assert.Equal(t, "old", <-done, "the original caller still gets its result")

	v, fresh, ok := c.Peek(key)
	require.True(t, ok)
	assert.True(t, fresh)
	assert.Equal(t, "new", v)
}

func TestInvalidatePrefix_ReachesEveryEntryList(t *testing.T) {
	c := New()
	ctx := context.Background()
	var n atomic.Int32

	keys := []Key{EntriesKey(), FolderEntriesKey(3), TagEntriesKey("a b/c"), DateEntriesKey("2026-01-02")}
	for _, k := range keys {
		_, err := c.Fetch(ctx, k, counter(k, &n))
		require.NoError(t, err)
	}
	_, err := c.Fetch(ctx, EntryKey(3), counter("entry", &n))
	require.NoError(t, err)
	_, err = c.Fetch(ctx, TagsKey(), counter("tags", &n))
	require.NoError(t, err)

	c.InvalidatePrefix(PrefixEntries)

	for _, k := range keys {
		_, fresh, ok := c.Peek(k)
		require.True(t, ok, k)
		assert.False(t, fresh, k)
	}
	_, fresh, _ := c.Peek(EntryKey(3))
	assert.True(t, fresh, "single entry is not a list")
	_, fresh, _ = c.Peek(TagsKey())
	assert.True(t, fresh)
}

func TestUpdate_MergesAndMarksStale(t *testing.T) {
	c := New()
	ctx := context.Background()

	assert.False(t, c.Update(EntryKey(9), func(old any) any { return old }), "absent keys stay absent")
	_, _, ok := c.Peek(EntryKey(9))
	assert.False(t, ok)

	_, err := c.Fetch(ctx, EntryKey(9), func(context.Context) (any, error) { return map[string]int{"a": 1}, nil })
	require.NoError(t, err)

	assert.True(t, c.Update(EntryKey(9), func(old any) any {
		m := old.(map[string]int)
		return map[string]int{"a": m["a"], "b": 2}
	}))

	v, fresh, ok := c.Peek(EntryKey(9))
	require.True(t, ok)
	assert.False(t, fresh)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, v)
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	ctx := context.Background()
	var n atomic.Int32

	for _, k := range []Key{FoldersKey(), FolderKey(1), SharedEntryKey("abc")} {
		_, err := c.Fetch(ctx, k, counter(1, &n))
		require.NoError(t, err)
	}
	c.Remove(FolderKey(1))
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestGet_Typed(t *testing.T) {
	c := New()
	v, err := Get(context.Background(), c, MediaKey(ids.ID(5)), func(context.Context) ([]string, error) {
		return []string{"x.png"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x.png"}, v)

	_, err = Get(context.Background(), c, DailyPromptKey("d"), func(context.Context) (int, error) {
		return 0, errors.New("offline")
	})
	require.EqualError(t, err, "offline")
}
