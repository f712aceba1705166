package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tienda-joyas/events"
	"tienda-joyas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageCache struct {
	mu     sync.Mutex
	cached map[string]bool
	fail   map[string]bool
	calls  int
}

func newFakeImageCache() *fakeImageCache {
	return &fakeImageCache{cached: map[string]bool{}, fail: map[string]bool{}}
}

func (f *fakeImageCache) Get(ctx context.Context, p models.Product, size string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail[p.ID] {
		return nil, errors.New("boom")
	}
	f.cached[p.ID+"/"+size] = true
	return []byte("jpeg"), nil
}

func (f *fakeImageCache) Cached(p models.Product, size string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cached[p.ID+"/"+size]
}

func (f *fakeImageCache) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestWarmImages(t *testing.T) {
	cache := newFakeImageCache()
	cache.cached["a/"+SizeThumb] = true
	cache.fail["c"] = true

	warmer := NewImageWarmer(cache, nil, nil, nil)
	stats := warmer.WarmImages(context.Background(), []models.Product{
		{ID: "a", Image: "https://img/a.jpg"},
		{ID: "b", Image: "https://img/b.jpg"},
		{ID: "c", Image: "https://img/c.jpg"},
		{ID: "d"},
	})

	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 3, stats.Generated)
	assert.Equal(t, 2, stats.Failed)
	require.Len(t, stats.Errors, 2)
	assert.Contains(t, stats.Errors[0], "c (thumb)")

	again := warmer.WarmImages(context.Background(), []models.Product{{ID: "a", Image: "x"}, {ID: "b", Image: "x"}})
	assert.Equal(t, 4, again.Skipped)
	assert.Zero(t, again.Generated)
}

func TestWarmImagesStopsOnCancel(t *testing.T) {
	cache := newFakeImageCache()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := NewImageWarmer(cache, nil, nil, nil).WarmImages(ctx, []models.Product{{ID: "a", Image: "x"}})
	assert.Zero(t, stats.Total)
	assert.Zero(t, cache.Calls())
}

func TestImageWarmerStartWarmsAfterCatalogUpdate(t *testing.T) {
	cache := newFakeImageCache()
	bus := events.NewBus(nil)
	catalog := stubCatalog{snapshot: models.CatalogSnapshot{Products: []models.Product{{ID: "a", Image: "x"}}}}
	warmer := NewImageWarmer(cache, catalog, bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	warmer.Start(ctx)

	// published right after Start returns, with no wait for the worker goroutine
	assert.Equal(t, 1, bus.Subscribers())
	bus.Publish(models.Event{Type: models.EventCatalogUpdated})
	require.Eventually(t, func() bool { return cache.Calls() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return bus.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
}
