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

type stubProductRepo struct {
	mu           sync.Mutex
	upsertFn     func(ctx context.Context, products []models.Product) (int, error)
	deactivateFn func(ctx context.Context, ids []string) (int, error)
	listFn       func(ctx context.Context) ([]models.Product, error)
	calls        int
}

func (r *stubProductRepo) UpsertProducts(ctx context.Context, products []models.Product) (int, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return r.upsertFn(ctx, products)
}

func (r *stubProductRepo) DeactivateMissing(ctx context.Context, ids []string) (int, error) {
	return r.deactivateFn(ctx, ids)
}

func (r *stubProductRepo) ListActive(ctx context.Context) ([]models.Product, error) {
	if r.listFn == nil {
		return nil, nil
	}
	return r.listFn(ctx)
}

func (r *stubProductRepo) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestSyncProducts(t *testing.T) {
	var gotIDs []string
	repo := &stubProductRepo{
		upsertFn: func(ctx context.Context, products []models.Product) (int, error) { return len(products), nil },
		deactivateFn: func(ctx context.Context, ids []string) (int, error) {
			gotIDs = ids
			return 3, nil
		},
	}
	svc := NewSyncService(repo, stubCatalog{}, events.NewBus(nil), nil)

	stats, err := svc.SyncProducts(context.Background(), catalogFixture())
	require.NoError(t, err)
	assert.Equal(t, models.SyncStats{Upserted: 5, Deactivated: 3, Total: 5}, stats)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, gotIDs)
}

func TestSyncProductsUpsertError(t *testing.T) {
	repo := &stubProductRepo{
		upsertFn: func(ctx context.Context, products []models.Product) (int, error) { return 0, errors.New("db down") },
		deactivateFn: func(ctx context.Context, ids []string) (int, error) {
			t.Fatal("deactivate must not run after a failed upsert")
			return 0, nil
		},
	}
	svc := NewSyncService(repo, stubCatalog{}, events.NewBus(nil), nil)

	_, err := svc.SyncProducts(context.Background(), catalogFixture())
	assert.Error(t, err)
}

func TestSyncServiceStartMirrorsUpdates(t *testing.T) {
	repo := &stubProductRepo{
		upsertFn:     func(ctx context.Context, products []models.Product) (int, error) { return len(products), nil },
		deactivateFn: func(ctx context.Context, ids []string) (int, error) { return 0, nil },
	}
	bus := events.NewBus(nil)
	catalog := stubCatalog{snapshot: models.CatalogSnapshot{Products: catalogFixture()}}
	svc := NewSyncService(repo, catalog, bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)

	// the subscription exists as soon as Start returns
	bus.Publish(models.Event{Type: models.EventCartUpdated})
	bus.Publish(models.Event{Type: models.EventCatalogUpdated})
	assert.Eventually(t, func() bool { return repo.Calls() == 1 }, time.Second, time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return bus.Subscribers() == 0 }, time.Second, time.Millisecond)
}

func TestSyncCatalogUsesSnapshot(t *testing.T) {
	var upserted []models.Product
	repo := &stubProductRepo{
		upsertFn: func(ctx context.Context, products []models.Product) (int, error) {
			upserted = products
			return len(products), nil
		},
		deactivateFn: func(ctx context.Context, ids []string) (int, error) { return 0, nil },
	}
	catalog := stubCatalog{snapshot: models.CatalogSnapshot{Products: catalogFixture()[:2]}}
	svc := NewSyncService(repo, catalog, events.NewBus(nil), nil)

	stats, err := svc.SyncCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, []string{"1", "2"}, []string{upserted[0].ID, upserted[1].ID})
}

func TestListMirrored(t *testing.T) {
	repo := &stubProductRepo{
		listFn: func(ctx context.Context) ([]models.Product, error) {
			return []models.Product{{ID: "9"}}, nil
		},
	}
	svc := NewSyncService(repo, stubCatalog{}, events.NewBus(nil), nil)

	products, err := svc.ListMirrored(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Product{{ID: "9"}}, products)

	repo.listFn = func(ctx context.Context) ([]models.Product, error) { return nil, errors.New("down") }
	_, err = svc.ListMirrored(context.Background())
	assert.ErrorContains(t, err, "failed to list mirrored products")
}
