package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"tienda-joyas/db"
	"tienda-joyas/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against real services when TEST_REDIS_URL or TEST_DATABASE_URL is set.

func TestRedisCartRepository(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	repo := NewRedisCartRepository(client, time.Minute)
	session := uuid.NewString()
	defer func() { _ = repo.Delete(ctx, session) }()

	cart, err := repo.Get(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	for i := 0; i < 2; i++ {
		cart, err = repo.Update(ctx, session, func(c *models.Cart) error {
			c.AddItem(models.Product{ID: "p1", Name: "Aros", Price: 500})
			return nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cart.Count())

	stored, err := repo.Get(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, cart, stored)

	ttl, err := client.TTL(ctx, cartKey(session)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestProductRepository(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	conn, err := db.Open(ctx, url)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, db.Migrate(ctx, conn))
	_, err = conn.ExecContext(ctx, `DELETE FROM catalog_products`)
	require.NoError(t, err)

	repo := NewProductRepository(conn)
	promo := 400.0
	products := []models.Product{
		{ID: "1", Name: "Aros", Category: "Argolla", Material: "Plata", Price: 500, PriceNote: models.PriceNoteUnit, PricePromo: &promo},
		{ID: "2", Name: "Collar", Category: "Collar", Material: "Bijou", Price: 900, PriceNote: models.PriceNotePair},
	}

	n, err := repo.UpsertProducts(ctx, products)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	deactivated, err := repo.DeactivateMissing(ctx, []string{"1"})
	require.NoError(t, err)
	assert.Equal(t, 1, deactivated)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Aros", active[0].Name)
	require.NotNil(t, active[0].PricePromo)
	assert.Equal(t, 400.0, *active[0].PricePromo)
}

func TestOrderRepository(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	conn, err := db.Open(ctx, url)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, db.Migrate(ctx, conn))

	repo := NewOrderRepository(conn)
	order := models.Order{
		ID:          uuid.NewString(),
		SessionID:   uuid.NewString(),
		Status:      models.OrderPending,
		Items:       []models.CartItem{{ID: "1", Name: "Aros", Material: "Plata", Price: 500, Qty: 2}},
		Total:       1000,
		Count:       2,
		Summary:     "resumen",
		WhatsAppURL: "https://wa.me/1?text=resumen",
	}
	defer func() { _, _ = conn.ExecContext(ctx, `DELETE FROM checkout_orders WHERE id = $1`, order.ID) }()

	created, err := repo.Create(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, order.Items, created.Items)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, fetched.Status)

	pending, err := repo.List(ctx, models.OrderPending, 50)
	require.NoError(t, err)
	assert.NotEmpty(t, pending)

	closed, err := repo.Close(ctx, order.ID, models.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, closed.Status)

	_, err = repo.Close(ctx, order.ID, models.OrderCanceled)
	assert.ErrorIs(t, err, ErrOrderNotPending)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrOrderNotFound)

	report, err := repo.Report(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, report.Completed, 1)
	assert.GreaterOrEqual(t, report.Revenue, 1000.0)
}
