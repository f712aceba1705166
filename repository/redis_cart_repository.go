package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tienda-joyas/models"

	"github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix    = "tienda:cart:"
	maxUpdateRetries = 5
)

// ErrCartConflict is returned when a cart keeps changing underneath an update
var ErrCartConflict = errors.New("cart changed concurrently")

// RedisCartRepository stores carts as JSON values with a sliding TTL
type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartRepository creates a Redis backed cart store
func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and checks the connection
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Ensure RedisCartRepository implements CartSessionRepositoryInterface
var _ CartSessionRepositoryInterface = (*RedisCartRepository)(nil)

// Get returns the stored cart, or an empty cart when the key is missing
func (r *RedisCartRepository) Get(ctx context.Context, sessionID string) (models.Cart, error) {
	return r.read(ctx, r.client, sessionID)
}

// Update reads, modifies and writes the cart inside a WATCH transaction.
// The transaction is retried a few times when another writer touched the key.
func (r *RedisCartRepository) Update(ctx context.Context, sessionID string, fn func(cart *models.Cart) error) (models.Cart, error) {
	key := cartKey(sessionID)
	var result models.Cart

	txf := func(tx *redis.Tx) error {
		cart, err := r.read(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if err := fn(&cart); err != nil {
			return err
		}
		data, err := json.Marshal(cart)
		if err != nil {
			return fmt.Errorf("failed to encode cart: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err == nil {
			result = cart
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return models.Cart{}, err
	}
	return models.Cart{}, ErrCartConflict
}

// Delete removes the cart key
func (r *RedisCartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func (r *RedisCartRepository) read(ctx context.Context, c stringGetter, sessionID string) (models.Cart, error) {
	val, err := c.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Cart{}, nil
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("failed to read cart: %w", err)
	}
	var cart models.Cart
	if err := json.Unmarshal(val, &cart); err != nil {
		return models.Cart{}, fmt.Errorf("failed to decode cart: %w", err)
	}
	return cart, nil
}

// stringGetter is satisfied by both *redis.Client and *redis.Tx
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func cartKey(sessionID string) string {
	return cartKeyPrefix + sessionID
}
