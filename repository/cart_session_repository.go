package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"tienda-joyas/models"
)

type cartEntry struct {
	cart      models.Cart
	expiresAt time.Time
}

// MemoryCartRepository keeps carts in process memory. Entries expire ttl after
// their last write.
type MemoryCartRepository struct {
	mu    sync.Mutex
	carts map[string]cartEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryCartRepository creates an in-memory cart store. A non-positive ttl never expires carts.
func NewMemoryCartRepository(ttl time.Duration) *MemoryCartRepository {
	return &MemoryCartRepository{
		carts: make(map[string]cartEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Ensure MemoryCartRepository implements CartSessionRepositoryInterface
var _ CartSessionRepositoryInterface = (*MemoryCartRepository)(nil)

// Get returns a copy of the stored cart
func (r *MemoryCartRepository) Get(ctx context.Context, sessionID string) (models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneCart(r.load(sessionID)), nil
}

// Update runs fn on a copy of the cart under the store lock and saves it when fn succeeds
func (r *MemoryCartRepository) Update(ctx context.Context, sessionID string, fn func(cart *models.Cart) error) (models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := cloneCart(r.load(sessionID))
	if err := fn(&cart); err != nil {
		return models.Cart{}, err
	}
	r.carts[sessionID] = cartEntry{cart: cart, expiresAt: r.expiry()}
	return cloneCart(cart), nil
}

// Delete removes the cart of the session
func (r *MemoryCartRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
	return nil
}

// Sweep drops expired carts and returns how many were removed
func (r *MemoryCartRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, entry := range r.carts {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(r.carts, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired carts every interval until ctx is done
func (r *MemoryCartRepository) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Sweep()
			}
		}
	}()
}

// Len returns the number of stored carts, expired ones included
func (r *MemoryCartRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

// load must be called with r.mu held
func (r *MemoryCartRepository) load(sessionID string) models.Cart {
	entry, ok := r.carts[sessionID]
	if !ok {
		return models.Cart{}
	}
	if !entry.expiresAt.IsZero() && r.now().After(entry.expiresAt) {
		delete(r.carts, sessionID)
		return models.Cart{}
	}
	return entry.cart
}

func (r *MemoryCartRepository) expiry() time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	return r.now().Add(r.ttl)
}

func cloneCart(c models.Cart) models.Cart {
	return models.Cart{Items: slices.Clone(c.Items), IsOpen: c.IsOpen}
}
