package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"tienda-joyas/events"
	"tienda-joyas/logger"
	"tienda-joyas/models"
	"tienda-joyas/utils"

	"go.uber.org/zap"
)

// CatalogStoreInterface defines the contract for the catalog state container
type CatalogStoreInterface interface {
	Start(ctx context.Context)
	Fetch(ctx context.Context) models.CatalogSnapshot
	Refetch(ctx context.Context) models.CatalogSnapshot
	Trigger() models.CatalogSnapshot
	Snapshot() models.CatalogSnapshot
}

// CatalogStoreOptions tunes a CatalogStore
type CatalogStoreOptions struct {
	// RefreshInterval triggers a periodic refetch when positive
	RefreshInterval time.Duration
	// FetchTimeout bounds one retrieval when positive
	FetchTimeout time.Duration
}

// CatalogStore holds the current product snapshot and its derived filter taxonomies.
// Every fetch takes a generation number; a completion older than the latest
// started fetch is discarded so the newest request always decides the state.
type CatalogStore struct {
	source FeedSource
	bus    events.Publisher
	log    *zap.Logger
	opts   CatalogStoreOptions
	now    func() time.Time

	mu         sync.RWMutex
	products   []models.Product
	categories []models.Category
	materials  []models.MaterialOption
	status     models.CatalogStatus
	errMsg     *string
	updatedAt  time.Time
	started    uint64
	committed  uint64
	baseCtx    context.Context

	wgMu sync.Mutex
	wg   sync.WaitGroup
}

// NewCatalogStore creates an idle store. bus may be nil.
func NewCatalogStore(source FeedSource, bus events.Publisher, log *zap.Logger, opts CatalogStoreOptions) *CatalogStore {
	return &CatalogStore{
		source:     source,
		bus:        bus,
		log:        logger.OrNop(log),
		opts:       opts,
		now:        time.Now,
		categories: []models.Category{{Key: models.AllKey, Label: models.AllLabel}},
		materials:  []models.MaterialOption{{Key: models.AllKey, Label: models.AllLabel}},
		status:     models.CatalogIdle,
		baseCtx:    context.Background(),
	}
}

// Ensure CatalogStore implements CatalogStoreInterface
var _ CatalogStoreInterface = (*CatalogStore)(nil)

// Start moves the store to loading, begins the first fetch in the background and,
// when configured, refetches periodically until ctx is done.
func (s *CatalogStore) Start(ctx context.Context) {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	gen := s.begin()
	s.spawn(func() { s.run(ctx, gen) })

	if s.opts.RefreshInterval <= 0 {
		return
	}
	s.spawn(func() {
		ticker := time.NewTicker(s.opts.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Refetch(ctx)
			}
		}
	})
}

// Wait blocks until the background goroutines started by Start and Trigger return.
// Triggers arriving meanwhile block until Wait is done. Meant for tests and shutdown.
func (s *CatalogStore) Wait() {
	s.wgMu.Lock()
	defer s.wgMu.Unlock()
	s.wg.Wait()
}

// spawn runs fn in a tracked goroutine. The Add never overlaps a Wait.
func (s *CatalogStore) spawn(fn func()) {
	s.wgMu.Lock()
	s.wg.Add(1)
	s.wgMu.Unlock()
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// Fetch retrieves, decodes and maps the feed, then commits the result
func (s *CatalogStore) Fetch(ctx context.Context) models.CatalogSnapshot {
	s.run(ctx, s.begin())
	return s.Snapshot()
}

// Refetch has the same contract as Fetch. Concurrent calls are allowed.
func (s *CatalogStore) Refetch(ctx context.Context) models.CatalogSnapshot {
	return s.Fetch(ctx)
}

// Trigger starts a refetch in the background and returns the loading snapshot
func (s *CatalogStore) Trigger() models.CatalogSnapshot {
	s.mu.RLock()
	ctx := s.baseCtx
	s.mu.RUnlock()

	gen := s.begin()
	s.spawn(func() { s.run(ctx, gen) })
	return s.Snapshot()
}

// Snapshot returns a copy of the current state
func (s *CatalogStore) Snapshot() models.CatalogSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := models.CatalogSnapshot{
		Products:   slices.Clone(s.products),
		Categories: slices.Clone(s.categories),
		Materials:  slices.Clone(s.materials),
		Loading:    s.status == models.CatalogLoading,
		Status:     s.status,
		UpdatedAt:  s.updatedAt,
		Generation: s.committed,
	}
	if snap.Products == nil {
		snap.Products = []models.Product{}
	}
	if s.errMsg != nil {
		msg := *s.errMsg
		snap.Error = &msg
	}
	return snap
}

func (s *CatalogStore) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
	s.status = models.CatalogLoading
	s.errMsg = nil
	return s.started
}

func (s *CatalogStore) run(ctx context.Context, gen uint64) {
	if s.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.FetchTimeout)
		defer cancel()
	}

	start := s.now()
	text, err := s.source.FetchCSV(ctx)
	if err != nil {
		s.fail(gen, err)
		return
	}

	products, stats := MapRows(DecodeCSV(text))
	if !s.commit(gen, products) {
		return
	}

	s.log.Info("catalog loaded",
		zap.Uint64("generation", gen),
		zap.Int("rows", stats.Rows),
		zap.Int("products", stats.Accepted),
		zap.Int("out_of_stock", stats.OutOfStock),
		zap.Int("no_price", stats.NoPrice),
		zap.Int("duplicate_ids", stats.DuplicateIDs),
		zap.Duration("elapsed", s.now().Sub(start)),
	)
	s.publish(models.Event{
		Type:    models.EventCatalogUpdated,
		Payload: map[string]any{"generation": gen, "products": len(products)},
	})
}

func (s *CatalogStore) commit(gen uint64, products []models.Product) bool {
	categories, materials := DiscoverFilters(products)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.started {
		s.log.Info("discarding stale catalog fetch", zap.Uint64("generation", gen), zap.Uint64("latest", s.started))
		return false
	}
	s.products = products
	s.categories = categories
	s.materials = materials
	s.status = models.CatalogReady
	s.errMsg = nil
	s.updatedAt = s.now()
	s.committed = gen
	return true
}

func (s *CatalogStore) fail(gen uint64, err error) {
	msg := FeedErrorMessage(err)

	s.mu.Lock()
	if gen != s.started {
		s.mu.Unlock()
		s.log.Info("discarding stale catalog failure", zap.Uint64("generation", gen), zap.Error(err))
		return
	}
	s.status = models.CatalogFailed
	s.errMsg = &msg
	s.mu.Unlock()

	s.log.Warn("catalog fetch failed", zap.Uint64("generation", gen), zap.Error(err))
	s.publish(models.Event{
		Type:    models.EventCatalogFailed,
		Message: msg,
	})
}

func (s *CatalogStore) publish(evt models.Event) {
	if s.bus != nil {
		s.bus.Publish(evt)
	}
}

// DiscoverFilters scans products once and returns the category and material
// options in first-seen order, each list starting with the "all" entry.
func DiscoverFilters(products []models.Product) ([]models.Category, []models.MaterialOption) {
	categories := []models.Category{{Key: models.AllKey, Label: models.AllLabel}}
	materials := []models.MaterialOption{{Key: models.AllKey, Label: models.AllLabel}}
	seenCategories := make(map[string]bool)
	seenMaterials := make(map[string]bool)

	for _, p := range products {
		if !seenCategories[p.Category] {
			seenCategories[p.Category] = true
			categories = append(categories, models.Category{Key: p.Category, Label: utils.CategoryLabel(p.Category)})
		}
		if !seenMaterials[p.Material] {
			seenMaterials[p.Material] = true
			materials = append(materials, models.MaterialOption{Key: p.Material, Label: p.Material})
		}
	}
	return categories, materials
}
