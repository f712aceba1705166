package service

import (
	"context"
	"sync"
	"time"

	"tienda-joyas/models"
)

// BrowseSessions keeps one grid Paginator per browsing session so the
// "load more" cursor survives between requests.
type BrowseSessions struct {
	pageSize int
	ttl      time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*browseEntry
}

type browseEntry struct {
	pages    *Paginator
	lastSeen time.Time
}

// NewBrowseSessions creates the cursor store. A non-positive ttl keeps cursors until the process exits.
func NewBrowseSessions(pageSize int, ttl time.Duration) *BrowseSessions {
	return &BrowseSessions{
		pageSize: pageSize,
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[string]*browseEntry),
	}
}

// List filters the products and cuts them at the session's cursor.
// Changing category, material or search resets the cursor to one page.
func (s *BrowseSessions) List(sessionID string, products []models.Product, state models.FilterState) models.BrowseResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	pg := s.paginator(sessionID)
	pg.Apply(state)
	return Browse(products, state, pg.Cursor())
}

// More grows the session's cursor by one page and returns the longer list
func (s *BrowseSessions) More(sessionID string, products []models.Product, state models.FilterState) models.BrowseResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	pg := s.paginator(sessionID)
	pg.Apply(state)
	if total := len(FilterProducts(products, state)); pg.Cursor() < total {
		pg.LoadMore()
	}
	return Browse(products, state, pg.Cursor())
}

// paginator must be called with mu held
func (s *BrowseSessions) paginator(sessionID string) *Paginator {
	entry, ok := s.entries[sessionID]
	if !ok {
		entry = &browseEntry{pages: NewPaginator(s.pageSize)}
		s.entries[sessionID] = entry
	}
	entry.lastSeen = s.now()
	return entry.pages
}

// Sweep drops cursors idle for longer than the ttl and returns how many were removed
func (s *BrowseSessions) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps idle cursors every interval until ctx is done
func (s *BrowseSessions) StartJanitor(ctx context.Context, interval time.Duration) {
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
				s.Sweep()
			}
		}
	}()
}

// Len returns the number of tracked sessions
func (s *BrowseSessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
