package service

import (
	"strings"

	"tienda-joyas/models"
)

// MatchCategory passes every product for "all", otherwise compares the canonical category
func MatchCategory(p models.Product, category string) bool {
	return category == "" || category == models.AllKey || p.Category == category
}

// MatchMaterial passes every product for "all". The key "bijou" in any case
// selects the catch-all bucket; other keys compare exactly.
func MatchMaterial(p models.Product, material string) bool {
	switch {
	case material == "" || material == models.AllKey:
		return true
	case strings.EqualFold(material, models.MaterialBijou):
		return p.Material == models.MaterialBijou
	default:
		return p.Material == material
	}
}

// MatchSearch is a case-insensitive substring match over name or subcategory.
// Blank search text passes every product.
func MatchSearch(p models.Product, search string) bool {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Subcategory), q)
}

// FilterProducts keeps the products that pass all three predicates, in their original order
func FilterProducts(products []models.Product, state models.FilterState) []models.Product {
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if MatchCategory(p, state.Category) && MatchMaterial(p, state.Material) && MatchSearch(p, state.Search) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Featured returns the products flagged as featured, in catalog order
func Featured(products []models.Product) []models.Product {
	featured := make([]models.Product, 0)
	for _, p := range products {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured
}

// Paginator tracks the visible-count cursor of a product grid
type Paginator struct {
	pageSize int
	visible  int
	state    models.FilterState
}

// NewPaginator creates a paginator showing one page. Non-positive sizes fall back to 12.
func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = 12
	}
	return &Paginator{pageSize: pageSize, visible: pageSize}
}

// Apply records the current filter inputs and resets the cursor when any of them changed
func (pg *Paginator) Apply(state models.FilterState) {
	if state.PageSize > 0 && state.PageSize != pg.pageSize {
		pg.pageSize = state.PageSize
		pg.visible = state.PageSize
	}
	if state.Category != pg.state.Category || state.Material != pg.state.Material || state.Search != pg.state.Search {
		pg.visible = pg.pageSize
	}
	pg.state = state
}

// LoadMore grows the cursor by one page
func (pg *Paginator) LoadMore() {
	pg.visible += pg.pageSize
}

// Cursor returns the number of products the grid may show
func (pg *Paginator) Cursor() int {
	return pg.visible
}

// Visible returns the first Cursor() products of the filtered list
func (pg *Paginator) Visible(filtered []models.Product) []models.Product {
	if pg.visible >= len(filtered) {
		return filtered
	}
	return filtered[:pg.visible]
}

// Browse filters the snapshot and cuts it at the visible cursor.
// A non-positive visible count shows one page.
func Browse(products []models.Product, state models.FilterState, visible int) models.BrowseResult {
	pageSize := state.PageSize
	if pageSize <= 0 {
		pageSize = 12
	}
	if visible <= 0 {
		visible = pageSize
	}

	filtered := FilterProducts(products, state)
	shown := filtered
	if visible < len(filtered) {
		shown = filtered[:visible]
	}
	return models.BrowseResult{
		Products: shown,
		Total:    len(filtered),
		Visible:  len(shown),
		HasMore:  len(shown) < len(filtered),
	}
}
