package models

import "time"

// CatalogStatus is the lifecycle state of the catalog store
type CatalogStatus string

const (
	CatalogIdle    CatalogStatus = "idle"
	CatalogLoading CatalogStatus = "loading"
	CatalogReady   CatalogStatus = "ready"
	CatalogFailed  CatalogStatus = "failed"
)

// CatalogSnapshot is a read-only view of the catalog store state
type CatalogSnapshot struct {
	Products   []Product        `json:"products"`
	Categories []Category       `json:"categories"`
	Materials  []MaterialOption `json:"materials"`
	Loading    bool             `json:"loading"`
	Error      *string          `json:"error"`
	Status     CatalogStatus    `json:"status"`
	UpdatedAt  time.Time        `json:"updatedAt"`
	Generation uint64           `json:"generation"`
}

// FindProduct returns the product with the given id from the snapshot
func (s CatalogSnapshot) FindProduct(id string) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// FilterState holds the user-chosen filters
type FilterState struct {
	Category string `json:"category"`
	Material string `json:"material"`
	Search   string `json:"search"`
	PageSize int    `json:"pageSize"`
}

// BrowseResult is the paginated view over the filtered products
type BrowseResult struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`   // Filtered count before pagination
	Visible  int       `json:"visible"` // Current cursor
	HasMore  bool      `json:"hasMore"`
}

// SyncStats summarizes one mirror run of a catalog snapshot
type SyncStats struct {
	Upserted    int `json:"upserted"`
	Deactivated int `json:"deactivated"`
	Total       int `json:"total"`
}
