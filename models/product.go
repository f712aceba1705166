package models

// PriceNote tells whether a price is for a pair or a single unit
type PriceNote string

const (
	PriceNotePair PriceNote = "par"
	PriceNoteUnit PriceNote = "und"
)

// Material buckets. The set is closed: the filter UI offers exactly these four.
const (
	MaterialPlata       = "Plata"
	MaterialPlataDorada = "Plata Dorada"
	MaterialAceroBlanco = "Acero Blanco"
	MaterialBijou       = "Bijou"
)

// Product represents a sellable catalog entry built from one spreadsheet row.
// It never carries the cost column of the source.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`    // Canonical bucket used for filtering
	Subcategory string    `json:"subcategory"` // Raw category text, for display and search
	Material    string    `json:"material"`
	Price       float64   `json:"price"`
	PriceNote   PriceNote `json:"priceNote"`
	PricePromo  *float64  `json:"pricePromo,omitempty"`
	Featured    bool      `json:"featured"`
	Image       string    `json:"image"`
	Emoji       string    `json:"emoji"`
}

// EffectivePrice returns the promo price when present, otherwise the regular price
func (p Product) EffectivePrice() float64 {
	if p.PricePromo != nil && *p.PricePromo > 0 {
		return *p.PricePromo
	}
	return p.Price
}

// HasPromo reports whether the product is on sale
func (p Product) HasPromo() bool {
	return p.PricePromo != nil && *p.PricePromo > 0
}
