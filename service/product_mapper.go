package service

import (
	"fmt"
	"strings"

	"tienda-joyas/models"
	"tienda-joyas/pricing"
	"tienda-joyas/utils"

	"github.com/google/uuid"
)

// Spreadsheet columns. "Precio costo" exists in the sheet but is never read.
var (
	colID       = []string{"Id", "ID", "id"}
	colName     = []string{"Nombre"}
	colCategory = []string{"Categoría", "Categoria"}
	colMaterial = []string{"Material"}
	colUnit     = []string{"Precio individual"}
	colPair     = []string{"Precio Par"}
	colPromo    = []string{"Precio Promo", "Precio promo"}
	colStock    = []string{"Stock"}
	colImage    = []string{"Imagen", "imagen", "Image"}
	colFeatured = []string{"Destacado", "destacado"}
)

// productIDNamespace seeds ids derived for rows without an Id cell
var productIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("tienda-joyas/products"))

// MapStats counts the outcome of mapping one batch of rows
type MapStats struct {
	Rows         int `json:"rows"`
	Accepted     int `json:"accepted"`
	OutOfStock   int `json:"outOfStock"`
	NoPrice      int `json:"noPrice"`
	DuplicateIDs int `json:"duplicateIds"`
}

// Rejected returns the number of rows that did not become products
func (s MapStats) Rejected() int {
	return s.OutOfStock + s.NoPrice
}

type rejectReason int

const (
	accepted rejectReason = iota
	rejectOutOfStock
	rejectNoPrice
)

// MapRow converts one spreadsheet row into a product. ok is false when the row
// has no stock or no positive selling price.
func MapRow(row Row) (models.Product, bool) {
	p, reason := mapRow(row)
	return p, reason == accepted
}

func mapRow(row Row) (models.Product, rejectReason) {
	field := func(columns []string) string {
		return utils.StripMarkup(row.Get(columns...))
	}

	stock, ok := utils.ParseNumber(field(colStock))
	if !ok || stock <= 0 {
		return models.Product{}, rejectOutOfStock
	}

	price, ok := pricing.Resolve(field(colPair), field(colUnit))
	if !ok {
		return models.Product{}, rejectNoPrice
	}

	rawCategory := strings.TrimSpace(field(colCategory))
	category := utils.NormalizeCategory(rawCategory)
	name := utils.CorrectName(field(colName))

	id := strings.TrimSpace(field(colID))
	if id == "" {
		id = derivedID(name, category)
	}

	return models.Product{
		ID:          id,
		Name:        name,
		Category:    category,
		Subcategory: rawCategory,
		Material:    utils.NormalizeMaterial(field(colMaterial)),
		Price:       price.Price,
		PriceNote:   price.Note,
		PricePromo:  pricing.Promo(field(colPromo)),
		Featured:    isTruthy(field(colFeatured)),
		Image:       utils.NormalizeImageURL(field(colImage)),
		Emoji:       utils.CategoryEmoji(category),
	}, accepted
}

// MapRows maps every row, drops rejects and keeps ids unique within the result.
// A repeated id gets a numeric suffix: "7", "7-2", "7-3".
func MapRows(rows []Row) ([]models.Product, MapStats) {
	stats := MapStats{Rows: len(rows)}
	products := make([]models.Product, 0, len(rows))
	seen := make(map[string]int, len(rows))

	for _, row := range rows {
		p, reason := mapRow(row)
		switch reason {
		case rejectOutOfStock:
			stats.OutOfStock++
			continue
		case rejectNoPrice:
			stats.NoPrice++
			continue
		}

		if n := seen[p.ID]; n > 0 {
			base := p.ID
			for {
				n++
				candidate := fmt.Sprintf("%s-%d", base, n)
				if seen[candidate] == 0 {
					seen[base] = n
					p.ID = candidate
					break
				}
			}
			stats.DuplicateIDs++
		}
		seen[p.ID]++

		products = append(products, p)
		stats.Accepted++
	}
	return products, stats
}

func derivedID(name, category string) string {
	return uuid.NewSHA1(productIDNamespace, []byte(strings.ToLower(name)+"|"+category)).String()
}

func isTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "si", "sí", "x", "1", "true", "yes":
		return true
	}
	return false
}
