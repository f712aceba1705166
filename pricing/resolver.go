package pricing

import (
	"tienda-joyas/models"
	"tienda-joyas/utils"
)

// Resolution is the selling price chosen for a row
type Resolution struct {
	Price float64
	Note  models.PriceNote
}

// Resolve picks the selling price from the pair and individual price cells.
// A positive pair price always wins, whatever the individual price is: pairs are the
// intended sale unit when both are filled in. ok is false when neither is positive.
func Resolve(pairRaw, unitRaw string) (Resolution, bool) {
	if pair, ok := utils.ParseAmount(pairRaw); ok && pair > 0 {
		return Resolution{Price: pair, Note: models.PriceNotePair}, true
	}
	if unit, ok := utils.ParseAmount(unitRaw); ok && unit > 0 {
		return Resolution{Price: unit, Note: models.PriceNoteUnit}, true
	}
	return Resolution{}, false
}

// Promo parses the optional promo cell. Only positive values count.
func Promo(raw string) *float64 {
	promo, ok := utils.ParseAmount(raw)
	if !ok || promo <= 0 {
		return nil
	}
	return &promo
}

// ForCart returns the product with Price set to the price a cart line should lock in
func ForCart(p models.Product) models.Product {
	p.Price = p.EffectivePrice()
	return p
}
