package service

import (
	"testing"

	"tienda-joyas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogFixture() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Aros Chicos", Category: "Argolla", Subcategory: "Argollas", Material: models.MaterialPlata},
		{ID: "2", Name: "Pulsera Tennis", Category: "Pulsera", Subcategory: "tennis", Material: models.MaterialAceroBlanco},
		{ID: "3", Name: "Argolla Love", Category: "Argolla", Subcategory: "argollas", Material: models.MaterialBijou, Featured: true},
		{ID: "4", Name: "Collar Luna", Category: "Collar", Subcategory: "Cadenas", Material: models.MaterialPlataDorada},
		{ID: "5", Name: "Dije Estrella", Category: "Dije", Subcategory: "Dijes", Material: models.MaterialBijou, Featured: true},
	}
}

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFilterProducts(t *testing.T) {
	tests := []struct {
		name  string
		state models.FilterState
		want  []string
	}{
		{name: "all", state: models.FilterState{Category: "all", Material: "all"}, want: []string{"1", "2", "3", "4", "5"}},
		{name: "zero state", state: models.FilterState{}, want: []string{"1", "2", "3", "4", "5"}},
		{name: "category", state: models.FilterState{Category: "Argolla", Material: "all"}, want: []string{"1", "3"}},
		{name: "material exact", state: models.FilterState{Category: "all", Material: "Plata"}, want: []string{"1"}},
		{name: "bijou key", state: models.FilterState{Category: "all", Material: "bijou"}, want: []string{"3", "5"}},
		{name: "bijou label", state: models.FilterState{Category: "all", Material: "Bijou"}, want: []string{"3", "5"}},
		{name: "search name", state: models.FilterState{Search: "  LUNA "}, want: []string{"4"}},
		{name: "search subcategory", state: models.FilterState{Search: "cadenas"}, want: []string{"4"}},
		{name: "composed", state: models.FilterState{Category: "Argolla", Material: "bijou", Search: "love"}, want: []string{"3"}},
		{name: "no match", state: models.FilterState{Category: "Anillo"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterProducts(catalogFixture(), tt.state)))
		})
	}
}

func TestFilterIsConjunction(t *testing.T) {
	products := catalogFixture()
	state := models.FilterState{Category: "Argolla", Material: "bijou", Search: "a"}

	for _, p := range FilterProducts(products, state) {
		assert.True(t, MatchCategory(p, state.Category))
		assert.True(t, MatchMaterial(p, state.Material))
		assert.True(t, MatchSearch(p, state.Search))
	}
}

func TestFeatured(t *testing.T) {
	assert.Equal(t, []string{"3", "5"}, ids(Featured(catalogFixture())))
	assert.Empty(t, Featured(nil))
}

func TestPaginator(t *testing.T) {
	products := catalogFixture()
	pg := NewPaginator(2)
	pg.Apply(models.FilterState{Category: "all", Material: "all"})

	assert.Equal(t, []string{"1", "2"}, ids(pg.Visible(products)))

	pg.LoadMore()
	assert.Equal(t, 4, pg.Cursor())
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(pg.Visible(products)))

	pg.Apply(models.FilterState{Category: "all", Material: "all"})
	assert.Equal(t, 4, pg.Cursor(), "unchanged inputs keep the cursor")

	pg.Apply(models.FilterState{Category: "all", Material: "all", Search: "a"})
	assert.Equal(t, 2, pg.Cursor(), "changed search resets the cursor")

	pg.LoadMore()
	pg.LoadMore()
	pg.LoadMore()
	assert.Len(t, pg.Visible(products), 5)
}

func TestNewPaginatorDefault(t *testing.T) {
	assert.Equal(t, 12, NewPaginator(0).Cursor())
}

func TestBrowse(t *testing.T) {
	products := catalogFixture()

	result := Browse(products, models.FilterState{PageSize: 2}, 0)
	require.Len(t, result.Products, 2)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 2, result.Visible)
	assert.True(t, result.HasMore)

	result = Browse(products, models.FilterState{PageSize: 2}, 10)
	assert.Equal(t, 5, result.Visible)
	assert.False(t, result.HasMore)

	result = Browse(products, models.FilterState{Material: "bijou", PageSize: 12}, 0)
	assert.Equal(t, []string{"3", "5"}, ids(result.Products))
	assert.False(t, result.HasMore)
}
