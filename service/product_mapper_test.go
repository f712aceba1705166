package service

import (
	"encoding/json"
	"testing"

	"tienda-joyas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHeader = "Id,Nombre,Categoría,Material,Precio costo,Precio individual,Precio Par,Stock"

func TestMapRowsScenario(t *testing.T) {
	products, stats := MapRows(DecodeCSV(sampleHeader + "\n1,aros chicos,Argolla,Plata,100,500,,10"))
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "1", p.ID)
	assert.Equal(t, "Aros Chicos", p.Name)
	assert.Equal(t, "Argolla", p.Category)
	assert.Equal(t, "Plata", p.Material)
	assert.Equal(t, 500.0, p.Price)
	assert.Equal(t, models.PriceNoteUnit, p.PriceNote)
	assert.Equal(t, "", p.Image)
	assert.Equal(t, 1, stats.Accepted)
}

func TestMapRowsZeroStock(t *testing.T) {
	products, stats := MapRows(DecodeCSV(sampleHeader + "\n1,aros chicos,Argolla,Plata,100,500,,0"))
	assert.Empty(t, products)
	assert.Equal(t, 1, stats.OutOfStock)
}

func TestMapRowRejections(t *testing.T) {
	tests := []struct {
		name string
		row  Row
	}{
		{name: "negative stock", row: Row{"Stock": "-1", "Precio individual": "500"}},
		{name: "unparseable stock", row: Row{"Stock": "muchos", "Precio individual": "500"}},
		{name: "missing stock", row: Row{"Precio individual": "500"}},
		{name: "no price", row: Row{"Stock": "3"}},
		{name: "zero prices", row: Row{"Stock": "3", "Precio individual": "0", "Precio Par": "$0"}},
		{name: "non numeric price", row: Row{"Stock": "3", "Precio individual": "consultar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := MapRow(tt.row)
			assert.False(t, ok)
		})
	}
}

func TestMapRowPricePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		pair  string
		unit  string
		price float64
		note  models.PriceNote
	}{
		{name: "pair wins even when lower", pair: "300", unit: "500", price: 300, note: models.PriceNotePair},
		{name: "pair with symbols", pair: "$ 1200", unit: "", price: 1200, note: models.PriceNotePair},
		{name: "unit when pair empty", pair: "", unit: "800", price: 800, note: models.PriceNoteUnit},
		{name: "unit when pair zero", pair: "0", unit: "800", price: 800, note: models.PriceNoteUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := MapRow(Row{"Stock": "1", "Precio Par": tt.pair, "Precio individual": tt.unit})
			require.True(t, ok)
			assert.Equal(t, tt.price, p.Price)
			assert.Equal(t, tt.note, p.PriceNote)
		})
	}
}

func TestMapRowFields(t *testing.T) {
	p, ok := MapRow(Row{
		"Id":                " 42 ",
		"Nombre":            "<b>cadena</b> forcet",
		"Categoria":         " Cadenas finas ",
		"Material":          "ORO",
		"Precio costo":      "999",
		"Precio Par":        "",
		"Precio individual": "1500",
		"Precio promo":      "1200",
		"Stock":             "2",
		"Image":             "https://www.dropbox.com/s/abc/foto.jpg?dl=0",
		"Destacado":         "Sí",
	})
	require.True(t, ok)

	assert.Equal(t, "42", p.ID)
	assert.Equal(t, "Cadena Forcet", p.Name)
	assert.Equal(t, "Collar", p.Category)
	assert.Equal(t, "Cadenas finas", p.Subcategory)
	assert.Equal(t, models.MaterialPlataDorada, p.Material)
	require.NotNil(t, p.PricePromo)
	assert.Equal(t, 1200.0, *p.PricePromo)
	assert.True(t, p.Featured)
	assert.Equal(t, "https://dl.dropboxusercontent.com/s/abc/foto.jpg?raw=1", p.Image)
	assert.NotEmpty(t, p.Emoji)
}

func TestMapRowNeverExposesCost(t *testing.T) {
	p, ok := MapRow(Row{"Nombre": "anillo", "Precio costo": "98765", "Precio individual": "500", "Stock": "1"})
	require.True(t, ok)

	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "98765")
	assert.NotContains(t, string(body), "cost")
}

func TestMapRowDerivedIDIsStable(t *testing.T) {
	row := Row{"Nombre": "dije luna", "Categoría": "Dije", "Precio individual": "500", "Stock": "1"}
	first, ok := MapRow(row)
	require.True(t, ok)
	second, _ := MapRow(row)

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, first.ID, second.ID)
}

func TestMapRowsDuplicateIDs(t *testing.T) {
	rows := []Row{
		{"Id": "7", "Nombre": "a", "Precio individual": "1", "Stock": "1"},
		{"Id": "7", "Nombre": "b", "Precio individual": "1", "Stock": "1"},
		{"Id": "7", "Nombre": "c", "Precio individual": "1", "Stock": "1"},
		{"Id": "8", "Nombre": "d", "Stock": "1"},
	}

	products, stats := MapRows(rows)
	require.Len(t, products, 3)
	assert.Equal(t, []string{"7", "7-2", "7-3"}, []string{products[0].ID, products[1].ID, products[2].ID})
	assert.Equal(t, 2, stats.DuplicateIDs)
	assert.Equal(t, 1, stats.NoPrice)
	assert.Equal(t, 1, stats.Rejected())
}

func TestMapRowsRejectCount(t *testing.T) {
	csv := sampleHeader + "\n" +
		"1,a,Argolla,Plata,1,100,,1\n" +
		"2,b,Argolla,Plata,1,100,,0\n" +
		"3,c,Argolla,Plata,1,100,,\n" +
		"4,d,Argolla,Plata,1,100,,5\n"

	products, stats := MapRows(DecodeCSV(csv))
	assert.Len(t, products, 2)
	assert.Equal(t, 2, stats.OutOfStock)
	assert.Equal(t, 4, stats.Rows)
}
