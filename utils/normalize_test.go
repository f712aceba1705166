package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tienda-joyas/models"
)

func TestCorrectName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "dictionary hit", raw: "basic gold", want: "Basic Gold"},
		{name: "ignores case and spacing", raw: "  SUSANO    ambar ", want: "Susano Ámbar"},
		{name: "ignores accents", raw: "tourbillón", want: "Tourbillón"},
		{name: "falls back to title case", raw: "aros chicos", want: "Aros Chicos"},
		{name: "title case lowercases the rest", raw: "ARGOLLA mcName", want: "Argolla Mcname"},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CorrectName(tt.raw))
		})
	}
}

func TestNameKey(t *testing.T) {
	assert.Equal(t, "susano ambar", NameKey("  Susano \t Ámbar "))
	assert.Equal(t, "pinon", NameKey("PIÑÓN"))
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Argolla", want: "Argolla"},
		{raw: "  argollas grandes ", want: "Argolla"},
		{raw: "Cuffs", want: "Cuff"},
		{raw: "Cadena con dije", want: "Collar"},
		{raw: "pulsera tennis", want: "Pulsera"},
		{raw: "Choker", want: "Choker"},
		{raw: "", want: "Otros"},
		{raw: "   ", want: "Otros"},
		{raw: "tobillera", want: "Tobillera"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategory(tt.raw))
		})
	}
}

func TestNormalizeCategoryFirstRuleWins(t *testing.T) {
	// "cadena" (Collar) is listed after "cuff", so Cuff wins.
	assert.Equal(t, "Cuff", NormalizeCategory("cadena cuff"))
	// "conjunto" (Collar) is listed before "dije".
	assert.Equal(t, "Collar", NormalizeCategory("dije conjunto"))
}

func TestNormalizeMaterialIsClosed(t *testing.T) {
	buckets := map[string]bool{
		models.MaterialPlata:       true,
		models.MaterialPlataDorada: true,
		models.MaterialAceroBlanco: true,
		models.MaterialBijou:       true,
	}

	inputs := []string{"", "plata", " PLATA ", "plata dorada", "oro", "acero", "Acero Blanco",
		"acero quirurgico", "dorado", "rojo", "ñandú", "\t", "plata 925"}
	for _, in := range inputs {
		got := NormalizeMaterial(in)
		assert.Truef(t, buckets[got], "NormalizeMaterial(%q) = %q is not a bucket", in, got)
	}

	assert.Equal(t, models.MaterialPlata, NormalizeMaterial(" PLATA "))
	assert.Equal(t, models.MaterialPlataDorada, NormalizeMaterial("Oro"))
	assert.Equal(t, models.MaterialAceroBlanco, NormalizeMaterial("acero"))
	assert.Equal(t, models.MaterialBijou, NormalizeMaterial("acero quirurgico"))
	assert.Equal(t, models.MaterialBijou, NormalizeMaterial(""))
}

func TestIsKnownMaterialAgreesWithNormalizer(t *testing.T) {
	for _, in := range []string{"plata", "oro", "acero", "", "resina", "plata dorada"} {
		material := NormalizeMaterial(in)
		assert.Equal(t, material != models.MaterialBijou, IsKnownMaterial(material), in)
	}
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "Aros Love", StripMarkup("<b>Aros</b> Love"))
	assert.Equal(t, "Tom & Jerry", StripMarkup("Tom & Jerry"))
	assert.Equal(t, "plain", StripMarkup("plain"))
	assert.Equal(t, "", StripMarkup("<script>alert(1)</script>"))
}

func TestCategoryLabelAndEmoji(t *testing.T) {
	assert.Equal(t, "Collares", CategoryLabel("Collar"))
	assert.Equal(t, "Chokers", CategoryLabel("Choker"))
	assert.Equal(t, "Otros", CategoryLabel("Otros"))
	assert.Equal(t, "💍", CategoryEmoji("Argolla"))
	assert.Equal(t, "✦", CategoryEmoji("Tobillera"))
}
