package utils

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"tienda-joyas/models"
)

var markupPolicy = bluemonday.StrictPolicy()

// StripMarkup removes any HTML a spreadsheet cell may carry and returns plain text
func StripMarkup(raw string) string {
	if !strings.ContainsAny(raw, "<>&") {
		return raw
	}
	return html.UnescapeString(markupPolicy.Sanitize(raw))
}

// NameKey builds the dictionary key for a product name:
// trimmed, lowercase, without diacritics, single spaces
func NameKey(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}
	return strings.Join(strings.Fields(s), " ")
}

// TitleCase capitalizes the first letter of each word and lowercases the rest
func TitleCase(s string) string {
	return cases.Title(language.Spanish).String(s)
}

// CorrectName returns the known spelling of a product name, or the title-cased input
func CorrectName(raw string) string {
	if corrected, ok := CurrentTaxonomy().NameCorrections[NameKey(raw)]; ok {
		return corrected
	}
	return TitleCase(strings.TrimSpace(raw))
}

// NormalizeCategory maps any spreadsheet variant of a category to its canonical bucket.
// The first rule with a keyword contained in the input wins.
// Unknown values become their own title-cased bucket.
func NormalizeCategory(raw string) string {
	t := CurrentTaxonomy()
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return t.Uncategorized
	}
	for _, rule := range t.Categories {
		for _, keyword := range rule.Keywords {
			if strings.Contains(s, keyword) {
				return rule.Canonical
			}
		}
	}
	return TitleCase(strings.TrimSpace(raw))
}

// NormalizeMaterial classifies a material into one of the four buckets.
// Anything that is not silver, gold-plated silver or steel is Bijou.
func NormalizeMaterial(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "plata":
		return models.MaterialPlata
	case "plata dorada", "oro":
		return models.MaterialPlataDorada
	case "acero", "acero blanco":
		return models.MaterialAceroBlanco
	default:
		return models.MaterialBijou
	}
}

// IsKnownMaterial reports whether the material is one of the three named buckets
func IsKnownMaterial(material string) bool {
	switch material {
	case models.MaterialPlata, models.MaterialPlataDorada, models.MaterialAceroBlanco:
		return true
	}
	return false
}

// Materials lists the buckets in display order
func Materials() []string {
	return []string{
		models.MaterialPlata,
		models.MaterialPlataDorada,
		models.MaterialAceroBlanco,
		models.MaterialBijou,
	}
}
