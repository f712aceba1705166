package utils

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomyYAML []byte

// CategoryRule maps a set of keywords to a canonical category
type CategoryRule struct {
	Canonical string   `yaml:"canonical"`
	Keywords  []string `yaml:"keywords"`
}

// Taxonomy holds the lookup tables used by the normalizers
type Taxonomy struct {
	Uncategorized   string            `yaml:"uncategorized"`
	FallbackEmoji   string            `yaml:"fallbackEmoji"`
	Categories      []CategoryRule    `yaml:"categories"`
	Labels          map[string]string `yaml:"labels"`
	Emojis          map[string]string `yaml:"emojis"`
	NameCorrections map[string]string `yaml:"nameCorrections"`
}

var (
	taxonomyMu sync.RWMutex
	taxonomy   *Taxonomy
)

// ParseTaxonomy parses a taxonomy document. Name correction keys are normalized
// with NameKey so the file may use accents or any casing.
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}
	if strings.TrimSpace(t.Uncategorized) == "" {
		return nil, fmt.Errorf("uncategorized bucket is required")
	}
	if t.FallbackEmoji == "" {
		t.FallbackEmoji = "✦"
	}

	corrections := make(map[string]string, len(t.NameCorrections))
	for key, value := range t.NameCorrections {
		corrections[NameKey(key)] = strings.TrimSpace(value)
	}
	t.NameCorrections = corrections

	for i, rule := range t.Categories {
		if strings.TrimSpace(rule.Canonical) == "" {
			return nil, fmt.Errorf("category rule %d has no canonical name", i)
		}
		keywords := make([]string, 0, len(rule.Keywords))
		for _, k := range rule.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		t.Categories[i].Keywords = keywords
	}
	if t.Labels == nil {
		t.Labels = map[string]string{}
	}
	if t.Emojis == nil {
		t.Emojis = map[string]string{}
	}
	return &t, nil
}

// LoadTaxonomyFile replaces the active taxonomy with the one stored at path
func LoadTaxonomyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read taxonomy file: %w", err)
	}
	t, err := ParseTaxonomy(data)
	if err != nil {
		return err
	}
	SetTaxonomy(t)
	return nil
}

// SetTaxonomy replaces the active taxonomy. A nil value restores the embedded default.
func SetTaxonomy(t *Taxonomy) {
	taxonomyMu.Lock()
	defer taxonomyMu.Unlock()
	taxonomy = t
}

// CurrentTaxonomy returns the active taxonomy, loading the embedded default on first use
func CurrentTaxonomy() *Taxonomy {
	taxonomyMu.RLock()
	t := taxonomy
	taxonomyMu.RUnlock()
	if t != nil {
		return t
	}

	taxonomyMu.Lock()
	defer taxonomyMu.Unlock()
	if taxonomy == nil {
		parsed, err := ParseTaxonomy(defaultTaxonomyYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded taxonomy is invalid: %v", err))
		}
		taxonomy = parsed
	}
	return taxonomy
}

// CategoryEmoji returns the glyph shown when a product of the category has no image
func CategoryEmoji(category string) string {
	t := CurrentTaxonomy()
	if emoji, ok := t.Emojis[category]; ok {
		return emoji
	}
	return t.FallbackEmoji
}

// CategoryLabel returns the plural label of a category. Unknown keys are pluralized
// by appending "s" unless they already end in "s".
func CategoryLabel(category string) string {
	if label, ok := CurrentTaxonomy().Labels[category]; ok {
		return label
	}
	if strings.HasSuffix(category, "s") {
		return category
	}
	return category + "s"
}
