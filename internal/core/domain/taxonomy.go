package domain

import "strings"

// TaxonomyTable is a static mapping from canonical category names to
// their known variant strings, plus a set of foreign terms that must
// never be classified into this category. It is built once and passed
// into the classifier; registration order is preserved so fuzzy-match
// ties break deterministically.
type TaxonomyTable struct {
	canonicals []string
	variants   []taxonomyVariant
	variantIdx map[string]string
	foreign    map[string]string
}

type taxonomyVariant struct {
	normalized string
	canonical  string
}

// NewTaxonomyTable creates an empty taxonomy table.
func NewTaxonomyTable() *TaxonomyTable {
	return &TaxonomyTable{
		variantIdx: make(map[string]string),
		foreign:    make(map[string]string),
	}
}

// Register adds a canonical name with its normalized variant strings.
// The canonical's own normalized form is always included as a variant,
// so classifying a canonical output maps back to itself. The first
// registration of a variant wins; later duplicates are ignored.
func (t *TaxonomyTable) Register(canonical string, normalizedVariants ...string) {
	t.canonicals = append(t.canonicals, canonical)
	t.addVariant(normalizeASCII(canonical), canonical)
	for _, v := range normalizedVariants {
		t.addVariant(v, canonical)
	}
}

// normalizeASCII lowercases and collapses whitespace. Canonical names
// are configuration strings, so full Unicode normalization is left to
// the classifier's input path.
func normalizeASCII(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func (t *TaxonomyTable) addVariant(normalized, canonical string) {
	if normalized == "" {
		return
	}
	if _, exists := t.variantIdx[normalized]; exists {
		return
	}
	t.variantIdx[normalized] = canonical
	t.variants = append(t.variants, taxonomyVariant{normalized: normalized, canonical: canonical})
}

// RegisterForeign marks a normalized term as belonging to a different
// semantic category. Classifying it yields a reclassification to that
// category instead of a match.
func (t *TaxonomyTable) RegisterForeign(normalized, category string) {
	if normalized == "" {
		return
	}
	t.foreign[normalized] = category
}

// Lookup returns the canonical name for an exact normalized variant.
func (t *TaxonomyTable) Lookup(normalized string) (string, bool) {
	c, ok := t.variantIdx[normalized]
	return c, ok
}

// ForeignCategory returns the reclassification target for a foreign
// term, if the term is registered as foreign.
func (t *TaxonomyTable) ForeignCategory(normalized string) (string, bool) {
	c, ok := t.foreign[normalized]
	return c, ok
}

// Variants iterates all registered variants in registration order.
// The callback receives the normalized variant and its canonical name;
// returning false stops iteration.
func (t *TaxonomyTable) Variants(fn func(normalized, canonical string) bool) {
	for _, v := range t.variants {
		if !fn(v.normalized, v.canonical) {
			return
		}
	}
}

// Canonicals returns the canonical names in registration order.
func (t *TaxonomyTable) Canonicals() []string {
	out := make([]string, len(t.canonicals))
	copy(out, t.canonicals)
	return out
}

// Len returns the number of registered variants.
func (t *TaxonomyTable) Len() int {
	return len(t.variants)
}

// Classification is the outcome of classifying one name against a
// taxonomy table.
type Classification struct {
	// CanonicalName is the matched canonical category name.
	// Empty when no match was found.
	CanonicalName string

	// Confidence is 1.0 for exact matches, score/100 for fuzzy
	// matches and 0 when unresolved.
	Confidence float64

	// ReclassifyTo names the category a foreign term belongs to.
	// Empty unless the term is registered as foreign.
	ReclassifyTo string
}

// Unresolved reports whether classification found neither a canonical
// name nor a reclassification target. Unresolved terms require
// external review and must never be auto-deleted.
func (c Classification) Unresolved() bool {
	return c.CanonicalName == "" && c.ReclassifyTo == ""
}
