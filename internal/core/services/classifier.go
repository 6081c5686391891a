package services

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/custodia-labs/kgpipe/internal/core/domain"
)

// TaxonomyClassifier maps normalized names onto a closed category
// taxonomy via exact and fuzzy matching, with a reclassification
// escape hatch for terms that belong to a different semantic category
// entirely.
type TaxonomyClassifier struct {
	table     *domain.TaxonomyTable
	threshold int
}

// NewTaxonomyClassifier creates a classifier over an immutable
// taxonomy table. The threshold is the minimum 0-100 similarity score
// for fuzzy matches.
func NewTaxonomyClassifier(table *domain.TaxonomyTable, threshold int) (*TaxonomyClassifier, error) {
	if table == nil {
		return nil, fmt.Errorf("taxonomy table is required: %w", domain.ErrInvalidConfig)
	}
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("fuzzy threshold %d must be in [0,100]: %w", threshold, domain.ErrInvalidConfig)
	}
	return &TaxonomyClassifier{table: table, threshold: threshold}, nil
}

// Classify resolves a name against the taxonomy. The ladder is:
//
//  1. foreign term: exact match in the foreign set returns a
//     reclassification target with confidence 1.0
//  2. exact variant match returns its canonical name with 1.0
//  3. best fuzzy score >= threshold returns that variant's canonical
//     name with confidence score/100
//  4. otherwise unresolved: the caller must surface the term for
//     review, never delete it
//
// Fuzzy ties break toward the earliest-registered variant, so
// repeated runs are reproducible.
func (c *TaxonomyClassifier) Classify(name string) domain.Classification {
	normalized := NormalizeName(name)
	if normalized == "" {
		return domain.Classification{}
	}

	if category, ok := c.table.ForeignCategory(normalized); ok {
		return domain.Classification{Confidence: 1.0, ReclassifyTo: category}
	}

	if canonical, ok := c.table.Lookup(normalized); ok {
		return domain.Classification{CanonicalName: canonical, Confidence: 1.0}
	}

	bestScore := -1
	bestCanonical := ""
	c.table.Variants(func(variant, canonical string) bool {
		if score := similarityScore(normalized, variant); score > bestScore {
			bestScore = score
			bestCanonical = canonical
		}
		return true
	})

	if bestScore >= c.threshold && bestCanonical != "" {
		return domain.Classification{
			CanonicalName: bestCanonical,
			Confidence:    float64(bestScore) / 100,
		}
	}

	return domain.Classification{}
}

// similarityScore is a normalized Levenshtein ratio on a 0-100 scale.
func similarityScore(a, b string) int {
	if a == b {
		return 100
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist >= longest {
		return 0
	}
	return (longest - dist) * 100 / longest
}
