package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kgpipe/internal/core/domain"
)

func testTaxonomyTable() *domain.TaxonomyTable {
	table := domain.NewTaxonomyTable()
	table.Register("Aerospace & Defense", "aerospace", "aviation", "defense", "military")
	table.Register("Automotive", "automotive", "automobile", "vehicles")
	table.Register("Medical Devices", "medical devices", "medical device", "medtech")
	table.RegisterForeign("artificial intelligence", "Concept")
	table.RegisterForeign("iso", "Organization")
	return table
}

func TestNewTaxonomyClassifier(t *testing.T) {
	t.Run("nil table rejected", func(t *testing.T) {
		_, err := NewTaxonomyClassifier(nil, 80)
		require.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("threshold out of range", func(t *testing.T) {
		_, err := NewTaxonomyClassifier(testTaxonomyTable(), 101)
		require.ErrorIs(t, err, domain.ErrInvalidConfig)

		_, err = NewTaxonomyClassifier(testTaxonomyTable(), -1)
		require.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}

func TestTaxonomyClassifier_Classify(t *testing.T) {
	c, err := NewTaxonomyClassifier(testTaxonomyTable(), 85)
	require.NoError(t, err)

	t.Run("exact variant match", func(t *testing.T) {
		cls := c.Classify("aviation")
		assert.Equal(t, "Aerospace & Defense", cls.CanonicalName)
		assert.Equal(t, 1.0, cls.Confidence)
		assert.Empty(t, cls.ReclassifyTo)
	})

	t.Run("match is case and whitespace insensitive", func(t *testing.T) {
		cls := c.Classify("  Medical   Devices ")
		assert.Equal(t, "Medical Devices", cls.CanonicalName)
		assert.Equal(t, 1.0, cls.Confidence)
	})

	t.Run("canonical name maps to itself", func(t *testing.T) {
		cls := c.Classify("Aerospace & Defense")
		assert.Equal(t, "Aerospace & Defense", cls.CanonicalName)
		assert.Equal(t, 1.0, cls.Confidence)
	})

	t.Run("foreign term reclassifies", func(t *testing.T) {
		cls := c.Classify("Artificial Intelligence")
		assert.Empty(t, cls.CanonicalName)
		assert.Equal(t, "Concept", cls.ReclassifyTo)
		assert.Equal(t, 1.0, cls.Confidence)
		assert.False(t, cls.Unresolved())
	})

	t.Run("fuzzy match above threshold", func(t *testing.T) {
		// One edit away from "automotive": 9/10 characters survive.
		cls := c.Classify("Automative")
		assert.Equal(t, "Automotive", cls.CanonicalName)
		assert.InDelta(t, 0.90, cls.Confidence, 0.001)
	})

	t.Run("below threshold is unresolved", func(t *testing.T) {
		cls := c.Classify("underwater basket weaving")
		assert.True(t, cls.Unresolved())
		assert.Zero(t, cls.Confidence)
	})

	t.Run("empty name is unresolved", func(t *testing.T) {
		assert.True(t, c.Classify("").Unresolved())
		assert.True(t, c.Classify("   ").Unresolved())
	})
}

func TestTaxonomyClassifier_FuzzyTieBreaksByRegistrationOrder(t *testing.T) {
	table := domain.NewTaxonomyTable()
	table.Register("Alpha", "abcd")
	table.Register("Beta", "abce")

	c, err := NewTaxonomyClassifier(table, 70)
	require.NoError(t, err)

	// "abcf" is one edit away from both variants; the earlier
	// registration must win on every run.
	for range 20 {
		cls := c.Classify("abcf")
		require.Equal(t, "Alpha", cls.CanonicalName)
	}
}

func TestSimilarityScore(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"automotive", "automotive", 100},
		{"automative", "automotive", 90},
		{"", "", 100},
		{"abc", "xyz", 0},
		{"ab", "abcd", 50},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, similarityScore(tt.a, tt.b), "score(%q, %q)", tt.a, tt.b)
	}
}
