package domain

import "fmt"

// SurvivorPolicy selects which entity survives a plural fold.
type SurvivorPolicy string

const (
	// SurviveMostMentions keeps the entity with the higher mention
	// count; ties keep the singular form.
	SurviveMostMentions SurvivorPolicy = "most-mentions"

	// SurviveSingular always keeps the singular form.
	SurviveSingular SurvivorPolicy = "prefer-singular"
)

// ChunkingConfig holds the hierarchical chunker's thresholds.
// All fields are required; there are no hidden defaults.
type ChunkingConfig struct {
	// SummaryMaxTokens caps the level-0 summary chunk.
	SummaryMaxTokens int

	// SectionMinTokens is the threshold below which sections are
	// skipped (tracked in the skip report, not silently discarded).
	SectionMinTokens int

	// SectionMaxTokens is the threshold above which a section is
	// subdivided into sliding windows.
	SectionMaxTokens int

	// WindowSize is the sliding window span in tokens.
	WindowSize int

	// WindowOverlap is the token overlap between consecutive
	// windows. Must satisfy 0 <= WindowOverlap < WindowSize.
	WindowOverlap int

	// AbsorbSkippedIntoSummary controls whether sections below
	// SectionMinTokens still contribute their text to the summary
	// fallback when the document carries no summary of its own.
	AbsorbSkippedIntoSummary bool

	// Concurrency bounds the worker pool for batch chunking.
	Concurrency int
}

// Validate checks the configuration. Violations are wrapped
// ErrInvalidConfig values.
func (c ChunkingConfig) Validate() error {
	if c.SummaryMaxTokens <= 0 {
		return fmt.Errorf("summary_max_tokens must be positive, got %d: %w", c.SummaryMaxTokens, ErrInvalidConfig)
	}
	if c.SectionMinTokens < 0 {
		return fmt.Errorf("section_min_tokens must be non-negative, got %d: %w", c.SectionMinTokens, ErrInvalidConfig)
	}
	if c.SectionMaxTokens <= 0 {
		return fmt.Errorf("section_max_tokens must be positive, got %d: %w", c.SectionMaxTokens, ErrInvalidConfig)
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("window_size must be positive, got %d: %w", c.WindowSize, ErrInvalidConfig)
	}
	if c.WindowOverlap < 0 || c.WindowOverlap >= c.WindowSize {
		return fmt.Errorf("window_overlap %d must satisfy 0 <= overlap < window_size %d: %w",
			c.WindowOverlap, c.WindowSize, ErrInvalidConfig)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d: %w", c.Concurrency, ErrInvalidConfig)
	}
	return nil
}

// CleanupConfig holds the canonicalizer's cleanup rules.
type CleanupConfig struct {
	// GenericTerms is the stoplist of normalized names too vague to
	// be useful graph nodes.
	GenericTerms []string

	// GenericKeepAbove keeps a generic entity anyway when its
	// mention count exceeds this value. Zero means no override:
	// generic terms are always removed.
	GenericKeepAbove int

	// PluralSurvivor selects which side of a plural/singular pair
	// survives the fold.
	PluralSurvivor SurvivorPolicy
}

// Validate checks the cleanup configuration.
func (c CleanupConfig) Validate() error {
	if c.GenericKeepAbove < 0 {
		return fmt.Errorf("generic_keep_above must be non-negative, got %d: %w", c.GenericKeepAbove, ErrInvalidConfig)
	}
	switch c.PluralSurvivor {
	case SurviveMostMentions, SurviveSingular:
		return nil
	default:
		return fmt.Errorf("unknown plural survivor policy %q: %w", c.PluralSurvivor, ErrInvalidConfig)
	}
}

// TaxonomyConfig holds the taxonomy pass settings.
type TaxonomyConfig struct {
	// CategoryLabel is the entity label the taxonomy pass applies
	// to, e.g. "Industry".
	CategoryLabel string

	// FuzzyThreshold is the minimum 0-100 similarity score for a
	// fuzzy variant match.
	FuzzyThreshold int
}

// Validate checks the taxonomy configuration.
func (c TaxonomyConfig) Validate() error {
	if c.CategoryLabel == "" {
		return fmt.Errorf("taxonomy category label is required: %w", ErrInvalidConfig)
	}
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 100 {
		return fmt.Errorf("fuzzy threshold %d must be in [0,100]: %w", c.FuzzyThreshold, ErrInvalidConfig)
	}
	return nil
}
