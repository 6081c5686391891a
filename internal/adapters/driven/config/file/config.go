// Package file loads pipeline configuration from a TOML file.
// Missing values fall back to defaults; the loaded configuration is
// validated before use so an invalid file fails at startup, not
// mid-batch.
package file

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/kgpipe/internal/core/domain"
)

// Config is the full pipeline configuration as stored on disk.
type Config struct {
	Chunking ChunkingConfig `toml:"chunking"`
	Cleanup  CleanupConfig  `toml:"cleanup"`
	Taxonomy TaxonomyConfig `toml:"taxonomy"`
}

// ChunkingConfig mirrors domain.ChunkingConfig in TOML form.
type ChunkingConfig struct {
	SummaryMaxTokens         int  `toml:"summary_max_tokens"`
	SectionMinTokens         int  `toml:"section_min_tokens"`
	SectionMaxTokens         int  `toml:"section_max_tokens"`
	WindowSize               int  `toml:"window_size"`
	WindowOverlap            int  `toml:"window_overlap"`
	AbsorbSkippedIntoSummary bool `toml:"absorb_skipped_into_summary"`
	Concurrency              int  `toml:"concurrency"`
}

// CleanupConfig mirrors domain.CleanupConfig in TOML form.
type CleanupConfig struct {
	GenericTerms     []string `toml:"generic_terms"`
	GenericKeepAbove int      `toml:"generic_keep_above"`
	PluralSurvivor   string   `toml:"plural_survivor"`
}

// TaxonomyConfig declares the taxonomy table in TOML form.
type TaxonomyConfig struct {
	CategoryLabel  string            `toml:"category_label"`
	FuzzyThreshold int               `toml:"fuzzy_threshold"`
	Categories     []Category        `toml:"categories"`
	Foreign        map[string]string `toml:"foreign"`
}

// Category is one canonical category with its known variants.
type Category struct {
	Canonical string   `toml:"canonical"`
	Variants  []string `toml:"variants"`
}

// Default returns the built-in configuration: chunking thresholds
// matching the upstream extraction pipeline and a starter industry
// taxonomy.
func Default() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			SummaryMaxTokens:         300,
			SectionMinTokens:         50,
			SectionMaxTokens:         1500,
			WindowSize:               512,
			WindowOverlap:            64,
			AbsorbSkippedIntoSummary: false,
			Concurrency:              4,
		},
		Cleanup: CleanupConfig{
			GenericTerms: []string{
				"tool", "tools", "software", "solution", "solutions",
				"platform", "platforms", "system", "systems", "process",
				"processes", "method", "methods", "document", "documents",
				"industry", "industries", "team", "teams", "data",
			},
			GenericKeepAbove: 0,
			PluralSurvivor:   string(domain.SurviveMostMentions),
		},
		Taxonomy: TaxonomyConfig{
			CategoryLabel:  "Industry",
			FuzzyThreshold: 80,
			Categories: []Category{
				{Canonical: "Aerospace & Defense", Variants: []string{
					"aerospace", "aviation", "defense", "military",
					"aerospace and defense", "a&d",
				}},
				{Canonical: "Automotive", Variants: []string{
					"automotive", "automobile", "auto industry", "vehicles",
					"electric vehicles",
				}},
				{Canonical: "Medical Devices", Variants: []string{
					"medical devices", "medical device", "medtech",
					"medical technology",
				}},
				{Canonical: "Life Sciences", Variants: []string{
					"life sciences", "pharmaceutical", "pharma", "biotech",
					"biotechnology",
				}},
				{Canonical: "Manufacturing", Variants: []string{
					"manufacturing", "industrial equipment",
					"industrial machinery",
				}},
				{Canonical: "Energy", Variants: []string{
					"energy", "oil and gas", "oil & gas", "utilities",
					"nuclear",
				}},
				{Canonical: "Semiconductor", Variants: []string{
					"semiconductor", "semiconductors", "chip industry",
				}},
				{Canonical: "Financial Services", Variants: []string{
					"financial services", "finance", "banking", "fintech",
				}},
				{Canonical: "Government", Variants: []string{
					"government", "public sector", "federal",
				}},
				{Canonical: "Software", Variants: []string{
					"software industry", "saas",
				}},
			},
			Foreign: map[string]string{
				"artificial intelligence": "Concept",
				"machine learning":        "Concept",
				"automation":              "Concept",
				"digital transformation":  "Concept",
				"internet of things":      "Concept",
				"software development":    "Concept",
				"iso":                     "Organization",
				"ieee":                    "Organization",
				"fda":                     "Organization",
				"faa":                     "Organization",
				"nasa":                    "Organization",
			},
		},
	}
}

// Load reads the configuration from path, overlaying defaults. An
// empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// ChunkingDomain converts to the validated domain form.
func (c *Config) ChunkingDomain() domain.ChunkingConfig {
	return domain.ChunkingConfig{
		SummaryMaxTokens:         c.Chunking.SummaryMaxTokens,
		SectionMinTokens:         c.Chunking.SectionMinTokens,
		SectionMaxTokens:         c.Chunking.SectionMaxTokens,
		WindowSize:               c.Chunking.WindowSize,
		WindowOverlap:            c.Chunking.WindowOverlap,
		AbsorbSkippedIntoSummary: c.Chunking.AbsorbSkippedIntoSummary,
		Concurrency:              c.Chunking.Concurrency,
	}
}

// CleanupDomain converts to the validated domain form.
func (c *Config) CleanupDomain() domain.CleanupConfig {
	return domain.CleanupConfig{
		GenericTerms:     c.Cleanup.GenericTerms,
		GenericKeepAbove: c.Cleanup.GenericKeepAbove,
		PluralSurvivor:   domain.SurvivorPolicy(c.Cleanup.PluralSurvivor),
	}
}

// TaxonomyDomain converts to the validated domain form.
func (c *Config) TaxonomyDomain() domain.TaxonomyConfig {
	return domain.TaxonomyConfig{
		CategoryLabel:  c.Taxonomy.CategoryLabel,
		FuzzyThreshold: c.Taxonomy.FuzzyThreshold,
	}
}

// TaxonomyTable builds the immutable table the classifier consumes.
// Categories register in file order so fuzzy ties stay reproducible.
func (c *Config) TaxonomyTable() *domain.TaxonomyTable {
	table := domain.NewTaxonomyTable()
	for _, cat := range c.Taxonomy.Categories {
		table.Register(cat.Canonical, cat.Variants...)
	}
	for term, category := range c.Taxonomy.Foreign {
		table.RegisterForeign(term, category)
	}
	return table
}
