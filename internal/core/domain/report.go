package domain

// InvalidMention records one malformed raw mention that was skipped.
type InvalidMention struct {
	// Index is the mention's position in the input stream.
	Index int

	// Reason describes what was missing or malformed.
	Reason string
}

// PluralFold records one plural/singular merge.
type PluralFold struct {
	// RemovedID and RemovedName identify the folded entity.
	RemovedID   string
	RemovedName string

	// SurvivorID and SurvivorName identify the entity it merged into.
	SurvivorID   string
	SurvivorName string
}

// Reclassification records an entity moved out of the taxonomy
// category into a different semantic category.
type Reclassification struct {
	// NormalizedName identifies the entity.
	NormalizedName string

	// FromLabel is the taxonomy category it was extracted under.
	FromLabel string

	// ToLabel is the category it actually belongs to.
	ToLabel string
}

// ReviewReport accounts for everything canonicalization skipped,
// removed or left unresolved. No error is ever silently absorbed:
// every cleanup action and per-mention failure lands here.
type ReviewReport struct {
	// InvalidMentions lists mentions rejected with ErrInvalidMention.
	InvalidMentions []InvalidMention

	// RemovedGeneric lists normalized names removed by the
	// generic-term stoplist.
	RemovedGeneric []string

	// PluralFolds lists plural/singular merges. Callers holding
	// relationship references must redirect removed IDs to the
	// survivors recorded here; Redirects gives the same information
	// as a lookup map.
	PluralFolds []PluralFold

	// Redirects maps every removed entity ID to the surviving
	// entity ID, covering both plural folds and taxonomy merges.
	Redirects map[string]string

	// Reclassified lists entities moved to a different category by
	// the taxonomy pass.
	Reclassified []Reclassification

	// UnresolvedTaxonomy lists normalized names the classifier could
	// not resolve. These entities are retained and flagged, never
	// deleted automatically.
	UnresolvedTaxonomy []string
}
