package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/kgpipe/internal/core/domain"
	"github.com/custodia-labs/kgpipe/internal/logger"
)

// EntityService consolidates a stream of raw entity mentions into a
// deduplicated canonical entity set. Merge decisions need a complete,
// consistent view of the stream, so the pass is single-threaded; the
// chunking side of the pipeline is where parallelism lives.
type EntityService struct {
	classifier *TaxonomyClassifier
	cleanup    domain.CleanupConfig
	taxonomy   domain.TaxonomyConfig

	genericTerms map[string]struct{}
}

// NewEntityService creates an entity canonicalization service.
func NewEntityService(classifier *TaxonomyClassifier, cleanup domain.CleanupConfig, taxonomy domain.TaxonomyConfig) (*EntityService, error) {
	if classifier == nil {
		return nil, fmt.Errorf("taxonomy classifier is required: %w", domain.ErrInvalidConfig)
	}
	if err := cleanup.Validate(); err != nil {
		return nil, err
	}
	if err := taxonomy.Validate(); err != nil {
		return nil, err
	}
	generic := make(map[string]struct{}, len(cleanup.GenericTerms))
	for _, term := range cleanup.GenericTerms {
		generic[NormalizeName(term)] = struct{}{}
	}
	return &EntityService{
		classifier:   classifier,
		cleanup:      cleanup,
		taxonomy:     taxonomy,
		genericTerms: generic,
	}, nil
}

// entitySet keeps canonical entities addressable by normalized name
// while preserving first-seen order for deterministic output.
type entitySet struct {
	byName map[string]*domain.CanonicalEntity
	order  []string
}

func newEntitySet() *entitySet {
	return &entitySet{byName: make(map[string]*domain.CanonicalEntity)}
}

func (s *entitySet) get(name string) (*domain.CanonicalEntity, bool) {
	e, ok := s.byName[name]
	return e, ok
}

func (s *entitySet) put(e *domain.CanonicalEntity) {
	if _, exists := s.byName[e.NormalizedName]; !exists {
		s.order = append(s.order, e.NormalizedName)
	}
	s.byName[e.NormalizedName] = e
}

func (s *entitySet) remove(name string) {
	if _, exists := s.byName[name]; !exists {
		return
	}
	delete(s.byName, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// rename moves an entity to a new normalized name, keeping its slot
// in the iteration order.
func (s *entitySet) rename(oldName, newName string) {
	e, ok := s.byName[oldName]
	if !ok {
		return
	}
	delete(s.byName, oldName)
	e.NormalizedName = newName
	s.byName[newName] = e
	for i, n := range s.order {
		if n == oldName {
			s.order[i] = newName
			break
		}
	}
}

func (s *entitySet) all() []*domain.CanonicalEntity {
	out := make([]*domain.CanonicalEntity, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// Canonicalize consolidates mentions via three passes: merge-by-name,
// cleanup (generic-term removal and plural folding), and the taxonomy
// pass. It returns the canonical set in first-seen order plus a
// review report accounting for every skipped mention, removal, merge
// and unresolved taxonomy term. Canonicalization is idempotent:
// feeding the output back in as one mention per entity reproduces the
// same set.
func (s *EntityService) Canonicalize(ctx context.Context, mentions []domain.RawMention) ([]domain.CanonicalEntity, *domain.ReviewReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	report := &domain.ReviewReport{Redirects: make(map[string]string)}
	set := newEntitySet()

	s.mergeByName(mentions, set, report)
	s.removeGeneric(set, report)
	s.foldPlurals(set, report)
	s.applyTaxonomy(set, report)

	entities := make([]domain.CanonicalEntity, 0, len(set.order))
	for _, e := range set.all() {
		entities = append(entities, *e)
	}
	return entities, report, nil
}

// mergeByName groups mentions by normalized name and creates or
// updates one canonical entity per group. Mentions under different
// labels with the same normalized name merge into one entity whose
// label set is the union of all labels seen.
func (s *EntityService) mergeByName(mentions []domain.RawMention, set *entitySet, report *domain.ReviewReport) {
	for i, m := range mentions {
		name := NormalizeName(m.RawName)
		switch {
		case m.Label == "":
			report.InvalidMentions = append(report.InvalidMentions, domain.InvalidMention{
				Index:  i,
				Reason: fmt.Sprintf("missing label: %v", domain.ErrInvalidMention),
			})
			continue
		case name == "":
			report.InvalidMentions = append(report.InvalidMentions, domain.InvalidMention{
				Index:  i,
				Reason: fmt.Sprintf("missing raw name: %v", domain.ErrInvalidMention),
			})
			continue
		}

		entity, ok := set.get(name)
		if !ok {
			entity = &domain.CanonicalEntity{
				ID:             uuid.New().String(),
				NormalizedName: name,
				DisplayName:    strings.TrimSpace(m.RawName),
				Properties:     make(map[string]domain.PropertyValue),
			}
			set.put(entity)
		}
		applyMention(entity, m)
	}
}

// applyMention folds one mention into an entity: longest display name
// (ties keep the first seen), running-max confidence, first-wins
// properties, label union.
func applyMention(e *domain.CanonicalEntity, m domain.RawMention) {
	display := strings.TrimSpace(m.RawName)
	if len(display) > len(e.DisplayName) {
		e.DisplayName = display
	}
	if m.Confidence > e.Confidence {
		e.Confidence = m.Confidence
	}
	for k, v := range m.Properties {
		if _, exists := e.Properties[k]; !exists {
			e.Properties[k] = v
		}
	}
	e.AddLabel(m.Label)
	e.MentionCount++
}

// removeGeneric drops entities whose normalized name is on the
// generic-term stoplist, unless their mention count clears the
// configured override.
func (s *EntityService) removeGeneric(set *entitySet, report *domain.ReviewReport) {
	for _, e := range set.all() {
		if _, generic := s.genericTerms[e.NormalizedName]; !generic {
			continue
		}
		if s.cleanup.GenericKeepAbove > 0 && e.MentionCount > s.cleanup.GenericKeepAbove {
			logger.Debug("keeping generic term %q: %d mentions", e.NormalizedName, e.MentionCount)
			continue
		}
		set.remove(e.NormalizedName)
		report.RemovedGeneric = append(report.RemovedGeneric, e.NormalizedName)
	}
}

// foldPlurals merges plural/singular pairs that survived as separate
// entities. Which side survives is policy: by default the entity with
// more mentions (ties keep the singular), or always the singular.
// Removed IDs are recorded as redirects so relationship references
// never dangle.
func (s *EntityService) foldPlurals(set *entitySet, report *domain.ReviewReport) {
	for _, plural := range set.all() {
		if _, stillThere := set.get(plural.NormalizedName); !stillThere {
			continue // already folded into another entity
		}
		singularName, ok := singularOf(plural.NormalizedName)
		if !ok {
			continue
		}
		singular, ok := set.get(singularName)
		if !ok || singular == plural {
			continue
		}

		survivor, removed := singular, plural
		if s.cleanup.PluralSurvivor == domain.SurviveMostMentions && plural.MentionCount > singular.MentionCount {
			survivor, removed = plural, singular
		}

		mergeEntities(survivor, removed)
		set.remove(removed.NormalizedName)
		report.PluralFolds = append(report.PluralFolds, domain.PluralFold{
			RemovedID:    removed.ID,
			RemovedName:  removed.NormalizedName,
			SurvivorID:   survivor.ID,
			SurvivorName: survivor.NormalizedName,
		})
		report.Redirects[removed.ID] = survivor.ID
	}
}

// applyTaxonomy classifies entities carrying the taxonomy category
// label. Foreign terms are relabeled out of the category; matched
// terms are renamed to their canonical form, merging with any
// pre-existing entity under that name; unresolved terms are flagged
// and surfaced for review, never deleted.
func (s *EntityService) applyTaxonomy(set *entitySet, report *domain.ReviewReport) {
	for _, e := range set.all() {
		if _, stillThere := set.get(e.NormalizedName); !stillThere {
			continue // merged away by an earlier rename
		}
		if !e.HasLabel(s.taxonomy.CategoryLabel) {
			continue
		}

		cls := s.classifier.Classify(e.NormalizedName)
		switch {
		case cls.ReclassifyTo != "":
			e.SetLabels(cls.ReclassifyTo)
			report.Reclassified = append(report.Reclassified, domain.Reclassification{
				NormalizedName: e.NormalizedName,
				FromLabel:      s.taxonomy.CategoryLabel,
				ToLabel:        cls.ReclassifyTo,
			})

		case cls.CanonicalName != "":
			canonicalKey := NormalizeName(cls.CanonicalName)
			if existing, ok := set.get(canonicalKey); ok && existing != e {
				mergeEntities(existing, e)
				existing.DisplayName = cls.CanonicalName
				set.remove(e.NormalizedName)
				report.Redirects[e.ID] = existing.ID
				continue
			}
			set.rename(e.NormalizedName, canonicalKey)
			e.DisplayName = cls.CanonicalName

		default:
			e.Flagged = true
			report.UnresolvedTaxonomy = append(report.UnresolvedTaxonomy, e.NormalizedName)
			logger.Info("unresolved taxonomy term %q left for review", e.NormalizedName)
		}
	}
}

// mergeEntities folds src into dst under the same rules as mention
// merging: labels union, max confidence, first-wins properties (dst's
// values win), longest display name, summed mention counts.
func mergeEntities(dst, src *domain.CanonicalEntity) {
	for _, l := range src.Labels() {
		dst.AddLabel(l)
	}
	if src.Confidence > dst.Confidence {
		dst.Confidence = src.Confidence
	}
	for k, v := range src.Properties {
		if _, exists := dst.Properties[k]; !exists {
			dst.Properties[k] = v
		}
	}
	if len(src.DisplayName) > len(dst.DisplayName) {
		dst.DisplayName = src.DisplayName
	}
	dst.MentionCount += src.MentionCount
	dst.Flagged = dst.Flagged || src.Flagged
}

// singularOf derives the singular form of a plural normalized name.
// Only the last word is inflected, so multi-word phrases fold too.
// Returns false when the name does not look plural.
func singularOf(name string) (string, bool) {
	words := strings.Split(name, " ")
	last := words[len(words)-1]

	var singular string
	switch {
	case strings.HasSuffix(last, "ies") && len(last) > 3:
		singular = last[:len(last)-3] + "y"
	case strings.HasSuffix(last, "ses") || strings.HasSuffix(last, "xes") ||
		strings.HasSuffix(last, "zes") || strings.HasSuffix(last, "ches") ||
		strings.HasSuffix(last, "shes"):
		singular = last[:len(last)-2]
	case strings.HasSuffix(last, "s") && !strings.HasSuffix(last, "ss") && len(last) > 1:
		singular = last[:len(last)-1]
	default:
		return "", false
	}

	words[len(words)-1] = singular
	return strings.Join(words, " "), true
}
