package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// PropertyKind enumerates the scalar kinds a mention property can hold.
type PropertyKind int

const (
	// KindString is a string-valued property.
	KindString PropertyKind = iota

	// KindNumber is a float64-valued property.
	KindNumber

	// KindBool is a boolean property.
	KindBool
)

// PropertyValue is a typed scalar: string, number or bool. Mention
// properties are an open, label-dependent bag in the extractor output;
// keeping the value kinds closed keeps merge semantics well-defined.
type PropertyValue struct {
	kind PropertyKind
	str  string
	num  float64
	b    bool
}

// StringValue wraps a string property.
func StringValue(s string) PropertyValue {
	return PropertyValue{kind: KindString, str: s}
}

// NumberValue wraps a numeric property.
func NumberValue(n float64) PropertyValue {
	return PropertyValue{kind: KindNumber, num: n}
}

// BoolValue wraps a boolean property.
func BoolValue(b bool) PropertyValue {
	return PropertyValue{kind: KindBool, b: b}
}

// Kind returns the value's kind.
func (v PropertyValue) Kind() PropertyKind { return v.kind }

// String returns the string value. Zero value for other kinds.
func (v PropertyValue) String() string { return v.str }

// Number returns the numeric value. Zero value for other kinds.
func (v PropertyValue) Number() float64 { return v.num }

// Bool returns the boolean value. Zero value for other kinds.
func (v PropertyValue) Bool() bool { return v.b }

// Equal reports whether two values have the same kind and content.
func (v PropertyValue) Equal(o PropertyValue) bool {
	return v == o
}

// MarshalJSON encodes the value as its bare scalar.
func (v PropertyValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON decodes a bare JSON scalar into a typed value.
// Non-scalar JSON is rejected.
func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = StringValue(t)
	case float64:
		*v = NumberValue(t)
	case bool:
		*v = BoolValue(t)
	default:
		return fmt.Errorf("property value must be a scalar, got %T: %w", raw, ErrInvalidInput)
	}
	return nil
}

// RawMention is one observation of an entity, produced by the external
// extractor. It is read-only input to canonicalization.
type RawMention struct {
	// Label is the category tag assigned by the extractor.
	Label string

	// RawName is the entity name exactly as extracted.
	RawName string

	// Properties is an open key to scalar value map.
	Properties map[string]PropertyValue

	// Confidence is the extractor's confidence in [0,1].
	Confidence float64

	// Evidence is the source text span, if the extractor provided one.
	Evidence string

	// SourceChunkID references the chunk the mention was found in.
	SourceChunkID string
}

// CanonicalEntity is the single deduplicated representation of all
// mentions sharing a normalized name. It is mutated in place during a
// canonicalization pass and handed off as an immutable snapshot.
type CanonicalEntity struct {
	// ID is stable and generated once, on first mention.
	ID string

	// NormalizedName is the dedup key, unique within the set.
	NormalizedName string

	// DisplayName is the best human-readable form seen: the longest
	// raw name, ties broken by first-seen.
	DisplayName string

	// Confidence is the running maximum across merged mentions.
	Confidence float64

	// Properties is the merged map. A key's first value wins; later
	// conflicting values for the same key are dropped.
	Properties map[string]PropertyValue

	// MentionCount is how many mentions merged into this entity.
	MentionCount int

	// Flagged marks entities left unresolved by the taxonomy pass.
	// Flagged entities are retained for external review, never
	// auto-deleted.
	Flagged bool

	labels map[string]struct{}
}

// AddLabel adds a label to the entity's label set.
func (e *CanonicalEntity) AddLabel(label string) {
	if e.labels == nil {
		e.labels = make(map[string]struct{})
	}
	e.labels[label] = struct{}{}
}

// SetLabels replaces the entity's label set.
func (e *CanonicalEntity) SetLabels(labels ...string) {
	e.labels = make(map[string]struct{}, len(labels))
	for _, l := range labels {
		e.labels[l] = struct{}{}
	}
}

// HasLabel reports whether the entity carries the given label.
func (e *CanonicalEntity) HasLabel(label string) bool {
	_, ok := e.labels[label]
	return ok
}

// Labels returns the label set in sorted order.
func (e *CanonicalEntity) Labels() []string {
	out := make([]string, 0, len(e.labels))
	for l := range e.labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
