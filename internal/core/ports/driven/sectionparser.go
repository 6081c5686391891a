package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/kgpipe/internal/core/domain"
)

// SectionParser converts a source representation (HTML today) into a
// Document with titled sections. Parsing is an external collaborator
// of the core: the chunker only ever sees the parsed Document.
type SectionParser interface {
	// Parse reads one source document. The name seeds the document
	// ID, so it must be stable across runs.
	Parse(ctx context.Context, name string, r io.Reader) (*domain.Document, error)
}

// MentionReader supplies the raw mention stream produced by the
// external extractor.
type MentionReader interface {
	// ReadMentions decodes all mentions from r. Malformed records
	// are returned alongside the valid mentions, not dropped.
	ReadMentions(r io.Reader) ([]domain.RawMention, []domain.InvalidMention, error)
}
