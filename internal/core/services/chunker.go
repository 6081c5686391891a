package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/kgpipe/internal/core/domain"
	"github.com/custodia-labs/kgpipe/internal/core/ports/driven"
	"github.com/custodia-labs/kgpipe/internal/logger"
)

// ChunkService builds the three-level chunk tree for documents:
// one summary chunk, one chunk per qualifying section, and sliding
// windows inside oversized sections.
type ChunkService struct {
	tokenizer driven.Tokenizer
	cfg       domain.ChunkingConfig
}

// NewChunkService creates a chunk service. The configuration is
// validated here; an invalid configuration is never recoverable.
func NewChunkService(tokenizer driven.Tokenizer, cfg domain.ChunkingConfig) (*ChunkService, error) {
	if tokenizer == nil {
		return nil, fmt.Errorf("tokenizer is required: %w", domain.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ChunkService{tokenizer: tokenizer, cfg: cfg}, nil
}

// ChunkDocument chunks a single document. On any tokenization error
// the whole document's chunk set is discarded and the error returned;
// a document never partially emits.
func (s *ChunkService) ChunkDocument(ctx context.Context, doc *domain.Document) (*domain.ChunkResult, error) {
	if doc == nil || doc.ID == "" {
		return nil, fmt.Errorf("document with ID is required: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &domain.ChunkResult{DocumentID: doc.ID}

	summary, err := s.summaryChunk(doc)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.ID, err)
	}
	result.Chunks = append(result.Chunks, *summary)

	// Character offsets for section chunks accumulate across all
	// sections, including skipped ones, so provenance maps back to
	// the concatenated section text exactly.
	charPos := 0
	for i, section := range doc.Sections {
		tokens, err := s.tokenizer.Count(section.Body)
		if err != nil {
			return nil, fmt.Errorf("document %s section %d: %w", doc.ID, i, err)
		}

		if tokens < s.cfg.SectionMinTokens {
			logger.Warn("skipping short section %d (%q) of %s: %d tokens < %d",
				i, section.Heading, doc.ID, tokens, s.cfg.SectionMinTokens)
			result.Skipped = append(result.Skipped, domain.SkippedSection{
				Index:      i,
				Heading:    section.Heading,
				TokenCount: tokens,
			})
			charPos += len(section.Body)
			continue
		}

		parentID := summary.ID
		sectionChunk := domain.Chunk{
			ID:         domain.SectionChunkID(doc.ID, i),
			DocumentID: doc.ID,
			Level:      domain.LevelSection,
			Heading:    section.Heading,
			Text:       section.Body,
			TokenCount: tokens,
			CharStart:  charPos,
			CharEnd:    charPos + len(section.Body),
			ParentID:   &parentID,
		}
		result.Chunks = append(result.Chunks, sectionChunk)

		if tokens > s.cfg.SectionMaxTokens {
			windows, err := s.windowChunks(doc.ID, i, section)
			if err != nil {
				return nil, fmt.Errorf("document %s section %d: %w", doc.ID, i, err)
			}
			result.Chunks = append(result.Chunks, windows...)
		}

		charPos += len(section.Body)
	}

	return result, nil
}

// summaryChunk builds the level-0 chunk from the supplied summary
// text, or from the head of the section text when no summary exists.
func (s *ChunkService) summaryChunk(doc *domain.Document) (*domain.Chunk, error) {
	text := doc.Summary
	if text == "" {
		text = s.summaryFallback(doc)
	}

	text, err := s.tokenizer.Truncate(text, s.cfg.SummaryMaxTokens)
	if err != nil {
		return nil, err
	}
	count, err := s.tokenizer.Count(text)
	if err != nil {
		return nil, err
	}

	return &domain.Chunk{
		ID:         domain.SummaryChunkID(doc.ID),
		DocumentID: doc.ID,
		Level:      domain.LevelSummary,
		Heading:    doc.Title,
		Text:       text,
		TokenCount: count,
		CharStart:  0,
		CharEnd:    len(text),
		ParentID:   nil,
	}, nil
}

// summaryFallback selects the source text for the summary chunk when
// the document has none. With AbsorbSkippedIntoSummary set, every
// section contributes, so content of sections later skipped for being
// too short is not lost; otherwise only the first section is used.
func (s *ChunkService) summaryFallback(doc *domain.Document) string {
	if len(doc.Sections) == 0 {
		return ""
	}
	if !s.cfg.AbsorbSkippedIntoSummary {
		return doc.Sections[0].Body
	}
	parts := make([]string, 0, len(doc.Sections))
	for _, sec := range doc.Sections {
		if sec.Body != "" {
			parts = append(parts, sec.Body)
		}
	}
	return strings.Join(parts, "\n")
}

// windowChunks splits one oversized section into overlapping windows.
// Window i starts at token i*(size-overlap) and spans size tokens; the
// final window is cut short at the section's last token, so every
// token is covered exactly and no window starts past the end.
func (s *ChunkService) windowChunks(docID string, sectionIndex int, section domain.Section) ([]domain.Chunk, error) {
	tokens, err := s.tokenizer.Encode(section.Body)
	if err != nil {
		return nil, err
	}

	parentID := domain.SectionChunkID(docID, sectionIndex)
	step := s.cfg.WindowSize - s.cfg.WindowOverlap

	var chunks []domain.Chunk
	for start, idx := 0, 0; start < len(tokens); start, idx = start+step, idx+1 {
		end := start + s.cfg.WindowSize
		if end > len(tokens) {
			end = len(tokens)
		}

		text, err := s.tokenizer.Decode(tokens[start:end])
		if err != nil {
			return nil, err
		}
		prefix, err := s.tokenizer.Decode(tokens[:start])
		if err != nil {
			return nil, err
		}
		// Recount rather than trusting end-start: decoding a token
		// slice can re-tokenize differently at the boundaries.
		count, err := s.tokenizer.Count(text)
		if err != nil {
			return nil, err
		}

		pid := parentID
		chunks = append(chunks, domain.Chunk{
			ID:         domain.WindowChunkID(docID, sectionIndex, idx),
			DocumentID: docID,
			Level:      domain.LevelWindow,
			Heading:    section.Heading,
			Text:       text,
			TokenCount: count,
			CharStart:  len(prefix),
			CharEnd:    len(prefix) + len(text),
			ParentID:   &pid,
		})

		if end == len(tokens) {
			break
		}
	}

	return chunks, nil
}

// ChunkAll chunks a batch of documents on a worker pool bounded by the
// configured concurrency. Documents are independent, so failures are
// isolated: a document that fails tokenization lands in the batch
// report's Failures and the rest of the batch proceeds. Intra-document
// chunk order is preserved; ordering across documents follows the
// input slice.
func (s *ChunkService) ChunkAll(ctx context.Context, docs []*domain.Document) *domain.BatchResult {
	type outcome struct {
		result *domain.ChunkResult
		err    error
	}
	outcomes := make([]outcome, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			res, err := s.ChunkDocument(ctx, doc)
			outcomes[i] = outcome{result: res, err: err}
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	batch := &domain.BatchResult{Failures: make(map[string]error)}
	for i, o := range outcomes {
		switch {
		case o.err != nil:
			id := "unknown"
			if docs[i] != nil {
				id = docs[i].ID
			}
			batch.Failures[id] = o.err
			logger.Warn("chunking failed for %s: %v", id, o.err)
		case o.result != nil:
			batch.Results = append(batch.Results, *o.result)
		}
	}
	return batch
}
