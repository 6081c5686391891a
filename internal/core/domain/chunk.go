package domain

import "fmt"

// ChunkLevel identifies where a chunk sits in the three-level tree.
type ChunkLevel int

const (
	// LevelSummary is the single document-summary chunk (level 0).
	LevelSummary ChunkLevel = 0

	// LevelSection is a chunk covering one whole section (level 1).
	LevelSection ChunkLevel = 1

	// LevelWindow is a sliding-window chunk inside an oversized
	// section (level 2).
	LevelWindow ChunkLevel = 2
)

// Chunk is one unit of a document's hierarchical segmentation.
// Chunks are created once per chunking pass and immutable thereafter.
type Chunk struct {
	// ID is derived deterministically from document ID, level and
	// position. See SummaryChunkID, SectionChunkID and WindowChunkID.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Level is the tree level: summary, section or window.
	Level ChunkLevel

	// Heading is the section heading this chunk belongs to.
	// Empty for the summary chunk of an untitled document.
	Heading string

	// Text is the chunk content.
	Text string

	// TokenCount is the exact token count of Text under the
	// configured tokenizer.
	TokenCount int

	// CharStart and CharEnd record character provenance. For section
	// chunks they are cumulative offsets into the concatenated section
	// text of the document; for window chunks they are offsets into
	// the owning section's text; for the summary chunk they span the
	// summary text itself.
	CharStart int
	CharEnd   int

	// ParentID is the parent chunk's ID. Nil only for the summary
	// chunk; every section chunk points at the summary chunk and
	// every window chunk points at its section chunk.
	ParentID *string
}

// SummaryChunkID returns the deterministic ID of a document's summary chunk.
func SummaryChunkID(documentID string) string {
	return documentID + "-summary"
}

// SectionChunkID returns the deterministic ID of a section chunk.
func SectionChunkID(documentID string, sectionIndex int) string {
	return fmt.Sprintf("%s-sec%d", documentID, sectionIndex)
}

// WindowChunkID returns the deterministic ID of a sliding-window chunk.
func WindowChunkID(documentID string, sectionIndex, windowIndex int) string {
	return fmt.Sprintf("%s-sec%d-sw%d", documentID, sectionIndex, windowIndex)
}

// SkippedSection records a section that was below the minimum token
// threshold. Skips are tracked, not silently discarded, so callers can
// do lossless accounting.
type SkippedSection struct {
	// Index is the section's position in the document.
	Index int

	// Heading is the section heading, if any.
	Heading string

	// TokenCount is the section's token count at skip time.
	TokenCount int
}

// ChunkResult is the outcome of chunking one document.
type ChunkResult struct {
	// DocumentID identifies the chunked document.
	DocumentID string

	// Chunks is the full chunk tree in position order: the summary
	// chunk first, then sections in document order, each followed by
	// its windows.
	Chunks []Chunk

	// Skipped lists sections excluded for being too short.
	Skipped []SkippedSection
}

// BatchResult is the outcome of chunking a batch of documents.
// A document either appears in Results with its complete tree or in
// Failures; there is no partial emit.
type BatchResult struct {
	// Results holds the successfully chunked documents.
	Results []ChunkResult

	// Failures maps document IDs to the error that discarded them.
	Failures map[string]error
}
