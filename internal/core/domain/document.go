package domain

// Document is the immutable input to chunking. It is produced by an
// external HTML-to-section parser and owned by the caller; the chunker
// only reads it.
type Document struct {
	// ID is the unique identifier for the document. Chunk IDs are
	// derived from it, so it must be stable across runs.
	ID string

	// Title is the human-readable title.
	Title string

	// Summary is optional pre-written summary text. When empty, the
	// chunker falls back to the truncated head of the section text.
	Summary string

	// Sections is the ordered list of titled sections.
	Sections []Section
}

// Section is one titled span of a document's plain text.
type Section struct {
	// Heading is the section heading. May be empty for leading text
	// that appears before the first heading.
	Heading string

	// Body is the plain-text content of the section.
	Body string
}
