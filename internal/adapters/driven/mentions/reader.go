// Package mentions decodes raw entity mentions produced by the
// external extractor. The interchange format is JSON Lines: one
// mention object per line.
package mentions

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/kgpipe/internal/core/domain"
	"github.com/custodia-labs/kgpipe/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.MentionReader = (*Reader)(nil)

// Reader decodes JSONL mention streams.
type Reader struct{}

// New creates a new mention reader.
func New() *Reader {
	return &Reader{}
}

// mentionRecord is the wire form of one mention.
type mentionRecord struct {
	Label         string                          `json:"label"`
	RawName       string                          `json:"raw_name"`
	Properties    map[string]domain.PropertyValue `json:"properties"`
	Confidence    float64                         `json:"confidence"`
	Evidence      string                          `json:"evidence"`
	SourceChunkID string                          `json:"source_chunk_id"`
}

// ReadMentions decodes all mentions from r. Lines that fail to decode
// are reported as invalid mentions alongside the valid ones; only I/O
// failure aborts the read.
func (rd *Reader) ReadMentions(r io.Reader) ([]domain.RawMention, []domain.InvalidMention, error) {
	var (
		out     []domain.RawMention
		invalid []domain.InvalidMention
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	index := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec mentionRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			invalid = append(invalid, domain.InvalidMention{
				Index:  index,
				Reason: fmt.Sprintf("decoding mention: %v", err),
			})
			index++
			continue
		}

		out = append(out, domain.RawMention{
			Label:         rec.Label,
			RawName:       rec.RawName,
			Properties:    rec.Properties,
			Confidence:    rec.Confidence,
			Evidence:      rec.Evidence,
			SourceChunkID: rec.SourceChunkID,
		})
		index++
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading mentions: %w", err)
	}
	return out, invalid, nil
}
