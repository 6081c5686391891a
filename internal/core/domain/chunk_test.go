package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkIDs(t *testing.T) {
	assert.Equal(t, "guide-summary", SummaryChunkID("guide"))
	assert.Equal(t, "guide-sec0", SectionChunkID("guide", 0))
	assert.Equal(t, "guide-sec3-sw12", WindowChunkID("guide", 3, 12))
}
