package html

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>  Guide to V&amp;V  </title>
<meta name="description" content="  How to verify  and validate. ">
</head>
<body>
<nav><a href="/">skip this menu</a></nav>
<h1>Intro</h1>
<p>First paragraph.</p>
<p>Second paragraph.</p>
<h2>Details</h2>
<p>More text here.</p>
<script>var hidden = true;</script>
<style>.x { color: red }</style>
</body>
</html>`

func TestParser_Parse(t *testing.T) {
	doc, err := New().Parse(context.Background(), "guide.html", strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "guide-html", doc.ID)
	assert.Equal(t, "Guide to V&V", doc.Title)
	assert.Equal(t, "How to verify and validate.", doc.Summary)

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Intro", doc.Sections[0].Heading)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", doc.Sections[0].Body)
	assert.Equal(t, "Details", doc.Sections[1].Heading)
	assert.Equal(t, "More text here.", doc.Sections[1].Body)
}

func TestParser_Parse_LeadingTextBecomesUntitledSection(t *testing.T) {
	page := `<html><body><p>Preamble text.</p><h2>First</h2><p>Body.</p></body></html>`

	doc, err := New().Parse(context.Background(), "page", strings.NewReader(page))
	require.NoError(t, err)

	require.Len(t, doc.Sections, 2)
	assert.Empty(t, doc.Sections[0].Heading)
	assert.Equal(t, "Preamble text.", doc.Sections[0].Body)
	assert.Equal(t, "First", doc.Sections[1].Heading)
}

func TestParser_Parse_FallbacksAndEdgeCases(t *testing.T) {
	t.Run("missing title falls back to name", func(t *testing.T) {
		doc, err := New().Parse(context.Background(), "raw-page", strings.NewReader("<p>text</p>"))
		require.NoError(t, err)
		assert.Equal(t, "raw-page", doc.Title)
	})

	t.Run("no meta description leaves summary empty", func(t *testing.T) {
		doc, err := New().Parse(context.Background(), "p", strings.NewReader("<p>text</p>"))
		require.NoError(t, err)
		assert.Empty(t, doc.Summary)
	})

	t.Run("empty sections are dropped", func(t *testing.T) {
		page := `<html><body><h1>Empty</h1><h2>Full</h2><p>body</p></body></html>`
		doc, err := New().Parse(context.Background(), "p", strings.NewReader(page))
		require.NoError(t, err)
		require.Len(t, doc.Sections, 1)
		assert.Equal(t, "Full", doc.Sections[0].Heading)
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := New().Parse(context.Background(), "", strings.NewReader("<p>x</p>"))
		require.Error(t, err)
	})
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"guide.html", "guide-html"},
		{"My File (v2).html", "my-file-v2-html"},
		{"Already-Slugged", "already-slugged"},
		{"--weird--", "weird"},
		{"CAFÉ menu", "café-menu"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), "Slug(%q)", tt.in)
	}
}
