// Package html parses HTML documents into titled sections for the
// chunking core. Heading elements (h1-h3) open a new section; all
// other visible text accumulates into the current section's body.
package html

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/kgpipe/internal/core/domain"
	"github.com/custodia-labs/kgpipe/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.SectionParser = (*Parser)(nil)

// Parser converts HTML into a domain.Document.
type Parser struct{}

// New creates a new HTML section parser.
func New() *Parser {
	return &Parser{}
}

// Parse reads one HTML document. The document ID is a slug of name,
// so chunk IDs derived from it stay stable across runs.
func (p *Parser) Parse(_ context.Context, name string, r io.Reader) (*domain.Document, error) {
	if name == "" {
		return nil, fmt.Errorf("document name is required: %w", domain.ErrInvalidInput)
	}

	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	b := &builder{}
	b.walk(root)
	b.flush()

	doc := &domain.Document{
		ID:       Slug(name),
		Title:    b.title,
		Summary:  b.metaDescription,
		Sections: b.sections,
	}
	if doc.Title == "" {
		doc.Title = name
	}
	return doc, nil
}

// skippedElements never contribute text.
var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Iframe:   true,
	atom.Nav:      true,
}

type builder struct {
	title           string
	metaDescription string
	sections        []domain.Section

	heading strings.Builder
	body    strings.Builder
	current string // heading of the section being accumulated
	inTitle bool
	inHead  int // depth counter for h1-h3 elements
}

func (b *builder) walk(n *html.Node) {
	switch n.Type {
	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return
		}
		switch n.DataAtom {
		case atom.Title:
			b.inTitle = true
			defer func() { b.inTitle = false }()
		case atom.Meta:
			b.captureMeta(n)
		case atom.H1, atom.H2, atom.H3:
			b.flush()
			b.inHead++
			defer func() {
				b.inHead--
				b.current = collapseSpace(b.heading.String())
				b.heading.Reset()
			}()
		case atom.P, atom.Div, atom.Li, atom.Tr, atom.Blockquote, atom.Pre,
			atom.Table, atom.Section, atom.Article, atom.Br, atom.Hr:
			b.body.WriteString("\n")
		}

	case html.TextNode:
		switch {
		case b.inTitle:
			if b.title == "" {
				b.title = collapseSpace(n.Data)
			}
		case b.inHead > 0:
			b.heading.WriteString(n.Data)
		default:
			b.body.WriteString(n.Data)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
}

func (b *builder) captureMeta(n *html.Node) {
	var name, content string
	for _, a := range n.Attr {
		switch a.Key {
		case "name":
			name = a.Val
		case "content":
			content = a.Val
		}
	}
	if name == "description" && b.metaDescription == "" {
		b.metaDescription = collapseSpace(content)
	}
}

// flush closes the section being accumulated. Sections with no
// visible text are dropped; leading text before the first heading
// becomes an untitled section.
func (b *builder) flush() {
	body := normalizeBody(b.body.String())
	b.body.Reset()
	if body == "" {
		return
	}
	b.sections = append(b.sections, domain.Section{
		Heading: b.current,
		Body:    body,
	})
}

// normalizeBody collapses runs of spaces and blank lines while
// keeping single newlines as soft breaks.
func normalizeBody(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if collapsed := collapseSpace(line); collapsed != "" {
			out = append(out, collapsed)
		}
	}
	return strings.Join(out, "\n")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Slug derives a stable document ID from a file or page name:
// lowercase, alphanumerics kept, everything else collapsed to single
// hyphens.
func Slug(name string) string {
	var sb strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			sb.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(sb.String(), "-")
}
