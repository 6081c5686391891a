package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// NormalizeName canonicalizes a raw entity name into the comparison
// key used for dedup and merge decisions: Unicode compatibility
// normalization (NFKC), trim, case fold, and collapse of any run of
// Unicode whitespace (including non-breaking space) to a single ASCII
// space. Punctuation such as hyphens and ampersands is preserved
// verbatim because it carries meaning ("V&V", "benefit-risk").
//
// The function is pure and total; an empty input yields "".
func NormalizeName(raw string) string {
	if raw == "" {
		return ""
	}
	s := norm.NFKC.String(raw)
	s = foldCaser.String(s)
	// Fields splits on unicode.IsSpace, which covers NBSP after NFKC.
	return strings.Join(strings.Fields(s), " ")
}
