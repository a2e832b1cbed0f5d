package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Leading enumerators stripped before slugging: "1. ", "(2) ", "No. 3", "a) ".
var enumeratorRe = regexp.MustCompile(`^\s*(?:\(?\d+[.)]\s+|\(\d+\)\s*|[Nn]o\.?\s+\d+\s*|[a-zA-Z][.)]\s+)+`)

// maxIdentifierLen caps suggested identifiers.
const maxIdentifierLen = 40

// suggestIdentifier derives a stable, template-friendly identifier from text
// content, falling back to a position-based name when the content yields
// nothing usable (empty, punctuation-only, or a bare enumerator).
func suggestIdentifier(content string, x, y float64) string {
	s := enumeratorRe.ReplaceAllString(strings.TrimSpace(content), "")
	s = slugify(s)
	if r := []rune(s); len(r) > maxIdentifierLen {
		s = strings.TrimRight(string(r[:maxIdentifierLen]), "_")
	}
	if len([]rune(s)) < 2 {
		return fmt.Sprintf("text_%d_%d", int(x), int(y))
	}
	return s
}

// slugify lower-cases and replaces every non-alphanumeric run with a single
// underscore. Non-ASCII letters survive so CJK labels keep usable names.
func slugify(s string) string {
	var sb strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			sb.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(sb.String(), "_")
}
