// Package keywords normalizes free text into the token sets used for fuzzy
// matching between task titles and commit/PR text.
package keywords

import "strings"

// stopWords are dropped from every extraction. The list covers articles,
// conjunctions, common prepositions and auxiliary verbs.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "from": {}, "as": {}, "is": {}, "was": {},
	"are": {}, "be": {}, "been": {},
}

// Extract lowercases text, strips punctuation, splits on whitespace and
// returns the deduplicated tokens longer than two characters that are not
// stop words. Order follows first occurrence. Deterministic: the same text
// always yields the same set.
func Extract(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteRune(' ')
		}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, word := range strings.Fields(b.String()) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	return out
}

// Overlaps reports whether the two keyword sets share at least one token.
// A single shared keyword is sufficient; there is no scoring.
func Overlaps(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}
	for _, k := range b {
		if _, ok := set[k]; ok {
			return true
		}
	}
	return false
}
