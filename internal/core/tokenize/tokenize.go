// Package tokenize splits normalized text into an ordered token sequence and
// merges spaced-out single letters so "i g n o r e" reads as "ignore"
package tokenize

import "strings"

// Tokenize splits normalized text on spaces and merges every maximal run of
// two or more single-character tokens into one token, in place. A lone
// single-character token ("a", "i") is left alone. Token order is preserved;
// the matcher counts gaps by position
func Tokenize(norm string) []string {
	if norm == "" {
		return nil
	}
	return mergeSingles(strings.Fields(norm))
}

// mergeSingles collapses runs of single-character tokens
func mergeSingles(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	var run []string
	flush := func() {
		switch len(run) {
		case 0:
		case 1:
			out = append(out, run[0])
		default:
			out = append(out, strings.Join(run, ""))
		}
		run = run[:0]
	}
	for _, tok := range tokens {
		if len(tok) == 1 {
			run = append(run, tok)
			continue
		}
		flush()
		out = append(out, tok)
	}
	flush()
	return out
}
