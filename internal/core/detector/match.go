package detector

import (
	"github.com/agnivade/levenshtein"
)

// fuzzyMinLen guards approximate matching: short words produce too many
// accidental neighbors at edit distance 1
const fuzzyMinLen = 5

// Match searches the token sequence for every bucket's patterns. Each
// pattern counts at most once per bucket per call; distinct patterns may
// overlap, and the same text may feed hits in different buckets
func (c *Classifier) Match(tokens []string) MatchResult {
	if len(tokens) == 0 {
		return MatchResult{}
	}

	out := MatchResult{}
	for _, b := range c.pack.Buckets {
		var phrases []string
		for _, p := range b.Patterns {
			if c.matchPattern(tokens, p.Words, p.MaxGap) {
				phrases = append(phrases, p.Phrase)
			}
		}
		if len(phrases) == 0 {
			continue
		}
		out[b.Name] = BucketHit{
			Risk:     b.Risk,
			Weight:   b.Weight,
			Hard:     b.Hard,
			Count:    len(phrases),
			Patterns: phrases,
		}
	}
	return out
}

// matchPattern reports whether words occur in order within tokens with at
// most maxGap filler tokens between consecutive words. Two-pointer scan,
// left to right, first satisfied occurrence wins; no slack is granted
// before the first word or after the last
func (c *Classifier) matchPattern(tokens, words []string, maxGap int) bool {
	if len(words) == 0 {
		return false
	}
	for i := 0; i < len(tokens); i++ {
		if !c.wordEq(tokens[i], words[0]) {
			continue
		}
		at := i
		ok := true
		for w := 1; w < len(words); w++ {
			next := -1
			limit := at + 1 + maxGap
			for k := at + 1; k <= limit && k < len(tokens); k++ {
				if c.wordEq(tokens[k], words[w]) {
					next = k
					break
				}
			}
			if next < 0 {
				ok = false
				break
			}
			at = next
		}
		if ok {
			return true
		}
	}
	return false
}

// wordEq compares a token against a pattern word: exact first, then
// bounded edit distance when approximate matching is enabled
func (c *Classifier) wordEq(token, word string) bool {
	if token == word {
		return true
	}
	if c.opts.MaxEditDistance <= 0 || len(word) < fuzzyMinLen {
		return false
	}
	// length gate before computing the distance
	if d := len(token) - len(word); d > c.opts.MaxEditDistance || -d > c.opts.MaxEditDistance {
		return false
	}
	return levenshtein.ComputeDistance(token, word) <= c.opts.MaxEditDistance
}
