// Package normalize provides the deterministic text normalizer that feeds the
// prompt classifier
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKD compatibility decomposition
// 3 Remove zero-width chars and combining marks (covers precomposed accents)
// 4 Case folding
// 5 Width fold fullwidth to ASCII
// 6 Leet folding eg 4/@->a 0->o 1/!->i 3->e 5/$->s 7->t 8->b 9->g |->l
// 7 Replace every rune outside a-z 0-9 and whitespace with a space
// 8 Collapse whitespace to single spaces and trim
//
// The output alphabet is a-z 0-9 and single spaces, which makes the pipeline
// idempotent: a second pass finds nothing left to fold or strip
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is stateless and safe for concurrent use via the pool below
type Normalizer struct{}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKD,                          // compat decomposition exposes combining marks
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			cases.Fold(),                       // unicode case folding
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the normalized form of s following the pipeline described
// above. It is total: any input string produces a (possibly empty) output
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-5 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	// 6 leet folding before the punctuation pass so @ $ ! | survive as letters
	ns = leetFold(ns)

	// 7 strip punctuation, breaking "i.g.n.o.r.e" style insertions into spaces
	ns = punctToSpace(ns)

	// 8 collapse whitespace and trim
	ns = collapseSpaces(ns)

	return ns
}

// leetFold maps a curated set of ASCII lookalikes to the letters they resemble
func leetFold(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '4', '@':
			b.WriteRune('a')
		case '8':
			b.WriteRune('b')
		case '3':
			b.WriteRune('e')
		case '9':
			b.WriteRune('g')
		case '1', '!':
			b.WriteRune('i')
		case '|':
			b.WriteRune('l')
		case '0':
			b.WriteRune('o')
		case '5', '$':
			b.WriteRune('s')
		case '7':
			b.WriteRune('t')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// punctToSpace keeps a-z and digits, maps everything else (including
// underscores and runes outside ASCII) to a single space. Whitespace passes
// through for the collapse pass to handle
func punctToSpace(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
