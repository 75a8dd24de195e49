// Package rulepack loads and compiles the bucket table from the embedded
// rules.json. A compiled Pack is immutable; build it once at startup and share
// it across goroutines
package rulepack

import (
	_ "embed"
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"promptguard/internal/core/normalize"
	perr "promptguard/internal/platform/errors"
)

//go:embed rules.json
var embedded []byte

// Risk labels carried by buckets. They are descriptive only; the decision
// logic keys off weights and the hard flag
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// Config is the raw, serializable form of a rule pack. Collaborators may
// build one in code or load it from JSON; Compile validates either way
type Config struct {
	Version int            `json:"version"             validate:"required,min=1"`
	Meta    map[string]any `json:"meta,omitempty"`
	Buckets []BucketConfig `json:"buckets"             validate:"required,min=1,unique=Name,dive"`
}

// BucketConfig declares one named bucket
type BucketConfig struct {
	Name string `json:"name"   validate:"required,lowercase"`
	Risk string `json:"risk"   validate:"required,oneof=low medium high critical"`
	// Weight is the score contribution per pattern hit; zero is legal for
	// observe-only buckets
	Weight int  `json:"weight" validate:"min=0"`
	Hard   bool `json:"hard,omitempty"`
	// MaxGap overrides the filler-token allowance between consecutive words
	// of every pattern in this bucket. When absent each pattern derives its
	// own: 2 for patterns of three or more words, else 1
	MaxGap   *int     `json:"max_gap,omitempty" validate:"omitempty,min=0"`
	Patterns []string `json:"patterns"          validate:"required,min=1,dive,required"`
}

// Pattern is a compiled keyword phrase: an ordered word sequence plus the
// filler allowance between consecutive words
type Pattern struct {
	Phrase string
	Words  []string
	MaxGap int
}

// Bucket is the compiled form of a BucketConfig
type Bucket struct {
	Name     string
	Risk     string
	Weight   int
	Hard     bool
	Patterns []Pattern
}

// Pack is the compiled rule table
type Pack struct {
	Version int
	Meta    map[string]any
	Buckets []Bucket

	byName map[string]int
}

// Load compiles the embedded rules.json
func Load() (*Pack, error) {
	return loadBytes(embedded, "embedded rules.json")
}

// LoadFile compiles a rules.json from disk, overriding the embedded pack
func LoadFile(path string) (*Pack, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "rulepack: read %s", path)
	}
	return loadBytes(raw, path)
}

func loadBytes(raw []byte, src string) (*Pack, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "rulepack: parse %s", src)
	}
	return Compile(cfg)
}

// packValidate is shared; validator.Validate is concurrency safe
var packValidate = validator.New(validator.WithRequiredStructEnabled())

// Compile validates cfg and builds an immutable Pack. Pattern phrases are run
// through the same normalizer the classifier applies to input text, so the
// table and the token stream always agree on spelling
func Compile(cfg Config) (*Pack, error) {
	if err := packValidate.Struct(cfg); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "rulepack: invalid config")
	}

	n := normalize.New()
	p := &Pack{
		Version: cfg.Version,
		Meta:    cfg.Meta,
		Buckets: make([]Bucket, 0, len(cfg.Buckets)),
		byName:  make(map[string]int, len(cfg.Buckets)),
	}

	for _, bc := range cfg.Buckets {
		if strings.ContainsAny(bc.Name, " \t") {
			return nil, perr.Validationf("rulepack: bucket name %q contains whitespace", bc.Name)
		}
		b := Bucket{
			Name:     bc.Name,
			Risk:     bc.Risk,
			Weight:   bc.Weight,
			Hard:     bc.Hard,
			Patterns: make([]Pattern, 0, len(bc.Patterns)),
		}
		seen := make(map[string]struct{}, len(bc.Patterns))
		for _, phrase := range bc.Patterns {
			norm := n.Normalize(phrase)
			if norm == "" {
				return nil, perr.Validationf("rulepack: bucket %q: pattern %q normalizes to nothing", bc.Name, phrase)
			}
			if _, dup := seen[norm]; dup {
				return nil, perr.Validationf("rulepack: bucket %q: duplicate pattern %q", bc.Name, phrase)
			}
			seen[norm] = struct{}{}

			words := strings.Fields(norm)
			gap := deriveGap(words)
			if bc.MaxGap != nil {
				gap = *bc.MaxGap
			}
			b.Patterns = append(b.Patterns, Pattern{Phrase: phrase, Words: words, MaxGap: gap})
		}
		p.byName[b.Name] = len(p.Buckets)
		p.Buckets = append(p.Buckets, b)
	}

	// Deterministic iteration for tests/debug
	sort.Slice(p.Buckets, func(i, j int) bool { return p.Buckets[i].Name < p.Buckets[j].Name })
	for i := range p.Buckets {
		p.byName[p.Buckets[i].Name] = i
	}

	return p, nil
}

// deriveGap mirrors the historical default: longer phrases earn an extra
// filler token between words
func deriveGap(words []string) int {
	if len(words) >= 3 {
		return 2
	}
	return 1
}

// Bucket returns the named bucket, if present
func (p *Pack) Bucket(name string) (Bucket, bool) {
	i, ok := p.byName[name]
	if !ok {
		return Bucket{}, false
	}
	return p.Buckets[i], true
}

// Names returns bucket names in sorted order
func (p *Pack) Names() []string {
	out := make([]string, len(p.Buckets))
	for i, b := range p.Buckets {
		out[i] = b.Name
	}
	return out
}
