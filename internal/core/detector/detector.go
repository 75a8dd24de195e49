// Package detector implements bucket matching and the allow/restrict/block
// decision over normalized, tokenized prompt text
package detector

import (
	"promptguard/internal/core/normalize"
	"promptguard/internal/core/rulepack"
	"promptguard/internal/core/tokenize"
)

// Action is the decision level. Levels are ordered: ALLOW < RESTRICT < BLOCK
type Action string

const (
	// ActionAllow means no bucket evidence was found
	ActionAllow Action = "ALLOW"
	// ActionRestrict means some evidence was found below the block threshold
	ActionRestrict Action = "RESTRICT"
	// ActionBlock means a hard bucket hit or the score reached the threshold
	ActionBlock Action = "BLOCK"
)

// Rank orders actions for monotonicity checks (ALLOW=0, RESTRICT=1, BLOCK=2)
func (a Action) Rank() int {
	switch a {
	case ActionRestrict:
		return 1
	case ActionBlock:
		return 2
	default:
		return 0
	}
}

// BucketHit records the evidence found for one bucket within one call
type BucketHit struct {
	Risk     string   `json:"risk"`
	Weight   int      `json:"weight"`
	Hard     bool     `json:"hard,omitempty"`
	Count    int      `json:"count"`
	Patterns []string `json:"patterns"`
}

// MatchResult maps bucket name to its hit evidence; buckets with zero hits
// are absent
type MatchResult map[string]BucketHit

// Decision is the classifier output. It has no lifecycle beyond the call
type Decision struct {
	Action       Action      `json:"action"`
	Score        int         `json:"score"`
	BucketsHit   MatchResult `json:"buckets_hit"`
	RulesVersion int         `json:"rules_version"`
}

// DefaultBlockThreshold is the weighted score at which a prompt is blocked
const DefaultBlockThreshold = 6

// Options tunes the decision and matching behavior
type Options struct {
	// BlockThreshold is the score at which the action becomes BLOCK;
	// zero means DefaultBlockThreshold
	BlockThreshold int
	// MaxEditDistance enables approximate matching of pattern words of five
	// or more characters; zero means exact matching only
	MaxEditDistance int
}

// Classifier runs the normalize -> tokenize -> match -> decide pipeline over
// an immutable rule pack. Safe for concurrent use; no state across calls
type Classifier struct {
	pack *rulepack.Pack
	norm *normalize.Normalizer
	opts Options
}

// New creates a Classifier with default options
func New(p *rulepack.Pack) *Classifier {
	return NewWithOptions(p, Options{})
}

// NewWithOptions creates a Classifier with custom options
func NewWithOptions(p *rulepack.Pack, opts Options) *Classifier {
	if opts.BlockThreshold <= 0 {
		opts.BlockThreshold = DefaultBlockThreshold
	}
	return &Classifier{pack: p, norm: normalize.New(), opts: opts}
}

// Classify runs the full pipeline over raw text. Total over all inputs:
// empty or unmatchable text yields ALLOW with no buckets hit
func (c *Classifier) Classify(text string) Decision {
	tokens := tokenize.Tokenize(c.norm.Normalize(text))
	return c.Decide(c.Match(tokens))
}

// Decide aggregates bucket hits into a score and maps it to an action.
// Hard bucket hits block regardless of score
func (c *Classifier) Decide(m MatchResult) Decision {
	score := 0
	hard := false
	for _, h := range m {
		score += h.Weight * h.Count
		if h.Hard {
			hard = true
		}
	}

	action := ActionAllow
	switch {
	case hard:
		action = ActionBlock
	case score >= c.opts.BlockThreshold:
		action = ActionBlock
	case score > 0:
		action = ActionRestrict
	}

	if m == nil {
		m = MatchResult{}
	}
	return Decision{
		Action:       action,
		Score:        score,
		BucketsHit:   m,
		RulesVersion: c.pack.Version,
	}
}
