package rulepack

import (
	"github.com/BurntSushi/toml"

	perr "promptguard/internal/platform/errors"
)

// Policy is an optional operator-supplied overrides file (TOML). It tunes the
// shipped pack without editing rules.json: thresholds, per-bucket weights,
// and which buckets force a block
type Policy struct {
	Scorer  ScorerPolicy  `toml:"scorer"`
	Matcher MatcherPolicy `toml:"matcher"`
}

// ScorerPolicy tunes decision thresholds and bucket scoring
type ScorerPolicy struct {
	// BlockThreshold replaces the default block threshold when > 0
	BlockThreshold int `toml:"block_threshold"`
	// Hard marks the named buckets hard (any hit blocks)
	Hard []string `toml:"hard"`
	// Soft clears the hard flag on the named buckets
	Soft []string `toml:"soft"`
	// Weights replaces bucket weights by name
	Weights map[string]int `toml:"weights"`
}

// MatcherPolicy tunes the token matcher
type MatcherPolicy struct {
	// MaxEditDistance enables approximate word matching when > 0
	MaxEditDistance int `toml:"max_edit_distance"`
}

// LoadPolicy reads a TOML policy file
func LoadPolicy(path string) (Policy, error) {
	var pol Policy
	if _, err := toml.DecodeFile(path, &pol); err != nil {
		return Policy{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "rulepack: policy %s", path)
	}
	if pol.Scorer.BlockThreshold < 0 {
		return Policy{}, perr.Validationf("rulepack: policy %s: negative block_threshold", path)
	}
	if pol.Matcher.MaxEditDistance < 0 {
		return Policy{}, perr.Validationf("rulepack: policy %s: negative max_edit_distance", path)
	}
	return pol, nil
}

// Apply returns a copy of the pack with the policy's bucket overrides
// applied. Unknown bucket names and negative weights are configuration
// errors; the receiver is never mutated
func (p *Pack) Apply(pol Policy) (*Pack, error) {
	out := &Pack{
		Version: p.Version,
		Meta:    p.Meta,
		Buckets: make([]Bucket, len(p.Buckets)),
		byName:  make(map[string]int, len(p.byName)),
	}
	copy(out.Buckets, p.Buckets)
	for name, i := range p.byName {
		out.byName[name] = i
	}

	find := func(name string) (int, error) {
		i, ok := out.byName[name]
		if !ok {
			return 0, perr.Validationf("rulepack: policy references unknown bucket %q", name)
		}
		return i, nil
	}

	for _, name := range pol.Scorer.Hard {
		i, err := find(name)
		if err != nil {
			return nil, err
		}
		out.Buckets[i].Hard = true
	}
	for _, name := range pol.Scorer.Soft {
		i, err := find(name)
		if err != nil {
			return nil, err
		}
		out.Buckets[i].Hard = false
	}
	for name, w := range pol.Scorer.Weights {
		if w < 0 {
			return nil, perr.Validationf("rulepack: policy weight for %q is negative", name)
		}
		i, err := find(name)
		if err != nil {
			return nil, err
		}
		out.Buckets[i].Weight = w
	}

	return out, nil
}
