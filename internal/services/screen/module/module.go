// Package module wires the screen service into an HTTP surface
package module

import (
	"promptguard/internal/core/detector"
	"promptguard/internal/core/rulepack"
	"promptguard/internal/platform/config"
	"promptguard/internal/platform/logger"
	phttp "promptguard/internal/platform/net/http"
	pstrings "promptguard/internal/platform/strings"
	shttp "promptguard/internal/services/screen/http"
	ssvc "promptguard/internal/services/screen/service"
)

// Options resolves the screen module configuration
type Options struct {
	// RulesFile overrides the embedded rule pack when non-empty
	RulesFile string
	// PolicyFile applies a TOML policy over the pack when non-empty
	PolicyFile string
	// Prefix mounts the routes under a path prefix; empty mounts at root
	Prefix string

	Detector detector.Options
}

// FromConfig reads module options from the SCREEN_ namespace of cfg
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("SCREEN_")
	return Options{
		RulesFile:  c.MayString("RULES", ""),
		PolicyFile: c.MayString("POLICY", ""),
		Prefix:     c.MayString("PREFIX", ""),
		Detector: detector.Options{
			BlockThreshold:  c.MayInt("BLOCK_THRESHOLD", 0),
			MaxEditDistance: c.MayInt("MAX_EDIT_DISTANCE", 0),
		},
	}
}

// Module holds the wired screen service and its mount prefix
type Module struct {
	prefix string
	svc    ssvc.Service
}

// New loads the rule pack per opts and constructs the module
func New(opts Options) (*Module, error) {
	pack, det, err := loadPack(opts)
	if err != nil {
		return nil, err
	}

	logger.Named("screen").Info().
		Int("rules_version", pack.Version).
		Int("buckets", len(pack.Buckets)).
		Int("block_threshold", effectiveThreshold(det)).
		Int("max_edit_distance", det.MaxEditDistance).
		Msg("rule pack loaded")

	return &Module{
		prefix: opts.Prefix,
		svc:    ssvc.New(pack, det),
	}, nil
}

// loadPack resolves the pack and detector options. Env-supplied detector
// options win over the policy file; the policy wins over built-in defaults
func loadPack(opts Options) (*rulepack.Pack, detector.Options, error) {
	var (
		pack *rulepack.Pack
		err  error
	)
	if opts.RulesFile != "" {
		pack, err = rulepack.LoadFile(opts.RulesFile)
	} else {
		pack, err = rulepack.Load()
	}
	if err != nil {
		return nil, detector.Options{}, err
	}

	det := opts.Detector
	if opts.PolicyFile != "" {
		pol, err := rulepack.LoadPolicy(opts.PolicyFile)
		if err != nil {
			return nil, detector.Options{}, err
		}
		if pack, err = pack.Apply(pol); err != nil {
			return nil, detector.Options{}, err
		}
		if det.BlockThreshold == 0 {
			det.BlockThreshold = pol.Scorer.BlockThreshold
		}
		if det.MaxEditDistance == 0 {
			det.MaxEditDistance = pol.Matcher.MaxEditDistance
		}
	}
	return pack, det, nil
}

func effectiveThreshold(o detector.Options) int {
	if o.BlockThreshold > 0 {
		return o.BlockThreshold
	}
	return detector.DefaultBlockThreshold
}

// Service exposes the wired service for non-http collaborators
func (m *Module) Service() ssvc.Service { return m.svc }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r phttp.Router) {
	if m.prefix == "" {
		shttp.Register(r, m.svc)
		return
	}
	r.Route(pstrings.MustPrefix(m.prefix), func(rr phttp.Router) {
		shttp.Register(rr, m.svc)
	})
}
