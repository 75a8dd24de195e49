// Package service contains the screen workflow: classify prompts against the
// active rule pack and log decisions
package service

import (
	"context"
	"time"

	"promptguard/internal/core/detector"
	"promptguard/internal/core/rulepack"
	"promptguard/internal/platform/logger"
	"promptguard/internal/services/screen/domain"
)

// Service defines the screen service contract
type Service interface {
	domain.ScreenPort
}

// Svc implements the screen service
type Svc struct {
	pack *rulepack.Pack
	cls  *detector.Classifier
}

// New constructs a screen service over an immutable rule pack
func New(pack *rulepack.Pack, opts detector.Options) *Svc {
	if pack == nil {
		panic("screen.Service requires a non nil rule pack")
	}
	return &Svc{pack: pack, cls: detector.NewWithOptions(pack, opts)}
}

// Classify runs one prompt through the pipeline and logs the decision
func (s *Svc) Classify(ctx context.Context, in domain.ClassifyInput) (domain.ClassifyOutput, error) {
	start := time.Now()
	d := s.cls.Classify(in.Text)

	log := logger.C(ctx)
	evt := log.Info()
	if d.Action == detector.ActionBlock {
		evt = log.Warn()
	}
	evt.Str("action", string(d.Action)).
		Int("score", d.Score).
		Int("buckets", len(d.BucketsHit)).
		Int("chars", len(in.Text)).
		Dur("elapsed", time.Since(start)).
		Msg("prompt screened")

	return domain.ClassifyOutput{
		Action:       d.Action,
		Score:        d.Score,
		BucketsHit:   d.BucketsHit,
		RulesVersion: d.RulesVersion,
	}, nil
}

// Buckets returns metadata about the active rule pack without its phrases
func (s *Svc) Buckets(_ context.Context) (domain.BucketsOutput, error) {
	out := domain.BucketsOutput{
		Version: s.pack.Version,
		Buckets: make([]domain.BucketInfo, 0, len(s.pack.Buckets)),
	}
	for _, b := range s.pack.Buckets {
		out.Buckets = append(out.Buckets, domain.BucketInfo{
			Name:     b.Name,
			Risk:     b.Risk,
			Weight:   b.Weight,
			Hard:     b.Hard,
			Patterns: len(b.Patterns),
		})
	}
	return out, nil
}
