// Package domain holds DTOs for screen http and service contracts
package domain

import "promptguard/internal/core/detector"

// ClassifyInput is a single prompt to screen
type ClassifyInput struct {
	Text string `json:"text" validate:"required,max=65536"`
}

// ClassifyOutput is the decision for one prompt
type ClassifyOutput struct {
	Action       detector.Action      `json:"action"`
	Score        int                  `json:"score"`
	BucketsHit   detector.MatchResult `json:"buckets_hit"`
	RulesVersion int                  `json:"rules_version"`
}

// BucketInfo describes one rule bucket without exposing its phrases
type BucketInfo struct {
	Name     string `json:"name"`
	Risk     string `json:"risk"`
	Weight   int    `json:"weight"`
	Hard     bool   `json:"hard,omitempty"`
	Patterns int    `json:"patterns"`
}

// BucketsOutput lists the active rule pack metadata
type BucketsOutput struct {
	Version int          `json:"version"`
	Buckets []BucketInfo `json:"buckets"`
}
