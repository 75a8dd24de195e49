package domain

import "context"

// ScreenPort is the contract collaborators call: classify one prompt, or
// inspect the active rule pack
type ScreenPort interface {
	Classify(ctx context.Context, in ClassifyInput) (ClassifyOutput, error)
	Buckets(ctx context.Context) (BucketsOutput, error)
}
