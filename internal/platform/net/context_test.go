package net

import (
	"context"
	"testing"
)

func TestWithRequestRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithRequest(context.Background(), "abc-123")
	if got := RequestID(ctx); got != "abc-123" {
		t.Fatalf("RequestID = %q, want abc-123", got)
	}
}

func TestWithRequestEmptyNoop(t *testing.T) {
	t.Parallel()

	base := context.Background()
	ctx := WithRequest(base, "")
	if ctx != base {
		t.Fatalf("empty request id should not alter context")
	}
	if got := RequestID(ctx); got != "" {
		t.Fatalf("RequestID on bare context = %q, want empty", got)
	}
}
