package tracing

import (
	"context"
	"testing"
)

// TestPurpose: Validates that tracer shutdown never panics, whatever New returned.
// Scope: Unit Test
// Expected: Shutdown returns nil on a nil receiver and on a disabled (noop) tracer.
// Test Case ID: TRC-01
func TestTracer_Shutdown_NilSafe(t *testing.T) {
	ctx := context.Background()

	var failed *Tracer
	if err := failed.Shutdown(ctx); err != nil {
		t.Errorf("nil tracer shutdown should be a no-op, got %v", err)
	}

	disabled, err := New(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("disabled tracer construction failed: %v", err)
	}
	if err := disabled.Shutdown(ctx); err != nil {
		t.Errorf("disabled tracer shutdown should be a no-op, got %v", err)
	}
}
