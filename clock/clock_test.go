package clock

import (
	"context"
	"testing"
	"time"

	"smf/sds"
	"smf/telemetry"
)

// TestRunCompletesWithNoThreads verifies the clock reaches max_simulation_time
// and stops cleanly when no agent ever registers — the trivial case where
// AllRegisteredThreadsCompletedFor is vacuously true every step.
func TestRunCompletesWithNoThreads(t *testing.T) {
	s := sds.New(nil)
	c := New(s, 10*time.Millisecond, 50*time.Millisecond, 0, 0, telemetry.Nop(), telemetry.NewMetrics())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !s.IsSimulationOver() {
		t.Fatal("expected simulation to be marked over")
	}
	if c.State() != Finished {
		t.Fatalf("expected Finished state, got %v", c.State())
	}
}

// TestRunDetectsDeadlock registers a thread that never completes and expects
// waitForCompletion to eventually raise DeadlockSuspected rather than spin
// forever. A short sync_tolerance keeps the deadlock poll budget small so
// the test runs quickly instead of needing the multi-second default.
func TestRunDetectsDeadlock(t *testing.T) {
	s := sds.New(nil)
	s.RegisterThread("stuck", "stuck", "Test")

	c := New(s, 10*time.Millisecond, time.Hour, 0, 50*pollInterval, telemetry.Nop(), telemetry.NewMetrics())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := c.Run(ctx)
	if err == nil {
		t.Fatal("expected a deadlock error")
	}
}

// TestNewConvertsSyncToleranceToDeadlockPolls verifies sync_tolerance (§6)
// actually changes the clock's deadlock-detection budget rather than being
// parsed and ignored.
func TestNewConvertsSyncToleranceToDeadlockPolls(t *testing.T) {
	withTolerance := New(sds.New(nil), time.Millisecond, time.Second, 0, 10*pollInterval, nil, nil)
	if withTolerance.deadlockPolls != 10 {
		t.Fatalf("expected deadlockPolls derived from syncTolerance, got %d", withTolerance.deadlockPolls)
	}

	withDefault := New(sds.New(nil), time.Millisecond, time.Second, 0, 0, nil, nil)
	if withDefault.deadlockPolls != defaultDeadlockPolls {
		t.Fatalf("expected defaultDeadlockPolls fallback, got %d", withDefault.deadlockPolls)
	}
}
