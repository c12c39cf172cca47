// Package stepsync is the edge-triggered wait primitive shared by every
// worker that participates in the step barrier: the five agent
// specializations (C5), the Event Monitor (C3) and the Event Dispatcher (C4)
// all register with the SDS thread registry and wait on the same sync signal
// the same way, so the polling/registration logic lives in one place instead
// of being copy-pasted per component.
package stepsync

import (
	"context"
	"time"

	"smf/sds"
)

// PollInterval is the worker-side poll cadence recommended by §4.5 (~150µs).
// The clock's completion poll uses its own interval (clock.pollInterval).
const PollInterval = 150 * time.Microsecond

// Loop drives one worker's main per-step lifetime: repeatedly
// wait-for-edge / run / complete / wait-for-fall, until the context is
// cancelled or the SDS is marked over. step is called once per new step with
// the step index and its time t; it must not block indefinitely. Callers
// must have already registered threadID (and run any step-0 initial update)
// before calling Loop; Loop unregisters the thread before returning.
func Loop(
	ctx context.Context,
	s *sds.SDS,
	threadID string,
	timeStep time.Duration,
	step func(stepIndex uint64, t time.Duration),
) {
	defer s.UnregisterThread(threadID)

	lastStep := ^uint64(0) // sentinel "never"
	for {
		stepIndex, ok := WaitForEdge(ctx, s, lastStep)
		if !ok {
			return
		}

		s.UpdateThreadState(threadID, sds.Running, stepIndex)
		lastStep = stepIndex
		t := time.Duration(stepIndex) * timeStep

		step(stepIndex, t)

		s.UpdateThreadState(threadID, sds.Completed, stepIndex)

		if !WaitForFall(ctx, s) {
			return
		}
	}
}

// WaitForEdge blocks (polling) until step_ready transitions true for a step
// index different from lastStep, or until cancellation/shutdown. The edge
// distinguishes a fresh step from a stale "still true" read — comparing
// current_step against the caller's own last-processed step, per the
// glossary's "edge-triggered wait" definition.
func WaitForEdge(ctx context.Context, s *sds.SDS, lastStep uint64) (step uint64, ok bool) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		if s.IsSimulationOver() {
			return 0, false
		}
		select {
		case <-ctx.Done():
			return 0, false
		case <-ticker.C:
		}
		sig := s.GetCurrentSyncSignal()
		if sig.StepReady && sig.CurrentStep != lastStep {
			return sig.CurrentStep, true
		}
	}
}

// WaitForFall blocks until step_ready has fallen back to false, indicating
// the clock observed every worker COMPLETED and cleared the edge — this
// prevents a worker from racing ahead and double-processing the step it just
// finished.
func WaitForFall(ctx context.Context, s *sds.SDS) bool {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		if s.IsSimulationOver() {
			return false
		}
		sig := s.GetCurrentSyncSignal()
		if !sig.StepReady {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}
