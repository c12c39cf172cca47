// Package eventmonitor implements the Event Monitor (C3): once per step it
// evaluates every planned event's trigger condition against the current
// shared state, applies the monotone firing rule, and hands newly fired
// events to the global event queue for the dispatcher to route (§4.3).
package eventmonitor

import (
	"context"
	"time"

	"smf/sds"
	"smf/smferrors"
	"smf/stepsync"
	"smf/telemetry"
	"smf/trigger"
)

// Monitor evaluates the planned event library once per step.
type Monitor struct {
	id       string
	timeStep time.Duration
	sds      *sds.SDS
	logger   *telemetry.Logger
	metrics  *telemetry.Metrics
}

// New constructs an Event Monitor.
func New(id string, timeStep time.Duration, s *sds.SDS, logger *telemetry.Logger, metrics *telemetry.Metrics) *Monitor {
	return &Monitor{id: id, timeStep: timeStep, sds: s, logger: logger, metrics: metrics}
}

// Run registers the monitor as a step-barrier thread and drives its
// per-step evaluation until the simulation ends or ctx is cancelled. It
// returns a RegistrationConflict error if another thread already claims id,
// matching the agent Worker contract's shutdown behavior (§7).
func (m *Monitor) Run(ctx context.Context) error {
	if !m.sds.RegisterThread(m.id, "event_monitor", "EventMonitor") {
		return smferrors.New(smferrors.RegistrationConflict, "eventmonitor.Run:"+m.id, nil)
	}

	stepsync.Loop(ctx, m.sds, m.id, m.timeStep, func(stepIndex uint64, t time.Duration) {
		m.evaluateStep(stepIndex, t)
	})
	return nil
}

// evaluateStep walks the planned event library in its stable load order
// (§4.4 ordering guarantee), skips any event that has ever fired, evaluates
// the rest, and enqueues newly fired events onto the global queue.
func (m *Monitor) evaluateStep(stepIndex uint64, t time.Duration) {
	snap := m.buildSnapshot(t)

	for _, ev := range m.sds.GetPlannedEvents() {
		if m.sds.HasEverTriggered(ev.ID) {
			continue
		}

		fired, errs := trigger.Evaluate(ev.TriggerCondition.Expression, snap)
		for _, err := range errs {
			if m.logger != nil {
				m.logger.Warn("trigger predicate error", "event", ev.Name, "err", err)
			}
		}
		if !fired {
			continue
		}

		m.sds.AddEventToStep(stepIndex, ev)
		m.sds.EnqueueEvent(ev, t, m.id)

		if m.metrics != nil {
			kind := trigger.ConditionKind(firstAtom(ev.TriggerCondition.Expression))
			m.metrics.ObserveEventTriggered(kind)
		}
		if m.logger != nil {
			m.logger.Brief("event triggered", "event", ev.Name, "step", stepIndex, "t", t)
		}
	}

	if m.metrics != nil {
		m.metrics.SetGlobalQueueDepth(m.sds.GlobalQueueDepth())
	}
}

// buildSnapshot reads the handful of cells the trigger grammar can
// reference (§4.3): simulation time t, groundspeed, and the ATC flags.
func (m *Monitor) buildSnapshot(t time.Duration) trigger.Snapshot {
	flight := m.sds.AircraftFlightState.Get().Value
	atc := m.sds.ATCCommand.Get().Value
	return trigger.Snapshot{
		T:                t,
		Groundspeed:      flight.Groundspeed,
		ClearanceGranted: atc.ClearanceGranted,
		EmergencyBrake:   atc.EmergencyBrake,
	}
}

// firstAtom returns the first "||"-delimited atom of expr, used only to
// classify a fired event's condition kind for telemetry (a multi-atom
// expression is classified by whichever atom happens to be written first;
// this is a labeling convenience, not part of the firing semantics).
func firstAtom(expr string) string {
	for i := 0; i < len(expr); i++ {
		if expr[i] == '|' {
			return expr[:i]
		}
	}
	return expr
}
