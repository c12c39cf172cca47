// Package agent implements the generic Agent Worker Loop contract (C5): a
// single per-step protocol parameterized by hooks, instantiated five times
// for Environment, Aircraft-System, Flight-Dynamics, Pilot and ATC. This
// generalizes the teacher's pattern of one shared `agent_worker` closure
// parameterized per episode-generation strategy
// (reinforcement.alphaMonteCarloVanillaTrain) to five domain specializations.
package agent

import (
	"context"
	"time"

	"smf/sds"
	"smf/smferrors"
	"smf/stepsync"
	"smf/telemetry"
)

// Hooks are the pluggable per-agent behaviors described in §4.5.
type Hooks struct {
	// InitialUpdate runs once, right after registration and before the first
	// step-wait, to derive and publish any state depending on other cells
	// (e.g. initial net forces from initial kinematics). It must publish
	// with data_source "<agent>_initial".
	InitialUpdate func(s *sds.SDS)

	// Update is the main per-step computation; it should read required
	// cells and publish updated cells with an appropriate data_source.
	Update func(s *sds.SDS, dt, t time.Duration)

	// HandleEvent is invoked once per item drained from the agent's own
	// queue, in FIFO order, before Update runs for that step.
	HandleEvent func(s *sds.SDS, item sds.AgentQueueItem, t time.Duration)

	// Tick is an optional hook for slow-smoothing behaviors (e.g. throttle
	// ramp), run after Update each step.
	Tick func(s *sds.SDS, dt time.Duration)
}

// Worker is one instance of the generic agent contract.
type Worker struct {
	ID       string
	Name     string
	Type     string
	TimeStep time.Duration
	Hooks    Hooks
	Logger   *telemetry.Logger
}

// NewWorker builds a Worker. Logger may be nil, in which case telemetry.Nop()
// is used.
func NewWorker(id, name, typ string, timeStep time.Duration, hooks Hooks, logger *telemetry.Logger) *Worker {
	if logger == nil {
		logger = telemetry.Nop()
	}
	return &Worker{ID: id, Name: name, Type: typ, TimeStep: timeStep, Hooks: hooks, Logger: logger}
}

// Run registers the worker, performs the step-0 initial update, then drives
// the main per-step loop until ctx is cancelled or the SDS is marked over.
// Run returns a *smferrors.Error of kind RegistrationConflict, without running
// any step, if another thread already claims ID. cmd/smf does not absorb that
// error: its errgroup cancels the other threads and the whole run ends with
// the error.
func (w *Worker) Run(ctx context.Context, s *sds.SDS) error {
	if !s.RegisterThread(w.ID, w.Name, w.Type) {
		return smferrors.New(smferrors.RegistrationConflict, "agent.Run:"+w.ID, nil)
	}
	s.CreateAgentQueue(w.ID)

	if w.Hooks.InitialUpdate != nil {
		w.Hooks.InitialUpdate(s)
	}

	stepsync.Loop(ctx, s, w.ID, w.TimeStep, func(stepIndex uint64, t time.Duration) {
		for {
			item, ok := s.DequeueAgentEvent(w.ID)
			if !ok {
				break
			}
			if w.Hooks.HandleEvent != nil {
				w.Hooks.HandleEvent(s, item, t)
			}
		}

		if w.Hooks.Update != nil {
			w.Hooks.Update(s, w.TimeStep, t)
		}
		if w.Hooks.Tick != nil {
			w.Hooks.Tick(s, w.TimeStep)
		}
	})

	return nil
}
