// Package clock implements the Simulation Clock (C2): the single authority
// that advances the step counter, publishes the step-ready edge, waits for
// every registered thread to complete, and detects deadlock or
// scenario-defined termination (§4.2).
package clock

import (
	"context"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"smf/sds"
	"smf/smferrors"
	"smf/telemetry"
)

// State is the clock's own lifecycle, distinct from the per-thread
// ThreadState values it drives.
type State int

const (
	Stopped State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "STOPPED"
	case Running:
		return "RUNNING"
	case Finished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// pollInterval is the clock's own completion-poll cadence, within the
// 100-300µs band named in §4.2.
const pollInterval = 200 * time.Microsecond

// defaultDeadlockPolls is the fallback poll budget — at pollInterval, about
// 2 seconds — used when the caller supplies no sync_tolerance (§6).
const defaultDeadlockPolls = 10000

// Clock drives the step loop. TimeScale, when > 0, paces real time against
// simulation time (TimeScale 1.0 is real-time, 2.0 is 2x real-time, and so
// on); TimeScale == 0 runs as fast as the threads allow.
type Clock struct {
	SDS           *sds.SDS
	TimeStep      time.Duration
	MaxSimTime    time.Duration
	TimeScale     float64
	SyncTolerance time.Duration
	Logger        *telemetry.Logger
	Metrics       *telemetry.Metrics

	state        State
	deadlockPolls int
}

// New constructs a Clock in the Stopped state. syncTolerance is
// simulation_params.sync_tolerance (§6): the wall-clock slack the clock
// grants a step before it suspects deadlock, converted to a poll budget at
// pollInterval. A non-positive syncTolerance falls back to
// defaultDeadlockPolls.
func New(s *sds.SDS, timeStep, maxSimTime time.Duration, timeScale float64, syncTolerance time.Duration, logger *telemetry.Logger, metrics *telemetry.Metrics) *Clock {
	polls := defaultDeadlockPolls
	if syncTolerance > 0 {
		polls = int(syncTolerance / pollInterval)
		if polls < 1 {
			polls = 1
		}
	}
	return &Clock{
		SDS:           s,
		TimeStep:      timeStep,
		MaxSimTime:    maxSimTime,
		TimeScale:     timeScale,
		SyncTolerance: syncTolerance,
		Logger:        logger,
		Metrics:       metrics,
		state:         Stopped,
		deadlockPolls: polls,
	}
}

// State reports the clock's current lifecycle state.
func (c *Clock) State() State {
	return c.state
}

// Run executes the per-step algorithm of §4.2 until max_simulation_time is
// reached (within half a time_step), the context is cancelled, or
// deadlock is suspected. It publishes the step-0 recorder snapshot before the
// first step. It returns the deadlock error, if any; a normal completion
// returns nil.
func (c *Clock) Run(ctx context.Context) error {
	c.state = Running
	defer func() { c.state = Finished }()

	c.SDS.PublishToDataRecorder(0)

	done := ctx.Done()
	var pacer <-chan time.Time
	if c.TimeScale > 0 {
		wallPerStep := time.Duration(float64(c.TimeStep) / c.TimeScale)
		pacer = channerics.NewTicker(done, wallPerStep)
	}

	epsilon := c.TimeStep / 2
	var step uint64 = 1

	for {
		t := time.Duration(step) * c.TimeStep
		if t >= c.MaxSimTime-epsilon {
			c.SDS.MarkSimulationOver()
			if c.Logger != nil {
				c.Logger.Brief("simulation reached max_simulation_time", "t", t, "step", step)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			c.SDS.MarkSimulationOver()
			return ctx.Err()
		default:
		}

		c.SDS.PublishStepReady(step)

		if err := c.waitForCompletion(ctx, step); err != nil {
			c.SDS.MarkSimulationOver()
			return err
		}

		c.SDS.ClearStepReady()

		c.SDS.PublishToDataRecorder(t)

		if c.Metrics != nil {
			c.Metrics.ObserveStepCompleted()
		}

		if pacer != nil {
			select {
			case <-pacer:
			case <-done:
				c.SDS.MarkSimulationOver()
				return ctx.Err()
			}
		}

		step++
	}
}

// waitForCompletion polls AllRegisteredThreadsCompletedFor until it is true,
// the simulation is externally marked over, the context is cancelled, or
// deadlockPolls consecutive polls elapse with no progress — the last of
// which raises a DeadlockSuspected error (§4.2).
func (c *Clock) waitForCompletion(ctx context.Context, step uint64) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	stalls := 0
	for {
		if c.SDS.AllRegisteredThreadsCompletedFor(step) {
			return nil
		}
		if c.SDS.IsSimulationOver() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		stalls++
		if stalls >= c.deadlockPolls {
			if c.Logger != nil {
				c.Logger.Warn("deadlock suspected", "step", step, "threads", c.SDS.ThreadSnapshot())
			}
			if c.Metrics != nil {
				c.Metrics.ObserveDeadlockSuspected()
			}
			return smferrors.New(smferrors.DeadlockSuspected, "clock.waitForCompletion", nil)
		}
	}
}
