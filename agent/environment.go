package agent

import (
	"time"

	"smf/sds"
	"smf/telemetry"
)

// NewEnvironment builds the Environment agent: it writes environment_state
// and never reads agent queues (no HandleEvent hook), per §4.5.
func NewEnvironment(id string, timeStep time.Duration, s *sds.SDS, logger *telemetry.Logger) *Worker {
	initial := sds.EnvironmentState{}

	return NewWorker(id, "environment", "Environment", timeStep, Hooks{
		InitialUpdate: func(s *sds.SDS) {
			initial = s.EnvironmentState.Get().Value
			s.EnvironmentState.Set(initial, "environment_initial", 0)
		},
		Update: func(s *sds.SDS, dt, t time.Duration) {
			cur := s.EnvironmentState.Get().Value
			// Environment state is quasi-static in this core; a real
			// scenario-driven wind model would mutate cur here.
			s.EnvironmentState.Set(cur, "environment", t)
		},
	}, logger)
}
