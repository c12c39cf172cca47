package agent

import (
	"time"

	"smf/controllers"
	"smf/sds"
	"smf/telemetry"
)

// NewATC builds the ATC agent: it drains its own queue and executes the
// named controller via the pluggable strategy registry, which writes
// atc_command (and, for Emergency_Brake_Command, nudges
// aircraft_system_state directly — the one cross-cell write a controller
// is allowed, mirroring ATCFactory's direct aircraft commands in
// original_source/) (§4.5).
func NewATC(
	id string,
	timeStep time.Duration,
	registry *controllers.Registry,
	logger *telemetry.Logger,
) *Worker {
	return NewWorker(id, "atc", "ATC", timeStep, Hooks{
		InitialUpdate: func(s *sds.SDS) {
			cur := s.ATCCommand.Get().Value
			s.ATCCommand.Set(cur, "atc_initial", 0)
		},
		HandleEvent: func(s *sds.SDS, item sds.AgentQueueItem, t time.Duration) {
			switch item.ControllerType {
			case "ATC_command":
				registry.Execute(item.ControllerName, item.Parameters, t)
			}
		},
		Update: func(s *sds.SDS, dt, t time.Duration) {
			cur := s.ATCCommand.Get().Value
			s.ATCCommand.Set(cur, "atc", t)
		},
	}, logger)
}
