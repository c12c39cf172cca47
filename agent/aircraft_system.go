package agent

import (
	"time"

	"smf/controllers"
	"smf/sds"
	"smf/telemetry"
)

// NewAircraftSystem builds the Aircraft-System agent: reads environment_state,
// aircraft_flight_state and final_control_command; writes
// aircraft_system_state; applies a final control override when Active is
// set (§4.5).
func NewAircraftSystem(
	id string,
	timeStep time.Duration,
	registry *controllers.Registry,
	logger *telemetry.Logger,
) *Worker {
	return NewWorker(id, "aircraft_system", "AircraftSystem", timeStep, Hooks{
		InitialUpdate: func(s *sds.SDS) {
			cur := s.AircraftSystemState.Get().Value
			s.AircraftSystemState.Set(cur, "aircraft_system_initial", 0)
		},
		HandleEvent: func(s *sds.SDS, item sds.AgentQueueItem, t time.Duration) {
			switch item.ControllerType {
			case "Aircraft_AutoPilot", "Aircraft_System_State_Shift":
				registry.Execute(item.ControllerName, item.Parameters, t)
			}
		},
		Update: func(s *sds.SDS, dt, t time.Duration) {
			sys := s.AircraftSystemState.Get().Value
			final := s.FinalControlCommand.Get().Value

			if final.Active {
				sys.ThrottlePosition = clamp01(final.ThrottleTarget)
				sys.BrakePressure = clamp01(final.BrakeTarget)
			}

			s.AircraftSystemState.Set(sys, "aircraft_system", t)
		},
	}, logger)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
