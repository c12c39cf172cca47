package agent

import (
	"time"

	"smf/dynamics"
	"smf/sds"
	"smf/telemetry"
)

// NewFlightDynamics builds the Flight-Dynamics agent: reads
// aircraft_system_state and environment_state, writes aircraft_flight_state
// and aircraft_net_force, and optionally samples per-step wall-clock timing
// for profiling (§4.5).
func NewFlightDynamics(
	id string,
	timeStep time.Duration,
	model dynamics.Model,
	metrics *telemetry.Metrics,
	logger *telemetry.Logger,
) *Worker {
	return NewWorker(id, "flight_dynamics", "FlightDynamics", timeStep, Hooks{
		InitialUpdate: func(s *sds.SDS) {
			initial := s.AircraftFlightState.Get().Value
			model.Initialize(initial)
			s.AircraftNetForce.Set(model.CurrentForces(), "flight_dynamics_initial", 0)
			s.AircraftFlightState.Set(initial, "flight_dynamics_initial", 0)
		},
		Update: func(s *sds.SDS, dt, t time.Duration) {
			started := time.Now()

			system := s.AircraftSystemState.Get().Value
			env := s.EnvironmentState.Get().Value

			newState := model.Step(dt, system, env)
			forces := model.CurrentForces()

			s.AircraftFlightState.Set(newState, "flight_dynamics", t)
			s.AircraftNetForce.Set(forces, "flight_dynamics", t)

			if metrics != nil {
				metrics.ObserveGroundspeed(newState.Groundspeed)
			}
			if logger != nil {
				elapsed := time.Since(started)
				logger.Detail("flight_dynamics step", "t", t, "elapsed", elapsed)
			}
		},
	}, logger)
}
