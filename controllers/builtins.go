package controllers

import (
	"time"

	"smf/sds"
)

// RegisterATCBuiltins wires the default ATC controllers used by the seed
// scenarios (S1/S2 in spec.md §8): clearance_controller sets
// atc_command.clearance_granted; Emergency_Brake_Command sets
// atc_command.emergency_brake. These mirror ATC_001_Strategy/
// ATC_002_Strategy in original_source/ at the effect level, without the
// tabular command-handler plumbing that is out of scope here.
func RegisterATCBuiltins(r *Registry, s *sds.SDS) {
	r.Register("clearance_controller", StrategyFunc(func(name string, params map[string]string, t time.Duration) bool {
		cur := s.ATCCommand.Get().Value
		cur.ClearanceGranted = true
		s.ATCCommand.Set(cur, "atc_clearance_controller", t)
		return true
	}))
	r.Register("Emergency_Brake_Command", StrategyFunc(func(name string, params map[string]string, t time.Duration) bool {
		cur := s.ATCCommand.Get().Value
		cur.EmergencyBrake = true
		s.ATCCommand.Set(cur, "atc_emergency_brake_command", t)

		sys := s.AircraftSystemState.Get().Value
		sys.BrakePressure = 1.0
		s.AircraftSystemState.Set(sys, "atc_emergency_brake_command", t)
		return true
	}))
}

// RegisterPilotBuiltins wires the default pilot controllers: throttle_push2max
// ramps final_control_command's throttle target to 1.0 and marks it active,
// which Aircraft-System then applies. The ramp itself (monotonic rise) is
// driven incrementally by repeated Execute calls from the per-step tick, the
// way the teacher's estimator loop incrementally nudges state values per
// episode rather than setting them in one shot.
func RegisterPilotBuiltins(r *Registry, s *sds.SDS, rampPerSecond float64) {
	if rampPerSecond <= 0 {
		rampPerSecond = 0.2 // reach max throttle in ~5s
	}
	active := false
	lastT := time.Duration(0)

	r.Register("throttle_push2max", StrategyFunc(func(name string, params map[string]string, t time.Duration) bool {
		if !active {
			active = true
			lastT = t
		}
		dt := (t - lastT).Seconds()
		lastT = t

		cur := s.FinalControlCommand.Get().Value
		cur.Active = true
		cur.ThrottleTarget = cur.ThrottleTarget + rampPerSecond*dt
		if cur.ThrottleTarget > 1 {
			cur.ThrottleTarget = 1
		}
		s.FinalControlCommand.Set(cur, "pilot_throttle_push2max", t)
		return true
	}))
}
