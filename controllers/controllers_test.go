package controllers

import (
	"testing"
	"time"

	"smf/sds"
)

func TestExecuteFallsBackToDefaultOnUnknownName(t *testing.T) {
	r := NewRegistry(Standard)
	if ok := r.Execute("nonexistent", nil, 0); !ok {
		t.Fatal("expected the default Standard fallback to report success")
	}
}

func TestExecuteWithoutFallbackReturnsFalseOnUnknownName(t *testing.T) {
	r := NewRegistry(nil)
	if ok := r.Execute("nonexistent", nil, 0); ok {
		t.Fatal("expected false with no fallback configured")
	}
}

func TestRegisterATCBuiltinsGrantsClearance(t *testing.T) {
	s := sds.New(nil)
	r := NewRegistry(Standard)
	RegisterATCBuiltins(r, s)

	if ok := r.Execute("clearance_controller", nil, time.Second); !ok {
		t.Fatal("expected clearance_controller to succeed")
	}
	if got := s.ATCCommand.Get().Value; !got.ClearanceGranted {
		t.Fatal("expected atc_command.clearance_granted to be set")
	}
}

func TestRegisterATCBuiltinsSetsEmergencyBrake(t *testing.T) {
	s := sds.New(nil)
	r := NewRegistry(Standard)
	RegisterATCBuiltins(r, s)

	r.Execute("Emergency_Brake_Command", nil, time.Second)

	if got := s.ATCCommand.Get().Value; !got.EmergencyBrake {
		t.Fatal("expected atc_command.emergency_brake to be set")
	}
	if got := s.AircraftSystemState.Get().Value; got.BrakePressure != 1.0 {
		t.Fatalf("expected full brake pressure, got %v", got.BrakePressure)
	}
}

func TestRegisterPilotBuiltinsRampsThrottleMonotonically(t *testing.T) {
	s := sds.New(nil)
	r := NewRegistry(Standard)
	RegisterPilotBuiltins(r, s, 0.5)

	r.Execute("throttle_push2max", nil, 0)
	first := s.FinalControlCommand.Get().Value.ThrottleTarget

	r.Execute("throttle_push2max", nil, time.Second)
	second := s.FinalControlCommand.Get().Value.ThrottleTarget

	if second <= first {
		t.Fatalf("expected throttle target to increase over time: first=%v second=%v", first, second)
	}
	if !s.FinalControlCommand.Get().Value.Active {
		t.Fatal("expected final_control_command to be marked active")
	}
}

func TestRegisterPilotBuiltinsClampsThrottleAtOne(t *testing.T) {
	s := sds.New(nil)
	r := NewRegistry(Standard)
	RegisterPilotBuiltins(r, s, 10.0)

	r.Execute("throttle_push2max", nil, 0)
	r.Execute("throttle_push2max", nil, 10*time.Second)

	if got := s.FinalControlCommand.Get().Value.ThrottleTarget; got != 1.0 {
		t.Fatalf("expected throttle target clamped to 1.0, got %v", got)
	}
}
