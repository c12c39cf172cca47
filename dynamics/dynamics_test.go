package dynamics

import (
	"testing"
	"time"

	"smf/sds"
)

func TestAdHocAcceleratesUnderThrottle(t *testing.T) {
	m := NewAdHoc(60000)
	m.Initialize(sds.AircraftFlightState{Heading: 90, Groundspeed: 0})

	system := sds.AircraftSystemState{ThrottlePosition: 1.0}
	env := sds.EnvironmentState{}

	var last sds.AircraftFlightState
	for i := 0; i < 10; i++ {
		last = m.Step(500*time.Millisecond, system, env)
	}

	if last.Groundspeed <= 0 {
		t.Fatalf("expected groundspeed to increase under full throttle, got %v", last.Groundspeed)
	}
}

func TestAdHocBrakeDeceleratesFasterThanNoBrake(t *testing.T) {
	system := sds.AircraftSystemState{ThrottlePosition: 0.5}
	env := sds.EnvironmentState{}

	noBrake := NewAdHoc(60000)
	noBrake.Initialize(sds.AircraftFlightState{Groundspeed: 50})
	var noBrakeSpeed float64
	for i := 0; i < 5; i++ {
		noBrakeSpeed = noBrake.Step(time.Second, system, env).Groundspeed
	}

	braking := NewAdHoc(60000)
	braking.Initialize(sds.AircraftFlightState{Groundspeed: 50})
	brakingSystem := system
	brakingSystem.BrakePressure = 1.0
	var brakingSpeed float64
	for i := 0; i < 5; i++ {
		brakingSpeed = braking.Step(time.Second, brakingSystem, env).Groundspeed
	}

	if brakingSpeed >= noBrakeSpeed {
		t.Fatalf("expected braking to slow the aircraft more: braking=%v noBrake=%v", brakingSpeed, noBrakeSpeed)
	}
}

func TestAdHocGroundspeedNeverNegative(t *testing.T) {
	m := NewAdHoc(60000)
	m.Initialize(sds.AircraftFlightState{Groundspeed: 1})

	system := sds.AircraftSystemState{BrakePressure: 1.0}
	state := m.Step(10*time.Second, system, sds.EnvironmentState{})

	if state.Groundspeed < 0 {
		t.Fatalf("expected groundspeed to clamp at zero, got %v", state.Groundspeed)
	}
}
