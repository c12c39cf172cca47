// Package dynamics defines the dynamics-model plugin interface consumed by
// Flight-Dynamics (§6) and a default, explicitly non-authoritative
// implementation. The real aerodynamic tables (B737_AeroControlEfficiencyData
// et al. in original_source/) are out of scope (§1); this stand-in exists so
// the core can be exercised end-to-end without a real aero model plugged in.
package dynamics

import (
	"math"
	"time"

	"smf/sds"
)

// Model is the pluggable dynamics-model interface. Initialize seeds the
// model from the loader's initial kinematics; Step advances by dt given the
// current system/environment state and returns the new flight state;
// CurrentForces returns the 6-DOF resultant backing AircraftNetForce.
type Model interface {
	Initialize(initial sds.AircraftFlightState)
	Step(dt time.Duration, system sds.AircraftSystemState, env sds.EnvironmentState) sds.AircraftFlightState
	CurrentForces() sds.ForceVector6
}

// AdHoc is a small, deliberately simple stand-in for a real aerodynamic
// table: throttle accelerates, brake/drag decelerate, nothing here is
// aerodynamically authoritative.
type AdHoc struct {
	state  sds.AircraftFlightState
	forces sds.ForceVector6
	mass   float64
}

// NewAdHoc returns a dynamics.Model with the given aircraft mass (kg), used
// to scale force-to-acceleration.
func NewAdHoc(massKg float64) *AdHoc {
	if massKg <= 0 {
		massKg = 70000 // a loaded 737-ish mass, purely for scale
	}
	return &AdHoc{mass: massKg}
}

func (m *AdHoc) Initialize(initial sds.AircraftFlightState) {
	m.state = initial
}

func (m *AdHoc) Step(dt time.Duration, system sds.AircraftSystemState, env sds.EnvironmentState) sds.AircraftFlightState {
	dtSec := dt.Seconds()

	const maxThrustN = 2 * 117000.0 // two CFM56-class engines, order-of-magnitude only
	const dragCoefficient = 4500.0  // N per (m/s), order-of-magnitude only
	const brakeDecelMS2 = 3.0

	thrust := system.ThrottlePosition * maxThrustN
	drag := dragCoefficient * m.state.Groundspeed
	netForceN := thrust - drag

	accel := netForceN / m.mass
	if system.BrakePressure > 0 {
		accel -= system.BrakePressure * brakeDecelMS2
	}

	newSpeed := m.state.Groundspeed + accel*dtSec
	if newSpeed < 0 {
		newSpeed = 0
	}

	distance := newSpeed * dtSec
	headingRad := m.state.Heading * math.Pi / 180.0
	dLat := (distance * math.Cos(headingRad)) / 111320.0
	dLon := (distance * math.Sin(headingRad)) / (111320.0 * math.Cos(m.state.Latitude*math.Pi/180.0+1e-9))

	m.forces = sds.ForceVector6{Fx: netForceN}
	m.state = sds.AircraftFlightState{
		Latitude:      m.state.Latitude + dLat,
		Longitude:     m.state.Longitude + dLon,
		Altitude:      m.state.Altitude,
		Heading:       m.state.Heading,
		Pitch:         m.state.Pitch,
		Roll:          m.state.Roll,
		Groundspeed:   newSpeed,
		VerticalSpeed: 0,
	}
	return m.state
}

func (m *AdHoc) CurrentForces() sds.ForceVector6 {
	return m.forces
}
