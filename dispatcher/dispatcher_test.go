package dispatcher

import (
	"testing"
	"time"

	"smf/sds"
)

func TestRouteDeliversKnownControllerType(t *testing.T) {
	s := sds.New(nil)
	d := New("event_dispatcher", 10*time.Millisecond, s, Config{
		EnvironmentID: "environment",
		AircraftID:    "aircraft_system",
		FlightDynID:   "flight_dynamics",
		PilotID:       "pilot",
		ATCID:         "atc",
	}, nil, nil)

	ev := sds.StandardEvent{
		ID:   1,
		Name: "push_throttle",
		DrivenProcess: sds.DrivenProcess{
			ControllerType: "Pilot_Manual_Control",
			ControllerName: "throttle_push2max",
		},
	}
	s.EnqueueEvent(ev, 10*time.Millisecond, "event_monitor")

	d.drainStep(10 * time.Millisecond)

	item, ok := s.DequeueAgentEvent("pilot")
	if !ok {
		t.Fatal("expected the event delivered to the pilot queue")
	}
	if item.ControllerName != "throttle_push2max" {
		t.Fatalf("unexpected controller name: %q", item.ControllerName)
	}
}

func TestRouteDropsUnknownControllerType(t *testing.T) {
	s := sds.New(nil)
	d := New("event_dispatcher", 10*time.Millisecond, s, Config{PilotID: "pilot"}, nil, nil)

	ev := sds.StandardEvent{
		ID:   2,
		Name: "mystery",
		DrivenProcess: sds.DrivenProcess{
			ControllerType: "Nonexistent_Type",
		},
	}
	s.EnqueueEvent(ev, 10*time.Millisecond, "event_monitor")
	d.drainStep(10 * time.Millisecond)

	if _, ok := s.DequeueAgentEvent("pilot"); ok {
		t.Fatal("expected no delivery for an unknown controller_type")
	}
}
