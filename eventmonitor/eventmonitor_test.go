package eventmonitor

import (
	"testing"
	"time"

	"smf/sds"
)

func TestEvaluateStepFiresOnce(t *testing.T) {
	s := sds.New(nil)
	s.AddPlannedEvent(sds.StandardEvent{
		ID:   1,
		Name: "clearance",
		TriggerCondition: sds.TriggerCondition{
			Expression: "clearance_granted == true",
		},
	})

	m := New("event_monitor", 10*time.Millisecond, s, nil, nil)

	atc := s.ATCCommand.Get().Value
	atc.ClearanceGranted = true
	s.ATCCommand.Set(atc, "test", 0)

	m.evaluateStep(1, 10*time.Millisecond)
	if !s.HasEverTriggered(1) {
		t.Fatal("expected event 1 to have triggered")
	}
	if got := len(s.GetEventsAtStep(1)); got != 1 {
		t.Fatalf("expected 1 event at step 1, got %d", got)
	}

	// A second evaluation at a later step must not re-fire the same event
	// (monotone firing rule, §4.3).
	m.evaluateStep(2, 20*time.Millisecond)
	if got := len(s.GetEventsAtStep(2)); got != 0 {
		t.Fatalf("expected event not to re-fire at step 2, got %d", got)
	}

	item, ok := s.DequeueEvent()
	if !ok {
		t.Fatal("expected one item on the global queue")
	}
	if item.Event.ID != 1 {
		t.Fatalf("expected event id 1, got %d", item.Event.ID)
	}
}

func TestEvaluateStepSkipsUnknownPredicateWithoutFiring(t *testing.T) {
	s := sds.New(nil)
	s.AddPlannedEvent(sds.StandardEvent{
		ID:   2,
		Name: "bogus",
		TriggerCondition: sds.TriggerCondition{
			Expression: "not_a_real_predicate",
		},
	})

	m := New("event_monitor", 10*time.Millisecond, s, nil, nil)
	m.evaluateStep(1, 10*time.Millisecond)

	if s.HasEverTriggered(2) {
		t.Fatal("expected unknown predicate to never fire")
	}
	if _, ok := s.DequeueEvent(); ok {
		t.Fatal("expected nothing enqueued for an unknown predicate")
	}
}
