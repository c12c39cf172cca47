package sds

import (
	"testing"
	"time"
)

func TestCellGetReturnsUninitializedSentinelBeforeFirstSet(t *testing.T) {
	var c Cell[int]
	snap := c.Get()
	if snap.DataSource != uninitializedSource {
		t.Fatalf("expected uninitialized source, got %q", snap.DataSource)
	}
	if snap.Value != 0 {
		t.Fatalf("expected zero value, got %v", snap.Value)
	}
}

func TestCellSetThenGetRoundTrips(t *testing.T) {
	var c Cell[int]
	c.Set(42, "test", 5*time.Millisecond)
	snap := c.Get()
	if snap.Value != 42 || snap.DataSource != "test" || snap.Timestamp != 5*time.Millisecond {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestRegisterThreadRejectsDuplicateID(t *testing.T) {
	s := New(nil)
	if !s.RegisterThread("a", "agent-a", "Test") {
		t.Fatal("expected first registration to succeed")
	}
	if s.RegisterThread("a", "agent-a-again", "Test") {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestAllRegisteredThreadsCompletedForRequiresEveryThread(t *testing.T) {
	s := New(nil)
	s.RegisterThread("a", "a", "Test")
	s.RegisterThread("b", "b", "Test")

	if s.AllRegisteredThreadsCompletedFor(1) {
		t.Fatal("expected false before any thread completes step 1")
	}

	s.UpdateThreadState("a", Completed, 1)
	if s.AllRegisteredThreadsCompletedFor(1) {
		t.Fatal("expected false with only one of two threads completed")
	}

	s.UpdateThreadState("b", Completed, 1)
	if !s.AllRegisteredThreadsCompletedFor(1) {
		t.Fatal("expected true once every registered thread has completed step 1")
	}
}

func TestAddEventToStepDeduplicatesByID(t *testing.T) {
	s := New(nil)
	ev := StandardEvent{ID: 7, Name: "dup"}
	s.AddEventToStep(3, ev)
	s.AddEventToStep(3, ev)
	if got := len(s.GetEventsAtStep(3)); got != 1 {
		t.Fatalf("expected dedup to keep exactly one entry, got %d", got)
	}
}

func TestHasEverTriggeredSpansAllSteps(t *testing.T) {
	s := New(nil)
	s.AddEventToStep(1, StandardEvent{ID: 1})
	if !s.HasEverTriggered(1) {
		t.Fatal("expected id 1 to be reported as having triggered")
	}
	if s.HasEverTriggered(2) {
		t.Fatal("expected id 2 to not have triggered")
	}
}

func TestAgentQueueIsPerAgentFIFO(t *testing.T) {
	s := New(nil)
	s.EnqueueAgentEvent("pilot", StandardEvent{ID: 1}, 0, "Pilot_Manual_Control", "c1", nil)
	s.EnqueueAgentEvent("pilot", StandardEvent{ID: 2}, 0, "Pilot_Manual_Control", "c2", nil)

	first, ok := s.DequeueAgentEvent("pilot")
	if !ok || first.Event.ID != 1 {
		t.Fatalf("expected event 1 first, got %+v ok=%v", first, ok)
	}
	second, ok := s.DequeueAgentEvent("pilot")
	if !ok || second.Event.ID != 2 {
		t.Fatalf("expected event 2 second, got %+v ok=%v", second, ok)
	}
	if _, ok := s.DequeueAgentEvent("pilot"); ok {
		t.Fatal("expected queue to be empty")
	}
	if _, ok := s.DequeueAgentEvent("nonexistent"); ok {
		t.Fatal("expected a never-created queue to behave as empty")
	}
}

func TestPublishToDataRecorderIsNoOpWithoutASink(t *testing.T) {
	s := New(nil)
	// Must not panic.
	s.PublishToDataRecorder(0)
}

type recordingSink struct {
	calls int
	last  map[string]any
}

func (r *recordingSink) Publish(t time.Duration, cells map[string]any) {
	r.calls++
	r.last = cells
}

func TestPublishToDataRecorderForwardsAllMandatedCells(t *testing.T) {
	sink := &recordingSink{}
	s := New(sink)
	s.PublishToDataRecorder(10 * time.Millisecond)

	if sink.calls != 1 {
		t.Fatalf("expected exactly one Publish call, got %d", sink.calls)
	}
	for _, key := range []string{
		"aircraft_flight_state", "aircraft_system_state", "aircraft_net_force",
		"environment_state", "pilot_state", "atc_command",
		"final_control_command", "controller_execution_status",
		"flight_plan_data",
	} {
		if _, ok := sink.last[key]; !ok {
			t.Errorf("expected cell %q in the published snapshot", key)
		}
	}
}
