package agent

import (
	"context"
	"testing"
	"time"

	"smf/controllers"
	"smf/sds"
)

// TestWorkerRunPublishesInitialUpdateBeforeFirstStep verifies the step-0
// initial update contract (§4.5): InitialUpdate must run once, before the
// worker ever waits on a step edge.
func TestWorkerRunPublishesInitialUpdateBeforeFirstStep(t *testing.T) {
	s := sds.New(nil)
	initialRan := make(chan struct{}, 1)

	w := NewWorker("test-worker", "test", "Test", time.Millisecond, Hooks{
		InitialUpdate: func(s *sds.SDS) {
			initialRan <- struct{}{}
		},
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, s) }()

	select {
	case <-initialRan:
	case <-time.After(time.Second):
		t.Fatal("expected InitialUpdate to run")
	}

	s.MarkSimulationOver()
	cancel()
	<-done
}

func TestWorkerRunRejectsDuplicateRegistration(t *testing.T) {
	s := sds.New(nil)
	s.RegisterThread("dup", "dup", "Test")

	w := NewWorker("dup", "dup", "Test", time.Millisecond, Hooks{}, nil)
	err := w.Run(context.Background(), s)
	if err == nil {
		t.Fatal("expected RegistrationConflict error")
	}
}

func TestATCEmergencyBrakeSetsFlag(t *testing.T) {
	s := sds.New(nil)
	r := controllers.NewRegistry(controllers.Standard)
	controllers.RegisterATCBuiltins(r, s)

	s.CreateAgentQueue("atc")
	s.EnqueueAgentEvent("atc", sds.StandardEvent{ID: 1}, 0, "ATC_command", "Emergency_Brake_Command", nil)

	item, ok := s.DequeueAgentEvent("atc")
	if !ok {
		t.Fatal("expected the enqueued item")
	}
	r.Execute(item.ControllerName, item.Parameters, 0)

	if !s.ATCCommand.Get().Value.EmergencyBrake {
		t.Fatal("expected emergency_brake to be set by the ATC builtin")
	}
}
