package agent

import (
	"time"

	"smf/controllers"
	"smf/sds"
	"smf/telemetry"
)

// syntheticThrottleEventName is the reserved controller_name used for the
// Pilot's compatibility-mode synthetic manual-control event (§9 Open
// Questions: "may be obsolete once scenarios reliably include the explicit
// event; keep it gated behind a scenario flag").
const syntheticThrottleEventName = "throttle_push2max"

// NewPilot builds the Pilot agent: it drains its own queue, dispatching
// Pilot_Manual_Control and Pilot_Flight_Task_Control items to the controller
// registry, and — only when FlightPlanData.CompatSyntheticThrottle is set —
// invokes throttle_push2max once, as a synthetic manual-control command, the
// first time it observes clearance_granted true, if no manual-control event
// has been delivered by then (§4.5). No event is enqueued or recorded for it.
func NewPilot(
	id string,
	timeStep time.Duration,
	registry *controllers.Registry,
	logger *telemetry.Logger,
) *Worker {
	var (
		observedAnyManualControlEvent bool
		syntheticDelivered            bool
		sustainedControllerName       string
	)

	return NewWorker(id, "pilot", "Pilot", timeStep, Hooks{
		InitialUpdate: func(s *sds.SDS) {
			cur := s.PilotState.Get().Value
			s.PilotState.Set(cur, "pilot_initial", 0)
		},
		HandleEvent: func(s *sds.SDS, item sds.AgentQueueItem, t time.Duration) {
			switch item.ControllerType {
			case "Pilot_Manual_Control":
				observedAnyManualControlEvent = true
				sustainedControllerName = item.ControllerName
				registry.Execute(item.ControllerName, item.Parameters, t)
			case "Pilot_Flight_Task_Control":
				sustainedControllerName = item.ControllerName
				registry.Execute(item.ControllerName, item.Parameters, t)
			}
		},
		Update: func(s *sds.SDS, dt, t time.Duration) {
			plan := s.FlightPlanData.Get().Value
			atc := s.ATCCommand.Get().Value

			if plan.CompatSyntheticThrottle && atc.ClearanceGranted &&
				!observedAnyManualControlEvent && !syntheticDelivered {
				syntheticDelivered = true
				sustainedControllerName = syntheticThrottleEventName
				registry.Execute(syntheticThrottleEventName, map[string]string{"synthetic": "true"}, t)
			}

			cur := s.PilotState.Get().Value
			s.PilotState.Set(cur, "pilot", t)
		},
		// Tick re-invokes the last-commanded controller every step while
		// final_control_command stays active, so a ramp like
		// throttle_push2max advances across steps instead of only on the
		// single step its triggering event was delivered (§4.5).
		Tick: func(s *sds.SDS, dt time.Duration) {
			if sustainedControllerName == "" {
				return
			}
			if !s.FinalControlCommand.Get().Value.Active {
				return
			}
			registry.Execute(sustainedControllerName, nil, s.PilotState.Get().Timestamp)
		},
	}, logger)
}
