// Package dispatcher implements the Event Dispatcher (C4): it drains the
// global event queue and routes each triggered event to the correct
// per-agent queue based on its DrivenProcess.ControllerType, using the
// routing table fixed by §4.4. A controller_type with no known route is a
// RoutingError — logged and counted, never fatal; the event is simply not
// delivered to any agent, but it remains in the triggered library.
package dispatcher

import (
	"context"
	"time"

	"smf/sds"
	"smf/smferrors"
	"smf/stepsync"
	"smf/telemetry"
)

// route maps a controller_type to the agent id that owns it (§4.4).
type route struct {
	agentID        string
	controllerName func(ev sds.StandardEvent) string
}

// Dispatcher drains the global queue once per step and fans events out to
// per-agent queues.
type Dispatcher struct {
	id       string
	timeStep time.Duration
	sds      *sds.SDS
	logger   *telemetry.Logger
	metrics  *telemetry.Metrics
	routes   map[string]route
}

// Config names the agent ids the fixed routing table dispatches to.
// FlightDynID is accepted but no controller_type routes to it.
type Config struct {
	EnvironmentID string
	AircraftID    string
	FlightDynID   string
	PilotID       string
	ATCID         string
}

// New builds a Dispatcher wired to the given agent ids, per the routing
// table of §4.4:
//
//	Pilot_Manual_Control, Pilot_Flight_Task_Control -> Pilot
//	Aircraft_AutoPilot, Aircraft_System_State_Shift  -> Aircraft-System
//	ATC_command                                      -> ATC
//	Environment_State_Shift                          -> Environment
func New(id string, timeStep time.Duration, s *sds.SDS, cfg Config, logger *telemetry.Logger, metrics *telemetry.Metrics) *Dispatcher {
	byName := func(ev sds.StandardEvent) string { return ev.DrivenProcess.ControllerName }

	return &Dispatcher{
		id:       id,
		timeStep: timeStep,
		sds:      s,
		logger:   logger,
		metrics:  metrics,
		routes: map[string]route{
			"Pilot_Manual_Control":        {agentID: cfg.PilotID, controllerName: byName},
			"Pilot_Flight_Task_Control":   {agentID: cfg.PilotID, controllerName: byName},
			"Aircraft_AutoPilot":          {agentID: cfg.AircraftID, controllerName: byName},
			"Aircraft_System_State_Shift": {agentID: cfg.AircraftID, controllerName: byName},
			"ATC_command":                 {agentID: cfg.ATCID, controllerName: byName},
			"Environment_State_Shift":     {agentID: cfg.EnvironmentID, controllerName: byName},
		},
	}
}

// Run registers the dispatcher as a step-barrier thread and drains the
// global queue once per step until the simulation ends or ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	if !d.sds.RegisterThread(d.id, "event_dispatcher", "EventDispatcher") {
		return smferrors.New(smferrors.RegistrationConflict, "dispatcher.Run:"+d.id, nil)
	}

	stepsync.Loop(ctx, d.sds, d.id, d.timeStep, func(stepIndex uint64, t time.Duration) {
		d.drainStep(t)
	})
	return nil
}

// drainStep pops every item currently on the global queue and routes it.
// Draining to empty each step (rather than one item per step) keeps the
// global queue from building an unbounded backlog when several events fire
// in the same step.
func (d *Dispatcher) drainStep(t time.Duration) {
	for {
		item, ok := d.sds.DequeueEvent()
		if !ok {
			return
		}
		d.route(item, t)
	}
}

func (d *Dispatcher) route(item sds.GlobalQueueItem, t time.Duration) {
	ctype := item.Event.DrivenProcess.ControllerType
	r, ok := d.routes[ctype]
	if !ok {
		if d.metrics != nil {
			d.metrics.ObserveRoutingDropped()
		}
		if d.logger != nil {
			err := smferrors.New(smferrors.RoutingError, "dispatcher.route", nil)
			d.logger.Warn("unknown controller_type, event not delivered", "event", item.Event.Name, "controller_type", ctype, "err", err)
		}
		return
	}

	d.sds.EnqueueAgentEvent(
		r.agentID,
		item.Event,
		t,
		ctype,
		r.controllerName(item.Event),
		map[string]string{},
	)

	if d.metrics != nil {
		d.metrics.SetAgentQueueDepth(r.agentID, d.sds.AgentQueueDepth(r.agentID))
	}
}
