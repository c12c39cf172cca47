// Package sds implements the Shared Data Space (C1): the single in-process
// hub of typed state cells, thread registry, step-sync signal, planned and
// triggered event libraries, global and per-agent event queues, and the
// data-recorder fan-out point. Every other component holds a *SDS and talks
// to it exclusively through the operations below — never through a shared
// lock spanning multiple cells (§4.1, §5).
package sds

import (
	"sync"
	"time"
)

// RecorderSink receives one coherent snapshot per step (plus a synthetic one
// for step 0). Defined narrowly here so sds never imports the recorder
// package that implements it — recorder depends on sds, not the reverse.
type RecorderSink interface {
	Publish(t time.Duration, cells map[string]any)
}

// SDS is the single process-wide shared data space. All fields are either
// independently locked (cells, queues, thread registry) or otherwise safe
// for concurrent use; there is no SDS-wide lock.
type SDS struct {
	// Mandated state cells (§3).
	AircraftFlightState       Cell[AircraftFlightState]
	AircraftSystemState       Cell[AircraftSystemState]
	AircraftNetForce          Cell[ForceVector6]
	EnvironmentState          Cell[EnvironmentState]
	PilotState                Cell[PilotState]
	ATCCommand                Cell[ATCCommand]
	FinalControlCommand       Cell[FinalControlCommand]
	ControllerExecutionStatus Cell[ControllerExecutionStatus]
	FlightPlanData            Cell[FlightPlanData]

	plannedControllersMu sync.RWMutex
	plannedControllers   map[string]PlannedController

	threadsMu sync.Mutex
	threads   map[string]*ThreadInfo

	syncMu sync.RWMutex
	sync   SyncSignal

	runMu   sync.RWMutex
	running bool
	over    bool

	plannedMu sync.RWMutex
	planned   []StandardEvent

	triggeredMu sync.Mutex
	triggered   map[uint64][]StandardEvent

	globalQueue *fifo[GlobalQueueItem]

	agentQueuesMu sync.Mutex
	agentQueues   map[string]*fifo[AgentQueueItem]

	recorder RecorderSink
}

// New constructs an empty SDS. recorder may be nil, in which case
// PublishToDataRecorder is a no-op.
func New(recorder RecorderSink) *SDS {
	return &SDS{
		plannedControllers: make(map[string]PlannedController),
		threads:            make(map[string]*ThreadInfo),
		triggered:          make(map[uint64][]StandardEvent),
		globalQueue:        newFIFO[GlobalQueueItem](),
		agentQueues:        make(map[string]*fifo[AgentQueueItem]),
		recorder:           recorder,
		running:            true,
	}
}

// --- Thread registry (§4.1) ---

// RegisterThread fails if id is already registered (RegistrationConflict is
// the caller's responsibility to raise/log; SDS itself just reports ok=false).
func (s *SDS) RegisterThread(id, name, typ string) bool {
	s.threadsMu.Lock()
	defer s.threadsMu.Unlock()
	if _, exists := s.threads[id]; exists {
		return false
	}
	s.threads[id] = &ThreadInfo{ID: id, Name: name, Type: typ, State: WaitingForClock}
	return true
}

// UnregisterThread removes a thread's registration; called at thread exit.
func (s *SDS) UnregisterThread(id string) {
	s.threadsMu.Lock()
	defer s.threadsMu.Unlock()
	delete(s.threads, id)
}

// UpdateThreadState transitions a registered thread's state, stamping
// LastStep when the new state is Completed.
func (s *SDS) UpdateThreadState(id string, state ThreadState, step uint64) {
	s.threadsMu.Lock()
	defer s.threadsMu.Unlock()
	t, ok := s.threads[id]
	if !ok {
		return
	}
	t.State = state
	if state == Completed {
		t.LastStep = step
	}
}

// AllRegisteredThreadsCompletedFor reports whether every thread registered at
// the moment of the call has reached Completed for the given step. The
// registry is not snapshotted at publish time: a thread that registers
// mid-step (after publish) is counted too, so the step stays open until that
// thread has also completed it (its edge wait picks up the still-raised edge
// of the current step).
func (s *SDS) AllRegisteredThreadsCompletedFor(step uint64) bool {
	s.threadsMu.Lock()
	defer s.threadsMu.Unlock()
	for _, t := range s.threads {
		if t.State != Completed || t.LastStep != step {
			return false
		}
	}
	return true
}

// RegisteredThreadCount returns the number of currently registered threads,
// used by tests and deadlock diagnostics.
func (s *SDS) RegisteredThreadCount() int {
	s.threadsMu.Lock()
	defer s.threadsMu.Unlock()
	return len(s.threads)
}

// ThreadSnapshot returns a copy of the thread registry for inspection.
func (s *SDS) ThreadSnapshot() map[string]ThreadInfo {
	s.threadsMu.Lock()
	defer s.threadsMu.Unlock()
	out := make(map[string]ThreadInfo, len(s.threads))
	for id, t := range s.threads {
		out[id] = *t
	}
	return out
}

// --- Step sync signal (§4.1, §4.2) ---

// PublishStepReady atomically sets {current_step=step, step_ready=true}.
func (s *SDS) PublishStepReady(step uint64) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	s.sync = SyncSignal{CurrentStep: step, StepReady: true}
}

// ClearStepReady sets step_ready=false, closing the edge for the step the
// clock just observed every worker complete.
func (s *SDS) ClearStepReady() {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	s.sync.StepReady = false
}

// GetCurrentSyncSignal returns a snapshot of the sync signal.
func (s *SDS) GetCurrentSyncSignal() SyncSignal {
	s.syncMu.RLock()
	defer s.syncMu.RUnlock()
	return s.sync
}

// --- Simulation run flag (§3) ---

// MarkSimulationOver sets the single-source cancellation signal every
// polling loop in the system must check.
func (s *SDS) MarkSimulationOver() {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	s.over = true
	s.running = false
}

// IsSimulationOver reports the shutdown cue.
func (s *SDS) IsSimulationOver() bool {
	s.runMu.RLock()
	defer s.runMu.RUnlock()
	return s.over
}

// IsRunning reports the run flag's positive state.
func (s *SDS) IsRunning() bool {
	s.runMu.RLock()
	defer s.runMu.RUnlock()
	return s.running
}

// --- Planned Event Library (§3, immutable after load) ---

// AddPlannedEvent appends to the planned event library. Called only by the
// loader at startup, before any agent/monitor goroutine starts.
func (s *SDS) AddPlannedEvent(e StandardEvent) {
	s.plannedMu.Lock()
	defer s.plannedMu.Unlock()
	s.planned = append(s.planned, e)
}

// GetPlannedEvents returns the planned event library in load order, which is
// also the Event Monitor's stable iteration order (§4.4 ordering guarantee).
func (s *SDS) GetPlannedEvents() []StandardEvent {
	s.plannedMu.RLock()
	defer s.plannedMu.RUnlock()
	out := make([]StandardEvent, len(s.planned))
	copy(out, s.planned)
	return out
}

// --- Planned controllers library ---

// AddPlannedController registers a planned controller, keyed by name.
func (s *SDS) AddPlannedController(c PlannedController) {
	s.plannedControllersMu.Lock()
	defer s.plannedControllersMu.Unlock()
	s.plannedControllers[c.ControllerName] = c
}

// GetPlannedController looks up a planned controller by name.
func (s *SDS) GetPlannedController(name string) (PlannedController, bool) {
	s.plannedControllersMu.RLock()
	defer s.plannedControllersMu.RUnlock()
	c, ok := s.plannedControllers[name]
	return c, ok
}

// --- Triggered Event Library (§3, append-only, step-indexed) ---

// AddEventToStep appends e to the triggered library at step, deduplicating
// by e.ID within that step (§3 Triggered Event Library).
func (s *SDS) AddEventToStep(step uint64, e StandardEvent) {
	s.triggeredMu.Lock()
	defer s.triggeredMu.Unlock()
	for _, existing := range s.triggered[step] {
		if existing.ID == e.ID {
			return
		}
	}
	s.triggered[step] = append(s.triggered[step], e)
}

// GetEventsAtStep returns the events recorded as triggered at the given step.
func (s *SDS) GetEventsAtStep(step uint64) []StandardEvent {
	s.triggeredMu.Lock()
	defer s.triggeredMu.Unlock()
	out := make([]StandardEvent, len(s.triggered[step]))
	copy(out, s.triggered[step])
	return out
}

// HasEverTriggered reports whether id has fired in any step so far —
// the monotone firing rule's "has not been marked triggered in any earlier
// step" check (§4.3).
func (s *SDS) HasEverTriggered(id uint64) bool {
	s.triggeredMu.Lock()
	defer s.triggeredMu.Unlock()
	for _, events := range s.triggered {
		for _, e := range events {
			if e.ID == id {
				return true
			}
		}
	}
	return false
}

// --- Global Event Queue ---

// EnqueueEvent adds an item to the global event queue.
func (s *SDS) EnqueueEvent(e StandardEvent, t time.Duration, source string) {
	s.globalQueue.enqueue(GlobalQueueItem{Event: e, TriggerTime: t, Source: source})
}

// DequeueEvent pops the oldest global queue item, nonblocking.
func (s *SDS) DequeueEvent() (GlobalQueueItem, bool) {
	return s.globalQueue.dequeue()
}

// GlobalQueueDepth returns the current global queue length, for telemetry.
func (s *SDS) GlobalQueueDepth() int {
	return s.globalQueue.len()
}

// --- Per-Agent Event Queues ---

// CreateAgentQueue is idempotent: calling it twice for the same agent id is
// harmless.
func (s *SDS) CreateAgentQueue(agentID string) {
	s.agentQueuesMu.Lock()
	defer s.agentQueuesMu.Unlock()
	if _, exists := s.agentQueues[agentID]; !exists {
		s.agentQueues[agentID] = newFIFO[AgentQueueItem]()
	}
}

// EnqueueAgentEvent enqueues a copy of e into agentID's queue, creating the
// queue first if it does not yet exist.
func (s *SDS) EnqueueAgentEvent(
	agentID string,
	e StandardEvent,
	t time.Duration,
	controllerType, controllerName string,
	params map[string]string,
) {
	s.CreateAgentQueue(agentID)
	if params == nil {
		params = map[string]string{}
	}
	s.agentQueuesMu.Lock()
	q := s.agentQueues[agentID]
	s.agentQueuesMu.Unlock()
	q.enqueue(AgentQueueItem{
		Event:          e,
		TriggerTime:    t,
		ControllerType: controllerType,
		ControllerName: controllerName,
		Parameters:     params,
	})
}

// DequeueAgentEvent pops the oldest item from agentID's queue, nonblocking.
// An agent id with no queue yet behaves as an empty queue.
func (s *SDS) DequeueAgentEvent(agentID string) (AgentQueueItem, bool) {
	s.agentQueuesMu.Lock()
	q, ok := s.agentQueues[agentID]
	s.agentQueuesMu.Unlock()
	if !ok {
		return AgentQueueItem{}, false
	}
	return q.dequeue()
}

// AgentQueueDepth returns the current depth of agentID's queue, for telemetry.
func (s *SDS) AgentQueueDepth(agentID string) int {
	s.agentQueuesMu.Lock()
	q, ok := s.agentQueues[agentID]
	s.agentQueuesMu.Unlock()
	if !ok {
		return 0
	}
	return q.len()
}

// --- Data recorder fan-out ---

// PublishToDataRecorder fans out a coherent snapshot of all mandated cells to
// the configured recorder sink. The call is non-blocking from the SDS's
// perspective: the sink itself is responsible for buffering (§5).
func (s *SDS) PublishToDataRecorder(t time.Duration) {
	if s.recorder == nil {
		return
	}
	cells := map[string]any{
		"aircraft_flight_state":        s.AircraftFlightState.Get(),
		"aircraft_system_state":        s.AircraftSystemState.Get(),
		"aircraft_net_force":           s.AircraftNetForce.Get(),
		"environment_state":            s.EnvironmentState.Get(),
		"pilot_state":                  s.PilotState.Get(),
		"atc_command":                  s.ATCCommand.Get(),
		"final_control_command":        s.FinalControlCommand.Get(),
		"controller_execution_status":  s.ControllerExecutionStatus.Get(),
		"flight_plan_data":             s.FlightPlanData.Get(),
	}
	s.recorder.Publish(t, cells)
}
