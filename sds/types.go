package sds

import "time"

// ThreadState is a registered worker's position in the per-step lifecycle.
type ThreadState int

const (
	WaitingForClock ThreadState = iota
	Running
	Completed
)

func (s ThreadState) String() string {
	switch s {
	case WaitingForClock:
		return "WAITING_FOR_CLOCK"
	case Running:
		return "RUNNING"
	case Completed:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// ThreadInfo is the thread registry's entry for one registered worker.
type ThreadInfo struct {
	ID    string
	Name  string
	Type  string
	State ThreadState
	// LastStep is the most recent step this thread has been marked COMPLETED
	// for; used by AllRegisteredThreadsCompletedFor.
	LastStep uint64
}

// SyncSignal is the clock's per-step edge: CurrentStep/StepReady are read by
// every worker's poll loop to detect a new step has begun.
type SyncSignal struct {
	CurrentStep uint64
	StepReady   bool
}

// TriggerCondition is the parsed/stored predicate text for a planned event.
type TriggerCondition struct {
	Expression  string
	Description string
}

// DrivenProcess names the controller a triggered event should invoke, and on
// which agent/controller-type it is routed.
type DrivenProcess struct {
	ControllerType      string
	ControllerName      string
	Description         string
	TerminationCondition string
}

// StandardEvent is a planned event loaded from the scenario document. The
// Planned Event Library is immutable after load; StandardEvent values are
// copied by value into every queue they pass through.
type StandardEvent struct {
	ID              uint64
	Name            string
	Description     string
	TriggerCondition TriggerCondition
	DrivenProcess   DrivenProcess
	SourceAgent     string
}

// GlobalQueueItem is one entry in the Global Event Queue.
type GlobalQueueItem struct {
	Event       StandardEvent
	TriggerTime time.Duration
	Source      string
}

// AgentQueueItem is one entry in a per-agent event queue.
type AgentQueueItem struct {
	Event          StandardEvent
	TriggerTime    time.Duration
	ControllerType string
	ControllerName string
	Parameters     map[string]string
}

// --- Mandated domain state cells. The core treats their field contents as
// opaque payload; only the cell envelope (data_source/timestamp) and the
// flags named in spec.md §3 are load-bearing for the core's own logic
// (trigger predicates read AircraftFlightState.Groundspeed and
// ATCCommand's flags directly, per the §4.3 grammar). ---

// ForceVector6 is a 6-DOF resultant: three translational, three rotational.
type ForceVector6 struct {
	Fx, Fy, Fz    float64
	Mx, My, Mz    float64
}

// AircraftFlightState is the kinematics snapshot written by Flight-Dynamics.
type AircraftFlightState struct {
	Latitude, Longitude, Altitude float64
	Heading, Pitch, Roll          float64
	Groundspeed                   float64
	VerticalSpeed                 float64
}

// AircraftSystemState covers effectors, fuel and engines, written by
// Aircraft-System.
type AircraftSystemState struct {
	ThrottlePosition float64
	BrakePressure    float64
	FlapPosition     float64
	GearDown         bool
	FuelRemaining    float64
	EngineRPM        float64
}

// EnvironmentState covers runway, wind and density, written by Environment.
type EnvironmentState struct {
	RunwayHeading   float64
	WindSpeed       float64
	WindDirection   float64
	AirDensity      float64
	RefLatitude     float64
	RefLongitude    float64
}

// PilotState covers attention/skill, written by Pilot.
type PilotState struct {
	Attention float64
	Skill     float64
}

// ATCCommand is the ATC agent's merged command flags.
type ATCCommand struct {
	ClearanceGranted bool
	EmergencyBrake   bool
}

// FinalControlCommand is the merged control target Aircraft-System applies
// when Active is set.
type FinalControlCommand struct {
	Active          bool
	ThrottleTarget  float64
	BrakeTarget     float64
}

// ControllerExecutionStatus maps controller name to whether it is currently
// running, for observability/debugging.
type ControllerExecutionStatus struct {
	Running map[string]bool
}

// FlightPlanData is the loader's stored copy of the raw scenario config, kept
// around for agents/tools that want to re-read it (e.g. the compat flag).
type FlightPlanData struct {
	ScenarioName              string
	PilotID, AircraftID       string
	ATCID, EnvironmentID      string
	CompatSyntheticThrottle   bool
}

// PlannedController is one entry of the planned-controllers library, keyed by
// controller name at the call site.
type PlannedController struct {
	ControllerName string
	ControllerType string
}
