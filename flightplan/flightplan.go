// Package flightplan implements the Flight-Plan Loader (C6): a one-shot
// startup parse of the scenario document that seeds the SDS's initial state
// cells and planned event/controller libraries (§4.6). It follows the same
// viper-based load shape as the teacher's reinforcement.FromYaml, generalized
// to the scenario document's scenario_config/global_initial_state/logic_lines
// schema.
package flightplan

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"smf/sds"
	"smf/smferrors"
)

const earthRadiusMeters = 6_371_000.0

// scenarioDocument is the raw decode target; unknown keys are ignored by
// viper/mapstructure by default, satisfying §4.6's "accept extra unknown
// keys without failure".
type scenarioDocument struct {
	ScenarioConfig     scenarioConfig     `mapstructure:"scenario_config"`
	GlobalInitialState globalInitialState `mapstructure:"global_initial_state"`
	LogicLines         logicLines         `mapstructure:"logic_lines"`
}

type scenarioConfig struct {
	ScenarioName            string  `mapstructure:"scenario_name"`
	PilotID                 string  `mapstructure:"pilot_id"`
	AircraftID              string  `mapstructure:"aircraft_id"`
	ATCID                   string  `mapstructure:"atc_id"`
	EnvironmentID           string  `mapstructure:"environment_id"`
	CompatSyntheticThrottle bool    `mapstructure:"compat_synthetic_throttle_event"`
	RefLatitude             float64 `mapstructure:"reference_latitude"`
	RefLongitude            float64 `mapstructure:"reference_longitude"`
}

type nedPosition struct {
	North float64 `mapstructure:"north"`
	East  float64 `mapstructure:"east"`
	Down  float64 `mapstructure:"down"`
}

type globalInitialState struct {
	Position       nedPosition `mapstructure:"position_ned"`
	Heading        float64     `mapstructure:"heading"`
	Pitch          float64     `mapstructure:"pitch"`
	Roll           float64     `mapstructure:"roll"`
	Groundspeed    float64     `mapstructure:"groundspeed"`
	VerticalSpeed  float64     `mapstructure:"vertical_speed"`

	ThrottlePosition float64 `mapstructure:"throttle_position"`
	BrakePressure    float64 `mapstructure:"brake_pressure"`
	FlapPosition     float64 `mapstructure:"flap_position"`
	GearDown         bool    `mapstructure:"gear_down"`
	FuelRemaining    float64 `mapstructure:"fuel_remaining"`
	EngineRPM        float64 `mapstructure:"engine_rpm"`

	RunwayHeading float64 `mapstructure:"runway_heading"`
	WindSpeed     float64 `mapstructure:"wind_speed"`
	WindDirection float64 `mapstructure:"wind_direction"`
	AirDensity    float64 `mapstructure:"air_density"`

	PilotAttention float64 `mapstructure:"pilot_attention"`
	PilotSkill     float64 `mapstructure:"pilot_skill"`

	ClearanceGranted bool `mapstructure:"clearance_granted"`
	EmergencyBrake   bool `mapstructure:"emergency_brake"`
}

type logicLines struct {
	Pilot           []eventDoc `mapstructure:"pilot"`
	AircraftSystem  []eventDoc `mapstructure:"aircraft_system"`
	Environment     []eventDoc `mapstructure:"environment"`
	ATC             []eventDoc `mapstructure:"atc"`
}

type eventDoc struct {
	EventID          int64            `mapstructure:"event_id"`
	EventName        string           `mapstructure:"event_name"`
	TriggerCondition triggerCondDoc   `mapstructure:"trigger_condition"`
	DrivenProcess    drivenProcessDoc `mapstructure:"driven_process"`
}

type triggerCondDoc struct {
	ConditionExpression string `mapstructure:"condition_expression"`
	Description         string `mapstructure:"description"`
}

type drivenProcessDoc struct {
	ControllerType       string `mapstructure:"controller_type"`
	ControllerName       string `mapstructure:"controller_name"`
	Description          string `mapstructure:"description"`
	TerminationCondition string `mapstructure:"termination_condition"`
}

// Load parses path (YAML or JSON, by extension) and writes the resulting
// initial state, planned-event library, planned-controllers library and
// flight_plan_data cell into s. It fails before writing anything if a
// mandatory section is missing (SchemaError) or the file cannot be read/
// parsed (ConfigError) — per §4.6's validation rule.
func Load(path string, s *sds.SDS) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return smferrors.New(smferrors.ConfigError, "flightplan.Load", err)
	}

	var doc scenarioDocument
	if err := v.Unmarshal(&doc); err != nil {
		return smferrors.New(smferrors.ConfigError, "flightplan.Load:unmarshal", err)
	}

	if err := validate(doc, path); err != nil {
		return err
	}

	lat, lon, alt := nedToGeographic(doc.GlobalInitialState.Position, doc.ScenarioConfig.RefLatitude, doc.ScenarioConfig.RefLongitude)

	s.AircraftFlightState.Set(sds.AircraftFlightState{
		Latitude:      lat,
		Longitude:     lon,
		Altitude:      alt,
		Heading:       doc.GlobalInitialState.Heading,
		Pitch:         doc.GlobalInitialState.Pitch,
		Roll:          doc.GlobalInitialState.Roll,
		Groundspeed:   doc.GlobalInitialState.Groundspeed,
		VerticalSpeed: doc.GlobalInitialState.VerticalSpeed,
	}, "flightplan_loader", 0)

	s.AircraftSystemState.Set(sds.AircraftSystemState{
		ThrottlePosition: doc.GlobalInitialState.ThrottlePosition,
		BrakePressure:    doc.GlobalInitialState.BrakePressure,
		FlapPosition:     doc.GlobalInitialState.FlapPosition,
		GearDown:         doc.GlobalInitialState.GearDown,
		FuelRemaining:    doc.GlobalInitialState.FuelRemaining,
		EngineRPM:        doc.GlobalInitialState.EngineRPM,
	}, "flightplan_loader", 0)

	s.EnvironmentState.Set(sds.EnvironmentState{
		RunwayHeading: doc.GlobalInitialState.RunwayHeading,
		WindSpeed:     doc.GlobalInitialState.WindSpeed,
		WindDirection: doc.GlobalInitialState.WindDirection,
		AirDensity:    doc.GlobalInitialState.AirDensity,
		RefLatitude:   doc.ScenarioConfig.RefLatitude,
		RefLongitude:  doc.ScenarioConfig.RefLongitude,
	}, "flightplan_loader", 0)

	s.PilotState.Set(sds.PilotState{
		Attention: doc.GlobalInitialState.PilotAttention,
		Skill:     doc.GlobalInitialState.PilotSkill,
	}, "flightplan_loader", 0)

	s.ATCCommand.Set(sds.ATCCommand{
		ClearanceGranted: doc.GlobalInitialState.ClearanceGranted,
		EmergencyBrake:   doc.GlobalInitialState.EmergencyBrake,
	}, "flightplan_loader", 0)

	s.FlightPlanData.Set(sds.FlightPlanData{
		ScenarioName:            doc.ScenarioConfig.ScenarioName,
		PilotID:                 doc.ScenarioConfig.PilotID,
		AircraftID:              doc.ScenarioConfig.AircraftID,
		ATCID:                   doc.ScenarioConfig.ATCID,
		EnvironmentID:           doc.ScenarioConfig.EnvironmentID,
		CompatSyntheticThrottle: doc.ScenarioConfig.CompatSyntheticThrottle,
	}, "flightplan_loader", 0)

	loadLogicLines(doc, s)

	return nil
}

// loadLogicLines flattens the four named logic lines into the planned event
// library with a dense, globally-reassigned id sequence (§4.6: "ids
// reassigned to a dense global sequence; event_name and original id
// preserved") and registers each distinct controller name encountered.
func loadLogicLines(doc scenarioDocument, s *sds.SDS) {
	var nextID uint64 = 1

	add := func(source string, events []eventDoc) {
		for _, ev := range events {
			id := nextID
			nextID++

			s.AddPlannedEvent(sds.StandardEvent{
				ID:          id,
				Name:        ev.EventName,
				Description: fmt.Sprintf("orig_id=%d", ev.EventID),
				TriggerCondition: sds.TriggerCondition{
					Expression:  ev.TriggerCondition.ConditionExpression,
					Description: ev.TriggerCondition.Description,
				},
				DrivenProcess: sds.DrivenProcess{
					ControllerType:       ev.DrivenProcess.ControllerType,
					ControllerName:       ev.DrivenProcess.ControllerName,
					Description:          ev.DrivenProcess.Description,
					TerminationCondition: ev.DrivenProcess.TerminationCondition,
				},
				SourceAgent: source,
			})

			s.AddPlannedController(sds.PlannedController{
				ControllerName: ev.DrivenProcess.ControllerName,
				ControllerType: ev.DrivenProcess.ControllerType,
			})
		}
	}

	add("pilot", doc.LogicLines.Pilot)
	add("aircraft_system", doc.LogicLines.AircraftSystem)
	add("environment", doc.LogicLines.Environment)
	add("atc", doc.LogicLines.ATC)
}

// validate enforces §4.6's mandatory-section rule for scenario_config: it
// must name at least one agent id (a zero-value scenario_config with no ids
// at all is treated as absent). The presence of global_initial_state is not
// checked; a missing one decodes to zero values. No trigger expression may use
// AND/parentheses — the grammar stays ||-only (§9 Open Question
// resolution) rather than being silently mis-parsed.
func validate(doc scenarioDocument, path string) error {
	if doc.ScenarioConfig.PilotID == "" && doc.ScenarioConfig.AircraftID == "" &&
		doc.ScenarioConfig.ATCID == "" && doc.ScenarioConfig.EnvironmentID == "" {
		return smferrors.New(smferrors.SchemaError, "flightplan.validate",
			fmt.Errorf("%s: missing mandatory scenario_config section", filepath.Base(path)))
	}

	all := append(append(append(
		append([]eventDoc{}, doc.LogicLines.Pilot...), doc.LogicLines.AircraftSystem...),
		doc.LogicLines.Environment...), doc.LogicLines.ATC...)

	for _, ev := range all {
		expr := ev.TriggerCondition.ConditionExpression
		if containsUnsupportedOperator(expr) {
			return smferrors.New(smferrors.SchemaError, "flightplan.validate",
				fmt.Errorf("event %q: trigger_condition uses an unsupported operator (only || is supported): %q", ev.EventName, expr))
		}
	}

	return nil
}

func containsUnsupportedOperator(expr string) bool {
	for _, tok := range []string{"&&", "(", ")"} {
		if strings.Contains(expr, tok) {
			return true
		}
	}
	return false
}

// nedToGeographic converts a local NED offset to geographic coordinates
// using the small-angle spherical approximation named in §4.6: latitude
// shifts with north displacement, longitude shifts with east displacement
// scaled by the cosine of the reference latitude, altitude is -down.
func nedToGeographic(pos nedPosition, refLat, refLon float64) (lat, lon, alt float64) {
	refLatRad := refLat * math.Pi / 180
	dLat := (pos.North / earthRadiusMeters) * (180 / math.Pi)
	dLon := (pos.East / (earthRadiusMeters * math.Cos(refLatRad))) * (180 / math.Pi)
	return refLat + dLat, refLon + dLon, -pos.Down
}
