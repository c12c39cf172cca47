package flightplan

import "testing"

func TestNedToGeographicZeroOffsetReturnsReference(t *testing.T) {
	lat, lon, alt := nedToGeographic(nedPosition{North: 0, East: 0, Down: -100}, 37.5, -122.3)
	if lat != 37.5 || lon != -122.3 {
		t.Fatalf("expected reference point unchanged for zero NE offset, got (%v, %v)", lat, lon)
	}
	if alt != 100 {
		t.Fatalf("expected altitude = -down = 100, got %v", alt)
	}
}

func TestNedToGeographicNorthIncreasesLatitude(t *testing.T) {
	lat, _, _ := nedToGeographic(nedPosition{North: 1000, East: 0, Down: 0}, 0, 0)
	if lat <= 0 {
		t.Fatalf("expected northward displacement to increase latitude, got %v", lat)
	}
}

func TestContainsUnsupportedOperator(t *testing.T) {
	cases := map[string]bool{
		"time > 5.0":                      false,
		"time > 5.0 || speed > 10":        false,
		"time > 5.0 && speed > 10":        true,
		"(time > 5.0) || speed > 10":      true,
	}
	for expr, want := range cases {
		if got := containsUnsupportedOperator(expr); got != want {
			t.Errorf("containsUnsupportedOperator(%q) = %v, want %v", expr, got, want)
		}
	}
}

func TestValidateRejectsMissingScenarioConfig(t *testing.T) {
	var doc scenarioDocument
	if err := validate(doc, "scenario.yaml"); err == nil {
		t.Fatal("expected SchemaError for missing scenario_config")
	}
}

func TestValidateAcceptsMinimalDocument(t *testing.T) {
	doc := scenarioDocument{
		ScenarioConfig: scenarioConfig{PilotID: "pilot-1"},
		LogicLines: logicLines{
			Pilot: []eventDoc{{
				EventName:        "clearance",
				TriggerCondition: triggerCondDoc{ConditionExpression: "clearance_granted == true"},
			}},
		},
	}
	if err := validate(doc, "scenario.yaml"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
