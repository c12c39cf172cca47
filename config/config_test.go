package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "SimulationConfig.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRejectsMissingFlightPlanFile(t *testing.T) {
	path := writeTempConfig(t, `
simulation_params:
  time_step: 0.1
  max_simulation_time: 10
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected ConfigError for a missing flight_plan_file")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
flight_plan_file: scenario.yaml
simulation_params:
  max_simulation_time: 60
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SimulationParams.TimeStepSeconds != 0.1 {
		t.Fatalf("expected default time_step 0.1, got %v", cfg.SimulationParams.TimeStepSeconds)
	}
	if cfg.DataRecorderConfig.BufferSize != 256 {
		t.Fatalf("expected default buffer_size 256, got %v", cfg.DataRecorderConfig.BufferSize)
	}
}

func TestLoadRejectsNonPositiveMaxSimTime(t *testing.T) {
	path := writeTempConfig(t, `
flight_plan_file: scenario.yaml
simulation_params:
  time_step: 0.1
  max_simulation_time: 0
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected ConfigError for max_simulation_time <= 0")
	}
}
