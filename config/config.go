// Package config loads SimulationConfig.{json,yaml} via viper, the way the
// teacher's reinforcement.FromYaml loads TrainingConfig — generalized here
// to the full table named in spec.md §6.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"smf/smferrors"
)

var (
	errMissingFlightPlanFile = errors.New("flight_plan_file is required")
	errInvalidTimeStep       = errors.New("simulation_params.time_step must be > 0")
	errInvalidMaxSimTime     = errors.New("simulation_params.max_simulation_time must be > 0")
)

// LogConfig mirrors telemetry.LogConfig field-for-field; kept as a distinct
// type so config has no import-time dependency on telemetry.
type LogConfig struct {
	BriefLogFile  string `mapstructure:"brief_log_file"`
	DetailLogFile string `mapstructure:"detail_log_file"`
	ConsoleOutput bool   `mapstructure:"console_output"`
	EnableLogging bool   `mapstructure:"enable_logging"`
}

// DataRecorderConfig controls the recorder package's file sink.
type DataRecorderConfig struct {
	OutputDirectory string `mapstructure:"output_directory"`
	BufferSize      int    `mapstructure:"buffer_size"`
}

// SimulationParams controls the clock's pacing/termination and its
// deadlock slack.
type SimulationParams struct {
	TimeScale         float64 `mapstructure:"time_scale"`
	TimeStepSeconds   float64 `mapstructure:"time_step"`
	MaxSimTimeSeconds float64 `mapstructure:"max_simulation_time"`
	SyncToleranceSecs float64 `mapstructure:"sync_tolerance"`
}

// TimeStep returns the fixed per-step duration.
func (p SimulationParams) TimeStep() time.Duration {
	return time.Duration(p.TimeStepSeconds * float64(time.Second))
}

// MaxSimTime returns the termination bound as a Duration.
func (p SimulationParams) MaxSimTime() time.Duration {
	return time.Duration(p.MaxSimTimeSeconds * float64(time.Second))
}

// SyncTolerance returns the deadlock-detection slack as a Duration.
func (p SimulationParams) SyncTolerance() time.Duration {
	return time.Duration(p.SyncToleranceSecs * float64(time.Second))
}

// SimulationConfig is the top-level config document, matching spec.md §6's
// table field-for-field.
type SimulationConfig struct {
	FlightPlanFile     string              `mapstructure:"flight_plan_file"`
	LogConfig          LogConfig           `mapstructure:"log_config"`
	DataRecorderConfig DataRecorderConfig  `mapstructure:"data_recorder_config"`
	SimulationParams   SimulationParams    `mapstructure:"simulation_params"`
}

// Load reads path (json or yaml, by extension) via viper and decodes it into
// a SimulationConfig. A missing file or undecodable content is a
// ConfigError, fatal at startup per §7.
func Load(path string) (*SimulationConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("log_config.enable_logging", true)
	v.SetDefault("log_config.console_output", true)
	v.SetDefault("data_recorder_config.buffer_size", 256)
	v.SetDefault("simulation_params.time_step", 0.1)
	v.SetDefault("simulation_params.time_scale", 0.0)
	v.SetDefault("simulation_params.sync_tolerance", 2.0)

	if err := v.ReadInConfig(); err != nil {
		return nil, smferrors.New(smferrors.ConfigError, "config.Load", err)
	}

	var cfg SimulationConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, smferrors.New(smferrors.ConfigError, "config.Load:unmarshal", err)
	}

	if strings.TrimSpace(cfg.FlightPlanFile) == "" {
		return nil, smferrors.New(smferrors.ConfigError, "config.Load", errMissingFlightPlanFile)
	}
	if cfg.SimulationParams.TimeStepSeconds <= 0 {
		return nil, smferrors.New(smferrors.ConfigError, "config.Load", errInvalidTimeStep)
	}
	if cfg.SimulationParams.MaxSimTimeSeconds <= 0 {
		return nil, smferrors.New(smferrors.ConfigError, "config.Load", errInvalidMaxSimTime)
	}

	return &cfg, nil
}
