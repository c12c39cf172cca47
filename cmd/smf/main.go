// Command smf is the flight-test simulation entry point: it takes one
// config-path argument, wires the loader/clock/monitor/dispatcher/agents/
// recorder/server together, runs to completion, and sets the process exit
// code (0 on normal completion, non-zero on startup or runtime failure).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"smf/agent"
	"smf/clock"
	"smf/config"
	"smf/controllers"
	"smf/dispatcher"
	"smf/dynamics"
	"smf/eventmonitor"
	"smf/flightplan"
	"smf/recorder"
	"smf/sds"
	"smf/server"
	"smf/smferrors"
	"smf/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to SimulationConfig.json/yaml")
	addr := flag.String("addr", ":8080", "live view listen address")
	flag.Parse()

	if *configPath == "" && flag.NArg() > 0 {
		*configPath = flag.Arg(0)
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "smf: a config path is required")
		os.Exit(1)
	}

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintln(os.Stderr, "smf:", err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	if smferrors.Is(err, smferrors.ConfigError) || smferrors.Is(err, smferrors.SchemaError) {
		return 2
	}
	return 1
}

func run(configPath, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := telemetry.NewLogger(telemetry.LogConfig{
		BriefLogFile:  cfg.LogConfig.BriefLogFile,
		DetailLogFile: cfg.LogConfig.DetailLogFile,
		ConsoleOutput: cfg.LogConfig.ConsoleOutput,
		EnableLogging: cfg.LogConfig.EnableLogging,
	})
	if err != nil {
		return smferrors.New(smferrors.ConfigError, "run:NewLogger", err)
	}
	metrics := telemetry.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	liveSink := recorder.NewLiveSink(ctx.Done())
	fileSink, err := recorder.NewFileSink(cfg.DataRecorderConfig.OutputDirectory, cfg.DataRecorderConfig.BufferSize)
	if err != nil {
		return smferrors.New(smferrors.ConfigError, "run:NewFileSink", err)
	}
	defer fileSink.Close()
	logger.Brief("recording run", "run_id", fileSink.RunID, "output_directory", cfg.DataRecorderConfig.OutputDirectory)

	s := sds.New(recorder.NewFanOut(fileSink, liveSink))

	if err := flightplan.Load(cfg.FlightPlanFile, s); err != nil {
		return err
	}
	plan := s.FlightPlanData.Get().Value

	timeStep := cfg.SimulationParams.TimeStep()
	registry := controllers.NewRegistry(controllers.Standard)
	controllers.RegisterATCBuiltins(registry, s)
	controllers.RegisterPilotBuiltins(registry, s, 0)

	environmentWorker := agent.NewEnvironment(plan.EnvironmentID, timeStep, s, logger)
	aircraftWorker := agent.NewAircraftSystem(plan.AircraftID, timeStep, registry, logger)
	flightDynWorker := agent.NewFlightDynamics("flight_dynamics", timeStep, dynamics.NewAdHoc(60000), metrics, logger)
	pilotWorker := agent.NewPilot(plan.PilotID, timeStep, registry, logger)
	atcWorker := agent.NewATC(plan.ATCID, timeStep, registry, logger)

	c := clock.New(s, timeStep, cfg.SimulationParams.MaxSimTime(), cfg.SimulationParams.TimeScale, cfg.SimulationParams.SyncTolerance(), logger, metrics)
	mon := eventmonitor.New("event_monitor", timeStep, s, logger, metrics)
	disp := dispatcher.New("event_dispatcher", timeStep, s, dispatcher.Config{
		EnvironmentID: plan.EnvironmentID,
		AircraftID:    plan.AircraftID,
		FlightDynID:   "flight_dynamics",
		PilotID:       plan.PilotID,
		ATCID:         plan.ATCID,
	}, logger, metrics)

	// The live-view server runs independently of the simulation group: it is
	// torn down explicitly once the simulation finishes, rather than via
	// errgroup cancellation, so a client connection never forces the whole
	// run to abort.
	srv := server.NewServer(addr, liveSink)
	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()
	go func() {
		if err := srv.Serve(serverCtx); err != nil {
			logger.Warn("live view server exited", "err", err)
		}
	}()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error { return environmentWorker.Run(groupCtx, s) })
	group.Go(func() error { return aircraftWorker.Run(groupCtx, s) })
	group.Go(func() error { return flightDynWorker.Run(groupCtx, s) })
	group.Go(func() error { return pilotWorker.Run(groupCtx, s) })
	group.Go(func() error { return atcWorker.Run(groupCtx, s) })
	group.Go(func() error { return mon.Run(groupCtx) })
	group.Go(func() error { return disp.Run(groupCtx) })

	// The clock marks the SDS over on normal completion (or deadlock); every
	// other goroutine's poll loop checks that flag each iteration and
	// returns on its own, so no explicit cancellation wiring is needed here.
	group.Go(func() error { return c.Run(groupCtx) })

	runErr := group.Wait()
	stopServer()

	if runErr != nil && runErr != context.Canceled {
		return runErr
	}

	logger.Brief("simulation run complete", "groundspeed_high_water", metrics.GroundspeedHighWater())
	return nil
}
