// Package telemetry holds the process-wide logging and metrics sinks: the
// two "global singletons" the source leaned on, rebuilt per the design notes
// as constructed-at-startup handles passed around explicitly rather than
// ambient mutable globals.
package telemetry

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the brief/detail dual-sink logger described by
// config.LogConfig.BriefLogFile / DetailLogFile / ConsoleOutput.
type Logger struct {
	brief  *slog.Logger
	detail *slog.Logger
}

// LogConfig mirrors config.LogConfig to avoid an import cycle; cmd/smf copies
// the loaded config.LogConfig into it to construct a Logger.
type LogConfig struct {
	BriefLogFile  string
	DetailLogFile string
	ConsoleOutput bool
	EnableLogging bool
}

// NewLogger opens the brief/detail log sinks (and stdout, if requested) and
// returns a Logger ready for use. A disabled logger discards everything.
func NewLogger(cfg LogConfig) (*Logger, error) {
	if !cfg.EnableLogging {
		nop := slog.New(slog.NewTextHandler(io.Discard, nil))
		return &Logger{brief: nop, detail: nop}, nil
	}

	briefWriter, err := sinkWriter(cfg.BriefLogFile, cfg.ConsoleOutput)
	if err != nil {
		return nil, err
	}
	detailWriter, err := sinkWriter(cfg.DetailLogFile, cfg.ConsoleOutput)
	if err != nil {
		return nil, err
	}

	return &Logger{
		brief:  slog.New(slog.NewTextHandler(briefWriter, &slog.HandlerOptions{Level: slog.LevelInfo})),
		detail: slog.New(slog.NewTextHandler(detailWriter, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}, nil
}

func sinkWriter(path string, alsoConsole bool) (io.Writer, error) {
	var w io.Writer = io.Discard
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		w = f
	}
	if alsoConsole {
		if w == io.Writer(io.Discard) {
			return os.Stdout, nil
		}
		return io.MultiWriter(w, os.Stdout), nil
	}
	return w, nil
}

// Brief logs a short, user-facing line: step transitions, fired events,
// warnings a scenario author would want to see.
func (l *Logger) Brief(msg string, args ...any) { l.brief.Info(msg, args...) }

// Warn logs a non-fatal diagnostic (PredicateError, RoutingError, PluginError).
func (l *Logger) Warn(msg string, args ...any) { l.brief.Warn(msg, args...) }

// Fatal logs a fatal startup/deadlock condition.
func (l *Logger) Fatal(msg string, args ...any) { l.brief.Error(msg, args...) }

// Detail logs high-volume per-step/per-cell trace information.
func (l *Logger) Detail(msg string, args ...any) { l.detail.Debug(msg, args...) }

// Nop returns a logger that discards all output, used by components
// constructed without an explicit logger (tests, one-shot tools).
func Nop() *Logger {
	nop := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Logger{brief: nop, detail: nop}
}
