// Package smferrors defines the error taxonomy shared across the simulation
// core. Errors never cross the SDS boundary as panics; every cross-component
// signal is either a return value or the SDS "over" flag.
package smferrors

import "errors"

// Kind identifies which bucket of the taxonomy an error belongs to, which in
// turn determines whether a caller should treat it as fatal.
type Kind string

const (
	// ConfigError: scenario or config missing/malformed. Fatal at startup.
	ConfigError Kind = "config_error"
	// SchemaError: scenario document present but missing mandatory sections. Fatal at startup.
	SchemaError Kind = "schema_error"
	// PredicateError: unknown/unparseable trigger atom. Non-fatal.
	PredicateError Kind = "predicate_error"
	// RoutingError: event with unknown controller_type. Non-fatal.
	RoutingError Kind = "routing_error"
	// RegistrationConflict: two threads claim the same id. Fatal for the late thread only.
	RegistrationConflict Kind = "registration_conflict"
	// DeadlockSuspected: clock polled N intervals without all workers completing. Fatal.
	DeadlockSuspected Kind = "deadlock_suspected"
	// PluginError: controller/strategy returned false. Non-fatal.
	PluginError Kind = "plugin_error"
)

// Error wraps an underlying cause with the taxonomy Kind, so callers can
// branch on Kind via errors.As without string-matching messages.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind) + ": " + e.Op
	}
	return string(e.Kind) + ": " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Fatal reports whether an error kind halts the run rather than merely
// logging a diagnostic and continuing.
func Fatal(kind Kind) bool {
	switch kind {
	case ConfigError, SchemaError, DeadlockSuspected:
		return true
	default:
		return false
	}
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var se *Error
	for errors.As(err, &se) {
		if se.Kind == kind {
			return true
		}
		err = se.Err
	}
	return false
}
