// Package trigger implements the stable, intentionally small trigger
// expression grammar from spec.md §4.3: a disjunction (||) of atomic
// predicates, hand-written as a splitter plus atom matchers rather than a
// general expression parser, per the source's own design notes.
package trigger

import (
	"strconv"
	"strings"
	"time"
)

// Snapshot is the slice of shared state an atomic predicate may reference.
// It is deliberately narrow: the grammar only ever needs time, groundspeed
// and the ATC command flags.
type Snapshot struct {
	T                time.Duration
	Groundspeed      float64
	ClearanceGranted bool
	EmergencyBrake   bool
}

// UnknownPredicate is returned (as an error, non-fatal per §4.3) when an atom
// does not match any known form. The caller logs a diagnostic and treats the
// predicate as false; it must never abort the step.
type UnknownPredicate struct {
	Atom string
}

func (e *UnknownPredicate) Error() string {
	return "unknown trigger predicate: " + e.Atom
}

// Evaluate splits expr on "||" and returns true if any atomic predicate
// evaluates true. Atoms that fail to parse are treated as false and their
// error is returned (the caller decides whether to log it); evaluation never
// panics and never stops at an unknown atom — atoms are tried in order until
// one is true.
func Evaluate(expr string, snap Snapshot) (bool, []error) {
	var errs []error
	for _, atom := range strings.Split(expr, "||") {
		ok, err := evalAtom(strings.TrimSpace(atom), snap)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			return true, errs
		}
	}
	return false, errs
}

// ConditionKind classifies an atom for telemetry grouping: it is the label of
// the per-condition-kind trigger counter. No first or last fire time is
// recorded per kind.
func ConditionKind(atom string) string {
	atom = strings.TrimSpace(atom)
	switch {
	case strings.HasPrefix(atom, "time"):
		return "time"
	case strings.HasPrefix(atom, "distance"):
		return "distance"
	case strings.HasPrefix(atom, "speed"):
		return "speed"
	case atom == "atc_brake_command_received":
		return "atc_brake_command_received"
	case atom == "taxi_clearance_received":
		return "taxi_clearance_received"
	case strings.HasPrefix(atom, "clearance_granted"):
		return "clearance_granted"
	default:
		return "unknown"
	}
}

func evalAtom(atom string, snap Snapshot) (bool, error) {
	switch {
	case atom == "atc_brake_command_received":
		return snap.EmergencyBrake, nil
	case atom == "taxi_clearance_received":
		return snap.ClearanceGranted, nil
	case atom == "clearance_granted":
		return snap.ClearanceGranted == true, nil
	case strings.HasPrefix(atom, "clearance_granted"):
		rhs, err := boolRHS(atom, "clearance_granted")
		if err != nil {
			return false, err
		}
		return snap.ClearanceGranted == rhs, nil
	case strings.HasPrefix(atom, "time"):
		x, err := numericRHS(atom, "time", ">")
		if err != nil {
			return false, err
		}
		return snap.T.Seconds() > x, nil
	case strings.HasPrefix(atom, "distance"):
		x, err := numericRHS(atom, "distance", ">")
		if err != nil {
			return false, err
		}
		return snap.Groundspeed*snap.T.Seconds() > x, nil
	case strings.HasPrefix(atom, "speed"):
		x, err := numericRHS(atom, "speed", ">")
		if err != nil {
			return false, err
		}
		return snap.Groundspeed >= x, nil
	default:
		return false, &UnknownPredicate{Atom: atom}
	}
}

// numericRHS parses "<name> <op> <float>" and returns the float. name/op are
// the expected literal tokens; anything else is an UnknownPredicate.
func numericRHS(atom, name, op string) (float64, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(atom, name))
	if !strings.HasPrefix(rest, op) {
		return 0, &UnknownPredicate{Atom: atom}
	}
	numStr := strings.TrimSpace(strings.TrimPrefix(rest, op))
	val, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, &UnknownPredicate{Atom: atom}
	}
	return val, nil
}

// boolRHS parses "<name> == <true|false>"; absence of an explicit RHS is
// handled by the caller (default true, per §4.3).
func boolRHS(atom, name string) (bool, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(atom, name))
	if !strings.HasPrefix(rest, "==") {
		return false, &UnknownPredicate{Atom: atom}
	}
	rhs := strings.TrimSpace(strings.TrimPrefix(rest, "=="))
	switch rhs {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, &UnknownPredicate{Atom: atom}
	}
}
