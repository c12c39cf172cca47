package trigger

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEvaluateAtoms(t *testing.T) {
	cases := []struct {
		name string
		expr string
		snap Snapshot
		want bool
	}{
		{"time strictly greater", "time > 2.0", Snapshot{T: 2*time.Second + time.Millisecond}, true},
		{"time not yet equal", "time > 2.0", Snapshot{T: 2 * time.Second}, false},
		{"distance threshold", "distance > 100", Snapshot{T: 10 * time.Second, Groundspeed: 11}, true},
		{"speed threshold inclusive", "speed > 5", Snapshot{Groundspeed: 5}, true},
		{"speed below threshold", "speed > 5", Snapshot{Groundspeed: 4.999}, false},
		{"atc brake flag", "atc_brake_command_received", Snapshot{EmergencyBrake: true}, true},
		{"taxi clearance flag", "taxi_clearance_received", Snapshot{ClearanceGranted: true}, true},
		{"clearance default true", "clearance_granted", Snapshot{ClearanceGranted: true}, true},
		{"clearance explicit false", "clearance_granted == false", Snapshot{ClearanceGranted: false}, true},
		{"compound OR, first true", "time > 9999 || speed > 5", Snapshot{Groundspeed: 6}, true},
		{"compound OR, none true", "time > 9999 || speed > 50", Snapshot{Groundspeed: 6}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, errs := Evaluate(c.expr, c.snap)
			if got != c.want {
				t.Fatalf("Evaluate(%q) = %v, want %v (errs=%v)", c.expr, got, c.want, errs)
			}
		})
	}
}

func TestEvaluateUnknownPredicate(t *testing.T) {
	Convey("An unknown atom evaluates false with a diagnostic error, not a panic", t, func() {
		got, errs := Evaluate("warp_drive_engaged", Snapshot{})
		So(got, ShouldBeFalse)
		So(errs, ShouldHaveLength, 1)

		var up *UnknownPredicate
		So(errs[0], ShouldHaveSameTypeAs, up)
	})

	Convey("One unknown atom in a disjunction does not suppress a later true atom", t, func() {
		got, errs := Evaluate("warp_drive_engaged || speed > 1", Snapshot{Groundspeed: 2})
		So(got, ShouldBeTrue)
		So(errs, ShouldHaveLength, 1)
	})
}
