// Package recorder implements the data-recorder sink named in spec.md §6:
// a buffered file sink plus a live websocket broadcaster, fanned out from
// one sds.RecorderSink.Publish call per step the way server/root_view.go
// fanned N view-update channels into one client-facing stream.
package recorder

import "time"

// Sink receives one coherent cell snapshot per step (plus a synthetic one
// for step 0), matching sds.RecorderSink's shape without importing sds.
type Sink interface {
	Publish(t time.Duration, cells map[string]any)
}

// FanOut multiplexes a single Publish call out to every configured sink, so
// the SDS can be constructed with one recorder.Sink even when both a file
// sink and a live sink are active.
type FanOut struct {
	sinks []Sink
}

// NewFanOut builds a FanOut over the given sinks, in publish order.
func NewFanOut(sinks ...Sink) *FanOut {
	return &FanOut{sinks: sinks}
}

// Publish forwards to every wrapped sink.
func (f *FanOut) Publish(t time.Duration, cells map[string]any) {
	for _, s := range f.sinks {
		s.Publish(t, cells)
	}
}
