package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"smf/atomic_float"
)

// Metrics is the Prometheus registry wiring for the simulation core. It is
// the direct descendant of the EventMonitor's condition-type first/last-fire
// bookkeeping in the original C++ (EventMonitor.cpp), exposed here instead as
// a scrapeable registry.
type Metrics struct {
	Registry *prometheus.Registry

	StepsCompleted   prometheus.Counter
	EventsTriggered  *prometheus.CounterVec
	RoutingDropped   prometheus.Counter
	GlobalQueueDepth prometheus.Gauge
	AgentQueueDepth  *prometheus.GaugeVec
	DeadlockCount    prometheus.Counter

	// groundspeedHighWater tracks the fastest groundspeed observed this run,
	// read lock-free since it is sampled far more often than it is written.
	groundspeedHighWater *atomic_float.AtomicFloat64
}

// NewMetrics builds an isolated registry (rather than the global default
// registry) so multiple simulation runs in one process never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		StepsCompleted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "smf_steps_completed_total",
			Help: "Number of simulation steps the clock has fully advanced past.",
		}),
		EventsTriggered: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "smf_events_triggered_total",
			Help: "Planned events that have fired, by trigger condition kind.",
		}, []string{"condition"}),
		RoutingDropped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "smf_routing_dropped_total",
			Help: "Triggered events dropped by the dispatcher for unknown controller_type.",
		}),
		GlobalQueueDepth: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "smf_global_queue_depth",
			Help: "Current depth of the global event queue.",
		}),
		AgentQueueDepth: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "smf_agent_queue_depth",
			Help: "Current depth of each per-agent event queue.",
		}, []string{"agent"}),
		DeadlockCount: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "smf_deadlock_suspected_total",
			Help: "Number of times the clock raised DeadlockSuspected.",
		}),
		groundspeedHighWater: atomic_float.NewAtomicFloat64(0),
	}
	return m
}

// ObserveGroundspeed records a new groundspeed sample against the run's
// high-water mark, lock-free.
func (m *Metrics) ObserveGroundspeed(v float64) {
	for {
		cur := m.groundspeedHighWater.AtomicRead()
		if v <= cur {
			return
		}
		if _, ok := m.groundspeedHighWater.AtomicAdd(v - cur); ok {
			return
		}
	}
}

// GroundspeedHighWater returns the fastest groundspeed observed so far.
func (m *Metrics) GroundspeedHighWater() float64 {
	return m.groundspeedHighWater.AtomicRead()
}

// ObserveStepCompleted increments the completed-step counter.
func (m *Metrics) ObserveStepCompleted() {
	m.StepsCompleted.Inc()
}

// ObserveDeadlockSuspected increments the deadlock counter.
func (m *Metrics) ObserveDeadlockSuspected() {
	m.DeadlockCount.Inc()
}

// ObserveEventTriggered increments the per-condition-kind trigger counter.
func (m *Metrics) ObserveEventTriggered(conditionKind string) {
	m.EventsTriggered.WithLabelValues(conditionKind).Inc()
}

// ObserveRoutingDropped increments the dispatcher's unknown-route counter.
func (m *Metrics) ObserveRoutingDropped() {
	m.RoutingDropped.Inc()
}

// SetGlobalQueueDepth sets the global-queue depth gauge.
func (m *Metrics) SetGlobalQueueDepth(n int) {
	m.GlobalQueueDepth.Set(float64(n))
}

// SetAgentQueueDepth sets the per-agent queue depth gauge for agentID.
func (m *Metrics) SetAgentQueueDepth(agentID string, n int) {
	m.AgentQueueDepth.WithLabelValues(agentID).Set(float64(n))
}
