package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the relief workflow collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	claims           *prometheus.CounterVec
	claimRejections  *prometheus.CounterVec
	transitions      *prometheus.CounterVec
	inventoryDeltas  *prometheus.CounterVec
	rpcDuration      *prometheus.HistogramVec
	proximityRefusal prometheus.Counter
}

// New creates the collectors and registers them, plus Go runtime collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		claims: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relief_task_claims_total",
				Help: "Tasks created by rescuers claiming a request or offer",
			},
			[]string{"target"},
		),
		claimRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relief_task_claim_rejections_total",
				Help: "Claims refused, by reason",
			},
			[]string{"reason"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relief_task_transitions_total",
				Help: "Task status changes, by from/to status",
			},
			[]string{"from", "to"},
		),
		inventoryDeltas: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relief_inventory_units_total",
				Help: "Units added to or removed from the warehouse by task completion",
			},
			[]string{"direction"},
		),
		rpcDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relief_rpc_duration_seconds",
				Help:    "gRPC handler latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "code"},
		),
		proximityRefusal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relief_task_proximity_refusals_total",
			Help: "Completions refused because the rescuer was too far from the target",
		}),
	}
	registry.MustRegister(
		m.claims, m.claimRejections, m.transitions, m.inventoryDeltas, m.rpcDuration, m.proximityRefusal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry for the /metrics handler and tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) TaskClaimed(target string) {
	if m == nil {
		return
	}
	m.claims.WithLabelValues(target).Inc()
}

func (m *Metrics) ClaimRejected(reason string) {
	if m == nil {
		return
	}
	m.claimRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) TaskTransitioned(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

// InventoryAdjusted records a stock change; negative deltas count as "out".
func (m *Metrics) InventoryAdjusted(delta int64) {
	if m == nil || delta == 0 {
		return
	}
	if delta > 0 {
		m.inventoryDeltas.WithLabelValues("in").Add(float64(delta))
		return
	}
	m.inventoryDeltas.WithLabelValues("out").Add(float64(-delta))
}

func (m *Metrics) ProximityRefused() {
	if m == nil {
		return
	}
	m.proximityRefusal.Inc()
}

func (m *Metrics) ObserveRPC(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(method, code).Observe(d.Seconds())
}
