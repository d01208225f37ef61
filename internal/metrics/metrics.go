// Package metrics exposes tracker activity as Prometheus collectors.
//
// Collectors are registered on an explicit registry so tests and multiple
// servers in one process do not collide on the default one.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tracker"

// Metrics holds every collector the tracker updates.
type Metrics struct {
	registry *prometheus.Registry

	claimsTotal      *prometheus.CounterVec
	heartbeatsTotal  *prometheus.CounterVec
	completionsTotal *prometheus.CounterVec
	completedBytes   *prometheus.CounterVec
	pendingItems     *prometheus.GaugeVec
	leasedItems      *prometheus.GaugeVec
	ingestedItems    *prometheus.CounterVec
	reclaimedLeases  *prometheus.CounterVec
	snapshotSeconds  *prometheus.HistogramVec
	snapshotFailures *prometheus.CounterVec

	storageOpSeconds *prometheus.HistogramVec
	storageBytes     *prometheus.CounterVec
}

// New registers the tracker collectors, plus Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		claimsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "claims_total",
				Help:      "Claim attempts by project and result",
			},
			[]string{"project", "result"},
		),
		heartbeatsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "heartbeats_total",
				Help:      "Heartbeats by project and result",
			},
			[]string{"project", "result"},
		),
		completionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "completions_total",
				Help:      "Completion attempts by project and result",
			},
			[]string{"project", "result"},
		),
		completedBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "completed_bytes_total",
				Help:      "Bytes reported by successful completions",
			},
			[]string{"project"},
		),
		pendingItems: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pending_items",
				Help:      "Items waiting to be claimed",
			},
			[]string{"project"},
		),
		leasedItems: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "leased_items",
				Help:      "Items currently out on lease",
			},
			[]string{"project"},
		),
		ingestedItems: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingested_items_total",
				Help:      "Items ingested from batch files",
			},
			[]string{"project"},
		),
		reclaimedLeases: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reclaimed_leases_total",
				Help:      "Expired leases returned to the pending set",
			},
			[]string{"project"},
		),
		snapshotSeconds: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "snapshot_duration_seconds",
				Help:      "Duration of project snapshot writes",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~16s
			},
			[]string{"project"},
		),
		snapshotFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_failures_total",
				Help:      "Project snapshot writes that failed",
			},
			[]string{"project"},
		),
		storageOpSeconds: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "op_duration_seconds",
				Help:      "Pebble operation latency",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 100us to ~1.6s
			},
			[]string{"op"},
		),
		storageBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "bytes_total",
				Help:      "Bytes moved through Pebble",
			},
			[]string{"op"},
		),
	}
}

// Registry is the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveClaim(project, result string) {
	m.claimsTotal.WithLabelValues(project, result).Inc()
}

func (m *Metrics) ObserveHeartbeat(project, result string) {
	m.heartbeatsTotal.WithLabelValues(project, result).Inc()
}

func (m *Metrics) ObserveCompletion(project, result string, bytes uint64) {
	m.completionsTotal.WithLabelValues(project, result).Inc()
	if bytes > 0 {
		m.completedBytes.WithLabelValues(project).Add(float64(bytes))
	}
}

func (m *Metrics) ObserveDepth(project string, pending, leased int) {
	m.pendingItems.WithLabelValues(project).Set(float64(pending))
	m.leasedItems.WithLabelValues(project).Set(float64(leased))
}

func (m *Metrics) ObserveIngest(project string, items int) {
	m.ingestedItems.WithLabelValues(project).Add(float64(items))
}

func (m *Metrics) ObserveReclaim(project string, leases int) {
	m.reclaimedLeases.WithLabelValues(project).Add(float64(leases))
}

func (m *Metrics) ObserveSnapshot(project string, elapsed time.Duration, err error) {
	m.snapshotSeconds.WithLabelValues(project).Observe(elapsed.Seconds())
	if err != nil {
		m.snapshotFailures.WithLabelValues(project).Inc()
	}
}

// Storage returns a hook for pebblestore.Options.Metrics.
func (m *Metrics) Storage() StorageHook { return StorageHook{m: m} }

// StorageHook adapts Metrics to the Pebble wrapper's hook interface.
type StorageHook struct {
	m *Metrics
}

func (h StorageHook) ObserveWrite(elapsed time.Duration, bytes int) {
	h.observe("write", elapsed, bytes)
}

func (h StorageHook) ObserveRead(elapsed time.Duration, bytes int) {
	h.observe("read", elapsed, bytes)
}

func (h StorageHook) ObserveBatchCommit(elapsed time.Duration, _ int, bytes int) {
	h.observe("commit", elapsed, bytes)
}

func (h StorageHook) observe(op string, elapsed time.Duration, bytes int) {
	h.m.storageOpSeconds.WithLabelValues(op).Observe(elapsed.Seconds())
	h.m.storageBytes.WithLabelValues(op).Add(float64(bytes))
}
