// Package metrics exposes audit run counters and latencies. Metrics live in
// their own registry and can be written out in the Prometheus text format for
// node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"fjacquet/ledger-audit/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Finding kinds used as label values.
const (
	KindDirect     = "direct"
	KindContextual = "contextual"
)

// Metrics provides observability for audit runs. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	// Full audit latency, loading included
	AuditLatency prometheus.Histogram

	// Per-pass latency: "load", "direct", "contextual"
	PassLatency *prometheus.HistogramVec

	// Records loaded by source
	RecordsLoaded *prometheus.CounterVec

	// Findings by kind and reason code (contextual findings use the rule name)
	Findings *prometheus.CounterVec

	// Completed audit runs
	AuditsTotal prometheus.Counter
}

// New creates a Metrics instance registered on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		AuditLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_audit_run_duration_seconds",
			Help:    "Duration of a full audit run including source loading",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		PassLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_audit_pass_duration_seconds",
			Help:    "Duration of individual audit passes",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1},
		}, []string{"pass"}),

		RecordsLoaded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_audit_records_loaded_total",
			Help: "Total records loaded by source",
		}, []string{"source"}),

		Findings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_audit_findings_total",
			Help: "Total findings by kind and reason code",
		}, []string{"kind", "code"}),

		AuditsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_audit_runs_total",
			Help: "Total completed audit runs",
		}),
	}
}

// ObserveAudit records a completed audit run and its duration.
func (m *Metrics) ObserveAudit(d time.Duration) {
	if m != nil {
		m.AuditLatency.Observe(d.Seconds())
		m.AuditsTotal.Inc()
	}
}

// ObservePass records the duration of one audit pass.
func (m *Metrics) ObservePass(pass string, d time.Duration) {
	if m != nil {
		m.PassLatency.WithLabelValues(pass).Observe(d.Seconds())
	}
}

// AddRecords records n records loaded from source.
func (m *Metrics) AddRecords(source string, n int) {
	if m != nil && n > 0 {
		m.RecordsLoaded.WithLabelValues(source).Add(float64(n))
	}
}

// ObserveReport counts the findings of r: one increment per reason code for
// direct findings and one per rule for contextual findings.
func (m *Metrics) ObserveReport(r *models.AuditReport) {
	if m == nil || r == nil {
		return
	}
	for _, f := range r.DirectFindings {
		for _, code := range f.Codes {
			m.Findings.WithLabelValues(KindDirect, code).Inc()
		}
	}
	for _, f := range r.ContextualFindings {
		m.Findings.WithLabelValues(KindContextual, f.Rule).Inc()
	}
}

// WriteTextfile writes the registry to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("error writing metrics to %s: %w", path, err)
	}
	return nil
}
