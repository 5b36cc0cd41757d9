package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/ledger-audit/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAudit(time.Second)
		m.ObservePass("direct", time.Millisecond)
		m.AddRecords("transactions", 3)
		m.ObserveReport(&models.AuditReport{})
	})
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestNewUsesIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.AddRecords("transactions", 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(a.RecordsLoaded.WithLabelValues("transactions")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RecordsLoaded.WithLabelValues("transactions")))
}

func TestObserveReport(t *testing.T) {
	m := New()
	m.ObserveReport(&models.AuditReport{
		DirectFindings: []models.DirectFinding{
			{Codes: []string{"requires-purchase-order", "restricted-venue"}},
			{Codes: []string{"requires-purchase-order"}},
		},
		ContextualFindings: []models.ContextualFinding{
			{Rule: "wuphf_servers"},
		},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Findings.WithLabelValues(KindDirect, "requires-purchase-order")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Findings.WithLabelValues(KindDirect, "restricted-venue")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Findings.WithLabelValues(KindContextual, "wuphf_servers")))
}

func TestObserveAuditAndWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveAudit(20 * time.Millisecond)
	m.AddRecords("correspondence", 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditsTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.AuditLatency))
	assert.Equal(t, 0, testutil.CollectAndCount(m.RecordsLoaded), "zero additions create no series")

	path := filepath.Join(t.TempDir(), "audit.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ledger_audit_runs_total 1")
}
