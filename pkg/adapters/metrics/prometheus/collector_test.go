package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aescanero/dailyquote/internal/ports"
)

var _ ports.MetricsCollector = (*Collector)(nil)

func TestCollector_LLMMetrics(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.ObserveLLMCall("claude-3-5-sonnet-20241022", "ok", 2*time.Second)
	c.ObserveLLMCall("claude-3-5-sonnet-20241022", "ok", time.Second)
	c.ObserveLLMCall("claude-3-5-sonnet-20241022", "error", time.Second)
	c.AddLLMTokens("claude-3-5-sonnet-20241022", 120, 45)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.llmCalls.WithLabelValues("claude-3-5-sonnet-20241022", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.llmCalls.WithLabelValues("claude-3-5-sonnet-20241022", "error")))
	assert.Equal(t, 120.0, testutil.ToFloat64(c.llmTokens.WithLabelValues("claude-3-5-sonnet-20241022", "input")))
	assert.Equal(t, 45.0, testutil.ToFloat64(c.llmTokens.WithLabelValues("claude-3-5-sonnet-20241022", "output")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.llmLatency))
}

func TestCollector_EmailAndRunMetrics(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordEmailSent("sent", 3)
	c.RecordEmailSent("failed", 2)
	c.RecordRun("failed", time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.emailsSent.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.emailsSent.WithLabelValues("failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.recipients))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("failed")))
	assert.Zero(t, testutil.ToFloat64(c.lastRunSuccess))

	before := float64(time.Now().Unix())
	c.RecordRun("success", time.Second)
	assert.GreaterOrEqual(t, testutil.ToFloat64(c.lastRunSuccess), before)
}

func TestNewCollector_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCollector(prometheus.NewRegistry())
		NewCollector(prometheus.NewRegistry())
	})
}

func TestExport_Textfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRun("success", 3*time.Second)

	path := filepath.Join(t.TempDir(), "dailyquote.prom")
	require.NoError(t, Export(context.Background(), reg, ExportConfig{TextfilePath: path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `dailyquote_runs_total{status="success"} 1`)
}

func TestExport_Pushgateway(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	NewCollector(reg).RecordEmailSent("sent", 1)

	require.NoError(t, Export(context.Background(), reg, ExportConfig{PushgatewayURL: srv.URL}))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/"+JobName, path)
}

func TestExport_PushgatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	NewCollector(reg)

	err := Export(context.Background(), reg, ExportConfig{PushgatewayURL: srv.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to push metrics")
}

func TestExportConfig_Enabled(t *testing.T) {
	assert.False(t, ExportConfig{}.Enabled())
	assert.True(t, ExportConfig{TextfilePath: "/tmp/x.prom"}.Enabled())
	assert.True(t, ExportConfig{PushgatewayURL: "http://pushgateway:9091"}.Enabled())
}
