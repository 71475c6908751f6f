package statusserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemzaz/tugboat/pkg/metrics"
)

func TestServerHealthzReportsOK(t *testing.T) {
	s := New("127.0.0.1:0", metrics.NewRegistry())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestServerMetricsServesPrometheusFormat(t *testing.T) {
	reg := metrics.NewRegistry()
	reg.ObserveTasksExpanded("stage-1", 3)
	s := New("127.0.0.1:0", reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tugboat_sync_tasks_total")
}
