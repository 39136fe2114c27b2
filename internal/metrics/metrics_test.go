package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveConversion(t *testing.T) {
	m := New()
	m.ObserveConversion("blog", "completed", 120*time.Millisecond)
	m.ObserveConversion("blog", "completed", 80*time.Millisecond)
	m.ObserveConversion("course", "failed", time.Second)

	body := scrape(t, m)
	assert.Contains(t, body, `contentgen_conversions_total{kind="blog",status="completed"} 2`)
	assert.Contains(t, body, `contentgen_conversions_total{kind="course",status="failed"} 1`)
	assert.Contains(t, body, `contentgen_conversion_duration_seconds_count{kind="blog"} 2`)
}

func TestQueueDepth(t *testing.T) {
	m := New()
	m.SetQueueDepth(3)
	assert.Contains(t, scrape(t, m), "contentgen_queue_depth 3")
}

func TestAPIEndpointDuration(t *testing.T) {
	m := New()
	m.ObserveAPIEndpointDuration("/health", "GET", "200", 0.002)
	assert.Contains(t, scrape(t, m), `contentgen_api_time_seconds_count{handler="/health",method="GET",status_code="200"} 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveConversion("blog", "completed", time.Millisecond)
		m.SetQueueDepth(1)
		m.ObserveAPIEndpointDuration("/health", "GET", "200", 0.01)
	})
}
