package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InstancesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}

func TestRecordSearch(t *testing.T) {
	m := New()

	m.RecordSearch("fallback", "ok", 120*time.Millisecond)
	m.RecordSearch("fallback", "ok", 80*time.Millisecond)
	m.RecordSearch("primary", "error", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("fallback", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("primary", "error")))
}

func TestCounters(t *testing.T) {
	m := New()

	m.RecordSlowSearch()
	m.RecordEmptyQuery()
	m.RecordEmptyQuery()
	m.RecordCacheHit()
	m.RecordCacheMiss()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SlowSearches))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EmptyQueries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHitsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMissesTotal))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSearch("fallback", "ok", time.Second)
		m.RecordSlowSearch()
		m.RecordEmptyQuery()
		m.RecordCacheHit()
		m.RecordCacheMiss()
		m.RecordHTTPRequest("/store/search", http.StatusOK)
	})
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.RecordSearch("primary", "ok", 10*time.Millisecond)
	m.RecordHTTPRequest("GET /store/search", http.StatusOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "storefront_search_searches_total"))
	assert.True(t, strings.Contains(body, "storefront_search_search_duration_seconds"))
	assert.True(t, strings.Contains(body, "storefront_search_http_requests_total"))
}
