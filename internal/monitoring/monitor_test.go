package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCounters(t *testing.T) {
	m := NewMonitor()

	m.RecordOrderCreated()
	m.RecordOrderCreated()
	m.RecordOrderCompleted(95000)
	m.RecordOrderCancelled()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ordersCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ordersCompleted))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ordersCancelled))
	assert.Equal(t, float64(95000), testutil.ToFloat64(m.revenue))
}

func TestRevenueIgnoresNonPositiveTotals(t *testing.T) {
	m := NewMonitor()
	m.RecordOrderCompleted(0)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ordersCompleted))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.revenue))
}

func TestItemTransitionLabels(t *testing.T) {
	m := NewMonitor()
	m.RecordItemTransition("COOKING")
	m.RecordItemTransition("COOKING")
	m.RecordItemTransition("READY")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.itemTransitions.WithLabelValues("COOKING")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.itemTransitions.WithLabelValues("READY")))
}

func TestNilMonitorIsSafe(t *testing.T) {
	var m *Monitor
	assert.NotPanics(t, func() {
		m.RecordOrderCreated()
		m.RecordOrderCompleted(100)
		m.RecordOrderCancelled()
		m.RecordItemTransition("READY")
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMonitor()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "maitred_http_request_duration_seconds")
}
