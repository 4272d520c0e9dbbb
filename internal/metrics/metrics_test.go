package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.Mutation("item", "create", nil)
	m.Mutation("item", "create", nil)
	m.Mutation("item", "purchase", errors.New("boom"))
	m.Suggestion("ok", 2*time.Second)
	m.Suggestion("http_status", time.Second)
	m.Subscriptions(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("item", "create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutationErrors.WithLabelValues("item", "purchase")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.suggestions.WithLabelValues("http_status")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.subscriptions))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.Mutation("item", "create", nil)
	m.Suggestion("ok", time.Second)
	m.Subscriptions(1)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Suggestion("ok", time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "giftmate_suggestion_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}
