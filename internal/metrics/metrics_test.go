package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/rosterwatch/internal/poller"
	"github.com/tamzrod/rosterwatch/internal/render"
)

func TestPollerObserver(t *testing.T) {
	m := New()

	m.CycleObserved(poller.OutcomeCompleted)
	m.CycleObserved(poller.OutcomeGated)
	m.CycleObserved(poller.OutcomeGated)
	m.GroupFetched("g1", 20*time.Millisecond, nil)
	m.GroupFetched("g1", 30*time.Millisecond, errors.New("down"))

	require.Equal(t, 1.0, testutil.ToFloat64(m.pollCycles.WithLabelValues("completed")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.pollCycles.WithLabelValues("gated")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.groupFetches.WithLabelValues("g1", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.groupFetches.WithLabelValues("g1", "error")))
	require.Equal(t, 1, testutil.CollectAndCount(m.groupDuration))
}

func TestCacheAndRender(t *testing.T) {
	m := New()
	m.CacheHit()
	m.CacheHit()
	m.CacheMiss()
	require.Equal(t, 2.0, testutil.ToFloat64(m.cacheHits))
	require.Equal(t, 1.0, testutil.ToFloat64(m.cacheMisses))

	obs := m.Surface("tui")
	obs.TickObserved(render.TickResult{Mutations: 5, Sorted: true, Rows: 3}, time.Millisecond)
	obs.TickObserved(render.TickResult{Mutations: 1, Rows: 2}, time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.renderTicks.WithLabelValues("tui")))
	require.Equal(t, 6.0, testutil.ToFloat64(m.renderMuts.WithLabelValues("tui")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.renderSorts.WithLabelValues("tui")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.renderRows.WithLabelValues("tui")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.CycleObserved(poller.OutcomeCompleted)
	m.GroupFetched("g", time.Second, nil)
	m.CacheHit()
	m.CacheMiss()
	m.TrackEnabled(func() bool { return true })
	m.Surface("x").TickObserved(render.TickResult{}, 0)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.TrackEnabled(func() bool { return true })
	h := m.WrapHandler("metrics", m.Handler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.True(t, strings.Contains(body, "rosterwatch_sync_enabled 1"), body)
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("metrics", "200")))
}
