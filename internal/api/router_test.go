package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tamzrod/rosterwatch/internal/metrics"
	"github.com/tamzrod/rosterwatch/internal/poller"
	"github.com/tamzrod/rosterwatch/internal/render"
	"github.com/tamzrod/rosterwatch/internal/status"
)

type fakeSync struct {
	enabled bool
	rows    []render.Row
	last    *poller.CycleResult
}

func (f *fakeSync) Enabled() bool        { return f.enabled }
func (f *fakeSync) Enable()              { f.enabled = true }
func (f *fakeSync) Disable()             { f.enabled = false }
func (f *fakeSync) Groups() []string     { return []string{"g1"} }
func (f *fakeSync) Roster() []render.Row { return f.rows }
func (f *fakeSync) Last() (poller.CycleResult, bool) {
	if f.last == nil {
		return poller.CycleResult{}, false
	}
	return *f.last, true
}

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s := &fakeSync{enabled: true, last: &poller.CycleResult{
		ID: "c1", At: now, Outcome: poller.OutcomeCompleted,
		Groups: []poller.GroupResult{{Group: "g1"}, {Group: "g2", Err: errors.New("x")}},
	}}
	rec := do(t, NewRouter(s, nil), http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body healthJSON
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.True(t, body.Enabled)
	require.Equal(t, []string{"g1"}, body.Groups)
	require.NotNil(t, body.LastCycle)
	require.Equal(t, "c1", body.LastCycle.ID)
	require.Equal(t, 1, body.LastCycle.Failed)
}

func TestRoster(t *testing.T) {
	entries := []status.Status{
		{ID: "a", Group: "g1", State: status.StateHealthy, Label: "Okay", Since: now},
		{ID: "b", Group: "g1", State: status.StateIncapacitated, Label: "Hospital", Until: now.Add(time.Minute)},
	}
	s := &fakeSync{rows: render.Rank(entries, now, 5*time.Minute)}

	rec := do(t, NewRouter(s, nil), http.MethodGet, "/v1/roster")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Rows []rowJSON `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Rows, 2)
	require.Equal(t, "b", body.Rows[0].ID)
	require.Equal(t, "00:01:00", body.Rows[0].Countdown)
	require.True(t, body.Rows[0].Urgent)
	require.NotNil(t, body.Rows[0].Until)
	require.Nil(t, body.Rows[1].Until)
}

func TestSyncToggle(t *testing.T) {
	s := &fakeSync{enabled: true}
	r := NewRouter(s, nil)

	rec := do(t, r, http.MethodPost, "/v1/sync/disable")
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, s.enabled)
	require.JSONEq(t, `{"enabled":false}`, rec.Body.String())

	do(t, r, http.MethodPost, "/v1/sync/enable")
	require.True(t, s.enabled)

	rec = do(t, r, http.MethodPost, "/v1/sync/pause")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodGet, "/v1/sync/enable")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.New()
	r := NewRouter(&fakeSync{}, m)

	do(t, r, http.MethodGet, "/healthz")
	rec := do(t, r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `http_requests_total{route="healthz",status="200"} 1`)
}
