// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tamzrod/rosterwatch/internal/poller"
	"github.com/tamzrod/rosterwatch/internal/render"
)

// Metrics implements the poller, render and abbreviation cache observers.
// A nil *Metrics is a valid no-op.
type Metrics struct {
	reg *prometheus.Registry

	pollCycles    *prometheus.CounterVec
	groupFetches  *prometheus.CounterVec
	groupDuration *prometheus.HistogramVec
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	renderTicks   *prometheus.CounterVec
	renderMuts    *prometheus.CounterVec
	renderSorts   *prometheus.CounterVec
	renderRows    *prometheus.GaugeVec

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		pollCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rosterwatch_poll_cycles_total",
			Help: "Poll cycle attempts by outcome.",
		}, []string{"outcome"}),
		groupFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rosterwatch_group_fetches_total",
			Help: "Group fetches by group and result.",
		}, []string{"group", "result"}),
		groupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rosterwatch_group_fetch_duration_seconds",
			Help:    "Histogram of provider request durations per group.",
			Buckets: prometheus.DefBuckets,
		}, []string{"group"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rosterwatch_abbrev_cache_hits_total",
			Help: "Total abbreviation memo hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rosterwatch_abbrev_cache_misses_total",
			Help: "Total abbreviation memo misses.",
		}),
		renderTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rosterwatch_render_ticks_total",
			Help: "Render ticks by surface.",
		}, []string{"surface"}),
		renderMuts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rosterwatch_render_mutations_total",
			Help: "Display writes committed by surface.",
		}, []string{"surface"}),
		renderSorts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rosterwatch_render_sorts_total",
			Help: "Ticks that recomputed the display order, by surface.",
		}, []string{"surface"}),
		renderRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rosterwatch_render_rows",
			Help: "Entities currently indexed by surface.",
		}, []string{"surface"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.reg.MustRegister(
		m.pollCycles,
		m.groupFetches,
		m.groupDuration,
		m.cacheHits,
		m.cacheMisses,
		m.renderTicks,
		m.renderMuts,
		m.renderSorts,
		m.renderRows,
		m.httpRequestsTotal,
		m.httpDuration,
	)
	return m
}

// Handler serves this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// ---- poller.Observer ----

func (m *Metrics) CycleObserved(o poller.Outcome) {
	if m == nil {
		return
	}
	m.pollCycles.WithLabelValues(string(o)).Inc()
}

func (m *Metrics) GroupFetched(group string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.groupFetches.WithLabelValues(group, result).Inc()
	m.groupDuration.WithLabelValues(group).Observe(d.Seconds())
}

// ---- status.Observer ----

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// ---- render ----

type surfaceObserver struct {
	m       *Metrics
	surface string
}

// Surface returns a render.Observer labelled with the surface name.
func (m *Metrics) Surface(name string) render.Observer {
	return surfaceObserver{m: m, surface: name}
}

func (s surfaceObserver) TickObserved(r render.TickResult, _ time.Duration) {
	if s.m == nil {
		return
	}
	s.m.renderTicks.WithLabelValues(s.surface).Inc()
	s.m.renderMuts.WithLabelValues(s.surface).Add(float64(r.Mutations))
	if r.Sorted {
		s.m.renderSorts.WithLabelValues(s.surface).Inc()
	}
	s.m.renderRows.WithLabelValues(s.surface).Set(float64(r.Rows))
}

// TrackEnabled exports the sync switch as a gauge read at scrape time.
func (m *Metrics) TrackEnabled(enabled func() bool) {
	if m == nil {
		return
	}
	m.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rosterwatch_sync_enabled",
		Help: "1 while polling is enabled.",
	}, func() float64 {
		if enabled() {
			return 1
		}
		return 0
	}))
}

// ---- http ----

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler counts requests and durations for route.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}
