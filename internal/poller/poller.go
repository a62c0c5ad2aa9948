// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tamzrod/rosterwatch/internal/status"
)

// Config is the minimal runtime config the poller needs.
type Config struct {
	// Interval is the single global gate: two fetch rounds never start
	// closer together than this, however many groups are configured.
	Interval    time.Duration
	Groups      []string
	Concurrency int
}

// Poller refreshes the Store from the provider.
// It is the Store's only writer.
type Poller struct {
	cfg        Config
	fetcher    Fetcher
	store      *status.Store
	classifier *status.Classifier

	gate    *rate.Limiter
	groups  atomic.Pointer[[]string]
	busy    atomic.Bool
	enabled func() bool
	epoch   func() uint64
	now     func() time.Time
	log     *slog.Logger
	obs     Observer
}

type Option func(*Poller)

// WithEnabled installs the feature switch. It is checked before a cycle is
// dispatched and again before its results are applied.
func WithEnabled(fn func() bool) Option { return func(p *Poller) { p.enabled = fn } }

// WithEpoch installs a counter that moves on every disable. A cycle whose
// epoch changed while it was fetching is discarded, even if sync is back on.
func WithEpoch(fn func() uint64) Option { return func(p *Poller) { p.epoch = fn } }

func WithClock(fn func() time.Time) Option { return func(p *Poller) { p.now = fn } }
func WithLogger(l *slog.Logger) Option      { return func(p *Poller) { p.log = l } }
func WithObserver(o Observer) Option        { return func(p *Poller) { p.obs = o } }

// New creates a poller with immutable config.
func New(cfg Config, f Fetcher, store *status.Store, c *status.Classifier, opts ...Option) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if f == nil {
		return nil, errors.New("poller: fetcher required")
	}
	if store == nil {
		return nil, errors.New("poller: store required")
	}
	if c == nil {
		return nil, errors.New("poller: classifier required")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}

	p := &Poller{
		cfg:        cfg,
		fetcher:    f,
		store:      store,
		classifier: c,
		gate:       rate.NewLimiter(rate.Every(cfg.Interval), 1),
		enabled:    func() bool { return true },
		epoch:      func() uint64 { return 0 },
		now:        time.Now,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		obs:        nopObserver{},
	}
	for _, o := range opts {
		o(p)
	}
	p.log = p.log.With("component", "poller")
	p.SetGroups(cfg.Groups)
	return p, nil
}

// Groups returns a copy of the current group list.
func (p *Poller) Groups() []string {
	return slices.Clone(*p.groups.Load())
}

// SetGroups replaces the group list. Takes effect on the next cycle.
func (p *Poller) SetGroups(groups []string) {
	g := slices.Clone(groups)
	p.groups.Store(&g)
}

type fetched struct {
	records []status.Record
	err     error
	d       time.Duration
}

// PollOnce performs at most one poll cycle.
//
// A cycle attempted before the gate opens is skipped outright: nothing is
// queued for later. Otherwise every group is fetched exactly once and the
// cycle waits for all of them. A group that fails is skipped for this cycle
// and its entities keep their last known status.
//
// At most one cycle is in flight. A call made while another cycle is
// fetching returns OutcomeBusy at once and does not touch the gate.
func (p *Poller) PollOnce(ctx context.Context) CycleResult {
	res := CycleResult{At: p.now()}

	if !p.enabled() {
		res.Outcome = OutcomeDisabled
		p.obs.CycleObserved(res.Outcome)
		return res
	}
	if !p.busy.CompareAndSwap(false, true) {
		res.Outcome = OutcomeBusy
		p.obs.CycleObserved(res.Outcome)
		return res
	}
	defer p.busy.Store(false)

	if !p.gate.AllowN(res.At, 1) {
		res.Outcome = OutcomeGated
		p.obs.CycleObserved(res.Outcome)
		return res
	}
	epoch := p.epoch()

	res.ID = uuid.NewString()
	log := p.log.With("cycle", res.ID)
	groups := p.Groups()

	results := make([]fetched, len(groups))
	var eg errgroup.Group
	eg.SetLimit(p.cfg.Concurrency)
	for i, g := range groups {
		i, g := i, g
		eg.Go(func() error {
			start := time.Now()
			recs, err := p.fetcher.FetchGroup(ctx, g)
			results[i] = fetched{records: recs, err: err, d: time.Since(start)}
			return nil
		})
	}
	_ = eg.Wait()

	// Late results after a disable are dropped, never merged.
	if !p.enabled() || p.epoch() != epoch {
		res.Outcome = OutcomeDiscarded
		p.obs.CycleObserved(res.Outcome)
		log.Info("poll results discarded, sync disabled during fetch", "groups", len(groups))
		return res
	}

	res.Outcome = OutcomeCompleted
	for i, g := range groups {
		f := results[i]
		gr := GroupResult{Group: g, Err: f.err, Duration: f.d}
		p.obs.GroupFetched(g, f.d, f.err)

		if f.err != nil {
			log.Warn("group fetch failed, keeping last known state", "group", g, "error", f.err)
		} else {
			gr.Merged = p.merge(g, f.records, res.At)
			log.Debug("group merged", "group", g, "entities", gr.Merged, "took", f.d)
		}
		res.Groups = append(res.Groups, gr)
	}
	p.obs.CycleObserved(res.Outcome)
	return res
}

// merge classifies one group's records against the current Store and
// publishes them in a single replacement.
func (p *Poller) merge(group string, recs []status.Record, observedAt time.Time) int {
	snap := p.store.Snapshot()

	batch := make([]status.Status, 0, len(recs))
	for _, r := range recs {
		next := p.classifier.Classify(snap.Get(r.ID), r, observedAt)
		next.Group = group
		batch = append(batch, next)
	}
	p.store.Merge(batch)
	return len(batch)
}
