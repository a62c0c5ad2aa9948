// internal/engine/coordinator.go
package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/tamzrod/rosterwatch/internal/config"
	"github.com/tamzrod/rosterwatch/internal/poller"
	"github.com/tamzrod/rosterwatch/internal/render"
	"github.com/tamzrod/rosterwatch/internal/status"
)

// Deps are the optional collaborators of a Coordinator.
type Deps struct {
	Logger        *slog.Logger
	PollObserver  poller.Observer
	CacheObserver status.Observer
	Clock         func() time.Time

	// Fetcher overrides the HTTP provider built from config.
	Fetcher poller.Fetcher
}

// Coordinator owns the Status Store, the Poller that feeds it and the
// enabled token both cadences honor. Surfaces read the Store it exposes.
type Coordinator struct {
	store  *status.Store
	poller *poller.Poller
	log    *slog.Logger
	now    func() time.Time

	enabled atomic.Bool
	epoch   atomic.Uint64 // bumped on every disable
	last    atomic.Pointer[poller.CycleResult]

	pollTick  time.Duration
	threshold time.Duration
	render    time.Duration
}

// New wires the Store, Classifier and Poller from a validated, normalized
// config. Sync starts enabled.
func New(c *config.Config, d Deps) (*Coordinator, error) {
	if c == nil {
		return nil, errors.New("engine: config required")
	}
	rw := c.Rosterwatch

	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}

	co := &Coordinator{
		store:     status.NewStore(),
		log:       d.Logger.With("component", "engine"),
		now:       d.Clock,
		pollTick:  rw.Poll.Tick(),
		threshold: rw.Render.HighlightThreshold(),
		render:    rw.Render.Interval(),
	}
	co.enabled.Store(true)

	classifier := status.NewClassifier(status.NewAbbreviator(rw.Abbreviations, d.CacheObserver))

	opts := []poller.Option{
		poller.WithEnabled(co.enabled.Load),
		poller.WithEpoch(co.epoch.Load),
		poller.WithClock(d.Clock),
		poller.WithLogger(d.Logger),
	}
	if d.PollObserver != nil {
		opts = append(opts, poller.WithObserver(d.PollObserver))
	}

	var err error
	if d.Fetcher != nil {
		co.poller, err = poller.New(poller.Config{
			Interval:    rw.Poll.Interval(),
			Groups:      rw.Groups,
			Concurrency: rw.Poll.Concurrency,
		}, d.Fetcher, co.store, classifier, opts...)
	} else {
		co.poller, err = poller.Build(c, co.store, classifier, opts...)
	}
	if err != nil {
		return nil, err
	}
	return co, nil
}

// Store is the shared Status Store. Only the poller writes to it.
func (c *Coordinator) Store() *status.Store { return c.store }

func (c *Coordinator) Threshold() time.Duration      { return c.threshold }
func (c *Coordinator) RenderInterval() time.Duration { return c.render }

// ---- enabled token ----

func (c *Coordinator) Enabled() bool { return c.enabled.Load() }

// Enable resumes polling on the next tick.
func (c *Coordinator) Enable() {
	if !c.enabled.Swap(true) {
		c.log.Info("sync enabled")
	}
}

// Disable stops dispatching polls. A fetch already in flight is
// discarded when it returns.
func (c *Coordinator) Disable() {
	if c.enabled.Swap(false) {
		c.epoch.Add(1)
		c.log.Info("sync disabled")
	}
}

// Toggle flips the token and returns the new value.
func (c *Coordinator) Toggle() bool {
	if c.Enabled() {
		c.Disable()
		return false
	}
	c.Enable()
	return true
}

// ---- polling ----

// Run drives the poller until ctx is done.
func (c *Coordinator) Run(ctx context.Context) error {
	results := make(chan poller.CycleResult, 1)
	go c.poller.Run(ctx, c.pollTick, results)

	for {
		select {
		case <-ctx.Done():
			return nil
		case res := <-results:
			c.record(res)
		}
	}
}

// Refresh attempts one cycle now. The gate still applies.
func (c *Coordinator) Refresh(ctx context.Context) poller.CycleResult {
	res := c.poller.PollOnce(ctx)
	c.record(res)
	return res
}

// Last returns the most recent cycle that dispatched requests.
func (c *Coordinator) Last() (poller.CycleResult, bool) {
	p := c.last.Load()
	if p == nil {
		return poller.CycleResult{}, false
	}
	return *p, true
}

func (c *Coordinator) record(res poller.CycleResult) {
	if !res.Dispatched() {
		return
	}
	c.last.Store(&res)
	if n := res.Failed(); n > 0 {
		c.log.Warn("poll cycle finished with failures", "cycle", res.ID, "failed", n, "groups", len(res.Groups))
	}
}

// ---- groups ----

func (c *Coordinator) Groups() []string { return c.poller.Groups() }

// SetGroups swaps the polled groups. Entities of removed groups stay in the
// Store but leave the roster.
func (c *Coordinator) SetGroups(groups []string) {
	c.poller.SetGroups(groups)
	c.log.Info("groups updated", "groups", groups)
}

// Roster returns the current groups' entities ranked at now.
func (c *Coordinator) Roster() []render.Row {
	entries := c.store.Snapshot().InGroups(c.Groups())
	return render.Rank(entries, c.now(), c.threshold)
}
