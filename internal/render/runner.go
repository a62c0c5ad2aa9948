// internal/render/runner.go
package render

import (
	"context"
	"errors"
	"time"
)

// Runner drives an Engine on a fixed cadence while the surface is visible.
type Runner struct {
	engine  *Engine
	every   time.Duration
	now     func() time.Time
	prepare func()
	onTick  func(TickResult)
}

type RunnerOption func(*Runner)

// WithPrepare runs fn before every tick, e.g. element discovery.
func WithPrepare(fn func()) RunnerOption { return func(r *Runner) { r.prepare = fn } }

// WithTickHook receives every tick result.
func WithTickHook(fn func(TickResult)) RunnerOption { return func(r *Runner) { r.onTick = fn } }

func WithRunnerClock(fn func() time.Time) RunnerOption { return func(r *Runner) { r.now = fn } }

func NewRunner(e *Engine, every time.Duration, opts ...RunnerOption) (*Runner, error) {
	if e == nil {
		return nil, errors.New("render: engine required")
	}
	if every <= 0 {
		return nil, errors.New("render: interval must be > 0")
	}
	r := &Runner{engine: e, every: every, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Run ticks until ctx is done. The surface starts visible.
//
// A false on visible stops the ticker; nothing is queued while hidden.
// A true ticks at once from the current Store, then restarts the ticker.
// A nil or closed channel leaves visibility as it is.
func (r *Runner) Run(ctx context.Context, visible <-chan bool) {
	var (
		ticker *time.Ticker
		tc     <-chan time.Time
	)
	resume := func() {
		r.tick()
		ticker = time.NewTicker(r.every)
		tc = ticker.C
	}
	suspend := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tc = nil, nil
		}
	}
	defer suspend()

	resume()
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-visible:
			switch {
			case !ok:
				visible = nil
			case v && ticker == nil:
				resume()
			case !v:
				suspend()
			}
		case <-tc:
			r.tick()
		}
	}
}

func (r *Runner) tick() {
	if r.prepare != nil {
		r.prepare()
	}
	res := r.engine.Tick(r.now())
	if r.onTick != nil {
		r.onTick(res)
	}
}
