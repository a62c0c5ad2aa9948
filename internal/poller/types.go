// internal/poller/types.go
package poller

import (
	"context"
	"time"

	"github.com/tamzrod/rosterwatch/internal/status"
)

// Fetcher abstracts the status provider.
// One call = one remote request for one group.
type Fetcher interface {
	FetchGroup(ctx context.Context, group string) ([]status.Record, error)
}

// Outcome of one PollOnce call.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed" // fetched; some groups may still have failed
	OutcomeGated     Outcome = "gated"     // gate not elapsed, zero requests
	OutcomeBusy      Outcome = "busy"      // another cycle still in flight, zero requests
	OutcomeDisabled  Outcome = "disabled"  // feature off before dispatch
	OutcomeDiscarded Outcome = "discarded" // feature turned off while fetching
)

// GroupResult is the raw result of a single group fetch.
type GroupResult struct {
	Group    string
	Merged   int // entities merged into the store
	Err      error
	Duration time.Duration
}

// CycleResult is produced by one poll cycle.
type CycleResult struct {
	ID      string // empty for cycles that never dispatched
	At      time.Time
	Outcome Outcome
	Groups  []GroupResult
}

// Dispatched reports whether the cycle issued requests.
func (r CycleResult) Dispatched() bool { return r.ID != "" }

// Failed counts groups whose merge was skipped.
func (r CycleResult) Failed() int {
	n := 0
	for _, g := range r.Groups {
		if g.Err != nil {
			n++
		}
	}
	return n
}

// Observer receives per-cycle and per-group outcomes (metrics).
type Observer interface {
	CycleObserved(o Outcome)
	GroupFetched(group string, d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) CycleObserved(Outcome)                      {}
func (nopObserver) GroupFetched(string, time.Duration, error) {}
