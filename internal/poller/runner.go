// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run polls once immediately, then on every tick until ctx is done.
// Each tick calls PollOnce; the gate decides whether anything is fetched.
// Results (skipped cycles included) are sent on out when it is non-nil.
// One goroutine. No overlap. No retries.
func (p *Poller) Run(ctx context.Context, every time.Duration, out chan<- CycleResult) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	emit(ctx, out, p.PollOnce(ctx))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			emit(ctx, out, p.PollOnce(ctx))
		}
	}
}

func emit(ctx context.Context, out chan<- CycleResult, res CycleResult) {
	if out == nil {
		return
	}
	select {
	case out <- res:
	case <-ctx.Done():
	}
}
