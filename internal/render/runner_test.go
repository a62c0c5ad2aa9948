package render

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tamzrod/rosterwatch/internal/status"
)

func TestNewRunner_Validation(t *testing.T) {
	_, err := NewRunner(nil, time.Second)
	require.Error(t, err)

	e := newEngine(t, status.NewStore(), newFakeSurface())
	_, err = NewRunner(e, 0)
	require.Error(t, err)
}

// While hidden nothing is written; on resume the first tick shows the
// Store as it is now, not a replay of the ticks that were missed.
func TestRunner_SuspendResume(t *testing.T) {
	store := status.NewStore()
	store.Merge([]status.Status{healthy("x", t0)})
	s := newFakeSurface()
	el := s.add("x")
	e := newEngine(t, store, s)

	ticks := make(chan TickResult, 16)
	r, err := NewRunner(e, time.Hour,
		WithRunnerClock(func() time.Time { return t0 }),
		WithTickHook(func(res TickResult) { ticks <- res }),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	visible := make(chan bool)
	done := make(chan struct{})
	go func() {
		r.Run(ctx, visible)
		close(done)
	}()

	<-ticks
	require.Equal(t, "Okay", el.text)

	visible <- false
	store.Merge([]status.Status{hospital("x", t0.Add(90*time.Second))})
	store.Merge([]status.Status{hospital("x", t0.Add(120*time.Second))})

	visible <- false // already hidden, still no tick
	require.Empty(t, ticks)

	visible <- true
	res := <-ticks
	require.Equal(t, "Hospital 00:02:00", el.text)
	require.Equal(t, 2, s.commits, "one commit before hiding, one after resume")
	require.Positive(t, res.Mutations)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop")
	}
}

func TestRunner_NoTicksWhileHidden(t *testing.T) {
	store := status.NewStore()
	s := newFakeSurface()
	s.add("x")
	e := newEngine(t, store, s)

	var n, prepared atomic.Int64
	r, err := NewRunner(e, 2*time.Millisecond,
		WithPrepare(func() { prepared.Add(1) }),
		WithTickHook(func(TickResult) { n.Add(1) }),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	visible := make(chan bool)
	done := make(chan struct{})
	go func() {
		r.Run(ctx, visible)
		close(done)
	}()

	require.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)

	visible <- false
	hidden := n.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, hidden, n.Load())

	visible <- true
	require.Eventually(t, func() bool { return n.Load() > hidden }, time.Second, time.Millisecond)

	cancel()
	<-done
	require.Equal(t, n.Load(), prepared.Load())
}
