package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchGroups_AppliesValidReloadsOnly(t *testing.T) {
	path := writeFile(t, "rosterwatch:\n  provider: {base_url: http://p.local}\n  groups: [a]\n")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	var (
		mu  sync.Mutex
		got [][]string
	)
	apply := func(groups []string) {
		mu.Lock()
		got = append(got, groups)
		mu.Unlock()
	}
	snapshot := func() [][]string {
		mu.Lock()
		defer mu.Unlock()
		return append([][]string(nil), got...)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- WatchGroups(ctx, path, log, apply) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	// invalid: no groups -> ignored
	require.NoError(t, os.WriteFile(path, []byte("rosterwatch:\n  provider: {base_url: http://p.local}\n  groups: []\n"), 0o644))
	time.Sleep(2 * ReloadDebounce)
	require.Empty(t, snapshot())

	require.NoError(t, os.WriteFile(path, []byte("rosterwatch:\n  provider: {base_url: http://p.local}\n  groups: [a, b]\n"), 0o644))
	require.Eventually(t, func() bool {
		s := snapshot()
		return len(s) > 0 && len(s[len(s)-1]) == 2
	}, 3*time.Second, 20*time.Millisecond)

	s := snapshot()
	require.Equal(t, []string{"a", "b"}, s[len(s)-1])

	cancel()
	require.NoError(t, <-done)
}
