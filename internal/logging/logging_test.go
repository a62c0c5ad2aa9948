package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_FileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rw.log")
	var console bytes.Buffer

	l, err := New(Options{Level: "debug", File: path, Console: true, Stderr: &console})
	require.NoError(t, err)

	l.Debug("hello", "group", "g1")
	require.NoError(t, l.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "msg=hello")
	require.Contains(t, string(raw), "group=g1")
	require.Contains(t, console.String(), "msg=hello")
}

func TestNew_LevelFilters(t *testing.T) {
	var console bytes.Buffer
	l, err := New(Options{Level: "warn", Console: true, Stderr: &console})
	require.NoError(t, err)

	l.Info("quiet")
	l.Warn("loud")
	require.NotContains(t, console.String(), "quiet")
	require.Contains(t, console.String(), "loud")
	require.NoError(t, l.Close())
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}
