// internal/config/normalize.go
package config

import (
	"strings"
	"time"
)

// Defaults applied by Normalize.
const (
	DefaultProviderTimeoutMs  = 10_000
	DefaultPollIntervalMs     = 30_000
	DefaultPollTickMs         = 1_000
	DefaultPollConcurrency    = 4
	DefaultRenderIntervalMs   = 500
	DefaultHighlightThreshold = 300
	DefaultMirrorMaxSlots     = 100
	DefaultMirrorTimeoutMs    = 2_000
	DefaultLogFile            = "rosterwatch.log"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	rw := &cfg.Rosterwatch

	rw.Provider.BaseURL = strings.TrimRight(strings.TrimSpace(rw.Provider.BaseURL), "/")
	if rw.Provider.TimeoutMs == 0 {
		rw.Provider.TimeoutMs = DefaultProviderTimeoutMs
	}

	rw.Groups = NormalizeGroups(rw.Groups)

	if rw.Poll.IntervalMs == 0 {
		rw.Poll.IntervalMs = DefaultPollIntervalMs
	}
	if rw.Poll.TickMs == 0 {
		rw.Poll.TickMs = DefaultPollTickMs
	}
	// Waking up more often than the gate opens is fine; waking up less often is not.
	if rw.Poll.TickMs > rw.Poll.IntervalMs {
		rw.Poll.TickMs = rw.Poll.IntervalMs
	}
	if rw.Poll.Concurrency == 0 {
		rw.Poll.Concurrency = DefaultPollConcurrency
	}

	if rw.Render.IntervalMs == 0 {
		rw.Render.IntervalMs = DefaultRenderIntervalMs
	}
	if rw.Render.HighlightThresholdSeconds == nil {
		n := DefaultHighlightThreshold
		rw.Render.HighlightThresholdSeconds = &n
	}

	if rw.Mirror.Enabled {
		if rw.Mirror.Protocol == "" {
			rw.Mirror.Protocol = "modbus"
		}
		if rw.Mirror.MaxSlots == 0 {
			rw.Mirror.MaxSlots = DefaultMirrorMaxSlots
		}
		if rw.Mirror.TimeoutMs == 0 {
			rw.Mirror.TimeoutMs = DefaultMirrorTimeoutMs
		}
	}

	rw.Log.Level = strings.ToLower(rw.Log.Level)
	if rw.Log.Level == "" {
		rw.Log.Level = "info"
	}
	if rw.Log.File == "" {
		rw.Log.File = DefaultLogFile
	}
}

// NormalizeGroups trims group ids. Order is preserved.
func NormalizeGroups(groups []string) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, strings.TrimSpace(g))
	}
	return out
}

// ---- duration helpers ----

func (p PollConfig) Interval() time.Duration { return ms(p.IntervalMs) }
func (p PollConfig) Tick() time.Duration     { return ms(p.TickMs) }

func (r RenderConfig) Interval() time.Duration { return ms(r.IntervalMs) }

// HighlightThreshold is the configured threshold, or the default when unset.
func (r RenderConfig) HighlightThreshold() time.Duration {
	if r.HighlightThresholdSeconds == nil {
		return DefaultHighlightThreshold * time.Second
	}
	return time.Duration(*r.HighlightThresholdSeconds) * time.Second
}

func (p ProviderConfig) Timeout() time.Duration { return ms(p.TimeoutMs) }
func (m MirrorConfig) Timeout() time.Duration   { return ms(m.TimeoutMs) }

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }
