// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are legal wherever Normalize supplies a default.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	rw := cfg.Rosterwatch

	// ------------------------------------------------------------
	// PROVIDER
	// ------------------------------------------------------------

	if strings.TrimSpace(rw.Provider.BaseURL) == "" {
		return errors.New("provider.base_url is required")
	}
	u, err := url.Parse(rw.Provider.BaseURL)
	if err != nil {
		return fmt.Errorf("provider.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("provider.base_url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("provider.base_url: host is required")
	}
	if rw.Provider.TimeoutMs < 0 {
		return fmt.Errorf("provider.timeout_ms must be >= 0, got %d", rw.Provider.TimeoutMs)
	}

	// ------------------------------------------------------------
	// GROUPS
	// ------------------------------------------------------------

	if err := ValidateGroups(rw.Groups); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// CADENCE
	// ------------------------------------------------------------

	if rw.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll.interval_ms must be >= 0, got %d", rw.Poll.IntervalMs)
	}
	if rw.Poll.TickMs < 0 {
		return fmt.Errorf("poll.tick_ms must be >= 0, got %d", rw.Poll.TickMs)
	}
	if rw.Poll.Concurrency < 0 {
		return fmt.Errorf("poll.concurrency must be >= 0, got %d", rw.Poll.Concurrency)
	}
	if rw.Render.IntervalMs < 0 {
		return fmt.Errorf("render.interval_ms must be >= 0, got %d", rw.Render.IntervalMs)
	}
	if n := rw.Render.HighlightThresholdSeconds; n != nil && *n < 0 {
		return fmt.Errorf(
			"render.incapacitation_highlight_threshold_seconds must be >= 0, got %d",
			*n,
		)
	}

	// ------------------------------------------------------------
	// ABBREVIATIONS
	// ------------------------------------------------------------

	for long, short := range rw.Abbreviations {
		if strings.TrimSpace(long) == "" || strings.TrimSpace(short) == "" {
			return fmt.Errorf("abbreviations: empty entry %q -> %q", long, short)
		}
	}

	// ------------------------------------------------------------
	// MIRROR (OPT-IN)
	// ------------------------------------------------------------

	if rw.Mirror.Enabled {
		switch rw.Mirror.Protocol {
		case "", "modbus", "ingest":
		default:
			return fmt.Errorf("mirror.protocol: unsupported %q (want modbus or ingest)", rw.Mirror.Protocol)
		}
		if rw.Mirror.Endpoint == "" {
			return errors.New("mirror.endpoint is required when mirror is enabled")
		}
		if rw.Mirror.MaxSlots < 0 {
			return fmt.Errorf("mirror.max_slots must be >= 0, got %d", rw.Mirror.MaxSlots)
		}
		if rw.Mirror.TimeoutMs < 0 {
			return fmt.Errorf("mirror.timeout_ms must be >= 0, got %d", rw.Mirror.TimeoutMs)
		}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch strings.ToLower(rw.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unsupported %q", rw.Log.Level)
	}

	return nil
}

// ValidateGroups checks a group list on its own.
// Used at startup and for every hot reload.
func ValidateGroups(groups []string) error {
	if len(groups) == 0 {
		return errors.New("groups: at least one group is required")
	}
	seen := make(map[string]struct{}, len(groups))
	for i, g := range groups {
		g = strings.TrimSpace(g)
		if g == "" {
			return fmt.Errorf("groups[%d]: empty group id", i)
		}
		if _, dup := seen[g]; dup {
			return fmt.Errorf("groups[%d]: duplicate group id %q", i, g)
		}
		seen[g] = struct{}{}
	}
	return nil
}
