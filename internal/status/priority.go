// internal/status/priority.go
package status

import (
	"fmt"
	"time"
)

// Tier is the primary sort bucket, lower = more urgent.
type Tier int

const (
	TierCountdown Tier = 0 // incapacitated/confined, expiry in the future
	TierDefault   Tier = 1 // healthy, unknown, expired countdowns
	TierOutbound  Tier = 3
	TierArrived   Tier = 4
	TierReturning Tier = 5
)

// Travel reports whether the tier belongs to the travel family, where rows
// are sub-grouped by location.
func (t Tier) Travel() bool {
	return t >= TierOutbound && t <= TierReturning
}

// Priority is everything the sort engine needs for one entity.
type Priority struct {
	Tier  Tier
	Group string    // location, travel tiers only
	Until time.Time // countdown tier only
	Since time.Time
}

// Countdown reports whether the entity is ranked by remaining time.
func (p Priority) Countdown() bool { return p.Tier == TierCountdown }

// Prioritize assigns the tier for s at now. Rules are evaluated in order;
// the first match wins. A nil status ranks as default with zero Since.
func Prioritize(s *Status, now time.Time) Priority {
	if s == nil {
		return Priority{Tier: TierDefault}
	}
	p := Priority{Since: s.Since}

	switch {
	case s.State.Countdown() && s.Until.After(now):
		p.Tier = TierCountdown
		p.Until = s.Until
	case s.State == StateTraveling && s.Phase == PhaseOutbound:
		p.Tier = TierOutbound
		p.Group = s.Location
	case s.State == StateRemote:
		p.Tier = TierArrived
		p.Group = s.Location
	case s.State == StateTraveling && s.Phase == PhaseReturning:
		p.Tier = TierReturning
		p.Group = s.Location
	default:
		p.Tier = TierDefault
	}
	return p
}

// NeutralText is shown for entities the Store has not seen yet.
const NeutralText = "unknown"

// View is the rendered form of one entity at one instant.
type View struct {
	Priority

	Text      string
	Countdown string        // HH:MM:SS, countdown tier only
	Remaining time.Duration // countdown tier only
	Urgent    bool
}

// Present renders s at now. A countdown row is urgent when strictly less
// than threshold remains. Nothing here depends on a fresh poll: an expiry
// that passes between polls drops the row back to the default tier.
func Present(s *Status, now time.Time, threshold time.Duration) View {
	v := View{Priority: Prioritize(s, now)}
	if s == nil {
		v.Text = NeutralText
		return v
	}

	switch v.Tier {
	case TierCountdown:
		v.Remaining = s.Until.Sub(now)
		v.Countdown = FormatCountdown(v.Remaining)
		v.Text = labelOr(s, s.State.String()) + " " + v.Countdown
		v.Urgent = v.Remaining < threshold
	case TierOutbound:
		v.Text = travelText("→ ", s)
	case TierArrived:
		v.Text = travelText("in ", s)
	case TierReturning:
		v.Text = travelText("← ", s)
	default:
		v.Text = labelOr(s, s.Description)
		if v.Text == "" {
			v.Text = s.State.String()
		}
	}
	return v
}

// FormatCountdown renders d as HH:MM:SS, rounding up to whole seconds so a
// countdown never shows 00:00:00 while time remains. Hours may exceed 99.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

func labelOr(s *Status, fallback string) string {
	if s.Label != "" {
		return s.Label
	}
	return fallback
}

func travelText(prefix string, s *Status) string {
	if s.Location != "" {
		return prefix + s.Location
	}
	if s.Description != "" {
		return s.Description
	}
	return s.State.String()
}
