package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPresent_CountdownAtThresholdIsNotUrgent(t *testing.T) {
	s := &Status{State: StateIncapacitated, Label: "Hospital", Until: t0.Add(300 * time.Second)}

	v := Present(s, t0, 300*time.Second)

	require.Equal(t, TierCountdown, v.Tier)
	require.Equal(t, "00:05:00", v.Countdown)
	require.Equal(t, "Hospital 00:05:00", v.Text)
	require.False(t, v.Urgent, "exactly at threshold must not highlight")

	v = Present(s, t0.Add(time.Second), 300*time.Second)
	require.True(t, v.Urgent)
	require.Equal(t, "00:04:59", v.Countdown)
}

func TestPresent_ExpiredCountdownFallsBackLocally(t *testing.T) {
	s := &Status{
		State: StateConfined,
		Label: "Jail",
		Until: t0.Add(10 * time.Second),
		Since: t0.Add(-time.Hour),
	}

	before := Present(s, t0, time.Minute)
	require.Equal(t, TierCountdown, before.Tier)
	require.True(t, before.Urgent)

	after := Present(s, t0.Add(10*time.Second), time.Minute)
	require.Equal(t, TierDefault, after.Tier)
	require.False(t, after.Urgent)
	require.Empty(t, after.Countdown)
	require.Equal(t, "Jail", after.Text)
	require.Equal(t, s.Since, after.Since)
}

func TestPrioritize_TierTable(t *testing.T) {
	cases := []struct {
		name string
		s    Status
		tier Tier
		grp  string
	}{
		{"healthy", Status{State: StateHealthy}, TierDefault, ""},
		{"unknown", Status{State: StateUnknown}, TierDefault, ""},
		{"hospital", Status{State: StateIncapacitated, Until: t0.Add(time.Minute)}, TierCountdown, ""},
		{"hospital expired", Status{State: StateIncapacitated, Until: t0}, TierDefault, ""},
		{"outbound", Status{State: StateTraveling, Phase: PhaseOutbound, Location: "MEX"}, TierOutbound, "MEX"},
		{"arrived", Status{State: StateRemote, Phase: PhaseArrived, Location: "UK"}, TierArrived, "UK"},
		{"returning", Status{State: StateTraveling, Phase: PhaseReturning, Location: "JPN"}, TierReturning, "JPN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Prioritize(&tc.s, t0)
			require.Equal(t, tc.tier, p.Tier)
			require.Equal(t, tc.grp, p.Group)
		})
	}
}

func TestPresent_NilIsNeutral(t *testing.T) {
	v := Present(nil, t0, time.Minute)

	require.Equal(t, NeutralText, v.Text)
	require.Equal(t, TierDefault, v.Tier)
	require.False(t, v.Urgent)
}

func TestPresent_TravelText(t *testing.T) {
	out := Present(&Status{State: StateTraveling, Phase: PhaseOutbound, Location: "MEX"}, t0, 0)
	require.Equal(t, "→ MEX", out.Text)

	in := Present(&Status{State: StateRemote, Phase: PhaseArrived, Location: "MEX"}, t0, 0)
	require.Equal(t, "in MEX", in.Text)

	back := Present(&Status{State: StateTraveling, Phase: PhaseReturning, Location: "MEX"}, t0, 0)
	require.Equal(t, "← MEX", back.Text)
}

func TestFormatCountdown(t *testing.T) {
	require.Equal(t, "00:00:00", FormatCountdown(-time.Second))
	require.Equal(t, "00:00:01", FormatCountdown(200*time.Millisecond))
	require.Equal(t, "01:01:01", FormatCountdown(time.Hour+time.Minute+time.Second))
	require.Equal(t, "120:00:00", FormatCountdown(120*time.Hour))
}
