package status

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	hits, misses int
}

func (c *countingObserver) CacheHit()  { c.hits++ }
func (c *countingObserver) CacheMiss() { c.misses++ }

func TestAbbreviator_MemoizesByRawDescription(t *testing.T) {
	obs := &countingObserver{}
	a := NewAbbreviator(nil, obs)

	first := a.Lookup("Traveling to Switzerland")
	second := a.Lookup("Traveling to Switzerland")

	require.Equal(t, first, second)
	require.Equal(t, "SWI", first.Location)
	require.Equal(t, "Traveling to SWI", first.Text)
	require.Equal(t, 1, obs.misses)
	require.Equal(t, 1, obs.hits)
	require.Equal(t, 1, a.Len())
}

func TestAbbreviator_FoldsCaseAccentsAndSpacing(t *testing.T) {
	a := NewAbbreviator(map[string]string{"São Paulo": "SP"}, nil)

	require.Equal(t, "SP", a.Lookup("In sao  PAULO").Location)
	require.Equal(t, "SP", a.Lookup("In São Paulo").Location)
	require.Equal(t, "UK", a.Lookup("traveling to united kingdom").Location)
}

func TestAbbreviator_Returning(t *testing.T) {
	a := NewAbbreviator(nil, nil)

	ab := a.Lookup("Returning to Torn from South Africa")

	require.True(t, ab.Returning)
	require.Equal(t, "SA", ab.Location)
	require.Equal(t, "Returning to Torn from SA", ab.Text)
}

func TestAbbreviator_UnknownPlaceKeptVerbatim(t *testing.T) {
	a := NewAbbreviator(nil, nil)

	ab := a.Lookup("Traveling to Atlantis.")

	require.Equal(t, "Atlantis", ab.Location)
}

func TestAbbreviator_PlainDescriptionUntouched(t *testing.T) {
	a := NewAbbreviator(nil, nil)

	ab := a.Lookup("Okay")

	require.Equal(t, "Okay", ab.Text)
	require.Empty(t, ab.Location)
	require.False(t, ab.Returning)
}

func TestAbbreviator_ExtraOverridesDefault(t *testing.T) {
	a := NewAbbreviator(map[string]string{"Mexico": "MX"}, nil)

	require.Equal(t, "MX", a.Lookup("In Mexico").Location)
}
