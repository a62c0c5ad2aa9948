// internal/status/abbrev.go
package status

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Observer receives memo cache outcomes (metrics).
type Observer interface {
	CacheHit()
	CacheMiss()
}

// DefaultAbbreviations collapses provider place names to short tokens.
// Keys are matched after folding (case, accents, spacing).
var DefaultAbbreviations = map[string]string{
	"Mexico":               "MEX",
	"Cayman Islands":       "CAY",
	"Canada":               "CAN",
	"Hawaii":               "HAW",
	"United Kingdom":       "UK",
	"Argentina":            "ARG",
	"Switzerland":          "SWI",
	"Japan":                "JPN",
	"China":                "CHN",
	"United Arab Emirates": "UAE",
	"UAE":                  "UAE",
	"South Africa":         "SA",
}

// Abbreviation is the memoized result for one raw description.
type Abbreviation struct {
	Text      string // description with the place collapsed
	Location  string // short place token, empty when none was found
	Returning bool   // "Returning ... from <place>"
}

// Abbreviator memoizes description abbreviation.
//
// The memo is keyed by the raw description and never evicted: provider
// descriptions come from a small fixed vocabulary. A deployment fed by an
// open-ended vocabulary should bound it (LRU) instead.
type Abbreviator struct {
	mu    sync.Mutex
	names map[string]string // folded long name -> short
	memo  map[string]Abbreviation
	obs   Observer
}

// NewAbbreviator builds an abbreviator from DefaultAbbreviations plus extra.
// extra wins on conflicts. obs may be nil.
func NewAbbreviator(extra map[string]string, obs Observer) *Abbreviator {
	a := &Abbreviator{
		names: make(map[string]string, len(DefaultAbbreviations)+len(extra)),
		memo:  make(map[string]Abbreviation),
		obs:   obs,
	}
	for long, short := range DefaultAbbreviations {
		a.names[fold(long)] = short
	}
	for long, short := range extra {
		a.names[fold(long)] = strings.TrimSpace(short)
	}
	return a
}

// Lookup returns the abbreviation for desc, computing it on first use.
func (a *Abbreviator) Lookup(desc string) Abbreviation {
	a.mu.Lock()
	defer a.mu.Unlock()

	if ab, ok := a.memo[desc]; ok {
		if a.obs != nil {
			a.obs.CacheHit()
		}
		return ab
	}
	if a.obs != nil {
		a.obs.CacheMiss()
	}

	ab := a.compute(desc)
	a.memo[desc] = ab
	return ab
}

// Len returns the number of memoized descriptions.
func (a *Abbreviator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.memo)
}

// short returns the token for a place name, or the name itself.
func (a *Abbreviator) short(place string) string {
	if s, ok := a.names[fold(place)]; ok {
		return s
	}
	return place
}

func (a *Abbreviator) compute(desc string) Abbreviation {
	desc = strings.TrimSpace(desc)
	ab := Abbreviation{Text: desc}

	start := placeStart(desc)
	if start < 0 {
		return ab
	}
	place := strings.TrimRight(strings.TrimSpace(desc[start:]), ".!")
	if place == "" {
		return ab
	}

	ab.Location = a.short(place)
	ab.Returning = hasPrefixFold(desc, "returning")
	ab.Text = strings.TrimSpace(desc[:start]) + " " + ab.Location
	return ab
}

// placeStart finds where the place name begins in the three travel
// phrasings the provider uses:
//
//	Traveling to <place>
//	Returning to <home> from <place>
//	In <place>
//
// Returns -1 when desc is none of them.
func placeStart(desc string) int {
	if hasPrefixFold(desc, "returning") {
		if i := indexFold(desc, " from "); i >= 0 {
			return i + len(" from ")
		}
		return -1
	}
	for _, p := range []string{"traveling to ", "travelling to ", "in "} {
		if hasPrefixFold(desc, p) {
			return len(p)
		}
	}
	return -1
}

// ---- folding helpers ----

// fold normalizes a name for table lookup: accents removed, lower case,
// single spaces.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// hasPrefixFold is an ASCII case-insensitive HasPrefix.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// indexFold is an ASCII case-insensitive LastIndex over bytes, so the
// returned offset is valid in s.
func indexFold(s, sub string) int {
	for i := len(s) - len(sub); i >= 0; i-- {
		if strings.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
