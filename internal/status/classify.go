// internal/status/classify.go
package status

import (
	"strings"
	"time"
)

// Classifier turns provider records into Status values.
// Classify itself is pure apart from the abbreviation memo.
type Classifier struct {
	abbrev *Abbreviator
}

func NewClassifier(a *Abbreviator) *Classifier {
	if a == nil {
		a = NewAbbreviator(nil, nil)
	}
	return &Classifier{abbrev: a}
}

// Classify builds the next Status for raw given the previous one (nil on
// first observation) and the observation time.
//
// Since and TransitionUncertainty survive when the state is unchanged.
// On a change Since becomes now; entering Traveling from anything else
// records how long it had been since the previous observation.
func (c *Classifier) Classify(prev *Status, raw Record, now time.Time) Status {
	state := ParseState(raw.State)
	ab := c.abbrev.Lookup(raw.Description)

	next := Status{
		ID:             raw.ID,
		Name:           raw.Name,
		State:          state,
		Label:          strings.TrimSpace(raw.State),
		Description:    ab.Text,
		Phase:          phaseOf(state, ab),
		LastObservedAt: now,
	}
	if state == StateTraveling || state == StateRemote {
		next.Location = ab.Location
	}
	if raw.Until > 0 {
		next.Until = time.Unix(raw.Until, 0)
	}

	if prev != nil && sameState(prev, next.State, next.Label) {
		next.Since = prev.Since
		next.TransitionUncertainty = prev.TransitionUncertainty
		return next
	}

	next.Since = now
	if state == StateTraveling && prev != nil && prev.State != StateTraveling {
		if d := now.Sub(prev.LastObservedAt); d > 0 {
			next.TransitionUncertainty = d
		}
	}
	return next
}

// sameState compares state identity. Unknown states are told apart by
// their provider word so that a change between two unrecognized words
// still counts as a transition.
func sameState(prev *Status, state State, label string) bool {
	if prev.State != state {
		return false
	}
	if state == StateUnknown {
		return strings.EqualFold(prev.Label, label)
	}
	return true
}

func phaseOf(state State, ab Abbreviation) Phase {
	switch state {
	case StateRemote:
		return PhaseArrived
	case StateTraveling:
		if ab.Returning {
			return PhaseReturning
		}
		return PhaseOutbound
	default:
		return PhaseNone
	}
}
