// internal/status/state.go
package status

import "strings"

// State is the normalized operational state of an entity.
type State uint8

const (
	StateUnknown State = iota
	StateHealthy
	StateIncapacitated
	StateConfined
	StateTraveling
	StateRemote
)

func (s State) String() string {
	switch s {
	case StateHealthy:
		return "healthy"
	case StateIncapacitated:
		return "incapacitated"
	case StateConfined:
		return "confined"
	case StateTraveling:
		return "traveling"
	case StateRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Countdown reports whether the state carries a meaningful Until.
func (s State) Countdown() bool {
	return s == StateIncapacitated || s == StateConfined
}

// providerWords maps provider state words (lower case) to states.
// Anything else is StateUnknown, which is not an error.
var providerWords = map[string]State{
	"okay":          StateHealthy,
	"ok":            StateHealthy,
	"healthy":       StateHealthy,
	"idle":          StateHealthy,
	"hospital":      StateIncapacitated,
	"incapacitated": StateIncapacitated,
	"jail":          StateConfined,
	"confined":      StateConfined,
	"traveling":     StateTraveling,
	"travelling":    StateTraveling,
	"abroad":        StateRemote,
	"remote":        StateRemote,
}

// ParseState maps a provider state word to a State.
func ParseState(word string) State {
	if s, ok := providerWords[strings.ToLower(strings.TrimSpace(word))]; ok {
		return s
	}
	return StateUnknown
}

// Phase is the travel sub-phase.
type Phase uint8

const (
	PhaseNone Phase = iota
	PhaseOutbound
	PhaseArrived
	PhaseReturning
)

func (p Phase) String() string {
	switch p {
	case PhaseOutbound:
		return "outbound"
	case PhaseArrived:
		return "arrived"
	case PhaseReturning:
		return "returning"
	default:
		return "none"
	}
}
