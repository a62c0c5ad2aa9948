// internal/api/router.go
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tamzrod/rosterwatch/internal/metrics"
	"github.com/tamzrod/rosterwatch/internal/poller"
	"github.com/tamzrod/rosterwatch/internal/render"
)

// Sync is the part of the coordinator the ops API drives.
type Sync interface {
	Enabled() bool
	Enable()
	Disable()
	Groups() []string
	Roster() []render.Row
	Last() (poller.CycleResult, bool)
}

// NewRouter registers the ops endpoints.
func NewRouter(s Sync, m *metrics.Metrics) *mux.Router {
	h := &handler{sync: s}
	r := mux.NewRouter()

	r.Handle("/healthz", m.WrapHandler("healthz", http.HandlerFunc(h.health))).Methods("GET")
	r.Handle("/v1/roster", m.WrapHandler("roster", http.HandlerFunc(h.roster))).Methods("GET")
	r.Handle("/v1/sync/{action:enable|disable}", m.WrapHandler("sync", http.HandlerFunc(h.setSync))).Methods("POST")
	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods("GET")
	}
	return r
}

type handler struct {
	sync Sync
}

type cycleJSON struct {
	ID      string    `json:"id"`
	At      time.Time `json:"at"`
	Outcome string    `json:"outcome"`
	Groups  int       `json:"groups"`
	Failed  int       `json:"failed"`
}

type healthJSON struct {
	Status    string     `json:"status"`
	Enabled   bool       `json:"enabled"`
	Groups    []string   `json:"groups"`
	LastCycle *cycleJSON `json:"last_cycle,omitempty"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	out := healthJSON{
		Status:  "ok",
		Enabled: h.sync.Enabled(),
		Groups:  h.sync.Groups(),
	}
	if last, ok := h.sync.Last(); ok {
		out.LastCycle = &cycleJSON{
			ID:      last.ID,
			At:      last.At,
			Outcome: string(last.Outcome),
			Groups:  len(last.Groups),
			Failed:  last.Failed(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type rowJSON struct {
	Position  int        `json:"position"`
	ID        string     `json:"id"`
	Name      string     `json:"name,omitempty"`
	Group     string     `json:"group"`
	State     string     `json:"state"`
	Label     string     `json:"label"`
	Text      string     `json:"text"`
	Tier      int        `json:"tier"`
	Urgent    bool       `json:"urgent"`
	Countdown string     `json:"countdown,omitempty"`
	Until     *time.Time `json:"until,omitempty"`
	Location  string     `json:"location,omitempty"`
	Since     time.Time  `json:"since"`
}

func (h *handler) roster(w http.ResponseWriter, _ *http.Request) {
	rows := h.sync.Roster()
	out := make([]rowJSON, 0, len(rows))
	for _, r := range rows {
		j := rowJSON{
			Position:  r.Position,
			ID:        r.Status.ID,
			Name:      r.Status.Name,
			Group:     r.Status.Group,
			State:     r.Status.State.String(),
			Label:     r.Status.Label,
			Text:      r.View.Text,
			Tier:      int(r.View.Tier),
			Urgent:    r.View.Urgent,
			Countdown: r.View.Countdown,
			Location:  r.Status.Location,
			Since:     r.Status.Since,
		}
		if r.View.Priority.Countdown() {
			until := r.View.Until
			j.Until = &until
		}
		out = append(out, j)
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": out})
}

func (h *handler) setSync(w http.ResponseWriter, r *http.Request) {
	switch mux.Vars(r)["action"] {
	case "enable":
		h.sync.Enable()
	case "disable":
		h.sync.Disable()
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": h.sync.Enabled()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
