// internal/printer/printer.go
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/tamzrod/rosterwatch/internal/poller"
	"github.com/tamzrod/rosterwatch/internal/render"
	"github.com/tamzrod/rosterwatch/internal/status"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	cyan   = color.New(color.FgCyan)
	red    = color.New(color.FgRed, color.Bold)
	faint  = color.New(color.Faint)
)

// Cycle prints a one-line summary of a poll cycle and one line per failed
// group.
func Cycle(w io.Writer, res poller.CycleResult) {
	line := fmt.Sprintf("poll %s at %s", res.Outcome, res.At.Format("15:04:05"))
	n := res.Failed()
	if n == 0 {
		green.Fprintf(w, "%s (%d groups)\n", line, len(res.Groups))
		return
	}
	yellow.Fprintf(w, "%s (%d/%d groups failed)\n", line, n, len(res.Groups))
	for _, g := range res.Groups {
		if g.Err != nil {
			red.Fprintf(w, "  %s: %v\n", g.Group, g.Err)
		}
	}
}

// Roster prints ranked rows, one per line.
func Roster(w io.Writer, rows []render.Row) {
	if len(rows) == 0 {
		faint.Fprintln(w, "no entities")
		return
	}
	for _, r := range rows {
		line := fmt.Sprintf("%3d  %-18s %-12s %s", r.Position, name(r.Status), r.Status.Group, r.View.Text)
		colorFor(r.View).Fprintln(w, strings.TrimRight(line, " "))
	}
}

func name(st status.Status) string {
	if st.Name != "" {
		return st.Name
	}
	return st.ID
}

func colorFor(v status.View) *color.Color {
	switch {
	case v.Urgent:
		return red
	case v.Tier == status.TierCountdown:
		return yellow
	case v.Tier.Travel():
		return cyan
	}
	return color.New(color.Reset)
}
