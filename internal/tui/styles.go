// internal/tui/styles.go
package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/tamzrod/rosterwatch/internal/render"
	"github.com/tamzrod/rosterwatch/internal/status"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	pausedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	urgentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	travelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	defaultStyle = lipgloss.NewStyle()
)

// rowStyle picks the style from the attributes the engine wrote.
func rowStyle(r *row) lipgloss.Style {
	if r.attrs[render.AttrUrgent] == "true" {
		return urgentStyle
	}
	tier, err := strconv.Atoi(r.attrs[render.AttrTier])
	if err != nil {
		return dimStyle
	}
	switch t := status.Tier(tier); {
	case t == status.TierCountdown:
		return countStyle
	case t.Travel():
		return travelStyle
	}
	if r.attrs[render.AttrState] == status.NeutralText {
		return dimStyle
	}
	return defaultStyle
}
