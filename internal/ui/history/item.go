package history

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/star/asteroidwatch/internal/model"
	"github.com/star/asteroidwatch/internal/theme"
)

// AlertItem wraps a model.Alert so it can be used in a bubbles/list.
type AlertItem struct {
	Alert model.Alert
}

// FilterValue returns the string used for fuzzy filtering.
func (i AlertItem) FilterValue() string { return i.Alert.AsteroidName }

// AlertDelegate renders one alert per row.
type AlertDelegate struct{}

// Height returns the number of lines each item takes.
func (d AlertDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d AlertDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d AlertDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single alert line: name, approach date, miss distance,
// average diameter, and when the alert was received.
func (d AlertDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ai, ok := item.(AlertItem)
	if !ok {
		return
	}
	a := ai.Alert

	name := lipgloss.NewStyle().Bold(true).
		Foreground(theme.ColorWhite).
		Width(24).
		Render(truncate(a.AsteroidName, 24))

	approach := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Width(12).
		Render(a.ApproachDateOrNA())

	km := a.MissDistanceKilometers.Float64()
	distance := theme.MissDistanceStyle(km).
		Width(16).
		Render(fmt.Sprintf("%.0f km", km))

	diameter := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Width(10).
		Render(fmt.Sprintf("%.2f m", a.EstimatedDiameterAvgMeters))

	received := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(relativeTime(a.ReceivedAt))

	line := lipgloss.JoinHorizontal(
		lipgloss.Top, name, approach, distance, diameter, received,
	)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = lipgloss.NewStyle().PaddingLeft(2).Render(line)
	}

	fmt.Fprint(w, line)
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// relativeTime renders t as a coarse age ("3h ago").
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
