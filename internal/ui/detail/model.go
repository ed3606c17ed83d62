package detail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/star/asteroidwatch/internal/fetch"
	"github.com/star/asteroidwatch/internal/keys"
	"github.com/star/asteroidwatch/internal/model"
	"github.com/star/asteroidwatch/internal/theme"
)

// Backend is the slice of the service API this screen uses.
type Backend interface {
	AlertByID(ctx context.Context, token string, id int64) (*model.Alert, error)
}

// TokenSource supplies the current session token, or "" when signed out.
type TokenSource interface {
	Token() string
}

// BackMsg signals the parent to navigate back to the history screen.
type BackMsg struct{}

// loadedMsg carries one load result tagged with its sequence token.
type loadedMsg struct {
	seq   int
	alert *model.Alert
	err   error
}

// Model is the alert detail screen.
type Model struct {
	backend Backend
	tokens  TokenSource
	keys    *keys.KeyMap

	alertID  int64
	state    fetch.State[*model.Alert]
	viewport viewport.Model

	width  int
	height int
}

// New creates the detail screen model.
func New(backend Backend, tokens TokenSource, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		backend:  backend,
		tokens:   tokens,
		keys:     k,
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// Activate starts a load cycle for the given alert. A changed id is a
// fresh cycle; any response still in flight for the previous id is
// discarded by the sequence check.
func (m *Model) Activate(alertID int64) tea.Cmd {
	m.alertID = alertID
	m.state.Invalidate()
	return m.load()
}

// Deactivate discards any in-flight response.
func (m *Model) Deactivate() {
	m.state.Invalidate()
}

func (m *Model) load() tea.Cmd {
	if m.state.Busy() {
		return nil
	}

	seq := m.state.Begin()

	token := m.tokens.Token()
	if token == "" {
		m.state.Fail(seq, "User not authenticated.")
		return nil
	}

	backend := m.backend
	id := m.alertID
	return func() tea.Msg {
		alert, err := backend.AlertByID(context.Background(), token, id)
		return loadedMsg{seq: seq, alert: alert, err: err}
	}
}

// Update handles messages for the detail screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.state.Fail(msg.seq, "Failed to load details. "+fetch.Describe(msg.err))
			return m, nil
		}
		if m.state.Resolve(msg.seq, msg.alert) {
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoTop()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail screen.
func (m Model) View() string {
	centered := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	switch m.state.Status() {
	case fetch.StatusLoading:
		return centered.Foreground(theme.ColorGray).
			Render("Loading asteroid details...")

	case fetch.StatusFailed:
		return centered.Render(
			theme.ErrorStyle.Render("Error: " + m.state.Message()),
		)
	}

	if m.state.Value() == nil {
		return centered.Foreground(theme.ColorGray).
			Render("Notification not found.")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	alert := m.state.Value()
	if alert == nil {
		return ""
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render("Asteroid Details"))
	sections = append(sections, "")

	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valueStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	row := func(label, value string) string {
		return fmt.Sprintf("%s %s",
			labelStyle.Width(24).Render(label),
			valueStyle.Render(value),
		)
	}

	km := alert.MissDistanceKilometers.Float64()

	sections = append(sections, row("Asteroid Name:", alert.AsteroidName))
	sections = append(sections, row("NASA ID:", alert.CatalogIDOrNA()))
	sections = append(sections, row("Close Approach Date:", alert.ApproachDateOrNA()))
	sections = append(sections, fmt.Sprintf("%s %s",
		labelStyle.Width(24).Render("Miss Distance:"),
		theme.MissDistanceStyle(km).Render(fmt.Sprintf("%.0f km", km)),
	))
	sections = append(sections, row("Estimated Avg Diameter:",
		fmt.Sprintf("%.2f meters", alert.EstimatedDiameterAvgMeters)))
	sections = append(sections, row("Alert Received At:",
		alert.ReceivedAt.Format("2006-01-02 15:04:05")))

	emailSent := "No"
	if alert.EmailSent {
		emailSent = "Yes"
	}
	sections = append(sections, fmt.Sprintf("%s %s",
		labelStyle.Width(24).Render("Email Sent:"),
		theme.EmailSentStyle(alert.EmailSent).Render(emailSent),
	))

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	sections = append(sections, "")
	sections = append(sections, sepStyle.Render(strings.Repeat("─", min(m.width-4, 60))))
	sections = append(sections, theme.HelpStyle.Render("esc back to history | r reload"))

	return theme.PanelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
