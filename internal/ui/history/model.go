package history

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/star/asteroidwatch/internal/fetch"
	"github.com/star/asteroidwatch/internal/keys"
	"github.com/star/asteroidwatch/internal/model"
	"github.com/star/asteroidwatch/internal/theme"
)

// Backend is the slice of the service API this screen uses.
type Backend interface {
	AlertHistory(ctx context.Context, token string) ([]model.Alert, error)
}

// TokenSource supplies the current session token, or "" when signed out.
type TokenSource interface {
	Token() string
}

// SelectedAlertMsg is sent when the user opens an alert's detail view.
type SelectedAlertMsg struct {
	AlertID int64
}

// loadedMsg carries one load result tagged with its sequence token.
type loadedMsg struct {
	seq    int
	alerts []model.Alert
	err    error
}

// Model is the alert history screen.
type Model struct {
	backend Backend
	tokens  TokenSource
	keys    *keys.KeyMap

	state fetch.State[[]model.Alert]
	list  list.Model

	width  int
	height int
}

// New creates the history screen model.
func New(backend Backend, tokens TokenSource, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, AlertDelegate{}, width, height-2)
	l.Title = "Asteroid Alert History"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		backend: backend,
		tokens:  tokens,
		keys:    k,
		list:    l,
		width:   width,
		height:  height,
	}
}

// Activate starts a fresh load cycle. Data is fetched anew on every
// activation; the screen keeps no cross-visit cache.
func (m *Model) Activate() tea.Cmd {
	return m.load()
}

// Deactivate discards any in-flight response so it cannot mutate state
// after the user has navigated away.
func (m *Model) Deactivate() {
	m.state.Invalidate()
}

// load begins a request unless one is already outstanding.
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
	return func() tea.Msg {
		alerts, err := backend.AlertHistory(context.Background(), token)
		return loadedMsg{seq: seq, alerts: alerts, err: err}
	}
}

// Update handles messages for the history screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.state.Fail(msg.seq, "Failed to load history. "+fetch.Describe(msg.err))
			return m, nil
		}
		if !m.state.Resolve(msg.seq, msg.alerts) {
			return m, nil
		}
		items := make([]list.Item, len(msg.alerts))
		for i, a := range msg.alerts {
			items[i] = AlertItem{Alert: a}
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(AlertItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedAlertMsg{AlertID: item.Alert.ID}
			}

		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m Model) View() string {
	centered := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	switch m.state.Status() {
	case fetch.StatusLoading:
		return centered.Foreground(theme.ColorGray).
			Render("Loading asteroid history...")

	case fetch.StatusFailed:
		return centered.Render(
			theme.ErrorStyle.Render("Error: " + m.state.Message()),
		)
	}

	if len(m.state.Value()) == 0 {
		return centered.Foreground(theme.ColorGray).
			Render("No asteroid alerts found in your history yet.")
	}

	return m.list.View()
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
