package settings

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/star/asteroidwatch/internal/fetch"
	"github.com/star/asteroidwatch/internal/keys"
	"github.com/star/asteroidwatch/internal/model"
	"github.com/star/asteroidwatch/internal/theme"
)

// Backend is the slice of the service API this screen uses.
type Backend interface {
	Settings(ctx context.Context, token string) (*model.UserAccount, error)
	UpdateSettings(ctx context.Context, token string, enabled bool) (*model.UserAccount, error)
}

// TokenSource supplies the current session token, or "" when signed out.
type TokenSource interface {
	Token() string
}

// loadedMsg carries one load result tagged with its sequence token.
type loadedMsg struct {
	seq  int
	user *model.UserAccount
	err  error
}

// savedMsg carries one save result tagged with its sequence token.
type savedMsg struct {
	seq  int
	user *model.UserAccount
	err  error
}

// formBindings holds the form value on the heap so that huh's Value()
// pointer stays valid across Model copies.
type formBindings struct {
	// enabled is the user's pending edit. It survives a failed save so
	// retry needs no re-entry.
	enabled bool
}

// Model is the notification settings screen. The service owns the
// preference; this screen reflects it and requests changes.
type Model struct {
	backend Backend
	tokens  TokenSource
	keys    *keys.KeyMap

	state fetch.State[*model.UserAccount]

	fb   *formBindings
	form *huh.Form

	saving  bool
	saveSeq int

	// message is transient feedback from the last save attempt.
	message    string
	messageErr bool

	width  int
	height int
}

// New creates the settings screen model.
func New(backend Backend, tokens TokenSource, k *keys.KeyMap, width, height int) Model {
	return Model{
		backend: backend,
		tokens:  tokens,
		keys:    k,
		fb:      &formBindings{},
		width:   width,
		height:  height,
	}
}

// Activate starts a fresh load of the current preference.
func (m *Model) Activate() tea.Cmd {
	m.message = ""
	m.messageErr = false
	return m.load()
}

// Deactivate discards any in-flight load or save response.
func (m *Model) Deactivate() {
	m.state.Invalidate()
	m.saveSeq++
	m.saving = false
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
	return func() tea.Msg {
		user, err := backend.Settings(context.Background(), token)
		return loadedMsg{seq: seq, user: user, err: err}
	}
}

// save issues the PUT carrying the pending preference.
func (m *Model) save() tea.Cmd {
	if m.saving {
		return nil
	}

	token := m.tokens.Token()
	if token == "" {
		m.message = "User not authenticated. Please log in again."
		m.messageErr = true
		return nil
	}

	m.saving = true
	m.saveSeq++
	seq := m.saveSeq
	m.message = ""

	backend := m.backend
	enabled := m.fb.enabled
	return func() tea.Msg {
		user, err := backend.UpdateSettings(context.Background(), token, enabled)
		return savedMsg{seq: seq, user: user, err: err}
	}
}

// newForm builds the toggle form around the pending value.
func (m *Model) newForm() *huh.Form {
	f := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable Email Notifications").
				Description("Receive an email when a hazardous close approach is detected.").
				Affirmative("Enabled").
				Negative("Disabled").
				Value(&m.fb.enabled),
		),
	).WithShowHelp(false)
	f.Init()
	return f
}

// Update handles messages for the settings screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.state.Fail(msg.seq, "Failed to load settings. "+fetch.Describe(msg.err))
			return m, nil
		}
		if m.state.Resolve(msg.seq, msg.user) {
			m.fb.enabled = msg.user.NotificationEnabled
			m.form = m.newForm()
		}
		return m, nil

	case savedMsg:
		if msg.seq != m.saveSeq {
			return m, nil
		}
		m.saving = false
		if msg.err != nil {
			// Pending edits are preserved so the user can retry.
			m.message = "Failed to save settings. " + fetch.Describe(msg.err)
			m.messageErr = true
			m.form = m.newForm()
			return m, nil
		}
		m.fb.enabled = msg.user.NotificationEnabled
		m.state.Resolve(m.state.Begin(), msg.user)
		m.message = "Settings saved successfully!"
		m.messageErr = false
		m.form = m.newForm()
		return m, nil
	}

	if m.state.Status() != fetch.StatusReady || m.form == nil {
		return m, nil
	}

	// Delegate to the form; a completed form is a save request.
	f, cmd := m.form.Update(msg)
	if form, ok := f.(*huh.Form); ok {
		m.form = form
	}
	if m.form.State == huh.StateCompleted {
		return m, tea.Batch(cmd, m.save())
	}
	return m, cmd
}

// View renders the settings screen.
func (m Model) View() string {
	centered := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	switch m.state.Status() {
	case fetch.StatusLoading:
		return centered.Foreground(theme.ColorGray).
			Render("Loading settings...")

	case fetch.StatusFailed:
		return centered.Render(
			theme.ErrorStyle.Render("Error: " + m.state.Message()),
		)
	}

	title := lipgloss.NewStyle().Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Notification Settings")

	var body string
	if m.saving {
		body = theme.HelpStyle.Render("Saving settings...")
	} else if m.form != nil {
		body = m.form.View()
	}

	sections := []string{title, body}

	if m.message != "" {
		style := theme.SuccessStyle
		if m.messageErr {
			style = theme.ErrorStyle
		}
		sections = append(sections, "", style.Render(m.message))
	}

	panel := theme.PanelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)

	return centered.Render(panel)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Pending returns the user's current (possibly unsaved) preference.
func (m Model) Pending() bool {
	return m.fb.enabled
}
