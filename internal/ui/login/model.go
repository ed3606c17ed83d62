package login

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/star/asteroidwatch/internal/theme"
)

// Deliverer receives the signed identity token. It is the sole path a
// credential takes into the application.
type Deliverer interface {
	Deliver(token string)
}

// Model is the login screen: the terminal's sign-in affordance. The user
// pastes a Google ID token; remembered credentials arrive silently
// through the same provider.
type Model struct {
	provider Deliverer
	input    textinput.Model

	// errMessage shows why the last sign-in attempt failed.
	errMessage string

	signingIn bool

	width  int
	height int
}

// New creates the login screen model.
func New(provider Deliverer, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "paste your Google ID token..."
	ti.Prompt = "token> "
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Width = width - 12
	ti.Focus()

	return Model{
		provider: provider,
		input:    ti,
		width:    width,
		height:   height,
	}
}

// Activate re-renders the sign-in affordance: the input is cleared and
// refocused. Called at startup and again whenever the login screen
// becomes active, e.g. after a logout.
func (m *Model) Activate() tea.Cmd {
	m.input.Reset()
	m.signingIn = false
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

// SetError records why a sign-in attempt failed; shown until the next
// attempt.
func (m *Model) SetError(message string) {
	m.errMessage = message
	m.signingIn = false
}

// SetSigningIn marks a sign-in attempt as in progress.
func (m *Model) SetSigningIn() {
	m.errMessage = ""
	m.signingIn = true
}

// Update handles messages for the login screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		token := strings.TrimSpace(m.input.Value())
		if token == "" || m.signingIn {
			return m, nil
		}
		m.input.Reset()
		m.signingIn = true
		m.errMessage = ""
		m.provider.Deliver(token)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the login screen.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sections := []string{
		titleStyle.Render("Sign In to Asteroid Watch"),
		theme.HelpStyle.Render("Access personalized asteroid alerts and notification settings."),
		"",
		m.input.View(),
		"",
	}

	switch {
	case m.signingIn:
		sections = append(sections, theme.HelpStyle.Render("Signing in..."))
	case m.errMessage != "":
		sections = append(sections, theme.ErrorStyle.Render(m.errMessage))
	default:
		sections = append(sections, theme.HelpStyle.Render(
			"Paste the ID token issued by Google sign-in and press enter.",
		))
	}

	panel := theme.PanelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(panel)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 12
}
