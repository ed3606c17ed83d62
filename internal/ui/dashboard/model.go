package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/star/asteroidwatch/internal/session"
	"github.com/star/asteroidwatch/internal/theme"
)

// Model is the dashboard screen: a static welcome rendered from the
// session snapshot, with pointers to the data screens.
type Model struct {
	identity session.Identity

	width  int
	height int
}

// New creates the dashboard screen model.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// SetIdentity updates the rendered identity from a session snapshot.
func (m *Model) SetIdentity(identity session.Identity) {
	m.identity = identity
}

// Update handles messages for the dashboard screen.
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the dashboard screen.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	cardTitle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)
	cardText := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(44)

	alertsCard := theme.PanelStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		cardTitle.Render("Latest Alerts"),
		cardText.Render(
			"Stay informed about the most recent potentially hazardous "+
				"asteroid close approaches. Press h for the full history.",
		),
	))

	settingsCard := theme.PanelStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		cardTitle.Foreground(theme.ColorGreen).Render("Your Settings"),
		cardText.Render(
			"Manage your notification preferences to receive alerts "+
				"via email. Press s to update.",
		),
	))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Welcome, "+m.identity.DisplayName()+"!"),
		theme.HelpStyle.Render("Your personalized hub for asteroid alerts and space news."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, alertsCard, " ", settingsCard),
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
