// Package app hosts the session & view coordinator: the root Bubble Tea
// model that owns the session lifecycle, the navigation state machine,
// and message routing to the active screen.
package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/star/asteroidwatch/internal/api"
	"github.com/star/asteroidwatch/internal/keys"
	"github.com/star/asteroidwatch/internal/model"
	"github.com/star/asteroidwatch/internal/session"
	"github.com/star/asteroidwatch/internal/signin"
	"github.com/star/asteroidwatch/internal/ui"
	"github.com/star/asteroidwatch/internal/ui/dashboard"
	"github.com/star/asteroidwatch/internal/ui/detail"
	helpview "github.com/star/asteroidwatch/internal/ui/help"
	"github.com/star/asteroidwatch/internal/ui/history"
	"github.com/star/asteroidwatch/internal/ui/login"
	"github.com/star/asteroidwatch/internal/ui/settings"
)

// ErrMissingSelection rejects a detail navigation requested before any
// alert was selected. The active screen is left unchanged.
var ErrMissingSelection = errors.New("no alert selected")

// Screen identifies one navigable view of the application.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenHistory
	ScreenDetail
	ScreenSettings
)

// loginTimeout bounds the login-sync call made during session Begin.
const loginTimeout = 30 * time.Second

// sessionBegunMsg carries the outcome of a sign-in attempt.
type sessionBegunMsg struct {
	user   *model.UserAccount
	silent bool
	err    error
}

// Model is the root coordinator. All session mutation and every screen
// transition funnels through it; screens only read the session snapshot
// and emit messages.
type Model struct {
	session  *session.Manager
	provider *signin.Provider
	keys     *keys.KeyMap
	log      *zap.Logger

	active Screen

	// selectedAlertID is the screen-scoped selection the detail screen
	// requires; hasSelection guards against navigating there blind.
	selectedAlertID int64
	hasSelection    bool

	// showHelp overlays the keybinding reference on the active screen.
	showHelp bool

	// statusMsg is transient feedback rendered in the status bar.
	statusMsg string

	layout ui.Layout
	ready  bool

	loginView     login.Model
	dashboardView dashboard.Model
	historyView   history.Model
	detailView    detail.Model
	settingsView  settings.Model
	helpView      helpview.Model
}

// New creates the root model. The session starts empty, so the requested
// dashboard default resolves to the login screen.
func New(
	client *api.Client,
	mgr *session.Manager,
	provider *signin.Provider,
	log *zap.Logger,
) Model {
	k := keys.DefaultKeyMap()

	return Model{
		session:       mgr,
		provider:      provider,
		keys:          k,
		log:           log,
		active:        ScreenLogin,
		loginView:     login.New(provider, 80, 24),
		dashboardView: dashboard.New(80, 24),
		historyView:   history.New(client, mgr, k, 80, 24),
		detailView:    detail.New(client, mgr, k, 80, 24),
		settingsView:  settings.New(client, mgr, k, 80, 24),
		helpView:      helpview.New(k, 80, 24),
	}
}

// Init subscribes to the sign-in provider and kicks off the silent
// re-authentication attempt.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.provider.Subscribe(),
		m.provider.AttemptSilent(),
		m.loginView.Activate(),
	)
}

// navigate is the only way the active screen changes. Any request made
// without a signed-in identity resolves to the login screen, and detail
// requires a prior selection. The outgoing screen is deactivated so late
// responses cannot touch it.
func (m *Model) navigate(target Screen) tea.Cmd {
	if !m.session.Snapshot().Authenticated() {
		target = ScreenLogin
	}

	if target == ScreenDetail && !m.hasSelection {
		m.statusMsg = "Select an alert from the history first."
		m.log.Warn("detail navigation rejected", zap.Error(ErrMissingSelection))
		return nil
	}

	switch m.active {
	case ScreenHistory:
		m.historyView.Deactivate()
	case ScreenDetail:
		m.detailView.Deactivate()
	case ScreenSettings:
		m.settingsView.Deactivate()
	}

	m.active = target
	m.statusMsg = ""

	switch target {
	case ScreenLogin:
		return m.loginView.Activate()
	case ScreenHistory:
		return m.historyView.Activate()
	case ScreenDetail:
		return m.detailView.Activate(m.selectedAlertID)
	case ScreenSettings:
		return m.settingsView.Activate()
	}
	return nil
}

// selectAlert records the history selection the detail screen shows.
func (m *Model) selectAlert(id int64) {
	m.selectedAlertID = id
	m.hasSelection = true
}

// beginSession runs the sign-in flow for a delivered credential.
func (m *Model) beginSession(cred signin.Credential) tea.Cmd {
	mgr := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()

		user, err := mgr.Begin(ctx, cred.Token)
		return sessionBegunMsg{user: user, silent: cred.Silent, err: err}
	}
}

// Update handles messages and dispatches to the active screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.loginView.SetSize(w, h)
		m.dashboardView.SetSize(w, h)
		m.historyView.SetSize(w, h)
		m.detailView.SetSize(w, h)
		m.settingsView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		return m.updateActiveScreen(msg)

	case signin.CredentialMsg:
		m.loginView.SetSigningIn()
		// Re-arm the subscription so later attempts are seen too.
		return m, tea.Batch(
			m.beginSession(msg.Credential),
			m.provider.Subscribe(),
		)

	case sessionBegunMsg:
		return m.handleSessionBegun(msg)

	case history.SelectedAlertMsg:
		m.selectAlert(msg.AlertID)
		cmd := m.navigate(ScreenDetail)
		return m, cmd

	case detail.BackMsg:
		cmd := m.navigate(ScreenHistory)
		return m, cmd

	case tea.KeyMsg:
		if handled, model, cmd := m.handleGlobalKey(msg); handled {
			return model, cmd
		}
	}

	return m.updateActiveScreen(msg)
}

// handleSessionBegun applies the outcome of a sign-in attempt. Success
// forces the dashboard; failure leaves the empty session on the login
// screen with an explanation.
func (m Model) handleSessionBegun(msg sessionBegunMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		switch {
		case errors.Is(msg.err, session.ErrMalformedToken):
			m.log.Warn("sign-in token rejected", zap.Error(msg.err))
			m.loginView.SetError("Could not read the sign-in token. Please try again.")
		default:
			m.log.Warn("login sync failed", zap.Error(msg.err))
			m.loginView.SetError("Failed to sync user with backend. Please try again.")
		}
		if msg.silent {
			// A stale remembered credential should not alarm the user.
			m.loginView.SetError("")
		}
		cmd := m.navigate(ScreenLogin)
		return m, cmd
	}

	snapshot := m.session.Snapshot()
	if snapshot.Identity != nil {
		m.dashboardView.SetIdentity(*snapshot.Identity)
	}
	m.log.Info("signed in", zap.String("email", msg.user.Email))
	cmd := m.navigate(ScreenDashboard)
	return m, cmd
}

// handleGlobalKey processes keybindings that work regardless of the
// active screen. Typing screens (login, settings) keep their own keys.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return true, m, tea.Quit
	}

	// Everything else stays screen-scoped while the user is typing.
	if m.active == ScreenLogin || m.active == ScreenSettings {
		if m.active == ScreenSettings {
			switch msg.String() {
			case "q":
				return true, m, tea.Quit
			case "d":
				cmd := m.navigate(ScreenDashboard)
				return true, m, cmd
			case "h":
				cmd := m.navigate(ScreenHistory)
				return true, m, cmd
			}
		}
		return false, m, nil
	}

	if m.showHelp {
		m.showHelp = false
		return true, m, nil
	}

	switch msg.String() {
	case "q":
		return true, m, tea.Quit
	case "?":
		m.showHelp = true
		return true, m, nil
	case "d":
		cmd := m.navigate(ScreenDashboard)
		return true, m, cmd
	case "h":
		if m.active != ScreenHistory {
			cmd := m.navigate(ScreenHistory)
			return true, m, cmd
		}
	case "s":
		cmd := m.navigate(ScreenSettings)
		return true, m, cmd
	case "L":
		cmd := m.logout()
		return true, m, cmd
	}

	return false, m, nil
}

// logout ends the session and forces the login screen. It never fails
// from the user's perspective; provider cleanup is best effort.
func (m *Model) logout() tea.Cmd {
	m.session.End()
	m.hasSelection = false
	m.dashboardView.SetIdentity(session.Identity{})
	m.log.Info("signed out")
	return m.navigate(ScreenLogin)
}

// updateActiveScreen dispatches the message to the active screen model.
func (m Model) updateActiveScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.active {
	case ScreenLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ScreenDashboard:
		m.dashboardView, cmd = m.dashboardView.Update(msg)
	case ScreenHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	case ScreenDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ScreenSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Asteroid Watch", m.sessionLabel())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the active screen.
func (m Model) renderContent() string {
	if m.showHelp {
		return m.helpView.View()
	}

	switch m.active {
	case ScreenLogin:
		return m.loginView.View()
	case ScreenDashboard:
		return m.dashboardView.View()
	case ScreenHistory:
		return m.historyView.View()
	case ScreenDetail:
		return m.detailView.View()
	case ScreenSettings:
		return m.settingsView.View()
	default:
		return ""
	}
}

// sessionLabel renders the signed-in identity for the header.
func (m Model) sessionLabel() string {
	snapshot := m.session.Snapshot()
	if !snapshot.Authenticated() {
		return "signed out"
	}
	if snapshot.Identity.Email != "" {
		return snapshot.Identity.Email
	}
	return snapshot.Identity.DisplayName()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}

	if m.showHelp {
		return "any key to close help"
	}

	switch m.active {
	case ScreenLogin:
		return "enter sign in | ctrl+c quit"
	case ScreenHistory:
		return "enter details | r refresh | d dashboard | s settings | L log out | q quit"
	case ScreenDetail:
		return "esc back | r reload | j/k scroll | q quit"
	case ScreenSettings:
		return "←/→ toggle | enter save | d dashboard | h history | q quit"
	default:
		return "h history | s settings | L log out | ? help | q quit"
	}
}
