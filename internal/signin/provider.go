// Package signin mediates between the identity provider and the session
// coordinator. A sign-in attempt delivers at most one credential; the
// coordinator subscribes once at startup and re-arms the subscription
// after each delivery.
package signin

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Credential carries a signed identity token delivered by the provider.
type Credential struct {
	Token string

	// Silent marks a credential replayed from the keyring rather than
	// entered by the user in this run.
	Silent bool
}

// CredentialMsg is the tea.Msg the coordinator receives for each
// delivered credential.
type CredentialMsg struct {
	Credential Credential
}

// Store persists the remembered credential between runs.
type Store interface {
	Load() (string, error)
	Remember(token string) error
	Forget() error
}

// Provider is the terminal analogue of the hosted sign-in widget: tokens
// arrive either from the login screen or, silently, from the keyring.
type Provider struct {
	store    Store
	remember bool
	log      *zap.Logger

	ch         chan Credential
	silentOnce sync.Once
}

// New creates a Provider. When remember is false, successful sign-ins are
// not persisted and no silent credential is ever replayed.
func New(store Store, remember bool, log *zap.Logger) *Provider {
	return &Provider{
		store:    store,
		remember: remember,
		log:      log,
		ch:       make(chan Credential, 1),
	}
}

// Deliver hands a user-entered credential to the coordinator. If a
// delivery is already pending it is dropped; each attempt produces at
// most one credential.
func (p *Provider) Deliver(token string) {
	select {
	case p.ch <- Credential{Token: token}:
	default:
	}
}

// AttemptSilent returns a command that replays the remembered credential,
// if any. It runs at most once per process, regardless of how often the
// login screen is shown again after a logout.
func (p *Provider) AttemptSilent() tea.Cmd {
	return func() tea.Msg {
		p.silentOnce.Do(func() {
			if !p.remember {
				return
			}
			token, err := p.store.Load()
			if err != nil {
				p.log.Warn("could not load remembered credential", zap.Error(err))
				return
			}
			if token == "" {
				return
			}
			select {
			case p.ch <- Credential{Token: token, Silent: true}:
			default:
			}
		})
		return nil
	}
}

// Subscribe returns a command that waits for the next delivered
// credential. Call it again after processing each CredentialMsg.
func (p *Provider) Subscribe() tea.Cmd {
	return func() tea.Msg {
		c, ok := <-p.ch
		if !ok {
			return nil
		}
		return CredentialMsg{Credential: c}
	}
}

// Remember persists the token for silent re-authentication, honoring the
// remember-credential setting.
func (p *Provider) Remember(token string) error {
	if !p.remember {
		return nil
	}
	return p.store.Remember(token)
}

// Forget disables silent re-authentication on the next start. This is the
// logout-time provider notification; callers treat failures as
// best effort.
func (p *Provider) Forget() error {
	return p.store.Forget()
}
