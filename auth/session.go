// Package auth owns the client-side session: the bearer token, the verified
// admin identity, and the persisted token slot. There is no package-level
// state; a single Manager is created in main and handed to the UI.
package auth

import (
	"errors"
	"log"

	"github.com/iatek/deptadmin/api"
	"github.com/iatek/deptadmin/domain"
)

// Session is the in-memory authentication state. User is only ever set
// together with Token, after the token was accepted by the backend.
type Session struct {
	Token string
	User  *domain.User
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Result is the outcome of a login or register call. Failures are values,
// not errors: the message is meant for the screen.
type Result struct {
	OK      bool
	Message string
}

type Manager struct {
	client  *api.Client
	store   *TokenStore
	session Session
}

func NewManager(client *api.Client, store *TokenStore) *Manager {
	return &Manager{client: client, store: store}
}

func (m *Manager) Session() Session {
	return m.session
}

func (m *Manager) Authenticated() bool {
	return m.session.Authenticated()
}

// Restore tries to resume a previous session from the persisted token.
// Without a token it returns immediately, no network call. With one, the
// token is verified against the identity endpoint; any failure discards it.
func (m *Manager) Restore() bool {
	token, ok := m.store.Load()
	if !ok {
		m.clearSession()
		return false
	}

	m.client.SetToken(token)
	user, err := m.client.Me()
	if err != nil {
		log.Printf("Stored token rejected, clearing session: %v", err)
		m.store.Clear()
		m.clearSession()
		return false
	}

	m.session = Session{Token: token, User: user}
	return true
}

func (m *Manager) Login(email, password string) Result {
	resp, err := m.client.Login(email, password)
	if err != nil {
		return failureResult(err, "Login failed")
	}

	m.adoptSession(resp)
	return Result{OK: true, Message: "Logged in successfully"}
}

func (m *Manager) Register(username, email, password string) Result {
	resp, err := m.client.Register(username, email, password)
	if err != nil {
		return failureResult(err, "Registration failed")
	}

	m.adoptSession(resp)
	return Result{OK: true, Message: "Account created successfully"}
}

// Logout clears the in-memory session and the persisted token. No network.
func (m *Manager) Logout() {
	m.store.Clear()
	m.clearSession()
}

// adoptSession installs token and identity in one step and persists the
// token. The session is never left half-updated.
func (m *Manager) adoptSession(resp *api.AuthResponse) {
	user := resp.Data
	m.client.SetToken(resp.Token)
	m.session = Session{Token: resp.Token, User: &user}

	if err := m.store.Save(resp.Token); err != nil {
		log.Printf("Warning: could not persist session token: %v", err)
	}
}

func (m *Manager) clearSession() {
	m.client.ClearToken()
	m.session = Session{}
}

func failureResult(err error, fallback string) Result {
	var re *api.RequestError
	if errors.As(err, &re) && re.Message != "" {
		return Result{OK: false, Message: re.Message}
	}
	return Result{OK: false, Message: fallback}
}
