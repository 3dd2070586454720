// Package session owns "who is logged in": the in-memory current user and
// the persisted token pair have exactly one writer, the Manager.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/stevenajg93/orla3-marketing-suite-app-sub001/internal/api"
	"github.com/stevenajg93/orla3-marketing-suite-app-sub001/internal/credstore"
)

// State describes where session resolution stands.
type State int

const (
	// StateInitializing means the startup session restore has not run yet.
	StateInitializing State = iota
	// StateAuthenticated means a user is set.
	StateAuthenticated
	// StateAnonymous means nobody is logged in.
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

type registerRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	OrganizationName string `json:"organization_name,omitempty"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type meResponse struct {
	Success bool  `json:"success"`
	User    *User `json:"user"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Manager is the single owner of the current user and the stored token
// pair. Safe for concurrent use.
type Manager struct {
	client *api.Client
	store  credstore.Store
	log    *zap.Logger

	mu    sync.Mutex
	state State
	user  *User
}

// NewManager creates a Manager in the Initializing state.
func NewManager(client *api.Client, store credstore.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		client: client,
		store:  store,
		log:    log,
		state:  StateInitializing,
	}
}

// NewTokenSource adapts the credential store to the api client's bearer
// source. An absent pair yields an empty token, not an error.
func NewTokenSource(store credstore.Store) api.TokenSource {
	return tokenSource{store: store}
}

type tokenSource struct {
	store credstore.Store
}

func (t tokenSource) AccessToken() (string, error) {
	access, _, err := t.store.Tokens()
	if errors.Is(err, credstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return access, nil
}

// Restore attempts the startup session restore: if a stored access token
// exists, validate it against the identity endpoint. Failures are logged,
// never returned: the session resolves to Anonymous and any stored tokens
// are cleared.
func (m *Manager) Restore(ctx context.Context) {
	_, _, err := m.store.Tokens()
	if errors.Is(err, credstore.ErrNotFound) {
		m.setAnonymous()
		return
	}
	if err != nil {
		// An unreadable pair is as dead as a rejected one.
		m.log.Warn("failed to read stored tokens", zap.Error(err))
		m.clearSession()
		return
	}

	var resp meResponse
	if err := m.client.Get(ctx, api.IdentityEndpoint, &resp); err != nil {
		// A transient network failure ends the session too. Distinguishing
		// it from a real rejection (retry instead of clearing) is a known
		// possible improvement.
		m.log.Warn("session restore failed", zap.Error(err))
		m.clearSession()
		return
	}
	if !resp.Success || resp.User == nil {
		m.log.Info("stored session rejected by backend")
		m.clearSession()
		return
	}

	m.setUser(resp.User)
}

// Login exchanges credentials for a session. An *api.Error from the backend
// is returned as-is so callers can branch on its status.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	var resp loginResponse
	if err := m.client.Post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "invalid credentials"
		}
		return fmt.Errorf("login failed: %s", msg)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" || resp.User == nil {
		return errors.New("login failed: incomplete response from server")
	}

	if err := m.store.SetTokens(resp.AccessToken, resp.RefreshToken); err != nil {
		return fmt.Errorf("failed to store session tokens: %w", err)
	}
	m.setUser(resp.User)
	return nil
}

// Register creates an account and, on success, logs in with the same
// credentials.
func (m *Manager) Register(ctx context.Context, name, email, password, organizationName string) error {
	var resp registerResponse
	req := registerRequest{
		Name:             name,
		Email:            email,
		Password:         password,
		OrganizationName: organizationName,
	}
	if err := m.client.Post(ctx, "/auth/register", req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "registration rejected"
		}
		return fmt.Errorf("registration failed: %s", msg)
	}

	return m.Login(ctx, email, password)
}

// Logout notifies the backend to invalidate the refresh token (best effort)
// and unconditionally clears the stored pair and the current user.
func (m *Manager) Logout(ctx context.Context) error {
	if _, refresh, err := m.store.Tokens(); err == nil && refresh != "" {
		if err := m.client.Post(ctx, "/auth/logout", logoutRequest{RefreshToken: refresh}, nil); err != nil {
			m.log.Warn("logout notification failed", zap.Error(err))
		}
	}
	m.clearSession()
	return nil
}

// RefreshUser re-fetches the current user. A failed refresh never tears
// down the session; it is logged and ignored.
func (m *Manager) RefreshUser(ctx context.Context) {
	var resp meResponse
	if err := m.client.Get(ctx, api.IdentityEndpoint, &resp); err != nil {
		m.log.Warn("user refresh failed", zap.Error(err))
		return
	}
	if !resp.Success || resp.User == nil {
		m.log.Warn("user refresh returned no user")
		return
	}
	m.setUser(resp.User)
}

// HandleAuthFailure is the adapter registered as the api client's
// AuthFailureFunc: once the backend rejects the session credential, keeping
// the pair around only produces more rejections.
func (m *Manager) HandleAuthFailure(endpoint string) {
	m.log.Warn("session invalidated by backend", zap.String("endpoint", endpoint))
	m.clearSession()
}

// CurrentUser returns a copy of the current user, or nil when anonymous or
// unresolved.
func (m *Manager) CurrentUser() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// State returns where session resolution stands.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) setUser(u *User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = u
	m.state = StateAuthenticated
}

func (m *Manager) setAnonymous() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	m.state = StateAnonymous
}

func (m *Manager) clearSession() {
	if err := m.store.Clear(); err != nil {
		m.log.Warn("failed to clear stored tokens", zap.Error(err))
	}
	m.setAnonymous()
}
