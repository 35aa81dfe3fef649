// Package session implements the client's session manager: the single
// source of truth for who is calling the API and with what credentials.
//
// The manager owns the normalized user snapshot and drives every lifecycle
// transition: login, logout, rehydration from durable storage, verification
// refetch, and token persistence after transparent refreshes. It is the only
// writer of session state; all other components read it through predicates
// and Headers.
//
// State machine: unauthenticated -> authenticating -> authenticated ->
// (refreshing -> authenticated | unauthenticated) -> unauthenticated.
// Loading is true during authenticating and refreshing.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pavelgris/erpadmin/internal/client/api"
	"github.com/pavelgris/erpadmin/internal/client/models"
	"github.com/pavelgris/erpadmin/internal/client/notify"
	"github.com/pavelgris/erpadmin/internal/client/storage"
	"github.com/pavelgris/erpadmin/internal/logging"
)

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
	StateRefreshing      State = "refreshing"
)

// Manager holds the authenticated identity. Construct with NewManager,
// call Rehydrate once at startup, and inject the manager into everything
// that needs auth headers or role/permission predicates.
type Manager struct {
	api      api.AuthAPI
	db       *sql.DB
	log      logging.Logger
	notifier notify.Notifier
	onLogout func()

	mu    sync.Mutex
	user  *models.SessionUser
	state State
}

// NewManager wires the session manager. onLogout is the navigation signal
// fired whenever the session is torn down (nil is allowed).
func NewManager(client api.AuthAPI, db *sql.DB, log logging.Logger, notifier notify.Notifier, onLogout func()) *Manager {
	if onLogout == nil {
		onLogout = func() {}
	}
	return &Manager{
		api:      client,
		db:       db,
		log:      log,
		notifier: notifier,
		onLogout: onLogout,
		state:    StateUnauthenticated,
	}
}

// Rehydrate restores a persisted session, if any. It is a one-shot startup
// transition: when both auth_user and auth_token are present the user is
// parsed optimistically; a corrupt value tears the persisted state down
// immediately.
func (m *Manager) Rehydrate(ctx context.Context) {
	raw, token, ok, err := storage.LoadSession(ctx, m.db)
	if err != nil {
		m.log.Warn(ctx, "session rehydration failed", "error", err)
		return
	}
	if !ok {
		return
	}
	var user models.SessionUser
	if err := json.Unmarshal(raw, &user); err != nil {
		m.log.Warn(ctx, "persisted session unreadable, clearing", "error", err)
		if cerr := storage.ClearSession(ctx, m.db); cerr != nil {
			m.log.Warn(ctx, "clearing persisted session failed", "error", cerr)
		}
		return
	}
	m.api.SetAuth(token, user.TenantID, user.ID)
	m.mu.Lock()
	m.user = &user
	m.state = StateAuthenticated
	m.mu.Unlock()
	m.log.Info(ctx, "session rehydrated", "user", user.Email)
}

// Login authenticates against the backend. It never propagates an error:
// any failure leaves session state untouched and reports false, so callers
// render a generic invalid-credentials message. Concurrent logins are not
// coordinated; the last call to complete wins.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	m.setState(StateAuthenticating)

	res, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.log.Warn(ctx, "login failed", "email", email, "error", err)
		m.mu.Lock()
		if m.user != nil {
			m.state = StateAuthenticated
		} else {
			m.state = StateUnauthenticated
		}
		m.mu.Unlock()
		return false
	}

	user := res.User.Normalize()
	m.api.SetAuth(res.Token, user.TenantID, user.ID)
	m.persist(ctx, &user, res.Token)

	m.mu.Lock()
	m.user = &user
	m.state = StateAuthenticated
	m.mu.Unlock()
	m.log.Info(ctx, "login successful", "user", user.Email)
	return true
}

// Logout invalidates the server-side token best-effort, then unconditionally
// clears in-memory and durable state. Calling it while already logged out is
// a no-op that still clears storage defensively.
func (m *Manager) Logout(ctx context.Context) {
	if m.api.Token() != "" {
		if err := m.api.Logout(ctx); err != nil {
			m.log.Warn(ctx, "server-side logout failed", "error", err)
		}
	}
	m.teardown(ctx)
	m.onLogout()
}

// Refetch re-requests the current user with the stored token and replaces
// the whole user record. This is the only path for roles and permissions to
// change without a fresh login. On failure the session is torn down and the
// caller is redirected to login.
func (m *Manager) Refetch(ctx context.Context) error {
	if !m.Authenticated() {
		return nil
	}
	m.setState(StateRefreshing)

	raw, err := m.api.CurrentUser(ctx)
	if err != nil {
		m.log.Warn(ctx, "session verification failed", "error", err)
		m.teardown(ctx)
		m.notifier.Error("Session expired. Redirecting to login...")
		m.onLogout()
		return err
	}

	user := raw.Normalize()
	m.api.SetAuth(m.api.Token(), user.TenantID, user.ID)
	m.persist(ctx, &user, m.api.Token())

	m.mu.Lock()
	m.user = &user
	m.state = StateAuthenticated
	m.mu.Unlock()
	m.notifier.Success("Session refreshed")
	return nil
}

// TokenRefreshed re-persists the session after the API client transparently
// rotated the bearer token. Intended as the client's OnTokenRefresh hook.
func (m *Manager) TokenRefreshed(ctx context.Context, token string) {
	m.mu.Lock()
	user := m.user
	m.mu.Unlock()
	if user == nil {
		return
	}
	m.persist(ctx, user, token)
}

// Headers derives the request header set from the current session. It must
// be called fresh for every request; token and tenant can change between
// calls.
func (m *Manager) Headers() map[string]string {
	m.mu.Lock()
	user := m.user
	m.mu.Unlock()

	h := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + m.api.Token(),
	}
	if user != nil {
		if user.TenantID != "" {
			h["x-tenant-id"] = user.TenantID
		}
		h["x-user-id"] = user.ID
	}
	return h
}

// User returns a copy of the current user snapshot, or nil.
func (m *Manager) User() *models.SessionUser {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Authenticated reports whether both a user snapshot and a token are
// present.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	user := m.user
	m.mu.Unlock()
	return user != nil && m.api.Token() != ""
}

// Loading reports whether an auth transition is in progress.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateAuthenticating || m.state == StateRefreshing
}

// HasRole reports whether the current user carries the named role. All
// predicates answer false, never an error, when unauthenticated.
func (m *Manager) HasRole(name string) bool {
	u := m.User()
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (m *Manager) HasPermission(name string) bool {
	u := m.User()
	if u == nil {
		return false
	}
	for _, p := range u.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

func (m *Manager) HasAnyRole(names []string) bool {
	for _, n := range names {
		if m.HasRole(n) {
			return true
		}
	}
	return false
}

func (m *Manager) HasAnyPermission(names []string) bool {
	for _, n := range names {
		if m.HasPermission(n) {
			return true
		}
	}
	return false
}

// TokenExpiry inspects the bearer token's exp claim without verifying the
// signature (verification is the server's job).
func (m *Manager) TokenExpiry() (time.Time, bool) {
	token := m.api.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Manager) persist(ctx context.Context, user *models.SessionUser, token string) {
	raw, err := json.Marshal(user)
	if err != nil {
		m.log.Error(ctx, "serializing session failed", "error", err)
		return
	}
	if err := storage.SaveSession(ctx, m.db, raw, token); err != nil {
		m.log.Error(ctx, "persisting session failed", "error", err)
	}
}

// teardown clears every trace of the session: memory, client credentials,
// and both durable keys.
func (m *Manager) teardown(ctx context.Context) {
	m.mu.Lock()
	m.user = nil
	m.state = StateUnauthenticated
	m.mu.Unlock()
	m.api.ClearAuth()
	if err := storage.ClearSession(ctx, m.db); err != nil {
		m.log.Warn(ctx, "clearing persisted session failed", "error", err)
	}
}
