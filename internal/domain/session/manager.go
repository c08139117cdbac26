// Package session owns the authoritative session record. All mutation goes
// through the named transitions on Manager; no other package touches the
// fields, which keeps "authenticated iff access token present" true on
// every call path.
package session

import (
	"context"
	"errors"
	"sync"

	"storefront-go/internal/domain/session/model"
	"storefront-go/internal/domain/session/store"
)

// Options encapsulates the dependencies required to construct a Manager.
type Options struct {
	Store  store.Store
	Logger model.Logger
}

// Manager coordinates the in-memory session state and its durable copy.
type Manager struct {
	store  store.Store
	logger model.Logger

	mu   sync.RWMutex
	snap model.Snapshot

	subMu   sync.Mutex
	subs    map[int]func(model.Snapshot)
	nextSub int
}

// NewManager wires a Manager and hydrates it from durable storage.
func NewManager(ctx context.Context, opts Options) (*Manager, error) {
	if opts.Store == nil {
		return nil, errors.New("session manager requires a store")
	}
	if opts.Logger == nil {
		return nil, errors.New("session manager requires a logger")
	}

	m := &Manager{
		store:  opts.Store,
		logger: opts.Logger,
		subs:   make(map[int]func(model.Snapshot)),
	}

	rec, err := opts.Store.LoadSession(ctx)
	if err != nil {
		return nil, err
	}
	otp, err := opts.Store.LoadOTPToken(ctx)
	if err != nil {
		return nil, err
	}
	m.snap = model.Snapshot{
		AccessToken:     rec.AccessToken,
		RefreshToken:    rec.RefreshToken,
		OTPToken:        otp,
		User:            rec.User,
		IsAuthenticated: rec.AccessToken != "",
	}
	if m.snap.IsAuthenticated {
		m.logger.Debug("session hydrated from durable storage")
	}
	return m, nil
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() model.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// IsAuthenticated reports whether an access token is currently held.
func (m *Manager) IsAuthenticated() bool {
	return m.Snapshot().IsAuthenticated
}

// User returns the cached profile, if any.
func (m *Manager) User() *model.User {
	return m.Snapshot().User
}

// OnChange registers a listener invoked after every completed transition
// with the resulting snapshot. It returns the detach function.
func (m *Manager) OnChange(fn func(model.Snapshot)) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) publish(snap model.Snapshot) {
	m.subMu.Lock()
	listeners := make([]func(model.Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		listeners = append(listeners, fn)
	}
	m.subMu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// Establish records a freshly issued token pair and profile, persists them,
// and marks the session authenticated.
func (m *Manager) Establish(ctx context.Context, accessToken, refreshToken string, user *model.User) error {
	if accessToken == "" {
		return errors.New("establish requires an access token")
	}

	m.mu.Lock()
	if err := m.store.SaveSession(ctx, store.Record{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}); err != nil {
		m.mu.Unlock()
		return err
	}
	m.snap.AccessToken = accessToken
	m.snap.RefreshToken = refreshToken
	m.snap.User = user
	m.snap.IsAuthenticated = true
	snap := m.snap
	m.mu.Unlock()

	m.logger.Info("session established")
	m.publish(snap)
	return nil
}

// Clear drops the token pair and cached profile in one transition, leaving
// the OTP token untouched. Idempotent; safe to call from timer callbacks
// and response callbacks in any order.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	wasAuthenticated := m.snap.IsAuthenticated
	if err := m.store.ClearSession(ctx); err != nil {
		m.mu.Unlock()
		return err
	}
	m.snap.AccessToken = ""
	m.snap.RefreshToken = ""
	m.snap.User = nil
	m.snap.IsAuthenticated = false
	snap := m.snap
	m.mu.Unlock()

	if wasAuthenticated {
		m.logger.Info("session cleared")
	}
	m.publish(snap)
	return nil
}

// Logout is an explicit, user-initiated Clear.
func (m *Manager) Logout(ctx context.Context) error {
	m.logger.Info("logout requested")
	return m.Clear(ctx)
}

// SetUser replaces the cached profile without touching tokens.
func (m *Manager) SetUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	if err := m.store.SaveSession(ctx, store.Record{
		AccessToken:  m.snap.AccessToken,
		RefreshToken: m.snap.RefreshToken,
		User:         user,
	}); err != nil {
		m.mu.Unlock()
		return err
	}
	m.snap.User = user
	snap := m.snap
	m.mu.Unlock()

	m.publish(snap)
	return nil
}

// SetOTPToken stores the narrowly scoped credential issued after one-time
// code verification. It does not establish an authenticated session.
func (m *Manager) SetOTPToken(ctx context.Context, token string) error {
	m.mu.Lock()
	if err := m.store.SaveOTPToken(ctx, token); err != nil {
		m.mu.Unlock()
		return err
	}
	m.snap.OTPToken = token
	snap := m.snap
	m.mu.Unlock()

	m.logger.Debug("otp verification token stored")
	m.publish(snap)
	return nil
}

// ClearOTPToken drops the OTP credential without touching the main session.
func (m *Manager) ClearOTPToken(ctx context.Context) error {
	m.mu.Lock()
	if err := m.store.ClearOTPToken(ctx); err != nil {
		m.mu.Unlock()
		return err
	}
	m.snap.OTPToken = ""
	snap := m.snap
	m.mu.Unlock()

	m.publish(snap)
	return nil
}
