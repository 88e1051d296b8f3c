package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bankclient/internal/client/gateway"
	"github.com/dmitrijs2005/bankclient/internal/client/models"
	"github.com/dmitrijs2005/bankclient/internal/common"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Initialize restores a stored session. Only the first call does any work.
func (m *Manager) Initialize(ctx context.Context) State {
	m.initOnce.Do(func() { m.initialize(ctx) })
	return m.State()
}

func (m *Manager) initialize(ctx context.Context) {
	cred, ok, err := m.store.Load(ctx, common.CredentialKey)
	if err != nil {
		m.log.Error(ctx, "failed to load stored session", "error", err)
		m.purge(ctx)
		m.setUnauthenticated()
		return
	}
	if !ok || cred == "" {
		m.setUnauthenticated()
		return
	}

	if m.scheme.Expired(cred) {
		m.log.Info(ctx, "stored credential expired, discarding")
		m.purge(ctx)
		m.setUnauthenticated()
		return
	}

	m.gw.SetCredential(cred)
	user, err := m.fetchProfile(ctx)
	if err != nil {
		m.log.Warn(ctx, "stored session rejected", "error", err)
		m.gw.ClearCredential()
		m.purge(ctx)
		m.setUnauthenticated()
		return
	}

	m.saveSnapshot(ctx, user)
	m.setAuthenticated(user)
	if m.scheme.WatchesExpiry() {
		m.startWatch()
	}
	m.log.Info(ctx, "session restored", "user", user.Email)
}

func (m *Manager) Login(ctx context.Context, identifier, secret string) Result {
	// a new login replaces the current session whatever its outcome
	m.stopWatch()
	m.gw.ClearCredential()
	m.purge(ctx)
	m.update(func(s *State) {
		s.User = nil
		s.IsAuthenticated = false
		s.IsLoading = true
	})

	cred, err := m.scheme.Acquire(ctx, m.gw, identifier, secret)
	if err != nil {
		return m.loginFailed(ctx, err)
	}

	m.gw.SetCredential(cred)
	user, err := m.fetchProfile(ctx)
	if err != nil {
		return m.loginFailed(ctx, err)
	}

	snapshot, err := json.Marshal(user)
	if err != nil {
		return m.loginFailed(ctx, fmt.Errorf("failed to encode user: %w", err))
	}
	err = m.store.SaveAll(ctx, map[string]string{
		common.CredentialKey:   cred,
		common.UserSnapshotKey: string(snapshot),
	})
	if err != nil {
		return m.loginFailed(ctx, err)
	}

	m.setAuthenticated(user)
	if m.scheme.WatchesExpiry() {
		m.startWatch()
	}

	m.metrics.ObserveLogin("success")
	m.log.Info(ctx, "logged in", "user", user.Email, "role", user.Role)
	m.notifier.Notify(ctx, Notice{Level: LevelSuccess, Message: msgLoginOK})

	return Result{Success: true, User: user, IsAdmin: user.IsAdmin()}
}

func (m *Manager) loginFailed(ctx context.Context, err error) Result {
	m.stopWatch()
	m.gw.ClearCredential()
	m.purge(ctx)
	m.setUnauthenticated()

	reason, short, notice := classifyLogin(err)
	m.metrics.ObserveLogin(string(reason))
	m.log.Warn(ctx, "login failed", "reason", reason, "error", err)
	m.notifier.Notify(ctx, Notice{Level: LevelError, Message: notice})

	return Result{Error: short, Reason: reason}
}

// Register creates an account. It does not sign the user in.
func (m *Manager) Register(ctx context.Context, req models.SignupRequest) Result {
	m.setLoading(true)
	defer m.setLoading(false)

	resp, err := m.gw.Post(ctx, common.SignupPath, req, gateway.WithoutCredential())
	if err != nil {
		msg := gateway.MessageOf(err)
		if msg == "" || errors.Is(err, gateway.ErrUnavailable) {
			msg = msgRegisterFailed
		}
		m.log.Warn(ctx, "registration failed", "error", err)
		m.notifier.Notify(ctx, Notice{Level: LevelError, Message: msg})
		return Result{Error: msg, Reason: ReasonRegistrationFailed}
	}

	m.notifier.Notify(ctx, Notice{Level: LevelSuccess, Message: msgRegisterOK})
	return Result{Success: true, Data: resp.Body}
}

// Logout always succeeds; storage errors are only logged.
func (m *Manager) Logout(ctx context.Context) {
	m.reset(ctx)
	m.log.Info(ctx, "logged out")
	m.notifier.Notify(ctx, Notice{Level: LevelInfo, Message: msgLoggedOut})
}

// RefreshUser re-reads the profile, e.g. after a balance change.
func (m *Manager) RefreshUser(ctx context.Context) (*models.User, error) {
	if !m.State().IsAuthenticated {
		return nil, ErrNotAuthenticated
	}

	user, err := m.fetchProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh user: %w", err)
	}

	var applied bool
	m.update(func(s *State) {
		if s.IsAuthenticated {
			s.User = user
			applied = true
		}
	})
	if !applied {
		return nil, ErrNotAuthenticated
	}
	m.saveSnapshot(ctx, user)
	return user, nil
}

func (m *Manager) fetchProfile(ctx context.Context) (*models.User, error) {
	resp, err := m.gw.Get(ctx, common.ProfilePath)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := resp.DecodeJSON(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (m *Manager) saveSnapshot(ctx context.Context, u *models.User) {
	data, err := json.Marshal(u)
	if err != nil {
		m.log.Error(ctx, "failed to encode user", "error", err)
		return
	}
	if err := m.store.Save(ctx, common.UserSnapshotKey, string(data)); err != nil {
		m.log.Error(ctx, "failed to store user snapshot", "error", err)
	}
}

func (m *Manager) purge(ctx context.Context) {
	if err := m.store.Clear(context.WithoutCancel(ctx)); err != nil {
		m.log.Error(ctx, "failed to clear stored session", "error", err)
	}
}

// reset drops everything the session holds and leaves it unauthenticated.
func (m *Manager) reset(ctx context.Context) {
	m.stopWatch()
	m.purge(ctx)
	m.gw.ClearCredential()
	m.setUnauthenticated()
}

// handleUnauthorized is the gateway hook. The gateway has already dropped
// the credential. IsLoading belongs to whichever operation is running.
func (m *Manager) handleUnauthorized(ctx context.Context, cause error) {
	wasAuthenticated := m.State().IsAuthenticated

	m.stopWatch()
	m.purge(ctx)
	m.update(func(s *State) {
		s.User = nil
		s.IsAuthenticated = false
	})

	m.log.Warn(ctx, "credential rejected", "cause", cause)
	if wasAuthenticated {
		msg := msgSessionRevoked
		if errors.Is(cause, gateway.ErrTokenExpired) {
			msg = msgSessionExpired
		}
		m.notifier.Notify(ctx, Notice{Level: LevelError, Message: msg})
	}
	m.navigator.Navigate(ctx, common.LoginPath)
}
