package session

import (
	"context"
	"time"

	"github.com/dmitrijs2005/bankclient/internal/common"
)

// startWatch replaces any running expiry watch with a fresh one.
func (m *Manager) startWatch() {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	if m.watchCancel != nil {
		m.watchCancel()
		m.metrics.WatchStopped()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.watchCancel = cancel
	m.metrics.WatchStarted()

	go m.watch(ctx, m.interval)
}

// stopWatch may be called from the watch goroutine itself, so it only
// cancels and does not wait.
func (m *Manager) stopWatch() {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	if m.watchCancel == nil {
		return
	}
	m.watchCancel()
	m.watchCancel = nil
	m.metrics.WatchStopped()
}

func (m *Manager) watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.checkExpiry(ctx) {
				return
			}
		}
	}
}

// checkExpiry runs one watch tick and reports whether watching should go on.
func (m *Manager) checkExpiry(ctx context.Context) bool {
	cred, ok, err := m.store.Load(ctx, common.CredentialKey)
	if err != nil {
		if ctx.Err() == nil {
			m.log.Error(ctx, "expiry check: failed to load credential", "error", err)
		}
		return ctx.Err() == nil
	}
	if !ok || ctx.Err() != nil {
		return ctx.Err() == nil
	}

	if m.scheme.Expired(cred) {
		if !m.releaseWatch(ctx) {
			return false
		}
		m.log.Info(ctx, "session expired")
		m.notifier.Notify(ctx, Notice{Level: LevelError, Message: msgSessionExpired})
		m.purge(ctx)
		m.gw.ClearCredential()
		m.setUnauthenticated()
		m.navigator.Navigate(ctx, common.LoginPath)
		return false
	}

	if m.codec().ExpiresWithin(cred, m.warnAhead) {
		m.notifier.Notify(ctx, Notice{Level: LevelWarning, Message: msgSessionExpiring})
	}
	return true
}

// releaseWatch stops the running watch on behalf of the tick that owns ctx.
// It reports false when ctx was already cancelled, i.e. the watch was
// stopped or replaced by a newer session, which must be left alone.
func (m *Manager) releaseWatch(ctx context.Context) bool {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	if ctx.Err() != nil {
		return false
	}
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
		m.metrics.WatchStopped()
	}
	return true
}
