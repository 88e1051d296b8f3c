// Package session owns the client's authentication state.
//
// A Manager is created once by the application root and handed to every
// consumer. It moves between three observable situations:
//
//	Initializing (IsLoading) -> Authenticated | Unauthenticated
//	Authenticated <-> Unauthenticated via Login / Logout
//
// Login and Register put an IsLoading overlay on the current state while
// they run. The manager persists the credential and a user snapshot in a
// credentials.Repository, attaches the credential to the gateway, and for
// schemes with expiring credentials runs one expiry watch per session.
//
// Operations never return raw transport errors: Login and Register return
// a Result with a user-facing reason. Only RefreshUser returns an error,
// and it never logs the user out by itself; invalid sessions are detected
// by the gateway's 401 handling, which calls back into the manager.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/bankclient/internal/client/auth"
	"github.com/dmitrijs2005/bankclient/internal/client/gateway"
	"github.com/dmitrijs2005/bankclient/internal/client/metrics"
	"github.com/dmitrijs2005/bankclient/internal/client/models"
	"github.com/dmitrijs2005/bankclient/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/bankclient/internal/client/tokens"
	"github.com/dmitrijs2005/bankclient/internal/logging"
)

const (
	DefaultWatchInterval = 60 * time.Second
	DefaultWarningWindow = 5 * time.Minute
)

// State is a snapshot of the session. IsAuthenticated implies User != nil.
type State struct {
	User            *models.User
	IsAuthenticated bool
	IsLoading       bool
}

func (s State) IsAdmin() bool {
	return s.IsAuthenticated && s.User.IsAdmin()
}

// Gateway is the part of *gateway.Gateway the manager uses.
type Gateway interface {
	auth.Exchanger
	Get(ctx context.Context, path string, opts ...gateway.RequestOption) (*gateway.Response, error)
	SetCredential(cred string)
	ClearCredential()
	OnUnauthorized(fn gateway.UnauthorizedFunc)
}

type Manager struct {
	gw        Gateway
	store     credentials.Repository
	scheme    auth.Scheme
	log       logging.Logger
	notifier  Notifier
	navigator Navigator
	metrics   *metrics.Metrics
	now       func() time.Time
	interval  time.Duration
	warnAhead time.Duration

	initOnce sync.Once

	mu      sync.RWMutex
	state   State
	subs    map[int]chan State
	nextSub int

	watchMu     sync.Mutex
	watchCancel context.CancelFunc
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

func WithNavigator(n Navigator) Option {
	return func(m *Manager) { m.navigator = n }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithClock sets the clock used for expiry warnings.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithWatchInterval(d time.Duration) Option {
	return func(m *Manager) { m.interval = d }
}

func WithWarningWindow(d time.Duration) Option {
	return func(m *Manager) { m.warnAhead = d }
}

// New creates a manager in the initializing state and registers it as the
// gateway's unauthorized hook.
func New(gw Gateway, store credentials.Repository, scheme auth.Scheme, opts ...Option) *Manager {
	m := &Manager{
		gw:        gw,
		store:     store,
		scheme:    scheme,
		log:       logging.Nop(),
		navigator: nopNavigator{},
		now:       time.Now,
		interval:  DefaultWatchInterval,
		warnAhead: DefaultWarningWindow,
		state:     State{IsLoading: true},
		subs:      make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.notifier == nil {
		m.notifier = logNotifier{log: m.log}
	}
	if m.metrics == nil {
		m.metrics = metrics.New(nil)
	}

	gw.OnUnauthorized(m.handleUnauthorized)
	return m
}

func (m *Manager) codec() tokens.Codec {
	return tokens.Codec{Now: m.now}
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Subscribe returns a channel receiving every state change (only the most
// recent one is kept if the reader falls behind) and a cancel func.
func (m *Manager) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan State, 1)
	m.subs[id] = ch

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) update(fn func(s *State)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn(&m.state)
	if !m.state.IsAuthenticated {
		m.state.User = nil
	}
	for _, ch := range m.subs {
		publish(ch, m.state)
	}
}

func publish(ch chan State, s State) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}

func (m *Manager) setLoading(v bool) {
	m.update(func(s *State) { s.IsLoading = v })
}

func (m *Manager) setAuthenticated(u *models.User) {
	m.update(func(s *State) {
		s.User = u
		s.IsAuthenticated = true
		s.IsLoading = false
	})
}

func (m *Manager) setUnauthenticated() {
	m.update(func(s *State) {
		s.User = nil
		s.IsAuthenticated = false
		s.IsLoading = false
	})
}

// Close stops background work. The stored session is kept.
func (m *Manager) Close() {
	m.stopWatch()
}
