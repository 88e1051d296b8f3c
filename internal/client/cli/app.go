package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/bankclient/internal/client/auth"
	"github.com/dmitrijs2005/bankclient/internal/client/config"
	"github.com/dmitrijs2005/bankclient/internal/client/gateway"
	"github.com/dmitrijs2005/bankclient/internal/client/metrics"
	"github.com/dmitrijs2005/bankclient/internal/client/models"
	"github.com/dmitrijs2005/bankclient/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/bankclient/internal/client/services"
	"github.com/dmitrijs2005/bankclient/internal/client/session"
	"github.com/dmitrijs2005/bankclient/internal/common"
	"github.com/dmitrijs2005/bankclient/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// HomePath is where the client lands after logout.
const HomePath = "/"

type App struct {
	config   *config.Config
	log      logging.Logger
	scheme   auth.Scheme
	session  *session.Manager
	accounts services.AccountService
	txs      services.TransactionService
	admin    services.AdminService
	registry *prometheus.Registry
	store    credentials.Repository
	closeFn  func() error

	reader *bufio.Reader
	out    *syncWriter

	mu       sync.Mutex
	location string
}

// syncWriter serialises output from the REPL and the expiry watch.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// NewApp wires the client for cfg. Terminal input is read from in and all
// user-facing output goes to out; logs go to logOut.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	scheme, err := auth.FromName(c.AuthScheme)
	if err != nil {
		return nil, err
	}

	log := logging.New(c.LogLevel, logOut)
	registry := prometheus.NewRegistry()
	mt := metrics.New(registry)

	a := &App{
		config:   c,
		log:      log,
		scheme:   scheme,
		registry: registry,
		reader:   bufio.NewReader(in),
		out:      &syncWriter{w: out},
		closeFn:  func() error { return nil },
	}

	if c.StorePath == config.MemoryStore {
		a.store = credentials.NewMemoryRepository()
	} else {
		repo, err := credentials.Open(ctx, c.StorePath)
		if err != nil {
			return nil, fmt.Errorf("error opening session store: %w", err)
		}
		a.store = repo
		a.closeFn = repo.Close
	}

	gw := gateway.New(c.ServerBaseURL, scheme,
		gateway.WithTimeout(c.RequestTimeout),
		gateway.WithLogger(log),
		gateway.WithMetrics(mt),
	)

	a.session = session.New(gw, a.store, scheme,
		session.WithLogger(log),
		session.WithNotifier(a),
		session.WithNavigator(a),
		session.WithMetrics(mt),
		session.WithWatchInterval(c.ExpiryCheckInterval),
		session.WithWarningWindow(c.ExpiryWarningWindow),
	)
	a.accounts = services.NewAccountService(gw)
	a.txs = services.NewTransactionService(gw)
	a.admin = services.NewAdminService(gw)

	return a, nil
}

// Run restores the previous session and serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.println("Welcome to the bank terminal (type 'help' for commands)")

	st := a.session.Initialize(ctx)
	if st.IsAuthenticated {
		a.printf("Welcome back, %s!\n", st.User.FullName)
		a.Navigate(ctx, landingFor(st))
	} else {
		a.Navigate(ctx, common.LoginPath)
	}

	runREPL(ctx, a.commands(), a.session.State, a.status, a.reader, a.out)
}

func (a *App) Close() {
	a.session.Close()
	if err := a.closeFn(); err != nil {
		a.log.Error(context.Background(), "error closing session store", "error", err)
	}
}

// Notify prints a session notice.
func (a *App) Notify(_ context.Context, n session.Notice) {
	switch n.Level {
	case session.LevelSuccess:
		a.printf("[ok] %s\n", n.Message)
	case session.LevelWarning:
		a.printf("[warning] %s\n", n.Message)
	case session.LevelError:
		a.printf("[error] %s\n", n.Message)
	default:
		a.println(n.Message)
	}
}

// Navigate records the current area of the client.
func (a *App) Navigate(_ context.Context, path string) {
	a.mu.Lock()
	changed := a.location != path
	a.location = path
	a.mu.Unlock()

	if changed && path == common.LoginPath {
		a.println("Please login to continue (type 'login').")
	}
}

func (a *App) Location() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.location
}

func (a *App) status() string {
	st := a.session.State()
	loc := a.Location()
	if st.IsAuthenticated {
		return fmt.Sprintf("(%s) %s", st.User.Email, loc)
	}
	return loc
}

// currentUser returns the signed-in user, or session.ErrNotAuthenticated
// when the session ended, e.g. the expiry watch logged out during a prompt.
func (a *App) currentUser() (*models.User, error) {
	st := a.session.State()
	if !st.IsAuthenticated || st.User == nil {
		return nil, session.ErrNotAuthenticated
	}
	return st.User, nil
}

func landingFor(st session.State) string {
	if st.IsAdmin() {
		return common.AdminPath
	}
	return common.DashboardPath
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
