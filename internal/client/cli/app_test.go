package cli

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/bankclient/internal/client/auth"
	"github.com/dmitrijs2005/bankclient/internal/client/config"
	"github.com/dmitrijs2005/bankclient/internal/client/session"
	"github.com/dmitrijs2005/bankclient/internal/common"
	"github.com/dmitrijs2005/bankclient/internal/mockbank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bankEnv struct {
	bank *mockbank.Bank
	cfg  *config.Config
}

func newBankEnv(t *testing.T, scheme string) *bankEnv {
	t.Helper()
	stubTerminal(t, false, nil)

	b := mockbank.New()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	_, err := b.AddUser(mockbank.NewUser{FullName: "Foo", Email: "foo@bank.test", Password: "secret1", Balance: 100})
	require.NoError(t, err)
	_, err = b.AddUser(mockbank.NewUser{FullName: "Bar", Email: "bar@bank.test", Password: "secret2"})
	require.NoError(t, err)
	_, err = b.AddUser(mockbank.NewUser{FullName: "Root", Email: "root@bank.test", Password: "admin12", Role: "ADMIN"})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ServerBaseURL = srv.URL
	cfg.AuthScheme = scheme
	cfg.StorePath = config.MemoryStore
	cfg.RequestTimeout = 5 * time.Second
	cfg.LogLevel = "error"

	return &bankEnv{bank: b, cfg: cfg}
}

func (e *bankEnv) run(t *testing.T, lines ...string) (*App, string) {
	t.Helper()
	var out bytes.Buffer
	app, err := NewApp(context.Background(), e.cfg, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, io.Discard)
	require.NoError(t, err)
	app.Run(context.Background())
	return app, out.String()
}

func TestApp_UserSession(t *testing.T) {
	e := newBankEnv(t, auth.NameBearer)
	bar, _ := e.bank.User("bar@bank.test")

	app, out := e.run(t,
		"balance",
		"login foo@bank.test",
		"secret1",
		"whoami",
		"deposit 50",
		"withdraw 20",
		"transfer "+strconv.FormatInt(bar.AccountNumber, 10)+" 30",
		"history",
		"users",
		"logout",
		"exit",
	)

	assert.Contains(t, out, "Please login to continue (type 'login').")
	assert.Contains(t, out, "Please login first (type 'login').")
	assert.Contains(t, out, "[ok] Login successful!")
	assert.Contains(t, out, "Welcome, Foo!")
	assert.Contains(t, out, "Email:    foo@bank.test")
	assert.Contains(t, out, "New balance: 150.00")
	assert.Contains(t, out, "New balance: 130.00")
	assert.Contains(t, out, "New balance: 100.00")
	assert.Contains(t, out, "DEPOSIT")
	assert.Contains(t, out, "Access denied: administrator role required.")
	assert.Contains(t, out, "Logged out successfully")
	assert.Contains(t, out, "Bye!")

	assert.Equal(t, HomePath, app.Location())
	assert.False(t, app.session.State().IsAuthenticated)

	got, _ := e.bank.User("bar@bank.test")
	assert.InDelta(t, 30.0, got.Balance, 0.001)
}

func TestApp_InvalidLogin(t *testing.T) {
	e := newBankEnv(t, auth.NameBearer)

	app, out := e.run(t, "login foo@bank.test", "wrong", "exit")

	assert.Contains(t, out, "[error] Invalid email or password")
	assert.Equal(t, common.LoginPath, app.Location())
}

func TestApp_UnverifiedLogin(t *testing.T) {
	e := newBankEnv(t, auth.NameBearer)
	_, err := e.bank.AddUser(mockbank.NewUser{FullName: "New", Email: "new@bank.test", Password: "secret3", Unverified: true})
	require.NoError(t, err)

	_, out := e.run(t, "login new@bank.test", "secret3", "exit")

	assert.Contains(t, out, "Please verify your email")
}

func TestApp_AdminSession(t *testing.T) {
	e := newBankEnv(t, auth.NameBasic)

	app, out := e.run(t,
		"login root@bank.test",
		"admin12",
		"users",
		"adduser",
		"Baz", "baz@bank.test", "secret4", "current", "25", "",
		"exit",
	)

	assert.Equal(t, common.AdminPath, app.Location())
	assert.Contains(t, out, "foo@bank.test")
	assert.Contains(t, out, "Created user Baz")

	baz, ok := e.bank.User("baz@bank.test")
	require.True(t, ok)
	assert.Equal(t, "USER", string(baz.Role))
}

func TestApp_Register(t *testing.T) {
	e := newBankEnv(t, auth.NameBearer)

	_, out := e.run(t,
		"register",
		"Qux", "qux@bank.test", "secret5", "", "",
		"register",
		"Q", "bad-email", "secret5", "", "",
		"exit",
	)

	assert.Contains(t, out, "[ok] ")
	_, ok := e.bank.User("qux@bank.test")
	assert.True(t, ok)
	assert.Equal(t, 1, e.bank.Requests("POST /api/signup"))
}

func TestApp_Stats(t *testing.T) {
	e := newBankEnv(t, auth.NameBearer)

	_, out := e.run(t, "login foo@bank.test", "secret1", "stats", "exit")

	assert.Contains(t, out, "bankclient_logins_total")
	assert.Contains(t, out, "result=success")
}

// hookReader runs onRead before its first Read, standing in for the
// expiry watch firing while the user sits at a prompt.
type hookReader struct {
	r      io.Reader
	onRead func()
	once   sync.Once
}

func (h *hookReader) Read(p []byte) (int, error) {
	h.once.Do(func() {
		if h.onRead != nil {
			h.onRead()
		}
	})
	return h.r.Read(p)
}

func TestApp_SessionEndsDuringPrompt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		run   func(a *App, ctx context.Context) error
	}{
		{"delete-account", "yes\n", func(a *App, ctx context.Context) error { return a.DeleteAccount(ctx, nil) }},
		{"profile", "New Name\n\n", func(a *App, ctx context.Context) error { return a.Profile(ctx, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newBankEnv(t, auth.NameBearer)
			ctx := context.Background()

			var app *App
			in := &hookReader{r: strings.NewReader(tt.input), onRead: func() { app.session.Logout(ctx) }}
			var out bytes.Buffer
			app, err := NewApp(ctx, e.cfg, in, &out, io.Discard)
			require.NoError(t, err)
			t.Cleanup(app.Close)

			app.session.Initialize(ctx)
			res := app.session.Login(ctx, "foo@bank.test", "secret1")
			require.True(t, res.Success)

			require.NotPanics(t, func() {
				err = tt.run(app, ctx)
			})
			require.ErrorIs(t, err, session.ErrNotAuthenticated)

			u, ok := e.bank.User("foo@bank.test")
			require.True(t, ok, "account must not be deleted")
			assert.Equal(t, "Foo", u.FullName)
		})
	}
}

func TestApp_CommandsWithoutSession(t *testing.T) {
	e := newBankEnv(t, auth.NameBearer)
	app, err := NewApp(context.Background(), e.cfg, strings.NewReader(""), io.Discard, io.Discard)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	ctx := context.Background()
	app.session.Initialize(ctx)

	assert.ErrorIs(t, app.Whoami(ctx, nil), session.ErrNotAuthenticated)
	assert.ErrorIs(t, app.Transfer(ctx, []string{"1000000002", "5"}), session.ErrNotAuthenticated)
	assert.ErrorIs(t, app.DeleteAccount(ctx, nil), session.ErrNotAuthenticated)
}
