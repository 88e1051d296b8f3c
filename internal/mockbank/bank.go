// Package mockbank is an in-process implementation of the bank REST API
// used by tests and local demos. It keeps everything in memory, hashes
// passwords with bcrypt and signs bearer tokens with HS256.
package mockbank

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/bankclient/internal/client/models"
	"github.com/dmitrijs2005/bankclient/internal/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

type account struct {
	user     models.User
	hash     []byte
	verified bool
	history  []models.Transaction
}

// Bank is the fake backend. The zero value is not usable; call New.
type Bank struct {
	mu       sync.Mutex
	byID     map[string]*account
	byEmail  map[string]*account
	nextAcct int64

	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
	cost     int

	requests map[string]int
	mux      *http.ServeMux
}

type Option func(*Bank)

func WithTokenTTL(d time.Duration) Option {
	return func(b *Bank) { b.tokenTTL = d }
}

func WithClock(now func() time.Time) Option {
	return func(b *Bank) { b.now = now }
}

func WithSecret(secret []byte) Option {
	return func(b *Bank) { b.secret = secret }
}

func New(opts ...Option) *Bank {
	b := &Bank{
		byID:     make(map[string]*account),
		byEmail:  make(map[string]*account),
		nextAcct: 1000000001,
		tokenTTL: time.Hour,
		now:      time.Now,
		cost:     bcrypt.MinCost,
		requests: make(map[string]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.secret == nil {
		secret, err := shared.RandomSecret(32)
		if err != nil {
			secret = []byte("mockbank-secret")
		}
		b.secret = secret
	}
	b.mux = b.routes()
	return b
}

// NewUser describes an account created directly on the bank.
type NewUser struct {
	FullName    string
	Email       string
	Password    string
	Role        models.Role
	Balance     float64
	AccountType models.AccountType
	Unverified  bool
}

// AddUser creates an account and returns its profile.
func (b *Bank) AddUser(nu NewUser) (models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.addLocked(nu)
	if err != nil {
		return models.User{}, err
	}
	return a.user, nil
}

func (b *Bank) addLocked(nu NewUser) (*account, error) {
	key := strings.ToLower(nu.Email)
	if _, ok := b.byEmail[key]; ok {
		return nil, fmt.Errorf("%w with email %s", ErrUserExists, nu.Email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), b.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if nu.Role == "" {
		nu.Role = models.RoleUser
	}
	if nu.AccountType == "" {
		nu.AccountType = models.AccountSavings
	}

	a := &account{
		user: models.User{
			UserID:        uuid.NewString(),
			FullName:      nu.FullName,
			Email:         nu.Email,
			Role:          nu.Role,
			AccountNumber: b.nextAcct,
			AccountType:   nu.AccountType,
			Balance:       nu.Balance,
		},
		hash:     hash,
		verified: !nu.Unverified,
	}
	b.nextAcct++
	b.byID[a.user.UserID] = a
	b.byEmail[key] = a
	return a, nil
}

// Verify marks the account's email as confirmed.
func (b *Bank) Verify(email string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.byEmail[strings.ToLower(email)]
	if !ok {
		return ErrUserNotFound
	}
	a.verified = true
	return nil
}

// User returns the current profile of the account with the given email.
func (b *Bank) User(email string) (models.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.byEmail[strings.ToLower(email)]
	if !ok {
		return models.User{}, false
	}
	return a.user, true
}

// IssueToken signs a bearer token for email valid for ttl from the bank's clock.
func (b *Bank) IssueToken(email string, ttl time.Duration) (string, error) {
	return generateToken(email, b.secret, b.now(), ttl)
}

// Requests returns how many requests hit "METHOD /path".
func (b *Bank) Requests(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[route]
}

func (b *Bank) authenticate(email, password string) (*account, error) {
	a, ok := b.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return nil, err
	}
	return a, nil
}

func (b *Bank) record(a *account, typ models.TransactionType, amount float64) models.Transaction {
	tx := models.Transaction{
		TransactionID: uuid.NewString(),
		Amount:        amount,
		Type:          typ,
		Time:          models.LocalTime{Time: b.now().UTC().Truncate(time.Second)},
		AccountNumber: a.user.AccountNumber,
	}
	a.history = append(a.history, tx)
	return tx
}

func (b *Bank) sortedUsers() []models.User {
	out := make([]models.User, 0, len(b.byID))
	for _, a := range b.byID {
		if a.user.Role == models.RoleAdmin {
			continue
		}
		out = append(out, a.user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountNumber < out[j].AccountNumber })
	return out
}

func (b *Bank) accountByNumber(n int64) *account {
	for _, a := range b.byID {
		if a.user.AccountNumber == n {
			return a
		}
	}
	return nil
}

func paginate[T any](items []T, page, size int) models.Page[T] {
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	total := len(items)
	pages := (total + size - 1) / size
	from := min(page*size, total)
	to := min(from+size, total)
	return models.Page[T]{
		Content:       append([]T{}, items[from:to]...),
		Number:        page,
		Size:          size,
		TotalElements: total,
		TotalPages:    pages,
		Last:          page >= pages-1,
	}
}
