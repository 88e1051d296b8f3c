package mockbank

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bankclient/internal/client/models"
	"golang.org/x/crypto/bcrypt"
)

type ctxKey struct{}

type errorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, s string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(s))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorBody{Status: status, Error: http.StatusText(status), Message: msg, Path: r.URL.Path})
}

func (b *Bank) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /authenticate", b.handleAuthenticate)
	mux.HandleFunc("POST /api/signup", b.handleSignup)
	mux.HandleFunc("GET /user/dashboard", b.authed(b.handleDashboard))
	mux.HandleFunc("GET /user/balance", b.authed(b.handleBalance))
	mux.HandleFunc("PUT /user/{id}", b.authed(b.handleUpdateUser))
	mux.HandleFunc("DELETE /user/{id}", b.authed(b.handleDeleteUser))
	mux.HandleFunc("POST /user/change-password", b.authed(b.handleChangePassword))
	mux.HandleFunc("POST /transactions/deposit", b.authed(b.handleMove(models.TransactionDeposit)))
	mux.HandleFunc("POST /transactions/withdraw", b.authed(b.handleMove(models.TransactionWithdrawal)))
	mux.HandleFunc("POST /transactions/transfer", b.authed(b.handleTransfer))
	mux.HandleFunc("GET /transactions/history", b.authed(b.handleHistory))
	mux.HandleFunc("GET /admin/users", b.admin(b.handleListUsers))
	mux.HandleFunc("POST /admin/users", b.admin(b.handleCreateUser))
	mux.HandleFunc("DELETE /admin/users/{id}", b.admin(b.handleAdminDelete))
	return mux
}

// ServeHTTP routes a request like the real backend does.
func (b *Bank) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests[r.Method+" "+r.URL.Path]++
	b.mu.Unlock()

	b.mux.ServeHTTP(w, r)
}

func current(r *http.Request) *account {
	a, _ := r.Context().Value(ctxKey{}).(*account)
	return a
}

// authed resolves the caller from a Basic or Bearer Authorization header.
// Handlers run with the bank lock held.
func (b *Bank) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		a, msg := b.caller(r)
		if a == nil {
			writeError(w, r, http.StatusUnauthorized, msg)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, a)))
	}
}

func (b *Bank) admin(next http.HandlerFunc) http.HandlerFunc {
	return b.authed(func(w http.ResponseWriter, r *http.Request) {
		if current(r).user.Role != models.RoleAdmin {
			writeError(w, r, http.StatusForbidden, "Access Denied")
			return
		}
		next(w, r)
	})
}

func (b *Bank) caller(r *http.Request) (*account, string) {
	h := r.Header.Get("Authorization")
	scheme, value, ok := strings.Cut(h, " ")
	if !ok {
		return nil, "Full authentication is required to access this resource"
	}

	switch scheme {
	case "Basic":
		raw, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, "Bad credentials"
		}
		email, password, _ := strings.Cut(string(raw), ":")
		a, err := b.authenticate(email, password)
		if err != nil {
			return nil, "Bad credentials"
		}
		if !a.verified {
			return nil, "User account is not verified"
		}
		return a, ""
	case "Bearer":
		email, err := subjectFromToken(value, b.secret, b.now)
		if err != nil {
			return nil, "Invalid or expired token"
		}
		a, ok := b.byEmail[strings.ToLower(email)]
		if !ok {
			return nil, "User not found"
		}
		return a, ""
	default:
		return nil, "Unsupported authorization scheme"
	}
}

func (b *Bank) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}

	b.mu.Lock()
	a, ok := b.byEmail[strings.ToLower(req.Username)]
	if ok && !a.verified {
		b.mu.Unlock()
		writeText(w, http.StatusForbidden, "Your account is not verified. Please check your email for the verification link.")
		return
	}
	_, err := b.authenticate(req.Username, req.Password)
	b.mu.Unlock()
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "Bad credentials")
		return
	}

	token, err := b.IssueToken(a.user.Email, b.tokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		return
	}
	writeText(w, http.StatusOK, token)
}

func (b *Bank) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}

	b.mu.Lock()
	a, err := b.addLocked(NewUser{
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
		Balance:     req.Balance,
		AccountType: req.AccountType,
		Unverified:  true,
	})
	b.mu.Unlock()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "User already exists with email "+req.Email)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User Registered Successfully and Verification link sent to the respective email!",
		"data":    a.user,
	})
}

func (b *Bank) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, current(r).user)
}

func (b *Bank) handleBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, current(r).user.Balance)
}

func (b *Bank) ownAccount(w http.ResponseWriter, r *http.Request) (*account, bool) {
	a := current(r)
	id := r.PathValue("id")
	if _, ok := b.byID[id]; !ok {
		writeError(w, r, http.StatusNotFound, "user for the given id "+id+" not found")
		return nil, false
	}
	if a.user.UserID != id && a.user.Role != models.RoleAdmin {
		writeText(w, http.StatusForbidden, "You are not allowed to modify this user")
		return nil, false
	}
	return b.byID[id], true
}

func (b *Bank) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	target, ok := b.ownAccount(w, r)
	if !ok {
		return
	}
	var upd models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	if upd.Email != "" && !strings.EqualFold(upd.Email, target.user.Email) {
		key := strings.ToLower(upd.Email)
		if _, taken := b.byEmail[key]; taken {
			writeError(w, r, http.StatusBadRequest, "Email already in use")
			return
		}
		delete(b.byEmail, strings.ToLower(target.user.Email))
		target.user.Email = upd.Email
		b.byEmail[key] = target
	}
	if upd.FullName != "" {
		target.user.FullName = upd.FullName
	}
	writeJSON(w, http.StatusAccepted, target.user)
}

func (b *Bank) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	target, ok := b.ownAccount(w, r)
	if !ok {
		return
	}
	b.removeLocked(target)
	writeText(w, http.StatusOK, "User Deleted")
}

func (b *Bank) removeLocked(a *account) {
	delete(b.byID, a.user.UserID)
	delete(b.byEmail, strings.ToLower(a.user.Email))
}

func (b *Bank) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	a := current(r)
	if bcrypt.CompareHashAndPassword(a.hash, []byte(req.CurrentPassword)) != nil {
		writeError(w, r, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), b.cost)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		return
	}
	a.hash = hash
	writeText(w, http.StatusOK, "Password changed successfully")
}

func (b *Bank) handleMove(typ models.TransactionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var amount float64
		if err := json.NewDecoder(r.Body).Decode(&amount); err != nil {
			writeError(w, r, http.StatusBadRequest, "Amount must be a number")
			return
		}
		if !(amount > 0) || math.IsInf(amount, 0) {
			writeError(w, r, http.StatusBadRequest, "Amount must be positive")
			return
		}

		a := current(r)
		if typ == models.TransactionWithdrawal {
			if a.user.Balance < amount {
				writeError(w, r, http.StatusBadRequest, "Insufficient balance")
				return
			}
			a.user.Balance -= amount
		} else {
			a.user.Balance += amount
		}
		writeJSON(w, http.StatusOK, b.record(a, typ, amount))
	}
}

func (b *Bank) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var slip models.TransferSlip
	if err := json.NewDecoder(r.Body).Decode(&slip); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	a := current(r)
	switch {
	case slip.Amount < 1.0:
		writeError(w, r, http.StatusBadRequest, "Amount should be greater than 1.0")
		return
	case slip.SenderAccountNumber != a.user.AccountNumber:
		writeText(w, http.StatusForbidden, "You can only transfer from your own account")
		return
	case slip.SenderAccountNumber == slip.ReceiverAccountNumber:
		writeError(w, r, http.StatusBadRequest, "Cannot transfer to the same account")
		return
	}
	to := b.accountByNumber(slip.ReceiverAccountNumber)
	if to == nil {
		writeError(w, r, http.StatusNotFound, "Receiver account not found")
		return
	}
	if a.user.Balance < slip.Amount {
		writeError(w, r, http.StatusBadRequest, "Insufficient balance")
		return
	}

	a.user.Balance -= slip.Amount
	to.user.Balance += slip.Amount
	b.record(to, models.TransactionTransfer, slip.Amount)
	writeJSON(w, http.StatusOK, b.record(a, models.TransactionTransfer, slip.Amount))
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil {
		size = 10
	}
	return page, size
}

func (b *Bank) handleHistory(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	history := slices.Clone(current(r).history)
	slices.Reverse(history)
	writeJSON(w, http.StatusOK, paginate(history, page, size))
}

func (b *Bank) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(b.sortedUsers(), page, size))
}

func (b *Bank) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request")
		return
	}
	a, err := b.addLocked(NewUser{
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		Balance:     req.Balance,
		AccountType: req.AccountType,
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			writeError(w, r, http.StatusBadRequest, "User already exists with email "+req.Email)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		return
	}
	writeJSON(w, http.StatusCreated, a.user)
}

func (b *Bank) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	a, ok := b.byID[id]
	if !ok {
		writeError(w, r, http.StatusNotFound, "user for the given id "+id+" not found")
		return
	}
	if a.user.Role == models.RoleAdmin {
		writeText(w, http.StatusForbidden, "Admin accounts cannot be deleted")
		return
	}
	b.removeLocked(a)
	w.WriteHeader(http.StatusNoContent)
}
