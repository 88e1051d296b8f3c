// Package access decides whether the current session may enter a protected
// area of the client. Gates are pure functions of a session.State.
package access

import (
	"github.com/dmitrijs2005/bankclient/internal/client/session"
	"github.com/dmitrijs2005/bankclient/internal/common"
)

type Outcome int

const (
	// Pending means the session is still resolving; show a loading indicator.
	Pending Outcome = iota
	Permit
	Deny
)

func (o Outcome) String() string {
	switch o {
	case Permit:
		return "permit"
	case Deny:
		return "deny"
	default:
		return "pending"
	}
}

// Decision is a gate verdict. Redirect is set only when Outcome is Deny.
type Decision struct {
	Outcome  Outcome
	Redirect string
}

func (d Decision) Allowed() bool { return d.Outcome == Permit }

type Gate func(st session.State) Decision

// Authenticated admits any signed-in user.
func Authenticated(st session.State) Decision {
	switch {
	case st.IsLoading:
		return Decision{Outcome: Pending}
	case !st.IsAuthenticated || st.User == nil:
		return Decision{Outcome: Deny, Redirect: common.LoginPath}
	default:
		return Decision{Outcome: Permit}
	}
}

// Admin admits signed-in users with the ADMIN role and sends everyone else
// back to the login screen or to their dashboard.
func Admin(st session.State) Decision {
	if d := Authenticated(st); d.Outcome != Permit {
		return d
	}
	if !st.User.IsAdmin() {
		return Decision{Outcome: Deny, Redirect: common.DashboardPath}
	}
	return Decision{Outcome: Permit}
}

// Check evaluates gate, treating a nil gate as public.
func Check(gate Gate, st session.State) Decision {
	if gate == nil {
		return Decision{Outcome: Permit}
	}
	return gate(st)
}
