package cli

import (
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/bankclient/internal/client/access"
	"github.com/dmitrijs2005/bankclient/internal/common"
)

func (a *App) commands() []command {
	return []command{
		{name: "login", usage: "login [email]", run: a.Login},
		{name: "register", usage: "register", run: a.Register},
		{name: "stats", usage: "stats", run: a.Stats},
		{name: "logout", usage: "logout", gate: access.Authenticated, run: a.Logout},
		{name: "whoami", usage: "whoami", gate: access.Authenticated, run: a.Whoami},
		{name: "refresh", usage: "refresh", gate: access.Authenticated, run: a.Refresh},
		{name: "balance", usage: "balance", gate: access.Authenticated, run: a.Balance},
		{name: "deposit", usage: "deposit <amount>", gate: access.Authenticated, run: a.Deposit},
		{name: "withdraw", usage: "withdraw <amount>", gate: access.Authenticated, run: a.Withdraw},
		{name: "transfer", usage: "transfer <account> <amount>", gate: access.Authenticated, run: a.Transfer},
		{name: "history", usage: "history [page] [size]", gate: access.Authenticated, run: a.History},
		{name: "profile", usage: "profile", gate: access.Authenticated, run: a.Profile},
		{name: "passwd", usage: "passwd", gate: access.Authenticated, run: a.ChangePassword},
		{name: "delete-account", usage: "delete-account", gate: access.Authenticated, run: a.DeleteAccount},
		{name: "users", usage: "users [page] [size]", gate: access.Admin, run: a.Users},
		{name: "adduser", usage: "adduser", gate: access.Admin, run: a.AddUser},
		{name: "deluser", usage: "deluser <user-id>", gate: access.Admin, run: a.DeleteUser},
	}
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", common.ErrValidation, s)
	}
	return v, nil
}

// pageArgs reads optional [page] [size] arguments. Pages are 1-based for
// the user and 0-based on the wire.
func pageArgs(args []string) (int, int, error) {
	page, size := 1, 10
	var err error
	if len(args) > 0 {
		if page, err = strconv.Atoi(args[0]); err != nil || page < 1 {
			return 0, 0, fmt.Errorf("%w: page must be a positive number", common.ErrValidation)
		}
	}
	if len(args) > 1 {
		if size, err = strconv.Atoi(args[1]); err != nil || size < 1 {
			return 0, 0, fmt.Errorf("%w: size must be a positive number", common.ErrValidation)
		}
	}
	return page - 1, size, nil
}

func usageError(usage string) error {
	return fmt.Errorf("%w: usage: %s", common.ErrValidation, usage)
}
