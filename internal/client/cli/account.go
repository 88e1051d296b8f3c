package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/bankclient/internal/client/auth"
	"github.com/dmitrijs2005/bankclient/internal/client/models"
	"github.com/dmitrijs2005/bankclient/internal/common"
	"github.com/dmitrijs2005/bankclient/internal/shared"
)

func (a *App) Balance(ctx context.Context, _ []string) error {
	v, err := a.accounts.Balance(ctx)
	if err != nil {
		return err
	}
	a.printf("Balance: %.2f\n", v)
	return nil
}

func (a *App) Deposit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("deposit <amount>")
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	tx, err := a.txs.Deposit(ctx, amount)
	if err != nil {
		return err
	}
	a.printf("Deposited %.2f (transaction %s)\n", tx.Amount, tx.TransactionID)
	a.refreshBalance(ctx)
	return nil
}

func (a *App) Withdraw(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("withdraw <amount>")
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	tx, err := a.txs.Withdraw(ctx, amount)
	if err != nil {
		return err
	}
	a.printf("Withdrew %.2f (transaction %s)\n", tx.Amount, tx.TransactionID)
	a.refreshBalance(ctx)
	return nil
}

func (a *App) Transfer(ctx context.Context, args []string) error {
	u, err := a.currentUser()
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return usageError("transfer <account> <amount>")
	}
	to, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return usageError("transfer <account> <amount>")
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	tx, err := a.txs.Transfer(ctx, models.TransferSlip{
		SenderAccountNumber:   u.AccountNumber,
		ReceiverAccountNumber: to,
		Amount:                amount,
	})
	if err != nil {
		return err
	}
	a.printf("Transferred %.2f to %d (transaction %s)\n", tx.Amount, to, tx.TransactionID)
	a.refreshBalance(ctx)
	return nil
}

// refreshBalance re-reads the profile after a balance change. A failure
// only means the shown balance is stale.
func (a *App) refreshBalance(ctx context.Context) {
	u, err := a.session.RefreshUser(ctx)
	if err != nil {
		a.log.Warn(ctx, "failed to refresh user after transaction", "error", err)
		return
	}
	a.printf("New balance: %.2f\n", u.Balance)
}

func (a *App) History(ctx context.Context, args []string) error {
	page, size, err := pageArgs(args)
	if err != nil {
		return err
	}
	p, err := a.txs.History(ctx, page, size)
	if err != nil {
		return err
	}
	if len(p.Content) == 0 {
		a.println("No transactions.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTYPE\tAMOUNT\tID")
	for _, tx := range p.Content {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", tx.Time.Format("2006-01-02 15:04:05"), tx.Type, tx.Amount, tx.TransactionID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	a.printf("Page %d of %d (%d transactions)\n", p.Number+1, max(p.TotalPages, 1), p.TotalElements)
	return nil
}

// Profile edits the full name and email. Changing the email invalidates a
// basic credential, so the session is closed in that case.
func (a *App) Profile(ctx context.Context, _ []string) error {
	u, err := a.currentUser()
	if err != nil {
		return err
	}

	name, err := GetSimpleText(a.reader, fmt.Sprintf("Full name [%s] (blank to keep)", u.FullName), a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, fmt.Sprintf("Email [%s] (blank to keep)", u.Email), a.out)
	if err != nil {
		return err
	}

	if _, err := a.currentUser(); err != nil {
		return err
	}

	upd := models.ProfileUpdate{FullName: name, Email: email}
	updated, err := a.accounts.UpdateProfile(ctx, u.UserID, upd)
	if err != nil {
		return err
	}
	a.printf("Profile updated: %s <%s>\n", updated.FullName, updated.Email)

	if email != "" && !strings.EqualFold(email, u.Email) {
		a.println("Your email changed. Please login again.")
		return a.Logout(ctx, nil)
	}
	if _, err := a.session.RefreshUser(ctx); err != nil {
		a.log.Warn(ctx, "failed to refresh user after profile update", "error", err)
	}
	return nil
}

func (a *App) ChangePassword(ctx context.Context, _ []string) error {
	current, err := GetPassword(a.reader, "Current password", a.out)
	if err != nil {
		return err
	}
	defer shared.Wipe(current)
	next, err := GetPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	defer shared.Wipe(next)
	confirm, err := GetPassword(a.reader, "Repeat new password", a.out)
	if err != nil {
		return err
	}
	defer shared.Wipe(confirm)

	if string(next) != string(confirm) {
		return fmt.Errorf("%w: passwords do not match", common.ErrValidation)
	}

	msg, err := a.accounts.ChangePassword(ctx, models.PasswordChange{
		CurrentPassword: string(current),
		NewPassword:     string(next),
	})
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Password changed."
	}
	a.println(msg)

	if a.scheme.Name() == auth.NameBasic {
		a.println("Please login again with the new password.")
		return a.Logout(ctx, nil)
	}
	return nil
}

func (a *App) DeleteAccount(ctx context.Context, _ []string) error {
	u, err := a.currentUser()
	if err != nil {
		return err
	}

	answer, err := GetSimpleText(a.reader, "This permanently deletes your account. Type 'yes' to confirm", a.out)
	if err != nil {
		return err
	}
	if answer != "yes" {
		a.println("Cancelled.")
		return nil
	}

	// the session may have ended while waiting for the answer
	if _, err := a.currentUser(); err != nil {
		return err
	}
	if err := a.accounts.DeleteAccount(ctx, u.UserID); err != nil {
		return err
	}
	a.println("Account deleted.")
	return a.Logout(ctx, nil)
}
