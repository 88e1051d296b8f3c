package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (a *App) Users(ctx context.Context, args []string) error {
	page, size, err := pageArgs(args)
	if err != nil {
		return err
	}
	p, err := a.admin.ListUsers(ctx, page, size)
	if err != nil {
		return err
	}
	if len(p.Content) == 0 {
		a.println("No users.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tACCOUNT\tBALANCE")
	for _, u := range p.Content {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.2f\n", u.UserID, u.FullName, u.Email, u.Role, u.AccountNumber, u.Balance)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	a.printf("Page %d of %d (%d users)\n", p.Number+1, max(p.TotalPages, 1), p.TotalElements)
	return nil
}

func (a *App) AddUser(ctx context.Context, _ []string) error {
	req, err := a.readSignup(true)
	if err != nil {
		return err
	}
	u, err := a.admin.CreateUser(ctx, req)
	if err != nil {
		return err
	}
	a.printf("Created user %s (%s), account %d\n", u.FullName, u.UserID, u.AccountNumber)
	return nil
}

func (a *App) DeleteUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("deluser <user-id>")
	}
	if err := a.admin.DeleteUser(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Deleted user %s\n", args[0])
	return nil
}
