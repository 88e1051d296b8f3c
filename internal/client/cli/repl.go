package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/bankclient/internal/client/access"
	"github.com/dmitrijs2005/bankclient/internal/client/gateway"
	"github.com/dmitrijs2005/bankclient/internal/client/session"
	"github.com/dmitrijs2005/bankclient/internal/common"
)

// command is one REPL verb. A nil gate makes the command public.
type command struct {
	name  string
	usage string
	gate  access.Gate
	run   func(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the bank client.
//
// It reads a line from reader, parses the first token as the command, checks
// the command's gate against the current session state and dispatches.
// Errors returned by commands are reported and the loop goes on. The loop
// exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, cmds []command, stateFn func() session.State, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "bank %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		case "help":
			printHelp(w, cmds, stateFn())
			continue
		}

		cmd, ok := lookup(cmds, name)
		if !ok {
			fmt.Fprintln(w, "Unknown command:", name)
			continue
		}

		d := access.Check(cmd.gate, stateFn())
		switch d.Outcome {
		case access.Pending:
			fmt.Fprintln(w, "Session is still loading, please try again.")
		case access.Deny:
			fmt.Fprintln(w, denyMessage(d))
		case access.Permit:
			if err := cmd.run(ctx, args); err != nil {
				fmt.Fprintln(w, "Error:", describe(err))
			}
		}

		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}
	}
}

func lookup(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// printHelp lists the commands the current session may run.
func printHelp(w io.Writer, cmds []command, st session.State) {
	fmt.Fprintln(w, "Available commands:")
	for _, c := range cmds {
		if !access.Check(c.gate, st).Allowed() {
			continue
		}
		fmt.Fprintf(w, "  %-36s\n", c.usage)
	}
	fmt.Fprintf(w, "  %-36s\n", "exit")
}

func denyMessage(d access.Decision) string {
	switch d.Redirect {
	case common.LoginPath:
		return "Please login first (type 'login')."
	case common.DashboardPath:
		return "Access denied: administrator role required."
	default:
		return "Access denied."
	}
}

// describe turns an error into a message fit for the terminal.
func describe(err error) string {
	switch {
	case errors.Is(err, common.ErrValidation):
		if _, msg, ok := strings.Cut(err.Error(), common.ErrValidation.Error()+": "); ok {
			return msg
		}
		return err.Error()
	case errors.Is(err, session.ErrNotAuthenticated):
		return "Please login first."
	case gateway.MessageOf(err) != "":
		return gateway.MessageOf(err)
	case errors.Is(err, gateway.ErrTokenExpired):
		return "Your session has expired."
	case errors.Is(err, gateway.ErrUnauthorized):
		return "Not authorized."
	case errors.Is(err, gateway.ErrUnavailable):
		return "Server unavailable. Please try again."
	default:
		return "Request failed. Please try again."
	}
}
