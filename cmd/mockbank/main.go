// Command mockbank serves the in-memory bank API so the client can be run
// without the real backend. Seeded accounts are printed on startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/bankclient/internal/client/models"
	"github.com/dmitrijs2005/bankclient/internal/logging"
	"github.com/dmitrijs2005/bankclient/internal/mockbank"
)

func main() {

	addr := flag.String("a", "localhost:8080", "listen address")
	ttl := flag.Duration("ttl", time.Hour, "bearer token lifetime")
	level := flag.String("l", "info", "log level")
	flag.Parse()

	logger := logging.New(*level, os.Stderr)

	bank := mockbank.New(mockbank.WithTokenTTL(*ttl))
	seed := []mockbank.NewUser{
		{FullName: "Demo User", Email: "user@bank.test", Password: "password", Balance: 1000},
		{FullName: "Demo Admin", Email: "admin@bank.test", Password: "password", Role: models.RoleAdmin},
	}
	for _, nu := range seed {
		u, err := bank.AddUser(nu)
		if err != nil {
			log.Fatalf("seed %s: %v", nu.Email, err)
		}
		fmt.Printf("seeded %s / %s (account %d, %s)\n", nu.Email, nu.Password, u.AccountNumber, u.Role)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := mockbank.NewServer(*addr, bank, logger).Run(ctx); err != nil {
		logger.Error(ctx, err.Error())
		os.Exit(1)
	}

}
