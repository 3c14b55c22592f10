// Command todaycommits checks the GitHub connection and lists today's commits
// for the configured user. It never generates or publishes anything.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/commitcast/internal/adapter/driving/console"
	"github.com/ericfisherdev/commitcast/internal/app"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Only the GitHub credentials are needed to list commits.
	cfg, err := app.LoadFetchOnlyConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			slog.Error("error closing ledger", "error", closeErr)
		}
	}()

	if err := a.Preflight(ctx); err != nil {
		return err
	}

	batch, err := a.DigestService(nil).FetchToday(ctx)
	if err != nil {
		return err
	}
	console.PrintCommits(os.Stdout, batch)

	if a.Ledger != nil {
		posts, err := a.Ledger.ListByDay(ctx, batch.Day())
		if err != nil {
			return err
		}
		for _, p := range posts {
			fmt.Fprintf(os.Stdout, "Already posted today: %s\n", p.URL)
		}
	}

	return nil
}
