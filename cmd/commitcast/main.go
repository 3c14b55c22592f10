// Command commitcast runs the pipeline once: it fetches today's commits,
// generates a post, shows it, and publishes only after the operator answers
// yes.
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
	"github.com/ericfisherdev/commitcast/internal/domain/model"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.LoadConfig()
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

	approver := console.NewApprover(os.Stdin, os.Stdout)
	svc := a.DigestService(approver)

	// Interactive runs re-throw every failure, publish errors included, so
	// the exit status reflects whether the post went out.
	result, err := svc.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("run %s: %w", result.RunID, err)
	}

	switch result.Outcome {
	case model.RunOutcomePublished:
		console.PrintPublished(os.Stdout, *result.Post)
	case model.RunOutcomeNoCommits:
		console.PrintCommits(os.Stdout, result.Batch)
	case model.RunOutcomeAlreadyPosted:
		fmt.Fprintln(os.Stdout, "These commits were already posted today.")
	}

	return nil
}
