// Command commitcastd posts a summary of the day's commits once at startup and
// then on a daily schedule (23:59 local time by default), without operator
// confirmation.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/commitcast/internal/adapter/driving/scheduler"
	"github.com/ericfisherdev/commitcast/internal/app"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Wire adapters and open the ledger, if configured.
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			slog.Error("error closing ledger", "error", closeErr)
		}
	}()

	// 4. Connectivity preflight; bad credentials stop the daemon here.
	if err := a.Preflight(ctx); err != nil {
		return err
	}

	// 5. Unattended pipeline: no approver, every successful draft is published.
	svc := a.DigestService(nil)

	// 6. Every run's failure is logged and swallowed so the daemon keeps
	// its schedule; only startup failures are fatal.
	job := func(ctx context.Context) {
		result, err := svc.RunOnce(ctx)
		if err != nil {
			slog.Error("scheduled run failed", "run_id", result.RunID, "error", err, "auth", app.IsAuthError(err))
			return
		}
		slog.Info("scheduled run finished", "run_id", result.RunID, "outcome", result.Outcome)
	}

	sched, err := scheduler.New(cfg.Schedule, nil, job, slog.Default())
	if err != nil {
		return err
	}

	slog.Info("commitcastd started", "schedule", cfg.Schedule, "username", cfg.GitHubUsername)

	// 7. Block until shutdown signal; waits for an in-flight run.
	if err := sched.Start(ctx); err != nil {
		return err
	}

	slog.Info("shutdown complete")
	return nil
}
