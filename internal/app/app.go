// Package app wires configuration, adapters, and services for the command
// entry points.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	githubadapter "github.com/ericfisherdev/commitcast/internal/adapter/driven/github"
	openaiadapter "github.com/ericfisherdev/commitcast/internal/adapter/driven/openai"
	sqliteadapter "github.com/ericfisherdev/commitcast/internal/adapter/driven/sqlite"
	twitteradapter "github.com/ericfisherdev/commitcast/internal/adapter/driven/twitter"
	"github.com/ericfisherdev/commitcast/internal/application"
	"github.com/ericfisherdev/commitcast/internal/config"
	"github.com/ericfisherdev/commitcast/internal/domain/port/driven"
)

// App holds the wired components shared by every entry point.
type App struct {
	Config    *config.Config
	Source    driven.CommitSource
	Generator driven.TextGenerator
	Publisher driven.Publisher
	Ledger    *sqliteadapter.PostLedger

	db *sqliteadapter.DB
}

// LoadConfig reads .env (if present) and the environment, then installs the
// default slog logger at the configured level. No network calls are made.
func LoadConfig() (*config.Config, error) {
	return loadConfig(config.Load)
}

// LoadFetchOnlyConfig is LoadConfig for commands that only read commits; it
// requires the GitHub credentials alone.
func LoadFetchOnlyConfig() (*config.Config, error) {
	return loadConfig(config.LoadFetchOnly)
}

func loadConfig(load func() (*config.Config, error)) (*config.Config, error) {
	if err := config.LoadEnvFile(".env"); err != nil {
		return nil, err
	}

	cfg, err := load()
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("config loaded",
		"github_username", cfg.GitHubUsername,
		"commit_source", cfg.CommitSource,
		"prompt_style", cfg.PromptStyle,
		"openai_model", cfg.OpenAIModel,
		"schedule", cfg.Schedule,
		"ledger", cfg.LedgerPath,
	)
	return cfg, nil
}

// New creates the collaborator clients and, when configured, opens and
// migrates the post ledger.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Config:    cfg,
		Source:    githubadapter.NewClient(cfg.GitHubToken, cfg.CommitSource),
		Generator: openaiadapter.NewGenerator(cfg.OpenAIKey, cfg.OpenAIModel),
		Publisher: twitteradapter.NewPublisher(twitteradapter.Credentials{
			APIKey:       cfg.Twitter.APIKey,
			APISecret:    cfg.Twitter.APISecret,
			AccessToken:  cfg.Twitter.AccessToken,
			AccessSecret: cfg.Twitter.AccessSecret,
		}),
	}

	if cfg.HasLedger() {
		db, err := sqliteadapter.NewDB(ctx, cfg.LedgerPath)
		if err != nil {
			return nil, err
		}
		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.db = db
		a.Ledger = sqliteadapter.NewPostLedger(db)
		slog.Info("post ledger opened", "path", db.Path())
	}

	return a, nil
}

// Close releases the ledger database, if one was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Preflight checks the commit host credentials before any run. A failure
// here is fatal for every entry point.
func (a *App) Preflight(ctx context.Context) error {
	slog.Info("testing github api connection")
	login, err := a.Source.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("github connectivity check: %w", err)
	}
	slog.Info("connected to github api", "authenticated_as", login)
	return nil
}

// DigestService builds the pipeline. A nil approver runs unattended.
func (a *App) DigestService(approver driven.Approver) *application.DigestService {
	summarizer := application.NewSummarizer(a.Generator, a.Config.PromptStyle)

	// Keep a typed-nil *PostLedger out of the interface.
	var ledger driven.PostLedger
	if a.Ledger != nil {
		ledger = a.Ledger
	}

	return application.NewDigestService(a.Source, summarizer, a.Publisher, ledger, approver, a.Config.GitHubUsername)
}

// IsAuthError reports whether err came from a rejected credential.
func IsAuthError(err error) bool {
	return errors.Is(err, driven.ErrAuthentication)
}
