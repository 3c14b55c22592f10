package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/commitcast/internal/domain/model"
)

// allConfigKeys lists every env var that Load() reads.
var allConfigKeys = []string{
	"GITHUB_TOKEN",
	"GITHUB_USERNAME",
	"OPENAI_API_KEY",
	"TWITTER_API_KEY",
	"TWITTER_API_SECRET",
	"TWITTER_ACCESS_TOKEN",
	"TWITTER_ACCESS_SECRET",
	"COMMITCAST_COMMIT_SOURCE",
	"COMMITCAST_PROMPT_STYLE",
	"COMMITCAST_OPENAI_MODEL",
	"COMMITCAST_SCHEDULE",
	"COMMITCAST_LEDGER_PATH",
	"COMMITCAST_LOG_LEVEL",
}

// isolateConfigEnv saves and unsets all config env vars so tests don't
// inherit values from the host environment (e.g. a developer's .env export).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

// setRequired sets every required variable to a test value.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "ghp_test123")
	t.Setenv("GITHUB_USERNAME", "testuser")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TWITTER_API_KEY", "tw-key")
	t.Setenv("TWITTER_API_SECRET", "tw-secret")
	t.Setenv("TWITTER_ACCESS_TOKEN", "tw-token")
	t.Setenv("TWITTER_ACCESS_SECRET", "tw-token-secret")
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("COMMITCAST_COMMIT_SOURCE", "events")
	t.Setenv("COMMITCAST_PROMPT_STYLE", "Minimal")
	t.Setenv("COMMITCAST_OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("COMMITCAST_SCHEDULE", "0 18 * * 1-5")
	t.Setenv("COMMITCAST_LEDGER_PATH", "/tmp/commitcast.db")
	t.Setenv("COMMITCAST_LOG_LEVEL", "debug")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "ghp_test123", cfg.GitHubToken)
	assert.Equal(t, "testuser", cfg.GitHubUsername)
	assert.Equal(t, "sk-test", cfg.OpenAIKey)
	assert.Equal(t, TwitterConfig{
		APIKey:       "tw-key",
		APISecret:    "tw-secret",
		AccessToken:  "tw-token",
		AccessSecret: "tw-token-secret",
	}, cfg.Twitter)
	assert.Equal(t, model.CommitSourceEvents, cfg.CommitSource)
	assert.Equal(t, model.PromptStyleMinimal, cfg.PromptStyle)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, "0 18 * * 1-5", cfg.Schedule)
	assert.Equal(t, "/tmp/commitcast.db", cfg.LedgerPath)
	assert.True(t, cfg.HasLedger())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, model.CommitSourceSearch, cfg.CommitSource)
	assert.Equal(t, model.PromptStyleRich, cfg.PromptStyle)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
	assert.Equal(t, DefaultSchedule, cfg.Schedule)
	assert.False(t, cfg.HasLedger())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

// TestLoad_MissingAccessSecret verifies that a single absent credential fails
// startup and is named in the error.
func TestLoad_MissingAccessSecret(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	os.Unsetenv("TWITTER_ACCESS_SECRET")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "TWITTER_ACCESS_SECRET")
	assert.NotContains(t, err.Error(), "GITHUB_TOKEN")
}

func TestLoad_MissingEverything(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.ErrorIs(t, err, ErrMissingConfig)
	for _, key := range allConfigKeys[:7] {
		assert.Contains(t, err.Error(), key)
	}
}

// TestLoad_BlankCountsAsMissing verifies whitespace-only values are rejected.
func TestLoad_BlankCountsAsMissing(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("OPENAI_API_KEY", "   ")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoad_InvalidCommitSource(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("COMMITCAST_COMMIT_SOURCE", "graphql")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMMITCAST_COMMIT_SOURCE")
}

func TestLoad_InvalidPromptStyle(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("COMMITCAST_PROMPT_STYLE", "verbose")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMMITCAST_PROMPT_STYLE")
}

func TestLoad_InvalidSchedule(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("COMMITCAST_SCHEDULE", "every night")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMMITCAST_SCHEDULE")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("COMMITCAST_LOG_LEVEL", "chatty")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMMITCAST_LOG_LEVEL")
}

// TestLoadFetchOnly_RequiresOnlyGitHub verifies the listing command starts
// without OpenAI or X credentials.
func TestLoadFetchOnly_RequiresOnlyGitHub(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GITHUB_TOKEN", "ghp_test123")
	t.Setenv("GITHUB_USERNAME", "testuser")
	t.Setenv("COMMITCAST_COMMIT_SOURCE", "events")

	cfg, err := LoadFetchOnly()

	require.NoError(t, err)
	assert.Equal(t, "ghp_test123", cfg.GitHubToken)
	assert.Equal(t, "testuser", cfg.GitHubUsername)
	assert.Equal(t, model.CommitSourceEvents, cfg.CommitSource)
	assert.Empty(t, cfg.OpenAIKey)
	assert.Equal(t, TwitterConfig{}, cfg.Twitter)
}

func TestLoadFetchOnly_MissingGitHubCredentials(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GITHUB_USERNAME", "testuser")

	cfg, err := LoadFetchOnly()

	assert.Nil(t, cfg)
	require.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
	assert.NotContains(t, err.Error(), "OPENAI_API_KEY")
	assert.NotContains(t, err.Error(), "TWITTER_API_KEY")
}

func TestLoadFetchOnly_ValidatesOptionals(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GITHUB_TOKEN", "ghp_test123")
	t.Setenv("GITHUB_USERNAME", "testuser")
	t.Setenv("COMMITCAST_LOG_LEVEL", "chatty")

	cfg, err := LoadFetchOnly()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMMITCAST_LOG_LEVEL")
}

func TestLoadEnvFile_MissingFileIsIgnored(t *testing.T) {
	err := LoadEnvFile(filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestLoadEnvFile_DoesNotOverrideEnvironment(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GITHUB_USERNAME", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GITHUB_USERNAME=from-file\nGITHUB_TOKEN=ghp_file\n"), 0o600))

	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "from-env", os.Getenv("GITHUB_USERNAME"))
	assert.Equal(t, "ghp_file", os.Getenv("GITHUB_TOKEN"))
}
