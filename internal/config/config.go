// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/ericfisherdev/commitcast/internal/domain/model"
)

// ErrMissingConfig is returned by Load when required variables are absent.
var ErrMissingConfig = errors.New("missing required configuration")

// DefaultSchedule fires once a day at 23:59 local time.
const DefaultSchedule = "59 23 * * *"

// TwitterConfig holds the OAuth 1.0a user-context credentials for posting.
type TwitterConfig struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Config holds the application configuration loaded from environment variables.
// It is read once at startup and never mutated.
type Config struct {
	GitHubToken    string
	GitHubUsername string
	OpenAIKey      string
	OpenAIModel    string
	Twitter        TwitterConfig

	CommitSource model.CommitSourceKind
	PromptStyle  model.PromptStyle
	Schedule     string
	LedgerPath   string
	LogLevel     slog.Level
}

// HasLedger returns true when a post ledger database path is configured.
func (c *Config) HasLedger() bool {
	return c.LedgerPath != ""
}

// LoadEnvFile loads variables from a dotenv file without overriding values
// already present in the environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables and returns a validated Config.
// Required: GITHUB_TOKEN, GITHUB_USERNAME, OPENAI_API_KEY, TWITTER_API_KEY,
// TWITTER_API_SECRET, TWITTER_ACCESS_TOKEN, TWITTER_ACCESS_SECRET. All missing
// names are reported together.
// Optional variables with defaults: COMMITCAST_COMMIT_SOURCE (search),
// COMMITCAST_PROMPT_STYLE (rich), COMMITCAST_OPENAI_MODEL (gpt-3.5-turbo),
// COMMITCAST_SCHEDULE (59 23 * * *), COMMITCAST_LEDGER_PATH (disabled),
// COMMITCAST_LOG_LEVEL (info).
func Load() (*Config, error) {
	return load(true)
}

// LoadFetchOnly is Load for commands that never generate or publish: only
// GITHUB_TOKEN and GITHUB_USERNAME are required. OpenAI and X credentials are
// read if present but may be empty.
func LoadFetchOnly() (*Config, error) {
	return load(false)
}

func load(publishing bool) (*Config, error) {
	var missing []string
	required := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	credential := func(key string) string {
		if publishing {
			return required(key)
		}
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg := &Config{
		GitHubToken:    required("GITHUB_TOKEN"),
		GitHubUsername: required("GITHUB_USERNAME"),
		OpenAIKey:      credential("OPENAI_API_KEY"),
		Twitter: TwitterConfig{
			APIKey:       credential("TWITTER_API_KEY"),
			APISecret:    credential("TWITTER_API_SECRET"),
			AccessToken:  credential("TWITTER_ACCESS_TOKEN"),
			AccessSecret: credential("TWITTER_ACCESS_SECRET"),
		},
		OpenAIModel:  "gpt-3.5-turbo",
		CommitSource: model.CommitSourceSearch,
		PromptStyle:  model.PromptStyleRich,
		Schedule:     DefaultSchedule,
		LogLevel:     slog.LevelInfo,
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	if v, ok := os.LookupEnv("COMMITCAST_OPENAI_MODEL"); ok && v != "" {
		cfg.OpenAIModel = v
	}

	if v, ok := os.LookupEnv("COMMITCAST_COMMIT_SOURCE"); ok && v != "" {
		switch kind := model.CommitSourceKind(strings.ToLower(v)); kind {
		case model.CommitSourceSearch, model.CommitSourceEvents:
			cfg.CommitSource = kind
		default:
			return nil, fmt.Errorf("COMMITCAST_COMMIT_SOURCE has invalid value %q: want search or events", v)
		}
	}

	if v, ok := os.LookupEnv("COMMITCAST_PROMPT_STYLE"); ok && v != "" {
		switch style := model.PromptStyle(strings.ToLower(v)); style {
		case model.PromptStyleRich, model.PromptStyleMinimal:
			cfg.PromptStyle = style
		default:
			return nil, fmt.Errorf("COMMITCAST_PROMPT_STYLE has invalid value %q: want rich or minimal", v)
		}
	}

	if v, ok := os.LookupEnv("COMMITCAST_SCHEDULE"); ok && v != "" {
		if _, err := cron.ParseStandard(v); err != nil {
			return nil, fmt.Errorf("COMMITCAST_SCHEDULE has invalid cron spec %q: %w", v, err)
		}
		cfg.Schedule = v
	}

	if v, ok := os.LookupEnv("COMMITCAST_LEDGER_PATH"); ok {
		cfg.LedgerPath = strings.TrimSpace(v)
	}

	if v, ok := os.LookupEnv("COMMITCAST_LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("COMMITCAST_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return cfg, nil
}
