// Package config loads process configuration from environment variables,
// following the style internal/config uses: defaults applied first, then
// overridden by whitelisted environment variables read with
// strings.TrimSpace(os.Getenv(...)).
package config

import (
	"strconv"
	"strings"
	"time"

	"os"
)

// Config is the assistant process's configuration.
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	LLM           LLMConfig
	Search        SearchConfig
	Orchestration OrchestrationConfig
	Logging       LoggingConfig
	Tracing       TracingConfig
	Slack         SlackConfig
}

// ServerConfig configures the process's own listeners.
type ServerConfig struct {
	Host        string
	HTTPPort    int
	MetricsPort int
}

// DatabaseConfig configures the postgres/CockroachDB connection pool.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LLMConfig selects and authenticates the LLM provider.
type LLMConfig struct {
	Provider       string // "anthropic" or "openai"
	AnthropicKey   string
	AnthropicModel string
	OpenAIKey      string
	OpenAIModel    string
}

// SearchConfig configures the SearXNG-backed search port.
type SearchConfig struct {
	BaseURL string
}

// OrchestrationConfig bounds concurrency for the orchestrator process.
type OrchestrationConfig struct {
	// MaxConcurrentTurns caps how many AnswerToUserRequest calls run at once
	// process-wide.
	MaxConcurrentTurns int

	// MaxConcurrentBranches caps per-turn fan-out width.
	MaxConcurrentBranches int
}

// LoggingConfig configures the observability.Logger.
type LoggingConfig struct {
	Level  string
	Format string
}

// TracingConfig configures the observability.Tracer.
type TracingConfig struct {
	Endpoint       string
	SamplingRate   float64
	EnableInsecure bool
}

// SlackConfig authenticates the Slack reference adapter.
type SlackConfig struct {
	BotToken      string
	AppToken      string
	SigningSecret string
}

// Load builds a Config with defaults applied, then overridden by
// environment variables.
func Load() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.HTTPPort = 8080
	cfg.Server.MetricsPort = 9090

	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5
	cfg.Database.ConnMaxLifetime = 5 * time.Minute

	cfg.LLM.Provider = "anthropic"
	cfg.LLM.AnthropicModel = "claude-3-5-sonnet-latest"
	cfg.LLM.OpenAIModel = "gpt-4o"

	cfg.Search.BaseURL = "http://localhost:8888"

	cfg.Orchestration.MaxConcurrentTurns = 60
	cfg.Orchestration.MaxConcurrentBranches = 8

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"

	cfg.Tracing.SamplingRate = 1.0
}

func applyEnvOverrides(cfg *Config) {
	if value := trimmedEnv("ASSISTANT_HOST"); value != "" {
		cfg.Server.Host = value
	}
	if value := trimmedEnv("ASSISTANT_HTTP_PORT"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			cfg.Server.HTTPPort = parsed
		}
	}
	if value := trimmedEnv("ASSISTANT_METRICS_PORT"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			cfg.Server.MetricsPort = parsed
		}
	}

	if value := trimmedEnv("DATABASE_URL"); value != "" {
		cfg.Database.URL = value
	}
	if value := trimmedEnv("ASSISTANT_DB_MAX_OPEN_CONNS"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			cfg.Database.MaxOpenConns = parsed
		}
	}
	if value := trimmedEnv("ASSISTANT_DB_CONN_MAX_LIFETIME"); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			cfg.Database.ConnMaxLifetime = parsed
		}
	}

	if value := trimmedEnv("ASSISTANT_LLM_PROVIDER"); value != "" {
		cfg.LLM.Provider = value
	}
	if value := trimmedEnv("ANTHROPIC_API_KEY"); value != "" {
		cfg.LLM.AnthropicKey = value
	}
	if value := trimmedEnv("ASSISTANT_ANTHROPIC_MODEL"); value != "" {
		cfg.LLM.AnthropicModel = value
	}
	if value := trimmedEnv("OPENAI_API_KEY"); value != "" {
		cfg.LLM.OpenAIKey = value
	}
	if value := trimmedEnv("ASSISTANT_OPENAI_MODEL"); value != "" {
		cfg.LLM.OpenAIModel = value
	}

	if value := trimmedEnv("ASSISTANT_SEARXNG_URL"); value != "" {
		cfg.Search.BaseURL = value
	}

	if value := trimmedEnv("ASSISTANT_MAX_CONCURRENT_TURNS"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			cfg.Orchestration.MaxConcurrentTurns = parsed
		}
	}
	if value := trimmedEnv("ASSISTANT_MAX_CONCURRENT_BRANCHES"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			cfg.Orchestration.MaxConcurrentBranches = parsed
		}
	}

	if value := trimmedEnv("ASSISTANT_LOG_LEVEL"); value != "" {
		cfg.Logging.Level = value
	}
	if value := trimmedEnv("ASSISTANT_LOG_FORMAT"); value != "" {
		cfg.Logging.Format = value
	}

	if value := trimmedEnv("OTEL_EXPORTER_OTLP_ENDPOINT"); value != "" {
		cfg.Tracing.Endpoint = value
	}
	if value := trimmedEnv("ASSISTANT_TRACE_SAMPLING_RATE"); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			cfg.Tracing.SamplingRate = parsed
		}
	}
	if value := trimmedEnv("ASSISTANT_TRACE_INSECURE"); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			cfg.Tracing.EnableInsecure = parsed
		}
	}

	if value := trimmedEnv("SLACK_BOT_TOKEN"); value != "" {
		cfg.Slack.BotToken = value
	}
	if value := trimmedEnv("SLACK_APP_TOKEN"); value != "" {
		cfg.Slack.AppToken = value
	}
	if value := trimmedEnv("SLACK_SIGNING_SECRET"); value != "" {
		cfg.Slack.SigningSecret = value
	}
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
