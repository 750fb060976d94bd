package config

import "testing"

func TestLoadAppliesDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Orchestration.MaxConcurrentTurns != 60 {
		t.Errorf("Orchestration.MaxConcurrentTurns = %d, want 60", cfg.Orchestration.MaxConcurrentTurns)
	}
	if cfg.Orchestration.MaxConcurrentBranches != 8 {
		t.Errorf("Orchestration.MaxConcurrentBranches = %d, want 8", cfg.Orchestration.MaxConcurrentBranches)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("LLM.Provider = %q, want anthropic", cfg.LLM.Provider)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("ASSISTANT_HOST", "127.0.0.1")
	t.Setenv("ASSISTANT_HTTP_PORT", "9999")
	t.Setenv("DATABASE_URL", "postgres://override@localhost:26257/assistant?sslmode=disable")
	t.Setenv("ASSISTANT_LLM_PROVIDER", "openai")
	t.Setenv("ASSISTANT_MAX_CONCURRENT_BRANCHES", "16")
	t.Setenv("ASSISTANT_LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.HTTPPort != 9999 {
		t.Errorf("Server.HTTPPort = %d, want 9999", cfg.Server.HTTPPort)
	}
	if cfg.Database.URL != "postgres://override@localhost:26257/assistant?sslmode=disable" {
		t.Errorf("Database.URL = %q, unexpected", cfg.Database.URL)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("LLM.Provider = %q, want openai", cfg.LLM.Provider)
	}
	if cfg.Orchestration.MaxConcurrentBranches != 16 {
		t.Errorf("Orchestration.MaxConcurrentBranches = %d, want 16", cfg.Orchestration.MaxConcurrentBranches)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadIgnoresBlankEnvVars(t *testing.T) {
	t.Setenv("ASSISTANT_HOST", "   ")

	cfg := Load()

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default 0.0.0.0 when env var is blank", cfg.Server.Host)
	}
}

func TestLoadIgnoresUnparseableIntOverride(t *testing.T) {
	t.Setenv("ASSISTANT_HTTP_PORT", "not-a-number")

	cfg := Load()

	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("Server.HTTPPort = %d, want default 8080 when env var does not parse", cfg.Server.HTTPPort)
	}
}
