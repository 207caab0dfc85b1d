package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "gpt-4", cfg.AI.Model)
	assert.Equal(t, 500, cfg.AI.MaxTokens)
	assert.InDelta(t, 0.7, cfg.AI.Temperature, 1e-9)
	assert.InDelta(t, 0.1, cfg.AI.PresencePenalty, 1e-9)
	assert.InDelta(t, 0.1, cfg.AI.FrequencyPenalty, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, []string{
		"http://localhost:3000",
		"https://everkind-demo.15rock.com",
		"http://localhost:8000",
	}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, DefaultSystemPrompt, cfg.AI.SystemPrompt)
	assert.Zero(t, cfg.Session.MaxEntries)
	assert.Zero(t, cfg.Session.TTL)
	assert.False(t, cfg.AI.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "  sk-test  ")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("OPENAI_MAX_TOKENS", "256")
	t.Setenv("OPENAI_TEMPERATURE", "0.2")
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SESSION_MAX_ENTRIES", "100")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("PROVIDER_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.True(t, cfg.AI.Enabled())
	assert.Equal(t, "gpt-4o-mini", cfg.AI.ModelName())
	assert.Equal(t, 256, cfg.AI.MaxTokens)
	assert.InDelta(t, 0.2, cfg.AI.Temperature, 1e-9)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 100, cfg.Session.MaxEntries)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"OPENAI_MAX_TOKENS":  "lots",
		"OPENAI_TEMPERATURE": "3.5",
		"PORT":               "70000",
		"AI_PROVIDER":        "llama",
		"PROVIDER_TIMEOUT":   "soon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidateMissingCredential(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredential))
}

func TestArkProviderEnabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_PROVIDER", "ark")
	t.Setenv("ARK_API_KEY", "ark-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.AI.Enabled(), "ark requires a model as well as a key")

	t.Setenv("ARK_MODEL", "doubao-pro")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.AI.Enabled())
	assert.Equal(t, "doubao-pro", cfg.AI.ModelName())
}

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"ENVIRONMENT", "STRICT_STARTUP",
		"HOST", "PORT", "ALLOWED_ORIGINS", "TRUSTED_HOSTS",
		"AI_PROVIDER", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_MAX_TOKENS",
		"OPENAI_TEMPERATURE", "OPENAI_PRESENCE_PENALTY", "OPENAI_FREQUENCY_PENALTY",
		"OPENAI_BASE_URL", "OPENAI_MAX_RETRIES",
		"ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "ARK_MODEL", "ARK_BASE_URL", "ARK_REGION",
		"PROVIDER_TIMEOUT", "PROVIDER_BREAKER_FAILURES", "PROVIDER_BREAKER_COOLDOWN",
		"THERAPIST_SYSTEM_PROMPT",
		"SESSION_MAX_ENTRIES", "SESSION_TTL",
		"LOG_LEVEL", "LOG_FORMAT",
		"METRICS_NAMESPACE", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SAMPLING_RATE",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
