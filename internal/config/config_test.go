package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SKILLCHECK_LLM_PROVIDER", "SKILLCHECK_MISTRAL_API_KEY", "SKILLCHECK_OPENAI_API_KEY",
		"MISTRAL_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"SKILLCHECK_LOG_MODE", "SKILLCHECK_LOG_LEVEL", "SKILLCHECK_DB", "SKILLCHECK_PROMPTS",
		"SKILLCHECK_CACHE_BACKEND", "SKILLCHECK_CACHE_MAX_ENTRIES", "SKILLCHECK_REDIS_URL", "SKILLCHECK_REDIS_ADDR",
		"SKILLCHECK_REDIS_DB", "SKILLCHECK_MAX_ATTEMPTS", "SKILLCHECK_BASE_DELAY", "SKILLCHECK_ATTEMPT_TIMEOUT",
		"SKILLCHECK_AMQP_URL", "SKILLCHECK_OTEL_EXPORTER", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_HEADERS", "OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SAMPLER_RATIO",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, time.Second, cfg.Engine.BaseDelay)
	assert.Equal(t, "", cfg.Source())
	assert.Error(t, cfg.Validate(), "default provider has no key")
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
llm:
  provider: offline
cache:
  backend: redis
  redis:
    addr: localhost:6379
engine:
  max_attempts: 4
  base_delay: 250ms
telemetry:
  exporter: stdout
`)
	t.Setenv("SKILLCHECK_MAX_ATTEMPTS", "5")
	t.Setenv("SKILLCHECK_ATTEMPT_TIMEOUT", "30")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source())
	assert.Equal(t, "offline", cfg.LLM.Provider)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, 5, cfg.Engine.MaxAttempts, "env overrides file")
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.BaseDelay)
	assert.Equal(t, 30*time.Second, cfg.Engine.AttemptTimeout)
	require.NoError(t, cfg.Validate())

	qc := cfg.Engine.Quizgen(cfg.Cache.MaxEntries)
	assert.Equal(t, 5, qc.MaxAttempts)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisOptions().Addr)
}

func TestLoad_DiscoversVendorKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "explicit missing file")

	_, err = Load(writeFile(t, "unknown_section: true\n"))
	assert.Error(t, err, "unknown keys rejected")

	t.Setenv("SKILLCHECK_MAX_ATTEMPTS", "many")
	_, err = Load("")
	assert.ErrorContains(t, err, "SKILLCHECK_MAX_ATTEMPTS")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = "offline"
	require.NoError(t, cfg.Validate())

	cfg.Cache.Backend = "memcached"
	assert.ErrorContains(t, cfg.Validate(), "unknown backend")

	cfg.Cache.Backend = CacheRedis
	assert.ErrorContains(t, cfg.Validate(), "requires redis.url")

	cfg.Cache.Backend = CacheMemory
	cfg.Telemetry.Exporter = "otlp"
	assert.ErrorContains(t, cfg.Validate(), "endpoint")
}

func TestSetDuration(t *testing.T) {
	var d time.Duration
	t.Setenv("X_DUR", "1.5")
	require.NoError(t, setDuration(&d, "X_DUR"))
	assert.Equal(t, 1500*time.Millisecond, d)

	t.Setenv("X_DUR", "soon")
	assert.Error(t, setDuration(&d, "X_DUR"))
}
