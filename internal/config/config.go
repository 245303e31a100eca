// Package config assembles runtime configuration from defaults, an
// optional .env file, an optional YAML file and SKILLCHECK_* environment
// variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/skillcheck/internal/cache"
	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/quizgen"
	"github.com/abhisek/skillcheck/internal/telemetry"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the full runtime configuration.
type Config struct {
	LLM       llm.Config       `yaml:"llm"`
	Log       LogConfig        `yaml:"log"`
	Cache     CacheConfig      `yaml:"cache"`
	Engine    EngineConfig     `yaml:"engine"`
	Events    EventsConfig     `yaml:"events"`
	Telemetry telemetry.Config `yaml:"telemetry"`

	// Prompts is a YAML file of intro overrides, see quizgen.Composer.
	Prompts string `yaml:"prompts"`

	// DB is the SQLite archive path. Empty means store.DefaultDBPath.
	DB string `yaml:"db"`

	// source is the YAML file that was loaded, if any.
	source string
}

type LogConfig struct {
	Mode  string `yaml:"mode"`  // dev or prod
	Level string `yaml:"level"` // debug, info, warn, error
}

type CacheConfig struct {
	Backend    string `yaml:"backend"` // memory or redis
	MaxEntries int    `yaml:"max_entries"`
	Redis      struct {
		URL      string `yaml:"url"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
}

// RedisOptions converts the Redis section for cache.NewRedisClient.
func (c CacheConfig) RedisOptions() cache.RedisOptions {
	return cache.RedisOptions{URL: c.Redis.URL, Addr: c.Redis.Addr, Password: c.Redis.Password, DB: c.Redis.DB}
}

type EngineConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	BaseDelay      time.Duration `yaml:"base_delay"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
}

// Quizgen converts the section into an engine config.
func (e EngineConfig) Quizgen(maxEntries int) quizgen.Config {
	return quizgen.Config{
		MaxAttempts:     e.MaxAttempts,
		BaseDelay:       e.BaseDelay,
		AttemptTimeout:  e.AttemptTimeout,
		CacheMaxEntries: maxEntries,
	}
}

type EventsConfig struct {
	AMQPURL  string `yaml:"amqp_url"`
	Exchange string `yaml:"exchange"`
}

// Default returns the built-in configuration.
func Default() *Config {
	qc := quizgen.DefaultConfig()
	return &Config{
		LLM: llm.DefaultConfig(),
		Log: LogConfig{Mode: "dev", Level: "warn"},
		Cache: CacheConfig{
			Backend:    CacheMemory,
			MaxEntries: qc.CacheMaxEntries,
		},
		Engine: EngineConfig{
			BaseDelay:      qc.BaseDelay,
			AttemptTimeout: qc.AttemptTimeout,
		},
		Events:    EventsConfig{Exchange: "skillcheck.events"},
		Telemetry: telemetry.Config{Exporter: telemetry.ExporterNone, SampleRatio: 1},
	}
}

// Load builds the configuration. path may be empty, in which case the
// default config file is used when it exists. A missing .env file is not
// an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		} else {
			cfg.source = path
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Source returns the config file that was loaded, or "".
func (c *Config) Source() string { return c.source }

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/skillcheck/config.yaml, falling
// back to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "skillcheck", "config.yaml")
}

func (c *Config) applyEnv() error {
	// An explicit provider wins; otherwise probe the vendor key variables
	// unless the file already configured credentials.
	if os.Getenv("SKILLCHECK_LLM_PROVIDER") == "" && !c.LLM.HasCredentials() {
		if discovered, ok := llm.DiscoverConfig(); ok {
			discovered.Retry = c.LLM.Retry
			c.LLM = discovered
		}
	}
	c.LLM.ApplyEnv()

	setString(&c.Log.Mode, "SKILLCHECK_LOG_MODE")
	setString(&c.Log.Level, "SKILLCHECK_LOG_LEVEL")
	setString(&c.DB, "SKILLCHECK_DB")
	setString(&c.Prompts, "SKILLCHECK_PROMPTS")

	setString(&c.Cache.Backend, "SKILLCHECK_CACHE_BACKEND")
	setString(&c.Cache.Redis.URL, "SKILLCHECK_REDIS_URL")
	setString(&c.Cache.Redis.Addr, "SKILLCHECK_REDIS_ADDR")
	setString(&c.Cache.Redis.Password, "SKILLCHECK_REDIS_PASSWORD")
	setString(&c.Cache.Redis.Prefix, "SKILLCHECK_REDIS_PREFIX")

	setString(&c.Events.AMQPURL, "SKILLCHECK_AMQP_URL")
	setString(&c.Events.Exchange, "SKILLCHECK_AMQP_EXCHANGE")

	setString(&c.Telemetry.Exporter, "SKILLCHECK_OTEL_EXPORTER")
	setString(&c.Telemetry.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	if h := ParseHeadersEnv("OTEL_EXPORTER_OTLP_HEADERS"); h != nil {
		c.Telemetry.Headers = h
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	collect(setInt(&c.Cache.MaxEntries, "SKILLCHECK_CACHE_MAX_ENTRIES"))
	collect(setInt(&c.Cache.Redis.DB, "SKILLCHECK_REDIS_DB"))
	collect(setInt(&c.Engine.MaxAttempts, "SKILLCHECK_MAX_ATTEMPTS"))
	collect(setDuration(&c.Engine.BaseDelay, "SKILLCHECK_BASE_DELAY"))
	collect(setDuration(&c.Engine.AttemptTimeout, "SKILLCHECK_ATTEMPT_TIMEOUT"))
	collect(setBool(&c.Telemetry.Insecure, "OTEL_EXPORTER_OTLP_INSECURE"))
	collect(setFloat(&c.Telemetry.SampleRatio, "OTEL_SAMPLER_RATIO"))
	return errors.Join(errs...)
}

// Validate checks the configuration for the generation path.
func (c *Config) Validate() error {
	var errs []error
	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("llm: %w", err))
	}
	switch strings.ToLower(c.Cache.Backend) {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.Redis.URL == "" && c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache: redis backend requires redis.url or redis.addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache: unknown backend %q (want memory or redis)", c.Cache.Backend))
	}
	if c.Cache.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("cache: max_entries must not be negative"))
	}
	if c.Engine.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("engine: max_attempts must not be negative"))
	}
	if c.Engine.BaseDelay < 0 || c.Engine.AttemptTimeout < 0 {
		errs = append(errs, fmt.Errorf("engine: durations must not be negative"))
	}
	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
