package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/archive"
	_ "github.com/abhisek/skillcheck/internal/bank" // registers the "offline" provider
	"github.com/abhisek/skillcheck/internal/cache"
	"github.com/abhisek/skillcheck/internal/config"
	"github.com/abhisek/skillcheck/internal/events"
	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/logger"
	"github.com/abhisek/skillcheck/internal/quizgen"
	"github.com/abhisek/skillcheck/internal/store"
	"github.com/abhisek/skillcheck/internal/telemetry"
)

// app holds everything a command may need. Fields are populated by
// openApp according to what the command asked for.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	store     *store.Store
	archive   *archive.Archive
	engine    *quizgen.Engine
	publisher events.Publisher

	closers []func(context.Context) error
}

// loadConfig reads configuration and applies the persistent flag
// overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		cfg.LLM.Provider = p
	}
	return cfg, nil
}

// openApp wires config, logging, tracing and the store. With withEngine it
// also builds the LLM provider, quiz cache, event publisher and engine.
func openApp(cmd *cobra.Command, withEngine bool) (*app, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}
	a.onClose(func(context.Context) error { log.Sync(); return nil })

	tcfg := cfg.Telemetry
	tcfg.ServiceName = "skillcheck"
	tcfg.Version = version
	shutdown, err := telemetry.Init(ctx, tcfg, log)
	if err != nil {
		a.close()
		return nil, err
	}
	a.onClose(shutdown)

	dbPath, err := resolveDBPath(cmd, cfg.DB)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.store = st
	a.archive = archive.New(st.QuizRepo())
	a.onClose(func(context.Context) error { return st.Close() })

	if withEngine {
		if err := a.buildEngine(ctx); err != nil {
			a.close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) buildEngine(ctx context.Context) error {
	cfg := a.cfg
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w\nset SKILLCHECK_LLM_PROVIDER=offline to use the built-in question bank", err)
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM, a.store.EventRepo(), a.log)
	if err != nil {
		return err
	}

	quizCache, err := a.quizCache(ctx)
	if err != nil {
		return err
	}

	composer := quizgen.NewComposer()
	if cfg.Prompts != "" {
		f, err := os.Open(cfg.Prompts)
		if err != nil {
			return fmt.Errorf("open prompt overrides: %w", err)
		}
		err = composer.LoadOverrides(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("load prompt overrides %s: %w", cfg.Prompts, err)
		}
	}

	pub, err := a.events()
	if err != nil {
		return err
	}

	a.engine = quizgen.New(provider, cfg.Engine.Quizgen(cfg.Cache.MaxEntries),
		quizgen.WithCache(quizCache),
		quizgen.WithComposer(composer),
		quizgen.WithLogger(a.log),
		quizgen.WithSinks(a.archive, events.Sink{Publisher: pub}),
	)
	return nil
}

// events returns the event publisher, connecting on first use.
func (a *app) events() (events.Publisher, error) {
	if a.publisher != nil {
		return a.publisher, nil
	}
	pub, err := events.New(a.cfg.Events.AMQPURL, a.cfg.Events.Exchange, a.log)
	if err != nil {
		return nil, err
	}
	a.publisher = pub
	a.onClose(func(context.Context) error { return pub.Close() })
	return pub, nil
}

func (a *app) quizCache(ctx context.Context) (cache.Cache[*quizgen.Quiz], error) {
	c := a.cfg.Cache
	if !strings.EqualFold(c.Backend, config.CacheRedis) {
		return cache.NewMemory[*quizgen.Quiz](cache.MemoryOptions{MaxEntries: c.MaxEntries}), nil
	}
	client, err := cache.NewRedisClient(ctx, c.RedisOptions())
	if err != nil {
		return nil, err
	}
	a.onClose(func(context.Context) error { return client.Close() })
	return cache.NewRedis[*quizgen.Quiz](client, c.Redis.Prefix), nil
}

func (a *app) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// close runs the closers in reverse order.
func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
