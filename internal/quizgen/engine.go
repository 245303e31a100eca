package quizgen

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/skillcheck/internal/cache"
	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/logger"
	"github.com/abhisek/skillcheck/internal/normalize"
	"github.com/abhisek/skillcheck/internal/skilldomain"
)

const tracerName = "github.com/abhisek/skillcheck/internal/quizgen"

// Sink is notified after a freshly generated quiz has been cached.
type Sink interface {
	QuizGenerated(ctx context.Context, q *Quiz) error
}

// Engine is the quiz generation pipeline: cache, classify, compose,
// call the model, normalize, validate, cache again. Safe for concurrent
// use.
type Engine struct {
	provider llm.Provider
	config   Config
	cache    cache.Cache[*Quiz]
	composer *Composer
	timers   *TimerDeriver
	log      *logger.Logger
	sinks    []Sink
	tracer   trace.Tracer
	group    singleflight.Group

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
	newID func() string
}

// Option customises an Engine.
type Option func(*Engine)

// WithCache replaces the default in-memory cache.
func WithCache(c cache.Cache[*Quiz]) Option { return func(e *Engine) { e.cache = c } }

// WithComposer replaces the built-in prompt composer.
func WithComposer(c *Composer) Option { return func(e *Engine) { e.composer = c } }

// WithTimerDeriver replaces the clock-seeded timer deriver.
func WithTimerDeriver(t *TimerDeriver) Option { return func(e *Engine) { e.timers = t } }

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option { return func(e *Engine) { e.log = l } }

// WithSinks adds quiz sinks.
func WithSinks(s ...Sink) Option { return func(e *Engine) { e.sinks = append(e.sinks, s...) } }

// WithTracer replaces the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option { return func(e *Engine) { e.tracer = t } }

// WithSleep replaces the backoff sleep. Tests use it to skip waiting.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Engine) { e.sleep = fn }
}

// WithClock sets the clock used for GeneratedAt.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// New creates an Engine that calls provider.
func New(provider llm.Provider, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		provider: provider,
		config:   cfg,
		log:      logger.Nop(),
		sleep:    sleepCtx,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = cache.NewMemory[*Quiz](cache.MemoryOptions{MaxEntries: cfg.CacheMaxEntries})
	}
	if e.composer == nil {
		e.composer = NewComposer()
	}
	if e.timers == nil {
		e.timers = NewTimerDeriver(nil)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	return e
}

// Cache returns the engine's cache.
func (e *Engine) Cache() cache.Cache[*Quiz] { return e.cache }

// Prompt renders the prompt Generate would send for req.
func (e *Engine) Prompt(req Request) (Prompt, error) {
	preset, err := req.resolve()
	if err != nil {
		return Prompt{}, err
	}
	return e.composer.Compose(e.promptInput(req, preset, skilldomain.Classify(req.Skill)))
}

// Generate returns a validated quiz for req, from cache when possible.
// Concurrent misses for the same request share one generation. All
// failures after validation of req are *GenerationError.
func (e *Engine) Generate(ctx context.Context, req Request) (*Quiz, error) {
	preset, err := req.resolve()
	if err != nil {
		return nil, err
	}
	key := req.CacheKey()

	ctx, span := e.tracer.Start(ctx, "quizgen.Generate", trace.WithAttributes(
		attribute.String("quiz.skill", req.Skill),
		attribute.String("quiz.difficulty", string(req.Difficulty)),
		attribute.Int("quiz.count", req.QuestionCount),
		attribute.String("quiz.mode", string(preset.Mode)),
	))
	defer span.End()

	if q, ok := e.lookup(ctx, key); ok {
		span.SetAttributes(attribute.Bool("quiz.cache_hit", true))
		return q, nil
	}
	span.SetAttributes(attribute.Bool("quiz.cache_hit", false))

	if err := ctx.Err(); err != nil {
		return nil, e.fail(span, &GenerationError{Kind: KindCanceled, Err: err})
	}

	ch := e.group.DoChan(key, func() (any, error) {
		// Detached from the caller: other waiters may share this result.
		// Attempts remain bounded by AttemptTimeout.
		gctx := context.WithoutCancel(ctx)
		if q, ok := e.lookup(gctx, key); ok {
			return q, nil
		}
		q, err := e.generate(gctx, req, preset)
		if err != nil {
			return nil, err
		}
		if err := e.cache.Set(gctx, key, q, preset.TTL); err != nil {
			e.log.Warn("quiz cache write failed", "key", key, "error", err)
		}
		e.notify(gctx, q)
		return q, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, e.fail(span, &GenerationError{Kind: KindCanceled, Err: ctx.Err()})
	}
	if res.Shared {
		span.SetAttributes(attribute.Bool("quiz.shared", true))
	}
	if res.Err != nil {
		return nil, e.fail(span, res.Err)
	}
	return res.Val.(*Quiz), nil
}

func (e *Engine) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (e *Engine) lookup(ctx context.Context, key string) (*Quiz, bool) {
	q, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.log.Warn("quiz cache read failed", "key", key, "error", err)
		return nil, false
	}
	if ok {
		e.log.Debug("quiz cache hit", "key", key)
	}
	return q, ok && q != nil
}

func (e *Engine) notify(ctx context.Context, q *Quiz) {
	for _, s := range e.sinks {
		if err := s.QuizGenerated(ctx, q); err != nil {
			e.log.Warn("quiz sink failed", "quiz_id", q.ID, "error", err)
		}
	}
}

// generate runs the attempt loop with linear backoff.
func (e *Engine) generate(ctx context.Context, req Request, preset Preset) (*Quiz, error) {
	domain := skilldomain.Classify(req.Skill)
	prompt, err := e.composer.Compose(e.promptInput(req, preset, domain))
	if err != nil {
		return nil, &GenerationError{Kind: KindSchemaViolation, Attempts: 0, Err: err}
	}
	validator := NewValidator(preset.Tier, e.timers)

	maxAttempts := preset.MaxAttempts
	if e.config.MaxAttempts > 0 {
		maxAttempts = e.config.MaxAttempts
	}
	maxAttempts = max(maxAttempts, 1)

	for attempt := 1; ; attempt++ {
		q, err := e.attempt(ctx, req, preset, domain, prompt, validator, attempt)
		if err == nil {
			e.log.Info("quiz generated",
				"quiz_id", q.ID, "skill", q.Skill, "difficulty", q.Difficulty,
				"mode", q.Mode, "domain", q.Domain, "attempts", attempt, "warnings", len(q.Warnings))
			return q, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &GenerationError{Kind: KindCanceled, Attempts: attempt, Err: ctxErr}
		}
		kind := ClassifyError(err)
		e.log.Warn("quiz generation attempt failed",
			"attempt", attempt, "max_attempts", maxAttempts, "kind", kind,
			"skill", req.Skill, "mode", preset.Mode, "error", err)

		if attempt >= maxAttempts || !retryable(err) {
			return nil, &GenerationError{Kind: kind, Attempts: attempt, Err: err}
		}
		if serr := e.sleep(ctx, time.Duration(attempt)*e.config.BaseDelay); serr != nil {
			return nil, &GenerationError{Kind: KindCanceled, Attempts: attempt, Err: fmt.Errorf("%w (last error: %v)", serr, err)}
		}
	}
}

func (e *Engine) attempt(ctx context.Context, req Request, preset Preset, domain skilldomain.Domain, prompt Prompt, v Validator, n int) (*Quiz, error) {
	ctx, span := e.tracer.Start(ctx, "quizgen.attempt", trace.WithAttributes(attribute.Int("quiz.attempt", n)))
	defer span.End()

	q, err := e.runAttempt(ctx, req, preset, domain, prompt, v)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(ClassifyError(err)))
	}
	return q, err
}

func (e *Engine) runAttempt(ctx context.Context, req Request, preset Preset, domain skilldomain.Domain, prompt Prompt, v Validator) (*Quiz, error) {
	callCtx := llm.WithPurpose(ctx, preset.Purpose())
	if e.config.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, e.config.AttemptTimeout)
		defer cancel()
	}

	resp, err := e.provider.Generate(callCtx, llm.Request{
		System:      prompt.System,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt.User}},
		MaxTokens:   preset.MaxTokens,
		Temperature: preset.Temperature,
		Tags: map[string]string{
			"skill":      req.Skill,
			"difficulty": string(req.Difficulty),
			"count":      strconv.Itoa(req.QuestionCount),
			"mode":       string(preset.Mode),
			"shape":      string(preset.Shape),
			"domain":     string(domain),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}
	if resp.StopReason == "max_tokens" {
		e.log.Warn("model stopped at the token limit, attempting repair", "skill", req.Skill, "max_tokens", preset.MaxTokens)
	}

	raw, err := normalize.Parse(resp.Text)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(normalize.SnakeKeys(raw).(map[string]any))
	if err != nil {
		return nil, err
	}
	res, err := v.Validate(doc, Spec{
		Skill:      req.Skill,
		Difficulty: req.Difficulty,
		Count:      req.QuestionCount,
		Preset:     preset,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		e.log.Warn("quiz repaired", "skill", req.Skill, "validator", v.Name(), "warning", w)
	}

	model := resp.Model
	if model == "" {
		model = e.provider.ModelID()
	}
	q := &Quiz{
		ID:          e.newID(),
		Skill:       strings.TrimSpace(req.Skill),
		Domain:      domain,
		Difficulty:  req.Difficulty,
		Mode:        preset.Mode,
		Questions:   res.Questions,
		Warnings:    res.Warnings,
		Model:       model,
		GeneratedAt: e.now().UTC(),
	}
	if preset.PassCriteria != nil {
		pc := *preset.PassCriteria
		q.PassCriteria = &pc
	}
	return q, nil
}

func (e *Engine) promptInput(req Request, preset Preset, domain skilldomain.Domain) PromptInput {
	return PromptInput{
		Skill:      req.Skill,
		Domain:     domain,
		Difficulty: req.Difficulty,
		Count:      req.QuestionCount,
		Preset:     preset,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
