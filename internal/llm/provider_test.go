package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "```json\n{\"a\":1}\n```", Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text != "```json\n{\"a\":1}\n```" {
		t.Fatalf("unexpected text %q", resp1.Text)
	}
	if resp1.Content != nil {
		t.Fatalf("expected no structured content without a schema, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Schema: &Schema{Name: "x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text != `{"b":2}` || string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected content reused as text, got text=%q content=%s", resp2.Text, resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "{}"})

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
		Tags:     map[string]string{"skill": "SQL"},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
	if got := mock.LastCall().Tag("skill"); got != "SQL" {
		t.Fatalf("expected tag skill=SQL, got %q", got)
	}
}

func TestMockProvider_CanceledContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "{}"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRequest_Prompt(t *testing.T) {
	req := Request{Messages: []Message{
		{Role: RoleUser, Content: "one"},
		{Role: RoleAssistant, Content: "two"},
	}}
	if got := req.Prompt(); got != "one\n\ntwo" {
		t.Fatalf("Prompt() = %q", got)
	}
	if (Request{}).Tag("missing") != "" {
		t.Fatal("expected empty tag on nil map")
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "quiz-strict")
	if p := PurposeFrom(ctx); p != "quiz-strict" {
		t.Fatalf("expected 'quiz-strict', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"mistral without key", Config{Provider: "mistral"}, true},
		{"mistral with key", Config{Provider: "mistral", Mistral: MistralConfig{APIKey: "k"}}, false},
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g"}}, false},
		{"openrouter without key", Config{Provider: "openrouter"}, true},
		{"offline needs no key", Config{Provider: "offline"}, false},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
		{"negative retries", Config{Provider: "mock", Retry: RetryConfig{MaxAttempts: -1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.cfg.HasCredentials() == tt.wantErr {
				t.Fatalf("HasCredentials() disagrees with Validate()")
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SKILLCHECK_LLM_PROVIDER", "openrouter")
	t.Setenv("SKILLCHECK_OPENROUTER_API_KEY", "or-key")
	t.Setenv("SKILLCHECK_MISTRAL_MODEL", "mistral-large")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openrouter" {
		t.Fatalf("expected openrouter, got %q", cfg.Provider)
	}
	if cfg.OpenRouter.APIKey != "or-key" {
		t.Fatalf("expected api key from env")
	}
	if cfg.Mistral.Model != "mistral-large" {
		t.Fatalf("expected mistral model override, got %q", cfg.Mistral.Model)
	}
	if cfg.Gemini.Model != "gemini-flash" {
		t.Fatalf("expected default gemini model, got %q", cfg.Gemini.Model)
	}
}

func TestDiscoverConfig_PrefersMistral(t *testing.T) {
	for _, k := range []string{"MISTRAL_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider discovered")
	}

	t.Setenv("OPENAI_API_KEY", "oa")
	t.Setenv("MISTRAL_API_KEY", "mi")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != "mistral" || cfg.Mistral.APIKey != "mi" {
		t.Fatalf("expected mistral discovery, got %+v ok=%v", cfg.Provider, ok)
	}
}

type stubProvider struct{ model string }

func (s stubProvider) Generate(context.Context, Request) (*Response, error) {
	return &Response{Text: "{}", Model: s.model}, nil
}

func (s stubProvider) ModelID() string { return s.model }

func TestNewProvider_UsesRegistry(t *testing.T) {
	Register("stub-test", func(ctx context.Context, cfg Config) (Provider, error) {
		return stubProvider{model: "stub-1"}, nil
	})

	p, err := NewProvider(context.Background(), Config{Provider: "stub-test"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "stub-1" {
		t.Fatalf("expected stub-1, got %q", p.ModelID())
	}
	found := false
	for _, n := range Registered() {
		if n == "stub-test" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected stub-test in Registered()")
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "nope"}, nil, nil)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "mistral"}, nil, nil)
	if err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("mistral-small-latest")
	if c == nil {
		t.Fatal("expected pricing for mistral-small-latest")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.4) > 1e-9 {
		t.Fatalf("expected $0.40, got %v", got)
	}
	if LookupCost("no-such-model") != nil {
		t.Fatal("expected nil for unknown model")
	}
}
