package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is the model gateway: it sends a prompt to a text-generation
// model and returns the completion. No determinism, formatting or latency
// guarantees are assumed of the model behind it.
type Provider interface {
	// Generate sends the request and returns the model's completion.
	// Response.Text always carries the raw completion. When the request
	// sets Schema, the provider also asks for native JSON output and
	// Response.Content holds the schema-validated document.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation. Quiz generation is single-turn, so
	// this is normally one user message.
	Messages []Message

	// Schema optionally requests native structured output.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64

	// Tags carry request metadata (skill, difficulty, count, shape).
	// They are recorded with the request event and let local providers
	// such as the offline bank answer without parsing the prompt.
	Tags map[string]string
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (schema name for OpenAI, cache key for
	// the compiled validator). Kebab-case, e.g. "scenario-quiz".
	Name string

	// Description is a human-readable description of the document.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Text is the raw completion exactly as the model returned it.
	Text string

	// Content is set only when the request carried a Schema and holds
	// the validated JSON document.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Tag returns the request tag value for key, or "".
func (r Request) Tag(key string) string {
	if r.Tags == nil {
		return ""
	}
	return r.Tags[key]
}

// Prompt flattens the request into the single prompt string the model sees.
func (r Request) Prompt() string {
	parts := make([]string, 0, len(r.Messages))
	for _, m := range r.Messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n\n")
}
