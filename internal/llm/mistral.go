package llm

import "fmt"

const defaultMistralBaseURL = "https://api.mistral.ai/v1"

// mistralModels maps friendly names to Mistral model IDs.
var mistralModels = map[string]string{
	"mistral-small":  "mistral-small-latest",
	"mistral-medium": "mistral-medium-latest",
	"mistral-large":  "mistral-large-latest",
}

// MistralProvider targets Mistral's chat completions endpoint, which is
// wire-compatible with OpenAI's.
type MistralProvider struct {
	*OpenAIProvider
}

// NewMistralProvider creates a provider targeting the Mistral API.
func NewMistralProvider(cfg MistralConfig) (*MistralProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("mistral API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultMistralBaseURL
	}

	inner := newOpenAICompatible(cfg.APIKey, baseURL, resolveModel(cfg.Model, mistralModels), true)
	return &MistralProvider{OpenAIProvider: inner}, nil
}
