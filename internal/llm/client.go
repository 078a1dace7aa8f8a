// Package llm provides the extraction-side language model clients: a
// provider interface, Anthropic and Ollama implementations, and the
// prompts for topic detection and mention tagging. The taxonomy core
// never calls these directly; the engine does, and passes only the
// decoded results onward.
package llm

import (
	"context"
	"fmt"

	"github.com/lazypower/topiary/internal/config"
)

// Client is the interface for LLM providers. The system prompt carries
// the output contract (JSON only); the user prompt carries the data.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (*Response, error)
}

// Response holds the result of an LLM completion.
type Response struct {
	Content    string
	Provider   string
	TokensUsed int
}

// NewClient creates an LLM client based on the config provider setting.
func NewClient(cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("anthropic provider requires ANTHROPIC_API_KEY or config")
		}
		model := cfg.Model
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		return NewAnthropic(cfg.AnthropicKey, model), nil
	case "ollama":
		url := cfg.OllamaURL
		if url == "" {
			url = "http://localhost:11434"
		}
		model := cfg.OllamaModel
		if model == "" {
			model = "llama3.2"
		}
		return NewOllama(url, model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
