// Package llm implements the generation-oracle collaborators: thin HTTP
// clients for OpenAI-compatible providers and Gemini. The pipeline core
// never sees anything below the Oracle interface.
package llm

import (
	"fmt"
	"net/http"
	"time"

	"ats-optimizer-go/internal/config"
	"ats-optimizer-go/internal/processor"
)

// Provider base URLs for the OpenAI-compatible family.
const (
	openAIBaseURL     = "https://api.openai.com/v1"
	groqBaseURL       = "https://api.groq.com/openai/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

// NewOracle builds the configured provider client. A missing credential or
// an unknown provider is an ErrOracleUnavailable: fatal, never retried.
func NewOracle(cfg config.OracleConfig) (processor.Oracle, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	switch cfg.Provider {
	case "groq":
		if cfg.Groq.APIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY not configured: %w", processor.ErrOracleUnavailable)
		}
		return newOpenAICompatClient(groqBaseURL, cfg.Groq.APIKey, cfg.Groq.Model, httpClient), nil
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not configured: %w", processor.ErrOracleUnavailable)
		}
		return newGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model, httpClient), nil
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not configured: %w", processor.ErrOracleUnavailable)
		}
		return newOpenAICompatClient(openAIBaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, httpClient), nil
	case "openrouter":
		if cfg.OpenRouter.APIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY not configured: %w", processor.ErrOracleUnavailable)
		}
		return newOpenAICompatClient(openRouterBaseURL, cfg.OpenRouter.APIKey, cfg.OpenRouter.Model, httpClient), nil
	}
	return nil, fmt.Errorf("provider %q not supported, use groq, gemini, openai or openrouter: %w",
		cfg.Provider, processor.ErrOracleUnavailable)
}
