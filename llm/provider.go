package llm

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderGroq      = "groq"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

var ErrUnknownProvider = errors.New("unknown llm provider")

// NewClient builds the client for a provider name from config.
func NewClient(provider, model string) (LLMClient, error) {
	var (
		client LLMClient
		err    error
	)

	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderAnthropic:
		client, err = unwrap(NewAnthropicClient(model))
	case ProviderGroq:
		client, err = unwrap(NewGroqClient(model))
	case ProviderGemini, "google":
		client, err = unwrap(NewGeminiClient(model))
	case ProviderOllama:
		client, err = unwrap(NewOllamaClient(model))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	if err != nil {
		return nil, err
	}
	return client, nil
}

// unwrap keeps a failed constructor's typed nil out of the interface.
func unwrap[T LLMClient](client T, err error) (LLMClient, error) {
	if err != nil {
		return nil, err
	}
	return client, nil
}
