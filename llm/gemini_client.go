package llm

import (
	"fmt"
	"net/http"
	"os"
)

// GeminiClient talks to Gemini through its OpenAI-compatible endpoint.
type GeminiClient struct {
	chatCompletionsClient
}

func NewGeminiClient(model string) (*GeminiClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}

	return &GeminiClient{chatCompletionsClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
		url:        "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions",
		model:      model,
	}}, nil
}

func (c *GeminiClient) Capabilities() Capability {
	return NativeToolCalling
}
