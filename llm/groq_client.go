package llm

import (
	"fmt"
	"net/http"
	"os"
	"strings"
)

type GroqClient struct {
	chatCompletionsClient
}

func NewGroqClient(model string) (*GroqClient, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable is not set")
	}

	return &GroqClient{chatCompletionsClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
		url:        "https://api.groq.com/openai/v1/chat/completions",
		model:      model,
	}}, nil
}

func (c *GroqClient) Capabilities() Capability {
	// Models that support tool calling based on Groq documentation
	toolSupportedModels := []string{
		"llama-3.3-70b-versatile",
		"llama-3.1-8b-instant",
		"openai/gpt-oss-20b",
		"openai/gpt-oss-120b",
		"meta-llama/llama-4-scout-17b-16e-instruct",
		"meta-llama/llama-4-maverick-17b-128e-instruct",
		"moonshotai/kimi-k2-instruct",
	}

	for _, supportedModel := range toolSupportedModels {
		if strings.Contains(c.model, supportedModel) {
			return NativeToolCalling
		}
	}

	return 0
}
