package llm

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"
)

type OllamaClient struct {
	client *api.Client
	model  string
}

// NewOllamaClient connects to OLLAMA_HOST, or the local default.
func NewOllamaClient(model string) (*OllamaClient, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return NewOllamaClientWith(client, model), nil
}

func NewOllamaClientWith(client *api.Client, model string) *OllamaClient {
	return &OllamaClient{client: client, model: model}
}

func (c *OllamaClient) Capabilities() Capability {
	return NativeToolCalling
}

func (c *OllamaClient) GetModel() string {
	return c.model
}

func (c *OllamaClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := newSettings(c.model, opts)
	return c.chat(ctx, settings, messages, nil, callback, nil)
}

func (c *OllamaClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []Message,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []api.ToolCall) error,
	opts ...LLMOption,
) error {
	settings := newSettings(c.model, opts)
	return c.chat(ctx, settings, messages, settings.tools, contentCallback, toolCallback)
}

func (c *OllamaClient) chat(
	ctx context.Context,
	settings LLMSettings,
	messages []Message,
	tools []api.Tool,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []api.ToolCall) error,
) error {
	stream := settings.stream
	req := &api.ChatRequest{
		Model:    settings.model,
		Messages: toOllamaMessages(settings.system, messages),
		Stream:   &stream,
		Tools:    tools,
		Options: map[string]any{
			"temperature": settings.temperature,
			"num_predict": settings.maxTokens,
		},
	}

	var toolCalls []api.ToolCall
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		toolCalls = append(toolCalls, resp.Message.ToolCalls...)
		if resp.Message.Content != "" && contentCallback != nil {
			return contentCallback(resp.Message.Content)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}

	if len(toolCalls) > 0 && toolCallback != nil {
		return toolCallback(toolCalls)
	}
	return nil
}

func toOllamaMessages(system string, messages []Message) []api.Message {
	out := make([]api.Message, 0, len(messages)+1)
	if system != "" {
		out = append(out, api.Message{Role: "system", Content: system})
	}
	for _, m := range messages {
		role := m.Role
		if m.IsToolResult {
			role = "tool"
		}
		out = append(out, api.Message{Role: role, Content: m.Content})
	}
	return out
}
