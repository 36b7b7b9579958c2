package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ollama/ollama/api"
)

// chatCompletionsClient speaks the OpenAI chat-completions dialect served by Groq and by
// Gemini's compatibility endpoint.
type chatCompletionsClient struct {
	apiKey     string
	httpClient *http.Client
	url        string
	model      string
}

func (c *chatCompletionsClient) GetModel() string {
	return c.model
}

func (c *chatCompletionsClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := newSettings(c.model, opts)
	return c.makeRequest(ctx, c.buildRequest(settings, messages), callback, nil)
}

func (c *chatCompletionsClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []Message,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []api.ToolCall) error,
	opts ...LLMOption,
) error {
	settings := newSettings(c.model, opts)

	request := c.buildRequest(settings, messages)
	request.Tools = convertToolsToChatFormat(settings.tools)
	if len(request.Tools) > 0 {
		request.ToolChoice = "auto"
	}

	return c.makeRequest(ctx, request, contentCallback, toolCallback)
}

func (c *chatCompletionsClient) buildRequest(settings LLMSettings, messages []Message) chatRequest {
	request := chatRequest{
		Model:       settings.model,
		Messages:    messages,
		Temperature: settings.temperature,
		MaxTokens:   settings.maxTokens,
	}

	// The system prompt travels as the first message.
	if settings.system != "" {
		systemMsg := Message{Role: "system", Content: settings.system}
		request.Messages = append([]Message{systemMsg}, request.Messages...)
	}
	return request
}

func (c *chatCompletionsClient) makeRequest(
	ctx context.Context,
	request chatRequest,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []api.ToolCall) error,
) error {
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var response chatResponse
	if err := postJSON(ctx, c.httpClient, c.url, headers, request, &response); err != nil {
		return err
	}

	if len(response.Choices) == 0 {
		return fmt.Errorf("no choices in response")
	}

	choice := response.Choices[0]

	if len(choice.Message.ToolCalls) > 0 && toolCallback != nil {
		toolCalls := make([]api.ToolCall, len(choice.Message.ToolCalls))
		for i, tc := range choice.Message.ToolCalls {
			args := map[string]any{}
			if tc.Function.Arguments != "" {
				if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
					return fmt.Errorf("error parsing tool call arguments: %w", err)
				}
			}

			toolCalls[i] = api.ToolCall{
				Function: api.ToolCallFunction{
					Name:      tc.Function.Name,
					Arguments: args,
				},
			}
		}
		return toolCallback(toolCalls)
	}

	if choice.Message.Content != "" && contentCallback != nil {
		return contentCallback(choice.Message.Content)
	}

	return nil
}

func convertToolsToChatFormat(tools []api.Tool) []chatTool {
	if len(tools) == 0 {
		return nil
	}

	chatTools := make([]chatTool, len(tools))
	for i, tool := range tools {
		chatTools[i] = chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			},
		}
	}
	return chatTools
}

type chatRequest struct {
	Model       string     `json:"model"`
	Messages    []Message  `json:"messages"`
	Temperature float64    `json:"temperature,omitempty"`
	MaxTokens   int        `json:"max_completion_tokens,omitempty"`
	Stream      bool       `json:"stream,omitempty"`
	Tools       []chatTool `json:"tools,omitempty"`
	ToolChoice  string     `json:"tool_choice,omitempty"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  any    `json:"parameters"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []chatToolCall `json:"tool_calls,omitempty"`
}

type chatToolCall struct {
	ID       string               `json:"id"`
	Type     string               `json:"type"`
	Function chatToolCallFunction `json:"function"`
}

type chatToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
