package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/SaiNageswarS/tiny-tales/prompts"
	"github.com/ollama/ollama/api"
)

type AnthropicClient struct {
	apiKey     string
	httpClient *http.Client
	url        string
	model      string
}

func NewAnthropicClient(model string) (*AnthropicClient, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
	}

	return &AnthropicClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
		url:        "https://api.anthropic.com/v1/messages",
		model:      model,
	}, nil
}

func (c *AnthropicClient) Capabilities() Capability {
	return 0 // tool calls are emulated with a prompt
}

func (c *AnthropicClient) GetModel() string {
	return c.model
}

func (c *AnthropicClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := newSettings(c.model, opts)
	system, rest := splitSystem(settings.system, messages)

	request := anthropicRequest{
		Model:       settings.model,
		MaxTokens:   settings.maxTokens,
		Temperature: settings.temperature,
		System:      system,
		Messages:    rest,
	}

	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": "2023-06-01",
	}

	var response anthropicResponse
	if err := postJSON(ctx, c.httpClient, c.url, headers, request, &response); err != nil {
		return err
	}

	if len(response.Content) == 0 {
		return fmt.Errorf("no content in response")
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return callback(text.String())
}

func (c *AnthropicClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []Message,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []api.ToolCall) error,
	opts ...LLMOption,
) error {
	settings := newSettings(c.model, opts)

	// If no tools are provided, use regular inference
	if len(settings.tools) == 0 {
		return c.GenerateInference(ctx, messages, contentCallback, opts...)
	}

	systemPrompt, userPrompt, err := prompts.RenderInferenceWithToolPrompt(
		buildToolPromptData(settings.system, settings.tools, messages))
	if err != nil {
		return fmt.Errorf("error rendering tool inference prompt: %w", err)
	}

	var inferenceResponse strings.Builder
	err = c.GenerateInference(ctx,
		[]Message{{Role: "user", Content: userPrompt}},
		func(chunk string) error {
			inferenceResponse.WriteString(chunk)
			return nil
		},
		WithSystemPrompt(systemPrompt),
		WithMaxTokens(settings.maxTokens),
		WithTemperature(settings.temperature))
	if err != nil {
		return fmt.Errorf("error getting tool inference: %w", err)
	}

	return parseUnifiedResponse(inferenceResponse.String(), contentCallback, toolCallback)
}

// buildToolPromptData describes the tools and splits the conversation into the latest user
// question, the earlier turns and the tool results gathered since that question.
func buildToolPromptData(system string, tools []api.Tool, messages []Message) prompts.InferenceWithToolPromptData {
	data := prompts.InferenceWithToolPromptData{
		Instructions:     system,
		ToolDescriptions: describeTools(tools),
	}

	lastQuestion := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" && !messages[i].IsToolResult {
			lastQuestion = i
			break
		}
	}
	if lastQuestion < 0 {
		return data
	}

	data.Query = messages[lastQuestion].Content

	var history, results []string
	for _, m := range messages[:lastQuestion] {
		if m.Role == "system" || m.IsToolResult {
			continue
		}
		history = append(history, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	for _, m := range messages[lastQuestion+1:] {
		if m.IsToolResult {
			results = append(results, m.Content)
		}
	}

	data.Context = strings.Join(history, "\n")
	data.ToolResults = strings.Join(results, "\n\n")
	return data
}

// describeTools renders "name: description (parameters: p1:string (required), ...)".
func describeTools(tools []api.Tool) []string {
	toolDescriptions := make([]string, len(tools))
	for i, tool := range tools {
		names := make([]string, 0, len(tool.Function.Parameters.Properties))
		for name := range tool.Function.Parameters.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		params := make([]string, 0, len(names))
		for _, paramName := range names {
			paramProp := tool.Function.Parameters.Properties[paramName]
			paramType := "string"
			if len(paramProp.Type) > 0 {
				paramType = paramProp.Type[0]
			}

			paramStr := fmt.Sprintf("%s:%s", paramName, paramType)
			if len(paramProp.Enum) > 0 {
				values := make([]string, len(paramProp.Enum))
				for j, v := range paramProp.Enum {
					values[j] = fmt.Sprint(v)
				}
				paramStr += fmt.Sprintf(" one of [%s]", strings.Join(values, ", "))
			}
			for _, req := range tool.Function.Parameters.Required {
				if req == paramName {
					paramStr += " (required)"
					break
				}
			}
			params = append(params, paramStr)
		}

		var paramStr string
		if len(params) > 0 {
			paramStr = fmt.Sprintf(" (parameters: %s)", strings.Join(params, ", "))
		}

		toolDescriptions[i] = fmt.Sprintf("%s: %s%s", tool.Function.Name, tool.Function.Description, paramStr)
	}
	return toolDescriptions
}

// parseUnifiedResponse dispatches a {"action": "use_tools"|"direct_answer", ...} reply.
// Text that is not JSON is treated as a direct answer.
func parseUnifiedResponse(
	response string,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []api.ToolCall) error,
) error {
	response = strings.TrimSpace(response)

	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 || startIdx >= endIdx {
		return contentCallback(response)
	}

	var unifiedResponse unifiedInferenceResponse
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &unifiedResponse); err != nil {
		return contentCallback(response)
	}

	switch unifiedResponse.Action {
	case "direct_answer":
		if unifiedResponse.Content == "" {
			return fmt.Errorf("direct_answer action but no content provided")
		}
		return contentCallback(unifiedResponse.Content)

	case "use_tools":
		if len(unifiedResponse.ToolCalls) == 0 {
			return fmt.Errorf("use_tools action but no tool calls provided")
		}

		toolCalls := make([]api.ToolCall, len(unifiedResponse.ToolCalls))
		for i, tc := range unifiedResponse.ToolCalls {
			toolCalls[i] = api.ToolCall{
				Function: api.ToolCallFunction{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}
		return toolCallback(toolCalls)

	default:
		return fmt.Errorf("unknown action: %s", unifiedResponse.Action)
	}
}

type anthropicRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []Message `json:"messages"`
	System      string    `json:"system,omitempty"`
	Temperature float64   `json:"temperature"`
}

type anthropicResponse struct {
	Content []content `json:"content"`
	ID      string    `json:"id"`
	Model   string    `json:"model"`
	Role    string    `json:"role"`
	Type    string    `json:"type"`
}

type content struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

type unifiedInferenceResponse struct {
	Action    string `json:"action"` // "use_tools" or "direct_answer"
	Content   string `json:"content,omitempty"`
	ToolCalls []struct {
		Function struct {
			Name      string         `json:"name"`
			Arguments map[string]any `json:"arguments"`
		} `json:"function"`
		Reasoning string `json:"reasoning"`
	} `json:"tool_calls,omitempty"`
}
