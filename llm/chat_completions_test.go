package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroqClient(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	_, err := NewGroqClient("openai/gpt-oss-120b")
	assert.Error(t, err)

	t.Setenv("GROQ_API_KEY", "test-key")
	client, err := NewGroqClient("openai/gpt-oss-120b")
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-oss-120b", client.GetModel())
}

func TestGroqClientCapabilities(t *testing.T) {
	tests := []struct {
		model        string
		capabilities Capability
	}{
		{"llama-3.3-70b-versatile", NativeToolCalling},
		{"llama-3.1-8b-instant", NativeToolCalling},
		{"openai/gpt-oss-120b", NativeToolCalling},
		{"some-unsupported-model", Capability(0)},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			client := &GroqClient{chatCompletionsClient{model: tt.model}}
			assert.Equal(t, tt.capabilities, client.Capabilities())
		})
	}
}

func TestGeminiClient(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	_, err := NewGeminiClient("gemini-2.5-flash")
	assert.Error(t, err)

	t.Setenv("GOOGLE_API_KEY", "google-key")
	client, err := NewGeminiClient("gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, "google-key", client.apiKey)
	assert.Equal(t, NativeToolCalling, client.Capabilities())
}

func TestChatCompletions_GenerateInference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var request chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		require.Len(t, request.Messages, 2)
		assert.Equal(t, "system", request.Messages[0].Role)
		assert.Equal(t, "You tell stories", request.Messages[0].Content)
		assert.Equal(t, 1000, request.MaxTokens)
		assert.Empty(t, request.Tools)

		_ = json.NewEncoder(w).Encode(chatResponse{Choices: []chatChoice{{Message: chatMessage{Content: "Once upon a time"}}}})
	}))
	defer server.Close()

	t.Setenv("GROQ_API_KEY", "test-key")
	client, err := NewGroqClient("openai/gpt-oss-120b")
	require.NoError(t, err)
	client.url = server.URL + "/openai/v1/chat/completions"

	var result string
	err = client.GenerateInference(context.Background(),
		[]Message{{Role: "user", Content: "Hello"}},
		func(chunk string) error { result = chunk; return nil },
		WithSystemPrompt("You tell stories"), WithMaxTokens(1000))

	require.NoError(t, err)
	assert.Equal(t, "Once upon a time", result)
}

func TestChatCompletions_GenerateInferenceWithTools(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		require.Len(t, request.Tools, 2)
		assert.Equal(t, "auto", request.ToolChoice)
		assert.Equal(t, "get_story_in_other_languages", request.Tools[1].Function.Name)

		_ = json.NewEncoder(w).Encode(chatResponse{Choices: []chatChoice{{Message: chatMessage{
			ToolCalls: []chatToolCall{
				{ID: "call_1", Type: "function", Function: chatToolCallFunction{Name: "get_story_in_other_languages", Arguments: `{"lang": "hi"}`}},
				{ID: "call_2", Type: "function", Function: chatToolCallFunction{Name: "get_random_story_in_english"}},
			},
		}}}})
	}))
	defer server.Close()

	client := &GeminiClient{chatCompletionsClient{apiKey: "k", httpClient: server.Client(), url: server.URL, model: "gemini-2.5-flash"}}

	var calls []api.ToolCall
	err := client.GenerateInferenceWithTools(context.Background(),
		[]Message{{Role: "user", Content: "A Hindi story please"}},
		func(string) error { return nil },
		func(tc []api.ToolCall) error { calls = tc; return nil },
		WithTools(storyTools()))

	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, "hi", calls[0].Function.Arguments["lang"])
	assert.Empty(t, calls[1].Function.Arguments)
}

func TestChatCompletions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "status", handler: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}},
		{name: "no choices", handler: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": []}`))
		}},
		{name: "bad arguments", handler: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": [{"message": {"tool_calls": [{"function": {"name": "x", "arguments": "{oops"}}]}}]}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := &chatCompletionsClient{apiKey: "k", httpClient: server.Client(), url: server.URL, model: "m"}
			err := client.GenerateInferenceWithTools(context.Background(),
				[]Message{{Role: "user", Content: "Hi"}},
				func(string) error { return nil },
				func([]api.ToolCall) error { return nil })
			assert.Error(t, err)
		})
	}
}

func TestConvertToolsToChatFormat(t *testing.T) {
	assert.Nil(t, convertToolsToChatFormat(nil))

	chatTools := convertToolsToChatFormat(storyTools())

	require.Len(t, chatTools, 2)
	assert.Equal(t, "function", chatTools[0].Type)
	assert.Equal(t, "get_random_story_in_english", chatTools[0].Function.Name)
	assert.Equal(t, "Fetch a random story", chatTools[0].Function.Description)
}
