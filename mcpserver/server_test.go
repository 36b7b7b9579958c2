package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/SaiNageswarS/tiny-tales/agentboot"
	"github.com/SaiNageswarS/tiny-tales/story"
	"github.com/SaiNageswarS/tiny-tales/storyteller"
	"github.com/SaiNageswarS/tiny-tales/translate"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTeller struct {
	story       string
	translation translate.Result
	err         error
	langs       []string
}

func (f *fakeTeller) RandomStoryInEnglish(ctx context.Context) (storyteller.StoryContext, error) {
	if f.err != nil {
		return storyteller.StoryContext{}, f.err
	}
	return storyteller.StoryContext{CurrentStory: f.story, StoryID: 7, LastLanguage: translate.English}, nil
}

func (f *fakeTeller) StoryInOtherLanguage(ctx context.Context, lang string) (storyteller.StoryContext, translate.Result, error) {
	f.langs = append(f.langs, lang)
	target, err := translate.ParseTarget(lang)
	if err != nil {
		return storyteller.StoryContext{}, translate.Result{}, err
	}
	if f.err != nil {
		return storyteller.StoryContext{}, translate.Result{}, f.err
	}
	return storyteller.StoryContext{CurrentStory: f.story, StoryID: 7, LastLanguage: target}, f.translation, nil
}

func newTestClient(t *testing.T, teller StoryTeller) *client.Client {
	t.Helper()

	c, err := client.NewInProcessClient(New(teller))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, agentboot.InitializeMCP(context.Background(), c, "tiny-tales-test"))
	return c
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) (string, bool) {
	t.Helper()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)

	var text string
	switch v := res.Content[0].(type) {
	case mcp.TextContent:
		text = v.Text
	case *mcp.TextContent:
		text = v.Text
	default:
		t.Fatalf("unexpected content type %T", v)
	}
	return text, res.IsError
}

func TestListTools(t *testing.T) {
	c := newTestClient(t, &fakeTeller{})

	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		if tool.Name == ToolStoryInOtherLanguages {
			assert.Equal(t, []string{"lang"}, tool.InputSchema.Required)
			assert.Contains(t, tool.Description, "texts.en")
			assert.Contains(t, tool.Description, "texts.<lang>")
		}
	}
	assert.ElementsMatch(t, []string{ToolRandomStoryInEnglish, ToolStoryInOtherLanguages}, names)
}

func TestRandomStoryInEnglishTool(t *testing.T) {
	c := newTestClient(t, &fakeTeller{story: "Once upon a time, a crow was thirsty."})

	text, isError := callTool(t, c, ToolRandomStoryInEnglish, map[string]any{"dummy": "unused"})

	assert.False(t, isError)
	assert.Equal(t, "Once upon a time, a crow was thirsty.", text)
}

func TestStoryInOtherLanguagesTool(t *testing.T) {
	tests := []struct {
		name     string
		result   translate.Result
		expected string
	}{
		{
			name: "translated",
			result: translate.Result{Texts: map[translate.Language]string{
				translate.English: "Hello",
				translate.Tamil:   "வணக்கம்",
			}},
			expected: `{"texts":{"en":"Hello","ta":"வணக்கம்"},"degraded":false}`,
		},
		{
			name: "degraded",
			result: translate.Result{
				Texts:    map[translate.Language]string{translate.English: "Hello"},
				Degraded: true,
				Reason:   "timeout",
			},
			expected: `{"texts":{"en":"Hello"},"degraded":true,"reason":"timeout"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teller := &fakeTeller{story: "Hello", translation: tt.result}
			c := newTestClient(t, teller)

			text, isError := callTool(t, c, ToolStoryInOtherLanguages, map[string]any{"lang": "ta"})

			assert.False(t, isError)
			assert.JSONEq(t, tt.expected, text)
			assert.Equal(t, []string{"ta"}, teller.langs)
		})
	}
}

func TestToolErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		tool     string
		args     map[string]any
		contains string
	}{
		{"unsupported language", nil, ToolStoryInOtherLanguages, map[string]any{"lang": "la"}, "Only Tamil (ta) and Hindi (hi) are supported"},
		{"data unavailable", fmt.Errorf("wrap: %w", story.ErrDataUnavailable), ToolRandomStoryInEnglish, nil, "Story data is not available"},
		{"data exhausted", story.ErrDataExhausted, ToolStoryInOtherLanguages, map[string]any{"lang": "hi"}, "Could not find a story"},
		{"unexpected", errors.New("boom"), ToolRandomStoryInEnglish, nil, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeTeller{err: tt.err})

			text, isError := callTool(t, c, tt.tool, tt.args)

			assert.True(t, isError)
			assert.Contains(t, text, tt.contains)
		})
	}
}

func TestStorytellerPrompt(t *testing.T) {
	c := newTestClient(t, &fakeTeller{})

	req := mcp.GetPromptRequest{}
	req.Params.Name = PromptStoryteller
	res, err := c.GetPrompt(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)

	local, err := StorytellerPrompt()
	require.NoError(t, err)
	assert.Contains(t, local, "only English, Tamil, Hindi stories are supported")
	assert.Contains(t, local, ToolStoryInOtherLanguages)

	switch v := res.Messages[0].Content.(type) {
	case mcp.TextContent:
		assert.Equal(t, local, v.Text)
	case *mcp.TextContent:
		assert.Equal(t, local, v.Text)
	default:
		t.Fatalf("unexpected content type %T", v)
	}
}

func TestAgentToolsRoundTrip(t *testing.T) {
	teller := &fakeTeller{
		story: "Hello",
		translation: translate.Result{Texts: map[translate.Language]string{
			translate.English: "Hello",
			translate.Hindi:   "नमस्ते",
		}},
	}
	c := newTestClient(t, teller)

	tools, err := agentboot.LoadMCPTools(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, tools, 2)

	var translated *agentboot.MCPTool
	for i := range tools {
		if tools[i].Function.Name == ToolStoryInOtherLanguages {
			translated = &tools[i]
		}
	}
	require.NotNil(t, translated)
	assert.Equal(t, []any{"ta", "hi"}, translated.Function.Parameters.Properties["lang"].Enum)

	chunk := <-translated.Handler(context.Background(), api.ToolCallFunctionArguments{"lang": "hi"})
	require.NotNil(t, chunk)
	require.Empty(t, chunk.Error)
	require.Len(t, chunk.Sentences, 1)

	var got translate.Result
	require.NoError(t, json.Unmarshal([]byte(chunk.Sentences[0]), &got))
	assert.Equal(t, "नमस्ते", got.Texts[translate.Hindi])
}
