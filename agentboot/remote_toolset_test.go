package agentboot

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMCPSession struct {
	tools   []mcp.Tool
	listErr error
	calls   []mcp.CallToolRequest
	result  *mcp.CallToolResult
	callErr error
}

func (f *fakeMCPSession) ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &mcp.ListToolsResult{Tools: f.tools}, nil
}

func (f *fakeMCPSession) CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f.calls = append(f.calls, request)
	return f.result, f.callErr
}

func storyServerTools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool("get_random_story_in_english",
			mcp.WithDescription("Fetch a random story"),
			mcp.WithString("dummy", mcp.Description("Unused")),
		),
		mcp.NewTool("get_story_in_other_languages",
			mcp.WithDescription("Translate a random story"),
			mcp.WithString("lang", mcp.Required(), mcp.Description("Target language"), mcp.Enum("ta", "hi")),
		),
	}
}

func TestLoadMCPTools(t *testing.T) {
	session := &fakeMCPSession{tools: storyServerTools()}

	tools, err := LoadMCPTools(context.Background(), session)

	require.NoError(t, err)
	require.Len(t, tools, 2)

	english := tools[0]
	assert.Equal(t, "get_random_story_in_english", english.Function.Name)
	assert.Empty(t, english.Function.Parameters.Required)
	assert.Contains(t, english.Function.Parameters.Properties, "dummy")

	translated := tools[1]
	assert.Equal(t, []string{"lang"}, translated.Function.Parameters.Required)
	assert.Equal(t, []any{"ta", "hi"}, translated.Function.Parameters.Properties["lang"].Enum)
	assert.Equal(t, "Target language", translated.Function.Parameters.Properties["lang"].Description)
}

func TestLoadMCPToolsListError(t *testing.T) {
	_, err := LoadMCPTools(context.Background(), &fakeMCPSession{listErr: errors.New("down")})
	assert.Error(t, err)
}

func TestRemoteToolHandler(t *testing.T) {
	session := &fakeMCPSession{
		tools:  storyServerTools(),
		result: mcp.NewToolResultText(`{"texts":{"en":"Hello","ta":"வணக்கம்"},"degraded":false}`),
	}

	tools, err := LoadMCPTools(context.Background(), session)
	require.NoError(t, err)

	chunk := <-tools[1].Handler(context.Background(), api.ToolCallFunctionArguments{"lang": "ta"})

	require.Len(t, session.calls, 1)
	assert.Equal(t, "get_story_in_other_languages", session.calls[0].Params.Name)
	assert.Equal(t, map[string]any{"lang": "ta"}, session.calls[0].Params.Arguments)

	require.NotNil(t, chunk)
	assert.Equal(t, "get_story_in_other_languages", chunk.ToolName)
	assert.Equal(t, []string{`{"texts":{"en":"Hello","ta":"வணக்கம்"},"degraded":false}`}, chunk.Sentences)
	assert.Empty(t, chunk.Error)
}

func TestRemoteToolHandlerErrors(t *testing.T) {
	t.Run("tool error result", func(t *testing.T) {
		session := &fakeMCPSession{tools: storyServerTools(), result: mcp.NewToolResultError("story data unavailable")}
		tools, err := LoadMCPTools(context.Background(), session)
		require.NoError(t, err)

		chunk := <-tools[0].Handler(context.Background(), api.ToolCallFunctionArguments{})
		assert.Equal(t, "story data unavailable", chunk.Error)
		assert.Empty(t, chunk.Sentences)
	})

	t.Run("transport error", func(t *testing.T) {
		session := &fakeMCPSession{tools: storyServerTools(), callErr: errors.New("connection reset")}
		tools, err := LoadMCPTools(context.Background(), session)
		require.NoError(t, err)

		chunk := <-tools[0].Handler(context.Background(), nil)
		assert.Equal(t, "connection reset", chunk.Error)
	})
}
