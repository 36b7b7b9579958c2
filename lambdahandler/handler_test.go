package lambdahandler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/SaiNageswarS/tiny-tales/agentboot"
	"github.com/SaiNageswarS/tiny-tales/mcpserver"
	"github.com/SaiNageswarS/tiny-tales/story"
	"github.com/SaiNageswarS/tiny-tales/storyteller"
	"github.com/SaiNageswarS/tiny-tales/translate"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTeller struct {
	err   error
	calls int
}

func (f *fakeTeller) RandomStoryInEnglish(ctx context.Context) (storyteller.StoryContext, error) {
	f.calls++
	if f.err != nil {
		return storyteller.StoryContext{}, f.err
	}
	return storyteller.StoryContext{CurrentStory: "Hello", StoryID: 3}, nil
}

func (f *fakeTeller) StoryInOtherLanguage(ctx context.Context, lang string) (storyteller.StoryContext, translate.Result, error) {
	f.calls++
	target, err := translate.ParseTarget(lang)
	if err != nil {
		return storyteller.StoryContext{}, translate.Result{}, err
	}
	return storyteller.StoryContext{CurrentStory: "Hello", StoryID: 3, LastLanguage: target},
		translate.Result{Texts: map[translate.Language]string{translate.English: "Hello", target: "வணக்கம்"}}, nil
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name        string
		request     Request
		expectError bool
		errorMsg    string
	}{
		{"english story", Request{Tool: mcpserver.ToolRandomStoryInEnglish}, false, ""},
		{"translated story", Request{Tool: mcpserver.ToolStoryInOtherLanguages, Lang: "ta"}, false, ""},
		{"missing tool", Request{}, true, "tool is required"},
		{"missing lang", Request{Tool: mcpserver.ToolStoryInOtherLanguages}, true, "lang is required"},
		{"unknown tool", Request{Tool: "get_weather"}, true, `unknown tool "get_weather"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(tt.request)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHandle(t *testing.T) {
	h := New(&fakeTeller{})

	resp, err := h.Handle(context.Background(), Request{Tool: mcpserver.ToolRandomStoryInEnglish})
	require.NoError(t, err)
	assert.Equal(t, &Response{Story: "Hello", StoryID: 3}, resp)

	resp, err = h.Handle(context.Background(), Request{Tool: mcpserver.ToolStoryInOtherLanguages, Lang: "ta"})
	require.NoError(t, err)
	require.NotNil(t, resp.Translation)
	assert.Equal(t, "வணக்கம்", resp.Translation.Texts[translate.Tamil])
	assert.Empty(t, resp.Error)
}

func TestHandleServesEveryMCPTool(t *testing.T) {
	teller := &fakeTeller{}
	c, err := client.NewInProcessClient(mcpserver.New(teller))
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, agentboot.InitializeMCP(context.Background(), c, "lambda-test"))

	listed, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)
	require.Len(t, listed.Tools, 2)

	h := New(teller)
	for _, tool := range listed.Tools {
		resp, err := h.Handle(context.Background(), Request{Tool: tool.Name, Lang: "ta"})
		require.NoError(t, err)
		assert.Empty(t, resp.Error, tool.Name)
		assert.Equal(t, "Hello", resp.Story, tool.Name)
	}
}

func TestHandleErrors(t *testing.T) {
	teller := &fakeTeller{err: story.ErrDataUnavailable}
	h := New(teller)

	resp, err := h.Handle(context.Background(), Request{Tool: mcpserver.ToolRandomStoryInEnglish})
	require.NoError(t, err)
	assert.Contains(t, resp.Error, "story data unavailable")

	resp, err = h.Handle(context.Background(), Request{Tool: mcpserver.ToolStoryInOtherLanguages, Lang: "latin"})
	require.NoError(t, err)
	assert.Contains(t, resp.Error, "unsupported language")

	resp, err = h.Handle(context.Background(), Request{Tool: "nope"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, 2, teller.calls)
}

func TestHandleEvent(t *testing.T) {
	h := New(&fakeTeller{})

	out, err := h.HandleEvent(context.Background(), json.RawMessage(`{"source":"warmup","concurrency":0}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"statusCode": 200, "status": "warm"}, out)

	out, err = h.HandleEvent(context.Background(), json.RawMessage(`{"tool":"get_story_in_other_languages","lang":"hi"}`))
	require.NoError(t, err)
	resp, ok := out.(*Response)
	require.True(t, ok)
	assert.Equal(t, "வணக்கம்", resp.Translation.Texts[translate.Hindi])

	_, err = h.HandleEvent(context.Background(), json.RawMessage(`not json`))
	assert.Error(t, err)
}
