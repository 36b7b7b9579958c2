package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/story"
	"github.com/SaiNageswarS/tiny-tales/storyteller"
	"github.com/SaiNageswarS/tiny-tales/translate"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// StoryTeller is what the story tools need from storyteller.Teller.
type StoryTeller interface {
	RandomStoryInEnglish(ctx context.Context) (storyteller.StoryContext, error)
	StoryInOtherLanguage(ctx context.Context, lang string) (storyteller.StoryContext, translate.Result, error)
}

type StoryHandler struct {
	teller StoryTeller
}

func NewStoryHandler(teller StoryTeller) *StoryHandler {
	return &StoryHandler{teller: teller}
}

func (h *StoryHandler) HandleRandomStoryInEnglish(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Info("Inside tool", zap.String("tool", ToolRandomStoryInEnglish))

	sc, err := h.teller.RandomStoryInEnglish(ctx)
	if err != nil {
		return toolError(err), nil
	}

	logger.Info("Told story", zap.Int("story_id", sc.StoryID))
	return mcp.NewToolResultText(sc.CurrentStory), nil
}

func (h *StoryHandler) HandleStoryInOtherLanguages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lang := req.GetString("lang", "")
	logger.Info("Inside tool", zap.String("tool", ToolStoryInOtherLanguages), zap.String("lang", lang))

	sc, result, err := h.teller.StoryInOtherLanguage(ctx, lang)
	if err != nil {
		return toolError(err), nil
	}

	body, err := json.Marshal(result)
	if err != nil {
		logger.Error("Failed to marshal translation result", zap.Error(err))
		return mcp.NewToolResultError("Error: Failed to encode the translated story: " + err.Error()), nil
	}

	logger.Info("Told translated story",
		zap.Int("story_id", sc.StoryID),
		zap.String("lang", string(sc.LastLanguage)),
		zap.Bool("degraded", result.Degraded))
	return mcp.NewToolResultText(string(body)), nil
}

// toolError maps domain errors to a message the agent can relay to the child.
func toolError(err error) *mcp.CallToolResult {
	logger.Error("Story tool failed", zap.Error(err))

	switch {
	case errors.Is(err, translate.ErrUnsupportedLanguage):
		return mcp.NewToolResultError("Error: Only Tamil (ta) and Hindi (hi) are supported.")
	case errors.Is(err, story.ErrDataUnavailable):
		return mcp.NewToolResultError("Error: Story data is not available. Please ensure the data file is present.")
	case errors.Is(err, story.ErrDataExhausted):
		return mcp.NewToolResultError("Error: Could not find a story this time. Please try again.")
	default:
		return mcp.NewToolResultError("Error: An unexpected error occurred while retrieving the story: " + err.Error())
	}
}
