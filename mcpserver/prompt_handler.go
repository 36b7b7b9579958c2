package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/tiny-tales/prompts"
	"github.com/SaiNageswarS/tiny-tales/translate"
	"github.com/mark3labs/mcp-go/mcp"
)

// HandleStorytellerPrompt returns the system prompt a client agent should run with.
func HandleStorytellerPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	promptText, err := StorytellerPrompt()
	if err != nil {
		return nil, err
	}

	if promptText == "" {
		return nil, fmt.Errorf("prompt text is empty")
	}

	return &mcp.GetPromptResult{
		Description: "Storyteller instructions for tiny bilingual stories",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: promptText,
				},
			},
		},
	}, nil
}

// StorytellerPrompt renders the agent system prompt for the tools this server registers.
func StorytellerPrompt() (string, error) {
	names := make([]string, 0, len(translate.Targets()))
	for _, lang := range translate.Targets() {
		names = append(names, lang.Name())
	}

	return prompts.RenderStorytellerPrompt(prompts.StorytellerPromptData{
		LanguageList:   strings.Join(names, ", "),
		EnglishTool:    ToolRandomStoryInEnglish,
		TranslatedTool: ToolStoryInOtherLanguages,
	})
}
