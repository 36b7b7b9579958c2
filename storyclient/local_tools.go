package storyclient

import (
	"context"
	"errors"
	"strconv"

	"github.com/SaiNageswarS/tiny-tales/agentboot"
	"github.com/SaiNageswarS/tiny-tales/llm"
	"github.com/SaiNageswarS/tiny-tales/mcpserver"
	"github.com/SaiNageswarS/tiny-tales/memory"
	"github.com/SaiNageswarS/tiny-tales/schema"
	"github.com/SaiNageswarS/tiny-tales/translate"
	"github.com/ollama/ollama/api"
)

// LocalTools exposes the story tools as in-process agent tools, without an MCP server.
func LocalTools(teller mcpserver.StoryTeller) []agentboot.MCPTool {
	english := agentboot.NewMCPToolBuilder(mcpserver.ToolRandomStoryInEnglish,
		"Retrieves a random children's story in English, retold for a 4 to 5 year old.").
		StringParam("dummy", "Unused parameter kept for compatibility. Always leave it empty.", false).
		WithHandler(func(ctx context.Context, params api.ToolCallFunctionArguments) <-chan *schema.ToolResultChunk {
			ch := make(chan *schema.ToolResultChunk, 1)
			go func() {
				defer close(ch)

				sc, err := teller.RandomStoryInEnglish(ctx)
				if err != nil {
					ch <- agentboot.NewToolResultChunk().Error(err.Error()).Build()
					return
				}
				ch <- storyChunk(translate.English, sc.CurrentStory, sc.StoryID)
			}()
			return ch
		}).
		Build()

	translated := agentboot.NewMCPToolBuilder(mcpserver.ToolStoryInOtherLanguages,
		"Fetches a random children's story and translates it into Tamil or Hindi.").
		EnumParam("lang", "Target language code: ta for Tamil, hi for Hindi", []string{"ta", "hi"}, true).
		WithHandler(func(ctx context.Context, params api.ToolCallFunctionArguments) <-chan *schema.ToolResultChunk {
			ch := make(chan *schema.ToolResultChunk, 2)
			go func() {
				defer close(ch)

				lang, _ := params["lang"].(string)
				sc, result, err := teller.StoryInOtherLanguage(ctx, lang)
				if errors.Is(err, translate.ErrUnsupportedLanguage) {
					ch <- agentboot.NewToolResultChunk().Error("Only Tamil (ta) and Hindi (hi) are supported.").Build()
					return
				}
				if err != nil {
					ch <- agentboot.NewToolResultChunk().Error(err.Error()).Build()
					return
				}

				english, _ := result.Text(translate.English)
				ch <- storyChunk(translate.English, english, sc.StoryID)

				if result.Degraded {
					target, _ := translate.ParseTarget(lang)
					ch <- agentboot.NewToolResultChunk().
						Title(target.Name()).
						Error("translation unavailable: " + result.Reason).
						Build()
					return
				}
				for _, target := range translate.Targets() {
					if text, ok := result.Text(target); ok {
						ch <- storyChunk(target, text, sc.StoryID)
					}
				}
			}()
			return ch
		}).
		Build()

	return []agentboot.MCPTool{english, translated}
}

func storyChunk(lang translate.Language, text string, storyID int) *schema.ToolResultChunk {
	return agentboot.NewToolResultChunk().
		Title(lang.Name()).
		Sentences(text).
		MetadataKV("story_id", strconv.Itoa(storyID)).
		Build()
}

// NewLocal builds a StoryClient that calls the teller directly.
func NewLocal(teller mcpserver.StoryTeller, llmClient llm.LLMClient) (*StoryClient, error) {
	prompt, err := mcpserver.StorytellerPrompt()
	if err != nil {
		return nil, err
	}

	agent := agentboot.NewAgentBuilder().
		WithBigModel(llmClient).
		WithSystemPrompt(prompt).
		AddTools(LocalTools(teller)...).
		WithTemperature(Temperature).
		WithMaxTokens(MaxTokens).
		WithConversationManager(memory.NewConversationManager(maxSessionMessages)).
		Build()

	return &StoryClient{
		agent:    agent,
		reporter: &agentboot.LogProgressReporter{},
	}, nil
}
