package agentboot

import (
	"context"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/ds"
	"github.com/SaiNageswarS/tiny-tales/llm"
	"github.com/SaiNageswarS/tiny-tales/memory"
	"github.com/SaiNageswarS/tiny-tales/prompts"
	"github.com/SaiNageswarS/tiny-tales/schema"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// Execute answers one user question. Each turn the tool selector may request tool calls;
// their results are appended to the conversation. The first turn without tool calls, or
// MaxTurns, ends tool use and the big model writes the answer.
func (a *Agent) Execute(ctx context.Context, reporter ProgressReporter, req *schema.GenerateAnswerRequest) (*schema.StreamComplete, error) {
	startTime := getCurrentTimeMs()

	response := &schema.StreamComplete{ToolsUsed: []string{}, Metadata: map[string]string{}}

	// Load previous conversation messages
	conversation := memory.NewConversation()
	if a.config.ConversationManager != nil {
		conversation = a.config.ConversationManager.LoadSession(ctx, req.SessionId)
	}
	response.Metadata["session_id"] = conversation.ID

	conversation.AddUserMessage(req.Question)

	used := ds.NewSet[string]()
	for turn := 0; turn < a.config.MaxTurns && len(a.config.Tools) > 0; turn++ {
		toolCalls := a.SelectTools(ctx, reporter, conversation.Messages, turn)
		if len(toolCalls) == 0 {
			break
		}

		for _, toolCall := range toolCalls {
			toolResult, err := a.RunTool(ctx, reporter, &toolCall)
			if err != nil {
				conversation.AddToolResult(fmt.Sprintf("Tool %s failed: %v", toolCall.Function.Name, err))
				continue
			}

			conversation.AddToolResult(toolResult)
			if !used.Contains(toolCall.Function.Name) {
				used.Add(toolCall.Function.Name)
				response.ToolsUsed = append(response.ToolsUsed, toolCall.Function.Name)
			}
		}
	}

	reporter.Send(NewProgressUpdate(schema.StageAnswerGeneration, "Writing the answer"))

	var inference strings.Builder
	err := a.config.BigModel.GenerateInference(
		ctx, conversation.Messages,
		func(chunk string) error {
			inference.WriteString(chunk)
			reporter.Send(NewAnswerChunk(&schema.AnswerChunk{Content: chunk}))
			return nil
		},
		llm.WithMaxTokens(a.config.MaxTokens),
		llm.WithTemperature(a.config.Temperature),
		llm.WithSystemPrompt(a.config.SystemPrompt),
	)

	if err != nil {
		logger.Error("Failed to run inference", zap.Error(err))
		reporter.Send(NewStreamError(err.Error(), "inference_failed"))
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	response.Answer = inference.String()
	response.ModelUsed = a.config.BigModel.GetModel()
	response.ProcessingTime = getCurrentTimeMs() - startTime

	conversation.AddAssistantMessage(response.Answer)
	if a.config.ConversationManager != nil {
		a.config.ConversationManager.SaveSession(ctx, conversation)
	}

	reporter.Send(NewStreamComplete(response))
	return response, nil
}

func (a *Agent) SelectTools(ctx context.Context, reporter ProgressReporter, msgs []llm.Message, turn int) []api.ToolCall {
	var toolCalls []api.ToolCall

	reporter.Send(NewProgressUpdate(schema.StageToolSelection, fmt.Sprintf("Selecting tools (turn %d)", turn+1)))

	// Render tool selection system prompt
	systemPrompt, err := prompts.RenderToolSelectionPrompt(turn)
	if err != nil {
		logger.Error("Failed to render tool selection prompt", zap.Error(err))
		reporter.Send(NewStreamError(err.Error(), "prompt_rendering_failed"))
		return toolCalls
	}

	if a.config.SystemPrompt != "" {
		systemPrompt = a.config.SystemPrompt + "\n\n" + systemPrompt
	}

	err = a.config.ToolSelector.GenerateInferenceWithTools(
		ctx, msgs,
		func(chunk string) error { return nil }, // answers come from the big model
		func(calls []api.ToolCall) error {
			toolCalls = append(toolCalls, calls...)
			return nil
		},
		llm.WithTools(toAPITools(a.config.Tools)),
		llm.WithMaxTokens(a.config.MaxTokens),
		llm.WithTemperature(a.config.Temperature),
		llm.WithSystemPrompt(systemPrompt),
	)

	if err != nil {
		logger.Error("Failed to select tools", zap.Error(err))
		reporter.Send(NewStreamError(err.Error(), "tool_selection_failed"))
	}

	return toolCalls
}
