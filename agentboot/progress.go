package agentboot

import (
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/schema"
	"go.uber.org/zap"
)

// ProgressReporter is an interface for reporting agent execution progress
type ProgressReporter interface {
	// Send sends a progress update
	Send(event *schema.AgentStreamChunk) error
}

// NoOpProgressReporter implements ProgressReporter with no-op operations
type NoOpProgressReporter struct{}

func (r *NoOpProgressReporter) Send(event *schema.AgentStreamChunk) error {
	return nil
}

// LogProgressReporter writes progress and errors to the application log.
type LogProgressReporter struct{}

func (r *LogProgressReporter) Send(event *schema.AgentStreamChunk) error {
	switch {
	case event.GetProgress() != nil:
		p := event.GetProgress()
		logger.Info("Agent progress", zap.String("stage", p.Stage.String()), zap.String("message", p.Message))
	case event.GetToolResult() != nil:
		tr := event.GetToolResult()
		logger.Info("Tool result", zap.String("tool", tr.ToolName), zap.Int("sentences", len(tr.Sentences)), zap.String("error", tr.Error))
	case event.GetError() != nil:
		e := event.GetError()
		logger.Error("Agent error", zap.String("code", e.ErrorCode), zap.String("message", e.ErrorMessage))
	}
	return nil
}

// Helper functions for creating progress events
func NewProgressUpdate(stage schema.Stage, message string) *schema.AgentStreamChunk {
	return &schema.AgentStreamChunk{
		Progress: &schema.ProgressUpdateChunk{
			Stage:     stage,
			Timestamp: time.Now().UnixMilli(),
			Message:   message,
		},
	}
}

// NewToolExecutionResult creates a tool result chunk
func NewToolExecutionResult(toolName string, result *schema.ToolResultChunk) *schema.AgentStreamChunk {
	result.ToolName = toolName

	return &schema.AgentStreamChunk{ToolResult: result}
}

func NewAnswerChunk(answerChunk *schema.AnswerChunk) *schema.AgentStreamChunk {
	return &schema.AgentStreamChunk{Answer: answerChunk}
}

func NewStreamComplete(finalResponse *schema.StreamComplete) *schema.AgentStreamChunk {
	return &schema.AgentStreamChunk{Complete: finalResponse}
}

func NewStreamError(message, code string) *schema.AgentStreamChunk {
	return &schema.AgentStreamChunk{
		Error: &schema.StreamError{
			ErrorMessage: message,
			ErrorCode:    code,
		},
	}
}
