package agentboot

import (
	"context"

	"github.com/SaiNageswarS/tiny-tales/llm"
	"github.com/SaiNageswarS/tiny-tales/memory"
	"github.com/SaiNageswarS/tiny-tales/schema"
	"github.com/ollama/ollama/api"
)

// AgentConfig holds configuration for the agent
type AgentConfig struct {
	BigModel     llm.LLMClient
	ToolSelector llm.LLMClient
	SystemPrompt string
	Tools        []MCPTool
	MaxTokens    int
	MaxTurns     int
	Temperature  float64

	// Conversation management
	ConversationManager *memory.ConversationManager
}

// Agent represents the main agent system
type Agent struct {
	config AgentConfig
}

// MCPTool wraps an api.Tool and provides a handler for execution
type MCPTool struct {
	api.Tool
	Handler func(ctx context.Context, params api.ToolCallFunctionArguments) <-chan *schema.ToolResultChunk
}

func (a *Agent) Tools() []MCPTool {
	return a.config.Tools
}
