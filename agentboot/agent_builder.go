package agentboot

import (
	"github.com/SaiNageswarS/tiny-tales/llm"
	"github.com/SaiNageswarS/tiny-tales/memory"
)

type AgentBuilder struct {
	config AgentConfig
}

func NewAgentBuilder() *AgentBuilder {
	return &AgentBuilder{
		config: AgentConfig{
			MaxTurns:    3,
			MaxTokens:   1000,
			Temperature: 0.7,
		},
	}
}

func (b *AgentBuilder) WithBigModel(client llm.LLMClient) *AgentBuilder {
	b.config.BigModel = client
	return b
}

func (b *AgentBuilder) WithToolSelector(client llm.LLMClient) *AgentBuilder {
	b.config.ToolSelector = client
	return b
}

func (b *AgentBuilder) WithSystemPrompt(prompt string) *AgentBuilder {
	b.config.SystemPrompt = prompt
	return b
}

func (b *AgentBuilder) AddTool(tool MCPTool) *AgentBuilder {
	b.config.Tools = append(b.config.Tools, tool)
	return b
}

func (b *AgentBuilder) AddTools(tools ...MCPTool) *AgentBuilder {
	b.config.Tools = append(b.config.Tools, tools...)
	return b
}

func (b *AgentBuilder) WithMaxTokens(max int) *AgentBuilder {
	b.config.MaxTokens = max
	return b
}

func (b *AgentBuilder) WithMaxTurns(maxTurns int) *AgentBuilder {
	b.config.MaxTurns = maxTurns
	return b
}

func (b *AgentBuilder) WithTemperature(temp float64) *AgentBuilder {
	b.config.Temperature = temp
	return b
}

func (b *AgentBuilder) WithConversationManager(cm *memory.ConversationManager) *AgentBuilder {
	b.config.ConversationManager = cm
	return b
}

func (b *AgentBuilder) Build() *Agent {
	if b.config.ToolSelector == nil {
		b.config.ToolSelector = b.config.BigModel
	}

	return &Agent{config: b.config}
}
