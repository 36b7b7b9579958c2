// Package storyclient runs the storyteller agent against the story tools of an MCP server.
package storyclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/agentboot"
	"github.com/SaiNageswarS/tiny-tales/appconfig"
	"github.com/SaiNageswarS/tiny-tales/llm"
	"github.com/SaiNageswarS/tiny-tales/mcpserver"
	"github.com/SaiNageswarS/tiny-tales/memory"
	"github.com/SaiNageswarS/tiny-tales/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

const (
	DefaultProvider = llm.ProviderGemini
	DefaultModel    = "gemini-2.5-flash"

	Temperature = 0.7
	MaxTokens   = 1000

	// session memory kept per conversation
	maxSessionMessages = 20
)

// Session is an initialized MCP client session.
type Session interface {
	agentboot.MCPSession
	GetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error)
}

type StoryClient struct {
	agent     *agentboot.Agent
	reporter  agentboot.ProgressReporter
	sessionID string
	close     func() error
}

// Connect dials the MCP server and agent model named in config.
func Connect(ctx context.Context, cfg *appconfig.AppConfig) (*StoryClient, error) {
	provider := strings.TrimSpace(cfg.AgentProvider)
	if provider == "" {
		provider = DefaultProvider
	}
	model := strings.TrimSpace(cfg.AgentModel)
	if model == "" {
		model = DefaultModel
	}

	llmClient, err := llm.NewClient(provider, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", provider, err)
	}

	c, err := agentboot.ConnectMCP(ctx, cfg.MCPURL, "story-client")
	if err != nil {
		return nil, err
	}

	sc, err := New(ctx, c, llmClient)
	if err != nil {
		c.Close()
		return nil, err
	}
	sc.close = c.Close
	return sc, nil
}

// New builds the agent from the tools and storyteller prompt the session exposes.
func New(ctx context.Context, session Session, llmClient llm.LLMClient) (*StoryClient, error) {
	tools, err := agentboot.LoadMCPTools(ctx, session)
	if err != nil {
		return nil, err
	}

	agent := agentboot.NewAgentBuilder().
		WithBigModel(llmClient).
		WithSystemPrompt(systemPrompt(ctx, session)).
		AddTools(tools...).
		WithTemperature(Temperature).
		WithMaxTokens(MaxTokens).
		WithConversationManager(memory.NewConversationManager(maxSessionMessages)).
		Build()

	logger.Info("Story client ready", zap.String("model", llmClient.GetModel()), zap.Int("tools", len(tools)))
	return &StoryClient{
		agent:    agent,
		reporter: &agentboot.LogProgressReporter{},
	}, nil
}

// systemPrompt prefers the server's storyteller prompt and falls back to the built-in copy.
func systemPrompt(ctx context.Context, session Session) string {
	req := mcp.GetPromptRequest{}
	req.Params.Name = mcpserver.PromptStoryteller

	res, err := session.GetPrompt(ctx, req)
	if err == nil {
		for _, msg := range res.Messages {
			if text := promptText(msg.Content); text != "" {
				return text
			}
		}
	} else {
		logger.Error("Failed to fetch storyteller prompt, using built-in prompt", zap.Error(err))
	}

	prompt, err := mcpserver.StorytellerPrompt()
	if err != nil {
		logger.Error("Failed to render storyteller prompt", zap.Error(err))
	}
	return prompt
}

func promptText(content mcp.Content) string {
	switch v := content.(type) {
	case mcp.TextContent:
		return v.Text
	case *mcp.TextContent:
		return v.Text
	}
	return ""
}

// Ask continues the client's conversation.
func (c *StoryClient) Ask(ctx context.Context, question string) (string, error) {
	res, err := c.agent.Execute(ctx, c.reporter, &schema.GenerateAnswerRequest{
		Question:  question,
		SessionId: c.sessionID,
	})
	if err != nil {
		return "", err
	}

	c.sessionID = res.Metadata["session_id"]
	return res.Answer, nil
}

// AskOnce answers in a fresh conversation. It is safe for concurrent use.
func (c *StoryClient) AskOnce(ctx context.Context, question string) (string, error) {
	res, err := c.agent.Execute(ctx, c.reporter, &schema.GenerateAnswerRequest{Question: question})
	if err != nil {
		return "", err
	}
	return res.Answer, nil
}

func (c *StoryClient) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}
