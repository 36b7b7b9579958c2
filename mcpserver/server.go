// Package mcpserver publishes the story tools over the Model Context Protocol.
package mcpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	ServerName    = "Tiny tale teller"
	ServerVersion = "1.0.0"

	ToolRandomStoryInEnglish  = "get_random_story_in_english"
	ToolStoryInOtherLanguages = "get_story_in_other_languages"
	PromptStoryteller         = "storyteller"

	DefaultAddr = ":8000"
)

func New(teller StoryTeller) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)

	englishTool := mcp.NewTool(
		ToolRandomStoryInEnglish,
		mcp.WithDescription("Retrieves a random children's story in English from a dataset of 200K+ stories, "+
			"retold for a 4 to 5 year old. Use it for requests like \"Tell me a story\" or \"Give me a random story\"."),
		mcp.WithString("dummy",
			mcp.Description("Unused parameter kept for compatibility. Always leave it empty."),
		),
	)

	translatedTool := mcp.NewTool(
		ToolStoryInOtherLanguages,
		mcp.WithDescription("Fetches a random children's story and translates it into Tamil or Hindi. "+
			"Returns JSON with the English story at texts.en and the translation at texts.<lang>. "+
			"If translation fails only texts.en is present, \"degraded\" is true and \"reason\" says why."),
		mcp.WithString("lang",
			mcp.Description("Target language code: ta for Tamil, hi for Hindi"),
			mcp.Required(),
			mcp.Enum("ta", "hi"),
		),
	)

	storytellerPrompt := mcp.NewPrompt(
		PromptStoryteller,
		mcp.WithPromptDescription("System instructions for an assistant that tells tiny stories using these tools"),
	)

	handler := NewStoryHandler(teller)
	s.AddTool(englishTool, handler.HandleRandomStoryInEnglish)
	s.AddTool(translatedTool, handler.HandleStoryInOtherLanguages)
	s.AddPrompt(storytellerPrompt, HandleStorytellerPrompt)

	return s
}

func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// ServeHTTP serves streamable HTTP at addr/mcp until ctx is cancelled.
func ServeHTTP(ctx context.Context, s *server.MCPServer, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	httpServer := server.NewStreamableHTTPServer(s)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving MCP over streamable HTTP", zap.String("addr", addr), zap.String("path", "/mcp"))
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("Shutting down MCP server")
		return httpServer.Shutdown(shutdownCtx)
	}
}
