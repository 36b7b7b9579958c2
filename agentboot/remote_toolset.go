package agentboot

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/schema"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// MCPSession is the part of an MCP client the agent needs.
type MCPSession interface {
	ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// ConnectMCP opens and initializes a streamable HTTP session, e.g. http://localhost:8000/mcp.
func ConnectMCP(ctx context.Context, url, clientName string) (*client.Client, error) {
	c, err := client.NewStreamableHttpClient(url)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}

	if err := InitializeMCP(ctx, c, clientName); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// InitializeMCP starts the transport and performs the MCP handshake.
func InitializeMCP(ctx context.Context, c *client.Client, clientName string) error {
	if err := c.Start(ctx); err != nil {
		return fmt.Errorf("failed to start MCP client: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: clientName, Version: "1.0.0"}

	info, err := c.Initialize(ctx, initReq)
	if err != nil {
		return fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	logger.Info("Connected to MCP server",
		zap.String("server", info.ServerInfo.Name),
		zap.String("version", info.ServerInfo.Version))
	return nil
}

// LoadMCPTools turns every tool the server lists into an MCPTool whose handler calls it remotely.
func LoadMCPTools(ctx context.Context, session MCPSession) ([]MCPTool, error) {
	res, err := session.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list MCP tools: %w", err)
	}

	tools := make([]MCPTool, 0, len(res.Tools))
	for _, t := range res.Tools {
		tools = append(tools, remoteTool(session, t))
	}
	return tools, nil
}

func remoteTool(session MCPSession, t mcp.Tool) MCPTool {
	b := NewMCPToolBuilder(t.Name, t.Description)

	names := make([]string, 0, len(t.InputSchema.Properties))
	for name := range t.InputSchema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		required := slices.Contains(t.InputSchema.Required, name)
		prop, _ := t.InputSchema.Properties[name].(map[string]any)
		desc, _ := prop["description"].(string)
		typ, _ := prop["type"].(string)

		switch {
		case len(enumValues(prop["enum"])) > 0:
			b.EnumParam(name, desc, enumValues(prop["enum"]), required)
		case typ == "array":
			b.StringSliceParam(name, desc, required)
		default:
			b.StringParam(name, desc, required)
		}
	}

	toolName := t.Name
	return b.WithHandler(func(ctx context.Context, params api.ToolCallFunctionArguments) <-chan *schema.ToolResultChunk {
		req := mcp.CallToolRequest{}
		req.Params.Name = toolName
		req.Params.Arguments = map[string]any(params)

		chunk := NewToolResultChunk().ToolName(toolName)

		res, err := session.CallTool(ctx, req)
		if err != nil {
			logger.Error("Remote tool call failed", zap.String("tool", toolName), zap.Error(err))
			return singleResult(chunk.Error(err.Error()).Build())
		}

		text := resultText(res)
		if res.IsError {
			return singleResult(chunk.Error(text).Build())
		}
		return singleResult(chunk.Sentences(text).Build())
	}).Build()
}

func resultText(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		switch v := c.(type) {
		case mcp.TextContent:
			parts = append(parts, v.Text)
		case *mcp.TextContent:
			parts = append(parts, v.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func enumValues(raw any) []string {
	var values []string
	switch v := raw.(type) {
	case []string:
		values = v
	case []any:
		for _, item := range v {
			values = append(values, fmt.Sprint(item))
		}
	}
	return values
}
