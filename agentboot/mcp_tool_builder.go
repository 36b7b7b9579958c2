package agentboot

import (
	"context"
	"slices"

	"github.com/SaiNageswarS/tiny-tales/schema"
	"github.com/ollama/ollama/api"
)

// MCPToolBuilder defines an MCPTool schema.
type MCPToolBuilder struct {
	tool MCPTool
}

func NewMCPToolBuilder(name, description string) *MCPToolBuilder {
	b := &MCPToolBuilder{
		tool: MCPTool{
			Tool: api.Tool{
				Type: "function",
				Function: api.ToolFunction{
					Name:        name,
					Description: description,
				},
			},
		},
	}

	b.tool.Function.Parameters.Type = "object"
	b.tool.Function.Parameters.Properties = make(map[string]api.ToolProperty, 4)
	return b
}

func (b *MCPToolBuilder) StringParam(name, desc string, required bool) *MCPToolBuilder {
	b.setProp(name, api.ToolProperty{
		Type:        api.PropertyType{"string"},
		Description: desc,
	}, required)
	return b
}

// EnumParam is a string parameter restricted to values.
func (b *MCPToolBuilder) EnumParam(name, desc string, values []string, required bool) *MCPToolBuilder {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}

	b.setProp(name, api.ToolProperty{
		Type:        api.PropertyType{"string"},
		Description: desc,
		Enum:        enum,
	}, required)
	return b
}

func (b *MCPToolBuilder) StringSliceParam(name, desc string, required bool) *MCPToolBuilder {
	b.setProp(name, api.ToolProperty{
		Type:        api.PropertyType{"array"},
		Items:       map[string]any{"type": "string"},
		Description: desc,
	}, required)
	return b
}

func (b *MCPToolBuilder) WithHandler(fn func(ctx context.Context, params api.ToolCallFunctionArguments) <-chan *schema.ToolResultChunk) *MCPToolBuilder {
	b.tool.Handler = fn
	return b
}

func (b *MCPToolBuilder) Build() MCPTool {
	return b.tool
}

func (b *MCPToolBuilder) setProp(name string, p api.ToolProperty, required bool) {
	b.tool.Function.Parameters.Properties[name] = p
	if required && !slices.Contains(b.tool.Function.Parameters.Required, name) {
		b.tool.Function.Parameters.Required = append(b.tool.Function.Parameters.Required, name)
	}
}

// ToolResultChunkBuilder builds tool result chunks.
type ToolResultChunkBuilder struct {
	chk *schema.ToolResultChunk
}

func NewToolResultChunk() *ToolResultChunkBuilder {
	return &ToolResultChunkBuilder{
		chk: &schema.ToolResultChunk{
			Metadata: make(map[string]string),
		},
	}
}

func (b *ToolResultChunkBuilder) Sentences(sentences ...string) *ToolResultChunkBuilder {
	b.chk.Sentences = append(b.chk.Sentences, sentences...)
	return b
}

func (b *ToolResultChunkBuilder) Attribution(attr string) *ToolResultChunkBuilder {
	b.chk.Attribution = attr
	return b
}

func (b *ToolResultChunkBuilder) Title(t string) *ToolResultChunkBuilder {
	b.chk.Title = t
	return b
}

func (b *ToolResultChunkBuilder) MetadataKV(key, value string) *ToolResultChunkBuilder {
	b.chk.Metadata[key] = value
	return b
}

func (b *ToolResultChunkBuilder) ToolName(name string) *ToolResultChunkBuilder {
	b.chk.ToolName = name
	return b
}

func (b *ToolResultChunkBuilder) Error(errMsg string) *ToolResultChunkBuilder {
	b.chk.Error = errMsg
	return b
}

func (b *ToolResultChunkBuilder) Build() *schema.ToolResultChunk {
	return b.chk
}

// singleResult returns a closed channel holding one chunk.
func singleResult(chunk *schema.ToolResultChunk) <-chan *schema.ToolResultChunk {
	ch := make(chan *schema.ToolResultChunk, 1)
	ch <- chunk
	close(ch)
	return ch
}
