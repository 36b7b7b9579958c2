package agentboot

import (
	"context"
	"sort"
	"strings"

	"github.com/SaiNageswarS/go-collection-boot/linq"
	"github.com/SaiNageswarS/tiny-tales/schema"
)

type ToolResultRenderer struct {
	reporter ProgressReporter
	toolName string
}

// ToolResultRendererOption is a functional option for configuring ToolResultRenderer
type ToolResultRendererOption func(*ToolResultRenderer)

// NewToolResultRenderer creates a new ToolResultRenderer with the given options.
// By default, it uses NoOpProgressReporter if no reporter is provided.
func NewToolResultRenderer(opts ...ToolResultRendererOption) *ToolResultRenderer {
	r := &ToolResultRenderer{
		reporter: &NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithReporter sets the progress reporter and the tool name stamped on every chunk.
func WithReporter(reporter ProgressReporter, toolName string) ToolResultRendererOption {
	return func(r *ToolResultRenderer) {
		r.reporter = reporter
		r.toolName = toolName
	}
}

// Render drains toolResultChan, reports each chunk and returns it formatted as markdown.
func (r *ToolResultRenderer) Render(ctx context.Context, toolResultChan <-chan *schema.ToolResultChunk) ([]string, error) {
	linqCtx, cancel := context.WithCancel(ctx)
	return linq.Pipe4(
		linq.NewStream(linqCtx, toolResultChan, cancel, 10),

		linq.SelectPar(func(raw *schema.ToolResultChunk) *schema.ToolResultChunk {
			if raw == nil {
				return nil
			}
			if raw.ToolName == "" {
				raw.ToolName = r.toolName
			}
			return raw
		}),

		linq.Where(func(chunk *schema.ToolResultChunk) bool {
			return chunk != nil
		}),

		linq.Select(func(chunk *schema.ToolResultChunk) string {
			r.reporter.Send(NewToolExecutionResult(chunk.ToolName, chunk))
			return formatToolResultToMD(chunk)
		}),

		linq.ToSlice[string](),
	)
}

func formatToolResultToMD(result *schema.ToolResultChunk) string {
	if result == nil {
		return ""
	}

	var b strings.Builder

	title := strings.TrimSpace(result.Title)
	tool := strings.TrimSpace(result.ToolName)
	if title == "" && tool != "" {
		title = tool
	}
	if title != "" {
		b.WriteString("### ")
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	// Show "via <tool>" only if it's different from the title we used.
	if tool != "" && tool != title {
		b.WriteString("_via `")
		b.WriteString(tool)
		b.WriteString("`_\n\n")
	}

	if errText := strings.TrimSpace(result.Error); errText != "" {
		b.WriteString("> **Error:** ")
		b.WriteString(errText)
		b.WriteString("\n\n")
	}

	// Sentences
	if n := len(result.Sentences); n > 0 {
		if n == 1 {
			b.WriteString(strings.TrimSpace(result.Sentences[0]))
			b.WriteString("\n\n")
		} else {
			for _, s := range result.Sentences {
				s = strings.TrimSpace(s)
				if s == "" {
					continue
				}
				b.WriteString("- ")
				b.WriteString(s)
				b.WriteByte('\n')
			}
			b.WriteByte('\n')
		}
	}

	// Metadata (sorted for deterministic output)
	if len(result.Metadata) > 0 {
		keys := make([]string, 0, len(result.Metadata))
		for k := range result.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("| Key | Value |\n|---|---|\n")
		for _, k := range keys {
			b.WriteString("| ")
			b.WriteString(k)
			b.WriteString(" | ")
			b.WriteString(result.Metadata[k])
			b.WriteString(" |\n")
		}
		b.WriteByte('\n')
	}

	if att := strings.TrimSpace(result.Attribution); att != "" {
		b.WriteString("**Attribution**: ")
		b.WriteString(att)
	}

	return strings.TrimSpace(b.String())
}
