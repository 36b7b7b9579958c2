package agentboot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/schema"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

func (a *Agent) RunTool(ctx context.Context, reporter ProgressReporter, selection *api.ToolCall) (string, error) {
	toolName := selection.Function.Name

	tool := findMCPToolByName(a.config.Tools, toolName)
	if tool == nil || tool.Handler == nil {
		err := fmt.Errorf("unknown tool %q", toolName)
		logger.Error("Model selected an unknown tool", zap.String("tool", toolName))
		reporter.Send(NewStreamError(err.Error(), "unknown_tool"))
		return "", err
	}

	reporter.Send(NewProgressUpdate(
		schema.StageToolExecutionStarting,
		formatToolInputsToMarkdown(toolName, selection.Function.Arguments)))

	r := NewToolResultRenderer(WithReporter(reporter, toolName))
	toolResultChunks, err := r.Render(ctx, tool.Handler(ctx, selection.Function.Arguments))
	if err != nil {
		logger.Error("Error rendering tool result", zap.String("tool", toolName), zap.Error(err))
		reporter.Send(NewStreamError(err.Error(), "tool_execution_failed"))
		return "", err
	}

	reporter.Send(NewProgressUpdate(
		schema.StageToolExecutionCompleted,
		fmt.Sprintf("Tool %s completed", toolName)))
	return strings.Join(toolResultChunks, "\n\n"), nil
}

// formatToolInputsToMarkdown describes a tool call for progress updates.
func formatToolInputsToMarkdown(toolName string, params api.ToolCallFunctionArguments) string {
	if len(params) == 0 {
		return fmt.Sprintf("Tool: `%s` (no parameters)", mdEscape(toolName))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Tool: `%s`\n\n", mdEscape(toolName)))

	// Sort parameters for deterministic output
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString("Parameters:\n")
	for _, k := range keys {
		var valueStr string
		switch v := params[k].(type) {
		case string:
			valueStr = v
		case []string:
			valueStr = strings.Join(v, ", ")
		case []any:
			strs := make([]string, len(v))
			for i, item := range v {
				strs[i] = fmt.Sprintf("%v", item)
			}
			valueStr = strings.Join(strs, ", ")
		default:
			valueStr = fmt.Sprintf("%v", v)
		}

		b.WriteString(fmt.Sprintf("- **%s**: %s\n", mdEscape(k), mdEscape(valueStr)))
	}

	return b.String()
}

// Minimal Markdown escaper for headings, lists, and table cells.
func mdEscape(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "*", `\*`)
	s = strings.ReplaceAll(s, "_", `\_`)
	s = strings.ReplaceAll(s, "~", `\~`)
	s = strings.ReplaceAll(s, "`", "\\`")
	s = strings.ReplaceAll(s, "[", `\[`)
	s = strings.ReplaceAll(s, "]", `\]`)
	s = strings.ReplaceAll(s, "#", `\#`)
	// Angle brackets -> HTML entities to avoid autolinks
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
