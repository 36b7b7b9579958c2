// Package schema holds the messages the agent streams to its caller.
package schema

type GenerateAnswerRequest struct {
	Question  string `json:"question"`
	SessionId string `json:"session_id,omitempty"`
}

type Stage int

const (
	StageToolSelection Stage = iota
	StageToolExecutionStarting
	StageToolExecutionCompleted
	StageAnswerGeneration
)

func (s Stage) String() string {
	switch s {
	case StageToolSelection:
		return "tool_selection"
	case StageToolExecutionStarting:
		return "tool_execution_starting"
	case StageToolExecutionCompleted:
		return "tool_execution_completed"
	case StageAnswerGeneration:
		return "answer_generation"
	default:
		return "unknown"
	}
}

type ProgressUpdateChunk struct {
	Stage     Stage  `json:"stage"`
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
}

// ToolResultChunk is one unit of tool output.
type ToolResultChunk struct {
	ToolName    string            `json:"tool_name,omitempty"`
	Title       string            `json:"title,omitempty"`
	Sentences   []string          `json:"sentences,omitempty"`
	Attribution string            `json:"attribution,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Error       string            `json:"error,omitempty"`
}

type AnswerChunk struct {
	Content string `json:"content"`
}

type StreamComplete struct {
	Answer         string            `json:"answer"`
	ToolsUsed      []string          `json:"tools_used"`
	ModelUsed      string            `json:"model_used,omitempty"`
	ProcessingTime int64             `json:"processing_time_ms"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type StreamError struct {
	ErrorMessage string `json:"error_message"`
	ErrorCode    string `json:"error_code"`
}

// AgentStreamChunk carries exactly one of its fields.
type AgentStreamChunk struct {
	Progress   *ProgressUpdateChunk `json:"progress,omitempty"`
	ToolResult *ToolResultChunk     `json:"tool_result,omitempty"`
	Answer     *AnswerChunk         `json:"answer,omitempty"`
	Complete   *StreamComplete      `json:"complete,omitempty"`
	Error      *StreamError         `json:"error,omitempty"`
}

func (c *AgentStreamChunk) GetProgress() *ProgressUpdateChunk {
	if c == nil {
		return nil
	}
	return c.Progress
}

func (c *AgentStreamChunk) GetToolResult() *ToolResultChunk {
	if c == nil {
		return nil
	}
	return c.ToolResult
}

func (c *AgentStreamChunk) GetAnswer() *AnswerChunk {
	if c == nil {
		return nil
	}
	return c.Answer
}

func (c *AgentStreamChunk) GetComplete() *StreamComplete {
	if c == nil {
		return nil
	}
	return c.Complete
}

func (c *AgentStreamChunk) GetError() *StreamError {
	if c == nil {
		return nil
	}
	return c.Error
}
