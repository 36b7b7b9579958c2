package memory

import (
	"github.com/SaiNageswarS/tiny-tales/llm"
	"github.com/google/uuid"
)

// Conversation represents a conversation session with messages
type Conversation struct {
	ID       string        `json:"id"`
	Messages []llm.Message `json:"messages"`
}

// NewConversation starts a conversation with a fresh random ID.
func NewConversation() *Conversation {
	return &Conversation{ID: uuid.NewString()}
}

func (m *Conversation) AddUserMessage(content string) {
	m.Messages = append(m.Messages, llm.Message{Role: "user", Content: content})
}

func (m *Conversation) AddAssistantMessage(content string) {
	m.Messages = append(m.Messages, llm.Message{Role: "assistant", Content: content})
}

func (m *Conversation) AddToolResult(content string) {
	m.Messages = append(m.Messages, llm.Message{Role: "user", Content: content, IsToolResult: true})
}
