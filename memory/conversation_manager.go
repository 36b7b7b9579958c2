package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/llm"
	"go.uber.org/zap"
)

// ConversationManager keeps conversations in process memory. Sessions are lost on restart.
type ConversationManager struct {
	mu       sync.Mutex
	sessions map[string][]llm.Message
	maxMsgs  int
}

// NewConversationManager creates a manager that keeps the last maxMsgs user turns per session.
func NewConversationManager(maxMsgs int) *ConversationManager {
	return &ConversationManager{
		sessions: make(map[string][]llm.Message),
		maxMsgs:  maxMsgs,
	}
}

// LoadSession returns a copy of the stored conversation, or an empty one for an unknown session.
func (cm *ConversationManager) LoadSession(ctx context.Context, sessionID string) *Conversation {
	if sessionID == "" {
		return NewConversation()
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	msgs, ok := cm.sessions[sessionID]
	if !ok {
		logger.Info("Starting new session", zap.String("session_id", sessionID))
	}
	return &Conversation{ID: sessionID, Messages: slices.Clone(msgs)}
}

// SaveSession stores the conversation, trimmed to the session limit.
func (cm *ConversationManager) SaveSession(ctx context.Context, conversation *Conversation) error {
	if conversation == nil || conversation.ID == "" {
		return nil
	}

	conversation.Messages = cm.trimForSession(conversation.Messages)

	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.sessions[conversation.ID] = slices.Clone(conversation.Messages)
	return nil
}

// trimForSession keeps the last maxMsgs "user" messages and any number of
// "assistant" (and tool result) messages that follow them.
// If there are fewer than maxMsgs user messages total, it returns msgs unchanged.
func (cm *ConversationManager) trimForSession(msgs []llm.Message) []llm.Message {
	if cm.maxMsgs <= 0 || len(msgs) == 0 {
		return []llm.Message{}
	}

	// Walk backward to the maxMsgs-th user message from the end. Everything from there is kept.
	usersSeen := 0
	start := 0
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" && !msgs[i].IsToolResult {
			usersSeen++
			if usersSeen == cm.maxMsgs {
				start = i
				break
			}
		}
	}

	return msgs[start:]
}

// GetMaxMessages returns the maximum number of user turns kept per session
func (cm *ConversationManager) GetMaxMessages() int {
	return cm.maxMsgs
}
