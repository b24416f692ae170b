package domain

import "errors"

// MessageRole defines who authored a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
	RoleTool      MessageRole = "tool"
)

// Message represents a single turn in a conversation.
// ToolCalls is set on assistant turns that request tool execution;
// ToolCallID is set on tool turns carrying a result back to the model.
type Message struct {
	Role       MessageRole `json:"role"`
	Content    string      `json:"content"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
}

var (
	ErrToolNotFound = errors.New("tool not found")
	ErrNoCompletion = errors.New("no completion choices in response")
)

// NormalizeHistory strips everything except role and content from caller-supplied
// turns. The UI layer may attach extra metadata per turn; only the core shape is
// forwarded to the model.
func NormalizeHistory(history []Message) []Message {
	clean := make([]Message, 0, len(history))
	for _, m := range history {
		if m.Role == "" {
			continue
		}
		clean = append(clean, Message{Role: m.Role, Content: m.Content})
	}
	return clean
}
