package entity

import (
	"sync"
	"time"
)

// Role is the author of a chat message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single message of a UI conversation
type ChatMessage struct {
	ID        string    `json:"id,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

type ChatRequest struct {
	Messages  []ChatMessage `json:"messages"`
	Persona   string        `json:"persona,omitempty"`
	SessionID string        `json:"sessionId,omitempty"`
}

// Persona is a fixed system prompt that conditions the assistant voice
type Persona struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	SystemPrompt string `json:"-"`
}

// ChatFragment is one piece of a streamed completion. A fragment with Err set
// is the last one delivered.
type ChatFragment struct {
	Content string
	Err     error
}

// ChatStream is a running completion together with the persona and session it serves
type ChatStream struct {
	Persona   Persona
	SessionID string
	Fragments <-chan ChatFragment
}

// ChatTurn is one user message and the assistant reply to it
type ChatTurn struct {
	User      ChatMessage
	Assistant ChatMessage
}

// ConversationMemory is the rolling history of one chat session: older turns
// folded into Summary, recent turns kept verbatim. Folding is set while a
// summary update runs outside the lock.
type ConversationMemory struct {
	sync.Mutex
	SessionID string
	Summary   string
	Turns     []ChatTurn
	UpdatedAt time.Time
	Folding   bool
}
