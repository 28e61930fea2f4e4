package types

import "time"

// Role represents the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the two conversation roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ConversationTurn is a single stored exchange turn. Turns are immutable
// once created: the persistence layer only ever appends them.
type ConversationTurn struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewTurn creates a turn with the given role and content.
func NewTurn(conversationID string, role Role, content string) ConversationTurn {
	return ConversationTurn{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}
}

// Attachment is a file returned by the agent runtime, carried across
// rounds in transportable (base64) form. Insertion order is preserved.
type Attachment struct {
	Name      string `json:"name"`
	MediaType string `json:"type"`
	Base64    string `json:"base64"`
}
