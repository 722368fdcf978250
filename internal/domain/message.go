package domain

// Conversation roles understood by completion providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry of a conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
