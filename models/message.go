package models

// Message roles as used on the wire and in prompts.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationMessage is a single turn in a conversation transcript.
// Options carries the fixed choices for multiple-choice questions; Answered
// marks questions the user has already responded to.
type ConversationMessage struct {
	Role     string   `json:"role"`
	Content  string   `json:"content"`
	Answered bool     `json:"answered,omitempty"`
	Options  []string `json:"options,omitempty"`
}
