package models

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// AssistantAnswer is the guarded result of one chat turn.
type AssistantAnswer struct {
	Text        string `json:"response"`
	Model       string `json:"model"`
	Regenerated bool   `json:"regenerated"`
}
