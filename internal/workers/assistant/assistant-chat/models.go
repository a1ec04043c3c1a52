package assistantchat

import "bitsa-assistant/internal/models"

type Input struct {
	Message             string                    `json:"message"`
	ConversationHistory []models.ConversationTurn `json:"conversationHistory,omitempty"`
}

type Output struct {
	Response    string `json:"response"`
	Model       string `json:"model"`
	Regenerated bool   `json:"regenerated"`
}

func (o *Output) Variables() map[string]interface{} {
	return map[string]interface{}{
		"response":    o.Response,
		"model":       o.Model,
		"regenerated": o.Regenerated,
	}
}
