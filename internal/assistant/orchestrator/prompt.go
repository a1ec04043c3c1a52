package orchestrator

import (
	"strings"

	"bitsa-assistant/internal/assistant/contextblock"
	"bitsa-assistant/internal/models"
)

const systemPreamble = `You are the assistant for BITSA (BitSa Technology and Innovation Society), the technology club at the University of Eastern Africa, Baraton in Kenya.

You answer questions from students, members and visitors about the club's blog posts, events, projects, leaders and reports.

Rules:
1. Use ONLY the database context below. It is the complete and current record; do not rely on anything else you know.
2. Never tell the user to check the website, contact the leaders or look anywhere else. You already have the data.
3. When a category says "No ... found in database", state plainly that there are none.
4. When a category says its data could not be loaded, say that information is temporarily unavailable. Do not claim there are none.
5. When asked how many of something exist, use the counts in the context.
6. Be friendly and encouraging, especially about student projects.`

const admonition = `Your previous answer deferred to an outside source. Answer my last question again using only the database context in the system message. If the relevant category is empty, say so directly. Do not suggest checking the website or contacting anyone.`

// SystemPrompt embeds the context block after the grounding rules.
func SystemPrompt(block contextblock.Block) string {
	var sb strings.Builder
	sb.WriteString(systemPreamble)
	sb.WriteString("\n\n")
	sb.WriteString(block.String())
	return sb.String()
}

// Conversation assembles [system, ...history, user]. History is filtered so
// the system turn stays the only one and blank turns are dropped; at most
// maxHistory prior turns are kept, newest last.
func Conversation(system string, history []models.ConversationTurn, message string, maxHistory int) []models.ConversationTurn {
	kept := make([]models.ConversationTurn, 0, len(history))
	for _, turn := range history {
		if turn.Role != models.RoleUser && turn.Role != models.RoleAssistant {
			continue
		}
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		kept = append(kept, turn)
	}
	if maxHistory > 0 && len(kept) > maxHistory {
		kept = kept[len(kept)-maxHistory:]
	}

	turns := make([]models.ConversationTurn, 0, len(kept)+2)
	turns = append(turns, models.ConversationTurn{Role: models.RoleSystem, Content: system})
	turns = append(turns, kept...)
	turns = append(turns, models.ConversationTurn{Role: models.RoleUser, Content: message})
	return turns
}

func withAdmonition(turns []models.ConversationTurn) []models.ConversationTurn {
	out := make([]models.ConversationTurn, 0, len(turns)+1)
	out = append(out, turns...)
	return append(out, models.ConversationTurn{Role: models.RoleUser, Content: admonition})
}
