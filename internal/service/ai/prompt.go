package ai

import (
	"fmt"

	"github.com/everkind/backend/internal/model/chat"
)

const moodClauseFormat = "\n\nCurrent user mood: %s. Please acknowledge their emotional state and respond with appropriate therapeutic support."

// BuildSystemPrompt appends the mood clause to template when mood is present and non-empty.
func BuildSystemPrompt(template string, mood *string) string {
	if mood == nil || *mood == "" {
		return template
	}
	return template + fmt.Sprintf(moodClauseFormat, *mood)
}

// Compose flattens history and the new user turn behind the system prompt.
// The result always has len(history)+2 entries: system, history in order, user.
func Compose(template string, history []chat.Message, newMessage string, mood *string) []chat.PromptMessage {
	messages := make([]chat.PromptMessage, 0, len(history)+2)
	messages = append(messages, chat.PromptMessage{
		Role:    chat.RoleSystem,
		Content: BuildSystemPrompt(template, mood),
	})

	for _, msg := range history {
		messages = append(messages, chat.PromptMessage{Role: msg.Role, Content: msg.Content})
	}

	messages = append(messages, chat.PromptMessage{Role: chat.RoleUser, Content: newMessage})
	return messages
}
