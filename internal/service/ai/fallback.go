package ai

import "github.com/everkind/backend/internal/analysis/mood"

const (
	fallbackBase    = "I'm here to support you, though I'm experiencing some technical difficulties right now. Your feelings are valid and important. "
	fallbackClosing = "How are you feeling right now?"
)

// Fallback returns the canned reply used when the provider cannot answer.
// Without a mood it closes with a question; with one it appends the mood's
// supportive sentence, or a generic validation for moods outside the table.
func Fallback(userMood *string) string {
	if userMood == nil || *userMood == "" {
		return fallbackBase + fallbackClosing
	}
	return fallbackBase + mood.Parse(*userMood).Support()
}
