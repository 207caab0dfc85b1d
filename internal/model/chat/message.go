package chat

import (
	"encoding/json"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn supplied by the caller as conversation history.
// Role is passed through as-is; it is not checked against the known roles,
// and an empty role or content is accepted as long as the key is present.
type Message struct {
	Role      string    `json:"role" jsonschema:"description=Role of the message sender"`
	Content   string    `json:"content" jsonschema:"description=Content of the message"`
	Timestamp time.Time `json:"timestamp,omitempty" jsonschema:"description=Message timestamp"`

	missing []string
}

// UnmarshalJSON fills in the current time when the client omits a timestamp
// and remembers which of role and content were absent or null.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	decoded.missing = nil
	for _, key := range []string{"role", "content"} {
		if raw, ok := keys[key]; !ok || string(raw) == "null" {
			decoded.missing = append(decoded.missing, key)
		}
	}
	if decoded.Timestamp.IsZero() {
		decoded.Timestamp = time.Now().UTC()
	}
	*m = Message(decoded)
	return nil
}

// MissingFields lists the required keys absent from the decoded JSON object.
// Messages built in code report none.
func (m Message) MissingFields() []string {
	return m.missing
}

// PromptMessage is a role-tagged entry of the list sent to the completion provider.
type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the decoded body of POST /chat.
type ChatRequest struct {
	Message             string    `json:"message" validate:"required,max=2000" jsonschema:"minLength=1,maxLength=2000,description=User's message"`
	ConversationHistory []Message `json:"conversation_history" validate:"dive" jsonschema:"description=Previous conversation"`
	UserMood            *string   `json:"user_mood,omitempty" jsonschema:"description=User's current mood"`
}

// Mood returns the request mood, treating an empty string as absent.
func (r ChatRequest) Mood() *string {
	if r.UserMood == nil || *r.UserMood == "" {
		return nil
	}
	return r.UserMood
}

// ChatResponse is returned once per handled chat request.
type ChatResponse struct {
	Response       string    `json:"response" jsonschema:"description=AI therapist response"`
	ConversationID string    `json:"conversation_id" jsonschema:"description=Conversation identifier"`
	Timestamp      time.Time `json:"timestamp" jsonschema:"description=Response timestamp"`
}
