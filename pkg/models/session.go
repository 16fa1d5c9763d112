package models

// Role tags an utterance in a voice session history.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Utterance is one turn of a voice conversation.
type Utterance struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SessionState is the per-call conversational memory spanning asynchronous
// voice turns. It is created when a voice trigger answers a call and
// destroyed when the call ends.
type SessionState struct {
	CallID       string      `json:"call_id"`
	SystemPrompt string      `json:"system_prompt"`
	ToneOfVoice  string      `json:"tone_of_voice,omitempty"`
	History      []Utterance `json:"history"`
	WorkflowID   string      `json:"workflow_id"`
	TenantID     string      `json:"tenant_id"`
	DocumentIDs  []string    `json:"document_ids,omitempty"`
}

// Append adds an utterance to the session history.
func (s *SessionState) Append(role Role, content string) {
	s.History = append(s.History, Utterance{Role: role, Content: content})
}
