package api

import "github.com/LawrenceCirillo/Alan/pkg/util"

type (
	// Role identifies the author of a chat message
	Role string

	// Intent is the classification of a user message
	Intent string

	// ChatMessage is a single entry of a conversation
	ChatMessage struct {
		Role       Role   `json:"role"`
		Content    string `json:"content"`
		ToolCallID string `json:"toolCallId,omitempty"`
	}

	// ChatRequest is the body accepted by the chat endpoint
	ChatRequest struct {
		Messages []ChatMessage `json:"messages"`
	}
)

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

const (
	IntentGoal Intent = "goal"
	IntentChat Intent = "chat"
)

var validRoles = util.SetOf(RoleUser, RoleAssistant, RoleSystem, RoleTool)

// IsValid reports whether the role is one of the known message roles
func (r Role) IsValid() bool {
	return validRoles.Contains(r)
}

// LastUserContent returns the content of the most recent message authored
// by the user, or an empty string if there is none
func LastUserContent(msgs []ChatMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
