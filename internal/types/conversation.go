// Package types holds the conversation data model shared by the persona core,
// the provider clients and the chat surfaces.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ErrInvalidRole is returned when a turn carries a role outside system/user/assistant.
var ErrInvalidRole = errors.New("invalid turn role")

// Valid reports whether r is one of the three supported roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Turn is one (role, content) unit in a conversation.
// The JSON shape matches what chat-completion providers and the web widget exchange.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewTurn creates a turn.
func NewTurn(role Role, content string) Turn {
	return Turn{Role: role, Content: content}
}

// SystemTurn creates a system turn.
func SystemTurn(content string) Turn { return NewTurn(RoleSystem, content) }

// UserTurn creates a user turn.
func UserTurn(content string) Turn { return NewTurn(RoleUser, content) }

// AssistantTurn creates an assistant turn.
func AssistantTurn(content string) Turn { return NewTurn(RoleAssistant, content) }

// ValidateTurns checks every role in turns.
func ValidateTurns(turns []Turn) error {
	for i, t := range turns {
		if !t.Role.Valid() {
			return fmt.Errorf("turn %d: %w: %q", i, ErrInvalidRole, t.Role)
		}
	}
	return nil
}

// Transcript renders turns as a plain-text exchange between the User and the Agent.
// System turns are omitted. The output depends only on turns.
func Transcript(turns []Turn) string {
	var sb strings.Builder
	for _, t := range turns {
		var speaker string
		switch t.Role {
		case RoleUser:
			speaker = "User"
		case RoleAssistant:
			speaker = "Agent"
		default:
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(speaker)
		sb.WriteString(": ")
		sb.WriteString(t.Content)
	}
	return sb.String()
}

// Append returns a new slice holding history followed by turns.
// The caller's backing array is never written to.
func Append(history []Turn, turns ...Turn) []Turn {
	out := make([]Turn, 0, len(history)+len(turns))
	out = append(out, history...)
	return append(out, turns...)
}
