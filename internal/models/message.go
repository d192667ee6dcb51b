// ABOUTME: Message represents a single entry in a conversation transcript
// ABOUTME: Roles are enumerated and rejected at construction when unrecognized
package models

import "fmt"

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether the role is one of the recognized values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message is one turn entry in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a Message, rejecting unrecognized roles.
func NewMessage(role Role, content string) (Message, error) {
	if !role.Valid() {
		return Message{}, fmt.Errorf("unrecognized message role %q", role)
	}
	return Message{Role: role, Content: content}, nil
}
