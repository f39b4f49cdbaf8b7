package generator

import (
	"context"
	"errors"
)

var ErrGeneration = errors.New("generation failed")

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Generator returns the model's next reply to a conversation.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}
