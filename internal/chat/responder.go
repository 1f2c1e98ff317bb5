package chat

import (
	"context"
	"fmt"

	"alterego/internal/llm"
	"alterego/internal/types"
)

// Responder sends a conversation to the primary chat-completion endpoint.
type Responder struct {
	client llm.ChatClient
}

// NewResponder creates a Responder backed by client.
func NewResponder(client llm.ChatClient) *Responder {
	return &Responder{client: client}
}

// Messages builds [system] + history + [user message]. history is not modified.
func (r *Responder) Messages(system string, history []types.Turn, message string) []types.Turn {
	turns := make([]types.Turn, 0, len(history)+2)
	turns = append(turns, types.SystemTurn(system))
	turns = append(turns, history...)
	return append(turns, types.UserTurn(message))
}

// Respond returns the endpoint's reply. Failures are returned as-is, wrapped.
func (r *Responder) Respond(ctx context.Context, system string, history []types.Turn, message string) (string, error) {
	reply, err := r.client.Chat(ctx, r.Messages(system, history, message))
	if err != nil {
		return "", fmt.Errorf("responder: %w", err)
	}
	return reply, nil
}
