package chat

import (
	"context"
	"fmt"

	"alterego/internal/persona"
	"alterego/internal/types"
)

// Reviser produces one replacement for a rejected reply.
type Reviser struct {
	responder *Responder
	persona   persona.Context
}

// NewReviser creates a Reviser that reuses the responder's endpoint.
func NewReviser(responder *Responder, p persona.Context) *Reviser {
	return &Reviser{responder: responder, persona: p}
}

// SystemPrompt extends the persona prompt with the rejection notice.
func (r *Reviser) SystemPrompt(reply, message, feedback string) string {
	return fmt.Sprintf(`%s

## Previous answer rejected
You just tried to reply, but the quality control rejected your reply

## The question you were answering:
%s

## Your attempted answer:
%s

## Reason for rejection:
%s

`, r.persona.SystemPrompt(), message, reply, feedback)
}

// Revise makes a single call for a new reply. The result is not re-evaluated.
func (r *Reviser) Revise(ctx context.Context, reply, message string, history []types.Turn, feedback string) (string, error) {
	revised, err := r.responder.Respond(ctx, r.SystemPrompt(reply, message, feedback), history, message)
	if err != nil {
		return "", fmt.Errorf("reviser: %w", err)
	}
	return revised, nil
}
