// Package llm contains the provider clients used by the persona core: a
// chat-completion call that returns one assistant turn, and a structured call
// that asks the provider for JSON conforming to a Schema.
package llm

import (
	"context"
	"encoding/json"
	"errors"

	"alterego/internal/types"
)

var (
	// ErrMissingAPIKey is returned when a client is built or used without credentials.
	ErrMissingAPIKey = errors.New("API key not configured")
	// ErrNoCompletion is returned when the provider answers without any candidate text.
	ErrNoCompletion = errors.New("no completion returned")
	// ErrUnknownProvider is returned by the factory for unsupported provider names.
	ErrUnknownProvider = errors.New("unknown provider")
)

// ChatClient sends an ordered conversation and returns the generated text of
// one assistant turn.
type ChatClient interface {
	Chat(ctx context.Context, turns []types.Turn) (string, error)
}

// StructuredClient sends an ordered conversation and asks for a JSON value
// conforming to schema. The raw JSON is returned unchecked.
type StructuredClient interface {
	ChatStructured(ctx context.Context, turns []types.Turn, schema Schema) (json.RawMessage, error)
}

// Client is implemented by every provider.
type Client interface {
	ChatClient
	StructuredClient
	Model() string
}
