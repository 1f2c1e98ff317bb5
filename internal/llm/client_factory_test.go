package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"alterego/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Providers(t *testing.T) {
	ctx := context.Background()

	client, err := NewClient(ctx, ProviderConfig{Provider: config.ProviderOpenAI, APIKey: "sk-test", Model: "gpt-4o"})
	require.NoError(t, err)
	openai, ok := client.(*OpenAIClient)
	require.True(t, ok, "expected *OpenAIClient, got %T", client)
	assert.Equal(t, "gpt-4o", openai.Model())

	client, err = NewClient(ctx, ProviderConfig{Provider: config.ProviderGemini, APIKey: "g-test"})
	require.NoError(t, err)
	_, ok = client.(*GeminiClient)
	assert.True(t, ok, "expected *GeminiClient, got %T", client)

	_, err = NewClient(ctx, ProviderConfig{Provider: "anthropic", APIKey: "k"})
	assert.True(t, errors.Is(err, ErrUnknownProvider))

	_, err = NewClient(ctx, ProviderConfig{Provider: config.ProviderOpenAI})
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestProviderConfigFrom(t *testing.T) {
	pc := ProviderConfigFrom(config.LLMConfig{
		Provider: "openai",
		APIKey:   "k",
		Model:    "gpt-4o-mini",
		BaseURL:  GeminiOpenAIBaseURL,
		Timeout:  "45s",
	})
	assert.Equal(t, ProviderConfig{
		Provider: "openai",
		APIKey:   "k",
		Model:    "gpt-4o-mini",
		BaseURL:  GeminiOpenAIBaseURL,
		Timeout:  45 * time.Second,
	}, pc)
}

func TestNewTracedClient(t *testing.T) {
	client, err := NewTracedClient(context.Background(), "responder", ProviderConfig{Provider: config.ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	traced, ok := client.(*TracingClient)
	require.True(t, ok)
	_, ok = traced.Unwrap().(*OpenAIClient)
	assert.True(t, ok)

	_, err = NewTracedClient(context.Background(), "evaluator", ProviderConfig{Provider: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evaluator")
}
