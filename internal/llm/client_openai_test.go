package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"alterego/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var verdictLikeSchema = Schema{
	Name: "Evaluation",
	Properties: []Property{
		{Name: "is_acceptable", Type: TypeBoolean},
		{Name: "feedback", Type: TypeString},
	},
}

func newOpenAITestServer(t *testing.T, status int, body string, capture *OpenAIRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if capture != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIClient_Chat_Success(t *testing.T) {
	var got OpenAIRequest
	server := newOpenAITestServer(t, http.StatusOK, `{
		"id": "chatcmpl-123",
		"choices": [{"message": {"role": "assistant", "content": "Hello, world!"}}]
	}`, &got)

	client := NewOpenAIClientWithConfig(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL + "/"})

	turns := []types.Turn{types.SystemTurn("be nice"), types.UserTurn("hi")}
	reply, err := client.Chat(context.Background(), turns)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", reply)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, turns, got.Messages)
	assert.Nil(t, got.ResponseFormat)
}

func TestOpenAIClient_ChatStructured_SendsSchema(t *testing.T) {
	var got OpenAIRequest
	server := newOpenAITestServer(t, http.StatusOK, `{
		"choices": [{"message": {"content": "{\"is_acceptable\":true,\"feedback\":\"ok\"}"}}]
	}`, &got)

	client := NewOpenAIClientWithConfig(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL, Model: "gemini-2.0-flash"})

	raw, err := client.ChatStructured(context.Background(), []types.Turn{types.UserTurn("rate this")}, verdictLikeSchema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_acceptable":true,"feedback":"ok"}`, string(raw))

	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_schema", got.ResponseFormat.Type)
	require.NotNil(t, got.ResponseFormat.JSONSchema)
	assert.Equal(t, "Evaluation", got.ResponseFormat.JSONSchema.Name)
	assert.True(t, got.ResponseFormat.JSONSchema.Strict)
	assert.Equal(t, "gemini-2.0-flash", got.Model)
}

func TestOpenAIClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "non-200 status",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"slow down"}}`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "status 429")
			},
		},
		{
			name:   "provider error object",
			status: http.StatusOK,
			body:   `{"error":{"message":"bad model","type":"invalid_request_error"}}`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "bad model")
			},
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"choices":[]}`,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, ErrNoCompletion))
			},
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `not json`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "failed to parse response")
			},
		},
		{
			name:   "refusal",
			status: http.StatusOK,
			body:   `{"choices":[{"message":{"content":"","refusal":"no"}}]}`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "refused")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newOpenAITestServer(t, tt.status, tt.body, nil)
			client := NewOpenAIClientWithConfig(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})

			_, err := client.Chat(context.Background(), []types.Turn{types.UserTurn("hi")})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestOpenAIClient_MissingKey(t *testing.T) {
	client := NewOpenAIClient("")
	_, err := client.Chat(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestOpenAIClient_NoRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewOpenAIClientWithConfig(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
	_, err := client.Chat(context.Background(), []types.Turn{types.UserTurn("hi")})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestOpenAIClient_SetModel(t *testing.T) {
	client := NewOpenAIClient("k")
	client.SetModel("gpt-4o")
	assert.Equal(t, "gpt-4o", client.Model())
}
