package llm

import (
	"context"
	"encoding/json"
	"time"

	"alterego/internal/logging"
	"alterego/internal/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TracingClient wraps any Client and logs every call with a request id,
// the endpoint role, model, turn count and duration. Requests and responses
// pass through untouched.
type TracingClient struct {
	underlying Client
	role       string
	provider   string
	newID      func() string
}

// NewTracingClient creates a tracing wrapper around an existing client.
func NewTracingClient(underlying Client, role, provider string) *TracingClient {
	return &TracingClient{
		underlying: underlying,
		role:       role,
		provider:   provider,
		newID:      uuid.NewString,
	}
}

// Chat forwards to the underlying client.
func (tc *TracingClient) Chat(ctx context.Context, turns []types.Turn) (string, error) {
	done := tc.start("chat", turns)
	reply, err := tc.underlying.Chat(ctx, turns)
	done(len(reply), err)
	return reply, err
}

// ChatStructured forwards to the underlying client.
func (tc *TracingClient) ChatStructured(ctx context.Context, turns []types.Turn, schema Schema) (json.RawMessage, error) {
	done := tc.start("structured:"+schema.Name, turns)
	raw, err := tc.underlying.ChatStructured(ctx, turns, schema)
	done(len(raw), err)
	return raw, err
}

// Model returns the underlying model.
func (tc *TracingClient) Model() string {
	return tc.underlying.Model()
}

// Unwrap returns the wrapped client.
func (tc *TracingClient) Unwrap() Client {
	return tc.underlying
}

func (tc *TracingClient) start(call string, turns []types.Turn) func(size int, err error) {
	startTime := time.Now()
	logger := logging.L().Named(string(logging.CategoryAPI)).With(
		zap.String("request_id", tc.newID()),
		zap.String("role", tc.role),
		zap.String("provider", tc.provider),
		zap.String("model", tc.underlying.Model()),
		zap.String("call", call),
	)
	logger.Debug("llm request", zap.Int("turns", len(turns)))

	return func(size int, err error) {
		elapsed := time.Since(startTime)
		if err != nil {
			logger.Warn("llm request failed", zap.Duration("duration", elapsed), zap.Error(err))
			return
		}
		logger.Info("llm response", zap.Duration("duration", elapsed), zap.Int("response_len", size))
	}
}
