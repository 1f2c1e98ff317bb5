package chat

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"alterego/internal/llm"
	"alterego/internal/persona"
	"alterego/internal/types"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testPersona = persona.New("Grace Hopper", "Rear admiral and compiler pioneer.", "COBOL; Harvard Mark I")

// fakeChat records every request and answers from a fixed list of replies.
// The last reply repeats once the list is exhausted.
type fakeChat struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]types.Turn
}

func (f *fakeChat) Chat(_ context.Context, turns []types.Turn) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, turns)
	if f.err != nil {
		return "", f.err
	}
	i := len(f.calls) - 1
	if i >= len(f.replies) {
		i = len(f.replies) - 1
	}
	return f.replies[i], nil
}

func (f *fakeChat) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeChat) systemPrompt(call int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[call][0].Content
}

// fakeStructured returns raw for every structured request.
type fakeStructured struct {
	mu      sync.Mutex
	raw     string
	err     error
	calls   [][]types.Turn
	schemas []llm.Schema
}

func (f *fakeStructured) ChatStructured(_ context.Context, turns []types.Turn, schema llm.Schema) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, turns)
	f.schemas = append(f.schemas, schema)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.raw), nil
}

func verdictJSON(ok bool, feedback string) string {
	data, _ := json.Marshal(Verdict{IsAcceptable: ok, Feedback: feedback})
	return string(data)
}
