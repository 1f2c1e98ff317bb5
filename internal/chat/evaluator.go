package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"alterego/internal/llm"
	"alterego/internal/persona"
	"alterego/internal/types"

	"github.com/xeipuuv/gojsonschema"
)

// Evaluator asks a second, independently configured model whether a reply
// is acceptable.
type Evaluator struct {
	client  llm.StructuredClient
	persona persona.Context

	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(client llm.StructuredClient, p persona.Context) *Evaluator {
	return &Evaluator{client: client, persona: p}
}

// UserPrompt renders the evaluation question for one reply.
func UserPrompt(reply, message string, history []types.Turn) string {
	return fmt.Sprintf(`Here's the conversation between the User and the Agent:

%s

Here's the latest message from the User:

%s

Here's the latest response from the Agent:

%s

Please evaluate the response, replying with whether it is acceptable and your feedback.`,
		types.Transcript(history), message, reply)
}

// Request builds the evaluation payload. It depends only on its arguments
// and the persona.
func (e *Evaluator) Request(reply, message string, history []types.Turn) []types.Turn {
	return []types.Turn{
		types.SystemTurn(e.persona.EvaluatorPrompt()),
		types.UserTurn(UserPrompt(reply, message, history)),
	}
}

// Evaluate calls the structured endpoint and returns the parsed verdict.
func (e *Evaluator) Evaluate(ctx context.Context, reply, message string, history []types.Turn) (Verdict, error) {
	raw, err := e.client.ChatStructured(ctx, e.Request(reply, message, history), VerdictSchema)
	if err != nil {
		return Verdict{}, fmt.Errorf("evaluator: %w", err)
	}
	return e.parse(raw)
}

func (e *Evaluator) parse(raw json.RawMessage) (Verdict, error) {
	schema, err := e.compiledSchema()
	if err != nil {
		return Verdict{}, err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrMalformedVerdict, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return Verdict{}, fmt.Errorf("%w: %s", ErrMalformedVerdict, strings.Join(problems, "; "))
	}

	var v Verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrMalformedVerdict, err)
	}
	return v, nil
}

func (e *Evaluator) compiledSchema() (*gojsonschema.Schema, error) {
	e.schemaOnce.Do(func() {
		data, err := VerdictSchema.JSONSchemaBytes()
		if err != nil {
			e.schemaErr = fmt.Errorf("encode verdict schema: %w", err)
			return
		}
		e.schema, e.schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	})
	return e.schema, e.schemaErr
}
