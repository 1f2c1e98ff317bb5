// Package chat implements the respond, evaluate and revise loop that
// produces every persona reply.
package chat

import (
	"errors"

	"alterego/internal/llm"
)

// ErrMalformedVerdict is returned when the evaluator's output does not
// conform to VerdictSchema. The turn fails; no default verdict is assumed.
var ErrMalformedVerdict = errors.New("malformed evaluation verdict")

// Verdict is the evaluator's judgment of one candidate reply.
type Verdict struct {
	IsAcceptable bool   `json:"is_acceptable"`
	Feedback     string `json:"feedback"`
}

// VerdictSchema is the structured output shape requested from the evaluator.
var VerdictSchema = llm.Schema{
	Name:        "Evaluation",
	Description: "Whether the agent's latest response is acceptable, with feedback.",
	Properties: []llm.Property{
		{Name: "is_acceptable", Type: llm.TypeBoolean, Description: "true when the response is acceptable"},
		{Name: "feedback", Type: llm.TypeString, Description: "reasoning behind the decision"},
	},
}
