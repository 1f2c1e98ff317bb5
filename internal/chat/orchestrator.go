package chat

import (
	"context"
	"fmt"
	"time"

	"alterego/internal/llm"
	"alterego/internal/logging"
	"alterego/internal/persona"
	"alterego/internal/types"
)

// State is a step of one orchestrated turn.
type State int

const (
	StateStart State = iota
	StateResponded
	StateEvaluated
	StateAccepted
	StateRevising
	StateDone
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateResponded:
		return "responded"
	case StateEvaluated:
		return "evaluated"
	case StateAccepted:
		return "accepted"
	case StateRevising:
		return "revising"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome describes how a reply was produced.
type Outcome struct {
	Reply    string
	Original string
	Verdict  Verdict
	Revised  bool
	Rules    []string
	States   []State
}

// Orchestrator runs respond, evaluate and the optional revision for each
// inbound message. It holds no per-turn state and may be shared between
// goroutines.
type Orchestrator struct {
	persona   persona.Context
	responder *Responder
	evaluator *Evaluator
	reviser   *Reviser
	rules     Rules
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRules replaces the default prompt rules.
func WithRules(rules Rules) Option {
	return func(o *Orchestrator) { o.rules = rules }
}

// NewOrchestrator wires the three endpoints around a persona.
func NewOrchestrator(p persona.Context, responder llm.ChatClient, evaluator llm.StructuredClient, opts ...Option) *Orchestrator {
	r := NewResponder(responder)
	o := &Orchestrator{
		persona:   p,
		responder: r,
		evaluator: NewEvaluator(evaluator, p),
		reviser:   NewReviser(r, p),
		rules:     DefaultRules(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SystemPrompt is the responder prompt for message after rules are applied.
func (o *Orchestrator) SystemPrompt(message string) string {
	return o.rules.Apply(o.persona.SystemPrompt(), message)
}

// Reply returns the final reply for message given the prior history.
func (o *Orchestrator) Reply(ctx context.Context, message string, history []types.Turn) (string, error) {
	out, err := o.Run(ctx, message, history)
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

// Run executes one turn and reports the path it took.
func (o *Orchestrator) Run(ctx context.Context, message string, history []types.Turn) (*Outcome, error) {
	start := time.Now()
	out := &Outcome{States: []State{StateStart}}
	step := func(next State) {
		logging.ChatDebug("%s -> %s", out.States[len(out.States)-1], next)
		out.States = append(out.States, next)
	}

	out.Rules = o.rules.Matched(message)
	if len(out.Rules) > 0 {
		logging.Chat("Prompt rules applied: %v", out.Rules)
	}
	system := o.SystemPrompt(message)

	reply, err := o.responder.Respond(ctx, system, history, message)
	if err != nil {
		logging.ChatError("Respond failed: %v", err)
		return nil, err
	}
	out.Original = reply
	step(StateResponded)

	verdict, err := o.evaluator.Evaluate(ctx, reply, message, history)
	if err != nil {
		logging.ChatError("Evaluate failed: %v", err)
		return nil, err
	}
	out.Verdict = verdict
	step(StateEvaluated)

	if verdict.IsAcceptable {
		step(StateAccepted)
		out.Reply = reply
		logging.Chat("Passed evaluation in %v", time.Since(start))
		return out, nil
	}

	step(StateRevising)
	logging.ChatWarn("Failed evaluation, revising: %s", verdict.Feedback)
	revised, err := o.reviser.Revise(ctx, reply, message, history, verdict.Feedback)
	if err != nil {
		logging.ChatError("Revise failed: %v", err)
		return nil, err
	}
	out.Reply = revised
	out.Revised = true
	step(StateDone)
	logging.Chat("Revised reply in %v", time.Since(start))
	return out, nil
}
