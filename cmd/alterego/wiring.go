package main

import (
	"context"
	"fmt"

	"alterego/internal/chat"
	"alterego/internal/config"
	"alterego/internal/llm"
	"alterego/internal/logging"
	"alterego/internal/persona"
)

// loadPersona reads the persona inputs named in the config.
func loadPersona(c *config.Config) (persona.Context, error) {
	return persona.Load(persona.LoadOptions{
		Name:        c.Persona.Name,
		SummaryPath: c.Persona.SummaryPath,
		ProfilePath: c.Persona.ProfilePath,
	})
}

// buildOrchestrator wires persona, both endpoints and prompt rules.
func buildOrchestrator(ctx context.Context, c *config.Config) (*chat.Orchestrator, persona.Context, error) {
	if err := c.Validate(); err != nil {
		return nil, persona.Context{}, fmt.Errorf("invalid config: %w", err)
	}

	p, err := loadPersona(c)
	if err != nil {
		return nil, persona.Context{}, err
	}

	responder, err := llm.NewTracedClient(ctx, "responder", llm.ProviderConfigFrom(c.Responder))
	if err != nil {
		return nil, persona.Context{}, err
	}
	evaluator, err := llm.NewTracedClient(ctx, "evaluator", llm.ProviderConfigFrom(c.Evaluator))
	if err != nil {
		return nil, persona.Context{}, err
	}

	logging.Boot("Persona %s: responder=%s/%s evaluator=%s/%s rules=%d",
		p.Name, c.Responder.Provider, responder.Model(), c.Evaluator.Provider, evaluator.Model(), len(c.Rules))

	return chat.NewOrchestrator(p, responder, evaluator, chat.WithRules(chat.RulesFromConfig(c.Rules))), p, nil
}
