package chat

import (
	"testing"

	"alterego/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRules_Apply(t *testing.T) {
	rules := DefaultRules()
	base := testPersona.SystemPrompt()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"plain message", "What languages do you know?", base},
		{"exact word", "Do you hold a patent?", base + "\n\n" + PigLatinInstruction},
		{"substring inside word", "any patents pending", base + "\n\n" + PigLatinInstruction},
		{"case sensitive", "Tell me about your Patent", base},
		{"empty", "", base},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Apply(base, tt.message))
		})
	}
}

func TestRules_ApplyInOrder(t *testing.T) {
	rules := Rules{
		SubstringRule("a", "alpha", "first"),
		{Name: "never", Match: nil, Instruction: "ignored"},
		SubstringRule("b", "beta", "second"),
	}

	assert.Equal(t, "base\n\nfirst\n\nsecond", rules.Apply("base", "alpha and beta"))
	assert.Equal(t, "base\n\nsecond", rules.Apply("base", "beta only"))
	assert.Equal(t, []string{"a", "b"}, rules.Matched("alpha beta"))
	assert.Empty(t, rules.Matched("gamma"))
}

func TestRulesFromConfig(t *testing.T) {
	rules := RulesFromConfig(config.DefaultConfig().Rules)
	base := "prompt"
	assert.Equal(t, DefaultRules().Apply(base, "patent"), rules.Apply(base, "patent"))
	assert.Equal(t, base, rules.Apply(base, "nothing here"))
	assert.Empty(t, RulesFromConfig(nil))
}
