package chat

import (
	"strings"

	"alterego/internal/config"
)

// PigLatinInstruction is appended when a message mentions "patent".
const PigLatinInstruction = config.PatentInstruction

// Rule mutates the responder's system prompt when Match accepts the message.
type Rule struct {
	Name        string
	Match       func(message string) bool
	Instruction string
}

// Rules is an ordered rule table.
type Rules []Rule

// SubstringRule matches messages containing substr, case-sensitively.
func SubstringRule(name, substr, instruction string) Rule {
	return Rule{
		Name:        name,
		Match:       func(message string) bool { return strings.Contains(message, substr) },
		Instruction: instruction,
	}
}

// DefaultRules holds the single "patent" rule.
func DefaultRules() Rules {
	return Rules{SubstringRule("patent", "patent", PigLatinInstruction)}
}

// Apply appends "\n\n"+Instruction for every matching rule, in order.
func (rs Rules) Apply(system, message string) string {
	for _, r := range rs {
		if r.Match != nil && r.Match(message) {
			system += "\n\n" + r.Instruction
		}
	}
	return system
}

// Matched returns the names of the rules that fire for message.
func (rs Rules) Matched(message string) []string {
	var names []string
	for _, r := range rs {
		if r.Match != nil && r.Match(message) {
			names = append(names, r.Name)
		}
	}
	return names
}

// RulesFromConfig builds substring rules from the config's rule table.
func RulesFromConfig(cfgs []config.RuleConfig) Rules {
	rules := make(Rules, 0, len(cfgs))
	for _, c := range cfgs {
		rules = append(rules, SubstringRule(c.Name, c.Contains, c.Instruction))
	}
	return rules
}
