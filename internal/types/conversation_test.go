package types

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleSystem, true},
		{RoleUser, true},
		{RoleAssistant, true},
		{Role("model"), false},
		{Role(""), false},
		{Role("User"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Valid())
		})
	}
}

func TestValidateTurns(t *testing.T) {
	require.NoError(t, ValidateTurns(nil))
	require.NoError(t, ValidateTurns([]Turn{UserTurn("hi"), AssistantTurn("hello")}))

	err := ValidateTurns([]Turn{UserTurn("hi"), {Role: "tool", Content: "x"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRole))
	assert.Contains(t, err.Error(), "turn 1")
}

func TestTranscript(t *testing.T) {
	history := []Turn{
		SystemTurn("ignored"),
		UserTurn("What do you do?"),
		AssistantTurn("I build LLM products."),
	}

	got := Transcript(history)
	want := "User: What do you do?\nAgent: I build LLM products."
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transcript mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "", Transcript(nil))
	assert.Equal(t, Transcript(history), Transcript(history))
}

func TestAppendDoesNotAlias(t *testing.T) {
	history := make([]Turn, 1, 4)
	history[0] = UserTurn("first")

	a := Append(history, AssistantTurn("a"))
	b := Append(history, AssistantTurn("b"))

	assert.Equal(t, "a", a[1].Content)
	assert.Equal(t, "b", b[1].Content)
	assert.Len(t, history, 1)
}
