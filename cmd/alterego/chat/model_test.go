package chat

import (
	"context"
	"errors"
	"testing"

	"alterego/internal/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReplier struct {
	reply   string
	err     error
	history []types.Turn
}

func (f *fakeReplier) Reply(_ context.Context, _ string, history []types.Turn) (string, error) {
	f.history = history
	return f.reply, f.err
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func TestModel_SubmitAndReply(t *testing.T) {
	replier := &fakeReplier{reply: "I am Grace."}
	m := sized(t, New(replier, Options{Name: "Grace"}))

	m.textarea.SetValue("  who are you?  ")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.isLoading)
	assert.Empty(t, m.textarea.Value())
	assert.Equal(t, "who are you?", m.pending)

	msg := m.ask("who are you?", m.History())()
	reply, ok := msg.(replyMsg)
	require.True(t, ok)
	assert.Equal(t, replyMsg{message: "who are you?", reply: "I am Grace."}, reply)

	updated, _ = m.Update(reply)
	m = updated.(Model)
	assert.False(t, m.isLoading)
	assert.Equal(t, []types.Turn{
		types.UserTurn("who are you?"),
		types.AssistantTurn("I am Grace."),
	}, m.History())
	assert.Contains(t, m.View(), "Chatting with Grace")
}

func TestModel_HistoryIsAppendOnly(t *testing.T) {
	replier := &fakeReplier{reply: "second"}
	m := sized(t, New(replier, Options{Name: "Grace"}))

	updated, _ := m.Update(replyMsg{message: "one", reply: "first"})
	m = updated.(Model)
	before := m.History()

	_ = m.ask("two", m.History())()
	assert.Equal(t, before, replier.history)

	updated, _ = m.Update(replyMsg{message: "two", reply: "second"})
	m = updated.(Model)
	require.Len(t, m.History(), 4)
	assert.Equal(t, before, m.History()[:2])
}

func TestModel_ErrorKeepsHistory(t *testing.T) {
	m := sized(t, New(&fakeReplier{}, Options{Name: "Grace"}))

	updated, _ := m.Update(replyMsg{message: "hi", err: errors.New("provider down")})
	m = updated.(Model)
	assert.Empty(t, m.History())
	assert.EqualError(t, m.lastErr, "provider down")
	assert.Contains(t, m.renderHistory(), "Error: provider down")
}

func TestModel_IgnoresInputWhileLoadingOrEmpty(t *testing.T) {
	m := sized(t, New(&fakeReplier{}, Options{}))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "empty input must not submit")

	m.isLoading = true
	m.textarea.SetValue("hello")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "hello", updated.(Model).textarea.Value())
}

func TestModel_Quit(t *testing.T) {
	m := New(&fakeReplier{}, Options{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ViewBeforeSize(t *testing.T) {
	assert.Equal(t, "Initializing...", New(&fakeReplier{}, Options{}).View())
}

func TestModel_HintOnlyBeforeFirstTurn(t *testing.T) {
	m := sized(t, New(&fakeReplier{}, Options{Name: "Grace"}))
	assert.Contains(t, m.renderHistory(), "Ask Grace anything.")

	updated, _ := m.Update(replyMsg{message: "hi", reply: "hello"})
	m = updated.(Model)
	assert.NotContains(t, m.renderHistory(), "Ask Grace anything.")
}
