// Package chat provides the interactive terminal chat for alterego.
//   - model.go: Model, Init and the Update loop (this file)
//   - view.go: rendering
//   - styles.go: lipgloss styles
package chat

import (
	"context"
	"strings"
	"time"

	"alterego/internal/types"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// Replier answers one message given the prior history.
type Replier interface {
	Reply(ctx context.Context, message string, history []types.Turn) (string, error)
}

// Options configures the chat model.
type Options struct {
	Name    string        // persona name shown in the header
	Timeout time.Duration // per-turn limit; zero means none
}

// replyMsg carries the result of one orchestrated turn back into Update.
type replyMsg struct {
	message string
	reply   string
	err     error
}

// Model is the bubbletea model for the terminal chat.
type Model struct {
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	styles   Styles

	replier Replier
	opts    Options

	// Grows append-only for the lifetime of the session
	history []types.Turn
	pending string
	lastErr error

	isLoading bool
	ready     bool
	width     int
	height    int
}

// New creates a chat model.
func New(replier Replier, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask " + opts.Name + " something... (Enter to send, Esc to quit)"
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.CharLimit = 4000
	ta.Focus()

	styles := DefaultStyles()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return Model{
		textarea: ta,
		spinner:  sp,
		styles:   styles,
		replier:  replier,
		opts:     opts,
	}
}

// Run starts the program and blocks until the user quits.
func Run(replier Replier, opts Options) error {
	_, err := tea.NewProgram(New(replier, opts), tea.WithAltScreen()).Run()
	return err
}

// History returns a copy of the conversation so far.
func (m Model) History() []types.Turn {
	return types.Append(nil, m.history...)
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.isLoading {
				return m, nil
			}
			message := strings.TrimSpace(m.textarea.Value())
			if message == "" {
				return m, nil
			}
			m.textarea.Reset()
			m.pending = message
			m.lastErr = nil
			m.isLoading = true
			m.refresh()
			return m, tea.Batch(m.spinner.Tick, m.ask(message, m.History()))
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case replyMsg:
		m.isLoading = false
		m.pending = ""
		if msg.err != nil {
			m.lastErr = msg.err
		} else {
			m.history = types.Append(m.history, types.UserTurn(msg.message), types.AssistantTurn(msg.reply))
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.isLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// ask runs one turn off the UI goroutine.
func (m Model) ask(message string, history []types.Turn) tea.Cmd {
	replier, timeout := m.replier, m.opts.Timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		reply, err := replier.Reply(ctx, message, history)
		return replyMsg{message: message, reply: reply, err: err}
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.textarea.SetWidth(width - 2)

	headerHeight := 2
	footerHeight := m.textarea.Height() + 3
	vpHeight := height - headerHeight - footerHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}

	m.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	m.refresh()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}
