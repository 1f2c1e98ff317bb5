package chat

import (
	"fmt"
	"strings"

	"alterego/internal/types"
)

func (m Model) renderHistory() string {
	var sb strings.Builder

	if len(m.history) == 0 && m.pending == "" {
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("Ask %s anything. Enter sends, Esc quits.", m.opts.Name)))
		sb.WriteString("\n")
	}

	for _, turn := range m.history {
		switch turn.Role {
		case types.RoleUser:
			sb.WriteString(m.styles.User.Render("You") + "\n")
			sb.WriteString(turn.Content)
			sb.WriteString("\n\n")
		case types.RoleAssistant:
			sb.WriteString(m.styles.Assistant.Render(m.opts.Name) + "\n")
			sb.WriteString(m.safeRenderMarkdown(turn.Content))
			sb.WriteString("\n")
		}
	}

	if m.pending != "" {
		sb.WriteString(m.styles.User.Render("You") + "\n")
		sb.WriteString(m.pending)
		sb.WriteString("\n\n")
	}
	if m.lastErr != nil {
		sb.WriteString(m.styles.Error.Render("Error: " + m.lastErr.Error()))
		sb.WriteString("\n")
	}
	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.styles.Header.Render(fmt.Sprintf("Chatting with %s", m.opts.Name))

	status := m.styles.Footer.Render(fmt.Sprintf("%d turns", len(m.history)/2))
	if m.isLoading {
		status = m.styles.Footer.Render(m.spinner.View() + " thinking...")
	}

	return strings.Join([]string{
		header,
		m.viewport.View(),
		status,
		m.textarea.View(),
	}, "\n")
}
