package chat

import "github.com/charmbracelet/lipgloss"

var (
	primary     = lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#8BC34A"}
	accent      = lipgloss.AdaptiveColor{Light: "#2196F3", Dark: "#4db6ac"}
	muted       = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	destructive = lipgloss.Color("#e53935")
)

// Styles holds the lipgloss styles used by the chat view.
type Styles struct {
	Header    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Spinner   lipgloss.Style
	Footer    lipgloss.Style
}

// DefaultStyles returns the default chat styles.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(primary).Padding(0, 1),
		User:      lipgloss.NewStyle().Bold(true).Foreground(primary).MarginTop(1),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(accent).MarginTop(1),
		Muted:     lipgloss.NewStyle().Foreground(muted),
		Error:     lipgloss.NewStyle().Foreground(destructive).Bold(true),
		Spinner:   lipgloss.NewStyle().Foreground(accent),
		Footer:    lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
	}
}
