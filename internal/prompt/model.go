// Package prompt asks the user for notification permission with a small
// bubbletea confirm dialog.
package prompt

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cristianoliveira/pushbell/internal/platform"
)

// KeyMap holds the dialog key bindings.
type KeyMap struct {
	Allow key.Binding
	Deny  key.Binding
	Abort key.Binding
}

// DefaultKeyMap returns y/n bindings with esc as deny and ctrl+c as abort.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Allow: key.NewBinding(
			key.WithKeys("y", "Y", "a"),
			key.WithHelp("y", "allow"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "b", "esc"),
			key.WithHelp("n/esc", "block"),
		),
		Abort: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Allow, k.Deny, k.Abort}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 1)
	scopeStyle  = lipgloss.NewStyle().Bold(true)
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the permission dialog.
type Model struct {
	req     platform.PromptRequest
	keys    KeyMap
	help    help.Model
	decided bool
	granted bool
	aborted bool
}

// NewModel returns a dialog for req.
func NewModel(req platform.PromptRequest) Model {
	return Model{req: req, keys: DefaultKeyMap(), help: help.New()}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model. Any decision quits the program.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.decided || m.aborted {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Allow):
		m.decided, m.granted = true, true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Deny):
		m.decided = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Abort):
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.decided {
		answer := "blocked"
		if m.granted {
			answer = "allowed"
		}
		return answerStyle.Render(fmt.Sprintf("notifications %s for %s\n", answer, m.req.Scope))
	}
	if m.aborted {
		return ""
	}
	question := fmt.Sprintf("%s wants to show %s notifications.",
		scopeStyle.Render(m.req.Scope), m.req.Backend)
	return frameStyle.Render(question+"\n\n"+m.help.View(m.keys)) + "\n"
}

// Decided reports whether the user answered.
func (m Model) Decided() bool { return m.decided }

// Granted reports whether the user allowed notifications.
func (m Model) Granted() bool { return m.granted }

// Aborted reports whether the user cancelled without answering.
func (m Model) Aborted() bool { return m.aborted }
