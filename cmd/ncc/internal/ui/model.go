// Package ui is the interactive prompt behind "ncc new".
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/recera/ncc/cmd/ncc/internal/scaffold"
)

const (
	fieldName = iota
	fieldModule
	fieldSiteURL
	fieldCount
)

var (
	primaryColor = lipgloss.Color("#3b82f6")
	mutedColor   = lipgloss.Color("#94a3b8")
	errorColor   = lipgloss.Color("#ef4444")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	focusedStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(mutedColor).MarginTop(1)
)

// KeyMap defines the prompt's keyboard shortcuts. Letters are left to the
// text inputs.
type KeyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Enter key.Binding
	Quit  key.Binding
}

var DefaultKeyMap = KeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// Model collects the settings of a new project.
type Model struct {
	inputs   []textinput.Model
	focus    int
	done     bool
	quitting bool

	errorMessage string
}

// NewModel creates a prompt, prefilled with name when it is not empty.
func NewModel(name string) Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.CharLimit = 128
		in.Width = 40
		inputs[i] = in
	}
	inputs[fieldName].Placeholder = "my-site"
	inputs[fieldName].SetValue(name)
	inputs[fieldModule].Placeholder = "example.com/my-site"
	inputs[fieldSiteURL].SetValue(scaffold.DefaultSiteURL)
	inputs[fieldName].Focus()

	return Model{inputs: inputs}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInput(msg)
	}

	switch {
	case key.Matches(keyMsg, DefaultKeyMap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(keyMsg, DefaultKeyMap.Next):
		return m, m.setFocus((m.focus + 1) % fieldCount)

	case key.Matches(keyMsg, DefaultKeyMap.Prev):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)

	case key.Matches(keyMsg, DefaultKeyMap.Enter):
		if err := scaffold.ValidateName(m.value(fieldName)); err != nil {
			m.errorMessage = err.Error()
			return m, m.setFocus(fieldName)
		}
		m.errorMessage = ""
		if m.focus < fieldCount-1 {
			return m, m.setFocus(m.focus + 1)
		}
		m.done = true
		return m, tea.Quit
	}
	return m.updateInput(msg)
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m Model) value(i int) string {
	return strings.TrimSpace(m.inputs[i].Value())
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done || m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Create a new Nucleus project"))
	b.WriteString("\n")

	labels := [fieldCount]string{"Project name", "Go module", "Site URL"}
	for i, label := range labels {
		style := labelStyle
		if i == m.focus {
			style = focusedStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}

	if m.errorMessage != "" {
		b.WriteString(errorStyle.Render("✗ " + m.errorMessage))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab: next field • enter: confirm • esc: cancel"))
	return b.String()
}

// Done reports whether the user confirmed every field.
func (m Model) Done() bool { return m.done }

// Cancelled reports whether the user quit the prompt.
func (m Model) Cancelled() bool { return m.quitting }

// Config returns the project settings entered so far.
func (m Model) Config() scaffold.ProjectConfig {
	return scaffold.ProjectConfig{
		Name:    m.value(fieldName),
		Module:  m.value(fieldModule),
		SiteURL: m.value(fieldSiteURL),
	}
}
