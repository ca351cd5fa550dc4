package ui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/recera/ncc/cmd/ncc/internal/scaffold"
)

// ErrCancelled is returned by Run when the user quits the prompt.
var ErrCancelled = errors.New("project creation cancelled")

// Run shows the prompt and returns the entered settings.
func Run(name string) (scaffold.ProjectConfig, error) {
	if !IsTerminal() {
		return scaffold.ProjectConfig{}, fmt.Errorf("the interactive prompt needs a terminal, pass a project name instead")
	}

	final, err := tea.NewProgram(NewModel(name)).Run()
	if err != nil {
		return scaffold.ProjectConfig{}, fmt.Errorf("failed to run prompt: %w", err)
	}
	m := final.(Model)
	if !m.Done() {
		return scaffold.ProjectConfig{}, ErrCancelled
	}
	return m.Config(), nil
}

// IsTerminal reports whether stdin and stdout are both terminals.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}
