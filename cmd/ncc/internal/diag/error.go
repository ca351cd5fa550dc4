package diag

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Error types used across the compiler.
const (
	ParseErrorType      = "parse error"
	ValidationErrorType = "validation error"
)

// Error is an error tied to a span of a source file. Kind is a short
// machine-readable tag such as "unclosed-block".
type Error struct {
	Type    string
	Kind    string
	Message string
	Context Context
}

var errorHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444"))

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %d-%d in %s: %s",
		e.Type, e.Context.From, e.Context.To, e.Context.Name, e.Message)
}

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Show renders the error with a highlighted source excerpt.
func (e *Error) Show(indent string) string {
	header := fmt.Sprintf("%s [%s]: %s\n", e.Type, e.Kind, errorHeaderStyle.Render(e.Message))
	return header + indent + e.Context.Show(indent+"  ")
}

// Shower wraps the Show method.
type Shower interface {
	Show(indent string) string
}
