package diag

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Context is a range of text in a named source file. Parse and validation
// errors carry one so that the CLI can show the offending excerpt.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) Context {
	return Context{Name: name, Source: source, Ranging: r.Range()}
}

var (
	culpritStyle       = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#ef4444"))
	culpritPlaceHolder = "^"
)

// Line returns the 1-based line number that the range starts on.
func (c Context) Line() int {
	if c.From < 0 || c.From > len(c.Source) {
		return 0
	}
	return strings.Count(c.Source[:c.From], "\n") + 1
}

// Show renders the position description followed by the relevant source
// lines, with the culprit highlighted.
func (c Context) Show(indent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	before := c.Source[:c.From]
	culprit := c.Source[c.From:c.To]
	after := c.Source[c.To:]

	head := before[strings.LastIndexByte(before, '\n')+1:]
	var tail string
	if strings.HasSuffix(culprit, "\n") {
		culprit = culprit[:len(culprit)-1]
	} else {
		tail = firstLine(after)
	}

	beginLine := strings.Count(before, "\n") + 1
	endLine := beginLine + strings.Count(culprit, "\n")
	desc := fmt.Sprintf("%s, line %d:", c.Name, beginLine)
	if endLine != beginLine {
		desc = fmt.Sprintf("%s, line %d-%d:", c.Name, beginLine, endLine)
	}

	if culprit == "" {
		culprit = culpritPlaceHolder
	}
	var sb strings.Builder
	sb.WriteString(desc)
	sb.WriteString("\n")
	sb.WriteString(indent)
	sb.WriteString(head)
	for i, line := range strings.Split(culprit, "\n") {
		if i > 0 {
			sb.WriteString("\n")
			sb.WriteString(indent)
		}
		sb.WriteString(culpritStyle.Render(line))
	}
	sb.WriteString(tail)
	return sb.String()
}

func (c Context) checkPosition() error {
	if c.From < 0 || c.To > len(c.Source) || c.From > c.To {
		return fmt.Errorf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	return nil
}

func firstLine(s string) string {
	i := strings.IndexByte(s, '\n')
	if i == -1 {
		return s
	}
	return s[:i]
}
