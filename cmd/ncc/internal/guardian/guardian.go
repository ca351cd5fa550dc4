// Package guardian validates merged template trees before code generation.
package guardian

import (
	"fmt"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/recera/ncc/cmd/ncc/internal/template"
)

// Category groups violations. Security and Quality violations are errors,
// the rest are warnings.
type Category string

const (
	A11y        Category = "a11y"
	Security    Category = "security"
	Performance Category = "performance"
	Quality     Category = "quality"
	Markup      Category = "markup"
)

// MaxInlineStyle is the longest inline style attribute accepted without a
// performance warning.
const MaxInlineStyle = 150

// Violation is a single rule failure.
type Violation struct {
	Category Category
	Rule     string
	Message  string
}

// IsError reports whether the violation fails the build.
func (v Violation) IsError() bool {
	return v.Category == Security || v.Category == Quality
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Category, v.Rule, v.Message)
}

// ValidationError reports the error-level violations of one file.
type ValidationError struct {
	Path       string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("validation failed for %s:\n  %s", e.Path, strings.Join(msgs, "\n  "))
}

// Validate runs every rule over the tree and returns all violations in
// document order.
func Validate(nodes []template.Node) []Violation {
	var out []Violation
	template.Walk(nodes, func(n template.Node) bool {
		if el, ok := n.(*template.Element); ok {
			out = append(out, checkElement(el)...)
		}
		return true
	})
	out = append(out, checkTests(nodes)...)
	return out
}

// Check validates the tree of the file at path. Error-level violations are
// returned as a *ValidationError; warnings are returned separately.
func Check(path string, nodes []template.Node) (warnings []Violation, err error) {
	var errs []Violation
	for _, v := range Validate(nodes) {
		if v.IsError() {
			errs = append(errs, v)
		} else {
			warnings = append(warnings, v)
		}
	}
	if len(errs) > 0 {
		return warnings, &ValidationError{Path: path, Violations: errs}
	}
	return warnings, nil
}

func checkElement(el *template.Element) []Violation {
	var out []Violation
	switch el.Tag {
	case "img", "n:image":
		if !el.Attrs.Has("alt") {
			out = append(out, Violation{A11y, "img-alt", fmt.Sprintf("<%s> is missing an alt attribute", el.Tag)})
		}
	case "input":
		if typ, _ := el.Attrs.Get("type"); typ != "hidden" && !hasLabel(el.Attrs) {
			out = append(out, Violation{A11y, "input-label", "<input> has no accessible label"})
		}
	case "iframe":
		if !el.Attrs.Has("sandbox") {
			out = append(out, Violation{Security, "iframe-sandbox", "<iframe> must declare a sandbox attribute"})
		}
	}
	if style, ok := el.Attrs.Get("style"); ok && len(style) > MaxInlineStyle {
		out = append(out, Violation{Performance, "inline-style", fmt.Sprintf("inline style on <%s> is %d characters, move it to a stylesheet", el.Tag, len(style))})
	}
	if isUnknownTag(el.Tag) {
		out = append(out, Violation{Markup, "unknown-tag", fmt.Sprintf("<%s> is not a known HTML element", el.Tag)})
	}
	return out
}

func hasLabel(attrs template.Attrs) bool {
	for _, name := range []string{"aria-label", "aria-labelledby", "title", "id", "placeholder"} {
		if attrs.Has(name) {
			return true
		}
	}
	return false
}

// isUnknownTag reports lowercase, non-dialect, non-custom tags that are not
// HTML elements.
func isUnknownTag(tag string) bool {
	if tag == "" || strings.ContainsAny(tag, ":-") || strings.ToLower(tag) != tag {
		return false
	}
	switch tag {
	case "svg", "path", "circle", "rect", "line", "polyline", "polygon", "g", "defs", "use", "symbol", "ellipse", "text", "tspan", "math":
		return false
	}
	return atom.Lookup([]byte(tag)) == 0
}

// checkTests requires a spec or test block when the file carries server
// scripts.
func checkTests(nodes []template.Node) []Violation {
	hasScript, hasTests := false, false
	template.Walk(nodes, func(n template.Node) bool {
		switch n := n.(type) {
		case *template.Script:
			if n.IsServer() {
				hasScript = true
			}
		case *template.Spec, *template.Test:
			hasTests = true
		}
		return true
	})
	if hasScript && !hasTests {
		return []Violation{{Quality, "script-tests", "files with <n:script> must include an <n:spec> or <n:test> block"}}
	}
	return nil
}

