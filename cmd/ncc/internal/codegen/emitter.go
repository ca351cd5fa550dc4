package codegen

import (
	"fmt"
	"go/token"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/recera/ncc/cmd/ncc/internal/styling"
	"github.com/recera/ncc/cmd/ncc/internal/template"
)

// maxComponentDepth bounds nested component expansion.
const maxComponentDepth = 32

// bodyVar is the strings.Builder every handler renders into.
const bodyVar = "nccBody"

// reserved are the names generated rendering code refers to. Props of
// these names would hide them inside a component.
var reserved = map[string]bool{
	bodyVar:   true,
	"fmt":     true,
	"html":    true,
	"http":    true,
	"strings": true,
}

// emitter renders template nodes into Go statements that append HTML to
// bodyVar. Adjacent literal output is coalesced into a single WriteString
// call.
type emitter struct {
	g      *Generator
	code   strings.Builder
	lit    strings.Builder
	indent int
	slots  [][]template.Node
	depth  int
}

func newEmitter(g *Generator, indent int) *emitter {
	return &emitter{g: g, indent: indent}
}

func (e *emitter) String() string {
	e.flush()
	return e.code.String()
}

// flush writes pending literal HTML.
func (e *emitter) flush() {
	if e.lit.Len() == 0 {
		return
	}
	s := e.lit.String()
	e.lit.Reset()
	e.stmt(bodyVar + ".WriteString(" + strconv.Quote(s) + ")")
}

// stmt writes one Go statement at the current indent.
func (e *emitter) stmt(s string) {
	e.code.WriteString(strings.Repeat("\t", e.indent))
	e.code.WriteString(s)
	e.code.WriteString("\n")
}

// line flushes literal output and writes a formatted statement.
func (e *emitter) line(format string, args ...interface{}) {
	e.flush()
	e.stmt(fmt.Sprintf(format, args...))
}

var importRegex = regexp.MustCompile(`^\s*import\s+"([^"]+)"\s*;?\s*$`)

// verbatim copies embedded host code, one statement line per source line.
// Single-line import declarations are lifted into the module's imports.
func (e *emitter) verbatim(code string) {
	e.flush()
	for _, l := range strings.Split(strings.Trim(code, "\n"), "\n") {
		if m := importRegex.FindStringSubmatch(l); m != nil {
			e.g.imports[m[1]] = true
			continue
		}
		e.stmt(strings.TrimRight(l, " \t\r"))
	}
}

// expr writes an escaped dynamic value.
func (e *emitter) expr(x string) {
	e.line("%s.WriteString(html.EscapeString(fmt.Sprint(%s)))", bodyVar, x)
}

func (e *emitter) render(nodes []template.Node) error {
	for _, n := range nodes {
		if err := e.node(n); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) node(n template.Node) error {
	switch n := n.(type) {
	case *template.Text:
		e.lit.WriteString(n.Content)
	case *template.Interpolation:
		e.expr(string(n.Expr))
	case *template.Element:
		return e.element(n)
	case *template.For:
		if n.Var == "_" {
			e.line("for range %s {", n.Iter)
			e.indent++
		} else {
			e.line("for _, %s := range %s {", n.Var, n.Iter)
			e.indent++
			e.stmt("_ = " + n.Var)
		}
		if err := e.render(n.Children); err != nil {
			return err
		}
		e.flush()
		e.indent--
		e.stmt("}")
	case *template.If:
		e.line("if %s {", n.Cond)
		e.indent++
		if err := e.render(n.Children); err != nil {
			return err
		}
		e.flush()
		e.indent--
		e.stmt("}")
	case *template.Include:
		e.lit.WriteString("<!-- include: " + n.Path + " -->")
	case *template.Island:
		e.lit.WriteString(`<n-island src="` + attrEscape(n.Path) + `" data-hydrate="` + attrEscape(n.Directive) + `"`)
		var rest template.Attrs
		for _, a := range n.Attrs {
			if a.Name != "src" && !strings.HasPrefix(a.Name, "client:") {
				rest = append(rest, a)
			}
		}
		e.attrs(rest)
		e.lit.WriteString("></n-island>")
	case *template.Script:
		if !n.IsServer() {
			e.lit.WriteString(`<script type="module">` + n.Content + "</script>")
		}
	case *template.Style:
		e.lit.WriteString("<style>" + n.Content + "</style>")
	case *template.ScopedStyle:
		e.lit.WriteString("<style>" + styling.ScopeCSS(n.Content, n.ScopeID) + "</style>")
	case *template.Outlet:
		e.lit.WriteString("<!-- Outlet -->")
	case *template.Slot:
		if len(e.slots) > 0 {
			content := e.slots[len(e.slots)-1]
			e.slots = e.slots[:len(e.slots)-1]
			err := e.render(content)
			e.slots = append(e.slots, content)
			return err
		}
	case *template.ComponentUse:
		return e.component(n)
	case *template.Loader, *template.Action, *template.Spec, *template.Test,
		*template.Client, *template.Model, *template.Component:
		// Not rendered.
	default:
		return fmt.Errorf("cannot render %T", n)
	}
	return nil
}

func (e *emitter) element(el *template.Element) error {
	tag, attrs := el.Tag, el.Attrs
	switch tag {
	case template.ViewTag:
		return e.render(el.Children)
	case "n:image":
		tag = "img"
		if !attrs.Has("loading") {
			attrs = append(append(template.Attrs(nil), attrs...), template.Attr{Name: "loading", Value: "lazy"})
		}
	case "n:link":
		tag = "a"
		attrs = append(append(template.Attrs(nil), attrs...), template.Attr{Name: "data-nucleus-link", Value: "true"})
	}
	if ids := scopeIDs(el.Children); ids != "" {
		attrs = append(append(template.Attrs(nil), attrs...), template.Attr{Name: styling.ScopeAttr, Value: ids})
	}

	e.lit.WriteString("<" + tag)
	e.attrs(attrs)
	e.lit.WriteString(">")
	if template.IsVoid(tag) {
		return nil
	}
	if err := e.render(el.Children); err != nil {
		return err
	}
	e.lit.WriteString("</" + tag + ">")
	return nil
}

func (e *emitter) attrs(attrs template.Attrs) {
	for _, a := range attrs {
		switch {
		case !a.Expr && a.Value == "true":
			e.lit.WriteString(" " + a.Name)
		case a.Expr:
			e.lit.WriteString(" " + a.Name + `="`)
			e.expr(string(a.Code()))
			e.lit.WriteString(`"`)
		default:
			e.lit.WriteString(" " + a.Name + `="`)
			e.interpolated(a.Value)
			e.lit.WriteString(`"`)
		}
	}
}

var interpRegex = regexp.MustCompile(`\{\{(.*?)\}\}`)

// interpolated writes a literal attribute value, evaluating any {{ expr }}
// segments it contains.
func (e *emitter) interpolated(v string) {
	last := 0
	for _, m := range interpRegex.FindAllStringSubmatchIndex(v, -1) {
		e.lit.WriteString(attrEscape(v[last:m[0]]))
		e.expr(strings.TrimSpace(v[m[2]:m[3]]))
		last = m[1]
	}
	e.lit.WriteString(attrEscape(v[last:]))
}

// component inlines a component use as a Go block declaring each prop as a
// local variable.
func (e *emitter) component(use *template.ComponentUse) error {
	comp, ok := e.g.components[use.Name]
	if !ok {
		if atom.Lookup([]byte(strings.ToLower(use.Name))) != 0 {
			return fmt.Errorf("unknown component <%s>; tags starting with an uppercase letter are components, write HTML tags in lowercase", use.Name)
		}
		return fmt.Errorf("unknown component <%s>", use.Name)
	}
	if e.depth >= maxComponentDepth {
		return fmt.Errorf("component <%s> nested more than %d levels deep", use.Name, maxComponentDepth)
	}
	declared := make(map[string]bool, len(comp.Props))
	for _, p := range comp.Props {
		declared[p.Name] = true
	}
	for _, a := range use.Attrs {
		if !declared[a.Name] {
			return fmt.Errorf("component <%s> has no prop %q", use.Name, a.Name)
		}
	}

	e.line("{")
	e.indent++
	for _, p := range comp.Props {
		if !token.IsIdentifier(p.Name) {
			return fmt.Errorf("component <%s>: prop %q is not a valid identifier", use.Name, p.Name)
		}
		if reserved[p.Name] {
			return fmt.Errorf("component <%s>: prop %q would hide %s, which generated handlers use", use.Name, p.Name, p.Name)
		}
		var value string
		if a, ok := use.Attrs.Lookup(p.Name); ok {
			value = propValue(p.Type, a)
		} else if p.Default != nil {
			value = propValue(p.Type, template.Attr{Value: *p.Default})
		} else {
			return fmt.Errorf("component <%s> is missing required prop %q", use.Name, p.Name)
		}
		if typ := GoType(p.Type); typ != "" {
			e.stmt(fmt.Sprintf("var %s %s = %s", p.Name, typ, value))
		} else {
			e.stmt(fmt.Sprintf("%s := %s", p.Name, value))
		}
		e.stmt("_ = " + p.Name)
	}

	if comp.Style != "" {
		css := comp.Style
		if comp.Scoped {
			css = styling.ScopeCSS(css, template.ScopeID(comp.Style))
		}
		e.lit.WriteString("<style>" + css + "</style>")
	}
	if comp.Scoped {
		e.lit.WriteString(`<div ` + styling.ScopeAttr + `="` + template.ScopeID(comp.Style) + `" style="display:contents">`)
	}

	e.slots = append(e.slots, use.Children)
	e.depth++
	err := e.render(comp.Children)
	e.depth--
	e.slots = e.slots[:len(e.slots)-1]
	if err != nil {
		return err
	}

	if comp.Scoped {
		e.lit.WriteString("</div>")
	}
	e.flush()
	e.indent--
	e.stmt("}")
	return nil
}

// propValue converts an attribute value to a Go expression for a prop of
// the declared type. String literals are quoted; literals of other types
// are used as written.
func propValue(typ string, a template.Attr) string {
	if a.Expr {
		return string(a.Code())
	}
	switch GoType(typ) {
	case "", "string":
		return strconv.Quote(a.Value)
	}
	return a.Value
}

// scopeIDs returns the space-separated scope ids of scoped styles among
// children.
func scopeIDs(children []template.Node) string {
	var ids []string
	for _, c := range children {
		if s, ok := c.(*template.ScopedStyle); ok {
			ids = append(ids, s.ScopeID)
		}
	}
	return strings.Join(ids, " ")
}

func attrEscape(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}
