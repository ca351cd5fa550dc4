// Package codegen turns merged template trees into Go source: page and
// action handlers, model declarations, the server module, the client-logic
// bundle and the companion test file.
package codegen

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/recera/ncc/cmd/ncc/internal/template"
)

// DefaultRouterScript is the client router loaded by every view.
const DefaultRouterScript = "/static/js/router.js"

// Generator generates handler source for one file. Components visible to
// the file must be registered before generation.
type Generator struct {
	components   map[string]*template.Component
	imports      map[string]bool
	RouterScript string
	// ReloadScript, when set, is loaded by every view for live reload.
	ReloadScript string
}

// New creates a generator that knows the given components. The map is
// copied, so callers may share it across goroutines.
func New(components map[string]*template.Component) *Generator {
	g := &Generator{
		components:   make(map[string]*template.Component, len(components)),
		imports:      make(map[string]bool),
		RouterScript: DefaultRouterScript,
	}
	for name, c := range components {
		g.components[name] = c
	}
	return g
}

// Register makes c available to component uses. A later registration of the
// same name wins.
func (g *Generator) Register(c *template.Component) {
	g.components[c.Name] = c
}

// Imports returns the packages named by import lines in the embedded code
// generated so far, sorted.
func (g *Generator) Imports() []string {
	out := make([]string, 0, len(g.imports))
	for p := range g.imports {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Handler names a generated handler and the dynamic path segments it reads.
type Handler struct {
	Name   string
	Params []string
}

// ViewHandler generates the page handler of a view. The handler renders a
// complete HTML document around the view's children.
func (g *Generator) ViewHandler(h Handler, view *template.Element) (string, error) {
	e := newEmitter(g, 1)

	if protected, _ := view.Attrs.Get("protected"); protected == "true" {
		e.stmt(`if c, err := r.Cookie("session"); err != nil || c.Value == "" {`)
		e.stmt("\thttp.Redirect(w, r, \"/login\", http.StatusSeeOther)")
		e.stmt("\treturn")
		e.stmt("}")
	}
	g.prologue(e, h, "r.URL.Query()", view.Children)

	e.lit.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	e.lit.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	e.lit.WriteString("<title>")
	if title, ok := view.Attrs.Lookup("title"); ok {
		titleText(e, title)
	} else {
		e.lit.WriteString("Nucleus App")
	}
	e.lit.WriteString("</title>\n")
	if desc, ok := view.Attrs.Lookup("description"); ok {
		e.lit.WriteString(`<meta name="description" content="`)
		titleText(e, desc)
		e.lit.WriteString("\">\n")
	}
	e.lit.WriteString("</head>\n<body>\n")
	if err := e.render(view.Children); err != nil {
		return "", err
	}
	e.lit.WriteString("\n<script src=\"" + g.RouterScript + "\" type=\"module\"></script>\n")
	if g.ReloadScript != "" {
		e.lit.WriteString("<script src=\"" + g.ReloadScript + "\" defer></script>\n")
	}
	e.lit.WriteString("</body>\n</html>\n")
	epilogue(e)

	return handlerFunc(h.Name, e.String()), nil
}

// RawHandler generates a handler whose body is the whole node sequence,
// for files without a view container.
func (g *Generator) RawHandler(h Handler, nodes []template.Node) (string, error) {
	e := newEmitter(g, 1)
	g.prologue(e, h, "r.URL.Query()", nodes)
	if err := e.render(nodes); err != nil {
		return "", err
	}
	epilogue(e)
	return handlerFunc(h.Name, e.String()), nil
}

// ActionHandler generates the form handler running every action block in
// order.
func (g *Generator) ActionHandler(h Handler, actions []*template.Action) string {
	e := newEmitter(g, 1)
	e.stmt("if err := r.ParseForm(); err != nil {")
	e.stmt("\thttp.Error(w, err.Error(), http.StatusBadRequest)")
	e.stmt("\treturn")
	e.stmt("}")
	g.params(e, h, "r.PostForm")
	for _, a := range actions {
		e.verbatim(a.Code)
	}
	e.stmt(`w.Write([]byte("Action Completed"))`)
	return handlerFunc(h.Name, e.String())
}

// prologue declares request parameters and injects loaders and server
// scripts ahead of rendering.
func (g *Generator) prologue(e *emitter, h Handler, query string, nodes []template.Node) {
	g.params(e, h, query)
	template.Walk(nodes, func(n template.Node) bool {
		if l, ok := n.(*template.Loader); ok {
			e.verbatim(l.Code)
		}
		return true
	})
	template.Walk(nodes, func(n template.Node) bool {
		if s, ok := n.(*template.Script); ok && s.IsServer() {
			e.verbatim(s.Content)
		}
		return true
	})
	e.stmt("var " + bodyVar + " strings.Builder")
}

func (g *Generator) params(e *emitter, h Handler, query string) {
	e.stmt("params := " + query)
	e.stmt("_ = params")
	for _, p := range h.Params {
		e.stmt(fmt.Sprintf("%s := r.PathValue(%q)", p, p))
		e.stmt("_ = " + p)
	}
}

func epilogue(e *emitter) {
	e.flush()
	e.stmt(`w.Header().Set("Content-Type", "text/html; charset=utf-8")`)
	e.stmt("w.Write([]byte(" + bodyVar + ".String()))")
}

// titleText writes a head attribute value as text content.
func titleText(e *emitter, a template.Attr) {
	if a.Expr {
		e.expr(string(a.Code()))
		return
	}
	e.lit.WriteString(html.EscapeString(a.Value))
}

func handlerFunc(name, body string) string {
	return "func " + name + "(w http.ResponseWriter, r *http.Request) {\n" + body + "}\n"
}

// Model generates the struct declaration and methods of a model.
func Model(m *template.Model) string {
	var sb strings.Builder
	for _, a := range m.Annotations {
		sb.WriteString("// " + a + "\n")
	}
	fmt.Fprintf(&sb, "type %s struct {\n", exported(m.Name))
	for _, f := range m.Fields {
		typ := GoType(f.Type)
		if typ == "" {
			typ = "string"
		}
		fmt.Fprintf(&sb, "\t%s %s `json:%s`\n", exported(f.Name), typ, strconv.Quote(f.Name))
	}
	sb.WriteString("}\n")
	for _, method := range m.Methods {
		sb.WriteString("\n" + method + "\n")
	}
	return sb.String()
}

// GoType maps declared type names to Go types. Unknown names are returned
// as written.
func GoType(t string) string {
	switch strings.TrimSpace(t) {
	case "string", "String", "str":
		return "string"
	case "int", "i32", "Integer", "integer":
		return "int"
	case "long", "i64", "Long":
		return "int64"
	case "float", "f64", "double", "Float", "Double":
		return "float64"
	case "bool", "Boolean", "boolean":
		return "bool"
	}
	return strings.TrimSpace(t)
}

func exported(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
