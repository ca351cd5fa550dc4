package template

// AST node types for .ncl templates

// Node is the interface for all AST nodes. The concrete types below form a
// closed set; consumers switch on them.
type Node interface {
	node()
}

// Expr is embedded host-language source (a condition, an iterable, an
// interpolation). It is never parsed; generators copy it verbatim.
type Expr string

// Attr is a single attribute. Expression values ({expr} and {{expr}}) are
// stored as "{expr}" with Expr set; quoted values are literal text even
// when they are wrapped in braces.
type Attr struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	Expr  bool   `json:"expr,omitempty" yaml:"expr,omitempty"`
}

// Code returns the embedded expression of an expression attribute.
func (a Attr) Code() Expr {
	if !a.Expr || len(a.Value) < 2 {
		return ""
	}
	return Expr(a.Value[1 : len(a.Value)-1])
}

// Attrs is an ordered attribute list.
type Attrs []Attr

// Lookup returns the named attribute.
func (a Attrs) Lookup(name string) (Attr, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr, true
		}
	}
	return Attr{}, false
}

// Get returns the value of the named attribute.
func (a Attrs) Get(name string) (string, bool) {
	attr, ok := a.Lookup(name)
	return attr.Value, ok
}

// Has reports whether the named attribute is present.
func (a Attrs) Has(name string) bool {
	_, ok := a.Lookup(name)
	return ok
}

// Element represents an HTML element or a dialect tag without special
// handling (n:view, n:image, n:link, ...).
type Element struct {
	Tag         string
	Attrs       Attrs
	Children    []Node
	SelfClosing bool
}

// Text represents literal text, doctype and comments included.
type Text struct {
	Content string
}

// Interpolation represents {{ expr }}.
type Interpolation struct {
	Expr Expr
}

// For represents {% for Var in Iter %} ... {% endfor %}.
type For struct {
	Var      string
	Iter     Expr
	Children []Node
}

// If represents {% if Cond %} ... {% endif %}.
type If struct {
	Cond     Expr
	Children []Node
}

// Include represents <n:include src="..."/>.
type Include struct {
	Path  string
	Attrs Attrs
}

// Island represents <n:island src="..." client:visible/>.
type Island struct {
	Path      string
	Directive string
	Attrs     Attrs
}

// Loader is a server-side data loading block.
type Loader struct {
	Code string
}

// Action is a server-side form handling block.
type Action struct {
	Code string
}

// Spec holds test source scoped to the file.
type Spec struct {
	Code string
}

// Test holds test source scoped to the file.
type Test struct {
	Code string
}

// Client holds client-side logic compiled into the client bundle.
type Client struct {
	Code string
}

// Script represents <n:script>. Without a lang attribute, or with lang="go",
// its content is server code injected into the handler.
type Script struct {
	Content string
	Attrs   Attrs
}

// IsServer reports whether the script holds server code.
func (s *Script) IsServer() bool {
	lang, ok := s.Attrs.Get("lang")
	return !ok || lang == "go"
}

// Style represents <n:style>.
type Style struct {
	Content string
}

// ScopedStyle represents <style scoped>. ScopeID is derived from Content.
type ScopedStyle struct {
	Content string
	ScopeID string
}

// Outlet is the layout insertion point.
type Outlet struct{}

// Slot is a named or default insertion point.
type Slot struct {
	Name string
}

// Prop is a declared component property.
type Prop struct {
	Name     string  `json:"name" yaml:"name"`
	Type     string  `json:"type" yaml:"type"`
	Default  *string `json:"default,omitempty" yaml:"default,omitempty"`
	Required bool    `json:"required" yaml:"required"`
}

// Component is a component declaration.
type Component struct {
	Name     string
	Props    []Prop
	Children []Node
	Style    string
	Scoped   bool
}

// ComponentUse is a <PascalCase> tag referring to a Component.
type ComponentUse struct {
	Name     string
	Attrs    Attrs
	Children []Node
}

// Field is a model field.
type Field struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Model is a data model declaration.
type Model struct {
	Name        string
	Fields      []Field
	Methods     []string
	Annotations []string
}

func (*Element) node()       {}
func (*Text) node()          {}
func (*Interpolation) node() {}
func (*For) node()           {}
func (*If) node()            {}
func (*Include) node()       {}
func (*Island) node()        {}
func (*Loader) node()        {}
func (*Action) node()        {}
func (*Spec) node()          {}
func (*Test) node()          {}
func (*Client) node()        {}
func (*Script) node()        {}
func (*Style) node()         {}
func (*ScopedStyle) node()   {}
func (*Outlet) node()        {}
func (*Slot) node()          {}
func (*Component) node()     {}
func (*ComponentUse) node()  {}
func (*Model) node()         {}

// ViewTag is the tag of the view container element.
const ViewTag = "n:view"

// IsView reports whether n is a view container.
func IsView(n Node) bool {
	el, ok := n.(*Element)
	return ok && el.Tag == ViewTag
}

// Children returns the child list of container nodes, or nil.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Element:
		return n.Children
	case *For:
		return n.Children
	case *If:
		return n.Children
	case *Component:
		return n.Children
	case *ComponentUse:
		return n.Children
	}
	return nil
}

// Walk calls fn for every node in depth-first source order. Returning false
// from fn skips the node's children.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if fn(n) {
			Walk(Children(n), fn)
		}
	}
}
