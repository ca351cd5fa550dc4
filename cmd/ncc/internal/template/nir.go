package template

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// NIRVersion is the version of the intermediate representation dump.
const NIRVersion = "1.0.0"

// NIR is a serializable snapshot of a parsed tree.
type NIR struct {
	Version string    `json:"version" yaml:"version"`
	Nodes   []NIRNode `json:"nodes" yaml:"nodes"`
}

// NIRNode is the serializable form of a single Node.
type NIRNode struct {
	Kind        string    `json:"kind" yaml:"kind"`
	Tag         string    `json:"tag,omitempty" yaml:"tag,omitempty"`
	Name        string    `json:"name,omitempty" yaml:"name,omitempty"`
	Path        string    `json:"path,omitempty" yaml:"path,omitempty"`
	Directive   string    `json:"directive,omitempty" yaml:"directive,omitempty"`
	Var         string    `json:"var,omitempty" yaml:"var,omitempty"`
	Expr        string    `json:"expr,omitempty" yaml:"expr,omitempty"`
	Content     string    `json:"content,omitempty" yaml:"content,omitempty"`
	ScopeID     string    `json:"scopeId,omitempty" yaml:"scopeId,omitempty"`
	SelfClosing bool      `json:"selfClosing,omitempty" yaml:"selfClosing,omitempty"`
	Scoped      bool      `json:"scoped,omitempty" yaml:"scoped,omitempty"`
	Attrs       Attrs     `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Props       []Prop    `json:"props,omitempty" yaml:"props,omitempty"`
	Fields      []Field   `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods     []string  `json:"methods,omitempty" yaml:"methods,omitempty"`
	Annotations []string  `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Children    []NIRNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// ToNIR converts a tree to its serializable form.
func ToNIR(nodes []Node) NIR {
	return NIR{Version: NIRVersion, Nodes: toNIRNodes(nodes)}
}

// Dump serializes a tree as "json" or "yaml".
func Dump(nodes []Node, format string) ([]byte, error) {
	ir := ToNIR(nodes)
	switch format {
	case "", "json":
		return json.MarshalIndent(ir, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(ir)
	default:
		return nil, fmt.Errorf("unknown NIR format %q", format)
	}
}

func toNIRNodes(nodes []Node) []NIRNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]NIRNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, toNIRNode(n))
	}
	return out
}

func toNIRNode(n Node) NIRNode {
	switch n := n.(type) {
	case *Element:
		return NIRNode{Kind: "element", Tag: n.Tag, Attrs: n.Attrs, SelfClosing: n.SelfClosing, Children: toNIRNodes(n.Children)}
	case *Text:
		return NIRNode{Kind: "text", Content: n.Content}
	case *Interpolation:
		return NIRNode{Kind: "interpolation", Expr: string(n.Expr)}
	case *For:
		return NIRNode{Kind: "for", Var: n.Var, Expr: string(n.Iter), Children: toNIRNodes(n.Children)}
	case *If:
		return NIRNode{Kind: "if", Expr: string(n.Cond), Children: toNIRNodes(n.Children)}
	case *Include:
		return NIRNode{Kind: "include", Path: n.Path, Attrs: n.Attrs}
	case *Island:
		return NIRNode{Kind: "island", Path: n.Path, Directive: n.Directive, Attrs: n.Attrs}
	case *Loader:
		return NIRNode{Kind: "loader", Content: n.Code}
	case *Action:
		return NIRNode{Kind: "action", Content: n.Code}
	case *Spec:
		return NIRNode{Kind: "spec", Content: n.Code}
	case *Test:
		return NIRNode{Kind: "test", Content: n.Code}
	case *Client:
		return NIRNode{Kind: "client", Content: n.Code}
	case *Script:
		return NIRNode{Kind: "script", Content: n.Content, Attrs: n.Attrs}
	case *Style:
		return NIRNode{Kind: "style", Content: n.Content}
	case *ScopedStyle:
		return NIRNode{Kind: "scopedStyle", Content: n.Content, ScopeID: n.ScopeID}
	case *Outlet:
		return NIRNode{Kind: "outlet"}
	case *Slot:
		return NIRNode{Kind: "slot", Name: n.Name}
	case *Component:
		return NIRNode{Kind: "component", Name: n.Name, Props: n.Props, Content: n.Style, Scoped: n.Scoped, Children: toNIRNodes(n.Children)}
	case *ComponentUse:
		return NIRNode{Kind: "componentUse", Name: n.Name, Attrs: n.Attrs, Children: toNIRNodes(n.Children)}
	case *Model:
		return NIRNode{Kind: "model", Name: n.Name, Fields: n.Fields, Methods: n.Methods, Annotations: n.Annotations}
	}
	return NIRNode{Kind: fmt.Sprintf("%T", n)}
}
