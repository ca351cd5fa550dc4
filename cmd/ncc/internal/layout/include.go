package layout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/recera/ncc/cmd/ncc/internal/template"
)

// MaxIncludeDepth bounds nested includes.
const MaxIncludeDepth = 16

// Resolver loads the tree an include refers to.
type Resolver func(path string, attrs template.Attrs) ([]template.Node, error)

// ExpandIncludes replaces every Include node with the tree returned by
// resolve, recursively. The input tree is not modified.
func ExpandIncludes(nodes []template.Node, resolve Resolver) ([]template.Node, error) {
	return expand(nodes, resolve, nil)
}

func expand(nodes []template.Node, resolve Resolver, stack []string) ([]template.Node, error) {
	if nodes == nil {
		return nil, nil
	}
	out := make([]template.Node, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *template.Include:
			for _, p := range stack {
				if p == n.Path {
					return nil, fmt.Errorf("include cycle: %s -> %s", strings.Join(stack, " -> "), n.Path)
				}
			}
			if len(stack) >= MaxIncludeDepth {
				return nil, fmt.Errorf("includes nested more than %d levels deep at %s", MaxIncludeDepth, n.Path)
			}
			included, err := resolve(n.Path, n.Attrs)
			if err != nil {
				return nil, fmt.Errorf("failed to include %s: %w", n.Path, err)
			}
			expanded, err := expand(included, resolve, append(stack[:len(stack):len(stack)], n.Path))
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		case *template.Element:
			children, err := expand(n.Children, resolve, stack)
			if err != nil {
				return nil, err
			}
			cp := *n
			cp.Children = children
			out = append(out, &cp)
		case *template.For:
			children, err := expand(n.Children, resolve, stack)
			if err != nil {
				return nil, err
			}
			cp := *n
			cp.Children = children
			out = append(out, &cp)
		case *template.If:
			children, err := expand(n.Children, resolve, stack)
			if err != nil {
				return nil, err
			}
			cp := *n
			cp.Children = children
			out = append(out, &cp)
		case *template.ComponentUse:
			children, err := expand(n.Children, resolve, stack)
			if err != nil {
				return nil, err
			}
			cp := *n
			cp.Children = children
			out = append(out, &cp)
		case *template.Component:
			children, err := expand(n.Children, resolve, stack)
			if err != nil {
				return nil, err
			}
			cp := *n
			cp.Children = children
			out = append(out, &cp)
		default:
			out = append(out, n)
		}
	}
	return out, nil
}

var placeholderRegex = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// SubstituteParams replaces {{ key }} placeholders in included source with
// the include's attribute values. An expression attribute becomes an
// interpolation of its expression. Placeholders without a matching attribute
// are left for the interpolation pass.
func SubstituteParams(src string, attrs template.Attrs) string {
	return placeholderRegex.ReplaceAllStringFunc(src, func(m string) string {
		key := placeholderRegex.FindStringSubmatch(m)[1]
		if key == "src" {
			return m
		}
		a, ok := attrs.Lookup(key)
		switch {
		case ok && a.Expr:
			return "{{ " + string(a.Code()) + " }}"
		case ok:
			return a.Value
		}
		return m
	})
}
