// Package layout merges a view with the layout file of its directory.
package layout

import (
	"github.com/recera/ncc/cmd/ncc/internal/template"
)

// FileName is the stem of a layout file. Layouts are never routes.
const FileName = "layout"

// Merge substitutes the content's UI nodes into every Outlet and Slot of the
// layout. Loader and Action nodes are kept out of the insertion points and
// appended once to the first top-level view of the result, or to the root
// when the result has no view. Top-level declarations of the content (models,
// components, tests, client blocks) are kept at the root. Neither input is
// modified.
func Merge(layoutNodes, contentNodes []template.Node) []template.Node {
	var (
		viewAttrs template.Attrs
		unwrapped []template.Node
		decls     []template.Node
		seenView  bool
	)

	// Step 1: unwrap the view container
	for _, n := range contentNodes {
		switch {
		case template.IsView(n) && !seenView:
			el := n.(*template.Element)
			seenView = true
			viewAttrs = el.Attrs
			unwrapped = append(unwrapped, el.Children...)
		case isDeclaration(n):
			decls = append(decls, n)
		default:
			unwrapped = append(unwrapped, n)
		}
	}

	// Step 2: partition meta from UI
	var meta, ui []template.Node
	for _, n := range unwrapped {
		if IsMeta(n) {
			meta = append(meta, n)
		} else {
			ui = append(ui, n)
		}
	}

	// Step 3: replace insertion points
	merged := substitute(layoutNodes, ui)

	// Step 4: re-attach meta
	for _, n := range merged {
		if !template.IsView(n) {
			continue
		}
		view := n.(*template.Element)
		view.Attrs = mergeAttrs(view.Attrs, viewAttrs)
		view.Children = append(view.Children, meta...)
		meta = nil
		break
	}
	merged = append(merged, meta...)
	return append(merged, decls...)
}

// IsMeta reports whether n is server logic rather than renderable UI.
func IsMeta(n template.Node) bool {
	switch n.(type) {
	case *template.Loader, *template.Action:
		return true
	}
	return false
}

func isDeclaration(n template.Node) bool {
	switch n.(type) {
	case *template.Model, *template.Component, *template.Spec, *template.Test, *template.Client:
		return true
	}
	return false
}

// substitute copies nodes, replacing every Outlet and Slot with ui. Component
// declarations are left alone since their slots belong to component uses.
func substitute(nodes, ui []template.Node) []template.Node {
	out := make([]template.Node, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *template.Outlet, *template.Slot:
			out = append(out, ui...)
		case *template.Element:
			cp := *n
			cp.Attrs = append(template.Attrs(nil), n.Attrs...)
			cp.Children = substitute(n.Children, ui)
			out = append(out, &cp)
		case *template.For:
			cp := *n
			cp.Children = substitute(n.Children, ui)
			out = append(out, &cp)
		case *template.If:
			cp := *n
			cp.Children = substitute(n.Children, ui)
			out = append(out, &cp)
		case *template.ComponentUse:
			cp := *n
			cp.Children = substitute(n.Children, ui)
			out = append(out, &cp)
		default:
			out = append(out, n)
		}
	}
	return out
}

// mergeAttrs overlays content attributes on the layout's view attributes.
func mergeAttrs(base, overlay template.Attrs) template.Attrs {
	out := append(template.Attrs(nil), base...)
	for _, a := range overlay {
		replaced := false
		for i := range out {
			if out[i].Name == a.Name {
				out[i] = a
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, a)
		}
	}
	return out
}

// Preconnect appends <link rel="preconnect"> elements for origins to the
// first <head> element of nodes. Nodes without a head are returned as is.
// The input is not modified.
func Preconnect(nodes []template.Node, origins []string) []template.Node {
	if len(origins) == 0 {
		return nodes
	}
	out, _ := injectHead(nodes, origins)
	return out
}

// injectHead copies the path down to the first head element only.
func injectHead(nodes []template.Node, origins []string) ([]template.Node, bool) {
	for i, n := range nodes {
		el, ok := n.(*template.Element)
		if !ok {
			continue
		}
		cp := *el
		if el.Tag == "head" {
			cp.Children = append([]template.Node(nil), el.Children...)
			for _, o := range origins {
				cp.Children = append(cp.Children, &template.Element{
					Tag: "link",
					Attrs: template.Attrs{
						{Name: "rel", Value: "preconnect"},
						{Name: "href", Value: o},
						{Name: "crossorigin", Value: "true"},
					},
					SelfClosing: true,
				})
			}
		} else {
			children, found := injectHead(el.Children, origins)
			if !found {
				continue
			}
			cp.Children = children
		}
		out := append([]template.Node(nil), nodes...)
		out[i] = &cp
		return out, true
	}
	return nodes, false
}
