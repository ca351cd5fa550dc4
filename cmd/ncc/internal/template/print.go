package template

import (
	"fmt"
	"strings"
)

// Print serializes nodes back to template source.
func Print(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		printNode(&sb, n)
	}
	return sb.String()
}

func printNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Text:
		sb.WriteString(n.Content)
	case *Interpolation:
		fmt.Fprintf(sb, "{{ %s }}", n.Expr)
	case *Element:
		openTag(sb, n.Tag, n.Attrs, n.SelfClosing)
		if n.SelfClosing {
			return
		}
		for _, c := range n.Children {
			printNode(sb, c)
		}
		fmt.Fprintf(sb, "</%s>", n.Tag)
	case *For:
		fmt.Fprintf(sb, "{%% for %s in %s %%}", n.Var, n.Iter)
		for _, c := range n.Children {
			printNode(sb, c)
		}
		sb.WriteString("{% endfor %}")
	case *If:
		fmt.Fprintf(sb, "{%% if %s %%}", n.Cond)
		for _, c := range n.Children {
			printNode(sb, c)
		}
		sb.WriteString("{% endif %}")
	case *Include:
		openTag(sb, "n:include", n.Attrs, true)
	case *Island:
		openTag(sb, "n:island", n.Attrs, true)
	case *Loader:
		rawBlock(sb, "n:loader", nil, n.Code)
	case *Action:
		rawBlock(sb, "n:action", nil, n.Code)
	case *Spec:
		rawBlock(sb, "n:spec", nil, n.Code)
	case *Test:
		rawBlock(sb, "n:test", nil, n.Code)
	case *Client:
		rawBlock(sb, "n:client", nil, n.Code)
	case *Script:
		rawBlock(sb, "n:script", n.Attrs, n.Content)
	case *Style:
		rawBlock(sb, "n:style", nil, n.Content)
	case *ScopedStyle:
		rawBlock(sb, "style", Attrs{{Name: "scoped", Value: "true"}}, n.Content)
	case *Outlet:
		sb.WriteString("<n:outlet/>")
	case *Slot:
		if n.Name == "" {
			sb.WriteString("<n:slot/>")
		} else {
			fmt.Fprintf(sb, "<n:slot name=%s/>", quoteAttr(n.Name))
		}
	case *Component:
		fmt.Fprintf(sb, "<n:component name=%s>", quoteAttr(n.Name))
		if len(n.Props) > 0 {
			sb.WriteString("<n:props>\n")
			for _, prop := range n.Props {
				fmt.Fprintf(sb, "%s: %s", prop.Name, prop.Type)
				if prop.Default != nil {
					sb.WriteString(" = " + quoteAttr(*prop.Default))
				}
				sb.WriteString("\n")
			}
			sb.WriteString("</n:props>")
		}
		for _, c := range n.Children {
			printNode(sb, c)
		}
		if n.Style != "" {
			var attrs Attrs
			if n.Scoped {
				attrs = Attrs{{Name: "scoped", Value: "true"}}
			}
			rawBlock(sb, "style", attrs, n.Style)
		}
		sb.WriteString("</n:component>")
	case *ComponentUse:
		openTag(sb, n.Name, n.Attrs, len(n.Children) == 0)
		if len(n.Children) == 0 {
			return
		}
		for _, c := range n.Children {
			printNode(sb, c)
		}
		fmt.Fprintf(sb, "</%s>", n.Name)
	case *Model:
		fmt.Fprintf(sb, "<n:model name=%s>\n", quoteAttr(n.Name))
		for _, a := range n.Annotations {
			sb.WriteString(a + "\n")
		}
		for _, f := range n.Fields {
			fmt.Fprintf(sb, "%s: %s\n", f.Name, f.Type)
		}
		for _, m := range n.Methods {
			sb.WriteString(m + "\n")
		}
		sb.WriteString("</n:model>")
	}
}

func openTag(sb *strings.Builder, tag string, attrs Attrs, self bool) {
	sb.WriteString("<" + tag)
	for _, a := range attrs {
		sb.WriteString(" " + a.Name)
		switch {
		case a.Expr:
			sb.WriteString("=" + a.Value)
		case a.Value != "true":
			sb.WriteString("=" + quoteAttr(a.Value))
		}
	}
	if self {
		sb.WriteString("/>")
	} else {
		sb.WriteString(">")
	}
}

func rawBlock(sb *strings.Builder, tag string, attrs Attrs, body string) {
	openTag(sb, tag, attrs, false)
	sb.WriteString(body)
	fmt.Fprintf(sb, "</%s>", tag)
}

// quoteAttr quotes an attribute value with double quotes, or single quotes
// when the value itself contains a double quote.
func quoteAttr(v string) string {
	if strings.Contains(v, `"`) {
		return "'" + v + "'"
	}
	return `"` + v + `"`
}
