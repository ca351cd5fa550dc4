package styling

import (
	"strings"
)

// ScopeAttr is the attribute carrying scope ids on rendered elements.
const ScopeAttr = "data-n-scope"

// ScopeSelector returns the attribute selector matching scopeID.
func ScopeSelector(scopeID string) string {
	return "[" + ScopeAttr + `~="` + scopeID + `"]`
}

// ScopeCSS prefixes every rule's selectors with the scope selector so they
// only match inside an element carrying the scope id. Rules nested in
// @media and @supports are scoped too; other at-rules are kept verbatim.
func ScopeCSS(css, scopeID string) string {
	var sb strings.Builder
	scopeRules(&sb, css, ScopeSelector(scopeID))
	return sb.String()
}

func scopeRules(sb *strings.Builder, css, prefix string) {
	for {
		open := strings.IndexByte(css, '{')
		if open < 0 {
			sb.WriteString(css)
			return
		}
		end := matchBrace(css, open)
		if end < 0 {
			sb.WriteString(css)
			return
		}
		prelude, body := css[:open], css[open+1:end]
		sel := strings.TrimSpace(prelude)
		lead := prelude[:len(prelude)-len(strings.TrimLeft(prelude, " \t\r\n"))]

		switch {
		case strings.HasPrefix(sel, "@media"), strings.HasPrefix(sel, "@supports"):
			sb.WriteString(prelude + "{")
			scopeRules(sb, body, prefix)
			sb.WriteString("}")
		case strings.HasPrefix(sel, "@"):
			sb.WriteString(css[:end+1])
		default:
			parts := strings.Split(sel, ",")
			for i, p := range parts {
				parts[i] = prefix + " " + strings.TrimSpace(p)
			}
			sb.WriteString(lead + strings.Join(parts, ", ") + " {" + body + "}")
		}
		css = css[end+1:]
	}
}

// matchBrace returns the index of the brace closing the one at open.
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
