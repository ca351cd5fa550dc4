package template

import (
	"strings"
)

// parseProps parses a <n:props> body. Each non-empty line declares one
// property as `name: Type` or `name: Type = default`.
func parseProps(body string) []Prop {
	var props []Prop
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(strings.TrimSpace(line), ",;")
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		name, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		prop := Prop{Name: strings.TrimSpace(name)}
		typ, def, hasDefault := strings.Cut(rest, "=")
		prop.Type = strings.TrimSpace(typ)
		if hasDefault {
			d := unquote(strings.TrimSpace(def))
			prop.Default = &d
		}
		prop.Required = prop.Default == nil
		props = append(props, prop)
	}
	return props
}

// parseModelBody fills m from the raw body of an <n:model> block. Lines
// starting with "#[" or "@" are annotations, "func " opens a method that
// runs until its braces balance, and `name: type` lines are fields.
func (p *Parser) parseModelBody(m *Model, body string, offset int) error {
	var (
		method []string
		depth  int
		opened bool
	)
	lineStart := offset
	for _, raw := range strings.SplitAfter(body, "\n") {
		at := lineStart
		lineStart += len(raw)
		line := strings.TrimSpace(raw)

		if method != nil {
			method = append(method, line)
			depth += strings.Count(line, "{") - strings.Count(line, "}")
			if depth > 0 || strings.Contains(line, "{") {
				opened = true
			}
			if opened && depth <= 0 {
				m.Methods = append(m.Methods, strings.Join(method, "\n"))
				method, depth, opened = nil, 0, false
			}
			continue
		}

		switch {
		case line == "" || strings.HasPrefix(line, "//"):
		case strings.HasPrefix(line, "#[") || strings.HasPrefix(line, "@"):
			m.Annotations = append(m.Annotations, line)
		case strings.HasPrefix(line, "func "):
			method = []string{line}
			depth = strings.Count(line, "{") - strings.Count(line, "}")
			opened = strings.Contains(line, "{")
			if opened && depth <= 0 {
				m.Methods = append(m.Methods, line)
				method, depth, opened = nil, 0, false
			}
		default:
			name, typ, found := strings.Cut(strings.TrimRight(line, ",;"), ":")
			name, typ = strings.TrimSpace(name), strings.TrimSpace(typ)
			if !found || !isIdentifier(name) || typ == "" {
				end := at + len(strings.TrimRight(raw, "\r\n"))
				return p.fail(KindMalformedModel, at, end, "expected `name: type` in model %s", m.Name)
			}
			m.Fields = append(m.Fields, Field{Name: name, Type: typ})
		}
	}
	if method != nil {
		return p.fail(KindUnterminated, lineStart-len(body), lineStart, "unterminated method in model %s", m.Name)
	}
	return nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}
