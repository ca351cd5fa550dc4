package template

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/recera/ncc/cmd/ncc/internal/diag"
)

// Error kinds reported by the parser.
const (
	KindUnterminated      = "unterminated"
	KindUnclosedBlock     = "unclosed-block"
	KindMismatchedClose   = "mismatched-close"
	KindMalformedFor      = "malformed-for"
	KindMalformedIf       = "malformed-if"
	KindMalformedTag      = "malformed-tag"
	KindMalformedModel    = "malformed-model"
	KindMissingAttribute  = "missing-attribute"
	KindEmptyExpression   = "empty-expression"
	KindUnexpectedContent = "unexpected-content"
)

// Parser is a backtracking recursive descent parser for .ncl templates.
// Each recognizer either matches and advances, declines and leaves the
// position untouched, or fails with a *diag.Error.
type Parser struct {
	name  string
	input string
	pos   int
}

// recognizer is one alternative of the node grammar.
type recognizer func(p *Parser) (Node, bool, error)

// recognizers in priority order: raw-capture forms, dialect control and
// meta forms, declarative blocks, then the generic fallbacks.
var recognizers []recognizer

func init() {
	recognizers = []recognizer{
		(*Parser).doctype,
		(*Parser).comment,
		(*Parser).dialectScript,
		(*Parser).htmlScript,
		(*Parser).scopedStyle,
		(*Parser).dialectStyle,
		(*Parser).htmlStyle,

		(*Parser).spec,
		(*Parser).test,
		(*Parser).client,
		(*Parser).interpolation,
		(*Parser).forBlock,
		(*Parser).ifBlock,
		(*Parser).include,

		(*Parser).island,
		(*Parser).loader,
		(*Parser).action,
		(*Parser).outlet,
		(*Parser).slot,
		(*Parser).component,
		(*Parser).componentUse,

		(*Parser).model,
		(*Parser).element,
		(*Parser).text,
		(*Parser).looseBrace,
	}
}

// NewParser creates a parser for the named source.
func NewParser(name, input string) *Parser {
	return &Parser{name: name, input: input}
}

// Parse parses a whole document.
func Parse(name, source string) ([]Node, error) {
	return NewParser(name, source).Parse()
}

// Parse parses the entire input. Unconsumed non-whitespace input is an error.
func (p *Parser) Parse() ([]Node, error) {
	nodes, _, err := p.parseNodes(nil)
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if !p.eof() {
		return nil, p.fail(KindUnexpectedContent, p.pos, len(p.input), "unexpected content %q", p.snippet(p.pos))
	}
	return nodes, nil
}

// parseNodes parses nodes until term matches (consuming the terminator), no
// recognizer matches, or the input ends. closed reports whether term matched.
func (p *Parser) parseNodes(term func() bool) (nodes []Node, closed bool, err error) {
	for {
		start := p.pos
		p.skipWhitespace()
		if term != nil && term() {
			return nodes, true, nil
		}
		if p.eof() {
			return nodes, false, nil
		}
		p.pos = start

		n, ok, err := p.parseNode()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			p.pos = start
			return nodes, false, nil
		}
		if n != nil {
			nodes = append(nodes, n)
		}
	}
}

// parseNode tries every recognizer in order.
func (p *Parser) parseNode() (Node, bool, error) {
	for _, r := range recognizers {
		start := p.pos
		n, ok, err := r(p)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return n, true, nil
		}
		p.pos = start
	}
	return nil, false, nil
}

// Structural forms

func (p *Parser) doctype() (Node, bool, error) {
	if !p.peekFold("<!doctype") {
		return nil, false, nil
	}
	start := p.pos
	end, err := p.until(">", start, "<!DOCTYPE")
	if err != nil {
		return nil, false, err
	}
	return &Text{Content: p.input[start:end]}, true, nil
}

func (p *Parser) comment() (Node, bool, error) {
	start := p.pos
	if !p.consume("<!--") {
		return nil, false, nil
	}
	end, err := p.until("-->", start, "<!--")
	if err != nil {
		return nil, false, err
	}
	return &Text{Content: p.input[start:end]}, true, nil
}

func (p *Parser) dialectScript() (Node, bool, error) {
	start := p.pos
	attrs, self, ok, err := p.openTag("n:script")
	if !ok || err != nil {
		return nil, false, err
	}
	if self {
		return &Script{Attrs: attrs}, true, nil
	}
	content, err := p.rawUntil("n:script", start)
	if err != nil {
		return nil, false, err
	}
	return &Script{Content: content, Attrs: attrs}, true, nil
}

func (p *Parser) htmlScript() (Node, bool, error) {
	return p.rawElement("script")
}

func (p *Parser) htmlStyle() (Node, bool, error) {
	return p.rawElement("style")
}

// rawElement parses an HTML element whose body is captured verbatim as a
// single Text child.
func (p *Parser) rawElement(tag string) (Node, bool, error) {
	start := p.pos
	attrs, self, ok, err := p.openTag(tag)
	if !ok || err != nil {
		return nil, false, err
	}
	el := &Element{Tag: tag, Attrs: attrs}
	if self {
		el.SelfClosing = true
		return el, true, nil
	}
	content, err := p.rawUntil(tag, start)
	if err != nil {
		return nil, false, err
	}
	if content != "" {
		el.Children = []Node{&Text{Content: content}}
	}
	return el, true, nil
}

func (p *Parser) scopedStyle() (Node, bool, error) {
	start := p.pos
	attrs, self, ok, err := p.openTag("style")
	if !ok || err != nil {
		return nil, false, err
	}
	if !attrs.Has("scoped") {
		return nil, false, nil
	}
	var content string
	if !self {
		if content, err = p.rawUntil("style", start); err != nil {
			return nil, false, err
		}
	}
	return &ScopedStyle{Content: content, ScopeID: ScopeID(content)}, true, nil
}

func (p *Parser) dialectStyle() (Node, bool, error) {
	content, ok, err := p.rawBlock("n:style")
	if !ok || err != nil {
		return nil, false, err
	}
	return &Style{Content: content}, true, nil
}

// ScopeID derives the scope identifier of a scoped style from its content.
func ScopeID(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "nc" + hex.EncodeToString(sum[:])[:6]
}

// Dialect control and meta forms

func (p *Parser) spec() (Node, bool, error) {
	code, ok, err := p.rawBlock("n:spec")
	if !ok || err != nil {
		return nil, false, err
	}
	return &Spec{Code: code}, true, nil
}

func (p *Parser) test() (Node, bool, error) {
	code, ok, err := p.rawBlock("n:test")
	if !ok || err != nil {
		return nil, false, err
	}
	return &Test{Code: code}, true, nil
}

func (p *Parser) client() (Node, bool, error) {
	code, ok, err := p.rawBlock("n:client")
	if !ok || err != nil {
		return nil, false, err
	}
	return &Client{Code: code}, true, nil
}

func (p *Parser) loader() (Node, bool, error) {
	code, ok, err := p.rawBlock("n:loader")
	if !ok || err != nil {
		return nil, false, err
	}
	return &Loader{Code: code}, true, nil
}

func (p *Parser) action() (Node, bool, error) {
	code, ok, err := p.rawBlock("n:action")
	if !ok || err != nil {
		return nil, false, err
	}
	return &Action{Code: code}, true, nil
}

func (p *Parser) interpolation() (Node, bool, error) {
	start := p.pos
	if !p.consume("{{") {
		return nil, false, nil
	}
	end, err := p.until("}}", start, "{{")
	if err != nil {
		return nil, false, err
	}
	expr := strings.TrimSpace(p.input[start+2 : end-2])
	if expr == "" {
		return nil, false, p.fail(KindEmptyExpression, start, end, "empty interpolation")
	}
	return &Interpolation{Expr: Expr(expr)}, true, nil
}

func (p *Parser) forBlock() (Node, bool, error) {
	start := p.pos
	header, ok, err := p.blockOpen("for")
	if !ok || err != nil {
		return nil, false, err
	}
	openEnd := p.pos

	fields := strings.Fields(header)
	if len(fields) < 3 || fields[1] != "in" || !isIdentifier(fields[0]) {
		return nil, false, p.fail(KindMalformedFor, start, openEnd, "expected {%% for <name> in <expr> %%}")
	}
	inAt := strings.Index(header, " in ")
	if inAt < 0 {
		return nil, false, p.fail(KindMalformedFor, start, openEnd, "expected {%% for <name> in <expr> %%}")
	}
	node := &For{Var: fields[0], Iter: Expr(strings.TrimSpace(header[inAt+4:]))}

	children, closed, err := p.parseNodes(func() bool { return p.blockClose("endfor") })
	if err != nil {
		return nil, false, err
	}
	if !closed {
		return nil, false, p.fail(KindUnclosedBlock, start, openEnd, "unclosed {%% for %%} block, expected {%% endfor %%}")
	}
	node.Children = children
	return node, true, nil
}

func (p *Parser) ifBlock() (Node, bool, error) {
	start := p.pos
	cond, ok, err := p.blockOpen("if")
	if !ok || err != nil {
		return nil, false, err
	}
	openEnd := p.pos
	if cond == "" {
		return nil, false, p.fail(KindMalformedIf, start, openEnd, "expected {%% if <expr> %%}")
	}

	children, closed, err := p.parseNodes(func() bool { return p.blockClose("endif") })
	if err != nil {
		return nil, false, err
	}
	if !closed {
		return nil, false, p.fail(KindUnclosedBlock, start, openEnd, "unclosed {%% if %%} block, expected {%% endif %%}")
	}
	return &If{Cond: Expr(cond), Children: children}, true, nil
}

func (p *Parser) include() (Node, bool, error) {
	start := p.pos
	attrs, ok, err := p.directive("n:include")
	if !ok || err != nil {
		return nil, false, err
	}
	src, found := attrs.Get("src")
	if !found || src == "" {
		return nil, false, p.fail(KindMissingAttribute, start, p.pos, "<n:include> requires a src attribute")
	}
	return &Include{Path: src, Attrs: attrs}, true, nil
}

func (p *Parser) island() (Node, bool, error) {
	start := p.pos
	attrs, ok, err := p.directive("n:island")
	if !ok || err != nil {
		return nil, false, err
	}
	src, found := attrs.Get("src")
	if !found || src == "" {
		return nil, false, p.fail(KindMissingAttribute, start, p.pos, "<n:island> requires a src attribute")
	}
	directive := "load"
	for _, a := range attrs {
		if strings.HasPrefix(a.Name, "client:") {
			directive = strings.TrimPrefix(a.Name, "client:")
			break
		}
	}
	return &Island{Path: src, Directive: directive, Attrs: attrs}, true, nil
}

func (p *Parser) outlet() (Node, bool, error) {
	_, ok, err := p.directive("n:outlet")
	if !ok || err != nil {
		return nil, false, err
	}
	return &Outlet{}, true, nil
}

func (p *Parser) slot() (Node, bool, error) {
	attrs, ok, err := p.directive("n:slot")
	if !ok || err != nil {
		return nil, false, err
	}
	name, _ := attrs.Get("name")
	return &Slot{Name: name}, true, nil
}

// Declarative blocks

func (p *Parser) component() (Node, bool, error) {
	start := p.pos
	attrs, self, ok, err := p.openTag("n:component")
	if !ok || err != nil {
		return nil, false, err
	}
	openEnd := p.pos
	name, _ := attrs.Get("name")
	if name == "" {
		name = "Anonymous"
	}
	comp := &Component{Name: name}
	if self {
		return comp, true, nil
	}

	// Optional props block before the body.
	mark := p.pos
	p.skipWhitespace()
	propsStart := p.pos
	if _, _, ok, err := p.openTag("n:props"); err != nil {
		return nil, false, err
	} else if ok {
		raw, err := p.rawUntil("n:props", propsStart)
		if err != nil {
			return nil, false, err
		}
		comp.Props = parseProps(raw)
	} else {
		p.pos = mark
	}

	children, closed, err := p.parseNodes(func() bool { return p.closeTag("n:component") })
	if err != nil {
		return nil, false, err
	}
	if !closed {
		return nil, false, p.closeError(start, openEnd, "n:component")
	}

	// Direct style children belong to the component, not its markup.
	for _, child := range children {
		switch c := child.(type) {
		case *ScopedStyle:
			comp.Style, comp.Scoped = c.Content, true
		case *Element:
			if c.Tag == "style" {
				comp.Style = textContent(c.Children)
				continue
			}
			comp.Children = append(comp.Children, c)
		default:
			comp.Children = append(comp.Children, c)
		}
	}
	return comp, true, nil
}

// componentUse matches any tag starting with an uppercase letter, so <DIV>
// is a component use rather than an element. Codegen reports unknown names.
func (p *Parser) componentUse() (Node, bool, error) {
	start := p.pos
	if !p.consume("<") || p.eof() || !isUpper(p.input[p.pos]) {
		return nil, false, nil
	}
	name := p.identifier()
	attrs, self, err := p.tagRest(start)
	if err != nil {
		return nil, false, err
	}
	openEnd := p.pos
	use := &ComponentUse{Name: name, Attrs: attrs}
	if self {
		return use, true, nil
	}
	children, closed, err := p.parseNodes(func() bool { return p.closeTag(name) })
	if err != nil {
		return nil, false, err
	}
	if !closed {
		return nil, false, p.closeError(start, openEnd, name)
	}
	use.Children = children
	return use, true, nil
}

func (p *Parser) model() (Node, bool, error) {
	start := p.pos
	attrs, self, ok, err := p.openTag("n:model")
	if !ok || err != nil {
		return nil, false, err
	}
	name, _ := attrs.Get("name")
	if name == "" {
		name = "Unknown"
	}
	m := &Model{Name: name}
	if self {
		return m, true, nil
	}
	bodyStart := p.pos
	body, err := p.rawUntil("n:model", start)
	if err != nil {
		return nil, false, err
	}
	if err := p.parseModelBody(m, body, bodyStart); err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// Fallback forms

func (p *Parser) element() (Node, bool, error) {
	start := p.pos
	if !p.consume("<") || p.eof() || !isLetter(p.input[p.pos]) {
		return nil, false, nil
	}
	tag := p.identifier()
	attrs, self, err := p.tagRest(start)
	if err != nil {
		return nil, false, err
	}
	openEnd := p.pos
	el := &Element{Tag: tag, Attrs: attrs}
	if self || IsVoid(tag) {
		el.SelfClosing = true
		return el, true, nil
	}
	children, closed, err := p.parseNodes(func() bool { return p.closeTag(tag) })
	if err != nil {
		return nil, false, err
	}
	if !closed {
		return nil, false, p.closeError(start, openEnd, tag)
	}
	el.Children = children
	return el, true, nil
}

// text consumes a run up to the next tag or brace. Whitespace-only runs are
// consumed but produce no node.
func (p *Parser) text() (Node, bool, error) {
	start := p.pos
	for !p.eof() {
		c := p.input[p.pos]
		if c == '{' {
			break
		}
		if c == '<' && p.pos+1 < len(p.input) {
			next := p.input[p.pos+1]
			if isLetter(next) || next == '/' || next == '!' {
				break
			}
		}
		p.pos++
	}
	if p.pos == start {
		return nil, false, nil
	}
	content := p.input[start:p.pos]
	if strings.TrimSpace(content) == "" {
		return nil, true, nil
	}
	return &Text{Content: content}, true, nil
}

// looseBrace tolerates a single '{' that does not open an interpolation or
// a block tag.
func (p *Parser) looseBrace() (Node, bool, error) {
	if !p.peek("{") || p.peek("{{") || p.peek("{%") {
		return nil, false, nil
	}
	p.pos++
	return &Text{Content: "{"}, true, nil
}

// Terminator recognizers

// until consumes up to and including the literal lit and returns the
// position just past it. A missing terminator is an unterminated error
// spanning from start to the end of input.
func (p *Parser) until(lit string, start int, what string) (int, error) {
	i := strings.Index(p.input[p.pos:], lit)
	if i < 0 {
		return 0, p.fail(KindUnterminated, start, len(p.input), "unterminated %s, expected %q", what, lit)
	}
	p.pos += i + len(lit)
	return p.pos, nil
}

// rawUntil captures verbatim text up to the literal </tag>.
func (p *Parser) rawUntil(tag string, start int) (string, error) {
	closer := "</" + tag + ">"
	i := strings.Index(p.input[p.pos:], closer)
	if i < 0 {
		return "", p.fail(KindUnterminated, start, len(p.input), "unterminated <%s>, expected %q", tag, closer)
	}
	content := p.input[p.pos : p.pos+i]
	p.pos += i + len(closer)
	return content, nil
}

// rawBlock recognizes <tag ...>raw</tag> and returns the raw body.
func (p *Parser) rawBlock(tag string) (string, bool, error) {
	start := p.pos
	_, self, ok, err := p.openTag(tag)
	if !ok || err != nil {
		return "", false, err
	}
	if self {
		return "", true, nil
	}
	content, err := p.rawUntil(tag, start)
	if err != nil {
		return "", false, err
	}
	return content, true, nil
}

// closeTag matches exactly </name> (whitespace allowed before '>').
func (p *Parser) closeTag(name string) bool {
	start := p.pos
	if p.consume("</"+name) && !p.eof() {
		p.skipWhitespace()
		if p.consume(">") {
			return true
		}
	}
	p.pos = start
	return false
}

// blockOpen recognizes {% kw ... %} and returns the trimmed header.
func (p *Parser) blockOpen(kw string) (string, bool, error) {
	start := p.pos
	if !p.consume("{%") {
		return "", false, nil
	}
	p.skipWhitespace()
	if !p.consume(kw) || p.eof() || !isSpace(p.input[p.pos]) && !p.peek("%}") {
		p.pos = start
		return "", false, nil
	}
	headerStart := p.pos
	end, err := p.until("%}", start, "{% "+kw)
	if err != nil {
		return "", false, err
	}
	return strings.TrimSpace(p.input[headerStart : end-2]), true, nil
}

// blockClose matches exactly {% kw %}.
func (p *Parser) blockClose(kw string) bool {
	start := p.pos
	if p.consume("{%") {
		p.skipWhitespace()
		if p.consume(kw) {
			p.skipWhitespace()
			if p.consume("%}") {
				return true
			}
		}
	}
	p.pos = start
	return false
}

// Tags

// openTag recognizes <name attrs...> or <name attrs.../> for a fixed name.
func (p *Parser) openTag(name string) (attrs Attrs, self, ok bool, err error) {
	start := p.pos
	if !p.consume("<" + name) {
		return nil, false, false, nil
	}
	if !p.eof() {
		c := p.input[p.pos]
		if !isSpace(c) && c != '>' && c != '/' {
			p.pos = start
			return nil, false, false, nil
		}
	}
	attrs, self, err = p.tagRest(start)
	if err != nil {
		return nil, false, false, err
	}
	return attrs, self, true, nil
}

// directive recognizes a single-tag directive, tolerating an immediate
// matching close tag.
func (p *Parser) directive(name string) (Attrs, bool, error) {
	attrs, self, ok, err := p.openTag(name)
	if !ok || err != nil {
		return nil, false, err
	}
	if !self {
		mark := p.pos
		p.skipWhitespace()
		if !p.closeTag(name) {
			p.pos = mark
		}
	}
	return attrs, true, nil
}

// tagRest parses attributes up to and including '>' or '/>'.
func (p *Parser) tagRest(start int) (Attrs, bool, error) {
	var attrs Attrs
	for {
		p.skipWhitespace()
		if p.eof() {
			return nil, false, p.fail(KindUnterminated, start, len(p.input), "unterminated tag, expected '>'")
		}
		if p.consume("/>") {
			return attrs, true, nil
		}
		if p.consume(">") {
			return attrs, false, nil
		}
		attr, err := p.attribute(start)
		if err != nil {
			return nil, false, err
		}
		attrs = append(attrs, attr)
	}
}

func (p *Parser) attribute(tagStart int) (Attr, error) {
	at := p.pos
	name := p.attrName()
	if name == "" {
		return Attr{}, p.fail(KindMalformedTag, tagStart, at+1, "unexpected %q in tag", p.input[at:at+1])
	}
	mark := p.pos
	p.skipWhitespace()
	if !p.consume("=") {
		p.pos = mark
		return Attr{Name: name, Value: "true"}, nil
	}
	p.skipWhitespace()
	if p.eof() {
		return Attr{}, p.fail(KindUnterminated, tagStart, len(p.input), "unterminated tag, expected attribute value")
	}

	switch c := p.input[p.pos]; {
	case c == '"' || c == '\'':
		valStart := p.pos
		p.pos++
		end, err := p.until(string(c), valStart, "attribute value")
		if err != nil {
			return Attr{}, err
		}
		return Attr{Name: name, Value: p.input[valStart+1 : end-1]}, nil
	case p.peek("{{"):
		valStart := p.pos
		p.pos += 2
		end, err := p.until("}}", valStart, "attribute expression")
		if err != nil {
			return Attr{}, err
		}
		return Attr{Name: name, Value: "{" + strings.TrimSpace(p.input[valStart+2:end-2]) + "}", Expr: true}, nil
	case c == '{':
		valStart := p.pos
		end, err := p.balanced(valStart)
		if err != nil {
			return Attr{}, err
		}
		return Attr{Name: name, Value: "{" + strings.TrimSpace(p.input[valStart+1:end-1]) + "}", Expr: true}, nil
	default:
		valStart := p.pos
		for !p.eof() {
			c := p.input[p.pos]
			if isSpace(c) || c == '>' || p.peek("/>") {
				break
			}
			p.pos++
		}
		return Attr{Name: name, Value: p.input[valStart:p.pos]}, nil
	}
}

// balanced consumes a brace-balanced {...} group starting at p.pos.
func (p *Parser) balanced(start int) (int, error) {
	depth := 0
	for ; !p.eof(); p.pos++ {
		switch p.input[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				p.pos++
				return p.pos, nil
			}
		}
	}
	return 0, p.fail(KindUnterminated, start, len(p.input), "unterminated attribute expression, expected '}'")
}

func (p *Parser) closeError(start, openEnd int, tag string) error {
	if name, ok := p.peekCloseTag(); ok {
		at := p.pos
		end := strings.IndexByte(p.input[at:], '>')
		return p.fail(KindMismatchedClose, at, at+end+1, "mismatched </%s>, expected </%s>", name, tag)
	}
	return p.fail(KindUnclosedBlock, start, openEnd, "unclosed <%s>, expected </%s>", tag, tag)
}

// peekCloseTag reports the name of a close tag at the current position
// (after optional whitespace), leaving the position just before it.
func (p *Parser) peekCloseTag() (string, bool) {
	p.skipWhitespace()
	if !p.peek("</") {
		return "", false
	}
	save := p.pos
	p.pos += 2
	name := p.identifier()
	p.skipWhitespace()
	ok := name != "" && p.peek(">")
	p.pos = save
	return name, ok
}

// Low-level cursor helpers

func (p *Parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *Parser) peek(s string) bool {
	return strings.HasPrefix(p.input[p.pos:], s)
}

func (p *Parser) peekFold(s string) bool {
	return len(p.input)-p.pos >= len(s) && strings.EqualFold(p.input[p.pos:p.pos+len(s)], s)
}

func (p *Parser) consume(s string) bool {
	if p.peek(s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *Parser) skipWhitespace() {
	for !p.eof() && isSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *Parser) identifier() string {
	start := p.pos
	for !p.eof() && isIdentChar(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *Parser) attrName() string {
	start := p.pos
	for !p.eof() {
		c := p.input[p.pos]
		if !isIdentChar(c) && c != '@' && c != '.' {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *Parser) snippet(at int) string {
	s := p.input[at:]
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return s
}

func (p *Parser) fail(kind string, from, to int, format string, args ...interface{}) *diag.Error {
	return &diag.Error{
		Type:    diag.ParseErrorType,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Context: diag.NewContext(p.name, p.input, diag.Ranging{From: from, To: to}),
	}
}

// IsVoid reports whether tag is an HTML void element.
func IsVoid(tag string) bool {
	switch atom.Lookup([]byte(strings.ToLower(tag))) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Link, atom.Meta, atom.Param, atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}

func textContent(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		if t, ok := n.(*Text); ok {
			sb.WriteString(t.Content)
		}
	}
	return sb.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || c >= '0' && c <= '9' || c == ':' || c == '-' || c == '_'
}

func isIdentifier(s string) bool {
	if s == "" || !isLetter(s[0]) && s[0] != '_' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isLetter(c) && !(c >= '0' && c <= '9') && c != '_' {
			return false
		}
	}
	return true
}
