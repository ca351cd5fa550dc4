package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/recera/ncc/cmd/ncc/internal/diag"
)

func strPtr(s string) *string { return &s }

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []Node
	}{
		{
			name:   "element with attributes",
			source: `<div class="a" id={x}>hi</div>`,
			want: []Node{&Element{
				Tag:      "div",
				Attrs:    Attrs{{"class", "a", false}, {"id", "{x}", true}},
				Children: []Node{&Text{Content: "hi"}},
			}},
		},
		{
			name:   "boolean attribute on void element",
			source: `<input disabled>`,
			want:   []Node{&Element{Tag: "input", Attrs: Attrs{{"disabled", "true", false}}, SelfClosing: true}},
		},
		{
			name:   "double brace attribute normalized",
			source: `<p title={{ user.Name }}/>`,
			want:   []Node{&Element{Tag: "p", Attrs: Attrs{{"title", "{user.Name}", true}}, SelfClosing: true}},
		},
		{
			name:   "single quoted and unquoted values",
			source: `<a href='/x' data-n=3></a>`,
			want:   []Node{&Element{Tag: "a", Attrs: Attrs{{"href", "/x", false}, {"data-n", "3", false}}}},
		},
		{
			name:   "text and interpolation",
			source: `<p>Hello {{ name }}!</p>`,
			want: []Node{&Element{Tag: "p", Children: []Node{
				&Text{Content: "Hello "},
				&Interpolation{Expr: "name"},
				&Text{Content: "!"},
			}}},
		},
		{
			name:   "loose brace",
			source: `<p>a { b</p>`,
			want: []Node{&Element{Tag: "p", Children: []Node{
				&Text{Content: "a "},
				&Text{Content: "{"},
				&Text{Content: " b"},
			}}},
		},
		{
			name:   "doctype and comment",
			source: "<!DOCTYPE html>\n<!-- note -->\n<html></html>",
			want: []Node{
				&Text{Content: "<!DOCTYPE html>"},
				&Text{Content: "<!-- note -->"},
				&Element{Tag: "html"},
			},
		},
		{
			name:   "if block",
			source: `{% if user.Admin %}<b>admin</b>{% endif %}`,
			want: []Node{&If{Cond: "user.Admin", Children: []Node{
				&Element{Tag: "b", Children: []Node{&Text{Content: "admin"}}},
			}}},
		},
		{
			name:   "raw script and style elements",
			source: `<script>if (a < b) { go() }</script><style>p { color: red }</style>`,
			want: []Node{
				&Element{Tag: "script", Children: []Node{&Text{Content: "if (a < b) { go() }"}}},
				&Element{Tag: "style", Children: []Node{&Text{Content: "p { color: red }"}}},
			},
		},
		{
			name:   "dialect script and style",
			source: `<n:script lang="go">count := 1</n:script><n:style>body{}</n:style>`,
			want: []Node{
				&Script{Content: "count := 1", Attrs: Attrs{{"lang", "go", false}}},
				&Style{Content: "body{}"},
			},
		},
		{
			name:   "scoped style",
			source: `<style scoped>.a{}</style>`,
			want:   []Node{&ScopedStyle{Content: ".a{}", ScopeID: ScopeID(".a{}")}},
		},
		{
			name:   "meta and test blocks",
			source: `<n:loader>items := load()</n:loader><n:action>save(r)</n:action><n:spec>a</n:spec><n:test>b</n:test><n:client>c</n:client>`,
			want: []Node{
				&Loader{Code: "items := load()"},
				&Action{Code: "save(r)"},
				&Spec{Code: "a"},
				&Test{Code: "b"},
				&Client{Code: "c"},
			},
		},
		{
			name:   "directives",
			source: `<n:include src="partials/nav.ncl" active="home"/><n:island src="/js/counter.js" client:visible/><n:outlet/><n:slot name="aside"></n:slot>`,
			want: []Node{
				&Include{Path: "partials/nav.ncl", Attrs: Attrs{{"src", "partials/nav.ncl", false}, {"active", "home", false}}},
				&Island{Path: "/js/counter.js", Directive: "visible", Attrs: Attrs{{"src", "/js/counter.js", false}, {"client:visible", "true", false}}},
				&Outlet{},
				&Slot{Name: "aside"},
			},
		},
		{
			name:   "island defaults to load",
			source: `<n:island src="/js/a.js"/>`,
			want:   []Node{&Island{Path: "/js/a.js", Directive: "load", Attrs: Attrs{{"src", "/js/a.js", false}}}},
		},
		{
			name:   "component use",
			source: `<Card title="Hi" count={n}><p>body</p></Card><Icon/>`,
			want: []Node{
				&ComponentUse{
					Name:     "Card",
					Attrs:    Attrs{{"title", "Hi", false}, {"count", "{n}", true}},
					Children: []Node{&Element{Tag: "p", Children: []Node{&Text{Content: "body"}}}},
				},
				&ComponentUse{Name: "Icon"},
			},
		},
		{
			name:   "whitespace only runs are dropped",
			source: "\n  <ul>\n    <li>a</li>\n    <li>b</li>\n  </ul>\n",
			want: []Node{&Element{Tag: "ul", Children: []Node{
				&Element{Tag: "li", Children: []Node{&Text{Content: "a"}}},
				&Element{Tag: "li", Children: []Node{&Text{Content: "b"}}},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse("test.ncl", tt.source)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseNestedFor(t *testing.T) {
	source := `{% for x in y %} <a/> {% for z in w %} <b/> {% endfor %} {% endfor %}`
	got, err := Parse("nested.ncl", source)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []Node{&For{
		Var:  "x",
		Iter: "y",
		Children: []Node{
			&Element{Tag: "a", SelfClosing: true},
			&For{Var: "z", Iter: "w", Children: []Node{
				&Element{Tag: "b", SelfClosing: true},
			}},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("nested for mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSelfClosingAndVoid(t *testing.T) {
	for _, source := range []string{`<div/><span>x</span>`, `<br><span>x</span>`} {
		got, err := Parse("void.ncl", source)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", source, err)
		}
		if len(got) != 2 {
			t.Fatalf("Parse(%q) returned %d nodes, want 2", source, len(got))
		}
		first, ok := got[0].(*Element)
		if !ok || !first.SelfClosing || len(first.Children) != 0 {
			t.Errorf("Parse(%q) first node = %#v, want childless self-closing element", source, got[0])
		}
		if span, ok := got[1].(*Element); !ok || span.Tag != "span" {
			t.Errorf("Parse(%q) second node = %#v, want <span>", source, got[1])
		}
	}
}

func TestParseComponent(t *testing.T) {
	source := `<n:component name="Card">
  <n:props>
    title: string
    size: int = "3"
  </n:props>
  <div class="card"><h2>{{ title }}</h2><n:slot/></div>
  <style scoped>.card { color: red; }</style>
</n:component>`
	got, err := Parse("card.ncl", source)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []Node{&Component{
		Name: "Card",
		Props: []Prop{
			{Name: "title", Type: "string", Required: true},
			{Name: "size", Type: "int", Default: strPtr("3")},
		},
		Children: []Node{&Element{
			Tag:   "div",
			Attrs: Attrs{{"class", "card", false}},
			Children: []Node{
				&Element{Tag: "h2", Children: []Node{&Interpolation{Expr: "title"}}},
				&Slot{},
			},
		}},
		Style:  ".card { color: red; }",
		Scoped: true,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("component mismatch (-want +got):\n%s", diff)
	}
}

func TestParseComponentDefaultName(t *testing.T) {
	got, err := Parse("anon.ncl", `<n:component><p>x</p></n:component>`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if c := got[0].(*Component); c.Name != "Anonymous" {
		t.Errorf("Name = %q, want Anonymous", c.Name)
	}
}

func TestParseModel(t *testing.T) {
	source := `<n:model name="User">
  #[derive(Debug)]
  id: int
  name: String
  func (u User) Greeting() string {
    return "hi " + u.Name
  }
</n:model>`
	got, err := Parse("user.ncl", source)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []Node{&Model{
		Name:        "User",
		Fields:      []Field{{"id", "int"}, {"name", "String"}},
		Methods:     []string{"func (u User) Greeting() string {\nreturn \"hi \" + u.Name\n}"},
		Annotations: []string{"#[derive(Debug)]"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   string
		from   int
	}{
		{"unclosed if", `<p>{% if x %}<b>y</b>`, KindUnclosedBlock, 3},
		{"unclosed for", `{% for x in xs %}<li/>`, KindUnclosedBlock, 0},
		{"for closed by endif", `{% for x in xs %}{% endif %}`, KindUnclosedBlock, 0},
		{"malformed for", `{% for x y %}{% endfor %}`, KindMalformedFor, 0},
		{"empty if", `{% if %}{% endif %}`, KindMalformedIf, 0},
		{"mismatched close", `<div><span></div>`, KindMismatchedClose, 11},
		{"unclosed element", `<main><p>x</p>`, KindUnclosedBlock, 0},
		{"unclosed component", `<n:component name="A"><p/>`, KindUnclosedBlock, 0},
		{"unterminated interpolation", `<p>{{ name </p>`, KindUnterminated, 3},
		{"unterminated script", `<script>alert(1)`, KindUnterminated, 0},
		{"unterminated comment", `<!-- x`, KindUnterminated, 0},
		{"unterminated attribute", `<a href="x>y</a>`, KindUnterminated, 8},
		{"unterminated tag", `<a href="x"`, KindUnterminated, 0},
		{"stray end block", `<p>a</p> {% endif %}`, KindUnexpectedContent, 9},
		{"stray close tag", `</div>`, KindUnexpectedContent, 0},
		{"include without src", `<n:include/>`, KindMissingAttribute, 0},
		{"malformed model", "<n:model name=\"U\">\n???\n</n:model>", KindMalformedModel, 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.ncl", tt.source)
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			var derr *diag.Error
			if !errors.As(err, &derr) {
				t.Fatalf("Parse() error %T is not *diag.Error", err)
			}
			if derr.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q (%v)", derr.Kind, tt.kind, err)
			}
			if derr.Context.From != tt.from {
				t.Errorf("From = %d, want %d (%v)", derr.Context.From, tt.from, err)
			}
			if derr.Context.Name != "bad.ncl" {
				t.Errorf("Name = %q, want bad.ncl", derr.Context.Name)
			}
		})
	}
}

func TestPrintRoundTrip(t *testing.T) {
	sources := []string{
		`<div class="a"><p id="x">hello</p><br/><span data-v={v}>t</span></div>`,
		`<ul><li>a</li><li>b</li></ul><img src="a.png" alt="A"/>`,
		`<section hidden><h1 title='say "hi"'>x</h1></section>`,
		`<div x-data="{ open: false }" data-id={id}>x</div>`,
	}
	for _, source := range sources {
		first, err := Parse("rt.ncl", source)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", source, err)
		}
		printed := Print(first)
		second, err := Parse("rt.ncl", printed)
		if err != nil {
			t.Fatalf("Parse(Print(%q)) error = %v\nprinted: %s", source, err, printed)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("round trip mismatch for %q (-first +second):\n%s", source, diff)
		}
	}
}

func TestQuotedBracesAreLiteral(t *testing.T) {
	nodes, err := Parse("lit.ncl", `<div x-data="{ open: false }" data-json='{"a":1}' data-id={id} title={{ t }}/>`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := Attrs{
		{Name: "x-data", Value: "{ open: false }"},
		{Name: "data-json", Value: `{"a":1}`},
		{Name: "data-id", Value: "{id}", Expr: true},
		{Name: "title", Value: "{t}", Expr: true},
	}
	if diff := cmp.Diff(want, nodes[0].(*Element).Attrs); diff != "" {
		t.Errorf("attrs mismatch (-want +got):\n%s", diff)
	}
	if got := want[2].Code(); got != "id" {
		t.Errorf("Code() = %q, want id", got)
	}
	if got := want[0].Code(); got != "" {
		t.Errorf("Code() of a literal = %q, want empty", got)
	}
}

func TestScopeIDStable(t *testing.T) {
	a, b := ScopeID(".x{}"), ScopeID(".x{}")
	if a != b {
		t.Errorf("ScopeID not stable: %q != %q", a, b)
	}
	if !strings.HasPrefix(a, "nc") || len(a) != 8 {
		t.Errorf("ScopeID = %q, want nc + 6 hex digits", a)
	}
	if ScopeID(".y{}") == a {
		t.Error("different content produced the same scope id")
	}
}

func TestIsVoid(t *testing.T) {
	for _, tag := range []string{"br", "img", "input", "meta", "wbr"} {
		if !IsVoid(tag) {
			t.Errorf("IsVoid(%q) = false", tag)
		}
	}
	for _, tag := range []string{"div", "span", "n:view", "Card"} {
		if IsVoid(tag) {
			t.Errorf("IsVoid(%q) = true", tag)
		}
	}
}

func TestDump(t *testing.T) {
	nodes, err := Parse("dump.ncl", `<n:view title="Home"><p>{{ msg }}</p></n:view>`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	for _, format := range []string{"json", "yaml"} {
		out, err := Dump(nodes, format)
		if err != nil {
			t.Fatalf("Dump(%s) error = %v", format, err)
		}
		for _, want := range []string{"1.0.0", "n:view", "interpolation", "msg"} {
			if !strings.Contains(string(out), want) {
				t.Errorf("Dump(%s) missing %q:\n%s", format, want, out)
			}
		}
	}
	if _, err := Dump(nodes, "xml"); err == nil {
		t.Error("Dump(xml) expected error")
	}
}
