package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/recera/ncc/cmd/ncc/internal/template"
)

func mustParse(t *testing.T, src string) []template.Node {
	t.Helper()
	nodes, err := template.Parse("test.ncl", src)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	return nodes
}

func assertContains(t *testing.T, code string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(code, part) {
			t.Errorf("generated code missing %q:\n%s", part, code)
		}
	}
}

// module wraps handlers in a module so that the result is checked by
// go/format.
func module(t *testing.T, handlers ...string) string {
	t.Helper()
	src, err := Module(ModuleInput{Package: "app", Handlers: handlers})
	if err != nil {
		t.Fatalf("Module() error = %v", err)
	}
	return string(src)
}

func TestViewHandler(t *testing.T) {
	nodes := mustParse(t, `<n:view title="Home" protected="true">
  <h1>Hi {{ user }}</h1>
  {% for item in items %}<li class="item {{ item.Kind }}">{{ item }}</li>{% endfor %}
  {% if admin %}<input name="q" disabled>{% endif %}
  <n:loader>user := "bob"</n:loader>
</n:view>`)
	view := nodes[0].(*template.Element)

	code, err := New(nil).ViewHandler(Handler{Name: "handle_index"}, view)
	if err != nil {
		t.Fatalf("ViewHandler() error = %v", err)
	}
	src := module(t, code)

	assertContains(t, src,
		"func handle_index(w http.ResponseWriter, r *http.Request) {",
		`r.Cookie("session")`,
		`http.Redirect(w, r, "/login", http.StatusSeeOther)`,
		"<title>Home</title>",
		`nccBody.WriteString(html.EscapeString(fmt.Sprint(user)))`,
		"for _, item := range items {",
		`nccBody.WriteString(html.EscapeString(fmt.Sprint(item.Kind)))`,
		"if admin {",
		`<input name=\"q\" disabled>`,
		DefaultRouterScript,
		`w.Header().Set("Content-Type", "text/html; charset=utf-8")`,
	)
	if strings.Index(src, `user := "bob"`) > strings.Index(src, "var nccBody strings.Builder") {
		t.Error("loader code must run before rendering")
	}
	if strings.Contains(src, "</input>") {
		t.Error("void element rendered with a close tag")
	}
}

func TestViewHandlerParams(t *testing.T) {
	view := mustParse(t, `<n:view title={post.Title}><p>x</p></n:view>`)[0].(*template.Element)
	code, err := New(nil).ViewHandler(Handler{Name: "handle_param_id", Params: []string{"id"}}, view)
	if err != nil {
		t.Fatalf("ViewHandler() error = %v", err)
	}
	assertContains(t, module(t, code),
		`id := r.PathValue("id")`,
		`nccBody.WriteString(html.EscapeString(fmt.Sprint(post.Title)))`,
	)
}

func TestViewHandlerReloadScript(t *testing.T) {
	view := mustParse(t, `<n:view><p>x</p></n:view>`)[0].(*template.Element)
	g := New(nil)

	code, err := g.ViewHandler(Handler{Name: "handle_x"}, view)
	if err != nil {
		t.Fatalf("ViewHandler() error = %v", err)
	}
	if strings.Contains(code, "reload.js") {
		t.Error("reload script emitted without ReloadScript")
	}

	g.ReloadScript = "http://localhost:35729/__ncc/reload.js"
	code, err = g.ViewHandler(Handler{Name: "handle_x"}, view)
	if err != nil {
		t.Fatalf("ViewHandler() error = %v", err)
	}
	assertContains(t, module(t, code), `<script src=\"http://localhost:35729/__ncc/reload.js\" defer></script>`)
}

func TestRawHandler(t *testing.T) {
	nodes := mustParse(t, `<html><body><n:image src="/a.png" alt="A"/><n:link href="/about">About</n:link><div/></body></html><n:loader>n := 1</n:loader>`)
	code, err := New(nil).RawHandler(Handler{Name: "handle_about"}, nodes)
	if err != nil {
		t.Fatalf("RawHandler() error = %v", err)
	}
	src := module(t, code)
	assertContains(t, src,
		"n := 1",
		`<img src=\"/a.png\" alt=\"A\" loading=\"lazy\">`,
		`<a href=\"/about\" data-nucleus-link>About</a>`,
		`<div></div>`,
	)
	if strings.Contains(src, "<!DOCTYPE") {
		t.Error("raw handler must not add a document shell")
	}
}

func TestActionHandler(t *testing.T) {
	code := New(nil).ActionHandler(Handler{Name: "handle_action_contact"}, []*template.Action{
		{Code: `name := params.Get("name")`},
		{Code: "_ = name"},
	})
	assertContains(t, module(t, code),
		"func handle_action_contact(w http.ResponseWriter, r *http.Request) {",
		"r.ParseForm()",
		"params := r.PostForm",
		`name := params.Get("name")`,
		`w.Write([]byte("Action Completed"))`,
	)
}

func TestComponentUse(t *testing.T) {
	decl := mustParse(t, `<n:component name="Card">
<n:props>
title: string
size: int = 3
</n:props>
<div class="card"><h2>{{ title }}</h2><n:slot/></div>
<style scoped>.card { padding: 1rem }</style>
</n:component>`)[0].(*template.Component)
	g := New(map[string]*template.Component{"Card": decl})

	nodes := mustParse(t, `<Card title="Hello" size={n}><p>inner</p></Card>`)
	code, err := g.RawHandler(Handler{Name: "handle_cards"}, nodes)
	if err != nil {
		t.Fatalf("RawHandler() error = %v", err)
	}
	id := template.ScopeID(decl.Style)
	assertContains(t, module(t, code),
		`var title string = "Hello"`,
		"var size int = n",
		`<p>inner</p>`,
		`data-n-scope=\"`+id+`\"`,
		`[data-n-scope~=\"`+id+`\"] .card`,
	)

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unknown component", `<Missing/>`, "unknown component <Missing>"},
		{"missing required prop", `<Card/>`, `missing required prop "title"`},
		{"unknown prop", `<Card title="a" colour="red"/>`, `has no prop "colour"`},
		{"uppercase html tag", `<DIV/>`, "write HTML tags in lowercase"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.RawHandler(Handler{Name: "handle_x"}, mustParse(t, tt.source))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("RawHandler() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestQuotedBracesRenderLiterally(t *testing.T) {
	decl := mustParse(t, `<n:component name="Badge">
<n:props>
label: string
</n:props>
<span>{{ label }}</span>
</n:component>`)[0].(*template.Component)
	g := New(map[string]*template.Component{"Badge": decl})

	nodes := mustParse(t, `<div x-data="{ open: false }" data-id={id}><Badge label="{x}"/></div>`)
	code, err := g.RawHandler(Handler{Name: "handle_menu"}, nodes)
	if err != nil {
		t.Fatalf("RawHandler() error = %v", err)
	}
	src := module(t, code)
	assertContains(t, src,
		`x-data=\"{ open: false }\"`,
		"fmt.Sprint(id)",
		`var label string = "{x}"`,
	)
	if strings.Contains(src, "fmt.Sprint( open: false )") {
		t.Error("quoted attribute rendered as an expression")
	}
}

func TestComponentPropNames(t *testing.T) {
	component := func(prop string) *template.Component {
		return mustParse(t, `<n:component name="Card">
<n:props>
`+prop+`: string
</n:props>
<p>{{ `+prop+` }}</p>
</n:component>`)[0].(*template.Component)
	}

	// Props named like common locals must not hide the output builder.
	g := New(map[string]*template.Component{"Card": component("body")})
	code, err := g.RawHandler(Handler{Name: "handle_card"}, mustParse(t, `<Card body="text"/><p>after</p>`))
	if err != nil {
		t.Fatalf("RawHandler() error = %v", err)
	}
	assertContains(t, module(t, code),
		`var body string = "text"`,
		`nccBody.WriteString(html.EscapeString(fmt.Sprint(body)))`,
		`nccBody.WriteString("<p>after</p>")`,
	)

	for _, prop := range []string{"html", "fmt", "strings", "http", "nccBody", "type"} {
		t.Run(prop, func(t *testing.T) {
			g := New(map[string]*template.Component{"Card": component(prop)})
			_, err := g.RawHandler(Handler{Name: "handle_card"}, mustParse(t, `<Card `+prop+`="x"/>`))
			if err == nil || !strings.Contains(err.Error(), `prop "`+prop+`"`) {
				t.Errorf("RawHandler() error = %v, want rejection of prop %q", err, prop)
			}
		})
	}
}

func TestImportLines(t *testing.T) {
	g := New(nil)
	code := g.ActionHandler(Handler{Name: "handle_action_count"}, []*template.Action{
		{Code: "import \"strconv\"\nn, _ := strconv.Atoi(params.Get(\"n\"))\n_ = n"},
		{Code: `import "strings"`},
	})
	if strings.Contains(code, "import") {
		t.Errorf("import line left in handler:\n%s", code)
	}
	if diff := cmp.Diff([]string{"strconv", "strings"}, g.Imports()); diff != "" {
		t.Errorf("Imports() mismatch (-want +got):\n%s", diff)
	}

	src, err := Module(ModuleInput{Package: "app", Imports: g.Imports(), Handlers: []string{code}})
	if err != nil {
		t.Fatalf("Module() error = %v", err)
	}
	if n := strings.Count(string(src), `"strings"`); n != 1 {
		t.Errorf("strings imported %d times:\n%s", n, src)
	}
	assertContains(t, string(src), `"strconv"`, "strconv.Atoi(")
}

func TestModel(t *testing.T) {
	m := mustParse(t, `<n:model name="user">
#[derive(Debug)]
id: i64
name: String
active: Boolean
func (u user) Label() string {
return u.Name
}
</n:model>`)[0].(*template.Model)

	code := Model(m)
	assertContains(t, code,
		"// #[derive(Debug)]",
		"type User struct {",
		"\tId int64 `json:\"id\"`",
		"\tName string `json:\"name\"`",
		"\tActive bool `json:\"active\"`",
	)
	// The method receiver refers to the declared name; rename it to compile.
	src, err := Module(ModuleInput{Package: "app", Models: []string{strings.ReplaceAll(code, "(u user)", "(u User)")}})
	if err != nil {
		t.Fatalf("Module() error = %v", err)
	}
	assertContains(t, string(src), "func (u User) Label() string {")
}

func TestGoType(t *testing.T) {
	tests := map[string]string{
		"String":    "string",
		"i32":       "int",
		"long":      "int64",
		"f64":       "float64",
		"Boolean":   "bool",
		"time.Time": "time.Time",
	}
	for in, want := range tests {
		if got := GoType(in); got != want {
			t.Errorf("GoType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestModuleInvalidGo(t *testing.T) {
	_, err := Module(ModuleInput{Package: "app", Handlers: []string{"func broken( {\n}\n"}})
	var serr *SourceError
	if !errors.As(err, &serr) {
		t.Fatalf("Module() error = %v, want *SourceError", err)
	}
	if len(serr.Source) == 0 {
		t.Error("SourceError carries no source")
	}
}

func TestModuleImportsAndRoutes(t *testing.T) {
	src, err := Module(ModuleInput{
		Package: "web",
		Imports: []string{"time"},
		Routes:  "var started = time.Now()\n",
	})
	if err != nil {
		t.Fatalf("Module() error = %v", err)
	}
	assertContains(t, string(src), Header, "package web", `"time"`, "var started = time.Now()")
}

func TestClientBundle(t *testing.T) {
	src, err := ClientBundle([]string{"println(\"a\")", "x := 1\n_ = x"})
	if err != nil {
		t.Fatalf("ClientBundle() error = %v", err)
	}
	assertContains(t, string(src), "//go:build js && wasm", "package main", `println("a")`, "x := 1", "select {}")
}

func TestSpecModule(t *testing.T) {
	src, err := SpecModule("app", []TestBlock{
		{Stem: "index", Code: "if 1+1 != 2 {\nt.Fatal(\"math\")\n}"},
		{Stem: "index", Code: "_ = t"},
		{Stem: "[id]", Code: "_ = t"},
	})
	if err != nil {
		t.Fatalf("SpecModule() error = %v", err)
	}
	assertContains(t, string(src), `import "testing"`, "func TestViewIndex(t *testing.T)", "func TestViewIndex2(t *testing.T)", "func TestViewId(t *testing.T)")
}
