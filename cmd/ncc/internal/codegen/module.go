package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"
	"unicode"
)

// Header marks every generated file.
const Header = "// Code generated by ncc; DO NOT EDIT."

// ModuleInput is everything the server module is assembled from, in
// discovery order.
type ModuleInput struct {
	Package  string
	Imports  []string // extra packages; duplicates and base packages are dropped
	Models   []string
	Handlers []string
	Routes   string // route table from router.GenerateTable
}

var moduleTemplate = template.Must(template.New("module").Parse(`{{.Header}}

package {{.Package}}

import (
	"fmt"
	"html"
	"net/http"
	"strings"
{{range .Imports}}	{{printf "%q" .}}
{{end}})

var (
	_ = fmt.Sprint
	_ = html.EscapeString
	_ = strings.Contains
)
{{range .Models}}
{{.}}{{end}}
{{range .Handlers}}
{{.}}{{end}}
{{.Routes}}
`))

// baseImports are the packages the module template always imports.
var baseImports = map[string]bool{"fmt": true, "html": true, "net/http": true, "strings": true}

// extraImports returns imports without base packages, duplicates or blanks,
// sorted.
func extraImports(imports []string) []string {
	seen := make(map[string]bool, len(imports))
	var out []string
	for _, p := range imports {
		p = strings.TrimSpace(p)
		if p == "" || baseImports[p] || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Module assembles and formats the server module. Invalid Go, typically
// from embedded code blocks, is reported as an error together with the
// unformatted source.
func Module(in ModuleInput) ([]byte, error) {
	in.Imports = extraImports(in.Imports)
	var buf bytes.Buffer
	data := struct {
		ModuleInput
		Header string
	}{in, Header}
	if err := moduleTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute module template: %w", err)
	}
	return formatSource("server module", buf.Bytes())
}

// TestBlock is the source of one <n:spec> or <n:test> block.
type TestBlock struct {
	Stem string
	Code string
}

var specTemplate = template.Must(template.New("spec").Parse(`{{.Header}}

package {{.Package}}

import "testing"
{{range .Tests}}
func {{.Name}}(t *testing.T) {
{{.Code}}
}
{{end}}`))

// SpecModule generates the companion test file. Each block becomes a test
// function named after its file.
func SpecModule(pkg string, blocks []TestBlock) ([]byte, error) {
	type test struct{ Name, Code string }
	tests := make([]test, 0, len(blocks))
	counts := make(map[string]int)
	for _, b := range blocks {
		name := "TestView" + pascal(b.Stem)
		counts[name]++
		if n := counts[name]; n > 1 {
			name = fmt.Sprintf("%s%d", name, n)
		}
		tests = append(tests, test{name, strings.Trim(b.Code, "\n")})
	}

	var buf bytes.Buffer
	data := struct {
		Header, Package string
		Tests           []test
	}{Header, pkg, tests}
	if err := specTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute spec template: %w", err)
	}
	return formatSource("test module", buf.Bytes())
}

var clientTemplate = template.Must(template.New("client").Parse(`//go:build js && wasm

{{.Header}}

package main

func main() {
{{range .Fragments}}	{
{{.}}
	}
{{end}}	select {}
}
`))

// ClientBundle concatenates client-logic fragments into one program for the
// js/wasm target. Each fragment runs in its own block.
func ClientBundle(fragments []string) ([]byte, error) {
	trimmed := make([]string, len(fragments))
	for i, f := range fragments {
		trimmed[i] = strings.Trim(f, "\n")
	}
	var buf bytes.Buffer
	data := struct {
		Header    string
		Fragments []string
	}{Header, trimmed}
	if err := clientTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute client template: %w", err)
	}
	return formatSource("client bundle", buf.Bytes())
}

// SourceError reports generated source that does not parse as Go.
type SourceError struct {
	What   string
	Source []byte
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("generated %s is not valid Go: %v", e.What, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func formatSource(what string, src []byte) ([]byte, error) {
	formatted, err := format.Source(src)
	if err != nil {
		return nil, &SourceError{What: what, Source: src, Err: err}
	}
	return formatted, nil
}

// pascal converts a file stem to a PascalCase identifier fragment.
func pascal(stem string) string {
	var sb strings.Builder
	upper := true
	for _, r := range stem {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
