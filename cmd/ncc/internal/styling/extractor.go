// Package styling externalizes inline styles, scripts and client logic into
// content-addressed assets.
package styling

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"path/filepath"
	"strings"

	"github.com/recera/ncc/cmd/ncc/internal/template"
)

// HashLen is the number of hex digits of the content hash used in names.
const HashLen = 16

// Options controls where extracted assets go.
type Options struct {
	// StaticDir is the directory served under URLPrefix.
	StaticDir string
	// URLPrefix is the public path of StaticDir.
	URLPrefix string
	// StageDir receives alternate-language sources for the bundler.
	StageDir string
}

// DefaultOptions returns the conventional layout.
func DefaultOptions() Options {
	return Options{
		StaticDir: "static",
		URLPrefix: "/static",
		StageDir:  filepath.Join("src", "generated", "ts"),
	}
}

// Asset is a pending file write. URL is the public path for served assets.
type Asset struct {
	Path string
	URL  string
	Data []byte
}

// Result is the output of Extract.
type Result struct {
	// Nodes is the rewritten tree.
	Nodes []template.Node
	// Assets are styles and scripts to write under the static root.
	Assets []Asset
	// Staged are alternate-language sources for the external bundler.
	Staged []Asset
	// Fragments are client-logic sources in document order.
	Fragments []string
}

// Extractor walks a tree and collects write intents. It never touches the
// filesystem.
type Extractor struct {
	opts   Options
	stem   string
	result Result
	seen   map[string]bool
}

// NewExtractor creates an extractor for the file with the given stem.
func NewExtractor(stem string, opts Options) *Extractor {
	return &Extractor{
		opts: opts,
		stem: SafeName(stem),
		seen: make(map[string]bool),
	}
}

// Extract rewrites nodes, returning the new tree and the collected assets.
// The input tree is not modified.
func Extract(nodes []template.Node, stem string, opts Options) *Result {
	e := NewExtractor(stem, opts)
	e.result.Nodes = e.walk(nodes)
	return &e.result
}

func (e *Extractor) walk(nodes []template.Node) []template.Node {
	if nodes == nil {
		return nil
	}
	out := make([]template.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, e.rewrite(n))
	}
	return out
}

func (e *Extractor) rewrite(n template.Node) template.Node {
	switch n := n.(type) {
	case *template.Client:
		e.result.Fragments = append(e.result.Fragments, n.Code)
		return &template.Text{}
	case *template.Style:
		if strings.TrimSpace(n.Content) == "" {
			return &template.Text{}
		}
		return e.externalStyle(n.Content)
	case *template.Element:
		switch {
		case n.Tag == "style" && !n.Attrs.Has("critical"):
			if css := textOf(n.Children); strings.TrimSpace(css) != "" {
				return e.externalStyle(css)
			}
		case n.Tag == "script" && !n.Attrs.Has("src") && isExecutable(n.Attrs):
			if js := textOf(n.Children); strings.TrimSpace(js) != "" {
				return e.externalScript(js, n.Attrs)
			}
		}
		cp := *n
		cp.Children = e.walk(n.Children)
		return &cp
	case *template.For:
		cp := *n
		cp.Children = e.walk(n.Children)
		return &cp
	case *template.If:
		cp := *n
		cp.Children = e.walk(n.Children)
		return &cp
	case *template.ComponentUse:
		cp := *n
		cp.Children = e.walk(n.Children)
		return &cp
	case *template.Component:
		cp := *n
		cp.Children = e.walk(n.Children)
		return &cp
	}
	return n
}

// externalStyle records a stylesheet and returns the link that replaces it.
func (e *Extractor) externalStyle(css string) template.Node {
	name := "style-" + Hash(css) + ".css"
	url := e.add(&e.result.Assets, "css", name, css)
	return &template.Element{
		Tag: "link",
		Attrs: template.Attrs{
			{Name: "rel", Value: "stylesheet"},
			{Name: "href", Value: url},
		},
		SelfClosing: true,
	}
}

// externalScript records a script and returns the script tag that replaces
// it. TypeScript is staged for the bundler and referenced by its output name.
func (e *Extractor) externalScript(js string, attrs template.Attrs) template.Node {
	h := Hash(js)
	var kept template.Attrs
	for _, a := range attrs {
		if a.Name != "lang" && a.Name != "defer" && !(isTypeScript(attrs) && a.Name == "type") {
			kept = append(kept, a)
		}
	}

	var src string
	if isTypeScript(attrs) {
		name := e.stem + "-" + h
		staged := Asset{Path: filepath.Join(e.opts.StageDir, name+".ts"), Data: []byte(js)}
		if !e.seen[staged.Path] {
			e.seen[staged.Path] = true
			e.result.Staged = append(e.result.Staged, staged)
		}
		src = path.Join(e.opts.URLPrefix, "js", name+".js")
		kept = append(kept, template.Attr{Name: "type", Value: "module"})
	} else {
		src = e.add(&e.result.Assets, "js", "script-"+h+".js", js)
	}

	out := template.Attrs{{Name: "src", Value: src}}
	out = append(out, kept...)
	out = append(out, template.Attr{Name: "defer", Value: "true"})
	return &template.Element{Tag: "script", Attrs: out}
}

// add records an asset under StaticDir/dir once and returns its URL.
func (e *Extractor) add(dst *[]Asset, dir, name, content string) string {
	a := Asset{
		Path: filepath.Join(e.opts.StaticDir, dir, name),
		URL:  path.Join(e.opts.URLPrefix, dir, name),
		Data: []byte(content),
	}
	if !e.seen[a.Path] {
		e.seen[a.Path] = true
		*dst = append(*dst, a)
	}
	return a.URL
}

// Hash returns the content hash used in asset names.
func Hash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:HashLen]
}

// SafeName maps a file stem to a name usable in paths and URLs.
func SafeName(stem string) string {
	var sb strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		case r == '[' || r == ']':
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "page"
	}
	return sb.String()
}

func isTypeScript(attrs template.Attrs) bool {
	lang, _ := attrs.Get("lang")
	return lang == "ts" || lang == "typescript"
}

// isExecutable reports whether a script tag holds code rather than data
// such as JSON or an import map.
func isExecutable(attrs template.Attrs) bool {
	typ, ok := attrs.Get("type")
	if !ok || isTypeScript(attrs) {
		return true
	}
	switch typ {
	case "", "module", "text/javascript", "application/javascript":
		return true
	}
	return false
}

func textOf(nodes []template.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		if t, ok := n.(*template.Text); ok {
			sb.WriteString(t.Content)
		}
	}
	return sb.String()
}
