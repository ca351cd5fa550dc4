// Package build compiles a tree of template files into the generated server
// module, its route table and the side assets the pages reference.
//
// Files are compiled in parallel and reduced in discovery order. A failure
// in any file fails the whole build before anything is written.
package build

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/recera/ncc/cmd/ncc/internal/codegen"
	"github.com/recera/ncc/cmd/ncc/internal/config"
	"github.com/recera/ncc/cmd/ncc/internal/guardian"
	"github.com/recera/ncc/cmd/ncc/internal/layout"
	"github.com/recera/ncc/cmd/ncc/internal/router"
	"github.com/recera/ncc/cmd/ncc/internal/styling"
	"github.com/recera/ncc/cmd/ncc/internal/template"
)

// FileError ties a compilation failure to the file that caused it.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to compile %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Warning is a validation finding that does not fail the build.
type Warning struct {
	Path      string
	Violation guardian.Violation
}

func (w Warning) String() string {
	return w.Path + ": " + w.Violation.String()
}

// Result summarizes a successful build.
type Result struct {
	Files    []string // generated files, in write order
	Staged   []string // staged TypeScript sources for the bundler
	Routes   []*router.RouteInfo
	Assets   int // side assets written; unchanged files are not counted
	Warnings []Warning
}

// unit is the contribution of one file to the build.
type unit struct {
	route     *router.RouteInfo
	handlers  []string
	models    []string
	tests     []codegen.TestBlock
	assets    []styling.Asset
	staged    []styling.Asset
	fragments []string
	imports   []string
	warnings  []Warning
}

// output is the reduced build, ready to be written.
type output struct {
	module   []byte
	tests    []byte
	client   []byte
	sitemap  []byte
	assets   []styling.Asset
	staged   []styling.Asset
	routes   []*router.RouteInfo
	warnings []Warning
}

// Builder compiles the templates of one project.
type Builder struct {
	// ReloadScript is passed on to every view handler; watch mode sets it.
	ReloadScript string

	cfg        *config.Config
	logger     *log.Logger
	components map[string]*template.Component
}

// New creates a builder. A nil logger discards progress output.
func New(cfg *config.Config, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Builder{cfg: cfg, logger: logger}
}

// Run performs a full build of the project described by cfg.
func Run(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Result, error) {
	return New(cfg, logger).Run(ctx)
}

// Run discovers, compiles and writes the project. On error nothing has
// been written.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	out, err := b.compile(ctx)
	if err != nil {
		return nil, err
	}
	res, err := b.write(out)
	if err != nil {
		return nil, err
	}
	b.logger.Printf("✨ Build complete in %s (%d routes, %d assets written)",
		time.Since(start).Round(time.Millisecond), len(res.Routes), res.Assets)
	return res, nil
}

// Check compiles the project without writing anything. The result lists
// routes and warnings only.
func (b *Builder) Check(ctx context.Context) (*Result, error) {
	out, err := b.compile(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Routes: out.routes, Warnings: out.warnings}, nil
}

// compile runs every stage up to, but excluding, the filesystem writes.
func (b *Builder) compile(ctx context.Context) (*output, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	b.logger.Println("🔍 Discovering templates...")
	files, err := Discover(b.cfg.ViewsDir, b.cfg.VendorDir)
	if err != nil {
		return nil, err
	}
	b.logger.Printf("  Found %d template files", len(files))

	b.components, err = LoadComponents(b.cfg.ComponentsDir)
	if err != nil {
		return nil, err
	}
	if len(b.components) > 0 {
		b.logger.Printf("  Loaded %d shared components", len(b.components))
	}

	b.logger.Printf("🔨 Compiling with %d workers...", b.workers())
	units, err := b.compileAll(ctx, files)
	if err != nil {
		return nil, err
	}

	out, err := b.reduce(units)
	if err != nil {
		return nil, err
	}
	for _, w := range out.warnings {
		b.logger.Printf("⚠️  %s", w)
	}
	for _, r := range out.routes {
		for _, p := range r.Paths {
			b.logger.Printf("  %s → %s", router.MuxPattern("GET", p), r.HandlerName)
		}
	}
	return out, nil
}

func (b *Builder) workers() int {
	if b.cfg.Build != nil && b.cfg.Build.Workers > 0 {
		return b.cfg.Build.Workers
	}
	return runtime.NumCPU()
}

// compileAll runs the per-file pipeline on a bounded pool. Results keep the
// order of files.
func (b *Builder) compileAll(ctx context.Context, files []string) ([]*unit, error) {
	units := make([]*unit, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers())
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			u, err := b.compileFile(file)
			if err != nil {
				return &FileError{Path: file, Err: err}
			}
			units[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

// compileFile parses, composes, validates, extracts and generates one file.
func (b *Builder) compileFile(file string) (*unit, error) {
	route, ok := router.Derive(file)
	if !ok {
		return &unit{}, nil
	}

	src, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	nodes, err := template.Parse(file, string(src))
	if err != nil {
		return nil, err
	}

	layoutPath := filepath.Join(filepath.Dir(file), layout.FileName+Ext)
	layoutSrc, err := os.ReadFile(layoutPath)
	switch {
	case err == nil:
		layoutNodes, err := template.Parse(layoutPath, string(layoutSrc))
		if err != nil {
			return nil, err
		}
		nodes = layout.Merge(layout.Preconnect(layoutNodes, b.preconnect()), nodes)
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}

	nodes, err = layout.ExpandIncludes(nodes, b.resolver(filepath.Dir(file)))
	if err != nil {
		return nil, err
	}

	violations, err := guardian.Check(file, nodes)
	if err != nil {
		return nil, err
	}

	ex := styling.Extract(nodes, route.Stem, b.extractOptions())
	u := &unit{
		assets:    ex.Assets,
		staged:    ex.Staged,
		fragments: ex.Fragments,
	}
	for _, v := range violations {
		u.warnings = append(u.warnings, Warning{Path: file, Violation: v})
	}
	if err := b.generate(u, route, ex.Nodes); err != nil {
		return nil, err
	}
	return u, nil
}

// generate classifies the top-level nodes and emits the file's handlers
// and models. A file with a view gets a page handler for the view; any
// other file is rendered whole.
func (b *Builder) generate(u *unit, route *router.RouteInfo, nodes []template.Node) error {
	g := codegen.New(b.components)
	g.RouterScript = path.Join(b.cfg.Output.StaticURL, "js", "router.js")
	g.ReloadScript = b.ReloadScript

	var view *template.Element
	for _, n := range nodes {
		switch n := n.(type) {
		case *template.Component:
			g.Register(n)
		case *template.Model:
			u.models = append(u.models, codegen.Model(n))
		case *template.Element:
			if view == nil && template.IsView(n) {
				view = n
			}
		}
	}

	h := codegen.Handler{Name: route.HandlerName, Params: route.Params}
	scope := nodes
	var code string
	var err error
	if view != nil {
		code, err = g.ViewHandler(h, view)
		scope = view.Children
	} else {
		code, err = g.RawHandler(h, nodes)
	}
	if err != nil {
		return err
	}
	u.handlers = append(u.handlers, code)

	if actions := collectActions(scope); len(actions) > 0 {
		route.ActionName = router.ActionName(route.Stem)
		u.handlers = append(u.handlers, g.ActionHandler(codegen.Handler{Name: route.ActionName, Params: route.Params}, actions))
	}

	template.Walk(nodes, func(n template.Node) bool {
		switch n := n.(type) {
		case *template.Spec:
			u.tests = append(u.tests, codegen.TestBlock{Stem: route.Stem, Code: n.Code})
		case *template.Test:
			u.tests = append(u.tests, codegen.TestBlock{Stem: route.Stem, Code: n.Code})
		}
		return true
	})

	u.imports = g.Imports()
	u.route = route
	return nil
}

// collectActions returns the action blocks of nodes outside component
// declarations.
func collectActions(nodes []template.Node) []*template.Action {
	var actions []*template.Action
	template.Walk(nodes, func(n template.Node) bool {
		switch n := n.(type) {
		case *template.Action:
			actions = append(actions, n)
		case *template.Component:
			return false
		}
		return true
	})
	return actions
}

// resolver loads included files. Paths are relative to dir, or to the
// views root when they start with a slash.
func (b *Builder) resolver(dir string) layout.Resolver {
	return func(src string, attrs template.Attrs) ([]template.Node, error) {
		var file string
		if strings.HasPrefix(src, "/") {
			file = filepath.Join(b.cfg.ViewsDir, filepath.FromSlash(src[1:]))
		} else {
			file = filepath.Join(dir, filepath.FromSlash(src))
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		return template.Parse(file, layout.SubstituteParams(string(data), attrs))
	}
}

func (b *Builder) preconnect() []string {
	if b.cfg.Site == nil {
		return nil
	}
	return b.cfg.Site.Preconnect
}

func (b *Builder) extractOptions() styling.Options {
	return styling.Options{
		StaticDir: b.cfg.Output.StaticDir,
		URLPrefix: b.cfg.Output.StaticURL,
		StageDir:  b.cfg.Output.StageDir,
	}
}

// reduce concatenates the units in discovery order and renders every
// generated file in memory.
func (b *Builder) reduce(units []*unit) (*output, error) {
	out := &output{}
	in := codegen.ModuleInput{Package: b.cfg.Output.Package}
	if b.cfg.Build != nil {
		in.Imports = append(in.Imports, b.cfg.Build.Imports...)
	}
	var entries strings.Builder
	var tests []codegen.TestBlock
	var fragments []string

	for _, u := range units {
		if u.route == nil {
			continue
		}
		in.Models = append(in.Models, u.models...)
		in.Handlers = append(in.Handlers, u.handlers...)
		in.Imports = append(in.Imports, u.imports...)
		entries.WriteString(u.route.Entry())
		tests = append(tests, u.tests...)
		fragments = append(fragments, u.fragments...)
		out.assets = append(out.assets, u.assets...)
		out.staged = append(out.staged, u.staged...)
		out.routes = append(out.routes, u.route)
		out.warnings = append(out.warnings, u.warnings...)
	}

	if err := router.CheckDuplicates(out.routes); err != nil {
		return nil, err
	}

	table, err := router.GenerateTable(entries.String())
	if err != nil {
		return nil, err
	}
	in.Routes = table
	if out.module, err = codegen.Module(in); err != nil {
		return nil, err
	}

	if len(tests) > 0 {
		if out.tests, err = codegen.SpecModule(b.cfg.Output.Package, tests); err != nil {
			return nil, err
		}
	}
	if len(fragments) > 0 {
		if out.client, err = codegen.ClientBundle(fragments); err != nil {
			return nil, err
		}
	}
	if b.cfg.Build != nil && b.cfg.Build.Sitemap {
		var base string
		if b.cfg.Site != nil {
			base = b.cfg.Site.URL
		}
		if out.sitemap, err = Sitemap(base, out.routes); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// write performs every filesystem write of the build. Side assets go first
// and the server module last.
func (b *Builder) write(out *output) (*Result, error) {
	res := &Result{Routes: out.routes, Warnings: out.warnings}

	n, err := styling.WriteAssets(out.assets)
	if err != nil {
		return nil, err
	}
	res.Assets = n

	if _, err := styling.WriteAssets(out.staged); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, s := range out.staged {
		if !seen[s.Path] {
			seen[s.Path] = true
			res.Staged = append(res.Staged, s.Path)
		}
	}

	files := []struct {
		path string
		data []byte
	}{
		{filepath.Join(b.cfg.Output.StaticDir, SitemapFile), out.sitemap},
		{b.cfg.Output.ClientFile, out.client},
		{b.cfg.Output.TestFile, out.tests},
		{b.cfg.Output.ModuleFile, out.module},
	}
	for _, f := range files {
		if f.data == nil {
			continue
		}
		if err := writeFile(f.path, f.data); err != nil {
			return nil, err
		}
		b.logger.Printf("📄 Wrote %s", f.path)
		res.Files = append(res.Files, f.path)
	}
	return res, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
