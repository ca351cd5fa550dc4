package scaffold

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/recera/ncc/cmd/ncc/internal/build"
	"github.com/recera/ncc/cmd/ncc/internal/config"
)

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blog")
	p, err := Generate(ProjectConfig{Name: "blog", Module: "github.com/acme/blog", Directory: dir})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if p.SiteURL != DefaultSiteURL {
		t.Errorf("SiteURL = %q, want %q", p.SiteURL, DefaultSiteURL)
	}

	for _, f := range layout {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(f.path))); err != nil {
			t.Errorf("missing %s: %v", f.path, err)
		}
	}

	gomod, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		t.Fatalf("Failed to read go.mod: %v", err)
	}
	if !strings.HasPrefix(string(gomod), "module github.com/acme/blog\n") {
		t.Errorf("go.mod = %q", gomod)
	}

	index, err := os.ReadFile(filepath.Join(dir, "src", "views", "index.ncl"))
	if err != nil {
		t.Fatalf("Failed to read index.ncl: %v", err)
	}
	for _, want := range []string{`"Welcome to blog"`, "{{ greeting }}"} {
		if !strings.Contains(string(index), want) {
			t.Errorf("index.ncl missing %q:\n%s", want, index)
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	if cfg.Site.URL != DefaultSiteURL {
		t.Errorf("site.url = %q, want %q", cfg.Site.URL, DefaultSiteURL)
	}
}

func TestGenerateDefaults(t *testing.T) {
	p := ProjectConfig{Name: "shop"}.withDefaults()
	want := ProjectConfig{Name: "shop", Module: "example.com/shop", Directory: "shop", SiteURL: DefaultSiteURL}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("withDefaults() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateRejects(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Generate(ProjectConfig{Name: "site", Directory: dir}); err == nil || !strings.Contains(err.Error(), "not empty") {
		t.Errorf("Generate() into non-empty dir error = %v", err)
	}

	for _, name := range []string{"", "my site", "-x", "a/b"} {
		if err := ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", name)
		}
	}
	if err := ValidateName("my-site_2"); err != nil {
		t.Errorf("ValidateName() error = %v", err)
	}
}

// The generated project must build cleanly.
func TestGeneratedProjectBuilds(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	if _, err := Generate(ProjectConfig{Name: "site", Directory: dir}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	for _, p := range []*string{
		&cfg.ViewsDir, &cfg.VendorDir, &cfg.ComponentsDir,
		&cfg.Output.ModuleFile, &cfg.Output.TestFile, &cfg.Output.ClientFile,
		&cfg.Output.StaticDir, &cfg.Output.StageDir,
	} {
		*p = filepath.Join(dir, *p)
	}

	res, err := build.Run(context.Background(), cfg, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("build.Run() error = %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}

	var handlers []string
	for _, r := range res.Routes {
		handlers = append(handlers, r.HandlerName)
	}
	if diff := cmp.Diff([]string{"handle_about", "handle_contact", "handle_index"}, handlers); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
	if res.Routes[1].ActionName == "" {
		t.Error("contact page has no action handler")
	}

	module, err := os.ReadFile(cfg.Output.ModuleFile)
	if err != nil {
		t.Fatalf("Failed to read module: %v", err)
	}
	for _, want := range []string{`greeting := "Welcome to site"`, "<title>Home</title>", `var title string = "Getting started"`} {
		if !strings.Contains(string(module), want) {
			t.Errorf("module missing %q", want)
		}
	}
}
