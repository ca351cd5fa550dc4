// Package scaffold creates new template projects.
package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	"github.com/recera/ncc/cmd/ncc/internal/config"
)

//go:embed files/*.tmpl
var files embed.FS

// DefaultSiteURL is the base URL a new project starts with.
const DefaultSiteURL = "http://localhost:3000"

// ProjectConfig holds the choices for a new project.
type ProjectConfig struct {
	Name      string
	Module    string // Go module path; defaults to example.com/<name>
	Directory string // defaults to Name
	SiteURL   string
}

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateName reports whether name can be used as a project directory.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("project name is required")
	}
	if !validName.MatchString(name) {
		return fmt.Errorf("project name %q may only contain letters, digits, '-' and '_'", name)
	}
	return nil
}

// withDefaults fills in the optional fields.
func (p ProjectConfig) withDefaults() ProjectConfig {
	if p.Module == "" {
		p.Module = "example.com/" + p.Name
	}
	if p.Directory == "" {
		p.Directory = p.Name
	}
	if p.SiteURL == "" {
		p.SiteURL = DefaultSiteURL
	}
	return p
}

// layout maps each template to its place in the project.
var layout = []struct {
	tmpl string
	path string
}{
	{"layout.ncl.tmpl", "src/views/layout.ncl"},
	{"index.ncl.tmpl", "src/views/index.ncl"},
	{"about.ncl.tmpl", "src/views/about.ncl"},
	{"contact.ncl.tmpl", "src/views/contact.ncl"},
	{"card.ncl.tmpl", "src/components/card.ncl"},
	{"main.go.tmpl", "main.go"},
	{"go.mod.tmpl", "go.mod"},
	{"gitignore.tmpl", ".gitignore"},
}

// Generate writes a new project. It refuses to write into a directory that
// already has files in it.
func Generate(p ProjectConfig) (ProjectConfig, error) {
	if err := ValidateName(p.Name); err != nil {
		return p, err
	}
	p = p.withDefaults()

	if entries, err := os.ReadDir(p.Directory); err == nil && len(entries) > 0 {
		return p, fmt.Errorf("directory %s already exists and is not empty", p.Directory)
	}

	// Templates use [[ ]] so that {{ }} interpolation survives into .ncl files.
	tmpl, err := template.New("scaffold").Delims("[[", "]]").ParseFS(files, "files/*.tmpl")
	if err != nil {
		return p, fmt.Errorf("failed to parse project templates: %w", err)
	}

	for _, f := range layout {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, f.tmpl, p); err != nil {
			return p, fmt.Errorf("failed to render %s: %w", f.path, err)
		}
		if err := writeFile(filepath.Join(p.Directory, filepath.FromSlash(f.path)), buf.Bytes()); err != nil {
			return p, err
		}
	}

	cfg := config.DefaultConfig()
	cfg.Build.Workers = 0
	cfg.Site.URL = p.SiteURL
	if err := config.Save(cfg, p.Directory); err != nil {
		return p, fmt.Errorf("failed to write %s: %w", config.JSONFile, err)
	}
	return p, nil
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
