package build

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/recera/ncc/cmd/ncc/internal/layout"
	"github.com/recera/ncc/cmd/ncc/internal/template"
)

// Ext is the file extension of template files.
const Ext = ".ncl"

// Discover lists the template files to compile: every file under viewsDir,
// then the files one level inside each vendored module of vendorDir. Layout
// files are excluded. Both groups are sorted.
func Discover(viewsDir, vendorDir string) ([]string, error) {
	if info, err := os.Stat(viewsDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("views directory %s not found", viewsDir)
	}

	var views []string
	err := filepath.WalkDir(viewsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isTemplate(path) {
			return nil
		}
		views = append(views, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", viewsDir, err)
	}
	sort.Strings(views)

	var vendored []string
	if vendorDir != "" {
		matches, err := filepath.Glob(filepath.Join(vendorDir, "*", "*"+Ext))
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", vendorDir, err)
		}
		for _, m := range matches {
			if isTemplate(m) {
				vendored = append(vendored, m)
			}
		}
		sort.Strings(vendored)
	}

	return append(views, vendored...), nil
}

func isTemplate(path string) bool {
	return filepath.Ext(path) == Ext && filepath.Base(path) != layout.FileName+Ext
}

// LoadComponents parses every template file under dir and returns the
// component declarations found at their top level. A missing directory
// yields no components.
func LoadComponents(dir string) (map[string]*template.Component, error) {
	components := make(map[string]*template.Component)
	if dir == "" {
		return components, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return components, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != Ext {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return &FileError{Path: path, Err: err}
		}
		nodes, err := template.Parse(path, string(src))
		if err != nil {
			return &FileError{Path: path, Err: err}
		}
		for _, n := range nodes {
			if c, ok := n.(*template.Component); ok {
				if _, dup := components[c.Name]; dup {
					return &FileError{Path: path, Err: fmt.Errorf("component <%s> is declared more than once", c.Name)}
				}
				components[c.Name] = c
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return components, nil
}
