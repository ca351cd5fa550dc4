// Package router derives routes from template file names and renders the
// route table of the generated module.
package router

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// RouteInfo describes the routes contributed by a single template file.
type RouteInfo struct {
	FilePath    string   // Template path
	Stem        string   // File name without extension
	Paths       []string // Registered URL paths (e.g. "/", "/index", "/:id")
	Params      []string // Dynamic segment names
	HandlerName string   // Page handler function
	ActionName  string   // Action handler function, empty without an action
	Sitemap     []string // Paths listed in sitemap.xml
}

var paramRegex = regexp.MustCompile(`^\[([A-Za-z_][A-Za-z0-9_]*)\]$`)

// Stem returns the file name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Derive computes the route of a template file. It reports false for
// layout files, which are never routes.
func Derive(filePath string) (*RouteInfo, bool) {
	stem := Stem(filePath)
	if stem == "layout" {
		return nil, false
	}
	info := &RouteInfo{
		FilePath:    filePath,
		Stem:        stem,
		Paths:       stemToURLPaths(stem),
		HandlerName: HandlerName(stem),
	}
	if m := paramRegex.FindStringSubmatch(stem); m != nil {
		info.Params = []string{m[1]}
	} else {
		info.Sitemap = info.Paths[:1]
	}
	return info, true
}

// stemToURLPaths converts a file stem to the URL paths it is served at
func stemToURLPaths(stem string) []string {
	// Handle home/index -> / and /index
	if stem == "index" || stem == "home" {
		return []string{"/", "/index"}
	}

	// Handle [param] -> /:param
	if m := paramRegex.FindStringSubmatch(stem); m != nil {
		return []string{"/:" + m[1]}
	}

	return []string{"/" + stem}
}

// HandlerName returns the page handler name for a stem.
func HandlerName(stem string) string {
	return "handle_" + identifier(stem)
}

// ActionName returns the action handler name for a stem.
func ActionName(stem string) string {
	return "handle_action_" + identifier(stem)
}

// identifier maps a stem to a Go identifier fragment: "[id]" becomes
// "param_id" and other invalid characters become underscores.
func identifier(stem string) string {
	if m := paramRegex.FindStringSubmatch(stem); m != nil {
		return "param_" + m[1]
	}
	var sb strings.Builder
	for _, r := range stem {
		if r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// CheckDuplicates fails when two files register the same path or handler.
func CheckDuplicates(routes []*RouteInfo) error {
	paths := make(map[string]string)    // urlPath -> filePath
	handlers := make(map[string]string) // handler -> filePath

	for _, route := range routes {
		for _, p := range route.Paths {
			if existing, exists := paths[p]; exists {
				return fmt.Errorf("duplicate route '%s' found in:\n  - %s\n  - %s",
					p, existing, route.FilePath)
			}
			paths[p] = route.FilePath
		}
		if existing, exists := handlers[route.HandlerName]; exists {
			return fmt.Errorf("duplicate handler '%s' found in:\n  - %s\n  - %s",
				route.HandlerName, existing, route.FilePath)
		}
		handlers[route.HandlerName] = route.FilePath
	}

	return nil
}

// MuxPattern converts a route path to a net/http ServeMux pattern for method.
func MuxPattern(method, path string) string {
	if path == "/" {
		return method + " /{$}"
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, ":") {
			segments[i] = "{" + s[1:] + "}"
		}
	}
	return method + " " + strings.Join(segments, "/")
}
