package router

import (
	"bytes"
	"fmt"
	"text/template"
)

// Entry renders the route-table entries of one file.
func (r *RouteInfo) Entry() string {
	var buf bytes.Buffer
	for _, p := range r.Paths {
		fmt.Fprintf(&buf, "\t{Path: %q, Get: %s", p, r.HandlerName)
		if r.ActionName != "" {
			fmt.Fprintf(&buf, ", Post: %s", r.ActionName)
		}
		buf.WriteString("},\n")
	}
	return buf.String()
}

// tableTemplate is the route table of the generated module. Entries are the
// concatenated Entry fragments in discovery order.
var tableTemplate = template.Must(template.New("routes").Parse(`// Route binds a path to its handlers.
type Route struct {
	Path string
	Get  http.HandlerFunc
	Post http.HandlerFunc
}

// Routes lists every generated route.
var Routes = []Route{
{{.Entries}}}

// NewMux registers Routes on a new ServeMux. Paths use ":name" segments,
// which are served as ServeMux wildcards.
func NewMux() *http.ServeMux {
	mux := http.NewServeMux()
	for _, route := range Routes {
		mux.HandleFunc(muxPattern("GET", route.Path), route.Get)
		if route.Post != nil {
			mux.HandleFunc(muxPattern("POST", route.Path), route.Post)
		}
	}
	return mux
}

func muxPattern(method, path string) string {
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
`))

// GenerateTable renders the route table from concatenated entries.
func GenerateTable(entries string) (string, error) {
	var buf bytes.Buffer
	if err := tableTemplate.Execute(&buf, struct{ Entries string }{entries}); err != nil {
		return "", fmt.Errorf("failed to execute route template: %w", err)
	}
	return buf.String(), nil
}
