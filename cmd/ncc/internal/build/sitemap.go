package build

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/recera/ncc/cmd/ncc/internal/router"
)

// SitemapFile is written under the static root.
const SitemapFile = "sitemap.xml"

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// Sitemap renders sitemap.xml for the sitemap paths of routes, prefixed
// with baseURL. Dynamic routes are never listed.
func Sitemap(baseURL string, routes []*router.RouteInfo) ([]byte, error) {
	base := strings.TrimSuffix(baseURL, "/")
	set := urlSet{Xmlns: sitemapNS}
	for _, r := range routes {
		for _, p := range r.Sitemap {
			set.URLs = append(set.URLs, sitemapURL{Loc: base + p})
		}
	}
	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}
