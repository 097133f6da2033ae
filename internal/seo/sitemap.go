package seo

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapURL is one <url> entry.
type SitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

type staticEntry struct {
	path       string
	changeFreq string
	priority   float64
}

var staticPages = []staticEntry{
	{"/", "weekly", 1.0},
	{"/productos", "weekly", 0.9},
	{"/nosotros", "monthly", 0.8},
	{"/filosofia", "monthly", 0.7},
	{"/testimonios", "weekly", 0.8},
	{"/contacto", "monthly", 0.7},
}

// SitemapEntries lists the static pages followed by one entry per product slug.
func SitemapEntries(baseURL string, productSlugs []string, lastMod time.Time) []SitemapURL {
	mod := ""
	if !lastMod.IsZero() {
		mod = lastMod.UTC().Format("2006-01-02")
	}
	out := make([]SitemapURL, 0, len(staticPages)+len(productSlugs))
	for _, p := range staticPages {
		out = append(out, SitemapURL{
			Loc:        strings.TrimSuffix(Absolute(baseURL, p.path), "/"),
			LastMod:    mod,
			ChangeFreq: p.changeFreq,
			Priority:   p.priority,
		})
	}
	for _, slug := range productSlugs {
		out = append(out, SitemapURL{
			Loc:        Absolute(baseURL, "/productos/"+slug),
			LastMod:    mod,
			ChangeFreq: "weekly",
			Priority:   0.8,
		})
	}
	return out
}

// Sitemap renders entries as a sitemaps.org XML document.
func Sitemap(entries []SitemapURL) ([]byte, error) {
	body, err := xml.MarshalIndent(urlSet{Xmlns: sitemapNS, URLs: entries}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("seo: marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// Robots returns a robots.txt allowing every crawler and pointing at the sitemap.
func Robots(baseURL string) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /healthz\n\n")
	fmt.Fprintf(&b, "Sitemap: %s\n", Absolute(baseURL, "/sitemap.xml"))
	return b.String()
}
