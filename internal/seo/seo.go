// Package seo builds page metadata, JSON-LD payloads and crawler files.
package seo

import (
	"fmt"
	"strings"
)

const (
	// TitleTemplate wraps page titles.
	TitleTemplate = "%s | Nouvie Colombia"
	// DefaultTitle is used on the home page and whenever a page has no title.
	DefaultTitle = "Nouvie - Productos de Limpieza Ecológicos y Tratamientos Capilares | Colombia"
	// DefaultDescription is the site-wide meta description.
	DefaultDescription = "Productos de limpieza biodegradables y tratamientos capilares naturales. 100% libres de químicos tóxicos, sulfatos y parabenos. Cuidamos tu salud y el planeta. Envíos a toda Colombia."
	// DefaultImage is the Open Graph image path.
	DefaultImage = "/assets/img/og-image.jpg"
	// Locale is the Open Graph locale.
	Locale = "es_CO"
)

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
	Locale      string
}

type Twitter struct {
	Card  string
	Image string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Twitter     Twitter
}

// PageTitle applies TitleTemplate. An empty title yields DefaultTitle.
func PageTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultTitle
	}
	return fmt.Sprintf(TitleTemplate, title)
}

// Absolute joins baseURL and p. Absolute URLs are returned unchanged.
func Absolute(baseURL, p string) string {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if p == "" || p == "/" {
		return baseURL + "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return baseURL + p
}

// NewMeta builds metadata for a page at path p. Empty description and image fall
// back to the site defaults.
func NewMeta(baseURL, siteName, p, title, description, image string) Meta {
	if strings.TrimSpace(description) == "" {
		description = DefaultDescription
	}
	if strings.TrimSpace(image) == "" {
		image = DefaultImage
	}
	full := PageTitle(title)
	canonical := Absolute(baseURL, p)
	img := Absolute(baseURL, image)
	return Meta{
		Title:       full,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       full,
			Description: description,
			Image:       img,
			Type:        "website",
			URL:         canonical,
			SiteName:    siteName,
			Locale:      Locale,
		},
		Twitter: Twitter{Card: "summary_large_image", Image: img},
	}
}
