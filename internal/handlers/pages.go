package handlers

import (
	"html/template"
	"time"

	"github.com/Yosolita1978/Nouvie-web/internal/cms"
	"github.com/Yosolita1978/Nouvie-web/internal/format"
	"github.com/Yosolita1978/Nouvie-web/internal/nav"
	"github.com/Yosolita1978/Nouvie-web/internal/platform/config"
	"github.com/Yosolita1978/Nouvie-web/internal/seo"
)

// Site carries brand-wide values shared by every page.
type Site struct {
	Name         string
	BaseURL      string
	WhatsApp     string
	WhatsAppLink string
	Social       []SocialLink
	Year         int
}

// SocialLink is a footer/contact social network entry.
type SocialLink struct {
	Name  string
	Href  string
	Label string
}

// NewSite builds the shared site values from configuration.
func NewSite(cfg config.SiteConfig, now time.Time) Site {
	site := Site{
		Name:         cfg.Name,
		BaseURL:      cfg.BaseURL,
		WhatsApp:     cfg.WhatsApp,
		WhatsAppLink: format.WhatsAppLink(cfg.WhatsApp, ""),
		Year:         now.Year(),
	}
	for _, s := range []SocialLink{
		{Name: "Instagram", Href: cfg.Instagram},
		{Name: "YouTube", Href: cfg.YouTube},
		{Name: "Facebook", Href: cfg.Facebook},
	} {
		if s.Href == "" {
			continue
		}
		s.Label = socialHandle(s.Href)
		site.Social = append(site.Social, s)
	}
	return site
}

// SEOData is the metadata block rendered in the document head.
type SEOData struct {
	seo.Meta
	JSONLD []template.JS
}

// AddJSONLD appends a JSON-LD payload. Payloads that fail to marshal are skipped.
func (s *SEOData) AddJSONLD(v any) {
	if raw := seo.JSON(v); raw != "" {
		//nolint:gosec // encoding/json escapes <, > and & in strings
		s.JSONLD = append(s.JSONLD, template.JS(raw))
	}
}

// PageData is the view model for every page using the shared layout.
type PageData struct {
	Title string
	Lang  string
	SEO   SEOData
	Site  Site

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	// Optional per-page payloads
	Home         *HomeData
	Catalog      *CatalogData
	Product      *ProductDetail
	Content      *cms.Page
	Testimonials *cms.Testimonials
	Contact      *ContactData
	Status       *StatusData
}

// ContactData is the payload of /contacto.
type ContactData struct {
	WhatsAppLink string
	Social       []SocialLink
}

// BuildContact prepares the contact page from the site values.
func BuildContact(site Site) *ContactData {
	return &ContactData{
		WhatsAppLink: format.WhatsAppLink(site.WhatsApp, "Hola Nouvie, quiero más información"),
		Social:       site.Social,
	}
}

// StatusData describes an error page.
type StatusData struct {
	Code    int
	Heading string
	Message string
}

// NewPage fills the layout fields for a page at path. leaf overrides the last
// breadcrumb label.
func NewPage(site Site, path, title, description, image, leaf string) PageData {
	return PageData{
		Title:       title,
		Lang:        "es",
		SEO:         SEOData{Meta: seo.NewMeta(site.BaseURL, site.Name, path, title, description, image)},
		Site:        site,
		Path:        path,
		Nav:         nav.Build(path),
		Breadcrumbs: nav.Breadcrumbs(path, leaf),
	}
}

// BreadcrumbJSONLD converts the page breadcrumbs to schema.org items.
func (p PageData) BreadcrumbJSONLD() map[string]any {
	items := make([]seo.BreadcrumbItem, 0, len(p.Breadcrumbs))
	for _, c := range p.Breadcrumbs {
		items = append(items, seo.BreadcrumbItem{Name: c.Label, Item: seo.Absolute(p.Site.BaseURL, c.Href)})
	}
	return seo.BreadcrumbList(items)
}

// NewStatusPage builds the view model for 404 and 500 pages.
func NewStatusPage(site Site, path string, code int) PageData {
	status := &StatusData{Code: code}
	switch code {
	case 404:
		status.Heading = "Página no encontrada"
		status.Message = "Lo sentimos, la página que buscas no existe o fue movida."
	default:
		status.Heading = "Algo salió mal"
		status.Message = "Tuvimos un problema al cargar esta página. Intenta de nuevo en unos minutos."
	}
	page := NewPage(site, path, status.Heading, status.Message, "", "")
	page.SEO.Canonical = ""
	page.Status = status
	return page
}

func socialHandle(href string) string {
	for i := len(href) - 1; i >= 0; i-- {
		if href[i] == '/' {
			tail := href[i+1:]
			if tail == "" {
				href = href[:i]
				continue
			}
			if tail[0] == '@' {
				return tail
			}
			return "@" + tail
		}
	}
	return href
}
