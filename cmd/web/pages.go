package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Yosolita1978/Nouvie-web/internal/catalog"
	"github.com/Yosolita1978/Nouvie-web/internal/cms"
	"github.com/Yosolita1978/Nouvie-web/internal/handlers"
	mw "github.com/Yosolita1978/Nouvie-web/internal/middleware"
	"github.com/Yosolita1978/Nouvie-web/internal/platform/requestctx"
	"github.com/Yosolita1978/Nouvie-web/internal/products"
	"github.com/Yosolita1978/Nouvie-web/internal/seo"
	"github.com/Yosolita1978/Nouvie-web/internal/slug"
)

const organizationDescription = "Empresa colombiana de productos de limpieza ecológicos y tratamientos capilares naturales. 100% biodegradables y libres de químicos tóxicos."

func (a *app) home(w http.ResponseWriter, r *http.Request) {
	all := a.products.UnifiedCatalog(r.Context())
	home := handlers.BuildHomeData(all)

	data := handlers.NewPage(a.site, "/", "", "", "", "")
	data.Home = &home

	sameAs := make([]string, 0, len(a.site.Social))
	for _, s := range a.site.Social {
		sameAs = append(sameAs, s.Href)
	}
	data.SEO.AddJSONLD(seo.Organization(seo.OrganizationInfo{
		Name:          "Nouvie SAS",
		AlternateName: a.site.Name,
		URL:           a.site.BaseURL,
		Logo:          seo.Absolute(a.site.BaseURL, "/assets/img/logo-nouvie.png"),
		Description:   organizationDescription,
		Telephone:     "+" + a.site.WhatsApp,
		SameAs:        sameAs,
	}))
	data.SEO.AddJSONLD(seo.WebSite(a.site.Name, a.site.BaseURL))
	a.render(w, r, http.StatusOK, "home", data)
}

// contentPage serves a markdown page from the content directory.
func (a *app) contentPage(pageSlug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := a.content.Page(r.Context(), pageSlug)
		if errors.Is(err, cms.ErrNotFound) {
			a.notFound(w, r)
			return
		}
		if err != nil {
			requestctx.Logger(r.Context()).Error("load content page", zap.String("slug", pageSlug), zap.Error(err))
			a.serverError(w, r)
			return
		}

		title := page.SEO.Title
		if title == "" {
			title = page.Title
		}
		description := page.SEO.Description
		if description == "" {
			description = page.Summary
		}
		data := handlers.NewPage(a.site, "/"+pageSlug, title, description, page.SEO.OGImage, page.Title)
		data.Title = page.Title
		data.Content = &page
		a.render(w, r, http.StatusOK, "content", data)
	}
}

func (a *app) testimonials(w http.ResponseWriter, r *http.Request) {
	t, err := a.content.Testimonials(r.Context())
	if err != nil {
		requestctx.Logger(r.Context()).Error("load testimonials", zap.Error(err))
		a.serverError(w, r)
		return
	}
	data := handlers.NewPage(a.site, "/testimonios", "Testimonios - Historias Reales de Clientes",
		"Descubre testimonios reales de clientes Nouvie y videos educativos sobre productos libres de químicos tóxicos.", "", "Testimonios")
	data.Title = "Testimonios"
	data.Testimonials = &t
	a.render(w, r, http.StatusOK, "testimonios", data)
}

func (a *app) contact(w http.ResponseWriter, r *http.Request) {
	data := handlers.NewPage(a.site, "/contacto", "Contacto - Escríbenos por WhatsApp",
		"Contáctanos por WhatsApp para pedidos, asesoría o preguntas sobre productos Nouvie. Síguenos en Instagram, YouTube y Facebook.", "", "Contacto")
	data.Title = "Contáctanos"
	data.Contact = handlers.BuildContact(a.site)
	a.render(w, r, http.StatusOK, "contacto", data)
}

// productList renders the catalog. htmx requests receive only the product grid.
func (a *app) productList(w http.ResponseWriter, r *http.Request) {
	category := catalog.ParseCategory(r.URL.Query().Get("categoria"))
	view := handlers.BuildCatalog(a.products.UnifiedCatalog(r.Context()), category)

	title := "Productos"
	if category != catalog.CategoryAll {
		title = category.DisplayName()
	}
	data := handlers.NewPage(a.site, "/productos", title, view.Description, "", "")
	data.Title = title
	data.Catalog = &view
	if category != catalog.CategoryAll {
		data.SEO.Canonical = seo.Absolute(a.site.BaseURL, handlers.CategoryURL(category))
	}

	if mw.IsHTMX(r.Context()) {
		a.renderPartial(w, r, "productos", "product_grid", data)
		return
	}
	a.render(w, r, http.StatusOK, "productos", data)
}

// productDetail renders a single product. Non-canonical slugs that normalize to a known
// product redirect permanently.
func (a *app) productDetail(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "slug")
	p, all, err := a.products.ProductWithCatalog(r.Context(), raw)
	if errors.Is(err, products.ErrProductNotFound) {
		if canonical := slug.Normalize(raw); canonical != "" && canonical != raw {
			if _, ok := a.products.Catalog().BySlug(canonical); ok {
				http.Redirect(w, r, handlers.ProductURL(canonical), http.StatusMovedPermanently)
				return
			}
		}
		a.notFound(w, r)
		return
	}
	if err != nil {
		requestctx.Logger(r.Context()).Error("load product", zap.String("slug", raw), zap.Error(err))
		a.serverError(w, r)
		return
	}

	detail := handlers.BuildProductDetail(a.site, p, all)
	data := handlers.NewPage(a.site, handlers.ProductURL(p.Slug), p.Name, productDescription(p), p.Image, p.Name)
	data.Title = p.Name
	data.Product = &detail
	data.SEO.AddJSONLD(handlers.ProductJSONLD(a.site, p))
	data.SEO.AddJSONLD(data.BreadcrumbJSONLD())
	a.render(w, r, http.StatusOK, "producto", data)
}

func productDescription(p products.UnifiedProduct) string {
	desc := strings.TrimSpace(p.Description)
	tagline := strings.TrimSuffix(strings.TrimSpace(p.Tagline), ".")
	switch {
	case tagline == "":
		return desc
	case desc == "":
		return tagline
	default:
		return tagline + ". " + desc
	}
}

func (a *app) sitemap(w http.ResponseWriter, r *http.Request) {
	body, err := seo.Sitemap(seo.SitemapEntries(a.site.BaseURL, a.products.Catalog().Slugs(), a.now()))
	if err != nil {
		requestctx.Logger(r.Context()).Error("build sitemap", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

func (a *app) robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.Robots(a.site.BaseURL)))
}
