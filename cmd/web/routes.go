package main

import (
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Yosolita1978/Nouvie-web/internal/cms"
	"github.com/Yosolita1978/Nouvie-web/internal/handlers"
	mw "github.com/Yosolita1978/Nouvie-web/internal/middleware"
	"github.com/Yosolita1978/Nouvie-web/internal/platform/observability"
	"github.com/Yosolita1978/Nouvie-web/internal/products"
)

const requestTimeout = 30 * time.Second

// app bundles the collaborators used by the page handlers.
type app struct {
	site      handlers.Site
	products  *products.Service
	content   *cms.Client
	views     *renderer
	publicDir string
	now       func() time.Time
}

// newRouter wires middleware and routes. logger is used when a panic escapes before the
// request logger is attached.
func newRouter(a *app, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
	r.Use(chimw.RealIP)
	r.Use(observability.TraceMiddleware())
	r.Use(observability.InjectLoggerMiddleware(logger))
	r.Use(observability.RequestLoggerMiddleware())
	r.Use(observability.RecoveryMiddleware(logger, a.serverError))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(mw.SecurityHeaders)
	r.Use(mw.HTMX)

	r.NotFound(a.notFound)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/assets/*", mw.AssetsWithCache("/assets", filepath.Join(a.publicDir, "assets")))

	r.Get("/", a.home)
	r.Get("/nosotros", a.contentPage("nosotros"))
	r.Get("/filosofia", a.contentPage("filosofia"))
	r.Get("/testimonios", a.testimonials)
	r.Get("/contacto", a.contact)
	r.Route("/productos", func(r chi.Router) {
		r.Get("/", a.productList)
		r.Get("/{slug}", a.productDetail)
	})
	r.Get("/sitemap.xml", a.sitemap)
	r.Get("/robots.txt", a.robots)
	return r
}
