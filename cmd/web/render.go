package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Yosolita1978/Nouvie-web/internal/handlers"
	"github.com/Yosolita1978/Nouvie-web/internal/platform/requestctx"
)

// renderer owns the parsed template sets. Every file under pages/ gets its own set
// combined with the shared layouts/ and partials/ files, so each page can define
// its own "content" block.
type renderer struct {
	dir   string
	dev   bool
	cache map[string]*template.Template
}

func newRenderer(dir string, dev bool) (*renderer, error) {
	rd := &renderer{dir: dir, dev: dev}
	if dev {
		// Parse once so broken templates fail at startup, then reparse per request.
		_, err := parseTemplates(dir)
		return rd, err
	}
	sets, err := parseTemplates(dir)
	if err != nil {
		return nil, err
	}
	rd.cache = sets
	return rd, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"now": time.Now,
		"add": func(a, b int) int { return a + b },
		"youtubeEmbed": func(id string) string {
			return "https://www.youtube-nocookie.com/embed/" + id
		},
		"youtubeThumb": func(id string) string {
			return "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"
		},
		"productURL":  handlers.ProductURL,
		"categoryURL": handlers.CategoryURL,
	}
}

func parseTemplates(dir string) (map[string]*template.Template, error) {
	var shared, pages []string
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".tmpl") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if strings.HasPrefix(filepath.ToSlash(rel), "pages/") {
			pages = append(pages, path)
		} else {
			shared = append(shared, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(shared) == 0 || len(pages) == 0 {
		return nil, fmt.Errorf("no templates found under %s", dir)
	}

	root, err := template.New("_root").Funcs(templateFuncs()).ParseFiles(shared...)
	if err != nil {
		return nil, err
	}
	sets := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		clone, err := root.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFiles(page); err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		sets[strings.TrimSuffix(filepath.Base(page), ".tmpl")] = clone
	}
	return sets, nil
}

func (rd *renderer) lookup(page string) (*template.Template, error) {
	sets := rd.cache
	if rd.dev {
		parsed, err := parseTemplates(rd.dir)
		if err != nil {
			return nil, fmt.Errorf("template parse error: %w", err)
		}
		sets = parsed
	}
	t, ok := sets[page]
	if !ok {
		return nil, fmt.Errorf("template %q not found", page)
	}
	return t, nil
}

// execute renders block name of page into a buffer so a failing template never leaves
// a half-written response.
func (rd *renderer) execute(page, name string, data any) ([]byte, error) {
	t, err := rd.lookup(page)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("template exec error: %w", err)
	}
	return buf.Bytes(), nil
}

// render executes the base layout for page.
func (a *app) render(w http.ResponseWriter, r *http.Request, status int, page string, data handlers.PageData) {
	a.write(w, r, status, page, "base", data)
}

// renderPartial executes a single block, used for htmx swaps.
func (a *app) renderPartial(w http.ResponseWriter, r *http.Request, page, name string, data handlers.PageData) {
	a.write(w, r, http.StatusOK, page, name, data)
}

func (a *app) write(w http.ResponseWriter, r *http.Request, status int, page, name string, data handlers.PageData) {
	body, err := a.views.execute(page, name, data)
	if err != nil {
		requestctx.Logger(r.Context()).Error("render failed",
			zap.String("page", page),
			zap.String("template", name),
			zap.Error(err),
		)
		a.serverError(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// serverError renders the 500 page. It falls back to plain text when the error
// template itself cannot be rendered.
func (a *app) serverError(w http.ResponseWriter, r *http.Request) {
	data := handlers.NewStatusPage(a.site, r.URL.Path, http.StatusInternalServerError)
	body, err := a.views.execute("error", "base", data)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(body)
}

func (a *app) notFound(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusNotFound, "error", handlers.NewStatusPage(a.site, r.URL.Path, http.StatusNotFound))
}
