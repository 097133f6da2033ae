package nav

import (
	"path"
	"strings"
)

// Item represents a top-level navigation item.
type Item struct {
	Path  string // e.g. "/productos"
	Label string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Label  string
	Active bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// HomeLabel is the label of the root breadcrumb.
const HomeLabel = "Inicio"

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/nosotros", Label: "Nosotros"},
	{Path: "/productos", Label: "Productos"},
	{Path: "/testimonios", Label: "Testimonios"},
	{Path: "/filosofia", Label: "Filosofía"},
	{Path: "/contacto", Label: "Contacto"},
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:   it.Path,
			Label:  it.Label,
			Active: isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds breadcrumb entries from the current path.
// The first crumb is always home; top-level sections use their nav label.
// When leaf is non-empty it replaces the label of the last crumb.
func Breadcrumbs(currentPath, leaf string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", Label: HomeLabel, Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean("/" + strings.TrimPrefix(currentPath, "/"))
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")

	href := ""
	for i, part := range parts {
		if part == "" {
			continue
		}
		href += "/" + part
		label := titleFromSegment(part)
		if i == 0 {
			if l, ok := labelFor(href); ok {
				label = l
			}
		}
		crumbs = append(crumbs, Crumb{Href: href, Label: label, Active: i == len(parts)-1})
	}
	if leaf != "" && len(crumbs) > 1 {
		crumbs[len(crumbs)-1].Label = leaf
	}
	return crumbs
}

func labelFor(p string) (string, bool) {
	for _, it := range Main {
		if it.Path == p {
			return it.Label, true
		}
	}
	return "", false
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.ReplaceAll(seg, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
