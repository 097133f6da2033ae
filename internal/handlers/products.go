package handlers

import (
	"net/url"

	"github.com/Yosolita1978/Nouvie-web/internal/catalog"
	"github.com/Yosolita1978/Nouvie-web/internal/format"
	"github.com/Yosolita1978/Nouvie-web/internal/products"
	"github.com/Yosolita1978/Nouvie-web/internal/seo"
)

const relatedLimit = 3

// ProductCard is the grid tile for a product.
type ProductCard struct {
	Slug         string
	URL          string
	Name         string
	Tagline      string
	Category     catalog.Category
	CategoryName string
	Image        string
	Badge        string
	HasPrice     bool
	PriceLabel   string
	StockLabel   string
}

// CategoryTab is a filter tab on the catalog page.
type CategoryTab struct {
	Value  catalog.Category
	Label  string
	URL    string
	Count  int
	Active bool
}

// CatalogData is the payload of /productos.
type CatalogData struct {
	Category    catalog.Category
	Heading     string
	Description string
	Tabs        []CategoryTab
	Products    []ProductCard
}

// ProductDetail is the payload of /productos/{slug}.
type ProductDetail struct {
	products.UnifiedProduct
	Card         ProductCard
	OrderLink    string
	Related      []ProductCard
	HasUsageInfo bool
}

// BuildCard maps a unified product to its grid tile.
func BuildCard(p products.UnifiedProduct) ProductCard {
	return ProductCard{
		Slug:         p.Slug,
		URL:          ProductURL(p.Slug),
		Name:         p.Name,
		Tagline:      p.Tagline,
		Category:     p.Category,
		CategoryName: p.Category.DisplayName(),
		Image:        p.Image,
		Badge:        p.Badge,
		HasPrice:     p.HasPricingMatch && p.Price != nil,
		PriceLabel:   format.PriceLabel(p.Price, p.Unit),
		StockLabel:   format.StockLabel(p.Stock),
	}
}

// ProductURL returns the detail path for slug.
func ProductURL(slug string) string {
	return "/productos/" + url.PathEscape(slug)
}

// CategoryURL returns the catalog path filtered to c.
func CategoryURL(c catalog.Category) string {
	if c == catalog.CategoryAll || c == "" {
		return "/productos"
	}
	return "/productos?categoria=" + url.QueryEscape(string(c))
}

// BuildCatalog filters the unified catalog to c and prepares the tabs.
func BuildCatalog(all []products.UnifiedProduct, c catalog.Category) CatalogData {
	counts := map[catalog.Category]int{}
	for _, p := range all {
		counts[p.Category]++
	}

	tabs := make([]CategoryTab, 0, len(catalog.Categories)+1)
	tabs = append(tabs, CategoryTab{
		Value:  catalog.CategoryAll,
		Label:  "Todos",
		URL:    CategoryURL(catalog.CategoryAll),
		Count:  len(all),
		Active: c == catalog.CategoryAll,
	})
	for _, cat := range catalog.Categories {
		tabs = append(tabs, CategoryTab{
			Value:  cat,
			Label:  cat.DisplayName(),
			URL:    CategoryURL(cat),
			Count:  counts[cat],
			Active: c == cat,
		})
	}

	filtered := products.FilterByCategory(all, c)
	cards := make([]ProductCard, 0, len(filtered))
	for _, p := range filtered {
		cards = append(cards, BuildCard(p))
	}

	return CatalogData{
		Category:    c,
		Heading:     c.DisplayName(),
		Description: c.Description(),
		Tabs:        tabs,
		Products:    cards,
	}
}

// BuildProductDetail prepares the detail view. related is the unified catalog; up to
// three other products of the same line are shown with their pricing.
func BuildProductDetail(site Site, p products.UnifiedProduct, related []products.UnifiedProduct) ProductDetail {
	d := ProductDetail{
		UnifiedProduct: p,
		Card:           BuildCard(p),
		OrderLink:      format.WhatsAppLink(site.WhatsApp, "Hola, quiero información sobre "+p.Name),
		HasUsageInfo:   len(p.DilutionTable) > 0 || len(p.Steps) > 0 || len(p.UsageTips) > 0,
	}
	for _, r := range related {
		if len(d.Related) == relatedLimit {
			break
		}
		if r.Slug == p.Slug || r.Category != p.Category {
			continue
		}
		d.Related = append(d.Related, BuildCard(r))
	}
	return d
}

// ProductJSONLD builds the Product schema for the detail page.
func ProductJSONLD(site Site, p products.UnifiedProduct) map[string]any {
	info := seo.ProductInfo{
		Name:        p.Name,
		Description: p.Description,
		URL:         seo.Absolute(site.BaseURL, ProductURL(p.Slug)),
		SKU:         p.Slug,
		Category:    p.Category.DisplayName(),
		Brand:       "Nouvie",
		Stock:       p.Stock,
	}
	if p.Image != "" {
		info.Image = seo.Absolute(site.BaseURL, p.Image)
	}
	if p.HasPricingMatch {
		info.Price = p.Price
	}
	return seo.Product(info)
}
