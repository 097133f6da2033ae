package handlers

import (
	"github.com/Yosolita1978/Nouvie-web/internal/catalog"
	"github.com/Yosolita1978/Nouvie-web/internal/products"
)

// HeroSlide is one image of the home carousel.
type HeroSlide struct {
	Image string
	Alt   string
	Label string
}

// CategoryCard links to a filtered catalog.
type CategoryCard struct {
	Category    catalog.Category
	Name        string
	Description string
	URL         string
	Count       int
}

// HomeData is the view model for the landing page.
type HomeData struct {
	Slides     []HeroSlide
	Featured   []ProductCard
	Categories []CategoryCard
}

var heroSlides = []HeroSlide{
	{Image: "/assets/img/hero-1.jpg", Alt: "Productos biodegradables Nouvie"},
	{Image: "/assets/img/hero-2.jpg", Alt: "Productos de limpieza ecológicos Nouvie", Label: "Línea Aseo Hogar"},
	{Image: "/assets/img/hero-3.jpg", Alt: "Tratamientos capilares naturales Nouvie", Label: "Línea Capilar"},
	{Image: "/assets/img/hero-4.jpg", Alt: "Línea institucional Nouvie", Label: "Línea Limpieza Institucional"},
}

// BuildHomeData features the first product of every line, preferring badged ones.
func BuildHomeData(all []products.UnifiedProduct) HomeData {
	home := HomeData{Slides: append([]HeroSlide(nil), heroSlides...)}
	for _, c := range catalog.Categories {
		line := products.FilterByCategory(all, c)
		home.Categories = append(home.Categories, CategoryCard{
			Category:    c,
			Name:        c.DisplayName(),
			Description: c.Description(),
			URL:         CategoryURL(c),
			Count:       len(line),
		})
		if len(line) == 0 {
			continue
		}
		pick := line[0]
		for _, p := range line {
			if p.Badge != "" {
				pick = p
				break
			}
		}
		home.Featured = append(home.Featured, BuildCard(pick))
	}
	return home
}
