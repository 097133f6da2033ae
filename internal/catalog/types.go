package catalog

import "strings"

// Category is the closed set of product lines.
type Category string

const (
	CategoryHogar         Category = "hogar"
	CategoryCapilar       Category = "capilar"
	CategoryInstitucional Category = "institucional"

	// CategoryAll is the wildcard selector accepted by filters. It is never stored on a product.
	CategoryAll Category = "todos"
)

// Categories lists the product lines in display order.
var Categories = []Category{CategoryHogar, CategoryCapilar, CategoryInstitucional}

var categoryInfo = map[Category]struct {
	name        string
	description string
}{
	CategoryHogar:         {name: "Línea Hogar", description: "Productos de limpieza ecológicos para tu hogar"},
	CategoryCapilar:       {name: "Línea Capilar", description: "Tratamientos capilares naturales"},
	CategoryInstitucional: {name: "Línea Institucional", description: "Soluciones de limpieza profesional"},
	CategoryAll:           {name: "Todos los productos", description: "Catálogo completo Nouvie"},
}

// ParseCategory maps a query value to a Category. Unknown and empty values resolve to CategoryAll.
func ParseCategory(v string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(v)))
	if c.Valid() || c == CategoryAll {
		return c
	}
	return CategoryAll
}

// Valid reports whether c is one of the concrete product lines.
func (c Category) Valid() bool {
	switch c {
	case CategoryHogar, CategoryCapilar, CategoryInstitucional:
		return true
	}
	return false
}

// DisplayName returns the human label, e.g. "Línea Hogar".
func (c Category) DisplayName() string {
	if info, ok := categoryInfo[c]; ok {
		return info.name
	}
	return string(c)
}

// Description returns the short marketing blurb for the line.
func (c Category) Description() string {
	return categoryInfo[c].description
}

// DilutionRow is one line of a dilution table.
type DilutionRow struct {
	Use    string `yaml:"uso"`
	Amount string `yaml:"cantidad"`
	Water  string `yaml:"agua"`
}

// Step is one ordered usage step of a treatment.
type Step struct {
	Number      int    `yaml:"step"`
	Name        string `yaml:"name"`
	Instruction string `yaml:"instruction"`
}

// Spec is a technical specification entry.
type Spec struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// Presentation is a size (and optional price label) a product is sold in.
type Presentation struct {
	Size  string `yaml:"size"`
	Price string `yaml:"price,omitempty"`
}

// Product is a hand-authored catalog record. Optional extras vary by category and are
// opaque to pricing; they are validated when the catalog is loaded.
type Product struct {
	Slug          string         `yaml:"slug"`
	Name          string         `yaml:"name"`
	Tagline       string         `yaml:"tagline"`
	Category      Category       `yaml:"category"`
	Description   string         `yaml:"description"`
	Benefits      []string       `yaml:"benefits"`
	Image         string         `yaml:"image"`
	UsageImage    string         `yaml:"usage_image,omitempty"`
	Badge         string         `yaml:"badge,omitempty"`
	DilutionTable []DilutionRow  `yaml:"dilution_table,omitempty"`
	Steps         []Step         `yaml:"steps,omitempty"`
	Specs         []Spec         `yaml:"specs,omitempty"`
	Presentations []Presentation `yaml:"presentations,omitempty"`
	YouTubeVideo  string         `yaml:"youtube_video,omitempty"`
	UsageTips     []string       `yaml:"usage_tips,omitempty"`
}

// Clone returns a deep copy so callers can never mutate the shared catalog.
func (p Product) Clone() Product {
	cp := p
	cp.Benefits = cloneSlice(p.Benefits)
	cp.DilutionTable = cloneSlice(p.DilutionTable)
	cp.Steps = cloneSlice(p.Steps)
	cp.Specs = cloneSlice(p.Specs)
	cp.Presentations = cloneSlice(p.Presentations)
	cp.UsageTips = cloneSlice(p.UsageTips)
	return cp
}

func cloneSlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	return append([]T(nil), src...)
}
