// Package catalog holds the hand-authored product catalog. The catalog is loaded once,
// validated, and shared read-only for the lifetime of the process.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Yosolita1978/Nouvie-web/internal/slug"
)

//go:embed products.yaml
var embeddedProducts []byte

// ErrInvalidCatalog is returned when authored content is malformed.
var ErrInvalidCatalog = errors.New("catalog: invalid content")

type catalogFile struct {
	Products []Product `yaml:"products"`
}

// Store is an immutable, ordered product catalog.
type Store struct {
	products []Product
	bySlug   map[string]int
}

// Default loads the catalog compiled into the binary.
func Default() (*Store, error) {
	return Load(embeddedProducts)
}

// Load parses and validates a YAML catalog document.
func Load(data []byte) (*Store, error) {
	var file catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return New(file.Products)
}

// New validates products and builds a Store preserving their order.
func New(products []Product) (*Store, error) {
	if err := Validate(products); err != nil {
		return nil, err
	}
	s := &Store{
		products: make([]Product, len(products)),
		bySlug:   make(map[string]int, len(products)),
	}
	for i, p := range products {
		s.products[i] = p.Clone()
		s.bySlug[p.Slug] = i
	}
	return s, nil
}

// Len returns the number of products in the catalog.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.products)
}

// All returns copies of every product in authored order.
func (s *Store) All() []Product {
	if s == nil {
		return []Product{}
	}
	out := make([]Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

// BySlug returns the product with the given slug.
func (s *Store) BySlug(slug string) (Product, bool) {
	if s == nil {
		return Product{}, false
	}
	idx, ok := s.bySlug[slug]
	if !ok {
		return Product{}, false
	}
	return s.products[idx].Clone(), true
}

// Slugs returns every slug in authored order.
func (s *Store) Slugs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.products))
	for i, p := range s.products {
		out[i] = p.Slug
	}
	return out
}

// Validate checks the authoring rules for a product list.
func Validate(products []Product) error {
	var problems []error
	fail := func(i int, p Product, format string, args ...any) {
		ref := p.Slug
		if ref == "" {
			ref = fmt.Sprintf("#%d", i)
		}
		problems = append(problems, fmt.Errorf("%w: product %s: %s", ErrInvalidCatalog, ref, fmt.Sprintf(format, args...)))
	}

	if len(products) == 0 {
		return fmt.Errorf("%w: catalog is empty", ErrInvalidCatalog)
	}

	seen := make(map[string]int, len(products))
	for i, p := range products {
		switch {
		case p.Slug == "":
			fail(i, p, "slug is required")
		case !slug.Valid(p.Slug):
			fail(i, p, "slug must be lowercase ascii words separated by single hyphens")
		}
		if prev, dup := seen[p.Slug]; dup && p.Slug != "" {
			fail(i, p, "duplicate slug (also at position %d)", prev)
		}
		seen[p.Slug] = i

		if strings.TrimSpace(p.Name) == "" {
			fail(i, p, "name is required")
		}
		if !p.Category.Valid() {
			fail(i, p, "unknown category %q", p.Category)
		}
		if strings.TrimSpace(p.Image) == "" {
			fail(i, p, "image is required")
		}
		for j, row := range p.DilutionTable {
			if strings.TrimSpace(row.Use) == "" || strings.TrimSpace(row.Amount) == "" {
				fail(i, p, "dilution row %d needs uso and cantidad", j+1)
			}
		}
		for j, step := range p.Steps {
			if step.Number != j+1 {
				fail(i, p, "step %d is numbered %d", j+1, step.Number)
			}
			if strings.TrimSpace(step.Instruction) == "" {
				fail(i, p, "step %d has no instruction", j+1)
			}
		}
		for j, spec := range p.Specs {
			if strings.TrimSpace(spec.Label) == "" {
				fail(i, p, "spec %d has no label", j+1)
			}
		}
		for j, pr := range p.Presentations {
			if strings.TrimSpace(pr.Size) == "" {
				fail(i, p, "presentation %d has no size", j+1)
			}
		}
	}
	return errors.Join(problems...)
}
