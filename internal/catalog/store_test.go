package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	t.Parallel()

	store, err := Default()
	require.NoError(t, err)
	require.Equal(t, 14, store.Len())

	counts := map[Category]int{}
	for _, p := range store.All() {
		counts[p.Category]++
	}
	assert.Equal(t, 6, counts[CategoryHogar])
	assert.Equal(t, 3, counts[CategoryCapilar])
	assert.Equal(t, 5, counts[CategoryInstitucional])

	first := store.All()[0]
	assert.Equal(t, "detergente-neutro", first.Slug)
	assert.Len(t, first.DilutionTable, 3)

	kiwi, ok := store.BySlug("tratamiento-kiwi-acai")
	require.True(t, ok)
	require.Len(t, kiwi.Steps, 3)
	assert.Equal(t, 1, kiwi.Steps[0].Number)

	inst, ok := store.BySlug("limpia-pisos-institucional")
	require.True(t, ok)
	assert.NotEmpty(t, inst.Specs)
	assert.NotEmpty(t, inst.Presentations)
}

func TestStoreReturnsCopies(t *testing.T) {
	t.Parallel()

	store, err := Default()
	require.NoError(t, err)

	all := store.All()
	all[0].Name = "mutated"
	all[0].Benefits[0] = "mutated"

	again, ok := store.BySlug(all[0].Slug)
	require.True(t, ok)
	assert.NotEqual(t, "mutated", again.Name)
	assert.NotEqual(t, "mutated", again.Benefits[0])
}

func TestBySlug(t *testing.T) {
	t.Parallel()

	store, err := New([]Product{
		{Slug: "a", Name: "A", Category: CategoryHogar, Image: "/a.png"},
		{Slug: "b", Name: "B", Category: CategoryCapilar, Image: "/b.png"},
	})
	require.NoError(t, err)

	p, ok := store.BySlug("b")
	require.True(t, ok)
	assert.Equal(t, CategoryCapilar, p.Category)

	_, ok = store.BySlug("missing")
	assert.False(t, ok)
}

func TestValidateRejectsBrokenContent(t *testing.T) {
	t.Parallel()

	base := Product{Slug: "ok", Name: "Ok", Category: CategoryHogar, Image: "/ok.png"}

	cases := []struct {
		name     string
		products []Product
	}{
		{name: "empty catalog", products: nil},
		{name: "missing slug", products: []Product{{Name: "x", Category: CategoryHogar, Image: "/x.png"}}},
		{name: "non canonical slug", products: []Product{{Slug: "Limpia Pisos", Name: "x", Category: CategoryHogar, Image: "/x.png"}}},
		{name: "duplicate slug", products: []Product{base, base}},
		{name: "unknown category", products: []Product{{Slug: "x", Name: "x", Category: "cocina", Image: "/x.png"}}},
		{name: "wildcard category", products: []Product{{Slug: "x", Name: "x", Category: CategoryAll, Image: "/x.png"}}},
		{name: "missing image", products: []Product{{Slug: "x", Name: "x", Category: CategoryHogar}}},
		{name: "steps out of order", products: []Product{{
			Slug: "x", Name: "x", Category: CategoryCapilar, Image: "/x.png",
			Steps: []Step{{Number: 2, Instruction: "b"}, {Number: 1, Instruction: "a"}},
		}}},
		{name: "empty dilution row", products: []Product{{
			Slug: "x", Name: "x", Category: CategoryHogar, Image: "/x.png",
			DilutionTable: []DilutionRow{{Water: "1 L"}},
		}}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tc.products)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCatalog))
		})
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte("products:\n  - slug: x\n    name: X\n    category: hogar\n    image: /x.png\n    precio: 100\n"))
	require.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CategoryHogar, ParseCategory(" Hogar "))
	assert.Equal(t, CategoryInstitucional, ParseCategory("institucional"))
	assert.Equal(t, CategoryAll, ParseCategory("todos"))
	assert.Equal(t, CategoryAll, ParseCategory(""))
	assert.Equal(t, CategoryAll, ParseCategory("cocina"))
	assert.Equal(t, "Línea Capilar", CategoryCapilar.DisplayName())
}
