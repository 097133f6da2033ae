package products

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Yosolita1978/Nouvie-web/internal/catalog"
	"github.com/Yosolita1978/Nouvie-web/internal/platform/requestctx"
	"github.com/Yosolita1978/Nouvie-web/internal/pricing"
)

func testCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.New([]catalog.Product{
		{Slug: "detergente-neutro", Name: "Detergente Neutro Nouvie", Category: catalog.CategoryHogar, Image: "/a.png"},
		{Slug: "limpia-pisos", Name: "Limpia Pisos", Category: catalog.CategoryHogar, Image: "/b.png"},
		{Slug: "tratamiento-kiwi-acai", Name: "Tratamiento Kiwi & Acaí", Category: catalog.CategoryCapilar, Image: "/c.png"},
		{Slug: "limpia-pisos-institucional", Name: "Limpia Pisos Institucional", Category: catalog.CategoryInstitucional, Image: "/d.png"},
	})
	require.NoError(t, err)
	return store
}

func records(rs ...pricing.Record) pricing.Store {
	return pricing.StoreFunc(func(context.Context) ([]pricing.Record, error) {
		return rs, nil
	})
}

func active(name string, price int64) pricing.Record {
	return pricing.Record{Name: name, Price: price, Unit: "unidad", Stock: 5, Active: true}
}

func slugs(list []UnifiedProduct) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.Slug
	}
	return out
}

func TestUnifiedCatalogExactMatch(t *testing.T) {
	svc := NewService(testCatalog(t), records(active("Detergente Neutro", 25000)))

	list := svc.UnifiedCatalog(context.Background())
	require.Len(t, list, 4)

	det := list[0]
	require.True(t, det.HasPricingMatch)
	require.NotNil(t, det.Price)
	assert.Equal(t, int64(25000), *det.Price)
	assert.Equal(t, "unidad", det.Unit)
	require.NotNil(t, det.Stock)
	assert.Equal(t, 5, *det.Stock)
	assert.Equal(t, MatchExact, det.Match)
	assert.Equal(t, "Detergente Neutro Nouvie", det.Name)

	for _, p := range list[1:] {
		assert.False(t, p.HasPricingMatch, p.Slug)
		assert.Nil(t, p.Price, p.Slug)
		assert.Nil(t, p.Stock, p.Slug)
	}
}

func TestUnifiedCatalogAccentInsensitiveMatch(t *testing.T) {
	svc := NewService(testCatalog(t), records(active("Tratamiento KIWI & Acaí", 68000), active("Limpia Pisós", 12000)))

	list := svc.UnifiedCatalog(context.Background())
	assert.True(t, list[1].HasPricingMatch)
	assert.Equal(t, MatchExact, list[1].Match)
	assert.True(t, list[2].HasPricingMatch)
	assert.Equal(t, int64(68000), *list[2].Price)
}

func TestUnifiedCatalogFuzzyMatchIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewService(testCatalog(t), records(active("Detergente Neutro Extra", 30000)), WithLogger(zap.New(core)))

	list := svc.UnifiedCatalog(context.Background())
	det := list[0]
	require.True(t, det.HasPricingMatch)
	assert.Equal(t, MatchFuzzy, det.Match)
	assert.Equal(t, "detergente-neutro-extra", det.MatchedKey)
	assert.Equal(t, int64(30000), *det.Price)

	fuzzy := logs.FilterMessage("pricing matched by substring").All()
	require.Len(t, fuzzy, 1)
	assert.Equal(t, "detergente-neutro", fuzzy[0].ContextMap()["slug"])
	assert.Equal(t, "detergente-neutro-extra", fuzzy[0].ContextMap()["matched_key"])
}

func TestExactMatchBeatsFuzzy(t *testing.T) {
	svc := NewService(testCatalog(t), records(
		active("Limpia Pisos Institucional Galón", 90000),
		active("Limpia Pisos Institucional", 80000),
		active("Limpia", 1000),
	))

	list := svc.UnifiedCatalog(context.Background())
	inst := list[3]
	assert.Equal(t, MatchExact, inst.Match)
	assert.Equal(t, int64(80000), *inst.Price)
}

func TestFuzzyTieBreakIsDeterministic(t *testing.T) {
	// For "limpia-pisos": "limpia" ratio 6/12, "pisos" 5/12, "limpia-pisos-x" 12/14.
	svc := NewService(testCatalog(t), records(
		active("Limpia", 1000),
		active("Pisos", 2000),
		active("Limpia Pisos X", 3000),
	))

	for i := 0; i < 20; i++ {
		list := svc.UnifiedCatalog(context.Background())
		p := list[1]
		require.True(t, p.HasPricingMatch)
		assert.Equal(t, "limpia-pisos-x", p.MatchedKey)
	}
}

func TestFuzzyTieBreakFallsBackToKeyOrder(t *testing.T) {
	store, err := catalog.New([]catalog.Product{
		{Slug: "ab-cd", Name: "AB CD", Category: catalog.CategoryHogar, Image: "/x.png"},
	})
	require.NoError(t, err)

	// "ab" and "cd" are both 2/5 of the slug.
	svc := NewService(store, records(active("CD", 2), active("AB", 1)))
	for i := 0; i < 20; i++ {
		p := svc.UnifiedCatalog(context.Background())[0]
		assert.Equal(t, "ab", p.MatchedKey)
		assert.Equal(t, int64(1), *p.Price)
	}
}

func TestFuzzyMatchingCanBeDisabled(t *testing.T) {
	svc := NewService(testCatalog(t), records(active("Detergente Neutro Extra", 30000)), WithFuzzyMatch(false))
	list := svc.UnifiedCatalog(context.Background())
	assert.False(t, list[0].HasPricingMatch)
}

func TestInactiveRecordsAreIgnored(t *testing.T) {
	inactive := active("Detergente Neutro", 25000)
	inactive.Active = false

	svc := NewService(testCatalog(t), records(inactive))
	list := svc.UnifiedCatalog(context.Background())
	assert.False(t, list[0].HasPricingMatch)
}

func TestCollisionLastRecordWinsAndWarns(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewService(testCatalog(t), records(
		active("Detergente Neutro", 25000),
		active("detergente-neutro", 27000),
	), WithLogger(zap.New(core)))

	list := svc.UnifiedCatalog(context.Background())
	assert.Equal(t, int64(27000), *list[0].Price)

	warns := logs.FilterMessage("pricing records collide on normalized name, keeping the later one").All()
	require.Len(t, warns, 1)
	assert.Equal(t, zapcore.WarnLevel, warns[0].Level)
	assert.Equal(t, "Detergente Neutro", warns[0].ContextMap()["previous_name"])
	assert.Equal(t, "detergente-neutro", warns[0].ContextMap()["name"])
}

func TestEmptyNormalizedNamesNeverMatch(t *testing.T) {
	svc := NewService(testCatalog(t), records(active("¡¡¡ !!!", 1), active("", 2)))
	for _, p := range svc.UnifiedCatalog(context.Background()) {
		assert.False(t, p.HasPricingMatch, p.Slug)
	}
}

func TestStoreFailuresFallBackToCatalog(t *testing.T) {
	cat := testCatalog(t)

	cases := map[string]pricing.Store{
		"error": pricing.StoreFunc(func(context.Context) ([]pricing.Record, error) {
			return nil, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
		}),
		"panic": pricing.StoreFunc(func(context.Context) ([]pricing.Record, error) {
			panic("nil pointer in driver")
		}),
		"empty":   records(),
		"nil":     nil,
		"partial": pricing.StoreFunc(func(context.Context) ([]pricing.Record, error) { return []pricing.Record{active("Detergente Neutro", 1)}, errors.New("cursor closed") }),
	}

	for name, store := range cases {
		t.Run(name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			svc := NewService(cat, store, WithLogger(zap.New(core)))

			list := svc.UnifiedCatalog(context.Background())
			require.Equal(t, []string{"detergente-neutro", "limpia-pisos", "tratamiento-kiwi-acai", "limpia-pisos-institucional"}, slugs(list))
			for _, p := range list {
				assert.False(t, p.HasPricingMatch, p.Slug)
				assert.Nil(t, p.Price)
			}
			if name == "error" || name == "panic" || name == "partial" {
				assert.Equal(t, 1, logs.FilterMessage("pricing unavailable, serving catalog without prices").Len())
			}
		})
	}
}

func TestSlowStoreIsBoundedByTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	slow := pricing.StoreFunc(func(context.Context) ([]pricing.Record, error) {
		<-release
		return []pricing.Record{active("Detergente Neutro", 25000)}, nil
	})
	svc := NewService(testCatalog(t), slow, WithPricingTimeout(50*time.Millisecond))

	start := time.Now()
	list := svc.UnifiedCatalog(context.Background())
	assert.Less(t, time.Since(start), 2*time.Second)
	require.Len(t, list, 4)
	assert.False(t, list[0].HasPricingMatch)
}

func TestStoreSeesDeadline(t *testing.T) {
	var sawDeadline bool
	store := pricing.StoreFunc(func(ctx context.Context) ([]pricing.Record, error) {
		_, sawDeadline = ctx.Deadline()
		return nil, nil
	})
	NewService(testCatalog(t), store, WithPricingTimeout(time.Second)).UnifiedCatalog(context.Background())
	assert.True(t, sawDeadline)
}

func TestRequestLoggerIsPreferred(t *testing.T) {
	svcCore, svcLogs := observer.New(zapcore.InfoLevel)
	reqCore, reqLogs := observer.New(zapcore.InfoLevel)

	failing := pricing.StoreFunc(func(context.Context) ([]pricing.Record, error) { return nil, errors.New("down") })
	svc := NewService(testCatalog(t), failing, WithLogger(zap.New(svcCore)))

	ctx := requestctx.WithLogger(context.Background(), zap.New(reqCore))
	svc.UnifiedCatalog(ctx)

	assert.Equal(t, 0, svcLogs.Len())
	assert.Equal(t, 1, reqLogs.Len())
}

func TestProductLookup(t *testing.T) {
	svc := NewService(testCatalog(t), records(active("Tratamiento Kiwi Acai", 68000)))

	p, err := svc.Product(context.Background(), "tratamiento-kiwi-acai")
	require.NoError(t, err)
	assert.True(t, p.HasPricingMatch)
	assert.Equal(t, int64(68000), *p.Price)

	_, err = svc.Product(context.Background(), "shampoo-magico")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestProductWithCatalogUsesOnePricingRead(t *testing.T) {
	var calls atomic.Int32
	store := pricing.StoreFunc(func(context.Context) ([]pricing.Record, error) {
		calls.Add(1)
		return []pricing.Record{active("Detergente Neutro", 25000), active("Tratamiento Kiwi Acai", 68000)}, nil
	})
	svc := NewService(testCatalog(t), store)

	p, all, err := svc.ProductWithCatalog(context.Background(), "limpia-pisos")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "limpia-pisos", p.Slug)
	require.Len(t, all, len(testCatalog(t).All()))

	related, ok := Find(all, "detergente-neutro")
	require.True(t, ok)
	require.True(t, related.HasPricingMatch)
	assert.Equal(t, int64(25000), *related.Price)

	_, _, err = svc.ProductWithCatalog(context.Background(), "shampoo-magico")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFilterByCategory(t *testing.T) {
	svc := NewService(testCatalog(t), nil)
	list := svc.UnifiedCatalog(context.Background())

	assert.Equal(t, []string{"detergente-neutro", "limpia-pisos"}, slugs(FilterByCategory(list, catalog.CategoryHogar)))
	assert.Equal(t, []string{"limpia-pisos-institucional"}, slugs(FilterByCategory(list, catalog.CategoryInstitucional)))
	assert.Equal(t, slugs(list), slugs(FilterByCategory(list, catalog.CategoryAll)))
	assert.Empty(t, FilterByCategory(list, catalog.Category("cocina")))
}

func TestUnifiedCatalogIsSafeForConcurrentUse(t *testing.T) {
	svc := NewService(testCatalog(t), records(active("Detergente Neutro", 25000), active("Limpia", 1000)))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list := svc.UnifiedCatalog(context.Background())
			if len(list) != 4 || !list[0].HasPricingMatch {
				t.Errorf("unexpected catalog %v", slugs(list))
			}
		}()
	}
	wg.Wait()
}

func TestUnifiedCatalogWithDefaultContent(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	svc := NewService(cat, records(active("Detergente Neutro", 25000)))
	list := svc.UnifiedCatalog(context.Background())
	require.Len(t, list, cat.Len())
	assert.True(t, list[0].HasPricingMatch)
	assert.Equal(t, "detergente-neutro", list[0].Slug)
}
