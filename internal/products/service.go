// Package products merges the authored catalog with live pricing into the product views
// rendered by the site.
package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/Yosolita1978/Nouvie-web/internal/catalog"
	"github.com/Yosolita1978/Nouvie-web/internal/platform/observability"
	"github.com/Yosolita1978/Nouvie-web/internal/platform/requestctx"
	"github.com/Yosolita1978/Nouvie-web/internal/pricing"
	"github.com/Yosolita1978/Nouvie-web/internal/slug"
)

const (
	defaultPricingTimeout = 3 * time.Second
	tracerName            = "github.com/Yosolita1978/Nouvie-web/internal/products"
)

// ErrProductNotFound is returned by Product for slugs absent from the catalog.
var ErrProductNotFound = errors.New("products: product not found")

// MatchKind records how pricing was attached to a product.
type MatchKind string

const (
	MatchNone  MatchKind = ""
	MatchExact MatchKind = "exact"
	MatchFuzzy MatchKind = "fuzzy"
)

// UnifiedProduct is an authored product plus whatever pricing matched it. It is built
// fresh for every read and never stored.
type UnifiedProduct struct {
	catalog.Product

	Price           *int64
	Unit            string
	Stock           *int
	HasPricingMatch bool
	Match           MatchKind
	MatchedKey      string
}

// Service builds unified product views. It holds no mutable state and is safe for
// concurrent use.
type Service struct {
	catalog *catalog.Store
	pricing pricing.Store
	logger  *zap.Logger
	timeout time.Duration
	fuzzy   bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used when the request context carries none.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPricingTimeout bounds each pricing query.
func WithPricingTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithFuzzyMatch toggles substring matching after an exact miss.
func WithFuzzyMatch(enabled bool) Option {
	return func(s *Service) {
		s.fuzzy = enabled
	}
}

// NewService wires the catalog and pricing store. A nil store behaves like an empty one.
func NewService(cat *catalog.Store, store pricing.Store, opts ...Option) *Service {
	s := &Service{
		catalog: cat,
		pricing: store,
		logger:  zap.NewNop(),
		timeout: defaultPricingTimeout,
		fuzzy:   true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Catalog exposes the authored catalog.
func (s *Service) Catalog() *catalog.Store { return s.catalog }

// UnifiedCatalog returns every catalog product in authored order with pricing attached
// where a record matches. Pricing failures are logged and yield unpriced products.
func (s *Service) UnifiedCatalog(ctx context.Context) []UnifiedProduct {
	ctx, span := observability.StartSpan(ctx, tracerName, "products.UnifiedCatalog")
	defer span.End()

	out := s.merge(ctx, s.catalog.All())
	span.SetAttributes(
		attribute.Int("products.count", len(out)),
		attribute.Int("products.priced", countPriced(out)),
	)
	return out
}

// Product returns the unified view of a single product.
func (s *Service) Product(ctx context.Context, productSlug string) (UnifiedProduct, error) {
	p, _, err := s.ProductWithCatalog(ctx, productSlug)
	return p, err
}

// ProductWithCatalog returns the unified view of a product together with the unified
// catalog it was taken from, so related listings share one pricing read. Unknown slugs
// fail before pricing is queried.
func (s *Service) ProductWithCatalog(ctx context.Context, productSlug string) (UnifiedProduct, []UnifiedProduct, error) {
	if _, ok := s.catalog.BySlug(productSlug); !ok {
		return UnifiedProduct{}, nil, fmt.Errorf("%w: %q", ErrProductNotFound, productSlug)
	}

	ctx, span := observability.StartSpan(ctx, tracerName, "products.Product", attribute.String("product.slug", productSlug))
	defer span.End()

	all := s.UnifiedCatalog(ctx)
	p, ok := Find(all, productSlug)
	if !ok {
		return UnifiedProduct{}, nil, fmt.Errorf("%w: %q", ErrProductNotFound, productSlug)
	}
	return p, all, nil
}

// Find returns the product with the given slug from list.
func Find(list []UnifiedProduct, productSlug string) (UnifiedProduct, bool) {
	for _, p := range list {
		if p.Slug == productSlug {
			return p, true
		}
	}
	return UnifiedProduct{}, false
}

// FilterByCategory keeps products of category c in their authored order. CategoryAll
// returns the list unchanged.
func FilterByCategory(list []UnifiedProduct, c catalog.Category) []UnifiedProduct {
	if c == catalog.CategoryAll {
		return list
	}
	out := make([]UnifiedProduct, 0, len(list))
	for _, p := range list {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

func (s *Service) merge(ctx context.Context, list []catalog.Product) []UnifiedProduct {
	logger := s.loggerFor(ctx)

	records, err := s.fetchPricing(ctx)
	if err != nil {
		logger.Warn("pricing unavailable, serving catalog without prices", zap.Error(err))
		records = nil
	}
	lookup := buildLookup(records, logger)

	out := make([]UnifiedProduct, len(list))
	for i, p := range list {
		up := UnifiedProduct{Product: p}
		entry, kind := lookup.match(p.Slug, s.fuzzy)
		if kind != MatchNone {
			price, stock := entry.price, entry.stock
			up.Price = &price
			up.Stock = &stock
			up.Unit = entry.unit
			up.HasPricingMatch = true
			up.Match = kind
			up.MatchedKey = entry.key
			if kind == MatchFuzzy {
				logger.Info("pricing matched by substring",
					zap.String("slug", p.Slug),
					zap.String("matched_key", entry.key),
					zap.String("record_name", entry.name),
				)
			}
		}
		out[i] = up
	}
	return out
}

type fetchResult struct {
	records []pricing.Record
	err     error
}

// fetchPricing queries the store under the configured timeout. A store that panics or
// ignores cancellation still returns control to the caller once the deadline passes.
func (s *Service) fetchPricing(ctx context.Context) ([]pricing.Record, error) {
	if s.pricing == nil {
		return nil, nil
	}

	ctx, span := observability.StartSpan(ctx, tracerName, "pricing.ListActive")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- fetchResult{err: fmt.Errorf("%w: store panicked: %v", pricing.ErrStoreUnavailable, rec)}
			}
		}()
		records, err := s.pricing.ListActive(ctx)
		done <- fetchResult{records: records, err: err}
	}()

	var res fetchResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = fetchResult{err: fmt.Errorf("%w: %w", pricing.ErrStoreUnavailable, ctx.Err())}
	}

	if res.err != nil {
		span.RecordError(res.err)
		span.SetStatus(codes.Error, "pricing query failed")
		return nil, res.err
	}
	span.SetAttributes(attribute.Int("pricing.records", len(res.records)))
	return res.records, nil
}

func (s *Service) loggerFor(ctx context.Context) *zap.Logger {
	if l := requestctx.Logger(ctx); l != requestctx.NoopLogger() {
		return l
	}
	return s.logger
}

type priceEntry struct {
	key   string
	name  string
	price int64
	unit  string
	stock int
}

type priceLookup map[string]priceEntry

// buildLookup keys active records by normalized name. Later records replace earlier ones
// on collision; records whose name normalizes to nothing are dropped.
func buildLookup(records []pricing.Record, logger *zap.Logger) priceLookup {
	lookup := make(priceLookup, len(records))
	for _, r := range records {
		if !r.Active {
			continue
		}
		key := slug.Normalize(r.Name)
		if key == "" {
			logger.Warn("pricing record name has no usable characters", zap.String("record_name", r.Name))
			continue
		}
		if prev, ok := lookup[key]; ok {
			logger.Warn("pricing records collide on normalized name, keeping the later one",
				zap.String("key", key),
				zap.String("previous_name", prev.name),
				zap.String("name", r.Name),
			)
		}
		lookup[key] = priceEntry{key: key, name: r.Name, price: r.Price, unit: r.Unit, stock: r.Stock}
	}
	return lookup
}

// match finds the entry for a catalog slug. Exact keys win. Otherwise, when fuzzy is set,
// any key contained in the slug or containing it is a candidate; the candidate closest in
// length wins, then the lexicographically smallest key.
func (l priceLookup) match(productSlug string, fuzzy bool) (priceEntry, MatchKind) {
	if productSlug == "" {
		return priceEntry{}, MatchNone
	}
	if e, ok := l[productSlug]; ok {
		return e, MatchExact
	}
	if !fuzzy {
		return priceEntry{}, MatchNone
	}

	var (
		best  priceEntry
		found bool
	)
	for key, e := range l {
		if !strings.Contains(productSlug, key) && !strings.Contains(key, productSlug) {
			continue
		}
		if !found || closer(key, best.key, productSlug) {
			best, found = e, true
		}
	}
	if !found {
		return priceEntry{}, MatchNone
	}
	return best, MatchFuzzy
}

// closer reports whether candidate beats current for target.
func closer(candidate, current, target string) bool {
	cs, cl := shorterLonger(len(candidate), len(target))
	bs, bl := shorterLonger(len(current), len(target))
	// cs/cl > bs/bl without floating point.
	if lhs, rhs := cs*bl, bs*cl; lhs != rhs {
		return lhs > rhs
	}
	return candidate < current
}

func shorterLonger(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

func countPriced(list []UnifiedProduct) int {
	n := 0
	for _, p := range list {
		if p.HasPricingMatch {
			n++
		}
	}
	return n
}
