// Package pricing reads priced product records from the configured backend. Records are
// read-only: nothing in this package mutates stock or prices.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Yosolita1978/Nouvie-web/internal/platform/config"
	"github.com/Yosolita1978/Nouvie-web/internal/platform/database"
	pfirestore "github.com/Yosolita1978/Nouvie-web/internal/platform/firestore"
)

// ErrStoreUnavailable wraps every backend failure returned by a Store.
var ErrStoreUnavailable = errors.New("pricing: store unavailable")

// Record is a priced product as kept by the pricing backend. Name is the matching key
// once normalized. Price is in whole pesos.
type Record struct {
	Name   string
	Price  int64
	Unit   string
	Stock  int
	Active bool
}

// Store lists active pricing records. Implementations return records in a stable order
// (ascending primary key, document id or file order) and never return inactive records.
type Store interface {
	ListActive(ctx context.Context) ([]Record, error)
}

// StoreFunc adapts a function to Store.
type StoreFunc func(ctx context.Context) ([]Record, error)

// ListActive calls f.
func (f StoreFunc) ListActive(ctx context.Context) ([]Record, error) { return f(ctx) }

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

func activeOnly(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}

// Open builds the Store selected by cfg.Pricing.Driver. The returned close function
// releases backend connections and is never nil.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Store, func() error, error) {
	noop := func() error { return nil }
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Pricing.Driver {
	case config.DriverStatic, "":
		store, err := NewStaticStore(cfg.Pricing.StaticFile)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("pricing store ready", zap.String("driver", config.DriverStatic), zap.String("file", cfg.Pricing.StaticFile))
		return store, noop, nil
	case config.DriverPostgres:
		db, err := database.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("pricing store ready", zap.String("driver", config.DriverPostgres), zap.String("table", cfg.Database.Table))
		return NewGormStore(db, cfg.Database.Table), func() error { return database.Close(db) }, nil
	case config.DriverFirestore:
		provider := pfirestore.NewProvider(cfg.Firestore)
		logger.Info("pricing store ready", zap.String("driver", config.DriverFirestore), zap.String("collection", cfg.Firestore.Collection))
		return NewFirestoreStore(provider, cfg.Firestore.Collection), provider.Close, nil
	default:
		return nil, noop, fmt.Errorf("pricing: unknown driver %q", cfg.Pricing.Driver)
	}
}
