package pricing

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"

	pfirestore "github.com/Yosolita1978/Nouvie-web/internal/platform/firestore"
)

// PriceDocument is the Firestore shape of a pricing record.
type PriceDocument struct {
	Name     string  `firestore:"name"`
	Category string  `firestore:"category,omitempty"`
	Price    float64 `firestore:"price"`
	Unit     string  `firestore:"unit"`
	Stock    int     `firestore:"stock"`
	Active   bool    `firestore:"active"`
}

// FirestoreStore reads pricing documents from a Firestore collection.
type FirestoreStore struct {
	coll *pfirestore.Collection[PriceDocument]
}

// NewFirestoreStore binds the store to collection.
func NewFirestoreStore(provider *pfirestore.Provider, collection string) *FirestoreStore {
	if strings.TrimSpace(collection) == "" {
		collection = defaultTable
	}
	return &FirestoreStore{coll: pfirestore.NewCollection[PriceDocument](provider, collection, nil)}
}

// ListActive returns active documents ordered by document id.
func (s *FirestoreStore) ListActive(ctx context.Context) ([]Record, error) {
	if s == nil || s.coll == nil {
		return nil, unavailable("firestore.list", errors.New("firestore is not configured"))
	}
	docs, err := s.coll.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("active", "==", true).OrderBy(firestore.DocumentID, firestore.Asc)
	})
	if err != nil {
		return nil, unavailable("firestore.list", err)
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, doc.Data.Record())
	}
	return records, nil
}

// Record converts the document, rounding the price to whole pesos.
func (d PriceDocument) Record() Record {
	return Record{
		Name:   strings.TrimSpace(d.Name),
		Price:  wholePesos(decimal.NewFromFloat(d.Price)),
		Unit:   strings.TrimSpace(d.Unit),
		Stock:  d.Stock,
		Active: d.Active,
	}
}
