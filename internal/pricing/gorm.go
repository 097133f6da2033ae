package pricing

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultTable = "products"

// PriceRow mirrors a row of the pricing table.
type PriceRow struct {
	ID       uint            `gorm:"primaryKey"`
	Name     string          `gorm:"not null"`
	Category string          `gorm:"size:32"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Unit     string          `gorm:"size:32;not null;default:unidad"`
	Stock    int             `gorm:"not null;default:0"`
	Active   bool            `gorm:"not null;default:true;index"`
}

// Record converts the row, rounding the price to whole pesos.
func (r PriceRow) Record() Record {
	return Record{
		Name:   strings.TrimSpace(r.Name),
		Price:  wholePesos(r.Price),
		Unit:   strings.TrimSpace(r.Unit),
		Stock:  r.Stock,
		Active: r.Active,
	}
}

// GormStore reads pricing rows from a SQL table.
type GormStore struct {
	db    *gorm.DB
	table string
}

// NewGormStore binds a store to table. An empty table name falls back to "products".
func NewGormStore(db *gorm.DB, table string) *GormStore {
	table = strings.TrimSpace(table)
	if table == "" {
		table = defaultTable
	}
	return &GormStore{db: db, table: table}
}

// ListActive returns active rows ordered by primary key.
func (s *GormStore) ListActive(ctx context.Context) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, unavailable("sql.list", errors.New("database is not configured"))
	}

	var rows []PriceRow
	err := s.db.WithContext(ctx).
		Table(s.table).
		Select("id", "name", "price", "unit", "stock", "active").
		Where("active = ?", true).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, unavailable("sql.list", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}
	return records, nil
}

// Migrate creates or updates the pricing table. Used by integration tests.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).Table(s.table).AutoMigrate(&PriceRow{})
}

// Insert adds rows in order. Used by integration tests.
func (s *GormStore) Insert(ctx context.Context, rows ...PriceRow) error {
	for i := range rows {
		if err := s.db.WithContext(ctx).Table(s.table).Create(&rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func wholePesos(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
