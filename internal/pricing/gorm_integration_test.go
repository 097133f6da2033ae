//go:build integration

package pricing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/Yosolita1978/Nouvie-web/internal/platform/config"
	"github.com/Yosolita1978/Nouvie-web/internal/platform/database"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "nouvie",
				"POSTGRES_PASSWORD": "nouvie",
				"POSTGRES_DB":       "nouvie",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://nouvie:nouvie@%s:%s/nouvie?sslmode=disable", host, port.Port())
}

func TestGormStoreIntegration(t *testing.T) {
	dsn := startPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, config.DatabaseConfig{URL: dsn, MaxOpenConns: 2}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	table := "precios_" + uuid.NewString()[:8]
	store := NewGormStore(db, table)
	require.NoError(t, store.Migrate(ctx))

	require.NoError(t, store.Insert(ctx,
		PriceRow{Name: "Detergente Neutro", Price: decimal.NewFromInt(25000), Unit: "unidad", Stock: 10, Active: true},
		PriceRow{Name: "Atomizador", Price: decimal.NewFromInt(9000), Unit: "unidad", Stock: 4, Active: true},
		PriceRow{Name: "Detergente-Neutro", Price: decimal.NewFromInt(27000), Unit: "unidad", Stock: 1, Active: true},
	))
	require.NoError(t, db.WithContext(ctx).Table(table).Create(&PriceRow{
		Name: "Lustra Muebles", Price: decimal.NewFromInt(15000), Unit: "unidad",
	}).Error)
	require.NoError(t, db.WithContext(ctx).Table(table).Where("name = ?", "Lustra Muebles").Update("active", false).Error)

	records, err := store.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Detergente Neutro", records[0].Name)
	assert.Equal(t, int64(25000), records[0].Price)
	assert.Equal(t, "Atomizador", records[1].Name)
	assert.Equal(t, "Detergente-Neutro", records[2].Name)
}

func TestGormStoreMissingTable(t *testing.T) {
	dsn := startPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, config.DatabaseConfig{URL: dsn}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = NewGormStore(db, "does_not_exist").ListActive(ctx)
	require.ErrorIs(t, err, ErrStoreUnavailable)
}
