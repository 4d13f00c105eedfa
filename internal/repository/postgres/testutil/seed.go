package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func MustInsertWarehouse(t *testing.T, db *pgxpool.Pool, name, locationCode string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(), `
		INSERT INTO warehouses (name, location_code, active)
		VALUES ($1, $2, true)
		RETURNING id
	`, name, locationCode).Scan(&id)

	require.NoError(t, err)
	require.NotZero(t, id)
	return id
}

func MustInsertProduct(t *testing.T, db *pgxpool.Pool, warehouseID int64, name, sku, category, vendor string, reorderLevel, currentStock int, price string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(), `
		INSERT INTO products (name, sku, category, vendor, reorder_level, current_stock, auto_restock_enabled, price, warehouse_id)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7::numeric, $8)
		RETURNING id
	`, name, sku, category, vendor, reorderLevel, currentStock, price, warehouseID).Scan(&id)

	require.NoError(t, err)
	require.NotZero(t, id)
	return id
}

func MustInsertUser(t *testing.T, db *pgxpool.Pool, email, role string, warehouseID *int64) string {
	t.Helper()

	uniq := fmt.Sprintf("%d", time.Now().UnixNano())
	emailUniq := fmt.Sprintf("%s.%s", uniq, email)

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO users (email, full_name, password_hash, role, warehouse_id, is_active)
		VALUES ($1, 'Test User', 'x', $2, $3, true)
		RETURNING id::text
	`, emailUniq, role, warehouseID).Scan(&id)

	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}
