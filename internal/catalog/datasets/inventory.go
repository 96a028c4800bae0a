package datasets

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/JonMunkholm/tablekit/internal/catalog"
	"github.com/JonMunkholm/tablekit/internal/source"
	"github.com/JonMunkholm/tablekit/internal/table"
)

const inventorySchema = `
CREATE TABLE IF NOT EXISTS inventory (
	sku       TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	category  TEXT NOT NULL,
	warehouse TEXT NOT NULL,
	on_hand   INTEGER NOT NULL,
	unit_cost REAL NOT NULL
)`

var inventorySeed = []struct {
	sku, name, category, warehouse string
	onHand                         int
	unitCost                       float64
}{
	{"BLT-M6", "M6 bolt", "Fasteners", "Reno", 12000, 0.04},
	{"BLT-M8", "M8 bolt", "Fasteners", "Reno", 8000, 0.07},
	{"NUT-M6", "M6 nut", "Fasteners", "Austin", 15000, 0.02},
	{"WSH-M6", "M6 washer", "Fasteners", "Austin", 0, 0.01},
	{"BRG-608", "608 bearing", "Bearings", "Reno", 640, 1.85},
	{"BRG-6201", "6201 bearing", "Bearings", "Austin", 210, 3.4},
	{"BLT-V40", "V-belt A40", "Belts", "Reno", 75, 9.9},
	{"MTR-NEMA17", "NEMA 17 stepper", "Motors", "Austin", 32, 14.5},
}

// SeedSQLite creates the inventory table and fills it when empty.
func SeedSQLite(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, inventorySchema); err != nil {
		return fmt.Errorf("create inventory table: %w", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory`).Scan(&n); err != nil {
		return fmt.Errorf("count inventory: %w", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, it := range inventorySeed {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO inventory (sku, name, category, warehouse, on_hand, unit_cost) VALUES (?, ?, ?, ?, ?, ?)`,
			it.sku, it.name, it.category, it.warehouse, it.onHand, it.unitCost)
		if err != nil {
			return fmt.Errorf("seed %s: %w", it.sku, err)
		}
	}
	return tx.Commit()
}

func registerInventory() {
	catalog.Register(catalog.Definition{
		Info: catalog.Info{
			Key:         "inventory",
			Group:       "SQLite",
			Label:       "Inventory",
			Description: "Stock levels read from the local SQLite database.",
		},
		Columns: []table.ColumnDef[source.Record]{
			{AccessorKey: "sku", Header: "SKU"},
			{AccessorKey: "name", Header: "Item"},
			{AccessorKey: "category", Header: "Category"},
			{AccessorKey: "warehouse", Header: "Warehouse"},
			{AccessorKey: "on_hand", Header: "On hand", AggregationFn: "sum"},
			{AccessorKey: "unit_cost", Header: "Unit cost", AggregationFn: "mean"},
			{
				ID:     "value",
				Header: "Stock value",
				AccessorFn: func(r source.Record, _ int) any {
					qty, _ := r["on_hand"].(int64)
					cost, _ := r["unit_cost"].(float64)
					return float64(qty) * cost
				},
				AggregationFn: "sum",
			},
		},
		Load: func(ctx context.Context, env catalog.Env) ([]source.Record, error) {
			if env.SQLite == nil {
				return nil, catalog.ErrUnavailable
			}
			return source.FromSQL(ctx, env.SQLite,
				`SELECT sku, name, category, warehouse, on_hand, unit_cost FROM inventory ORDER BY sku`)
		},
		RowIDKey: "sku",
	})
}
