package datasets

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JonMunkholm/tablekit/internal/catalog"
	"github.com/JonMunkholm/tablekit/internal/source"
	"github.com/JonMunkholm/tablekit/internal/table"
)

func open(t *testing.T, key string, env catalog.Env) (*catalog.Instance, error) {
	t.Helper()
	def, ok := catalog.Get(key)
	if !ok {
		t.Fatalf("dataset %s is not registered", key)
	}
	return catalog.Open(context.Background(), def, env, catalog.Settings{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestOrgChart(t *testing.T) {
	inst, err := open(t, "org_chart", catalog.Env{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if inst.RowCount != 8 {
		t.Errorf("RowCount = %d, want 8", inst.RowCount)
	}

	inst.View(func(tbl *table.Table[source.Record]) error {
		core := tbl.GetCoreRowModel()
		if len(core.Rows) != 1 || core.Rows[0].ID != "1" {
			t.Fatalf("roots = %d, want the CEO only", len(core.Rows))
		}
		if lena := core.RowsByID["5"]; lena == nil || lena.Depth != 3 {
			t.Errorf("row 5 = %+v, want depth 3", lena)
		}
		if got := len(tbl.GetHeaderGroups()); got != 2 {
			t.Errorf("header rows = %d, want 2", got)
		}
		return nil
	})
}

func TestOrders(t *testing.T) {
	inst, err := open(t, "orders", catalog.Env{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if inst.RowCount != 12 {
		t.Errorf("RowCount = %d, want 12", inst.RowCount)
	}

	inst.View(func(tbl *table.Table[source.Record]) error {
		first := tbl.GetCoreRowModel().RowsByID["1001"]
		if first == nil {
			t.Fatal("no row with order id 1001")
		}
		if got := first.GetValue("amount"); got != 1250.0 {
			t.Errorf("amount = %#v, want 1250.0", got)
		}
		if got := tbl.GetCoreRowModel().RowsByID["1004"].GetValue("amount"); got != -75.0 {
			t.Errorf("accounting negative = %#v, want -75.0", got)
		}

		if err := tbl.SetGrouping(table.Replace([]string{"region"})); err != nil {
			return err
		}
		var west *table.Row[source.Record]
		for _, r := range tbl.GetGroupedRowModel().Rows {
			if r.GroupingValue == "West" {
				west = r
			}
		}
		if west == nil {
			t.Fatal("no West group")
		}
		if got := west.GetValue("customer"); got != 2 {
			t.Errorf("unique West customers = %v, want 2", got)
		}
		return nil
	})
}

func TestInventory(t *testing.T) {
	if _, err := open(t, "inventory", catalog.Env{}); !errors.Is(err, catalog.ErrUnavailable) {
		t.Fatalf("open without sqlite error = %v, want ErrUnavailable", err)
	}

	ctx := context.Background()
	db, err := source.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for i := 0; i < 2; i++ {
		if err := SeedSQLite(ctx, db); err != nil {
			t.Fatalf("SeedSQLite() pass %d error = %v", i, err)
		}
	}

	inst, err := open(t, "inventory", catalog.Env{SQLite: db})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if inst.RowCount != len(inventorySeed) {
		t.Errorf("RowCount = %d, want %d", inst.RowCount, len(inventorySeed))
	}
	inst.View(func(tbl *table.Table[source.Record]) error {
		r := tbl.GetCoreRowModel().RowsByID["BRG-608"]
		if r == nil {
			t.Fatal("no BRG-608 row")
		}
		qty, cost := int64(640), 1.85
		if want := float64(qty) * cost; r.GetValue("value") != want {
			t.Errorf("stock value = %v, want %v", r.GetValue("value"), want)
		}
		return nil
	})
}

func TestPostgresColumns_Unavailable(t *testing.T) {
	if _, err := open(t, "pg_columns", catalog.Env{}); !errors.Is(err, catalog.ErrUnavailable) {
		t.Errorf("open without postgres error = %v, want ErrUnavailable", err)
	}
}
