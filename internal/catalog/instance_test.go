package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	"github.com/JonMunkholm/tablekit/internal/source"
	"github.com/JonMunkholm/tablekit/internal/table"
)

func quietSettings() Settings {
	return Settings{PageSize: 2, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func treeDefinition(loads *int) Definition {
	return Definition{
		Info: Info{Key: "tree", Group: "Test"},
		Columns: []table.ColumnDef[source.Record]{
			{AccessorKey: "name"},
			{AccessorKey: "n", AggregationFn: "sum"},
		},
		Load: func(context.Context, Env) ([]source.Record, error) {
			*loads++
			return source.Nest([]source.Record{
				{"id": "p", "name": "parent", "n": int64(1)},
				{"id": "c", "parent": "p", "name": "child", "n": int64(2)},
				{"id": "q", "name": "other", "n": int64(3)},
				{"id": "r", "name": "last", "n": int64(4)},
			}, "id", "parent", "kids")
		},
		SubRowsKey: "kids",
		RowIDKey:   "id",
	}
}

func TestOpen(t *testing.T) {
	var loads int
	inst, err := Open(context.Background(), treeDefinition(&loads), Env{}, quietSettings())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if inst.RowCount != 4 || inst.Info.Key != "tree" || loads != 1 {
		t.Errorf("instance rows=%d key=%q loads=%d", inst.RowCount, inst.Info.Key, loads)
	}

	err = inst.View(func(tbl *table.Table[source.Record]) error {
		if got := tbl.GetState().Pagination.PageSize; got != 2 {
			t.Errorf("PageSize = %d, want 2", got)
		}
		core := tbl.GetCoreRowModel()
		if child := core.RowsByID["c"]; child == nil || child.ParentID != "p" {
			t.Errorf("child row = %+v, want id c under p", child)
		}

		if err := tbl.ToggleAllRowsExpanded(true); err != nil {
			return err
		}
		var ids []string
		for _, r := range tbl.GetRowModel().Rows {
			ids = append(ids, r.ID)
		}
		if want := []string{"p", "c"}; !reflect.DeepEqual(ids, want) {
			t.Errorf("first page = %v, want %v", ids, want)
		}

		f, err := tbl.ExportData(table.ExportRequest{All: true})
		if err != nil {
			return err
		}
		if f.Name != "tree-all.csv" {
			t.Errorf("export name = %q, want tree-all.csv", f.Name)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

func TestOpen_Errors(t *testing.T) {
	boom := errors.New("backend down")
	tests := []struct {
		name string
		def  Definition
		want error
	}{
		{
			name: "loader failure",
			def: Definition{
				Info: Info{Key: "bad"},
				Load: func(context.Context, Env) ([]source.Record, error) { return nil, boom },
			},
			want: boom,
		},
		{
			name: "invalid columns",
			def: Definition{
				Info:    Info{Key: "bad"},
				Columns: []table.ColumnDef[source.Record]{{AccessorKey: "a"}, {AccessorKey: "a"}},
				Load:    func(context.Context, Env) ([]source.Record, error) { return nil, nil },
			},
			want: table.ErrConfiguration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(context.Background(), tt.def, Env{}, quietSettings())
			if !errors.Is(err, tt.want) {
				t.Errorf("Open() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Open(context.Background(), Definition{Info: Info{Key: "x"}}, Env{}, quietSettings()); err == nil {
		t.Error("Open() without a loader succeeded")
	}
}

func TestStore(t *testing.T) {
	Clear()
	defer Clear()

	var loads int
	Register(treeDefinition(&loads))
	store := NewStore(Env{}, quietSettings())
	ctx := context.Background()

	var wg sync.WaitGroup
	instances := make([]*Instance, 4)
	for i := range instances {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inst, err := store.Instance(ctx, "tree")
			if err != nil {
				t.Errorf("Instance() error = %v", err)
				return
			}
			instances[i] = inst
		}(i)
	}
	wg.Wait()

	if loads != 1 {
		t.Errorf("dataset loaded %d times, want 1", loads)
	}
	for _, inst := range instances[1:] {
		if inst != instances[0] {
			t.Fatal("store returned different instances for one key")
		}
	}
	if got := store.Open(); !reflect.DeepEqual(got, []string{"tree"}) {
		t.Errorf("Open() = %v", got)
	}

	store.Reload("tree")
	again, err := store.Instance(ctx, "tree")
	if err != nil {
		t.Fatal(err)
	}
	if again == instances[0] || again.ID == instances[0].ID || loads != 2 {
		t.Errorf("Reload() did not reopen the dataset (loads=%d)", loads)
	}

	if _, err := store.Instance(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Instance(nope) error = %v, want ErrNotFound", err)
	}
}
