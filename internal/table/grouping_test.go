package table

import (
	"reflect"
	"strings"
	"testing"
)

func staffData() []record {
	return []record{
		{"name": "alice", "dept": "eng", "level": "L1", "salary": 10},
		{"name": "bob", "dept": "ops", "level": "L1", "salary": 5},
		{"name": "carol", "dept": "eng", "level": "L2", "salary": 20},
		{"name": "dave", "dept": "eng", "level": "L2", "salary": 30},
	}
}

func staffColumns() []ColumnDef[record] {
	return []ColumnDef[record]{
		{AccessorKey: "name"},
		{AccessorKey: "dept"},
		{AccessorKey: "level"},
		{AccessorKey: "salary"},
	}
}

func groupedStaff(t *testing.T, grouping ...string) *Table[record] {
	t.Helper()
	return newTable(t, Options[record]{
		Data:         staffData(),
		Columns:      staffColumns(),
		InitialState: PartialState{Grouping: &grouping},
	})
}

func TestGrouping_SingleColumn(t *testing.T) {
	tbl := groupedStaff(t, "dept")
	m := tbl.GetGroupedRowModel()

	if got, want := rowIDs(m.Rows), []string{"dept:eng", "dept:ops"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("group ids = %v, want %v", got, want)
	}
	if got, want := rowIDs(m.FlatRows), []string{"dept:eng", "0", "2", "3", "dept:ops", "1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("flat ids = %v, want %v", got, want)
	}

	eng := m.Rows[0]
	if !eng.GetIsGrouped() || eng.GroupingColumnID != "dept" || eng.GroupingValue != "eng" {
		t.Errorf("eng group = %q/%v, grouped %v", eng.GroupingColumnID, eng.GroupingValue, eng.GetIsGrouped())
	}
	if len(eng.LeafRows) != 3 {
		t.Errorf("len(LeafRows) = %d, want 3", len(eng.LeafRows))
	}
	if got := eng.GetValue("dept"); got != "eng" {
		t.Errorf("GetValue(dept) = %v, want eng", got)
	}
	if got := eng.GetValue("salary"); got != 60.0 {
		t.Errorf("GetValue(salary) = %v, want 60", got)
	}
	if got := eng.GetValue("name"); got != nil {
		t.Errorf("GetValue(name) = %v, want nil for a string column", got)
	}

	child := eng.SubRows[0]
	if child.Depth != 1 || child.ParentID != "dept:eng" {
		t.Errorf("child depth=%d parent=%q, want 1 dept:eng", child.Depth, child.ParentID)
	}
	if child.GetIsGrouped() {
		t.Error("data row reports GetIsGrouped() = true")
	}
}

func TestGrouping_Nested(t *testing.T) {
	tbl := groupedStaff(t, "dept", "level")
	m := tbl.GetGroupedRowModel()

	want := []string{
		"dept:eng", "dept:eng>level:L1", "0", "dept:eng>level:L2", "2", "3",
		"dept:ops", "dept:ops>level:L1", "1",
	}
	if got := rowIDs(m.FlatRows); !reflect.DeepEqual(got, want) {
		t.Fatalf("flat ids = %v, want %v", got, want)
	}

	eng := m.RowsByID["dept:eng"]
	if got := rowIDs(eng.LeafRows); !reflect.DeepEqual(got, []string{"0", "2", "3"}) {
		t.Errorf("eng leaf rows = %v", got)
	}
	// sum aggregates the already-summed child groups.
	if got := eng.GetValue("salary"); got != 60.0 {
		t.Errorf("eng salary = %v, want 60", got)
	}

	l2 := m.RowsByID["dept:eng>level:L2"]
	if l2.Depth != 1 || l2.ParentID != "dept:eng" {
		t.Errorf("L2 depth=%d parent=%q", l2.Depth, l2.ParentID)
	}
	if got := l2.GetValue("dept"); got != "eng" {
		t.Errorf("L2 GetValue(dept) = %v, want eng from its leaf rows", got)
	}
	if got := l2.GetValue("level"); got != "L2" {
		t.Errorf("L2 GetValue(level) = %v, want L2", got)
	}
	if got := m.RowsByID["3"].Depth; got != 2 {
		t.Errorf("leaf depth = %d, want 2", got)
	}
}

func TestGrouping_AggregationFns(t *testing.T) {
	agg := func(fn string) ColumnDef[record] {
		return ColumnDef[record]{ID: fn, AccessorKey: "salary", AggregationFn: fn}
	}
	tbl := newTable(t, Options[record]{
		Data: staffData(),
		Columns: []ColumnDef[record]{
			{AccessorKey: "dept"},
			agg("sum"), agg("min"), agg("max"), agg("mean"), agg("median"),
			agg("count"), agg("uniqueCount"), agg("extent"), agg("unique"),
			{ID: "spread", AccessorKey: "salary", AggregationFn: "spread"},
		},
		AggregationFns: map[string]AggregationFn[record]{
			"spread": func(id string, _, leaves []*Row[record]) any {
				lo, _ := toFloat(leaves[0].GetValue(id))
				hi, _ := toFloat(leaves[len(leaves)-1].GetValue(id))
				return hi - lo
			},
		},
		InitialState: PartialState{Grouping: &[]string{"dept"}},
	})
	eng := tbl.GetGroupedRowModel().Rows[0]

	tests := []struct {
		column string
		want   any
	}{
		{"sum", 60.0},
		{"min", 10.0},
		{"max", 30.0},
		{"mean", 20.0},
		{"median", 20.0},
		{"count", 3},
		{"uniqueCount", 3},
		{"extent", [2]any{10, 30}},
		{"unique", []any{10, 20, 30}},
		{"spread", 20.0},
	}
	for _, tt := range tests {
		if got := eng.GetValue(tt.column); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s = %v (%T), want %v (%T)", tt.column, got, got, tt.want, tt.want)
		}
	}

	ops := tbl.GetGroupedRowModel().Rows[1]
	if got := ops.GetValue("median"); got != 5.0 {
		t.Errorf("ops median = %v, want 5", got)
	}
}

func TestGrouping_CustomGroupingValue(t *testing.T) {
	tbl := newTable(t, Options[record]{
		Data: []record{{"name": "alice"}, {"name": "adam"}, {"name": "bob"}},
		Columns: []ColumnDef[record]{{
			AccessorKey: "name",
			GetGroupingValue: func(r record) any {
				return strings.ToUpper(r["name"].(string)[:1])
			},
		}},
		InitialState: PartialState{Grouping: &[]string{"name"}},
	})
	rows := tbl.GetGroupedRowModel().Rows

	if got, want := rowIDs(rows), []string{"name:A", "name:B"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("group ids = %v, want %v", got, want)
	}
	if got := rows[0].GetValue("name"); got != "A" {
		t.Errorf("group value = %v, want A", got)
	}
	if got := rows[0].SubRows[1].GetValue("name"); got != "adam" {
		t.Errorf("data row value = %v, want adam", got)
	}
}

func TestGrouping_KeepsSubRowsOfDataRows(t *testing.T) {
	opts := peopleOptions()
	opts.InitialState = PartialState{Grouping: &[]string{"status"}}
	tbl := newTable(t, opts)
	m := tbl.GetGroupedRowModel()

	want := []string{"status:active", "0", "0.0", "0.1", "2", "2.0", "status:inactive", "1"}
	if got := rowIDs(m.FlatRows); !reflect.DeepEqual(got, want) {
		t.Fatalf("flat ids = %v, want %v", got, want)
	}
	grace := m.RowsByID["0.0"]
	if grace.Depth != 2 || grace.ParentID != "0" {
		t.Errorf("grace depth=%d parent=%q, want 2 \"0\"", grace.Depth, grace.ParentID)
	}
	if ada := m.RowsByID["0"]; ada.ParentID != "status:active" {
		t.Errorf("ada parent = %q, want status:active", ada.ParentID)
	}
}

func TestGrouping_PassThrough(t *testing.T) {
	tests := []struct {
		name string
		opts func(*Options[record])
	}{
		{"no grouping", func(*Options[record]) {}},
		{"unknown column", func(o *Options[record]) { o.InitialState.Grouping = &[]string{"nope"} }},
		{"manual", func(o *Options[record]) {
			o.ManualGrouping = true
			o.InitialState.Grouping = &[]string{"dept"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options[record]{Data: staffData(), Columns: staffColumns()}
			tt.opts(&opts)
			tbl := newTable(t, opts)
			if tbl.GetGroupedRowModel() != tbl.GetFilteredRowModel() {
				t.Error("grouped stage did not pass its input through")
			}
		})
	}
}

func TestGroupedColumnMode(t *testing.T) {
	tests := []struct {
		mode GroupedColumnMode
		want []string
	}{
		{"", []string{"dept", "name", "level", "salary"}},
		{GroupedColumnsReorder, []string{"dept", "name", "level", "salary"}},
		{GroupedColumnsRemove, []string{"name", "level", "salary"}},
		{GroupedColumnsKeep, []string{"name", "dept", "level", "salary"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			tbl := newTable(t, Options[record]{
				Data:              staffData(),
				Columns:           staffColumns(),
				GroupedColumnMode: tt.mode,
				InitialState:      PartialState{Grouping: &[]string{"dept"}},
			})
			var got []string
			for _, c := range tbl.GetAllLeafColumns() {
				got = append(got, c.ID)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("leaf columns = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColumn_ToggleGrouping(t *testing.T) {
	tbl := newTable(t, Options[record]{
		Data:    staffData(),
		Columns: append(staffColumns(), ColumnDef[record]{ID: "actions"}),
	})
	dept, level := tbl.GetColumn("dept"), tbl.GetColumn("level")

	for _, c := range []*Column[record]{dept, level} {
		if err := c.ToggleGrouping(); err != nil {
			t.Fatalf("ToggleGrouping() error = %v", err)
		}
	}
	if got := tbl.GetState().Grouping; !reflect.DeepEqual(got, []string{"dept", "level"}) {
		t.Errorf("Grouping = %v, want [dept level]", got)
	}
	if !level.GetIsGrouped() || level.GetGroupedIndex() != 1 {
		t.Errorf("level grouped=%v index=%d", level.GetIsGrouped(), level.GetGroupedIndex())
	}
	if n := len(tbl.GetGroupedRowModel().Rows); n != 2 {
		t.Errorf("len(grouped rows) = %d, want 2", n)
	}

	if err := dept.ToggleGrouping(); err != nil {
		t.Fatal(err)
	}
	if got := tbl.GetState().Grouping; !reflect.DeepEqual(got, []string{"level"}) {
		t.Errorf("Grouping = %v, want [level]", got)
	}

	if tbl.GetColumn("actions").GetCanGroup() {
		t.Error("display column GetCanGroup() = true")
	}
	if err := tbl.ResetGrouping(true); err != nil {
		t.Fatal(err)
	}
	if n := len(tbl.GetState().Grouping); n != 0 {
		t.Errorf("Grouping after reset = %v", tbl.GetState().Grouping)
	}
}
