package table

import (
	"reflect"
	"testing"
)

// nestedColumns is a, then grp{b, sub{c, d}}.
func nestedColumns() []ColumnDef[record] {
	return []ColumnDef[record]{
		{AccessorKey: "a"},
		{ID: "grp", Header: "Group", Columns: []ColumnDef[record]{
			{AccessorKey: "b"},
			{ID: "sub", Header: "Sub", Columns: []ColumnDef[record]{
				{AccessorKey: "c"},
				{AccessorKey: "d"},
			}},
		}},
	}
}

type headerRow struct {
	ids          []string
	placeholders []bool
	colSpans     []int
	rowSpans     []int
}

func describeGroup(g *HeaderGroup[record]) headerRow {
	var r headerRow
	for _, h := range g.Headers {
		r.ids = append(r.ids, h.ID)
		r.placeholders = append(r.placeholders, h.IsPlaceholder)
		r.colSpans = append(r.colSpans, h.ColSpan)
		r.rowSpans = append(r.rowSpans, h.RowSpan)
	}
	return r
}

func TestHeaderGroups_Nested(t *testing.T) {
	tbl := newTable(t, Options[record]{Columns: nestedColumns()})
	groups := tbl.GetHeaderGroups()

	want := []headerRow{
		{
			ids:          []string{"1_a_2_a_a", "1_grp_2_b_b"},
			placeholders: []bool{true, false},
			colSpans:     []int{1, 3},
			rowSpans:     []int{3, 1},
		},
		{
			ids:          []string{"2_a_a", "2_b_b", "2_sub_c"},
			placeholders: []bool{true, true, false},
			colSpans:     []int{1, 1, 2},
			rowSpans:     []int{0, 2, 1},
		},
		{
			ids:          []string{"a", "b", "c", "d"},
			placeholders: []bool{false, false, false, false},
			colSpans:     []int{1, 1, 1, 1},
			rowSpans:     []int{0, 0, 1, 1},
		},
	}
	if len(groups) != len(want) {
		t.Fatalf("len(groups) = %d, want %d", len(groups), len(want))
	}
	for i, g := range groups {
		if g.ID != itoa(i) || g.Depth != i {
			t.Errorf("group %d id=%q depth=%d", i, g.ID, g.Depth)
		}
		if got := describeGroup(g); !reflect.DeepEqual(got, want[i]) {
			t.Errorf("group %d = %+v, want %+v", i, got, want[i])
		}
		for j, h := range g.Headers {
			if h.Depth != i || h.Index != j || h.HeaderGroup != g {
				t.Errorf("header %s depth=%d index=%d", h.ID, h.Depth, h.Index)
			}
		}
	}

	grp := groups[0].Headers[1]
	if grp.Column.ID != "grp" {
		t.Fatalf("top header column = %s, want grp", grp.Column.ID)
	}
	if got := grp.GetLeafHeaders(); len(got) != 3 || got[0].ID != "b" || got[2].ID != "d" {
		t.Errorf("GetLeafHeaders() = %d headers", len(got))
	}
	if got := grp.GetSize(); got != 3*DefaultColumnSize {
		t.Errorf("GetSize() = %v, want %v", got, 3*DefaultColumnSize)
	}
	if got := grp.GetStart(); got != DefaultColumnSize {
		t.Errorf("GetStart() = %v, want %v", got, DefaultColumnSize)
	}
	if got := groups[1].Headers[1].PlaceholderID; got != "0" {
		t.Errorf("PlaceholderID = %q, want 0", got)
	}

	footers := tbl.GetFooterGroups()
	if footers[0] != groups[2] || footers[2] != groups[0] {
		t.Error("GetFooterGroups() is not the reversed header groups")
	}
	if n := len(tbl.GetFlatHeaders()); n != 9 {
		t.Errorf("len(GetFlatHeaders()) = %d, want 9", n)
	}
	if got := tbl.GetLeafHeaders(); len(got) != 4 || got[3].Column.ID != "d" {
		t.Errorf("GetLeafHeaders() = %d headers", len(got))
	}
}

func TestHeaderGroups_HiddenColumns(t *testing.T) {
	tests := []struct {
		name   string
		hidden []string
		want   []headerRow
	}{
		{
			name:   "hidden leaf shrinks its group",
			hidden: []string{"d"},
			want: []headerRow{
				{ids: []string{"1_a_2_a_a", "1_grp_2_b_b"}, placeholders: []bool{true, false}, colSpans: []int{1, 2}, rowSpans: []int{3, 1}},
				{ids: []string{"2_a_a", "2_b_b", "2_sub_c"}, placeholders: []bool{true, true, false}, colSpans: []int{1, 1, 1}, rowSpans: []int{0, 2, 1}},
				{ids: []string{"a", "b", "c"}, placeholders: []bool{false, false, false}, colSpans: []int{1, 1, 1}, rowSpans: []int{0, 0, 1}},
			},
		},
		{
			name:   "hidden group removes a header row",
			hidden: []string{"c", "d"},
			want: []headerRow{
				{ids: []string{"1_a_a", "1_grp_b"}, placeholders: []bool{true, false}, colSpans: []int{1, 1}, rowSpans: []int{2, 1}},
				{ids: []string{"a", "b"}, placeholders: []bool{false, false}, colSpans: []int{1, 1}, rowSpans: []int{0, 1}},
			},
		},
		{
			name:   "only flat columns left",
			hidden: []string{"b", "c", "d"},
			want: []headerRow{
				{ids: []string{"a"}, placeholders: []bool{false}, colSpans: []int{1}, rowSpans: []int{1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vis := make(map[string]bool)
			for _, id := range tt.hidden {
				vis[id] = false
			}
			tbl := newTable(t, Options[record]{
				Columns:      nestedColumns(),
				InitialState: PartialState{ColumnVisibility: &vis},
			})

			groups := tbl.GetHeaderGroups()
			if len(groups) != len(tt.want) {
				t.Fatalf("len(groups) = %d, want %d", len(groups), len(tt.want))
			}
			for i, g := range groups {
				if got := describeGroup(g); !reflect.DeepEqual(got, tt.want[i]) {
					t.Errorf("group %d = %+v, want %+v", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestHeaderGroups_OrderSplitsGroups(t *testing.T) {
	tbl := newTable(t, Options[record]{
		Columns: []ColumnDef[record]{
			{AccessorKey: "a"},
			{ID: "grp", Columns: []ColumnDef[record]{{AccessorKey: "b"}, {AccessorKey: "c"}}},
		},
		InitialState: PartialState{ColumnOrder: &[]string{"b", "a", "c"}},
	})

	top := describeGroup(tbl.GetHeaderGroups()[0])
	if want := []string{"1_grp_b", "1_a_a", "1_grp_c"}; !reflect.DeepEqual(top.ids, want) {
		t.Errorf("top ids = %v, want %v", top.ids, want)
	}
	if want := []bool{false, true, false}; !reflect.DeepEqual(top.placeholders, want) {
		t.Errorf("placeholders = %v, want %v", top.placeholders, want)
	}
}

func TestHeaderGroups_Pinned(t *testing.T) {
	tbl := newTable(t, Options[record]{Columns: nestedColumns()})
	if err := tbl.GetColumn("d").Pin(PinRight); err != nil {
		t.Fatal(err)
	}

	right := tbl.GetRightHeaderGroups()
	if len(right) != 3 {
		t.Fatalf("len(right groups) = %d, want 3", len(right))
	}
	if right[0].ID != "right_0" {
		t.Errorf("right group id = %q, want right_0", right[0].ID)
	}
	if got := describeGroup(right[0]).ids; !reflect.DeepEqual(got, []string{"right_1_grp_right_2_sub_d"}) {
		t.Errorf("right top ids = %v", got)
	}
	if got := describeGroup(right[2]).ids; !reflect.DeepEqual(got, []string{"d"}) {
		t.Errorf("right leaf ids = %v", got)
	}

	center := tbl.GetCenterHeaderGroups()
	if got := describeGroup(center[0]); !reflect.DeepEqual(got.colSpans, []int{1, 2}) {
		t.Errorf("center top col spans = %v, want [1 2]", got.colSpans)
	}
	if got := describeGroup(tbl.GetHeaderGroups()[0]); !reflect.DeepEqual(got.colSpans, []int{1, 3}) {
		t.Errorf("all top col spans = %v, want [1 3]", got.colSpans)
	}
	for _, g := range tbl.GetLeftHeaderGroups() {
		if len(g.Headers) != 0 {
			t.Errorf("left group %s has %d headers", g.ID, len(g.Headers))
		}
	}
}

func TestHeaderGroups_Memoized(t *testing.T) {
	tbl := newTable(t, Options[record]{Data: abData(), Columns: nestedColumns()})
	first := tbl.GetHeaderGroups()

	if err := tbl.NextPage(); err != nil {
		t.Fatal(err)
	}
	if got := tbl.GetHeaderGroups(); got[0] != first[0] {
		t.Error("header groups rebuilt after a pagination change")
	}
	if err := tbl.GetColumn("a").ToggleVisibility(); err != nil {
		t.Fatal(err)
	}
	if got := tbl.GetHeaderGroups(); len(got[len(got)-1].Headers) != 3 {
		t.Errorf("leaf headers = %d after hiding a, want 3", len(got[len(got)-1].Headers))
	}
}
