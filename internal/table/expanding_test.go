package table

import (
	"reflect"
	"testing"
)

func TestExpanding_RowToggle(t *testing.T) {
	tbl := newTable(t, peopleOptions())

	if got := rowIDs(tbl.GetRowModel().Rows); !reflect.DeepEqual(got, []string{"0", "1", "2"}) {
		t.Fatalf("collapsed rows = %v", got)
	}
	if tbl.GetExpandedRowModel() != tbl.GetSortedRowModel() {
		t.Error("empty expansion did not pass rows through")
	}

	ada := tbl.GetRowModel().Rows[0]
	if !ada.GetCanExpand() || ada.GetIsExpanded() {
		t.Fatalf("ada can=%v expanded=%v, want true false", ada.GetCanExpand(), ada.GetIsExpanded())
	}
	if tbl.GetRowModel().Rows[1].GetCanExpand() {
		t.Error("row without sub rows GetCanExpand() = true")
	}
	if err := ada.ToggleExpanded(); err != nil {
		t.Fatalf("ToggleExpanded() error = %v", err)
	}

	rows := tbl.GetRowModel().Rows
	if got, want := rowIDs(rows), []string{"0", "0.0", "0.1", "1", "2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expanded rows = %v, want %v", got, want)
	}
	if got := rowIDs(tbl.GetRowModel().FlatRows); len(got) != 5 {
		t.Errorf("flat rows = %v, want the same 5 display rows", got)
	}
	for _, r := range rows {
		if len(r.SubRows) != 0 {
			t.Errorf("display row %s has %d sub rows", r.ID, len(r.SubRows))
		}
	}
	// Display rows still know their children.
	if !rows[0].GetCanExpand() || !rows[0].GetIsExpanded() {
		t.Errorf("display row 0 can=%v expanded=%v", rows[0].GetCanExpand(), rows[0].GetIsExpanded())
	}
	if got := len(rows[0].GetLeafRows()); got != 2 {
		t.Errorf("GetLeafRows() = %d rows, want 2", got)
	}
	if !rows[1].GetIsAllParentsExpanded() {
		t.Error("GetIsAllParentsExpanded() = false under an expanded parent")
	}
	if got := tbl.GetExpandedDepth(); got != 1 {
		t.Errorf("GetExpandedDepth() = %d, want 1", got)
	}
	if !tbl.GetIsSomeRowsExpanded() || tbl.GetIsAllRowsExpanded() {
		t.Errorf("some=%v all=%v, want true false", tbl.GetIsSomeRowsExpanded(), tbl.GetIsAllRowsExpanded())
	}

	if err := rows[0].ToggleExpanded(); err != nil {
		t.Fatal(err)
	}
	if got := rowIDs(tbl.GetRowModel().Rows); !reflect.DeepEqual(got, []string{"0", "1", "2"}) {
		t.Errorf("rows after collapse = %v", got)
	}
}

func TestExpanding_All(t *testing.T) {
	tbl := newTable(t, peopleOptions())

	if err := tbl.ToggleAllRowsExpanded(true); err != nil {
		t.Fatal(err)
	}
	want := []string{"0", "0.0", "0.1", "1", "2", "2.0"}
	if got := rowIDs(tbl.GetRowModel().Rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	if !tbl.GetIsAllRowsExpanded() {
		t.Error("GetIsAllRowsExpanded() = false")
	}
	if got := tbl.GetExpandedDepth(); got != 2 {
		t.Errorf("GetExpandedDepth() = %d, want 2", got)
	}

	// Collapsing one row turns "all" into an explicit id set.
	carol := tbl.GetRowModel().RowsByID["2"]
	if err := carol.SetExpanded(false); err != nil {
		t.Fatal(err)
	}
	st := tbl.GetState().Expanded
	if st.All || st.IDs["2"] || !st.IDs["0"] {
		t.Errorf("Expanded = %+v, want ids without 2", st)
	}
	if got, want := rowIDs(tbl.GetRowModel().Rows), []string{"0", "0.0", "0.1", "1", "2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if tbl.GetIsAllRowsExpanded() {
		t.Error("GetIsAllRowsExpanded() = true with row 2 collapsed")
	}

	if err := tbl.ResetExpanded(true); err != nil {
		t.Fatal(err)
	}
	if tbl.GetIsSomeRowsExpanded() {
		t.Error("GetIsSomeRowsExpanded() = true after reset")
	}
}

func TestExpanding_Options(t *testing.T) {
	tests := []struct {
		name    string
		opts    func(*Options[person])
		wantIDs []string
		canAda  bool
	}{
		{
			name:    "host decides expansion",
			opts:    func(o *Options[person]) { o.GetIsRowExpanded = func(r *Row[person]) bool { return r.ID == "2" } },
			wantIDs: []string{"0", "1", "2", "2.0"},
			canAda:  true,
		},
		{
			name: "expanding disabled",
			opts: func(o *Options[person]) {
				o.DisableExpanding = true
				o.InitialState.Expanded = &ExpandedState{All: true}
			},
			wantIDs: []string{"0", "0.0", "0.1", "1", "2", "2.0"},
			canAda:  false,
		},
		{
			name: "host decides expandability",
			opts: func(o *Options[person]) {
				o.GetRowCanExpand = func(r *Row[person]) bool { return r.Original.Age > 40 }
			},
			wantIDs: []string{"0", "1", "2"},
			canAda:  false,
		},
		{
			name: "manual expansion",
			opts: func(o *Options[person]) {
				o.ManualExpanding = true
				o.InitialState.Expanded = &ExpandedState{All: true}
			},
			wantIDs: []string{"0", "1", "2"},
			canAda:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := peopleOptions()
			tt.opts(&opts)
			tbl := newTable(t, opts)

			if got := rowIDs(tbl.GetRowModel().Rows); !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("rows = %v, want %v", got, tt.wantIDs)
			}
			if got := tbl.GetCoreRowModel().Rows[0].GetCanExpand(); got != tt.canAda {
				t.Errorf("ada GetCanExpand() = %v, want %v", got, tt.canAda)
			}
		})
	}
}

func TestExpanding_GroupedRows(t *testing.T) {
	tbl := groupedStaff(t, "dept")

	if got := rowIDs(tbl.GetRowModel().Rows); !reflect.DeepEqual(got, []string{"dept:eng", "dept:ops"}) {
		t.Fatalf("rows = %v", got)
	}
	if err := tbl.GetRowModel().Rows[1].ToggleExpanded(); err != nil {
		t.Fatal(err)
	}
	if got, want := rowIDs(tbl.GetRowModel().Rows), []string{"dept:eng", "dept:ops", "1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if got := tbl.GetRowModel().Rows[2].GetParentRow(); got == nil || got.ID != "dept:ops" {
		t.Errorf("GetParentRow() = %v, want dept:ops", got)
	}

	// Changing the grouping resets expansion.
	if err := tbl.SetGrouping(Replace([]string{"level"})); err != nil {
		t.Fatal(err)
	}
	if tbl.GetIsSomeRowsExpanded() {
		t.Errorf("Expanded = %+v after regrouping, want empty", tbl.GetState().Expanded)
	}
}
