package table

import (
	"reflect"
	"testing"
)

func TestMergeState(t *testing.T) {
	base := State{
		Sorting:    []ColumnSort{{ID: "a"}},
		Grouping:   []string{"b"},
		Pagination: PaginationState{PageIndex: 3, PageSize: 20},
	}

	tests := []struct {
		name     string
		override PartialState
		check    func(t *testing.T, got State)
	}{
		{
			name:     "empty override keeps base",
			override: PartialState{},
			check: func(t *testing.T, got State) {
				if !reflect.DeepEqual(got, base) {
					t.Errorf("MergeState() = %+v, want %+v", got, base)
				}
			},
		},
		{
			name:     "present slice wins",
			override: PartialState{Sorting: &[]ColumnSort{{ID: "z", Desc: true}}},
			check: func(t *testing.T, got State) {
				if want := []ColumnSort{{ID: "z", Desc: true}}; !reflect.DeepEqual(got.Sorting, want) {
					t.Errorf("Sorting = %v, want %v", got.Sorting, want)
				}
				if !reflect.DeepEqual(got.Grouping, base.Grouping) {
					t.Errorf("Grouping = %v, want %v", got.Grouping, base.Grouping)
				}
			},
		},
		{
			name:     "present empty slice still wins",
			override: PartialState{Grouping: &[]string{}},
			check: func(t *testing.T, got State) {
				if got.Grouping == nil || len(got.Grouping) != 0 {
					t.Errorf("Grouping = %v, want empty", got.Grouping)
				}
			},
		},
		{
			name:     "value slices",
			override: PartialState{Pagination: &PaginationState{PageSize: 5}},
			check: func(t *testing.T, got State) {
				if got.Pagination != (PaginationState{PageSize: 5}) {
					t.Errorf("Pagination = %+v, want {0 5}", got.Pagination)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, MergeState(base, tt.override))
		})
	}
}

func TestPartialState_Keys(t *testing.T) {
	p := PartialState{
		Pagination:    &PaginationState{},
		ColumnFilters: &[]ColumnFilter{},
	}
	if got, want := p.Keys(), []string{"columnFilters", "pagination"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestOverlay_ReportsReplacedSlices(t *testing.T) {
	dst := PartialState{Sorting: &[]ColumnSort{}}
	replaced := overlay(&dst, PartialState{
		Sorting:  &[]ColumnSort{{ID: "a"}},
		Grouping: &[]string{"b"},
	})

	if !reflect.DeepEqual(replaced, []string{"sorting"}) {
		t.Errorf("replaced = %v, want [sorting]", replaced)
	}
	if dst.Grouping == nil || (*dst.Grouping)[0] != "b" {
		t.Errorf("Grouping not copied: %v", dst.Grouping)
	}
}

func TestInitialState_HostValuesWin(t *testing.T) {
	tbl := newTable(t, Options[record]{
		Data:    abData(),
		Columns: abColumns(),
		InitialState: PartialState{
			Pagination: &PaginationState{PageIndex: 0, PageSize: 50},
		},
	})

	if got := tbl.InitialState().Pagination.PageSize; got != 50 {
		t.Errorf("initial PageSize = %d, want 50", got)
	}
	if got := tbl.GetState().Sorting; got == nil {
		t.Error("Sorting = nil, want feature default")
	}
}

func TestExpandedState_IsEmpty(t *testing.T) {
	tests := []struct {
		state ExpandedState
		want  bool
	}{
		{ExpandedState{}, true},
		{ExpandedState{IDs: map[string]bool{"1": false}}, true},
		{ExpandedState{IDs: map[string]bool{"1": true}}, false},
		{ExpandedState{All: true}, false},
	}
	for _, tt := range tests {
		if got := tt.state.IsEmpty(); got != tt.want {
			t.Errorf("%+v.IsEmpty() = %v, want %v", tt.state, got, tt.want)
		}
	}
}
