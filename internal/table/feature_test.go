package table

import (
	"errors"
	"strings"
	"testing"
)

// auditFeature records every hook call and decorates each entity.
type auditFeature struct {
	calls []string
}

func (f *auditFeature) Name() string { return "audit" }

func (f *auditFeature) InitialState(PartialState) PartialState {
	f.calls = append(f.calls, "state")
	return PartialState{Pagination: &PaginationState{PageIndex: 0, PageSize: 2}}
}

func (f *auditFeature) DefaultOptions(_ *Table[record], o *Options[record]) {
	f.calls = append(f.calls, "options")
	if o.RenderFallbackValue == nil {
		o.RenderFallbackValue = "-"
	}
}

func (f *auditFeature) DecorateTable(t *Table[record]) error {
	f.calls = append(f.calls, "table")
	t.Decorate("audit", true)
	return nil
}

func (f *auditFeature) DecorateColumn(_ *Table[record], c *Column[record]) error {
	c.Decorate("upper", strings.ToUpper(c.ID))
	return nil
}

func (f *auditFeature) DecorateRow(_ *Table[record], r *Row[record]) {
	r.Decorate("even", r.Index%2 == 0)
}

func (f *auditFeature) DecorateHeader(_ *Table[record], h *Header[record]) {
	h.Decorate("span", h.ColSpan)
}

func (f *auditFeature) DecorateCell(_ *Table[record], c *Cell[record]) {
	c.Decorate("label", c.Column.ID+"="+toText(c.GetValue()))
}

func (f *auditFeature) Requires() []string { return []string{FeaturePagination} }

func TestCustomFeature_Hooks(t *testing.T) {
	audit := &auditFeature{}
	features := append(DefaultFeatures[record](), audit)
	tbl := newTable(t, Options[record]{
		Data:     append(abData(), record{"a": nil, "b": "w"}),
		Columns:  abColumns(),
		Features: features,
	})

	if got := strings.Join(audit.calls, ","); got != "options,state,table" {
		t.Errorf("hook order = %q, want %q", got, "options,state,table")
	}
	if v, ok := DecorationOf[bool](&tbl.Decorations, "audit"); !ok || !v {
		t.Errorf("table decoration = %v, %v; want true, true", v, ok)
	}
	if v, _ := DecorationOf[string](&tbl.GetColumn("b").Decorations, "upper"); v != "B" {
		t.Errorf("column decoration = %q, want %q", v, "B")
	}
	// The custom feature's initial pagination replaces the built-in one.
	if got := tbl.GetState().Pagination.PageSize; got != 2 {
		t.Errorf("PageSize = %d, want 2", got)
	}

	rows := tbl.GetRowModel().Rows
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if v, _ := DecorationOf[bool](&rows[1].Decorations, "even"); v {
		t.Errorf("row 1 even = %v, want false", v)
	}

	cells := rows[0].GetAllCells()
	if v, _ := cells[1].Decoration("label"); v != "b=x" {
		t.Errorf("cell decoration = %v, want b=x", v)
	}
	for _, h := range tbl.GetLeafHeaders() {
		if v, _ := DecorationOf[int](&h.Decorations, "span"); v != 1 {
			t.Errorf("header %s span = %d, want 1", h.ID, v)
		}
	}

	if err := tbl.NextPage(); err != nil {
		t.Fatalf("NextPage() error = %v", err)
	}
	last := tbl.GetRowModel().Rows[1]
	if got := last.RenderValue("a"); got != "-" {
		t.Errorf("RenderValue(nil) = %v, want fallback %q", got, "-")
	}
}

func TestCustomFeature_DecorationsSurviveCloning(t *testing.T) {
	tbl := newTable(t, Options[record]{
		Data:     abData(),
		Columns:  abColumns(),
		Features: append(DefaultFeatures[record](), &auditFeature{}),
		InitialState: PartialState{
			Sorting: &[]ColumnSort{{ID: "b", Desc: true}},
		},
	})

	// Row "2" is core index 2 and sorted to the front.
	first := tbl.GetSortedRowModel().Rows[0]
	if first.ID != "2" {
		t.Fatalf("first sorted row = %s, want 2", first.ID)
	}
	if v, _ := DecorationOf[bool](&first.Decorations, "even"); !v {
		t.Errorf("cloned row lost its decoration")
	}

	first.Decorate("even", false)
	first.Decorate("sorted", true)
	core := tbl.GetCoreRowModel().RowsByID["2"]
	if v, _ := DecorationOf[bool](&core.Decorations, "even"); !v {
		t.Error("decorating a cloned row changed its source row")
	}
	if _, ok := core.Decoration("sorted"); ok {
		t.Error("decoration added to a cloned row leaked into its source row")
	}
	if v, _ := DecorationOf[bool](&first.Decorations, "even"); v {
		t.Error("cloned row did not take its own decoration")
	}
}

type namedFeature struct {
	name     string
	requires []string
}

func (f namedFeature) Name() string       { return f.name }
func (f namedFeature) Requires() []string { return f.requires }

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name     string
		features []Feature[record]
	}{
		{
			name:     "nil feature",
			features: []Feature[record]{nil},
		},
		{
			name:     "empty name",
			features: []Feature[record]{namedFeature{}},
		},
		{
			name:     "duplicate",
			features: []Feature[record]{VisibilityFeature[record](), VisibilityFeature[record]()},
		},
		{
			name:     "pinning before visibility",
			features: []Feature[record]{PinningFeature[record](), VisibilityFeature[record]()},
		},
		{
			name:     "global filtering without column filtering",
			features: []Feature[record]{GlobalFilteringFeature[record]()},
		},
		{
			name: "custom requirement missing",
			features: []Feature[record]{
				namedFeature{name: "a", requires: []string{"b"}},
				namedFeature{name: "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Options[record]{Columns: abColumns(), Features: tt.features, Logger: quietLogger()})
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("New() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestFeatureSubset_DisablesBuiltins(t *testing.T) {
	tbl := newTable(t, Options[record]{
		Data:     abData(),
		Columns:  abColumns(),
		Features: []Feature[record]{ColumnFilteringFeature[record](), SortingFeature[record]()},
		InitialState: PartialState{
			Sorting:    &[]ColumnSort{{ID: "b", Desc: true}},
			Pagination: &PaginationState{PageIndex: 0, PageSize: 1},
		},
	})

	if tbl.HasFeature(FeaturePagination) {
		t.Error("HasFeature(pagination) = true")
	}
	// Without pagination every sorted row is in the final model.
	if got := rowValues(tbl.GetRowModel().Rows, "b"); len(got) != 3 || got[0] != "z" {
		t.Errorf("rows b = %v, want [z y x]", got)
	}
	if tbl.GetColumn("a").GetCanHide() {
		t.Error("GetCanHide() = true without the visibility feature")
	}
	if !tbl.GetColumn("a").GetIsVisible() {
		t.Error("GetIsVisible() = false without the visibility feature")
	}
}
