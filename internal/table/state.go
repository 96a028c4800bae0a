package table

// Updater computes a new value from the previous one. Updaters must return a
// fresh value rather than mutating old, so identity-based change detection
// stays reliable.
type Updater[V any] func(old V) V

// Replace returns an updater that ignores the previous value.
func Replace[V any](v V) Updater[V] {
	return func(V) V { return v }
}

// Ptr returns a pointer to v. It is a convenience for filling [PartialState].
func Ptr[V any](v V) *V {
	return &v
}

// ColumnFilter is one column filter descriptor.
type ColumnFilter struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// ColumnSort is one sort descriptor. Earlier descriptors take priority.
type ColumnSort struct {
	ID   string `json:"id"`
	Desc bool   `json:"desc"`
}

// ColumnPinning lists the column ids pinned to each side, in display order.
type ColumnPinning struct {
	Left  []string `json:"left,omitempty"`
	Right []string `json:"right,omitempty"`
}

// ExpandedState records expanded row ids. All expands every row.
type ExpandedState struct {
	All bool            `json:"all,omitempty"`
	IDs map[string]bool `json:"ids,omitempty"`
}

// IsEmpty reports whether no row is expanded.
func (e ExpandedState) IsEmpty() bool {
	if e.All {
		return false
	}
	for _, v := range e.IDs {
		if v {
			return false
		}
	}
	return true
}

// PaginationState is the current page index and size.
type PaginationState struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

const (
	defaultPageIndex = 0
	defaultPageSize  = 10
)

// State is the union of every feature's state slice. It is replaced
// wholesale on each update.
type State struct {
	ColumnVisibility map[string]bool    `json:"columnVisibility"`
	ColumnOrder      []string           `json:"columnOrder"`
	ColumnPinning    ColumnPinning      `json:"columnPinning"`
	ColumnFilters    []ColumnFilter     `json:"columnFilters"`
	GlobalFilter     any                `json:"globalFilter"`
	Sorting          []ColumnSort       `json:"sorting"`
	Grouping         []string           `json:"grouping"`
	Expanded         ExpandedState      `json:"expanded"`
	ColumnSizing     map[string]float64 `json:"columnSizing"`
	Pagination       PaginationState    `json:"pagination"`
	RowSelection     map[string]bool    `json:"rowSelection"`
}

// PartialState holds an optional value per state slice. A nil field means
// the slice is not provided.
type PartialState struct {
	ColumnVisibility *map[string]bool
	ColumnOrder      *[]string
	ColumnPinning    *ColumnPinning
	ColumnFilters    *[]ColumnFilter
	GlobalFilter     *any
	Sorting          *[]ColumnSort
	Grouping         *[]string
	Expanded         *ExpandedState
	ColumnSizing     *map[string]float64
	Pagination       *PaginationState
	RowSelection     *map[string]bool
}

// MergeState returns base with every slice present in override replacing
// the corresponding slice of base. It is the rule that decides which copy of
// state wins: a slice the host provides is host-controlled, every other slice
// is taken from the table's own copy.
func MergeState(base State, override PartialState) State {
	s := base
	if override.ColumnVisibility != nil {
		s.ColumnVisibility = *override.ColumnVisibility
	}
	if override.ColumnOrder != nil {
		s.ColumnOrder = *override.ColumnOrder
	}
	if override.ColumnPinning != nil {
		s.ColumnPinning = *override.ColumnPinning
	}
	if override.ColumnFilters != nil {
		s.ColumnFilters = *override.ColumnFilters
	}
	if override.GlobalFilter != nil {
		s.GlobalFilter = *override.GlobalFilter
	}
	if override.Sorting != nil {
		s.Sorting = *override.Sorting
	}
	if override.Grouping != nil {
		s.Grouping = *override.Grouping
	}
	if override.Expanded != nil {
		s.Expanded = *override.Expanded
	}
	if override.ColumnSizing != nil {
		s.ColumnSizing = *override.ColumnSizing
	}
	if override.Pagination != nil {
		s.Pagination = *override.Pagination
	}
	if override.RowSelection != nil {
		s.RowSelection = *override.RowSelection
	}
	return s
}

// Keys returns the names of the slices present in p, in State field order.
func (p PartialState) Keys() []string {
	var keys []string
	add := func(set bool, name string) {
		if set {
			keys = append(keys, name)
		}
	}
	add(p.ColumnVisibility != nil, "columnVisibility")
	add(p.ColumnOrder != nil, "columnOrder")
	add(p.ColumnPinning != nil, "columnPinning")
	add(p.ColumnFilters != nil, "columnFilters")
	add(p.GlobalFilter != nil, "globalFilter")
	add(p.Sorting != nil, "sorting")
	add(p.Grouping != nil, "grouping")
	add(p.Expanded != nil, "expanded")
	add(p.ColumnSizing != nil, "columnSizing")
	add(p.Pagination != nil, "pagination")
	add(p.RowSelection != nil, "rowSelection")
	return keys
}

// overlay copies every slice set in src into dst and returns the names of
// slices that dst already had.
func overlay(dst *PartialState, src PartialState) []string {
	var replaced []string
	take := func(name string, had, set bool, assign func()) {
		if !set {
			return
		}
		if had {
			replaced = append(replaced, name)
		}
		assign()
	}
	take("columnVisibility", dst.ColumnVisibility != nil, src.ColumnVisibility != nil, func() { dst.ColumnVisibility = src.ColumnVisibility })
	take("columnOrder", dst.ColumnOrder != nil, src.ColumnOrder != nil, func() { dst.ColumnOrder = src.ColumnOrder })
	take("columnPinning", dst.ColumnPinning != nil, src.ColumnPinning != nil, func() { dst.ColumnPinning = src.ColumnPinning })
	take("columnFilters", dst.ColumnFilters != nil, src.ColumnFilters != nil, func() { dst.ColumnFilters = src.ColumnFilters })
	take("globalFilter", dst.GlobalFilter != nil, src.GlobalFilter != nil, func() { dst.GlobalFilter = src.GlobalFilter })
	take("sorting", dst.Sorting != nil, src.Sorting != nil, func() { dst.Sorting = src.Sorting })
	take("grouping", dst.Grouping != nil, src.Grouping != nil, func() { dst.Grouping = src.Grouping })
	take("expanded", dst.Expanded != nil, src.Expanded != nil, func() { dst.Expanded = src.Expanded })
	take("columnSizing", dst.ColumnSizing != nil, src.ColumnSizing != nil, func() { dst.ColumnSizing = src.ColumnSizing })
	take("pagination", dst.Pagination != nil, src.Pagination != nil, func() { dst.Pagination = src.Pagination })
	take("rowSelection", dst.RowSelection != nil, src.RowSelection != nil, func() { dst.RowSelection = src.RowSelection })
	return replaced
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func without(ids []string, remove ...string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if indexOf(remove, id) < 0 {
			out = append(out, id)
		}
	}
	return out
}
