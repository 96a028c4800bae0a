package table

// Row wraps one record. Rows produced by different stages are distinct
// values that share ID, Original, Index and the cached cell values.
type Row[T any] struct {
	Decorations

	ID       string
	Index    int
	Depth    int
	ParentID string
	Original T

	SubRows         []*Row[T]
	OriginalSubRows []T

	// GroupingColumnID and GroupingValue are set on rows synthesized by the
	// grouped stage. LeafRows holds the data rows under such a row.
	GroupingColumnID string
	GroupingValue    any
	LeafRows         []*Row[T]

	// ColumnFilters records, per filtered column, whether the row passed.
	ColumnFilters     map[string]bool
	ColumnFiltersMeta map[string]any

	table  *Table[T]
	values map[string]any
	source *Row[T]
	// flattened marks a display row emitted by the expanded stage; its
	// SubRows were moved into the row sequence.
	flattened bool

	cells     []*Cell[T]
	cellsCols *columnSet[T]
}

func (t *Table[T]) newRow(id string, original T, index, depth int, parentID string) *Row[T] {
	return &Row[T]{
		ID:       id,
		Index:    index,
		Depth:    depth,
		ParentID: parentID,
		Original: original,
		table:    t,
		values:   make(map[string]any),
	}
}

func (t *Table[T]) decorateRow(r *Row[T]) {
	for _, d := range t.registry.rows {
		d.DecorateRow(t, r)
	}
}

// clone returns a shallow copy that shares scalar fields and the value cache.
// Decorations are inherited copy-on-write.
func (r *Row[T]) clone() *Row[T] {
	c := *r
	c.Decorations = r.Decorations.inherit()
	c.source = r
	c.flattened = false
	c.cells = nil
	c.cellsCols = nil
	return &c
}

// branch returns the row whose SubRows describe r's children. For display
// rows emitted by the expanded stage that is the row they were flattened
// from.
func (r *Row[T]) branch() *Row[T] {
	for r.flattened && r.source != nil {
		r = r.source
	}
	return r
}

// GetValue returns the row's value for a column, computing and caching it on
// first access. Grouped rows return the grouping value or an aggregate.
func (r *Row[T]) GetValue(columnID string) any {
	if v, ok := r.values[columnID]; ok {
		return v
	}
	col := r.table.GetColumn(columnID)
	if col == nil {
		return nil
	}

	var v any
	switch {
	case r.GroupingColumnID != "":
		v = r.table.groupedValue(r, col)
	case col.accessor != nil:
		v = col.accessor(r.Original, r.Index)
	default:
		return nil
	}
	r.values[columnID] = v
	return v
}

// RenderValue returns GetValue, or Options.RenderFallbackValue when the value
// is nil.
func (r *Row[T]) RenderValue(columnID string) any {
	if v := r.GetValue(columnID); v != nil {
		return v
	}
	return r.table.options.RenderFallbackValue
}

// GetParentRow returns the parent row, or nil for root rows.
func (r *Row[T]) GetParentRow() *Row[T] {
	if r.ParentID == "" {
		return nil
	}
	return r.table.GetRow(r.ParentID, true)
}

// GetParentRows returns the ancestors of r, root first.
func (r *Row[T]) GetParentRows() []*Row[T] {
	var parents []*Row[T]
	for p := r.GetParentRow(); p != nil; p = p.GetParentRow() {
		parents = append([]*Row[T]{p}, parents...)
	}
	return parents
}

// GetLeafRows returns the descendants of r in pre-order.
func (r *Row[T]) GetLeafRows() []*Row[T] {
	return flattenRows(r.branch().SubRows)
}

// GetAllCells returns one cell per leaf column.
func (r *Row[T]) GetAllCells() []*Cell[T] {
	cols := r.table.columnsMemo.value
	if r.cells != nil && r.cellsCols == cols {
		return r.cells
	}
	leaves := r.table.GetAllLeafColumns()
	cells := make([]*Cell[T], len(leaves))
	for i, col := range leaves {
		cells[i] = r.table.newCell(r, col)
	}
	r.cells = cells
	r.cellsCols = cols
	return cells
}

func (r *Row[T]) cellsOf(cols []*Column[T]) []*Cell[T] {
	byID := make(map[string]*Cell[T])
	for _, c := range r.GetAllCells() {
		byID[c.Column.ID] = c
	}
	out := make([]*Cell[T], 0, len(cols))
	for _, col := range cols {
		if c, ok := byID[col.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// GetVisibleCells returns the cells of visible leaf columns, left pinned
// first and right pinned last.
func (r *Row[T]) GetVisibleCells() []*Cell[T] {
	t := r.table
	var cols []*Column[T]
	cols = append(cols, t.GetLeftLeafColumns()...)
	cols = append(cols, t.GetCenterLeafColumns()...)
	cols = append(cols, t.GetRightLeafColumns()...)
	return r.cellsOf(cols)
}

// GetLeftVisibleCells returns the cells of visible left-pinned columns.
func (r *Row[T]) GetLeftVisibleCells() []*Cell[T] {
	return r.cellsOf(r.table.GetLeftLeafColumns())
}

// GetCenterVisibleCells returns the cells of visible unpinned columns.
func (r *Row[T]) GetCenterVisibleCells() []*Cell[T] {
	return r.cellsOf(r.table.GetCenterLeafColumns())
}

// GetRightVisibleCells returns the cells of visible right-pinned columns.
func (r *Row[T]) GetRightVisibleCells() []*Cell[T] {
	return r.cellsOf(r.table.GetRightLeafColumns())
}
