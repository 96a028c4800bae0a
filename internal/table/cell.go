package table

// Cell is the intersection of a row and a leaf column.
type Cell[T any] struct {
	Decorations

	ID     string
	Row    *Row[T]
	Column *Column[T]
}

func (t *Table[T]) newCell(r *Row[T], col *Column[T]) *Cell[T] {
	c := &Cell[T]{
		ID:     r.ID + "_" + col.ID,
		Row:    r,
		Column: col,
	}
	for _, d := range t.registry.cells {
		d.DecorateCell(t, c)
	}
	return c
}

// GetValue returns the row's value for the cell's column.
func (c *Cell[T]) GetValue() any {
	return c.Row.GetValue(c.Column.ID)
}

// RenderValue returns the value or the table's fallback value when nil.
func (c *Cell[T]) RenderValue() any {
	return c.Row.RenderValue(c.Column.ID)
}

// GetIsGrouped reports whether the cell's row is a group row for the
// cell's column.
func (c *Cell[T]) GetIsGrouped() bool {
	return c.Column.GetIsGrouped() && c.Row.GroupingColumnID == c.Column.ID
}

// GetIsPlaceholder reports whether the cell belongs to a grouped column but
// not to the row's own grouping level.
func (c *Cell[T]) GetIsPlaceholder() bool {
	return !c.GetIsGrouped() && c.Column.GetIsGrouped()
}

// GetIsAggregated reports whether the cell shows an aggregate of sub rows.
func (c *Cell[T]) GetIsAggregated() bool {
	return !c.GetIsGrouped() && !c.GetIsPlaceholder() && len(c.Row.branch().SubRows) > 0
}
