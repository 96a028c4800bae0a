package table

type orderingFeature[T any] struct{}

// OrderingFeature reorders leaf columns through State.ColumnOrder.
func OrderingFeature[T any]() Feature[T] { return orderingFeature[T]{} }

func (orderingFeature[T]) Name() string     { return FeatureOrdering }
func (orderingFeature[T]) bit() featureBit { return bitOrdering }

func (orderingFeature[T]) InitialState(PartialState) PartialState {
	return PartialState{ColumnOrder: Ptr([]string{})}
}

// orderColumns applies State.ColumnOrder, then moves or removes grouped
// columns according to Options.GroupedColumnMode. Columns missing from the
// order keep their relative position after the ordered ones.
func (t *Table[T]) orderColumns(cols []*Column[T]) []*Column[T] {
	st := t.GetState()
	ordered := cols

	if t.has(bitOrdering) && len(st.ColumnOrder) > 0 {
		remaining := append([]*Column[T](nil), cols...)
		ordered = make([]*Column[T], 0, len(cols))
		for _, id := range st.ColumnOrder {
			for i, c := range remaining {
				if c.ID == id {
					ordered = append(ordered, c)
					remaining = append(remaining[:i], remaining[i+1:]...)
					break
				}
			}
		}
		ordered = append(ordered, remaining...)
	}

	mode := t.options.GroupedColumnMode
	if !t.has(bitGrouping) || len(st.Grouping) == 0 || mode == GroupedColumnsKeep || mode == "" {
		return ordered
	}

	rest := make([]*Column[T], 0, len(ordered))
	for _, c := range ordered {
		if indexOf(st.Grouping, c.ID) < 0 {
			rest = append(rest, c)
		}
	}
	if mode == GroupedColumnsRemove {
		return rest
	}

	grouped := make([]*Column[T], 0, len(st.Grouping))
	for _, id := range st.Grouping {
		for _, c := range ordered {
			if c.ID == id {
				grouped = append(grouped, c)
				break
			}
		}
	}
	return append(grouped, rest...)
}

// SetColumnOrder updates State.ColumnOrder.
func (t *Table[T]) SetColumnOrder(u Updater[[]string]) error {
	return updateSlice(t, t.options.OnColumnOrderChange, u, func(s *State) *[]string { return &s.ColumnOrder })
}

// ResetColumnOrder restores the initial column order, or the definition
// order when defaultState is set.
func (t *Table[T]) ResetColumnOrder(defaultState bool) error {
	next := t.initialState.ColumnOrder
	if defaultState || next == nil {
		next = []string{}
	}
	return t.SetColumnOrder(Replace(next))
}

// GetIndex returns the column's position among the visible leaf columns of
// the given pin position ("left", "right", "center", or "" for all).
func (c *Column[T]) GetIndex(position ColumnPinningPosition) int {
	return columnIndex(c.table.visibleLeafColumnsAt(position), c.ID)
}

// GetIsFirstColumn reports whether the column is first in its position.
func (c *Column[T]) GetIsFirstColumn(position ColumnPinningPosition) bool {
	cols := c.table.visibleLeafColumnsAt(position)
	return len(cols) > 0 && cols[0].ID == c.ID
}

// GetIsLastColumn reports whether the column is last in its position.
func (c *Column[T]) GetIsLastColumn(position ColumnPinningPosition) bool {
	cols := c.table.visibleLeafColumnsAt(position)
	return len(cols) > 0 && cols[len(cols)-1].ID == c.ID
}

func columnIndex[T any](cols []*Column[T], id string) int {
	for i, c := range cols {
		if c.ID == id {
			return i
		}
	}
	return -1
}
