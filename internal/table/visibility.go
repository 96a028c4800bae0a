package table

type visibilityFeature[T any] struct{}

// VisibilityFeature hides and shows columns through State.ColumnVisibility.
func VisibilityFeature[T any]() Feature[T] { return visibilityFeature[T]{} }

func (visibilityFeature[T]) Name() string     { return FeatureVisibility }
func (visibilityFeature[T]) bit() featureBit { return bitVisibility }

func (visibilityFeature[T]) InitialState(PartialState) PartialState {
	return PartialState{ColumnVisibility: Ptr(map[string]bool{})}
}

// GetIsVisible reports whether the column is shown. A group column is
// visible when any of its children is.
func (c *Column[T]) GetIsVisible() bool {
	if len(c.Columns) > 0 {
		for _, child := range c.Columns {
			if child.GetIsVisible() {
				return true
			}
		}
		return false
	}
	if !c.table.has(bitVisibility) {
		return true
	}
	v, ok := c.table.GetState().ColumnVisibility[c.ID]
	return !ok || v
}

// GetCanHide reports whether the column may be hidden.
func (c *Column[T]) GetCanHide() bool {
	return c.table.has(bitVisibility) && !c.Def.DisableHiding && !c.table.options.DisableHiding
}

// ToggleVisibility flips the column's visibility.
func (c *Column[T]) ToggleVisibility() error {
	return c.SetVisibility(!c.GetIsVisible())
}

// SetVisibility shows or hides the column. For group columns every leaf is
// updated.
func (c *Column[T]) SetVisibility(visible bool) error {
	if !c.GetCanHide() {
		return nil
	}
	leaves := c.GetLeafColumns()
	return c.table.SetColumnVisibility(func(old map[string]bool) map[string]bool {
		next := cloneBoolMap(old)
		for _, l := range leaves {
			if l.GetCanHide() {
				next[l.ID] = visible
			}
		}
		return next
	})
}

// SetColumnVisibility updates State.ColumnVisibility.
func (t *Table[T]) SetColumnVisibility(u Updater[map[string]bool]) error {
	return updateSlice(t, t.options.OnColumnVisibilityChange, u, func(s *State) *map[string]bool { return &s.ColumnVisibility })
}

// ResetColumnVisibility restores the initial visibility, or shows every
// column when defaultState is set.
func (t *Table[T]) ResetColumnVisibility(defaultState bool) error {
	next := t.initialState.ColumnVisibility
	if defaultState || next == nil {
		next = map[string]bool{}
	}
	return t.SetColumnVisibility(Replace(next))
}

// ToggleAllColumnsVisible shows or hides every hideable leaf column.
func (t *Table[T]) ToggleAllColumnsVisible(visible bool) error {
	leaves := t.GetAllLeafColumns()
	return t.SetColumnVisibility(func(map[string]bool) map[string]bool {
		next := make(map[string]bool, len(leaves))
		for _, c := range leaves {
			next[c.ID] = visible || !c.GetCanHide()
		}
		return next
	})
}

// GetIsAllColumnsVisible reports whether every leaf column is visible.
func (t *Table[T]) GetIsAllColumnsVisible() bool {
	for _, c := range t.GetAllLeafColumns() {
		if !c.GetIsVisible() {
			return false
		}
	}
	return true
}

// GetIsSomeColumnsVisible reports whether at least one leaf column is visible.
func (t *Table[T]) GetIsSomeColumnsVisible() bool {
	for _, c := range t.GetAllLeafColumns() {
		if c.GetIsVisible() {
			return true
		}
	}
	return false
}

// GetVisibleFlatColumns returns every visible column, groups included.
func (t *Table[T]) GetVisibleFlatColumns() []*Column[T] {
	var out []*Column[T]
	for _, c := range t.GetAllFlatColumns() {
		if c.GetIsVisible() {
			out = append(out, c)
		}
	}
	return out
}

// GetVisibleLeafColumns returns the visible leaf columns in display order.
func (t *Table[T]) GetVisibleLeafColumns() []*Column[T] {
	return visibleOnly(t.GetAllLeafColumns())
}

func visibleOnly[T any](cols []*Column[T]) []*Column[T] {
	out := make([]*Column[T], 0, len(cols))
	for _, c := range cols {
		if c.GetIsVisible() {
			out = append(out, c)
		}
	}
	return out
}
