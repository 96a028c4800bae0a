package table

type selectionFeature[T any] struct{}

// SelectionFeature tracks selected rows by id in State.RowSelection.
func SelectionFeature[T any]() Feature[T] { return selectionFeature[T]{} }

func (selectionFeature[T]) Name() string     { return FeatureSelection }
func (selectionFeature[T]) bit() featureBit { return bitSelection }

func (selectionFeature[T]) InitialState(PartialState) PartialState {
	return PartialState{RowSelection: Ptr(map[string]bool{})}
}

type selectionLevel int

const (
	selectedNone selectionLevel = iota
	selectedSome
	selectedAll
)

// GetIsSelected reports whether the row id is selected.
func (r *Row[T]) GetIsSelected() bool {
	return r.table.has(bitSelection) && r.table.GetState().RowSelection[r.ID]
}

// GetCanSelect reports whether the row may be selected.
func (r *Row[T]) GetCanSelect() bool {
	t := r.table
	if !t.has(bitSelection) {
		return false
	}
	if t.options.CanSelectRow != nil {
		return t.options.CanSelectRow(r)
	}
	return !t.options.DisableRowSelection
}

// GetCanMultiSelect reports whether selecting the row keeps other
// selections.
func (r *Row[T]) GetCanMultiSelect() bool {
	return r.table.has(bitSelection) && !r.table.options.DisableMultiRowSelection
}

// GetCanSelectSubRows reports whether selecting the row cascades to its sub
// rows.
func (r *Row[T]) GetCanSelectSubRows() bool {
	return r.table.has(bitSelection) && !r.table.options.DisableSubRowSelection
}

// GetIsSomeSelected reports whether some, but not all, selectable
// descendants are selected.
func (r *Row[T]) GetIsSomeSelected() bool {
	return subRowSelection(r.branch(), r.table.GetState().RowSelection) == selectedSome
}

// GetIsAllSubRowsSelected reports whether every selectable descendant is
// selected.
func (r *Row[T]) GetIsAllSubRowsSelected() bool {
	return subRowSelection(r.branch(), r.table.GetState().RowSelection) == selectedAll
}

// ToggleSelected flips the row's selection, cascading to sub rows.
func (r *Row[T]) ToggleSelected() error {
	return r.SetSelected(!r.GetIsSelected(), true)
}

// SetSelected selects or deselects the row. With includeChildren the change
// cascades through sub rows that may be selected.
func (r *Row[T]) SetSelected(selected, includeChildren bool) error {
	if selected == r.GetIsSelected() && !includeChildren {
		return nil
	}
	t := r.table
	return t.SetRowSelection(func(old map[string]bool) map[string]bool {
		next := cloneBoolMap(old)
		t.mutateSelection(next, r.branch(), selected, includeChildren)
		return next
	})
}

func (t *Table[T]) mutateSelection(sel map[string]bool, r *Row[T], selected, includeChildren bool) {
	if selected {
		if !r.GetCanMultiSelect() {
			clear(sel)
		}
		if r.GetCanSelect() {
			sel[r.ID] = true
		}
	} else {
		delete(sel, r.ID)
	}
	if includeChildren && len(r.SubRows) > 0 && r.GetCanSelectSubRows() {
		for _, sub := range r.SubRows {
			t.mutateSelection(sel, sub, selected, includeChildren)
		}
	}
}

// subRowSelection walks r's descendants and reports how many selectable ones
// are selected.
func subRowSelection[T any](r *Row[T], sel map[string]bool) selectionLevel {
	if len(r.SubRows) == 0 {
		return selectedNone
	}
	all, some := true, false
	for _, sub := range r.SubRows {
		if some && !all {
			break
		}
		if sub.GetCanSelect() {
			if sel[sub.ID] {
				some = true
			} else {
				all = false
			}
		}
		if len(sub.SubRows) > 0 {
			switch subRowSelection(sub, sel) {
			case selectedAll:
				some = true
			case selectedSome:
				some = true
				all = false
			default:
				all = false
			}
		}
	}
	switch {
	case all && some:
		return selectedAll
	case some:
		return selectedSome
	default:
		return selectedNone
	}
}

// SetRowSelection updates State.RowSelection.
func (t *Table[T]) SetRowSelection(u Updater[map[string]bool]) error {
	return updateSlice(t, t.options.OnRowSelectionChange, u, func(s *State) *map[string]bool { return &s.RowSelection })
}

// ResetRowSelection restores the initial selection, or clears it when
// defaultState is set.
func (t *Table[T]) ResetRowSelection(defaultState bool) error {
	next := t.initialState.RowSelection
	if defaultState || next == nil {
		next = map[string]bool{}
	}
	return t.SetRowSelection(Replace(next))
}

// ToggleAllRowsSelected selects or clears every selectable filtered row.
func (t *Table[T]) ToggleAllRowsSelected(selected bool) error {
	rows := t.GetPreGroupedRowModel().FlatRows
	return t.SetRowSelection(func(old map[string]bool) map[string]bool {
		next := cloneBoolMap(old)
		for _, r := range rows {
			if selected {
				if r.GetCanSelect() {
					next[r.ID] = true
				}
			} else {
				delete(next, r.ID)
			}
		}
		return next
	})
}

// ToggleAllPageRowsSelected selects or clears every row on the current page,
// cascading to sub rows.
func (t *Table[T]) ToggleAllPageRowsSelected(selected bool) error {
	rows := t.GetRowModel().Rows
	return t.SetRowSelection(func(old map[string]bool) map[string]bool {
		next := cloneBoolMap(old)
		for _, r := range rows {
			t.mutateSelection(next, r.branch(), selected, true)
		}
		return next
	})
}

// GetIsAllRowsSelected reports whether every selectable filtered row is
// selected.
func (t *Table[T]) GetIsAllRowsSelected() bool {
	sel := t.GetState().RowSelection
	rows := t.GetFilteredRowModel().FlatRows
	if len(rows) == 0 || len(sel) == 0 {
		return false
	}
	for _, r := range rows {
		if r.GetCanSelect() && !sel[r.ID] {
			return false
		}
	}
	return true
}

// GetIsSomeRowsSelected reports whether a selection exists that does not
// cover every filtered row.
func (t *Table[T]) GetIsSomeRowsSelected() bool {
	n := 0
	for _, v := range t.GetState().RowSelection {
		if v {
			n++
		}
	}
	return n > 0 && n < len(t.GetFilteredRowModel().FlatRows)
}

// GetIsAllPageRowsSelected reports whether every selectable row on the page
// is selected.
func (t *Table[T]) GetIsAllPageRowsSelected() bool {
	sel := t.GetState().RowSelection
	n := 0
	for _, r := range t.GetPaginationRowModel().FlatRows {
		if !r.GetCanSelect() {
			continue
		}
		if !sel[r.ID] {
			return false
		}
		n++
	}
	return n > 0
}

// GetSelectedRowModel returns the selected core rows.
func (t *Table[T]) GetSelectedRowModel() *RowModel[T] {
	return t.selectedRows("core", t.GetCoreRowModel())
}

// GetFilteredSelectedRowModel returns the selected rows that pass the
// filters.
func (t *Table[T]) GetFilteredSelectedRowModel() *RowModel[T] {
	return t.selectedRows("filtered", t.GetFilteredRowModel())
}

// GetGroupedSelectedRowModel returns the selected rows after grouping and
// sorting.
func (t *Table[T]) GetGroupedSelectedRowModel() *RowModel[T] {
	return t.selectedRows("grouped", t.GetSortedRowModel())
}

func (t *Table[T]) selectedRows(name string, source *RowModel[T]) *RowModel[T] {
	if t.selectedMemo == nil {
		t.selectedMemo = make(map[string]*memo[*RowModel[T]])
	}
	m, ok := t.selectedMemo[name]
	if !ok {
		m = &memo[*RowModel[T]]{name: "selected." + name}
		t.selectedMemo[name] = m
	}
	sel := t.GetState().RowSelection
	v, _, _ := m.get(t.logger(), t.options.Debug, []any{source, sel}, func() (*RowModel[T], error) {
		if len(sel) == 0 {
			return buildRowModel([]*Row[T]{}), nil
		}
		return buildRowModel(selectRows(source.Rows, sel)), nil
	})
	return v
}

// selectRows keeps selected rows in order. A selected row under an
// unselected parent takes the parent's place so the result stays a valid
// tree.
func selectRows[T any](rows []*Row[T], sel map[string]bool) []*Row[T] {
	var out []*Row[T]
	for _, row := range rows {
		subs := selectRows(row.SubRows, sel)
		if !sel[row.ID] {
			out = append(out, subs...)
			continue
		}
		c := row.clone()
		c.SubRows = subs
		out = append(out, c)
	}
	return out
}
