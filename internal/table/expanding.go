package table

type expandingFeature[T any] struct{}

// ExpandingFeature tracks which rows show their sub rows.
func ExpandingFeature[T any]() Feature[T] { return expandingFeature[T]{} }

func (expandingFeature[T]) Name() string     { return FeatureExpanding }
func (expandingFeature[T]) bit() featureBit { return bitExpanding }

func (expandingFeature[T]) InitialState(PartialState) PartialState {
	return PartialState{Expanded: &ExpandedState{IDs: map[string]bool{}}}
}

// GetIsExpanded reports whether the row shows its sub rows.
func (r *Row[T]) GetIsExpanded() bool {
	t := r.table
	if !t.has(bitExpanding) {
		return false
	}
	if t.options.GetIsRowExpanded != nil {
		return t.options.GetIsRowExpanded(r)
	}
	e := t.GetState().Expanded
	return e.All || e.IDs[r.ID]
}

// GetCanExpand reports whether the row has sub rows to show.
func (r *Row[T]) GetCanExpand() bool {
	t := r.table
	if !t.has(bitExpanding) || t.options.DisableExpanding {
		return false
	}
	if t.options.GetRowCanExpand != nil {
		return t.options.GetRowCanExpand(r)
	}
	return len(r.branch().SubRows) > 0
}

// GetIsAllParentsExpanded reports whether every ancestor is expanded.
func (r *Row[T]) GetIsAllParentsExpanded() bool {
	for p := r.GetParentRow(); p != nil; p = p.GetParentRow() {
		if !p.GetIsExpanded() {
			return false
		}
	}
	return true
}

// ToggleExpanded flips the row's expansion.
func (r *Row[T]) ToggleExpanded() error {
	return r.SetExpanded(!r.GetIsExpanded())
}

// SetExpanded expands or collapses the row. Collapsing one row while every
// row is expanded switches the state to an explicit id set.
func (r *Row[T]) SetExpanded(expanded bool) error {
	t := r.table
	return t.SetExpanded(func(old ExpandedState) ExpandedState {
		exists := old.All || old.IDs[r.ID]
		if exists == expanded {
			return old
		}
		ids := make(map[string]bool)
		if old.All {
			for id := range t.GetRowModel().RowsByID {
				ids[id] = true
			}
		} else {
			for id, v := range old.IDs {
				if v {
					ids[id] = true
				}
			}
		}
		if expanded {
			ids[r.ID] = true
		} else {
			delete(ids, r.ID)
		}
		return ExpandedState{IDs: ids}
	})
}

// SetExpanded updates State.Expanded.
func (t *Table[T]) SetExpanded(u Updater[ExpandedState]) error {
	return updateSlice(t, t.options.OnExpandedChange, u, func(s *State) *ExpandedState { return &s.Expanded })
}

// ResetExpanded restores the initial expansion, or collapses every row when
// defaultState is set.
func (t *Table[T]) ResetExpanded(defaultState bool) error {
	next := t.initialState.Expanded
	if defaultState {
		next = ExpandedState{IDs: map[string]bool{}}
	}
	return t.SetExpanded(Replace(next))
}

// ToggleAllRowsExpanded expands or collapses every row.
func (t *Table[T]) ToggleAllRowsExpanded(expanded bool) error {
	if expanded {
		return t.SetExpanded(Replace(ExpandedState{All: true}))
	}
	return t.SetExpanded(Replace(ExpandedState{IDs: map[string]bool{}}))
}

// GetIsAllRowsExpanded reports whether every expandable row is expanded.
func (t *Table[T]) GetIsAllRowsExpanded() bool {
	e := t.GetState().Expanded
	if e.All {
		return true
	}
	rows := t.GetPreExpandedRowModel().FlatRows
	if len(rows) == 0 || len(e.IDs) == 0 {
		return false
	}
	for _, r := range rows {
		if r.GetCanExpand() && !r.GetIsExpanded() {
			return false
		}
	}
	return true
}

// GetIsSomeRowsExpanded reports whether any row is expanded.
func (t *Table[T]) GetIsSomeRowsExpanded() bool {
	return !t.GetState().Expanded.IsEmpty()
}

// GetCanSomeRowsExpand reports whether any row on the current page can
// expand.
func (t *Table[T]) GetCanSomeRowsExpand() bool {
	for _, r := range t.GetPrePaginationRowModel().FlatRows {
		if r.GetCanExpand() {
			return true
		}
	}
	return false
}

// GetExpandedDepth returns the deepest level of expanded rows.
func (t *Table[T]) GetExpandedDepth() int {
	e := t.GetState().Expanded
	depth := 0
	if e.All {
		for _, r := range t.GetPreExpandedRowModel().FlatRows {
			depth = max(depth, r.Depth+1)
		}
		return depth
	}
	for id, v := range e.IDs {
		if !v {
			continue
		}
		if r := t.GetRow(id, true); r != nil {
			depth = max(depth, r.Depth+1)
		}
	}
	return depth
}
