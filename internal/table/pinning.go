package table

// ColumnPinningPosition names a pinned side.
type ColumnPinningPosition string

const (
	PinNone   ColumnPinningPosition = ""
	PinLeft   ColumnPinningPosition = "left"
	PinRight  ColumnPinningPosition = "right"
	PinCenter ColumnPinningPosition = "center"
)

type pinningFeature[T any] struct{}

// PinningFeature pins columns to the left or right. It requires the
// visibility feature.
func PinningFeature[T any]() Feature[T] { return pinningFeature[T]{} }

func (pinningFeature[T]) Name() string       { return FeaturePinning }
func (pinningFeature[T]) bit() featureBit   { return bitPinning }
func (pinningFeature[T]) Requires() []string { return []string{FeatureVisibility} }

func (pinningFeature[T]) InitialState(PartialState) PartialState {
	return PartialState{ColumnPinning: &ColumnPinning{Left: []string{}, Right: []string{}}}
}

// GetCanPin reports whether any leaf under the column may be pinned.
func (c *Column[T]) GetCanPin() bool {
	if !c.table.has(bitPinning) || c.table.options.DisablePinning {
		return false
	}
	for _, l := range c.GetLeafColumns() {
		if !l.Def.DisablePinning {
			return true
		}
	}
	return false
}

// GetIsPinned returns the side the column is pinned to, or PinNone. A group
// column is pinned when any of its leaves is.
func (c *Column[T]) GetIsPinned() ColumnPinningPosition {
	if !c.table.has(bitPinning) {
		return PinNone
	}
	p := c.table.GetState().ColumnPinning
	ids := leafIDs(c.GetLeafColumns())
	for _, id := range ids {
		if indexOf(p.Left, id) >= 0 {
			return PinLeft
		}
	}
	for _, id := range ids {
		if indexOf(p.Right, id) >= 0 {
			return PinRight
		}
	}
	return PinNone
}

// GetPinnedIndex returns the column's index within its pinned side, or 0.
func (c *Column[T]) GetPinnedIndex() int {
	p := c.table.GetState().ColumnPinning
	switch c.GetIsPinned() {
	case PinLeft:
		return max(indexOf(p.Left, c.ID), 0)
	case PinRight:
		return max(indexOf(p.Right, c.ID), 0)
	}
	return 0
}

// Pin pins every leaf under the column to position, or unpins them for
// PinNone.
func (c *Column[T]) Pin(position ColumnPinningPosition) error {
	if !c.GetCanPin() {
		return nil
	}
	ids := leafIDs(c.GetLeafColumns())
	return c.table.SetColumnPinning(func(old ColumnPinning) ColumnPinning {
		next := ColumnPinning{Left: without(old.Left, ids...), Right: without(old.Right, ids...)}
		switch position {
		case PinLeft:
			next.Left = append(next.Left, ids...)
		case PinRight:
			next.Right = append(next.Right, ids...)
		}
		return next
	})
}

func leafIDs[T any](cols []*Column[T]) []string {
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	return ids
}

// SetColumnPinning updates State.ColumnPinning.
func (t *Table[T]) SetColumnPinning(u Updater[ColumnPinning]) error {
	return updateSlice(t, t.options.OnColumnPinningChange, u, func(s *State) *ColumnPinning { return &s.ColumnPinning })
}

// ResetColumnPinning restores the initial pinning, or unpins everything
// when defaultState is set.
func (t *Table[T]) ResetColumnPinning(defaultState bool) error {
	next := t.initialState.ColumnPinning
	if defaultState {
		next = ColumnPinning{}
	}
	return t.SetColumnPinning(Replace(next))
}

// GetIsSomeColumnsPinned reports whether any column is pinned to position,
// or to either side for PinNone.
func (t *Table[T]) GetIsSomeColumnsPinned(position ColumnPinningPosition) bool {
	p := t.GetState().ColumnPinning
	switch position {
	case PinLeft:
		return len(p.Left) > 0
	case PinRight:
		return len(p.Right) > 0
	}
	return len(p.Left) > 0 || len(p.Right) > 0
}

// pinnedLeaves splits the ordered leaf columns into left, center and right.
// Left and right follow the order in State.ColumnPinning.
func (t *Table[T]) pinnedLeaves(cols []*Column[T]) (left, center, right []*Column[T]) {
	if !t.has(bitPinning) {
		return nil, cols, nil
	}
	p := t.GetState().ColumnPinning
	pick := func(ids []string) []*Column[T] {
		var out []*Column[T]
		for _, id := range ids {
			if i := columnIndex(cols, id); i >= 0 {
				out = append(out, cols[i])
			}
		}
		return out
	}
	left, right = pick(p.Left), pick(p.Right)
	for _, c := range cols {
		if indexOf(p.Left, c.ID) < 0 && indexOf(p.Right, c.ID) < 0 {
			center = append(center, c)
		}
	}
	return left, center, right
}

// GetLeftLeafColumns returns the visible left-pinned leaf columns.
func (t *Table[T]) GetLeftLeafColumns() []*Column[T] {
	left, _, _ := t.pinnedLeaves(t.GetVisibleLeafColumns())
	return left
}

// GetCenterLeafColumns returns the visible unpinned leaf columns.
func (t *Table[T]) GetCenterLeafColumns() []*Column[T] {
	_, center, _ := t.pinnedLeaves(t.GetVisibleLeafColumns())
	return center
}

// GetRightLeafColumns returns the visible right-pinned leaf columns.
func (t *Table[T]) GetRightLeafColumns() []*Column[T] {
	_, _, right := t.pinnedLeaves(t.GetVisibleLeafColumns())
	return right
}

func (t *Table[T]) visibleLeafColumnsAt(position ColumnPinningPosition) []*Column[T] {
	switch position {
	case PinLeft:
		return t.GetLeftLeafColumns()
	case PinRight:
		return t.GetRightLeafColumns()
	case PinCenter:
		return t.GetCenterLeafColumns()
	}
	return t.GetVisibleLeafColumns()
}
