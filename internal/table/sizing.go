package table

import "math"

// Column size defaults, in the host's units.
const (
	DefaultColumnSize    = 150
	DefaultColumnMinSize = 20
)

type sizingFeature[T any] struct{}

// SizingFeature tracks column widths in State.ColumnSizing.
func SizingFeature[T any]() Feature[T] { return sizingFeature[T]{} }

func (sizingFeature[T]) Name() string     { return FeatureSizing }
func (sizingFeature[T]) bit() featureBit { return bitSizing }

func (sizingFeature[T]) InitialState(PartialState) PartialState {
	return PartialState{ColumnSizing: Ptr(map[string]float64{})}
}

func (sizingFeature[T]) DecorateColumn(_ *Table[T], c *Column[T]) error {
	d := c.Def
	if d.MinSize < 0 || d.MaxSize < 0 || d.Size < 0 {
		return configError("table.columns", "column %q has a negative size", c.ID)
	}
	if d.MaxSize > 0 && d.MinSize > d.MaxSize {
		return configError("table.columns", "column %q has minSize %v above maxSize %v", c.ID, d.MinSize, d.MaxSize)
	}
	return nil
}

// GetSize returns the column's width: the stored size, else the defined
// size, else the default, clamped to its bounds. A group column is as wide as
// its visible leaves.
func (c *Column[T]) GetSize() float64 {
	if len(c.Columns) > 0 {
		var sum float64
		for _, l := range c.GetLeafColumns() {
			if l.GetIsVisible() {
				sum += l.GetSize()
			}
		}
		return sum
	}
	size := c.Def.Size
	if size == 0 {
		size = DefaultColumnSize
	}
	if c.table.has(bitSizing) {
		if v, ok := c.table.GetState().ColumnSizing[c.ID]; ok {
			size = v
		}
	}
	lo, hi := c.Def.MinSize, c.Def.MaxSize
	if lo == 0 {
		lo = DefaultColumnMinSize
	}
	if hi == 0 {
		hi = math.MaxFloat64
	}
	return min(max(size, lo), hi)
}

// GetStart returns the summed width of the visible columns before this one
// in the given pin position.
func (c *Column[T]) GetStart(position ColumnPinningPosition) float64 {
	var start float64
	for _, col := range c.table.visibleLeafColumnsAt(position) {
		if col.ID == c.ID {
			return start
		}
		start += col.GetSize()
	}
	return 0
}

// GetAfter returns the summed width of the visible columns after this one in
// the given pin position.
func (c *Column[T]) GetAfter(position ColumnPinningPosition) float64 {
	cols := c.table.visibleLeafColumnsAt(position)
	i := columnIndex(cols, c.ID)
	if i < 0 {
		return 0
	}
	var after float64
	for _, col := range cols[i+1:] {
		after += col.GetSize()
	}
	return after
}

// GetCanResize reports whether the column's width may change.
func (c *Column[T]) GetCanResize() bool {
	return c.table.has(bitSizing) && !c.Def.DisableResizing && !c.table.options.DisableColumnResizing
}

// SetSize stores a width for the column.
func (c *Column[T]) SetSize(size float64) error {
	if !c.GetCanResize() {
		return nil
	}
	return c.table.SetColumnSizing(func(old map[string]float64) map[string]float64 {
		next := make(map[string]float64, len(old)+1)
		for k, v := range old {
			next[k] = v
		}
		next[c.ID] = size
		return next
	})
}

// ResetSize drops the stored width for the column.
func (c *Column[T]) ResetSize() error {
	return c.table.SetColumnSizing(func(old map[string]float64) map[string]float64 {
		next := make(map[string]float64, len(old))
		for k, v := range old {
			if k != c.ID {
				next[k] = v
			}
		}
		return next
	})
}

// SetColumnSizing updates State.ColumnSizing.
func (t *Table[T]) SetColumnSizing(u Updater[map[string]float64]) error {
	return updateSlice(t, t.options.OnColumnSizingChange, u, func(s *State) *map[string]float64 { return &s.ColumnSizing })
}

// ResetColumnSizing restores the initial widths, or drops every stored width
// when defaultState is set.
func (t *Table[T]) ResetColumnSizing(defaultState bool) error {
	next := t.initialState.ColumnSizing
	if defaultState || next == nil {
		next = map[string]float64{}
	}
	return t.SetColumnSizing(Replace(next))
}

// GetTotalSize returns the width of every visible leaf column.
func (t *Table[T]) GetTotalSize() float64 { return sumSizes(t.GetVisibleLeafColumns()) }

// GetLeftTotalSize returns the width of the left-pinned columns.
func (t *Table[T]) GetLeftTotalSize() float64 { return sumSizes(t.GetLeftLeafColumns()) }

// GetCenterTotalSize returns the width of the unpinned columns.
func (t *Table[T]) GetCenterTotalSize() float64 { return sumSizes(t.GetCenterLeafColumns()) }

// GetRightTotalSize returns the width of the right-pinned columns.
func (t *Table[T]) GetRightTotalSize() float64 { return sumSizes(t.GetRightLeafColumns()) }

func sumSizes[T any](cols []*Column[T]) float64 {
	var sum float64
	for _, c := range cols {
		sum += c.GetSize()
	}
	return sum
}
