package table

import "time"

type groupingFeature[T any] struct{}

// GroupingFeature groups rows by the columns in State.Grouping and
// aggregates the other columns of each group.
func GroupingFeature[T any]() Feature[T] { return groupingFeature[T]{} }

func (groupingFeature[T]) Name() string     { return FeatureGrouping }
func (groupingFeature[T]) bit() featureBit { return bitGrouping }

func (groupingFeature[T]) InitialState(PartialState) PartialState {
	return PartialState{Grouping: Ptr([]string{})}
}

func (groupingFeature[T]) DefaultOptions(_ *Table[T], o *Options[T]) {
	if o.GroupedColumnMode == "" {
		o.GroupedColumnMode = GroupedColumnsReorder
	}
}

// DecorateColumn rejects aggregation function names that are not registered.
func (groupingFeature[T]) DecorateColumn(t *Table[T], c *Column[T]) error {
	name := c.Def.AggregationFn
	if name == "" || name == Auto {
		return nil
	}
	if _, ok := t.lookupAggregationFn(name); !ok {
		return unknownFn("aggregation", name)
	}
	return nil
}

// GetCanGroup reports whether rows may be grouped by the column.
func (c *Column[T]) GetCanGroup() bool {
	return c.table.has(bitGrouping) && c.accessor != nil &&
		!c.Def.DisableGrouping && !c.table.options.DisableGrouping
}

// GetIsGrouped reports whether the column is in State.Grouping.
func (c *Column[T]) GetIsGrouped() bool {
	return c.table.has(bitGrouping) && indexOf(c.table.GetState().Grouping, c.ID) >= 0
}

// GetGroupedIndex returns the column's position in State.Grouping, or -1.
func (c *Column[T]) GetGroupedIndex() int {
	return indexOf(c.table.GetState().Grouping, c.ID)
}

// ToggleGrouping adds the column to or removes it from State.Grouping.
func (c *Column[T]) ToggleGrouping() error {
	if !c.GetCanGroup() {
		return nil
	}
	return c.table.SetGrouping(func(old []string) []string {
		if indexOf(old, c.ID) >= 0 {
			return without(old, c.ID)
		}
		return append(append([]string{}, old...), c.ID)
	})
}

// GetAutoAggregationFn picks an aggregation from the first core row's
// value: sum for numbers, extent for times.
func (c *Column[T]) GetAutoAggregationFn() (AggregationFn[T], bool) {
	v := c.firstValue()
	if isNumber(v) {
		return c.table.lookupAggregationFn("sum")
	}
	if _, ok := v.(time.Time); ok {
		return c.table.lookupAggregationFn("extent")
	}
	return nil, false
}

// GetAggregationFn returns the column's aggregation function.
func (c *Column[T]) GetAggregationFn() (AggregationFn[T], bool) {
	name := c.Def.AggregationFn
	if name == "" || name == Auto {
		return c.GetAutoAggregationFn()
	}
	return c.table.lookupAggregationFn(name)
}

// SetGrouping updates State.Grouping.
func (t *Table[T]) SetGrouping(u Updater[[]string]) error {
	return updateSlice(t, t.options.OnGroupingChange, u, func(s *State) *[]string { return &s.Grouping })
}

// ResetGrouping restores the initial grouping, or clears it when
// defaultState is set.
func (t *Table[T]) ResetGrouping(defaultState bool) error {
	next := t.initialState.Grouping
	if defaultState || next == nil {
		next = []string{}
	}
	return t.SetGrouping(Replace(next))
}

// GetIsGrouped reports whether the row was synthesized by grouping.
func (r *Row[T]) GetIsGrouped() bool {
	return r.GroupingColumnID != ""
}

// GetGroupingValue returns the value the row is grouped by for a column.
func (r *Row[T]) GetGroupingValue(columnID string) any {
	col := r.table.GetColumn(columnID)
	if col != nil && col.Def.GetGroupingValue != nil && r.GroupingColumnID == "" {
		return col.Def.GetGroupingValue(r.Original)
	}
	return r.GetValue(columnID)
}

// groupedValue computes a group row's value: the shared value for grouping
// columns, the aggregate otherwise.
func (t *Table[T]) groupedValue(r *Row[T], col *Column[T]) any {
	if indexOf(t.GetState().Grouping, col.ID) >= 0 {
		if col.ID == r.GroupingColumnID {
			return r.GroupingValue
		}
		if len(r.LeafRows) > 0 {
			return r.LeafRows[0].GetValue(col.ID)
		}
		return nil
	}
	fn, ok := col.GetAggregationFn()
	if !ok || fn == nil {
		return nil
	}
	return fn(col.ID, r.SubRows, r.LeafRows)
}
