package table

import (
	"reflect"
	"time"
)

type columnFilteringFeature[T any] struct{}

// ColumnFilteringFeature filters rows by per-column predicates held in
// State.ColumnFilters.
func ColumnFilteringFeature[T any]() Feature[T] { return columnFilteringFeature[T]{} }

func (columnFilteringFeature[T]) Name() string     { return FeatureColumnFiltering }
func (columnFilteringFeature[T]) bit() featureBit { return bitColumnFiltering }

func (columnFilteringFeature[T]) InitialState(PartialState) PartialState {
	return PartialState{ColumnFilters: Ptr([]ColumnFilter{})}
}

func (columnFilteringFeature[T]) DefaultOptions(_ *Table[T], o *Options[T]) {
	if o.MaxLeafRowFilterDepth == nil {
		o.MaxLeafRowFilterDepth = Ptr(defaultMaxLeafRowFilterDepth)
	}
}

// DecorateColumn rejects filter function names that are not registered.
func (columnFilteringFeature[T]) DecorateColumn(t *Table[T], c *Column[T]) error {
	name := c.Def.FilterFn
	if name == "" || name == Auto {
		return nil
	}
	if _, ok := t.lookupFilterFn(name); !ok {
		return unknownFn("filter", name)
	}
	return nil
}

// GetAutoFilterFn picks a filter function from the first core row's value.
func (c *Column[T]) GetAutoFilterFn() (FilterFn[T], bool) {
	name := "weakEquals"
	switch v := c.firstValue(); {
	case v == nil:
	case isString(v):
		name = "includesString"
	case isNumber(v):
		name = "inNumberRange"
	case isBool(v):
		name = "equals"
	case isSlice(v):
		name = "arrIncludes"
	case isTime(v):
		name = "equals"
	}
	return c.table.lookupFilterFn(name)
}

// GetFilterFn returns the column's filter function.
func (c *Column[T]) GetFilterFn() (FilterFn[T], bool) {
	name := c.Def.FilterFn
	if name == "" || name == Auto {
		return c.GetAutoFilterFn()
	}
	return c.table.lookupFilterFn(name)
}

// GetCanFilter reports whether the column accepts a column filter.
func (c *Column[T]) GetCanFilter() bool {
	o := &c.table.options
	return c.table.has(bitColumnFiltering) && c.accessor != nil &&
		!c.Def.DisableColumnFilter && !o.DisableColumnFilters && !o.DisableFilters
}

// GetIsFiltered reports whether a filter is set for the column.
func (c *Column[T]) GetIsFiltered() bool {
	return c.GetFilterIndex() >= 0
}

// GetFilterIndex returns the position of the column's filter, or -1.
func (c *Column[T]) GetFilterIndex() int {
	for i, f := range c.table.GetState().ColumnFilters {
		if f.ID == c.ID {
			return i
		}
	}
	return -1
}

// GetFilterValue returns the column's filter value, or nil.
func (c *Column[T]) GetFilterValue() any {
	if i := c.GetFilterIndex(); i >= 0 {
		return c.table.GetState().ColumnFilters[i].Value
	}
	return nil
}

// SetFilterValue sets or replaces the column's filter. Values the filter
// function auto-removes, nil and "" remove the filter.
func (c *Column[T]) SetFilterValue(value any) error {
	fn, _ := c.GetFilterFn()
	remove := isBlank(value) || (fn.AutoRemove != nil && fn.AutoRemove(value))

	return c.table.SetColumnFilters(func(old []ColumnFilter) []ColumnFilter {
		next := make([]ColumnFilter, 0, len(old)+1)
		replaced := false
		for _, f := range old {
			if f.ID != c.ID {
				next = append(next, f)
				continue
			}
			if !remove {
				next = append(next, ColumnFilter{ID: c.ID, Value: value})
			}
			replaced = true
		}
		if !replaced && !remove {
			next = append(next, ColumnFilter{ID: c.ID, Value: value})
		}
		return next
	})
}

// SetColumnFilters updates State.ColumnFilters. Filters whose value the
// column's filter function auto-removes are dropped.
func (t *Table[T]) SetColumnFilters(u Updater[[]ColumnFilter]) error {
	pruned := func(old []ColumnFilter) []ColumnFilter {
		next := u(old)
		out := make([]ColumnFilter, 0, len(next))
		for _, f := range next {
			if col := t.GetColumn(f.ID); col != nil {
				if fn, ok := col.GetFilterFn(); ok && fn.AutoRemove != nil && fn.AutoRemove(f.Value) {
					continue
				}
			}
			out = append(out, f)
		}
		return out
	}
	return updateSlice(t, t.options.OnColumnFiltersChange, pruned, func(s *State) *[]ColumnFilter { return &s.ColumnFilters })
}

// ResetColumnFilters restores the initial filters, or clears them when
// defaultState is set.
func (t *Table[T]) ResetColumnFilters(defaultState bool) error {
	next := t.initialState.ColumnFilters
	if defaultState || next == nil {
		next = []ColumnFilter{}
	}
	return t.SetColumnFilters(Replace(next))
}

// firstValue returns the column's value in the first core row.
func (c *Column[T]) firstValue() any {
	core := c.table.GetCoreRowModel()
	if core == nil || len(core.FlatRows) == 0 {
		return nil
	}
	return core.FlatRows[0].GetValue(c.ID)
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isTime(v any) bool {
	_, ok := v.(time.Time)
	return ok
}

func isSlice(v any) bool {
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
