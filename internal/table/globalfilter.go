package table

type globalFilteringFeature[T any] struct{}

// GlobalFilteringFeature filters rows by one value matched against every
// globally filterable column. It requires the column filtering feature.
func GlobalFilteringFeature[T any]() Feature[T] { return globalFilteringFeature[T]{} }

func (globalFilteringFeature[T]) Name() string       { return FeatureGlobalFiltering }
func (globalFilteringFeature[T]) bit() featureBit   { return bitGlobalFiltering }
func (globalFilteringFeature[T]) Requires() []string { return []string{FeatureColumnFiltering} }

func (globalFilteringFeature[T]) InitialState(PartialState) PartialState {
	var none any
	return PartialState{GlobalFilter: &none}
}

func (globalFilteringFeature[T]) DefaultOptions(_ *Table[T], o *Options[T]) {
	if o.GlobalFilterFn == "" {
		o.GlobalFilterFn = Auto
	}
}

// DecorateTable rejects an unknown global filter function.
func (globalFilteringFeature[T]) DecorateTable(t *Table[T]) error {
	name := t.options.GlobalFilterFn
	if name == "" || name == Auto {
		return nil
	}
	if _, ok := t.lookupFilterFn(name); !ok {
		return unknownFn("global filter", name)
	}
	return nil
}

// GetGlobalFilterFn returns the global filter function. "auto" selects
// includesString.
func (t *Table[T]) GetGlobalFilterFn() (FilterFn[T], bool) {
	name := t.options.GlobalFilterFn
	if name == "" || name == Auto {
		name = "includesString"
	}
	return t.lookupFilterFn(name)
}

// GetCanGlobalFilter reports whether the global filter searches this
// column. By default only columns whose first value is a string or number
// take part.
func (c *Column[T]) GetCanGlobalFilter() bool {
	o := &c.table.options
	if !c.table.has(bitGlobalFiltering) || c.accessor == nil ||
		c.Def.DisableGlobalFilter || o.DisableGlobalFilter || o.DisableFilters {
		return false
	}
	if o.GetColumnCanGlobalFilter != nil {
		return o.GetColumnCanGlobalFilter(c)
	}
	v := c.firstValue()
	return isString(v) || isNumber(v)
}

// SetGlobalFilter updates State.GlobalFilter.
func (t *Table[T]) SetGlobalFilter(u Updater[any]) error {
	return updateSlice(t, t.options.OnGlobalFilterChange, u, func(s *State) *any { return &s.GlobalFilter })
}

// ResetGlobalFilter restores the initial global filter, or clears it when
// defaultState is set.
func (t *Table[T]) ResetGlobalFilter(defaultState bool) error {
	next := t.initialState.GlobalFilter
	if defaultState {
		next = nil
	}
	return t.SetGlobalFilter(Replace(next))
}
