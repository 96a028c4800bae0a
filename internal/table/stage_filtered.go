package table

// resolvedFilter is a column filter ready to evaluate.
type resolvedFilter[T any] struct {
	id    string
	fn    FilterFn[T]
	value any
}

// filterResult is the per-row outcome of the filters, computed once per
// core row.
type filterResult struct {
	columns map[string]bool
	meta    map[string]any
	pass    bool
}

func (t *Table[T]) buildFilteredRowModel(core *RowModel[T], st State) (*RowModel[T], error) {
	const op = "table.filteredRowModel"
	if err := checkRowModel(op, core); err != nil {
		return nil, err
	}
	if t.options.ManualFiltering || !t.has(bitColumnFiltering) {
		return core, nil
	}

	var filters []resolvedFilter[T]
	for _, f := range st.ColumnFilters {
		col := t.GetColumn(f.ID)
		if col == nil {
			t.warn("filter references unknown column", "column", f.ID)
			continue
		}
		if !col.GetCanFilter() {
			continue
		}
		fn, ok := col.GetFilterFn()
		if !ok || fn.Fn == nil {
			t.warn("no filter function for column", "column", f.ID)
			continue
		}
		value := f.Value
		if fn.ResolveFilterValue != nil {
			value = fn.ResolveFilterValue(value)
		}
		filters = append(filters, resolvedFilter[T]{id: f.ID, fn: fn, value: value})
	}

	var global []resolvedFilter[T]
	if t.has(bitGlobalFiltering) && !isBlank(st.GlobalFilter) {
		fn, ok := t.GetGlobalFilterFn()
		if !ok || fn.Fn == nil {
			return nil, configError(op, "unknown global filter function %q", t.options.GlobalFilterFn)
		}
		value := st.GlobalFilter
		if fn.ResolveFilterValue != nil {
			value = fn.ResolveFilterValue(value)
		}
		for _, col := range t.GetAllLeafColumns() {
			if col.GetCanGlobalFilter() {
				global = append(global, resolvedFilter[T]{id: col.ID, fn: fn, value: value})
			}
		}
	}

	if len(filters) == 0 && len(global) == 0 {
		return core, nil
	}

	results := make(map[*Row[T]]*filterResult, len(core.FlatRows))
	for _, row := range core.FlatRows {
		res := &filterResult{columns: make(map[string]bool), pass: true}
		for _, f := range filters {
			id := f.id
			addMeta := func(m any) {
				if res.meta == nil {
					res.meta = make(map[string]any)
				}
				res.meta[id] = m
			}
			ok := f.fn.Fn(row, id, f.value, addMeta)
			res.columns[id] = ok
			if !ok {
				res.pass = false
			}
		}
		if len(global) > 0 {
			matched := false
			for _, f := range global {
				if f.fn.Fn(row, f.id, f.value, func(any) {}) {
					matched = true
					break
				}
			}
			res.columns[globalFilterKey] = matched
			if !matched {
				res.pass = false
			}
		}
		results[row] = res
	}

	keep := func(row *Row[T]) bool {
		res, ok := results[row]
		return ok && res.pass
	}
	annotate := func(clone, from *Row[T]) {
		if res, ok := results[from]; ok {
			clone.ColumnFilters = res.columns
			clone.ColumnFiltersMeta = res.meta
		}
	}

	if t.options.FilterFromLeafRows {
		return filterFromLeafRows(core.Rows, keep, annotate, t.options.maxLeafRowFilterDepth()), nil
	}
	return filterFromRootRows(core.Rows, keep, annotate, t.options.maxLeafRowFilterDepth()), nil
}

// globalFilterKey is the Row.ColumnFilters key recording the global filter
// outcome.
const globalFilterKey = "__global__"

// filterFromRootRows keeps a row when it passes, then filters its children.
// Children of a failing row are never kept. Below maxDepth sub rows are kept
// unfiltered.
func filterFromRootRows[T any](rows []*Row[T], keep func(*Row[T]) bool, annotate func(clone, from *Row[T]), maxDepth int) *RowModel[T] {
	var walk func(rows []*Row[T], depth int) []*Row[T]
	walk = func(rows []*Row[T], depth int) []*Row[T] {
		var out []*Row[T]
		for _, row := range rows {
			if !keep(row) {
				continue
			}
			c := row.clone()
			annotate(c, row)
			if len(row.SubRows) > 0 && depth < maxDepth {
				c.SubRows = walk(row.SubRows, depth+1)
			}
			out = append(out, c)
		}
		return out
	}
	return buildRowModel(walk(rows, 0))
}

// filterFromLeafRows filters children first and keeps a row when it passes
// or when any of its children were kept. Below maxDepth sub rows are
// dropped.
func filterFromLeafRows[T any](rows []*Row[T], keep func(*Row[T]) bool, annotate func(clone, from *Row[T]), maxDepth int) *RowModel[T] {
	var walk func(rows []*Row[T], depth int) []*Row[T]
	walk = func(rows []*Row[T], depth int) []*Row[T] {
		var out []*Row[T]
		for _, row := range rows {
			c := row.clone()
			c.SubRows = nil
			annotate(c, row)
			if len(row.SubRows) > 0 && depth < maxDepth {
				c.SubRows = walk(row.SubRows, depth+1)
				if keep(row) || len(c.SubRows) > 0 {
					out = append(out, c)
				}
				continue
			}
			if keep(row) {
				out = append(out, c)
			}
		}
		return out
	}
	return buildRowModel(walk(rows, 0))
}
