package table

func (t *Table[T]) buildExpandedRowModel(sorted *RowModel[T], st State) (*RowModel[T], error) {
	const op = "table.expandedRowModel"
	if err := checkRowModel(op, sorted); err != nil {
		return nil, err
	}
	o := &t.options
	if o.ManualExpanding || !t.has(bitExpanding) || !o.paginateExpandedRows() {
		return sorted, nil
	}
	if st.Expanded.IsEmpty() && o.GetIsRowExpanded == nil {
		return sorted, nil
	}
	return buildRowModel(t.expandRows(sorted.Rows)), nil
}

// expandRows flattens rows into display order, descending into a row's sub
// rows only when it is expanded. Every emitted row is a clone without sub
// rows, so the result is a flat row model.
func (t *Table[T]) expandRows(rows []*Row[T]) []*Row[T] {
	var out []*Row[T]
	var visit func(*Row[T])
	visit = func(row *Row[T]) {
		d := row.clone()
		d.SubRows = nil
		d.flattened = true
		out = append(out, d)
		if len(row.SubRows) > 0 && row.GetIsExpanded() {
			for _, sub := range row.SubRows {
				visit(sub)
			}
		}
	}
	for _, row := range rows {
		visit(row)
	}
	return out
}
