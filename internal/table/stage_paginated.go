package table

func (t *Table[T]) buildPaginatedRowModel(expanded *RowModel[T], st State) (*RowModel[T], error) {
	const op = "table.paginatedRowModel"
	if err := checkRowModel(op, expanded); err != nil {
		return nil, err
	}
	if t.options.ManualPagination || !t.has(bitPagination) {
		return expanded, nil
	}

	rows := pageOf(expanded.Rows, st.Pagination.PageIndex, st.Pagination.PageSize)
	if !t.options.paginateExpandedRows() && t.has(bitExpanding) && !t.options.ManualExpanding {
		rows = t.expandRows(rows)
	}
	return buildRowModel(rows), nil
}

// pageOf returns rows [index*size, index*size+size) clamped to len(rows).
func pageOf[T any](rows []*Row[T], index, size int) []*Row[T] {
	if size <= 0 || index < 0 {
		return []*Row[T]{}
	}
	start := index * size
	if start >= len(rows) {
		return []*Row[T]{}
	}
	end := min(start+size, len(rows))
	return rows[start:end:end]
}
