package table

// buildCoreRowModel wraps Options.Data and, through Options.GetSubRows, every
// nested record into rows. Row ids come from Options.GetRowID, defaulting to
// the index path ("0", "0.1", ...). Duplicate ids are a configuration error.
func (t *Table[T]) buildCoreRowModel(cols *columnSet[T]) (*RowModel[T], error) {
	const op = "table.coreRowModel"
	o := &t.options
	seen := make(map[string]bool, len(o.Data))

	var access func(data []T, depth int, parent *Row[T]) ([]*Row[T], error)
	access = func(data []T, depth int, parent *Row[T]) ([]*Row[T], error) {
		rows := make([]*Row[T], 0, len(data))
		for i, original := range data {
			id := defaultRowID(i, parent)
			if o.GetRowID != nil {
				id = o.GetRowID(original, i, parent)
			}
			if id == "" {
				return nil, configError(op, "row %d at depth %d has an empty id", i, depth)
			}
			if seen[id] {
				return nil, configError(op, "duplicate row id %q", id)
			}
			seen[id] = true

			parentID := ""
			if parent != nil {
				parentID = parent.ID
			}
			row := t.newRow(id, original, i, depth, parentID)
			if o.GetSubRows != nil {
				row.OriginalSubRows = o.GetSubRows(original, i)
				if len(row.OriginalSubRows) > 0 {
					subs, err := access(row.OriginalSubRows, depth+1, row)
					if err != nil {
						return nil, err
					}
					row.SubRows = subs
				}
			}
			t.decorateRow(row)
			rows = append(rows, row)
		}
		return rows, nil
	}

	rows, err := access(o.Data, 0, nil)
	if err != nil {
		return nil, err
	}
	if t.options.Debug {
		t.logger().Debug("core row model built", "rows", len(rows), "columns", len(cols.leaves))
	}
	return buildRowModel(rows), nil
}

func defaultRowID[T any](index int, parent *Row[T]) string {
	if parent == nil {
		return itoa(index)
	}
	return parent.ID + "." + itoa(index)
}
