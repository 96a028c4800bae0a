package table

// RowModel is one pipeline stage's output.
type RowModel[T any] struct {
	// Rows are the top-level rows in order.
	Rows []*Row[T]
	// FlatRows is the pre-order traversal of Rows and their SubRows.
	FlatRows []*Row[T]
	// RowsByID indexes exactly the rows in FlatRows.
	RowsByID map[string]*Row[T]
}

func (m *RowModel[T]) rowCount() int {
	if m == nil {
		return 0
	}
	return len(m.Rows)
}

func (m *RowModel[T]) flatRowCount() int {
	if m == nil {
		return 0
	}
	return len(m.FlatRows)
}

// buildRowModel derives FlatRows and RowsByID from rows.
func buildRowModel[T any](rows []*Row[T]) *RowModel[T] {
	m := &RowModel[T]{
		Rows:     rows,
		RowsByID: make(map[string]*Row[T]),
	}
	var walk func([]*Row[T])
	walk = func(rs []*Row[T]) {
		for _, r := range rs {
			m.FlatRows = append(m.FlatRows, r)
			m.RowsByID[r.ID] = r
			if len(r.SubRows) > 0 {
				walk(r.SubRows)
			}
		}
	}
	walk(rows)
	return m
}

// checkRowModel verifies that FlatRows is the pre-order traversal of Rows
// and that RowsByID holds exactly those rows. Stages call it on their input.
func checkRowModel[T any](op string, m *RowModel[T]) error {
	if m == nil {
		return invariantError(op, "row model is nil")
	}
	i := 0
	var walk func([]*Row[T]) error
	walk = func(rs []*Row[T]) error {
		for _, r := range rs {
			if i >= len(m.FlatRows) || m.FlatRows[i] != r {
				return invariantError(op, "flat rows diverge from pre-order traversal at position %d (row %q)", i, r.ID)
			}
			if m.RowsByID[r.ID] != r {
				return invariantError(op, "rowsById does not map %q to its row", r.ID)
			}
			i++
			if err := walk(r.SubRows); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(m.Rows); err != nil {
		return err
	}
	if i != len(m.FlatRows) {
		return invariantError(op, "flat rows has %d extra rows", len(m.FlatRows)-i)
	}
	if len(m.RowsByID) != len(m.FlatRows) {
		return invariantError(op, "rowsById has %d entries for %d flat rows", len(m.RowsByID), len(m.FlatRows))
	}
	return nil
}

// flattenRows returns the pre-order traversal of rows.
func flattenRows[T any](rows []*Row[T]) []*Row[T] {
	var out []*Row[T]
	var walk func([]*Row[T])
	walk = func(rs []*Row[T]) {
		for _, r := range rs {
			out = append(out, r)
			walk(r.SubRows)
		}
	}
	walk(rows)
	return out
}
