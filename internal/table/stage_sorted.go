package table

import "slices"

// sortSpec is one applicable sort descriptor with its column settings.
type sortSpec[T any] struct {
	id        string
	desc      bool
	invert    bool
	undefined UndefinedOrder
	fn        SortingFn[T]
}

func (t *Table[T]) buildSortedRowModel(grouped *RowModel[T], st State) (*RowModel[T], error) {
	const op = "table.sortedRowModel"
	if err := checkRowModel(op, grouped); err != nil {
		return nil, err
	}
	if t.options.ManualSorting || !t.has(bitSorting) || len(st.Sorting) == 0 {
		return grouped, nil
	}

	var specs []sortSpec[T]
	for _, s := range st.Sorting {
		col := t.GetColumn(s.ID)
		if col == nil {
			t.warn("sorting references unknown column", "column", s.ID)
			continue
		}
		if !col.GetCanSort() {
			t.warn("sorting references a column that cannot sort", "column", s.ID)
			continue
		}
		fn, ok := col.GetSortingFn()
		if !ok || fn == nil {
			t.warn("no sorting function for column", "column", s.ID)
			continue
		}
		specs = append(specs, sortSpec[T]{
			id:        s.ID,
			desc:      s.Desc,
			invert:    col.Def.InvertSorting,
			undefined: col.Def.SortUndefined,
			fn:        fn,
		})
	}
	if len(specs) == 0 {
		return grouped, nil
	}

	var sortRows func(rows []*Row[T]) []*Row[T]
	sortRows = func(rows []*Row[T]) []*Row[T] {
		out := make([]*Row[T], len(rows))
		for i, row := range rows {
			c := row.clone()
			if len(row.SubRows) > 0 {
				c.SubRows = sortRows(row.SubRows)
			}
			out[i] = c
		}
		slices.SortStableFunc(out, func(a, b *Row[T]) int {
			return compareRows(a, b, specs)
		})
		return out
	}

	return buildRowModel(sortRows(grouped.Rows)), nil
}

// compareRows applies each sort entry in priority order. Ties fall through to the
// next entry; a full tie returns 0 so the stable sort keeps input order.
func compareRows[T any](a, b *Row[T], specs []sortSpec[T]) int {
	for _, s := range specs {
		n := 0
		if s.undefined != UndefinedUnordered {
			an, bn := a.GetValue(s.id) == nil, b.GetValue(s.id) == nil
			if an || bn {
				if an && bn {
					continue
				}
				switch s.undefined {
				case UndefinedFirst:
					if an {
						return -1
					}
					return 1
				case UndefinedLast:
					if an {
						return 1
					}
					return -1
				case UndefinedBefore:
					n = 1
					if an {
						n = -1
					}
				default:
					n = -1
					if an {
						n = 1
					}
				}
			}
		}
		if n == 0 {
			n = s.fn(a, b, s.id)
		}
		if n != 0 {
			if s.desc {
				n = -n
			}
			if s.invert {
				n = -n
			}
			return n
		}
	}
	return 0
}
