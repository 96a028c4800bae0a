package table

// bucket is one distinct grouping value and its rows, in first-seen order.
type bucket[T any] struct {
	value any
	rows  []*Row[T]
}

func (t *Table[T]) buildGroupedRowModel(filtered *RowModel[T], st State) (*RowModel[T], error) {
	const op = "table.groupedRowModel"
	if err := checkRowModel(op, filtered); err != nil {
		return nil, err
	}
	if t.options.ManualGrouping || !t.has(bitGrouping) {
		return filtered, nil
	}

	var grouping []string
	for _, id := range st.Grouping {
		if col := t.GetColumn(id); col != nil {
			grouping = append(grouping, id)
		} else {
			t.warn("grouping references unknown column", "column", id)
		}
	}
	if len(grouping) == 0 {
		return filtered, nil
	}

	var group func(rows []*Row[T], depth int, parentID string) []*Row[T]
	group = func(rows []*Row[T], depth int, parentID string) []*Row[T] {
		if depth >= len(grouping) {
			out := make([]*Row[T], len(rows))
			for i, row := range rows {
				c := row.clone()
				c.Depth = depth
				if parentID != "" {
					c.ParentID = parentID
				}
				if len(row.SubRows) > 0 {
					c.SubRows = group(row.SubRows, depth+1, c.ID)
				}
				out[i] = c
			}
			return out
		}

		columnID := grouping[depth]
		var buckets []*bucket[T]
		index := make(map[any]*bucket[T])
		for _, row := range rows {
			v := row.GetGroupingValue(columnID)
			k := groupKey(v)
			b, ok := index[k]
			if !ok {
				b = &bucket[T]{value: v}
				index[k] = b
				buckets = append(buckets, b)
			}
			b.rows = append(b.rows, row)
		}

		out := make([]*Row[T], len(buckets))
		for i, b := range buckets {
			id := columnID + ":" + formatKey(b.value)
			if parentID != "" {
				id = parentID + ">" + id
			}
			sub := group(b.rows, depth+1, id)

			var leaves []*Row[T]
			if depth+1 >= len(grouping) {
				leaves = sub
			} else {
				for _, s := range sub {
					leaves = append(leaves, s.LeafRows...)
				}
			}

			gr := t.newRow(id, b.rows[0].Original, i, depth, parentID)
			gr.GroupingColumnID = columnID
			gr.GroupingValue = b.value
			gr.SubRows = sub
			gr.LeafRows = leaves
			t.decorateRow(gr)
			out[i] = gr
		}
		return out
	}

	return buildRowModel(group(filtered.Rows, 0, "")), nil
}
