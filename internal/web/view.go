package web

import (
	"math"
	"net/url"

	"github.com/JonMunkholm/tablekit/internal/catalog"
	"github.com/JonMunkholm/tablekit/internal/export"
	"github.com/JonMunkholm/tablekit/internal/source"
	"github.com/JonMunkholm/tablekit/internal/table"
	"github.com/JonMunkholm/tablekit/internal/web/views"
)

// buildView renders the table's current row model into the view model. Link
// fields are filled when links is set.
func buildView(inst *catalog.Instance, tbl *table.Table[source.Record], q *viewQuery, links bool) views.Table {
	st := tbl.GetState()
	v := views.Table{
		Dataset:  inst.Info,
		Instance: inst.ID.String(),
		State:    st,
	}

	for _, g := range tbl.GetHeaderGroups() {
		hg := views.HeaderGroup{ID: g.ID, Depth: g.Depth, Headers: make([]views.Header, 0, len(g.Headers))}
		for _, h := range g.Headers {
			hg.Headers = append(hg.Headers, headerView(h, q, links))
		}
		v.HeaderGroups = append(v.HeaderGroups, hg)
	}

	for _, r := range tbl.GetRowModel().Rows {
		v.Rows = append(v.Rows, rowView(r, q, links))
	}

	p := st.Pagination
	v.Page = views.Page{
		Index:       p.PageIndex,
		Size:        p.PageSize,
		Count:       tbl.GetPageCount(),
		RowCount:    tbl.GetRowCount(),
		CanPrevious: tbl.GetCanPreviousPage(),
		CanNext:     tbl.GetCanNextPage(),
	}

	if links {
		v.Query = q.encode(nil)
		if v.Page.CanPrevious {
			v.Page.PreviousHref = q.encode(func(c *viewQuery) { c.page = p.PageIndex - 1 })
		}
		if v.Page.CanNext {
			v.Page.NextHref = q.encode(func(c *viewQuery) { c.page = p.PageIndex + 1 })
		}
		v.ExportLinks = make(map[string]string)
		for _, f := range export.Formats() {
			v.ExportLinks[f] = "/api/tables/" + url.PathEscape(inst.Info.Key) + "/export?" +
				q.encode(func(c *viewQuery) { c.page = 0 }) + "&format=" + f
		}
	}
	return v
}

func headerView(h *table.Header[source.Record], q *viewQuery, links bool) views.Header {
	col := h.Column
	hv := views.Header{
		ID:          h.ID,
		ColumnID:    col.ID,
		ColSpan:     h.ColSpan,
		RowSpan:     h.RowSpan,
		Placeholder: h.IsPlaceholder,
		Leaf:        len(h.SubHeaders) == 0 && !h.IsPlaceholder,
		Pinned:      string(col.GetIsPinned()),
	}
	// A placeholder that spans down to the leaf row stands in for the leaf.
	if h.IsPlaceholder && h.RowSpan == 0 {
		return hv
	}
	hv.Label = col.HeaderText()
	if len(col.Columns) == 0 {
		hv.CanSort = col.GetCanSort()
		hv.Sorted = string(col.GetIsSorted())
		hv.Grouped = col.GetIsGrouped()
		if links && hv.CanSort {
			hv.SortHref = q.encode(q.toggleSort(col.ID))
		}
	}
	return hv
}

func rowView(r *table.Row[source.Record], q *viewQuery, links bool) views.Row {
	rv := views.Row{
		ID:          r.ID,
		ParentID:    r.ParentID,
		Depth:       r.Depth,
		Grouped:     r.GetIsGrouped(),
		GroupColumn: r.GroupingColumnID,
		GroupValue:  jsonValue(r.GroupingValue),
		Descendants: len(r.GetLeafRows()),
		LeafRows:    len(r.LeafRows),
		CanExpand:   r.GetCanExpand(),
		Expanded:    r.GetIsExpanded(),
	}
	if links && rv.CanExpand && !q.expandAll {
		rv.ExpandHref = q.encode(q.toggleExpanded(r.ID))
	}

	cells := r.GetVisibleCells()
	rv.Cells = make([]views.Cell, 0, len(cells))
	for _, c := range cells {
		val := jsonValue(c.GetValue())
		rv.Cells = append(rv.Cells, views.Cell{
			ColumnID:    c.Column.ID,
			Value:       val,
			Text:        export.FormatValue(val),
			Grouped:     c.GetIsGrouped(),
			Aggregated:  c.GetIsAggregated(),
			Placeholder: c.GetIsPlaceholder(),
		})
	}
	return rv
}

// jsonValue replaces values encoding/json rejects.
func jsonValue(v any) any {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			return nil
		}
	case [2]float64:
		return []any{jsonValue(n[0]), jsonValue(n[1])}
	}
	return v
}
