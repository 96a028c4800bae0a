package table

import (
	"strings"
)

// Header is one cell of a header row. Placeholder headers fill the rows
// above a shallow leaf so every header row spans the same leaves.
type Header[T any] struct {
	Decorations

	ID            string
	Index         int
	Depth         int
	Column        *Column[T]
	IsPlaceholder bool
	PlaceholderID string
	SubHeaders    []*Header[T]
	// ColSpan is the number of visible leaf columns under the header.
	// RowSpan is the number of header rows the header covers downward. The
	// topmost placeholder of a shallow leaf spans to the bottom row and the
	// headers it covers have RowSpan 0.
	ColSpan     int
	RowSpan     int
	HeaderGroup *HeaderGroup[T]

	parent *Header[T]
	table  *Table[T]
}

// HeaderGroup is one header row.
type HeaderGroup[T any] struct {
	ID      string
	Depth   int
	Headers []*Header[T]
}

// headerSet holds the header rows of every pinning family.
type headerSet[T any] struct {
	all, left, center, right []*HeaderGroup[T]
}

func (t *Table[T]) headers() *headerSet[T] {
	st := t.GetState()
	deps := []any{t.columnsMemo.value, st.ColumnVisibility, st.ColumnOrder, st.ColumnPinning.Left,
		st.ColumnPinning.Right, st.Grouping, t.options.GroupedColumnMode}
	hs, _, _ := t.headersMemo.get(t.logger(), t.options.Debug, deps, func() (*headerSet[T], error) {
		tree := t.GetAllColumns()
		left, center, right := t.pinnedLeaves(t.GetVisibleLeafColumns())
		return &headerSet[T]{
			all:    t.buildHeaderGroups(tree, t.GetVisibleLeafColumns(), ""),
			left:   t.buildHeaderGroups(tree, left, "left"),
			center: t.buildHeaderGroups(tree, center, "center"),
			right:  t.buildHeaderGroups(tree, right, "right"),
		}, nil
	})
	return hs
}

func (t *Table[T]) newHeader(col *Column[T], id string, depth, index int) *Header[T] {
	if id == "" {
		id = col.ID
	}
	return &Header[T]{ID: id, Index: index, Depth: depth, Column: col, table: t}
}

// buildHeaderGroups builds header rows bottom-up from the given leaves.
// Every row holds one header per distinct ancestor of the row below; a
// leaf that is shallower than the row gets a placeholder for itself.
func (t *Table[T]) buildHeaderGroups(tree, leaves []*Column[T], family string) []*HeaderGroup[T] {
	maxDepth := 0
	var findMaxDepth func(cols []*Column[T], depth int)
	findMaxDepth = func(cols []*Column[T], depth int) {
		maxDepth = max(maxDepth, depth)
		for _, c := range cols {
			if c.GetIsVisible() && len(c.Columns) > 0 {
				findMaxDepth(c.Columns, depth+1)
			}
		}
	}
	findMaxDepth(tree, 1)

	var groups []*HeaderGroup[T]

	var group func(below []*Header[T], depth int)
	group = func(below []*Header[T], depth int) {
		hg := &HeaderGroup[T]{ID: joinID(family, itoa(depth)), Depth: depth}
		var pending []*Header[T]
		for _, h := range below {
			col, placeholder := h.Column, true
			if h.Column.Depth == depth && h.Column.Parent != nil {
				col, placeholder = h.Column.Parent, false
			}

			var last *Header[T]
			if len(pending) > 0 {
				last = pending[len(pending)-1]
			}
			if last != nil && last.Column == col {
				last.SubHeaders = append(last.SubHeaders, h)
				h.parent = last
			} else {
				p := t.newHeader(col, joinID(family, itoa(depth), col.ID, h.ID), depth, len(pending))
				p.IsPlaceholder = placeholder
				if placeholder {
					n := 0
					for _, q := range pending {
						if q.Column == col {
							n++
						}
					}
					p.PlaceholderID = itoa(n)
				}
				p.SubHeaders = append(p.SubHeaders, h)
				h.parent = p
				pending = append(pending, p)
			}
			hg.Headers = append(hg.Headers, h)
			h.HeaderGroup = hg
		}
		groups = append(groups, hg)
		if depth > 0 {
			group(pending, depth-1)
		}
	}

	bottom := make([]*Header[T], len(leaves))
	for i, c := range leaves {
		bottom[i] = t.newHeader(c, "", maxDepth, i)
	}
	group(bottom, maxDepth-1)

	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	if len(groups) == 0 {
		return groups
	}
	for _, h := range groups[0].Headers {
		h.parent = nil
		h.spans()
	}
	for _, g := range groups {
		for _, h := range g.Headers {
			h.Depth = g.Depth
			h.RowSpan = h.rowSpan()
			for _, d := range t.registry.headers {
				d.DecorateHeader(t, h)
			}
		}
	}
	return groups
}

// rowSpan returns 0 for a header continuing the placeholder above it,
// otherwise the number of rows down to the end of its chain.
func (h *Header[T]) rowSpan() int {
	if h.parent != nil && h.parent.IsPlaceholder && h.parent.Column == h.Column {
		return 0
	}
	n := 1
	for c := h; c.IsPlaceholder && len(c.SubHeaders) == 1 && c.SubHeaders[0].Column == c.Column; c = c.SubHeaders[0] {
		n++
	}
	return n
}

// spans computes ColSpan bottom-up.
func (h *Header[T]) spans() int {
	if len(h.SubHeaders) == 0 {
		h.ColSpan = 1
		return 1
	}
	n := 0
	for _, s := range h.SubHeaders {
		n += s.spans()
	}
	h.ColSpan = n
	return n
}

func joinID(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "_")
}

// GetLeafHeaders returns the bottom-row headers under h in order.
func (h *Header[T]) GetLeafHeaders() []*Header[T] {
	if len(h.SubHeaders) == 0 {
		return []*Header[T]{h}
	}
	var out []*Header[T]
	for _, s := range h.SubHeaders {
		out = append(out, s.GetLeafHeaders()...)
	}
	return out
}

// GetSize returns the summed width of the leaf headers under h.
func (h *Header[T]) GetSize() float64 {
	if len(h.SubHeaders) == 0 {
		return h.Column.GetSize()
	}
	var sum float64
	for _, s := range h.SubHeaders {
		sum += s.GetSize()
	}
	return sum
}

// GetStart returns the summed width of the headers before h in its row.
func (h *Header[T]) GetStart() float64 {
	if h.HeaderGroup == nil {
		return 0
	}
	var start float64
	for _, o := range h.HeaderGroup.Headers {
		if o == h {
			break
		}
		start += o.GetSize()
	}
	return start
}

// GetHeaderGroups returns the header rows, top row first.
func (t *Table[T]) GetHeaderGroups() []*HeaderGroup[T] { return t.headers().all }

// GetLeftHeaderGroups returns the header rows of the left-pinned columns.
func (t *Table[T]) GetLeftHeaderGroups() []*HeaderGroup[T] { return t.headers().left }

// GetCenterHeaderGroups returns the header rows of the unpinned columns.
func (t *Table[T]) GetCenterHeaderGroups() []*HeaderGroup[T] { return t.headers().center }

// GetRightHeaderGroups returns the header rows of the right-pinned columns.
func (t *Table[T]) GetRightHeaderGroups() []*HeaderGroup[T] { return t.headers().right }

// GetFooterGroups returns the header rows bottom row first.
func (t *Table[T]) GetFooterGroups() []*HeaderGroup[T] {
	groups := t.GetHeaderGroups()
	out := make([]*HeaderGroup[T], len(groups))
	for i, g := range groups {
		out[len(groups)-1-i] = g
	}
	return out
}

// GetFlatHeaders returns every header of every row, top row first.
func (t *Table[T]) GetFlatHeaders() []*Header[T] {
	var out []*Header[T]
	for _, g := range t.GetHeaderGroups() {
		out = append(out, g.Headers...)
	}
	return out
}

// GetLeafHeaders returns the bottom header row.
func (t *Table[T]) GetLeafHeaders() []*Header[T] {
	groups := t.GetHeaderGroups()
	if len(groups) == 0 {
		return nil
	}
	return groups[len(groups)-1].Headers
}
