package web

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/tablekit/internal/source"
	"github.com/JonMunkholm/tablekit/internal/table"
)

// errBadRequest marks errors caused by the request itself.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// Limits bound what a view query may ask for.
type Limits struct {
	PageSize    int
	MaxPageSize int
}

// viewQuery is the table view a request asks for. Every slice it carries is
// applied as host-controlled state, so requests never see each other's view.
//
//	page=2&size=50
//	sort=dept,salary&dir=asc,desc
//	filter[dept]=eng  filter[salary]=1000..5000
//	q=ada  group=dept  expand=all|id,id  hide=a,b
//	order=c,a,b  left=a  right=c
type viewQuery struct {
	page, size int
	sorting    []table.ColumnSort
	filters    []rawFilter
	global     string
	grouping   []string
	expandAll  bool
	expanded   []string
	hidden     []string
	order      []string
	left       []string
	right      []string
}

type rawFilter struct {
	id, value string
}

// parseViewQuery validates the query string syntax. Column ids are checked
// later against the table.
func parseViewQuery(v url.Values, lim Limits) (*viewQuery, error) {
	q := &viewQuery{size: lim.PageSize}

	if s := v.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, badRequest("page %q must be a non-negative integer", s)
		}
		q.page = n
	}
	if s := v.Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, badRequest("size %q must be a positive integer", s)
		}
		q.size = min(n, lim.MaxPageSize)
	}

	dirs := splitList(v.Get("dir"))
	for i, id := range splitList(v.Get("sort")) {
		desc := false
		if i < len(dirs) {
			switch strings.ToLower(dirs[i]) {
			case "asc":
			case "desc":
				desc = true
			default:
				return nil, badRequest("dir %q must be asc or desc", dirs[i])
			}
		}
		q.sorting = append(q.sorting, table.ColumnSort{ID: id, Desc: desc})
	}

	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !strings.HasPrefix(k, "filter[") || !strings.HasSuffix(k, "]") {
			continue
		}
		id := k[len("filter[") : len(k)-1]
		if id == "" {
			return nil, badRequest("filter needs a column id")
		}
		if val := v.Get(k); val != "" {
			q.filters = append(q.filters, rawFilter{id: id, value: val})
		}
	}

	q.global = strings.TrimSpace(v.Get("q"))
	q.grouping = splitList(v.Get("group"))
	if exp := v.Get("expand"); exp == "all" {
		q.expandAll = true
	} else {
		q.expanded = splitList(exp)
	}
	q.hidden = splitList(v.Get("hide"))
	q.order = splitList(v.Get("order"))
	q.left = splitList(v.Get("left"))
	q.right = splitList(v.Get("right"))
	return q, nil
}

// state resolves q against tbl's columns into host-controlled state.
func (q *viewQuery) state(tbl *table.Table[source.Record]) (table.PartialState, error) {
	check := func(param string, ids []string) error {
		for _, id := range ids {
			if tbl.GetColumn(id) == nil {
				return badRequest("%s: unknown column %q", param, id)
			}
		}
		return nil
	}
	for _, c := range []struct {
		param string
		ids   []string
	}{
		{"group", q.grouping},
		{"hide", q.hidden},
		{"order", q.order},
		{"left", q.left},
		{"right", q.right},
	} {
		if err := check(c.param, c.ids); err != nil {
			return table.PartialState{}, err
		}
	}

	sorting := make([]table.ColumnSort, 0, len(q.sorting))
	for _, s := range q.sorting {
		if tbl.GetColumn(s.ID) == nil {
			return table.PartialState{}, badRequest("sort: unknown column %q", s.ID)
		}
		sorting = append(sorting, s)
	}

	filters := make([]table.ColumnFilter, 0, len(q.filters))
	for _, f := range q.filters {
		col := tbl.GetColumn(f.id)
		if col == nil {
			return table.PartialState{}, badRequest("filter: unknown column %q", f.id)
		}
		filters = append(filters, table.ColumnFilter{ID: f.id, Value: filterValue(tbl, col, f.value)})
	}

	visibility := make(map[string]bool, len(q.hidden))
	for _, id := range q.hidden {
		visibility[id] = false
	}

	expanded := table.ExpandedState{All: q.expandAll}
	if len(q.expanded) > 0 {
		expanded.IDs = make(map[string]bool, len(q.expanded))
		for _, id := range q.expanded {
			expanded.IDs[id] = true
		}
	}

	var global any
	if q.global != "" {
		global = q.global
	}

	return table.PartialState{
		ColumnVisibility: &visibility,
		ColumnOrder:      table.Ptr(q.order),
		ColumnPinning:    &table.ColumnPinning{Left: q.left, Right: q.right},
		ColumnFilters:    &filters,
		GlobalFilter:     &global,
		Sorting:          &sorting,
		Grouping:         table.Ptr(q.grouping),
		Expanded:         &expanded,
		Pagination:       &table.PaginationState{PageIndex: q.page, PageSize: q.size},
	}, nil
}

// filterValue converts a raw filter parameter into the value the column's
// filter function expects. "lo..hi" is a numeric range with either side
// optional; a single number on a numeric column matches exactly.
func filterValue(tbl *table.Table[source.Record], col *table.Column[source.Record], raw string) any {
	if lo, hi, ok := strings.Cut(raw, ".."); ok {
		return []any{source.InferValue(lo), source.InferValue(hi)}
	}

	var sample any
	for _, r := range tbl.GetCoreRowModel().FlatRows {
		if sample = r.GetValue(col.ID); sample != nil {
			break
		}
	}
	v := source.InferValue(raw)
	switch sample.(type) {
	case int, int64, float64:
		switch v.(type) {
		case int64, float64:
			return []any{v, v}
		}
	case bool:
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return raw
}

// encode renders q back into a query string, with overrides applied. The
// HTML view uses it to build navigation links.
func (q *viewQuery) encode(override func(*viewQuery)) string {
	c := *q
	if override != nil {
		override(&c)
	}

	v := url.Values{}
	if c.page > 0 {
		v.Set("page", strconv.Itoa(c.page))
	}
	v.Set("size", strconv.Itoa(c.size))
	if len(c.sorting) > 0 {
		ids := make([]string, len(c.sorting))
		dirs := make([]string, len(c.sorting))
		for i, s := range c.sorting {
			ids[i] = s.ID
			dirs[i] = "asc"
			if s.Desc {
				dirs[i] = "desc"
			}
		}
		v.Set("sort", strings.Join(ids, ","))
		v.Set("dir", strings.Join(dirs, ","))
	}
	for _, f := range c.filters {
		v.Set("filter["+f.id+"]", f.value)
	}
	if c.global != "" {
		v.Set("q", c.global)
	}
	setList(v, "group", c.grouping)
	if c.expandAll {
		v.Set("expand", "all")
	} else {
		setList(v, "expand", c.expanded)
	}
	setList(v, "hide", c.hidden)
	setList(v, "order", c.order)
	setList(v, "left", c.left)
	setList(v, "right", c.right)
	return v.Encode()
}

// toggleSort cycles a column through ascending, descending and unsorted.
func (q *viewQuery) toggleSort(id string) func(*viewQuery) {
	return func(c *viewQuery) {
		c.page = 0
		c.sorting = nil
		for _, s := range q.sorting {
			if s.ID != id {
				continue
			}
			if !s.Desc {
				c.sorting = []table.ColumnSort{{ID: id, Desc: true}}
			}
			return
		}
		c.sorting = []table.ColumnSort{{ID: id}}
	}
}

// toggleExpanded flips one row id in the expanded list.
func (q *viewQuery) toggleExpanded(id string) func(*viewQuery) {
	return func(c *viewQuery) {
		c.expandAll = false
		c.expanded = nil
		found := false
		for _, e := range q.expanded {
			if e == id {
				found = true
				continue
			}
			c.expanded = append(c.expanded, e)
		}
		if !found {
			c.expanded = append(c.expanded, id)
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setList(v url.Values, key string, items []string) {
	if len(items) > 0 {
		v.Set(key, strings.Join(items, ","))
	}
}
