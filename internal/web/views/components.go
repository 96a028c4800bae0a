package views

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

const style = `body{font-family:system-ui,sans-serif;margin:2rem;color:#1f2937}
table{border-collapse:collapse;font-size:.9rem}
th,td{border:1px solid #d1d5db;padding:.3rem .6rem;text-align:left}
th{background:#f3f4f6}
td.agg{font-style:italic}
td.group{font-weight:600}
.pager a,.exports a{margin-right:1rem}
.error{border:1px solid #fca5a5;background:#fef2f2;padding:1rem}
code{color:#6b7280}`

// writer accumulates the first write error so components can write
// sequentially and check once.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) printf(format string, args ...any) {
	w.raw(fmt.Sprintf(format, args...))
}

func (w *writer) render(ctx context.Context, c templ.Component) {
	if w.err == nil {
		w.err = c.Render(ctx, w.w)
	}
}

// Layout wraps body in the page chrome.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>")
		w.text(title)
		w.raw("</title><style>" + style + "</style></head><body><nav><a href=\"/\">tablekit</a></nav><main>")
		w.render(ctx, body)
		w.raw("</main></body></html>")
		return w.err
	})
}

// Index lists the catalog's datasets by group.
func Index(groups []Group) templ.Component {
	return Layout("Datasets", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw("<h1>Datasets</h1>")
		if len(groups) == 0 {
			w.raw("<p>No datasets are registered.</p>")
		}
		for _, g := range groups {
			w.raw("<h2>")
			w.text(g.Name)
			w.raw("</h2><ul>")
			for _, d := range g.Datasets {
				w.raw("<li><a href=\"/tables/")
				w.text(d.Key)
				w.raw("\">")
				w.text(d.Label)
				w.raw("</a>")
				if d.Description != "" {
					w.raw(" <span>")
					w.text(d.Description)
					w.raw("</span>")
				}
				w.raw("</li>")
			}
			w.raw("</ul>")
		}
		return w.err
	}))
}

// TablePage renders one page of a dataset.
func TablePage(t Table) templ.Component {
	return Layout(t.Dataset.Label, templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw("<h1>")
		w.text(t.Dataset.Label)
		w.raw("</h1>")
		if t.Dataset.Description != "" {
			w.raw("<p>")
			w.text(t.Dataset.Description)
			w.raw("</p>")
		}
		w.render(ctx, Grid(t))
		w.render(ctx, Pager(t.Page))

		if len(t.ExportLinks) > 0 {
			w.raw("<p class=\"exports\">Export:")
			for _, f := range sortedKeys(t.ExportLinks) {
				w.raw(" <a href=\"")
				w.text(t.ExportLinks[f])
				w.raw("\">")
				w.text(f)
				w.raw("</a>")
			}
			w.raw("</p>")
		}
		return w.err
	}))
}

// Grid renders the header rows and body of t.
func Grid(t Table) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw("<table><thead>")
		for _, g := range t.HeaderGroups {
			w.raw("<tr>")
			for _, h := range g.Headers {
				if h.RowSpan == 0 {
					continue
				}
				w.printf("<th colspan=\"%d\" rowspan=\"%d\">", h.ColSpan, h.RowSpan)
				if h.SortHref != "" {
					w.raw("<a href=\"?")
					w.text(h.SortHref)
					w.raw("\">")
					w.text(h.Label)
					w.raw("</a>")
				} else {
					w.text(h.Label)
				}
				switch h.Sorted {
				case "asc":
					w.raw(" &#9650;")
				case "desc":
					w.raw(" &#9660;")
				}
				w.raw("</th>")
			}
			w.raw("</tr>")
		}
		w.raw("</thead><tbody>")
		for _, r := range t.Rows {
			w.render(ctx, RowView(r))
		}
		w.raw("</tbody></table>")
		return w.err
	})
}

// RowView renders one body row. The first cell carries the expander.
func RowView(r Row) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw("<tr data-row-id=\"")
		w.text(r.ID)
		w.raw("\">")
		for i, c := range r.Cells {
			switch {
			case c.Grouped:
				w.raw("<td class=\"group\">")
			case c.Aggregated:
				w.raw("<td class=\"agg\">")
			default:
				w.raw("<td>")
			}
			if i == 0 && r.Depth > 0 {
				w.raw(strings.Repeat("&nbsp;&nbsp;", r.Depth))
			}
			if (i == 0 || c.Grouped) && r.CanExpand && r.ExpandHref != "" {
				w.raw("<a href=\"?")
				w.text(r.ExpandHref)
				w.raw("\">")
				if r.Expanded {
					w.raw("&#9662;")
				} else {
					w.raw("&#9656;")
				}
				w.raw("</a> ")
			}
			if !c.Placeholder {
				w.text(c.Text)
			}
			if c.Grouped && r.LeafRows > 0 {
				w.printf(" (%d)", r.LeafRows)
			}
			w.raw("</td>")
		}
		w.raw("</tr>")
		return w.err
	})
}

// Pager renders page navigation.
func Pager(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw("<p class=\"pager\">")
		if p.CanPrevious && p.PreviousHref != "" {
			w.raw("<a href=\"?")
			w.text(p.PreviousHref)
			w.raw("\">Previous</a>")
		}
		w.printf("Page %d of %d (%d rows)", p.Index+1, max(p.Count, 1), p.RowCount)
		if p.CanNext && p.NextHref != "" {
			w.raw(" <a href=\"?")
			w.text(p.NextHref)
			w.raw("\">Next</a>")
		}
		w.raw("</p>")
		return w.err
	})
}

// ErrorPage renders a user-facing error.
func ErrorPage(message, action, code string) templ.Component {
	return Layout("Error", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw("<div class=\"error\" role=\"alert\"><strong>")
		w.text(message)
		w.raw("</strong>")
		if action != "" {
			w.raw("<p>")
			w.text(action)
			w.raw("</p>")
		}
		w.raw("<code>")
		w.text(code)
		w.raw("</code></div>")
		return w.err
	}))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
