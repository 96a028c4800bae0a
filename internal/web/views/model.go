// Package views renders table views as HTML with templ components. The same
// view model is served as JSON by the API.
package views

import (
	"github.com/JonMunkholm/tablekit/internal/catalog"
	"github.com/JonMunkholm/tablekit/internal/table"
)

// Table is one rendered page of a dataset.
type Table struct {
	Dataset      catalog.Info  `json:"dataset"`
	Instance     string        `json:"instance"`
	State        table.State   `json:"state"`
	HeaderGroups []HeaderGroup `json:"headerGroups"`
	Rows         []Row         `json:"rows"`
	Page         Page          `json:"page"`

	// Link targets for the HTML view.
	ExportLinks map[string]string `json:"-"`
	Query       string            `json:"-"`
}

// HeaderGroup is one header row.
type HeaderGroup struct {
	ID      string   `json:"id"`
	Depth   int      `json:"depth"`
	Headers []Header `json:"headers"`
}

// Header is one header cell.
type Header struct {
	ID          string `json:"id"`
	ColumnID    string `json:"columnId"`
	Label       string `json:"label"`
	ColSpan     int    `json:"colSpan"`
	RowSpan     int    `json:"rowSpan"`
	Placeholder bool   `json:"placeholder,omitempty"`
	Leaf        bool   `json:"leaf,omitempty"`
	CanSort     bool   `json:"canSort,omitempty"`
	Sorted      string `json:"sorted,omitempty"`
	Grouped     bool   `json:"grouped,omitempty"`
	Pinned      string `json:"pinned,omitempty"`

	SortHref string `json:"-"`
}

// Row is one displayed row.
type Row struct {
	ID          string `json:"id"`
	ParentID    string `json:"parentId,omitempty"`
	Depth       int    `json:"depth"`
	Grouped     bool   `json:"grouped,omitempty"`
	GroupColumn string `json:"groupColumn,omitempty"`
	GroupValue  any    `json:"groupValue,omitempty"`
	Descendants int    `json:"descendants,omitempty"`
	LeafRows    int    `json:"leafRows,omitempty"`
	CanExpand   bool   `json:"canExpand,omitempty"`
	Expanded    bool   `json:"expanded,omitempty"`
	Cells       []Cell `json:"cells"`

	ExpandHref string `json:"-"`
}

// Cell is one displayed cell.
type Cell struct {
	ColumnID    string `json:"columnId"`
	Value       any    `json:"value"`
	Text        string `json:"text"`
	Grouped     bool   `json:"grouped,omitempty"`
	Aggregated  bool   `json:"aggregated,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// Page describes the current page.
type Page struct {
	Index       int  `json:"index"`
	Size        int  `json:"size"`
	Count       int  `json:"count"`
	RowCount    int  `json:"rowCount"`
	CanPrevious bool `json:"canPrevious"`
	CanNext     bool `json:"canNext"`

	PreviousHref string `json:"-"`
	NextHref     string `json:"-"`
}

// Group is a catalog group on the index page.
type Group struct {
	Name     string
	Datasets []catalog.Info
}
