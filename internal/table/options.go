package table

import "log/slog"

// UndefinedOrder controls where nil values land when sorting.
type UndefinedOrder int

const (
	// UndefinedAfter treats nil as greater than any value, so nil rows come
	// last ascending and first descending.
	UndefinedAfter UndefinedOrder = iota
	// UndefinedBefore treats nil as less than any value.
	UndefinedBefore
	// UndefinedFirst always places nil values first.
	UndefinedFirst
	// UndefinedLast always places nil values last.
	UndefinedLast
	// UndefinedUnordered passes nil values to the sorting function.
	UndefinedUnordered
)

// GroupedColumnMode controls how grouped columns are placed among leaf columns.
type GroupedColumnMode string

const (
	GroupedColumnsReorder GroupedColumnMode = "reorder"
	GroupedColumnsRemove  GroupedColumnMode = "remove"
	GroupedColumnsKeep    GroupedColumnMode = "keep"
)

// ColumnDef declares one column. A definition with Columns is a group; a
// definition with AccessorKey or AccessorFn carries a value.
type ColumnDef[T any] struct {
	ID     string
	Header string
	Footer string

	// AccessorKey is a dotted/bracket key path into the record,
	// e.g. "address.lines[0]".
	AccessorKey string
	AccessorFn  func(original T, index int) any

	Columns []ColumnDef[T]
	Meta    map[string]any

	DisableHiding bool

	// FilterFn names a function in the built-in set or Options.FilterFns.
	// Empty means "auto".
	FilterFn            string
	DisableColumnFilter bool
	DisableGlobalFilter bool

	SortingFn        string
	DisableSorting   bool
	DisableMultiSort bool
	SortDescFirst    *bool
	InvertSorting    bool
	SortUndefined    UndefinedOrder

	AggregationFn    string
	GetGroupingValue func(original T) any
	DisableGrouping  bool

	DisablePinning bool

	Size            float64
	MinSize         float64
	MaxSize         float64
	DisableResizing bool

	DisableExport bool
	ExportHeader  string
	ExportValue   func(row *Row[T], column *Column[T]) any
}

// Options configures a table. Options are replaced wholesale by
// [Table.SetOptions].
type Options[T any] struct {
	Data          []T
	Columns       []ColumnDef[T]
	DefaultColumn *ColumnDef[T]

	// Features is the ordered feature registry. Nil means DefaultFeatures.
	// The registry is fixed when the table is created.
	Features []Feature[T]

	// State holds host-controlled slices. A slice set here wins over the
	// table's own copy.
	State         PartialState
	InitialState  PartialState
	OnStateChange func(Updater[State])

	RenderFallbackValue any

	GetSubRows func(original T, index int) []T
	GetRowID   func(original T, index int, parent *Row[T]) string

	Logger *slog.Logger
	Debug  bool

	DisableHiding            bool
	OnColumnVisibilityChange func(Updater[map[string]bool])

	OnColumnOrderChange func(Updater[[]string])

	DisablePinning        bool
	OnColumnPinningChange func(Updater[ColumnPinning])

	DisableFilters        bool
	DisableColumnFilters  bool
	ManualFiltering       bool
	FilterFromLeafRows    bool
	MaxLeafRowFilterDepth *int
	FilterFns             map[string]FilterFn[T]
	OnColumnFiltersChange func(Updater[[]ColumnFilter])

	DisableGlobalFilter      bool
	GlobalFilterFn           string
	GetColumnCanGlobalFilter func(column *Column[T]) bool
	OnGlobalFilterChange     func(Updater[any])

	DisableSorting        bool
	DisableMultiSort      bool
	DisableSortingRemoval bool
	DisableMultiRemove    bool
	ManualSorting         bool
	SortDescFirst         bool
	MaxMultiSortColCount  int
	SortingFns            map[string]SortingFn[T]
	OnSortingChange       func(Updater[[]ColumnSort])

	DisableGrouping   bool
	ManualGrouping    bool
	GroupedColumnMode GroupedColumnMode
	AggregationFns    map[string]AggregationFn[T]
	OnGroupingChange  func(Updater[[]string])

	DisableExpanding     bool
	ManualExpanding      bool
	PaginateExpandedRows *bool
	AutoResetExpanded    *bool
	GetRowCanExpand      func(row *Row[T]) bool
	GetIsRowExpanded     func(row *Row[T]) bool
	OnExpandedChange     func(Updater[ExpandedState])

	ManualPagination   bool
	PageCount          int
	RowCount           int
	AutoResetPageIndex *bool
	AutoResetAll       *bool
	OnPaginationChange func(Updater[PaginationState])

	DisableRowSelection      bool
	DisableMultiRowSelection bool
	DisableSubRowSelection   bool
	CanSelectRow             func(row *Row[T]) bool
	OnRowSelectionChange     func(Updater[map[string]bool])

	DisableColumnResizing bool
	OnColumnSizingChange  func(Updater[map[string]float64])

	DisableExport  bool
	ExportFileBlob ExportBlobFunc
	ExportFileName func(fileType string, all bool) string
}

func (o *Options[T]) paginateExpandedRows() bool {
	return o.PaginateExpandedRows == nil || *o.PaginateExpandedRows
}

func (o *Options[T]) autoResetPageIndex() bool {
	if o.AutoResetAll != nil {
		return *o.AutoResetAll
	}
	if o.AutoResetPageIndex != nil {
		return *o.AutoResetPageIndex
	}
	return !o.ManualPagination
}

func (o *Options[T]) autoResetExpanded() bool {
	if o.AutoResetAll != nil {
		return *o.AutoResetAll
	}
	if o.AutoResetExpanded != nil {
		return *o.AutoResetExpanded
	}
	return !o.ManualExpanding
}

func (o *Options[T]) maxLeafRowFilterDepth() int {
	if o.MaxLeafRowFilterDepth == nil {
		return defaultMaxLeafRowFilterDepth
	}
	return *o.MaxLeafRowFilterDepth
}

const defaultMaxLeafRowFilterDepth = 100

// applyColumnDefaults fills zero settings of def from the table's default
// column. Identity and accessor fields are never inherited.
func applyColumnDefaults[T any](def ColumnDef[T], defaults *ColumnDef[T]) ColumnDef[T] {
	if defaults == nil {
		return def
	}
	if def.FilterFn == "" {
		def.FilterFn = defaults.FilterFn
	}
	if def.SortingFn == "" {
		def.SortingFn = defaults.SortingFn
	}
	if def.AggregationFn == "" {
		def.AggregationFn = defaults.AggregationFn
	}
	if def.SortDescFirst == nil {
		def.SortDescFirst = defaults.SortDescFirst
	}
	if def.SortUndefined == UndefinedAfter {
		def.SortUndefined = defaults.SortUndefined
	}
	if def.Size == 0 {
		def.Size = defaults.Size
	}
	if def.MinSize == 0 {
		def.MinSize = defaults.MinSize
	}
	if def.MaxSize == 0 {
		def.MaxSize = defaults.MaxSize
	}
	if def.ExportValue == nil {
		def.ExportValue = defaults.ExportValue
	}
	def.DisableHiding = def.DisableHiding || defaults.DisableHiding
	def.DisableColumnFilter = def.DisableColumnFilter || defaults.DisableColumnFilter
	def.DisableGlobalFilter = def.DisableGlobalFilter || defaults.DisableGlobalFilter
	def.DisableSorting = def.DisableSorting || defaults.DisableSorting
	def.DisableMultiSort = def.DisableMultiSort || defaults.DisableMultiSort
	def.InvertSorting = def.InvertSorting || defaults.InvertSorting
	def.DisableGrouping = def.DisableGrouping || defaults.DisableGrouping
	def.DisablePinning = def.DisablePinning || defaults.DisablePinning
	def.DisableResizing = def.DisableResizing || defaults.DisableResizing
	def.DisableExport = def.DisableExport || defaults.DisableExport
	return def
}
