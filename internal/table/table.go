package table

import (
	"fmt"
	"log/slog"
)

// Table is the long-lived aggregate of options, state, resolved columns and
// the cached row model pipeline. Create one with [New].
type Table[T any] struct {
	Decorations

	options      Options[T]
	registry     *registry[T]
	fns          *fnLibrary[T]
	initialState State
	state        State
	computed     bool

	// passes counts nested commits; pending holds their state updates.
	passes  int
	pending []Updater[State]

	columnsMemo   memo[*columnSet[T]]
	coreMemo      memo[*RowModel[T]]
	filteredMemo  memo[*RowModel[T]]
	groupedMemo   memo[*RowModel[T]]
	sortedMemo    memo[*RowModel[T]]
	expandedMemo  memo[*RowModel[T]]
	paginatedMemo memo[*RowModel[T]]

	headersMemo  memo[*headerSet[T]]
	selectedMemo map[string]*memo[*RowModel[T]]
}

// New creates a table, runs every feature hook, resolves the columns and
// computes the full row model pipeline. Configuration problems are returned
// here.
func New[T any](opts Options[T]) (*Table[T], error) {
	features := opts.Features
	if features == nil {
		features = DefaultFeatures[T]()
	}
	reg, err := newRegistry(features)
	if err != nil {
		return nil, err
	}

	t := &Table[T]{
		registry: reg,
		fns:      newFnLibrary[T](),
	}
	t.columnsMemo.name = "columns"
	t.coreMemo.name = "core"
	t.filteredMemo.name = "filtered"
	t.groupedMemo.name = "grouped"
	t.sortedMemo.name = "sorted"
	t.expandedMemo.name = "expanded"
	t.paginatedMemo.name = "paginated"
	t.headersMemo.name = "headers"

	t.options = t.withDefaults(opts)

	seeded := reg.initialState(opts.InitialState, t.logger().Warn)
	t.initialState = MergeState(MergeState(State{}, seeded), opts.InitialState)
	t.state = t.initialState

	for _, d := range reg.tables {
		if err := d.DecorateTable(t); err != nil {
			return nil, &Error{Op: "table.New", Kind: KindConfiguration, Err: err}
		}
	}

	if err := t.refresh(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table[T]) withDefaults(o Options[T]) Options[T] {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	for _, d := range t.registry.defaulters {
		d.DefaultOptions(t, &o)
	}
	return o
}

func (t *Table[T]) logger() *slog.Logger {
	if t.options.Logger == nil {
		return slog.Default()
	}
	return t.options.Logger
}

// Options returns the current resolved options.
func (t *Table[T]) Options() Options[T] {
	return t.options
}

// SetOptions replaces the options with the updater's result and recomputes
// every invalidated stage. On error the previous options, state and row
// models stay in effect.
func (t *Table[T]) SetOptions(u Updater[Options[T]]) error {
	return t.commit(func() {
		t.options = t.withDefaults(u(t.options))
	})
}

// commit applies change and recomputes. A failed pass undoes change and
// puts every pipeline cache slot back, so no stage is left computed from the
// rejected input. State updates queued for Options.OnStateChange during the
// pass are delivered only after the outermost pass succeeds.
func (t *Table[T]) commit(change func()) error {
	prevOptions, prevState := t.options, t.state
	restore := t.saveModels()

	t.passes++
	change()
	err := t.refresh()
	t.passes--

	if err != nil {
		t.options, t.state = prevOptions, prevState
		restore()
		if t.passes == 0 {
			t.pending = nil
		}
		return err
	}
	if t.passes > 0 {
		return nil
	}
	pending := t.pending
	t.pending = nil
	if notify := t.options.OnStateChange; notify != nil {
		for _, u := range pending {
			notify(u)
		}
	}
	return nil
}

func (t *Table[T]) saveModels() func() {
	restores := []func(){
		t.columnsMemo.save(),
		t.coreMemo.save(),
		t.filteredMemo.save(),
		t.groupedMemo.save(),
		t.sortedMemo.save(),
		t.expandedMemo.save(),
		t.paginatedMemo.save(),
		t.headersMemo.save(),
	}
	computed := t.computed
	return func() {
		for _, r := range restores {
			r()
		}
		t.computed = computed
	}
}

// GetState returns the effective state: the table's own copy with every
// host-controlled slice from Options.State merged over it.
func (t *Table[T]) GetState() State {
	return MergeState(t.state, t.options.State)
}

// InitialState returns the state the table was seeded with.
func (t *Table[T]) InitialState() State {
	return t.initialState
}

// SetState applies u to the effective state, stores the result as the
// table's own copy and recomputes. u is forwarded to Options.OnStateChange
// only when the update succeeds.
func (t *Table[T]) SetState(u Updater[State]) error {
	return t.commit(func() {
		t.state = u(t.GetState())
		t.pending = append(t.pending, u)
	})
}

// Reset restores the initial state.
func (t *Table[T]) Reset() error {
	initial := t.initialState
	return t.SetState(Replace(initial))
}

// updateSlice routes a slice update to the host's per-feature callback when
// one is set, otherwise to SetState.
func updateSlice[T, V any](t *Table[T], onChange func(Updater[V]), u Updater[V], field func(*State) *V) error {
	if onChange != nil {
		onChange(u)
		return nil
	}
	return t.SetState(func(old State) State {
		next := old
		p := field(&next)
		*p = u(*p)
		return next
	})
}

// refresh recomputes every stage whose dependencies changed, then applies
// queued automatic resets.
func (t *Table[T]) refresh() error {
	cols, _, err := t.columnsMemo.get(t.logger(), t.options.Debug, t.columnDeps(), t.resolveColumns)
	if err != nil {
		return err
	}

	o := &t.options
	st := t.GetState()
	log, debug := t.logger(), o.Debug

	core, coreChanged, err := t.coreMemo.get(log, debug,
		[]any{o.Data, o.GetSubRows, o.GetRowID, cols},
		func() (*RowModel[T], error) { return t.buildCoreRowModel(cols) })
	if err != nil {
		return err
	}

	filtered, filteredChanged, err := t.filteredMemo.get(log, debug,
		[]any{core, st.ColumnFilters, st.GlobalFilter, o.ManualFiltering, o.FilterFromLeafRows,
			o.maxLeafRowFilterDepth(), o.GlobalFilterFn, o.DisableFilters, o.DisableColumnFilters,
			o.DisableGlobalFilter, o.GetColumnCanGlobalFilter},
		func() (*RowModel[T], error) { return t.buildFilteredRowModel(core, st) })
	if err != nil {
		return err
	}

	grouped, groupedChanged, err := t.groupedMemo.get(log, debug,
		[]any{filtered, st.Grouping, o.ManualGrouping},
		func() (*RowModel[T], error) { return t.buildGroupedRowModel(filtered, st) })
	if err != nil {
		return err
	}

	sorted, sortedChanged, err := t.sortedMemo.get(log, debug,
		[]any{grouped, st.Sorting, o.ManualSorting, o.DisableSorting},
		func() (*RowModel[T], error) { return t.buildSortedRowModel(grouped, st) })
	if err != nil {
		return err
	}

	expanded, _, err := t.expandedMemo.get(log, debug,
		[]any{sorted, st.Expanded.All, st.Expanded.IDs, o.ManualExpanding, o.paginateExpandedRows(),
			o.GetIsRowExpanded, o.GetRowCanExpand, o.DisableExpanding},
		func() (*RowModel[T], error) { return t.buildExpandedRowModel(sorted, st) })
	if err != nil {
		return err
	}

	if _, _, err := t.paginatedMemo.get(log, debug,
		[]any{expanded, st.Pagination, o.ManualPagination, o.paginateExpandedRows(),
			st.Expanded.All, st.Expanded.IDs},
		func() (*RowModel[T], error) { return t.buildPaginatedRowModel(expanded, st) }); err != nil {
		return err
	}

	if !t.computed {
		t.computed = true
		return nil
	}
	return t.autoReset(coreChanged || filteredChanged || groupedChanged || sortedChanged, groupedChanged)
}

// autoReset returns page index and expansion to their initial values after
// the row set they refer to changed. It is skipped on the first computation.
func (t *Table[T]) autoReset(pageIndex, expanded bool) error {
	st := t.GetState()
	if expanded && t.has(bitExpanding) && t.options.autoResetExpanded() &&
		!sameExpanded(st.Expanded, t.initialState.Expanded) {
		if err := t.ResetExpanded(false); err != nil {
			return err
		}
	}
	if pageIndex && t.has(bitPagination) && t.options.autoResetPageIndex() &&
		st.Pagination.PageIndex != t.initialState.Pagination.PageIndex {
		if err := t.ResetPageIndex(false); err != nil {
			return err
		}
	}
	return nil
}

func sameExpanded(a, b ExpandedState) bool {
	if a.All != b.All {
		return false
	}
	if a.IsEmpty() && b.IsEmpty() {
		return true
	}
	return sameDep(a.IDs, b.IDs)
}

// GetCoreRowModel returns the rows built from Options.Data.
func (t *Table[T]) GetCoreRowModel() *RowModel[T] { return t.coreMemo.value }

// GetPreFilteredRowModel returns the input of the filtered stage.
func (t *Table[T]) GetPreFilteredRowModel() *RowModel[T] { return t.coreMemo.value }

// GetFilteredRowModel returns the rows after column and global filters.
func (t *Table[T]) GetFilteredRowModel() *RowModel[T] { return t.filteredMemo.value }

// GetPreGroupedRowModel returns the input of the grouped stage.
func (t *Table[T]) GetPreGroupedRowModel() *RowModel[T] { return t.filteredMemo.value }

// GetGroupedRowModel returns the rows after grouping.
func (t *Table[T]) GetGroupedRowModel() *RowModel[T] { return t.groupedMemo.value }

// GetPreSortedRowModel returns the input of the sorted stage.
func (t *Table[T]) GetPreSortedRowModel() *RowModel[T] { return t.groupedMemo.value }

// GetSortedRowModel returns the rows after sorting.
func (t *Table[T]) GetSortedRowModel() *RowModel[T] { return t.sortedMemo.value }

// GetPreExpandedRowModel returns the input of the expanded stage.
func (t *Table[T]) GetPreExpandedRowModel() *RowModel[T] { return t.sortedMemo.value }

// GetExpandedRowModel returns the rows whose ancestors are all expanded.
func (t *Table[T]) GetExpandedRowModel() *RowModel[T] { return t.expandedMemo.value }

// GetPrePaginationRowModel returns the input of the paginated stage.
func (t *Table[T]) GetPrePaginationRowModel() *RowModel[T] { return t.expandedMemo.value }

// GetPaginationRowModel returns the current page.
func (t *Table[T]) GetPaginationRowModel() *RowModel[T] { return t.paginatedMemo.value }

// GetRowModel returns the final row model, the one a UI renders.
func (t *Table[T]) GetRowModel() *RowModel[T] { return t.paginatedMemo.value }

// GetRow looks a row up by id in the final row model, falling back to the
// core row model when searchAll is set. It returns nil when not found.
func (t *Table[T]) GetRow(id string, searchAll bool) *Row[T] {
	if r, ok := t.GetRowModel().RowsByID[id]; ok {
		return r
	}
	if r, ok := t.GetSortedRowModel().RowsByID[id]; ok {
		return r
	}
	if searchAll {
		if r, ok := t.GetCoreRowModel().RowsByID[id]; ok {
			return r
		}
	}
	return nil
}

func (t *Table[T]) warn(msg string, args ...any) {
	t.logger().Warn(msg, args...)
}

func (t *Table[T]) String() string {
	return fmt.Sprintf("Table{columns: %d, rows: %d}", len(t.GetAllLeafColumns()), len(t.GetCoreRowModel().Rows))
}
