package table

import "math"

type paginationFeature[T any] struct{}

// PaginationFeature slices the final rows into pages.
func PaginationFeature[T any]() Feature[T] { return paginationFeature[T]{} }

func (paginationFeature[T]) Name() string     { return FeaturePagination }
func (paginationFeature[T]) bit() featureBit { return bitPagination }

func (paginationFeature[T]) InitialState(PartialState) PartialState {
	return PartialState{Pagination: &PaginationState{PageIndex: defaultPageIndex, PageSize: defaultPageSize}}
}

// SetPagination updates State.Pagination.
func (t *Table[T]) SetPagination(u Updater[PaginationState]) error {
	return updateSlice(t, t.options.OnPaginationChange, u, func(s *State) *PaginationState { return &s.Pagination })
}

// ResetPagination restores the initial pagination, or the defaults when
// defaultState is set.
func (t *Table[T]) ResetPagination(defaultState bool) error {
	next := t.initialState.Pagination
	if defaultState {
		next = PaginationState{PageIndex: defaultPageIndex, PageSize: defaultPageSize}
	}
	return t.SetPagination(Replace(next))
}

// SetPageIndex moves to a page, clamped to the known page range.
func (t *Table[T]) SetPageIndex(index int) error {
	maxIndex := math.MaxInt
	if n := t.GetPageCount(); n >= 0 {
		maxIndex = max(n-1, 0)
	}
	index = max(0, min(index, maxIndex))
	return t.SetPagination(func(old PaginationState) PaginationState {
		return PaginationState{PageIndex: index, PageSize: old.PageSize}
	})
}

// ResetPageIndex restores the initial page index, or 0 when defaultState
// is set.
func (t *Table[T]) ResetPageIndex(defaultState bool) error {
	index := t.initialState.Pagination.PageIndex
	if defaultState {
		index = defaultPageIndex
	}
	return t.SetPagination(func(old PaginationState) PaginationState {
		return PaginationState{PageIndex: index, PageSize: old.PageSize}
	})
}

// SetPageSize changes the page size and keeps the first visible row on the
// resulting page.
func (t *Table[T]) SetPageSize(size int) error {
	size = max(1, size)
	return t.SetPagination(func(old PaginationState) PaginationState {
		top := old.PageSize * old.PageIndex
		return PaginationState{PageIndex: top / size, PageSize: size}
	})
}

// ResetPageSize restores the initial page size, or the default when
// defaultState is set.
func (t *Table[T]) ResetPageSize(defaultState bool) error {
	size := t.initialState.Pagination.PageSize
	if defaultState || size <= 0 {
		size = defaultPageSize
	}
	return t.SetPageSize(size)
}

// GetRowCount returns Options.RowCount when set, otherwise the number of
// rows before pagination.
func (t *Table[T]) GetRowCount() int {
	if t.options.RowCount > 0 {
		return t.options.RowCount
	}
	return len(t.GetPrePaginationRowModel().Rows)
}

// GetPageCount returns Options.PageCount when set (-1 means unknown),
// otherwise the page count derived from the row count.
func (t *Table[T]) GetPageCount() int {
	if t.options.PageCount != 0 {
		return t.options.PageCount
	}
	size := t.GetState().Pagination.PageSize
	if size <= 0 {
		return 0
	}
	return (t.GetRowCount() + size - 1) / size
}

// GetPageOptions returns the valid page indexes.
func (t *Table[T]) GetPageOptions() []int {
	n := t.GetPageCount()
	if n <= 0 {
		return []int{}
	}
	opts := make([]int, n)
	for i := range opts {
		opts[i] = i
	}
	return opts
}

// GetCanPreviousPage reports whether a previous page exists.
func (t *Table[T]) GetCanPreviousPage() bool {
	return t.GetState().Pagination.PageIndex > 0
}

// GetCanNextPage reports whether a next page exists.
func (t *Table[T]) GetCanNextPage() bool {
	n := t.GetPageCount()
	if n == -1 {
		return true
	}
	if n == 0 {
		return false
	}
	return t.GetState().Pagination.PageIndex < n-1
}

// PreviousPage moves back one page.
func (t *Table[T]) PreviousPage() error {
	return t.SetPageIndex(t.GetState().Pagination.PageIndex - 1)
}

// NextPage moves forward one page.
func (t *Table[T]) NextPage() error {
	return t.SetPageIndex(t.GetState().Pagination.PageIndex + 1)
}

// FirstPage moves to the first page.
func (t *Table[T]) FirstPage() error {
	return t.SetPageIndex(0)
}

// LastPage moves to the last page.
func (t *Table[T]) LastPage() error {
	return t.SetPageIndex(t.GetPageCount() - 1)
}
