package table

import (
	"regexp"
	"time"
)

// SortDirection is a column's current or next sort direction. The empty
// direction means unsorted.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type sortingFeature[T any] struct{}

// SortingFeature sorts rows by the descriptors in State.Sorting.
func SortingFeature[T any]() Feature[T] { return sortingFeature[T]{} }

func (sortingFeature[T]) Name() string     { return FeatureSorting }
func (sortingFeature[T]) bit() featureBit { return bitSorting }

func (sortingFeature[T]) InitialState(PartialState) PartialState {
	return PartialState{Sorting: Ptr([]ColumnSort{})}
}

// DecorateColumn rejects sorting function names that are not registered.
func (sortingFeature[T]) DecorateColumn(t *Table[T], c *Column[T]) error {
	name := c.Def.SortingFn
	if name == "" || name == Auto {
		return nil
	}
	if _, ok := t.lookupSortingFn(name); !ok {
		return unknownFn("sorting", name)
	}
	return nil
}

var reHasDigits = regexp.MustCompile(`[0-9]`)

// GetAutoSortingFn picks a sorting function from the first rows' values:
// alphanumeric for strings with digits, text for other strings, datetime
// for times, basic otherwise.
func (c *Column[T]) GetAutoSortingFn() (SortingFn[T], bool) {
	core := c.table.GetCoreRowModel()
	isText := false
	if core != nil {
		for i, row := range core.FlatRows {
			if i >= 10 {
				break
			}
			switch v := row.GetValue(c.ID).(type) {
			case time.Time:
				return c.table.lookupSortingFn("datetime")
			case string:
				isText = true
				if reHasDigits.MatchString(v) {
					return c.table.lookupSortingFn("alphanumeric")
				}
			}
		}
	}
	if isText {
		return c.table.lookupSortingFn("text")
	}
	return c.table.lookupSortingFn("basic")
}

// GetSortingFn returns the column's sorting function.
func (c *Column[T]) GetSortingFn() (SortingFn[T], bool) {
	name := c.Def.SortingFn
	if name == "" || name == Auto {
		return c.GetAutoSortingFn()
	}
	return c.table.lookupSortingFn(name)
}

// GetCanSort reports whether the column may be sorted.
func (c *Column[T]) GetCanSort() bool {
	return c.table.has(bitSorting) && c.accessor != nil &&
		!c.Def.DisableSorting && !c.table.options.DisableSorting
}

// GetCanMultiSort reports whether the column may join a multi-column sort.
func (c *Column[T]) GetCanMultiSort() bool {
	return c.GetCanSort() && !c.Def.DisableMultiSort && !c.table.options.DisableMultiSort
}

// GetIsSorted returns the column's current direction.
func (c *Column[T]) GetIsSorted() SortDirection {
	for _, s := range c.table.GetState().Sorting {
		if s.ID == c.ID {
			if s.Desc {
				return SortDesc
			}
			return SortAsc
		}
	}
	return SortNone
}

// GetSortIndex returns the column's position in State.Sorting, or -1.
func (c *Column[T]) GetSortIndex() int {
	for i, s := range c.table.GetState().Sorting {
		if s.ID == c.ID {
			return i
		}
	}
	return -1
}

// GetAutoSortDir returns asc for string columns and desc otherwise.
func (c *Column[T]) GetAutoSortDir() SortDirection {
	if isString(c.firstValue()) {
		return SortAsc
	}
	return SortDesc
}

// GetFirstSortDir returns the direction applied when the column is first
// sorted.
func (c *Column[T]) GetFirstSortDir() SortDirection {
	descFirst := c.GetAutoSortDir() == SortDesc
	if c.table.options.SortDescFirst {
		descFirst = true
	}
	if c.Def.SortDescFirst != nil {
		descFirst = *c.Def.SortDescFirst
	}
	if descFirst {
		return SortDesc
	}
	return SortAsc
}

// GetNextSortingOrder returns the direction the next toggle would apply.
// SortNone means the next toggle removes the column from the sort.
func (c *Column[T]) GetNextSortingOrder(multi bool) SortDirection {
	first := c.GetFirstSortDir()
	current := c.GetIsSorted()
	if current == SortNone {
		return first
	}
	o := &c.table.options
	if current != first && !o.DisableSortingRemoval && (!multi || !o.DisableMultiRemove) {
		return SortNone
	}
	if current == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// ToggleSorting cycles the column's sort. desc forces a direction when
// non-nil; multi adds the column to an existing sort instead of replacing it.
func (c *Column[T]) ToggleSorting(desc *bool, multi bool) error {
	if !c.GetCanSort() {
		return nil
	}
	next := c.GetNextSortingOrder(multi)
	o := &c.table.options

	return c.table.SetSorting(func(old []ColumnSort) []ColumnSort {
		existing := -1
		for i, s := range old {
			if s.ID == c.ID {
				existing = i
			}
		}
		nextDesc := next == SortDesc
		if desc != nil {
			nextDesc = *desc
		}

		action := "replace"
		switch {
		case len(old) > 0 && multi && c.GetCanMultiSort():
			action = "add"
			if existing >= 0 {
				action = "toggle"
			}
		case len(old) > 0 && existing >= 0 && existing != len(old)-1:
			action = "replace"
		case existing >= 0:
			action = "toggle"
		}
		if action == "toggle" && desc == nil && next == SortNone {
			action = "remove"
		}

		switch action {
		case "add":
			out := append(append([]ColumnSort{}, old...), ColumnSort{ID: c.ID, Desc: nextDesc})
			if n := o.MaxMultiSortColCount; n > 0 && len(out) > n {
				out = out[len(out)-n:]
			}
			return out
		case "toggle":
			out := make([]ColumnSort, len(old))
			for i, s := range old {
				if s.ID == c.ID {
					s.Desc = nextDesc
				}
				out[i] = s
			}
			return out
		case "remove":
			out := make([]ColumnSort, 0, len(old))
			for _, s := range old {
				if s.ID != c.ID {
					out = append(out, s)
				}
			}
			return out
		default:
			return []ColumnSort{{ID: c.ID, Desc: nextDesc}}
		}
	})
}

// ClearSorting removes the column from State.Sorting.
func (c *Column[T]) ClearSorting() error {
	return c.table.SetSorting(func(old []ColumnSort) []ColumnSort {
		out := make([]ColumnSort, 0, len(old))
		for _, s := range old {
			if s.ID != c.ID {
				out = append(out, s)
			}
		}
		return out
	})
}

// SetSorting updates State.Sorting.
func (t *Table[T]) SetSorting(u Updater[[]ColumnSort]) error {
	return updateSlice(t, t.options.OnSortingChange, u, func(s *State) *[]ColumnSort { return &s.Sorting })
}

// ResetSorting restores the initial sorting, or clears it when
// defaultState is set.
func (t *Table[T]) ResetSorting(defaultState bool) error {
	next := t.initialState.Sorting
	if defaultState || next == nil {
		next = []ColumnSort{}
	}
	return t.SetSorting(Replace(next))
}
