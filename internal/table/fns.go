package table

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FilterFn decides whether a row passes a column filter. Fn must be pure
// with respect to its arguments. addMeta attaches metadata to the row's
// ColumnFiltersMeta for the column.
type FilterFn[T any] struct {
	Fn func(row *Row[T], columnID string, filterValue any, addMeta func(any)) bool
	// ResolveFilterValue normalizes the filter value once per computation.
	ResolveFilterValue func(value any) any
	// AutoRemove reports whether a filter value should remove the filter.
	AutoRemove func(value any) bool
}

// SortingFn compares two rows on a column, returning a negative, zero or
// positive number.
type SortingFn[T any] func(a, b *Row[T], columnID string) int

// AggregationFn computes a group row's value for a column from the group's
// direct children and its leaf data rows.
type AggregationFn[T any] func(columnID string, childRows, leafRows []*Row[T]) any

// Auto is the function name that selects a function from the first row's
// value type.
const Auto = "auto"

// fnLibrary holds the built-in functions for one record type.
type fnLibrary[T any] struct {
	filters      map[string]FilterFn[T]
	sorters      map[string]SortingFn[T]
	aggregations map[string]AggregationFn[T]
}

func newFnLibrary[T any]() *fnLibrary[T] {
	return &fnLibrary[T]{
		filters:      builtinFilterFns[T](),
		sorters:      builtinSortingFns[T](),
		aggregations: builtinAggregationFns[T](),
	}
}

func (t *Table[T]) lookupFilterFn(name string) (FilterFn[T], bool) {
	if fn, ok := t.options.FilterFns[name]; ok {
		return fn, true
	}
	fn, ok := t.fns.filters[name]
	return fn, ok
}

func (t *Table[T]) lookupSortingFn(name string) (SortingFn[T], bool) {
	if fn, ok := t.options.SortingFns[name]; ok {
		return fn, true
	}
	fn, ok := t.fns.sorters[name]
	return fn, ok
}

func (t *Table[T]) lookupAggregationFn(name string) (AggregationFn[T], bool) {
	if fn, ok := t.options.AggregationFns[name]; ok {
		return fn, true
	}
	fn, ok := t.fns.aggregations[name]
	return fn, ok
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

func builtinFilterFns[T any]() map[string]FilterFn[T] {
	lower := strings.ToLower
	return map[string]FilterFn[T]{
		"includesString": {
			Fn: func(row *Row[T], id string, fv any, _ func(any)) bool {
				return strings.Contains(lower(toText(row.GetValue(id))), lower(toText(fv)))
			},
			AutoRemove: isBlank,
		},
		"includesStringSensitive": {
			Fn: func(row *Row[T], id string, fv any, _ func(any)) bool {
				return strings.Contains(toText(row.GetValue(id)), toText(fv))
			},
			AutoRemove: isBlank,
		},
		"equalsString": {
			Fn: func(row *Row[T], id string, fv any, _ func(any)) bool {
				return lower(toText(row.GetValue(id))) == lower(toText(fv))
			},
			AutoRemove: isBlank,
		},
		"arrIncludes": {
			Fn: func(row *Row[T], id string, fv any, _ func(any)) bool {
				vals, _ := toSlice(row.GetValue(id))
				return slices.ContainsFunc(vals, func(v any) bool { return valuesEqual(v, fv) })
			},
			AutoRemove: func(v any) bool {
				vals, ok := toSlice(v)
				return v == nil || (ok && len(vals) == 0)
			},
		},
		"arrIncludesAll": {
			Fn: func(row *Row[T], id string, fv any, _ func(any)) bool {
				vals, _ := toSlice(row.GetValue(id))
				want, _ := toSlice(fv)
				for _, w := range want {
					if !slices.ContainsFunc(vals, func(v any) bool { return valuesEqual(v, w) }) {
						return false
					}
				}
				return true
			},
			AutoRemove: func(v any) bool {
				vals, _ := toSlice(v)
				return len(vals) == 0
			},
		},
		"arrIncludesSome": {
			Fn: func(row *Row[T], id string, fv any, _ func(any)) bool {
				vals, _ := toSlice(row.GetValue(id))
				want, _ := toSlice(fv)
				for _, w := range want {
					if slices.ContainsFunc(vals, func(v any) bool { return valuesEqual(v, w) }) {
						return true
					}
				}
				return false
			},
			AutoRemove: func(v any) bool {
				vals, _ := toSlice(v)
				return len(vals) == 0
			},
		},
		"equals": {
			Fn: func(row *Row[T], id string, fv any, _ func(any)) bool {
				return valuesEqual(row.GetValue(id), fv)
			},
			AutoRemove: func(v any) bool { return v == nil },
		},
		"weakEquals": {
			Fn: func(row *Row[T], id string, fv any, _ func(any)) bool {
				return toText(row.GetValue(id)) == toText(fv)
			},
			AutoRemove: func(v any) bool { return v == nil },
		},
		"inNumberRange": {
			Fn: func(row *Row[T], id string, fv any, _ func(any)) bool {
				r, ok := fv.([2]float64)
				if !ok {
					return true
				}
				n, ok := toFloat(row.GetValue(id))
				return ok && n >= r[0] && n <= r[1]
			},
			ResolveFilterValue: resolveNumberRange,
			AutoRemove: func(v any) bool {
				vals, ok := toSlice(v)
				if !ok || len(vals) == 0 {
					return v == nil
				}
				for _, x := range vals {
					if _, ok := toFloat(x); ok {
						return false
					}
				}
				return true
			},
		},
	}
}

// resolveNumberRange turns a two-element slice into an ordered [min, max]
// range. Missing or non-numeric bounds are open.
func resolveNumberRange(v any) any {
	vals, _ := toSlice(v)
	lo, hi := math.Inf(-1), math.Inf(1)
	if len(vals) > 0 {
		if f, ok := toFloat(vals[0]); ok {
			lo = f
		}
	}
	if len(vals) > 1 {
		if f, ok := toFloat(vals[1]); ok {
			hi = f
		}
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return [2]float64{lo, hi}
}

var reSplitAlphaNumeric = regexp.MustCompile(`([0-9]+)`)

func builtinSortingFns[T any]() map[string]SortingFn[T] {
	text := func(fold bool) SortingFn[T] {
		return func(a, b *Row[T], id string) int {
			x, y := toText(a.GetValue(id)), toText(b.GetValue(id))
			if fold {
				x, y = strings.ToLower(x), strings.ToLower(y)
			}
			return strings.Compare(x, y)
		}
	}
	alnum := func(fold bool) SortingFn[T] {
		return func(a, b *Row[T], id string) int {
			x, y := toText(a.GetValue(id)), toText(b.GetValue(id))
			if fold {
				x, y = strings.ToLower(x), strings.ToLower(y)
			}
			return compareAlphanumeric(x, y)
		}
	}
	return map[string]SortingFn[T]{
		"alphanumeric":              alnum(true),
		"alphanumericCaseSensitive": alnum(false),
		"text":                      text(true),
		"textCaseSensitive":         text(false),
		"datetime": func(a, b *Row[T], id string) int {
			x, _ := a.GetValue(id).(time.Time)
			y, _ := b.GetValue(id).(time.Time)
			return x.Compare(y)
		},
		"basic": func(a, b *Row[T], id string) int {
			return compareValues(a.GetValue(id), b.GetValue(id))
		},
	}
}

// compareAlphanumeric compares strings chunk by chunk, ordering digit runs
// numerically.
func compareAlphanumeric(a, b string) int {
	as, bs := splitAlphaNumeric(a), splitAlphaNumeric(b)
	for len(as) > 0 && len(bs) > 0 {
		x, y := as[0], bs[0]
		as, bs = as[1:], bs[1:]

		xn, xerr := strconv.Atoi(x)
		yn, yerr := strconv.Atoi(y)
		switch {
		case xerr != nil && yerr != nil:
			if c := strings.Compare(x, y); c != 0 {
				return c
			}
		case xerr != nil:
			return -1
		case yerr != nil:
			return 1
		case xn != yn:
			if xn > yn {
				return 1
			}
			return -1
		}
	}
	return len(as) - len(bs)
}

func splitAlphaNumeric(s string) []string {
	var out []string
	last := 0
	for _, loc := range reSplitAlphaNumeric.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			out = append(out, s[last:loc[0]])
		}
		out = append(out, s[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(s) {
		out = append(out, s[last:])
	}
	return out
}

func builtinAggregationFns[T any]() map[string]AggregationFn[T] {
	numbers := func(id string, rows []*Row[T]) []float64 {
		var out []float64
		for _, r := range rows {
			if f, ok := toFloat(r.GetValue(id)); ok {
				out = append(out, f)
			}
		}
		return out
	}
	return map[string]AggregationFn[T]{
		"sum": func(id string, children, _ []*Row[T]) any {
			var sum float64
			for _, f := range numbers(id, children) {
				sum += f
			}
			return sum
		},
		"min": func(id string, _, leaves []*Row[T]) any {
			nums := numbers(id, leaves)
			if len(nums) == 0 {
				return nil
			}
			return slices.Min(nums)
		},
		"max": func(id string, _, leaves []*Row[T]) any {
			nums := numbers(id, leaves)
			if len(nums) == 0 {
				return nil
			}
			return slices.Max(nums)
		},
		"extent": func(id string, _, leaves []*Row[T]) any {
			var lo, hi any
			for _, r := range leaves {
				v := r.GetValue(id)
				if v == nil {
					continue
				}
				if lo == nil || compareValues(v, lo) < 0 {
					lo = v
				}
				if hi == nil || compareValues(v, hi) > 0 {
					hi = v
				}
			}
			if lo == nil {
				return nil
			}
			return [2]any{lo, hi}
		},
		"mean": func(id string, _, leaves []*Row[T]) any {
			nums := numbers(id, leaves)
			if len(nums) == 0 {
				return nil
			}
			var sum float64
			for _, f := range nums {
				sum += f
			}
			return sum / float64(len(nums))
		},
		"median": func(id string, _, leaves []*Row[T]) any {
			nums := numbers(id, leaves)
			if len(nums) == 0 {
				return nil
			}
			slices.Sort(nums)
			mid := len(nums) / 2
			if len(nums)%2 == 1 {
				return nums[mid]
			}
			return (nums[mid-1] + nums[mid]) / 2
		},
		"unique": func(id string, _, leaves []*Row[T]) any {
			return uniqueValues(id, leaves)
		},
		"uniqueCount": func(id string, _, leaves []*Row[T]) any {
			return len(uniqueValues(id, leaves))
		},
		"count": func(_ string, _, leaves []*Row[T]) any {
			return len(leaves)
		},
	}
}

func uniqueValues[T any](id string, rows []*Row[T]) []any {
	seen := make(map[any]bool)
	var out []any
	for _, r := range rows {
		v := r.GetValue(id)
		k := groupKey(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}
