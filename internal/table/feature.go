package table

import (
	"fmt"
)

// Feature is one entry in a table's feature registry. A feature contributes
// behaviour by implementing any of the optional hook interfaces below.
type Feature[T any] interface {
	Name() string
}

// StateContributor supplies initial values for the state slices a feature
// owns. initial is the host-provided initial state; implementations must not
// depend on slices owned by other features.
type StateContributor interface {
	InitialState(initial PartialState) PartialState
}

// OptionsDefaulter fills option defaults. It must only set fields that are
// still zero so host-supplied options win.
type OptionsDefaulter[T any] interface {
	DefaultOptions(t *Table[T], opts *Options[T])
}

// TableDecorator runs once when the table is created.
type TableDecorator[T any] interface {
	DecorateTable(t *Table[T]) error
}

// ColumnDecorator runs once per resolved column.
type ColumnDecorator[T any] interface {
	DecorateColumn(t *Table[T], c *Column[T]) error
}

// RowDecorator runs once per row created by the core or grouped stage.
// Rows derived by later stages share the decorations of their source row.
type RowDecorator[T any] interface {
	DecorateRow(t *Table[T], r *Row[T])
}

// HeaderDecorator runs once per header when header groups are built.
type HeaderDecorator[T any] interface {
	DecorateHeader(t *Table[T], h *Header[T])
}

// CellDecorator runs once per cell when a row's cells are first requested.
type CellDecorator[T any] interface {
	DecorateCell(t *Table[T], c *Cell[T])
}

// Dependent lists feature names that must be registered earlier.
type Dependent interface {
	Requires() []string
}

// Decorations stores values attached to an entity by custom features.
// A row cloned by a later pipeline stage starts with its source row's
// decorations; decorating the clone leaves the source untouched.
type Decorations struct {
	values map[string]any
	shared bool
}

// Decorate attaches v under key.
func (d *Decorations) Decorate(key string, v any) {
	if d.shared || d.values == nil {
		own := make(map[string]any, len(d.values)+1)
		for k, old := range d.values {
			own[k] = old
		}
		d.values = own
		d.shared = false
	}
	d.values[key] = v
}

// inherit returns a view of d that copies on the first write.
func (d Decorations) inherit() Decorations {
	return Decorations{values: d.values, shared: true}
}

// Decoration returns the value attached under key.
func (d *Decorations) Decoration(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// DecorationOf returns the value attached under key as a V.
func DecorationOf[V any](d *Decorations, key string) (V, bool) {
	v, ok := d.values[key]
	if !ok {
		var zero V
		return zero, false
	}
	typed, ok := v.(V)
	return typed, ok
}

// Built-in feature names, in default registry order.
const (
	FeatureVisibility      = "visibility"
	FeatureOrdering        = "ordering"
	FeaturePinning         = "pinning"
	FeatureColumnFiltering = "columnFiltering"
	FeatureGlobalFiltering = "globalFiltering"
	FeatureSorting         = "sorting"
	FeatureGrouping        = "grouping"
	FeatureExpanding       = "expanding"
	FeaturePagination      = "pagination"
	FeatureSelection       = "selection"
	FeatureSizing          = "sizing"
	FeatureExport          = "export"
)

type featureBit uint16

const (
	bitVisibility featureBit = 1 << iota
	bitOrdering
	bitPinning
	bitColumnFiltering
	bitGlobalFiltering
	bitSorting
	bitGrouping
	bitExpanding
	bitPagination
	bitSelection
	bitSizing
	bitExport
)

// builtin is implemented only by the features in this package. Their
// methods on Table, Column, Row, Header and Cell are active only when the
// feature is registered.
type builtin interface {
	bit() featureBit
}

// DefaultFeatures returns the built-in features in their documented order.
// Later features may rely on fields attached by earlier ones.
func DefaultFeatures[T any]() []Feature[T] {
	return []Feature[T]{
		VisibilityFeature[T](),
		OrderingFeature[T](),
		PinningFeature[T](),
		ColumnFilteringFeature[T](),
		GlobalFilteringFeature[T](),
		SortingFeature[T](),
		GroupingFeature[T](),
		ExpandingFeature[T](),
		PaginationFeature[T](),
		SelectionFeature[T](),
		SizingFeature[T](),
		ExportFeature[T](),
	}
}

// registry is the validated, indexed feature list of one table.
type registry[T any] struct {
	features []Feature[T]
	mask     featureBit

	defaulters []OptionsDefaulter[T]
	tables     []TableDecorator[T]
	columns    []ColumnDecorator[T]
	rows       []RowDecorator[T]
	headers    []HeaderDecorator[T]
	cells      []CellDecorator[T]
}

func newRegistry[T any](features []Feature[T]) (*registry[T], error) {
	r := &registry[T]{features: features}
	seen := make(map[string]bool, len(features))

	for i, f := range features {
		if f == nil {
			return nil, configError("table.New", "feature %d is nil", i)
		}
		name := f.Name()
		if name == "" {
			return nil, configError("table.New", "feature %d has no name", i)
		}
		if seen[name] {
			return nil, configError("table.New", "feature %q registered twice", name)
		}
		if dep, ok := f.(Dependent); ok {
			for _, req := range dep.Requires() {
				if !seen[req] {
					return nil, configError("table.New", "feature %q requires %q to be registered before it", name, req)
				}
			}
		}
		seen[name] = true

		if b, ok := f.(builtin); ok {
			r.mask |= b.bit()
		}
		if h, ok := f.(OptionsDefaulter[T]); ok {
			r.defaulters = append(r.defaulters, h)
		}
		if h, ok := f.(TableDecorator[T]); ok {
			r.tables = append(r.tables, h)
		}
		if h, ok := f.(ColumnDecorator[T]); ok {
			r.columns = append(r.columns, h)
		}
		if h, ok := f.(RowDecorator[T]); ok {
			r.rows = append(r.rows, h)
		}
		if h, ok := f.(HeaderDecorator[T]); ok {
			r.headers = append(r.headers, h)
		}
		if h, ok := f.(CellDecorator[T]); ok {
			r.cells = append(r.cells, h)
		}
	}
	return r, nil
}

func (r *registry[T]) has(b featureBit) bool {
	return r.mask&b != 0
}

// initialState merges every contributor's slices in registry order. A
// later contributor replacing an earlier one's slice is reported through
// warn.
func (r *registry[T]) initialState(provided PartialState, warn func(msg string, args ...any)) PartialState {
	var merged PartialState
	owner := make(map[string]string)

	for _, f := range r.features {
		sc, ok := f.(StateContributor)
		if !ok {
			continue
		}
		contrib := sc.InitialState(provided)
		for _, key := range overlay(&merged, contrib) {
			warn("feature overrides initial state slice", "slice", key, "feature", f.Name(), "previous", owner[key])
		}
		for _, key := range contrib.Keys() {
			owner[key] = f.Name()
		}
	}
	return merged
}

// FeatureNames returns the registered feature names in order.
func (t *Table[T]) FeatureNames() []string {
	names := make([]string, len(t.registry.features))
	for i, f := range t.registry.features {
		names[i] = f.Name()
	}
	return names
}

// HasFeature reports whether a feature with the given name is registered.
func (t *Table[T]) HasFeature(name string) bool {
	for _, f := range t.registry.features {
		if f.Name() == name {
			return true
		}
	}
	return false
}

func (t *Table[T]) has(b featureBit) bool {
	return t.registry.has(b)
}

func unknownFn(kind, name string) error {
	return fmt.Errorf("unknown %s function %q", kind, name)
}
