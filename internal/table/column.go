package table

import (
	"strings"
)

// Column is a resolved column definition. Columns are rebuilt when the
// definitions or the function registries in Options change.
type Column[T any] struct {
	Decorations

	ID      string
	Depth   int
	Parent  *Column[T]
	Columns []*Column[T]
	Def     ColumnDef[T]

	table    *Table[T]
	accessor func(original T, index int) any
}

// columnSet is one resolution of Options.Columns.
type columnSet[T any] struct {
	tree   []*Column[T]
	flat   []*Column[T]
	leaves []*Column[T]
	byID   map[string]*Column[T]
}

func (t *Table[T]) columnDeps() []any {
	o := &t.options
	return []any{o.Columns, o.DefaultColumn, o.FilterFns, o.SortingFns, o.AggregationFns}
}

// resolveColumns builds the column tree depth first, running every column
// decorator on each column before recursing into its children, then
// indexes the result.
func (t *Table[T]) resolveColumns() (*columnSet[T], error) {
	var build func(defs []ColumnDef[T], depth int, parent *Column[T], path string) ([]*Column[T], error)
	build = func(defs []ColumnDef[T], depth int, parent *Column[T], path string) ([]*Column[T], error) {
		cols := make([]*Column[T], 0, len(defs))
		for i, raw := range defs {
			at := path + "[" + itoa(i) + "]"
			col, err := t.newColumn(applyColumnDefaults(raw, t.options.DefaultColumn), depth, parent, at)
			if err != nil {
				return nil, err
			}
			for _, d := range t.registry.columns {
				if err := d.DecorateColumn(t, col); err != nil {
					return nil, &Error{Op: "table.resolveColumns", Kind: KindConfiguration,
						Err: wrapf(err, "column %q", col.ID)}
				}
			}
			if len(col.Def.Columns) > 0 {
				children, err := build(col.Def.Columns, depth+1, col, at+".columns")
				if err != nil {
					return nil, err
				}
				col.Columns = children
			}
			cols = append(cols, col)
		}
		return cols, nil
	}

	tree, err := build(t.options.Columns, 0, nil, "columns")
	if err != nil {
		return nil, err
	}

	set := &columnSet[T]{tree: tree, byID: make(map[string]*Column[T])}
	var index func([]*Column[T]) error
	index = func(cols []*Column[T]) error {
		for _, c := range cols {
			if _, dup := set.byID[c.ID]; dup {
				return configError("table.resolveColumns", "duplicate column id %q", c.ID)
			}
			set.byID[c.ID] = c
			set.flat = append(set.flat, c)
			if len(c.Columns) == 0 {
				set.leaves = append(set.leaves, c)
			} else if err := index(c.Columns); err != nil {
				return err
			}
		}
		return nil
	}
	if err := index(tree); err != nil {
		return nil, err
	}
	return set, nil
}

func (t *Table[T]) newColumn(def ColumnDef[T], depth int, parent *Column[T], at string) (*Column[T], error) {
	if def.AccessorKey != "" && def.AccessorFn != nil {
		return nil, configError("table.resolveColumns", "%s: both AccessorKey and AccessorFn are set", at)
	}

	id := def.ID
	if id == "" && def.AccessorKey != "" {
		id = strings.ReplaceAll(def.AccessorKey, ".", "_")
	}
	if id == "" {
		id = def.Header
	}
	if id == "" {
		if def.AccessorFn != nil {
			return nil, configError("table.resolveColumns", "%s: columns with an AccessorFn need an ID", at)
		}
		return nil, configError("table.resolveColumns", "%s: cannot derive a column id; set ID, AccessorKey or Header", at)
	}

	col := &Column[T]{
		ID:     id,
		Depth:  depth,
		Parent: parent,
		Def:    def,
		table:  t,
	}

	switch {
	case def.AccessorFn != nil:
		col.accessor = def.AccessorFn
	case def.AccessorKey != "":
		path, err := parseKeyPath(def.AccessorKey)
		if err != nil {
			return nil, configError("table.resolveColumns", "%s: invalid AccessorKey: %v", at, err)
		}
		col.accessor = func(original T, _ int) any { return path.lookup(original) }
	}
	return col, nil
}

// HasAccessor reports whether the column extracts a value from records.
func (c *Column[T]) HasAccessor() bool {
	return c.accessor != nil
}

// HeaderText returns the definition's header, falling back to the id.
func (c *Column[T]) HeaderText() string {
	if c.Def.Header != "" {
		return c.Def.Header
	}
	return c.ID
}

// GetFlatColumns returns the column and all its descendants in pre-order.
func (c *Column[T]) GetFlatColumns() []*Column[T] {
	out := []*Column[T]{c}
	for _, child := range c.Columns {
		out = append(out, child.GetFlatColumns()...)
	}
	return out
}

// GetLeafColumns returns the leaf columns under c in table order. A leaf
// column returns itself.
func (c *Column[T]) GetLeafColumns() []*Column[T] {
	if len(c.Columns) == 0 {
		return []*Column[T]{c}
	}
	var leaves []*Column[T]
	for _, child := range c.Columns {
		leaves = append(leaves, child.GetLeafColumns()...)
	}
	return c.table.orderColumns(leaves)
}

// GetColumn returns the column with the given id, or nil.
func (t *Table[T]) GetColumn(id string) *Column[T] {
	if t.columnsMemo.value == nil {
		return nil
	}
	return t.columnsMemo.value.byID[id]
}

// GetAllColumns returns the top-level columns of the resolved tree.
func (t *Table[T]) GetAllColumns() []*Column[T] {
	return t.columnsMemo.value.tree
}

// GetAllFlatColumns returns every column, groups included, in pre-order.
func (t *Table[T]) GetAllFlatColumns() []*Column[T] {
	return t.columnsMemo.value.flat
}

// GetAllLeafColumns returns every leaf column in display order.
func (t *Table[T]) GetAllLeafColumns() []*Column[T] {
	return t.orderColumns(t.columnsMemo.value.leaves)
}
