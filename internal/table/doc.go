// Package table implements a headless tabular-data engine.
//
// Given a slice of records and declarative column definitions, a [Table]
// derives the row models a table UI renders, resolves columns into a
// column/header graph, and keeps one consolidated [State] that every
// feature reads and updates. Nothing in this package renders output.
//
// # Row Model Pipeline
//
// Row models are derived in a fixed order, each stage cached against the
// identity of its inputs:
//
//	core -> filtered -> grouped -> sorted -> expanded -> paginated
//
// A stage is recomputed only when the previous stage's output, the state
// slices it reads, or the options it reads change. Stages never mutate the
// rows of an earlier stage; a stage that needs different sub rows clones
// the row and replaces its SubRows.
//
// # Features
//
// Capabilities are contributed by an ordered list of [Feature] values.
// A feature may implement any of the optional hook interfaces
// ([StateContributor], [OptionsDefaulter], [TableDecorator],
// [ColumnDecorator], [RowDecorator], [HeaderDecorator], [CellDecorator]).
// Hooks run once per entity, in registry order. [DefaultFeatures] returns
// the built-in set:
//
//	table.New(table.Options[Person]{
//	    Data:    people,
//	    Columns: []table.ColumnDef[Person]{{AccessorKey: "name"}, {AccessorKey: "age"}},
//	})
//
// Built-in methods such as [Column.GetCanSort] read the table's current
// state at call time, so a column or row value stays valid across state
// changes.
//
// # State
//
// State is owned by the table unless the host supplies a slice in
// [Options.State], in which case the host's value wins on every read.
// [MergeState] is the merge rule. Updates go through [Table.SetState] or the
// per-feature setters, which forward to On<Feature>Change callbacks when the
// host provides them.
//
// # Error Handling
//
// Configuration problems (duplicate or underivable column ids, unknown
// function names, a missing export blob provider) are returned as [*Error]
// matching [ErrConfiguration]. A stage that receives an inconsistent row
// model returns an error matching [ErrInvariantViolation]. Failed
// recomputations are never cached. Soft conditions are logged as warnings
// through [Options.Logger].
//
// A Table is not safe for concurrent use.
package table
