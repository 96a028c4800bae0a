package datasets

import (
	"context"

	"github.com/JonMunkholm/tablekit/internal/catalog"
	"github.com/JonMunkholm/tablekit/internal/source"
	"github.com/JonMunkholm/tablekit/internal/table"
)

func registerPostgresColumns() {
	catalog.Register(catalog.Definition{
		Info: catalog.Info{
			Key:         "pg_columns",
			Group:       "Postgres",
			Label:       "Columns",
			Description: "Columns of every table in the connected database's public schema.",
		},
		Columns: []table.ColumnDef[source.Record]{
			{AccessorKey: "table_name", Header: "Table"},
			{AccessorKey: "column_name", Header: "Column"},
			{AccessorKey: "ordinal_position", Header: "#", Size: 60},
			{AccessorKey: "data_type", Header: "Type"},
			{AccessorKey: "is_nullable", Header: "Nullable", AggregationFn: "count"},
		},
		Load: func(ctx context.Context, env catalog.Env) ([]source.Record, error) {
			if env.Postgres == nil {
				return nil, catalog.ErrUnavailable
			}
			return source.FromPostgres(ctx, env.Postgres, `
				SELECT table_name::text, column_name::text, ordinal_position::int4,
				       data_type::text, is_nullable::text
				FROM information_schema.columns
				WHERE table_schema = 'public'
				ORDER BY 1, 3`)
		},
	})
}
