package datasets

import (
	"bytes"
	"context"
	_ "embed"

	"github.com/JonMunkholm/tablekit/internal/catalog"
	"github.com/JonMunkholm/tablekit/internal/source"
	"github.com/JonMunkholm/tablekit/internal/table"
)

//go:embed orders.csv
var ordersCSV []byte

func registerOrders() {
	catalog.Register(catalog.Definition{
		Info: catalog.Info{
			Key:         "orders",
			Group:       "Demo",
			Label:       "Orders",
			Description: "Sales orders loaded from an embedded CSV file.",
		},
		Columns: []table.ColumnDef[source.Record]{
			{AccessorKey: "order_id", Header: "Order", Size: 90},
			{ID: "customer", Header: "Customer", Columns: []table.ColumnDef[source.Record]{
				{AccessorKey: "customer", Header: "Name", AggregationFn: "uniqueCount"},
				{AccessorKey: "region", Header: "Region", FilterFn: "equalsString"},
			}},
			{AccessorKey: "status", Header: "Status", FilterFn: "arrIncludesSome"},
			{AccessorKey: "amount", Header: "Amount", AggregationFn: "sum", FilterFn: "inNumberRange"},
			{AccessorKey: "ordered", Header: "Ordered", SortingFn: "datetime"},
		},
		Load: func(ctx context.Context, _ catalog.Env) ([]source.Record, error) {
			return source.FromCSV(bytes.NewReader(ordersCSV))
		},
		RowIDKey: "order_id",
	})
}
