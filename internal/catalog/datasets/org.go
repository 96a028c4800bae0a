package datasets

import (
	"context"
	"time"

	"github.com/JonMunkholm/tablekit/internal/catalog"
	"github.com/JonMunkholm/tablekit/internal/source"
	"github.com/JonMunkholm/tablekit/internal/table"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// orgRecords is a small company where each employee points at a manager.
func orgRecords() []source.Record {
	return []source.Record{
		{"id": int64(1), "name": "Margaret Hale", "title": "CEO", "dept": "Executive", "salary": int64(310000), "hired": day(2012, 4, 2)},
		{"id": int64(2), "manager_id": int64(1), "name": "Oscar Diaz", "title": "VP Engineering", "dept": "Engineering", "salary": int64(240000), "hired": day(2014, 9, 15)},
		{"id": int64(3), "manager_id": int64(2), "name": "Priya Nair", "title": "Staff Engineer", "dept": "Engineering", "salary": int64(198000), "hired": day(2016, 1, 11)},
		{"id": int64(4), "manager_id": int64(2), "name": "Tom Becker", "title": "Engineer", "dept": "Engineering", "salary": int64(142000), "hired": day(2021, 6, 1)},
		{"id": int64(5), "manager_id": int64(3), "name": "Lena Ford", "title": "Engineer", "dept": "Engineering", "salary": int64(131000), "hired": day(2022, 2, 14)},
		{"id": int64(6), "manager_id": int64(1), "name": "Ruth Okafor", "title": "VP Sales", "dept": "Sales", "salary": int64(225000), "hired": day(2015, 3, 30)},
		{"id": int64(7), "manager_id": int64(6), "name": "Sam Whitley", "title": "Account Executive", "dept": "Sales", "salary": int64(118000), "hired": day(2019, 11, 4)},
		{"id": int64(8), "manager_id": int64(6), "name": "Ana Castro", "title": "Account Executive", "dept": "Sales", "salary": int64(121000), "hired": day(2020, 8, 17)},
	}
}

func registerOrgChart() {
	catalog.Register(catalog.Definition{
		Info: catalog.Info{
			Key:         "org_chart",
			Group:       "Demo",
			Label:       "Org Chart",
			Description: "Employees nested under their managers.",
		},
		Columns: []table.ColumnDef[source.Record]{
			{AccessorKey: "name", Header: "Name", Size: 200},
			{ID: "role", Header: "Role", Columns: []table.ColumnDef[source.Record]{
				{AccessorKey: "title", Header: "Title"},
				{AccessorKey: "dept", Header: "Department"},
			}},
			{AccessorKey: "salary", Header: "Salary", AggregationFn: "sum", FilterFn: "inNumberRange"},
			{AccessorKey: "hired", Header: "Hired", SortingFn: "datetime", AggregationFn: "extent"},
		},
		Load: func(ctx context.Context, _ catalog.Env) ([]source.Record, error) {
			return source.Nest(orgRecords(), "id", "manager_id", "reports")
		},
		SubRowsKey: "reports",
		RowIDKey:   "id",
	})
}
