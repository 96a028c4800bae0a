// Package datasets registers the demo datasets with the catalog.
// Import it for its side effects.
package datasets

func init() {
	registerOrgChart()
	registerOrders()
	registerInventory()
	registerPostgresColumns()
}
