// Package catalog keeps the datasets a host can open as tables.
//
// Datasets are registered at init time with [Register], usually from the
// datasets subpackage. Each [Definition] names its columns and how to load
// its records; [Open] turns a definition into a live [Instance].
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/JonMunkholm/tablekit/internal/source"
	"github.com/JonMunkholm/tablekit/internal/table"
)

// ErrNotFound is returned for an unknown dataset key.
var ErrNotFound = errors.New("dataset not found")

// ErrUnavailable is returned by a loader whose backing store is not
// configured.
var ErrUnavailable = errors.New("dataset source not configured")

// Env holds the data handles loaders may read from. Either may be nil.
type Env struct {
	SQLite   *sql.DB
	Postgres source.PgxQuerier
}

// Loader fetches a dataset's records.
type Loader func(ctx context.Context, env Env) ([]source.Record, error)

// Info describes a dataset for listings.
type Info struct {
	Key         string `json:"key"`
	Group       string `json:"group"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Definition is everything needed to open a dataset as a table.
type Definition struct {
	Info    Info
	Columns []table.ColumnDef[source.Record]
	Load    Loader

	// SubRowsKey names the field holding nested records, as produced by
	// source.Nest. Empty for flat datasets.
	SubRowsKey string

	// RowIDKey names a field used as the row id instead of the index path.
	RowIDKey string

	// Configure adjusts the table options after the catalog defaults are set.
	Configure func(*table.Options[source.Record])
}

var (
	registry   = make(map[string]Definition)
	registryMu sync.RWMutex
)

// Register adds a dataset definition.
// Panics if the key is empty or already registered.
func Register(def Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if def.Info.Key == "" {
		panic("catalog: dataset key is required")
	}
	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("catalog: dataset already registered: %s", def.Info.Key))
	}
	if def.Info.Label == "" {
		def.Info.Label = def.Info.Key
	}
	registry[def.Info.Key] = def
}

// Get returns a dataset definition by key.
func Get(key string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns every definition sorted by group, then key.
func All() []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Definition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Group != result[j].Info.Group {
			return result[i].Info.Group < result[j].Info.Group
		}
		return result[i].Info.Key < result[j].Info.Key
	})
	return result
}

// ByGroup returns the definitions in group sorted by key.
func ByGroup(group string) []Definition {
	var result []Definition
	for _, def := range All() {
		if def.Info.Group == group {
			result = append(result, def)
		}
	}
	return result
}

// Groups returns the distinct group names, sorted.
func Groups() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, def := range registry {
		seen[def.Info.Group] = true
	}
	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Count returns the number of registered datasets.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes every definition. Tests use it to start from an empty
// catalog.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Definition)
}
