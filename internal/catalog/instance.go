package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/tablekit/internal/export"
	"github.com/JonMunkholm/tablekit/internal/source"
	"github.com/JonMunkholm/tablekit/internal/table"
)

// Settings are the catalog-wide table defaults.
type Settings struct {
	PageSize              int
	MaxLeafRowFilterDepth *int
	Debug                 bool
	Logger                *slog.Logger
}

// Instance is an opened dataset: its records loaded into a table. The table
// is not safe for concurrent use, so every access goes through View.
type Instance struct {
	ID       uuid.UUID
	Info     Info
	LoadedAt time.Time
	RowCount int

	mu  sync.Mutex
	tbl *table.Table[source.Record]
}

// Open loads def's records and builds its table.
func Open(ctx context.Context, def Definition, env Env, s Settings) (*Instance, error) {
	if def.Load == nil {
		return nil, fmt.Errorf("open %s: no loader", def.Info.Key)
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	records, err := def.Load(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", def.Info.Key, err)
	}

	opts := table.Options[source.Record]{
		Data:                  records,
		Columns:               def.Columns,
		Logger:                logger.With("dataset", def.Info.Key),
		Debug:                 s.Debug,
		MaxLeafRowFilterDepth: s.MaxLeafRowFilterDepth,
		ExportFileBlob:        export.ByType,
		ExportFileName: func(fileType string, all bool) string {
			if all {
				return def.Info.Key + "-all"
			}
			return def.Info.Key
		},
	}
	if s.PageSize > 0 {
		opts.InitialState.Pagination = &table.PaginationState{PageSize: s.PageSize}
	}
	if def.SubRowsKey != "" {
		opts.GetSubRows = source.SubRows(def.SubRowsKey)
	}
	if key := def.RowIDKey; key != "" {
		opts.GetRowID = func(r source.Record, index int, parent *table.Row[source.Record]) string {
			if v, ok := r[key]; ok && v != nil {
				return fmt.Sprint(v)
			}
			if parent != nil {
				return parent.ID + "." + fmt.Sprint(index)
			}
			return fmt.Sprint(index)
		}
	}
	if def.Configure != nil {
		def.Configure(&opts)
	}

	tbl, err := table.New(opts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", def.Info.Key, err)
	}

	inst := &Instance{
		ID:       uuid.New(),
		Info:     def.Info,
		LoadedAt: time.Now(),
		RowCount: len(tbl.GetCoreRowModel().FlatRows),
		tbl:      tbl,
	}
	logger.Info("dataset opened",
		"dataset", def.Info.Key,
		"instance", inst.ID,
		"rows", inst.RowCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return inst, nil
}

// View runs fn with exclusive access to the instance's table.
func (i *Instance) View(fn func(*table.Table[source.Record]) error) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return fn(i.tbl)
}

// Store opens datasets on first use and keeps them until Reload.
type Store struct {
	env      Env
	settings Settings

	mu        sync.Mutex
	instances map[string]*Instance
}

// NewStore creates a store that opens datasets against env.
func NewStore(env Env, s Settings) *Store {
	return &Store{env: env, settings: s, instances: make(map[string]*Instance)}
}

// Instance returns the open instance for key, loading it if needed.
// Loading holds the store lock, so concurrent first requests load once.
func (s *Store) Instance(ctx context.Context, key string) (*Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inst, ok := s.instances[key]; ok {
		return inst, nil
	}
	def, ok := Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	inst, err := Open(ctx, def, s.env, s.settings)
	if err != nil {
		return nil, err
	}
	s.instances[key] = inst
	return inst, nil
}

// Reload drops the cached instance for key so the next request reloads it.
func (s *Store) Reload(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.instances, key)
}

// Open reports the keys with a loaded instance.
func (s *Store) Open() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.instances))
	for k := range s.instances {
		keys = append(keys, k)
	}
	return keys
}
