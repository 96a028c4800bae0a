package source

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig sizes a Postgres connection pool.
type PoolConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Connect opens a pgx pool and pings it.
func Connect(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// PgxQuerier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// FromPostgres runs query and returns one record per result row, keyed by
// the result field names. Values are passed through NormalizePG.
func FromPostgres(ctx context.Context, q PgxQuerier, query string, args ...any) ([]Record, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []Record
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", len(out), err)
		}
		rec := make(Record, len(fields))
		for i, f := range fields {
			rec[f.Name] = NormalizePG(vals[i])
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// NormalizePG converts pgx driver values into plain Go values the table
// engine can compare: numerics become int64 or float64, UUIDs become
// strings, invalid (NULL) pgtype values become nil and the remaining
// pgtype wrappers are unwrapped.
func NormalizePG(v any) any {
	switch x := v.(type) {
	case pgtype.Numeric:
		return numericValue(x)
	case pgtype.Text:
		if !x.Valid {
			return nil
		}
		return x.String
	case pgtype.Bool:
		if !x.Valid {
			return nil
		}
		return x.Bool
	case pgtype.Int4:
		if !x.Valid {
			return nil
		}
		return int64(x.Int32)
	case pgtype.Int8:
		if !x.Valid {
			return nil
		}
		return x.Int64
	case pgtype.Float8:
		if !x.Valid {
			return nil
		}
		return x.Float64
	case pgtype.Date:
		if !x.Valid {
			return nil
		}
		return x.Time
	case pgtype.Timestamp:
		if !x.Valid {
			return nil
		}
		return x.Time
	case pgtype.Timestamptz:
		if !x.Valid {
			return nil
		}
		return x.Time
	case pgtype.UUID:
		if !x.Valid {
			return nil
		}
		return uuid.UUID(x.Bytes).String()
	case [16]byte:
		return uuid.UUID(x).String()
	case []byte:
		return string(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = NormalizePG(e)
		}
		return out
	}
	return v
}

func numericValue(n pgtype.Numeric) any {
	if !n.Valid || n.NaN {
		return nil
	}
	if n.Exp >= 0 && n.InfinityModifier == pgtype.Finite {
		if i, err := n.Int64Value(); err == nil && i.Valid {
			return i.Int64
		}
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return nil
	}
	return f.Float64
}
