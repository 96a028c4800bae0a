package table

import (
	"log/slog"
	"reflect"
	"time"
)

// memo is a single cache slot keyed by the identity of its dependencies.
type memo[R any] struct {
	name  string
	deps  []any
	value R
	valid bool
}

// get returns the cached value when deps match the previous call, otherwise
// it recomputes. The slot is replaced only when compute succeeds.
func (m *memo[R]) get(logger *slog.Logger, debug bool, deps []any, compute func() (R, error)) (R, bool, error) {
	if m.valid && sameDeps(m.deps, deps) {
		return m.value, false, nil
	}

	start := time.Now()
	v, err := compute()
	if err != nil {
		var zero R
		return zero, false, err
	}

	m.deps = deps
	m.value = v
	m.valid = true

	if debug && logger != nil {
		attrs := []any{"stage", m.name}
		if c, ok := any(v).(rowCounter); ok {
			attrs = append(attrs, "rows", c.rowCount(), "flat_rows", c.flatRowCount())
		}
		logger.Debug("row model recomputed", append(attrs, "duration", time.Since(start))...)
	}
	return v, true, nil
}

// rowCounter is implemented by cached values that can report their size.
type rowCounter interface {
	rowCount() int
	flatRowCount() int
}

// save captures the slot so a failed pass can put it back.
func (m *memo[R]) save() func() {
	deps, value, valid := m.deps, m.value, m.valid
	return func() {
		m.deps, m.value, m.valid = deps, value, valid
	}
}

func sameDeps(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameDep(a[i], b[i]) {
			return false
		}
	}
	return true
}

// sameDep compares reference types by identity and everything else by value.
// Two slices are the same dependency when they share a backing array and
// length.
func sameDep(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return false
}
