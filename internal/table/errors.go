package table

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks against [*Error].
var (
	ErrConfiguration      = errors.New("configuration error")
	ErrInvariantViolation = errors.New("invariant violation")
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindConfiguration indicates invalid column definitions or options.
	KindConfiguration ErrorKind = iota + 1
	// KindInvariant indicates an internal inconsistency in a row model.
	KindInvariant
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Error is the structured error returned by table operations.
type Error struct {
	// Op is the operation that failed (e.g., "table.resolveColumns").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrConfiguration:
		return e.Kind == KindConfiguration
	case ErrInvariantViolation:
		return e.Kind == KindInvariant
	}
	return false
}

func configError(op, format string, args ...any) error {
	return &Error{Op: op, Kind: KindConfiguration, Err: fmt.Errorf(format, args...)}
}

func invariantError(op, format string, args ...any) error {
	return &Error{Op: op, Kind: KindInvariant, Err: fmt.Errorf(format, args...)}
}
