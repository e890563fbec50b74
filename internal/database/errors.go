package database

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Kind classifies a catalog error so callers can choose between retrying,
// skipping and aborting.
type Kind int

const (
	// KindQuery is a storage failure while executing a statement.
	KindQuery Kind = iota
	// KindBootstrap means the store could not be opened or initialized.
	// The hosting process is expected to terminate on it.
	KindBootstrap
	// KindPrepare means a statement could not be prepared.
	KindPrepare
	// KindConflict is a uniqueness violation, e.g. a duplicate uid.
	KindConflict
	// KindDecode means a row could not be mapped to a Photo.
	KindDecode
	// KindInvalidArgument means the caller supplied input that was rejected
	// before reaching the store.
	KindInvalidArgument
)

// String returns the string representation of an error kind
func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindBootstrap:
		return "bootstrap"
	case KindPrepare:
		return "prepare"
	case KindConflict:
		return "conflict"
	case KindDecode:
		return "decode"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

var (
	// ErrDuplicateUID is matched by errors.Is when an insert hits the uid
	// uniqueness constraint.
	ErrDuplicateUID = errors.New("duplicate photo uid")
	// ErrInvalidSortColumn is matched by errors.Is when a sort column is not a
	// known photo column.
	ErrInvalidSortColumn = errors.New("invalid sort column")
	// ErrSchemaUnavailable is matched by errors.Is when the schema source
	// could not be read.
	ErrSchemaUnavailable = errors.New("schema unavailable")
)

// Error is returned by every Database operation.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind of err, or KindQuery when err is not a catalog error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindQuery
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	return err != nil && KindOf(err) == KindConflict
}

func newError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// execError classifies a driver error returned while executing a statement.
func execError(op string, err error) *Error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return newError(op, KindConflict, fmt.Errorf("%w: %w", ErrDuplicateUID, err))
	}
	return newError(op, KindQuery, err)
}
