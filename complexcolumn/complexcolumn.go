// Package complexcolumn implements the record plumbing behind Access's
// three complex-column storage wrappers: attachments, version history, and
// multi-value lookups. Each complex column is, on disk, an ordinary table
// of child rows keyed by a ComplexID pointing back at the owning row; this
// package never touches that table directly (page I/O and cursors are the
// host's concern) -- it only encodes and decodes the child-row shapes Access
// expects, against a generic Row accessor the host supplies.
package complexcolumn

import (
	"fmt"

	"github.com/gofrs/uuid"
)

// Row is the minimal column-value accessor a host's complex-column child
// table row must support: a column's value and whether it is present,
// rather than a full driver.Value surface, since that is all encode/decode
// here needs.
type Row interface {
	Value(column string) (interface{}, bool)
}

// mapRow is an in-memory Row used by tests and by callers assembling a row
// to write back to the host's table.
type mapRow map[string]interface{}

func (m mapRow) Value(column string) (interface{}, bool) {
	v, ok := m[column]
	return v, ok
}

func stringValue(r Row, column string) (string, error) {
	v, ok := r.Value(column)
	if !ok || v == nil {
		return "", fmt.Errorf("complexcolumn: missing column %q", column)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("complexcolumn: column %q is %T, not string", column, v)
	}
	return s, nil
}

func int64Value(r Row, column string) (int64, error) {
	v, ok := r.Value(column)
	if !ok || v == nil {
		return 0, fmt.Errorf("complexcolumn: missing column %q", column)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("complexcolumn: column %q is %T, not an integer", column, v)
	}
}

func uuidValue(r Row, column string) (uuid.UUID, error) {
	s, err := stringValue(r, column)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.FromString(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("complexcolumn: column %q: %w", column, err)
	}
	return id, nil
}
