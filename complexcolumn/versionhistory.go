package complexcolumn

import (
	"time"

	"github.com/gofrs/uuid"
)

// VersionEntry is one snapshot of an append-only memo column, stored by
// Access as a child row holding the column's value at a point in time plus
// who/when it changed.
type VersionEntry struct {
	ComplexID  int64
	ID         uuid.UUID
	Value      string
	ModifiedAt time.Time
	ModifiedBy string
}

// DecodeVersionEntry reads a VersionEntry out of a host-supplied child row.
func DecodeVersionEntry(r Row) (VersionEntry, error) {
	complexID, err := int64Value(r, "ComplexID")
	if err != nil {
		return VersionEntry{}, err
	}
	id, err := uuidValue(r, "Gen_ID")
	if err != nil {
		return VersionEntry{}, err
	}
	value, err := stringValue(r, "Value")
	if err != nil {
		return VersionEntry{}, err
	}

	v := VersionEntry{ComplexID: complexID, ID: id, Value: value}
	if t, ok := r.Value("ModifiedDate"); ok {
		if ts, ok := t.(time.Time); ok {
			v.ModifiedAt = ts
		}
	}
	if m, ok := r.Value("ModifiedBy"); ok {
		if s, ok := m.(string); ok {
			v.ModifiedBy = s
		}
	}
	return v, nil
}

// EncodeVersionEntry produces the column values for a new version row.
// Version rows are append-only: encoding never reuses an existing ID.
func EncodeVersionEntry(v VersionEntry) (map[string]interface{}, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"ComplexID":    v.ComplexID,
		"Gen_ID":       id.String(),
		"Value":        v.Value,
		"ModifiedDate": v.ModifiedAt,
		"ModifiedBy":   v.ModifiedBy,
	}, nil
}

// SortVersionHistory orders version entries oldest-first, the order Access
// displays a memo column's version history in.
func SortVersionHistory(entries []VersionEntry) []VersionEntry {
	sorted := make([]VersionEntry, len(entries))
	copy(sorted, entries)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].ModifiedAt.Before(sorted[j-1].ModifiedAt); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}
