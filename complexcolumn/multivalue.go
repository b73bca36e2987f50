package complexcolumn

import (
	"fmt"

	"github.com/gofrs/uuid"
)

// MultiValueEntry is one selected value of a multi-value lookup column: a
// single child row pairing the owning row's ComplexID with either a key
// into another table (a lookup list) or a literal value (a plain
// multi-value list), plus the display order Access preserves between them.
type MultiValueEntry struct {
	ComplexID int64
	ID        uuid.UUID
	Order     int32
	LookupKey *int64
	Literal   interface{}
}

// DecodeMultiValueEntry reads a MultiValueEntry out of a host-supplied child
// row. Exactly one of LookupKey/Literal is populated, matching whichever of
// the two columns Access wrote for the row.
func DecodeMultiValueEntry(r Row) (MultiValueEntry, error) {
	complexID, err := int64Value(r, "ComplexID")
	if err != nil {
		return MultiValueEntry{}, err
	}
	id, err := uuidValue(r, "Gen_ID")
	if err != nil {
		return MultiValueEntry{}, err
	}
	order, err := int64Value(r, "Order")
	if err != nil {
		return MultiValueEntry{}, err
	}

	e := MultiValueEntry{ComplexID: complexID, ID: id, Order: int32(order)}
	if v, ok := r.Value("LookupKey"); ok && v != nil {
		key, err := int64Value(r, "LookupKey")
		if err != nil {
			return MultiValueEntry{}, err
		}
		e.LookupKey = &key
		return e, nil
	}
	if v, ok := r.Value("Value"); ok {
		e.Literal = v
		return e, nil
	}
	return MultiValueEntry{}, fmt.Errorf("complexcolumn: multi-value row has neither LookupKey nor Value")
}

// EncodeMultiValueEntry produces the column values for e. At least one of
// e.LookupKey/e.Literal must be set; when both are, only LookupKey is
// written.
func EncodeMultiValueEntry(e MultiValueEntry) (map[string]interface{}, error) {
	if e.LookupKey == nil && e.Literal == nil {
		return nil, fmt.Errorf("complexcolumn: multi-value entry requires a LookupKey or Literal")
	}
	id := e.ID
	if id == uuid.Nil {
		var err error
		id, err = uuid.NewV4()
		if err != nil {
			return nil, fmt.Errorf("complexcolumn: generating multi-value id: %w", err)
		}
	}
	out := map[string]interface{}{
		"ComplexID": e.ComplexID,
		"Gen_ID":    id.String(),
		"Order":     e.Order,
	}
	if e.LookupKey != nil {
		out["LookupKey"] = *e.LookupKey
	} else {
		out["Value"] = e.Literal
	}
	return out, nil
}

// SortMultiValueEntries orders entries by their Access-assigned Order field.
func SortMultiValueEntries(entries []MultiValueEntry) []MultiValueEntry {
	sorted := make([]MultiValueEntry, len(entries))
	copy(sorted, entries)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Order < sorted[j-1].Order; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}
