package complexcolumn

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

// AttachmentFlags mirrors the bit Access sets on an attachment row when the
// embedded file has been compressed in storage; decode/encode never
// inflate or deflate the bytes themselves, that stays the host's concern.
type AttachmentFlags int32

const AttachmentCompressed AttachmentFlags = 1

// Attachment is one child row of an attachment complex column: a single
// file attached to the owning row, identified by its own UUID so multiple
// attachments on the same row don't collide.
type Attachment struct {
	ComplexID int64
	ID        uuid.UUID
	FileName  string
	FileType  string
	Flags     AttachmentFlags
	ModifiedAt time.Time
	Data      []byte
}

// DecodeAttachment reads an Attachment out of a host-supplied child row.
func DecodeAttachment(r Row) (Attachment, error) {
	complexID, err := int64Value(r, "ComplexID")
	if err != nil {
		return Attachment{}, err
	}
	id, err := uuidValue(r, "Gen_ID")
	if err != nil {
		return Attachment{}, err
	}
	name, err := stringValue(r, "FileName")
	if err != nil {
		return Attachment{}, err
	}

	a := Attachment{ComplexID: complexID, ID: id, FileName: name}
	if v, ok := r.Value("FileType"); ok {
		if s, ok := v.(string); ok {
			a.FileType = s
		}
	}
	if v, ok := r.Value("FileFlags"); ok {
		if n, ok := v.(int32); ok {
			a.Flags = AttachmentFlags(n)
		}
	}
	if v, ok := r.Value("FileTimeStamp"); ok {
		if t, ok := v.(time.Time); ok {
			a.ModifiedAt = t
		}
	}
	if v, ok := r.Value("FileData"); ok {
		if b, ok := v.([]byte); ok {
			a.Data = b
		}
	}
	return a, nil
}

// EncodeAttachment produces the column values a host should write for a as
// a new or updated child row.
func EncodeAttachment(a Attachment) (map[string]interface{}, error) {
	if a.FileName == "" {
		return nil, fmt.Errorf("complexcolumn: attachment requires a FileName")
	}
	id := a.ID
	if id == uuid.Nil {
		var err error
		id, err = uuid.NewV4()
		if err != nil {
			return nil, fmt.Errorf("complexcolumn: generating attachment id: %w", err)
		}
	}
	return map[string]interface{}{
		"ComplexID":     a.ComplexID,
		"Gen_ID":        id.String(),
		"FileName":      a.FileName,
		"FileType":      a.FileType,
		"FileFlags":     int32(a.Flags),
		"FileTimeStamp": a.ModifiedAt,
		"FileData":      a.Data,
	}, nil
}
