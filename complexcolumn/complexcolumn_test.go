package complexcolumn

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAttachmentRoundTrips(t *testing.T) {
	id, err := uuid.NewV4()
	require.NoError(t, err)
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	row := mapRow{
		"ComplexID":     int64(7),
		"Gen_ID":        id.String(),
		"FileName":      "invoice.pdf",
		"FileType":      "application/pdf",
		"FileFlags":     int32(AttachmentCompressed),
		"FileTimeStamp": ts,
		"FileData":      []byte{1, 2, 3},
	}

	a, err := DecodeAttachment(row)
	require.NoError(t, err)
	assert.Equal(t, int64(7), a.ComplexID)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, "invoice.pdf", a.FileName)
	assert.Equal(t, AttachmentCompressed, a.Flags)
	assert.Equal(t, ts, a.ModifiedAt)
	assert.Equal(t, []byte{1, 2, 3}, a.Data)

	encoded, err := EncodeAttachment(a)
	require.NoError(t, err)
	assert.Equal(t, id.String(), encoded["Gen_ID"])
	assert.Equal(t, "invoice.pdf", encoded["FileName"])
}

func TestEncodeAttachmentRequiresFileName(t *testing.T) {
	_, err := EncodeAttachment(Attachment{ComplexID: 1})
	assert.Error(t, err)
}

func TestEncodeAttachmentAssignsIDWhenMissing(t *testing.T) {
	encoded, err := EncodeAttachment(Attachment{ComplexID: 1, FileName: "x.txt"})
	require.NoError(t, err)
	assert.NotEmpty(t, encoded["Gen_ID"])
}

func TestVersionHistorySortsOldestFirst(t *testing.T) {
	older := VersionEntry{Value: "first draft", ModifiedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := VersionEntry{Value: "final", ModifiedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}

	sorted := SortVersionHistory([]VersionEntry{newer, older})
	assert.Equal(t, "first draft", sorted[0].Value)
	assert.Equal(t, "final", sorted[1].Value)
}

func TestDecodeMultiValueEntryPrefersLookupKey(t *testing.T) {
	id, err := uuid.NewV4()
	require.NoError(t, err)
	row := mapRow{
		"ComplexID": int64(3),
		"Gen_ID":    id.String(),
		"Order":     int64(2),
		"LookupKey": int64(42),
	}
	e, err := DecodeMultiValueEntry(row)
	require.NoError(t, err)
	require.NotNil(t, e.LookupKey)
	assert.Equal(t, int64(42), *e.LookupKey)
	assert.Nil(t, e.Literal)
}

func TestDecodeMultiValueEntryMissingBothIsError(t *testing.T) {
	id, err := uuid.NewV4()
	require.NoError(t, err)
	row := mapRow{
		"ComplexID": int64(3),
		"Gen_ID":    id.String(),
		"Order":     int64(2),
	}
	_, err = DecodeMultiValueEntry(row)
	assert.Error(t, err)
}

func TestSortMultiValueEntriesByOrder(t *testing.T) {
	a := MultiValueEntry{Order: 2, Literal: "b"}
	b := MultiValueEntry{Order: 1, Literal: "a"}
	sorted := SortMultiValueEntries([]MultiValueEntry{a, b})
	assert.Equal(t, int32(1), sorted[0].Order)
	assert.Equal(t, int32(2), sorted[1].Order)
}
