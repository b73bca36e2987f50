package jackcessgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahlborn/jackcessgo/expr"
	"github.com/jahlborn/jackcessgo/query"
)

func TestFacadeEncodeDecodeRoundTrips(t *testing.T) {
	f := New(Options{})
	encoded, err := f.EncodeText("Hello, АБВ")
	require.NoError(t, err)
	decoded, err := f.DecodeText(encoded)
	require.NoError(t, err)
	assert.Equal(t, "Hello, АБВ", decoded)
}

func TestFacadeReconstructQuery(t *testing.T) {
	f := New(Options{})
	flag := int16(query.Select)
	rows := query.RowSet{
		{Attribute: query.AttrType, Flag: &flag},
		{Attribute: query.AttrTable, Name1: strPtr("Customers")},
		{Attribute: query.AttrColumn, Expression: strPtr("ID")},
	}
	result := f.ReconstructQuery("qCustomers", query.Select, rows)
	assert.False(t, result.Unknown)
	assert.Equal(t, "SELECT ID FROM Customers\nWITH OWNERACCESS OPTION;", result.SQL)
}

func TestFacadeEvaluate(t *testing.T) {
	f := New(Options{})
	ctx := f.NewMapContext(map[string]expr.Value{})
	v, err := f.Evaluate(expr.DefaultValue, `2 + 3 * 4`, ctx)
	require.NoError(t, err)
	l, ok := v.AsLong()
	require.True(t, ok)
	assert.Equal(t, int64(14), l)
}

func TestFacadeEvaluateWrapsParseError(t *testing.T) {
	f := New(Options{})
	ctx := f.NewMapContext(map[string]expr.Value{})
	_, err := f.Evaluate(expr.DefaultValue, `1 +`, ctx)
	require.Error(t, err)
	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "parse", evalErr.Op)
}

func strPtr(s string) *string { return &s }
