package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMustParseCallsFlagsInvalidLiteral(t *testing.T) {
	pkgs, err := LoadPackages("../testfixtures/lintfixture")
	require.NoError(t, err)

	diags := CheckMustParseCalls(pkgs)
	require.Len(t, diags, 1)
	assert.Equal(t, "[Age] >", diags[0].Expression)
	assert.Error(t, diags[0].Err)
	assert.Contains(t, diags[0].String(), "MustParse")
}
