package scsu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, s string) string {
	t.Helper()
	encoded, err := Encode(s)
	require.NoError(t, err)
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, s, decoded, "round trip mismatch for %q (encoded % x)", s, encoded)
	return decoded
}

func TestAsciiEncodesByteForByte(t *testing.T) {
	encoded, err := Encode("Hello")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x48, 0x65, 0x6C, 0x6C, 0x6F}, encoded)
	roundTrip(t, "Hello")
}

func TestAsciiCompressionIsNoWorseThanInput(t *testing.T) {
	s := "The quick brown fox jumps over the lazy dog."
	encoded, err := Encode(s)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(encoded), len(s))
}

func TestCyrillicRoundTrips(t *testing.T) {
	s := string([]rune{0x0410, 0x0411, 0x0412})
	encoded, err := Encode(s)
	require.NoError(t, err)
	// after window selection, each subsequent char is one byte in 0x80-0xFF
	assert.GreaterOrEqual(t, len(encoded), 3)
	roundTrip(t, s)
}

func TestSingleWindowStringCompressesWithinBudget(t *testing.T) {
	s := string([]rune{0x0410, 0x0411, 0x0412, 0x0413, 0x0414})
	encoded, err := Encode(s)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(encoded), len(s)*2+2)
}

func TestMixedAsciiAndCyrillic(t *testing.T) {
	roundTrip(t, "Hello АБВ world")
}

func TestControlCharactersAreQuoted(t *testing.T) {
	s := "a\x01b\x0cc"
	encoded, err := Encode(s)
	require.NoError(t, err)
	roundTrip(t, s)
	assert.Contains(t, string(encoded), "a")
}

func TestCRLFTabPassThroughUnquoted(t *testing.T) {
	s := "line1\r\nline2\ttabbed"
	encoded, err := Encode(s)
	require.NoError(t, err)
	for _, b := range encoded {
		assert.NotEqual(t, byte(sq0), b)
	}
	roundTrip(t, s)
}

func TestNonCompressibleCJKUsesUnicodeMode(t *testing.T) {
	s := string([]rune{0x4E2D, 0x6587}) // "中文"
	roundTrip(t, s)
}

func TestGapRangeCharactersEscapeWithUQU(t *testing.T) {
	s := string([]rune{0xE001, 0xF2FE})
	roundTrip(t, s)

	// inside a Unicode-mode run a gap character is quoted with UQU
	inRun := string([]rune{0x4E2D, 0x6587, 0xE001, 0x6587})
	encoded, err := Encode(inRun)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), string([]byte{uqu, 0xE0, 0x01}))
	roundTrip(t, inRun)
}

func TestSupplementaryPlaneRoundTrips(t *testing.T) {
	s := string([]rune{0x10400, 0x10401, 0x10402}) // Deseret block
	roundTrip(t, s)
}

func TestSingleUnicodeCharacterThenAsciiRewritesToSQU(t *testing.T) {
	s := string([]rune{0x4E2D}) + "abc"
	encoded, err := Encode(s)
	require.NoError(t, err)
	assert.Equal(t, byte(squ), encoded[0])
	roundTrip(t, s)
}

func TestLongMixedStringRoundTrips(t *testing.T) {
	var s string
	for i := 0; i < 50; i++ {
		s += "The café costs €3.50 today 中文 "
	}
	roundTrip(t, s)
}

func TestDecodeRejectsReservedCommand(t *testing.T) {
	_, err := Decode([]byte{byte(srs)})
	assert.ErrorIs(t, err, ErrIllegalInput)
}

func TestDecodeRejectsUnpairedHighSurrogate(t *testing.T) {
	_, err := Decode([]byte{squ, 0xD8, 0x00})
	assert.ErrorIs(t, err, ErrIllegalInput)
}

func TestDecodeTruncatedCommandIsIllegalInput(t *testing.T) {
	_, err := Decode([]byte{sd0})
	assert.ErrorIs(t, err, ErrIllegalInput)
}

func TestEncodeIntoResumesAcrossSmallBuffers(t *testing.T) {
	s := "Hello АБВ world, 中文 more text to push past a tiny buffer."
	e := NewEncoder(s)
	var out []byte
	buf := make([]byte, 3)
	for {
		n, result, err := e.EncodeInto(buf)
		require.NoError(t, err)
		out = append(out, buf[:n]...)
		if result == Done {
			break
		}
	}
	decoded, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, s, decoded)
}

func TestEmptyStringRoundTrips(t *testing.T) {
	roundTrip(t, "")
}
