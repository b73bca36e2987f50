// Package scsu implements the Standard Compression Scheme for Unicode
// (Unicode Technical Report #6): a bijective transform between UTF-16 text
// and a byte stream that stays close to plain ASCII for Latin text and packs
// other scripts into 128-code-point sliding windows.
package scsu

// Single-byte mode command bytes.
const (
	sq0 byte = 0x01 // quote one char from (static or dynamic) window 0
	sq1 byte = 0x02
	sq2 byte = 0x03
	sq3 byte = 0x04
	sq4 byte = 0x05
	sq5 byte = 0x06
	sq6 byte = 0x07
	sq7 byte = 0x08
	srs byte = 0x0C // reserved
	sdx byte = 0x0B // define extended window
	squ byte = 0x0E // quote one raw Unicode character
	scu byte = 0x0F // switch to Unicode mode
	sc0 byte = 0x10 // select dynamic window 0
	sc1 byte = 0x11
	sc2 byte = 0x12
	sc3 byte = 0x13
	sc4 byte = 0x14
	sc5 byte = 0x15
	sc6 byte = 0x16
	sc7 byte = 0x17
	sd0 byte = 0x18 // define & select dynamic window 0
	sd1 byte = 0x19
	sd2 byte = 0x1A
	sd3 byte = 0x1B
	sd4 byte = 0x1C
	sd5 byte = 0x1D
	sd6 byte = 0x1E
	sd7 byte = 0x1F
)

// Unicode mode command bytes.
const (
	uc0 byte = 0xE0
	uc1 byte = 0xE1
	uc2 byte = 0xE2
	uc3 byte = 0xE3
	uc4 byte = 0xE4
	uc5 byte = 0xE5
	uc6 byte = 0xE6
	uc7 byte = 0xE7
	ud0 byte = 0xE8
	ud1 byte = 0xE9
	ud2 byte = 0xEA
	ud3 byte = 0xEB
	ud4 byte = 0xEC
	ud5 byte = 0xED
	ud6 byte = 0xEE
	ud7 byte = 0xEF
	uqu byte = 0xF0
	udx byte = 0xF1
	urs byte = 0xF2 // reserved
)

// Bit-exact window tables, per the SCSU spec and UTR #6 Annex.
var staticOffset = [8]int32{
	0x0000, 0x0080, 0x0100, 0x0300, 0x2000, 0x2080, 0x2100, 0x3000,
}

var initialDynamicOffset = [8]int32{
	0x0080, 0x00C0, 0x0400, 0x0600, 0x0900, 0x3040, 0x30A0, 0xFF00,
}

// fixedOffset is indexed by (offsetByte - fixedThreshold), offsetByte in [0xF9, 0xFF].
var fixedOffset = [7]int32{
	0x00C0, 0x0250, 0x0370, 0x0530, 0x3040, 0x30A0, 0xFF60,
}

const (
	gapThreshold   byte = 0x68
	gapOffset      int32 = 0xAC00
	reservedStart  byte = 0xA8
	fixedThreshold byte = 0xF9
)

// isCompressible reports whether a code point falls in the "short run
// alphabet" range that the windowing scheme targets, per §4.1/GLOSSARY:
// scalar < 0x3400 or >= 0xE000 is compressible.
func isCompressible(r rune) bool {
	return r < 0x3400 || r >= 0xE000
}
