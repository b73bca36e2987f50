package scsu

import (
	"strings"
	"unicode/utf16"
)

// Decoder holds the mutable window/cursor state for one decode pass.
// Not safe for concurrent use. The zero value is not ready; use NewDecoder.
type Decoder struct {
	dynamicOffset [8]int32
	currentWindow int

	input  []byte
	pos    int
	inUnicodeMode bool
}

// NewDecoder returns a Decoder primed with the default window state and
// bound to input. Use Reset to reuse the Decoder with new input.
func NewDecoder(input []byte) *Decoder {
	d := &Decoder{}
	d.Reset(input)
	return d
}

// Reset restores all window/mode state to its initial values and rebinds
// the decoder to a new input buffer (per §3.1, reset() restores initial
// state).
func (d *Decoder) Reset(input []byte) {
	d.dynamicOffset = initialDynamicOffset
	d.currentWindow = 0
	d.input = input
	d.pos = 0
	d.inUnicodeMode = false
}

func (d *Decoder) readByte() (byte, bool) {
	if d.pos >= len(d.input) {
		return 0, false
	}
	b := d.input[d.pos]
	d.pos++
	return b, true
}

func (d *Decoder) readUint16() (uint16, error) {
	hi, ok := d.readByte()
	if !ok {
		return 0, ErrEndOfInput
	}
	lo, ok := d.readByte()
	if !ok {
		return 0, ErrEndOfInput
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// defineWindow implements the shared SDn/UDn window (re)positioning rule
// from §4.1: values below gapThreshold are half-block multiples, values in
// the gap skip the poorly-localized 0x3400-0xDFFF region, and values at or
// above fixedThreshold select one of the fixed offsets.
func (d *Decoder) defineWindow(window int, offset byte) error {
	switch {
	case offset == 0:
		return ErrIllegalInput
	case offset < gapThreshold:
		d.dynamicOffset[window] = int32(offset) << 7
	case offset < reservedStart:
		d.dynamicOffset[window] = (int32(offset) << 7) + gapOffset
	case offset < fixedThreshold:
		return ErrIllegalInput
	default:
		d.dynamicOffset[window] = fixedOffset[offset-fixedThreshold]
	}
	d.currentWindow = window
	return nil
}

// defineExtendedWindow implements SDX/UDX: the top 3 bits of the 16-bit
// argument select the window, the low 13 bits shift left by 7 to produce an
// offset at or beyond 0x10000 (supplementary plane access via the
// surrogate-pair trick described in §4.1).
func (d *Decoder) defineExtendedWindow(arg uint16) {
	window := int(arg >> 13)
	d.dynamicOffset[window] = ((int32(arg) & 0x1FFF) << 7) + 0x10000
	d.currentWindow = window
}

// nextRune decodes one output rune. Returns ok=false with err=nil at a clean
// end of input (no command in progress).
func (d *Decoder) nextRune() (r rune, ok bool, err error) {
	for {
		if d.inUnicodeMode {
			r, ok, err = d.nextUnicodeModeRune()
		} else {
			r, ok, err = d.nextSingleByteModeRune()
		}
		if err != nil || ok {
			return r, ok, err
		}
		// A mode-switch command (SCU, SCn, SDn, SDX, ...) was consumed with
		// nothing to emit yet. If that drained the input, this is a clean
		// end of stream; otherwise keep decoding in the (possibly new) mode.
		if d.pos >= len(d.input) {
			return 0, false, nil
		}
	}
}

func (d *Decoder) nextSingleByteModeRune() (rune, bool, error) {
	b, ok := d.readByte()
	if !ok {
		return 0, false, nil
	}

	switch {
	case b == sq0, b == sq1, b == sq2, b == sq3, b == sq4, b == sq5, b == sq6, b == sq7:
		window := int(b - sq0)
		data, ok := d.readByte()
		if !ok {
			return 0, false, ErrEndOfInput
		}
		if data < 0x80 {
			return rune(int32(data) + staticOffset[window]), true, nil
		}
		return rune(int32(data-0x80) + d.dynamicOffset[window]), true, nil
	case b == sdx:
		arg, err := d.readUint16()
		if err != nil {
			return 0, false, err
		}
		d.defineExtendedWindow(arg)
		return 0, false, nil
	case b == squ:
		v, err := d.readUint16()
		if err != nil {
			return 0, false, err
		}
		return d.combineSurrogateIfNeeded(rune(v))
	case b == scu:
		d.inUnicodeMode = true
		return 0, false, nil
	case b >= sc0 && b <= sc7:
		d.currentWindow = int(b - sc0)
		return 0, false, nil
	case b >= sd0 && b <= sd7:
		offset, ok := d.readByte()
		if !ok {
			return 0, false, ErrEndOfInput
		}
		if err := d.defineWindow(int(b-sd0), offset); err != nil {
			return 0, false, err
		}
		return 0, false, nil
	case b == srs:
		return 0, false, ErrIllegalInput
	case b < 0x80:
		// ASCII letters and CR/LF/TAB always pass through unquoted; other
		// control bytes below 0x80 are likewise emitted verbatim here
		// (the encoder only ever quotes them with SQ0, never leaves them
		// raw, but the decoder must still accept any legal stream).
		return rune(b), true, nil
	default:
		scalar := int32(b-0x80) + d.dynamicOffset[d.currentWindow]
		return d.combineSurrogateIfNeeded(rune(scalar))
	}
}

func (d *Decoder) nextUnicodeModeRune() (rune, bool, error) {
	b, ok := d.readByte()
	if !ok {
		return 0, false, nil
	}

	switch {
	case b >= uc0 && b <= uc7:
		d.currentWindow = int(b - uc0)
		d.inUnicodeMode = false
		return 0, false, nil
	case b >= ud0 && b <= ud7:
		offset, ok := d.readByte()
		if !ok {
			return 0, false, ErrEndOfInput
		}
		if err := d.defineWindow(int(b-ud0), offset); err != nil {
			return 0, false, err
		}
		d.inUnicodeMode = false
		return 0, false, nil
	case b == udx:
		arg, err := d.readUint16()
		if err != nil {
			return 0, false, err
		}
		d.defineExtendedWindow(arg)
		d.inUnicodeMode = false
		return 0, false, nil
	case b == uqu:
		v, err := d.readUint16()
		if err != nil {
			return 0, false, err
		}
		return d.combineSurrogateIfNeeded(rune(v))
	case b == urs:
		return 0, false, ErrIllegalInput
	default:
		lo, ok := d.readByte()
		if !ok {
			return 0, false, ErrEndOfInput
		}
		v := uint16(b)<<8 | uint16(lo)
		return d.combineSurrogateIfNeeded(rune(v))
	}
}

// combineSurrogateIfNeeded folds a lone high surrogate scalar into a full
// code point by reading the matching low surrogate from whichever mode is
// currently active, per §4.1 ("if the resulting scalar exceeds 0xFFFF it is
// emitted as a surrogate pair").
func (d *Decoder) combineSurrogateIfNeeded(v rune) (rune, bool, error) {
	if !utf16.IsSurrogate(v) {
		return v, true, nil
	}
	if v >= 0xDC00 {
		// a low surrogate with no preceding high surrogate
		return 0, false, ErrUnpairedSurrogate
	}
	lo, err := d.readUint16()
	if err != nil {
		return 0, false, err
	}
	combined := utf16.DecodeRune(v, rune(lo))
	if combined == 0xFFFD {
		return 0, false, ErrUnpairedSurrogate
	}
	return combined, true, nil
}

// Decode fully decodes input, returning the decoded string. Any command left
// truncated at the true end of input is reported as ErrIllegalInput, per
// §4.1 ("a trailing, truncated command is an error"); use ReadRune directly
// to distinguish a genuinely recoverable EndOfInput when input may be fed
// incrementally.
func (d *Decoder) Decode() (string, error) {
	var sb strings.Builder
	for {
		r, ok, err := d.nextRune()
		if err != nil {
			if err == ErrEndOfInput {
				return sb.String(), ErrIllegalInput
			}
			return sb.String(), err
		}
		if !ok {
			return sb.String(), nil
		}
		sb.WriteRune(r)
	}
}

// ReadRune decodes and returns the next rune together with the number of
// input bytes it consumed. err is nil and ok is false only at a clean end of
// input (no command in progress) -- this is the recoverable case for
// streaming callers that may append more bytes and call again.
func (d *Decoder) ReadRune() (r rune, n int, ok bool, err error) {
	start := d.pos
	r, ok, err = d.nextRune()
	return r, d.pos - start, ok, err
}

// Decode decodes a complete SCSU byte stream into a string.
func Decode(b []byte) (string, error) {
	return NewDecoder(b).Decode()
}
