package scsu

import "unicode/utf16"

// Result reports whether an EncodeInto call drained its input or stopped
// because the destination buffer filled up, rather than signalling that
// condition as an exception the caller must catch.
type Result int

const (
	// Done means all input runes were translated into dst.
	Done Result = iota
	// NeedMoreOutput means dst filled before the input was exhausted. The
	// caller should supply a fresh (or larger) buffer and call again; the
	// Encoder's input cursor and window state are unchanged, so the next
	// call picks up exactly where this one stopped.
	NeedMoreOutput
)

// Encoder holds the mutable window/cursor/mode state for one encode pass.
// Not safe for concurrent use. The zero value is not ready; use NewEncoder.
//
// The round-robin "next window to allocate" counter (nextAlloc) is a field
// of Encoder rather than a package-level counter, so two Encoders running
// concurrently never interleave window allocation.
type Encoder struct {
	dynamicOffset [8]int32
	currentWindow int
	nextAlloc     int

	runes []rune
	pos   int

	inUnicodeMode bool
	scuMark       int // output index of a not-yet-committed single-char SCU, -1 if none
	unicodeRunLen int

	out    []byte
	outPos int
}

// NewEncoder returns an Encoder primed with the default window state and
// bound to the given input. Use Reset to reuse the Encoder for new input.
func NewEncoder(input string) *Encoder {
	e := &Encoder{}
	e.Reset(input)
	return e
}

// Reset restores all window/cursor/mode state to its initial values and
// rebinds the encoder to new input (§3.1 reset()).
func (e *Encoder) Reset(input string) {
	e.dynamicOffset = initialDynamicOffset
	e.currentWindow = 0
	e.nextAlloc = 0
	e.runes = []rune(input)
	e.pos = 0
	e.inUnicodeMode = false
	e.scuMark = -1
	e.unicodeRunLen = 0
}

// Done reports whether the encoder has consumed all of its input.
func (e *Encoder) Done() bool {
	return e.pos >= len(e.runes)
}

func (e *Encoder) fits(n int) bool {
	return len(e.out)-e.outPos >= n
}

func (e *Encoder) write(b ...byte) {
	e.outPos += copy(e.out[e.outPos:], b)
}

// EncodeInto translates as much remaining input as fits into dst, starting
// at dst[0]. Call again with a fresh buffer (same Encoder) when the result
// is NeedMoreOutput.
func (e *Encoder) EncodeInto(dst []byte) (n int, result Result, err error) {
	e.out = dst
	e.outPos = 0

	for !e.Done() {
		ok, err := e.step()
		if err != nil {
			return e.outPos, Done, err
		}
		if !ok {
			return e.outPos, NeedMoreOutput, nil
		}
	}
	return e.outPos, Done, nil
}

// step performs one unit of work: either it fully consumes e.runes[e.pos]
// (possibly emitting preliminary window-switch bytes first) or it performs
// nothing and reports ok=false because dst has no room left. On ok=false no
// encoder state is mutated, so a retry against a bigger buffer is safe.
func (e *Encoder) step() (ok bool, err error) {
	r := e.runes[e.pos]

	if e.inUnicodeMode {
		return e.stepUnicodeMode(r)
	}
	return e.stepSingleByteMode(r)
}

const (
	cr  rune = 0x0D
	lf  rune = 0x0A
	tab rune = 0x09
	nul rune = 0x00
)

func isAsciiPassthrough(r rune) bool {
	if r == cr || r == lf || r == tab || r == nul {
		return true
	}
	return r >= 0x20 && r < 0x7F
}

func (e *Encoder) stepSingleByteMode(r rune) (bool, error) {
	switch {
	case isAsciiPassthrough(r):
		if !e.fits(1) {
			return false, nil
		}
		e.write(byte(r))
		e.pos++
		return true, nil

	case r < 0x80:
		// other C0 controls: always quoted via SQ0, never left raw
		if !e.fits(2) {
			return false, nil
		}
		e.write(sq0, byte(r))
		e.pos++
		return true, nil

	case e.fitsWindow(e.currentWindow, r):
		if !e.fits(1) {
			return false, nil
		}
		e.write(e.relativeByte(e.currentWindow, r))
		e.pos++
		return true, nil

	case !isCompressible(r):
		return e.enterUnicodeRun(r)

	default:
		return e.switchWindowAndQuote(r)
	}
}

func (e *Encoder) fitsWindow(window int, r rune) bool {
	off := e.dynamicOffset[window]
	return int32(r) >= off && int32(r) < off+128
}

func (e *Encoder) relativeByte(window int, r rune) byte {
	return byte(int32(r)-e.dynamicOffset[window]) + 0x80
}

// switchWindowAndQuote implements §4.1's window-selection order: try all
// dynamic windows (with the SCn/SQn lookahead trade-off), else a static
// window via SQn, else allocate a new dynamic window, else fall back to a
// Unicode run.
func (e *Encoder) switchWindowAndQuote(r rune) (bool, error) {
	if w, found := e.findDynamicWindow(r); found {
		if e.nextCharWouldFit(e.currentWindow) {
			// Quote-in-place rather than thrash the active window for a
			// single one-off character.
			if !e.fits(2) {
				return false, nil
			}
			e.write(sq0+byte(w), e.relativeByte(w, r))
			e.pos++
			return true, nil
		}

		if !e.fits(2) {
			return false, nil
		}
		e.write(sc0+byte(w), e.relativeByte(w, r))
		e.currentWindow = w
		e.pos++
		return true, nil
	}

	if w, data, found := e.findStaticWindow(r); found {
		if !e.fits(2) {
			return false, nil
		}
		e.write(sq0+byte(w), data)
		e.pos++
		return true, nil
	}

	if plan, ok := e.planNewWindow(r); ok {
		need := len(plan.bytes) + 1
		if !e.fits(need) {
			return false, nil
		}
		e.write(plan.bytes...)
		e.applyPlan(plan)
		e.write(e.relativeByte(e.currentWindow, r))
		e.pos++
		return true, nil
	}

	// Nothing fits a window (e.g. r is in the non-localized gap and was
	// mis-classified, or all fixed slots failed): fall back to Unicode mode.
	return e.enterUnicodeRun(r)
}

// findDynamicWindow searches the 8 dynamic windows (current one excluded,
// already checked by the caller) for one that already contains r.
func (e *Encoder) findDynamicWindow(r rune) (window int, found bool) {
	for w := 0; w < 8; w++ {
		if w == e.currentWindow {
			continue
		}
		if e.fitsWindow(w, r) {
			return w, true
		}
	}
	return 0, false
}

// findStaticWindow looks for a static window containing r and returns the
// SQn quote-data byte (below 0x80) that addresses r in it. Dynamic windows
// are searched by findDynamicWindow, not here.
func (e *Encoder) findStaticWindow(r rune) (window int, data byte, found bool) {
	for w := 0; w < 8; w++ {
		off := staticOffset[w]
		if int32(r) >= off && int32(r) < off+128 {
			return w, byte(int32(r) - off), true
		}
	}
	return 0, 0, false
}

// nextCharWouldFit peeks past the rune currently being encoded (skipping
// runs of plain ASCII, which fit any window) to see whether the *next*
// window-sensitive character still belongs to window.
func (e *Encoder) nextCharWouldFit(window int) bool {
	for i := e.pos + 1; i < len(e.runes); i++ {
		c := e.runes[i]
		if isAsciiPassthrough(c) || c < 0x80 {
			continue
		}
		return e.fitsWindow(window, c)
	}
	return false
}

type windowPlan struct {
	bytes    []byte
	window   int
	offset   int32
	extended bool
}

// planNewWindow computes the command bytes needed to redefine some dynamic
// window (round-robin, per Open Question (a)) so that it contains r,
// following the fixed-offset table, half-block quantization, and extended
// (supplementary-plane) forms described in §4.1.
func (e *Encoder) planNewWindow(r rune) (windowPlan, bool) {
	w := e.nextAlloc

	if r >= 0x10000 {
		blockStart := (int32(r) - 0x10000) &^ 0x7F
		arg := uint16(w<<13) | uint16(blockStart>>7)
		return windowPlan{
			bytes:    []byte{sdx, byte(arg >> 8), byte(arg)},
			window:   w,
			offset:   blockStart + 0x10000,
			extended: true,
		}, true
	}

	for i, fo := range fixedOffset {
		if int32(r) >= fo && int32(r) < fo+128 {
			return windowPlan{
				bytes:  []byte{sd0 + byte(w), fixedThreshold + byte(i)},
				window: w,
				offset: fo,
			}, true
		}
	}

	blockStart := int32(r) &^ 0x7F
	switch {
	case blockStart < 0x3400:
		offsetByte := byte(blockStart >> 7)
		return windowPlan{
			bytes:  []byte{sd0 + byte(w), offsetByte},
			window: w,
			offset: blockStart,
		}, true
	case blockStart >= 0xE000 && blockStart < int32(gapOffset)+(int32(reservedStart)<<7):
		offsetByte := byte((blockStart - gapOffset) >> 7)
		return windowPlan{
			bytes:  []byte{sd0 + byte(w), offsetByte},
			window: w,
			offset: blockStart,
		}, true
	}

	return windowPlan{}, false
}

func (e *Encoder) applyPlan(p windowPlan) {
	e.dynamicOffset[p.window] = p.offset
	e.currentWindow = p.window
	e.nextAlloc = (p.window + 1) % 8
}

// enterUnicodeRun begins (or continues) a Unicode-mode run starting with r.
// It implements the run-length optimisation of §4.1: a run that ends up
// exactly one character long gets its opening SCU rewritten to SQU so the
// encoder can stay in single-byte mode.
func (e *Encoder) enterUnicodeRun(r rune) (bool, error) {
	if !e.inUnicodeMode {
		// SCU and the first character are written together, so a full
		// buffer leaves the encoder untouched.
		need := 3
		if r > 0xFFFF {
			need = 5
		} else if r >= 0xE000 && r <= 0xF2FF {
			need = 4
		}
		if !e.fits(need) {
			return false, nil
		}
		e.scuMark = e.outPos
		e.write(scu)
		e.inUnicodeMode = true
		e.unicodeRunLen = 0
	}
	return e.stepUnicodeMode(r)
}

func (e *Encoder) stepUnicodeMode(r rune) (bool, error) {
	if isCompressible(r) && e.unicodeRunLen > 0 && isCompressible(e.runes[e.pos-1]) {
		// Two consecutive compressible characters: break the run and hand
		// control back to single-byte mode for both of them.
		return e.exitUnicodeRun()
	}

	need := 2
	escapeGap := r >= 0xE000 && r <= 0xF2FF
	if escapeGap {
		need = 3
	}
	if r > 0xFFFF {
		need = 4 // surrogate pair, two UTF-16 units
	}
	if !e.fits(need) {
		return false, nil
	}

	switch {
	case escapeGap:
		e.write(uqu, byte(r>>8), byte(r))
	case r > 0xFFFF:
		hi, lo := utf16.EncodeRune(r)
		e.write(byte(hi>>8), byte(hi), byte(lo>>8), byte(lo))
	default:
		e.write(byte(r>>8), byte(r))
	}

	e.unicodeRunLen++
	e.pos++

	if e.unicodeRunLen == 1 && e.pos < len(e.runes) {
		next := e.runes[e.pos]
		if isCompressible(next) {
			// A single character was enough: rewrite SCU -> SQU and drop
			// back to single-byte mode without an explicit UCn command.
			e.out[e.scuMark] = squ
			e.inUnicodeMode = false
			e.scuMark = -1
			e.unicodeRunLen = 0
		}
	}
	return true, nil
}

// exitUnicodeRun leaves Unicode mode with a single UCn/UDn/UDX command that
// both selects (and if necessary redefines) a dynamic window for the
// upcoming compressible character and switches back to single-byte mode.
// No rune is consumed here; the caller's main loop re-enters
// stepSingleByteMode for the same rune next iteration.
func (e *Encoder) exitUnicodeRun() (bool, error) {
	r := e.runes[e.pos]

	// Characters below 0x80 need no window in single-byte mode.
	if r < 0x80 || e.fitsWindow(e.currentWindow, r) {
		if !e.fits(1) {
			return false, nil
		}
		e.write(uc0 + byte(e.currentWindow))
		e.inUnicodeMode = false
		e.scuMark = -1
		e.unicodeRunLen = 0
		return true, nil
	}

	if w, found := e.findDynamicWindow(r); found {
		if !e.fits(1) {
			return false, nil
		}
		e.write(uc0 + byte(w))
		e.currentWindow = w
		e.inUnicodeMode = false
		e.scuMark = -1
		e.unicodeRunLen = 0
		return true, nil
	}

	if plan, ok := e.planNewWindow(r); ok {
		bytes := make([]byte, len(plan.bytes))
		copy(bytes, plan.bytes)
		if plan.extended {
			bytes[0] = udx // UDX and SDX share the same 2-byte argument form
		} else {
			bytes[0] = ud0 + byte(plan.window)
		}
		if !e.fits(len(bytes)) {
			return false, nil
		}
		e.write(bytes...)
		e.applyPlan(plan)
		e.inUnicodeMode = false
		e.scuMark = -1
		e.unicodeRunLen = 0
		return true, nil
	}

	// r cannot be placed in any window (shouldn't happen for a compressible
	// rune); keep it in the Unicode run rather than losing data.
	e.unicodeRunLen = 0
	return e.stepUnicodeMode(r)
}

// Encode fully encodes s into a freshly allocated byte slice, growing the
// destination buffer as needed. This is the convenience entry point for
// callers that do not need the resumable EncodeInto cursor protocol.
func Encode(s string) ([]byte, error) {
	e := NewEncoder(s)
	buf := make([]byte, 0, len(s)+8)
	chunk := make([]byte, 256)

	for {
		n, result, err := e.EncodeInto(chunk)
		if err != nil {
			return nil, err
		}
		buf = append(buf, chunk[:n]...)
		if result == Done {
			return buf, nil
		}
		// NeedMoreOutput with a reusable fixed chunk just means "call
		// again"; growth only matters for EncodeInto callers managing
		// their own destination buffer.
	}
}
