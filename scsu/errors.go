package scsu

import (
	"errors"
	"fmt"
)

// ErrEndOfInput signals that the byte stream ended in the middle of a
// multi-byte command; the caller may supply more bytes and retry. This is
// recoverable, unlike ErrIllegalInput.
var ErrEndOfInput = errors.New("scsu: end of input mid-command")

// ErrEndOfOutput names the condition of a destination buffer filling up
// before the input is exhausted. Encoder.EncodeInto does not return it; it
// reports that condition as the NeedMoreOutput result instead.
var ErrEndOfOutput = errors.New("scsu: end of output buffer")

// ErrIllegalInput signals a byte sequence that can never be valid SCSU: a
// reserved command byte, a zero window offset, or an unpaired surrogate.
// Unrecoverable for the current stream.
var ErrIllegalInput = errors.New("scsu: illegal input")

// ErrUnpairedSurrogate is a more specific ErrIllegalInput, reported when a
// high surrogate is not immediately followed by a matching low surrogate.
var ErrUnpairedSurrogate = fmt.Errorf("%w: unpaired surrogate", ErrIllegalInput)
