// Package expr parses and evaluates Access field expressions -- defaults,
// validators, and row-source formulas -- plus the Format() family of
// pattern-driven formatters. Parsing is a pure function of its inputs;
// evaluation reads from a host-supplied Context and never touches page or
// cursor I/O.
package expr

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the dynamic type a Value currently holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindLong
	KindDouble
	KindDecimal
	KindString
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Boolean"
	case KindLong:
		return "Long"
	case KindDouble:
		return "Double"
	case KindDecimal:
		return "Decimal"
	case KindString:
		return "String"
	case KindDateTime:
		return "Date"
	default:
		return "Unknown"
	}
}

// Value is the tagged variant every expression node evaluates to.
type Value struct {
	kind Kind
	b    bool
	l    int64
	d    float64
	dec  decimal.Decimal
	s    string
	t    time.Time
}

func Null() Value                { return Value{kind: KindNull} }
func Bool(b bool) Value          { return Value{kind: KindBool, b: b} }
func Long(l int64) Value         { return Value{kind: KindLong, l: l} }
func Double(d float64) Value     { return Value{kind: KindDouble, d: d} }
func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, dec: d} }
func String(s string) Value      { return Value{kind: KindString, s: s} }
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsNull() bool  { return v.kind == KindNull }

// AsBool coerces to boolean: non-zero numbers and "True"/"Yes"/"On" are
// true; null is false.
func (v Value) AsBool() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindLong:
		return v.l != 0
	case KindDouble:
		return v.d != 0
	case KindDecimal:
		return !v.dec.IsZero()
	case KindString:
		switch strings.ToLower(strings.TrimSpace(v.s)) {
		case "true", "yes", "on", "-1":
			return true
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		return err == nil && n != 0
	default:
		return false
	}
}

// AsDouble coerces to a floating point number; a non-numeric string
// reports ok=false.
func (v Value) AsDouble() (float64, bool) {
	switch v.kind {
	case KindLong:
		return float64(v.l), true
	case KindDouble:
		return v.d, true
	case KindDecimal:
		f, _ := v.dec.Float64()
		return f, true
	case KindBool:
		if v.b {
			return -1, true
		}
		return 0, true
	case KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		return n, err == nil
	case KindDateTime:
		return dateToSerial(v.t), true
	default:
		return 0, false
	}
}

// AsDecimal coerces to an arbitrary-precision decimal, for CDec, which
// must not lose precision to a float64 round trip the way AsDouble does.
func (v Value) AsDecimal() (decimal.Decimal, bool) {
	switch v.kind {
	case KindDecimal:
		return v.dec, true
	case KindLong:
		return decimal.NewFromInt(v.l), true
	case KindDouble:
		return decimal.NewFromFloat(v.d), true
	case KindBool:
		if v.b {
			return decimal.NewFromInt(-1), true
		}
		return decimal.Zero, true
	case KindString:
		d, err := decimal.NewFromString(strings.TrimSpace(v.s))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

// AsLong truncates to a 64-bit integer, per the integer-division/Mod
// coercion rule.
func (v Value) AsLong() (int64, bool) {
	d, ok := v.AsDouble()
	if !ok {
		return 0, false
	}
	return int64(d), true
}

func (v Value) AsString() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindLong:
		return strconv.FormatInt(v.l, 10)
	case KindDouble:
		return strconv.FormatFloat(v.d, 'g', -1, 64)
	case KindDecimal:
		return v.dec.String()
	case KindString:
		return v.s
	case KindDateTime:
		return v.t.Format("1/2/2006 3:04:05 PM")
	default:
		return ""
	}
}

func (v Value) AsTime() (time.Time, bool) {
	switch v.kind {
	case KindDateTime:
		return v.t, true
	case KindLong, KindDouble, KindDecimal:
		d, _ := v.AsDouble()
		return serialToDate(d), true
	case KindString:
		for _, layout := range []string{"1/2/2006", "1/2/2006 3:04:05 PM", time.RFC3339} {
			if t, err := time.Parse(layout, strings.TrimSpace(v.s)); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func (v Value) isNumeric() bool {
	switch v.kind {
	case KindLong, KindDouble, KindDecimal, KindBool:
		return true
	case KindString:
		_, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		return err == nil
	default:
		return false
	}
}

func (v Value) Equal(o Value) bool {
	if v.kind == KindNull || o.kind == KindNull {
		return v.kind == o.kind
	}
	if v.isNumeric() && o.isNumeric() {
		a, _ := v.AsDouble()
		b, _ := o.AsDouble()
		return a == b
	}
	return v.AsString() == o.AsString()
}

// Compare returns -1/0/1 the way Access compares two non-null values:
// numerically when both sides coerce, lexically (case-insensitive)
// otherwise.
func (v Value) Compare(o Value) int {
	if v.isNumeric() && o.isNumeric() {
		a, _ := v.AsDouble()
		b, _ := o.AsDouble()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(strings.ToLower(v.AsString()), strings.ToLower(o.AsString()))
}

func (v Value) String() string {
	if v.kind == KindNull {
		return "Null"
	}
	return v.AsString()
}

// epoch is Access's day-zero, December 30 1899, matching the "days since"
// serial-date convention used by dateToSerial/serialToDate.
var epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func dateToSerial(t time.Time) float64 {
	days := t.Sub(epoch).Hours() / 24
	return days
}

func serialToDate(serial float64) time.Time {
	whole := math.Floor(serial)
	frac := serial - whole
	d := epoch.AddDate(0, 0, int(whole))
	return d.Add(time.Duration(frac * float64(24*time.Hour)))
}
