package expr

import (
	"math"
	"strings"
)

// evalBinary implements the §4.3 "Type coercion rules" table for the
// arithmetic and concatenation operators.
func evalBinary(op string, l, r Value, exprText string) (Value, error) {
	switch op {
	case "&":
		return String(coerceConcat(l) + coerceConcat(r)), nil
	case "+":
		if l.IsNull() || r.IsNull() {
			return Null(), nil
		}
		if l.Kind() == KindDateTime || r.Kind() == KindDateTime {
			return addDateNumber(l, r, exprText)
		}
		ln, lok := l.AsDouble()
		rn, rok := r.AsDouble()
		if lok && rok {
			return normalizeNumber(ln + rn), nil
		}
		// either side fails to coerce to a number: fall back to
		// concatenation, matching Access's "+ prefers numeric" rule.
		return String(l.AsString() + r.AsString()), nil
	case "-":
		if l.IsNull() || r.IsNull() {
			return Null(), nil
		}
		if l.Kind() == KindDateTime && r.Kind() != KindDateTime {
			return addDateNumber(l, negate(r), exprText)
		}
		ln, lok := l.AsDouble()
		rn, rok := r.AsDouble()
		if !lok || !rok {
			return Null(), evalErr(exprText, "cannot subtract non-numeric operands %q, %q", l.AsString(), r.AsString())
		}
		return normalizeNumber(ln - rn), nil
	case "*":
		return numericBinary(l, r, exprText, func(a, b float64) float64 { return a * b })
	case "/":
		if l.IsNull() || r.IsNull() {
			return Null(), nil
		}
		ln, lok := l.AsDouble()
		rn, rok := r.AsDouble()
		if !lok || !rok {
			return Null(), evalErr(exprText, "cannot divide non-numeric operands")
		}
		if rn == 0 {
			return Null(), evalErr(exprText, "division by zero")
		}
		result := ln / rn
		if result == float64(int64(result)) {
			return Long(int64(result)), nil
		}
		return Double(result), nil
	case "\\":
		li, lok := intOperand(l)
		ri, rok := intOperand(r)
		if l.IsNull() || r.IsNull() {
			return Null(), nil
		}
		if !lok || !rok {
			return Null(), evalErr(exprText, "cannot integer-divide non-numeric operands")
		}
		if ri == 0 {
			return Null(), evalErr(exprText, "division by zero")
		}
		return Long(li / ri), nil
	case "MOD":
		li, lok := intOperand(l)
		ri, rok := intOperand(r)
		if l.IsNull() || r.IsNull() {
			return Null(), nil
		}
		if !lok || !rok {
			return Null(), evalErr(exprText, "cannot compute Mod of non-numeric operands")
		}
		if ri == 0 {
			return Null(), evalErr(exprText, "division by zero")
		}
		return Long(li % ri), nil
	case "^":
		return numericBinary(l, r, exprText, powFloat)
	default:
		return Null(), evalErr(exprText, "unknown binary operator %q", op)
	}
}

func intOperand(v Value) (int64, bool) {
	d, ok := v.AsDouble()
	if !ok {
		return 0, false
	}
	return int64(d), true
}

func negate(v Value) Value {
	d, _ := v.AsDouble()
	return normalizeNumber(-d)
}

func numericBinary(l, r Value, exprText string, f func(a, b float64) float64) (Value, error) {
	if l.IsNull() || r.IsNull() {
		return Null(), nil
	}
	ln, lok := l.AsDouble()
	rn, rok := r.AsDouble()
	if !lok || !rok {
		return Null(), evalErr(exprText, "cannot operate on non-numeric operands %q, %q", l.AsString(), r.AsString())
	}
	return normalizeNumber(f(ln, rn)), nil
}

func powFloat(a, b float64) float64 {
	return math.Pow(a, b)
}

// coerceConcat implements "&" always coercing both operands to string,
// treating Null as empty string.
func coerceConcat(v Value) string {
	if v.IsNull() {
		return ""
	}
	return v.AsString()
}

func addDateNumber(l, r Value, exprText string) (Value, error) {
	var date Value
	var num Value
	if l.Kind() == KindDateTime {
		date, num = l, r
	} else {
		date, num = r, l
	}
	t, _ := date.AsTime()
	days, ok := num.AsDouble()
	if !ok {
		return Null(), evalErr(exprText, "cannot add non-numeric value to a date")
	}
	return DateTime(t.AddDate(0, 0, int(days))), nil
}

func normalizeFuncName(name string) string {
	return strings.ToUpper(name)
}
