package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// builtins holds the built-in function library, keyed by upper-cased name.
// Functions not implemented here fall through to a host-registered
// Context.Function lookup.
var builtins map[string]Function

func init() {
	builtins = map[string]Function{
		"IIF":        fnIIf,
		"ASC":        fn1(fnAsc),
		"ASCW":       fn1(fnAsc),
		"CHR":        fn1(fnChr),
		"CHRW":       fn1(fnChr),
		"HEX":        fn1(fnHex),
		"OCT":        fn1(fnOct),
		"STR":        fn1(fnStr),
		"VAL":        fn1(fnVal),
		"CBOOL":       fn1(fnCBool),
		"CBYTE":       fn1(fnCLng),
		"CCUR":        fn1(fnCDbl),
		"CDBL":        fn1(fnCDbl),
		"CDEC":        fn1(fnCDec),
		"CINT":        fn1(fnCLng),
		"CLNG":        fn1(fnCLng),
		"CSNG":        fn1(fnCDbl),
		"CSTR":        fn1(fnCStr),
		"CDATE":       fn1(fnCDate),
		"STRCONV":     fnStrConv,
		"TIMEVALUE":   fn1(fnTimeValue),
		"TIMESERIAL":  fnTimeSerial,
		"DATESERIAL":  fnDateSerial,
		"DATEPART":    fnDatePart,
		"WEEKDAYNAME": fnWeekdayName,
		"NPER":        fnNPer,
		"FV":          fnFV,
		"PV":          fnPV,
		"PMT":         fnPmt,
		"IPMT":        fnIPmt,
		"PPMT":        fnPPmt,
		"DDB":         fnDDB,
		"SLN":         fn3(fnSLN),
		"SYD":         fn4(fnSYD),
		"RATE":        fnRate,
		"RND":         fnRnd,
		"ISNULL":     fn1(fnIsNull),
		"ISDATE":     fn1(fnIsDate),
		"ISNUMERIC":  fn1(fnIsNumeric),
		"VARTYPE":    fn1(fnVarType),
		"TYPENAME":   fn1(fnTypeName),
		"INSTR":      fnInStr,
		"INSTRREV":   fnInStrRev,
		"UCASE":      fn1(fnUCase),
		"LCASE":      fn1(fnLCase),
		"LEFT":       fn2(fnLeft),
		"MID":        fnMid,
		"RIGHT":      fn2(fnRight),
		"LTRIM":      fn1(fnLTrim),
		"RTRIM":      fn1(fnRTrim),
		"TRIM":       fn1(fnTrim),
		"SPACE":      fn1(fnSpace),
		"STRING":     fn2(fnStringRepeat),
		"STRCOMP":    fnStrComp,
		"STRREVERSE": fn1(fnStrReverse),
		"REPLACE":    fnReplace,
		"CHOOSE":     fnChoose,
		"SWITCH":     fnSwitch,
		"NZ":         fnNz,
		"ABS":        fn1(fnAbs),
		"ATN":        fn1(fnAtn),
		"SIN":        fn1(fnSin),
		"COS":        fn1(fnCos),
		"TAN":        fn1(fnTan),
		"EXP":        fn1(fnExp),
		"LOG":        fn1(fnLog),
		"SQR":        fn1(fnSqr),
		"FIX":        fn1(fnFix),
		"INT":        fn1(fnInt),
		"SGN":        fn1(fnSgn),
		"ROUND":      fnRound,
		"DATE":       fn0(fnDate),
		"TIME":       fn0(fnTime),
		"NOW":        fn0(fnNow),
		"YEAR":       fn1(fnYear),
		"MONTH":      fn1(fnMonth),
		"DAY":        fn1(fnDay),
		"HOUR":       fn1(fnHour),
		"MINUTE":     fn1(fnMinute),
		"SECOND":     fn1(fnSecond),
		"WEEKDAY":    fnWeekday,
		"MONTHNAME":  fnMonthName,
		"DATEADD":    fnDateAdd,
		"DATEDIFF":   fnDateDiff,
		"DATEVALUE":  fn1(fnDateValue),
		"FORMAT":     fnFormat,
		"FORMATNUMBER":   fnFormatNumber,
		"FORMATPERCENT":  fnFormatPercent,
		"FORMATCURRENCY": fnFormatCurrency,
		"FORMATDATETIME": fnFormatDateTime,
	}
}

func invalidCall(exprText, name string) error {
	return evalErr(exprText, "Invalid function call: %s", name)
}

// fn0/fn1/fn2 adapt fixed-arity helpers into the Function signature,
// checking argument count up front per §4.3 "Invalid argument counts".
func fn0(f func(ctx Context) (Value, error)) Function {
	return func(ctx Context, exprText string, args []Value) (Value, error) {
		if len(args) != 0 {
			return Null(), invalidCall(exprText, "expected 0 arguments")
		}
		return f(ctx)
	}
}

func fn1(f func(Value) (Value, error)) Function {
	return func(ctx Context, exprText string, args []Value) (Value, error) {
		if len(args) != 1 {
			return Null(), invalidCall(exprText, "expected 1 argument")
		}
		return f(args[0])
	}
}

func fn2(f func(Value, Value) (Value, error)) Function {
	return func(ctx Context, exprText string, args []Value) (Value, error) {
		if len(args) != 2 {
			return Null(), invalidCall(exprText, "expected 2 arguments")
		}
		return f(args[0], args[1])
	}
}

func fn3(f func(Value, Value, Value) (Value, error)) Function {
	return func(ctx Context, exprText string, args []Value) (Value, error) {
		if len(args) != 3 {
			return Null(), invalidCall(exprText, "expected 3 arguments")
		}
		return f(args[0], args[1], args[2])
	}
}

func fn4(f func(Value, Value, Value, Value) (Value, error)) Function {
	return func(ctx Context, exprText string, args []Value) (Value, error) {
		if len(args) != 4 {
			return Null(), invalidCall(exprText, "expected 4 arguments")
		}
		return f(args[0], args[1], args[2], args[3])
	}
}

func fnIIf(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) != 3 {
		return Null(), invalidCall(exprText, "IIf")
	}
	if args[0].AsBool() {
		return args[1], nil
	}
	return args[2], nil
}

func fnAsc(v Value) (Value, error) {
	s := v.AsString()
	if s == "" {
		return Null(), fmt.Errorf("Asc of empty string")
	}
	return Long(int64([]rune(s)[0])), nil
}

func fnChr(v Value) (Value, error) {
	n, ok := v.AsLong()
	if !ok {
		return Null(), fmt.Errorf("Chr of non-numeric value")
	}
	return String(string(rune(n))), nil
}

func fnHex(v Value) (Value, error) {
	n, _ := v.AsLong()
	return String(strings.ToUpper(strconv.FormatInt(n, 16))), nil
}

func fnOct(v Value) (Value, error) {
	n, _ := v.AsLong()
	return String(strconv.FormatInt(n, 8)), nil
}

func fnStr(v Value) (Value, error) {
	d, ok := v.AsDouble()
	if !ok {
		return Null(), nil
	}
	if d >= 0 {
		return String(" " + strconv.FormatFloat(d, 'g', -1, 64)), nil
	}
	return String(strconv.FormatFloat(d, 'g', -1, 64)), nil
}

func fnVal(v Value) (Value, error) {
	s := strings.TrimSpace(v.AsString())
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		if (c == '+' || c == '-') && end == 0 {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return Long(0), nil
	}
	d, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return Long(0), nil
	}
	return normalizeNumber(d), nil
}

func fnCBool(v Value) (Value, error) { return Bool(v.AsBool()), nil }

func fnCLng(v Value) (Value, error) {
	n, ok := v.AsLong()
	if !ok {
		return Null(), fmt.Errorf("cannot convert %q to Long", v.AsString())
	}
	return Long(n), nil
}

func fnCDbl(v Value) (Value, error) {
	d, ok := v.AsDouble()
	if !ok {
		return Null(), fmt.Errorf("cannot convert %q to Double", v.AsString())
	}
	return Double(d), nil
}

func fnCDec(v Value) (Value, error) {
	d, ok := v.AsDecimal()
	if !ok {
		return Null(), fmt.Errorf("cannot convert %q to Decimal", v.AsString())
	}
	return Decimal(d), nil
}

func fnCStr(v Value) (Value, error) { return String(v.AsString()), nil }

func fnCDate(v Value) (Value, error) {
	t, ok := v.AsTime()
	if !ok {
		return Null(), fmt.Errorf("cannot convert %q to Date", v.AsString())
	}
	return DateTime(t), nil
}

func fnIsNull(v Value) (Value, error)    { return Bool(v.IsNull()), nil }
func fnIsNumeric(v Value) (Value, error) { return Bool(v.isNumeric()), nil }

func fnIsDate(v Value) (Value, error) {
	_, ok := v.AsTime()
	return Bool(ok), nil
}

func fnVarType(v Value) (Value, error) { return Long(int64(v.Kind())), nil }
func fnTypeName(v Value) (Value, error) { return String(v.Kind().String()), nil }

func fnInStr(ctx Context, exprText string, args []Value) (Value, error) {
	var start int
	var hay, needle string
	switch len(args) {
	case 2:
		hay, needle = args[0].AsString(), args[1].AsString()
	case 3:
		n, _ := args[0].AsLong()
		start = int(n) - 1
		hay, needle = args[1].AsString(), args[2].AsString()
	default:
		return Null(), invalidCall(exprText, "InStr")
	}
	if start < 0 || start > len(hay) {
		return Long(0), nil
	}
	idx := strings.Index(hay[start:], needle)
	if idx < 0 {
		return Long(0), nil
	}
	return Long(int64(start + idx + 1)), nil
}

func fnInStrRev(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return Null(), invalidCall(exprText, "InStrRev")
	}
	hay, needle := args[0].AsString(), args[1].AsString()
	idx := strings.LastIndex(hay, needle)
	return Long(int64(idx + 1)), nil
}

func fnUCase(v Value) (Value, error) { return String(strings.ToUpper(v.AsString())), nil }
func fnLCase(v Value) (Value, error) { return String(strings.ToLower(v.AsString())), nil }

func fnLeft(v, n Value) (Value, error) {
	s := v.AsString()
	count, _ := n.AsLong()
	if count < 0 {
		count = 0
	}
	if int(count) > len(s) {
		count = int64(len(s))
	}
	return String(s[:count]), nil
}

func fnRight(v, n Value) (Value, error) {
	s := v.AsString()
	count, _ := n.AsLong()
	if count < 0 {
		count = 0
	}
	if int(count) > len(s) {
		count = int64(len(s))
	}
	return String(s[len(s)-int(count):]), nil
}

func fnMid(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return Null(), invalidCall(exprText, "Mid")
	}
	s := args[0].AsString()
	start, _ := args[1].AsLong()
	if start < 1 {
		return Null(), invalidCall(exprText, "Mid start must be >= 1")
	}
	if int(start-1) >= len(s) {
		return String(""), nil
	}
	length := len(s) - int(start-1)
	if len(args) == 3 {
		n, _ := args[2].AsLong()
		if int(n) < length {
			length = int(n)
		}
	}
	return String(s[start-1 : int(start-1)+length]), nil
}

func fnLTrim(v Value) (Value, error) { return String(strings.TrimLeft(v.AsString(), " ")), nil }
func fnRTrim(v Value) (Value, error) { return String(strings.TrimRight(v.AsString(), " ")), nil }
func fnTrim(v Value) (Value, error)  { return String(strings.TrimSpace(v.AsString())), nil }

func fnSpace(v Value) (Value, error) {
	n, _ := v.AsLong()
	if n < 0 {
		n = 0
	}
	return String(strings.Repeat(" ", int(n))), nil
}

func fnStringRepeat(count, v Value) (Value, error) {
	n, _ := count.AsLong()
	if n < 0 {
		n = 0
	}
	s := v.AsString()
	if s == "" {
		return String(""), nil
	}
	return String(strings.Repeat(string([]rune(s)[0]), int(n))), nil
}

func fnStrComp(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return Null(), invalidCall(exprText, "StrComp")
	}
	a, b := args[0].AsString(), args[1].AsString()
	if len(args) == 2 || args[2].AsBool() {
		a, b = strings.ToLower(a), strings.ToLower(b)
	}
	switch {
	case a < b:
		return Long(-1), nil
	case a > b:
		return Long(1), nil
	default:
		return Long(0), nil
	}
}

func fnStrReverse(v Value) (Value, error) {
	r := []rune(v.AsString())
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return String(string(r)), nil
}

func fnReplace(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 3 {
		return Null(), invalidCall(exprText, "Replace")
	}
	return String(strings.ReplaceAll(args[0].AsString(), args[1].AsString(), args[2].AsString())), nil
}

func fnChoose(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 1 {
		return Null(), invalidCall(exprText, "Choose")
	}
	idx, ok := args[0].AsLong()
	if !ok || idx < 1 || int(idx) >= len(args) {
		return Null(), nil
	}
	return args[idx], nil
}

func fnSwitch(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args)%2 != 0 {
		return Null(), invalidCall(exprText, "Switch")
	}
	for i := 0; i < len(args); i += 2 {
		if args[i].AsBool() {
			return args[i+1], nil
		}
	}
	return Null(), nil
}

func fnNz(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return Null(), invalidCall(exprText, "Nz")
	}
	if !args[0].IsNull() {
		return args[0], nil
	}
	if len(args) == 2 {
		return args[1], nil
	}
	return String(""), nil
}

func fnAbs(v Value) (Value, error) {
	d, ok := v.AsDouble()
	if !ok {
		return Null(), fmt.Errorf("Abs of non-numeric")
	}
	return normalizeNumber(math.Abs(d)), nil
}

func fnAtn(v Value) (Value, error) { return mathFn(v, math.Atan) }
func fnSin(v Value) (Value, error) { return mathFn(v, math.Sin) }
func fnCos(v Value) (Value, error) { return mathFn(v, math.Cos) }
func fnTan(v Value) (Value, error) { return mathFn(v, math.Tan) }
func fnExp(v Value) (Value, error) { return mathFn(v, math.Exp) }

func fnLog(v Value) (Value, error) {
	d, ok := v.AsDouble()
	if !ok || d <= 0 {
		return Null(), fmt.Errorf("Log domain error")
	}
	return Double(math.Log(d)), nil
}

func fnSqr(v Value) (Value, error) {
	d, ok := v.AsDouble()
	if !ok || d < 0 {
		return Null(), fmt.Errorf("Sqr domain error")
	}
	return Double(math.Sqrt(d)), nil
}

func mathFn(v Value, f func(float64) float64) (Value, error) {
	d, ok := v.AsDouble()
	if !ok {
		return Null(), fmt.Errorf("non-numeric argument")
	}
	return Double(f(d)), nil
}

func fnFix(v Value) (Value, error) {
	d, ok := v.AsDouble()
	if !ok {
		return Null(), fmt.Errorf("Fix of non-numeric")
	}
	return Long(int64(d)), nil
}

func fnInt(v Value) (Value, error) {
	d, ok := v.AsDouble()
	if !ok {
		return Null(), fmt.Errorf("Int of non-numeric")
	}
	return Long(int64(math.Floor(d))), nil
}

func fnSgn(v Value) (Value, error) {
	d, ok := v.AsDouble()
	if !ok {
		return Null(), fmt.Errorf("Sgn of non-numeric")
	}
	switch {
	case d > 0:
		return Long(1), nil
	case d < 0:
		return Long(-1), nil
	default:
		return Long(0), nil
	}
}

func fnRound(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return Null(), invalidCall(exprText, "Round")
	}
	d, ok := args[0].AsDouble()
	if !ok {
		return Null(), invalidCall(exprText, "Round")
	}
	digits := 0
	if len(args) == 2 {
		n, _ := args[1].AsLong()
		digits = int(n)
	}
	scale := math.Pow(10, float64(digits))
	return normalizeNumber(math.Round(d*scale) / scale), nil
}

func fnDate(ctx Context) (Value, error) { return DateTime(truncToDate(time.Now())), nil }
func fnTime(ctx Context) (Value, error) { return DateTime(time.Now()), nil }
func fnNow(ctx Context) (Value, error)  { return DateTime(time.Now()), nil }

func truncToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func fnYear(v Value) (Value, error)   { return timeFn(v, func(t time.Time) int64 { return int64(t.Year()) }) }
func fnMonth(v Value) (Value, error)  { return timeFn(v, func(t time.Time) int64 { return int64(t.Month()) }) }
func fnDay(v Value) (Value, error)    { return timeFn(v, func(t time.Time) int64 { return int64(t.Day()) }) }
func fnHour(v Value) (Value, error)   { return timeFn(v, func(t time.Time) int64 { return int64(t.Hour()) }) }
func fnMinute(v Value) (Value, error) { return timeFn(v, func(t time.Time) int64 { return int64(t.Minute()) }) }
func fnSecond(v Value) (Value, error) { return timeFn(v, func(t time.Time) int64 { return int64(t.Second()) }) }

func timeFn(v Value, f func(time.Time) int64) (Value, error) {
	t, ok := v.AsTime()
	if !ok {
		return Null(), fmt.Errorf("expected a date value")
	}
	return Long(f(t)), nil
}

func fnWeekday(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return Null(), invalidCall(exprText, "Weekday")
	}
	t, ok := args[0].AsTime()
	if !ok {
		return Null(), invalidCall(exprText, "Weekday")
	}
	firstDay := SundayFirst
	if ctx != nil {
		firstDay = ctx.Temporal().FirstDayOfWeek
	}
	if len(args) == 2 {
		n, _ := args[1].AsLong()
		firstDay = WeekStart(n)
	}
	offset := (int(t.Weekday()) - (int(firstDay) - 1) + 7) % 7
	return Long(int64(offset + 1)), nil
}

var monthNames = []string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

func fnMonthName(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return Null(), invalidCall(exprText, "MonthName")
	}
	n, ok := args[0].AsLong()
	if !ok || n < 1 || n > 12 {
		return Null(), invalidCall(exprText, "MonthName")
	}
	name := monthNames[n-1]
	if len(args) == 2 && args[1].AsBool() {
		return String(name[:3]), nil
	}
	return String(name), nil
}

func fnDateAdd(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) != 3 {
		return Null(), invalidCall(exprText, "DateAdd")
	}
	interval := strings.ToLower(args[0].AsString())
	n, ok := args[1].AsLong()
	if !ok {
		return Null(), invalidCall(exprText, "DateAdd")
	}
	t, ok := args[2].AsTime()
	if !ok {
		return Null(), invalidCall(exprText, "DateAdd")
	}
	switch interval {
	case "yyyy":
		return DateTime(t.AddDate(int(n), 0, 0)), nil
	case "m":
		return DateTime(t.AddDate(0, int(n), 0)), nil
	case "d", "y", "w":
		return DateTime(t.AddDate(0, 0, int(n))), nil
	case "ww":
		return DateTime(t.AddDate(0, 0, int(n)*7)), nil
	case "h":
		return DateTime(t.Add(time.Duration(n) * time.Hour)), nil
	case "n":
		return DateTime(t.Add(time.Duration(n) * time.Minute)), nil
	case "s":
		return DateTime(t.Add(time.Duration(n) * time.Second)), nil
	default:
		return Null(), invalidCall(exprText, "DateAdd interval "+interval)
	}
}

func fnDateDiff(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 3 {
		return Null(), invalidCall(exprText, "DateDiff")
	}
	interval := strings.ToLower(args[0].AsString())
	a, ok1 := args[1].AsTime()
	b, ok2 := args[2].AsTime()
	if !ok1 || !ok2 {
		return Null(), invalidCall(exprText, "DateDiff")
	}
	d := b.Sub(a)
	switch interval {
	case "yyyy":
		return Long(int64(b.Year() - a.Year())), nil
	case "m":
		return Long(int64((b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month()))), nil
	case "d", "y":
		return Long(int64(d.Hours() / 24)), nil
	case "ww":
		return Long(int64(d.Hours() / 24 / 7)), nil
	case "h":
		return Long(int64(d.Hours())), nil
	case "n":
		return Long(int64(d.Minutes())), nil
	case "s":
		return Long(int64(d.Seconds())), nil
	default:
		return Null(), invalidCall(exprText, "DateDiff interval "+interval)
	}
}

func fnDateValue(v Value) (Value, error) {
	t, ok := v.AsTime()
	if !ok {
		return Null(), fmt.Errorf("cannot convert %q to a date", v.AsString())
	}
	return DateTime(truncToDate(t)), nil
}

// fnTimeValue strips the date portion, keeping only the time-of-day
// component on Access's day-zero the way AsTime/serialToDate already
// represent a pure time value.
func fnTimeValue(v Value) (Value, error) {
	t, ok := v.AsTime()
	if !ok {
		return Null(), fmt.Errorf("cannot convert %q to a time", v.AsString())
	}
	onEpoch := time.Date(epoch.Year(), epoch.Month(), epoch.Day(), t.Hour(), t.Minute(), t.Second(), 0, t.Location())
	return DateTime(onEpoch), nil
}

func fnTimeSerial(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) != 3 {
		return Null(), invalidCall(exprText, "TimeSerial")
	}
	h, _ := args[0].AsLong()
	m, _ := args[1].AsLong()
	s, _ := args[2].AsLong()
	t := time.Date(epoch.Year(), epoch.Month(), epoch.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
	return DateTime(t), nil
}

func fnDateSerial(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) != 3 {
		return Null(), invalidCall(exprText, "DateSerial")
	}
	y, _ := args[0].AsLong()
	m, _ := args[1].AsLong()
	d, _ := args[2].AsLong()
	return DateTime(time.Date(int(y), time.Month(1), 1, 0, 0, 0, 0, time.UTC).AddDate(0, int(m)-1, int(d)-1)), nil
}

// fnDatePart mirrors DateDiff/DateAdd's interval-token vocabulary, adding
// "q" (quarter) which those two don't need.
func fnDatePart(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 2 {
		return Null(), invalidCall(exprText, "DatePart")
	}
	interval := strings.ToLower(args[0].AsString())
	t, ok := args[1].AsTime()
	if !ok {
		return Null(), invalidCall(exprText, "DatePart")
	}
	switch interval {
	case "yyyy":
		return Long(int64(t.Year())), nil
	case "q":
		return Long(int64((int(t.Month())-1)/3 + 1)), nil
	case "m":
		return Long(int64(t.Month())), nil
	case "y":
		return Long(int64(t.YearDay())), nil
	case "d":
		return Long(int64(t.Day())), nil
	case "w":
		firstDay := SundayFirst
		if ctx != nil {
			firstDay = ctx.Temporal().FirstDayOfWeek
		}
		if len(args) >= 3 {
			n, _ := args[2].AsLong()
			firstDay = WeekStart(n)
		}
		return Long(int64((int(t.Weekday())-(int(firstDay)-1)+7)%7 + 1)), nil
	case "ww":
		_, week := t.ISOWeek()
		return Long(int64(week)), nil
	case "h":
		return Long(int64(t.Hour())), nil
	case "n":
		return Long(int64(t.Minute())), nil
	case "s":
		return Long(int64(t.Second())), nil
	default:
		return Null(), invalidCall(exprText, "DatePart interval "+interval)
	}
}

var weekdayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func fnWeekdayName(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 3 {
		return Null(), invalidCall(exprText, "WeekdayName")
	}
	n, ok := args[0].AsLong()
	if !ok || n < 1 || n > 7 {
		return Null(), invalidCall(exprText, "WeekdayName")
	}
	firstDay := SundayFirst
	if ctx != nil {
		firstDay = ctx.Temporal().FirstDayOfWeek
	}
	if len(args) == 3 {
		fd, _ := args[2].AsLong()
		firstDay = WeekStart(fd)
	}
	idx := (int(n) - 1 + (int(firstDay) - 1)) % 7
	name := weekdayNames[idx]
	if len(args) >= 2 && args[1].AsBool() {
		return String(name[:3]), nil
	}
	return String(name), nil
}

// fnStrConv implements the three case conversions Access's StrConv
// supports in a text context; the other VB string/Unicode conversion
// constants (byte arrays, wide/narrow) have no meaning for an in-memory
// Go string and are rejected.
func fnStrConv(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 2 {
		return Null(), invalidCall(exprText, "StrConv")
	}
	s := args[0].AsString()
	conv, _ := args[1].AsLong()
	switch conv {
	case 1: // vbUpperCase
		return String(strings.ToUpper(s)), nil
	case 2: // vbLowerCase
		return String(strings.ToLower(s)), nil
	case 3: // vbProperCase
		return String(properCase(s)), nil
	default:
		return Null(), invalidCall(exprText, "StrConv conversion")
	}
}

// optDouble/optLong read an optional trailing argument, defaulting when
// the caller omitted it -- the financial functions all share this shape
// (fv and type/due are optional on nearly every one of them).
func optDouble(args []Value, idx int, def float64) float64 {
	if idx < len(args) {
		d, _ := args[idx].AsDouble()
		return d
	}
	return def
}

func optLong(args []Value, idx int, def int64) int64 {
	if idx < len(args) {
		n, _ := args[idx].AsLong()
		return n
	}
	return def
}

// fvHelper/pmtHelper/pvHelper/nperHelper implement the standard annuity
// closed-form formulas (the same ones Excel/VB's financial functions
// use): due is 0 for payments at period end, 1 for payments at period
// start.
func fvHelper(rate, nper, pmt, pv float64, due int64) float64 {
	if rate == 0 {
		return -(pv + pmt*nper)
	}
	pow := math.Pow(1+rate, nper)
	return -(pv*pow + pmt*(1+rate*float64(due))*(pow-1)/rate)
}

func pmtHelper(rate, nper, pv, fv float64, due int64) float64 {
	if rate == 0 {
		return -(pv + fv) / nper
	}
	pow := math.Pow(1+rate, nper)
	return (-fv - pv*pow) * rate / ((1 + rate*float64(due)) * (pow - 1))
}

func pvHelper(rate, nper, pmt, fv float64, due int64) float64 {
	if rate == 0 {
		return -(fv + pmt*nper)
	}
	pow := math.Pow(1+rate, nper)
	return (-fv - pmt*(1+rate*float64(due))*(pow-1)/rate) / pow
}

func nperHelper(rate, pmt, pv, fv float64, due int64) float64 {
	if rate == 0 {
		return -(fv + pv) / pmt
	}
	num := pmt*(1+rate*float64(due)) - fv*rate
	den := pmt*(1+rate*float64(due)) + pv*rate
	return math.Log(num/den) / math.Log(1+rate)
}

func fnFV(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 3 || len(args) > 5 {
		return Null(), invalidCall(exprText, "FV")
	}
	rate, _ := args[0].AsDouble()
	nper, _ := args[1].AsDouble()
	pmt, _ := args[2].AsDouble()
	pv := optDouble(args, 3, 0)
	due := optLong(args, 4, 0)
	return Double(fvHelper(rate, nper, pmt, pv, due)), nil
}

func fnPV(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 3 || len(args) > 5 {
		return Null(), invalidCall(exprText, "PV")
	}
	rate, _ := args[0].AsDouble()
	nper, _ := args[1].AsDouble()
	pmt, _ := args[2].AsDouble()
	fv := optDouble(args, 3, 0)
	due := optLong(args, 4, 0)
	return Double(pvHelper(rate, nper, pmt, fv, due)), nil
}

func fnPmt(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 3 || len(args) > 5 {
		return Null(), invalidCall(exprText, "Pmt")
	}
	rate, _ := args[0].AsDouble()
	nper, _ := args[1].AsDouble()
	pv, _ := args[2].AsDouble()
	fv := optDouble(args, 3, 0)
	due := optLong(args, 4, 0)
	return Double(pmtHelper(rate, nper, pv, fv, due)), nil
}

func fnNPer(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 3 || len(args) > 5 {
		return Null(), invalidCall(exprText, "NPer")
	}
	rate, _ := args[0].AsDouble()
	pmt, _ := args[1].AsDouble()
	pv, _ := args[2].AsDouble()
	fv := optDouble(args, 3, 0)
	due := optLong(args, 4, 0)
	return Double(nperHelper(rate, pmt, pv, fv, due)), nil
}

// fnIPmt/fnPPmt split a single period's payment into its interest and
// principal portions by taking the balance outstanding at the start of
// that period (the future value of pv/pmt through period-1) and applying
// the period rate to it.
func fnIPmt(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 4 || len(args) > 6 {
		return Null(), invalidCall(exprText, "IPmt")
	}
	rate, _ := args[0].AsDouble()
	per, _ := args[1].AsDouble()
	nper, _ := args[2].AsDouble()
	pv, _ := args[3].AsDouble()
	fv := optDouble(args, 4, 0)
	due := optLong(args, 5, 0)
	pmt := pmtHelper(rate, nper, pv, fv, due)
	balance := fvHelper(rate, per-1, pmt, pv, due)
	ipmt := balance * rate
	if due == 1 {
		if per == 1 {
			ipmt = 0
		} else {
			ipmt /= 1 + rate
		}
	}
	return Double(ipmt), nil
}

func fnPPmt(ctx Context, exprText string, args []Value) (Value, error) {
	ipmt, err := fnIPmt(ctx, exprText, args)
	if err != nil {
		return Null(), err
	}
	rate, _ := args[0].AsDouble()
	nper, _ := args[2].AsDouble()
	pv, _ := args[3].AsDouble()
	fv := optDouble(args, 4, 0)
	due := optLong(args, 5, 0)
	pmt := pmtHelper(rate, nper, pv, fv, due)
	ipmtF, _ := ipmt.AsDouble()
	return Double(pmt - ipmtF), nil
}

func fnSLN(cost, salvage, life Value) (Value, error) {
	c, _ := cost.AsDouble()
	s, _ := salvage.AsDouble()
	l, _ := life.AsDouble()
	if l == 0 {
		return Null(), fmt.Errorf("SLN life must be nonzero")
	}
	return Double((c - s) / l), nil
}

func fnSYD(cost, salvage, life, period Value) (Value, error) {
	c, _ := cost.AsDouble()
	s, _ := salvage.AsDouble()
	l, _ := life.AsDouble()
	p, _ := period.AsDouble()
	if l == 0 {
		return Null(), fmt.Errorf("SYD life must be nonzero")
	}
	return Double((c - s) * (l - p + 1) / (l * (l + 1) / 2)), nil
}

func fnDDB(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 4 || len(args) > 5 {
		return Null(), invalidCall(exprText, "DDB")
	}
	cost, _ := args[0].AsDouble()
	salvage, _ := args[1].AsDouble()
	life, _ := args[2].AsDouble()
	period, _ := args[3].AsDouble()
	factor := optDouble(args, 4, 2)
	if life == 0 {
		return Null(), invalidCall(exprText, "DDB life must be nonzero")
	}
	rate := factor / life
	bookValue := cost
	var depreciation float64
	for p := 1.0; p <= period; p++ {
		depreciation = math.Min(bookValue*rate, bookValue-salvage)
		if depreciation < 0 {
			depreciation = 0
		}
		bookValue -= depreciation
	}
	return Double(depreciation), nil
}

// fnRate solves for the periodic interest rate of an annuity by Newton's
// method, starting from guess (default 0.1) the same way Excel/VB's Rate
// does when no guess is supplied.
func fnRate(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 3 || len(args) > 6 {
		return Null(), invalidCall(exprText, "Rate")
	}
	nper, _ := args[0].AsDouble()
	pmt, _ := args[1].AsDouble()
	pv, _ := args[2].AsDouble()
	fv := optDouble(args, 3, 0)
	due := optLong(args, 4, 0)
	guess := optDouble(args, 5, 0.1)

	f := func(rate float64) float64 {
		if rate == 0 {
			return pv + pmt*nper + fv
		}
		pow := math.Pow(1+rate, nper)
		return pv*pow + pmt*(1+rate*float64(due))*(pow-1)/rate + fv
	}
	rate := guess
	const h = 1e-6
	for i := 0; i < 100; i++ {
		fx := f(rate)
		dfx := (f(rate+h) - fx) / h
		if dfx == 0 {
			return Null(), evalErr(exprText, "Rate failed to converge")
		}
		next := rate - fx/dfx
		if math.Abs(next-rate) < 1e-10 {
			return Double(next), nil
		}
		rate = next
	}
	return Null(), evalErr(exprText, "Rate failed to converge")
}

func properCase(s string) string {
	r := []rune(strings.ToLower(s))
	atStart := true
	for i, c := range r {
		if atStart && (c >= 'a' && c <= 'z') {
			r[i] = c - ('a' - 'A')
		}
		atStart = !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z')
	}
	return string(r)
}

// fnRnd draws from the host-supplied random source (§4.3 "Random-number
// provider"), returning 0 when there is no context or the context
// carries no source.
func fnRnd(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) > 1 {
		return Null(), invalidCall(exprText, "Rnd")
	}
	if ctx == nil || ctx.Rand() == nil {
		return Double(0), nil
	}
	return Double(ctx.Rand().Float64()), nil
}

func fnFormat(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return Null(), invalidCall(exprText, "Format")
	}
	pattern := ""
	if len(args) == 2 {
		pattern = args[1].AsString()
	}
	s, err := Format(args[0], pattern)
	if err != nil {
		return Null(), evalErr(exprText, "%s", err)
	}
	return String(s), nil
}

func fnFormatNumber(ctx Context, exprText string, args []Value) (Value, error) {
	return formatWithDigits(args, exprText, "Standard")
}
func fnFormatPercent(ctx Context, exprText string, args []Value) (Value, error) {
	return formatWithDigits(args, exprText, "Percent")
}
func fnFormatCurrency(ctx Context, exprText string, args []Value) (Value, error) {
	return formatWithDigits(args, exprText, "Currency")
}
func fnFormatDateTime(ctx Context, exprText string, args []Value) (Value, error) {
	if len(args) < 1 {
		return Null(), invalidCall(exprText, "FormatDateTime")
	}
	named := "General Date"
	if len(args) == 2 {
		n, _ := args[1].AsLong()
		switch n {
		case 1:
			named = "Long Date"
		case 2:
			named = "Short Date"
		case 3:
			named = "Long Time"
		case 4:
			named = "Short Time"
		}
	}
	s, err := Format(args[0], named)
	if err != nil {
		return Null(), evalErr(exprText, "%s", err)
	}
	return String(s), nil
}

func formatWithDigits(args []Value, exprText, named string) (Value, error) {
	if len(args) < 1 {
		return Null(), invalidCall(exprText, named)
	}
	s, err := Format(args[0], named)
	if err != nil {
		return Null(), evalErr(exprText, "%s", err)
	}
	return String(s), nil
}
