package expr

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Format renders v per Access's Format() rules: a named format if pattern
// matches one case-insensitively, otherwise a custom pattern (§4.3
// "Format()"). An empty pattern falls back to the value's default string
// form.
func Format(v Value, pattern string) (string, error) {
	if pattern == "" {
		return v.AsString(), nil
	}
	if named, ok := namedFormats[strings.ToLower(pattern)]; ok {
		return named(v)
	}
	return formatCustomPattern(v, pattern)
}

var namedFormats map[string]func(Value) (string, error)

func init() {
	namedFormats = map[string]func(Value) (string, error){
		"general number": func(v Value) (string, error) { return v.AsString(), nil },
		"fixed":          func(v Value) (string, error) { return formatFixed(v, 2) },
		"standard":       func(v Value) (string, error) { return formatGrouped(v, 2) },
		"currency":       func(v Value) (string, error) { return formatCurrency(v) },
		"percent":        func(v Value) (string, error) { return formatPercent(v) },
		"scientific":     func(v Value) (string, error) { return formatScientific(v) },
		"euro":           func(v Value) (string, error) { return formatEuro(v) },
		"yes/no":         func(v Value) (string, error) { return yesNo(v, "Yes", "No"), nil },
		"true/false":     func(v Value) (string, error) { return yesNo(v, "True", "False"), nil },
		"on/off":         func(v Value) (string, error) { return yesNo(v, "On", "Off"), nil },
		"general date":   func(v Value) (string, error) { return formatDate(v, "1/2/2006 3:04:05 PM") },
		"long date":      func(v Value) (string, error) { return formatDate(v, "Monday, January 2, 2006") },
		"medium date":    func(v Value) (string, error) { return formatDate(v, "02-Jan-06") },
		"short date":     func(v Value) (string, error) { return formatDate(v, "1/2/2006") },
		"long time":      func(v Value) (string, error) { return formatDate(v, "3:04:05 PM") },
		"medium time":    func(v Value) (string, error) { return formatDate(v, "3:04 PM") },
		"short time":     func(v Value) (string, error) { return formatDate(v, "15:04") },
	}
}

func yesNo(v Value, yes, no string) string {
	if v.AsBool() {
		return yes
	}
	return no
}

func formatDate(v Value, layout string) (string, error) {
	t, ok := v.AsTime()
	if !ok {
		return "", fmt.Errorf("cannot format %q as a date", v.AsString())
	}
	return t.Format(layout), nil
}

func formatFixed(v Value, digits int) (string, error) {
	d, ok := v.AsDouble()
	if !ok {
		return "", fmt.Errorf("cannot format %q as a number", v.AsString())
	}
	return strconv.FormatFloat(d, 'f', digits, 64), nil
}

func formatGrouped(v Value, digits int) (string, error) {
	d, ok := v.AsDouble()
	if !ok {
		return "", fmt.Errorf("cannot format %q as a number", v.AsString())
	}
	return groupThousands(strconv.FormatFloat(d, 'f', digits, 64)), nil
}

func formatCurrency(v Value) (string, error) {
	s, err := formatGrouped(v, 2)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:], nil
	}
	return "$" + s, nil
}

func formatPercent(v Value) (string, error) {
	d, ok := v.AsDouble()
	if !ok {
		return "", fmt.Errorf("cannot format %q as a number", v.AsString())
	}
	return strconv.FormatFloat(d*100, 'f', 2, 64) + "%", nil
}

func formatScientific(v Value) (string, error) {
	d, ok := v.AsDouble()
	if !ok {
		return "", fmt.Errorf("cannot format %q as a number", v.AsString())
	}
	return strconv.FormatFloat(d, 'E', 2, 64), nil
}

func formatEuro(v Value) (string, error) {
	s, err := formatGrouped(v, 2)
	if err != nil {
		return "", err
	}
	return "€" + s, nil
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx:]
	}
	var grouped []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, c)
	}
	out := string(grouped) + fracPart
	if neg {
		return "-" + out
	}
	return out
}

// formatCustomPattern applies the semicolon-sectioned number/date/text
// pattern language (§4.3 "Custom patterns"). Only the section matching the
// value's sign is used: positive;negative;zero;null.
func formatCustomPattern(v Value, pattern string) (string, error) {
	sections := splitPatternSections(pattern)
	section := pickSection(v, sections)
	if section == "" {
		return v.AsString(), nil
	}
	if looksLikeDatePattern(section) {
		return applyDatePattern(v, section)
	}
	if looksLikeTextPattern(section) {
		return applyTextPattern(v, section)
	}
	return applyNumberPattern(v, section)
}

// splitPatternSections splits on ';' while respecting quoted literals, so
// a semicolon inside "..." doesn't end a section.
func splitPatternSections(pattern string) []string {
	var sections []string
	var cur strings.Builder
	inQuote := false
	for _, r := range pattern {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case r == ';' && !inQuote:
			sections = append(sections, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	sections = append(sections, cur.String())
	return sections
}

func pickSection(v Value, sections []string) string {
	if v.IsNull() {
		if len(sections) >= 4 {
			return sections[3]
		}
		return ""
	}
	d, numeric := v.AsDouble()
	switch {
	case numeric && d < 0 && len(sections) >= 2:
		return sections[1]
	case numeric && d == 0 && len(sections) >= 3:
		return sections[2]
	default:
		return sections[0]
	}
}

func looksLikeDatePattern(s string) bool {
	return strings.ContainsAny(s, "dDmMyYhHnNsSqQwWcC") && !looksLikeTextPattern(s)
}

func looksLikeTextPattern(s string) bool {
	return strings.ContainsAny(s, "@&<>!")
}

func applyNumberPattern(v Value, pattern string) (string, error) {
	d, ok := v.AsDouble()
	if !ok {
		return "", fmt.Errorf("cannot format %q with a numeric pattern", v.AsString())
	}
	percent := strings.Contains(pattern, "%")
	if percent {
		d *= 100
	}
	decimals := strings.Count(afterDecimalPoint(pattern), "0") + strings.Count(afterDecimalPoint(pattern), "#")
	grouped := strings.Contains(pattern, ",")
	formatted := strconv.FormatFloat(math.Abs(d), 'f', decimals, 64)
	if grouped {
		formatted = groupThousands(formatted)
	}
	if d < 0 {
		formatted = "-" + formatted
	}
	if percent {
		formatted += "%"
	}
	return formatted, nil
}

func afterDecimalPoint(pattern string) string {
	idx := strings.IndexByte(pattern, '.')
	if idx < 0 {
		return ""
	}
	return pattern[idx+1:]
}

type dateToken struct {
	token string
	emit  func(t time.Time) string
}

func layoutToken(token, layout string) dateToken {
	return dateToken{token: token, emit: func(t time.Time) string { return t.Format(layout) }}
}

var dateTokens = func() []dateToken {
	toks := []dateToken{
		layoutToken("dddd", "Monday"), layoutToken("ddd", "Mon"), layoutToken("dd", "02"), layoutToken("d", "2"),
		layoutToken("mmmm", "January"), layoutToken("mmm", "Jan"), layoutToken("mm", "01"), layoutToken("m", "1"),
		layoutToken("yyyy", "2006"), layoutToken("yy", "06"),
		layoutToken("hh", "15"), layoutToken("h", "3"),
		layoutToken("nn", "04"), layoutToken("n", "4"),
		layoutToken("ss", "05"), layoutToken("s", "5"),
		layoutToken("AMPM", "PM"), layoutToken("am/pm", "pm"),
		{token: "a/p", emit: func(t time.Time) string { return t.Format("pm")[:1] }},
		{token: "ttttt", emit: func(t time.Time) string { return t.Format("15:04:05") }},
		{token: "c", emit: func(t time.Time) string { return t.Format("1/2/2006 3:04:05 PM") }},
		{token: "q", emit: func(t time.Time) string { return strconv.Itoa((int(t.Month())-1)/3 + 1) }},
		{token: "ww", emit: func(t time.Time) string { _, wk := t.ISOWeek(); return strconv.Itoa(wk) }},
		{token: "w", emit: func(t time.Time) string { return strconv.Itoa(int(t.Weekday()) + 1) }},
	}
	sort.SliceStable(toks, func(i, j int) bool { return len(toks[i].token) > len(toks[j].token) })
	return toks
}()

// applyDatePattern substitutes the custom date-pattern tokens one
// position at a time, matching the longest token first so "ww" isn't
// consumed as two "w"s and "mmmm" isn't consumed as "mm"+"mm". Quoted
// literal runs ("…") are copied through verbatim and never scanned for
// tokens, so a literal containing a date letter (e.g. "d" as a day-name
// abbreviation) isn't corrupted.
func applyDatePattern(v Value, pattern string) (string, error) {
	t, ok := v.AsTime()
	if !ok {
		return "", fmt.Errorf("cannot format %q as a date", v.AsString())
	}
	var b strings.Builder
	i := 0
	for i < len(pattern) {
		if pattern[i] == '"' {
			end := strings.IndexByte(pattern[i+1:], '"')
			if end < 0 {
				b.WriteString(pattern[i+1:])
				break
			}
			b.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		}
		matched := false
		for _, tok := range dateTokens {
			if strings.HasPrefix(pattern[i:], tok.token) {
				b.WriteString(tok.emit(t))
				i += len(tok.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String(), nil
}

// applyTextPattern implements the text placeholder tokens: '@' (hold),
// '&' (optional), '<' lowercase, '>' uppercase, '!' right-align (treated
// here as "consume from the right").
func applyTextPattern(v Value, pattern string) (string, error) {
	s := v.AsString()
	upper := strings.Contains(pattern, ">")
	lower := strings.Contains(pattern, "<")
	switch {
	case upper:
		s = strings.ToUpper(s)
	case lower:
		s = strings.ToLower(s)
	}
	placeholders := strings.Count(pattern, "@") + strings.Count(pattern, "&")
	if placeholders == 0 {
		return s, nil
	}
	runes := []rune(s)
	rightAlign := strings.Contains(pattern, "!")
	if rightAlign {
		if len(runes) > placeholders {
			runes = runes[len(runes)-placeholders:]
		}
	} else if len(runes) > placeholders {
		runes = runes[:placeholders]
	}
	return string(runes), nil
}
