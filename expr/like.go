package expr

import (
	"regexp"
	"strings"
)

// compileLikePattern translates an Access Like pattern into a
// case-insensitive anchored regular expression (§4.3 "Like"). An
// unbalanced '[' compiles to a pattern that never matches, rather than
// erroring -- matching the host's "degrade gracefully" posture elsewhere.
func compileLikePattern(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("(?is)^")
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '?':
			b.WriteString(".")
		case '*':
			b.WriteString(".*")
		case '#':
			b.WriteString(`\d`)
		case '[':
			end := indexRune(runes[i+1:], ']')
			if end < 0 {
				return nil
			}
			class := runes[i+1 : i+1+end]
			b.WriteString(translateCharClass(class))
			i += end + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil
	}
	return re
}

func indexRune(runes []rune, target rune) int {
	for i, r := range runes {
		if r == target {
			return i
		}
	}
	return -1
}

// translateCharClass converts an Access [abc], [!abc], or [a-z] class into
// the equivalent Go regexp character class.
func translateCharClass(class []rune) string {
	var b strings.Builder
	b.WriteString("[")
	start := 0
	if len(class) > 0 && class[0] == '!' {
		b.WriteString("^")
		start = 1
	}
	for _, r := range class[start:] {
		switch r {
		case '\\', ']', '^':
			b.WriteString("\\")
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString("]")
	return b.String()
}
