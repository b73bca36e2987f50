package query

import (
	"strings"

	"github.com/smasher164/xid"
)

// isWordRune classifies a rune the way an unquoted Access identifier
// component may contain it: letters, digits, and underscore.
func isWordRune(r rune) bool {
	return r == '_' || xid.Start(r) || xid.Continue(r)
}

func needsBrackets(component string) bool {
	if component == "" {
		return true
	}
	for _, r := range component {
		if !isWordRune(r) && !(r >= '0' && r <= '9') {
			return true
		}
	}
	return false
}

// QuoteIdentifier splits expr on '.' and brackets each component that
// contains a non-word rune, per §4.2 "Identifier quoting". A component
// already wrapped in brackets is left untouched.
func QuoteIdentifier(expr string) string {
	parts := strings.Split(expr, ".")
	for i, p := range parts {
		if strings.HasPrefix(p, "[") && strings.HasSuffix(p, "]") {
			continue
		}
		if needsBrackets(p) {
			parts[i] = "[" + p + "]"
		}
	}
	return strings.Join(parts, ".")
}

// WithAlias renders a table expression together with its alias, if any,
// as `<expr> AS <alias>`.
func WithAlias(expr, alias string) string {
	if alias == "" {
		return expr
	}
	return expr + " AS " + alias
}

// looksQuoted reports whether a textual expression arriving from the
// source already carries Access's own quoting or is a compound expression
// (blank, a leading '[', '"', '\'', '(' or '#', or a function call, i.e.
// any '('), in which case §4.2 says it must be passed through as-is rather
// than re-bracketed.
func looksQuoted(expr string) bool {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" || strings.ContainsRune(trimmed, '(') {
		return true
	}
	switch trimmed[0] {
	case '[', '"', '\'', '(', '#':
		return true
	}
	return false
}

// QuoteColumnExpr quotes expr as an identifier unless it already looks
// quoted or is a compound expression (a function call, a literal, an
// already-bracketed name), in which case it's passed through unchanged
// per §4.2 "Quoted textual expressions arriving from the source are
// presumed already quoted and are not re-processed".
func QuoteColumnExpr(expr string) string {
	if looksQuoted(expr) {
		return expr
	}
	return QuoteIdentifier(expr)
}
