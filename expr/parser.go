package expr

import (
	"strconv"
	"strings"
	"time"
)

// ParseKind selects how bare expression text is interpreted (§4.3 "Parse
// kinds").
type ParseKind int

const (
	DefaultValue ParseKind = iota
	FieldValidator
	FieldDefault
	RecordValidator
)

type parser struct {
	text string
	s    *scanner
}

// Parse compiles expr text into an Expression per the given ParseKind.
// DEFAULT_VALUE and FIELD_DEFAULT parse a plain expression; FIELD_VALIDATOR
// and RECORD_VALIDATOR additionally accept a bare comparison RHS, which is
// wrapped in an implicit "this column" comparison.
func Parse(kind ParseKind, text string) (*Expression, error) {
	p := &parser{text: text, s: newScanner(text)}
	if isValidatorKind(kind) {
		if node, ok := p.tryImplicitCompare(); ok {
			if p.s.typ != tEOF {
				return nil, parseErr(text, p.s.startIndex, "unexpected trailing input %q", p.s.tok())
			}
			return &Expression{text: text, root: node}, nil
		}
		p.s = newScanner(text)
	}
	node, err := p.parseImp()
	if err != nil {
		return nil, err
	}
	if p.s.typ != tEOF {
		return nil, parseErr(text, p.s.startIndex, "unexpected trailing input %q", p.s.tok())
	}
	return &Expression{text: text, root: node}, nil
}

// MustParse parses text as a DEFAULT_VALUE expression, panicking on a
// malformed expression. internal/lint finds MustParse calls with literal
// arguments and checks that text with Parse at build time.
func MustParse(text string) *Expression {
	e, err := Parse(DefaultValue, text)
	if err != nil {
		panic(err)
	}
	return e
}

func isValidatorKind(k ParseKind) bool {
	return k == FieldValidator || k == RecordValidator
}

// tryImplicitCompare recognizes a leading comparison or Like operator with
// no left operand, synthesizing ThisColumn as the left side.
func (p *parser) tryImplicitCompare() (Node, bool) {
	if op, ok := p.peekComparisonOp(); ok {
		p.s.NextToken()
		right, err := p.parseConcat()
		if err != nil {
			return nil, false
		}
		return &ImplicitCompare{Op: op, Right: right}, true
	}
	if p.s.typ == tIdent && strings.EqualFold(p.s.tok(), "LIKE") {
		p.s.NextToken()
		node, err := p.parseLikeRHS(&ThisColumn{})
		if err != nil {
			return nil, false
		}
		return node, true
	}
	return nil, false
}

func (p *parser) peekComparisonOp() (string, bool) {
	if p.s.typ != tOp {
		return "", false
	}
	switch p.s.tok() {
	case "=", "<>", "<", "<=", ">", ">=":
		return p.s.tok(), true
	}
	return "", false
}

// --- precedence chain, lowest to highest ---

func (p *parser) parseImp() (Node, error) { return p.parseLeftLogical("IMP", p.parseEqv) }
func (p *parser) parseEqv() (Node, error) { return p.parseLeftLogical("EQV", p.parseXor) }
func (p *parser) parseXor() (Node, error) { return p.parseLeftLogical("XOR", p.parseOr) }
func (p *parser) parseOr() (Node, error)  { return p.parseLeftLogical("OR", p.parseAnd) }
func (p *parser) parseAnd() (Node, error) { return p.parseLeftLogical("AND", p.parseNot) }

func (p *parser) parseLeftLogical(op string, next func() (Node, error)) (Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.s.typ == tIdent && strings.EqualFold(p.s.tok(), op) {
		p.s.NextToken()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Node, error) {
	if p.s.typ == tIdent && strings.EqualFold(p.s.tok(), "NOT") {
		p.s.NextToken()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "NOT", Operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseIsLikeInBetween()
	if err != nil {
		return nil, err
	}
	if op, ok := p.peekComparisonOp(); ok {
		p.s.NextToken()
		right, err := p.parseIsLikeInBetween()
		if err != nil {
			return nil, err
		}
		return &Comparison{Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseIsLikeInBetween() (Node, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.s.typ == tIdent && strings.EqualFold(p.s.tok(), "IS"):
			p.s.NextToken()
			negate := false
			if p.s.typ == tIdent && strings.EqualFold(p.s.tok(), "NOT") {
				negate = true
				p.s.NextToken()
			}
			if !(p.s.typ == tIdent && strings.EqualFold(p.s.tok(), "NULL")) {
				return nil, parseErr(p.text, p.s.startIndex, "expected NULL after Is/Is Not")
			}
			p.s.NextToken()
			left = &NullTest{Operand: left, Negate: negate}
		case p.s.typ == tIdent && strings.EqualFold(p.s.tok(), "LIKE"):
			p.s.NextToken()
			node, err := p.parseLikeRHS(left)
			if err != nil {
				return nil, err
			}
			left = node
		case p.s.typ == tIdent && strings.EqualFold(p.s.tok(), "IN"):
			p.s.NextToken()
			node, err := p.parseInList(left)
			if err != nil {
				return nil, err
			}
			left = node
		case p.s.typ == tIdent && strings.EqualFold(p.s.tok(), "BETWEEN"):
			p.s.NextToken()
			lo, err := p.parseConcat()
			if err != nil {
				return nil, err
			}
			if !(p.s.typ == tIdent && strings.EqualFold(p.s.tok(), "AND")) {
				return nil, parseErr(p.text, p.s.startIndex, "expected And in Between")
			}
			p.s.NextToken()
			hi, err := p.parseConcat()
			if err != nil {
				return nil, err
			}
			left = &Between{Operand: left, Low: lo, High: hi}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseLikeRHS(left Node) (Node, error) {
	pat, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	lit, ok := pat.(*Literal)
	if !ok || lit.Value.Kind() != KindString {
		return nil, parseErr(p.text, p.s.startIndex, "Like requires a string literal pattern")
	}
	compiled := compileLikePattern(lit.Value.AsString())
	return &LikeExpr{Operand: left, Pattern: lit.Value.AsString(), Compiled: compiled}, nil
}

func (p *parser) parseInList(left Node) (Node, error) {
	if p.s.typ != tLParen {
		return nil, parseErr(p.text, p.s.startIndex, "expected ( after In")
	}
	p.s.NextToken()
	var values []Node
	if p.s.typ != tRParen {
		for {
			v, err := p.parseConcat()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
			if p.s.typ != tComma {
				break
			}
			p.s.NextToken()
		}
	}
	if p.s.typ != tRParen {
		return nil, parseErr(p.text, p.s.startIndex, "expected ) to close In list")
	}
	p.s.NextToken()
	return &InList{Operand: left, Values: values}, nil
}

func (p *parser) parseConcat() (Node, error) { return p.parseBinaryLevel([]string{"&"}, p.parseAdditive) }

func (p *parser) parseAdditive() (Node, error) {
	return p.parseBinaryLevel([]string{"+", "-"}, p.parseMultiplicative)
}

func (p *parser) parseMultiplicative() (Node, error) {
	return p.parseBinaryLevel([]string{"*", "/"}, p.parseIntDiv)
}

func (p *parser) parseIntDiv() (Node, error) { return p.parseBinaryLevel([]string{"\\"}, p.parseMod) }

func (p *parser) parseMod() (Node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.s.typ == tIdent && strings.EqualFold(p.s.tok(), "MOD") {
		p.s.NextToken()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: "MOD", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseBinaryLevel(ops []string, next func() (Node, error)) (Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.s.typ == tOp && containsOp(ops, p.s.tok()) {
		op := p.s.tok()
		p.s.NextToken()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func containsOp(ops []string, tok string) bool {
	for _, o := range ops {
		if o == tok {
			return true
		}
	}
	return false
}

// parsePower sits below unary in precedence (unary +/- binds tighter, per
// §4.3) and is right-associative: 2^3^2 groups as 2^(3^2).
func (p *parser) parsePower() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.s.typ == tOp && p.s.tok() == "^" {
		p.s.NextToken()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return &Binary{Op: "^", Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseUnary() (Node, error) {
	if p.s.typ == tOp && (p.s.tok() == "+" || p.s.tok() == "-") {
		op := p.s.tok()
		p.s.NextToken()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	switch p.s.typ {
	case tNumber:
		lit, err := parseNumberLiteral(p.s.tok())
		if err != nil {
			return nil, parseErr(p.text, p.s.startIndex, "%s", err)
		}
		p.s.NextToken()
		return lit, nil
	case tString:
		s := unquoteString(p.s.tok())
		p.s.NextToken()
		return &Literal{Value: String(s)}, nil
	case tDate:
		t, err := parseDateLiteral(p.s.tok())
		if err != nil {
			return nil, parseErr(p.text, p.s.startIndex, "%s", err)
		}
		p.s.NextToken()
		return &Literal{Value: DateTime(t)}, nil
	case tLParen:
		p.s.NextToken()
		inner, err := p.parseImp()
		if err != nil {
			return nil, err
		}
		if p.s.typ != tRParen {
			return nil, parseErr(p.text, p.s.startIndex, "expected )")
		}
		p.s.NextToken()
		return &Paren{Inner: inner}, nil
	case tIdent:
		return p.parseIdentExpr()
	default:
		return nil, parseErr(p.text, p.s.startIndex, "unexpected token %q", p.s.tok())
	}
}

func (p *parser) parseIdentExpr() (Node, error) {
	first := p.s.tok()
	switch strings.ToUpper(first) {
	case "TRUE":
		p.s.NextToken()
		return &Literal{Value: Bool(true)}, nil
	case "FALSE":
		p.s.NextToken()
		return &Literal{Value: Bool(false)}, nil
	case "NULL":
		p.s.NextToken()
		return &Literal{Value: Null()}, nil
	}
	p.s.NextToken()
	if p.s.typ == tLParen {
		p.s.NextToken()
		var args []Node
		if p.s.typ != tRParen {
			for {
				a, err := p.parseImp()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.s.typ != tComma {
					break
				}
				p.s.NextToken()
			}
		}
		if p.s.typ != tRParen {
			return nil, parseErr(p.text, p.s.startIndex, "expected ) to close call to %s", first)
		}
		p.s.NextToken()
		return &Call{Name: stripBrackets(first), Args: args}, nil
	}
	parts := []string{stripBrackets(first)}
	for p.s.typ == tDot || p.s.typ == tBang {
		p.s.NextToken()
		if p.s.typ != tIdent {
			return nil, parseErr(p.text, p.s.startIndex, "expected identifier after . or !")
		}
		parts = append(parts, stripBrackets(p.s.tok()))
		p.s.NextToken()
	}
	return &ObjectRef{Parts: parts}, nil
}

func stripBrackets(tok string) string {
	if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
		return tok[1 : len(tok)-1]
	}
	return tok
}

func unquoteString(tok string) string {
	inner := tok
	if strings.HasPrefix(inner, "\"") {
		inner = inner[1:]
	}
	if strings.HasSuffix(inner, "\"") {
		inner = inner[:len(inner)-1]
	}
	return strings.ReplaceAll(inner, "\"\"", "\"")
}

func parseNumberLiteral(tok string) (*Literal, error) {
	if !strings.ContainsAny(tok, ".eE") {
		n, err := strconv.ParseInt(tok, 10, 64)
		if err == nil {
			return &Literal{Value: Long(n)}, nil
		}
	}
	d, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, err
	}
	return &Literal{Value: Double(d)}, nil
}

var dateLayouts = []string{"1/2/2006", "1/2/2006 3:04:05 PM", "1/2/2006 15:04:05", "2006-01-02"}

func parseDateLiteral(tok string) (time.Time, error) {
	inner := strings.Trim(tok, "#")
	var lastErr error
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(inner)); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}
