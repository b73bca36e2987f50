package expr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/repr"
)

// Node is one AST variant; every node evaluates against a Context and
// renders back to text two ways (§3.3).
type Node interface {
	eval(ctx Context, exprText string) (Value, error)
	String() string
}

// Expression is a parsed, immutable expression ready for repeated
// evaluation against different contexts.
type Expression struct {
	text string
	root Node
}

func (e *Expression) String() string { return e.text }

// DebugString renders the parsed AST structure, wiring alecthomas/repr
// the way a developer would reach for it to inspect a parsed tree.
func (e *Expression) DebugString() string {
	return repr.String(e.root, repr.Indent("  "), repr.OmitEmpty(true))
}

// Eval runs the expression against ctx.
func (e *Expression) Eval(ctx Context) (Value, error) {
	return e.root.eval(ctx, e.text)
}

// Literal is a constant number/string/date/bool/null.
type Literal struct {
	Value Value
}

func (n *Literal) eval(Context, string) (Value, error) { return n.Value, nil }
func (n *Literal) String() string                      { return n.Value.String() }

// ObjectRef is a bracketed or bare identifier chain, e.g. [Table].[Col] or
// Forms![MyForm]![MyControl].
type ObjectRef struct {
	Parts []string
}

func (n *ObjectRef) eval(ctx Context, exprText string) (Value, error) {
	if ctx == nil {
		return Null(), evalErr(exprText, "no evaluation context supplied for %s", n.String())
	}
	v, ok := ctx.Lookup(n.Parts)
	if !ok {
		return Null(), evalErr(exprText, "unresolved reference %s", n.String())
	}
	return v, nil
}

func (n *ObjectRef) String() string {
	return strings.Join(n.Parts, "!")
}

// ThisColumn is the implicit "this field's value" reference used in
// field-validator expressions.
type ThisColumn struct{}

func (n *ThisColumn) eval(ctx Context, exprText string) (Value, error) {
	if ctx == nil {
		return Null(), evalErr(exprText, "no evaluation context for this-column reference")
	}
	return ctx.ThisValue(), nil
}
func (n *ThisColumn) String() string { return "<this column>" }

// Unary is a prefix operator: Not, unary + or -.
type Unary struct {
	Op      string
	Operand Node
}

func (n *Unary) eval(ctx Context, exprText string) (Value, error) {
	v, err := n.Operand.eval(ctx, exprText)
	if err != nil {
		return Null(), err
	}
	switch n.Op {
	case "NOT":
		if v.IsNull() {
			return Null(), nil
		}
		return Bool(!v.AsBool()), nil
	case "-":
		if v.IsNull() {
			return Null(), nil
		}
		d, ok := v.AsDouble()
		if !ok {
			return Null(), evalErr(exprText, "cannot negate %q", v.AsString())
		}
		return normalizeNumber(-d), nil
	case "+":
		return v, nil
	default:
		return Null(), evalErr(exprText, "unknown unary operator %q", n.Op)
	}
}

func (n *Unary) String() string { return n.Op + " " + n.Operand.String() }

// Binary is an arithmetic or string-concatenation operator.
type Binary struct {
	Op          string
	Left, Right Node
}

func (n *Binary) eval(ctx Context, exprText string) (Value, error) {
	l, err := n.Left.eval(ctx, exprText)
	if err != nil {
		return Null(), err
	}
	r, err := n.Right.eval(ctx, exprText)
	if err != nil {
		return Null(), err
	}
	return evalBinary(n.Op, l, r, exprText)
}

func (n *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

// Logical is And/Or/Xor/Eqv/Imp, three-valued over Null.
type Logical struct {
	Op          string
	Left, Right Node
}

func (n *Logical) eval(ctx Context, exprText string) (Value, error) {
	l, err := n.Left.eval(ctx, exprText)
	if err != nil {
		return Null(), err
	}
	r, err := n.Right.eval(ctx, exprText)
	if err != nil {
		return Null(), err
	}
	if l.IsNull() || r.IsNull() {
		return Null(), nil
	}
	a, b := l.AsBool(), r.AsBool()
	switch n.Op {
	case "AND":
		return Bool(a && b), nil
	case "OR":
		return Bool(a || b), nil
	case "XOR":
		return Bool(a != b), nil
	case "EQV":
		return Bool(a == b), nil
	case "IMP":
		return Bool(!a || b), nil
	default:
		return Null(), evalErr(exprText, "unknown logical operator %q", n.Op)
	}
}

func (n *Logical) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

// Comparison is =, <>, <, <=, >, >=.
type Comparison struct {
	Op          string
	Left, Right Node
}

func (n *Comparison) eval(ctx Context, exprText string) (Value, error) {
	l, err := n.Left.eval(ctx, exprText)
	if err != nil {
		return Null(), err
	}
	r, err := n.Right.eval(ctx, exprText)
	if err != nil {
		return Null(), err
	}
	if l.IsNull() || r.IsNull() {
		return Null(), nil
	}
	c := l.Compare(r)
	switch n.Op {
	case "=":
		return Bool(c == 0), nil
	case "<>":
		return Bool(c != 0), nil
	case "<":
		return Bool(c < 0), nil
	case "<=":
		return Bool(c <= 0), nil
	case ">":
		return Bool(c > 0), nil
	case ">=":
		return Bool(c >= 0), nil
	default:
		return Null(), evalErr(exprText, "unknown comparison operator %q", n.Op)
	}
}

func (n *Comparison) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

// ImplicitCompare wraps a bare RHS in a field-validator expression with
// "this column" as the synthesized left operand (§4.3 "FIELD_VALIDATOR").
type ImplicitCompare struct {
	Op    string
	Right Node
}

func (n *ImplicitCompare) eval(ctx Context, exprText string) (Value, error) {
	cmp := &Comparison{Op: n.Op, Left: &ThisColumn{}, Right: n.Right}
	return cmp.eval(ctx, exprText)
}

func (n *ImplicitCompare) String() string {
	return fmt.Sprintf("(<this column> %s %s)", n.Op, n.Right.String())
}

// NullTest is "Is Null" / "Is Not Null".
type NullTest struct {
	Operand Node
	Negate  bool
}

func (n *NullTest) eval(ctx Context, exprText string) (Value, error) {
	v, err := n.Operand.eval(ctx, exprText)
	if err != nil {
		return Null(), err
	}
	return Bool(v.IsNull() != n.Negate), nil
}

func (n *NullTest) String() string {
	if n.Negate {
		return n.Operand.String() + " Is Not Null"
	}
	return n.Operand.String() + " Is Null"
}

// InList is "expr In (v1, v2, ...)".
type InList struct {
	Operand Node
	Values  []Node
}

func (n *InList) eval(ctx Context, exprText string) (Value, error) {
	v, err := n.Operand.eval(ctx, exprText)
	if err != nil {
		return Null(), err
	}
	if v.IsNull() {
		return Null(), nil
	}
	for _, candidate := range n.Values {
		c, err := candidate.eval(ctx, exprText)
		if err != nil {
			return Null(), err
		}
		if !c.IsNull() && v.Equal(c) {
			return Bool(true), nil
		}
	}
	return Bool(false), nil
}

func (n *InList) String() string {
	parts := make([]string, len(n.Values))
	for i, v := range n.Values {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%s In (%s)", n.Operand.String(), strings.Join(parts, ", "))
}

// Between is "expr Between lo And hi".
type Between struct {
	Operand, Low, High Node
}

func (n *Between) eval(ctx Context, exprText string) (Value, error) {
	v, err := n.Operand.eval(ctx, exprText)
	if err != nil {
		return Null(), err
	}
	lo, err := n.Low.eval(ctx, exprText)
	if err != nil {
		return Null(), err
	}
	hi, err := n.High.eval(ctx, exprText)
	if err != nil {
		return Null(), err
	}
	if v.IsNull() || lo.IsNull() || hi.IsNull() {
		return Null(), nil
	}
	return Bool(v.Compare(lo) >= 0 && v.Compare(hi) <= 0), nil
}

func (n *Between) String() string {
	return fmt.Sprintf("%s Between %s And %s", n.Operand.String(), n.Low.String(), n.High.String())
}

// LikeExpr matches Operand's string form against Pattern's Access wildcard
// syntax; Compiled holds the translated regular expression (§4.3 "Like").
type LikeExpr struct {
	Operand  Node
	Pattern  string
	Compiled *regexp.Regexp
}

func (n *LikeExpr) eval(ctx Context, exprText string) (Value, error) {
	v, err := n.Operand.eval(ctx, exprText)
	if err != nil {
		return Null(), err
	}
	if v.IsNull() {
		return Null(), nil
	}
	if n.Compiled == nil {
		return Bool(false), nil
	}
	return Bool(n.Compiled.MatchString(v.AsString())), nil
}

func (n *LikeExpr) String() string {
	return fmt.Sprintf("%s Like %q", n.Operand.String(), n.Pattern)
}

// Paren preserves a parenthesized sub-expression for rendering.
type Paren struct {
	Inner Node
}

func (n *Paren) eval(ctx Context, exprText string) (Value, error) { return n.Inner.eval(ctx, exprText) }
func (n *Paren) String() string                                   { return "(" + n.Inner.String() + ")" }

// Call is a function invocation by case-insensitive name.
type Call struct {
	Name string
	Args []Node
}

func (n *Call) eval(ctx Context, exprText string) (Value, error) {
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := a.eval(ctx, exprText)
		if err != nil {
			return Null(), err
		}
		args[i] = v
	}
	fn, ok := lookupFunction(ctx, n.Name)
	if !ok {
		return Null(), evalErr(exprText, "unknown function %s", n.Name)
	}
	v, err := fn(ctx, exprText, args)
	if err != nil {
		var ee *EvalError
		if !errors.As(err, &ee) {
			return Null(), evalErr(exprText, "%s: %v", n.Name, err)
		}
		return Null(), err
	}
	return v, nil
}

func (n *Call) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Name, strings.Join(parts, ", "))
}

func normalizeNumber(d float64) Value {
	if d == float64(int64(d)) {
		return Long(int64(d))
	}
	return Double(d)
}
