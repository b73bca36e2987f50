package expr

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContext struct {
	values map[string]Value
	this   Value
	rnd    *rand.Rand
}

func newFakeContext() *fakeContext {
	return &fakeContext{values: map[string]Value{}, rnd: rand.New(rand.NewSource(1))}
}

func (c *fakeContext) Lookup(parts []string) (Value, bool) {
	v, ok := c.values[parts[len(parts)-1]]
	return v, ok
}
func (c *fakeContext) ThisValue() Value               { return c.this }
func (c *fakeContext) Temporal() TemporalConfig        { return TemporalConfig{FirstDayOfWeek: SundayFirst, FirstWeekRule: FirstWeekSimple} }
func (c *fakeContext) Rand() *rand.Rand                { return c.rnd }
func (c *fakeContext) Function(name string) (Function, bool) { return nil, false }

func eval(t *testing.T, text string) Value {
	t.Helper()
	e, err := Parse(DefaultValue, text)
	require.NoError(t, err, "parse %q", text)
	v, err := e.Eval(newFakeContext())
	require.NoError(t, err, "eval %q", text)
	return v
}

func TestNumericStringCoercionAdds(t *testing.T) {
	v := eval(t, `12 + "25"`)
	assert.Equal(t, int64(37), v.l)
	assert.Equal(t, KindLong, v.Kind())
}

func TestSubtractNonNumericErrors(t *testing.T) {
	e, err := Parse(DefaultValue, `12 - "foo"`)
	require.NoError(t, err)
	_, err = e.Eval(newFakeContext())
	assert.Error(t, err)
}

func TestConcatCoercesNullToEmptyString(t *testing.T) {
	v := eval(t, `"a" & Null & "b"`)
	assert.Equal(t, "ab", v.AsString())
}

func TestArithmeticPrecedence(t *testing.T) {
	v := eval(t, `2 + 3 * 4`)
	assert.Equal(t, int64(14), v.l)
}

func TestExponentIsRightAssociative(t *testing.T) {
	v := eval(t, `2 ^ 3 ^ 2`)
	d, _ := v.AsDouble()
	assert.Equal(t, float64(512), d)
}

func TestComparisonAndLogical(t *testing.T) {
	v := eval(t, `(1 < 2) And (3 > 2)`)
	assert.True(t, v.AsBool())
}

func TestIsNullOperator(t *testing.T) {
	v := eval(t, `Null Is Null`)
	assert.True(t, v.AsBool())
}

func TestInList(t *testing.T) {
	v := eval(t, `3 In (1, 2, 3)`)
	assert.True(t, v.AsBool())
	v = eval(t, `5 In (1, 2, 3)`)
	assert.False(t, v.AsBool())
}

func TestBetween(t *testing.T) {
	v := eval(t, `5 Between 1 And 10`)
	assert.True(t, v.AsBool())
}

func TestLikeWildcardsAndCharClass(t *testing.T) {
	assert.True(t, eval(t, `"abc" Like "a*"`).AsBool())
	assert.True(t, eval(t, `"a1c" Like "a#c"`).AsBool())
	assert.True(t, eval(t, `"abc" Like "[a-c]bc"`).AsBool())
	assert.False(t, eval(t, `"abc" Like "[!a-c]bc"`).AsBool())
}

func TestFieldValidatorImplicitCompare(t *testing.T) {
	e, err := Parse(FieldValidator, `> 0`)
	require.NoError(t, err)
	ctx := newFakeContext()
	ctx.this = Long(5)
	v, err := e.Eval(ctx)
	require.NoError(t, err)
	assert.True(t, v.AsBool())
}

func TestIIfFunction(t *testing.T) {
	v := eval(t, `IIf(1 > 0, "yes", "no")`)
	assert.Equal(t, "yes", v.AsString())
}

func TestLeftRightMidFunctions(t *testing.T) {
	assert.Equal(t, "abc", eval(t, `Left("abcdef", 3)`).AsString())
	assert.Equal(t, "def", eval(t, `Right("abcdef", 3)`).AsString())
	assert.Equal(t, "cde", eval(t, `Mid("abcdef", 3, 3)`).AsString())
}

func TestNzReturnsDefaultForNull(t *testing.T) {
	assert.Equal(t, "fallback", eval(t, `Nz(Null, "fallback")`).AsString())
}

func TestFormatGeneralNumber(t *testing.T) {
	s, err := Format(Double(3.5), "General Number")
	require.NoError(t, err)
	assert.Equal(t, "3.5", s)
}

func TestFormatCurrencyNamed(t *testing.T) {
	s, err := Format(Double(1234.5), "Currency")
	require.NoError(t, err)
	assert.Equal(t, "$1,234.50", s)
}

func TestFormatCustomNumberPattern(t *testing.T) {
	s, err := Format(Double(1234.5), "#,##0.00")
	require.NoError(t, err)
	assert.Equal(t, "1,234.50", s)
}

func TestFormatYesNo(t *testing.T) {
	s, err := Format(Bool(true), "Yes/No")
	require.NoError(t, err)
	assert.Equal(t, "Yes", s)
}

func TestObjectReferenceLookup(t *testing.T) {
	ctx := newFakeContext()
	ctx.values["Age"] = Long(42)
	e, err := Parse(DefaultValue, `[Age]`)
	require.NoError(t, err)
	v, err := e.Eval(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.l)
}

func TestDebugStringRendersTree(t *testing.T) {
	e, err := Parse(DefaultValue, `1 + 2`)
	require.NoError(t, err)
	assert.Contains(t, e.DebugString(), "Binary")
}

func TestDivisionByZeroIsEvalError(t *testing.T) {
	e, err := Parse(DefaultValue, `1 / 0`)
	require.NoError(t, err)
	_, err = e.Eval(newFakeContext())
	require.Error(t, err)
	var evalError *EvalError
	assert.ErrorAs(t, err, &evalError)
}

func TestIntegerDivisionAndMod(t *testing.T) {
	assert.Equal(t, int64(3), eval(t, `10 \ 3`).l)
	assert.Equal(t, int64(1), eval(t, `10 Mod 3`).l)
}

func TestCDecProducesDecimalKind(t *testing.T) {
	v := eval(t, `CDec("19.99")`)
	assert.Equal(t, KindDecimal, v.Kind())
	assert.Equal(t, "19.99", v.AsString())
}

func TestFinancialFunctions(t *testing.T) {
	sln := eval(t, `SLN(10000, 1000, 5)`)
	d, _ := sln.AsDouble()
	assert.Equal(t, float64(1800), d)

	syd := eval(t, `SYD(10000, 1000, 5, 1)`)
	d, _ = syd.AsDouble()
	assert.Equal(t, float64(3000), d)

	fv := eval(t, `FV(0.01, 12, -100)`)
	d, _ = fv.AsDouble()
	assert.InDelta(t, 1268.25, d, 0.01)
}

func TestDatePartQuarterAndWeekdayName(t *testing.T) {
	v := eval(t, `DatePart("q", #5/15/2020#)`)
	n, _ := v.AsLong()
	assert.Equal(t, int64(2), n)

	name := eval(t, `WeekdayName(1)`)
	assert.Equal(t, "Sunday", name.AsString())
}

func TestStrConvProperCase(t *testing.T) {
	v := eval(t, `StrConv("hello world", 3)`)
	assert.Equal(t, "Hello World", v.AsString())
}

func TestRndDrawsFromContextRand(t *testing.T) {
	ctx := newFakeContext()
	e, err := Parse(DefaultValue, `Rnd()`)
	require.NoError(t, err)
	v, err := e.Eval(ctx)
	require.NoError(t, err)
	d, ok := v.AsDouble()
	require.True(t, ok)
	assert.True(t, d >= 0 && d < 1)
}

func TestFormatDatePatternQuotedLiteralNotCorrupted(t *testing.T) {
	s, err := Format(DateTime(epoch.AddDate(0, 0, 10)), `yyyy"-day-"dd`)
	require.NoError(t, err)
	assert.Contains(t, s, "-day-")
}

func TestFormatDatePatternQuarterAndWeekTokens(t *testing.T) {
	s, err := Format(DateTime(epoch.AddDate(0, 4, 15)), "q")
	require.NoError(t, err)
	assert.NotEqual(t, "q", s)

	// 1900-05-15 falls in week 20
	s, err = Format(DateTime(epoch.AddDate(0, 4, 15)), "ww")
	require.NoError(t, err)
	assert.Equal(t, "20", s)
}
