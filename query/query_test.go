package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeRow(flag ObjectFlag, extra int32) Row {
	f := int16(flag)
	e := extra
	return Row{Attribute: AttrType, Flag: &f, Extra: &e}
}

func columnRow(expr, alias string, flag int16) Row {
	r := Row{Attribute: AttrColumn, Expression: strPtr(expr), Flag: &flag}
	if alias != "" {
		r.Name1 = strPtr(alias)
	}
	return r
}

func tableRow(name, alias string) Row {
	r := Row{Attribute: AttrTable, Name1: strPtr(name)}
	if alias != "" {
		r.Name2 = strPtr(alias)
	}
	return r
}

func TestRenderSimpleSelect(t *testing.T) {
	rows := RowSet{
		typeRow(Select, 0),
		columnRow("ID", "", 0),
		columnRow("Name", "", 0),
		tableRow("Customers", ""),
	}
	res := Render("Query1", Select, rows)
	require.False(t, res.Unknown)
	assert.Equal(t, "SELECT ID, Name FROM Customers\nWITH OWNERACCESS OPTION;", res.SQL)
}

func TestRenderSelectWithWhereAndOrder(t *testing.T) {
	where := "[Age] > 18"
	whereRow := Row{Attribute: AttrWhere, Expression: &where}
	orderFlag := int16(0)
	orderRow := Row{Attribute: AttrOrderBy, Expression: strPtr("Name"), Flag: &orderFlag}
	rows := RowSet{
		typeRow(Select, 0),
		columnRow("Name", "", 0),
		tableRow("Customers", ""),
		whereRow,
		orderRow,
	}
	res := Render("Query2", Select, rows)
	require.False(t, res.Unknown)
	assert.Equal(t, "SELECT Name FROM Customers WHERE [Age] > 18 ORDER BY Name\nWITH OWNERACCESS OPTION;", res.SQL)
}

func TestRenderSelectWithCompoundExpressionColumnIsNotReBracketed(t *testing.T) {
	rows := RowSet{
		typeRow(Select, 0),
		columnRow("Sum([Amount])", "Total", 0),
		tableRow("Orders", ""),
	}
	res := Render("Query3", Select, rows)
	require.False(t, res.Unknown)
	assert.Equal(t, "SELECT Sum([Amount]) AS Total FROM Orders\nWITH OWNERACCESS OPTION;", res.SQL)
}

func TestRenderAppendWithValues(t *testing.T) {
	flag := Row{Attribute: AttrFlag, Expression: strPtr("Archive")}
	rows := RowSet{
		typeRow(Append, 0),
		flag,
		columnRow("1", "", columnFlagAppendVal),
		columnRow("'hello'", "", columnFlagAppendVal),
	}
	res := Render("AppendQ", Append, rows)
	require.False(t, res.Unknown)
	assert.Equal(t, "INSERT INTO Archive VALUES (1, 'hello')\nWITH OWNERACCESS OPTION;", res.SQL)
}

func TestRenderAppendWithoutValuesUsesSelect(t *testing.T) {
	flag := Row{Attribute: AttrFlag, Expression: strPtr("Archive")}
	rows := RowSet{
		typeRow(Append, 0),
		flag,
		columnRow("ID", "", 0),
		tableRow("Orders", ""),
	}
	res := Render("AppendQ2", Append, rows)
	require.False(t, res.Unknown)
	assert.Equal(t, "INSERT INTO Archive SELECT ID FROM Orders\nWITH OWNERACCESS OPTION;", res.SQL)
}

func TestRenderUnion(t *testing.T) {
	noAll := int16(Union) | unionFlagNoAll
	rows := RowSet{
		typeRow(Union, 0),
		tableRow("", unionSubQuery1),
		tableRow("", unionSubQuery2),
	}
	rows[0].Flag = &noAll
	rows[1].Expression = strPtr("SELECT ID FROM T1")
	rows[2].Expression = strPtr("SELECT ID FROM T2")

	res := Render("UnionQ", Union, rows)
	require.False(t, res.Unknown)
	assert.Equal(t, "SELECT ID FROM T1 UNION SELECT ID FROM T2", res.SQL)
}

func TestRenderUnionMissingSubQueryIsUnknown(t *testing.T) {
	rows := RowSet{
		typeRow(Union, 0),
		tableRow("", unionSubQuery1),
	}
	res := Render("BadUnion", Union, rows)
	assert.True(t, res.Unknown)
}

func TestCompoundJoinWithMismatchedFlagsIsUnknown(t *testing.T) {
	innerFlag := int16(JoinInner)
	leftFlag := int16(JoinLeft)
	rows := RowSet{
		typeRow(Select, 0),
		columnRow("ID", "", 0),
		tableRow("A", ""),
		tableRow("B", ""),
		{Attribute: AttrJoin, Name1: strPtr("A"), Name2: strPtr("B"), Flag: &innerFlag, Expression: strPtr("A.ID = B.ID")},
		{Attribute: AttrJoin, Name1: strPtr("A"), Name2: strPtr("B"), Flag: &leftFlag, Expression: strPtr("A.X = B.X")},
	}
	res := Render("BadJoin", Select, rows)
	assert.True(t, res.Unknown)
}

func TestCompoundJoinCombinesPredicates(t *testing.T) {
	innerFlag := int16(JoinInner)
	rows := RowSet{
		typeRow(Select, 0),
		columnRow("ID", "", 0),
		tableRow("A", ""),
		tableRow("B", ""),
		{Attribute: AttrJoin, Name1: strPtr("A"), Name2: strPtr("B"), Flag: &innerFlag, Expression: strPtr("A.ID = B.ID")},
		{Attribute: AttrJoin, Name1: strPtr("A"), Name2: strPtr("B"), Flag: &innerFlag, Expression: strPtr("A.X = B.X")},
	}
	res := Render("GoodJoin", Select, rows)
	require.False(t, res.Unknown)
	assert.Contains(t, res.SQL, "(A INNER JOIN B ON (A.ID = B.ID) AND (A.X = B.X))")
}

func TestRenderParametersClause(t *testing.T) {
	textFlag := int16(typeText)
	extra := int32(50)
	rows := RowSet{
		typeRow(Select, 0),
		{Attribute: AttrParameter, Expression: strPtr("[MinAge]"), Flag: &textFlag, Extra: &extra},
		columnRow("ID", "", 0),
		tableRow("Customers", ""),
	}
	res := Render("ParamQ", Select, rows)
	require.False(t, res.Unknown)
	assert.Contains(t, res.SQL, "PARAMETERS [MinAge] Text(50);")
}

func TestRenderDataDefinitionPassesExpressionThrough(t *testing.T) {
	ddl := "CREATE TABLE Foo (ID COUNTER)"
	rows := RowSet{
		{Attribute: AttrType, Expression: &ddl, Flag: func() *int16 { f := int16(DataDefinition); return &f }()},
	}
	res := Render("DDLQuery", DataDefinition, rows)
	require.False(t, res.Unknown)
	assert.Equal(t, ddl, res.SQL)
}

func TestRenderUnrecognizedFlagIsUnknown(t *testing.T) {
	rows := RowSet{typeRow(Select, 0)}
	res := Render("Weird", ObjectFlag(200), rows)
	assert.True(t, res.Unknown)
}

func TestRenderCrossTab(t *testing.T) {
	transformFlag := int16(0)
	pivotFlag := int16(crossTabFlagPivot)
	normalFlag := int16(crossTabFlagNormal)
	rows := RowSet{
		typeRow(CrossTab, 0),
		{Attribute: AttrColumn, Expression: strPtr("Sum([Amount])"), Flag: &transformFlag},
		{Attribute: AttrColumn, Expression: strPtr("[Region]"), Flag: &normalFlag},
		{Attribute: AttrColumn, Expression: strPtr("[Month]"), Flag: &pivotFlag},
		tableRow("Sales", ""),
	}
	res := Render("CrossTabQ", CrossTab, rows)
	require.False(t, res.Unknown)
	assert.Contains(t, res.SQL, "TRANSFORM Sum([Amount]) SELECT [Region] FROM Sales PIVOT [Month]")
}

func TestRenderCrossTabCompoundSelectColumnIsNotReBracketed(t *testing.T) {
	transformFlag := int16(0)
	pivotFlag := int16(crossTabFlagPivot)
	normalFlag := int16(crossTabFlagNormal)
	rows := RowSet{
		typeRow(CrossTab, 0),
		{Attribute: AttrColumn, Expression: strPtr("Count(*)"), Flag: &transformFlag},
		{Attribute: AttrColumn, Expression: strPtr("Sum([Amount])"), Flag: &normalFlag},
		{Attribute: AttrColumn, Expression: strPtr("[Month]"), Flag: &pivotFlag},
		tableRow("Sales", ""),
	}
	res := Render("CrossTabQ2", CrossTab, rows)
	require.False(t, res.Unknown)
	assert.Contains(t, res.SQL, "SELECT Sum([Amount]) FROM Sales")
}
