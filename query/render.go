package query

import (
	"fmt"
	"strings"
)

// Result is the outcome of rendering one saved query's row set: either a
// syntactically valid Access SQL string, or an Unknown variant that
// retains the raw rows for the host to display as-is (§4.2/§7).
type Result struct {
	Kind ObjectFlag
	SQL  string
	// Unknown is true when the row set could not be rendered -- either the
	// object flag didn't match one of the nine kinds, or a structural
	// MalformedQueryError degraded it. Rows is always populated.
	Unknown bool
	Rows    RowSet
}

// Flag bits on the type record, orthogonal to the object flag itself.
const (
	flagDistinct    = 0x01
	flagDistinctRow = 0x02
	flagHasTop      = 0x04
	flagTopPercent  = 0x08
)

// Flag bits on column rows. columnFlagAppendVal is bit 15 of a signed
// 16-bit flag, so it's expressed as the equivalent negative literal.
const (
	columnFlagDescending int16 = 0x01
	columnFlagAppendVal  int16 = -32768
	crossTabFlagPivot    int16 = 0x01
	crossTabFlagNormal   int16 = 0x02
)

const (
	unionSubQuery1 = "X7YZ_____1"
	unionSubQuery2 = "X7YZ_____2"
	unionFlagNoAll = 0x02
)

// Render reconstructs the SQL string for a saved query, or returns an
// Unknown Result when the rows don't describe a recognized query (§4.2).
func Render(name string, objectFlag ObjectFlag, rows RowSet) Result {
	sql, err := render(objectFlag, rows)
	if err != nil {
		return Result{Kind: objectFlag, Unknown: true, Rows: rows}
	}
	return Result{Kind: objectFlag, SQL: sql, Rows: rows}
}

func render(objectFlag ObjectFlag, rows RowSet) (string, error) {
	typeRow, ok := rows.single(AttrType)
	if !ok {
		return "", malformed("row set carries no singular type record")
	}
	// The low nibble of the type record's flag carries modifier bits
	// (DISTINCT/TOP/union ALL); the object flag itself lives in the
	// remaining bits, so only those are compared here.
	if ObjectFlag(byte(typeRow.flag()) &^ 0x0F) != objectFlag {
		return "", malformed("type record flag %d disagrees with object flag %d", typeRow.flag(), objectFlag)
	}
	if err := checkSingularity(rows); err != nil {
		return "", err
	}

	var body string
	var err error
	switch objectFlag {
	case Select:
		body, err = renderSelectBody(rows, "SELECT")
	case MakeTable:
		body, err = renderMakeTable(rows)
	case Append:
		body, err = renderAppend(rows)
	case Update:
		body, err = renderUpdate(rows)
	case Delete:
		body, err = renderSelectBody(rows, "DELETE")
	case CrossTab:
		body, err = renderCrossTab(rows)
	case DataDefinition:
		return typeRow.expr(), nil
	case Passthrough:
		body, err = renderPassthrough(rows)
		return body, err
	case Union:
		return renderUnion(rows)
	default:
		return "", malformed("unrecognized object flag %d", objectFlag)
	}
	if err != nil {
		return "", err
	}
	return wrapStandardClauses(rows, body), nil
}

// checkSingularity enforces §3.2: at most one record per singular
// attribute.
func checkSingularity(rows RowSet) error {
	for _, a := range []Attribute{AttrType, AttrFlag, AttrRemoteDB, AttrWhere, AttrHaving} {
		if len(rows.byAttribute(a)) > 1 {
			return malformed("attribute %d appears more than once", a)
		}
	}
	return nil
}

// wrapStandardClauses adds the leading PARAMETERS clause and trailing
// WITH OWNERACCESS OPTION, which every variant except data-definition and
// union supports (§4.2).
func wrapStandardClauses(rows RowSet, body string) string {
	var b strings.Builder
	if params := renderParameters(rows); params != "" {
		b.WriteString(params)
		b.WriteString("\n")
	}
	b.WriteString(body)
	b.WriteString("\nWITH OWNERACCESS OPTION;")
	return b.String()
}

func remoteClause(rows RowSet) string {
	remote, ok := rows.single(AttrRemoteDB)
	if !ok {
		return ""
	}
	out := " IN '" + remote.expr() + "'"
	if remote.name1() != "" {
		out += " " + remote.name1()
	}
	return out
}

func selectColumns(rows RowSet) string {
	cols := rows.byAttribute(AttrColumn)
	var out []string
	for _, c := range cols {
		if c.flag()&columnFlagAppendVal != 0 {
			continue
		}
		out = append(out, WithAlias(QuoteColumnExpr(c.expr()), c.name1()))
	}
	if len(out) == 0 {
		return "*"
	}
	return strings.Join(out, ", ")
}

func orderByClause(rows RowSet) string {
	cols := rows.byAttribute(AttrOrderBy)
	var out []string
	for _, c := range cols {
		col := QuoteColumnExpr(c.expr())
		if c.flag()&columnFlagDescending != 0 {
			col += " DESC"
		}
		out = append(out, col)
	}
	if len(out) == 0 {
		return ""
	}
	return "ORDER BY " + strings.Join(out, ", ")
}

func groupByClause(rows []Row) string {
	var out []string
	for _, c := range rows {
		out = append(out, QuoteColumnExpr(c.expr()))
	}
	if len(out) == 0 {
		return ""
	}
	return "GROUP BY " + strings.Join(out, ", ")
}

// selectPrefix renders the DISTINCT/DISTINCTROW/TOP modifiers carried on
// the type record's flag and extra fields.
func selectPrefix(rows RowSet, verb string) string {
	typeRow, _ := rows.single(AttrType)
	out := verb
	switch {
	case typeRow.flag()&flagDistinctRow != 0:
		out += " DISTINCTROW"
	case typeRow.flag()&flagDistinct != 0:
		out += " DISTINCT"
	}
	if typeRow.flag()&flagHasTop != 0 {
		out += fmt.Sprintf(" TOP %d", typeRow.extra())
		if typeRow.flag()&flagTopPercent != 0 {
			out += " PERCENT"
		}
	}
	return out
}

func renderSelectBody(rows RowSet, verb string) (string, error) {
	joined, err := buildJoinedTables(rows)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(selectPrefix(rows, verb))
	if verb == "SELECT" {
		b.WriteString(" ")
		b.WriteString(selectColumns(rows))
	}
	if joined != "" {
		b.WriteString(" FROM ")
		b.WriteString(joined)
	}
	if where, ok := rows.single(AttrWhere); ok {
		b.WriteString(" WHERE ")
		b.WriteString(where.expr())
	}
	if gb := groupByClause(rows.byAttribute(AttrGroupBy)); gb != "" {
		b.WriteString(" ")
		b.WriteString(gb)
	}
	if having, ok := rows.single(AttrHaving); ok {
		b.WriteString(" HAVING ")
		b.WriteString(having.expr())
	}
	if ob := orderByClause(rows); ob != "" {
		b.WriteString(" ")
		b.WriteString(ob)
	}
	return b.String(), nil
}

func renderMakeTable(rows RowSet) (string, error) {
	body, err := renderSelectBody(rows, "SELECT")
	if err != nil {
		return "", err
	}
	flag, ok := rows.single(AttrFlag)
	if !ok {
		return "", malformed("make-table query missing target table flag record")
	}
	target := " INTO " + QuoteIdentifier(flag.expr()) + remoteClause(rows)
	idx := strings.Index(body, " FROM ")
	if idx < 0 {
		return body + target, nil
	}
	return body[:idx] + target + body[idx:], nil
}

func renderAppend(rows RowSet) (string, error) {
	flag, ok := rows.single(AttrFlag)
	if !ok {
		return "", malformed("append query missing target table flag record")
	}
	target := "INSERT INTO " + QuoteIdentifier(flag.expr()) + remoteClause(rows)

	cols := rows.byAttribute(AttrColumn)
	var values []Row
	for _, c := range cols {
		if c.flag()&columnFlagAppendVal != 0 {
			values = append(values, c)
		}
	}
	if len(values) > 0 {
		var vs []string
		for _, v := range values {
			vs = append(vs, v.expr())
		}
		return target + " VALUES (" + strings.Join(vs, ", ") + ")", nil
	}
	body, err := renderSelectBody(rows, "SELECT")
	if err != nil {
		return "", err
	}
	return target + " " + body, nil
}

func renderUpdate(rows RowSet) (string, error) {
	joined, err := buildJoinedTables(rows)
	if err != nil {
		return "", err
	}
	var sets []string
	for _, c := range rows.byAttribute(AttrColumn) {
		sets = append(sets, QuoteIdentifier(c.name1())+" = "+c.expr())
	}
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(joined)
	b.WriteString(" SET ")
	b.WriteString(strings.Join(sets, ", "))
	if where, ok := rows.single(AttrWhere); ok {
		b.WriteString(" WHERE ")
		b.WriteString(where.expr())
	}
	return b.String(), nil
}

func renderCrossTab(rows RowSet) (string, error) {
	cols := rows.byAttribute(AttrColumn)
	var transform, pivot Row
	var haveTransform, havePivot bool
	var selectCols []Row
	for _, c := range cols {
		switch {
		case c.flag()&crossTabFlagPivot != 0:
			pivot = c
			havePivot = true
		case c.flag()&crossTabFlagNormal != 0:
			selectCols = append(selectCols, c)
		default:
			transform = c
			haveTransform = true
		}
	}
	if !haveTransform || !havePivot {
		return "", malformed("cross-tab query missing transform or pivot column")
	}

	var normalGroupBy []Row
	for _, g := range rows.byAttribute(AttrGroupBy) {
		if g.flag()&crossTabFlagNormal != 0 {
			normalGroupBy = append(normalGroupBy, g)
		}
	}

	joined, err := buildJoinedTables(rows)
	if err != nil {
		return "", err
	}

	var cb strings.Builder
	var colParts []string
	for _, c := range selectCols {
		colParts = append(colParts, WithAlias(QuoteColumnExpr(c.expr()), c.name1()))
	}
	cb.WriteString("TRANSFORM ")
	cb.WriteString(transform.expr())
	cb.WriteString(" SELECT ")
	if len(colParts) == 0 {
		cb.WriteString("*")
	} else {
		cb.WriteString(strings.Join(colParts, ", "))
	}
	if joined != "" {
		cb.WriteString(" FROM ")
		cb.WriteString(joined)
	}
	if where, ok := rows.single(AttrWhere); ok {
		cb.WriteString(" WHERE ")
		cb.WriteString(where.expr())
	}
	if gb := groupByClause(normalGroupBy); gb != "" {
		cb.WriteString(" ")
		cb.WriteString(gb)
	}
	if having, ok := rows.single(AttrHaving); ok {
		cb.WriteString(" HAVING ")
		cb.WriteString(having.expr())
	}
	cb.WriteString(" PIVOT ")
	cb.WriteString(pivot.expr())
	return cb.String(), nil
}

func renderPassthrough(rows RowSet) (string, error) {
	typeRow, _ := rows.single(AttrType)
	return typeRow.expr() + remoteClause(rows), nil
}

// renderUnion finds the two sub-query table rows tagged with the magic
// union markers and combines their already-rendered SQL text (§4.2).
func renderUnion(rows RowSet) (string, error) {
	tables := rows.byAttribute(AttrTable)
	var q1, q2 string
	var have1, have2 bool
	for _, t := range tables {
		switch t.name2() {
		case unionSubQuery1:
			q1 = normalizeUnionWhitespace(t.expr())
			have1 = true
		case unionSubQuery2:
			q2 = normalizeUnionWhitespace(t.expr())
			have2 = true
		}
	}
	if !have1 || !have2 {
		return "", malformed("union query missing one of its two sub-query table rows")
	}
	typeRow, _ := rows.single(AttrType)
	verb := "UNION ALL"
	if typeRow.flag()&unionFlagNoAll != 0 {
		verb = "UNION"
	}
	out := q1 + " " + verb + " " + q2
	if ob := orderByClause(rows); ob != "" {
		out += " " + ob
	}
	return out, nil
}

func normalizeUnionWhitespace(s string) string {
	lines := strings.FieldsFunc(s, func(r rune) bool { return r == '\r' || r == '\n' })
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
