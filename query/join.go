package query

import "fmt"

// JoinKind is the join type code carried in a join row's Flag (§4.2).
type JoinKind int16

const (
	JoinInner JoinKind = 1
	JoinLeft  JoinKind = 2
	JoinRight JoinKind = 3
)

func (k JoinKind) sql() string {
	switch k {
	case JoinInner:
		return "INNER JOIN"
	case JoinLeft:
		return "LEFT JOIN"
	case JoinRight:
		return "RIGHT JOIN"
	default:
		return "INNER JOIN"
	}
}

// joinEndpoint names one side of a join by table name and optional alias,
// as it would appear in a table row's Name1/Name2.
type joinEndpoint struct {
	name  string
	alias string
}

func (e joinEndpoint) key() string {
	if e.alias != "" {
		return e.alias
	}
	return e.name
}

func (e joinEndpoint) sql() string {
	return WithAlias(QuoteIdentifier(e.name), e.alias)
}

// tableRef is a single entry from the table row list, tracked as consumable
// so each compound join can remove the two tables it combines.
type tableRef struct {
	endpoint joinEndpoint
	consumed bool
}

// buildJoinedTables renders the FROM clause: tables combined pairwise into
// compound joins per §4.2 "Join combination", with any leftover tables
// listed comma-separated after the joined groups, in first-seen order.
func buildJoinedTables(rows RowSet) (string, error) {
	tableRows := rows.byAttribute(AttrTable)
	refs := make([]*tableRef, 0, len(tableRows))
	for _, t := range tableRows {
		refs = append(refs, &tableRef{endpoint: joinEndpoint{name: t.name1(), alias: t.name2()}})
	}
	findRef := func(name string) *tableRef {
		for _, r := range refs {
			if !r.consumed && r.endpoint.key() == name {
				return r
			}
		}
		return nil
	}

	groups, err := combineJoins(rows.byAttribute(AttrJoin))
	if err != nil {
		return "", err
	}

	var pieces []string
	for _, g := range groups {
		from := findRef(g.from)
		to := findRef(g.to)
		if from == nil || to == nil {
			return "", malformed("join references unknown table %q or %q", g.from, g.to)
		}
		from.consumed = true
		to.consumed = true
		predicate := g.predicates[0]
		for _, p := range g.predicates[1:] {
			predicate = fmt.Sprintf("(%s) AND (%s)", predicate, p)
		}
		pieces = append(pieces, fmt.Sprintf("(%s %s %s ON %s)", from.endpoint.sql(), g.kind.sql(), to.endpoint.sql(), predicate))
	}
	for _, r := range refs {
		if !r.consumed {
			pieces = append(pieces, r.endpoint.sql())
		}
	}
	if len(pieces) == 0 {
		return "", nil
	}
	out := pieces[0]
	for _, p := range pieces[1:] {
		out += ", " + p
	}
	return out, nil
}

// joinGroup is a compound join: every row sharing the same (from, to)
// endpoints contributes one predicate, AND-combined in encounter order.
type joinGroup struct {
	from, to   string
	kind       JoinKind
	predicates []string
}

// combineJoins groups join rows by identical (fromTable, toTable) endpoint
// text, in the order each distinct pair is first seen (§4.2). Rows of one
// pair whose flags differ are reported as a malformed query.
func combineJoins(rows []Row) ([]joinGroup, error) {
	var groups []joinGroup
	index := map[string]int{}
	for _, r := range rows {
		from := r.name1()
		to := r.name2()
		kind := JoinKind(r.flag())
		key := from + "\x00" + to
		if i, ok := index[key]; ok {
			if groups[i].kind != kind {
				return nil, malformed("compound join between %q and %q has mismatched flags", from, to)
			}
			groups[i].predicates = append(groups[i].predicates, r.expr())
			continue
		}
		index[key] = len(groups)
		groups = append(groups, joinGroup{from: from, to: to, kind: kind, predicates: []string{r.expr()}})
	}
	return groups, nil
}
