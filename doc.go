// Package jackcessgo is a thin facade over the three subsystems a host
// embedding an Access (.mdb/.accdb) reader/writer needs that don't reduce
// to straightforward page I/O: the SCSU text codec (package scsu), the
// saved-query SQL reconstructor (package query), and the expression
// parser/evaluator (package expr).
//
// # Data flow
//
// The host owns page I/O, table/cursor traversal, and any complex-column
// plumbing (see package complexcolumn); none of that is reached from here.
// This package only ever has things called into it:
//
//   - Text columns stored as SCSU are decoded via DecodeText before the host
//     hands them to a caller, and encoded via EncodeText before a write.
//   - A saved query's denormalized MSysQueries rows are decoded by the host
//     and handed to ReconstructQuery, which returns either a SQL string or a
//     degraded Unknown result retaining the raw rows.
//   - A column's default value, validation rule, or a row source's filter
//     expression is parsed once with ParseExpression and evaluated as many
//     times as the host needs against a Context it supplies.
//
// Each of the three subsystems is single-threaded and holds its own mutable
// state (codec cursor, parsed AST, evaluation context); see each package's
// doc comment for its specific ownership rules.
package jackcessgo
