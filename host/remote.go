// Package host provides collaborators a page-I/O/cursor host is expected to
// supply to the core jackcessgo packages: a thin dialect-dispatch helper for
// checking and opening passthrough-query remote targets.
//
// Nothing here is called by scsu, query, or expr -- it only ever calls in,
// handing query.Result-shaped information (the PASSTHROUGH remote path and
// optional connection-type string) to whichever database driver the host
// has configured.
package host

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"
)

// DB is the subset of *sql.DB a remote-target check needs, narrow enough
// that callers can pass a *sql.DB or a *sql.Conn-backed wrapper
// interchangeably.
type DB interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	Driver() driver.Driver
}

var _ DB = &sql.DB{}

// RemoteTarget is the decoded form of a PASSTHROUGH query's remote clause
// (query.Result.SQL carries it rendered as `IN '<path>' [<type>]`; the host
// is expected to have parsed the two pieces back out before calling here).
type RemoteTarget struct {
	Path           string
	ConnectionType string
}

// Dialect names the wire dialect a passthrough target speaks, inferred from
// its ConnectionType string the way Access records it in MSysQueries
// (e.g. "ODBC;DRIVER={SQL Server}..." vs "ODBC;DRIVER={PostgreSQL}...").
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectSQLServer
	DialectPostgres
)

func (d Dialect) String() string {
	switch d {
	case DialectSQLServer:
		return "sqlserver"
	case DialectPostgres:
		return "postgres"
	default:
		return "unknown"
	}
}

// ClassifyDialect inspects a connection-type string for the driver hints
// Access embeds in it and returns the dialect it most likely names.
func ClassifyDialect(connectionType string) Dialect {
	switch {
	case containsFold(connectionType, "sql server") || containsFold(connectionType, "sqlserver"):
		return DialectSQLServer
	case containsFold(connectionType, "postgres"):
		return DialectPostgres
	default:
		return DialectUnknown
	}
}

func containsFold(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if equalFold(s[i:i+len(substr)], substr) {
			return true
		}
	}
	return len(substr) == 0
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// RemoteExists reports whether the remote database a PASSTHROUGH query
// targets is reachable, dispatching the existence probe by switching on
// dbc.Driver()'s concrete type.
func RemoteExists(ctx context.Context, dbc DB, target RemoteTarget) (bool, error) {
	var probe string
	switch dbc.Driver().(type) {
	case *mssql.Driver:
		probe = `select 1`
	case *stdlib.Driver:
		probe = `select 1`
	default:
		return false, fmt.Errorf("host: unsupported passthrough driver %T for target %q", dbc.Driver(), target.Path)
	}

	var one int
	err := dbc.QueryRowContext(ctx, probe).Scan(&one)
	if err != nil {
		return false, fmt.Errorf("host: probing passthrough target %q: %w", target.Path, err)
	}
	return one == 1, nil
}

// OpenRemote opens a handle to a passthrough target given a dialect and a
// driver-specific data source name, mirroring sql.Open's contract so the
// caller owns the returned *sql.DB's lifetime.
func OpenRemote(dialect Dialect, dsn string) (*sql.DB, error) {
	switch dialect {
	case DialectSQLServer:
		return sql.Open("sqlserver", dsn)
	case DialectPostgres:
		return sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("host: cannot open remote of unknown dialect (dsn %q)", dsn)
	}
}
