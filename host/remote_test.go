package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDialect(t *testing.T) {
	assert.Equal(t, DialectSQLServer, ClassifyDialect("ODBC;DRIVER={SQL Server};SERVER=db1"))
	assert.Equal(t, DialectPostgres, ClassifyDialect("ODBC;DRIVER={PostgreSQL ANSI};SERVER=db2"))
	assert.Equal(t, DialectUnknown, ClassifyDialect("ODBC;DRIVER={FooBase}"))
	assert.Equal(t, DialectUnknown, ClassifyDialect(""))
}

func TestDialectString(t *testing.T) {
	assert.Equal(t, "sqlserver", DialectSQLServer.String())
	assert.Equal(t, "postgres", DialectPostgres.String())
	assert.Equal(t, "unknown", DialectUnknown.String())
}
