package query

import "fmt"

// MalformedQueryError reports a structural problem in a row set: a
// duplicate singular record, a join combination with mismatched flags, a
// union missing one of its two magic sub-query table rows, or an unknown
// flag value. Per §4.2/§7, this is recoverable -- the caller should
// degrade the query to Unknown and keep the raw rows rather than abort.
type MalformedQueryError struct {
	Reason string
}

func (e MalformedQueryError) Error() string {
	return fmt.Sprintf("malformed query: %s", e.Reason)
}

func malformed(format string, args ...interface{}) error {
	return MalformedQueryError{Reason: fmt.Sprintf(format, args...)}
}
