package jackcessgo

import (
	"github.com/jahlborn/jackcessgo/expr"
	"github.com/jahlborn/jackcessgo/query"
	"github.com/jahlborn/jackcessgo/scsu"
)

// Facade wires the three core subsystems together behind a single set of
// Options, mainly so a host doesn't have to thread a *logrus.Logger and a
// TemporalConfig through every call site by hand.
type Facade struct {
	opts Options
}

// New returns a Facade configured with opts (zero value is fine -- see
// DefaultOptions).
func New(opts Options) *Facade {
	return &Facade{opts: opts.withDefaults()}
}

// DecodeText decodes an SCSU byte stream into a Unicode string. A decode
// failure is logged and returned together with the text decoded before it
// (the partial-string-on-error behavior described in §7).
func (f *Facade) DecodeText(b []byte) (string, error) {
	s, err := scsu.Decode(b)
	if err != nil {
		f.opts.Logger.WithError(err).Warn("jackcessgo: scsu decode failed")
	}
	return s, err
}

// EncodeText encodes s as SCSU.
func (f *Facade) EncodeText(s string) ([]byte, error) {
	return scsu.Encode(s)
}

// ReconstructQuery recovers the SQL text for a saved query's row set,
// logging (not erroring) when the result degrades to Unknown.
func (f *Facade) ReconstructQuery(name string, objectFlag query.ObjectFlag, rows query.RowSet) query.Result {
	result := query.Render(name, objectFlag, rows)
	if result.Unknown {
		f.opts.Logger.WithField("query", name).Warn("jackcessgo: query reconstruction degraded to Unknown")
	}
	return result
}

// ParseExpression compiles expression text once; the returned Expression
// may be evaluated repeatedly against different Contexts.
func (f *Facade) ParseExpression(kind expr.ParseKind, text string) (*expr.Expression, error) {
	return expr.Parse(kind, text)
}

// Temporal returns the week-numbering defaults this Facade was configured
// with, for hosts building their own expr.Context.
func (f *Facade) Temporal() expr.TemporalConfig {
	return f.opts.Temporal
}

// Evaluate parses text as kind and evaluates it against ctx in one step.
// Most hosts parse once (caching the *expr.Expression) and evaluate many
// times instead; this is a convenience for one-off evaluation, e.g. a CLI
// command or a migration script checking a single default value.
func (f *Facade) Evaluate(kind expr.ParseKind, text string, ctx expr.Context) (expr.Value, error) {
	e, err := expr.Parse(kind, text)
	if err != nil {
		return expr.Value{}, &EvaluationError{Op: "parse", Err: err}
	}
	v, err := e.Eval(ctx)
	if err != nil {
		return expr.Value{}, &EvaluationError{Op: "eval", Err: err}
	}
	return v, nil
}
