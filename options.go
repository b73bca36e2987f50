package jackcessgo

import (
	"github.com/sirupsen/logrus"

	"github.com/jahlborn/jackcessgo/expr"
)

// Options configures a Facade. The zero value is valid; unset fields take
// the defaults DefaultOptions returns.
type Options struct {
	// Logger receives diagnostics for conditions the subsystems themselves
	// treat as recoverable -- a query degrading to Unknown, an SCSU decode
	// returning a partial string. It never changes control flow.
	Logger logrus.FieldLogger

	// Temporal carries the locale's week defaults into expression
	// evaluation (the first day of the week used by Weekday, WeekdayName
	// and DatePart's "w" interval).
	Temporal expr.TemporalConfig
}

// DefaultOptions returns the Options a Facade uses when none is given:
// logrus's standard logger, and Access's own week-numbering defaults
// (Sunday-first, simple week rule).
func DefaultOptions() Options {
	return Options{
		Logger: logrus.StandardLogger(),
		Temporal: expr.TemporalConfig{
			FirstDayOfWeek: expr.SundayFirst,
			FirstWeekRule:  expr.FirstWeekSimple,
		},
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	if o.Temporal.FirstDayOfWeek == 0 {
		o.Temporal.FirstDayOfWeek = expr.SundayFirst
	}
	if o.Temporal.FirstWeekRule == 0 {
		o.Temporal.FirstWeekRule = expr.FirstWeekSimple
	}
	return o
}
