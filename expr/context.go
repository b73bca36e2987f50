package expr

import "math/rand"

// WeekStart identifies the host's configured first day of the week
// (1=Sunday default through 7=Saturday, per §4.3 evaluation-context
// contract).
type WeekStart int

const (
	SundayFirst WeekStart = 1 + iota
	MondayFirst
	TuesdayFirst
	WednesdayFirst
	ThursdayFirst
	FridayFirst
	SaturdayFirst
)

// FirstWeekRule names how the first week of the year is counted. It is
// carried in TemporalConfig; DatePart("ww", ...) and Format's "ww" token
// return the ISO-8601 week number and do not consult it.
type FirstWeekRule int

const (
	FirstWeekSimple      FirstWeekRule = 1
	FirstWeekFirstFour   FirstWeekRule = 2
	FirstWeekFirstFull   FirstWeekRule = 3
)

// TemporalConfig is the locale-derived calendar configuration the host
// supplies. Its FirstDayOfWeek is read by Weekday, WeekdayName and
// DatePart's "w" interval.
type TemporalConfig struct {
	FirstDayOfWeek WeekStart
	FirstWeekRule  FirstWeekRule
}

// Function is a built-in or host-registered callable.
type Function func(ctx Context, exprText string, args []Value) (Value, error)

// Context is the evaluation-context contract an expression reads from
// while it runs (§4.3 "Evaluation context contract"). A Context is
// borrowed for the duration of a single Eval call and is not safe for
// concurrent reentrant use (§5).
type Context interface {
	// Lookup resolves an ObjectRef's dotted/banged identifier chain,
	// e.g. {"Forms", "MyForm", "MyControl"}, to a value.
	Lookup(parts []string) (Value, bool)
	// ThisValue returns the current field's own value, for
	// FIELD_VALIDATOR/RECORD_VALIDATOR contexts.
	ThisValue() Value
	// Temporal returns the locale-derived calendar configuration.
	Temporal() TemporalConfig
	// Rand returns the deterministic random source seeded per the host's
	// configuration (Rnd()).
	Rand() *rand.Rand
	// Function looks up a host-registered function by case-insensitive
	// name, for names the built-in library doesn't cover.
	Function(name string) (Function, bool)
}

// lookupFunction checks the built-in library first, then falls back to
// the context's own registrations, so a host can extend the library; a
// built-in name always takes precedence over a host registration.
func lookupFunction(ctx Context, name string) (Function, bool) {
	if fn, ok := builtins[normalizeFuncName(name)]; ok {
		return fn, true
	}
	if ctx != nil {
		if fn, ok := ctx.Function(name); ok {
			return fn, true
		}
	}
	return nil, false
}
