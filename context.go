package jackcessgo

import (
	"math/rand"
	"strings"

	"github.com/jahlborn/jackcessgo/expr"
)

// MapContext is a ready-made expr.Context backed by a plain field map, for
// hosts that already have a row's values as a map and don't want to write
// their own Context implementation. Lookup resolves [Table].[Field]-style
// references by their last path component, matching how Access expressions
// reference columns of whatever row is "current".
type MapContext struct {
	Values     map[string]expr.Value
	This       expr.Value
	Rnd        *rand.Rand
	WeekConfig expr.TemporalConfig
	Funcs      map[string]expr.Function
}

// NewMapContext returns a MapContext seeded from values, using f's
// configured temporal defaults.
func (f *Facade) NewMapContext(values map[string]expr.Value) *MapContext {
	return &MapContext{
		Values:    values,
		Rnd:        rand.New(rand.NewSource(1)),
		WeekConfig: f.opts.Temporal,
	}
}

func (c *MapContext) Lookup(parts []string) (expr.Value, bool) {
	if len(parts) == 0 {
		return expr.Value{}, false
	}
	v, ok := c.Values[parts[len(parts)-1]]
	return v, ok
}

func (c *MapContext) ThisValue() expr.Value { return c.This }

func (c *MapContext) Temporal() expr.TemporalConfig { return c.WeekConfig }

func (c *MapContext) Rand() *rand.Rand {
	if c.Rnd == nil {
		c.Rnd = rand.New(rand.NewSource(1))
	}
	return c.Rnd
}

func (c *MapContext) Function(name string) (expr.Function, bool) {
	if fn, ok := c.Funcs[name]; ok {
		return fn, true
	}
	for k, fn := range c.Funcs {
		if strings.EqualFold(k, name) {
			return fn, true
		}
	}
	return nil, false
}
