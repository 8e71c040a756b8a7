package invoke

import (
	"math/big"

	"github.com/keshon/smartcmd/internal/interpret"
)

// Args are the values bound for a signature, in declaration order. The typed
// accessors panic when the value at i has another type, like a type assertion.
type Args struct {
	names  []string
	values []any
}

// NewArgs pairs parameter names with values. Mostly useful for calling
// handlers directly.
func NewArgs(names []string, values []any) Args {
	return Args{names: names, values: values}
}

func (a Args) Len() int { return len(a.values) }

func (a Args) Value(i int) any { return a.values[i] }

// Lookup returns the value bound to the parameter called name.
func (a Args) Lookup(name string) (any, bool) {
	for i, n := range a.names {
		if n == name {
			return a.values[i], true
		}
	}
	return nil, false
}

func (a Args) Int(i int) int                     { return a.values[i].(int) }
func (a Args) Float(i int) float64               { return a.values[i].(float64) }
func (a Args) BigInt(i int) *big.Int             { return a.values[i].(*big.Int) }
func (a Args) Text(i int) string                 { return a.values[i].(string) }
func (a Args) Entity(i int) interpret.Entity     { return a.values[i].(interpret.Entity) }
func (a Args) Ints(i int) []int                  { return a.values[i].([]int) }
func (a Args) Floats(i int) []float64            { return a.values[i].([]float64) }
func (a Args) Texts(i int) []string              { return a.values[i].([]string) }
func (a Args) Entities(i int) []interpret.Entity { return a.values[i].([]interpret.Entity) }
