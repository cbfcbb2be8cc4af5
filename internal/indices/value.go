package indices

import "strconv"

// Value is an optional index result. Undefined is a first-class outcome —
// it means the row or metal had no usable inputs, and it must survive all
// the way into the output table rather than collapsing to zero. The zero
// Value is undefined.
type Value struct {
	Float64 float64
	Defined bool
}

// Def wraps a defined float.
func Def(f float64) Value { return Value{Float64: f, Defined: true} }

// Undef is the undefined result.
var Undef = Value{}

// String renders the value for CSV output: shortest exact decimal form for
// defined values, empty string for undefined ones.
func (v Value) String() string {
	if !v.Defined {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'g', -1, 64)
}
