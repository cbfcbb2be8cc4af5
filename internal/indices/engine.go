package indices

import (
	"fmt"

	"github.com/hydroqa/hmpi/internal/limits"
	"github.com/hydroqa/hmpi/internal/table"
)

// WeightScheme selects how per-metal weights enter the HMPI aggregation.
// MCI and PI are scheme-independent.
type WeightScheme string

const (
	// WeightInverseStandard weights each metal by 1/Si, so metals with
	// stricter standards dominate the index. This is the default.
	WeightInverseStandard WeightScheme = "1/Si"

	// WeightEqual gives every contributing metal the same weight.
	WeightEqual WeightScheme = "equal"
)

// ParseWeightScheme validates a scheme string from config or flags.
func ParseWeightScheme(s string) (WeightScheme, error) {
	switch WeightScheme(s) {
	case WeightInverseStandard, WeightEqual:
		return WeightScheme(s), nil
	case "":
		return WeightInverseStandard, nil
	default:
		return "", fmt.Errorf("unknown weight scheme %q (want %q or %q)",
			s, WeightInverseStandard, WeightEqual)
	}
}

// Output column names appended by Augment.
const (
	ColHMPI         = "HMPI"
	ColHMPICategory = "HMPI_Category"
	ColMCI          = "MCI"
	ColMCICategory  = "MCI_Category"
	piColumnPrefix  = "PI_"
)

// PIColumn returns the output column name for a metal's pollution index.
func PIColumn(metal string) string { return piColumnPrefix + metal }

// Engine computes pollution indices for a sample table against one limits
// snapshot. It holds no mutable state of its own: every method is a pure
// function of the table, the snapshot, and the scheme, evaluated row by row.
type Engine struct {
	limits *limits.Limits
	scheme WeightScheme
}

// NewEngine builds an engine over a limits snapshot. The snapshot is used
// read-only; administrative edits after this point are invisible to the
// engine (snapshot-at-load semantics).
func NewEngine(l *limits.Limits, scheme WeightScheme) *Engine {
	if scheme == "" {
		scheme = WeightInverseStandard
	}
	return &Engine{limits: l, scheme: scheme}
}

// HMPIRow computes the weighted index for one row:
//
//	Qi = (Ci/Si) * 100, Wi = 1/Si or 1, HMPI = sum(Qi*Wi) / sum(Wi)
//
// Only metals that are tracked, have a positive standard, and carry a
// numeric concentration in this row contribute. Zero contributors yield
// the undefined value, never zero.
func (e *Engine) HMPIRow(t *table.Table, row table.Row) Value {
	var qiSum, wiSum float64
	for _, m := range e.limits.Metals() {
		if !e.limits.Aggregable(m) {
			continue
		}
		ci, ok := t.GetNumeric(row, m)
		if !ok {
			continue
		}
		si, _ := e.limits.Standard(m)
		qi := (ci / si) * 100.0
		wi := 1.0
		if e.scheme == WeightInverseStandard {
			wi = 1.0 / si
		}
		qiSum += qi * wi
		wiSum += wi
	}
	if wiSum == 0 {
		return Undef
	}
	return Def(qiSum / wiSum)
}

// MCIRow computes the contamination index for one row: sum(Ci/Si) over the
// same contributing metals as HMPIRow. Undefined when nothing contributes.
func (e *Engine) MCIRow(t *table.Table, row table.Row) Value {
	var sum float64
	contributed := false
	for _, m := range e.limits.Metals() {
		if !e.limits.Aggregable(m) {
			continue
		}
		ci, ok := t.GetNumeric(row, m)
		if !ok {
			continue
		}
		si, _ := e.limits.Standard(m)
		sum += ci / si
		contributed = true
	}
	if !contributed {
		return Undef
	}
	return Def(sum)
}

// PIRow computes the single-metal pollution index Ci/Si for one row.
// Undefined when the metal is untracked, its standard is non-positive, or
// the row carries no usable concentration. Independent of the weight scheme.
func (e *Engine) PIRow(t *table.Table, row table.Row, metal string) Value {
	si, ok := e.limits.Standard(metal)
	if !ok || si <= 0 {
		return Undef
	}
	ci, ok := t.GetNumeric(row, metal)
	if !ok {
		return Undef
	}
	return Def(ci / si)
}

// ComputeHMPI evaluates HMPIRow for every row, in input order.
func (e *Engine) ComputeHMPI(t *table.Table) []Value {
	out := make([]Value, t.Len())
	for i, row := range t.Rows {
		out[i] = e.HMPIRow(t, row)
	}
	return out
}

// ComputeMCI evaluates MCIRow for every row, in input order.
func (e *Engine) ComputeMCI(t *table.Table) []Value {
	out := make([]Value, t.Len())
	for i, row := range t.Rows {
		out[i] = e.MCIRow(t, row)
	}
	return out
}

// ComputePI evaluates the PI column for every tracked metal. Metals absent
// from the table or with non-positive standards still get a column, all
// undefined.
func (e *Engine) ComputePI(t *table.Table) map[string][]Value {
	out := make(map[string][]Value, e.limits.Len())
	for _, m := range e.limits.Metals() {
		col := make([]Value, t.Len())
		for i, row := range t.Rows {
			col[i] = e.PIRow(t, row, m)
		}
		out[m] = col
	}
	return out
}

// Augment appends HMPI, HMPI_Category, MCI, MCI_Category, and one
// PI_<metal> column per tracked metal to the table, aligned row for row
// with the input. Categories are recomputed from the freshly computed
// values, never carried over.
func (e *Engine) Augment(t *table.Table) error {
	hmpi := e.ComputeHMPI(t)
	mci := e.ComputeMCI(t)

	if err := t.AddColumn(ColHMPI, render(hmpi)); err != nil {
		return err
	}
	if err := t.AddColumn(ColHMPICategory, categorize(hmpi, CategorizeHMPI)); err != nil {
		return err
	}
	if err := t.AddColumn(ColMCI, render(mci)); err != nil {
		return err
	}
	if err := t.AddColumn(ColMCICategory, categorize(mci, CategorizeMCI)); err != nil {
		return err
	}

	pi := e.ComputePI(t)
	for _, m := range e.limits.Metals() {
		if err := t.AddColumn(PIColumn(m), render(pi[m])); err != nil {
			return err
		}
	}
	return nil
}

func render(values []Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

func categorize(values []Value, fn func(Value) string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fn(v)
	}
	return out
}
