package table

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Row maps column name to the raw cell value as read from the source.
type Row map[string]string

// Table is an ordered sample table: Columns fixes column order, Rows holds
// one Row per sample in input order. Index computation appends columns and
// never reorders or drops rows.
type Table struct {
	Columns []string
	Rows    []Row

	coerced    map[string]bool // columns where values needed coercion to parse
	nonNumeric map[string]bool // columns containing values that failed coercion
}

// New returns an empty table with the given column order.
func New(columns []string) *Table {
	return &Table{
		Columns:    append([]string(nil), columns...),
		coerced:    make(map[string]bool),
		nonNumeric: make(map[string]bool),
	}
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// GetNumeric returns the numeric value of row[col], if any. Missing cells,
// empty cells, and values that cannot be coerced to a finite float report
// ok=false. Textual numerals with surrounding whitespace are coerced, and
// the column is recorded for the validation report; values that fail
// coercion entirely record the column as non-numeric.
//
// This is the single accessor shared by HMPI, MCI, and PI computation.
func (t *Table) GetNumeric(row Row, col string) (float64, bool) {
	raw, present := row[col]
	if !present || raw == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return 0, false
		}
		f, err = strconv.ParseFloat(trimmed, 64)
		if err != nil {
			t.nonNumeric[col] = true
			return 0, false
		}
		t.coerced[col] = true
	}

	// ParseFloat accepts "NaN" and "Inf"; neither is a usable concentration.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		t.nonNumeric[col] = true
		return 0, false
	}
	return f, true
}

// CoercedColumns returns, sorted, the columns where at least one value
// required coercion to parse.
func (t *Table) CoercedColumns() []string {
	return sortedKeys(t.coerced)
}

// NonNumericColumns returns, sorted, the columns where at least one
// non-empty value could not be parsed as a number.
func (t *Table) NonNumericColumns() []string {
	return sortedKeys(t.nonNumeric)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// AddColumn appends a column with one value per row. Existing columns are
// overwritten in place so recomputation replaces stale results instead of
// duplicating headers.
func (t *Table) AddColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %s: %d values for %d rows", name, len(values), len(t.Rows))
	}
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
	for i, row := range t.Rows {
		row[name] = values[i]
	}
	return nil
}

// Append adds a row. Cells for unknown columns are dropped silently.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }
