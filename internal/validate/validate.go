package validate

import (
	"math"
	"sort"

	"github.com/hydroqa/hmpi/internal/limits"
	"github.com/hydroqa/hmpi/internal/table"
)

// Report summarises how well a sample table lines up with the tracked
// metals before indices are computed.
type Report struct {
	Rows              int
	MissingColumns    []string           // tracked metals with no table column
	CoercedColumns    []string           // columns that parsed only after coercion
	NonNumericColumns []string           // columns with unparseable non-empty values
	MissingCoords     int                // empty/unparseable latitude+longitude cells
	MedianMagnitude   map[string]float64 // median |Ci| per metal column with data
	SuspectUnits      []string           // metals whose magnitudes suggest µg/L, not mg/L
}

// suspectMagnitude flags columns whose median is implausibly large for
// mg/L readings, a common sign of unconverted µg/L data.
const suspectMagnitude = 1000.0

// Valid reports whether indices can be computed meaningfully: every tracked
// metal must have a column. Coercions and non-numeric cells degrade to
// undefined results and do not fail validation.
func (r *Report) Valid() bool { return len(r.MissingColumns) == 0 }

// Check inspects the table against the limits snapshot. It walks every
// metal column once, which also populates the table's coercion bookkeeping.
func Check(t *table.Table, l *limits.Limits) *Report {
	report := &Report{
		Rows:            t.Len(),
		MedianMagnitude: make(map[string]float64),
	}

	for _, metal := range l.Metals() {
		if !t.HasColumn(metal) {
			report.MissingColumns = append(report.MissingColumns, metal)
			continue
		}

		var magnitudes []float64
		for _, row := range t.Rows {
			if ci, ok := t.GetNumeric(row, metal); ok {
				magnitudes = append(magnitudes, math.Abs(ci))
			}
		}
		if len(magnitudes) > 0 {
			med := median(magnitudes)
			report.MedianMagnitude[metal] = med
			if med > suspectMagnitude {
				report.SuspectUnits = append(report.SuspectUnits, metal)
			}
		}
	}
	sort.Strings(report.MissingColumns)
	sort.Strings(report.SuspectUnits)

	report.CoercedColumns = t.CoercedColumns()
	report.NonNumericColumns = t.NonNumericColumns()
	report.MissingCoords = countMissingCoords(t)

	return report
}

// countMissingCoords tallies empty or unparseable latitude/longitude cells.
// Coordinates are optional; the count is informational only.
func countMissingCoords(t *table.Table) int {
	if !t.HasColumn("latitude") || !t.HasColumn("longitude") {
		return 0
	}
	missing := 0
	for _, row := range t.Rows {
		if _, ok := t.GetNumeric(row, "latitude"); !ok {
			missing++
		}
		if _, ok := t.GetNumeric(row, "longitude"); !ok {
			missing++
		}
	}
	return missing
}

func median(values []float64) float64 {
	sort.Float64s(values)
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
