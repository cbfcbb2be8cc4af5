package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hydroqa/hmpi/internal/limits"
	"github.com/hydroqa/hmpi/internal/table"
)

func loadLimits(t *testing.T, content string) *limits.Limits {
	t.Helper()
	path := filepath.Join(t.TempDir(), "limits.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write limits: %v", err)
	}
	lims, err := limits.Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return lims
}

func TestCheck_CleanTable(t *testing.T) {
	lims := loadLimits(t, "Pb: 0.01\nCd: 0.003\n")
	tbl := table.New([]string{"Pb", "Cd"})
	tbl.Append(table.Row{"Pb": "0.01", "Cd": "0.001"})
	tbl.Append(table.Row{"Pb": "0.03", "Cd": "0.002"})
	tbl.Append(table.Row{"Pb": "0.02", "Cd": "0.003"})

	report := Check(tbl, lims)
	if !report.Valid() {
		t.Errorf("Valid() = false for a clean table: %+v", report)
	}
	if report.Rows != 3 {
		t.Errorf("Rows = %d, want 3", report.Rows)
	}
	if med := report.MedianMagnitude["Pb"]; med != 0.02 {
		t.Errorf("MedianMagnitude[Pb] = %g, want 0.02", med)
	}
	if med := report.MedianMagnitude["Cd"]; med != 0.002 {
		t.Errorf("MedianMagnitude[Cd] = %g, want 0.002", med)
	}
	if len(report.SuspectUnits) != 0 {
		t.Errorf("SuspectUnits = %v, want none", report.SuspectUnits)
	}
}

func TestCheck_MissingColumnFailsValidation(t *testing.T) {
	lims := loadLimits(t, "Pb: 0.01\nCd: 0.003\nHg: 0.001\n")
	tbl := table.New([]string{"Pb"})
	tbl.Append(table.Row{"Pb": "0.02"})

	report := Check(tbl, lims)
	if report.Valid() {
		t.Error("Valid() = true despite missing metal columns")
	}
	if len(report.MissingColumns) != 2 ||
		report.MissingColumns[0] != "Cd" || report.MissingColumns[1] != "Hg" {
		t.Errorf("MissingColumns = %v, want [Cd Hg]", report.MissingColumns)
	}
}

func TestCheck_CoercionAndCoords(t *testing.T) {
	lims := loadLimits(t, "Pb: 0.01\n")
	tbl := table.New([]string{"Pb", "latitude", "longitude"})
	tbl.Append(table.Row{"Pb": " 0.02 ", "latitude": "12.9", "longitude": "77.6"})
	tbl.Append(table.Row{"Pb": "oops", "latitude": "", "longitude": "77.6"})

	report := Check(tbl, lims)
	if !report.Valid() {
		t.Errorf("coercible/non-numeric data must not fail validation: %+v", report)
	}
	if len(report.CoercedColumns) != 1 || report.CoercedColumns[0] != "Pb" {
		t.Errorf("CoercedColumns = %v, want [Pb]", report.CoercedColumns)
	}
	if len(report.NonNumericColumns) != 1 || report.NonNumericColumns[0] != "Pb" {
		t.Errorf("NonNumericColumns = %v, want [Pb]", report.NonNumericColumns)
	}
	if report.MissingCoords != 1 {
		t.Errorf("MissingCoords = %d, want 1", report.MissingCoords)
	}
}

func TestCheck_SuspectUnits(t *testing.T) {
	// Median magnitude way above mg/L range suggests unconverted µg/L.
	lims := loadLimits(t, "Fe: 0.3\n")
	tbl := table.New([]string{"Fe"})
	tbl.Append(table.Row{"Fe": "2400"})
	tbl.Append(table.Row{"Fe": "1800"})
	tbl.Append(table.Row{"Fe": "3100"})

	report := Check(tbl, lims)
	if len(report.SuspectUnits) != 1 || report.SuspectUnits[0] != "Fe" {
		t.Errorf("SuspectUnits = %v, want [Fe]", report.SuspectUnits)
	}
}

func TestCheck_NoCoordColumns(t *testing.T) {
	lims := loadLimits(t, "Pb: 0.01\n")
	tbl := table.New([]string{"Pb"})
	tbl.Append(table.Row{"Pb": "0.02"})

	if report := Check(tbl, lims); report.MissingCoords != 0 {
		t.Errorf("MissingCoords = %d without coordinate columns, want 0", report.MissingCoords)
	}
}
