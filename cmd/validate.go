package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hydroqa/hmpi/internal/limits"
	"github.com/hydroqa/hmpi/internal/table"
	"github.com/hydroqa/hmpi/internal/validate"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a sample CSV against the tracked metals",
	Long: `Check that a sample CSV carries a column for every tracked metal
and report data problems (non-numeric cells, coerced values, missing
coordinates, suspicious magnitudes) before computing indices`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			log.Fatalf("Please specify a sample CSV file to validate")
		}
		filePath := args[0]

		lims, err := limits.Load(limitsPath())
		if err != nil {
			log.Fatalf("Failed to load limits: %v", err)
		}

		t, err := table.ReadCSV(filePath)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", filePath, err)
		}

		report := validate.Check(t, lims)

		fmt.Printf("File: %s\n", filePath)
		fmt.Printf("- Rows: %d\n", report.Rows)
		fmt.Printf("- Tracked metals: %d\n", lims.Len())
		if len(report.MissingColumns) > 0 {
			fmt.Printf("- Missing metal columns: %s\n", strings.Join(report.MissingColumns, ", "))
		}
		if len(report.CoercedColumns) > 0 {
			fmt.Printf("- Coerced columns: %s\n", strings.Join(report.CoercedColumns, ", "))
		}
		if len(report.NonNumericColumns) > 0 {
			fmt.Printf("- Columns with non-numeric values: %s\n", strings.Join(report.NonNumericColumns, ", "))
		}
		if report.MissingCoords > 0 {
			fmt.Printf("- Missing coordinate cells: %d\n", report.MissingCoords)
		}
		if len(report.SuspectUnits) > 0 {
			fmt.Printf("- Suspicious magnitudes (µg/L data?): %s\n", strings.Join(report.SuspectUnits, ", "))
		}
		if invalid := lims.Invalid(); len(invalid) > 0 {
			fmt.Printf("- Metals with non-positive standards: %s\n", strings.Join(invalid, ", "))
		}

		for _, metal := range lims.Metals() {
			if med, ok := report.MedianMagnitude[metal]; ok {
				fmt.Printf("  %s median magnitude: %g mg/L\n", metal, med)
			}
		}

		if !report.Valid() {
			fmt.Println("Validation FAILED: map every tracked metal to a column and retry")
			os.Exit(1)
		}
		fmt.Println("Validation passed")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
