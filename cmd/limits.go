package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/hydroqa/hmpi/internal/limits"
	"github.com/spf13/cobra"
)

var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Inspect and edit the permissible limits file",
}

var limitsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the tracked metals and their standards",
	Run: func(cmd *cobra.Command, args []string) {
		lims, err := limits.Load(limitsPath())
		if err != nil {
			log.Fatalf("Failed to load limits: %v", err)
		}

		fmt.Printf("Limits file: %s (%d metals)\n", limitsPath(), lims.Len())
		for _, metal := range lims.Metals() {
			standard, _ := lims.Standard(metal)
			marker := ""
			if !lims.Aggregable(metal) {
				marker = "  (non-positive — excluded from aggregation)"
			}
			fmt.Printf("  %-6s %g mg/L%s\n", metal, standard, marker)
		}
	},
}

var limitsSetCmd = &cobra.Command{
	Use:   "set [metal] [standard]",
	Short: "Set a metal's permissible standard (mg/L)",
	Long: `Write a new limits file with the metal's standard updated. Running
computations keep the snapshot they loaded; the edit takes effect on
the next run (or on the next recompute under compute --watch).`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			log.Fatalf("Usage: hmpi limits set <metal> <standard>")
		}
		metal := args[0]
		standard, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			log.Fatalf("Standard must be a number: %v", err)
		}
		if standard <= 0 {
			log.Fatalf("Standard must be positive (got %g)", standard)
		}

		lims, err := loadOrEmpty(limitsPath())
		if err != nil {
			log.Fatalf("Failed to load limits: %v", err)
		}

		if err := lims.WithStandard(metal, standard).Save(limitsPath()); err != nil {
			log.Fatalf("Failed to save limits: %v", err)
		}
		fmt.Printf("Set %s = %g mg/L in %s\n", metal, standard, limitsPath())
	},
}

var limitsRemoveCmd = &cobra.Command{
	Use:   "rm [metal]",
	Short: "Stop tracking a metal",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			log.Fatalf("Usage: hmpi limits rm <metal>")
		}
		metal := args[0]

		lims, err := limits.Load(limitsPath())
		if err != nil {
			log.Fatalf("Failed to load limits: %v", err)
		}
		if _, ok := lims.Standard(metal); !ok {
			log.Fatalf("Metal %q is not tracked", metal)
		}

		if err := lims.Without(metal).Save(limitsPath()); err != nil {
			log.Fatalf("Failed to save limits: %v", err)
		}
		fmt.Printf("Removed %s from %s\n", metal, limitsPath())
	},
}

// loadOrEmpty lets `limits set` bootstrap a limits file that does not
// exist yet. Any other load failure is still fatal.
func loadOrEmpty(path string) (*limits.Limits, error) {
	lims, err := limits.Load(path)
	if err == nil {
		return lims, nil
	}
	var cfgErr *limits.ConfigError
	if errors.As(err, &cfgErr) && errors.Is(cfgErr.Err, os.ErrNotExist) {
		return limits.Empty(), nil
	}
	return nil, err
}

func init() {
	rootCmd.AddCommand(limitsCmd)
	limitsCmd.AddCommand(limitsShowCmd)
	limitsCmd.AddCommand(limitsSetCmd)
	limitsCmd.AddCommand(limitsRemoveCmd)
}
