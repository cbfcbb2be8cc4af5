package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/hydroqa/hmpi/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	limitsFile string

	// Loaded tool settings; flags override individual fields per command.
	cfg *config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "hmpi",
	Short: "Heavy Metal Pollution Index CLI",
	Long: `Compute heavy-metal pollution indices (HMPI, MCI, per-metal PI)
from water sample CSVs and classify each sample by severity`,
}

func Execute() {
	cobra.OnInitialize(loadConfig)
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.hmpi/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&limitsFile, "limits", "",
		"permissible limits file, YAML or JSON (default from config: limits.yaml)")
}

func loadConfig() {
	c, err := config.Load(cfgFile)
	if err != nil {
		if cfgFile != "" {
			log.Fatalf("Failed to load config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		c = &config.Settings{
			LimitsPath:   "limits.yaml",
			WeightScheme: "1/Si",
			OutputSuffix: "_indices",
		}
	}
	cfg = c
}

// limitsPath resolves the limits file: flag first, then config.
func limitsPath() string {
	if limitsFile != "" {
		return limitsFile
	}
	return cfg.LimitsPath
}
