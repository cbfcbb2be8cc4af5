package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings holds tool-level defaults. Per-run values (the limits snapshot,
// the weight scheme for one compute invocation) can override these via
// flags; nothing here is read again mid-computation.
type Settings struct {
	LimitsPath   string `mapstructure:"limits_path"`
	WeightScheme string `mapstructure:"weight_scheme"`
	Workers      int    `mapstructure:"workers"`
	OutputSuffix string `mapstructure:"output_suffix"`
}

// Load loads settings from file, env, and defaults.
// Precedence: env (HMPI_*) > config file > defaults.
func Load(cfgFile string) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("HMPI")
	v.AutomaticEnv()

	v.SetDefault("limits_path", "limits.yaml")
	v.SetDefault("weight_scheme", "1/Si")
	v.SetDefault("workers", 0) // 0 = auto-detect CPU cores
	v.SetDefault("output_suffix", "_indices")

	if cfgFile != "" {
		// The user named this file; failing to read it must not silently
		// degrade to defaults.
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".hmpi"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// The search-path config is optional; env and defaults suffice.
		_ = v.ReadInConfig()
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &s, nil
}
