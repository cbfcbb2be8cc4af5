package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// An empty config file sets nothing; defaults must apply.
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if s.LimitsPath != "limits.yaml" {
		t.Errorf("LimitsPath = %q, want limits.yaml", s.LimitsPath)
	}
	if s.WeightScheme != "1/Si" {
		t.Errorf("WeightScheme = %q, want 1/Si", s.WeightScheme)
	}
	if s.Workers != 0 {
		t.Errorf("Workers = %d, want 0 (auto)", s.Workers)
	}
	if s.OutputSuffix != "_indices" {
		t.Errorf("OutputSuffix = %q, want _indices", s.OutputSuffix)
	}
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	// A named config file that cannot be read is an error, not a silent
	// fallback to defaults.
	if _, err := Load(filepath.Join(t.TempDir(), "typo.yaml")); err == nil {
		t.Error("Load() accepted a nonexistent explicit config file")
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "limits_path: /etc/hmpi/limits.yaml\nweight_scheme: equal\nworkers: 4\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if s.LimitsPath != "/etc/hmpi/limits.yaml" {
		t.Errorf("LimitsPath = %q, want /etc/hmpi/limits.yaml", s.LimitsPath)
	}
	if s.WeightScheme != "equal" {
		t.Errorf("WeightScheme = %q, want equal", s.WeightScheme)
	}
	if s.Workers != 4 {
		t.Errorf("Workers = %d, want 4", s.Workers)
	}
	if s.OutputSuffix != "_indices" {
		t.Errorf("OutputSuffix = %q, want default _indices", s.OutputSuffix)
	}
}
