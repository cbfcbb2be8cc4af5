package limits

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeLimits(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeLimits(t, "limits.yaml", "Pb: 0.01\nCd: 0.003\nAs: 0.01\n")

	lims, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if lims.Len() != 3 {
		t.Errorf("Len() = %d, want 3", lims.Len())
	}

	// Sorted, case-preserving metal order.
	want := []string{"As", "Cd", "Pb"}
	got := lims.Metals()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Metals()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if s, ok := lims.Standard("Cd"); !ok || s != 0.003 {
		t.Errorf("Standard(Cd) = %v, %v; want 0.003, true", s, ok)
	}
	if _, ok := lims.Standard("Hg"); ok {
		t.Error("Standard(Hg) reported tracked for an untracked metal")
	}
}

func TestLoad_JSON(t *testing.T) {
	path := writeLimits(t, "limits.json", `{"Pb": 0.01, "Fe": 0.3}`)

	lims, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if s, ok := lims.Standard("Fe"); !ok || s != 0.3 {
		t.Errorf("Standard(Fe) = %v, %v; want 0.3, true", s, ok)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not a mapping", "- Pb\n- Cd\n"},
		{"non-numeric standard", "Pb: lots\n"},
		{"empty document", ""},
		{"nested mapping value", "Pb:\n  value: 0.01\n"},
	}
	for _, tt := range tests {
		path := writeLimits(t, "limits.yaml", tt.content)
		_, err := Load(path)
		if err == nil {
			t.Errorf("%s: Load() succeeded, want ConfigError", tt.name)
			continue
		}
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s: error type = %T, want *ConfigError", tt.name, err)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *ConfigError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ConfigError does not wrap os.ErrNotExist: %v", err)
	}
}

func TestLoad_NonPositiveTolerated(t *testing.T) {
	path := writeLimits(t, "limits.yaml", "Pb: 0.01\nAs: 0\nHg: -2\n")

	lims, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if lims.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (non-positive standards stay tracked)", lims.Len())
	}
	if lims.Aggregable("As") || lims.Aggregable("Hg") {
		t.Error("non-positive standards reported aggregable")
	}
	if !lims.Aggregable("Pb") {
		t.Error("Pb should be aggregable")
	}

	invalid := lims.Invalid()
	if len(invalid) != 2 || invalid[0] != "As" || invalid[1] != "Hg" {
		t.Errorf("Invalid() = %v, want [As Hg]", invalid)
	}
}

func TestLoad_MissingStandardTolerated(t *testing.T) {
	// A bare "Cd:" entry has no standard. The metal must stay tracked
	// (so it still gets a PI column) but never aggregate.
	path := writeLimits(t, "limits.yaml", "Pb: 0.01\nCd:\n")

	lims, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed on a missing standard: %v", err)
	}
	if lims.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (Cd stays tracked)", lims.Len())
	}
	if lims.Aggregable("Cd") {
		t.Error("metal with missing standard reported aggregable")
	}
	if !lims.Aggregable("Pb") {
		t.Error("Pb should be aggregable")
	}
	invalid := lims.Invalid()
	if len(invalid) != 1 || invalid[0] != "Cd" {
		t.Errorf("Invalid() = %v, want [Cd]", invalid)
	}
}

func TestLoad_NullStandardJSON(t *testing.T) {
	path := writeLimits(t, "limits.json", `{"Pb": 0.01, "Cd": null}`)

	lims, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed on a null standard: %v", err)
	}
	if _, ok := lims.Standard("Cd"); !ok {
		t.Error("Cd dropped from snapshot; null standards stay tracked")
	}
	if lims.Aggregable("Cd") {
		t.Error("metal with null standard reported aggregable")
	}
}

func TestSnapshotImmutable(t *testing.T) {
	path := writeLimits(t, "limits.yaml", "Pb: 0.01\n")
	lims, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	edited := lims.WithStandard("Cd", 0.003).WithStandard("Pb", 0.05)
	if lims.Len() != 1 {
		t.Errorf("original snapshot grew to %d metals", lims.Len())
	}
	if s, _ := lims.Standard("Pb"); s != 0.01 {
		t.Errorf("original Pb standard changed to %g", s)
	}
	if s, _ := edited.Standard("Pb"); s != 0.05 {
		t.Errorf("edited Pb standard = %g, want 0.05", s)
	}

	removed := edited.Without("Pb")
	if _, ok := removed.Standard("Pb"); ok {
		t.Error("Without(Pb) still tracks Pb")
	}
	if _, ok := edited.Standard("Pb"); !ok {
		t.Error("Without mutated its receiver")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	original := Empty().WithStandard("Pb", 0.01).WithStandard("Cd", 0.003)

	if err := original.Save(path); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after Save failed: %v", err)
	}

	if loaded.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", loaded.Len())
	}
	for _, metal := range original.Metals() {
		want, _ := original.Standard(metal)
		got, ok := loaded.Standard(metal)
		if !ok || got != want {
			t.Errorf("Standard(%s) = %v, %v; want %v, true", metal, got, ok, want)
		}
	}
}
