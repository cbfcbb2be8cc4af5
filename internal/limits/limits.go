package limits

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ConfigError reports a limits source that is missing, unreadable, or
// structurally invalid. Per-metal data problems are not ConfigErrors —
// a non-positive standard is tolerated at load and excluded at compute time.
type ConfigError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("limits config %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("limits config %s: %s", e.Path, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Limits is an immutable snapshot of permissible standards (Si, mg/L) keyed
// by metal symbol. A snapshot never changes after Load; the administrative
// edit path produces a new snapshot via WithStandard/Without + Save.
type Limits struct {
	standards map[string]float64
	metals    []string // sorted, fixes iteration order for deterministic output
}

// Load reads a metal→standard mapping from a YAML or JSON file.
// Non-positive and missing standards are kept in the snapshot (the metal
// stays tracked and still gets a PI column) but report as not aggregable.
// Only structural problems — a non-mapping document, a string or nested
// value where a number belongs — are ConfigErrors.
func Load(path string) (*Limits, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "unreadable", Err: err}
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &ConfigError{Path: path, Reason: "not a valid mapping", Err: err}
	}
	if doc == nil {
		return nil, &ConfigError{Path: path, Reason: "empty document"}
	}

	standards := make(map[string]float64, len(doc))
	for metal, v := range doc {
		s, ok := toFloat(v)
		if !ok {
			return nil, &ConfigError{
				Path:   path,
				Reason: fmt.Sprintf("standard for %q is not a number (got %T)", metal, v),
			}
		}
		standards[metal] = s
	}

	return newSnapshot(standards), nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case nil:
		// A bare "Cd:" in YAML or a JSON null: the metal is tracked with
		// no usable standard. Zero keeps it out of aggregation, same as
		// an explicit non-positive entry.
		return 0, true
	default:
		return 0, false
	}
}

func newSnapshot(standards map[string]float64) *Limits {
	metals := make([]string, 0, len(standards))
	for m := range standards {
		metals = append(metals, m)
	}
	sort.Strings(metals)
	return &Limits{standards: standards, metals: metals}
}

// Empty returns a snapshot tracking no metals. The administrative edit
// path uses it to bootstrap a limits file that does not exist yet.
func Empty() *Limits {
	return newSnapshot(map[string]float64{})
}

// Metals returns every tracked metal in sorted order, including those with
// non-positive standards.
func (l *Limits) Metals() []string {
	out := make([]string, len(l.metals))
	copy(out, l.metals)
	return out
}

// Standard returns the permissible standard for metal, and whether the
// metal is tracked at all.
func (l *Limits) Standard(metal string) (float64, bool) {
	s, ok := l.standards[metal]
	return s, ok
}

// Aggregable reports whether metal may contribute to HMPI/MCI aggregation:
// it must be tracked and have a strictly positive standard.
func (l *Limits) Aggregable(metal string) bool {
	s, ok := l.standards[metal]
	return ok && s > 0
}

// Invalid returns the tracked metals whose standards are non-positive,
// sorted. Useful for validation reports and the limits show command.
func (l *Limits) Invalid() []string {
	var out []string
	for _, m := range l.metals {
		if l.standards[m] <= 0 {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of tracked metals.
func (l *Limits) Len() int { return len(l.metals) }

// WithStandard returns a new snapshot with metal set to standard.
// The receiver is left untouched.
func (l *Limits) WithStandard(metal string, standard float64) *Limits {
	standards := make(map[string]float64, len(l.standards)+1)
	for m, s := range l.standards {
		standards[m] = s
	}
	standards[metal] = standard
	return newSnapshot(standards)
}

// Without returns a new snapshot with metal removed.
func (l *Limits) Without(metal string) *Limits {
	standards := make(map[string]float64, len(l.standards))
	for m, s := range l.standards {
		if m != metal {
			standards[m] = s
		}
	}
	return newSnapshot(standards)
}

// Save writes the snapshot as a YAML document. This is the administrative
// edit path; in-flight computations keep whatever snapshot they loaded.
func (l *Limits) Save(path string) error {
	b, err := yaml.Marshal(l.standards)
	if err != nil {
		return fmt.Errorf("marshal limits: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write limits: %w", err)
	}
	return nil
}
