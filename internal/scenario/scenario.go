// Package scenario loads and runs end-to-end fixtures against the
// inference engine: a YAML description of one IR function, its seeded
// argument types, and the typing outcome it must produce.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario describes one fixture: IR assembly text, argument types to
// seed, and the expected outcome (either a precise set of variable/return
// types, or the substring an error must contain).
type Scenario struct {
	ID          string            `yaml:"id"`
	Description string            `yaml:"description"`
	IR          string            `yaml:"ir"`
	ArgTypes    map[string]string `yaml:"arg_types"`
	// Recursive, when set, registers the function under compilation in a
	// dispatcher registry before running inference, so a self-call inside
	// its own body resolves through the call-stack frame machinery instead
	// of failing to find a binding for its own name.
	Recursive bool        `yaml:"recursive"`
	Expect    Expectation `yaml:"expect"`
}

// Expectation is the outcome a Scenario must produce. Exactly one of
// (Types/Return) or Error should be set.
type Expectation struct {
	Types  map[string]string `yaml:"types"`
	Return string            `yaml:"return"`
	Error  string            `yaml:"error"`
}

// Load reads and validates a single scenario fixture.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: failed to read fixture: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("scenario: failed to parse YAML: %w", err)
	}
	if sc.ID == "" {
		return nil, fmt.Errorf("scenario: fixture %s missing required field: id", path)
	}
	if sc.IR == "" {
		return nil, fmt.Errorf("scenario: fixture %s missing required field: ir", path)
	}
	if len(sc.Expect.Types) == 0 && sc.Expect.Return == "" && sc.Expect.Error == "" {
		return nil, fmt.Errorf("scenario: fixture %s has no expectation set", path)
	}
	return &sc, nil
}

// LoadDir loads every *.yaml fixture in dir, sorted by filename.
func LoadDir(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("scenario: failed to glob %s: %w", dir, err)
	}
	sort.Strings(matches)

	scenarios := make([]*Scenario, 0, len(matches))
	for _, path := range matches {
		sc, err := Load(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}
