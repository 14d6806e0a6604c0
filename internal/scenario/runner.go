package scenario

import (
	"fmt"
	"strings"

	"github.com/ashrielbrian/numba-typeinfer/internal/callstack"
	"github.com/ashrielbrian/numba-typeinfer/internal/infer"
	"github.com/ashrielbrian/numba-typeinfer/internal/irparse"
	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
)

// Outcome is the result of running one Scenario: whether its expectation
// was met, and a human-readable explanation when it was not.
type Outcome struct {
	Scenario *Scenario
	Passed   bool
	Detail   string
}

// Run parses the scenario's IR, seeds its argument types, runs inference,
// and checks the result against the scenario's expectation. A non-nil
// error means the fixture itself is malformed (bad IR, bad type
// expression) rather than a typing mismatch.
func Run(sc *Scenario) (*Outcome, error) {
	parser := irparse.New([]byte(sc.IR), sc.ID)
	fn, err := parser.ParseFunction()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: parse error: %w", sc.ID, err)
	}

	argTypes := make(map[string]lattice.Type, len(sc.ArgTypes))
	for name, expr := range sc.ArgTypes {
		t, err := ParseTypeExpr(expr)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: arg %s: %w", sc.ID, name, err)
		}
		argTypes[name] = t
	}

	lat := lattice.NewBasicContext()
	inferer := infer.NewTypeInferer(fn, lat, nil, nil)
	if err := inferer.SeedArgs(argTypes); err != nil {
		return checkError(sc, err)
	}

	var dispatcherType lattice.Type
	if sc.Recursive {
		inferer.DispatcherRegistry = callstack.NewRegistry()
		dispatcherType = &lattice.Dispatcher{Name: fn.Name}
	}

	result, runErr := inferer.Run(dispatcherType)
	if runErr != nil {
		return checkError(sc, runErr)
	}

	if sc.Expect.Error != "" {
		return &Outcome{Scenario: sc, Passed: false,
			Detail: fmt.Sprintf("expected error containing %q, inference succeeded instead", sc.Expect.Error)}, nil
	}

	return checkSuccess(sc, result), nil
}

func checkError(sc *Scenario, err error) (*Outcome, error) {
	if sc.Expect.Error == "" {
		return nil, fmt.Errorf("scenario %s: unexpected error: %w", sc.ID, err)
	}
	if !strings.Contains(err.Error(), sc.Expect.Error) {
		return &Outcome{Scenario: sc, Passed: false,
			Detail: fmt.Sprintf("expected error containing %q, got %q", sc.Expect.Error, err.Error())}, nil
	}
	return &Outcome{Scenario: sc, Passed: true}, nil
}

func checkSuccess(sc *Scenario, result *infer.Result) *Outcome {
	var mismatches []string

	for name, expr := range sc.Expect.Types {
		want, err := ParseTypeExpr(expr)
		if err != nil {
			mismatches = append(mismatches, fmt.Sprintf("%s: bad expectation %q: %v", name, expr, err))
			continue
		}
		got, ok := result.Types[name]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s: not present in result", name))
			continue
		}
		if !want.Equals(got) {
			mismatches = append(mismatches, fmt.Sprintf("%s: want %s, got %s", name, want, got))
		}
	}

	if sc.Expect.Return != "" {
		want, err := ParseTypeExpr(sc.Expect.Return)
		if err != nil {
			mismatches = append(mismatches, fmt.Sprintf("return: bad expectation %q: %v", sc.Expect.Return, err))
		} else if !want.Equals(result.ReturnType) {
			mismatches = append(mismatches, fmt.Sprintf("return: want %s, got %s", want, result.ReturnType))
		}
	}

	if len(mismatches) > 0 {
		return &Outcome{Scenario: sc, Passed: false, Detail: strings.Join(mismatches, "; ")}
	}
	return &Outcome{Scenario: sc, Passed: true}
}
