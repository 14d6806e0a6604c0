package infer

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
	"github.com/ashrielbrian/numba-typeinfer/internal/tierrors"
)

// Result is the output of a completed inference run: every variable's
// precise type, the function's return type (or Generator wrapper), and
// the resolved signature of every call-like instruction.
type Result struct {
	Types      map[string]lattice.Type
	ReturnType lattice.Type
	Calls      []*CallRecord
	// AssumedImmutables names every variable bound to a Global/FreeVar
	// value that the build phase resolved once and locked, on the
	// assumption that binding cannot change for the life of the function.
	AssumedImmutables map[string]bool
}

const maxPropagatePasses = 10000

// Run builds constraints from the function, propagates them to a fixed
// point, and unifies the result. dispatcherType, if non-nil and
// DispatcherRegistry is set, is registered under the function's own name
// for the duration of the run so a recursive call to this function can be
// recognized as such; it is always released before Run returns.
func (inf *TypeInferer) Run(dispatcherType lattice.Type) (*Result, error) {
	if inf.DispatcherRegistry != nil && dispatcherType != nil {
		if err := inf.DispatcherRegistry.Register(inf.Func.Name, dispatcherType); err != nil {
			return nil, err
		}
		defer inf.DispatcherRegistry.Release(inf.Func.Name)
	}

	inf.CallStack.Push(inf)
	defer inf.CallStack.Pop()

	if err := inf.Build(); err != nil {
		return nil, err
	}

	finalErrs, err := inf.propagateToFixedPoint()
	if err != nil {
		return nil, err
	}
	if len(finalErrs) > 0 {
		return nil, finalErrs[0]
	}

	return inf.unify()
}

// propagateToFixedPoint repeats ConstraintNetwork.Propagate until the
// state token stops changing. Errors from a non-final pass are discarded
// because a later pass may supply the missing information; only the
// final pass's errors are returned.
func (inf *TypeInferer) propagateToFixedPoint() ([]error, error) {
	var lastErrs []error
	token := inf.stateToken()
	for pass := 1; pass <= maxPropagatePasses; pass++ {
		inf.Sink.PropagateStarted(pass)
		lastErrs = inf.Network.Propagate(inf)
		newToken := inf.stateToken()
		inf.Sink.PropagateFinished(pass, newToken, lastErrs)
		if newToken == token {
			return lastErrs, nil
		}
		token = newToken
	}
	return nil, fmt.Errorf("infer: did not reach a fixed point within %d passes", maxPropagatePasses)
}

// unify checks every cell for definedness and precision, computes the
// return type (wrapping it as a Generator when the function has yield
// points), and assembles the call-signature map.
func (inf *TypeInferer) unify() (*Result, error) {
	visible, temporaries := inf.partitionNames()

	types := make(map[string]lattice.Type, len(inf.vars))
	for _, name := range append(visible, temporaries...) {
		cell := inf.vars[name]
		if cell.current == nil {
			return nil, tierrors.UndefinedVariable(name, cell.defineLoc)
		}
		if !inf.Lattice.IsPrecise(cell.current) {
			return nil, tierrors.ImpreciseType(name, cell.current, cell.defineLoc)
		}
		types[name] = cell.current
	}

	returnType, err := inf.unifyReturnType()
	if err != nil {
		return nil, err
	}

	if inf.Func.Generator != nil {
		gen, err := inf.buildGeneratorType(returnType)
		if err != nil {
			return nil, err
		}
		returnType = gen
	}

	inf.Sink.UnifyFinished(stringerMap(types), returnType)

	return &Result{Types: types, ReturnType: returnType, Calls: inf.calls, AssumedImmutables: inf.assumedImmutables}, nil
}

func (inf *TypeInferer) unifyReturnType() (lattice.Type, error) {
	if len(inf.returnVars) == 0 {
		return lattice.None, nil
	}
	types := make([]lattice.Type, 0, len(inf.returnVars))
	for _, name := range inf.returnVars {
		cell := inf.varCell(name)
		if cell.current == nil {
			return nil, tierrors.UndefinedVariable(name, cell.defineLoc)
		}
		types = append(types, cell.current)
	}
	joined := inf.Lattice.UnifyTypes(types...)
	if joined == nil || !inf.Lattice.IsPrecise(joined) {
		t := joined
		if t == nil {
			t = lattice.UndefinedType
		}
		return nil, tierrors.ImpreciseType("<return>", t, location.Unknown)
	}
	return joined, nil
}

func (inf *TypeInferer) buildGeneratorType(yieldBase lattice.Type) (*lattice.Generator, error) {
	var yieldTypes []lattice.Type
	for _, name := range inf.yieldValueVars {
		cell := inf.varCell(name)
		if cell.current != nil {
			yieldTypes = append(yieldTypes, cell.current)
		}
	}
	yieldType := inf.Lattice.UnifyTypes(yieldTypes...)
	if yieldType == nil || !inf.Lattice.IsPrecise(yieldType) {
		return nil, tierrors.ImpreciseType("<yield>", yieldBase, location.Unknown)
	}

	argTypes := make([]lattice.Type, len(inf.Func.ArgNames))
	for name, idx := range inf.argIndex {
		cell := inf.vars[argCellPrefix+name]
		if cell == nil || cell.current == nil {
			continue
		}
		argTypes[idx] = cell.current
	}

	stateTypes := make([]lattice.Type, 0, len(inf.Func.Generator.StateVars))
	for _, name := range inf.Func.Generator.StateVars {
		cell := inf.varCell(name)
		if cell.current == nil {
			return nil, tierrors.UndefinedVariable(name, cell.defineLoc)
		}
		stateTypes = append(stateTypes, cell.current)
	}

	return &lattice.Generator{
		Func:         inf.Func.Name,
		YieldType:    yieldType,
		ArgTypes:     argTypes,
		StateTypes:   stateTypes,
		HasFinalizer: inf.Func.Generator.HasFinalizer,
	}, nil
}

// partitionNames splits the program's real variable names (the "arg."
// cells are an internal namespace, never user-visible) into
// lexically-user-visible names and temporaries, the latter being checked
// after the former so error messages name user variables first.
func (inf *TypeInferer) partitionNames() (visible, temporaries []string) {
	for name := range inf.vars {
		if strings.HasPrefix(name, argCellPrefix) {
			continue
		}
		if len(name) > 0 && unicode.IsLetter(rune(name[0])) {
			visible = append(visible, name)
		} else {
			temporaries = append(temporaries, name)
		}
	}
	sort.Strings(visible)
	sort.Strings(temporaries)
	return visible, temporaries
}

func stringerMap(types map[string]lattice.Type) map[string]fmt.Stringer {
	out := make(map[string]fmt.Stringer, len(types))
	for k, v := range types {
		out[k] = v
	}
	return out
}

// FuncID implements callstack.Frame.
func (inf *TypeInferer) FuncID() string { return inf.Func.Name }

// ArgsKey implements callstack.Frame: the joined string form of every
// declared argument's currently-resolved type, in declaration order.
func (inf *TypeInferer) ArgsKey() string {
	parts := make([]string, len(inf.Func.ArgNames))
	for i, name := range inf.Func.ArgNames {
		cell := inf.vars[argCellPrefix+name]
		if cell == nil || cell.current == nil {
			parts[i] = "?"
			continue
		}
		parts[i] = cell.current.String()
	}
	return strings.Join(parts, ",")
}

// ReturnCandidates implements callstack.Frame: the types currently held
// by this frame's Return-instruction operand cells.
func (inf *TypeInferer) ReturnCandidates() []interface{} {
	out := make([]interface{}, 0, len(inf.returnVars))
	for _, name := range inf.returnVars {
		cell := inf.vars[name]
		if cell != nil && cell.current != nil {
			out = append(out, cell.current)
		}
	}
	return out
}
