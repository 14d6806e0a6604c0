package infer

import (
	"fmt"
	"sort"

	"github.com/ashrielbrian/numba-typeinfer/internal/callstack"
	"github.com/ashrielbrian/numba-typeinfer/internal/debugsink"
	"github.com/ashrielbrian/numba-typeinfer/internal/ir"
	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
	"github.com/ashrielbrian/numba-typeinfer/internal/tierrors"
)

// argCellPrefix namespaces the cells that hold each declared argument's
// type, keeping them distinct from the IR variable a function body might
// assign an argument's value into.
const argCellPrefix = "arg."

// CallRecord pairs a call-like instruction's location with the constraint
// that resolved it, so the unify phase can assemble the final
// instruction-to-signature map.
type CallRecord struct {
	Loc        location.Location
	Desc       string
	constraint interface{ callSignature() *lattice.Signature }
}

// Signature returns the resolved signature for this call, or nil if the
// owning constraint never fired successfully.
func (c *CallRecord) Signature() *lattice.Signature {
	return c.constraint.callSignature()
}

// TypeInferer is the orchestrator: it owns the name-to-cell map, the
// constraint network, the argument-index map, the assumed-immutable
// globals, the recorded calls, and the refine map.
type TypeInferer struct {
	Func      *ir.Function
	Lattice   lattice.Lattice
	Network   *ConstraintNetwork
	CallStack *callstack.Stack
	Sink      debugsink.Sink
	Warnings  *tierrors.WarningCollector

	// DispatcherRegistry lets a recursive call to the function currently
	// being compiled be recognized before its own binding is stored
	// anywhere durable; it is optional and may be left nil for functions
	// known not to recurse.
	DispatcherRegistry *callstack.Registry

	vars     map[string]*TypeVar
	argIndex map[string]int
	// assumedImmutables records every variable bound to a Global/FreeVar
	// value, keyed by that variable's name; buildGlobalOrFreeVar populates
	// it once the binding is resolved and locked. Surfaced on Result.
	assumedImmutables map[string]bool
	calls             []*CallRecord
	refineMap         map[string]Refiner
	returnVars        []string
	yieldValueVars    []string
}

// wellKnownBuiltins names the global bindings the sentry in the build
// phase refuses to let be silently rebound to something else.
var wellKnownBuiltins = map[string]bool{
	"range": true, "xrange": true, "slice": true, "len": true,
}

// NewTypeInferer constructs an inferer for fn. cs and sink may be nil, in
// which case an empty Stack and NullSink are used.
func NewTypeInferer(fn *ir.Function, lat lattice.Lattice, cs *callstack.Stack, sink debugsink.Sink) *TypeInferer {
	if cs == nil {
		cs = callstack.New()
	}
	if sink == nil {
		sink = debugsink.NullSink{}
	}
	argIndex := make(map[string]int, len(fn.ArgNames))
	for i, name := range fn.ArgNames {
		argIndex[name] = i
	}
	return &TypeInferer{
		Func:              fn,
		Lattice:           lat,
		Network:           NewConstraintNetwork(),
		CallStack:         cs,
		Sink:              sink,
		Warnings:          tierrors.NewWarningCollector(),
		vars:              make(map[string]*TypeVar),
		argIndex:          argIndex,
		assumedImmutables: make(map[string]bool),
		refineMap:         make(map[string]Refiner),
	}
}

// SeedArgs locks each declared argument's cell to the type given in
// argTypes. Arguments not present in argTypes are left unlocked, resolved
// later the first time an ArgConstraint fires against a default value.
func (inf *TypeInferer) SeedArgs(argTypes map[string]lattice.Type) error {
	for _, name := range inf.Func.ArgNames {
		t, ok := argTypes[name]
		if !ok {
			continue
		}
		cell := inf.varCell(argCellPrefix + name)
		if err := cell.lock(t, location.Unknown); err != nil {
			return err
		}
	}
	return nil
}

// varCell returns the single TypeVar for name, creating it on first
// reference. The cell object itself is never replaced once created,
// preserving the name-uniqueness invariant.
func (inf *TypeInferer) varCell(name string) *TypeVar {
	if v, ok := inf.vars[name]; ok {
		return v
	}
	v := newTypeVar(name, inf.Lattice)
	inf.vars[name] = v
	return v
}

// addType is add_type(var, T, loc, unless_locked): adds T to the named
// cell and, if the cell's type actually changed, fans the refinement out
// through propagateRefinedType.
func (inf *TypeInferer) addType(name string, t lattice.Type, loc location.Location, unlessLocked bool) error {
	cell := inf.varCell(name)
	if unlessLocked && cell.locked {
		return nil
	}
	changed, err := cell.addType(t, loc)
	if err != nil {
		return err
	}
	if changed {
		return inf.propagateRefinedType(name, cell.current)
	}
	return nil
}

// propagateRefinedType looks up the refiner registered for name and asks
// it to push the new type back toward its sources.
func (inf *TypeInferer) propagateRefinedType(name string, newType lattice.Type) error {
	refiner, ok := inf.refineMap[name]
	if !ok {
		return nil
	}
	return refiner.Refine(inf, newType)
}

// registerCall appends a (location, constraint) pair so the unify phase
// can fill in calltypes once every constraint has had a chance to fire.
func (inf *TypeInferer) registerCall(loc location.Location, desc string, c interface{ callSignature() *lattice.Signature }) *CallRecord {
	rec := &CallRecord{Loc: loc, Desc: desc, constraint: c}
	inf.calls = append(inf.calls, rec)
	return rec
}

// foldArgVars reads each named cell's current candidate type, splicing a
// vararg tuple's elements into the positional list and zipping any
// leftover positions against kwNames. ok is false when any referenced
// cell is still undefined — callers must bail and let a later pass retry.
func (inf *TypeInferer) foldArgVars(posNames []string, kwNames map[string]string, varargName string, loc location.Location) (pos []lattice.Type, kwTypes map[string]lattice.Type, ok bool, err error) {
	pos = make([]lattice.Type, 0, len(posNames))
	for _, n := range posNames {
		cell := inf.varCell(n)
		if cell.current == nil {
			return nil, nil, false, nil
		}
		pos = append(pos, cell.current)
	}
	if varargName != "" {
		cell := inf.varCell(varargName)
		if cell.current == nil {
			return nil, nil, false, nil
		}
		tup, isTuple := cell.current.(lattice.BaseTuple)
		if !isTuple {
			return nil, nil, false, tierrors.VarargsNotTuple(cell.current, loc)
		}
		for i := 0; i < tup.Len(); i++ {
			pos = append(pos, tup.ElemAt(i))
		}
	}
	kwTypes = make(map[string]lattice.Type, len(kwNames))
	for name, varName := range kwNames {
		cell := inf.varCell(varName)
		if cell.current == nil {
			return nil, nil, false, nil
		}
		kwTypes[name] = cell.current
	}
	return pos, kwTypes, true, nil
}

// stateToken is the ordered snapshot [(name, current_type)] used to detect
// the fixed point: it never shrinks, and equality between two tokens means
// propagation made no further progress.
func (inf *TypeInferer) stateToken() string {
	names := make([]string, 0, len(inf.vars))
	for n := range inf.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	out := ""
	for _, n := range names {
		v := inf.vars[n]
		cur := "<undefined>"
		if v.current != nil {
			cur = v.current.String()
		}
		out += fmt.Sprintf("%s=%s(locked=%v);", n, cur, v.locked)
	}
	return out
}
