package infer

import (
	"fmt"
	"strings"

	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
	"github.com/ashrielbrian/numba-typeinfer/internal/tierrors"
)

// CallConstraint resolves `target = func_name(args..., kws..., *vararg)`
// where func_name is an IR variable holding the callee.
type CallConstraint struct {
	loc      location.Location
	Target   string
	FuncVar  string
	Args     []string
	Kws      map[string]string
	Vararg   string
	resolved *lattice.Signature
}

func NewCallConstraint(inf *TypeInferer, target, funcVar string, args []string, kws map[string]string, vararg string, loc location.Location) *CallConstraint {
	c := &CallConstraint{loc: loc, Target: target, FuncVar: funcVar, Args: args, Kws: kws, Vararg: vararg}
	inf.registerCall(loc, fmt.Sprintf("call %s", funcVar), c)
	return c
}

func (c *CallConstraint) Loc() location.Location    { return c.loc }
func (c *CallConstraint) callSignature() *lattice.Signature { return c.resolved }

func (c *CallConstraint) Fire(inf *TypeInferer) error {
	fnCell := inf.varCell(c.FuncVar)
	if fnCell.current == nil {
		return nil
	}
	pos, kwTypes, ok, err := inf.foldArgVars(c.Args, c.Kws, c.Vararg, c.loc)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	sig, err := resolveCall(inf, fnCell.current, pos, kwTypes, c.loc)
	if err != nil {
		return err
	}
	if sig == nil {
		return tierrors.InvalidCall(fnCell.current.String(), describeArgs(pos), inf.Lattice.ExplainFunctionType(fnCell.current), c.loc)
	}
	sig, err = refineBoundReceiver(inf, c.FuncVar, fnCell.current, sig, c.loc)
	if err != nil {
		return err
	}
	sig = refineImpreciseReturn(inf, c.Target, sig)
	c.resolved = sig
	return inf.addType(c.Target, sig.ReturnType, c.loc, false)
}

// IntrinsicCallConstraint is identical to CallConstraint except the callee
// is the intrinsic op name itself (getiter, iternext, binop operators,
// getitem, ...), passed directly rather than resolved from a variable.
type IntrinsicCallConstraint struct {
	loc      location.Location
	Target   string
	OpName   string
	Args     []string
	Kws      map[string]string
	Vararg   string
	resolved *lattice.Signature
}

func NewIntrinsicCallConstraint(target, opName string, args []string, kws map[string]string, vararg string, loc location.Location) *IntrinsicCallConstraint {
	return &IntrinsicCallConstraint{loc: loc, Target: target, OpName: opName, Args: args, Kws: kws, Vararg: vararg}
}

func (c *IntrinsicCallConstraint) Loc() location.Location    { return c.loc }
func (c *IntrinsicCallConstraint) callSignature() *lattice.Signature { return c.resolved }

func (c *IntrinsicCallConstraint) Fire(inf *TypeInferer) error {
	pos, kwTypes, ok, err := inf.foldArgVars(c.Args, c.Kws, c.Vararg, c.loc)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	callee := &lattice.Dispatcher{Name: c.OpName}
	sig := inf.Lattice.ResolveFunctionType(callee, pos, kwTypes)
	if sig == nil {
		return tierrors.InvalidCall(c.OpName, describeArgs(pos), inf.Lattice.ExplainFunctionType(callee), c.loc)
	}
	sig = refineImpreciseReturn(inf, c.Target, sig)
	c.resolved = sig
	return inf.addType(c.Target, sig.ReturnType, c.loc, false)
}

// resolveCall dispatches to the call-stack frame machinery for a
// RecursiveCall callee, otherwise delegates straight to the lattice.
func resolveCall(inf *TypeInferer, fnty lattice.Type, pos []lattice.Type, kw map[string]lattice.Type, loc location.Location) (*lattice.Signature, error) {
	rec, ok := fnty.(*lattice.RecursiveCall)
	if !ok {
		return inf.Lattice.ResolveFunctionType(fnty, pos, kw), nil
	}
	return resolveRecursiveCall(inf, rec, pos, kw, loc)
}

// resolveRecursiveCall locates the matching frame on the call stack,
// collects its return-variable candidate types, unifies them into one
// precise type, and builds a signature whose Pysig is the callee's
// function id.
func resolveRecursiveCall(inf *TypeInferer, rec *lattice.RecursiveCall, pos []lattice.Type, kw map[string]lattice.Type, loc location.Location) (*lattice.Signature, error) {
	argsKey := argsKeyOf(pos)
	frame, found := inf.CallStack.Match(rec.FuncID, argsKey)
	if !found {
		frame, found = inf.CallStack.FindFirst(rec.FuncID)
	}
	if !found {
		return nil, tierrors.RunawayRecursion(rec.FuncID, loc)
	}
	candidates := frame.ReturnCandidates()
	if len(candidates) == 0 {
		return nil, tierrors.RunawayRecursion(rec.FuncID, loc)
	}
	types := make([]lattice.Type, 0, len(candidates))
	for _, c := range candidates {
		t, ok := c.(lattice.Type)
		if !ok {
			continue
		}
		types = append(types, t)
	}
	if len(types) == 0 {
		return nil, tierrors.RunawayRecursion(rec.FuncID, loc)
	}
	ret := inf.Lattice.UnifyTypes(types...)
	if ret == nil || !inf.Lattice.IsPrecise(ret) {
		return nil, tierrors.RunawayRecursion(rec.FuncID, loc)
	}
	return &lattice.Signature{ReturnType: ret, Args: pos, Pysig: rec.FuncID}, nil
}

func argsKeyOf(pos []lattice.Type) string {
	parts := make([]string, len(pos))
	for i, t := range pos {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

// refineBoundReceiver handles bound-method receiver refinement: when the
// resolved signature names a more precise receiver than the callee's
// current `this`, the refined BoundFunction is handed to the refiner
// registered for the variable holding the callee (for a GetAttrConstraint,
// that re-types the receiver variable). The callee variable's own cell is
// not updated here.
func refineBoundReceiver(inf *TypeInferer, funcVar string, fnty lattice.Type, sig *lattice.Signature, loc location.Location) (*lattice.Signature, error) {
	bf, ok := fnty.(*lattice.BoundFunction)
	if !ok || sig.Recvr == nil || sig.Recvr.Equals(bf.This) {
		return sig, nil
	}
	joined := inf.Lattice.UnifyPairs(sig.Recvr, bf.This)
	if joined == nil || !inf.Lattice.IsPrecise(joined) {
		return sig, nil
	}
	newF := bf.Copy(joined)
	if err := inf.propagateRefinedType(funcVar, newF); err != nil {
		return nil, err
	}
	return sig, nil
}

// refineImpreciseReturn rewrites a signature's imprecise return type to a
// more specific one already held by the target cell, when that cell's type
// absorbs it. This is the mechanism behind `s = set(); s.add(1)` ending up
// as Set(int64).
func refineImpreciseReturn(inf *TypeInferer, target string, sig *lattice.Signature) *lattice.Signature {
	if sig.ReturnType == nil || inf.Lattice.IsPrecise(sig.ReturnType) {
		return sig
	}
	cell := inf.varCell(target)
	if cell.current == nil {
		return sig
	}
	joined := inf.Lattice.UnifyPairs(cell.current, sig.ReturnType)
	if joined == nil || !joined.Equals(cell.current) {
		return sig
	}
	rewritten := *sig
	rewritten.ReturnType = cell.current
	return &rewritten
}

func describeArgs(pos []lattice.Type) string {
	parts := make([]string, len(pos))
	for i, t := range pos {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
