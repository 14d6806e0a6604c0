package infer

import (
	"fmt"
	"sort"

	"github.com/ashrielbrian/numba-typeinfer/internal/ir"
	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
	"github.com/ashrielbrian/numba-typeinfer/internal/tierrors"
)

// Build walks every block in the function, in label order, and every
// statement in each block's body, in order, producing one constraint (or
// direct lock/assignment) per the statement's shape.
func (inf *TypeInferer) Build() error {
	labels := make([]int, 0, len(inf.Func.Blocks))
	for l := range inf.Func.Blocks {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	for _, l := range labels {
		block := inf.Func.Blocks[l]
		for _, stmt := range block.Body {
			if err := inf.buildStatement(stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func (inf *TypeInferer) buildStatement(stmt ir.Statement) error {
	switch s := stmt.(type) {
	case *ir.Assign:
		return inf.buildAssign(s)
	case *ir.SetItem:
		NewSetItemConstraint(inf, s.Target, s.Index, s.Value, s.Loc())
		return nil
	case *ir.StaticSetItem:
		NewStaticSetItemConstraint(inf, s.Target, s.Index, s.IndexVar, s.Value, s.Loc())
		return nil
	case *ir.DelItem:
		NewDelItemConstraint(inf, s.Target, s.Index, s.Loc())
		return nil
	case *ir.SetAttr:
		NewSetAttrConstraint(inf, s.Target, s.Attr, s.Value, s.Loc())
		return nil
	case *ir.Print:
		NewPrintConstraint(inf, s.Args, s.Loc())
		return nil
	case *ir.Jump, *ir.Branch, *ir.Del, *ir.StaticRaise:
		return nil
	case *ir.Return:
		if s.Value != "" {
			inf.returnVars = append(inf.returnVars, s.Value)
		}
		return nil
	default:
		return fmt.Errorf("infer: build phase: statement type %T not implemented", stmt)
	}
}

func (inf *TypeInferer) buildAssign(s *ir.Assign) error {
	switch v := s.Value.(type) {
	case *ir.Const:
		t, err := inf.Lattice.ResolveValueType(v.Value)
		if err != nil {
			return err
		}
		return inf.varCell(s.Target).lock(t, s.Loc())

	case *ir.Var:
		NewPropagate(inf, s.Target, v.Name, s.Loc())
		return nil

	case *ir.Arg:
		if v.Default != nil {
			argCell := inf.varCell(argCellPrefix + v.Name)
			if argCell.current == nil {
				if err := inf.addType(argCellPrefix+v.Name, &lattice.Omitted{Value: v.Default}, s.Loc(), false); err != nil {
					return err
				}
			}
		}
		NewArgConstraint(s.Target, argCellPrefix+v.Name, s.Loc())
		return nil

	case *ir.Global:
		return inf.buildGlobalOrFreeVar(s.Target, v.Name, v.Value, s.Loc())

	case *ir.FreeVar:
		return inf.buildGlobalOrFreeVar(s.Target, v.Name, v.Value, s.Loc())

	case *ir.Yield:
		inf.yieldValueVars = append(inf.yieldValueVars, v.Value)
		return inf.addType(s.Target, lattice.None, s.Loc(), false)

	case *ir.CallExpr:
		NewCallConstraint(inf, s.Target, v.Func, v.Args, v.Kws, v.Vararg, s.Loc())
		return nil

	case *ir.OpExpr:
		return inf.buildOpExpr(s.Target, v)

	default:
		return fmt.Errorf("infer: build phase: expression type %T not implemented", s.Value)
	}
}

// buildGlobalOrFreeVar resolves a Global/FreeVar binding: recognizes a
// recursive reference to the function currently compiling, refuses a
// rebound well-known builtin, and locks arrays to a C-layout read-only
// view before locking the target cell.
func (inf *TypeInferer) buildGlobalOrFreeVar(target, name string, value interface{}, loc location.Location) error {
	if wellKnownBuiltins[name] {
		b, ok := value.(lattice.Builtin)
		if !ok || b.Name != name {
			return tierrors.ModifiedBuiltin(name, loc)
		}
	}

	if inf.DispatcherRegistry != nil && name == inf.Func.Name {
		if pending, ok := inf.DispatcherRegistry.Lookup(name); ok {
			dispatcherType, _ := pending.(lattice.Type)
			return inf.varCell(target).lock(&lattice.RecursiveCall{DispatcherType: dispatcherType, FuncID: name}, loc)
		}
	}

	t, err := inf.Lattice.ResolveValueType(value)
	if err != nil {
		return err
	}
	if arr, ok := t.(*lattice.Array); ok {
		t = arr.Copy("C", true)
	}
	inf.assumedImmutables[target] = true
	return inf.varCell(target).lock(t, loc)
}
