package infer

import (
	"fmt"

	"github.com/ashrielbrian/numba-typeinfer/internal/ir"
)

// buildOpExpr dispatches on an OpExpr's operator to the matching
// constraint, the expression-op-to-constraint table.
func (inf *TypeInferer) buildOpExpr(target string, e *ir.OpExpr) error {
	loc := e.Loc()
	switch e.Operator {
	case ir.OpGetIter, ir.OpIterNext, ir.OpGetItem:
		NewIntrinsicCallConstraint(target, string(e.Operator), e.Operands, nil, "", loc)
		return nil

	case ir.OpBinOp, ir.OpInplaceBinOp, ir.OpUnary:
		opName := e.FuncName
		if opName == "" {
			opName = string(e.Operator)
		}
		NewIntrinsicCallConstraint(target, opName, e.Operands, nil, "", loc)
		return nil

	case ir.OpStaticGetItem:
		var value, indexVar string
		if len(e.Operands) > 0 {
			value = e.Operands[0]
		}
		if len(e.Operands) > 1 {
			indexVar = e.Operands[1]
		}
		NewStaticGetItemConstraint(target, value, e.StaticIndex, indexVar, loc)
		return nil

	case ir.OpExhaustIter:
		var iterator string
		if len(e.Operands) > 0 {
			iterator = e.Operands[0]
		}
		NewExhaustIterConstraint(target, e.Count, iterator, loc)
		return nil

	case ir.OpPairFirst:
		var src string
		if len(e.Operands) > 0 {
			src = e.Operands[0]
		}
		NewPairFirstConstraint(target, src, loc)
		return nil

	case ir.OpPairSecond:
		var src string
		if len(e.Operands) > 0 {
			src = e.Operands[0]
		}
		NewPairSecondConstraint(target, src, loc)
		return nil

	case ir.OpGetAttr:
		var value string
		if len(e.Operands) > 0 {
			value = e.Operands[0]
		}
		NewGetAttrConstraint(inf, target, value, e.Attr, loc)
		return nil

	case ir.OpBuildTuple:
		NewBuildTupleConstraint(target, e.Operands, loc)
		return nil

	case ir.OpBuildList:
		NewBuildListConstraint(target, e.Operands, loc)
		return nil

	case ir.OpBuildSet:
		NewBuildSetConstraint(target, e.Operands, loc)
		return nil

	case ir.OpCast:
		var src string
		if len(e.Operands) > 0 {
			src = e.Operands[0]
		}
		NewPropagate(inf, target, src, loc)
		return nil

	default:
		return fmt.Errorf("infer: build phase: operator %q not implemented", e.Operator)
	}
}
