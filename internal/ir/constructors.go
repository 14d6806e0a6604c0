package ir

import "github.com/ashrielbrian/numba-typeinfer/internal/location"

// Constructors for every statement and expression shape, since their
// embedded location carriers (base/exprBase) are unexported: callers
// outside this package (chiefly internal/irparse) build nodes through
// these functions rather than struct literals.

func NewAssign(target string, value Expr, loc location.Location) *Assign {
	return &Assign{base: base{loc}, Target: target, Value: value}
}

func NewSetItem(target, index, value string, loc location.Location) *SetItem {
	return &SetItem{base: base{loc}, Target: target, Index: index, Value: value}
}

func NewStaticSetItem(target string, index interface{}, indexVar, value string, loc location.Location) *StaticSetItem {
	return &StaticSetItem{base: base{loc}, Target: target, Index: index, IndexVar: indexVar, Value: value}
}

func NewDelItem(target, index string, loc location.Location) *DelItem {
	return &DelItem{base: base{loc}, Target: target, Index: index}
}

func NewSetAttr(target, attr, value string, loc location.Location) *SetAttr {
	return &SetAttr{base: base{loc}, Target: target, Attr: attr, Value: value}
}

func NewPrint(args []string, loc location.Location) *Print {
	return &Print{base: base{loc}, Args: args}
}

func NewJump(target int, loc location.Location) *Jump {
	return &Jump{base: base{loc}, Target: target}
}

func NewBranch(cond string, then, els int, loc location.Location) *Branch {
	return &Branch{base: base{loc}, Cond: cond, Then: then, Else: els}
}

func NewReturn(value string, loc location.Location) *Return {
	return &Return{base: base{loc}, Value: value}
}

func NewDel(target string, loc location.Location) *Del {
	return &Del{base: base{loc}, Target: target}
}

func NewStaticRaise(message string, loc location.Location) *StaticRaise {
	return &StaticRaise{base: base{loc}, Message: message}
}

func NewConst(value interface{}, loc location.Location) *Const {
	return &Const{exprBase: exprBase{loc}, Value: value}
}

func NewVar(name string, loc location.Location) *Var {
	return &Var{exprBase: exprBase{loc}, Name: name}
}

func NewGlobal(name string, value interface{}, loc location.Location) *Global {
	return &Global{exprBase: exprBase{loc}, Name: name, Value: value}
}

func NewFreeVar(name string, value interface{}, loc location.Location) *FreeVar {
	return &FreeVar{exprBase: exprBase{loc}, Name: name, Value: value}
}

func NewArg(name string, index int, loc location.Location) *Arg {
	return &Arg{exprBase: exprBase{loc}, Name: name, Index: index}
}

func NewYield(value string, loc location.Location) *Yield {
	return &Yield{exprBase: exprBase{loc}, Value: value}
}

func NewCallExpr(fn string, args []string, kws map[string]string, vararg string, loc location.Location) *CallExpr {
	return &CallExpr{exprBase: exprBase{loc}, Func: fn, Args: args, Kws: kws, Vararg: vararg}
}

func NewOpExpr(op Op, funcName string, operands []string, loc location.Location) *OpExpr {
	return &OpExpr{exprBase: exprBase{loc}, Operator: op, FuncName: funcName, Operands: operands}
}
