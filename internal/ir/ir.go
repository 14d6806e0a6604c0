// Package ir defines the three-address intermediate representation the
// inferencer consumes: functions made of labeled blocks of statements and
// a terminator, built from the small set of expression and statement
// shapes an external lowering pass is assumed to already produce.
package ir

import "github.com/ashrielbrian/numba-typeinfer/internal/location"

// Function is a single IR function: its declared argument names (in
// order), its blocks keyed by label, and the label of its entry block.
type Function struct {
	Name       string
	ArgNames   []string
	Blocks     map[int]*Block
	EntryLabel int
	// Generator is non-nil when this function contains a yield; its state
	// variable names are the cells live across yield points.
	Generator *GeneratorInfo
}

// GeneratorInfo marks a Function as a generator and names the variables
// whose types become the Generator's StateTypes.
type GeneratorInfo struct {
	StateVars    []string
	HasFinalizer bool
}

// Block is an ordered list of statements followed by exactly one
// terminator statement (Jump, Branch, Return, or StaticRaise).
type Block struct {
	Label int
	Body  []Statement
}

// Statement is any instruction in a block body.
type Statement interface {
	Loc() location.Location
	stmt()
}

type base struct {
	Location location.Location
}

func (b base) Loc() location.Location { return b.Location }

// Assign writes the value of Value into the variable named Target.
type Assign struct {
	base
	Target string
	Value  Expr
}

func (Assign) stmt() {}

// SetItem performs `target[index] = value`.
type SetItem struct {
	base
	Target, Index, Value string
}

func (SetItem) stmt() {}

// StaticSetItem performs `target[constIndex] = value` where the index is
// known at build time (an integer position or a string field name).
type StaticSetItem struct {
	base
	Target      string
	Index       interface{}
	IndexVar    string // non-empty if a runtime fallback index also exists
	Value       string
}

func (StaticSetItem) stmt() {}

// DelItem performs `del target[index]`.
type DelItem struct {
	base
	Target, Index string
}

func (DelItem) stmt() {}

// SetAttr performs `target.attr = value`.
type SetAttr struct {
	base
	Target, Attr, Value string
}

func (SetAttr) stmt() {}

// Print is a variadic print statement over a list of variables.
type Print struct {
	base
	Args []string
}

func (Print) stmt() {}

// Jump unconditionally transfers control to Target.
type Jump struct {
	base
	Target int
}

func (Jump) stmt() {}

// Branch transfers control to Then or Else based on Cond.
type Branch struct {
	base
	Cond       string
	Then, Else int
}

func (Branch) stmt() {}

// Return ends the function, yielding the value in Value (empty means no
// return value on this path).
type Return struct {
	base
	Value string
}

func (Return) stmt() {}

// Del removes a variable binding; it carries no typing consequence.
type Del struct {
	base
	Target string
}

func (Del) stmt() {}

// StaticRaise is a terminator that always raises; it carries no typing
// consequence beyond ending the block.
type StaticRaise struct {
	base
	Message string
}

func (StaticRaise) stmt() {}

// Expr is any right-hand side of an Assign.
type Expr interface {
	Loc() location.Location
	expr()
}

type exprBase struct {
	Location location.Location
}

func (e exprBase) Loc() location.Location { return e.Location }

// Const is a compile-time literal value.
type Const struct {
	exprBase
	Value interface{}
}

func (Const) expr() {}

// Var references another IR variable's current type.
type Var struct {
	exprBase
	Name string
}

func (Var) expr() {}

// Global references a module-level binding by name, carrying the concrete
// value it was resolved to at build time.
type Global struct {
	exprBase
	Name  string
	Value interface{}
}

func (Global) expr() {}

// FreeVar references a closed-over binding, otherwise identical to Global.
type FreeVar struct {
	exprBase
	Name  string
	Value interface{}
}

func (FreeVar) expr() {}

// Arg references a function argument by name and declared position.
// Default, if non-nil, is the literal a caller-omitted argument takes;
// the build phase seeds the argument's cell with a lattice.Omitted
// wrapping it so ArgConstraint can resolve the default's type lazily.
type Arg struct {
	exprBase
	Name    string
	Index   int
	Default interface{}
}

func (Arg) expr() {}

// Yield suspends a generator, producing the type of Value at the yield
// point.
type Yield struct {
	exprBase
	Value string
}

func (Yield) expr() {}

// Op enumerates the expression operators recognized by the build phase.
type Op string

const (
	OpCall           Op = "call"
	OpGetIter        Op = "getiter"
	OpIterNext       Op = "iternext"
	OpBinOp          Op = "binop"
	OpInplaceBinOp   Op = "inplace_binop"
	OpUnary          Op = "unary"
	OpGetItem        Op = "getitem"
	OpStaticGetItem  Op = "static_getitem"
	OpExhaustIter    Op = "exhaust_iter"
	OpPairFirst      Op = "pair_first"
	OpPairSecond     Op = "pair_second"
	OpGetAttr        Op = "getattr"
	OpBuildTuple     Op = "build_tuple"
	OpBuildList      Op = "build_list"
	OpBuildSet       Op = "build_set"
	OpCast           Op = "cast"
)

// CallExpr is the `call` operation: a callee variable, positional and
// keyword argument variables, and an optional vararg variable.
type CallExpr struct {
	exprBase
	Func    string
	Args    []string
	Kws     map[string]string
	Vararg  string
}

func (CallExpr) expr() {}

// OpExpr is every non-call expression operator: operator name plus the
// operand variable names it applies to, in order. For BinOp/Unary the
// operator symbol itself (e.g. "+") is carried in FuncName so the build
// phase can hand it straight to IntrinsicCallConstraint.
type OpExpr struct {
	exprBase
	Operator Op
	FuncName string
	Operands []string
	// StaticIndex is used by OpStaticGetItem / exhaust_iter-style ops that
	// carry a compile-time constant alongside a runtime fallback operand.
	StaticIndex interface{}
	// Count is used by exhaust_iter.
	Count int
	// Attr is used by OpGetAttr.
	Attr string
}

func (OpExpr) expr() {}
