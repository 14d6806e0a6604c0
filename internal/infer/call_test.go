package infer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
)

func TestCallConstraintResolvesBuiltinCall(t *testing.T) {
	inf := newFixtureInferer()
	err := inf.addType("fn", &lattice.Dispatcher{Name: "len"}, location.Unknown, false)
	require.NoError(t, err)
	err = inf.addType("lst", &lattice.List{Elem: lattice.Int64}, location.Unknown, false)
	require.NoError(t, err)

	c := NewCallConstraint(inf, "result", "fn", []string{"lst"}, nil, "", location.Unknown)
	require.NoError(t, c.Fire(inf))

	assert.True(t, inf.varCell("result").current.Equals(lattice.Int64))
	require.NotNil(t, c.callSignature())
}

func TestCallConstraintBailsUntilCalleeResolved(t *testing.T) {
	inf := newFixtureInferer()
	c := NewCallConstraint(inf, "result", "fn", nil, nil, "", location.Unknown)
	require.NoError(t, c.Fire(inf))
	assert.Nil(t, inf.varCell("result").current)
}

func TestCallConstraintInvalidCallReportsError(t *testing.T) {
	inf := newFixtureInferer()
	err := inf.addType("fn", &lattice.Dispatcher{Name: "nonexistent_builtin"}, location.Unknown, false)
	require.NoError(t, err)

	c := NewCallConstraint(inf, "result", "fn", nil, nil, "", location.Unknown)
	err = c.Fire(inf)
	assert.Error(t, err)
}

func TestIntrinsicCallConstraintResolvesArithmetic(t *testing.T) {
	inf := newFixtureInferer()
	err := inf.addType("a", lattice.Int64, location.Unknown, false)
	require.NoError(t, err)
	err = inf.addType("b", lattice.Int64, location.Unknown, false)
	require.NoError(t, err)

	c := NewIntrinsicCallConstraint("sum", "+", []string{"a", "b"}, nil, "", location.Unknown)
	require.NoError(t, c.Fire(inf))
	assert.True(t, inf.varCell("sum").current.Equals(lattice.Int64))
}

func TestResolveRecursiveCallUnifiesReturnCandidates(t *testing.T) {
	inf := newFixtureInferer()
	frame := &fakeReturnFrame{
		funcID:     "f",
		argsKey:    "int64",
		candidates: []interface{}{lattice.Int64, lattice.Int64},
	}
	inf.CallStack.Push(frame)
	defer inf.CallStack.Pop()

	rec := &lattice.RecursiveCall{FuncID: "f"}
	sig, err := resolveRecursiveCall(inf, rec, []lattice.Type{lattice.Int64}, nil, location.Unknown)
	require.NoError(t, err)
	require.NotNil(t, sig)
	assert.True(t, sig.ReturnType.Equals(lattice.Int64))
}

func TestResolveRecursiveCallErrorsWhenNoFrameMatches(t *testing.T) {
	inf := newFixtureInferer()
	rec := &lattice.RecursiveCall{FuncID: "f"}
	_, err := resolveRecursiveCall(inf, rec, []lattice.Type{lattice.Int64}, nil, location.Unknown)
	assert.Error(t, err)
}

func TestResolveRecursiveCallErrorsWhenCandidatesImprecise(t *testing.T) {
	inf := newFixtureInferer()
	frame := &fakeReturnFrame{
		funcID:     "f",
		argsKey:    "int64",
		candidates: []interface{}{lattice.UndefinedType},
	}
	inf.CallStack.Push(frame)
	defer inf.CallStack.Pop()

	rec := &lattice.RecursiveCall{FuncID: "f"}
	_, err := resolveRecursiveCall(inf, rec, []lattice.Type{lattice.Int64}, nil, location.Unknown)
	assert.Error(t, err)
}

func TestRefineBoundReceiverPushesSharperReceiverBack(t *testing.T) {
	inf := newFixtureInferer()
	recv := &lattice.List{Elem: lattice.UndefinedType}
	require.NoError(t, inf.addType("lst", recv, location.Unknown, false))
	NewGetAttrConstraint(inf, "fn", "lst", "append", location.Unknown)
	bf := &lattice.BoundFunction{Callable: &lattice.Dispatcher{Name: "append"}, This: recv}
	err := inf.addType("fn", bf, location.Unknown, false)
	require.NoError(t, err)

	sig := &lattice.Signature{ReturnType: lattice.None, Recvr: &lattice.List{Elem: lattice.Int64}}
	_, err = refineBoundReceiver(inf, "fn", bf, sig, location.Unknown)
	require.NoError(t, err)

	list, ok := inf.varCell("lst").current.(*lattice.List)
	require.True(t, ok)
	assert.True(t, list.Elem.Equals(lattice.Int64))
}

func TestRefineBoundReceiverSurfacesRefinerError(t *testing.T) {
	inf := newFixtureInferer()
	bf := &lattice.BoundFunction{Callable: &lattice.Dispatcher{Name: "append"}, This: &lattice.List{Elem: lattice.UndefinedType}}
	err := inf.addType("fn", bf, location.Unknown, false)
	require.NoError(t, err)

	boom := errors.New("boom")
	inf.refineMap["fn"] = refinerFunc(func(_ *TypeInferer, _ lattice.Type) error {
		return boom
	})

	sig := &lattice.Signature{ReturnType: lattice.None, Recvr: &lattice.List{Elem: lattice.Int64}}
	_, err = refineBoundReceiver(inf, "fn", bf, sig, location.Unknown)
	assert.ErrorIs(t, err, boom, "a refiner's error must surface, not be swallowed")
}

func TestCallConstraintSurfacesBoundReceiverRefinerError(t *testing.T) {
	inf := newFixtureInferer()
	bf := &lattice.BoundFunction{Callable: &lattice.Dispatcher{Name: "list.append"}, This: &lattice.List{Elem: lattice.UndefinedType}}
	err := inf.addType("fn", bf, location.Unknown, false)
	require.NoError(t, err)
	err = inf.addType("v", lattice.Int64, location.Unknown, false)
	require.NoError(t, err)

	boom := errors.New("boom")
	inf.refineMap["fn"] = refinerFunc(func(_ *TypeInferer, _ lattice.Type) error {
		return boom
	})

	c := NewCallConstraint(inf, "result", "fn", []string{"v"}, nil, "", location.Unknown)
	err = c.Fire(inf)
	assert.ErrorIs(t, err, boom)
}

func TestRefineImpreciseReturnUsesTargetsSharperType(t *testing.T) {
	inf := newFixtureInferer()
	err := inf.addType("s", &lattice.Set{Elem: lattice.Int64}, location.Unknown, false)
	require.NoError(t, err)

	sig := &lattice.Signature{ReturnType: &lattice.Set{Elem: lattice.UndefinedType}}
	rewritten := refineImpreciseReturn(inf, "s", sig)
	assert.True(t, rewritten.ReturnType.Equals(&lattice.Set{Elem: lattice.Int64}))
}

type fakeReturnFrame struct {
	funcID     string
	argsKey    string
	candidates []interface{}
}

func (f *fakeReturnFrame) FuncID() string                  { return f.funcID }
func (f *fakeReturnFrame) ArgsKey() string                 { return f.argsKey }
func (f *fakeReturnFrame) ReturnCandidates() []interface{} { return f.candidates }
