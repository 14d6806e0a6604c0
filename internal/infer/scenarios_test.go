package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashrielbrian/numba-typeinfer/internal/callstack"
	"github.com/ashrielbrian/numba-typeinfer/internal/irparse"
	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
)

// runIR parses src, seeds argTypes, and runs inference, optionally
// registering the function as its own recursive dispatcher.
func runIR(t *testing.T, src string, argTypes map[string]lattice.Type, recursive bool) (*Result, error) {
	t.Helper()
	fn, err := irparse.New([]byte(src), t.Name()).ParseFunction()
	require.NoError(t, err)

	lat := lattice.NewBasicContext()
	inf := NewTypeInferer(fn, lat, nil, nil)
	require.NoError(t, inf.SeedArgs(argTypes))

	var dispatcherType lattice.Type
	if recursive {
		inf.DispatcherRegistry = callstack.NewRegistry()
		dispatcherType = &lattice.Dispatcher{Name: fn.Name}
	}
	return inf.Run(dispatcherType)
}

func TestScenarioArithConstantsSummed(t *testing.T) {
	src := `function f():
block 0:
    x = const 1
    y = const 2
    z = binop + x y
    return z
`
	result, err := runIR(t, src, nil, false)
	require.NoError(t, err)
	assert.True(t, result.Types["x"].Equals(lattice.Int64))
	assert.True(t, result.Types["y"].Equals(lattice.Int64))
	assert.True(t, result.Types["z"].Equals(lattice.Int64))
	assert.True(t, result.ReturnType.Equals(lattice.Int64))
}

func TestScenarioBuildTupleHeterogeneous(t *testing.T) {
	src := `function f():
block 0:
    a = const 1
    b = const 2
    c = const 1.5
    t = build_tuple a, b, c
    return t
`
	result, err := runIR(t, src, nil, false)
	require.NoError(t, err)
	want := &lattice.Tuple{Elements: []lattice.Type{lattice.Int64, lattice.Int64, lattice.Float64}}
	assert.True(t, result.Types["t"].Equals(want))
	assert.True(t, result.ReturnType.Equals(want))
}

func TestScenarioBuildTupleUniformCollapses(t *testing.T) {
	src := `function f():
block 0:
    a = const 1
    t = build_tuple a, a, a
    return t
`
	result, err := runIR(t, src, nil, false)
	require.NoError(t, err)
	want := &lattice.UniTuple{Dtype: lattice.Int64, Count: 3}
	assert.True(t, result.Types["t"].Equals(want))
	assert.True(t, result.ReturnType.Equals(want))
}

func TestScenarioExhaustIterOverIterableTypesBothTargets(t *testing.T) {
	src := `function f(pair_iter):
block 0:
    pair_iter = arg pair_iter 0
    tup = exhaust_iter pair_iter 2
    x = static_getitem tup 0
    y = static_getitem tup 1
    return x
`
	result, err := runIR(t, src, map[string]lattice.Type{"pair_iter": &lattice.List{Elem: lattice.Int64}}, false)
	require.NoError(t, err)
	assert.True(t, result.Types["tup"].Equals(&lattice.UniTuple{Dtype: lattice.Int64, Count: 2}))
	assert.True(t, result.Types["x"].Equals(lattice.Int64))
	assert.True(t, result.Types["y"].Equals(lattice.Int64))
	assert.True(t, result.ReturnType.Equals(lattice.Int64))
}

func TestScenarioModifiedBuiltinRejected(t *testing.T) {
	src := `function f():
block 0:
    r = global range 0
    return r
`
	_, err := runIR(t, src, nil, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `rebind builtin "range"`)
}

func TestScenarioRecursiveFactorial(t *testing.T) {
	src := `function f(n):
block 0:
    n = arg n 0
    zero = const 0
    is_zero = binop == n zero
    branch is_zero then 1 else 2
block 1:
    ret1 = const 1
    return ret1
block 2:
    self_fn = global f f
    one = const 1
    nm1 = binop - n one
    rec = call self_fn(nm1)
    ret2 = binop * n rec
    return ret2
`
	result, err := runIR(t, src, map[string]lattice.Type{"n": lattice.Int64}, true)
	require.NoError(t, err)
	assert.True(t, result.Types["ret1"].Equals(lattice.Int64))
	assert.True(t, result.Types["ret2"].Equals(lattice.Int64))
	assert.True(t, result.Types["rec"].Equals(lattice.Int64))
	assert.True(t, result.ReturnType.Equals(lattice.Int64))
	assert.False(t, result.AssumedImmutables["self_fn"], "a recursive self-reference is not a stable value binding")
}

func TestScenarioOmittedArgumentResolvesToDefaultType(t *testing.T) {
	src := `function f():
block 0:
    x = arg n 0 default 1
    return x
`
	result, err := runIR(t, src, nil, false)
	require.NoError(t, err)
	assert.True(t, result.Types["x"].Equals(lattice.Int64))
	assert.True(t, result.ReturnType.Equals(lattice.Int64))
}

func TestScenarioOmittedArgumentYieldsToCallerSuppliedType(t *testing.T) {
	src := `function f(n):
block 0:
    x = arg n 0 default 1
    return x
`
	result, err := runIR(t, src, map[string]lattice.Type{"n": lattice.Float64}, false)
	require.NoError(t, err)
	assert.True(t, result.Types["x"].Equals(lattice.Float64))
	assert.True(t, result.ReturnType.Equals(lattice.Float64))
}

func TestScenarioSetAddRefinesElementType(t *testing.T) {
	src := `function f():
block 0:
    setfn = global set set
    s = call setfn()
    addfn = getattr s add
    one = const 1
    ignored = call addfn(one)
    return s
`
	result, err := runIR(t, src, nil, false)
	require.NoError(t, err)
	assert.True(t, result.Types["s"].Equals(&lattice.Set{Elem: lattice.Int64}))
	assert.True(t, result.ReturnType.Equals(&lattice.Set{Elem: lattice.Int64}))
	assert.True(t, result.AssumedImmutables["setfn"])
}
