package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalarEquals(t *testing.T) {
	assert.True(t, Int64.Equals(Int64))
	assert.False(t, Int64.Equals(Float64))
	assert.False(t, Int64.Equals(Bool))
}

func TestUndefinedIsNeverPrecise(t *testing.T) {
	assert.False(t, UndefinedType.IsPrecise())
	assert.True(t, UndefinedType.Equals(UndefinedType))
}

func TestContainerPrecisionPropagates(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want bool
	}{
		{"list of undefined", &List{Elem: UndefinedType}, false},
		{"list of int64", &List{Elem: Int64}, true},
		{"set of undefined", &Set{Elem: UndefinedType}, false},
		{"pair with one imprecise side", &Pair{First: Int64, Second: UndefinedType}, false},
		{"uni tuple of undefined", &UniTuple{Dtype: UndefinedType, Count: 2}, false},
		{"tuple with all precise elements", &Tuple{Elements: []Type{Int64, Bool}}, true},
		{"tuple with one imprecise element", &Tuple{Elements: []Type{Int64, UndefinedType}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.IsPrecise())
		})
	}
}

func TestBaseTupleInterface(t *testing.T) {
	var bt BaseTuple = &Tuple{Elements: []Type{Int64, Float64, Bool}}
	assert.Equal(t, 3, bt.Len())
	assert.True(t, bt.ElemAt(1).Equals(Float64))

	bt = &UniTuple{Dtype: Str, Count: 4}
	assert.Equal(t, 4, bt.Len())
	assert.True(t, bt.ElemAt(0).Equals(Str))
	assert.True(t, bt.ElemAt(3).Equals(Str))
}

func TestIterableTypeInterface(t *testing.T) {
	var it IterableType = &List{Elem: Int64}
	assert.True(t, it.YieldType().Equals(Int64))

	it = &Set{Elem: Bool}
	assert.True(t, it.YieldType().Equals(Bool))

	it = &Iterable{Name: "range_state", Elem: Int64}
	assert.True(t, it.YieldType().Equals(Int64))
}

func TestBoundFunctionCopy(t *testing.T) {
	callable := &Dispatcher{Name: "list.append"}
	bf := &BoundFunction{Callable: callable, This: &List{Elem: UndefinedType}}
	refined := bf.Copy(&List{Elem: Int64})

	assert.True(t, refined.Callable.Equals(callable))
	assert.True(t, refined.This.Equals(&List{Elem: Int64}))
	assert.True(t, bf.This.Equals(&List{Elem: UndefinedType}), "Copy must not mutate the receiver")
}

func TestArrayCopyPreservesElemAndDim(t *testing.T) {
	a := &Array{Elem: Float64, NDim: 2, Layout: "A", Readonly: false}
	b := a.Copy("C", true)

	assert.True(t, b.Elem.Equals(Float64))
	assert.Equal(t, 2, b.NDim)
	assert.Equal(t, "C", b.Layout)
	assert.True(t, b.Readonly)
	assert.Equal(t, "A", a.Layout, "Copy must not mutate the receiver")
}

func TestRecordEqualsIgnoresFieldOrder(t *testing.T) {
	a := &Record{Name: "Point", Fields: map[string]Type{"x": Int64, "y": Float64}}
	b := &Record{Name: "Point", Fields: map[string]Type{"y": Float64, "x": Int64}}
	assert.True(t, a.Equals(b))

	c := &Record{Name: "Point", Fields: map[string]Type{"x": Int64, "y": Int64}}
	assert.False(t, a.Equals(c))
}

func TestGeneratorEquals(t *testing.T) {
	a := &Generator{Func: "gen", YieldType: Int64, ArgTypes: []Type{Int64}, StateTypes: []Type{Bool}}
	b := &Generator{Func: "gen", YieldType: Int64, ArgTypes: []Type{Int64}, StateTypes: []Type{Bool}}
	assert.True(t, a.Equals(b))

	c := &Generator{Func: "gen", YieldType: Float64, ArgTypes: []Type{Int64}, StateTypes: []Type{Bool}}
	assert.False(t, a.Equals(c))
}

func TestRecursiveCallEquals(t *testing.T) {
	a := &RecursiveCall{FuncID: "f", DispatcherType: &Dispatcher{Name: "f"}}
	b := &RecursiveCall{FuncID: "f", DispatcherType: &Dispatcher{Name: "f"}}
	assert.True(t, a.Equals(b))
	assert.True(t, a.IsPrecise())
}
