package lattice

import "fmt"

// BasicContext is a concrete, non-exhaustive Lattice instance: enough
// numeric promotion, container, and attribute semantics to drive every
// constraint variant in internal/infer end to end, seeding a handful of
// well-known builtins rather than a full standard library.
//
// Operator names and builtin names are modeled as *Dispatcher values so
// that binop/unary/getiter/iternext/getitem intrinsics — which
// IntrinsicCallConstraint routes through with the raw op name as the
// callee — and named builtins such as "range"/"len"/"list"/"set"/"print"
// share a single resolution path: ResolveFunctionType switches on
// Dispatcher.Name.
type BasicContext struct{}

// NewBasicContext constructs the reference Lattice implementation.
func NewBasicContext() *BasicContext { return &BasicContext{} }

var _ Lattice = (*BasicContext)(nil)

// Builtin names recognized by ResolveValueType / sentry_modified_builtin.
const (
	BuiltinRange = "range"
	BuiltinXrange = "xrange"
	BuiltinLen   = "len"
	BuiltinSlice = "slice"
	BuiltinPrint = "print"
	BuiltinList  = "list"
	BuiltinSet   = "set"
)

func (c *BasicContext) UnifyPairs(a, b Type) Type {
	if a == nil || b == nil {
		return nil
	}
	if a.Equals(b) {
		return a
	}
	if _, ok := a.(Undefined); ok {
		return b
	}
	if _, ok := b.(Undefined); ok {
		return a
	}

	switch av := a.(type) {
	case *Scalar:
		bv, ok := b.(*Scalar)
		if !ok || av.Rank < 0 || bv.Rank < 0 {
			return nil
		}
		if av.Rank >= bv.Rank {
			return av
		}
		return bv

	case *List:
		bv, ok := b.(*List)
		if !ok {
			return nil
		}
		elem := c.UnifyPairs(av.Elem, bv.Elem)
		if elem == nil {
			return nil
		}
		return &List{Elem: elem}

	case *Set:
		bv, ok := b.(*Set)
		if !ok {
			return nil
		}
		elem := c.UnifyPairs(av.Elem, bv.Elem)
		if elem == nil {
			return nil
		}
		return &Set{Elem: elem}

	case *Pair:
		bv, ok := b.(*Pair)
		if !ok {
			return nil
		}
		first := c.UnifyPairs(av.First, bv.First)
		second := c.UnifyPairs(av.Second, bv.Second)
		if first == nil || second == nil {
			return nil
		}
		return &Pair{First: first, Second: second}

	case *UniTuple:
		bv, ok := b.(*UniTuple)
		if !ok || av.Count != bv.Count {
			return nil
		}
		elem := c.UnifyPairs(av.Dtype, bv.Dtype)
		if elem == nil {
			return nil
		}
		return &UniTuple{Dtype: elem, Count: av.Count}

	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return nil
		}
		elems := make([]Type, len(av.Elements))
		for i := range av.Elements {
			u := c.UnifyPairs(av.Elements[i], bv.Elements[i])
			if u == nil {
				return nil
			}
			elems[i] = u
		}
		return &Tuple{Elements: elems}

	case *Array:
		bv, ok := b.(*Array)
		if !ok || av.NDim != bv.NDim || av.Layout != bv.Layout {
			return nil
		}
		elem := c.UnifyPairs(av.Elem, bv.Elem)
		if elem == nil {
			return nil
		}
		return &Array{Elem: elem, NDim: av.NDim, Layout: av.Layout, Readonly: av.Readonly && bv.Readonly}

	case *Iterable:
		bv, ok := b.(*Iterable)
		if !ok || av.Name != bv.Name {
			return nil
		}
		elem := c.UnifyPairs(av.Elem, bv.Elem)
		if elem == nil {
			return nil
		}
		return &Iterable{Name: av.Name, Elem: elem}

	case *BoundFunction:
		bv, ok := b.(*BoundFunction)
		if !ok || !av.Callable.Equals(bv.Callable) {
			return nil
		}
		this := c.UnifyPairs(av.This, bv.This)
		if this == nil {
			return nil
		}
		return &BoundFunction{Callable: av.Callable, This: this}

	default:
		return nil
	}
}

func (c *BasicContext) UnifyTypes(ts ...Type) Type {
	if len(ts) == 0 {
		return nil
	}
	result := ts[0]
	for _, t := range ts[1:] {
		result = c.UnifyPairs(result, t)
		if result == nil {
			return nil
		}
	}
	return result
}

func (c *BasicContext) CanConvert(from, to Type) *Conversion {
	exact := ConversionExact
	promote := ConversionPromote

	if from.Equals(to) {
		return &exact
	}
	if _, ok := from.(Undefined); ok {
		return &exact
	}
	fs, fok := from.(*Scalar)
	ts, tok := to.(*Scalar)
	if fok && tok && fs.Rank >= 0 && ts.Rank >= 0 && fs.Rank <= ts.Rank {
		return &promote
	}
	// Recurse structurally for containers: convertible iff the unified
	// type equals the target (i.e. `to` already absorbs `from`).
	if u := c.UnifyPairs(from, to); u != nil && u.Equals(to) {
		safe := ConversionSafe
		return &safe
	}
	return nil
}

func (c *BasicContext) IsPrecise(t Type) bool {
	if t == nil {
		return false
	}
	return t.IsPrecise()
}

func (c *BasicContext) ResolveValueType(v interface{}) (Type, error) {
	switch val := v.(type) {
	case Type:
		return val, nil
	case nil:
		return None, nil
	case bool:
		return Bool, nil
	case int:
		return Int64, nil
	case int64:
		return Int64, nil
	case float64:
		return Float64, nil
	case string:
		return Str, nil
	case []byte:
		return Bytes, nil
	case Builtin:
		return &Dispatcher{Name: val.Name}, nil
	default:
		return nil, fmt.Errorf("cannot resolve type of value %#v", v)
	}
}

// Builtin names a well-known global value (range, len, print, ...) whose
// type the context already knows without looking further.
type Builtin struct {
	Name string
}

func (c *BasicContext) ResolveFunctionType(fn Type, pos []Type, kw map[string]Type) *Signature {
	switch f := fn.(type) {
	case *Dispatcher:
		return c.resolveDispatcherCall(f, pos, kw)
	case *BoundFunction:
		return c.resolveBoundCall(f, pos, kw)
	default:
		return nil
	}
}

func (c *BasicContext) resolveDispatcherCall(f *Dispatcher, pos []Type, kw map[string]Type) *Signature {
	switch f.Name {
	case BuiltinRange, BuiltinXrange:
		for _, a := range pos {
			if !c.isIntLike(a) {
				return nil
			}
		}
		return &Signature{ReturnType: &Iterable{Name: "range_state", Elem: Int64}, Args: pos}

	case BuiltinLen:
		if len(pos) != 1 {
			return nil
		}
		if _, ok := asIterable(pos[0]); !ok {
			if _, ok := pos[0].(BaseTuple); !ok {
				return nil
			}
		}
		return &Signature{ReturnType: Int64, Args: pos}

	case BuiltinPrint:
		return &Signature{ReturnType: None, Args: pos}

	case BuiltinList:
		if len(pos) == 0 {
			return &Signature{ReturnType: &List{Elem: UndefinedType}}
		}
		it, ok := asIterable(pos[0])
		if !ok {
			return nil
		}
		return &Signature{ReturnType: &List{Elem: it.YieldType()}, Args: pos}

	case BuiltinSet:
		if len(pos) == 0 {
			return &Signature{ReturnType: &Set{Elem: UndefinedType}}
		}
		it, ok := asIterable(pos[0])
		if !ok {
			return nil
		}
		return &Signature{ReturnType: &Set{Elem: it.YieldType()}, Args: pos}

	case "getiter":
		if len(pos) != 1 {
			return nil
		}
		it, ok := asIterable(pos[0])
		if !ok {
			return nil
		}
		return &Signature{ReturnType: &Iterable{Name: "iterator", Elem: it.YieldType()}, Args: pos}

	case "iternext":
		if len(pos) != 1 {
			return nil
		}
		it, ok := asIterable(pos[0])
		if !ok {
			return nil
		}
		return &Signature{ReturnType: &Pair{First: it.YieldType(), Second: Bool}, Args: pos}

	case "getitem":
		if len(pos) != 2 {
			return nil
		}
		return c.resolveGetitem(pos[0], pos[1])

	case "+", "-", "*", "/", "//", "%", "**":
		return c.resolveArith(f.Name, pos)

	case "==", "!=", "<", "<=", ">", ">=":
		if len(pos) != 2 {
			return nil
		}
		return &Signature{ReturnType: Bool, Args: pos}

	case "not":
		if len(pos) != 1 {
			return nil
		}
		return &Signature{ReturnType: Bool, Args: pos}

	case "neg", "pos":
		if len(pos) != 1 {
			return nil
		}
		if s, ok := pos[0].(*Scalar); ok && s.Rank >= 0 {
			return &Signature{ReturnType: s, Args: pos}
		}
		return nil

	default:
		return nil
	}
}

func (c *BasicContext) resolveArith(op string, pos []Type) *Signature {
	if len(pos) != 2 {
		return nil
	}
	a, aok := pos[0].(*Scalar)
	b, bok := pos[1].(*Scalar)
	if !aok || !bok || a.Rank < 0 || b.Rank < 0 {
		return nil
	}
	result := a
	if b.Rank > a.Rank {
		result = b
	}
	if op == "/" {
		result = Float64
	}
	return &Signature{ReturnType: result, Args: pos}
}

func (c *BasicContext) resolveGetitem(container, index Type) *Signature {
	switch v := container.(type) {
	case *List:
		if !c.isIntLike(index) {
			return nil
		}
		return &Signature{ReturnType: v.Elem, Args: []Type{container, index}}
	case *Array:
		if !c.isIntLike(index) {
			return nil
		}
		return &Signature{ReturnType: v.Elem, Args: []Type{container, index}}
	case *UniTuple:
		if !c.isIntLike(index) {
			return nil
		}
		return &Signature{ReturnType: v.Dtype, Args: []Type{container, index}}
	default:
		return nil
	}
}

func (c *BasicContext) resolveBoundCall(f *BoundFunction, pos []Type, kw map[string]Type) *Signature {
	d, ok := f.Callable.(*Dispatcher)
	if !ok {
		return nil
	}
	switch d.Name {
	case "list.append":
		recv, ok := f.This.(*List)
		if !ok || len(pos) != 1 {
			return nil
		}
		elem := c.UnifyPairs(recv.Elem, pos[0])
		if elem == nil {
			return nil
		}
		return &Signature{ReturnType: None, Args: pos, Recvr: &List{Elem: elem}}

	case "set.add":
		recv, ok := f.This.(*Set)
		if !ok || len(pos) != 1 {
			return nil
		}
		elem := c.UnifyPairs(recv.Elem, pos[0])
		if elem == nil {
			return nil
		}
		return &Signature{ReturnType: None, Args: pos, Recvr: &Set{Elem: elem}}

	default:
		return nil
	}
}

func (c *BasicContext) ResolveGetAttr(t Type, attr string) Type {
	switch v := t.(type) {
	case *List:
		if attr == "append" {
			return &BoundFunction{Callable: &Dispatcher{Name: "list.append"}, This: v}
		}
	case *Set:
		if attr == "add" {
			return &BoundFunction{Callable: &Dispatcher{Name: "set.add"}, This: v}
		}
	case *Record:
		if f, ok := v.Fields[attr]; ok {
			return f
		}
	}
	return nil
}

func (c *BasicContext) ResolveSetItem(target, index, value Type) *Signature {
	switch v := target.(type) {
	case *List:
		if !c.isIntLike(index) {
			return nil
		}
		conv := c.CanConvert(value, v.Elem)
		if conv == nil {
			return nil
		}
		return &Signature{ReturnType: None, Args: []Type{target, index, value}}
	case *Array:
		if !c.isIntLike(index) {
			return nil
		}
		conv := c.CanConvert(value, v.Elem)
		if conv == nil {
			return nil
		}
		return &Signature{ReturnType: None, Args: []Type{target, index, value}}
	default:
		return nil
	}
}

func (c *BasicContext) ResolveStaticSetItem(target Type, index interface{}, value Type) *Signature {
	if rec, ok := target.(*Record); ok {
		if key, ok := index.(string); ok {
			if field, ok := rec.Fields[key]; ok {
				if conv := c.CanConvert(value, field); conv != nil {
					return &Signature{ReturnType: None, Args: []Type{value}}
				}
			}
		}
	}
	return nil
}

func (c *BasicContext) ResolveDelItem(target, index Type) *Signature {
	switch target.(type) {
	case *List, *Set:
		if !c.isIntLike(index) {
			if _, ok := target.(*Set); !ok {
				return nil
			}
		}
		return &Signature{ReturnType: None, Args: []Type{target, index}}
	default:
		return nil
	}
}

func (c *BasicContext) ResolveSetAttr(target Type, attr string, value Type) *Signature {
	rec, ok := target.(*Record)
	if !ok {
		return nil
	}
	field, ok := rec.Fields[attr]
	if !ok {
		return nil
	}
	if conv := c.CanConvert(value, field); conv == nil {
		return nil
	}
	return &Signature{ReturnType: None, Args: []Type{value}}
}

func (c *BasicContext) ResolveStaticGetItem(value Type, index interface{}) Type {
	switch v := value.(type) {
	case BaseTuple:
		i, ok := index.(int)
		if !ok || i < 0 || i >= v.Len() {
			return nil
		}
		return v.ElemAt(i)
	case *Record:
		key, ok := index.(string)
		if !ok {
			return nil
		}
		return v.Fields[key]
	default:
		return nil
	}
}

func (c *BasicContext) ExplainFunctionType(fn Type) string {
	switch f := fn.(type) {
	case *Dispatcher:
		return fmt.Sprintf("no overload of builtin %q matches the given argument types", f.Name)
	case *BoundFunction:
		return fmt.Sprintf("no overload of method %s matches the given argument types", f.Callable)
	default:
		return fmt.Sprintf("no known signature for %s", fn)
	}
}

func (c *BasicContext) isIntLike(t Type) bool {
	s, ok := t.(*Scalar)
	return ok && s == Int64
}

func asIterable(t Type) (IterableType, bool) {
	it, ok := t.(IterableType)
	return it, ok
}
