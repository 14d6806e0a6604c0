// Package lattice defines the type lattice consulted by the inference
// engine: the concrete Type shapes a function's variables can take on, the
// Lattice interface through which the engine consults an external typing
// registry, and one concrete instance of that registry (BasicContext).
package lattice

import (
	"fmt"
	"sort"
	"strings"
)

// Type is an opaque value drawn from the lattice. Every concrete shape the
// engine can infer implements it. Types are immutable once constructed.
type Type interface {
	String() string
	Equals(Type) bool
	// IsPrecise reports whether this type is fit for code generation: not
	// Undefined, and not a container whose element type is itself
	// imprecise (e.g. List(undefined)).
	IsPrecise() bool
}

// Scalar is an atomic value type (int64, float64, bool, string, ...).
// Scalars form a small numeric-promotion ladder via Rank: a higher rank
// can represent every value a lower rank can.
type Scalar struct {
	Name string
	Rank int
}

func (s *Scalar) String() string    { return s.Name }
func (s *Scalar) IsPrecise() bool   { return true }
func (s *Scalar) Equals(o Type) bool {
	other, ok := o.(*Scalar)
	return ok && other.Name == s.Name
}

var (
	Bool    = &Scalar{Name: "bool", Rank: 0}
	Int64   = &Scalar{Name: "int64", Rank: 1}
	Float64 = &Scalar{Name: "float64", Rank: 2}
	Str     = &Scalar{Name: "string", Rank: -1}
	Bytes   = &Scalar{Name: "bytes", Rank: -1}
)

// Undefined is the bottom of the container-element lattice: "no element has
// been seen yet". It is never precise.
type Undefined struct{}

func (Undefined) String() string   { return "undefined" }
func (Undefined) IsPrecise() bool  { return false }
func (Undefined) Equals(o Type) bool {
	_, ok := o.(Undefined)
	return ok
}

// UndefinedType is the singleton Undefined value.
var UndefinedType Type = Undefined{}

// NoneType is the unit type, the default return type of a function with no
// successful return path.
type NoneType struct{}

func (NoneType) String() string    { return "none" }
func (NoneType) IsPrecise() bool   { return true }
func (NoneType) Equals(o Type) bool {
	_, ok := o.(NoneType)
	return ok
}

// None is the singleton NoneType value.
var None Type = NoneType{}

// Omitted wraps a defaulted argument whose type is derived lazily from the
// default value it carries, via Lattice.ResolveValueType.
type Omitted struct {
	Value interface{}
}

func (o *Omitted) String() string  { return fmt.Sprintf("omitted(%v)", o.Value) }
func (o *Omitted) IsPrecise() bool { return false }
func (o *Omitted) Equals(other Type) bool {
	o2, ok := other.(*Omitted)
	return ok && o2.Value == o.Value
}

// BaseTuple is satisfied by both Tuple and UniTuple: an ordered product of
// element types whose arity and per-position type can always be asked for.
type BaseTuple interface {
	Type
	Len() int
	ElemAt(i int) Type
}

// Tuple is a heterogeneous product type.
type Tuple struct {
	Elements []Type
}

func (t *Tuple) Len() int        { return len(t.Elements) }
func (t *Tuple) ElemAt(i int) Type { return t.Elements[i] }
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Tuple(%s)", strings.Join(parts, ", "))
}
func (t *Tuple) IsPrecise() bool {
	for _, e := range t.Elements {
		if !e.IsPrecise() {
			return false
		}
	}
	return true
}
func (t *Tuple) Equals(o Type) bool {
	other, ok := o.(*Tuple)
	if !ok || len(other.Elements) != len(t.Elements) {
		return false
	}
	for i, e := range t.Elements {
		if !e.Equals(other.Elements[i]) {
			return false
		}
	}
	return true
}

// UniTuple is the homogeneous subform of BaseTuple: every element shares
// Dtype, so the constructor only needs to store one type and a count.
type UniTuple struct {
	Dtype Type
	Count int
}

func (u *UniTuple) Len() int          { return u.Count }
func (u *UniTuple) ElemAt(int) Type   { return u.Dtype }
func (u *UniTuple) String() string    { return fmt.Sprintf("UniTuple(%s x %d)", u.Dtype, u.Count) }
func (u *UniTuple) IsPrecise() bool   { return u.Dtype.IsPrecise() }
func (u *UniTuple) Equals(o Type) bool {
	other, ok := o.(*UniTuple)
	return ok && other.Count == u.Count && other.Dtype.Equals(u.Dtype)
}

// Pair is a two-field product, produced by for-loop "pair" intrinsics
// (getiter/iternext style two-slot results: value and validity).
type Pair struct {
	First  Type
	Second Type
}

func (p *Pair) String() string { return fmt.Sprintf("Pair(%s, %s)", p.First, p.Second) }
func (p *Pair) IsPrecise() bool { return p.First.IsPrecise() && p.Second.IsPrecise() }
func (p *Pair) Equals(o Type) bool {
	other, ok := o.(*Pair)
	return ok && other.First.Equals(p.First) && other.Second.Equals(p.Second)
}

// List is a homogeneous, mutable sequence.
type List struct {
	Elem Type
}

func (l *List) String() string    { return fmt.Sprintf("List(%s)", l.Elem) }
func (l *List) IsPrecise() bool   { return l.Elem.IsPrecise() }
func (l *List) Equals(o Type) bool {
	other, ok := o.(*List)
	return ok && other.Elem.Equals(l.Elem)
}
func (l *List) YieldType() Type { return l.Elem }

// Set is a homogeneous, mutable unordered collection.
type Set struct {
	Elem Type
}

func (s *Set) String() string    { return fmt.Sprintf("Set(%s)", s.Elem) }
func (s *Set) IsPrecise() bool   { return s.Elem.IsPrecise() }
func (s *Set) Equals(o Type) bool {
	other, ok := o.(*Set)
	return ok && other.Elem.Equals(s.Elem)
}
func (s *Set) YieldType() Type { return s.Elem }

// IterableType is exposed by anything that can be iterated: a getiter over
// it produces an iterator whose yield type is reported here directly.
type IterableType interface {
	Type
	YieldType() Type
}

// Iterable is a generic iterable wrapper for types that are only ever seen
// as the source of a for-loop (e.g. a "range" object) and never need any
// other shape.
type Iterable struct {
	Name string
	Elem Type
}

func (i *Iterable) String() string    { return fmt.Sprintf("%s(%s)", i.Name, i.Elem) }
func (i *Iterable) IsPrecise() bool   { return i.Elem.IsPrecise() }
func (i *Iterable) YieldType() Type   { return i.Elem }
func (i *Iterable) Equals(o Type) bool {
	other, ok := o.(*Iterable)
	return ok && other.Name == i.Name && other.Elem.Equals(i.Elem)
}

// BoundFunction carries an explicit receiver ("this") that may itself be
// refined once a call resolves a more precise receiver type, e.g. a
// `list.append` call learning its list's element type from the value
// appended.
type BoundFunction struct {
	Callable Type
	This     Type
}

func (b *BoundFunction) String() string {
	return fmt.Sprintf("BoundFunction(%s, this=%s)", b.Callable, b.This)
}
func (b *BoundFunction) IsPrecise() bool { return b.This.IsPrecise() }
func (b *BoundFunction) Equals(o Type) bool {
	other, ok := o.(*BoundFunction)
	return ok && other.Callable.Equals(b.Callable) && other.This.Equals(b.This)
}

// Copy returns a BoundFunction identical to b except for a new receiver.
func (b *BoundFunction) Copy(this Type) *BoundFunction {
	return &BoundFunction{Callable: b.Callable, This: this}
}

// Dispatcher is a compilable callable: a named overload set resolved by
// Lattice.ResolveFunctionType.
type Dispatcher struct {
	Name string
}

func (d *Dispatcher) String() string    { return fmt.Sprintf("Dispatcher(%s)", d.Name) }
func (d *Dispatcher) IsPrecise() bool   { return true }
func (d *Dispatcher) Equals(o Type) bool {
	other, ok := o.(*Dispatcher)
	return ok && other.Name == d.Name
}

// RecursiveCall is a self-reference placeholder used to break the knot
// when typing a call to the function currently being inferred.
type RecursiveCall struct {
	DispatcherType Type
	FuncID         string
}

func (r *RecursiveCall) String() string {
	return fmt.Sprintf("RecursiveCall(%s)", r.FuncID)
}
func (r *RecursiveCall) IsPrecise() bool { return true }
func (r *RecursiveCall) Equals(o Type) bool {
	other, ok := o.(*RecursiveCall)
	return ok && other.FuncID == r.FuncID
}

// Array is a contiguous N-D buffer. Layout and Readonly can be refined via
// Copy without disturbing Elem/NDim.
type Array struct {
	Elem     Type
	NDim     int
	Layout   string // "C", "F", or "A" (any)
	Readonly bool
}

func (a *Array) String() string {
	ro := ""
	if a.Readonly {
		ro = ", readonly"
	}
	return fmt.Sprintf("Array(%s, %dd, %s%s)", a.Elem, a.NDim, a.Layout, ro)
}
func (a *Array) IsPrecise() bool { return a.Elem.IsPrecise() }
func (a *Array) Equals(o Type) bool {
	other, ok := o.(*Array)
	return ok && other.NDim == a.NDim && other.Layout == a.Layout &&
		other.Readonly == a.Readonly && other.Elem.Equals(a.Elem)
}

// Copy returns an Array identical to a except for layout/readonly.
func (a *Array) Copy(layout string, readonly bool) *Array {
	return &Array{Elem: a.Elem, NDim: a.NDim, Layout: layout, Readonly: readonly}
}

// Generator is the return type of a generator function: its yield type,
// its (positional) argument types, the types of the variables live across
// yield points, and whether it needs a finalizer.
type Generator struct {
	Func         string
	YieldType    Type
	ArgTypes     []Type
	StateTypes   []Type
	HasFinalizer bool
}

func (g *Generator) String() string {
	args := make([]string, len(g.ArgTypes))
	for i, a := range g.ArgTypes {
		args[i] = a.String()
	}
	return fmt.Sprintf("Generator(%s, yields=%s, args=(%s))", g.Func, g.YieldType, strings.Join(args, ", "))
}
func (g *Generator) IsPrecise() bool {
	if !g.YieldType.IsPrecise() {
		return false
	}
	for _, a := range g.ArgTypes {
		if !a.IsPrecise() {
			return false
		}
	}
	for _, s := range g.StateTypes {
		if !s.IsPrecise() {
			return false
		}
	}
	return true
}
func (g *Generator) Equals(o Type) bool {
	other, ok := o.(*Generator)
	if !ok || other.Func != g.Func || len(other.ArgTypes) != len(g.ArgTypes) ||
		len(other.StateTypes) != len(g.StateTypes) || !other.YieldType.Equals(g.YieldType) {
		return false
	}
	for i, a := range g.ArgTypes {
		if !a.Equals(other.ArgTypes[i]) {
			return false
		}
	}
	for i, s := range g.StateTypes {
		if !s.Equals(other.StateTypes[i]) {
			return false
		}
	}
	return true
}

// Record is a named, closed product of attributes: the concrete shape
// GetAttrConstraint/SetAttrConstraint exercise for non-container values,
// giving BasicContext something to resolve attribute access against.
type Record struct {
	Name   string
	Fields map[string]Type
}

func (r *Record) String() string {
	keys := sortedKeys(r.Fields)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, r.Fields[k])
	}
	return fmt.Sprintf("%s{%s}", r.Name, strings.Join(parts, ", "))
}
func (r *Record) IsPrecise() bool {
	for _, f := range r.Fields {
		if !f.IsPrecise() {
			return false
		}
	}
	return true
}
func (r *Record) Equals(o Type) bool {
	other, ok := o.(*Record)
	if !ok || other.Name != r.Name || len(other.Fields) != len(r.Fields) {
		return false
	}
	for k, v := range r.Fields {
		ov, ok := other.Fields[k]
		if !ok || !ov.Equals(v) {
			return false
		}
	}
	return true
}

// sortedKeys is a small helper shared by BasicContext's attribute tables.
func sortedKeys(m map[string]Type) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
