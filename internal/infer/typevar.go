// Package infer implements the CPA-style constraint solver: per-variable
// cells (TypeVar), the constraint variants that read and write them, the
// ConstraintNetwork that fires them in order, and the TypeInferer
// orchestrator that builds constraints from an ir.Function, drives them to
// a fixed point, and assembles the final typing.
package infer

import (
	"fmt"

	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
	"github.com/ashrielbrian/numba-typeinfer/internal/tierrors"
)

// TypeVar is the per-variable cell: its current type (nil means
// undefined), whether it has been locked, and where it was first defined.
type TypeVar struct {
	Name       string
	current    lattice.Type
	locked     bool
	defineLoc  location.Location
	lat        lattice.Lattice
}

func newTypeVar(name string, lat lattice.Lattice) *TypeVar {
	return &TypeVar{Name: name, lat: lat}
}

// Current returns the cell's type, or nil if still undefined.
func (v *TypeVar) Current() lattice.Type { return v.current }

// Locked reports whether the cell has been locked.
func (v *TypeVar) Locked() bool { return v.locked }

// DefineLoc returns the location of the cell's first definition.
func (v *TypeVar) DefineLoc() location.Location { return v.defineLoc }

// Get returns a 0- or 1-element slice: empty iff the cell is undefined.
// Mirrors TypeVar.get() returning a singleton or empty sequence so callers
// can range over "the current candidate types" uniformly.
func (v *TypeVar) Get() []lattice.Type {
	if v.current == nil {
		return nil
	}
	return []lattice.Type{v.current}
}

// addType merges t into the cell: joining it with whatever type is already
// there, or rejecting it outright if the cell is locked and t doesn't
// convert into the locked type. It reports whether the cell's current type
// changed as a result.
func (v *TypeVar) addType(t lattice.Type, loc location.Location) (changed bool, err error) {
	if t == nil {
		return false, nil
	}
	if v.locked {
		if v.current.Equals(t) {
			return false, nil
		}
		conv := v.lat.CanConvert(t, v.current)
		if conv == nil {
			return false, tierrors.ConversionForbidden(v.Name, t, v.current, loc)
		}
		return false, nil
	}
	if v.current == nil {
		v.current = t
		v.defineLoc = loc
		return true, nil
	}
	if v.current.Equals(t) {
		return false, nil
	}
	joined := v.lat.UnifyPairs(v.current, t)
	if joined == nil {
		return false, tierrors.UnificationFailed(v.Name, v.current, t, loc)
	}
	if joined.Equals(v.current) {
		return false, nil
	}
	v.current = joined
	return true, nil
}

// lock is lock(T, loc).
func (v *TypeVar) lock(t lattice.Type, loc location.Location) error {
	if v.locked {
		return fmt.Errorf("typevar %q already locked", v.Name)
	}
	if v.current != nil {
		conv := v.lat.CanConvert(v.current, t)
		if conv == nil {
			return tierrors.ConversionForbidden(v.Name, v.current, t, loc)
		}
	}
	v.current = t
	v.locked = true
	if v.defineLoc == location.Unknown {
		v.defineLoc = loc
	}
	return nil
}

// union is union(other, loc): add_type(other.current, loc) if other is defined.
func (v *TypeVar) union(other *TypeVar, loc location.Location) (bool, error) {
	if other.current == nil {
		return false, nil
	}
	return v.addType(other.current, loc)
}
