package infer

import (
	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
	"github.com/ashrielbrian/numba-typeinfer/internal/tierrors"
)

// GetAttrConstraint resolves `target = value.attr`. It self-registers as
// target's refiner: when a bound method's receiver is later sharpened,
// Refine re-types the variable holding `value` and cascades further.
type GetAttrConstraint struct {
	loc    location.Location
	Target string
	Value  string
	Attr   string
}

func NewGetAttrConstraint(inf *TypeInferer, target, value, attr string, loc location.Location) *GetAttrConstraint {
	c := &GetAttrConstraint{loc: loc, Target: target, Value: value, Attr: attr}
	inf.refineMap[target] = c
	return c
}

func (c *GetAttrConstraint) Loc() location.Location { return c.loc }

func (c *GetAttrConstraint) Fire(inf *TypeInferer) error {
	cell := inf.varCell(c.Value)
	if cell.current == nil {
		return nil
	}
	t := inf.Lattice.ResolveGetAttr(cell.current, c.Attr)
	if t == nil {
		return tierrors.UntypedAttribute(c.Attr, cell.current, c.loc)
	}
	return inf.addType(c.Target, t, c.loc, false)
}

// Refine implements Refiner: if the new type is a BoundFunction, re-type
// the receiver variable to its `this`, then recursively refine that
// variable's own refiner (the receiver may itself have come from a
// GetAttrConstraint or Propagate).
func (c *GetAttrConstraint) Refine(inf *TypeInferer, newType lattice.Type) error {
	bf, ok := newType.(*lattice.BoundFunction)
	if !ok {
		return nil
	}
	return inf.addType(c.Value, bf.This, c.loc, false)
}
