package infer

import (
	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
)

// BuildTupleConstraint resolves `target = (items...)`. When every item
// shares the same resolved type, the result is the more specific
// UniTuple(dtype, n); otherwise it is a heterogeneous Tuple.
type BuildTupleConstraint struct {
	loc    location.Location
	Target string
	Items  []string
}

func NewBuildTupleConstraint(target string, items []string, loc location.Location) *BuildTupleConstraint {
	return &BuildTupleConstraint{loc: loc, Target: target, Items: items}
}

func (c *BuildTupleConstraint) Loc() location.Location { return c.loc }

func (c *BuildTupleConstraint) Fire(inf *TypeInferer) error {
	elems := make([]lattice.Type, 0, len(c.Items))
	for _, name := range c.Items {
		cell := inf.varCell(name)
		if cell.current == nil {
			return nil // bail, a later pass may resolve this
		}
		elems = append(elems, cell.current)
	}
	if allEqual(elems) {
		var dtype lattice.Type = lattice.UndefinedType
		if len(elems) > 0 {
			dtype = elems[0]
		}
		return inf.addType(c.Target, &lattice.UniTuple{Dtype: dtype, Count: len(elems)}, c.loc, false)
	}
	return inf.addType(c.Target, &lattice.Tuple{Elements: elems}, c.loc, false)
}

func allEqual(ts []lattice.Type) bool {
	if len(ts) == 0 {
		return true
	}
	for _, t := range ts[1:] {
		if !t.Equals(ts[0]) {
			return false
		}
	}
	return true
}

// BuildListConstraint resolves `target = [items...]`.
type BuildListConstraint struct {
	loc    location.Location
	Target string
	Items  []string
}

func NewBuildListConstraint(target string, items []string, loc location.Location) *BuildListConstraint {
	return &BuildListConstraint{loc: loc, Target: target, Items: items}
}

func (c *BuildListConstraint) Loc() location.Location { return c.loc }

func (c *BuildListConstraint) Fire(inf *TypeInferer) error {
	if len(c.Items) == 0 {
		return inf.addType(c.Target, &lattice.List{Elem: lattice.UndefinedType}, c.loc, false)
	}
	elems, ok, err := collectItemTypes(inf, c.Items)
	if err != nil || !ok {
		return err
	}
	elem := inf.Lattice.UnifyTypes(elems...)
	if elem == nil {
		return nil
	}
	return inf.addType(c.Target, &lattice.List{Elem: elem}, c.loc, false)
}

// BuildSetConstraint resolves `target = {items...}`.
type BuildSetConstraint struct {
	loc    location.Location
	Target string
	Items  []string
}

func NewBuildSetConstraint(target string, items []string, loc location.Location) *BuildSetConstraint {
	return &BuildSetConstraint{loc: loc, Target: target, Items: items}
}

func (c *BuildSetConstraint) Loc() location.Location { return c.loc }

func (c *BuildSetConstraint) Fire(inf *TypeInferer) error {
	if len(c.Items) == 0 {
		return inf.addType(c.Target, &lattice.Set{Elem: lattice.UndefinedType}, c.loc, false)
	}
	elems, ok, err := collectItemTypes(inf, c.Items)
	if err != nil || !ok {
		return err
	}
	elem := inf.Lattice.UnifyTypes(elems...)
	if elem == nil {
		return nil
	}
	return inf.addType(c.Target, &lattice.Set{Elem: elem}, c.loc, false)
}

func collectItemTypes(inf *TypeInferer, items []string) ([]lattice.Type, bool, error) {
	out := make([]lattice.Type, 0, len(items))
	for _, name := range items {
		cell := inf.varCell(name)
		if cell.current == nil {
			return nil, false, nil
		}
		out = append(out, cell.current)
	}
	return out, true, nil
}
