package infer

import (
	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
)

// Propagate copies a source cell's type into a destination cell:
// `dst = src`. It registers itself as dst's refiner so a later sharpening
// of dst can flow back into src.
type Propagate struct {
	loc      location.Location
	Dst, Src string
}

// NewPropagate builds a Propagate constraint and registers it as dst's
// refiner in inf's refine map at construction time, so a later sharpening
// of dst can always find its way back to src.
func NewPropagate(inf *TypeInferer, dst, src string, loc location.Location) *Propagate {
	p := &Propagate{loc: loc, Dst: dst, Src: src}
	inf.refineMap[dst] = p
	return p
}

func (p *Propagate) Loc() location.Location { return p.loc }

func (p *Propagate) Fire(inf *TypeInferer) error {
	dst := inf.varCell(p.Dst)
	src := inf.varCell(p.Src)
	changed, err := dst.union(src, p.loc)
	if err != nil {
		return err
	}
	if changed {
		return inf.propagateRefinedType(p.Dst, dst.current)
	}
	return nil
}

// Refine implements Refiner: add T to the source, unless the source is
// locked.
func (p *Propagate) Refine(inf *TypeInferer, newType lattice.Type) error {
	return inf.addType(p.Src, newType, p.loc, true)
}

// ArgConstraint resolves a function argument reference: once the
// argument's own "arg.<name>" cell is defined, its type flows to dst —
// unless that cell holds an Omitted, in which case the default value's
// resolved type flows instead.
type ArgConstraint struct {
	loc      location.Location
	Dst, Src string // Src is the "arg.<name>" cell
}

func NewArgConstraint(dst, src string, loc location.Location) *ArgConstraint {
	return &ArgConstraint{loc: loc, Dst: dst, Src: src}
}

func (a *ArgConstraint) Loc() location.Location { return a.loc }

func (a *ArgConstraint) Fire(inf *TypeInferer) error {
	src := inf.varCell(a.Src)
	if src.current == nil {
		return nil
	}
	if omitted, ok := src.current.(*lattice.Omitted); ok {
		t, err := inf.Lattice.ResolveValueType(omitted.Value)
		if err != nil {
			return err
		}
		return inf.addType(a.Dst, t, a.loc, false)
	}
	return inf.addType(a.Dst, src.current, a.loc, false)
}
