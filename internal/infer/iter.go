package infer

import (
	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
	"github.com/ashrielbrian/numba-typeinfer/internal/tierrors"
)

// ExhaustIterConstraint resolves unpacking an iterator into exactly Count
// targets, e.g. `x, y = pair_iter`.
type ExhaustIterConstraint struct {
	loc      location.Location
	Target   string
	Count    int
	Iterator string
}

func NewExhaustIterConstraint(target string, count int, iterator string, loc location.Location) *ExhaustIterConstraint {
	return &ExhaustIterConstraint{loc: loc, Target: target, Count: count, Iterator: iterator}
}

func (c *ExhaustIterConstraint) Loc() location.Location { return c.loc }

func (c *ExhaustIterConstraint) Fire(inf *TypeInferer) error {
	cell := inf.varCell(c.Iterator)
	if cell.current == nil {
		return nil
	}
	t := cell.current
	if tup, ok := t.(lattice.BaseTuple); ok {
		if tup.Len() != c.Count {
			return tierrors.WrongTupleArity(c.Count, tup.Len(), c.loc)
		}
		return inf.addType(c.Target, t, c.loc, false)
	}
	if it, ok := t.(lattice.IterableType); ok {
		return inf.addType(c.Target, &lattice.UniTuple{Dtype: it.YieldType(), Count: c.Count}, c.loc, false)
	}
	return nil
}

// PairFirstConstraint resolves the first element of a Pair; non-Pair
// candidates are silently ignored rather than reported as an error.
type PairFirstConstraint struct {
	loc    location.Location
	Target string
	Src    string
}

func NewPairFirstConstraint(target, src string, loc location.Location) *PairFirstConstraint {
	return &PairFirstConstraint{loc: loc, Target: target, Src: src}
}

func (c *PairFirstConstraint) Loc() location.Location { return c.loc }

func (c *PairFirstConstraint) Fire(inf *TypeInferer) error {
	cell := inf.varCell(c.Src)
	if cell.current == nil {
		return nil
	}
	if p, ok := cell.current.(*lattice.Pair); ok {
		return inf.addType(c.Target, p.First, c.loc, false)
	}
	return nil
}

// PairSecondConstraint resolves the second element of a Pair, with the same
// permissive non-Pair handling as PairFirstConstraint.
type PairSecondConstraint struct {
	loc    location.Location
	Target string
	Src    string
}

func NewPairSecondConstraint(target, src string, loc location.Location) *PairSecondConstraint {
	return &PairSecondConstraint{loc: loc, Target: target, Src: src}
}

func (c *PairSecondConstraint) Loc() location.Location { return c.loc }

func (c *PairSecondConstraint) Fire(inf *TypeInferer) error {
	cell := inf.varCell(c.Src)
	if cell.current == nil {
		return nil
	}
	if p, ok := cell.current.(*lattice.Pair); ok {
		return inf.addType(c.Target, p.Second, c.loc, false)
	}
	return nil
}
