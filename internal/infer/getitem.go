package infer

import "github.com/ashrielbrian/numba-typeinfer/internal/location"

// StaticGetItemConstraint resolves `target = value[constIndex]`. If the
// lattice can answer directly from the constant index, that result is
// used; otherwise, if a runtime index variable also exists, it falls back
// to treating this as a dynamic getitem.
type StaticGetItemConstraint struct {
	loc      location.Location
	Target   string
	Value    string
	Index    interface{}
	IndexVar string
}

func NewStaticGetItemConstraint(target, value string, index interface{}, indexVar string, loc location.Location) *StaticGetItemConstraint {
	return &StaticGetItemConstraint{loc: loc, Target: target, Value: value, Index: index, IndexVar: indexVar}
}

func (c *StaticGetItemConstraint) Loc() location.Location { return c.loc }

func (c *StaticGetItemConstraint) Fire(inf *TypeInferer) error {
	cell := inf.varCell(c.Value)
	if cell.current == nil {
		return nil
	}
	if t := inf.Lattice.ResolveStaticGetItem(cell.current, c.Index); t != nil {
		return inf.addType(c.Target, t, c.loc, false)
	}
	if c.IndexVar != "" {
		fallback := NewIntrinsicCallConstraint(c.Target, "getitem", []string{c.Value, c.IndexVar}, nil, "", c.loc)
		return fallback.Fire(inf)
	}
	return nil
}
