package infer

import (
	"fmt"

	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
	"github.com/ashrielbrian/numba-typeinfer/internal/tierrors"
)

// SetItemConstraint resolves `target[index] = value`. All three cells
// must be defined before it can fire; until then it bails for a later
// pass.
type SetItemConstraint struct {
	loc                   location.Location
	Target, Index, Value  string
	resolved              *lattice.Signature
}

func NewSetItemConstraint(inf *TypeInferer, target, index, value string, loc location.Location) *SetItemConstraint {
	c := &SetItemConstraint{loc: loc, Target: target, Index: index, Value: value}
	inf.registerCall(loc, fmt.Sprintf("%s[%s] = %s", target, index, value), c)
	return c
}

func (c *SetItemConstraint) Loc() location.Location            { return c.loc }
func (c *SetItemConstraint) callSignature() *lattice.Signature { return c.resolved }

func (c *SetItemConstraint) Fire(inf *TypeInferer) error {
	target, index, value := inf.varCell(c.Target), inf.varCell(c.Index), inf.varCell(c.Value)
	if target.current == nil || index.current == nil || value.current == nil {
		return nil
	}
	sig := inf.Lattice.ResolveSetItem(target.current, index.current, value.current)
	if sig == nil {
		return tierrors.InvalidCall(fmt.Sprintf("%s[%s]=", target.current, index.current), value.current.String(), "", c.loc)
	}
	c.resolved = sig
	return nil
}

// StaticSetItemConstraint resolves `target[constIndex] = value` where the
// index is known at build time, falling back to the dynamic ResolveSetItem
// path when the lattice has nothing special to offer for the constant.
type StaticSetItemConstraint struct {
	loc       location.Location
	Target    string
	Index     interface{}
	IndexVar  string
	Value     string
	resolved  *lattice.Signature
}

func NewStaticSetItemConstraint(inf *TypeInferer, target string, index interface{}, indexVar, value string, loc location.Location) *StaticSetItemConstraint {
	c := &StaticSetItemConstraint{loc: loc, Target: target, Index: index, IndexVar: indexVar, Value: value}
	inf.registerCall(loc, fmt.Sprintf("%s[%v] = %s", target, index, value), c)
	return c
}

func (c *StaticSetItemConstraint) Loc() location.Location            { return c.loc }
func (c *StaticSetItemConstraint) callSignature() *lattice.Signature { return c.resolved }

func (c *StaticSetItemConstraint) Fire(inf *TypeInferer) error {
	target, value := inf.varCell(c.Target), inf.varCell(c.Value)
	if target.current == nil || value.current == nil {
		return nil
	}
	sig := inf.Lattice.ResolveStaticSetItem(target.current, c.Index, value.current)
	if sig == nil && c.IndexVar != "" {
		idx := inf.varCell(c.IndexVar)
		if idx.current == nil {
			return nil
		}
		sig = inf.Lattice.ResolveSetItem(target.current, idx.current, value.current)
	}
	if sig == nil {
		return tierrors.InvalidCall(fmt.Sprintf("%s[%v]=", target.current, c.Index), value.current.String(), "", c.loc)
	}
	c.resolved = sig
	return nil
}

// DelItemConstraint resolves `del target[index]`.
type DelItemConstraint struct {
	loc           location.Location
	Target, Index string
	resolved      *lattice.Signature
}

func NewDelItemConstraint(inf *TypeInferer, target, index string, loc location.Location) *DelItemConstraint {
	c := &DelItemConstraint{loc: loc, Target: target, Index: index}
	inf.registerCall(loc, fmt.Sprintf("del %s[%s]", target, index), c)
	return c
}

func (c *DelItemConstraint) Loc() location.Location            { return c.loc }
func (c *DelItemConstraint) callSignature() *lattice.Signature { return c.resolved }

func (c *DelItemConstraint) Fire(inf *TypeInferer) error {
	target, index := inf.varCell(c.Target), inf.varCell(c.Index)
	if target.current == nil || index.current == nil {
		return nil
	}
	sig := inf.Lattice.ResolveDelItem(target.current, index.current)
	if sig == nil {
		return tierrors.InvalidCall(fmt.Sprintf("del %s[%s]", target.current, index.current), "", "", c.loc)
	}
	c.resolved = sig
	return nil
}

// SetAttrConstraint resolves `target.attr = value`.
type SetAttrConstraint struct {
	loc             location.Location
	Target, Attr    string
	Value           string
	resolved        *lattice.Signature
}

func NewSetAttrConstraint(inf *TypeInferer, target, attr, value string, loc location.Location) *SetAttrConstraint {
	c := &SetAttrConstraint{loc: loc, Target: target, Attr: attr, Value: value}
	inf.registerCall(loc, fmt.Sprintf("%s.%s = %s", target, attr, value), c)
	return c
}

func (c *SetAttrConstraint) Loc() location.Location            { return c.loc }
func (c *SetAttrConstraint) callSignature() *lattice.Signature { return c.resolved }

func (c *SetAttrConstraint) Fire(inf *TypeInferer) error {
	target, value := inf.varCell(c.Target), inf.varCell(c.Value)
	if target.current == nil || value.current == nil {
		return nil
	}
	sig := inf.Lattice.ResolveSetAttr(target.current, c.Attr, value.current)
	if sig == nil {
		return tierrors.InvalidCall(fmt.Sprintf("%s.%s=", target.current, c.Attr), value.current.String(), "", c.loc)
	}
	c.resolved = sig
	return nil
}

