package infer

import (
	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
)

// PrintConstraint resolves a variadic print statement against the
// built-in `print` signature.
type PrintConstraint struct {
	loc      location.Location
	Args     []string
	resolved *lattice.Signature
}

func NewPrintConstraint(inf *TypeInferer, args []string, loc location.Location) *PrintConstraint {
	c := &PrintConstraint{loc: loc, Args: args}
	inf.registerCall(loc, "print", c)
	return c
}

func (c *PrintConstraint) Loc() location.Location            { return c.loc }
func (c *PrintConstraint) callSignature() *lattice.Signature { return c.resolved }

func (c *PrintConstraint) Fire(inf *TypeInferer) error {
	pos, _, ok, err := inf.foldArgVars(c.Args, nil, "", c.loc)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	sig := inf.Lattice.ResolveFunctionType(&lattice.Dispatcher{Name: "print"}, pos, nil)
	if sig == nil {
		return nil
	}
	c.resolved = sig
	return nil
}
