package infer

import (
	"fmt"
	"runtime/debug"

	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
	"github.com/ashrielbrian/numba-typeinfer/internal/tierrors"
)

// Constraint is a typed relation between IR variables: firing it reads
// cells, consults the lattice, and writes cells. All constraints are
// idempotent with respect to repeated execution at the same inference
// state.
type Constraint interface {
	Loc() location.Location
	Fire(inf *TypeInferer) error
}

// Refiner is implemented by the two constraint kinds that participate in
// backward refinement: Propagate and GetAttrConstraint.
type Refiner interface {
	Refine(inf *TypeInferer, newType lattice.Type) error
}

// ConstraintNetwork is an ordered, append-only sequence of constraints.
type ConstraintNetwork struct {
	constraints []Constraint
}

// NewConstraintNetwork returns an empty network.
func NewConstraintNetwork() *ConstraintNetwork {
	return &ConstraintNetwork{}
}

// Add appends a constraint, preserving insertion order.
func (n *ConstraintNetwork) Add(c Constraint) {
	n.constraints = append(n.constraints, c)
}

// Len reports how many constraints are in the network.
func (n *ConstraintNetwork) Len() int { return len(n.constraints) }

// Propagate fires every constraint once, in order, against inf. It never
// removes or reorders constraints. Errors from firing are collected and
// returned; a panicking constraint is recovered and wrapped as an
// *Internal* error carrying a trace excerpt, never escaping to the caller.
func (n *ConstraintNetwork) Propagate(inf *TypeInferer) (errs []error) {
	for _, c := range n.constraints {
		if err := fireSafely(c, inf); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func fireSafely(c Constraint, inf *TypeInferer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = tierrors.Internal(fmt.Errorf("%v", r), string(debug.Stack()), c.Loc())
		}
	}()
	return c.Fire(inf)
}

// permuted returns a copy of the network's constraints reordered by perm,
// a permutation of [0, Len()). Used by the confluence test to check that
// shuffling constraint order within a pass does not change the result.
func (n *ConstraintNetwork) permuted(perm []int) *ConstraintNetwork {
	out := &ConstraintNetwork{constraints: make([]Constraint, len(n.constraints))}
	for i, p := range perm {
		out.constraints[i] = n.constraints[p]
	}
	return out
}
