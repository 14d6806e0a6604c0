package infer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
)

// stallingConstraint fires N times before resolving, letting a test drive
// ConstraintNetwork.Propagate through several passes under controlled
// conditions. propagateToFixedPoint stops at the first pass that leaves the
// state token unchanged, so a stalled pass ends it there.
type stallingConstraint struct {
	target    string
	remaining int
}

func (c *stallingConstraint) Loc() location.Location { return location.Unknown }

func (c *stallingConstraint) Fire(inf *TypeInferer) error {
	if c.remaining > 0 {
		c.remaining--
		return nil
	}
	return inf.addType(c.target, lattice.Int64, location.Unknown, false)
}

func TestPropagateToFixedPointStopsWhenStateTokenStabilizes(t *testing.T) {
	inf := newFixtureInferer()
	c := &stallingConstraint{target: "x", remaining: 0}
	inf.Network.Add(c)

	before := inf.stateToken()
	errs, err := inf.propagateToFixedPoint()
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.NotEqual(t, before, inf.stateToken(), "the cell's resolution must have advanced the token")
	assert.True(t, inf.varCell("x").current.Equals(lattice.Int64))
}

func TestPropagateToFixedPointIsMonotoneAcrossPasses(t *testing.T) {
	inf := newFixtureInferer()
	inf.Network.Add(&stallingConstraint{target: "x", remaining: 2})
	inf.Network.Add(&stallingConstraint{target: "y", remaining: 5})

	seen := map[string]bool{inf.stateToken(): true}
	var stableFor int
	for pass := 0; pass < 10 && stableFor < 3; pass++ {
		before := inf.stateToken()
		inf.Network.Propagate(inf)
		after := inf.stateToken()
		if after == before {
			stableFor++
			continue
		}
		stableFor = 0
		assert.False(t, seen[after], "a settled state must never be revisited once propagation moves on")
		seen[after] = true
	}
	assert.True(t, inf.varCell("x").current.Equals(lattice.Int64))
	assert.True(t, inf.varCell("y").current.Equals(lattice.Int64))
}

// neverSettlingConstraint always reports a change, defeating termination so
// the maxPropagatePasses guard has to trip.
type neverSettlingConstraint struct{ counter int }

func (c *neverSettlingConstraint) Loc() location.Location { return location.Unknown }

func (c *neverSettlingConstraint) Fire(inf *TypeInferer) error {
	c.counter++
	inf.varCell("churn").current = &lattice.Scalar{Name: fmt.Sprintf("churn%d", c.counter), Rank: c.counter}
	return nil
}

func TestPropagateToFixedPointErrorsWhenItNeverSettles(t *testing.T) {
	inf := newFixtureInferer()
	inf.varCell("churn")
	inf.Network.Add(&neverSettlingConstraint{})

	_, err := inf.propagateToFixedPoint()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not reach a fixed point")
}

func TestPropagateToFixedPointReturnsFinalPassErrorsOnly(t *testing.T) {
	inf := newFixtureInferer()
	err := inf.addType("lst", &lattice.List{Elem: lattice.Int64}, location.Unknown, false)
	require.NoError(t, err)
	err = inf.addType("idx", lattice.Int64, location.Unknown, false)
	require.NoError(t, err)
	err = inf.addType("val", lattice.Str, location.Unknown, false)
	require.NoError(t, err)

	inf.Network.Add(NewSetItemConstraint(inf, "lst", "idx", "val", location.Unknown))

	errs, err := inf.propagateToFixedPoint()
	require.NoError(t, err, "reaching a fixed point is not itself an error")
	require.Len(t, errs, 1)
	assert.Error(t, errs[0])
}
