package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
)

func TestParseTypeExpr(t *testing.T) {
	tests := []struct {
		expr string
		want lattice.Type
	}{
		{"int64", lattice.Int64},
		{"float64", lattice.Float64},
		{"bool", lattice.Bool},
		{"string", lattice.Str},
		{"none", lattice.None},
		{"undefined", lattice.UndefinedType},
		{"List(int64)", &lattice.List{Elem: lattice.Int64}},
		{"Set(float64)", &lattice.Set{Elem: lattice.Float64}},
		{"Pair(int64, bool)", &lattice.Pair{First: lattice.Int64, Second: lattice.Bool}},
		{"UniTuple(int64, 3)", &lattice.UniTuple{Dtype: lattice.Int64, Count: 3}},
		{"Tuple(int64, float64)", &lattice.Tuple{Elements: []lattice.Type{lattice.Int64, lattice.Float64}}},
		{"List(UniTuple(int64, 2))", &lattice.List{Elem: &lattice.UniTuple{Dtype: lattice.Int64, Count: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseTypeExpr(tt.expr)
			require.NoError(t, err)
			assert.True(t, tt.want.Equals(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseTypeExpr_Invalid(t *testing.T) {
	_, err := ParseTypeExpr("NotAType(int64)")
	require.Error(t, err)

	_, err = ParseTypeExpr("garbage!!")
	require.Error(t, err)
}
