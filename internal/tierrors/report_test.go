package tierrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashrielbrian/numba-typeinfer/internal/location"
)

type stringerType string

func (s stringerType) String() string { return string(s) }

func TestReportErrorsCarryStableCode(t *testing.T) {
	loc := location.Location{Filename: "f.ir", Line: 5}

	tests := []struct {
		name string
		err  *ReportError
		code string
	}{
		{"conversion forbidden", ConversionForbidden("x", stringerType("int64"), stringerType("string"), loc), CodeConversionForbidden},
		{"unification failed", UnificationFailed("x", stringerType("int64"), stringerType("string"), loc), CodeUnificationFailed},
		{"undefined variable", UndefinedVariable("x", loc), CodeUndefinedVariable},
		{"imprecise type", ImpreciseType("x", stringerType("undefined"), loc), CodeImpreciseType},
		{"untyped attribute", UntypedAttribute("foo", stringerType("int64"), loc), CodeUntypedAttribute},
		{"invalid call", InvalidCall("range", "string", "", loc), CodeInvalidCall},
		{"wrong tuple arity", WrongTupleArity(2, 3, loc), CodeWrongTupleArity},
		{"varargs not tuple", VarargsNotTuple(stringerType("int64"), loc), CodeVarargsNotTuple},
		{"runaway recursion", RunawayRecursion("f", loc), CodeRunawayRecursion},
		{"modified builtin", ModifiedBuiltin("range", loc), CodeModifiedBuiltin},
		{"internal", Internal(errors.New("boom"), "", loc), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, loc, tt.err.Loc)
			assert.NotEmpty(t, tt.err.Error())

			report, ok := AsReport(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.code, report.Code)
		})
	}
}

func TestModifiedBuiltinMessageNamesTheBuiltin(t *testing.T) {
	err := ModifiedBuiltin("range", location.Unknown)
	assert.Contains(t, err.Message, `rebind builtin "range"`)
}

func TestAsReportRejectsPlainErrors(t *testing.T) {
	_, ok := AsReport(errors.New("plain"))
	assert.False(t, ok)
}

func TestToJSONRoundTripsCode(t *testing.T) {
	err := UndefinedVariable("x", location.Location{Filename: "f.ir", Line: 1})
	body, jsonErr := err.ToJSON()
	require.NoError(t, jsonErr)
	assert.Contains(t, string(body), CodeUndefinedVariable)
}
