// Package tierrors is the structured error taxonomy raised by internal/infer:
// every failure is a Report with a stable code, carried inside a
// *ReportError so callers can still errors.As/errors.Is their way to the
// underlying typed fields.
package tierrors

import (
	"encoding/json"
	"fmt"

	"github.com/ashrielbrian/numba-typeinfer/internal/location"
)

// Fix is an optional suggested remediation, surfaced verbatim to a
// presentation layer; the inferencer itself never acts on it.
type Fix struct {
	Description string `json:"description"`
}

// Report is a structured, machine-readable description of one inference
// failure.
type Report struct {
	Schema  string                 `json:"schema"`
	Code    string                 `json:"code"`
	Phase   string                 `json:"phase"`
	Message string                 `json:"message"`
	Loc     location.Location      `json:"loc"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Fix     *Fix                   `json:"fix,omitempty"`
}

const schemaVersion = "tierrors.v1"

// ReportError adapts a Report to the error interface.
type ReportError struct {
	*Report
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("%s: %s (%s at %s)", e.Code, e.Message, e.Phase, e.Loc)
}

// ToJSON renders the report as machine-readable JSON.
func (e *ReportError) ToJSON() ([]byte, error) {
	return json.Marshal(e.Report)
}

// AsReport extracts the underlying Report from err, if any.
func AsReport(err error) (*Report, bool) {
	re, ok := err.(*ReportError)
	if !ok {
		return nil, false
	}
	return re.Report, true
}

func newReport(code, phase, message string, loc location.Location, data map[string]interface{}) *ReportError {
	return &ReportError{&Report{
		Schema:  schemaVersion,
		Code:    code,
		Phase:   phase,
		Message: message,
		Loc:     loc,
		Data:    data,
	}}
}

// ConversionForbidden reports an add to a locked cell with no conversion.
func ConversionForbidden(variable string, from, to fmt.Stringer, loc location.Location) *ReportError {
	return newReport(CodeConversionForbidden, "propagate",
		fmt.Sprintf("cannot convert %s to %s for locked variable %q", from, to, variable),
		loc, map[string]interface{}{"var": variable, "from": from.String(), "to": to.String()})
}

// UnificationFailed reports two candidate types with no join.
func UnificationFailed(variable string, a, b fmt.Stringer, loc location.Location) *ReportError {
	return newReport(CodeUnificationFailed, "propagate",
		fmt.Sprintf("cannot unify %s and %s for variable %q", a, b, variable),
		loc, map[string]interface{}{"var": variable, "type1": a.String(), "type2": b.String()})
}

// UndefinedVariable reports a cell that never received a type.
func UndefinedVariable(variable string, loc location.Location) *ReportError {
	return newReport(CodeUndefinedVariable, "unify",
		fmt.Sprintf("variable %q is undefined", variable),
		loc, map[string]interface{}{"var": variable})
}

// ImpreciseType reports a cell whose type is not fit for code generation.
func ImpreciseType(variable string, t fmt.Stringer, loc location.Location) *ReportError {
	return newReport(CodeImpreciseType, "unify",
		fmt.Sprintf("variable %q has imprecise type %s", variable, t),
		loc, map[string]interface{}{"var": variable, "type": t.String()})
}

// UntypedAttribute reports a failed resolve_getattr.
func UntypedAttribute(attr string, t fmt.Stringer, loc location.Location) *ReportError {
	return newReport(CodeUntypedAttribute, "propagate",
		fmt.Sprintf("%s has no attribute %q", t, attr),
		loc, map[string]interface{}{"attr": attr, "type": t.String()})
}

// InvalidCall reports a failed resolve_call, enriched with an explanation.
func InvalidCall(funcDesc string, argDesc string, explanation string, loc location.Location) *ReportError {
	msg := fmt.Sprintf("invalid usage of %s with parameters (%s)", funcDesc, argDesc)
	if explanation != "" {
		msg += ": " + explanation
	}
	return newReport(CodeInvalidCall, "propagate", msg, loc,
		map[string]interface{}{"func": funcDesc, "args": argDesc})
}

// WrongTupleArity reports an exhaust_iter count mismatch.
func WrongTupleArity(want, got int, loc location.Location) *ReportError {
	return newReport(CodeWrongTupleArity, "propagate",
		fmt.Sprintf("cannot unpack tuple of length %d into %d targets", got, want),
		loc, map[string]interface{}{"want": want, "got": got})
}

// VarargsNotTuple reports a vararg argument that did not resolve to a tuple.
func VarargsNotTuple(t fmt.Stringer, loc location.Location) *ReportError {
	return newReport(CodeVarargsNotTuple, "propagate",
		fmt.Sprintf("*args must be a tuple, got %s", t),
		loc, map[string]interface{}{"type": t.String()})
}

// RunawayRecursion reports a recursive call with no known return type.
func RunawayRecursion(funcName string, loc location.Location) *ReportError {
	return newReport(CodeRunawayRecursion, "propagate",
		fmt.Sprintf("cannot type infer runaway recursion in %q", funcName),
		loc, map[string]interface{}{"func": funcName})
}

// ModifiedBuiltin reports a rebound well-known global.
func ModifiedBuiltin(name string, loc location.Location) *ReportError {
	return newReport(CodeModifiedBuiltin, "build",
		fmt.Sprintf("cannot rebind builtin %q to a non-canonical value", name),
		loc, map[string]interface{}{"name": name})
}

// Internal wraps an unexpected error (including a recovered panic) with
// the constraint's location and a trace excerpt.
func Internal(cause error, trace string, loc location.Location) *ReportError {
	data := map[string]interface{}{"cause": cause.Error()}
	if trace != "" {
		data["trace"] = trace
	}
	return newReport(CodeInternal, "propagate",
		fmt.Sprintf("internal error: %s", cause), loc, data)
}
