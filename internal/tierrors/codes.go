package tierrors

// Error codes, one per error kind the inferencer can raise, grouped by the
// phase that raises them (cell/lattice, attribute/call, control/registry).

// ==== Cell / lattice errors ====

const (
	// CodeConversionForbidden: add to a locked cell when no conversion exists.
	CodeConversionForbidden = "TIN001"
	// CodeUnificationFailed: two candidate types have no join.
	CodeUnificationFailed = "TIN002"
	// CodeUndefinedVariable: unification-phase cell is still bottom.
	CodeUndefinedVariable = "TIN003"
	// CodeImpreciseType: cell defined but not precise.
	CodeImpreciseType = "TIN004"
)

// ==== Attribute / call errors ====

const (
	// CodeUntypedAttribute: resolve_getattr returned nothing.
	CodeUntypedAttribute = "TIN010"
	// CodeInvalidCall: resolve_call returned nothing.
	CodeInvalidCall = "TIN011"
	// CodeWrongTupleArity: exhaust_iter count mismatch.
	CodeWrongTupleArity = "TIN012"
	// CodeVarargsNotTuple: vararg argument resolves to a non-tuple.
	CodeVarargsNotTuple = "TIN013"
)

// ==== Control / registry errors ====

const (
	// CodeRunawayRecursion: recursive call has no known return type.
	CodeRunawayRecursion = "TIN020"
	// CodeModifiedBuiltin: a well-known global name is rebound.
	CodeModifiedBuiltin = "TIN021"
)

// ==== Catch-all ====

const (
	// CodeInternal: anything else a constraint raised, including recovered panics.
	CodeInternal = "TIN099"
)
