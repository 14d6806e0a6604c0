// Package debugsink is the pluggable observer the inferencer reports to
// while it runs; it has no semantic effect on inference and can always be
// swapped for NullSink without changing results.
package debugsink

import "fmt"

// Sink receives notifications as the fixed-point loop runs. Implementations
// must not mutate anything they are handed.
type Sink interface {
	PropagateStarted(pass int)
	PropagateFinished(pass int, state string, errs []error)
	UnifyFinished(types map[string]fmt.Stringer, returnType fmt.Stringer)
}

// NullSink discards every notification; it is the default.
type NullSink struct{}

func (NullSink) PropagateStarted(int)                                    {}
func (NullSink) PropagateFinished(int, string, []error)                  {}
func (NullSink) UnifyFinished(map[string]fmt.Stringer, fmt.Stringer)     {}
