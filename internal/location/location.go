// Package location carries source positions through the type inferencer.
package location

import "fmt"

// Location identifies a single point in an IR source file. A zero Location
// (Filename == "") means "no location available" — used for seeded
// argument/return types that never appeared in source.
type Location struct {
	Filename string
	Line     int
}

// Unknown is the zero Location, used when no source position applies.
var Unknown = Location{}

func (l Location) String() string {
	if l.Filename == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", l.Filename, l.Line)
}

// IsKnown reports whether l carries an actual source position.
func (l Location) IsKnown() bool {
	return l.Filename != ""
}
