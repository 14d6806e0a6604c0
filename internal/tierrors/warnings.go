package tierrors

import "github.com/ashrielbrian/numba-typeinfer/internal/location"

// Warning is an observational note emitted during a constraint firing. It
// never affects inferred types.
type Warning struct {
	Message string
	Loc     location.Location
}

// WarningCollector accumulates Warnings, filterable by (filename, line),
// mirroring the per-pass warning plumbing external to the inferencer core.
type WarningCollector struct {
	warnings []Warning
}

// NewWarningCollector returns an empty collector.
func NewWarningCollector() *WarningCollector {
	return &WarningCollector{}
}

// Add records a warning.
func (c *WarningCollector) Add(message string, loc location.Location) {
	c.warnings = append(c.warnings, Warning{Message: message, Loc: loc})
}

// All returns every warning recorded so far, in emission order.
func (c *WarningCollector) All() []Warning {
	return c.warnings
}

// Filter returns the warnings matching the given filename and line;
// line <= 0 matches any line in that file.
func (c *WarningCollector) Filter(filename string, line int) []Warning {
	var out []Warning
	for _, w := range c.warnings {
		if w.Loc.Filename != filename {
			continue
		}
		if line > 0 && w.Loc.Line != line {
			continue
		}
		out = append(out, w)
	}
	return out
}
