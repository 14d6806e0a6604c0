package debugsink

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// ColorSink prints each propagation pass to Out, the way cmd/ailang's REPL
// prints evaluation steps — a bold cyan arrow before each pass number,
// state token dimmed, errors in red, unified variable names in green and
// the return type's label in yellow.
type ColorSink struct {
	Out io.Writer
}

// NewColorSink returns a ColorSink writing to w.
func NewColorSink(w io.Writer) *ColorSink {
	return &ColorSink{Out: w}
}

func (s *ColorSink) PropagateStarted(pass int) {
	fmt.Fprintf(s.Out, "%s pass %d\n", bold(cyan("->")), pass)
}

func (s *ColorSink) PropagateFinished(pass int, state string, errs []error) {
	fmt.Fprintf(s.Out, "   %s %s\n", dim("state:"), dim(state))
	for _, e := range errs {
		fmt.Fprintf(s.Out, "   %s %s\n", red("error:"), e)
	}
}

func (s *ColorSink) UnifyFinished(types map[string]fmt.Stringer, returnType fmt.Stringer) {
	names := make([]string, 0, len(types))
	for n := range types {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Fprintf(s.Out, "%s\n", bold("unified:"))
	for _, n := range names {
		fmt.Fprintf(s.Out, "   %s : %s\n", green(n), types[n])
	}
	fmt.Fprintf(s.Out, "   %s : %s\n", yellow("return"), returnType)
}
