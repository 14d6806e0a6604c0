package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/ashrielbrian/numba-typeinfer/internal/debugsink"
	"github.com/ashrielbrian/numba-typeinfer/internal/infer"
	"github.com/ashrielbrian/numba-typeinfer/internal/irparse"
	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/scenario"
	"github.com/ashrielbrian/numba-typeinfer/internal/tierrors"
)

var (
	Version = "dev"
	Commit  = "unknown"

	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "print version information")
		helpFlag    = flag.Bool("help", false, "show help")
		stepFlag    = flag.Bool("step", false, "pause between propagation passes")
		args        argList
	)
	flag.Var(&args, "arg", "seed an argument's type as name=typeexpr (repeatable)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("cpainfer %s (%s)\n", bold(Version), Commit)
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	if err := run(flag.Arg(0), args, *stepFlag); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("cpainfer - monotone type inference over a three-address IR"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cpainfer [flags] <file.ir>")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --arg name=typeexpr   seed a declared argument's type (repeatable)")
	fmt.Println("  --step                pause for Enter between propagation passes")
	fmt.Println("  --version             print version information")
	fmt.Println("  --help                show this help message")
	fmt.Println()
	fmt.Println("Type expressions accept scalars (int64, float64, bool, string, none)")
	fmt.Println("and containers: List(x), Set(x), Pair(a,b), Tuple(a,b,...), UniTuple(x,n).")
}

func run(filename string, args argList, step bool) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", filename, err)
	}

	parser := irparse.New(src, filename)
	fn, err := parser.ParseFunction()
	if err != nil {
		return err
	}

	argTypes, err := args.resolve()
	if err != nil {
		return err
	}

	var sink debugsink.Sink = debugsink.NullSink{}
	var liveLine *liner.State
	if step {
		liveLine = liner.NewLiner()
		defer liveLine.Close()
		sink = &steppingSink{inner: &debugsink.ColorSink{Out: os.Stdout}, line: liveLine}
	}

	lat := lattice.NewBasicContext()
	inferer := infer.NewTypeInferer(fn, lat, nil, sink)
	if err := inferer.SeedArgs(argTypes); err != nil {
		return err
	}

	result, err := inferer.Run(nil)
	if err != nil {
		if report, ok := err.(*tierrors.ReportError); ok {
			body, jsonErr := report.ToJSON()
			if jsonErr == nil {
				return fmt.Errorf("%s", body)
			}
		}
		return err
	}

	printResult(fn.Name, result)
	return nil
}

func printResult(funcName string, result *infer.Result) {
	fmt.Printf("%s %s\n", cyan("function"), bold(funcName))

	names := make([]string, 0, len(result.Types))
	for n := range result.Types {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %-20s %s\n", n, result.Types[n])
	}

	fmt.Printf("%s %s\n", green("return"), result.ReturnType)

	if len(result.AssumedImmutables) > 0 {
		immutable := make([]string, 0, len(result.AssumedImmutables))
		for n := range result.AssumedImmutables {
			immutable = append(immutable, n)
		}
		sort.Strings(immutable)
		fmt.Printf("  %s %s\n", cyan("assumed immutable"), strings.Join(immutable, ", "))
	}

	for _, call := range result.Calls {
		sig := call.Signature()
		if sig == nil {
			continue
		}
		fmt.Printf("  %s %s -> %s\n", cyan("call"), call.Desc, sig.ReturnType)
	}
}

// argList accumulates repeated -arg name=typeexpr flags.
type argList []string

func (a *argList) String() string { return strings.Join(*a, ",") }
func (a *argList) Set(v string) error {
	*a = append(*a, v)
	return nil
}

func (a argList) resolve() (map[string]lattice.Type, error) {
	out := make(map[string]lattice.Type, len(a))
	for _, raw := range a {
		name, expr, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("malformed -arg %q, want name=typeexpr", raw)
		}
		t, err := scenario.ParseTypeExpr(expr)
		if err != nil {
			return nil, fmt.Errorf("-arg %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// steppingSink wraps another Sink and pauses for Enter after every
// propagation pass, letting a user walk the fixed-point loop one step at a
// time.
type steppingSink struct {
	inner debugsink.Sink
	line  *liner.State
}

func (s *steppingSink) PropagateStarted(pass int) {
	s.inner.PropagateStarted(pass)
}

func (s *steppingSink) PropagateFinished(pass int, state string, errs []error) {
	s.inner.PropagateFinished(pass, state, errs)
	if _, err := s.line.Prompt(fmt.Sprintf("%s ", cyan("[press Enter to continue]"))); err != nil && err != io.EOF {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
	}
}

func (s *steppingSink) UnifyFinished(types map[string]fmt.Stringer, returnType fmt.Stringer) {
	s.inner.UnifyFinished(types, returnType)
}
