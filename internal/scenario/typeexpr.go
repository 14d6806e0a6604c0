package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
)

// ParseTypeExpr parses the small type-expression grammar used in scenario
// fixtures: scalar names, "none", "undefined", and the container forms
// List(x), Set(x), Tuple(a, b, ...), UniTuple(x, n), Pair(a, b).
func ParseTypeExpr(s string) (lattice.Type, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "bool":
		return lattice.Bool, nil
	case "int64":
		return lattice.Int64, nil
	case "float64":
		return lattice.Float64, nil
	case "string", "str":
		return lattice.Str, nil
	case "bytes":
		return lattice.Bytes, nil
	case "none":
		return lattice.None, nil
	case "undefined":
		return lattice.UndefinedType, nil
	}

	name, args, ok := splitCall(s)
	if !ok {
		return nil, fmt.Errorf("scenario: cannot parse type expression %q", s)
	}

	switch name {
	case "List":
		elem, err := parseOne(args)
		if err != nil {
			return nil, err
		}
		return &lattice.List{Elem: elem}, nil

	case "Set":
		elem, err := parseOne(args)
		if err != nil {
			return nil, err
		}
		return &lattice.Set{Elem: elem}, nil

	case "Pair":
		parts, err := splitArgs(args, 2)
		if err != nil {
			return nil, err
		}
		first, err := ParseTypeExpr(parts[0])
		if err != nil {
			return nil, err
		}
		second, err := ParseTypeExpr(parts[1])
		if err != nil {
			return nil, err
		}
		return &lattice.Pair{First: first, Second: second}, nil

	case "UniTuple":
		parts, err := splitArgs(args, 2)
		if err != nil {
			return nil, err
		}
		dtype, err := ParseTypeExpr(parts[0])
		if err != nil {
			return nil, err
		}
		count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("scenario: UniTuple count: %w", err)
		}
		return &lattice.UniTuple{Dtype: dtype, Count: count}, nil

	case "Tuple":
		parts := splitTopLevelCommas(args)
		elems := make([]lattice.Type, len(parts))
		for i, p := range parts {
			t, err := ParseTypeExpr(p)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return &lattice.Tuple{Elements: elems}, nil

	default:
		return nil, fmt.Errorf("scenario: unknown type constructor %q", name)
	}
}

func parseOne(args string) (lattice.Type, error) {
	return ParseTypeExpr(args)
}

func splitArgs(args string, n int) ([]string, error) {
	parts := splitTopLevelCommas(args)
	if len(parts) != n {
		return nil, fmt.Errorf("scenario: expected %d arguments, got %d in %q", n, len(parts), args)
	}
	return parts, nil
}

// splitCall splits "Name(args)" into its name and unparsed argument text.
func splitCall(s string) (name, args string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	return s[:open], s[open+1 : len(s)-1], true
}

// splitTopLevelCommas splits on commas that are not nested inside another
// type constructor's parentheses.
func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, ch := range s {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if trimmed := strings.TrimSpace(s[start:]); trimmed != "" {
		parts = append(parts, trimmed)
	}
	return parts
}
