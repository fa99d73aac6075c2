package codegen

import (
	"strconv"
	"strings"
)

// NamingScheme derives parameter identifiers from a prefix and a 1-based index.
type NamingScheme struct {
	Prefix string
}

// Name returns the identifier for the i-th parameter (i starts at 1).
func (s NamingScheme) Name(i int) string {
	return s.Prefix + strconv.Itoa(i)
}

// ParamList returns n identifiers of the scheme joined by commas, index 1 first.
// Returns "" for n <= 0.
func ParamList(n int, scheme NamingScheme) string {
	if n <= 0 {
		return ""
	}
	names := make([]string, n)
	for i := range n {
		names[i] = scheme.Name(i + 1)
	}
	return strings.Join(names, ",")
}

// TypedParamList pairs the i-th type name with the i-th value name
// ("T1 t1,T2 t2,..."). Returns "" for n <= 0.
func TypedParamList(n int, types, values NamingScheme) string {
	if n <= 0 {
		return ""
	}
	params := make([]string, n)
	for i := range n {
		params[i] = types.Name(i+1) + " " + values.Name(i+1)
	}
	return strings.Join(params, ",")
}
