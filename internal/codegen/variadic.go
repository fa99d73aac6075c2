package codegen

import (
	"fmt"
	"strings"
	"text/template"
)

// Names of the C++11 parameter pack in the variadic operator.
// The value pack shares the outermost block with the collected arguments,
// so it must not be named like collectVarName.
const (
	packTypeName  = "Args"
	packValueName = "fargs"
)

// VariadicSource emits a single C++11 call operator taking a parameter pack.
// The pushes are expanded inside a braced initializer list, whose elements
// are evaluated left to right, so arguments are still pushed in call order.
func VariadicSource(sym Symbols) (GeneratedFunction, error) {
	var guard, collect strings.Builder
	writeGuard(&guard, sym)
	writeCheckpoint(&guard, sym)
	writeCollect(&collect, sym)

	tmpl, err := template.New("variadic").Parse(variadicBodyTemplate)
	if err != nil {
		return GeneratedFunction{}, fmt.Errorf("parsing variadic template: %w", err)
	}

	var buf strings.Builder
	err = tmpl.Execute(&buf, map[string]string{
		"Prologue":  guard.String(),
		"Epilogue":  collect.String(),
		"PushFunc":  sym.PushFunc,
		"State":     sym.State,
		"Forward":   sym.ForwardFunc,
		"PackType":  packTypeName,
		"PackValue": packValueName,
	})
	if err != nil {
		return GeneratedFunction{}, fmt.Errorf("rendering variadic template: %w", err)
	}

	return GeneratedFunction{
		Arity:     -1,
		Header:    "template<typename... " + packTypeName + ">\n",
		Signature: signature(sym, packTypeName+"... "+packValueName),
		Body:      buf.String(),
	}, nil
}

const variadicBodyTemplate = `{
{{.Prologue}}  int pushed[] = {0, ({{.PushFunc}}({{.State}},{{.Forward}}<{{.PackType}}>({{.PackValue}})), 0)...};
  (void)pushed;
{{.Epilogue}}}
`
