package codegen

import (
	"fmt"
	"strings"
)

// GeneratedFunction is the source text of one call operator.
type GeneratedFunction struct {
	// Arity is the number of arguments; -1 for the variadic template.
	Arity int

	// Header is the template declaration line, empty for a plain function.
	Header string

	// Signature is the declarator line.
	Signature string

	// Body is the braced function body, ending with "}\n".
	Body string
}

// String returns the full function source.
func (f GeneratedFunction) String() string {
	return f.Header + f.Signature + f.Body
}

// FunctionSource emits the overload of arity n.
func FunctionSource(n int, naming Naming, sym Symbols) GeneratedFunction {
	types := NamingScheme{Prefix: naming.TypePrefix}
	values := NamingScheme{Prefix: naming.ValuePrefix}

	var buf strings.Builder
	buf.WriteString("{\n")
	writeGuard(&buf, sym)
	writeCheckpoint(&buf, sym)
	for i := 1; i <= n; i++ {
		buf.WriteString(fmt.Sprintf("  %s(%s,%s<%s>(%s));\n",
			sym.PushFunc, sym.State, sym.ForwardFunc, types.Name(i), values.Name(i)))
	}
	writeCollect(&buf, sym)
	buf.WriteString("}\n")

	return GeneratedFunction{
		Arity:     n,
		Header:    GenericHeader(n, naming),
		Signature: signature(sym, TypedParamList(n, types, values)),
		Body:      buf.String(),
	}
}

func signature(sym Symbols, params string) string {
	return fmt.Sprintf("inline %s %s::operator()(%s)\n", sym.EvaluatorType, sym.HandleType, params)
}

// writeGuard emits the callable type check. A mismatch is reported through
// the runtime and answered with an empty evaluator before anything is pushed.
func writeGuard(buf *strings.Builder, sym Symbols) {
	conds := make([]string, len(sym.CallableTypes))
	for i, tag := range sym.CallableTypes {
		conds[i] = typeVarName + " != " + tag
	}
	buf.WriteString(fmt.Sprintf("  %s %s = %s;\n", sym.TypeVarType, typeVarName, sym.TypeQuery))
	buf.WriteString(fmt.Sprintf("  if(%s){%s(%s, %s);return %s(%s);}\n",
		strings.Join(conds, " && "),
		sym.MismatchFunc, sym.State, cStringLiteral(sym.MismatchMessage),
		sym.EvaluatorType, sym.State))
}

func writeCheckpoint(buf *strings.Builder, sym Symbols) {
	buf.WriteString(fmt.Sprintf("  int argstart = %s(%s);\n", sym.StackTopFunc, sym.State))
}

// Locals declared by every generated body. Parameter names must not clash with them.
const (
	collectVarName = "args"
	typeVarName    = "typ"
)

// writeCollect emits the pushed-count computation, the pops and the
// reversal. The stack may hold values of an enclosing call, so only the
// difference to the checkpoint is popped.
func writeCollect(buf *strings.Builder, sym Symbols) {
	v := collectVarName
	buf.WriteString(fmt.Sprintf("  int argnum = %s(%s) - argstart;\n", sym.StackTopFunc, sym.State))
	buf.WriteString(fmt.Sprintf("  std::vector<%s> %s;\n", sym.HandleType, v))
	buf.WriteString(fmt.Sprintf("  %s.reserve(argnum);\n", v))
	buf.WriteString("  for (int i = 0; i < argnum; ++i)\n")
	buf.WriteString(fmt.Sprintf("    %s.push_back(%s(%s, %s));\n", v, sym.HandleType, sym.State, sym.StackTopTag))
	buf.WriteString(fmt.Sprintf("  std::reverse(%s.begin(), %s.end());\n", v, v))
	buf.WriteString(fmt.Sprintf("  return %s(%s,*this,%s);\n", sym.EvaluatorType, sym.State, v))
}

// cStringLiteral quotes s as a C string literal.
func cStringLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
