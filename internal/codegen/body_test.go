package codegen

import (
	"fmt"
	"strings"
	"testing"
)

// bodyLines returns the statements of a function body without braces.
func bodyLines(t *testing.T, fn GeneratedFunction) []string {
	t.Helper()
	lines := strings.Split(strings.TrimSuffix(fn.Body, "\n"), "\n")
	if lines[0] != "{" || lines[len(lines)-1] != "}" {
		t.Fatalf("body of arity %d is not braced:\n%s", fn.Arity, fn.Body)
	}
	return lines[1 : len(lines)-1]
}

func indexOf(lines []string, prefix string) int {
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), prefix) {
			return i
		}
	}
	return -1
}

func TestFunctionSource_ZeroArity(t *testing.T) {
	fn := FunctionSource(0, DefaultNaming(), DefaultSymbols())

	if fn.Header != "" {
		t.Errorf("arity 0 must not be a template, header = %q", fn.Header)
	}
	if fn.Signature != "inline FunEvaluator LuaRef::operator()()\n" {
		t.Errorf("signature = %q", fn.Signature)
	}

	want := `{
  value_type typ = type();
  if(typ != TYPE_FUNCTION && typ != TYPE_THREAD){except::typeMismatchError(state_, "is not function");return FunEvaluator(state_);}
  int argstart = lua_gettop(state_);
  int argnum = lua_gettop(state_) - argstart;
  std::vector<LuaRef> args;
  args.reserve(argnum);
  for (int i = 0; i < argnum; ++i)
    args.push_back(LuaRef(state_, StackTop()));
  std::reverse(args.begin(), args.end());
  return FunEvaluator(state_,*this,args);
}
`
	if fn.Body != want {
		t.Errorf("body mismatch:\ngot:\n%s\nwant:\n%s", fn.Body, want)
	}
	if strings.Contains(fn.Body, "push_dispatch") {
		t.Error("arity 0 must not push anything")
	}
}

func TestFunctionSource_TwoArguments(t *testing.T) {
	fn := FunctionSource(2, DefaultNaming(), DefaultSymbols())

	if fn.Header != "template<typename T1,typename T2>\n" {
		t.Errorf("header = %q", fn.Header)
	}
	if fn.Signature != "inline FunEvaluator LuaRef::operator()(T1 t1,T2 t2)\n" {
		t.Errorf("signature = %q", fn.Signature)
	}

	lines := bodyLines(t, fn)
	first := indexOf(lines, "types::push_dispatch(state_,standard::forward<T1>(t1));")
	second := indexOf(lines, "types::push_dispatch(state_,standard::forward<T2>(t2));")
	if first < 0 || second < 0 {
		t.Fatalf("missing push statements:\n%s", fn.Body)
	}
	if first > second {
		t.Error("t1 must be pushed before t2")
	}
	if !strings.HasSuffix(fn.Body, "  return FunEvaluator(state_,*this,args);\n}\n") {
		t.Errorf("body must end by returning the evaluator:\n%s", fn.Body)
	}
}

func TestFunctionSource_Ordering(t *testing.T) {
	for n := 0; n <= 9; n++ {
		t.Run(fmt.Sprintf("arity_%d", n), func(t *testing.T) {
			fn := FunctionSource(n, DefaultNaming(), DefaultSymbols())
			lines := bodyLines(t, fn)

			guard := indexOf(lines, "if(typ != TYPE_FUNCTION && typ != TYPE_THREAD)")
			checkpoint := indexOf(lines, "int argstart = lua_gettop(state_);")
			count := indexOf(lines, "int argnum = lua_gettop(state_) - argstart;")
			collect := indexOf(lines, "args.push_back(LuaRef(state_, StackTop()));")
			reverse := indexOf(lines, "std::reverse(args.begin(), args.end());")
			ret := indexOf(lines, "return FunEvaluator(state_,*this,args);")

			for name, idx := range map[string]int{
				"guard": guard, "checkpoint": checkpoint, "count": count,
				"collect": collect, "reverse": reverse, "return": ret,
			} {
				if idx < 0 {
					t.Fatalf("missing %s step:\n%s", name, fn.Body)
				}
			}
			if !(guard < checkpoint && checkpoint < count && count < collect && collect < reverse && reverse < ret) {
				t.Errorf("steps out of order:\n%s", fn.Body)
			}

			var pushes []int
			for i, l := range lines {
				if strings.Contains(l, "push_dispatch") {
					pushes = append(pushes, i)
				}
			}
			if len(pushes) != n {
				t.Fatalf("got %d push statements; want %d", len(pushes), n)
			}
			for i, idx := range pushes {
				want := fmt.Sprintf("  types::push_dispatch(state_,standard::forward<T%d>(t%d));", i+1, i+1)
				if lines[idx] != want {
					t.Errorf("push %d = %q; want %q", i, lines[idx], want)
				}
				if idx <= checkpoint || idx >= count {
					t.Errorf("push %d is outside the checkpoint/count window", i)
				}
			}
		})
	}
}

func TestFunctionSource_CountIsDifference(t *testing.T) {
	for n := 0; n <= 9; n++ {
		fn := FunctionSource(n, DefaultNaming(), DefaultSymbols())
		for _, l := range bodyLines(t, fn) {
			if !strings.Contains(l, "int argnum =") {
				continue
			}
			if strings.Count(l, "lua_gettop(") != 1 || !strings.Contains(l, "- argstart") {
				t.Errorf("arity %d: pushed count must subtract the checkpoint: %q", n, l)
			}
		}
	}
}

func TestFunctionSource_CustomSymbols(t *testing.T) {
	sym := DefaultSymbols()
	sym.HandleType = "Ref"
	sym.EvaluatorType = "Call"
	sym.CallableTypes = []string{"TFUNC"}
	sym.MismatchMessage = `not "callable"`

	fn := FunctionSource(1, Naming{TypePrefix: "A", ValuePrefix: "a"}, sym)

	if fn.Signature != "inline Call Ref::operator()(A1 a1)\n" {
		t.Errorf("signature = %q", fn.Signature)
	}
	if !strings.Contains(fn.Body, `  if(typ != TFUNC){except::typeMismatchError(state_, "not \"callable\"");return Call(state_);}`) {
		t.Errorf("guard not rendered from symbols:\n%s", fn.Body)
	}
	if !strings.Contains(fn.Body, "std::vector<Ref> args;") {
		t.Errorf("collection type not rendered from symbols:\n%s", fn.Body)
	}
	if !strings.Contains(fn.Body, "forward<A1>(a1)") {
		t.Errorf("push not rendered from naming:\n%s", fn.Body)
	}
}

func TestCStringLiteral(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"is not function", `"is not function"`},
		{`a"b`, `"a\"b"`},
		{`a\b`, `"a\\b"`},
		{"a\nb\tc", `"a\nb\tc"`},
	}
	for _, tt := range tests {
		if got := cStringLiteral(tt.in); got != tt.want {
			t.Errorf("cStringLiteral(%q) = %s; want %s", tt.in, got, tt.want)
		}
	}
}
