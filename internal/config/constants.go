package config

// ToolName identifies the generator in the provenance line of generated files.
const ToolName = "luarefgen"

// Version is the generator version.
// Can be set at build time using: -ldflags "-X github.com/funvibe/luarefgen/internal/config.Version=..."
var Version = "dev"

// DefaultMaxArity is the highest arity an overload is generated for.
const DefaultMaxArity = 9

// Emission styles
const (
	StyleOverloads = "overloads"
	StyleVariadic  = "variadic"
)

// Naming prefixes for generic and value parameters
const (
	TypeParamPrefix  = "T"
	ValueParamPrefix = "t"
)

// Names of the binding-layer collaborators referenced by generated code.
const (
	HandleTypeName    = "LuaRef"
	EvaluatorTypeName = "FunEvaluator"
	StateFieldName    = "state_"
	TypeQueryExpr     = "type()"
	TypeVarTypeName   = "value_type"
	FunctionTypeTag   = "TYPE_FUNCTION"
	ThreadTypeTag     = "TYPE_THREAD"
	MismatchFuncName  = "except::typeMismatchError"
	MismatchMessage   = "is not function"
	StackTopFuncName  = "lua_gettop"
	PushFuncName      = "types::push_dispatch"
	ForwardFuncName   = "standard::forward"
	StackTopTagExpr   = "StackTop()"
)
