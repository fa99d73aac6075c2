// Package codegen generates the LuaRef call operator overloads.
//
// For every arity from 0 up to the configured maximum it emits one C++
// overload of LuaRef::operator() that pushes its arguments onto the Lua
// stack, collects exactly the values it pushed, restores their order and
// returns a FunEvaluator bound to them.
//
// The package handles:
//   - Parsing and validating luarefgen.yaml configuration
//   - Formatting template and value parameter lists
//   - Emitting per-arity overloads or a single variadic template
//   - Checking a previously generated file for staleness
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/luarefgen/internal/config"
)

// Config represents the luarefgen.yaml configuration.
type Config struct {
	// MaxArity is the highest argument count an overload is generated for.
	// Defaults to 9.
	MaxArity int `yaml:"max_arity" validate:"gte=0,lte=64"`

	// Style selects per-arity overloads ("overloads") or a single C++11
	// parameter pack ("variadic"). Defaults to "overloads".
	Style string `yaml:"style" validate:"oneof=overloads variadic"`

	// Provenance names the generator in the first line of the output.
	// It must fit on one line to stay a comment.
	Provenance string `yaml:"provenance" validate:"required,singleline"`

	Naming  Naming  `yaml:"naming"`
	Symbols Symbols `yaml:"symbols"`
}

// Naming holds the prefixes parameter identifiers are derived from.
// Both must start a C identifier, and no type name may equal a value name.
type Naming struct {
	TypePrefix  string `yaml:"type_prefix" validate:"required,cident"`
	ValuePrefix string `yaml:"value_prefix" validate:"required,cident"`
}

// Symbols names the binding-layer collaborators the generated code calls.
// None of them are implemented here; they only appear in the emitted text.
type Symbols struct {
	HandleType      string   `yaml:"handle_type" validate:"required"`
	EvaluatorType   string   `yaml:"evaluator_type" validate:"required"`
	State           string   `yaml:"state" validate:"required"`
	TypeQuery       string   `yaml:"type_query" validate:"required"`
	TypeVarType     string   `yaml:"type_var_type" validate:"required"`
	CallableTypes   []string `yaml:"callable_types" validate:"min=1,dive,required"`
	MismatchFunc    string   `yaml:"mismatch_func" validate:"required"`
	MismatchMessage string   `yaml:"mismatch_message" validate:"required"`
	StackTopFunc    string   `yaml:"stack_top_func" validate:"required"`
	PushFunc        string   `yaml:"push_func" validate:"required"`
	ForwardFunc     string   `yaml:"forward_func" validate:"required"`
	StackTopTag     string   `yaml:"stack_top_tag" validate:"required"`
}

// DefaultConfig returns the configuration that reproduces the kaguya
// luaref_fun.inl header.
func DefaultConfig() Config {
	return Config{
		MaxArity:   config.DefaultMaxArity,
		Style:      config.StyleOverloads,
		Provenance: config.ToolName,
		Naming:     DefaultNaming(),
		Symbols:    DefaultSymbols(),
	}
}

// DefaultNaming returns the T1.../t1... naming.
func DefaultNaming() Naming {
	return Naming{
		TypePrefix:  config.TypeParamPrefix,
		ValuePrefix: config.ValueParamPrefix,
	}
}

// DefaultSymbols returns the kaguya collaborator names.
func DefaultSymbols() Symbols {
	return Symbols{
		HandleType:      config.HandleTypeName,
		EvaluatorType:   config.EvaluatorTypeName,
		State:           config.StateFieldName,
		TypeQuery:       config.TypeQueryExpr,
		TypeVarType:     config.TypeVarTypeName,
		CallableTypes:   []string{config.FunctionTypeTag, config.ThreadTypeTag},
		MismatchFunc:    config.MismatchFuncName,
		MismatchMessage: config.MismatchMessage,
		StackTopFunc:    config.StackTopFuncName,
		PushFunc:        config.PushFuncName,
		ForwardFunc:     config.ForwardFuncName,
		StackTopTag:     config.StackTopTagExpr,
	}
}

// LoadConfig reads and parses a luarefgen.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses luarefgen.yaml content from bytes.
// Fields missing from the document keep their default values.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

var validate = newValidator()

var cIdentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// newValidator reports fields by their yaml names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("cident", func(fl validator.FieldLevel) bool {
		return cIdentRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\r\n")
	})
	v.RegisterStructValidation(validateNaming, Naming{})
	return v
}

// validateNaming rejects prefixes whose indexed names can coincide,
// e.g. "t"/"t" (t1 t1) or "T"/"T1" (T11 at arity 11).
func validateNaming(sl validator.StructLevel) {
	n := sl.Current().Interface().(Naming)
	if n.TypePrefix == "" || n.ValuePrefix == "" {
		return
	}
	if prefixesOverlap(n.TypePrefix, n.ValuePrefix) || prefixesOverlap(n.ValuePrefix, n.TypePrefix) {
		sl.ReportError(n.ValuePrefix, "value_prefix", "ValuePrefix", "distinctprefix", n.TypePrefix)
	}
}

// prefixesOverlap reports whether a followed by some index can equal b
// followed by another, i.e. b extends a by digits only.
func prefixesOverlap(a, b string) bool {
	rest, ok := strings.CutPrefix(b, a)
	if !ok {
		return false
	}
	return strings.Trim(rest, "0123456789") == ""
}

// Validate checks the configuration for semantic errors.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// describeFieldError turns "Config.symbols.push_func" into "symbols.push_func is required".
func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "cident":
		return fmt.Sprintf("%s must be a C identifier, got %q", field, fe.Value())
	case "singleline":
		return field + " must not contain line breaks"
	case "distinctprefix":
		return fmt.Sprintf("%s %q yields names that clash with type prefix %q", field, fe.Value(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}
