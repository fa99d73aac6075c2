package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/funvibe/luarefgen/internal/config"
)

// ErrStale is returned by Check when a file differs from the generated text.
var ErrStale = errors.New("generated file is out of date")

// Generator writes the LuaRef call operators for a configuration.
// It holds no mutable state; Generate may be called any number of times
// and always produces the same bytes.
type Generator struct {
	cfg    Config
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a generator for cfg.
func New(cfg Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Provenance returns the comment line that opens every generated file.
func (g *Generator) Provenance() string {
	return "//generated header by " + g.cfg.Provenance + "\n"
}

// Functions returns the call operators in output order: one per arity from
// 0 to MaxArity, or the single variadic template.
func (g *Generator) Functions() ([]GeneratedFunction, error) {
	if g.cfg.Style == config.StyleVariadic {
		fn, err := VariadicSource(g.cfg.Symbols)
		if err != nil {
			return nil, err
		}
		return []GeneratedFunction{fn}, nil
	}

	fns := make([]GeneratedFunction, 0, g.cfg.MaxArity+1)
	for n := 0; n <= g.cfg.MaxArity; n++ {
		fns = append(fns, FunctionSource(n, g.cfg.Naming, g.cfg.Symbols))
	}
	return fns, nil
}

// Generate writes the provenance line followed by every call operator to w.
// A nil writer receives nothing. Write errors are returned as they are.
func (g *Generator) Generate(w io.Writer) error {
	if w == nil {
		return nil
	}

	fns, err := g.Functions()
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, g.Provenance()); err != nil {
		return err
	}
	for _, fn := range fns {
		if _, err := io.WriteString(w, fn.String()); err != nil {
			return err
		}
		g.logger.Debug("emitted call operator", "arity", fn.Arity)
	}

	g.logger.Debug("generation complete",
		"style", g.cfg.Style,
		"functions", len(fns),
		"max_arity", g.cfg.MaxArity)
	return nil
}

// Bytes returns the generated text.
func (g *Generator) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Generate(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Check compares the file at path with the generated text.
// Returns an error wrapping ErrStale if they differ.
func (g *Generator) Check(path string) error {
	existing, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	want, err := g.Bytes()
	if err != nil {
		return err
	}
	if !bytes.Equal(existing, want) {
		return fmt.Errorf("%w: %s", ErrStale, path)
	}
	g.logger.Debug("generated file is up to date", "path", path)
	return nil
}
