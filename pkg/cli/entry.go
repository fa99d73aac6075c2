// Package cli implements the luarefgen command line.
//
// With no arguments the command writes the generated call operators to
// stdout using the built-in defaults; flags and a luarefgen.yaml file only
// change the output when given explicitly.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/funvibe/luarefgen/internal/codegen"
	"github.com/funvibe/luarefgen/internal/config"
	"github.com/funvibe/luarefgen/internal/term"
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
)

type options struct {
	configPath string
	maxArity   int
	style      string
	output     string
	check      string
	verbose    bool
}

// Execute runs the command with the process arguments and returns the exit code.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run runs the command with args, writing generated text to stdout and
// diagnostics to stderr. It returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		prefix := term.Paint("error:", term.Red, term.ColorEnabled(stderr))
		fmt.Fprintf(stderr, "%s %s\n", prefix, err)
		return ExitError
	}
	return ExitOK
}

// NewRootCommand builds the luarefgen command tree.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   config.ToolName,
		Short: "Generate LuaRef call operator overloads",
		Long: `Generate the LuaRef::operator() overloads of the kaguya Lua binding.

One overload is written per arity from 0 to the maximum (9 by default).
Each overload checks that the referenced value is callable, pushes its
arguments, collects exactly the pushed values in call order and returns a
FunEvaluator bound to them.

Without flags the output goes to stdout and no configuration is read.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a luarefgen.yaml generation config")
	flags.IntVar(&opts.maxArity, "max-arity", config.DefaultMaxArity, "highest arity to generate an overload for")
	flags.StringVar(&opts.style, "style", config.StyleOverloads, "emission style: overloads or variadic")
	flags.StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	flags.StringVar(&opts.check, "check", "", "compare generated text with an existing file and fail if it differs")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging on stderr")
	root.MarkFlagsMutuallyExclusive("output", "check")

	root.AddCommand(newVersionCommand(stdout))
	return root
}

func newVersionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the generator version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "%s %s\n", config.ToolName, config.Version)
		},
	}
}

func runGenerate(cmd *cobra.Command, opts *options, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, opts.verbose)

	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	if opts.configPath != "" {
		logger.Debug("loaded config", "path", opts.configPath)
	}

	gen := codegen.New(*cfg, codegen.WithLogger(logger))

	switch {
	case opts.check != "":
		if err := gen.Check(opts.check); err != nil {
			if errors.Is(err, codegen.ErrStale) {
				return fmt.Errorf("%w (regenerate with %s -o %s)", err, config.ToolName, opts.check)
			}
			return err
		}
		return nil
	case opts.output != "":
		return writeFile(gen, opts.output, logger)
	default:
		return gen.Generate(stdout)
	}
}

// resolveConfig starts from the defaults or the config file and applies
// flags the user set explicitly.
func resolveConfig(cmd *cobra.Command, opts *options) (*codegen.Config, error) {
	var cfg *codegen.Config
	if opts.configPath != "" {
		loaded, err := codegen.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		def := codegen.DefaultConfig()
		cfg = &def
	}

	flags := cmd.Flags()
	if flags.Changed("max-arity") {
		cfg.MaxArity = opts.maxArity
	}
	if flags.Changed("style") {
		cfg.Style = opts.style
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// writeFile renders into memory first so a failed generation never
// truncates an existing file.
func writeFile(gen *codegen.Generator, path string, logger *slog.Logger) error {
	data, err := gen.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Info("wrote generated file", "path", path, "bytes", len(data))
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
