// Package meow is MeowLang's single front door: the library API that
// cmd/meow (and any embedder) drives to lex, parse, and evaluate
// MeowLang source, mirroring the teacher's own public package shape -
// a functional-options constructor producing an Engine with
// Eval/Run methods (see pkg/dwscript's own test suite, the only
// surviving trace of its engine.go in this retrieval pack).
package meow

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arockenbauer/MeowLang/internal/ast"
	"github.com/arockenbauer/MeowLang/internal/builtins"
	"github.com/arockenbauer/MeowLang/internal/diagnostics"
	"github.com/arockenbauer/MeowLang/internal/evaluator"
	"github.com/arockenbauer/MeowLang/internal/lexer"
	"github.com/arockenbauer/MeowLang/internal/module"
	"github.com/arockenbauer/MeowLang/internal/parser"
)

// Engine owns one module cache and the host capabilities wired into
// its builtin registry; each Eval/Run call builds a fresh evaluator
// over them. Create one with New and reuse it across Eval/Run calls so
// the module cache, which lives as long as the Engine, does real work
// across multiple `importer` statements.
type Engine struct {
	output      io.Writer
	inputReader io.Reader
	input       builtins.Input
	clock       builtins.Clock
	random      builtins.Randomness
	searchPaths []string
	trace       bool

	registry *builtins.Registry
	loader   *module.Loader
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithOutput directs `ecrire` output to w instead of os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.output = w }
}

// WithInput makes `demander texte`/`demander nombre` read their
// answers from r instead of os.Stdin; the prompt text itself goes to
// the engine's output.
func WithInput(r io.Reader) Option {
	return func(e *Engine) { e.inputReader = r }
}

// WithClock overrides `attendre`'s sleep implementation; useful for
// tests that don't want to wait on a real clock.
func WithClock(c builtins.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRandom overrides `aleatoire`'s randomness source.
func WithRandom(r builtins.Randomness) Option {
	return func(e *Engine) { e.random = r }
}

// WithSearchPaths sets the module search path list consulted after an
// importing script's own directory, overriding MEOWLANG_PATH.
func WithSearchPaths(paths []string) Option {
	return func(e *Engine) { e.searchPaths = paths }
}

// WithTrace turns on a line of diagnostic output per executed
// statement, written to stderr.
func WithTrace(on bool) Option {
	return func(e *Engine) { e.trace = on }
}

// New builds a ready-to-use Engine. Host capabilities default to the
// real world: os.Stdout, os.Stdin, time.Sleep, and math/rand.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		output: os.Stdout,
		clock:  realClock{},
		random: mathRandom{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.inputReader == nil {
		e.inputReader = os.Stdin
	}
	e.input = &stdinPrompter{reader: bufio.NewReader(e.inputReader), out: e.output}
	if e.searchPaths == nil {
		e.searchPaths = splitSearchPath(os.Getenv("MEOWLANG_PATH"))
	}

	e.registry = builtins.New(outputAdapter{e.output}, e.input, e.clock, e.random)
	e.loader = module.New(e.searchPaths, module.OSReader{}, e.registry)
	return e, nil
}

// Result is the outcome of one top-level evaluation.
type Result struct {
	Value   evaluator.Value
	Success bool
}

// RunError wraps a fatal diagnostic surfaced from lexing, parsing, or
// evaluating a program - the single error type cmd/meow needs to
// render and turn into a process exit code.
type RunError struct {
	Diagnostics []*diagnostics.Diagnostic
	Source      string
	File        string
}

func (e *RunError) Error() string {
	if len(e.Diagnostics) == 0 {
		return "meow: unknown error"
	}
	return e.Diagnostics[0].Technical()
}

// Format renders every diagnostic with source context, the way
// internal/diagnostics.FormatAll does for a batch of errors.
func (e *RunError) Format() string {
	return diagnostics.FormatAll(e.Diagnostics, e.Source)
}

// Run lexes, parses, and evaluates the MeowLang program at path.
func (e *Engine) Run(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("meow: reading %s: %w", path, err)
	}
	return e.eval(string(data), path, filepath.Dir(path))
}

// Eval runs source directly, with the current working directory as
// the base for any `importer` statements it contains.
func (e *Engine) Eval(source string) (*Result, error) {
	cwd, _ := os.Getwd()
	return e.eval(source, "", cwd)
}

func (e *Engine) eval(source, file, baseDir string) (*Result, error) {
	lx := lexer.New(source)
	tokens := lx.Tokenize()
	if errs := lx.Errors(); len(errs) > 0 {
		return nil, &RunError{Diagnostics: withFile(errs, file), Source: source, File: file}
	}

	p := parser.New(tokens)
	prog := e.parse(p)
	if errs := p.Errors(); len(errs) > 0 {
		return nil, &RunError{Diagnostics: withFile(errs, file), Source: source, File: file}
	}

	ev := evaluator.New(e.registry, e.loader, baseDir)
	if e.trace {
		ev.Trace = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}
	env := ev.NewRootEnvironment()

	val, err := ev.Eval(prog, env)
	if err != nil {
		rerr, ok := err.(*evaluator.RuntimeError)
		if !ok {
			return nil, err
		}
		rerr.Diagnostic.File = file
		return nil, &RunError{Diagnostics: []*diagnostics.Diagnostic{rerr.Diagnostic}, Source: source, File: file}
	}
	return &Result{Value: val, Success: true}, nil
}

// parse exists so a later phase (e.g. a --dump-ast CLI flag) has a
// single named seam to hook into without touching eval's error path.
func (e *Engine) parse(p *parser.Parser) *ast.Program {
	return p.Parse()
}

// SearchPaths exposes the engine's resolved search path list, mainly
// for cmd/meow to print under a --verbose flag.
func (e *Engine) SearchPaths() []string {
	return e.searchPaths
}

func withFile(diags []*diagnostics.Diagnostic, file string) []*diagnostics.Diagnostic {
	for _, d := range diags {
		d.File = file
	}
	return diags
}

func splitSearchPath(raw string) []string {
	if raw == "" {
		return nil
	}
	sep := string(os.PathListSeparator)
	parts := strings.Split(raw, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// outputAdapter satisfies builtins.Output over any io.Writer.
type outputAdapter struct{ w io.Writer }

func (o outputAdapter) Write(s string) {
	if o.w != nil {
		fmt.Fprint(o.w, s)
	}
}

// stdinPrompter satisfies builtins.Input by echoing the prompt text
// to the engine's configured output, then reading one line.
type stdinPrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func (s *stdinPrompter) Prompt(promptText string) (string, error) {
	if s.out != nil && promptText != "" {
		fmt.Fprint(s.out, promptText)
	}
	line, err := s.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// realClock sleeps for real.
type realClock struct{}

func (realClock) Sleep(seconds float64) {
	time.Sleep(time.Duration(seconds * float64(time.Second)))
}

// mathRandom implements builtins.Randomness with math/rand, which
// needs no explicit seeding since Go 1.20 (spec.md has no determinism
// requirement for `aleatoire`).
type mathRandom struct{}

func (mathRandom) UniformInt(min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + rand.Int63n(max-min+1)
}
