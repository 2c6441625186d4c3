package evaluator

import (
	"github.com/arockenbauer/MeowLang/internal/ast"
)

// Evaluator is the tree-walking core described in spec.md §4.3. It
// holds no I/O of its own - output, input, randomness, and the clock
// all arrive through the BuiltinRegistry, the same capability-boundary
// pattern the teacher's Interpreter uses for its adapter_* files.
type Evaluator struct {
	Builtins BuiltinRegistry
	Modules  ModuleLoader
	BaseDir  string

	// Trace, when non-nil, receives a line per executed statement. It
	// defaults to a no-op; pkg/meow wires it to stderr when the host
	// asks for tracing.
	Trace func(format string, args ...any)
}

// New creates an Evaluator. modules may be nil for programs that never
// use importer; calling it without one then raises E901.
func New(builtins BuiltinRegistry, modules ModuleLoader, baseDir string) *Evaluator {
	return &Evaluator{Builtins: builtins, Modules: modules, BaseDir: baseDir}
}

// NewRootEnvironment builds a fresh root frame seeded with every name
// the registry provides, per spec.md §4.3 ("the host registry
// populates the root environment before program execution").
func (e *Evaluator) NewRootEnvironment() *Environment {
	env := NewEnvironment()
	if e.Builtins != nil {
		for name, fn := range e.Builtins.Items() {
			env.Define(name, fn)
		}
	}
	return env
}

// Eval executes every top-level statement of prog in env in order,
// returning the value of the last statement (Nothing for an empty
// program, per spec.md §8's boundary case). A break/continue/retour
// that escapes every enclosing loop or function is converted to its
// catalog error (E401/E402/E602) rather than propagating as a raw
// control signal.
func (e *Evaluator) Eval(prog *ast.Program, env *Environment) (Value, error) {
	result, err := e.execBlock(prog.Statements, env)
	if err != nil {
		if converted, ok := asControlSignal(err); ok {
			return nil, converted
		}
		return nil, err
	}
	return result, nil
}

// execBlock executes a statement sequence in env in order, returning
// the value of the last statement executed.
func (e *Evaluator) execBlock(stmts []ast.Statement, env *Environment) (Value, error) {
	var result Value = Nothing
	for _, stmt := range stmts {
		v, err := e.execStatement(stmt, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (e *Evaluator) trace(format string, args ...any) {
	if e.Trace != nil {
		e.Trace(format, args...)
	}
}
