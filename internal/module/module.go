// Package module resolves `importer NAME` statements to a cached,
// cycle-safe module namespace, the way the teacher's internal/units
// registry resolves a `uses` clause to a loaded unit - a search-path
// walk plus a name-keyed cache, just grounded on MeowLang's own
// resolution order and cache-key rule (spec.md §4.3/§5).
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arockenbauer/MeowLang/internal/diagnostics"
	"github.com/arockenbauer/MeowLang/internal/evaluator"
	"github.com/arockenbauer/MeowLang/internal/lexer"
	"github.com/arockenbauer/MeowLang/internal/parser"
	"github.com/arockenbauer/MeowLang/pkg/token"
)

const extension = ".miaou"

// SourceReader abstracts reading a resolved module file's contents,
// the same small capability-boundary pattern spec.md §9 asks for on
// the host side of the evaluator.
type SourceReader interface {
	Read(path string) (string, error)
}

// OSReader reads files directly off disk.
type OSReader struct{}

func (OSReader) Read(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// cacheEntry tracks one module's loading state. namespace is set
// exactly once, at the end of a successful first execution; env stays
// valid for the module's whole execution so a re-entrant (cyclic)
// import can read a non-blocking snapshot of bindings made so far.
type cacheEntry struct {
	done      bool
	namespace *evaluator.ModuleValue
	env       *evaluator.Environment
}

// Loader implements evaluator.ModuleLoader. It is owned by one
// pkg/meow.Engine for the engine's lifetime and shared by every
// Evaluator that engine builds, so its cache is per engine, not
// process-global.
type Loader struct {
	SearchPaths []string
	Reader      SourceReader
	Builtins    evaluator.BuiltinRegistry

	cache map[string]*cacheEntry
}

// New creates a Loader. searchPaths is the ordered MEOWLANG_PATH
// list consulted after the importing script's own directory.
func New(searchPaths []string, reader SourceReader, builtins evaluator.BuiltinRegistry) *Loader {
	if reader == nil {
		reader = OSReader{}
	}
	return &Loader{
		SearchPaths: searchPaths,
		Reader:      reader,
		Builtins:    builtins,
		cache:       map[string]*cacheEntry{},
	}
}

// Load resolves name to a module namespace, searching importerDir
// first and then each configured search path, in order (spec.md §5).
func (l *Loader) Load(name string, importerDir string) (*evaluator.ModuleValue, error) {
	path, err := l.resolve(name, importerDir)
	if err != nil {
		return nil, newModuleError(diagnostics.ErrModuleNotFound, name)
	}

	if l.cache == nil {
		l.cache = map[string]*cacheEntry{}
	}
	if entry, ok := l.cache[path]; ok {
		if entry.done {
			return entry.namespace, nil
		}
		// Re-entrant (cyclic) import: hand back a snapshot of whatever
		// this module's top level has bound so far, not an error and
		// not a block (spec.md §5, single-threaded evaluator).
		return &evaluator.ModuleValue{Name: name, Members: entry.env.Bindings()}, nil
	}

	source, err := l.Reader.Read(path)
	if err != nil {
		return nil, newModuleError(diagnostics.ErrModuleNotFound, name)
	}

	lx := lexer.New(source)
	tokens := lx.Tokenize()
	if errs := lx.Errors(); len(errs) > 0 {
		return nil, &evaluator.RuntimeError{Diagnostic: errs[0]}
	}
	p := parser.New(tokens)
	prog := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, &evaluator.RuntimeError{Diagnostic: errs[0]}
	}

	ev := evaluator.New(l.Builtins, l, filepath.Dir(path))
	root := ev.NewRootEnvironment()
	frame := evaluator.NewEnclosedEnvironment(root)

	entry := &cacheEntry{env: frame}
	l.cache[path] = entry

	if _, err := ev.Eval(prog, frame); err != nil {
		delete(l.cache, path)
		return nil, err
	}

	namespace := &evaluator.ModuleValue{Name: name, Members: frame.Bindings()}
	entry.namespace = namespace
	entry.done = true
	return namespace, nil
}

// resolve finds NAME.miaou under importerDir first, then under each
// search path, returning its canonicalized absolute path - the cache
// key spec.md §5 mandates.
func (l *Loader) resolve(name string, importerDir string) (string, error) {
	candidates := make([]string, 0, len(l.SearchPaths)+1)
	if importerDir != "" {
		candidates = append(candidates, importerDir)
	}
	candidates = append(candidates, l.SearchPaths...)

	filename := name + extension
	for _, dir := range candidates {
		candidate := filepath.Join(dir, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", err
			}
			return filepath.Clean(abs), nil
		}
	}
	return "", fmt.Errorf("module %q not found under %s", name, strings.Join(candidates, ", "))
}

// newModuleError builds a synthetic diagnostic (no source position of
// its own - the failure is at resolution time, before any token
// exists) for a module-loading failure.
func newModuleError(code diagnostics.Code, name string) *evaluator.RuntimeError {
	d := diagnostics.Newf(code, token.Position{}, name)
	d.Synthetic = true
	return &evaluator.RuntimeError{Diagnostic: d}
}
