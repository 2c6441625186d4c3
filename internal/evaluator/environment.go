package evaluator

// Environment is a chain of lexical frames. Unlike the teacher's
// case-insensitive ident.Map-backed store, MeowLang identifiers are
// case-sensitive (spec.md §3), so a plain Go map suffices here.
type Environment struct {
	store map[string]Value
	outer *Environment
}

// NewEnvironment creates a root environment with no parent.
func NewEnvironment() *Environment {
	return &Environment{store: map[string]Value{}}
}

// NewEnclosedEnvironment creates a child frame of outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: map[string]Value{}, outer: outer}
}

// Get looks up name, searching outward through parent frames.
func (e *Environment) Get(name string) (Value, bool) {
	if v, ok := e.store[name]; ok {
		return v, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Define creates or overwrites name in this frame only.
func (e *Environment) Define(name string, v Value) {
	e.store[name] = v
}

// Assign updates name in the nearest enclosing frame that already
// binds it, or - per spec.md §3's divergence from the teacher's
// error-on-undefined Set - creates it in the current frame when no
// frame in the chain binds it yet.
func (e *Environment) Assign(name string, v Value) {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.store[name]; ok {
			env.store[name] = v
			return
		}
	}
	e.store[name] = v
}

// Has reports whether name is bound anywhere in the chain.
func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Bindings returns a snapshot of the names defined directly in this
// frame, not its parents. The module loader runs a module's top level
// in a frame enclosed by the builtins frame, so this snapshot is
// exactly the module's exported namespace (spec.md §4.3).
func (e *Environment) Bindings() map[string]Value {
	out := make(map[string]Value, len(e.store))
	for k, v := range e.store {
		out[k] = v
	}
	return out
}
