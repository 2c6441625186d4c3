package evaluator

import (
	"github.com/arockenbauer/MeowLang/internal/ast"
	"github.com/arockenbauer/MeowLang/internal/diagnostics"
)

// execStatement pattern-matches on the concrete statement variant,
// mirroring evalExpr's tagged-variant dispatch (spec.md §9).
func (e *Evaluator) execStatement(stmt ast.Statement, env *Environment) (Value, error) {
	e.trace("%s: %s", stmt.Pos(), stmt.String())

	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return e.evalExpr(s.Expr, env)
	case *ast.Assignment:
		v, err := e.evalExpr(s.Value, env)
		if err != nil {
			return nil, err
		}
		env.Assign(s.Name, v)
		return Nothing, nil
	case *ast.IndexAssignment:
		return e.execIndexAssignment(s, env)
	case *ast.If:
		return e.execIf(s, env)
	case *ast.While:
		return e.execWhile(s, env)
	case *ast.Repeat:
		return e.execRepeat(s, env)
	case *ast.ForEach:
		return e.execForEach(s, env)
	case *ast.FunctionDef:
		fn := &FunctionValue{Name: s.Name, Params: s.Params, Body: s.Body, Closure: env}
		env.Define(s.Name, fn)
		return Nothing, nil
	case *ast.Return:
		var v Value = Nothing
		if s.Value != nil {
			var err error
			v, err = e.evalExpr(s.Value, env)
			if err != nil {
				return nil, err
			}
		}
		return nil, returnSignal{Value: v, Pos: s.Pos()}
	case *ast.Break:
		return nil, breakSignal{Pos: s.Pos()}
	case *ast.Continue:
		return nil, continueSignal{Pos: s.Pos()}
	case *ast.TryExcept:
		return e.execTryExcept(s, env)
	case *ast.Import:
		return e.execImport(s, env)
	default:
		return nil, newError(diagnostics.ErrInternal, stmt.Pos(), "unknown statement node")
	}
}

func (e *Evaluator) execIndexAssignment(s *ast.IndexAssignment, env *Environment) (Value, error) {
	target, err := e.evalExpr(s.Target, env)
	if err != nil {
		return nil, err
	}
	index, err := e.evalExpr(s.Index, env)
	if err != nil {
		return nil, err
	}
	value, err := e.evalExpr(s.Value, env)
	if err != nil {
		return nil, err
	}
	if err := indexSet(target, index, value, s.Pos()); err != nil {
		return nil, err
	}
	return Nothing, nil
}

// execIf evaluates conditions top-to-bottom in the enclosing scope -
// `si`/`sinon si`/`sinon` bodies do not get their own frame, since
// spec.md only calls out fresh child frames for loop bodies and calls.
func (e *Evaluator) execIf(s *ast.If, env *Environment) (Value, error) {
	cond, err := e.evalExpr(s.Cond, env)
	if err != nil {
		return nil, err
	}
	if Truthy(cond) {
		return e.execBlock(s.Then, env)
	}
	for _, elif := range s.Elifs {
		c, err := e.evalExpr(elif.Cond, env)
		if err != nil {
			return nil, err
		}
		if Truthy(c) {
			return e.execBlock(elif.Body, env)
		}
	}
	if s.Else != nil {
		return e.execBlock(s.Else, env)
	}
	return Nothing, nil
}

func (e *Evaluator) execWhile(s *ast.While, env *Environment) (Value, error) {
	for {
		cond, err := e.evalExpr(s.Cond, env)
		if err != nil {
			return nil, err
		}
		if !Truthy(cond) {
			break
		}
		_, err = e.execBlock(s.Body, env)
		if err != nil {
			if _, ok := err.(breakSignal); ok {
				break
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return nil, err
		}
	}
	return Nothing, nil
}

// execRepeat evaluates the count once, coerces it to a non-negative
// integer (E503 otherwise), and runs the body that many times with
// `compteur` bound to the 0-based iteration index in a fresh frame
// per iteration (spec.md §4.3, §9 resolves the open question: starts
// at 0, per the worked example in spec.md §8).
func (e *Evaluator) execRepeat(s *ast.Repeat, env *Environment) (Value, error) {
	countVal, err := e.evalExpr(s.Count, env)
	if err != nil {
		return nil, err
	}
	n, ok := countVal.(*NumberValue)
	if !ok {
		return nil, newError(diagnostics.ErrInvalidRepeatCount, s.Pos(), countVal.Type())
	}
	count := int64(n.AsFloat())
	if n.IsFloat && n.Float < 0 || !n.IsFloat && n.Int < 0 {
		return nil, newError(diagnostics.ErrInvalidRepeatCount, s.Pos(), countVal.String())
	}

	for i := int64(0); i < count; i++ {
		frame := NewEnclosedEnvironment(env)
		frame.Define("compteur", Int(i))
		_, err := e.execBlock(s.Body, frame)
		if err != nil {
			if _, ok := err.(breakSignal); ok {
				break
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return nil, err
		}
	}
	return Nothing, nil
}

func (e *Evaluator) execForEach(s *ast.ForEach, env *Environment) (Value, error) {
	iterVal, err := e.evalExpr(s.Iter, env)
	if err != nil {
		return nil, err
	}
	items, err := iterableItems(iterVal, s.Pos())
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		frame := NewEnclosedEnvironment(env)
		frame.Define(s.Var, item)
		_, err := e.execBlock(s.Body, frame)
		if err != nil {
			if _, ok := err.(breakSignal); ok {
				break
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return nil, err
		}
	}
	return Nothing, nil
}

// execTryExcept runs the try body; a catchable runtime error binds
// (when named) as a {code, message, line} dict in a fresh frame and
// runs the handler. Control signals and critical errors bypass the
// handler entirely, per spec.md §4.3/§7.
func (e *Evaluator) execTryExcept(s *ast.TryExcept, env *Environment) (Value, error) {
	_, err := e.execBlock(s.Try, env)
	if err == nil {
		return Nothing, nil
	}

	switch err.(type) {
	case breakSignal, continueSignal, returnSignal:
		return nil, err
	}

	rerr, ok := err.(*RuntimeError)
	if !ok || isCriticalCode(rerr.Code) {
		return nil, err
	}

	frame := NewEnclosedEnvironment(env)
	if s.ErrName != "" {
		frame.Define(s.ErrName, errorDict(rerr))
	}
	return e.execBlock(s.Except, frame)
}

func isCriticalCode(code diagnostics.Code) bool {
	switch code {
	case diagnostics.ErrModuleNotFound, diagnostics.ErrModuleCycle, diagnostics.ErrInternal:
		return true
	default:
		return false
	}
}

// errorDict builds the {code, message, line} dict spec.md §4.3 names
// for a bound `sauf erreur X` handler.
func errorDict(rerr *RuntimeError) *DictValue {
	d := NewDict()
	_ = d.Set(Text("code"), Text(string(rerr.Code)))
	_ = d.Set(Text("message"), Text(rerr.Technical()))
	_ = d.Set(Text("line"), Int(int64(rerr.Pos.Line)))
	return d
}

// execImport consults the module cache through the evaluator's
// ModuleLoader, binding the resolved namespace under its unqualified
// name in the current environment (spec.md §4.3).
func (e *Evaluator) execImport(s *ast.Import, env *Environment) (Value, error) {
	if e.Modules == nil {
		return nil, newError(diagnostics.ErrModuleNotFound, s.Pos(), s.ModuleName)
	}
	mod, err := e.Modules.Load(s.ModuleName, e.BaseDir)
	if err != nil {
		switch er := err.(type) {
		case *RuntimeError:
			return nil, er
		case *diagnostics.Diagnostic:
			return nil, &RuntimeError{Diagnostic: er}
		default:
			return nil, newError(diagnostics.ErrModuleNotFound, s.Pos(), s.ModuleName)
		}
	}
	env.Define(s.ModuleName, mod)
	return Nothing, nil
}
