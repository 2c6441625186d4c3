package evaluator

import (
	"github.com/arockenbauer/MeowLang/internal/ast"
	"github.com/arockenbauer/MeowLang/internal/diagnostics"
	"github.com/arockenbauer/MeowLang/pkg/token"
)

// evalExpr pattern-matches on the concrete expression variant, per
// spec.md §9's explicit preference for a tagged-variant type switch
// over a visitor-object hierarchy.
func (e *Evaluator) evalExpr(expr ast.Expression, env *Environment) (Value, error) {
	switch ex := expr.(type) {
	case *ast.Literal:
		return literalValue(ex), nil
	case *ast.Identifier:
		v, ok := env.Get(ex.Name)
		if !ok {
			return nil, newError(diagnostics.ErrUndefinedName, ex.Pos(), ex.Name)
		}
		return v, nil
	case *ast.BinaryOp:
		return e.evalBinary(ex, env)
	case *ast.UnaryOp:
		return e.evalUnary(ex, env)
	case *ast.FunctionCall:
		return e.evalCall(ex, env)
	case *ast.IndexAccess:
		return e.evalIndex(ex, env)
	case *ast.AttributeAccess:
		return e.evalAttribute(ex, env)
	case *ast.ListExpr:
		elems := make([]Value, len(ex.Elements))
		for i, el := range ex.Elements {
			v, err := e.evalExpr(el, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return NewList(elems), nil
	case *ast.DictExpr:
		d := NewDict()
		for _, pair := range ex.Pairs {
			k, err := e.evalExpr(pair.Key, env)
			if err != nil {
				return nil, err
			}
			v, err := e.evalExpr(pair.Value, env)
			if err != nil {
				return nil, err
			}
			if err := d.Set(k, v); err != nil {
				return nil, newError(diagnostics.ErrUnhashableKey, ex.Pos(), k.Type())
			}
		}
		return d, nil
	default:
		return nil, newError(diagnostics.ErrInternal, expr.Pos(), "unknown expression node")
	}
}

func literalValue(l *ast.Literal) Value {
	switch l.TypeTag {
	case "number":
		switch v := l.Value.(type) {
		case int64:
			return Int(v)
		case float64:
			return Float(v)
		}
	case "text":
		if v, ok := l.Value.(string); ok {
			return Text(v)
		}
	case "boolean":
		if v, ok := l.Value.(bool); ok {
			return Bool(v)
		}
	}
	return Nothing
}

func (e *Evaluator) evalUnary(ex *ast.UnaryOp, env *Environment) (Value, error) {
	switch ex.Op {
	case "non":
		v, err := e.evalExpr(ex.Operand, env)
		if err != nil {
			return nil, err
		}
		return Bool(!Truthy(v)), nil
	case "-":
		v, err := e.evalExpr(ex.Operand, env)
		if err != nil {
			return nil, err
		}
		n, ok := v.(*NumberValue)
		if !ok {
			return nil, newError(diagnostics.ErrNotNumeric, ex.Pos(), "unary -", v.Type())
		}
		if n.IsFloat {
			return Float(-n.Float), nil
		}
		return Int(-n.Int), nil
	default:
		return nil, newError(diagnostics.ErrInternal, ex.Pos(), "unknown unary operator "+ex.Op)
	}
}

func (e *Evaluator) evalBinary(ex *ast.BinaryOp, env *Environment) (Value, error) {
	switch ex.Op {
	case "et":
		left, err := e.evalExpr(ex.Left, env)
		if err != nil {
			return nil, err
		}
		if !Truthy(left) {
			return left, nil
		}
		return e.evalExpr(ex.Right, env)
	case "ou":
		left, err := e.evalExpr(ex.Left, env)
		if err != nil {
			return nil, err
		}
		if Truthy(left) {
			return left, nil
		}
		return e.evalExpr(ex.Right, env)
	}

	left, err := e.evalExpr(ex.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(ex.Right, env)
	if err != nil {
		return nil, err
	}

	switch ex.Op {
	case "==":
		return Bool(equalValues(left, right)), nil
	case "!=":
		return Bool(!equalValues(left, right)), nil
	case "<", "<=", ">", ">=":
		return compareValues(ex.Op, left, right, ex.Pos())
	case "+":
		return e.evalPlus(left, right, ex.Pos())
	case "-", "*", "/", "//", "%", "**":
		ln, lok := left.(*NumberValue)
		rn, rok := right.(*NumberValue)
		if !lok || !rok {
			bad := left.Type()
			if lok {
				bad = right.Type()
			}
			return nil, newError(diagnostics.ErrNotNumeric, ex.Pos(), ex.Op, bad)
		}
		return numericBinary(ex.Op, ln, rn, ex.Pos())
	default:
		return nil, newError(diagnostics.ErrInternal, ex.Pos(), "unknown operator "+ex.Op)
	}
}

// evalPlus implements +, which also concatenates text and extends
// lists alongside ordinary numeric addition, per spec.md §4.3.
func (e *Evaluator) evalPlus(left, right Value, pos token.Position) (Value, error) {
	switch l := left.(type) {
	case *NumberValue:
		r, ok := right.(*NumberValue)
		if !ok {
			return nil, newError(diagnostics.ErrNotNumeric, pos, "+", right.Type())
		}
		return numericBinary("+", l, r, pos)
	case *TextValue:
		r, ok := right.(*TextValue)
		if !ok {
			return nil, newError(diagnostics.ErrNotNumeric, pos, "+", right.Type())
		}
		return Text(l.Value + r.Value), nil
	case *ListValue:
		r, ok := right.(*ListValue)
		if !ok {
			return nil, newError(diagnostics.ErrNotNumeric, pos, "+", right.Type())
		}
		combined := make([]Value, 0, len(l.Elements)+len(r.Elements))
		combined = append(combined, l.Elements...)
		combined = append(combined, r.Elements...)
		return NewList(combined), nil
	default:
		return nil, newError(diagnostics.ErrNotNumeric, pos, "+", left.Type())
	}
}

// evalCall evaluates the callee and arguments left-to-right (spec.md
// §5's ordering guarantee), then dispatches to a native or user
// function.
func (e *Evaluator) evalCall(ex *ast.FunctionCall, env *Environment) (Value, error) {
	callee, err := e.evalExpr(ex.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]Value, len(ex.Args))
	for i, a := range ex.Args {
		v, err := e.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch fn := callee.(type) {
	case *NativeFunction:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return nil, newError(diagnostics.ErrArityMismatch, ex.Pos(), fn.Name, fn.Arity, len(args))
		}
		v, err := fn.Fn(args)
		if err != nil {
			if rerr, ok := err.(*RuntimeError); ok {
				return nil, rerr
			}
			if d, ok := err.(*diagnostics.Diagnostic); ok {
				return nil, &RuntimeError{Diagnostic: d}
			}
			return nil, newError(diagnostics.ErrInternal, ex.Pos(), err.Error())
		}
		return v, nil
	case *FunctionValue:
		return e.callFunction(fn, args, ex.Pos())
	default:
		return nil, newError(diagnostics.ErrNotCallable, ex.Pos(), callee.Type())
	}
}

// callFunction installs a new frame whose parent is the function's
// captured (lexical, not dynamic) environment, binds parameters, and
// runs the body. Falling off the end without a `retour` yields
// Nothing, per spec.md §4.3.
func (e *Evaluator) callFunction(fn *FunctionValue, args []Value, pos token.Position) (Value, error) {
	if len(args) != len(fn.Params) {
		return nil, newError(diagnostics.ErrArityMismatch, pos, fn.Name, len(fn.Params), len(args))
	}
	frame := NewEnclosedEnvironment(fn.Closure)
	for i, p := range fn.Params {
		frame.Define(p, args[i])
	}
	_, err := e.execBlock(fn.Body, frame)
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.Value, nil
		}
		if converted, ok := asControlSignal(err); ok {
			return nil, converted
		}
		return nil, err
	}
	return Nothing, nil
}

// evalIndex evaluates Target[Index] for lists, dicts, and text.
func (e *Evaluator) evalIndex(ex *ast.IndexAccess, env *Environment) (Value, error) {
	target, err := e.evalExpr(ex.Target, env)
	if err != nil {
		return nil, err
	}
	index, err := e.evalExpr(ex.Index, env)
	if err != nil {
		return nil, err
	}
	return indexGet(target, index, ex.Pos())
}

// evalAttribute evaluates Target.Name, which spec.md §4.3 reserves for
// module member access (NAME.member).
func (e *Evaluator) evalAttribute(ex *ast.AttributeAccess, env *Environment) (Value, error) {
	target, err := e.evalExpr(ex.Target, env)
	if err != nil {
		return nil, err
	}
	mod, ok := target.(*ModuleValue)
	if !ok {
		return nil, newError(diagnostics.ErrNotIndexable, ex.Pos(), target.Type())
	}
	v, ok := mod.Members[ex.Name]
	if !ok {
		return nil, newError(diagnostics.ErrNoAttribute, ex.Pos(), ex.Name)
	}
	return v, nil
}
