package evaluator

import (
	"math"

	"github.com/arockenbauer/MeowLang/internal/diagnostics"
	"github.com/arockenbauer/MeowLang/pkg/token"
)

// numericBinary implements +, -, *, /, //, %, ** for two NumberValue
// operands, following spec.md §4.3: floored division/modulo (result
// sign matches the divisor), overflow promotes integer results to
// float, and / is always true (float) division while // floors.
func numericBinary(op string, l, r *NumberValue, pos token.Position) (Value, error) {
	switch op {
	case "+":
		if l.IsFloat || r.IsFloat {
			return Float(l.AsFloat() + r.AsFloat()), nil
		}
		sum := l.Int + r.Int
		if overflowedAdd(l.Int, r.Int, sum) {
			return Float(float64(l.Int) + float64(r.Int)), nil
		}
		return Int(sum), nil
	case "-":
		if l.IsFloat || r.IsFloat {
			return Float(l.AsFloat() - r.AsFloat()), nil
		}
		diff := l.Int - r.Int
		if (l.Int >= 0 && r.Int < 0 && diff < 0) || (l.Int < 0 && r.Int > 0 && diff > 0) {
			return Float(float64(l.Int) - float64(r.Int)), nil
		}
		return Int(diff), nil
	case "*":
		if l.IsFloat || r.IsFloat {
			return Float(l.AsFloat() * r.AsFloat()), nil
		}
		product := l.Int * r.Int
		if l.Int != 0 && product/l.Int != r.Int {
			return Float(float64(l.Int) * float64(r.Int)), nil
		}
		return Int(product), nil
	case "/":
		rf := r.AsFloat()
		if rf == 0 {
			return nil, newError(diagnostics.ErrDivisionByZero, pos)
		}
		return Float(l.AsFloat() / rf), nil
	case "//":
		if !l.IsFloat && !r.IsFloat {
			if r.Int == 0 {
				return nil, newError(diagnostics.ErrDivisionByZero, pos)
			}
			return Int(floorDivInt(l.Int, r.Int)), nil
		}
		rf := r.AsFloat()
		if rf == 0 {
			return nil, newError(diagnostics.ErrDivisionByZero, pos)
		}
		return Float(math.Floor(l.AsFloat() / rf)), nil
	case "%":
		if !l.IsFloat && !r.IsFloat {
			if r.Int == 0 {
				return nil, newError(diagnostics.ErrDivisionByZero, pos)
			}
			return Int(floorModInt(l.Int, r.Int)), nil
		}
		rf := r.AsFloat()
		if rf == 0 {
			return nil, newError(diagnostics.ErrDivisionByZero, pos)
		}
		m := math.Mod(l.AsFloat(), rf)
		if m != 0 && (m < 0) != (rf < 0) {
			m += rf
		}
		return Float(m), nil
	case "**":
		result := math.Pow(l.AsFloat(), r.AsFloat())
		if !l.IsFloat && !r.IsFloat && r.Int >= 0 && result == math.Trunc(result) && math.Abs(result) < 9.2e18 {
			return Int(int64(result)), nil
		}
		return Float(result), nil
	default:
		return nil, newError(diagnostics.ErrInternal, pos, "unknown operator "+op)
	}
}

func overflowedAdd(a, b, sum int64) bool {
	return (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum > 0)
}

// floorDivInt and floorModInt implement floored (not truncated)
// integer division, so the invariant (a//b)*b + a%b == a holds and
// a%b always carries the sign of b.
func floorDivInt(a, b int64) int64 {
	q := a / b
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		q--
	}
	return q
}

func floorModInt(a, b int64) int64 {
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// compareValues implements < <= > >= for numbers and text
// (lexicographic codepoint order); other type pairs are E502.
func compareValues(op string, l, r Value, pos token.Position) (Value, error) {
	switch lv := l.(type) {
	case *NumberValue:
		rv, ok := r.(*NumberValue)
		if !ok {
			return nil, newError(diagnostics.ErrUncomparableTypes, pos, l.Type(), r.Type(), op)
		}
		return Bool(compareFloats(lv.AsFloat(), rv.AsFloat(), op)), nil
	case *TextValue:
		rv, ok := r.(*TextValue)
		if !ok {
			return nil, newError(diagnostics.ErrUncomparableTypes, pos, l.Type(), r.Type(), op)
		}
		return Bool(compareStrings(lv.Value, rv.Value, op)), nil
	default:
		return nil, newError(diagnostics.ErrUncomparableTypes, pos, l.Type(), r.Type(), op)
	}
}

func compareFloats(a, b float64, op string) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func compareStrings(a, b string, op string) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

// equalValues implements == (structural for list/dict, identity for
// function/file/module, value equality otherwise).
func equalValues(l, r Value) bool {
	switch lv := l.(type) {
	case *NothingValue:
		_, ok := r.(*NothingValue)
		return ok
	case *BoolValue:
		rv, ok := r.(*BoolValue)
		return ok && lv.Value == rv.Value
	case *NumberValue:
		rv, ok := r.(*NumberValue)
		return ok && lv.AsFloat() == rv.AsFloat()
	case *TextValue:
		rv, ok := r.(*TextValue)
		return ok && lv.Value == rv.Value
	case *ListValue:
		rv, ok := r.(*ListValue)
		if !ok || len(lv.Elements) != len(rv.Elements) {
			return false
		}
		for i := range lv.Elements {
			if !equalValues(lv.Elements[i], rv.Elements[i]) {
				return false
			}
		}
		return true
	case *DictValue:
		rv, ok := r.(*DictValue)
		if !ok || len(lv.Keys) != len(rv.Keys) {
			return false
		}
		for _, k := range lv.Keys {
			ks, _ := DictKey(k)
			lval := lv.Values[ks]
			rval, found, _ := rv.Get(k)
			if !found || !equalValues(lval, rval) {
				return false
			}
		}
		return true
	case *FunctionValue:
		rv, ok := r.(*FunctionValue)
		return ok && lv == rv
	case *NativeFunction:
		rv, ok := r.(*NativeFunction)
		return ok && lv == rv
	case *FileValue:
		rv, ok := r.(*FileValue)
		return ok && lv == rv
	case *ModuleValue:
		rv, ok := r.(*ModuleValue)
		return ok && lv == rv
	default:
		return false
	}
}
