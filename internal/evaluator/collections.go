package evaluator

import (
	"github.com/arockenbauer/MeowLang/internal/diagnostics"
	"github.com/arockenbauer/MeowLang/pkg/token"
)

// indexGet reads target[index] for the three indexable value kinds
// spec.md §3 lists: list, dict, and text (one rune).
func indexGet(target, index Value, pos token.Position) (Value, error) {
	switch t := target.(type) {
	case *ListValue:
		i, err := listIndex(index, len(t.Elements), pos)
		if err != nil {
			return nil, err
		}
		return t.Elements[i], nil
	case *DictValue:
		v, found, err := t.Get(index)
		if err != nil {
			return nil, newError(diagnostics.ErrUnhashableKey, pos, index.Type())
		}
		if !found {
			return nil, newError(diagnostics.ErrIndexOutOfRange, pos, index.String(), "Dict", len(t.Keys))
		}
		return v, nil
	case *TextValue:
		runes := []rune(t.Value)
		i, err := listIndex(index, len(runes), pos)
		if err != nil {
			return nil, err
		}
		return Text(string(runes[i])), nil
	default:
		return nil, newError(diagnostics.ErrNotIndexable, pos, target.Type())
	}
}

// indexSet assigns target[index] = value for the mutable containers
// (list, dict). Text is immutable; assigning into it is a type error.
func indexSet(target, index, value Value, pos token.Position) error {
	switch t := target.(type) {
	case *ListValue:
		i, err := listIndex(index, len(t.Elements), pos)
		if err != nil {
			return err
		}
		t.Elements[i] = value
		return nil
	case *DictValue:
		if err := t.Set(index, value); err != nil {
			return newError(diagnostics.ErrUnhashableKey, pos, index.Type())
		}
		return nil
	default:
		return newError(diagnostics.ErrNotIndexable, pos, target.Type())
	}
}

// listIndex validates index as an in-range, non-negative integer
// position for a sequence of the given length.
func listIndex(index Value, length int, pos token.Position) (int, error) {
	n, ok := index.(*NumberValue)
	if !ok {
		return 0, newError(diagnostics.ErrNotNumeric, pos, "index", index.Type())
	}
	i := int(n.AsFloat())
	if i < 0 || i >= length {
		return 0, newError(diagnostics.ErrIndexOutOfRange, pos, index.String(), "sequence", length)
	}
	return i, nil
}

// iterableItems yields the elements `pour chaque` walks over: a
// list's elements, a dict's keys in insertion order, or a text's
// characters as one-rune Text values.
func iterableItems(v Value, pos token.Position) ([]Value, error) {
	switch val := v.(type) {
	case *ListValue:
		return val.Elements, nil
	case *DictValue:
		return val.Keys, nil
	case *TextValue:
		runes := []rune(val.Value)
		items := make([]Value, len(runes))
		for i, r := range runes {
			items[i] = Text(string(r))
		}
		return items, nil
	default:
		return nil, newError(diagnostics.ErrNotIterable, pos, v.Type())
	}
}
