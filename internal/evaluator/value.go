// Package evaluator is the tree-walking evaluator: it consumes a
// Program and a BuiltinRegistry and produces side effects plus a
// final Value, or a RuntimeError.
//
// Every runtime value is a tagged struct implementing Value, the same
// pattern the teacher uses for its own runtime values - no
// interface{} boxing, one type switch per operation instead of a
// visitor hierarchy.
package evaluator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/arockenbauer/MeowLang/internal/ast"
)

// Value is implemented by every MeowLang runtime value.
type Value interface {
	Type() string
	String() string
}

// Truthy reports whether v counts as true per spec.md's truthiness
// table: Nothing, false, 0, empty text/list/dict are false.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case *NothingValue:
		return false
	case *BoolValue:
		return val.Value
	case *NumberValue:
		if val.IsFloat {
			return val.Float != 0
		}
		return val.Int != 0
	case *TextValue:
		return val.Value != ""
	case *ListValue:
		return len(val.Elements) > 0
	case *DictValue:
		return len(val.Keys) > 0
	default:
		return true
	}
}

// NothingValue is the absence of a value (the result of a function
// with no explicit retour, and the program's own result).
type NothingValue struct{}

func (*NothingValue) Type() string   { return "Nothing" }
func (*NothingValue) String() string { return "rien" }

var Nothing = &NothingValue{}

// BoolValue is a boolean.
type BoolValue struct{ Value bool }

func (*BoolValue) Type() string { return "Bool" }
func (b *BoolValue) String() string {
	if b.Value {
		return "vrai"
	}
	return "faux"
}

func Bool(v bool) *BoolValue { return &BoolValue{Value: v} }

// NumberValue is either an integer or a float; operations widen to
// float on overflow or mixed operands, per spec.md §4.3.
type NumberValue struct {
	IsFloat bool
	Int     int64
	Float   float64
}

func Int(v int64) *NumberValue     { return &NumberValue{Int: v} }
func Float(v float64) *NumberValue { return &NumberValue{IsFloat: true, Float: v} }

func (*NumberValue) Type() string { return "Number" }
func (n *NumberValue) String() string {
	if n.IsFloat {
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	}
	return strconv.FormatInt(n.Int, 10)
}

// AsFloat returns the value widened to float64, whichever form it's in.
func (n *NumberValue) AsFloat() float64 {
	if n.IsFloat {
		return n.Float
	}
	return float64(n.Int)
}

// TextValue is a Unicode string.
type TextValue struct{ Value string }

func Text(v string) *TextValue { return &TextValue{Value: v} }

func (*TextValue) Type() string     { return "Text" }
func (t *TextValue) String() string { return t.Value }

// ListValue is a mutable ordered sequence, shared by reference.
type ListValue struct{ Elements []Value }

func NewList(elems []Value) *ListValue { return &ListValue{Elements: elems} }

func (*ListValue) Type() string { return "List" }
func (l *ListValue) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = displayString(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DictValue is an insertion-ordered mapping from hashable values
// (text, number, or bool) to values. Keys is kept parallel to a
// lookup index so insertion order survives mutation.
type DictValue struct {
	Keys   []Value
	Values map[string]Value
	index  map[string]int // key-string -> position in Keys
}

func NewDict() *DictValue {
	return &DictValue{Values: map[string]Value{}, index: map[string]int{}}
}

func (*DictValue) Type() string { return "Dict" }
func (d *DictValue) String() string {
	parts := make([]string, 0, len(d.Keys))
	for _, k := range d.Keys {
		ks, _ := DictKey(k)
		parts = append(parts, displayString(k)+": "+displayString(d.Values[ks]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Set inserts or overwrites key -> value, preserving the position of
// the first insertion (later duplicate keys overwrite in place, per
// spec.md §5's dict-literal ordering rule).
func (d *DictValue) Set(key Value, value Value) error {
	ks, err := DictKey(key)
	if err != nil {
		return err
	}
	if _, exists := d.index[ks]; !exists {
		d.index[ks] = len(d.Keys)
		d.Keys = append(d.Keys, key)
	}
	d.Values[ks] = value
	return nil
}

// Get looks up a key, returning (value, found).
func (d *DictValue) Get(key Value) (Value, bool, error) {
	ks, err := DictKey(key)
	if err != nil {
		return nil, false, err
	}
	v, ok := d.Values[ks]
	return v, ok, nil
}

// DictKey renders a hashable value to the string used as a dict's
// internal index key. Lists and dicts are not hashable.
func DictKey(v Value) (string, error) {
	switch val := v.(type) {
	case *TextValue:
		return "s:" + val.Value, nil
	case *NumberValue:
		return "n:" + val.String(), nil
	case *BoolValue:
		return "b:" + val.String(), nil
	default:
		return "", fmt.Errorf("value of type %s is not hashable", v.Type())
	}
}

func displayString(v Value) string {
	if t, ok := v.(*TextValue); ok {
		return strconv.Quote(t.Value)
	}
	return v.String()
}

// FunctionValue is a user-defined function: its parameter names, body,
// and the environment it closed over at definition time.
type FunctionValue struct {
	Name    string
	Params  []string
	Body    []ast.Statement
	Closure *Environment
}

func (*FunctionValue) Type() string     { return "Function" }
func (f *FunctionValue) String() string { return fmt.Sprintf("<fonction %s>", f.Name) }

// NativeFunction is a host-provided callable with arity metadata.
// Arity -1 means variadic (no arity check is performed).
type NativeFunction struct {
	Name  string
	Arity int
	Fn    func(args []Value) (Value, error)
}

func (*NativeFunction) Type() string     { return "NativeFunction" }
func (n *NativeFunction) String() string { return fmt.Sprintf("<natif %s>", n.Name) }

// FileValue is an open file handle.
type FileValue struct {
	Path   string
	Mode   string
	Handle interface {
		Read([]byte) (int, error)
		Write([]byte) (int, error)
		Close() error
	}
	Closed bool
}

func (*FileValue) Type() string     { return "File" }
func (f *FileValue) String() string { return fmt.Sprintf("<fichier %s>", f.Path) }

// ModuleValue is the frozen namespace produced by executing a module's
// top level once.
type ModuleValue struct {
	Name    string
	Members map[string]Value
}

func (*ModuleValue) Type() string { return "Module" }
func (m *ModuleValue) String() string {
	names := sortedMemberNames(m.Members)
	return fmt.Sprintf("<module %s: %s>", m.Name, strings.Join(names, ", "))
}

// sortedMemberNames is a small helper used by diagnostics/debug dumps
// that want deterministic module member ordering.
func sortedMemberNames(m map[string]Value) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
