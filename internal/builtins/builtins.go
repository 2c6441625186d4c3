// Package builtins provides the reference BuiltinRegistry: every
// native name spec.md §6 documents, implemented the way the teacher's
// internal/interp/builtins_io.go implements its own natives - plain
// Go functions closed over the host capabilities they need, never a
// type switch on name inside the evaluator itself.
package builtins

import (
	"bufio"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/arockenbauer/MeowLang/internal/diagnostics"
	"github.com/arockenbauer/MeowLang/internal/evaluator"
	"github.com/arockenbauer/MeowLang/pkg/token"
)

// Output is the capability boundary for `ecrire`.
type Output interface {
	Write(s string)
}

// Input is the capability boundary for `demander texte`/`demander nombre`
// (spec.md §6: "Input.prompt(prompt_text) -> text | io-error").
type Input interface {
	Prompt(promptText string) (string, error)
}

// Clock is the capability boundary for `attendre`.
type Clock interface {
	Sleep(seconds float64)
}

// Randomness is the capability boundary for `aleatoire`.
type Randomness interface {
	UniformInt(min, max int64) int64
}

// Registry is the reference evaluator.BuiltinRegistry implementation.
// Its zero value is unusable; build one with New.
type Registry struct {
	items map[string]*evaluator.NativeFunction
}

// New wires every documented builtin name to the given host
// capabilities. output must not be nil; in, clock, and random may be
// nil only if the script never calls the builtins that need them (a
// nil in or random surfaces as E802 at call time rather than a panic;
// with a nil clock, attendre returns at once without sleeping).
func New(output Output, in Input, clock Clock, random Randomness) *Registry {
	r := &Registry{items: map[string]*evaluator.NativeFunction{}}
	r.register("ecrire", 1, ecrire(output))
	r.register("demander_texte", 1, demanderTexte(in))
	r.register("demander_nombre", 1, demanderNombre(in))
	r.register("minuscule", 1, minuscule)
	r.register("majuscule", 1, majuscule)
	r.register("longueur", 1, longueur)
	r.register("remplacer", 3, remplacer)
	r.register("contient", 2, contient)
	r.register("aleatoire", 2, aleatoire(random))
	r.register("sqrt", 1, sqrtFn)
	r.register("abs", 1, absFn)
	r.register("round", 1, roundFn)
	r.register("floor", 1, floorFn)
	r.register("ceil", 1, ceilFn)
	r.registerVariadic("liste", listeFn)
	r.registerVariadic("dictionnaire", dictionnaireFn)
	r.register("ouvrir", 2, ouvrir)
	r.register("lire", 1, lire)
	r.register("fermer", 1, fermer)
	r.register("attendre", 1, attendre(clock))
	return r
}

func (r *Registry) register(name string, arity int, fn func(args []evaluator.Value) (evaluator.Value, error)) {
	r.items[name] = &evaluator.NativeFunction{Name: name, Arity: arity, Fn: fn}
}

func (r *Registry) registerVariadic(name string, fn func(args []evaluator.Value) (evaluator.Value, error)) {
	r.items[name] = &evaluator.NativeFunction{Name: name, Arity: -1, Fn: fn}
}

// Items implements evaluator.BuiltinRegistry.
func (r *Registry) Items() map[string]*evaluator.NativeFunction {
	return r.items
}

// nativeErr builds a synthetic diagnostic for a native-function
// failure: there is no source token to point at, only the code and
// its arguments (spec.md §9's Synthetic flag, used identically here
// to how internal/module reports resolution failures).
func nativeErr(code diagnostics.Code, args ...any) error {
	d := diagnostics.Newf(code, token.Position{}, args...)
	d.Synthetic = true
	return &evaluator.RuntimeError{Diagnostic: d}
}

func wantText(v evaluator.Value, who string) (*evaluator.TextValue, error) {
	t, ok := v.(*evaluator.TextValue)
	if !ok {
		return nil, nativeErr(diagnostics.ErrNotNumeric, who, v.Type())
	}
	return t, nil
}

func wantNumber(v evaluator.Value, who string) (*evaluator.NumberValue, error) {
	n, ok := v.(*evaluator.NumberValue)
	if !ok {
		return nil, nativeErr(diagnostics.ErrNotNumeric, who, v.Type())
	}
	return n, nil
}

func ecrire(output Output) func([]evaluator.Value) (evaluator.Value, error) {
	return func(args []evaluator.Value) (evaluator.Value, error) {
		if output != nil {
			output.Write(args[0].String() + "\n")
		}
		return evaluator.Nothing, nil
	}
}

func demanderTexte(in Input) func([]evaluator.Value) (evaluator.Value, error) {
	return func(args []evaluator.Value) (evaluator.Value, error) {
		prompt, err := wantText(args[0], "demander_texte")
		if err != nil {
			return nil, err
		}
		if in == nil {
			return nil, nativeErr(diagnostics.ErrFileIO, "demander_texte", "no input source configured")
		}
		text, err := in.Prompt(prompt.Value)
		if err != nil {
			return nil, nativeErr(diagnostics.ErrFileIO, "demander_texte", err.Error())
		}
		return evaluator.Text(text), nil
	}
}

func demanderNombre(in Input) func([]evaluator.Value) (evaluator.Value, error) {
	return func(args []evaluator.Value) (evaluator.Value, error) {
		prompt, err := wantText(args[0], "demander_nombre")
		if err != nil {
			return nil, err
		}
		if in == nil {
			return nil, nativeErr(diagnostics.ErrFileIO, "demander_nombre", "no input source configured")
		}
		text, err := in.Prompt(prompt.Value)
		if err != nil {
			return nil, nativeErr(diagnostics.ErrFileIO, "demander_nombre", err.Error())
		}
		text = strings.TrimSpace(text)
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return evaluator.Int(i), nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, nativeErr(diagnostics.ErrNotNumeric, "demander_nombre", text)
		}
		return evaluator.Float(f), nil
	}
}

func minuscule(args []evaluator.Value) (evaluator.Value, error) {
	t, err := wantText(args[0], "minuscule")
	if err != nil {
		return nil, err
	}
	return evaluator.Text(strings.ToLower(t.Value)), nil
}

func majuscule(args []evaluator.Value) (evaluator.Value, error) {
	t, err := wantText(args[0], "majuscule")
	if err != nil {
		return nil, err
	}
	return evaluator.Text(strings.ToUpper(t.Value)), nil
}

// longueur reports the length of text (runes), a list (elements), or
// a dict (keys) - the same three kinds iterableItems walks.
func longueur(args []evaluator.Value) (evaluator.Value, error) {
	switch v := args[0].(type) {
	case *evaluator.TextValue:
		return evaluator.Int(int64(len([]rune(v.Value)))), nil
	case *evaluator.ListValue:
		return evaluator.Int(int64(len(v.Elements))), nil
	case *evaluator.DictValue:
		return evaluator.Int(int64(len(v.Keys))), nil
	default:
		return nil, nativeErr(diagnostics.ErrNotIterable, v.Type())
	}
}

func remplacer(args []evaluator.Value) (evaluator.Value, error) {
	src, err := wantText(args[0], "remplacer")
	if err != nil {
		return nil, err
	}
	old, err := wantText(args[1], "remplacer")
	if err != nil {
		return nil, err
	}
	repl, err := wantText(args[2], "remplacer")
	if err != nil {
		return nil, err
	}
	return evaluator.Text(strings.ReplaceAll(src.Value, old.Value, repl.Value)), nil
}

// contient reports substring containment for text, and element
// membership for lists and dicts (by key).
func contient(args []evaluator.Value) (evaluator.Value, error) {
	switch v := args[0].(type) {
	case *evaluator.TextValue:
		needle, err := wantText(args[1], "contient")
		if err != nil {
			return nil, err
		}
		return evaluator.Bool(strings.Contains(v.Value, needle.Value)), nil
	case *evaluator.ListValue:
		for _, el := range v.Elements {
			if valuesEqual(el, args[1]) {
				return evaluator.Bool(true), nil
			}
		}
		return evaluator.Bool(false), nil
	case *evaluator.DictValue:
		_, found, err := v.Get(args[1])
		if err != nil {
			return nil, nativeErr(diagnostics.ErrUnhashableKey, args[1].Type())
		}
		return evaluator.Bool(found), nil
	default:
		return nil, nativeErr(diagnostics.ErrNotIterable, v.Type())
	}
}

// valuesEqual compares two elements for list/dict containment. It
// compares text with text, number with number (as floats) and boolean
// with boolean; any other pair, including two lists, two dicts or
// two Nothing values, reports false.
func valuesEqual(a, b evaluator.Value) bool {
	ta, aok := a.(*evaluator.TextValue)
	tb, bok := b.(*evaluator.TextValue)
	if aok && bok {
		return ta.Value == tb.Value
	}
	na, aok := a.(*evaluator.NumberValue)
	nb, bok := b.(*evaluator.NumberValue)
	if aok && bok {
		return na.AsFloat() == nb.AsFloat()
	}
	ba, aok := a.(*evaluator.BoolValue)
	bb, bok := b.(*evaluator.BoolValue)
	if aok && bok {
		return ba.Value == bb.Value
	}
	return false
}

func aleatoire(random Randomness) func([]evaluator.Value) (evaluator.Value, error) {
	return func(args []evaluator.Value) (evaluator.Value, error) {
		lo, err := wantNumber(args[0], "aleatoire")
		if err != nil {
			return nil, err
		}
		hi, err := wantNumber(args[1], "aleatoire")
		if err != nil {
			return nil, err
		}
		if random == nil {
			return nil, nativeErr(diagnostics.ErrFileIO, "aleatoire", "no randomness source configured")
		}
		return evaluator.Int(random.UniformInt(int64(lo.AsFloat()), int64(hi.AsFloat()))), nil
	}
}

func sqrtFn(args []evaluator.Value) (evaluator.Value, error) {
	n, err := wantNumber(args[0], "sqrt")
	if err != nil {
		return nil, err
	}
	return evaluator.Float(math.Sqrt(n.AsFloat())), nil
}

func absFn(args []evaluator.Value) (evaluator.Value, error) {
	n, err := wantNumber(args[0], "abs")
	if err != nil {
		return nil, err
	}
	if n.IsFloat {
		return evaluator.Float(math.Abs(n.Float)), nil
	}
	if n.Int < 0 {
		return evaluator.Int(-n.Int), nil
	}
	return evaluator.Int(n.Int), nil
}

func roundFn(args []evaluator.Value) (evaluator.Value, error) {
	n, err := wantNumber(args[0], "round")
	if err != nil {
		return nil, err
	}
	return evaluator.Int(int64(math.Round(n.AsFloat()))), nil
}

func floorFn(args []evaluator.Value) (evaluator.Value, error) {
	n, err := wantNumber(args[0], "floor")
	if err != nil {
		return nil, err
	}
	return evaluator.Int(int64(math.Floor(n.AsFloat()))), nil
}

func ceilFn(args []evaluator.Value) (evaluator.Value, error) {
	n, err := wantNumber(args[0], "ceil")
	if err != nil {
		return nil, err
	}
	return evaluator.Int(int64(math.Ceil(n.AsFloat()))), nil
}

// listeFn builds a list from its arguments, the functional form of a
// `[...]` literal (spec.md §9 resolves this the same way it resolves
// dictionnaire - both surface syntax and the builtin exist).
func listeFn(args []evaluator.Value) (evaluator.Value, error) {
	elems := make([]evaluator.Value, len(args))
	copy(elems, args)
	return evaluator.NewList(elems), nil
}

// dictionnaireFn builds a dict from zero or more [key, value] pair
// lists, the functional counterpart to `{k: v}` literal syntax.
func dictionnaireFn(args []evaluator.Value) (evaluator.Value, error) {
	d := evaluator.NewDict()
	for _, a := range args {
		pair, ok := a.(*evaluator.ListValue)
		if !ok || len(pair.Elements) != 2 {
			return nil, nativeErr(diagnostics.ErrUnhashableKey, "dictionnaire", a.Type())
		}
		if err := d.Set(pair.Elements[0], pair.Elements[1]); err != nil {
			return nil, nativeErr(diagnostics.ErrUnhashableKey, pair.Elements[0].Type())
		}
	}
	return d, nil
}

// fileHandle adapts an *os.File to evaluator.FileValue's Handle shape.
type fileHandle struct {
	f *os.File
	r *bufio.Reader
}

func (h *fileHandle) Read(p []byte) (int, error)  { return h.r.Read(p) }
func (h *fileHandle) Write(p []byte) (int, error) { return h.f.Write(p) }
func (h *fileHandle) Close() error                { return h.f.Close() }

func ouvrir(args []evaluator.Value) (evaluator.Value, error) {
	path, err := wantText(args[0], "ouvrir")
	if err != nil {
		return nil, err
	}
	mode, err := wantText(args[1], "ouvrir")
	if err != nil {
		return nil, err
	}

	var flag int
	switch mode.Value {
	case "lecture":
		flag = os.O_RDONLY
	case "ecriture":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "ajout":
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return nil, nativeErr(diagnostics.ErrFileMode, mode.Value)
	}

	f, osErr := os.OpenFile(path.Value, flag, 0o644)
	if osErr != nil {
		return nil, nativeErr(diagnostics.ErrFileOpen, path.Value, osErr.Error())
	}
	handle := &fileHandle{f: f, r: bufio.NewReader(f)}
	return &evaluator.FileValue{Path: path.Value, Mode: mode.Value, Handle: handle}, nil
}

func lire(args []evaluator.Value) (evaluator.Value, error) {
	fv, ok := args[0].(*evaluator.FileValue)
	if !ok {
		return nil, nativeErr(diagnostics.ErrNotIndexable, args[0].Type())
	}
	if fv.Closed {
		return nil, nativeErr(diagnostics.ErrFileIO, fv.Path, "file is closed")
	}
	var buf strings.Builder
	chunk := make([]byte, 4096)
	for {
		n, err := fv.Handle.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err != nil {
			break
		}
	}
	return evaluator.Text(buf.String()), nil
}

func fermer(args []evaluator.Value) (evaluator.Value, error) {
	fv, ok := args[0].(*evaluator.FileValue)
	if !ok {
		return nil, nativeErr(diagnostics.ErrNotIndexable, args[0].Type())
	}
	if fv.Closed {
		return evaluator.Nothing, nil
	}
	if err := fv.Handle.Close(); err != nil {
		return nil, nativeErr(diagnostics.ErrFileIO, fv.Path, err.Error())
	}
	fv.Closed = true
	return evaluator.Nothing, nil
}

func attendre(clock Clock) func([]evaluator.Value) (evaluator.Value, error) {
	return func(args []evaluator.Value) (evaluator.Value, error) {
		n, err := wantNumber(args[0], "attendre")
		if err != nil {
			return nil, err
		}
		if clock != nil {
			clock.Sleep(n.AsFloat())
		}
		return evaluator.Nothing, nil
	}
}
