package builtins_test

import (
	"fmt"
	"testing"

	"github.com/arockenbauer/MeowLang/internal/builtins"
	"github.com/arockenbauer/MeowLang/internal/evaluator"
)

type fakeOutput struct{ lines []string }

func (f *fakeOutput) Write(s string) { f.lines = append(f.lines, s) }

type fakeInput struct {
	responses []string
	prompts   []string
}

func (f *fakeInput) Prompt(promptText string) (string, error) {
	f.prompts = append(f.prompts, promptText)
	if len(f.responses) == 0 {
		return "", fmt.Errorf("no more canned responses")
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return next, nil
}

type fakeClock struct{ slept []float64 }

func (f *fakeClock) Sleep(seconds float64) { f.slept = append(f.slept, seconds) }

type fakeRandom struct{ value int64 }

func (f *fakeRandom) UniformInt(min, max int64) int64 { return f.value }

func call(t *testing.T, r *builtins.Registry, name string, args ...evaluator.Value) evaluator.Value {
	t.Helper()
	fn, ok := r.Items()[name]
	if !ok {
		t.Fatalf("no builtin registered under %q", name)
	}
	val, err := fn.Fn(args)
	if err != nil {
		t.Fatalf("%s(%v) returned error: %v", name, args, err)
	}
	return val
}

func callErr(t *testing.T, r *builtins.Registry, name string, args ...evaluator.Value) error {
	t.Helper()
	fn, ok := r.Items()[name]
	if !ok {
		t.Fatalf("no builtin registered under %q", name)
	}
	_, err := fn.Fn(args)
	return err
}

func TestEcrireWritesLineToOutput(t *testing.T) {
	out := &fakeOutput{}
	r := builtins.New(out, nil, nil, nil)
	call(t, r, "ecrire", evaluator.Text("bonjour"))
	if len(out.lines) != 1 || out.lines[0] != "bonjour\n" {
		t.Fatalf("ecrire output = %v", out.lines)
	}
}

func TestDemanderTexteEchoesPromptAndReturnsResponse(t *testing.T) {
	in := &fakeInput{responses: []string{"Minou"}}
	r := builtins.New(&fakeOutput{}, in, nil, nil)
	val := call(t, r, "demander_texte", evaluator.Text("ton nom? "))
	text, ok := val.(*evaluator.TextValue)
	if !ok || text.Value != "Minou" {
		t.Fatalf("demander_texte = %v, want Minou", val)
	}
	if len(in.prompts) != 1 || in.prompts[0] != "ton nom? " {
		t.Fatalf("prompts = %v", in.prompts)
	}
}

func TestDemanderNombreParsesIntAndFloat(t *testing.T) {
	in := &fakeInput{responses: []string{"42", "3.5"}}
	r := builtins.New(&fakeOutput{}, in, nil, nil)

	val := call(t, r, "demander_nombre", evaluator.Text(""))
	n, ok := val.(*evaluator.NumberValue)
	if !ok || n.IsFloat || n.Int != 42 {
		t.Fatalf("first demander_nombre = %v, want Int(42)", val)
	}

	val = call(t, r, "demander_nombre", evaluator.Text(""))
	n, ok = val.(*evaluator.NumberValue)
	if !ok || !n.IsFloat || n.Float != 3.5 {
		t.Fatalf("second demander_nombre = %v, want Float(3.5)", val)
	}
}

func TestDemanderNombreRejectsNonNumericInput(t *testing.T) {
	in := &fakeInput{responses: []string{"pas un nombre"}}
	r := builtins.New(&fakeOutput{}, in, nil, nil)
	if err := callErr(t, r, "demander_nombre", evaluator.Text("")); err == nil {
		t.Fatal("expected an error for non-numeric input")
	}
}

func TestMinusculeMajuscule(t *testing.T) {
	r := builtins.New(&fakeOutput{}, nil, nil, nil)
	val := call(t, r, "minuscule", evaluator.Text("CHAT"))
	if text, ok := val.(*evaluator.TextValue); !ok || text.Value != "chat" {
		t.Fatalf("minuscule = %v", val)
	}
	val = call(t, r, "majuscule", evaluator.Text("chat"))
	if text, ok := val.(*evaluator.TextValue); !ok || text.Value != "CHAT" {
		t.Fatalf("majuscule = %v", val)
	}
}

func TestLongueurAcrossKinds(t *testing.T) {
	r := builtins.New(&fakeOutput{}, nil, nil, nil)

	val := call(t, r, "longueur", evaluator.Text("chaton"))
	if n, ok := val.(*evaluator.NumberValue); !ok || n.Int != 6 {
		t.Fatalf("longueur(text) = %v", val)
	}

	val = call(t, r, "longueur", evaluator.NewList([]evaluator.Value{evaluator.Int(1), evaluator.Int(2)}))
	if n, ok := val.(*evaluator.NumberValue); !ok || n.Int != 2 {
		t.Fatalf("longueur(list) = %v", val)
	}

	d := evaluator.NewDict()
	_ = d.Set(evaluator.Text("a"), evaluator.Int(1))
	_ = d.Set(evaluator.Text("b"), evaluator.Int(2))
	val = call(t, r, "longueur", d)
	if n, ok := val.(*evaluator.NumberValue); !ok || n.Int != 2 {
		t.Fatalf("longueur(dict) = %v", val)
	}
}

func TestRemplacer(t *testing.T) {
	r := builtins.New(&fakeOutput{}, nil, nil, nil)
	val := call(t, r, "remplacer", evaluator.Text("chaton chaton"), evaluator.Text("chaton"), evaluator.Text("chat"))
	if text, ok := val.(*evaluator.TextValue); !ok || text.Value != "chat chat" {
		t.Fatalf("remplacer = %v", val)
	}
}

func TestContientAcrossKinds(t *testing.T) {
	r := builtins.New(&fakeOutput{}, nil, nil, nil)

	val := call(t, r, "contient", evaluator.Text("chaton"), evaluator.Text("hat"))
	if b, ok := val.(*evaluator.BoolValue); !ok || !b.Value {
		t.Fatalf("contient(text) = %v", val)
	}

	list := evaluator.NewList([]evaluator.Value{evaluator.Int(1), evaluator.Int(2)})
	val = call(t, r, "contient", list, evaluator.Int(2))
	if b, ok := val.(*evaluator.BoolValue); !ok || !b.Value {
		t.Fatalf("contient(list) = %v", val)
	}

	d := evaluator.NewDict()
	_ = d.Set(evaluator.Text("cle"), evaluator.Int(1))
	val = call(t, r, "contient", d, evaluator.Text("cle"))
	if b, ok := val.(*evaluator.BoolValue); !ok || !b.Value {
		t.Fatalf("contient(dict) = %v", val)
	}
}

func TestAleatoireDelegatesToRandomnessCapability(t *testing.T) {
	rnd := &fakeRandom{value: 7}
	r := builtins.New(&fakeOutput{}, nil, nil, rnd)
	val := call(t, r, "aleatoire", evaluator.Int(1), evaluator.Int(10))
	if n, ok := val.(*evaluator.NumberValue); !ok || n.Int != 7 {
		t.Fatalf("aleatoire = %v, want Int(7)", val)
	}
}

func TestMathFunctions(t *testing.T) {
	r := builtins.New(&fakeOutput{}, nil, nil, nil)

	if v := call(t, r, "sqrt", evaluator.Int(9)); v.(*evaluator.NumberValue).Float != 3 {
		t.Fatalf("sqrt(9) = %v", v)
	}
	if v := call(t, r, "abs", evaluator.Int(-5)); v.(*evaluator.NumberValue).Int != 5 {
		t.Fatalf("abs(-5) = %v", v)
	}
	if v := call(t, r, "round", evaluator.Float(2.6)); v.(*evaluator.NumberValue).Int != 3 {
		t.Fatalf("round(2.6) = %v", v)
	}
	if v := call(t, r, "floor", evaluator.Float(2.9)); v.(*evaluator.NumberValue).Int != 2 {
		t.Fatalf("floor(2.9) = %v", v)
	}
	if v := call(t, r, "ceil", evaluator.Float(2.1)); v.(*evaluator.NumberValue).Int != 3 {
		t.Fatalf("ceil(2.1) = %v", v)
	}
}

func TestListeBuildsListFromVariadicArgs(t *testing.T) {
	r := builtins.New(&fakeOutput{}, nil, nil, nil)
	val := call(t, r, "liste", evaluator.Int(1), evaluator.Int(2), evaluator.Int(3))
	list, ok := val.(*evaluator.ListValue)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("liste(1,2,3) = %v", val)
	}
}

func TestDictionnaireBuildsDictFromPairLists(t *testing.T) {
	r := builtins.New(&fakeOutput{}, nil, nil, nil)
	pair := evaluator.NewList([]evaluator.Value{evaluator.Text("cle"), evaluator.Int(42)})
	val := call(t, r, "dictionnaire", pair)
	d, ok := val.(*evaluator.DictValue)
	if !ok {
		t.Fatalf("dictionnaire(...) = %v", val)
	}
	got, found, err := d.Get(evaluator.Text("cle"))
	if err != nil || !found {
		t.Fatalf("dict missing key: found=%v err=%v", found, err)
	}
	if n, ok := got.(*evaluator.NumberValue); !ok || n.Int != 42 {
		t.Fatalf("dict[cle] = %v, want 42", got)
	}
}

func TestAttendreDelegatesToClockCapability(t *testing.T) {
	clock := &fakeClock{}
	r := builtins.New(&fakeOutput{}, nil, clock, nil)
	call(t, r, "attendre", evaluator.Float(0.5))
	if len(clock.slept) != 1 || clock.slept[0] != 0.5 {
		t.Fatalf("attendre did not call Sleep(0.5): %v", clock.slept)
	}
}

func TestOuvrirLireFermerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/chaton.txt"

	r := builtins.New(&fakeOutput{}, nil, nil, nil)

	handle := call(t, r, "ouvrir", evaluator.Text(path), evaluator.Text("ecriture"))
	fv, ok := handle.(*evaluator.FileValue)
	if !ok {
		t.Fatalf("ouvrir = %v", handle)
	}
	if _, err := fv.Handle.Write([]byte("miaou")); err != nil {
		t.Fatalf("write: %v", err)
	}
	call(t, r, "fermer", fv)

	handle = call(t, r, "ouvrir", evaluator.Text(path), evaluator.Text("lecture"))
	fv, ok = handle.(*evaluator.FileValue)
	if !ok {
		t.Fatalf("re-ouvrir = %v", handle)
	}
	content := call(t, r, "lire", fv)
	text, ok := content.(*evaluator.TextValue)
	if !ok || text.Value != "miaou" {
		t.Fatalf("lire = %v, want miaou", content)
	}
	call(t, r, "fermer", fv)
	if !fv.Closed {
		t.Fatal("expected file to be marked closed")
	}
}

func TestOuvrirRejectsUnknownMode(t *testing.T) {
	r := builtins.New(&fakeOutput{}, nil, nil, nil)
	if err := callErr(t, r, "ouvrir", evaluator.Text("x"), evaluator.Text("vol")); err == nil {
		t.Fatal("expected an error for an unrecognized file mode")
	}
}

func TestEveryRegisteredNameIsDocumentedInSpecSurface(t *testing.T) {
	r := builtins.New(&fakeOutput{}, nil, nil, nil)
	want := []string{
		"ecrire", "demander_texte", "demander_nombre", "minuscule", "majuscule",
		"longueur", "remplacer", "contient", "aleatoire", "sqrt", "abs", "round",
		"floor", "ceil", "liste", "dictionnaire", "ouvrir", "lire", "fermer", "attendre",
	}
	for _, name := range want {
		if _, ok := r.Items()[name]; !ok {
			t.Errorf("missing builtin %q", name)
		}
	}
}
