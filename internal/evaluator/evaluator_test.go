package evaluator_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arockenbauer/MeowLang/internal/builtins"
	"github.com/arockenbauer/MeowLang/internal/evaluator"
	"github.com/arockenbauer/MeowLang/internal/lexer"
	"github.com/arockenbauer/MeowLang/internal/parser"
)

// testEvalWithOutput lexes, parses, and evaluates source, failing the
// test via t.Fatalf on any lex/parse error so a malformed fixture fails loudly instead of
// silently returning Nothing - the same shape the teacher's own
// testEval/testEvalWithOutput helpers use.
func testEvalWithOutput(t *testing.T, source string) (evaluator.Value, string) {
	t.Helper()
	lx := lexer.New(source)
	tokens := lx.Tokenize()
	if errs := lx.Errors(); len(errs) > 0 {
		t.Fatalf("lex errors: %v", errs)
	}
	p := parser.New(tokens)
	prog := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}

	var out bytes.Buffer
	registry := builtins.New(bufWriter{&out}, nil, nil, nil)
	ev := evaluator.New(registry, nil, "")
	env := ev.NewRootEnvironment()

	val, err := ev.Eval(prog, env)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	return val, out.String()
}

func testEval(t *testing.T, source string) evaluator.Value {
	t.Helper()
	val, _ := testEvalWithOutput(t, source)
	return val
}

func testEvalErr(t *testing.T, source string) error {
	t.Helper()
	lx := lexer.New(source)
	tokens := lx.Tokenize()
	if errs := lx.Errors(); len(errs) > 0 {
		t.Fatalf("lex errors: %v", errs)
	}
	p := parser.New(tokens)
	prog := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	registry := builtins.New(bufWriter{&bytes.Buffer{}}, nil, nil, nil)
	ev := evaluator.New(registry, nil, "")
	env := ev.NewRootEnvironment()
	_, err := ev.Eval(prog, env)
	return err
}

type bufWriter struct{ buf *bytes.Buffer }

func (b bufWriter) Write(s string) { b.buf.WriteString(s) }

func wrap(body string) string {
	var b strings.Builder
	b.WriteString("miaou\n")
	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("meow\n")
	return b.String()
}

func TestArithmeticFlooredDivisionAndModulo(t *testing.T) {
	val := testEval(t, wrap("7 // 2"))
	n, ok := val.(*evaluator.NumberValue)
	if !ok || n.IsFloat || n.Int != 3 {
		t.Fatalf("7 // 2 = %v, want Int(3)", val)
	}

	val = testEval(t, wrap("-7 // 2"))
	n, ok = val.(*evaluator.NumberValue)
	if !ok || n.Int != -4 {
		t.Fatalf("-7 // 2 = %v, want Int(-4) (floored)", val)
	}

	val = testEval(t, wrap("-7 % 2"))
	n, ok = val.(*evaluator.NumberValue)
	if !ok || n.Int != 1 {
		t.Fatalf("-7 %% 2 = %v, want Int(1) (sign of divisor)", val)
	}
}

func TestDivisionAlwaysProducesFloat(t *testing.T) {
	val := testEval(t, wrap("6 / 2"))
	n, ok := val.(*evaluator.NumberValue)
	if !ok || !n.IsFloat || n.Float != 3 {
		t.Fatalf("6 / 2 = %v, want float 3", val)
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	err := testEvalErr(t, wrap("1 / 0"))
	if err == nil {
		t.Fatal("expected a division-by-zero runtime error")
	}
}

func TestIntegerOverflowPromotesToFloat(t *testing.T) {
	val := testEval(t, wrap("9223372036854775807 + 1"))
	n, ok := val.(*evaluator.NumberValue)
	if !ok || !n.IsFloat {
		t.Fatalf("overflowing add = %v, want a float", val)
	}
}

func TestPowerIsIntegerWhenOperandsAreIntegers(t *testing.T) {
	val := testEval(t, wrap("2 ** 10"))
	n, ok := val.(*evaluator.NumberValue)
	if !ok || n.IsFloat || n.Int != 1024 {
		t.Fatalf("2 ** 10 = %v, want Int(1024)", val)
	}
}

func TestStringConcatenationAndListExtend(t *testing.T) {
	val := testEval(t, wrap(`"chat" + "on"`))
	text, ok := val.(*evaluator.TextValue)
	if !ok || text.Value != "chaton" {
		t.Fatalf(`"chat" + "on" = %v, want "chaton"`, val)
	}

	val = testEval(t, wrap("[1, 2] + [3]"))
	list, ok := val.(*evaluator.ListValue)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("[1,2]+[3] = %v, want 3-element list", val)
	}
}

func TestTruthinessOfEmptyCollections(t *testing.T) {
	_, out := testEvalWithOutput(t, wrap(`
si []:
    ecrire("liste vide est vraie")
sinon:
    ecrire("liste vide est fausse")
`))
	if strings.TrimSpace(out) != "liste vide est fausse" {
		t.Fatalf("output = %q", out)
	}
}

func TestEtOuShortCircuitReturnsDecidingOperand(t *testing.T) {
	val := testEval(t, wrap(`0 et 5`))
	n, ok := val.(*evaluator.NumberValue)
	if !ok || n.Int != 0 {
		t.Fatalf("0 et 5 = %v, want Int(0) (short-circuited)", val)
	}

	val = testEval(t, wrap(`0 ou "chat"`))
	text, ok := val.(*evaluator.TextValue)
	if !ok || text.Value != "chat" {
		t.Fatalf(`0 ou "chat" = %v, want "chat"`, val)
	}
}

func TestWhileLoopWithBreakAndContinue(t *testing.T) {
	_, out := testEvalWithOutput(t, wrap(`
x = 0
tant que vrai:
    x = x + 1
    si x == 2:
        continue
    si x > 4:
        arrete
    ecrire(x)
`))
	if strings.TrimSpace(out) != "1\n3\n4" {
		t.Fatalf("output = %q", out)
	}
}

func TestRepeatBindsZeroBasedCompteur(t *testing.T) {
	_, out := testEvalWithOutput(t, wrap(`
repeter 3 fois:
    ecrire(compteur)
`))
	if strings.TrimSpace(out) != "0\n1\n2" {
		t.Fatalf("output = %q, want 0,1,2", out)
	}
}

func TestForEachOverListAndDict(t *testing.T) {
	_, out := testEvalWithOutput(t, wrap(`
pour chaque x dans [10, 20, 30]:
    ecrire(x)
`))
	if strings.TrimSpace(out) != "10\n20\n30" {
		t.Fatalf("list iteration output = %q", out)
	}

	_, out = testEvalWithOutput(t, wrap(`
pour chaque k dans {"a": 1, "b": 2}:
    ecrire(k)
`))
	if strings.TrimSpace(out) != "a\nb" {
		t.Fatalf("dict iteration output = %q, want keys a,b", out)
	}
}

func TestForEachOverTextYieldsOneRuneValues(t *testing.T) {
	_, out := testEvalWithOutput(t, wrap(`
pour chaque c dans "ab":
    ecrire(c)
`))
	if strings.TrimSpace(out) != "a\nb" {
		t.Fatalf("text iteration output = %q", out)
	}
}

func TestFunctionDefinitionAndCall(t *testing.T) {
	_, out := testEvalWithOutput(t, wrap(`
fonction carre(n):
    retour n * n

ecrire(carre(7))
`))
	if strings.TrimSpace(out) != "49" {
		t.Fatalf("carre(7) output = %q, want 49", out)
	}
}

func TestClosureCapturesDefiningEnvironment(t *testing.T) {
	_, out := testEvalWithOutput(t, wrap(`
fonction faire_compteur():
    n = 0
    fonction incrementer():
        n = n + 1
        retour n
    retour incrementer

compte = faire_compteur()
ecrire(compte())
ecrire(compte())
`))
	if strings.TrimSpace(out) != "1\n2" {
		t.Fatalf("closure output = %q, want 1,2", out)
	}
}

func TestTryExceptCatchesRuntimeErrorAndBindsDict(t *testing.T) {
	_, out := testEvalWithOutput(t, wrap(`
essayer:
    ecrire(1 / 0)
sauf erreur e:
    ecrire("oups")
    ecrire(e["code"])
`))
	if strings.TrimSpace(out) != "oups\nE501" {
		t.Fatalf("try/except output = %q, want oups,E501", out)
	}
}

func TestBreakOutsideLoopIsReportedNotPanicked(t *testing.T) {
	err := testEvalErr(t, wrap("arrete"))
	if err == nil {
		t.Fatal("expected E401 for arrete outside a loop")
	}
}

func TestReturnOutsideFunctionIsReported(t *testing.T) {
	err := testEvalErr(t, wrap("retour 1"))
	if err == nil {
		t.Fatal("expected E602 for retour outside a function")
	}
}

func TestAssignmentToUndeclaredNameCreatesBindingInCurrentFrame(t *testing.T) {
	val := testEval(t, wrap(`
x = 10
x
`))
	n, ok := val.(*evaluator.NumberValue)
	if !ok || n.Int != 10 {
		t.Fatalf("x = %v, want Int(10)", val)
	}
}

func TestIndexAssignmentOnList(t *testing.T) {
	_, out := testEvalWithOutput(t, wrap(`
liste_valeurs = [1, 2, 3]
liste_valeurs[1] = 99
ecrire(liste_valeurs)
`))
	if strings.TrimSpace(out) != "[1, 99, 3]" {
		t.Fatalf("index-assign output = %q", out)
	}
}

func TestDictLiteralAndEquality(t *testing.T) {
	val := testEval(t, wrap(`{"a": 1, "b": 2} == {"a": 1, "b": 2}`))
	b, ok := val.(*evaluator.BoolValue)
	if !ok || !b.Value {
		t.Fatalf("dict structural equality = %v, want true", val)
	}
}

func TestEmptyProgramEvaluatesToNothing(t *testing.T) {
	val := testEval(t, "miaou\nmeow\n")
	if _, ok := val.(*evaluator.NothingValue); !ok {
		t.Fatalf("empty program = %v, want Nothing", val)
	}
}

func TestTryExceptErrorDictFields(t *testing.T) {
	_, out := testEvalWithOutput(t, wrap(`
essayer:
    x = 1 / 0
sauf erreur e:
    ecrire(e["code"])
    ecrire(e["line"])
`))
	if strings.TrimSpace(out) != "E501\n3" {
		t.Fatalf("error dict output = %q, want code E501 and line 3", out)
	}
}

func TestBareSaufErreurBindsDictUnderErreur(t *testing.T) {
	_, out := testEvalWithOutput(t, wrap(`
essayer:
    x = 1 / 0
sauf erreur:
    ecrire(erreur["code"])
`))
	if strings.TrimSpace(out) != "E501" {
		t.Fatalf("bare sauf erreur output = %q, want E501", out)
	}
}
