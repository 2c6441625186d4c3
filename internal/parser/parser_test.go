package parser_test

import (
	"testing"

	"github.com/arockenbauer/MeowLang/internal/ast"
	"github.com/arockenbauer/MeowLang/internal/diagnostics"
	"github.com/arockenbauer/MeowLang/internal/lexer"
	"github.com/arockenbauer/MeowLang/internal/parser"
)

func parseSource(t *testing.T, src string) (*ast.Program, *parser.Parser) {
	t.Helper()
	toks := lexer.New(src).Tokenize()
	p := parser.New(toks)
	prog := p.Parse()
	return prog, p
}

func requireNoErrors(t *testing.T, p *parser.Parser) {
	t.Helper()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
}

func hasCode(errs []*diagnostics.Diagnostic, code diagnostics.Code) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestMinimalProgramParses(t *testing.T) {
	prog, p := parseSource(t, "miaou\necrire(1)\nmeow\n")
	requireNoErrors(t, p)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
}

func TestMissingMiaouReportsE001(t *testing.T) {
	_, p := parseSource(t, "ecrire(1)\nmeow\n")
	if !hasCode(p.Errors(), diagnostics.ErrMissingMiaou) {
		t.Errorf("expected E001, got %v", p.Errors())
	}
}

func TestMissingMeowReportsE002(t *testing.T) {
	_, p := parseSource(t, "miaou\necrire(1)\n")
	if !hasCode(p.Errors(), diagnostics.ErrMissingMeow) {
		t.Errorf("expected E002, got %v", p.Errors())
	}
}

func TestEmptyBlockReportsE003(t *testing.T) {
	src := "miaou\nsi vrai:\nmeow\n"
	_, p := parseSource(t, src)
	if !hasCode(p.Errors(), diagnostics.ErrEmptyBlock) {
		t.Errorf("expected E003 for empty if-block, got %v", p.Errors())
	}
}

func TestArithmeticPrecedence(t *testing.T) {
	prog, p := parseSource(t, "miaou\nx = 1 + 2 * 3\nmeow\n")
	requireNoErrors(t, p)
	assign := prog.Statements[0].(*ast.Assignment)
	bin := assign.Value.(*ast.BinaryOp)
	if bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %q", bin.Op)
	}
	rhs := bin.Right.(*ast.BinaryOp)
	if rhs.Op != "*" {
		t.Fatalf("expected '*' to bind tighter, got %q", rhs.Op)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	prog, p := parseSource(t, "miaou\nx = 2 ** 3 ** 2\nmeow\n")
	requireNoErrors(t, p)
	assign := prog.Statements[0].(*ast.Assignment)
	top := assign.Value.(*ast.BinaryOp)
	if _, ok := top.Right.(*ast.BinaryOp); !ok {
		t.Fatalf("expected right-associative '**' to nest on the right, got %#v", top.Right)
	}
	if _, ok := top.Left.(*ast.Literal); !ok {
		t.Fatalf("expected left operand to be the literal 2, got %#v", top.Left)
	}
}

func TestUnaryMinusBindsTighterThanPower(t *testing.T) {
	prog, p := parseSource(t, "miaou\nx = -2 ** 2\nmeow\n")
	requireNoErrors(t, p)
	assign := prog.Statements[0].(*ast.Assignment)
	top := assign.Value.(*ast.BinaryOp)
	if top.Op != "**" {
		t.Fatalf("expected top-level '**', got %q", top.Op)
	}
	if _, ok := top.Left.(*ast.UnaryOp); !ok {
		t.Fatalf("expected left operand of '**' to be the unary minus, got %#v", top.Left)
	}
}

func TestNonAppliesToWholeComparison(t *testing.T) {
	prog, p := parseSource(t, "miaou\nx = non a == b\nmeow\n")
	requireNoErrors(t, p)
	assign := prog.Statements[0].(*ast.Assignment)
	un := assign.Value.(*ast.UnaryOp)
	if un.Op != "non" {
		t.Fatalf("expected 'non', got %q", un.Op)
	}
	if _, ok := un.Operand.(*ast.BinaryOp); !ok {
		t.Fatalf("expected 'non' to wrap the whole comparison, got %#v", un.Operand)
	}
}

func TestIndexAssignmentVsIndexExpressionStatement(t *testing.T) {
	prog, p := parseSource(t, "miaou\nliste[0] = 5\nliste[0]\nmeow\n")
	requireNoErrors(t, p)
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	if _, ok := prog.Statements[0].(*ast.IndexAssignment); !ok {
		t.Errorf("statement 0: expected IndexAssignment, got %#v", prog.Statements[0])
	}
	es, ok := prog.Statements[1].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("statement 1: expected ExpressionStatement, got %#v", prog.Statements[1])
	}
	if _, ok := es.Expr.(*ast.IndexAccess); !ok {
		t.Errorf("statement 1: expected an IndexAccess expression, got %#v", es.Expr)
	}
}

func TestIfElifElse(t *testing.T) {
	src := "miaou\n" +
		"si a:\n    ecrire(1)\n" +
		"sinon si b:\n    ecrire(2)\n" +
		"sinon:\n    ecrire(3)\n" +
		"meow\n"
	prog, p := parseSource(t, src)
	requireNoErrors(t, p)
	ifStmt := prog.Statements[0].(*ast.If)
	if len(ifStmt.Elifs) != 1 {
		t.Fatalf("expected 1 elif branch, got %d", len(ifStmt.Elifs))
	}
	if ifStmt.Else == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestFunctionDefAndCall(t *testing.T) {
	src := "miaou\n" +
		"fonction doubler(x):\n    retour x * 2\n" +
		"ecrire(doubler(21))\n" +
		"meow\n"
	prog, p := parseSource(t, src)
	requireNoErrors(t, p)
	fn := prog.Statements[0].(*ast.FunctionDef)
	if fn.Name != "doubler" || len(fn.Params) != 1 || fn.Params[0] != "x" {
		t.Fatalf("unexpected function signature: %#v", fn)
	}
	call := prog.Statements[1].(*ast.ExpressionStatement).Expr.(*ast.FunctionCall)
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 call argument, got %d", len(call.Args))
	}
}

func TestListAndDictLiterals(t *testing.T) {
	prog, p := parseSource(t, "miaou\nx = [1, 2, 3]\ny = {\"a\": 1, \"b\": 2}\nmeow\n")
	requireNoErrors(t, p)
	list := prog.Statements[0].(*ast.Assignment).Value.(*ast.ListExpr)
	if len(list.Elements) != 3 {
		t.Fatalf("expected 3 list elements, got %d", len(list.Elements))
	}
	dict := prog.Statements[1].(*ast.Assignment).Value.(*ast.DictExpr)
	if len(dict.Pairs) != 2 {
		t.Fatalf("expected 2 dict pairs, got %d", len(dict.Pairs))
	}
}

func TestTryExceptWithErrorBinding(t *testing.T) {
	src := "miaou\n" +
		"essayer:\n    ecrire(1)\n" +
		"sauf erreur e:\n    ecrire(e)\n" +
		"meow\n"
	prog, p := parseSource(t, src)
	requireNoErrors(t, p)
	te := prog.Statements[0].(*ast.TryExcept)
	if te.ErrName != "e" {
		t.Fatalf("expected error binding 'e', got %q", te.ErrName)
	}
}

func TestImportStatement(t *testing.T) {
	prog, p := parseSource(t, "miaou\nimporter util\nmeow\n")
	requireNoErrors(t, p)
	imp := prog.Statements[0].(*ast.Import)
	if imp.ModuleName != "util" {
		t.Fatalf("expected module name 'util', got %q", imp.ModuleName)
	}
}

func TestMissingColonReportsE104(t *testing.T) {
	src := "miaou\nsi vrai\n    ecrire(1)\nmeow\n"
	_, p := parseSource(t, src)
	if !hasCode(p.Errors(), diagnostics.ErrMissingColon) {
		t.Errorf("expected E104 for missing colon, got %v", p.Errors())
	}
}

func TestCommandCallWithoutParentheses(t *testing.T) {
	prog, p := parseSource(t, "miaou\necrire \"bonjour\"\necrire x\nmeow\n")
	requireNoErrors(t, p)
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	for i, stmt := range prog.Statements {
		es, ok := stmt.(*ast.ExpressionStatement)
		if !ok {
			t.Fatalf("statement %d: expected ExpressionStatement, got %#v", i, stmt)
		}
		call, ok := es.Expr.(*ast.FunctionCall)
		if !ok {
			t.Fatalf("statement %d: expected FunctionCall, got %#v", i, es.Expr)
		}
		if len(call.Args) != 1 {
			t.Fatalf("statement %d: expected 1 argument, got %d", i, len(call.Args))
		}
	}
}

func TestCommandCallArgumentIsAFullExpression(t *testing.T) {
	prog, p := parseSource(t, "miaou\necrire 2 + 3 * 4\nmeow\n")
	requireNoErrors(t, p)
	call := prog.Statements[0].(*ast.ExpressionStatement).Expr.(*ast.FunctionCall)
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 argument, got %d", len(call.Args))
	}
	bin, ok := call.Args[0].(*ast.BinaryOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected the whole arithmetic expression as one argument, got %#v", call.Args[0])
	}
}

func TestTryExceptWithBareErreurBindsDefaultName(t *testing.T) {
	src := "miaou\n" +
		"essayer:\n    ecrire(1)\n" +
		"sauf erreur:\n    ecrire(erreur)\n" +
		"meow\n"
	prog, p := parseSource(t, src)
	requireNoErrors(t, p)
	te := prog.Statements[0].(*ast.TryExcept)
	if te.ErrName != "erreur" {
		t.Fatalf("expected default binding under 'erreur', got %q", te.ErrName)
	}
}

func TestSingleEqualsIsEqualityInExpressionPosition(t *testing.T) {
	src := "miaou\nsi x = 3:\n    ecrire(1)\nmeow\n"
	prog, p := parseSource(t, src)
	requireNoErrors(t, p)
	ifStmt := prog.Statements[0].(*ast.If)
	bin, ok := ifStmt.Cond.(*ast.BinaryOp)
	if !ok || bin.Op != "==" {
		t.Fatalf("expected '=' condition to parse as equality, got %#v", ifStmt.Cond)
	}
}

func TestIndexAssignmentStillWinsOverEquality(t *testing.T) {
	prog, p := parseSource(t, "miaou\nliste[0] = 5\nliste[0] == 5\nmeow\n")
	requireNoErrors(t, p)
	if _, ok := prog.Statements[0].(*ast.IndexAssignment); !ok {
		t.Errorf("statement 0: expected IndexAssignment, got %#v", prog.Statements[0])
	}
	es := prog.Statements[1].(*ast.ExpressionStatement)
	if bin, ok := es.Expr.(*ast.BinaryOp); !ok || bin.Op != "==" {
		t.Errorf("statement 1: expected equality expression, got %#v", es.Expr)
	}
}
