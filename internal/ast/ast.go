// Package ast defines MeowLang's abstract syntax tree.
//
// Every node is a plain tagged-variant struct; there is deliberately no
// visitor interface (spec.md §9 calls this out explicitly) - the
// evaluator pattern-matches on concrete node types with a type switch
// instead. Every node carries its source position for diagnostics.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arockenbauer/MeowLang/pkg/token"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
	String() string
}

// Expression is implemented by nodes that produce a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is implemented by nodes that perform an action.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node: the sequence of statements between MIAOU
// and MEOW.
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Statements {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// base carries the position shared by every concrete node, and
// supplies the Pos() method by embedding.
type base struct {
	Position token.Position
}

func (b base) Pos() token.Position { return b.Position }

// ---- Expressions ----

// Literal is a literal value: a number, a string, or a boolean.
type Literal struct {
	base
	Value   any    // int64, float64, string, or bool
	TypeTag string // "number", "text", "boolean"
}

func (*Literal) expressionNode() {}
func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case string:
		return strconv.Quote(v)
	case bool:
		if v {
			return "vrai"
		}
		return "faux"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Identifier is a name reference.
type Identifier struct {
	base
	Name string
}

func (*Identifier) expressionNode() {}
func (i *Identifier) String() string { return i.Name }

// BinaryOp is a binary operator expression.
type BinaryOp struct {
	base
	Op    string
	Left  Expression
	Right Expression
}

func (*BinaryOp) expressionNode() {}
func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

// UnaryOp is a prefix operator expression (non, unary -).
type UnaryOp struct {
	base
	Op      string
	Operand Expression
}

func (*UnaryOp) expressionNode() {}
func (u *UnaryOp) String() string {
	return fmt.Sprintf("(%s%s)", u.Op, u.Operand.String())
}

// FunctionCall applies Callee to Args.
type FunctionCall struct {
	base
	Callee Expression
	Args   []Expression
}

func (*FunctionCall) expressionNode() {}
func (f *FunctionCall) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.Callee.String(), strings.Join(parts, ", "))
}

// IndexAccess reads Target[Index].
type IndexAccess struct {
	base
	Target Expression
	Index  Expression
}

func (*IndexAccess) expressionNode() {}
func (i *IndexAccess) String() string {
	return fmt.Sprintf("%s[%s]", i.Target.String(), i.Index.String())
}

// AttributeAccess reads Target.Name (used for module member access).
type AttributeAccess struct {
	base
	Target Expression
	Name   string
}

func (*AttributeAccess) expressionNode() {}
func (a *AttributeAccess) String() string {
	return fmt.Sprintf("%s.%s", a.Target.String(), a.Name)
}

// ListExpr is a list literal: [a, b, c].
type ListExpr struct {
	base
	Elements []Expression
}

func (*ListExpr) expressionNode() {}
func (l *ListExpr) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

// DictPair is one key/value pair of a DictExpr.
type DictPair struct {
	Key   Expression
	Value Expression
}

// DictExpr is a dict literal: {k: v, ...}.
type DictExpr struct {
	base
	Pairs []DictPair
}

func (*DictExpr) expressionNode() {}
func (d *DictExpr) String() string {
	parts := make([]string, len(d.Pairs))
	for i, p := range d.Pairs {
		parts[i] = fmt.Sprintf("%s: %s", p.Key.String(), p.Value.String())
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// ---- Statements ----

// Assignment binds Value to Name in the current scope rules (see
// evaluator.Environment.Assign).
type Assignment struct {
	base
	Name  string
	Value Expression
}

func (*Assignment) statementNode() {}
func (a *Assignment) String() string {
	return fmt.Sprintf("%s = %s", a.Name, a.Value.String())
}

// IndexAssignment assigns Value to Target[Index].
type IndexAssignment struct {
	base
	Target Expression
	Index  Expression
	Value  Expression
}

func (*IndexAssignment) statementNode() {}
func (i *IndexAssignment) String() string {
	return fmt.Sprintf("%s[%s] = %s", i.Target.String(), i.Index.String(), i.Value.String())
}

// ExpressionStatement wraps an expression evaluated for effect.
type ExpressionStatement struct {
	base
	Expr Expression
}

func (*ExpressionStatement) statementNode() {}
func (e *ExpressionStatement) String() string { return e.Expr.String() }

// ElifBranch is one "sinon si" clause of an If.
type ElifBranch struct {
	Cond Expression
	Body []Statement
}

// If is a conditional with optional elif branches and an else branch.
type If struct {
	base
	Cond  Expression
	Then  []Statement
	Elifs []ElifBranch
	Else  []Statement // nil if no "sinon"
}

func (*If) statementNode() {}
func (i *If) String() string { return fmt.Sprintf("si %s: ...", i.Cond.String()) }

// While is a "tant que" loop.
type While struct {
	base
	Cond Expression
	Body []Statement
}

func (*While) statementNode() {}
func (w *While) String() string { return fmt.Sprintf("tant que %s: ...", w.Cond.String()) }

// Repeat is a "repeter N fois" loop; Count is evaluated once.
type Repeat struct {
	base
	Count Expression
	Body  []Statement
}

func (*Repeat) statementNode() {}
func (r *Repeat) String() string { return fmt.Sprintf("repeter %s fois: ...", r.Count.String()) }

// ForEach is a "pour chaque X dans E" loop.
type ForEach struct {
	base
	Var  string
	Iter Expression
	Body []Statement
}

func (*ForEach) statementNode() {}
func (f *ForEach) String() string {
	return fmt.Sprintf("pour chaque %s dans %s: ...", f.Var, f.Iter.String())
}

// FunctionDef installs a Function value bound to Name.
type FunctionDef struct {
	base
	Name   string
	Params []string
	Body   []Statement
}

func (*FunctionDef) statementNode() {}
func (f *FunctionDef) String() string {
	return fmt.Sprintf("fonction %s(%s): ...", f.Name, strings.Join(f.Params, ", "))
}

// Return unwinds the current call frame with an optional value.
type Return struct {
	base
	Value Expression // nil if bare "retour"
}

func (*Return) statementNode() {}
func (r *Return) String() string {
	if r.Value == nil {
		return "retour"
	}
	return fmt.Sprintf("retour %s", r.Value.String())
}

// Break is "arrete" - breaks out of the innermost loop.
type Break struct{ base }

func (*Break) statementNode() {}
func (*Break) String() string { return "arrete" }

// Continue is "continue" - skips to the next loop iteration.
type Continue struct{ base }

func (*Continue) statementNode() {}
func (*Continue) String() string { return "continue" }

// TryExcept executes Try; on a catchable runtime error, optionally
// binds it under ErrName and executes Except.
type TryExcept struct {
	base
	Try     []Statement
	ErrName string // "" if no "erreur" binding; "erreur" for a bare "sauf erreur"
	Except  []Statement
}

func (*TryExcept) statementNode() {}
func (*TryExcept) String() string { return "essayer: ... sauf: ..." }

// Import loads ModuleName into the current scope under its own name.
type Import struct {
	base
	ModuleName string
}

func (*Import) statementNode() {}
func (i *Import) String() string { return fmt.Sprintf("importer %s", i.ModuleName) }
