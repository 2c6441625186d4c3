package parser

import (
	"github.com/arockenbauer/MeowLang/internal/ast"
	"github.com/arockenbauer/MeowLang/pkg/token"
)

// parseStatement dispatches on the current token's kind, per the
// table in spec.md §4.2.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case token.SI:
		return p.parseIf()
	case token.TANT_QUE:
		return p.parseWhile()
	case token.REPETER:
		return p.parseRepeat()
	case token.POUR_CHAQUE:
		return p.parseForEach()
	case token.FONCTION:
		return p.parseFunctionDef()
	case token.RETOUR:
		return p.parseReturn()
	case token.ESSAYER:
		return p.parseTryExcept()
	case token.IMPORTER:
		return p.parseImport()
	case token.ARRETE:
		pos := p.advance().Pos
		s := &ast.Break{}
		s.Position = pos
		return s
	case token.CONTINUE:
		pos := p.advance().Pos
		s := &ast.Continue{}
		s.Position = pos
		return s
	case token.IDENT:
		if p.peek().Type == token.ASSIGN {
			return p.parseAssignment()
		}
		if p.peek().Type == token.LBRACK {
			if stmt, ok := p.tryParseIndexAssignment(); ok {
				return stmt
			}
		}
		if startsCommandArg(p.peek().Type) {
			return p.parseCommandCall()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseAssignment() ast.Statement {
	nameTok := p.advance() // IDENT
	p.advance()           // =
	value := p.parseExpression(precLowest)
	a := &ast.Assignment{Name: nameTok.Lexeme, Value: value}
	a.Position = nameTok.Pos
	return a
}

// tryParseIndexAssignment speculatively scans ahead from an IDENT
// followed by '[' to see whether the statement ultimately reaches
// '] =' (an index assignment) rather than being a plain index
// expression statement. The lookahead parses only the postfix chain
// (never across a binary operator), so `liste[0] == 5` stays an
// expression statement while `liste[0] = 5` becomes the assignment.
func (p *Parser) tryParseIndexAssignment() (ast.Statement, bool) {
	save, errLen := p.pos, len(p.errors)
	startTok := p.cur()
	expr := p.parsePostfix(p.parsePrimary())
	idx, ok := expr.(*ast.IndexAccess)
	if !ok || !p.at(token.ASSIGN) {
		p.pos, p.errors = save, p.errors[:errLen]
		return nil, false
	}
	p.advance() // =
	value := p.parseExpression(precLowest)
	s := &ast.IndexAssignment{Target: idx.Target, Index: idx.Index, Value: value}
	s.Position = startTok.Pos
	return s, true
}

// startsCommandArg reports whether a token kind can open the first
// argument of a command-style call (`ecrire "bonjour"`, `ecrire x`),
// the paren-less statement form. Deliberately excludes '(' and '['
// (already postfix/index territory), '-' (reads as binary minus), and
// operators, so `x - 1` and `liste[0]` keep their expression reading.
func startsCommandArg(t token.Type) bool {
	switch t {
	case token.STRING, token.NUMBER, token.BOOLEAN, token.IDENT, token.ERREUR, token.LBRACE, token.NON:
		return true
	default:
		return false
	}
}

// parseCommandCall parses `IDENT arg {, arg}` as a FunctionCall
// expression statement, the command form every builtin can be invoked
// with alongside the ordinary `IDENT(args)` call syntax.
func (p *Parser) parseCommandCall() ast.Statement {
	nameTok := p.advance()
	callee := &ast.Identifier{Name: nameTok.Lexeme}
	callee.Position = nameTok.Pos

	var args []ast.Expression
	for {
		args = append(args, p.parseExpression(precLowest))
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}

	call := &ast.FunctionCall{Callee: callee, Args: args}
	call.Position = nameTok.Pos
	s := &ast.ExpressionStatement{Expr: call}
	s.Position = nameTok.Pos
	return s
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	pos := p.cur().Pos
	expr := p.parseExpression(precLowest)
	s := &ast.ExpressionStatement{Expr: expr}
	s.Position = pos
	return s
}

func (p *Parser) parseIf() ast.Statement {
	pos := p.advance().Pos // si
	cond := p.parseConditionExpr()
	then := p.parseBlock()

	stmt := &ast.If{Cond: cond, Then: then}
	stmt.Position = pos

	for p.at(token.SINON_SI) {
		p.advance()
		elifCond := p.parseConditionExpr()
		elifBody := p.parseBlock()
		stmt.Elifs = append(stmt.Elifs, ast.ElifBranch{Cond: elifCond, Body: elifBody})
	}

	if p.at(token.SINON) {
		p.advance()
		stmt.Else = p.parseBlock()
	}

	return stmt
}

// parseConditionExpr parses a condition, tolerating an optional
// `alors` keyword before the block per spec.md §4.2.
func (p *Parser) parseConditionExpr() ast.Expression {
	expr := p.parseExpression(precLowest)
	if p.at(token.ALORS) {
		p.advance()
	}
	return expr
}

func (p *Parser) parseWhile() ast.Statement {
	pos := p.advance().Pos // tant que
	cond := p.parseExpression(precLowest)
	body := p.parseBlock()
	s := &ast.While{Cond: cond, Body: body}
	s.Position = pos
	return s
}

func (p *Parser) parseRepeat() ast.Statement {
	pos := p.advance().Pos // repeter
	count := p.parseExpression(precLowest)
	if _, ok := p.expect(token.FOIS); !ok {
		// continue anyway; parseBlock will report the missing colon too
	}
	body := p.parseBlock()
	s := &ast.Repeat{Count: count, Body: body}
	s.Position = pos
	return s
}

func (p *Parser) parseForEach() ast.Statement {
	pos := p.advance().Pos // pour chaque
	nameTok, _ := p.expect(token.IDENT)
	if _, ok := p.expect(token.DANS); !ok {
		// keep going; the block parse still reports structural errors
	}
	iter := p.parseExpression(precLowest)
	body := p.parseBlock()
	s := &ast.ForEach{Var: nameTok.Lexeme, Iter: iter, Body: body}
	s.Position = pos
	return s
}

func (p *Parser) parseFunctionDef() ast.Statement {
	pos := p.advance().Pos // fonction
	nameTok, _ := p.expect(token.IDENT)

	var params []string
	if _, ok := p.expect(token.LPAREN); ok {
		if !p.at(token.RPAREN) {
			for {
				paramTok, _ := p.expect(token.IDENT)
				params = append(params, paramTok.Lexeme)
				if p.at(token.COMMA) {
					p.advance()
					continue
				}
				break
			}
		}
		p.expect(token.RPAREN)
	}

	body := p.parseBlock()
	s := &ast.FunctionDef{Name: nameTok.Lexeme, Params: params, Body: body}
	s.Position = pos
	return s
}

func (p *Parser) parseReturn() ast.Statement {
	pos := p.advance().Pos // retour
	s := &ast.Return{}
	s.Position = pos
	if !p.at(token.NEWLINE) && !p.at(token.DEDENT) && !p.at(token.EOF) {
		s.Value = p.parseExpression(precLowest)
	}
	return s
}

func (p *Parser) parseTryExcept() ast.Statement {
	pos := p.advance().Pos // essayer
	tryBody := p.parseBlock()

	s := &ast.TryExcept{Try: tryBody}
	s.Position = pos

	if _, ok := p.expect(token.SAUF); !ok {
		return s
	}
	if p.at(token.ERREUR) {
		p.advance()
		// `sauf erreur:` with no explicit name binds under "erreur"
		// itself; `sauf erreur e:` binds under e.
		s.ErrName = "erreur"
		if p.at(token.IDENT) {
			s.ErrName = p.advance().Lexeme
		}
	}
	s.Except = p.parseBlock()
	return s
}

func (p *Parser) parseImport() ast.Statement {
	pos := p.advance().Pos // importer
	nameTok, _ := p.expect(token.IDENT)
	s := &ast.Import{ModuleName: nameTok.Lexeme}
	s.Position = pos
	return s
}
