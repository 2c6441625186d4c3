package parser

import (
	"strconv"

	"github.com/arockenbauer/MeowLang/internal/ast"
	"github.com/arockenbauer/MeowLang/internal/diagnostics"
	"github.com/arockenbauer/MeowLang/pkg/token"
)

// parseExpression implements precedence climbing over the table in
// spec.md §4.2. minPrec is the lowest-binding operator this call is
// allowed to consume; callers recurse with the same minPrec to make
// an operator right-associative, or with a higher one to make it
// left-associative or to stop short of looser operators (prefix
// operands).
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parseUnary()

	for {
		prec, ok := binaryPrecedence[p.cur().Type]
		if !ok || prec < minPrec {
			break
		}
		opTok := p.advance()
		nextMin := prec + 1
		if opTok.Type == token.STAR_STAR {
			nextMin = prec // right-associative
		}
		right := p.parseExpression(nextMin)
		op := opTok.Lexeme
		if opTok.Type == token.ASSIGN {
			// `=` in expression position is equality; only a statement
			// beginning `IDENT =` reads it as assignment.
			op = "=="
		}
		bin := &ast.BinaryOp{Op: op, Left: left, Right: right}
		bin.Position = opTok.Pos
		left = bin
	}

	return left
}

// parseUnary handles the two prefix operators (non, unary -); anything
// else falls through to a primary expression followed by postfix
// operators.
func (p *Parser) parseUnary() ast.Expression {
	switch p.cur().Type {
	case token.NON:
		tok := p.advance()
		operand := p.parseExpression(precNon)
		u := &ast.UnaryOp{Op: "non", Operand: operand}
		u.Position = tok.Pos
		return u
	case token.MINUS:
		tok := p.advance()
		operand := p.parseExpression(precUnaryMinus)
		u := &ast.UnaryOp{Op: "-", Operand: operand}
		u.Position = tok.Pos
		return u
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

// parsePostfix wraps expr in call/index/attribute nodes for every
// postfix operator that follows, left to right.
func (p *Parser) parsePostfix(expr ast.Expression) ast.Expression {
	for {
		switch p.cur().Type {
		case token.LPAREN:
			expr = p.parseCall(expr)
		case token.LBRACK:
			expr = p.parseIndex(expr)
		case token.DOT:
			expr = p.parseAttribute(expr)
		default:
			return expr
		}
	}
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	pos := p.advance().Pos // (
	var args []ast.Expression
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		args = append(args, p.parseExpression(precLowest))
		if p.at(token.COMMA) {
			p.advance()
			if p.at(token.RPAREN) {
				break // trailing comma
			}
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	call := &ast.FunctionCall{Callee: callee, Args: args}
	call.Position = pos
	return call
}

func (p *Parser) parseIndex(target ast.Expression) ast.Expression {
	pos := p.advance().Pos // [
	index := p.parseExpression(precLowest)
	p.expect(token.RBRACK)
	idx := &ast.IndexAccess{Target: target, Index: index}
	idx.Position = pos
	return idx
}

func (p *Parser) parseAttribute(target ast.Expression) ast.Expression {
	pos := p.advance().Pos // .
	nameTok, _ := p.expect(token.IDENT)
	attr := &ast.AttributeAccess{Target: target, Name: nameTok.Lexeme}
	attr.Position = pos
	return attr
}

// parsePrimary parses atoms: literals, identifiers, list/dict
// literals, and parenthesized expressions.
func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.NUMBER:
		p.advance()
		return p.parseNumberLiteral(tok)
	case token.STRING:
		p.advance()
		lit := &ast.Literal{Value: tok.Lexeme, TypeTag: "text"}
		lit.Position = tok.Pos
		return lit
	case token.BOOLEAN:
		p.advance()
		v, _ := token.IsBooleanLiteral(tok.Lexeme)
		lit := &ast.Literal{Value: v, TypeTag: "boolean"}
		lit.Position = tok.Pos
		return lit
	case token.IDENT:
		p.advance()
		id := &ast.Identifier{Name: tok.Lexeme}
		id.Position = tok.Pos
		return id
	case token.ERREUR:
		// `erreur` is only a keyword directly after `sauf`; in
		// expression position it names the handler's bound error dict.
		p.advance()
		id := &ast.Identifier{Name: "erreur"}
		id.Position = tok.Pos
		return id
	case token.LPAREN:
		p.advance()
		expr := p.parseExpression(precLowest)
		p.expect(token.RPAREN)
		return expr
	case token.LBRACK:
		return p.parseListLiteral()
	case token.LBRACE:
		return p.parseDictLiteral()
	default:
		p.addError(diagnostics.Newf(diagnostics.ErrUnexpectedToken, tok.Pos, tok.Type.String()))
		p.advance()
		lit := &ast.Literal{Value: nil, TypeTag: "nothing"}
		lit.Position = tok.Pos
		return lit
	}
}

func (p *Parser) parseNumberLiteral(tok token.Token) ast.Expression {
	lit := &ast.Literal{TypeTag: "number"}
	lit.Position = tok.Pos
	if containsDot(tok.Lexeme) {
		lit.Value = parseFloatLenient(tok.Lexeme)
	} else {
		lit.Value = parseIntLenient(tok.Lexeme)
	}
	return lit
}

// parseIntLenient and parseFloatLenient convert a NUMBER token's lexeme,
// which the lexer already validated as well-formed digits (optionally
// with a single '.'). A parse failure here would mean a lexer bug, not
// bad user input, so they fall back to a zero value rather than
// reporting a diagnostic.
func parseIntLenient(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloatLenient(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func containsDot(s string) bool {
	for _, r := range s {
		if r == '.' {
			return true
		}
	}
	return false
}

func (p *Parser) parseListLiteral() ast.Expression {
	pos := p.advance().Pos // [
	var elems []ast.Expression
	for !p.at(token.RBRACK) && !p.at(token.EOF) {
		elems = append(elems, p.parseExpression(precLowest))
		if p.at(token.COMMA) {
			p.advance()
			if p.at(token.RBRACK) {
				break
			}
			continue
		}
		break
	}
	p.expect(token.RBRACK)
	l := &ast.ListExpr{Elements: elems}
	l.Position = pos
	return l
}

func (p *Parser) parseDictLiteral() ast.Expression {
	pos := p.advance().Pos // {
	var pairs []ast.DictPair
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		key := p.parseExpression(precLowest)
		p.expect(token.COLON)
		value := p.parseExpression(precLowest)
		pairs = append(pairs, ast.DictPair{Key: key, Value: value})
		if p.at(token.COMMA) {
			p.advance()
			if p.at(token.RBRACE) {
				break
			}
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	d := &ast.DictExpr{Pairs: pairs}
	d.Position = pos
	return d
}
