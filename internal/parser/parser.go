// Package parser implements MeowLang's recursive-descent parser with
// precedence climbing over the expression grammar.
package parser

import (
	"github.com/arockenbauer/MeowLang/internal/ast"
	"github.com/arockenbauer/MeowLang/internal/diagnostics"
	"github.com/arockenbauer/MeowLang/pkg/token"
)

// Precedence levels, lowest to highest, matching the table in spec.md
// §4.2. Prefix operators (non, unary -) are not infix and so have no
// entry here; parseUnary recurses into parseExpression with the level
// at which each one should stop consuming further operators.
const (
	precLowest     = iota
	precOr         // ou
	precAnd        // et
	precNon        // non (prefix)
	precComparison // == != < <= > >=
	precSum        // + -
	precProduct    // * / // %
	precPower      // ** (right-associative)
	precUnaryMinus // unary -
)

var binaryPrecedence = map[token.Type]int{
	token.OU:          precOr,
	token.ET:          precAnd,
	token.EQ:          precComparison,
	token.ASSIGN:      precComparison,
	token.NOT_EQ:      precComparison,
	token.LESS:        precComparison,
	token.LESS_EQ:     precComparison,
	token.GREATER:     precComparison,
	token.GREATER_EQ:  precComparison,
	token.PLUS:        precSum,
	token.MINUS:       precSum,
	token.STAR:        precProduct,
	token.SLASH:       precProduct,
	token.SLASH_SLASH: precProduct,
	token.PERCENT:     precProduct,
	token.STAR_STAR:   precPower,
}

// Parser consumes a flat token slice (the lexer's full output,
// including layout tokens) and produces a Program, accumulating
// diagnostics rather than stopping at the first error.
type Parser struct {
	tokens []token.Token
	pos    int
	errors []*diagnostics.Diagnostic
}

// New creates a Parser over a complete token stream, as produced by
// lexer.Lexer.Tokenize.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 {
		tokens = []token.Token{token.New(token.EOF, "", token.Position{Line: 1, Column: 1})}
	}
	return &Parser{tokens: tokens}
}

// Errors returns every diagnostic accumulated while parsing so far.
func (p *Parser) Errors() []*diagnostics.Diagnostic {
	return p.errors
}

func (p *Parser) addError(d *diagnostics.Diagnostic) {
	p.errors = append(p.errors, d)
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) at(t token.Type) bool {
	return p.cur().Type == t
}

func (p *Parser) advance() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches t, otherwise reports
// E100 and leaves the cursor in place so callers can attempt recovery.
func (p *Parser) expect(t token.Type) (token.Token, bool) {
	if p.at(t) {
		return p.advance(), true
	}
	p.addError(diagnostics.Newf(diagnostics.ErrUnexpectedToken, p.cur().Pos, p.cur().Type.String()).
		WithInstruction(t.String()))
	return p.cur(), false
}

// skipNewlines consumes zero or more NEWLINE tokens, used between
// statements and after block headers.
func (p *Parser) skipNewlines() {
	for p.at(token.NEWLINE) {
		p.advance()
	}
}

// Parse parses the full token stream into a Program. Returns the
// program built so far even when errors were recorded, so callers can
// choose whether a partial AST is still useful; check Errors() first.
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{}

	if !p.at(token.MIAOU) {
		p.addError(diagnostics.New(diagnostics.ErrMissingMiaou, p.cur().Pos))
	} else {
		p.advance()
	}
	p.skipNewlines()

	for !p.at(token.MEOW) && !p.at(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.skipNewlines()
	}

	if !p.at(token.MEOW) {
		p.addError(diagnostics.New(diagnostics.ErrMissingMeow, p.cur().Pos))
	} else {
		p.advance()
	}

	return prog
}

// parseBlock expects ':' NEWLINE INDENT statement+ DEDENT, per spec.md
// §4.2. An empty block is a syntax error (E003); a missing colon is
// E104.
func (p *Parser) parseBlock() []ast.Statement {
	if !p.at(token.COLON) {
		p.addError(diagnostics.New(diagnostics.ErrMissingColon, p.cur().Pos))
	} else {
		p.advance()
	}
	p.skipNewlines()

	if !p.at(token.INDENT) {
		p.addError(diagnostics.New(diagnostics.ErrEmptyBlock, p.cur().Pos))
		return nil
	}
	p.advance()

	var body []ast.Statement
	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			body = append(body, stmt)
		}
		p.skipNewlines()
	}

	if len(body) == 0 {
		p.addError(diagnostics.New(diagnostics.ErrEmptyBlock, p.cur().Pos))
	}

	if p.at(token.DEDENT) {
		p.advance()
	} else {
		p.addError(diagnostics.New(diagnostics.ErrMissingDelimiter, p.cur().Pos))
	}

	return body
}
