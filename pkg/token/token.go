// Package token defines the lexical token vocabulary shared by the
// lexer, parser, AST, and diagnostic engine.
package token

import (
	"fmt"
	"strings"
)

// Position identifies a point in a source file. Line and Column are
// 1-indexed; Offset is a 0-indexed byte offset into the source text.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String renders the position as "line:column", the form used throughout
// diagnostic messages.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Type identifies the lexical category of a Token.
type Type int

// Token type constants, grouped as in spec.md §3.
const (
	ILLEGAL Type = iota
	EOF

	// Program markers
	MIAOU
	MEOW

	// Literals and identifiers
	IDENT
	NUMBER
	STRING
	BOOLEAN

	// Keywords - conditions
	SI
	SINON
	SINON_SI
	ALORS

	// Keywords - loops
	TANT_QUE
	REPETER
	FOIS
	POUR_CHAQUE
	DANS
	ARRETE
	CONTINUE

	// Keywords - functions
	FONCTION
	RETOUR

	// Keywords - try/except
	ESSAYER
	SAUF
	ERREUR

	// Keywords - import
	IMPORTER

	// Keywords - logical operators
	ET
	OU
	NON

	// Punctuation
	COLON
	COMMA
	LPAREN
	RPAREN
	LBRACK
	RBRACK
	LBRACE
	RBRACE
	DOT

	// Arithmetic operators
	PLUS
	MINUS
	STAR
	SLASH
	SLASH_SLASH
	PERCENT
	STAR_STAR

	// Comparison / assignment
	ASSIGN // =, disambiguated from EQ by the parser/lexer per grammar position
	EQ
	NOT_EQ
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ

	// Layout
	NEWLINE
	INDENT
	DEDENT
)

var typeNames = map[Type]string{
	ILLEGAL:     "ILLEGAL",
	EOF:         "EOF",
	MIAOU:       "MIAOU",
	MEOW:        "MEOW",
	IDENT:       "IDENT",
	NUMBER:      "NUMBER",
	STRING:      "STRING",
	BOOLEAN:     "BOOLEAN",
	SI:          "SI",
	SINON:       "SINON",
	SINON_SI:    "SINON_SI",
	ALORS:       "ALORS",
	TANT_QUE:    "TANT_QUE",
	REPETER:     "REPETER",
	FOIS:        "FOIS",
	POUR_CHAQUE: "POUR_CHAQUE",
	DANS:        "DANS",
	ARRETE:      "ARRETE",
	CONTINUE:    "CONTINUE",
	FONCTION:    "FONCTION",
	RETOUR:      "RETOUR",
	ESSAYER:     "ESSAYER",
	SAUF:        "SAUF",
	ERREUR:      "ERREUR",
	IMPORTER:    "IMPORTER",
	ET:          "ET",
	OU:          "OU",
	NON:         "NON",
	COLON:       "COLON",
	COMMA:       "COMMA",
	LPAREN:      "LPAREN",
	RPAREN:      "RPAREN",
	LBRACK:      "LBRACK",
	RBRACK:      "RBRACK",
	LBRACE:      "LBRACE",
	RBRACE:      "RBRACE",
	DOT:         "DOT",
	PLUS:        "PLUS",
	MINUS:       "MINUS",
	STAR:        "STAR",
	SLASH:       "SLASH",
	SLASH_SLASH: "SLASH_SLASH",
	PERCENT:     "PERCENT",
	STAR_STAR:   "STAR_STAR",
	ASSIGN:      "ASSIGN",
	EQ:          "EQ",
	NOT_EQ:      "NOT_EQ",
	LESS:        "LESS",
	LESS_EQ:     "LESS_EQ",
	GREATER:     "GREATER",
	GREATER_EQ:  "GREATER_EQ",
	NEWLINE:     "NEWLINE",
	INDENT:      "INDENT",
	DEDENT:      "DEDENT",
}

// String returns the canonical name of the token type, used in error
// messages and `meow lex` output.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Token is a single lexical unit: its kind, source text, and position.
type Token struct {
	Type   Type
	Lexeme string
	Pos    Position
}

// New builds a Token at the given position.
func New(typ Type, lexeme string, pos Position) Token {
	return Token{Type: typ, Lexeme: lexeme, Pos: pos}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Lexeme)
}

// singleWordKeywords maps a single folded (lower-cased) word to its token type,
// for keywords that are exactly one word long.
var singleWordKeywords = map[string]Type{
	"si":       SI,
	"sinon":    SINON,
	"alors":    ALORS,
	"repeter":  REPETER,
	"fois":     FOIS,
	"dans":     DANS,
	"arrete":   ARRETE,
	"continue": CONTINUE,
	"fonction": FONCTION,
	"retour":   RETOUR,
	"essayer":  ESSAYER,
	"sauf":     SAUF,
	"erreur":   ERREUR,
	"importer": IMPORTER,
	"et":       ET,
	"ou":       OU,
	"non":      NON,
	"vrai":     BOOLEAN,
	"faux":     BOOLEAN,
	"miaou":    MIAOU,
	"meow":     MEOW,
}

// CompositeKeyword describes a multi-word keyword, e.g. "tant que".
type CompositeKeyword struct {
	Words []string
	Type  Type
}

// compositeKeywords lists every multi-word keyword the lexer must
// greedily recognize, longest word-count first so that a 3-word match
// is attempted before a 2-word one starting with the same prefix.
var compositeKeywords = []CompositeKeyword{
	{Words: []string{"pour", "chaque"}, Type: POUR_CHAQUE},
	{Words: []string{"sinon", "si"}, Type: SINON_SI},
	{Words: []string{"tant", "que"}, Type: TANT_QUE},
}

// CompositeKeywords exposes the composite-keyword table to the lexer.
func CompositeKeywords() []CompositeKeyword {
	return compositeKeywords
}

// LookupWord resolves a single folded word to a keyword token type.
// Returns (IDENT, false) when the word is not a keyword on its own -
// composite keywords are resolved separately by the lexer, since they
// require lookahead across whitespace.
func LookupWord(word string) (Type, bool) {
	typ, ok := singleWordKeywords[strings.ToLower(word)]
	if !ok {
		return IDENT, false
	}
	return typ, ok
}

// IsBooleanLiteral reports whether the folded word spells a boolean
// literal, and what value it carries.
func IsBooleanLiteral(word string) (value bool, ok bool) {
	switch strings.ToLower(word) {
	case "vrai":
		return true, true
	case "faux":
		return false, true
	}
	return false, false
}
