package cmd

import (
	"fmt"

	"github.com/arockenbauer/MeowLang/internal/diagnostics"
	"github.com/arockenbauer/MeowLang/internal/lexer"
	"github.com/arockenbauer/MeowLang/pkg/token"
	"github.com/spf13/cobra"
)

var (
	showPos    bool
	showType   bool
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a MeowLang file or expression",
	Long: `Tokenize (lex) a MeowLang program and print the resulting tokens.

This command is useful for debugging the lexer and understanding how
MeowLang source code is tokenized, including the synthesized
INDENT/DEDENT/NEWLINE markers.

Examples:
  # Tokenize a script file
  meow lex script.miaou

  # Tokenize an inline expression
  meow lex -e "miaou
ecrire 42
meow"

  # Show token types and positions
  meow lex --show-type --show-pos script.miaou

  # Show only illegal tokens
  meow lex --only-errors script.miaou`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token type names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal tokens")
}

func lexScript(cmd *cobra.Command, args []string) error {
	input, filename, err := loadSource(evalExpr, args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	l := lexer.New(input)
	tokens := l.Tokenize()

	for _, tok := range tokens {
		if onlyErrors && tok.Type != token.ILLEGAL {
			continue
		}
		printToken(tok)
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", len(tokens))
		if n := len(l.Errors()); n > 0 {
			fmt.Printf("Errors: %d\n", n)
		}
	}

	if errs := l.Errors(); len(errs) > 0 {
		fmt.Print(diagnostics.FormatAll(errs, input))
		return fmt.Errorf("found %d lexical error(s)", len(errs))
	}

	return nil
}

func printToken(tok token.Token) {
	var output string

	if showType {
		output = fmt.Sprintf("[%-12s]", tok.Type)
	}

	switch tok.Type {
	case token.EOF:
		output += " EOF"
	case token.ILLEGAL:
		output += fmt.Sprintf(" ILLEGAL: %q", tok.Lexeme)
	case token.NEWLINE, token.INDENT, token.DEDENT:
		output += fmt.Sprintf(" %s", tok.Type)
	default:
		output += fmt.Sprintf(" %q", tok.Lexeme)
	}

	if showPos {
		output += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}

	fmt.Println(output)
}
