package cmd

import (
	"fmt"
	"os"

	"github.com/arockenbauer/MeowLang/internal/ast"
	"github.com/arockenbauer/MeowLang/internal/diagnostics"
	"github.com/arockenbauer/MeowLang/internal/lexer"
	"github.com/arockenbauer/MeowLang/internal/parser"
	"github.com/spf13/cobra"
)

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse MeowLang source and display the AST",
	Long: `Parse a MeowLang program and display its Abstract Syntax Tree.

If no file is provided, reads from stdin. Use -e to parse inline source.
Use --dump-ast to show the full, indented AST structure instead of the
one-line rendering.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, _, err := loadSource(evalExpr, args)
	if err != nil {
		return err
	}

	program, errs := parseProgram(input)
	if len(errs) > 0 {
		fmt.Fprint(os.Stderr, diagnostics.FormatAll(errs, input))
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	if parseDumpAST {
		fmt.Println("Abstract Syntax Tree:")
		fmt.Println("=====================")
		dumpASTNode(program, 0)
	} else {
		fmt.Println(program.String())
	}

	return nil
}

// parseProgram lexes and parses source, merging lexer and parser
// diagnostics in source order.
func parseProgram(source string) (*ast.Program, []*diagnostics.Diagnostic) {
	l := lexer.New(source)
	tokens := l.Tokenize()
	p := parser.New(tokens)
	program := p.Parse()

	errs := append([]*diagnostics.Diagnostic{}, l.Errors()...)
	errs = append(errs, p.Errors()...)
	return program, errs
}

// dumpProgramAST is the shared --dump-ast step used by both `meow
// parse` and `meow run`: it parses source and prints the indented
// tree; on parse errors it prints them to stderr after the tree and
// returns an error, which stops `meow run` before evaluation.
func dumpProgramAST(source string) error {
	program, errs := parseProgram(source)
	fmt.Println("Abstract Syntax Tree:")
	fmt.Println("=====================")
	dumpASTNode(program, 0)
	if len(errs) > 0 {
		fmt.Fprint(os.Stderr, diagnostics.FormatAll(errs, source))
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}
	return nil
}

func dumpASTNode(node any, indent int) {
	pad := ""
	for i := 0; i < indent; i++ {
		pad += "  "
	}

	switch n := node.(type) {
	case *ast.Program:
		fmt.Printf("%sProgram (%d statements)\n", pad, len(n.Statements))
		for _, stmt := range n.Statements {
			dumpASTNode(stmt, indent+1)
		}
	case *ast.ExpressionStatement:
		fmt.Printf("%sExpressionStatement\n", pad)
		dumpASTNode(n.Expr, indent+1)
	case *ast.Assignment:
		fmt.Printf("%sAssignment: %s\n", pad, n.Name)
		dumpASTNode(n.Value, indent+1)
	case *ast.IndexAssignment:
		fmt.Printf("%sIndexAssignment\n", pad)
		dumpASTNode(n.Target, indent+1)
		dumpASTNode(n.Index, indent+1)
		dumpASTNode(n.Value, indent+1)
	case *ast.If:
		fmt.Printf("%sIf\n", pad)
		dumpASTNode(n.Cond, indent+1)
		fmt.Printf("%s  Then (%d statements)\n", pad, len(n.Then))
		for _, stmt := range n.Then {
			dumpASTNode(stmt, indent+2)
		}
		for _, elif := range n.Elifs {
			fmt.Printf("%s  Elif\n", pad)
			dumpASTNode(elif.Cond, indent+2)
			for _, stmt := range elif.Body {
				dumpASTNode(stmt, indent+2)
			}
		}
		if n.Else != nil {
			fmt.Printf("%s  Else (%d statements)\n", pad, len(n.Else))
			for _, stmt := range n.Else {
				dumpASTNode(stmt, indent+2)
			}
		}
	case *ast.While:
		fmt.Printf("%sWhile\n", pad)
		dumpASTNode(n.Cond, indent+1)
		for _, stmt := range n.Body {
			dumpASTNode(stmt, indent+1)
		}
	case *ast.Repeat:
		fmt.Printf("%sRepeat\n", pad)
		dumpASTNode(n.Count, indent+1)
		for _, stmt := range n.Body {
			dumpASTNode(stmt, indent+1)
		}
	case *ast.ForEach:
		fmt.Printf("%sForEach: %s\n", pad, n.Var)
		dumpASTNode(n.Iter, indent+1)
		for _, stmt := range n.Body {
			dumpASTNode(stmt, indent+1)
		}
	case *ast.FunctionDef:
		fmt.Printf("%sFunctionDef: %s(%v)\n", pad, n.Name, n.Params)
		for _, stmt := range n.Body {
			dumpASTNode(stmt, indent+1)
		}
	case *ast.Return:
		fmt.Printf("%sReturn\n", pad)
		if n.Value != nil {
			dumpASTNode(n.Value, indent+1)
		}
	case *ast.Break:
		fmt.Printf("%sBreak\n", pad)
	case *ast.Continue:
		fmt.Printf("%sContinue\n", pad)
	case *ast.TryExcept:
		fmt.Printf("%sTryExcept (errName=%q)\n", pad, n.ErrName)
		fmt.Printf("%s  Try\n", pad)
		for _, stmt := range n.Try {
			dumpASTNode(stmt, indent+2)
		}
		fmt.Printf("%s  Except\n", pad)
		for _, stmt := range n.Except {
			dumpASTNode(stmt, indent+2)
		}
	case *ast.Import:
		fmt.Printf("%sImport: %s\n", pad, n.ModuleName)
	case *ast.Literal:
		fmt.Printf("%sLiteral (%s): %v\n", pad, n.TypeTag, n.Value)
	case *ast.Identifier:
		fmt.Printf("%sIdentifier: %s\n", pad, n.Name)
	case *ast.BinaryOp:
		fmt.Printf("%sBinaryOp (%s)\n", pad, n.Op)
		dumpASTNode(n.Left, indent+1)
		dumpASTNode(n.Right, indent+1)
	case *ast.UnaryOp:
		fmt.Printf("%sUnaryOp (%s)\n", pad, n.Op)
		dumpASTNode(n.Operand, indent+1)
	case *ast.FunctionCall:
		fmt.Printf("%sFunctionCall\n", pad)
		dumpASTNode(n.Callee, indent+1)
		for _, a := range n.Args {
			dumpASTNode(a, indent+1)
		}
	case *ast.IndexAccess:
		fmt.Printf("%sIndexAccess\n", pad)
		dumpASTNode(n.Target, indent+1)
		dumpASTNode(n.Index, indent+1)
	case *ast.AttributeAccess:
		fmt.Printf("%sAttributeAccess: .%s\n", pad, n.Name)
		dumpASTNode(n.Target, indent+1)
	case *ast.ListExpr:
		fmt.Printf("%sListExpr (%d elements)\n", pad, len(n.Elements))
		for _, e := range n.Elements {
			dumpASTNode(e, indent+1)
		}
	case *ast.DictExpr:
		fmt.Printf("%sDictExpr (%d pairs)\n", pad, len(n.Pairs))
		for _, p := range n.Pairs {
			dumpASTNode(p.Key, indent+1)
			dumpASTNode(p.Value, indent+1)
		}
	default:
		fmt.Printf("%s%T: %v\n", pad, node, node)
	}
}
