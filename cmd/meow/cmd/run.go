package cmd

import (
	"fmt"
	"os"

	"github.com/arockenbauer/MeowLang/pkg/meow"
	"github.com/spf13/cobra"
)

var (
	evalExpr    string
	dumpAST     bool
	trace       bool
	searchPaths []string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a MeowLang file or expression",
	Long: `Execute a MeowLang program from a file or inline expression.

Examples:
  # Run a script file
  meow run script.miaou

  # Evaluate inline source
  meow run -e "miaou
ecrire 42
meow"

  # Run with an execution trace
  meow run --trace script.miaou`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST before execution (for debugging)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "trace execution, one line per statement")
	runCmd.Flags().StringSliceVar(&searchPaths, "search-path", nil, "extra module search paths (overrides MEOWLANG_PATH)")
}

func runScript(cmd *cobra.Command, args []string) error {
	opts := []meow.Option{
		meow.WithOutput(os.Stdout),
		meow.WithInput(os.Stdin),
		meow.WithTrace(trace),
	}
	if len(searchPaths) > 0 {
		opts = append(opts, meow.WithSearchPaths(searchPaths))
	}

	engine, err := meow.New(opts...)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "Module search paths: %v\n", engine.SearchPaths())
	}

	if evalExpr == "" && len(args) != 1 {
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	source, filename, err := loadSource(evalExpr, args)
	if err != nil {
		return err
	}

	if dumpAST {
		if err := dumpProgramAST(source); err != nil {
			return err
		}
	}

	var result *meow.Result
	if evalExpr != "" {
		result, err = engine.Eval(source)
	} else {
		result, err = engine.Run(filename)
	}

	if err != nil {
		if rerr, ok := err.(*meow.RunError); ok {
			fmt.Fprint(os.Stderr, rerr.Format())
			return fmt.Errorf("execution failed")
		}
		return err
	}

	if !result.Success {
		return fmt.Errorf("execution failed")
	}
	return nil
}
