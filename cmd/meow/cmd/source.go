package cmd

import (
	"fmt"
	"io"
	"os"
)

// loadSource resolves the input source for run/lex/parse: inline code
// via -e, a file argument, or (when neither is given) standard input.
func loadSource(evalExpr string, args []string) (source, filename string, err error) {
	switch {
	case evalExpr != "":
		return evalExpr, "<eval>", nil
	case len(args) == 1:
		data, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return "", "", fmt.Errorf("reading %s: %w", args[0], readErr)
		}
		return string(data), args[0], nil
	default:
		data, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			return "", "", fmt.Errorf("reading stdin: %w", readErr)
		}
		return string(data), "<stdin>", nil
	}
}
