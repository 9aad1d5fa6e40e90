// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tanndlin/tanscript/compiler"
	"github.com/tanndlin/tanscript/optimizer"
	"github.com/tanndlin/tanscript/parser"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file",
	Short: "Print the stack machine listing of a TanScript program",
	Long: `Compile a TanScript program to stack machine instructions and print the
listing to stdout.

Only integer arithmetic, booleans, variables, blocks, if, while and print
can be compiled.  Every construct outside of that subset is reported.
With -O the program is constant folded before it is compiled.

Examples:
  tanscript compile loop.tan
  tanscript compile -O loop.tan
  echo 'print(2 * 21);' | tanscript compile -`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(compileProgram(cmd.OutOrStdout(), cmd.ErrOrStderr(), cmd.InOrStdin(), args[0]))
	},
}

func readSource(stdin io.Reader, path string) (string, string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return "<stdin>", string(b), nil
	}
	b, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return "", "", err
	}
	return path, string(b), nil
}

func compileProgram(stdout, stderr io.Writer, stdin io.Reader, path string) int {
	name, src, err := readSource(stdin, path)
	if err != nil {
		fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort error display
		return 2
	}
	sources := map[string]string{name: src}
	prog, err := parser.NewReader().Read(name, strings.NewReader(src))
	if err != nil {
		renderError(stderr, err, sources)
		return 1
	}
	if viper.GetBool("optimize") {
		prog = (&optimizer.Optimizer{Logf: evalLogf}).Optimize(prog)
	}
	code, err := compiler.Compile(prog)
	if err != nil {
		renderError(stderr, err, sources, "run the program with: tanscript run "+path)
		return 1
	}
	_, err = io.WriteString(stdout, compiler.Disassemble(code))
	if err != nil {
		fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort error display
		return 2
	}
	return 0
}

func init() {
	rootCmd.AddCommand(compileCmd)
}
