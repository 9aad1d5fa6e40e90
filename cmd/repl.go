// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tanndlin/tanscript/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive TanScript REPL",
	Long: `Start an interactive read-eval-print loop for TanScript.

Statements are evaluated as soon as they are complete; an unfinished
statement continues on the next line.  Line editing, history and tab
completion of names, signals, built-ins and keywords are supported via
readline.  Use Ctrl-D to exit and Ctrl-C to discard the current input.

Example REPL session:
  tanscript> let x = 2;
  tanscript> function sq(n) {
             return n * n;
           }
  tanscript> sq(x + 1);
  9
  tanscript> a #= 1;
  tanscript> b $= #a * 10;
  tanscript> a #= 4;
  tanscript> $b;
  40`,
	Run: func(cmd *cobra.Command, args []string) {
		repl.RunRepl(filepath.Base(os.Args[0])+"> ",
			repl.WithColor(colorMode()),
			repl.WithScopeConfig(scopeOptions(os.Stdout, os.Stderr)...),
		)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
