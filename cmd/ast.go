// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tanndlin/tanscript/optimizer"
	"github.com/tanndlin/tanscript/parser"
)

var astSource bool

var astCmd = &cobra.Command{
	Use:   "ast [flags] file",
	Short: "Dump the syntax tree of a TanScript program",
	Long: `Parse a TanScript program and dump its syntax tree to stdout.  With -O
the tree is dumped after constant folding.  With --source the tree is
printed as TanScript source instead.

Examples:
  tanscript ast main.tan
  tanscript ast -O --source main.tan`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(dumpAST(cmd.OutOrStdout(), cmd.ErrOrStderr(), cmd.InOrStdin(), args[0]))
	},
}

var astDumper = &litter.Options{
	StripPackageNames: true,
	HidePrivateFields: true,
	HideZeroValues:    true,
}

func dumpAST(stdout, stderr io.Writer, stdin io.Reader, path string) int {
	name, src, err := readSource(stdin, path)
	if err != nil {
		fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort error display
		return 2
	}
	prog, err := parser.NewReader().Read(name, strings.NewReader(src))
	if err != nil {
		renderError(stderr, err, map[string]string{name: src})
		return 1
	}
	if viper.GetBool("optimize") {
		prog = (&optimizer.Optimizer{Logf: evalLogf}).Optimize(prog)
	}
	if astSource {
		_, err = fmt.Fprintln(stdout, prog)
	} else {
		_, err = fmt.Fprintln(stdout, astDumper.Sdump(prog))
	}
	if err != nil {
		fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort error display
		return 2
	}
	return 0
}

func init() {
	rootCmd.AddCommand(astCmd)

	astCmd.Flags().BoolVar(&astSource, "source", false,
		"Print the tree as TanScript source.")
}
