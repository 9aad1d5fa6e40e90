// Copyright © 2021 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/tanndlin/tanscript/docs"
	"github.com/tanndlin/tanscript/lang"
)

var builtinsGuide bool

var builtinsCmd = &cobra.Command{
	Use:   "builtins [flags] [names...]",
	Short: "Show documentation for TanScript built-in functions",
	Long: `Show the signature and documentation of built-in functions.  With no
arguments every built-in is listed.  With --guide the language reference is
printed instead.

Examples:
  tanscript builtins
  tanscript builtins range push
  tanscript builtins --guide`,
	Run: func(cmd *cobra.Command, args []string) {
		if builtinsGuide {
			fmt.Fprint(cmd.OutOrStdout(), docs.LangGuide) //nolint:errcheck // best-effort output
			return
		}
		if err := printBuiltins(cmd.OutOrStdout(), lang.DefaultBuiltins(), args); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err) //nolint:errcheck // best-effort error display
			os.Exit(1)
		}
	},
}

func printBuiltins(w io.Writer, builtins map[string]*lang.Builtin, names []string) error {
	if len(names) == 0 {
		names = lang.BuiltinNames(builtins)
	}
	for i, name := range names {
		b, ok := builtins[name]
		if !ok {
			return fmt.Errorf("no built-in function named %s", name)
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		doc := indent.String(wordwrap.String(b.Docs, 72), 2)
		_, err := fmt.Fprintf(w, "%s\n%s\n", signature(b), strings.TrimSuffix(doc, "\n"))
		if err != nil {
			return err
		}
	}
	return nil
}

func signature(b *lang.Builtin) string {
	var params []string
	switch {
	case b.Arity >= 0:
		for i := 0; i < b.Arity; i++ {
			params = append(params, fmt.Sprintf("x%d", i+1))
		}
	default:
		for i := 0; i < -b.Arity-1; i++ {
			params = append(params, fmt.Sprintf("x%d", i+1))
		}
		params = append(params, "...")
	}
	return b.Name + "(" + strings.Join(params, ", ") + ")"
}

func init() {
	rootCmd.AddCommand(builtinsCmd)

	builtinsCmd.Flags().BoolVar(&builtinsGuide, "guide", false,
		"Print the language reference.")
}
