// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tanndlin/tanscript/compiler"
	"github.com/tanndlin/tanscript/diagnostic"
	"github.com/tanndlin/tanscript/parser"
	"gopkg.in/yaml.v3"
)

var (
	checkCompile  bool
	checkYAML     bool
	checkExcludes []string
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [files...]",
	Short: "Report syntax errors in TanScript source files",
	Long: `Parse TanScript source files and report every syntax error found,
without running them.  With --compile, constructs the stack machine
compiler cannot handle are reported as well.

With no files, reads from stdin.  Arguments ending in "/..." expand to every
.tan file below the directory.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files)

Examples:
  tanscript check main.tan
  tanscript check --exclude=vendor ./...
  tanscript check --compile --yaml loop.tan`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(checkFiles(cmd.OutOrStdout(), cmd.ErrOrStderr(), cmd.InOrStdin(), args))
	},
}

// checkSource returns the problems found in src.
func checkSource(name, src string) error {
	prog, err := parser.NewReader().Read(name, strings.NewReader(src))
	if err != nil {
		return err
	}
	if checkCompile {
		_, err = compiler.Compile(prog)
	}
	return err
}

func checkFiles(stdout, stderr io.Writer, stdin io.Reader, args []string) int {
	paths := []string{"-"}
	if len(args) > 0 {
		var err error
		paths, err = expandArgs(args, checkExcludes)
		if err != nil {
			fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort error display
			return 2
		}
	}

	sources := make(map[string]string, len(paths))
	var diags []diagnostic.Diagnostic
	for _, path := range paths {
		name, src, err := readSource(stdin, path)
		if err != nil {
			fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort error display
			return 2
		}
		sources[name] = src
		diags = append(diags, diagnostic.FromError(checkSource(name, src))...)
	}
	if len(diags) == 0 {
		return 0
	}

	if checkYAML {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(diags); err != nil {
			fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort error display
			return 2
		}
		_ = enc.Close()
	} else {
		_ = newRenderer(sources).RenderAll(stderr, diags)
	}
	return 1
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkCompile, "compile", false,
		"Also report constructs the compiler does not support.")
	checkCmd.Flags().BoolVar(&checkYAML, "yaml", false,
		"Output diagnostics as YAML on stdout.")
	checkCmd.Flags().StringArrayVar(&checkExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
}
