// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	colorFlag string
	verbosity int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tanscript",
	Short: "TanScript interpreter",
	Long: `TanScript is a small dynamically typed scripting language with
reactive signals.  This command runs, compiles and explores TanScript
programs.

Getting started:
  tanscript run file.tan              Run a source file
  tanscript run -e 'print(1 + 2);'    Evaluate a program given as an argument
  tanscript run -O file.tan           Run with constant folding enabled
  tanscript repl                      Start an interactive REPL
  tanscript compile file.tan          Print a stack machine listing
  tanscript check ./...               Report syntax errors in all .tan files
  tanscript ast file.tan              Dump the syntax tree
  tanscript builtins                  List the built-in functions

Language overview:
  Variables are declared with let and functions with function.  Blocks
  introduce scopes; function bodies only see their parameters and globals.
  Signals are written with #name and assigned with "name #= value".
  Computed signals are declared with "name $= expr" and read with $name;
  they are recomputed lazily when a signal they read changes.

Configuration is read from $HOME/.tanscript.yaml and from TANSCRIPT_*
environment variables, e.g. TANSCRIPT_MAX_STEPS=100000.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tanscript.yaml)")
	flags.StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	flags.CountVarP(&verbosity, "verbose", "v",
		"Log more detail (repeat for evaluator debugging output).")
	flags.BoolP("optimize", "O", false,
		"Fold constant expressions before evaluation.")
	flags.Int("max-stack-height", 10000,
		"Maximum number of active function calls (0 for unlimited).")
	flags.Int64("max-steps", 0,
		"Maximum number of evaluation steps (0 for unlimited).")

	_ = viper.BindPFlag("color", flags.Lookup("color"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("optimize", flags.Lookup("optimize"))
	_ = viper.BindPFlag("max-stack-height", flags.Lookup("max-stack-height"))
	_ = viper.BindPFlag("max-steps", flags.Lookup("max-steps"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".tanscript" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".tanscript")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("tanscript")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
