// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/spf13/viper"
	"github.com/tanndlin/tanscript/lang"
	"github.com/tanndlin/tanscript/optimizer"
	"github.com/tanndlin/tanscript/parser"
)

// scopeOptions returns the configuration for a root scope as determined by
// the command line and config file.
func scopeOptions(stdout, stderr io.Writer) []lang.Config {
	config := []lang.Config{
		lang.WithReader(parser.NewReader()),
		lang.WithStdout(stdout),
		lang.WithStderr(stderr),
		lang.WithMaximumStackHeight(viper.GetInt("max-stack-height")),
		lang.WithMaxSteps(viper.GetInt64("max-steps")),
	}
	if viper.GetBool("optimize") {
		config = append(config, lang.WithOptimizer(&optimizer.Optimizer{Logf: evalLogf}))
	}
	if viper.GetInt("verbose") > 1 {
		config = append(config, lang.WithLogf(evalLogf))
	}
	return config
}

func newScope(stdout, stderr io.Writer, extra ...lang.Config) (*lang.Scope, error) {
	return lang.NewRootScope(append(scopeOptions(stdout, stderr), extra...)...)
}
