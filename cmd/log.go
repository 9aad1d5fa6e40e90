// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("tanscript")

// configureLogging sets the log verbosity from the verbose setting.  Notices
// and more severe messages are always logged; -v adds info and -vv debug.
func configureLogging() {
	commonlog.Configure(viper.GetInt("verbose"), nil)
}

// evalLogf receives evaluator debugging output.  It is only attached to the
// runtime at the highest verbosity.
func evalLogf(format string, v ...interface{}) {
	log.Debugf(format, v...)
}
