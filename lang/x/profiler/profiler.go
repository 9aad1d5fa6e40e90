// Copyright © 2018 The ELPS authors

// Package profiler provides lang.Profiler implementations that observe user
// function calls.
package profiler

import (
	"fmt"

	"github.com/tanndlin/tanscript/lang"
)

// profiler is a minimal lang.Profiler
type profiler struct {
	runtime    *lang.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

var _ lang.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	p.enabled = false
	return nil
}

func (p *profiler) Start(frame *lang.CallFrame) func() {
	return func() {}
}

// prettyFunName returns a pretty name and original name for the function
// called in frame.  If there is no pretty name, then the pretty name is the
// original name.
func (p *profiler) prettyFunName(frame *lang.CallFrame) (string, string) {
	origLabel := frame.Name
	prettyLabel := origLabel
	if p.funLabeler != nil {
		prettyLabel = p.funLabeler(p.runtime, frame)
	}
	if prettyLabel == "" {
		prettyLabel = origLabel
	}
	return prettyLabel, origLabel
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(frame *lang.CallFrame) bool {
	return !p.enabled || defaultSkipFilter(frame) || p.skipFilter != nil && p.skipFilter(frame)
}
