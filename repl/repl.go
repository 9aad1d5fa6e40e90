// Copyright © 2018 The ELPS authors

// Package repl implements an interactive TanScript shell.
package repl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/tanndlin/tanscript/diagnostic"
	"github.com/tanndlin/tanscript/lang"
	"github.com/tanndlin/tanscript/parser"
)

type config struct {
	stdin  io.ReadCloser
	stderr io.WriteCloser
	color  diagnostic.ColorMode
	scope  []lang.Config
}

func newConfig(opts ...Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithColor sets the color mode used when rendering errors.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithScopeConfig adds configuration for the root scope created by RunRepl.
func WithScopeConfig(cfgs ...lang.Config) Option {
	return func(c *config) {
		c.scope = append(c.scope, cfgs...)
	}
}

// RunRepl runs a simple repl in a fresh root scope.
func RunRepl(prompt string, opts ...Option) {
	cfg := newConfig(opts...)
	scopeOpts := []lang.Config{
		lang.WithReader(parser.NewReader()),
	}
	if cfg.stderr != nil {
		scopeOpts = append(scopeOpts, lang.WithStdout(cfg.stderr), lang.WithStderr(cfg.stderr))
	}
	scopeOpts = append(scopeOpts, cfg.scope...)

	s, err := lang.NewRootScope(scopeOpts...)
	if err != nil {
		errlnf("Language initialization failure: %v", err)
		os.Exit(1)
	}

	RunScope(s, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunScope runs a simple repl with s as the root scope.  Input is collected
// until it forms complete statements; cont is the prompt shown while a
// statement is incomplete.
func RunScope(s *lang.Scope, prompt, cont string, opts ...Option) {
	if s.Parent != nil {
		errlnf("REPL scope is not a root scope.")
		os.Exit(1)
	}

	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		s.Runtime.Stderr = cfg.stderr
	}
	out := s.Runtime.Stderr

	histFile := historyPath()
	ensureHistoryFilePermissions(histFile)

	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       histFile,
		HistorySearchFold: true,
		AutoComplete:      &nameCompleter{scope: s},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	var pending bytes.Buffer
	for {
		if pending.Len() == 0 {
			rl.SetPrompt(prompt)
		} else {
			rl.SetPrompt(cont)
		}
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			pending.Reset()
			continue
		}
		if err != nil {
			break
		}
		if pending.Len() == 0 && len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		pending.Write(line)
		pending.WriteByte('\n')

		src := pending.String()
		v, err := s.LoadString("stdin", src)
		if parser.IsIncomplete(err) {
			continue
		}
		pending.Reset()
		if err != nil {
			renderError(out, src, cfg.color, err)
			continue
		}
		if !v.IsVoid() {
			fmt.Fprintln(out, v.Repr()) //nolint:errcheck // best-effort REPL output
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tanscript_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) //#nosec G304
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}

func errlnf(format string, v ...interface{}) {
	if strings.HasSuffix(format, "\n") {
		errf(format, v...)
		return
	}
	errf(format+"\n", v...)
}

func errf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}
