// Copyright © 2018 The ELPS authors

// Package tanstest runs TanScript programs from Go tests and benchmarks.
package tanstest

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/tanndlin/tanscript/lang"
	"github.com/tanndlin/tanscript/parser"
)

func BenchmarkParse(path string, r func() lang.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// TestSequence is a sequence of programs which are evaluated sequentially in
// the same root scope.
type TestSequence []struct {
	Expr   string // program source
	Result string // the formatted value of the last statement, or the error
	Output string // output written to Runtime.Stdout
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// Runner evaluates test sequences.
type Runner struct {
	// Config is applied to each root scope after the default configuration.
	Config []lang.Config
}

// NewScope returns a root scope whose output is written to stdout.  When
// tests are run verbosely evaluator debugging output is sent to the test
// log.
func (r *Runner) NewScope(t testing.TB, stdout io.Writer) (*lang.Scope, *Logger, error) {
	logger := NewLogger(t)
	config := []lang.Config{
		lang.WithReader(parser.NewReader()),
		lang.WithStdout(stdout),
		lang.WithStderr(logger),
		lang.WithMaximumStackHeight(10000),
	}
	if testing.Verbose() {
		config = append(config, lang.WithLogf(logger.Logf))
	}
	config = append(config, r.Config...)
	s, err := lang.NewRootScope(config...)
	if err != nil {
		return nil, nil, err
	}
	return s, logger, nil
}

// RunTestSuite runs each TestSequence in tests in an isolated root scope.
func (r *Runner) RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		var out bytes.Buffer
		s, logger, err := r.NewScope(t, &out)
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			out.Reset()
			v, err := s.LoadString("test", expr.Expr)
			result := Format(v, err)
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if out.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, out.String())
			}
		}
		logger.Flush()
	}
}

// RunTestSuite runs each TestSequence in tests using a default Runner.
func RunTestSuite(t *testing.T, tests TestSuite) {
	(&Runner{}).RunTestSuite(t, tests)
}

// Format renders the outcome of evaluating a program.  Errors are rendered
// with their message and string values are quoted so that they can be told
// apart from other values.
func Format(v *lang.Value, err error) string {
	if err != nil {
		return err.Error()
	}
	return v.Repr()
}

// RunBenchmark runs a standard benchmark that evaluates the program in source
// in a fresh root scope b.N times.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	prog, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		s, err := lang.NewRootScope(
			lang.WithReader(p),
			lang.WithStdout(io.Discard),
			lang.WithMaximumStackHeight(10000),
		)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		if _, err := s.EvalProgram(prog); err != nil {
			b.Fatal(err)
		}
		b.StopTimer()
	}
}

// LangError reports err as a test failure including its stack trace when it
// is a *lang.Error.
func LangError(t testing.TB, err error) {
	var lerr *lang.Error
	if !errors.As(err, &lerr) {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := lerr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}
